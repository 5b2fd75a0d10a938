package loader

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// PhaseSummary is the per-phase part of a Report.
type PhaseSummary struct {
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"`
	Duration time.Duration `json:"duration_ns"`
	Error    string        `json:"error,omitempty"`
}

// Report is the success artifact of a pipeline run.
type Report struct {
	RunID            string                   `json:"run_id"`
	Status           domain.LoadRunStatus     `json:"status"`
	Lemmas           int                      `json:"lemmas"`
	Entries          int                      `json:"entries"`
	Definitions      int                      `json:"definitions"`
	Synonyms         int                      `json:"synonyms"`
	References       int                      `json:"references"`
	SkippedEntries   int                      `json:"skipped_entries"`
	DefinitionsByPOS map[string]int           `json:"definitions_by_pos"`
	ReferencesByKind map[string]int           `json:"references_by_kind"`
	Cached           int                      `json:"cached_fields,omitempty"`
	Graph            *domain.GraphSyncStats   `json:"graph,omitempty"`
	Store            *domain.StoreStats       `json:"store,omitempty"`
	Samples          []domain.ReferenceSample `json:"samples,omitempty"`
	Phases           map[string]PhaseSummary  `json:"phases"`
}

func newReport(runID string) *Report {
	return &Report{
		RunID:            runID,
		Status:           domain.LoadRunStatusRunning,
		DefinitionsByPOS: make(map[string]int),
		ReferencesByKind: make(map[string]int),
		Phases:           make(map[string]PhaseSummary),
	}
}

// Log writes the report summary as one structured record.
func (r *Report) Log(log *slog.Logger) {
	attrs := []any{
		slog.String("run_id", r.RunID),
		slog.String("status", string(r.Status)),
		slog.Int("lemmas", r.Lemmas),
		slog.Int("entries", r.Entries),
		slog.Int("definitions", r.Definitions),
		slog.Int("synonyms", r.Synonyms),
		slog.Int("references", r.References),
		slog.Int("skipped_entries", r.SkippedEntries),
	}
	if r.Graph != nil {
		attrs = append(attrs, slog.Int("graph_nodes", r.Graph.Nodes))
	}
	if r.Cached > 0 {
		attrs = append(attrs, slog.Int("cached_fields", r.Cached))
	}
	log.Info("load report", attrs...)
}

// Print writes a human-readable summary to w.
func (r *Report) Print(w io.Writer) error {
	p := &printer{w: w}

	p.printf("Load run %s (%s)\n", r.RunID, r.Status)
	for _, name := range sortedKeys(r.Phases) {
		ph := r.Phases[name]
		status := "ok"
		if ph.Error != "" {
			status = "FAILED: " + ph.Error
		}
		p.printf("  phase %-12s %8s inserted=%d skipped=%d %s\n",
			name, ph.Duration.Round(time.Millisecond), ph.Inserted, ph.Skipped, status)
	}

	p.printf("\nLemmas loaded:        %d\n", r.Lemmas)
	p.printf("Entries aggregated:   %d\n", r.Entries)
	p.printf("Definitions:          %d\n", r.Definitions)
	p.printf("Synonym edges:        %d\n", r.Synonyms)
	p.printf("Word references:      %d\n", r.References)
	p.printf("Skipped entries:      %d\n", r.SkippedEntries)

	if len(r.DefinitionsByPOS) > 0 {
		p.printf("\nDefinitions by part of speech:\n")
		for _, pos := range sortedKeys(r.DefinitionsByPOS) {
			p.printf("  %-22s %d\n", domain.PartOfSpeech(pos).Label(), r.DefinitionsByPOS[pos])
		}
	}
	if len(r.ReferencesByKind) > 0 {
		p.printf("\nReferences by type:\n")
		for _, kind := range sortedKeys(r.ReferencesByKind) {
			p.printf("  %-22s %d\n", kind, r.ReferencesByKind[kind])
		}
	}

	if r.Store != nil {
		p.printf("\nStored totals: definitions=%d synonyms=%d references=%d lemmas_with_definitions=%d\n",
			r.Store.TotalDefinitions, r.Store.TotalSynonyms, r.Store.TotalReferences, r.Store.LemmasWithDefinitions)
		for _, table := range sortedKeys(r.Store.TableCounts) {
			p.printf("  %-22s %d rows\n", table, r.Store.TableCounts[table])
		}
	}

	if len(r.Samples) > 0 {
		p.printf("\nSample cross-references:\n")
		for _, s := range r.Samples {
			p.printf("  %s: %q -> [%s] at %d -> %s\n", s.SourceLemma, s.Definition, s.WordText, s.Position, s.TargetLemma)
		}
	}
	return p.err
}

// printer remembers the first write error.
type printer struct {
	w   io.Writer
	err error
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
