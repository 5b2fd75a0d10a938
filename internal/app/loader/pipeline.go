package loader

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexigraph/internal/crossref"
	"github.com/heartmarshall/lexigraph/internal/domain"
	"github.com/heartmarshall/lexigraph/internal/lexicon"
	"github.com/heartmarshall/lexigraph/internal/source/frequency"
	"github.com/heartmarshall/lexigraph/internal/source/wordnet"
	"github.com/heartmarshall/lexigraph/pkg/ctxutil"
)

// Phase names, in canonical execution order.
const (
	PhaseLemmas      = "lemmas"
	PhaseDefinitions = "definitions"
	PhaseCache       = "cache"
	PhaseGraph       = "graph"
	PhaseStats       = "stats"
)

var allPhases = []string{PhaseLemmas, PhaseDefinitions, PhaseCache, PhaseGraph, PhaseStats}

// ParsePhases splits a comma-separated phase list. An empty list selects
// every phase. Unknown names are rejected.
func ParsePhases(s string) ([]string, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var phases []string
	for _, ph := range strings.Split(s, ",") {
		ph = strings.TrimSpace(ph)
		if ph == "" {
			continue
		}
		if !slices.Contains(allPhases, ph) {
			return nil, fmt.Errorf("unknown phase %q (want one of %s)", ph, strings.Join(allPhases, ","))
		}
		phases = append(phases, ph)
	}
	return phases, nil
}

// PhaseResult holds the outcome of a single pipeline phase.
type PhaseResult struct {
	Inserted int
	Skipped  int
	Duration time.Duration
	Err      error
}

func (r PhaseResult) summary() PhaseSummary {
	s := PhaseSummary{Inserted: r.Inserted, Skipped: r.Skipped, Duration: r.Duration}
	if r.Err != nil {
		s.Error = r.Err.Error()
	}
	return s
}

// Pipeline orchestrates the lexicon load.
type Pipeline struct {
	log     *slog.Logger
	store   Store
	tx      TxManager
	cache   EntryCache
	graph   GraphSink
	cfg     Config
	results map[string]PhaseResult
	report  *Report

	// Shared between phases of one run.
	entries      []domain.LexicalEntry
	parsedLemmas []domain.Lemma
}

// Option configures optional pipeline sinks.
type Option func(*Pipeline)

// WithEntryCache enables the cache phase.
func WithEntryCache(c EntryCache) Option {
	return func(p *Pipeline) { p.cache = c }
}

// WithGraphSink enables the graph phase.
func WithGraphSink(g GraphSink) Option {
	return func(p *Pipeline) { p.graph = g }
}

// NewPipeline creates a new Pipeline.
func NewPipeline(log *slog.Logger, store Store, tx TxManager, cfg Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		log:     log,
		store:   store,
		tx:      tx,
		cfg:     cfg,
		results: make(map[string]PhaseResult),
		report:  newReport(uuid.NewString()),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Results returns phase results after Run completes.
func (p *Pipeline) Results() map[string]PhaseResult {
	return p.results
}

// Report returns the run report. It is complete once Run returns.
func (p *Pipeline) Report() *Report {
	return p.report
}

// HasErrors returns true if any phase recorded an error.
func (p *Pipeline) HasErrors() bool {
	for _, r := range p.results {
		if r.Err != nil {
			return true
		}
	}
	return false
}

// Run executes the pipeline. If phases is non-empty, only the listed phases
// run, still in canonical order. The first failed phase stops the run; its
// writes have already been rolled back.
func (p *Pipeline) Run(ctx context.Context, phases []string) error {
	toRun := allPhases
	if len(phases) > 0 {
		toRun = slices.DeleteFunc(slices.Clone(allPhases), func(ph string) bool {
			return !slices.Contains(phases, ph)
		})
	}

	ctx = ctxutil.WithRunID(ctx, p.report.RunID)
	p.log.InfoContext(ctx, "pipeline started",
		slog.String("phases", strings.Join(toRun, ",")),
		slog.Bool("dry_run", p.cfg.DryRun),
		slog.Bool("clear_existing", p.cfg.ClearExisting),
	)

	for _, phase := range toRun {
		start := time.Now()
		p.log.InfoContext(ctx, "starting phase", slog.String("phase", phase))

		runID, err := p.startRun(ctx, phase)
		if err != nil {
			p.report.Status = domain.LoadRunStatusFailed
			return err
		}

		phaseCtx := ctxutil.WithPhase(ctx, phase)
		var result PhaseResult
		switch phase {
		case PhaseLemmas:
			result = p.runLemmas(phaseCtx)
		case PhaseDefinitions:
			result = p.runDefinitions(phaseCtx)
		case PhaseCache:
			result = p.runCache(phaseCtx)
		case PhaseGraph:
			result = p.runGraph(phaseCtx)
		case PhaseStats:
			result = p.runStats(phaseCtx)
		}
		result.Duration = time.Since(start)
		p.results[phase] = result
		p.report.Phases[phase] = result.summary()
		p.finishRun(ctx, runID, phase, result)

		if result.Err != nil {
			p.log.ErrorContext(ctx, "phase failed",
				slog.String("phase", phase),
				slog.String("error", result.Err.Error()),
				slog.Duration("duration", result.Duration),
			)
			p.report.Status = domain.LoadRunStatusFailed
			return fmt.Errorf("phase %s: %w", phase, result.Err)
		}
		p.log.InfoContext(ctx, "phase completed",
			slog.String("phase", phase),
			slog.Int("inserted", result.Inserted),
			slog.Int("skipped", result.Skipped),
			slog.Duration("duration", result.Duration),
		)
	}

	p.report.Status = domain.LoadRunStatusSucceeded
	if p.cfg.DryRun {
		p.report.Status = domain.LoadRunStatusDryRun
	}
	p.log.InfoContext(ctx, "pipeline completed", slog.Int("phases_run", len(toRun)))
	return nil
}

// startRun records a running load_runs row. Dry runs write nothing and get
// an empty id.
func (p *Pipeline) startRun(ctx context.Context, phase string) (string, error) {
	if p.cfg.DryRun {
		return "", nil
	}
	run, err := p.store.StartLoadRun(ctx, phase)
	if err != nil {
		return "", fmt.Errorf("start load run %s: %w", phase, err)
	}
	return run.ID, nil
}

// finishRun closes the load_runs row. It runs even when ctx is already
// cancelled so failed phases are still recorded.
func (p *Pipeline) finishRun(ctx context.Context, runID, phase string, result PhaseResult) {
	if runID == "" {
		return
	}
	status := domain.LoadRunStatusSucceeded
	if result.Err != nil {
		status = domain.LoadRunStatusFailed
	}

	raw, err := json.Marshal(struct {
		PipelineRunID string `json:"pipeline_run_id"`
		PhaseSummary
	}{p.report.RunID, result.summary()})
	if err != nil {
		p.log.WarnContext(ctx, "encode load run report", slog.String("phase", phase), slog.String("error", err.Error()))
		return
	}

	if err := p.store.FinishLoadRun(context.WithoutCancel(ctx), runID, status, raw); err != nil {
		p.log.WarnContext(ctx, "finish load run", slog.String("phase", phase), slog.String("error", err.Error()))
	}
}

// runLemmas parses the frequency list and upserts the lemma table.
func (p *Pipeline) runLemmas(ctx context.Context) PhaseResult {
	if p.cfg.FrequencyPath == "" {
		return PhaseResult{Skipped: 1, Err: errors.New("frequency path not configured")}
	}

	lemmas, stats, err := frequency.Parse(p.cfg.FrequencyPath)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("parse frequency list: %w", err)}
	}
	p.log.InfoContext(ctx, "frequency list parsed",
		slog.Int("rows", stats.Rows),
		slog.Int("lemmas", stats.Lemmas),
		slog.Int("duplicates", stats.Duplicates),
		slog.Int("empty", stats.Empty),
	)
	p.parsedLemmas = lemmas
	p.report.Lemmas = len(lemmas)

	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(lemmas)}
	}

	var inserted int
	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		languageID, err := p.store.EnsureLanguage(ctx, p.cfg.LanguageCode, p.cfg.LanguageName)
		if err != nil {
			return fmt.Errorf("ensure language: %w", err)
		}
		inserted, err = batchProcess(lemmas, p.cfg.BatchSize, func(batch []domain.Lemma) (int, error) {
			return p.store.BulkUpsertLemmas(ctx, languageID, batch)
		})
		if err != nil {
			return fmt.Errorf("upsert lemmas: %w", err)
		}
		return nil
	})
	if err != nil {
		return PhaseResult{Err: err}
	}
	return PhaseResult{Inserted: inserted}
}

// runDefinitions derives definitions, synonyms and cross-references from the
// WordNet resource and writes them in one transaction.
func (p *Pipeline) runDefinitions(ctx context.Context) PhaseResult {
	entries, err := p.loadEntries(ctx)
	if err != nil {
		return PhaseResult{Err: err}
	}

	if p.cfg.ExportPath != "" {
		if err := WriteExport(p.cfg.ExportPath, entries); err != nil {
			return PhaseResult{Err: err}
		}
		p.log.InfoContext(ctx, "entries exported", slog.String("path", p.cfg.ExportPath), slog.Int("entries", len(entries)))
	}

	refs, err := p.lemmaRefs(ctx)
	if err != nil {
		return PhaseResult{Err: err}
	}
	cache := crossref.NewLemmaCache(refs)
	resolver := crossref.NewResolver(cache, p.cfg.MinWordLength)
	p.log.InfoContext(ctx, "lemma cache built", slog.Int("lemmas", cache.Len()), slog.Int("min_word_length", resolver.MinLength()))

	plan, err := buildPlan(ctx, entries, cache, resolver, p.cfg.Workers)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("plan definitions: %w", err)}
	}
	for _, s := range plan.Skipped {
		p.log.WarnContext(ctx, "lemma not found, skipping entry", slog.String("lemma", s.Lemma), slog.String("pos", string(s.POS)))
	}

	p.report.SkippedEntries = len(plan.Skipped)
	p.report.Definitions = len(plan.Definitions)
	p.report.References = plan.References()
	p.report.Synonyms = len(plan.Synonyms)
	p.report.DefinitionsByPOS = plan.DefinitionsByPOS()
	p.report.ReferencesByKind = plan.ReferencesByKind()

	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(plan.Definitions)}
	}

	var written writeCounts
	err = p.tx.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		written, err = p.writePlan(ctx, plan)
		return err
	})
	if err != nil {
		return PhaseResult{Err: err}
	}

	p.report.Synonyms = written.synonyms
	p.report.References = written.references
	p.refreshStoreStats(ctx)

	return PhaseResult{
		Inserted: written.definitions + written.synonyms + written.references,
		Skipped:  len(plan.Skipped),
	}
}

type writeCounts struct {
	definitions int
	references  int
	synonyms    int
}

// writePlan clears derived rows when configured, then inserts definitions
// batch by batch, each followed by the references that point at it.
func (p *Pipeline) writePlan(ctx context.Context, plan *Plan) (writeCounts, error) {
	var counts writeCounts

	if p.cfg.ClearExisting {
		deleted, err := p.store.ClearDerived(ctx)
		if err != nil {
			return counts, fmt.Errorf("clear derived rows: %w", err)
		}
		p.log.InfoContext(ctx, "existing rows cleared",
			slog.Int64("word_references", deleted["word_references"]),
			slog.Int64("synonyms", deleted["synonyms"]),
			slog.Int64("definitions", deleted["definitions"]),
		)
	}

	var err error
	counts.definitions, err = batchProcess(plan.Definitions, p.cfg.BatchSize, func(batch []plannedDefinition) (int, error) {
		defs := make([]domain.Definition, len(batch))
		for i, pd := range batch {
			defs[i] = pd.def
		}
		ids, err := p.store.InsertDefinitions(ctx, defs)
		if err != nil {
			return 0, err
		}

		var refs []domain.CrossReference
		for i, pd := range batch {
			for _, ref := range pd.refs {
				ref.OwnerID = ids[i]
				refs = append(refs, ref)
			}
		}
		n, err := p.store.InsertReferences(ctx, refs)
		if err != nil {
			return 0, err
		}
		counts.references += int(n)
		p.log.DebugContext(ctx, "definition batch written", slog.Int("definitions", len(ids)), slog.Int64("references", n))
		return len(ids), nil
	})
	if err != nil {
		return counts, fmt.Errorf("insert definitions: %w", err)
	}

	counts.synonyms, err = batchProcess(plan.Synonyms, p.cfg.BatchSize, func(batch []domain.SynonymEdge) (int, error) {
		return p.store.BulkInsertSynonyms(ctx, batch)
	})
	if err != nil {
		return counts, fmt.Errorf("insert synonyms: %w", err)
	}
	return counts, nil
}

// runCache publishes aggregated entries to the entry cache.
func (p *Pipeline) runCache(ctx context.Context) PhaseResult {
	if p.cache == nil {
		p.log.InfoContext(ctx, "entry cache not configured, skipping")
		return PhaseResult{Skipped: 1}
	}

	entries, err := p.loadEntries(ctx)
	if err != nil {
		return PhaseResult{Err: err}
	}
	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(entries)}
	}

	if p.cfg.ClearExisting {
		purged, err := p.cache.Purge(ctx)
		if err != nil {
			return PhaseResult{Err: fmt.Errorf("purge entry cache: %w", err)}
		}
		p.log.InfoContext(ctx, "entry cache purged", slog.Int64("keys", purged))
	}

	n, err := p.cache.Publish(ctx, entries, p.cfg.BatchSize)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("publish entries: %w", err)}
	}
	p.report.Cached = n
	return PhaseResult{Inserted: n}
}

// runGraph mirrors the lemma graph into the graph store.
func (p *Pipeline) runGraph(ctx context.Context) PhaseResult {
	if p.graph == nil {
		p.log.InfoContext(ctx, "graph store not configured, skipping")
		return PhaseResult{Skipped: 1}
	}

	entries, err := p.loadEntries(ctx)
	if err != nil {
		return PhaseResult{Err: err}
	}
	if p.cfg.DryRun {
		return PhaseResult{Skipped: len(entries)}
	}

	if p.cfg.ClearExisting {
		if err := p.graph.Purge(ctx); err != nil {
			return PhaseResult{Err: fmt.Errorf("purge graph: %w", err)}
		}
	}

	stats, err := p.graph.Sync(ctx, entries)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("sync graph: %w", err)}
	}
	p.report.Graph = &stats
	return PhaseResult{Inserted: stats.Nodes + stats.Synonyms + stats.Hypernyms}
}

// runStats reads store statistics and a sample of cross-references.
func (p *Pipeline) runStats(ctx context.Context) PhaseResult {
	stats, err := p.store.Stats(ctx)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("collect statistics: %w", err)}
	}
	p.report.Store = &stats

	samples, err := p.store.SampleReferences(ctx, p.cfg.SampleSize)
	if err != nil {
		return PhaseResult{Err: fmt.Errorf("sample references: %w", err)}
	}
	p.report.Samples = samples

	p.log.InfoContext(ctx, "store statistics",
		slog.Int64("definitions", stats.TotalDefinitions),
		slog.Int64("synonyms", stats.TotalSynonyms),
		slog.Int64("word_references", stats.TotalReferences),
		slog.Int64("lemmas_with_definitions", stats.LemmasWithDefinitions),
	)
	return PhaseResult{}
}

// refreshStoreStats snapshots statistics after a write. Failures are logged only.
func (p *Pipeline) refreshStoreStats(ctx context.Context) {
	stats, err := p.store.Stats(ctx)
	if err != nil {
		p.log.WarnContext(ctx, "collect statistics", slog.String("error", err.Error()))
		return
	}
	p.report.Store = &stats
}

// loadEntries parses and aggregates the WordNet resource once per run.
func (p *Pipeline) loadEntries(ctx context.Context) ([]domain.LexicalEntry, error) {
	if p.entries != nil {
		return p.entries, nil
	}
	if p.cfg.WordNetPath == "" {
		return nil, errors.New("wordnet path not configured")
	}

	parsed, err := wordnet.Parse(p.cfg.WordNetPath)
	if err != nil {
		return nil, fmt.Errorf("parse wordnet: %w", err)
	}
	p.log.InfoContext(ctx, "wordnet parsed",
		slog.Int("entries", parsed.Stats.TotalEntries),
		slog.Int("senses", parsed.Stats.TotalSenses),
		slog.Int("synsets", parsed.Stats.TotalSynsets),
		slog.Int("hypernym_edges", parsed.Stats.HypernymEdges),
		slog.Int("skipped", parsed.Stats.SkippedEntries),
	)

	g := lexicon.BuildGraph(parsed.Resource)
	entries, err := lexicon.AggregateParallel(ctx, g, parsed.Resource.Entries, p.cfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("aggregate entries: %w", err)
	}
	p.log.InfoContext(ctx, "entries aggregated", slog.Int("entries", len(entries)), slog.Int("senses", g.Len()))

	p.entries = entries
	p.report.Entries = len(entries)
	return entries, nil
}

// lemmaRefs returns the lemmas cross-references may point at. A dry run that
// parsed the frequency list in this run uses it with provisional ids, since
// nothing was written.
func (p *Pipeline) lemmaRefs(ctx context.Context) ([]domain.LemmaRef, error) {
	if p.cfg.DryRun && p.parsedLemmas != nil {
		refs := make([]domain.LemmaRef, len(p.parsedLemmas))
		for i, l := range p.parsedLemmas {
			refs[i] = domain.LemmaRef{ID: int64(i + 1), Lemma: l.Text}
		}
		return refs, nil
	}

	languageID, err := p.store.LanguageID(ctx, p.cfg.LanguageCode)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("language %q has no lemmas, run the %s phase first: %w", p.cfg.LanguageCode, PhaseLemmas, err)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup language: %w", err)
	}

	refs, err := p.store.ListLemmaRefs(ctx, languageID)
	if err != nil {
		return nil, fmt.Errorf("list lemmas: %w", err)
	}
	return refs, nil
}

// batchProcess splits items into batches and processes each via fn.
func batchProcess[T any](items []T, batchSize int, fn func([]T) (int, error)) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	total := 0
	for i := 0; i < len(items); i += batchSize {
		end := min(i+batchSize, len(items))
		n, err := fn(items[i:end])
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}
