package loader

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexigraph/internal/crossref"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

// plannedDefinition is a definition row together with the references found
// in its definition and example text. Reference owner ids are assigned once
// the definition has been inserted.
type plannedDefinition struct {
	def  domain.Definition
	refs []domain.CrossReference
}

// skippedEntry names an entry whose lemma is not in the lemma table.
type skippedEntry struct {
	Lemma string
	POS   domain.PartOfSpeech
}

// Plan is the full set of rows the definitions phase will write.
type Plan struct {
	Definitions []plannedDefinition
	Synonyms    []domain.SynonymEdge
	Skipped     []skippedEntry
}

// References returns the number of planned cross-references.
func (p *Plan) References() int {
	n := 0
	for _, d := range p.Definitions {
		n += len(d.refs)
	}
	return n
}

// DefinitionsByPOS counts planned definitions per part of speech.
func (p *Plan) DefinitionsByPOS() map[string]int {
	out := make(map[string]int)
	for _, d := range p.Definitions {
		out[string(d.def.POS)]++
	}
	return out
}

// ReferencesByKind counts planned cross-references per reference kind.
func (p *Plan) ReferencesByKind() map[string]int {
	out := make(map[string]int)
	for _, d := range p.Definitions {
		for _, ref := range d.refs {
			out[string(ref.Kind)]++
		}
	}
	return out
}

type entryPlan struct {
	defs     []plannedDefinition
	synonyms []domain.SynonymEdge
	skipped  []skippedEntry
}

// buildPlan resolves every entry against the lemma cache. Entries are split
// into contiguous chunks, one per worker; the result keeps input order.
func buildPlan(ctx context.Context, entries []domain.LexicalEntry, cache *crossref.LemmaCache, resolver *crossref.Resolver, workers int) (*Plan, error) {
	if workers <= 0 {
		workers = 1
	}
	workers = min(workers, max(len(entries), 1))
	chunk := (len(entries) + workers - 1) / workers

	parts := make([]entryPlan, workers)
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := min(w*chunk, len(entries))
		hi := min(lo+chunk, len(entries))
		g.Go(func() error {
			for _, e := range entries[lo:hi] {
				if err := ctx.Err(); err != nil {
					return err
				}
				defs, syns, ok := planEntry(e, cache, resolver)
				if !ok {
					parts[w].skipped = append(parts[w].skipped, skippedEntry{Lemma: e.Lemma, POS: e.POS})
					continue
				}
				parts[w].defs = append(parts[w].defs, defs...)
				parts[w].synonyms = append(parts[w].synonyms, syns...)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	plan := &Plan{}
	for _, part := range parts {
		plan.Definitions = append(plan.Definitions, part.defs...)
		plan.Synonyms = append(plan.Synonyms, part.synonyms...)
		plan.Skipped = append(plan.Skipped, part.skipped...)
	}
	return plan, nil
}

// planEntry maps one aggregated entry to definition rows and synonym edges.
// Definitions and examples are paired by position: definition i gets
// example i when there is one. It reports false when the lemma is unknown.
func planEntry(e domain.LexicalEntry, cache *crossref.LemmaCache, resolver *crossref.Resolver) ([]plannedDefinition, []domain.SynonymEdge, bool) {
	lemmaID, ok := cache.Resolve(e.Lemma)
	if !ok {
		return nil, nil, false
	}

	defs := make([]plannedDefinition, 0, len(e.Definitions))
	for i, text := range e.Definitions {
		d := domain.Definition{
			LemmaID:   lemmaID,
			POS:       e.POS,
			Text:      crossref.CleanText(text),
			Order:     i + 1,
			Hypernyms: e.Hypernyms,
		}
		refs := resolver.Extract(0, d.Text, domain.ReferenceKindDefinition)
		if i < len(e.Examples) {
			example := crossref.CleanText(e.Examples[i])
			d.Example = &example
			refs = append(refs, resolver.Extract(0, example, domain.ReferenceKindExample)...)
		}
		defs = append(defs, plannedDefinition{def: d, refs: refs})
	}

	var synonyms []domain.SynonymEdge
	for _, s := range e.Synonyms {
		synID, ok := cache.Resolve(s)
		if !ok || synID == lemmaID {
			continue
		}
		synonyms = append(synonyms, domain.SynonymEdge{
			LemmaID:        lemmaID,
			SynonymLemmaID: synID,
			POS:            e.POS,
			Score:          domain.DefaultSynonymScore,
		})
	}
	return defs, synonyms, true
}
