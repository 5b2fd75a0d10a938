package lexicon

import (
	"cmp"
	"context"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// entryKey identifies one aggregated entry.
type entryKey struct {
	lemma string
	pos   domain.PartOfSpeech
}

// group is the set of raw entries sharing a key, in source order.
type group struct {
	key     entryKey
	entries []*RawEntry
}

// Aggregate merges every raw entry sharing a (lemma, part of speech) pair into
// a single LexicalEntry. The result is sorted by lemma then part of speech and
// every list field is deduplicated and sorted, so equal input always yields
// equal output.
func Aggregate(g *Graph, entries []RawEntry) []domain.LexicalEntry {
	groups := groupEntries(entries)
	out := make([]domain.LexicalEntry, len(groups))
	for i, gr := range groups {
		out[i] = g.aggregateGroup(gr)
	}
	return out
}

// AggregateParallel is Aggregate with the per-entry work spread over workers
// goroutines. The graph is read-only, so groups are independent.
func AggregateParallel(ctx context.Context, g *Graph, entries []RawEntry, workers int) ([]domain.LexicalEntry, error) {
	if workers <= 1 {
		return Aggregate(g, entries), nil
	}

	groups := groupEntries(entries)
	out := make([]domain.LexicalEntry, len(groups))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := range groups {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			out[i] = g.aggregateGroup(groups[i])
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func groupEntries(entries []RawEntry) []group {
	index := make(map[entryKey]int, len(entries))
	var groups []group
	for i := range entries {
		e := &entries[i]
		if e.WrittenForm == "" {
			continue
		}
		key := entryKey{lemma: e.WrittenForm, pos: e.POS}
		idx, ok := index[key]
		if !ok {
			idx = len(groups)
			index[key] = idx
			groups = append(groups, group{key: key})
		}
		groups[idx].entries = append(groups[idx].entries, e)
	}

	slices.SortFunc(groups, func(a, b group) int {
		return cmp.Or(
			cmp.Compare(a.key.lemma, b.key.lemma),
			cmp.Compare(a.key.pos, b.key.pos),
		)
	})
	return groups
}

func (g *Graph) aggregateGroup(gr group) domain.LexicalEntry {
	var definitions, examples, synonyms, hypernyms []string

	for _, e := range gr.entries {
		for _, rs := range e.Senses {
			examples = append(examples, trimmed(rs.Examples)...)

			sense, ok := g.senses[rs.Synset]
			if !ok {
				continue
			}
			if gloss := domain.CollapseSpace(sense.Gloss); gloss != "" {
				definitions = append(definitions, gloss)
			}
			examples = append(examples, trimmed(sense.Examples)...)
			for _, l := range sense.Lemmas {
				if l != gr.key.lemma {
					synonyms = append(synonyms, l)
				}
			}
			hypernyms = append(hypernyms, g.Closure(sense.ID)...)
		}
	}

	return domain.LexicalEntry{
		Lemma:       gr.key.lemma,
		POS:         gr.key.pos,
		Definitions: sortedUnique(definitions),
		Examples:    sortedUnique(examples),
		Synonyms:    sortedUnique(synonyms),
		Hypernyms:   sortedUnique(hypernyms),
	}
}

// trimmed returns the non-empty texts with surrounding whitespace removed.
func trimmed(texts []string) []string {
	var out []string
	for _, t := range texts {
		if t = domain.CollapseSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// sortedUnique sorts in byte order and drops duplicates. It never returns nil,
// so empty lists serialize as [] rather than null.
func sortedUnique(sl []string) []string {
	if len(sl) == 0 {
		return []string{}
	}
	out := slices.Clone(sl)
	slices.Sort(out)
	return slices.Compact(out)
}
