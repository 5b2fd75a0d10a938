// Package lexicon builds the in-memory sense graph of a WordNet-style resource
// and aggregates it into one entry per (lemma, part of speech).
// Pure functions: parsed resource in, domain structs out. No database dependencies.
package lexicon

import (
	"slices"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// Resource is a parsed lexical resource, independent of its on-disk format.
type Resource struct {
	Entries []RawEntry
	Synsets []RawSynset
}

// RawEntry is one lexical entry: a written form under one part of speech.
type RawEntry struct {
	WrittenForm string
	POS         domain.PartOfSpeech
	Senses      []RawSense
}

// RawSense links an entry to a synset. Examples attached at sense level
// are merged with the synset's own examples during aggregation.
type RawSense struct {
	ID       string
	Synset   string
	Examples []string
}

// RawSynset carries the gloss, examples and outgoing hypernym edges of a synset.
type RawSynset struct {
	ID         string
	Definition string
	Examples   []string
	Hypernyms  []string
}

// Sense is a node of the graph. Lemmas lists every written form that
// realizes the sense, in first-seen order without duplicates.
type Sense struct {
	ID        string
	Lemmas    []string
	Gloss     string
	Examples  []string
	Hypernyms []string
}

// Graph indexes senses by id. It is never mutated after BuildGraph returns,
// so any number of goroutines may read it.
type Graph struct {
	senses map[string]*Sense
	lemmas map[string][]string
}

// BuildGraph indexes the resource's synsets and the lemmas realizing them.
// Lemmas are collected for every synset id referenced by a sense, even when
// no synset record exists for it; such ids have no Sense and stay inert.
func BuildGraph(res Resource) *Graph {
	g := &Graph{
		senses: make(map[string]*Sense, len(res.Synsets)),
		lemmas: make(map[string][]string, len(res.Synsets)),
	}

	for _, entry := range res.Entries {
		for _, sense := range entry.Senses {
			if sense.Synset == "" {
				continue
			}
			g.lemmas[sense.Synset] = appendUnique(g.lemmas[sense.Synset], entry.WrittenForm)
		}
	}

	for _, ss := range res.Synsets {
		if ss.ID == "" {
			continue
		}
		// A repeated synset id keeps the first record.
		if _, ok := g.senses[ss.ID]; ok {
			continue
		}
		g.senses[ss.ID] = &Sense{
			ID:        ss.ID,
			Lemmas:    g.lemmas[ss.ID],
			Gloss:     ss.Definition,
			Examples:  ss.Examples,
			Hypernyms: ss.Hypernyms,
		}
	}

	return g
}

// Sense returns the sense with the given id.
func (g *Graph) Sense(id string) (*Sense, bool) {
	s, ok := g.senses[id]
	return s, ok
}

// Lemmas returns the realizing lemmas of a synset id. The returned slice
// must not be modified.
func (g *Graph) Lemmas(id string) []string {
	return g.lemmas[id]
}

// Len returns the number of senses with a synset record.
func (g *Graph) Len() int {
	return len(g.senses)
}

// appendUnique appends s to the slice only if not already present.
func appendUnique(sl []string, s string) []string {
	if slices.Contains(sl, s) {
		return sl
	}
	return append(sl, s)
}
