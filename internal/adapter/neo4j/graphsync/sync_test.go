package graphsync

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/lexigraph/internal/config"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

func entries() []domain.LexicalEntry {
	return []domain.LexicalEntry{
		{Lemma: "canine", POS: domain.PartOfSpeechAdjective},
		{Lemma: "canine", POS: domain.PartOfSpeechNoun, Hypernyms: []string{"carnivore"}},
		{
			Lemma:     "dog",
			POS:       domain.PartOfSpeechNoun,
			Synonyms:  []string{"domestic dog"},
			Hypernyms: []string{"canine", "carnivore", "dog"},
		},
		{Lemma: "domestic dog", POS: domain.PartOfSpeechNoun, Synonyms: []string{"dog"}},
	}
}

func TestBuildNodes(t *testing.T) {
	t.Parallel()

	nodes := buildNodes(entries())
	require.Len(t, nodes, 4)

	names := make([]string, len(nodes))
	for i, n := range nodes {
		names[i] = n["name"].(string)
	}
	assert.Equal(t, []string{"canine", "carnivore", "dog", "domestic dog"}, names)

	assert.Equal(t, []string{"a", "n"}, nodes[0]["parts_of_speech"])
	assert.Equal(t, []string{}, nodes[1]["parts_of_speech"], "target-only lemmas carry no pos")
}

func TestBuildEdges(t *testing.T) {
	t.Parallel()

	synonyms, hypernyms := buildEdges(entries())

	assert.Equal(t, []map[string]any{
		{"from": "dog", "to": "domestic dog", "pos": "n"},
		{"from": "domestic dog", "to": "dog", "pos": "n"},
	}, synonyms)

	assert.Len(t, hypernyms, 3, "self-edge dropped")
	for _, h := range hypernyms {
		assert.NotEqual(t, h["from"], h["to"])
	}
}

func TestBuildEdges_Dedup(t *testing.T) {
	t.Parallel()

	dup := []domain.LexicalEntry{
		{Lemma: "run", POS: domain.PartOfSpeechVerb, Synonyms: []string{"go"}},
		{Lemma: "run", POS: domain.PartOfSpeechVerb, Synonyms: []string{"go"}},
		{Lemma: "run", POS: domain.PartOfSpeechNoun, Synonyms: []string{"go"}},
	}
	synonyms, hypernyms := buildEdges(dup)
	assert.Len(t, synonyms, 2)
	assert.Empty(t, hypernyms)
}

func TestRelationshipQuery(t *testing.T) {
	t.Parallel()

	q := relationshipQuery(relHypernym)
	assert.True(t, strings.Contains(q, "MERGE (a)-[e:HAS_HYPERNYM {pos: r.pos}]->(b)"))
}

func TestConnect_Disabled(t *testing.T) {
	t.Parallel()

	c, err := Connect(context.Background(), config.GraphConfig{})
	assert.NoError(t, err)
	assert.Nil(t, c)
	assert.NoError(t, c.Close(context.Background()))
}
