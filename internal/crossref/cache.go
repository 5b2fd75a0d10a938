// Package crossref resolves words inside definition and example texts to
// known lemmas, producing located references for in-text linking.
package crossref

import (
	"strings"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// LemmaCache maps lowercased lemma text to its identifier. It is built once
// per load and only read afterwards.
type LemmaCache struct {
	ids map[string]int64
}

// NewLemmaCache builds a cache from the persisted lemma table. When two
// lemmas differ only by case, the first one listed wins.
func NewLemmaCache(lemmas []domain.LemmaRef) *LemmaCache {
	ids := make(map[string]int64, len(lemmas))
	for _, l := range lemmas {
		key := strings.ToLower(l.Lemma)
		if key == "" {
			continue
		}
		if _, ok := ids[key]; ok {
			continue
		}
		ids[key] = l.ID
	}
	return &LemmaCache{ids: ids}
}

// Resolve returns the identifier of word, compared case-insensitively.
// An unknown word is not an error: ok is false and callers emit no link.
func (c *LemmaCache) Resolve(word string) (id int64, ok bool) {
	if c == nil {
		return 0, false
	}
	id, ok = c.ids[strings.ToLower(word)]
	return id, ok
}

// Len returns the number of distinct cached lemmas.
func (c *LemmaCache) Len() int {
	if c == nil {
		return 0
	}
	return len(c.ids)
}
