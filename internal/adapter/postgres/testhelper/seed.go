package testhelper

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// UniqueCode returns a short unique language code for non-conflicting test data.
// Lemmas are unique per language, so each test seeds into its own language.
func UniqueCode() string {
	return uuid.New().String()[:5]
}

// SeedLanguage inserts a language with a unique code and returns its id.
func SeedLanguage(t *testing.T, pool *pgxpool.Pool) int64 {
	t.Helper()

	var id int64
	err := pool.QueryRow(context.Background(),
		`INSERT INTO languages (code, name) VALUES ($1, $2) RETURNING id`,
		UniqueCode(), "Test",
	).Scan(&id)
	if err != nil {
		t.Fatalf("testhelper: SeedLanguage: %v", err)
	}
	return id
}

// SeedLemmas inserts the given words into a fresh language and returns
// their refs in argument order.
func SeedLemmas(t *testing.T, pool *pgxpool.Pool, words ...string) (int64, []domain.LemmaRef) {
	t.Helper()
	ctx := context.Background()

	langID := SeedLanguage(t, pool)
	refs := make([]domain.LemmaRef, 0, len(words))
	for _, w := range words {
		var id int64
		err := pool.QueryRow(ctx,
			`INSERT INTO lemmas (lemma, language_id) VALUES ($1, $2) RETURNING id`,
			w, langID,
		).Scan(&id)
		if err != nil {
			t.Fatalf("testhelper: SeedLemmas %q: %v", w, err)
		}
		refs = append(refs, domain.LemmaRef{ID: id, Lemma: w})
	}
	return langID, refs
}
