// Package lexstore implements the lexicon store (languages, lemmas,
// definitions, word references, synonyms, load runs) on PostgreSQL.
// Writes join the caller's transaction through postgres.QuerierFromCtx.
package lexstore

import (
	"context"
	"fmt"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/lexigraph/internal/adapter/postgres"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

// Repo provides lexicon persistence backed by PostgreSQL.
type Repo struct {
	db postgres.DB
}

// New creates a new lexicon repository.
func New(db postgres.DB) *Repo {
	return &Repo{db: db}
}

func (r *Repo) q(ctx context.Context) postgres.Querier {
	return postgres.QuerierFromCtx(ctx, r.db)
}

// ---------------------------------------------------------------------------
// Languages and lemmas
// ---------------------------------------------------------------------------

// EnsureLanguage returns the id of the language with the given code,
// creating it when missing.
func (r *Repo) EnsureLanguage(ctx context.Context, code, name string) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx,
		`INSERT INTO languages (code, name) VALUES ($1, $2)
		 ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		code, name,
	).Scan(&id)
	if err != nil {
		return 0, postgres.MapError(err, "language", code)
	}
	return id, nil
}

// LanguageID returns the id of an existing language. Unknown codes map to
// domain.ErrNotFound.
func (r *Repo) LanguageID(ctx context.Context, code string) (int64, error) {
	var id int64
	err := r.q(ctx).QueryRow(ctx, `SELECT id FROM languages WHERE code = $1`, code).Scan(&id)
	if err != nil {
		return 0, postgres.MapError(err, "language", code)
	}
	return id, nil
}

// BulkUpsertLemmas inserts lemmas for a language using pgx.Batch. Existing
// lemmas keep their id and get their frequency, rank and dispersion refreshed.
// Returns the number of affected rows.
func (r *Repo) BulkUpsertLemmas(ctx context.Context, languageID int64, lemmas []domain.Lemma) (int, error) {
	if len(lemmas) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, l := range lemmas {
		batch.Queue(
			`INSERT INTO lemmas (lemma, language_id, lemma_frequency, lemma_rank, dispersion_score)
			 VALUES ($1, $2, $3, $4, $5)
			 ON CONFLICT (lemma, language_id) DO UPDATE
			 SET lemma_frequency = EXCLUDED.lemma_frequency,
			     lemma_rank = EXCLUDED.lemma_rank,
			     dispersion_score = EXCLUDED.dispersion_score`,
			l.Text, languageID, l.Frequency, l.Rank, l.DispersionScore,
		)
	}

	return r.sendBatchExec(ctx, batch)
}

// ListLemmaRefs returns (id, lemma) for every lemma of a language, ordered by id
// so that case-colliding lemmas resolve to the oldest row.
func (r *Repo) ListLemmaRefs(ctx context.Context, languageID int64) ([]domain.LemmaRef, error) {
	query, args, err := postgres.Builder.
		Select("id", "lemma").
		From("lemmas").
		Where("language_id = ?", languageID).
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build lemma query: %w", err)
	}

	var refs []domain.LemmaRef
	if err := pgxscan.Select(ctx, r.q(ctx), &refs, query, args...); err != nil {
		return nil, postgres.MapError(err, "lemmas of language", languageID)
	}
	return refs, nil
}

// ---------------------------------------------------------------------------
// Batch helpers
// ---------------------------------------------------------------------------

// sendBatchExec sends a pgx.Batch and counts affected rows from Exec results.
func (r *Repo) sendBatchExec(ctx context.Context, batch *pgx.Batch) (int, error) {
	results := r.q(ctx).SendBatch(ctx, batch)
	defer results.Close()

	var affected int
	for i := range batch.Len() {
		tag, err := results.Exec()
		if err != nil {
			return affected, postgres.MapError(err, "batch item", i)
		}
		affected += int(tag.RowsAffected())
	}

	return affected, nil
}
