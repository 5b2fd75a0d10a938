package lexstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"

	postgres "github.com/heartmarshall/lexigraph/internal/adapter/postgres"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

// derivedTables lists the tables written by the definitions phase, children
// first so foreign keys are never violated while clearing.
var derivedTables = []string{"word_references", "synonyms", "definitions"}

var referenceColumns = []string{
	"source_definition_id", "referenced_lemma_id", "word_position", "word_text", "reference_type",
}

// ClearDerived deletes all word references, synonyms and definitions, in that order.
func (r *Repo) ClearDerived(ctx context.Context) (map[string]int64, error) {
	deleted := make(map[string]int64, len(derivedTables))
	for _, table := range derivedTables {
		query, args, err := postgres.Builder.Delete(table).ToSql()
		if err != nil {
			return nil, fmt.Errorf("build delete %s: %w", table, err)
		}
		tag, err := r.q(ctx).Exec(ctx, query, args...)
		if err != nil {
			return nil, postgres.MapError(err, "clear", table)
		}
		deleted[table] = tag.RowsAffected()
	}
	return deleted, nil
}

// InsertDefinitions inserts definitions in one batch and returns the new ids
// in input order.
func (r *Repo) InsertDefinitions(ctx context.Context, defs []domain.Definition) ([]int64, error) {
	if len(defs) == 0 {
		return nil, nil
	}

	batch := &pgx.Batch{}
	for _, d := range defs {
		hypernyms := d.Hypernyms
		if hypernyms == nil {
			hypernyms = []string{}
		}
		raw, err := json.Marshal(hypernyms)
		if err != nil {
			return nil, fmt.Errorf("marshal hypernyms: %w", err)
		}
		batch.Queue(
			`INSERT INTO definitions (lemma_id, pos, definition_text, definition_order, example_sentence, hypernyms)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING id`,
			d.LemmaID, string(d.POS), d.Text, d.Order, d.Example, raw,
		)
	}

	results := r.q(ctx).SendBatch(ctx, batch)
	defer results.Close()

	ids := make([]int64, len(defs))
	for i := range defs {
		if err := results.QueryRow().Scan(&ids[i]); err != nil {
			return nil, postgres.MapError(err, "definition of lemma", defs[i].LemmaID)
		}
	}
	return ids, nil
}

// InsertReferences streams word references with COPY. Every reference's
// OwnerID must be a persisted definition id.
func (r *Repo) InsertReferences(ctx context.Context, refs []domain.CrossReference) (int64, error) {
	if len(refs) == 0 {
		return 0, nil
	}

	n, err := r.q(ctx).CopyFrom(ctx,
		pgx.Identifier{"word_references"},
		referenceColumns,
		pgx.CopyFromSlice(len(refs), func(i int) ([]any, error) {
			ref := refs[i]
			return []any{ref.OwnerID, ref.TargetLemmaID, ref.Offset, ref.Text, string(ref.Kind)}, nil
		}),
	)
	if err != nil {
		return n, postgres.MapError(err, "word references", len(refs))
	}
	return n, nil
}

// BulkInsertSynonyms inserts synonym edges using pgx.Batch. Existing edges
// (by lemma, synonym and pos) are skipped via ON CONFLICT DO NOTHING.
// Returns the number of actually inserted rows.
func (r *Repo) BulkInsertSynonyms(ctx context.Context, edges []domain.SynonymEdge) (int, error) {
	if len(edges) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, e := range edges {
		batch.Queue(
			`INSERT INTO synonyms (lemma_id, synonym_lemma_id, pos_specific, similarity_score)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (lemma_id, synonym_lemma_id, pos_specific) DO NOTHING`,
			e.LemmaID, e.SynonymLemmaID, string(e.POS), e.Score,
		)
	}

	return r.sendBatchExec(ctx, batch)
}
