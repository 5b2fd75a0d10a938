package lexstore

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"

	postgres "github.com/heartmarshall/lexigraph/internal/adapter/postgres"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

// countedTables are reported by Stats in TableCounts.
var countedTables = []string{"languages", "lemmas", "definitions", "word_references", "synonyms", "load_runs"}

type keyCount struct {
	Key   string `db:"key"`
	Count int64  `db:"count"`
}

// Stats returns the statistics snapshot of the store.
func (r *Repo) Stats(ctx context.Context) (domain.StoreStats, error) {
	var (
		s   domain.StoreStats
		err error
	)

	if s.TotalDefinitions, err = r.count(ctx, postgres.Builder.Select("count(*)").From("definitions")); err != nil {
		return s, err
	}
	if s.TotalSynonyms, err = r.count(ctx, postgres.Builder.Select("count(*)").From("synonyms")); err != nil {
		return s, err
	}
	if s.TotalReferences, err = r.count(ctx, postgres.Builder.Select("count(*)").From("word_references")); err != nil {
		return s, err
	}
	if s.LemmasWithDefinitions, err = r.count(ctx, postgres.Builder.Select("count(DISTINCT lemma_id)").From("definitions")); err != nil {
		return s, err
	}
	if s.DefinitionsByPOS, err = r.groupCount(ctx, "definitions", "pos"); err != nil {
		return s, err
	}
	if s.ReferencesByKind, err = r.groupCount(ctx, "word_references", "reference_type"); err != nil {
		return s, err
	}
	if s.TableCounts, err = r.TableCounts(ctx); err != nil {
		return s, err
	}
	return s, nil
}

// TableCounts returns the row count of every lexicon table.
func (r *Repo) TableCounts(ctx context.Context) (map[string]int64, error) {
	counts := make(map[string]int64, len(countedTables))
	for _, table := range countedTables {
		n, err := r.count(ctx, postgres.Builder.Select("count(*)").From(table))
		if err != nil {
			return nil, err
		}
		counts[table] = n
	}
	return counts, nil
}

// SampleReferences returns up to limit definition-kind references joined with
// their owning and target lemmas, ordered by definition and position.
func (r *Repo) SampleReferences(ctx context.Context, limit int) ([]domain.ReferenceSample, error) {
	if limit <= 0 {
		return nil, nil
	}

	query, args, err := postgres.Builder.
		Select(
			"src.lemma AS source_lemma",
			"d.definition_text",
			"wr.word_text",
			"wr.word_position",
			"tgt.lemma AS target_lemma",
			"wr.reference_type",
		).
		From("word_references wr").
		Join("definitions d ON d.id = wr.source_definition_id").
		Join("lemmas src ON src.id = d.lemma_id").
		Join("lemmas tgt ON tgt.id = wr.referenced_lemma_id").
		Where(sq.Eq{"wr.reference_type": string(domain.ReferenceKindDefinition)}).
		OrderBy("wr.source_definition_id", "wr.word_position").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build sample query: %w", err)
	}

	var samples []domain.ReferenceSample
	if err := pgxscan.Select(ctx, r.q(ctx), &samples, query, args...); err != nil {
		return nil, postgres.MapError(err, "reference sample", limit)
	}
	return samples, nil
}

func (r *Repo) count(ctx context.Context, b sq.SelectBuilder) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := pgxscan.Get(ctx, r.q(ctx), &n, query, args...); err != nil {
		return 0, postgres.MapError(err, "count", query)
	}
	return n, nil
}

func (r *Repo) groupCount(ctx context.Context, table, column string) (map[string]int64, error) {
	query, args, err := postgres.Builder.
		Select(column+" AS key", "count(*) AS count").
		From(table).
		GroupBy(column).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build group query: %w", err)
	}

	var rows []keyCount
	if err := pgxscan.Select(ctx, r.q(ctx), &rows, query, args...); err != nil {
		return nil, postgres.MapError(err, table+" by", column)
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.Key] = row.Count
	}
	return out, nil
}
