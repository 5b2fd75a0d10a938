// Package loader orchestrates the lexicon load: lemmas from a frequency
// list, then definitions, synonyms and cross-references derived from a
// WordNet resource, then optional publication to Redis and Neo4j.
package loader

import (
	"context"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// Store is the persistence contract consumed by the pipeline.
// All methods use only domain types. Implemented by lexstore.Repo.
type Store interface {
	// Languages and lemmas.
	EnsureLanguage(ctx context.Context, code, name string) (int64, error)
	LanguageID(ctx context.Context, code string) (int64, error)
	BulkUpsertLemmas(ctx context.Context, languageID int64, lemmas []domain.Lemma) (int, error)
	ListLemmaRefs(ctx context.Context, languageID int64) ([]domain.LemmaRef, error)

	// Derived rows, written by the definitions phase.
	ClearDerived(ctx context.Context) (map[string]int64, error)
	InsertDefinitions(ctx context.Context, defs []domain.Definition) ([]int64, error)
	InsertReferences(ctx context.Context, refs []domain.CrossReference) (int64, error)
	BulkInsertSynonyms(ctx context.Context, edges []domain.SynonymEdge) (int, error)

	// Reporting.
	Stats(ctx context.Context) (domain.StoreStats, error)
	SampleReferences(ctx context.Context, limit int) ([]domain.ReferenceSample, error)

	// Load run registry.
	StartLoadRun(ctx context.Context, phase string) (domain.LoadRun, error)
	FinishLoadRun(ctx context.Context, id string, status domain.LoadRunStatus, report []byte) error
}

// TxManager runs fn in a single transaction. Implemented by postgres.TxManager.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// EntryCache receives aggregated entries for direct lookup.
// Implemented by entrycache.Cache.
type EntryCache interface {
	Publish(ctx context.Context, entries []domain.LexicalEntry, batchSize int) (int, error)
	Purge(ctx context.Context) (int64, error)
}

// GraphSink mirrors the lemma graph. Implemented by graphsync.Syncer.
type GraphSink interface {
	Sync(ctx context.Context, entries []domain.LexicalEntry) (domain.GraphSyncStats, error)
	Purge(ctx context.Context) error
}
