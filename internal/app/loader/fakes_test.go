package loader

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

// memStore is an in-memory Store that records every write.
type memStore struct {
	mu sync.Mutex

	languages   map[string]int64
	lemmas      []domain.LemmaRef
	definitions []domain.Definition
	references  []domain.CrossReference
	synonyms    []domain.SynonymEdge
	runs        map[string]domain.LoadRunStatus
	runPhases   []string
	runReports  map[string][]byte
	clearCalls  int

	insertReferencesErr error
	statsErr            error

	callLog []string
}

func newMemStore() *memStore {
	return &memStore{
		languages:  make(map[string]int64),
		runs:       make(map[string]domain.LoadRunStatus),
		runReports: make(map[string][]byte),
	}
}

func (m *memStore) logCall(name string) {
	m.callLog = append(m.callLog, name)
}

func (m *memStore) EnsureLanguage(_ context.Context, code, _ string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("EnsureLanguage")
	if id, ok := m.languages[code]; ok {
		return id, nil
	}
	id := int64(len(m.languages) + 1)
	m.languages[code] = id
	return id, nil
}

func (m *memStore) LanguageID(_ context.Context, code string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("LanguageID")
	id, ok := m.languages[code]
	if !ok {
		return 0, domain.ErrNotFound
	}
	return id, nil
}

func (m *memStore) BulkUpsertLemmas(_ context.Context, _ int64, lemmas []domain.Lemma) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("BulkUpsertLemmas")
	for _, l := range lemmas {
		m.lemmas = append(m.lemmas, domain.LemmaRef{ID: int64(len(m.lemmas) + 1), Lemma: l.Text})
	}
	return len(lemmas), nil
}

func (m *memStore) ListLemmaRefs(context.Context, int64) ([]domain.LemmaRef, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("ListLemmaRefs")
	return append([]domain.LemmaRef(nil), m.lemmas...), nil
}

func (m *memStore) ClearDerived(context.Context) (map[string]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("ClearDerived")
	m.clearCalls++
	deleted := map[string]int64{
		"word_references": int64(len(m.references)),
		"synonyms":        int64(len(m.synonyms)),
		"definitions":     int64(len(m.definitions)),
	}
	m.references, m.synonyms, m.definitions = nil, nil, nil
	return deleted, nil
}

func (m *memStore) InsertDefinitions(_ context.Context, defs []domain.Definition) ([]int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("InsertDefinitions")
	ids := make([]int64, len(defs))
	for i, d := range defs {
		d.ID = int64(len(m.definitions) + 1)
		m.definitions = append(m.definitions, d)
		ids[i] = d.ID
	}
	return ids, nil
}

func (m *memStore) InsertReferences(_ context.Context, refs []domain.CrossReference) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("InsertReferences")
	if m.insertReferencesErr != nil {
		return 0, m.insertReferencesErr
	}
	m.references = append(m.references, refs...)
	return int64(len(refs)), nil
}

func (m *memStore) BulkInsertSynonyms(_ context.Context, edges []domain.SynonymEdge) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("BulkInsertSynonyms")
	m.synonyms = append(m.synonyms, edges...)
	return len(edges), nil
}

func (m *memStore) Stats(context.Context) (domain.StoreStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("Stats")
	if m.statsErr != nil {
		return domain.StoreStats{}, m.statsErr
	}
	return domain.StoreStats{
		TotalDefinitions: int64(len(m.definitions)),
		TotalSynonyms:    int64(len(m.synonyms)),
		TotalReferences:  int64(len(m.references)),
		TableCounts:      map[string]int64{"lemmas": int64(len(m.lemmas))},
	}, nil
}

func (m *memStore) SampleReferences(_ context.Context, limit int) ([]domain.ReferenceSample, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("SampleReferences")
	var out []domain.ReferenceSample
	for _, ref := range m.references {
		if len(out) == limit {
			break
		}
		out = append(out, domain.ReferenceSample{WordText: ref.Text, Position: ref.Offset, Kind: string(ref.Kind)})
	}
	return out, nil
}

func (m *memStore) StartLoadRun(_ context.Context, phase string) (domain.LoadRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("StartLoadRun")
	id := uuid.NewString()
	m.runs[id] = domain.LoadRunStatusRunning
	m.runPhases = append(m.runPhases, phase)
	return domain.LoadRun{ID: id, Phase: phase, Status: domain.LoadRunStatusRunning}, nil
}

func (m *memStore) FinishLoadRun(_ context.Context, id string, status domain.LoadRunStatus, report []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logCall("FinishLoadRun")
	if _, ok := m.runs[id]; !ok {
		return domain.ErrNotFound
	}
	m.runs[id] = status
	m.runReports[id] = report
	return nil
}

func (m *memStore) statuses() []domain.LoadRunStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.LoadRunStatus
	for _, s := range m.runs {
		out = append(out, s)
	}
	return out
}

// fakeTx runs fn directly and counts transactions.
type fakeTx struct {
	calls int
}

func (f *fakeTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	f.calls++
	return fn(ctx)
}

type fakeCache struct {
	published []domain.LexicalEntry
	purged    bool
	err       error
}

func (f *fakeCache) Publish(_ context.Context, entries []domain.LexicalEntry, _ int) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.published = append(f.published, entries...)
	return len(entries), nil
}

func (f *fakeCache) Purge(context.Context) (int64, error) {
	f.purged = true
	return 0, nil
}

type fakeGraph struct {
	synced []domain.LexicalEntry
	purged bool
}

func (f *fakeGraph) Sync(_ context.Context, entries []domain.LexicalEntry) (domain.GraphSyncStats, error) {
	f.synced = entries
	return domain.GraphSyncStats{Nodes: len(entries), Synonyms: 2}, nil
}

func (f *fakeGraph) Purge(context.Context) error {
	f.purged = true
	return nil
}
