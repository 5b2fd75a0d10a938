package graphsync

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sort"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/heartmarshall/lexigraph/internal/domain"
)

const (
	relSynonym  = "SYNONYM_OF"
	relHypernym = "HAS_HYPERNYM"

	defaultBatchSize = 1000
)

var schemaStatements = []string{
	`CREATE CONSTRAINT lemma_name_unique IF NOT EXISTS FOR (l:Lemma) REQUIRE l.name IS UNIQUE`,
}

// Syncer writes entries through a Client in fixed-size write transactions.
type Syncer struct {
	client    *Client
	log       *slog.Logger
	batchSize int
}

// NewSyncer creates a Syncer. A non-positive batchSize selects 1000.
func NewSyncer(client *Client, log *slog.Logger, batchSize int) *Syncer {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	return &Syncer{client: client, log: log, batchSize: batchSize}
}

// Sync merges one :Lemma node per distinct lemma and one relationship per
// (lemma, target, pos). Existing nodes and edges are updated in place.
func (s *Syncer) Sync(ctx context.Context, entries []domain.LexicalEntry) (domain.GraphSyncStats, error) {
	nodes := buildNodes(entries)
	synonyms, hypernyms := buildEdges(entries)

	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	for _, stmt := range schemaStatements {
		res, err := session.Run(ctx, stmt, nil)
		if err != nil {
			s.log.WarnContext(ctx, "neo4j schema init failed (continuing)", slog.String("error", err.Error()))
			continue
		}
		_, _ = res.Consume(ctx)
	}

	if err := s.writeChunks(ctx, session, `
UNWIND $rows AS n
MERGE (l:Lemma {name: n.name})
SET l.parts_of_speech = n.parts_of_speech
`, nodes); err != nil {
		return domain.GraphSyncStats{}, fmt.Errorf("merge lemma nodes: %w", err)
	}

	for _, rel := range []struct {
		kind string
		rows []map[string]any
	}{{relSynonym, synonyms}, {relHypernym, hypernyms}} {
		if err := s.writeChunks(ctx, session, relationshipQuery(rel.kind), rel.rows); err != nil {
			return domain.GraphSyncStats{}, fmt.Errorf("merge %s edges: %w", rel.kind, err)
		}
	}

	return domain.GraphSyncStats{Nodes: len(nodes), Synonyms: len(synonyms), Hypernyms: len(hypernyms)}, nil
}

// Purge removes every :Lemma node and its relationships.
func (s *Syncer) Purge(ctx context.Context) error {
	session := s.client.Driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: s.client.Database,
	})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `MATCH (l:Lemma) DETACH DELETE l`, nil)
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return fmt.Errorf("purge lemma graph: %w", err)
	}
	return nil
}

func (s *Syncer) writeChunks(ctx context.Context, session neo4j.SessionWithContext, query string, rows []map[string]any) error {
	for i := 0; i < len(rows); i += s.batchSize {
		chunk := rows[i:min(i+s.batchSize, len(rows))]
		_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
			res, err := tx.Run(ctx, query, map[string]any{"rows": chunk})
			if err != nil {
				return nil, err
			}
			return res.Consume(ctx)
		})
		if err != nil {
			return err
		}
		s.log.DebugContext(ctx, "neo4j chunk written", slog.Int("offset", i), slog.Int("rows", len(chunk)))
	}
	return nil
}

func relationshipQuery(kind string) string {
	return `
UNWIND $rows AS r
MATCH (a:Lemma {name: r.from})
MATCH (b:Lemma {name: r.to})
MERGE (a)-[e:` + kind + ` {pos: r.pos}]->(b)
`
}

// buildNodes returns one row per lemma, including lemmas that only appear
// as a synonym or hypernym target, sorted by name.
func buildNodes(entries []domain.LexicalEntry) []map[string]any {
	pos := make(map[string][]string)
	touch := func(name string) {
		if _, ok := pos[name]; !ok {
			pos[name] = []string{}
		}
	}
	for _, e := range entries {
		touch(e.Lemma)
		if p := string(e.POS); !slices.Contains(pos[e.Lemma], p) {
			pos[e.Lemma] = append(pos[e.Lemma], p)
		}
		for _, s := range e.Synonyms {
			touch(s)
		}
		for _, h := range e.Hypernyms {
			touch(h)
		}
	}

	names := make([]string, 0, len(pos))
	for name := range pos {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([]map[string]any, len(names))
	for i, name := range names {
		sort.Strings(pos[name])
		rows[i] = map[string]any{"name": name, "parts_of_speech": pos[name]}
	}
	return rows
}

// buildEdges returns synonym and hypernym relationship rows. Self-edges
// are dropped; duplicates collapse.
func buildEdges(entries []domain.LexicalEntry) (synonyms, hypernyms []map[string]any) {
	type edge struct{ from, to, pos string }
	seen := make(map[edge]bool)
	add := func(dst []map[string]any, e edge) []map[string]any {
		if e.from == e.to || seen[e] {
			return dst
		}
		seen[e] = true
		return append(dst, map[string]any{"from": e.from, "to": e.to, "pos": e.pos})
	}

	for _, e := range entries {
		for _, s := range e.Synonyms {
			synonyms = add(synonyms, edge{e.Lemma, s, string(e.POS)})
		}
	}
	clear(seen)
	for _, e := range entries {
		for _, h := range e.Hypernyms {
			hypernyms = add(hypernyms, edge{e.Lemma, h, string(e.POS)})
		}
	}
	return synonyms, hypernyms
}
