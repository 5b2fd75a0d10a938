// Package entrycache publishes aggregated lexical entries to Redis so a
// lemma's definitions, synonyms and hypernyms can be served by one HGETALL.
//
// Layout: one hash per lemma at "<prefix>:entry:<lemma>", one field per part
// of speech, each value the JSON-encoded entry.
package entrycache

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/heartmarshall/lexigraph/internal/config"
	"github.com/heartmarshall/lexigraph/internal/domain"
)

const defaultBatchSize = 500

// Connect opens a Redis client and verifies it with PING.
// It returns (nil, nil) when no address is configured.
func Connect(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	if !cfg.Enabled() {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.Addr, err)
	}
	return rdb, nil
}

// Cache reads and writes entry hashes under a key prefix.
type Cache struct {
	rdb    goredis.Cmdable
	prefix string
}

// New creates a Cache. An empty prefix selects "lexicon".
func New(rdb goredis.Cmdable, prefix string) *Cache {
	if prefix == "" {
		prefix = "lexicon"
	}
	return &Cache{rdb: rdb, prefix: prefix}
}

// Key returns the hash key holding every part of speech of lemma.
func (c *Cache) Key(lemma string) string {
	return c.prefix + ":entry:" + lemma
}

// Publish writes entries in pipelined chunks of batchSize hashes and
// returns the number of fields written.
func (c *Cache) Publish(ctx context.Context, entries []domain.LexicalEntry, batchSize int) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	hashes, err := c.encode(entries)
	if err != nil {
		return 0, err
	}

	keys := make([]string, 0, len(hashes))
	for k := range hashes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	written := 0
	for i := 0; i < len(keys); i += batchSize {
		chunk := keys[i:min(i+batchSize, len(keys))]
		_, err := c.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
			for _, key := range chunk {
				pipe.HSet(ctx, key, hashes[key])
			}
			return nil
		})
		if err != nil {
			return written, fmt.Errorf("publish entries: %w", err)
		}
		for _, key := range chunk {
			written += len(hashes[key])
		}
	}
	return written, nil
}

// Lookup returns every cached entry of lemma ordered by part of speech.
// An unknown lemma yields an empty slice.
func (c *Cache) Lookup(ctx context.Context, lemma string) ([]domain.LexicalEntry, error) {
	fields, err := c.rdb.HGetAll(ctx, c.Key(lemma)).Result()
	if err != nil {
		return nil, fmt.Errorf("lookup %q: %w", lemma, err)
	}

	entries := make([]domain.LexicalEntry, 0, len(fields))
	for pos, raw := range fields {
		var e domain.LexicalEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode %s/%s: %w", lemma, pos, err)
		}
		e.Lemma = lemma
		e.POS = domain.PartOfSpeech(pos)
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].POS < entries[j].POS })
	return entries, nil
}

// Purge deletes every entry hash under the prefix and returns the number
// of keys removed.
func (c *Cache) Purge(ctx context.Context) (int64, error) {
	var deleted int64
	iter := c.rdb.Scan(ctx, 0, c.prefix+":entry:*", 1000).Iterator()
	var batch []string
	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		n, err := c.rdb.Del(ctx, batch...).Result()
		if err != nil {
			return err
		}
		deleted += n
		batch = batch[:0]
		return nil
	}
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 1000 {
			if err := flush(); err != nil {
				return deleted, fmt.Errorf("purge entries: %w", err)
			}
		}
	}
	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("scan entries: %w", err)
	}
	if err := flush(); err != nil {
		return deleted, fmt.Errorf("purge entries: %w", err)
	}
	return deleted, nil
}

// encode groups entries by hash key. A repeated (lemma, pos) keeps the last value.
func (c *Cache) encode(entries []domain.LexicalEntry) (map[string]map[string]any, error) {
	hashes := make(map[string]map[string]any)
	for _, e := range entries {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode %s/%s: %w", e.Lemma, e.POS, err)
		}
		key := c.Key(e.Lemma)
		if hashes[key] == nil {
			hashes[key] = make(map[string]any)
		}
		hashes[key][string(e.POS)] = string(raw)
	}
	return hashes, nil
}
