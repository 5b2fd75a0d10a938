package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_DSN", "postgres://u:p@localhost:5432/testdb")
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

const validYAML = `
database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 8
  min_conns: 1

log:
  level: "debug"
  format: "text"

redis:
  addr: "localhost:6379"
  db: 3
  key_prefix: "wn"

graph:
  uri: "neo4j://localhost:7687"
  password: "secret"
  timeout: "5s"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Database
	if cfg.Database.DSN != "postgres://u:p@localhost:5432/testdb" {
		t.Errorf("database.dsn = %q", cfg.Database.DSN)
	}
	if cfg.Database.MaxConns != 8 {
		t.Errorf("database.max_conns = %d, want 8", cfg.Database.MaxConns)
	}
	if cfg.Database.MaxConnLifetime != time.Hour {
		t.Errorf("database.max_conn_lifetime = %v, want 1h (default)", cfg.Database.MaxConnLifetime)
	}

	// Log
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
	if cfg.Log.Format != "text" {
		t.Errorf("log.format = %q, want %q", cfg.Log.Format, "text")
	}

	// Redis
	if !cfg.Redis.Enabled() {
		t.Error("redis should be enabled")
	}
	if cfg.Redis.DB != 3 || cfg.Redis.KeyPrefix != "wn" {
		t.Errorf("redis = %+v", cfg.Redis)
	}

	// Graph
	if !cfg.Graph.Enabled() {
		t.Error("graph should be enabled")
	}
	if cfg.Graph.User != "neo4j" {
		t.Errorf("graph.user = %q, want neo4j (default)", cfg.Graph.User)
	}
	if cfg.Graph.Timeout != 5*time.Second {
		t.Errorf("graph.timeout = %v, want 5s", cfg.Graph.Timeout)
	}
	if cfg.Graph.MaxPoolSize != 50 {
		t.Errorf("graph.max_pool_size = %d, want 50", cfg.Graph.MaxPoolSize)
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("DATABASE_MAX_CONNS", "20")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.MaxConns != 20 {
		t.Errorf("database.max_conns = %d, want 20 (ENV override)", cfg.Database.MaxConns)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)

	// Unset CONFIG_PATH so the ./config.yaml fallback kicks in and is absent.
	t.Setenv("CONFIG_PATH", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.MaxConns != 10 {
		t.Errorf("database.max_conns = %d, want 10 (default)", cfg.Database.MaxConns)
	}
	if cfg.Redis.Enabled() || cfg.Graph.Enabled() {
		t.Error("redis and graph should be disabled by default")
	}
	if cfg.Redis.KeyPrefix != "lexicon" {
		t.Errorf("redis.key_prefix = %q, want lexicon", cfg.Redis.KeyPrefix)
	}
}

func TestLoad_MissingDSN(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("DATABASE_DSN", "")
	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	if _, err := Load(); err == nil {
		t.Fatal("expected error when DATABASE_DSN is not set")
	}
}

func TestLoad_ExplicitPathNotFound(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"max conns zero", func(c *Config) { c.Database.MaxConns = 0 }, true},
		{"min conns negative", func(c *Config) { c.Database.MinConns = -1 }, true},
		{"min exceeds max", func(c *Config) { c.Database.MinConns = 20; c.Database.MaxConns = 10 }, true},
		{"min equals max", func(c *Config) { c.Database.MinConns = 10; c.Database.MaxConns = 10 }, false},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"log format case-insensitive", func(c *Config) { c.Log.Format = "TEXT" }, false},
		{"negative redis db", func(c *Config) { c.Redis.DB = -1 }, true},
		{"graph pool zero when enabled", func(c *Config) { c.Graph.URI = "neo4j://x"; c.Graph.MaxPoolSize = 0 }, true},
		{"graph pool zero when disabled", func(c *Config) { c.Graph.MaxPoolSize = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func validConfig() Config {
	return Config{
		Database: DatabaseConfig{
			DSN:      "postgres://u:p@localhost:5432/testdb",
			MaxConns: 10,
			MinConns: 2,
		},
		Log: LogConfig{Level: "info", Format: "json"},
		Redis: RedisConfig{
			KeyPrefix: "lexicon",
		},
		Graph: GraphConfig{
			User:        "neo4j",
			MaxPoolSize: 50,
			Timeout:     10 * time.Second,
		},
	}
}
