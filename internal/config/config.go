package config

import "time"

// Config is the root application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Redis    RedisConfig    `yaml:"redis"`
	Graph    GraphConfig    `yaml:"graph"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RedisConfig holds the entry cache connection. An empty Addr disables the cache phase.
type RedisConfig struct {
	Addr      string `yaml:"addr"       env:"REDIS_ADDR"`
	Password  string `yaml:"password"   env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db"         env:"REDIS_DB"         env-default:"0"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX" env-default:"lexicon"`
}

// Enabled reports whether a Redis address is configured.
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// GraphConfig holds the Neo4j connection used by the graph phase.
// An empty URI disables it.
type GraphConfig struct {
	URI         string        `yaml:"uri"           env:"NEO4J_URI"`
	User        string        `yaml:"user"          env:"NEO4J_USER"           env-default:"neo4j"`
	Password    string        `yaml:"password"      env:"NEO4J_PASSWORD"`
	Database    string        `yaml:"database"      env:"NEO4J_DATABASE"`
	MaxPoolSize int           `yaml:"max_pool_size" env:"NEO4J_MAX_POOL_SIZE"  env-default:"50"`
	Timeout     time.Duration `yaml:"timeout"       env:"NEO4J_TIMEOUT"        env-default:"10s"`
}

// Enabled reports whether a Neo4j URI is configured.
func (c GraphConfig) Enabled() bool { return c.URI != "" }
