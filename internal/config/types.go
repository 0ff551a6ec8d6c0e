package config

import (
	"time"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

const (
	DefaultPort            = "8080"
	DefaultStrategy        = dedup.StrategySoft
	DefaultRateLimit       = "120-M"
	DefaultPassIdleTimeout = 30 * time.Minute
	DefaultMaxDocuments    = 10000
)

// server configuration read from the environment
type Config struct {
	Environment string
	Port        string

	// strategy and parameters used when a request names none
	Strategy dedup.Strategy
	Options  dedup.Options

	// optional report stores; postgres wins when both are set
	RedisURL    string
	DatabaseURL string

	// ulule limiter rate, e.g. "120-M"
	RateLimit string

	// CORS origins; empty allows any origin
	AllowedOrigins []string

	PassIdleTimeout        time.Duration
	MaxDocumentsPerRequest int
}

// reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// command-line flags of the dedup tool
type Flags struct {
	Strategy dedup.Strategy
	Options  dedup.Options

	// JSONL paths; empty or "-" means stdin/stdout
	Input  string
	Output string

	// key holding the document text in each JSON line
	TextField string

	// shard subcommand only
	Shards int
	By     string
}
