package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"codeberg.org/algopatterns/dedup/internal/dedup"
)

// loads configuration from environment variables
func LoadEnvironmentVariables() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		_ = err // not an error - production environments may not have .env file
	}

	return loadFrom(os.Getenv)
}

func loadFrom(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		Environment:            getenv("ENVIRONMENT"),
		Port:                   getenv("PORT"),
		RedisURL:               getenv("REDIS_URL"),
		DatabaseURL:            getenv("DATABASE_URL"),
		RateLimit:              getenv("RATE_LIMIT"),
		PassIdleTimeout:        DefaultPassIdleTimeout,
		MaxDocumentsPerRequest: DefaultMaxDocuments,
		Strategy:               DefaultStrategy,
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	if cfg.Port == "" {
		cfg.Port = DefaultPort
	}

	if cfg.RateLimit == "" {
		cfg.RateLimit = DefaultRateLimit
	}

	if name := getenv("DEDUP_STRATEGY"); name != "" {
		strategy, err := dedup.ParseStrategy(name)
		if err != nil {
			return nil, fmt.Errorf("DEDUP_STRATEGY: %w", err)
		}
		cfg.Strategy = strategy
	}

	var err error

	if cfg.Options.Threshold, err = floatVar(getenv, "DEDUP_THRESHOLD"); err != nil {
		return nil, err
	}

	if cfg.Options.NgramSize, err = intVar(getenv, "DEDUP_NGRAM_SIZE"); err != nil {
		return nil, err
	}

	if cfg.Options.NumPerm, err = intVar(getenv, "DEDUP_NUM_PERM"); err != nil {
		return nil, err
	}

	if cfg.Options.ReweightFactor, err = floatVar(getenv, "DEDUP_REWEIGHT_FACTOR"); err != nil {
		return nil, err
	}

	if v := getenv("DEDUP_SHARDED"); v != "" {
		sharded, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("DEDUP_SHARDED must be a boolean: %w", err)
		}
		cfg.Options.Sharded = &sharded
	}

	cfg.Options.BackendName = getenv("DEDUP_BACKEND")

	for _, origin := range strings.Split(getenv("CORS_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	if v := getenv("PASS_IDLE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("PASS_IDLE_TIMEOUT must be a positive duration, got %q", v)
		}
		cfg.PassIdleTimeout = d
	}

	if n, err := intVar(getenv, "MAX_DOCUMENTS_PER_REQUEST"); err != nil {
		return nil, err
	} else if n != nil {
		if *n <= 0 {
			return nil, fmt.Errorf("MAX_DOCUMENTS_PER_REQUEST must be positive, got %d", *n)
		}
		cfg.MaxDocumentsPerRequest = *n
	}

	// surface bad defaults at startup rather than on the first request. requests
	// may pick any strategy and inherit these options, so check them all.
	if _, err := dedup.New(cfg.Strategy, cfg.Options); err != nil {
		return nil, fmt.Errorf("invalid dedup defaults: %w", err)
	}

	if err := validateOptions(cfg.Options); err != nil {
		return nil, fmt.Errorf("invalid dedup defaults: %w", err)
	}

	return cfg, nil
}

func validateOptions(opts dedup.Options) error {
	if _, err := opts.ExactConfig(); err != nil {
		return err
	}

	if _, err := opts.FuzzyConfig(); err != nil {
		return err
	}

	_, err := opts.SoftConfig()
	return err
}

func floatVar(getenv func(string) string, key string) (*float64, error) {
	v := getenv(key)
	if v == "" {
		return nil, nil
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number: %w", key, err)
	}

	return &f, nil
}

func intVar(getenv func(string) string, key string) (*int, error) {
	v := getenv(key)
	if v == "" {
		return nil, nil
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer: %w", key, err)
	}

	return &n, nil
}
