package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"local"`
	APIMasterKey    string        `env:"API_MASTER_KEY,required,notEmpty"`
	HTTPPort        string        `env:"HTTP_PORT" envDefault:":8080"`
	ScyllaHosts     []string      `env:"SCYLLA_HOSTS" envDefault:"localhost" envSeparator:","`
	ScyllaKeyspace  string        `env:"SCYLLA_KEYSPACE" envDefault:"karmatic"`
	ScyllaTimeout   time.Duration `env:"SCYLLA_TIMEOUT" envDefault:"5s"`
	TrustScoreTTL   int           `env:"TRUST_SCORE_TTL" envDefault:"604800"`
	RankConcurrency int           `env:"RANK_CONCURRENCY" envDefault:"8"`
	DefaultRegion   string        `env:"DEFAULT_REGION" envDefault:"MX"`
}

// Load reads .env when present and parses the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	return parse()
}

func parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}

	if cfg.TrustScoreTTL <= 0 {
		return nil, fmt.Errorf("TRUST_SCORE_TTL must be positive, got %d", cfg.TrustScoreTTL)
	}
	if cfg.RankConcurrency <= 0 {
		return nil, fmt.Errorf("RANK_CONCURRENCY must be positive, got %d", cfg.RankConcurrency)
	}

	return cfg, nil
}
