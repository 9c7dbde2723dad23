// Package config loads service settings from .env files and the process
// environment.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Ticket sources
const (
	SourceSeed      = "seed"
	SourceFixture   = "fixture"
	SourceCouchbase = "couchbase"
)

// Config is everything the binaries read from the environment
type Config struct {
	APIPort          string `env:"API_PORT" envDefault:"8080"`
	LogLevel         string `env:"API_LOG_LEVEL" envDefault:"info"`
	ElasticsearchURL string `env:"ELASTICSEARCH_URL"`

	TicketSource   string `env:"TICKET_SOURCE" envDefault:"seed"`
	TicketsFixture string `env:"TICKETS_FIXTURE"`

	CouchbaseURL      string `env:"COUCHBASE_URL" envDefault:"couchbase://localhost"`
	CouchbaseUsername string `env:"COUCHBASE_USERNAME"`
	CouchbasePassword string `env:"COUCHBASE_PASSWORD"`
	CouchbaseBucket   string `env:"COUCHBASE_BUCKET" envDefault:"opsboard"`
	MirrorSaves       bool   `env:"COUCHBASE_MIRROR" envDefault:"false"`

	SORBaseURL string        `env:"SOR_BASE_URL"`
	SORTimeout time.Duration `env:"SOR_TIMEOUT" envDefault:"5s"`

	BusinessMetrics       bool          `env:"ENABLE_BUSINESS_METRICS" envDefault:"false"`
	SystemMetrics         bool          `env:"ENABLE_SYSTEM_METRICS" envDefault:"false"`
	SystemMetricsInterval time.Duration `env:"SYSTEM_METRICS_INTERVAL" envDefault:"15s"`

	SeedWaitTimeout time.Duration `env:"SEED_WAIT_TIMEOUT" envDefault:"2m"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// LoadDotEnv reads ../.env, then .env. Missing files are fine.
func LoadDotEnv() {
	if err := godotenv.Load("../.env"); err == nil {
		return
	}
	log.Info().Msg("Not found .env file in parent directory, trying current directory")
	if err := godotenv.Load(".env"); err != nil {
		log.Info().Msg("Not found .env file in current directory, assuming environment variables are set")
	}
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load reads .env files and parses the environment.
func Load() (Config, error) {
	LoadDotEnv()

	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks combinations the struct tags cannot express.
func (c Config) Validate() error {
	switch c.TicketSource {
	case SourceSeed:
	case SourceFixture:
		if c.TicketsFixture == "" {
			return errors.New("TICKETS_FIXTURE is required when TICKET_SOURCE=fixture")
		}
	case SourceCouchbase:
		if c.CouchbaseBucket == "" {
			return errors.New("COUCHBASE_BUCKET is required when TICKET_SOURCE=couchbase")
		}
	default:
		return fmt.Errorf("unknown TICKET_SOURCE %q", c.TicketSource)
	}
	if c.SystemMetricsInterval <= 0 {
		return errors.New("SYSTEM_METRICS_INTERVAL must be positive")
	}
	return nil
}

// UsesCouchbase reports whether any component needs a cluster connection.
func (c Config) UsesCouchbase() bool {
	return c.TicketSource == SourceCouchbase || c.MirrorSaves
}

// CouchbaseConfigured reports whether credentials were supplied.
func (c Config) CouchbaseConfigured() bool {
	return c.CouchbaseURL != "" && c.CouchbaseUsername != ""
}
