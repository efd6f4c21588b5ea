// Package config loads runtime settings from the environment and optional .env files.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Backend names a storage implementation.
type Backend string

// Supported backends.
const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendNeo4j    Backend = "neo4j"
)

// ErrInvalid is returned when settings are inconsistent.
var ErrInvalid = errors.New("invalid configuration")

// Config holds every setting of the commands.
type Config struct {
	Backend         Backend `env:"CACHE_BACKEND" envDefault:"memory"`
	DatabaseDSN     string  `env:"DATABASE_DSN"`
	Migrate         bool    `env:"DATABASE_MIGRATE" envDefault:"true"`
	Neo4j           Neo4j   `envPrefix:"NEO4J_"`
	LogDevelopment  bool    `env:"LOG_DEVELOPMENT"`
	DispatchBuffer  int     `env:"DISPATCH_BUFFER" envDefault:"64"`
	ContinueOnError bool    `env:"CONTINUE_ON_ERROR"`
}

// Neo4j holds graph backend connection settings.
type Neo4j struct {
	URI      string `env:"URI"`
	User     string `env:"USER" envDefault:"neo4j"`
	Password string `env:"PASSWORD"`
	Database string `env:"DATABASE" envDefault:"neo4j"`
}

// Load reads the given .env files, ".env" when none are given, then parses the
// environment. Missing files are ignored and variables already set win.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks backend-specific requirements.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.DatabaseDSN == "" {
			return fmt.Errorf("%w: DATABASE_DSN is required for the postgres backend", ErrInvalid)
		}
	case BackendNeo4j:
		if c.Neo4j.URI == "" {
			return fmt.Errorf("%w: NEO4J_URI is required for the neo4j backend", ErrInvalid)
		}
	default:
		return fmt.Errorf("%w: unknown CACHE_BACKEND %q", ErrInvalid, c.Backend)
	}
	if c.DispatchBuffer <= 0 {
		return fmt.Errorf("%w: DISPATCH_BUFFER must be positive", ErrInvalid)
	}
	return nil
}

// Logger builds the process logger.
func (c Config) Logger() (*zap.Logger, error) {
	if c.LogDevelopment {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
