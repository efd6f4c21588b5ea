// Package storage opens the backend selected by configuration.
package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/config"
	"github.com/and161185/discord-cache/internal/migrate"
	"github.com/and161185/discord-cache/internal/repository"
	"github.com/and161185/discord-cache/internal/repository/graph"
	"github.com/and161185/discord-cache/internal/repository/memory"
	"github.com/and161185/discord-cache/internal/repository/postgres"
)

// Opened is a ready backend and the function releasing it.
type Opened struct {
	Backend repository.Backend
	// Memory is set for the in-memory backend so callers can inspect it.
	Memory *memory.Backend
	Close  func()
}

// Open connects to the configured backend, preparing its schema first.
func Open(ctx context.Context, cfg config.Config, log *zap.Logger) (*Opened, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		mem := memory.New()
		return &Opened{Backend: mem.Repository(), Memory: mem, Close: func() {}}, nil

	case config.BackendPostgres:
		if cfg.Migrate {
			if err := migrate.Up(ctx, cfg.DatabaseDSN); err != nil {
				return nil, fmt.Errorf("migrate up: %w", err)
			}
		}
		db, err := postgres.New(ctx, cfg.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("postgres: %w", err)
		}
		log.Info("postgres backend ready")
		return &Opened{Backend: postgres.NewBackend(db), Close: db.Close}, nil

	case config.BackendNeo4j:
		n := cfg.Neo4j
		conn, err := graph.Connect(ctx, n.URI, n.User, n.Password, n.Database, log)
		if err != nil {
			return nil, fmt.Errorf("neo4j: %w", err)
		}
		closeConn := func() {
			if err := conn.Close(context.Background()); err != nil {
				log.Warn("neo4j close", zap.Error(err))
			}
		}
		if cfg.Migrate {
			if err := graph.EnsureSchema(ctx, conn); err != nil {
				closeConn()
				return nil, fmt.Errorf("neo4j schema: %w", err)
			}
		}
		return &Opened{Backend: graph.NewBackend(conn), Close: closeConn}, nil
	}
	return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalid, cfg.Backend)
}
