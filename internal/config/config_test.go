package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"CACHE_BACKEND", "DISPATCH_BUFFER", "NEO4J_USER", "NEO4J_DATABASE", "DATABASE_MIGRATE"} {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, 64, cfg.DispatchBuffer)
	require.True(t, cfg.Migrate)
	require.Equal(t, "neo4j", cfg.Neo4j.User)
	require.Equal(t, "neo4j", cfg.Neo4j.Database)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "neo4j")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")
	t.Setenv("CONTINUE_ON_ERROR", "true")
	t.Setenv("DISPATCH_BUFFER", "8")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	require.Equal(t, BackendNeo4j, cfg.Backend)
	require.Equal(t, "neo4j://localhost:7687", cfg.Neo4j.URI)
	require.Equal(t, "secret", cfg.Neo4j.Password)
	require.True(t, cfg.ContinueOnError)
	require.Equal(t, 8, cfg.DispatchBuffer)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("DATABASE_DSN", "")
	require.NoError(t, os.Unsetenv("DATABASE_DSN"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("CACHE_BACKEND=postgres\nDATABASE_DSN=postgres://cache@localhost/cache\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, "postgres://cache@localhost/cache", cfg.DatabaseDSN)
}

func TestLoad_ParseError(t *testing.T) {
	t.Setenv("DISPATCH_BUFFER", "lots")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.ErrorContains(t, err, "parse env:")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		ok   bool
	}{
		{name: "memory", cfg: Config{Backend: BackendMemory, DispatchBuffer: 1}, ok: true},
		{name: "postgres without dsn", cfg: Config{Backend: BackendPostgres, DispatchBuffer: 1}},
		{name: "postgres", cfg: Config{Backend: BackendPostgres, DatabaseDSN: "postgres://x", DispatchBuffer: 1}, ok: true},
		{name: "neo4j without uri", cfg: Config{Backend: BackendNeo4j, DispatchBuffer: 1}},
		{name: "unknown backend", cfg: Config{Backend: "redis", DispatchBuffer: 1}},
		{name: "zero buffer", cfg: Config{Backend: BackendMemory}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.ok {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, ErrInvalid)
		})
	}
}
