package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/config"
	"github.com/and161185/discord-cache/internal/model"
)

func TestOpen_Memory(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	o, err := Open(ctx, config.Config{Backend: config.BackendMemory}, zap.NewNop())
	require.NoError(t, err)
	defer o.Close()

	require.NotNil(t, o.Memory)
	require.NoError(t, o.Backend.Guilds.Upsert(ctx, model.Guild{ID: 1, Name: "g"}))
	require.Equal(t, 1, o.Memory.Rows())
}

func TestOpen_Unknown(t *testing.T) {
	t.Parallel()
	_, err := Open(context.Background(), config.Config{Backend: "redis"}, zap.NewNop())
	require.ErrorIs(t, err, config.ErrInvalid)
}
