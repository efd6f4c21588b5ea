package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSentinelKinds(t *testing.T) {
	t.Parallel()

	missing := []error{
		ErrCurrentUserMissing, ErrMemberRoleMissing, ErrGuildMissing, ErrChannelMissing,
		ErrMemberMissing, ErrEveryoneRoleMissing, ErrChannelGuildMissing,
	}
	for _, err := range missing {
		require.ErrorIs(t, err, ErrMissingPrerequisite, err.Error())
		require.NotErrorIs(t, err, ErrMalformedState, err.Error())
	}

	malformed := []error{ErrBadTimeoutTimestamp, ErrPrivateChannelMissingRecipient}
	for _, err := range malformed {
		require.ErrorIs(t, err, ErrMalformedState, err.Error())
		require.NotErrorIs(t, err, ErrMissingPrerequisite, err.Error())
	}
}

func TestBackendError(t *testing.T) {
	t.Parallel()

	require.NoError(t, Backend("upsert guild", nil))

	cause := errors.New("connection reset")
	err := fmt.Errorf("apply: %w", Backend("upsert guild", cause))

	require.ErrorIs(t, err, ErrBackendFailure)
	require.ErrorIs(t, err, cause)
	require.Contains(t, err.Error(), "upsert guild: connection reset")

	var be *BackendError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "upsert guild", be.Op)
}
