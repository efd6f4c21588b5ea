package model

import (
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/stretchr/testify/require"
)

func TestMember_CommunicationDisabled(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ptr := func(s string) *string { return &s }

	tests := []struct {
		name    string
		until   *string
		want    bool
		wantErr bool
	}{
		{name: "never timed out", until: nil, want: false},
		{name: "future", until: ptr("2024-05-01T12:30:00+00:00"), want: true},
		{name: "fractional seconds", until: ptr("2024-05-01T12:00:00.500000+00:00"), want: true},
		{name: "expired", until: ptr("2024-05-01T11:00:00Z"), want: false},
		{name: "exactly now", until: ptr("2024-05-01T12:00:00Z"), want: false},
		{name: "garbage", until: ptr("tomorrow"), wantErr: true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := Member{CommunicationDisabledUntil: tc.until}.CommunicationDisabled(now)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

func TestPermissionOverwrite_Apply(t *testing.T) {
	t.Parallel()

	base := discord.PermissionViewChannel | discord.PermissionSendMessages
	ow := PermissionOverwrite{
		Allow: discord.PermissionReadMessageHistory | discord.PermissionSendMessages,
		Deny:  discord.PermissionSendMessages | discord.PermissionViewChannel,
	}

	// allow wins over deny within one overwrite
	got := ow.Apply(base)
	require.True(t, got.Has(discord.PermissionSendMessages))
	require.True(t, got.Has(discord.PermissionReadMessageHistory))
	require.False(t, got.Has(discord.PermissionViewChannel))
}

func TestRole_AssignedAndEveryone(t *testing.T) {
	t.Parallel()

	def := Role{ID: 10, GuildID: 10, Name: "@everyone"}
	require.True(t, def.IsEveryone())

	held := def.Assigned(7)
	require.Equal(t, def.ID, held.ID)
	require.EqualValues(t, 7, held.UserID)
	require.Zero(t, def.UserID)
}
