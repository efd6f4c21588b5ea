package event

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional_UnmarshalDistinguishesAbsentNullValue(t *testing.T) {
	t.Parallel()

	var absent, null, value GuildMemberUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"guild_id":"1","user":{"id":"2"}}`), &absent))
	require.NoError(t, json.Unmarshal([]byte(`{"guild_id":"1","user":{"id":"2"},"nick":null}`), &null))
	require.NoError(t, json.Unmarshal([]byte(`{"guild_id":"1","user":{"id":"2"},"nick":"neo","roles":[]}`), &value))

	require.False(t, absent.Nick.Present)
	require.False(t, absent.Roles.Present)

	require.True(t, null.Nick.Present)
	require.Nil(t, null.Nick.Value)

	require.True(t, value.Nick.Present)
	require.Equal(t, "neo", *value.Nick.Value)
	roles, ok := value.Roles.Get()
	require.True(t, ok)
	require.Empty(t, roles)
}

func TestOptional_Apply(t *testing.T) {
	t.Parallel()

	dst := 3
	Optional[int]{}.Apply(&dst)
	require.Equal(t, 3, dst)

	Some(5).Apply(&dst)
	require.Equal(t, 5, dst)
}
