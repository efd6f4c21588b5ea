package event

import (
	"encoding/json"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"
)

func TestNew_Partition(t *testing.T) {
	t.Parallel()

	guild := func(id snowflake.ID) *snowflake.ID { return &id }

	tests := []struct {
		name string
		typ  gateway.EventType
		data any
		want snowflake.ID
	}{
		{
			name: "direct message",
			typ:  gateway.EventTypeMessageCreate,
			data: gateway.EventMessageCreate{Message: discord.Message{ID: 1}},
		},
		{
			name: "guild message",
			typ:  gateway.EventTypeMessageCreate,
			data: gateway.EventMessageCreate{Message: discord.Message{ID: 1, GuildID: guild(9)}},
			want: 9,
		},
		{
			name: "guild delete",
			typ:  gateway.EventTypeGuildDelete,
			data: gateway.EventGuildDelete{GatewayGuild: discord.GatewayGuild{RestGuild: discord.RestGuild{Guild: discord.Guild{ID: 4}}}},
			want: 4,
		},
		{
			name: "member update",
			typ:  gateway.EventTypeGuildMemberUpdate,
			data: GuildMemberUpdate{GuildID: 7},
			want: 7,
		},
		{
			name: "bulk delete",
			typ:  gateway.EventTypeMessageDeleteBulk,
			data: MessageDeleteBulk{EventMessageDeleteBulk: gateway.EventMessageDeleteBulk{GuildID: guild(5)}},
			want: 5,
		},
		{
			name: "ready",
			typ:  gateway.EventTypeReady,
			data: Ready{},
		},
		{
			name: "unknown with guild",
			typ:  "SOMETHING_NEW",
			data: gateway.EventUnknown(`{"guild_id":"12"}`),
			want: 12,
		},
		{
			name: "unknown without guild",
			typ:  "SOMETHING_NEW",
			data: gateway.EventUnknown(`{}`),
		},
		{
			name: "no payload",
			typ:  gateway.EventTypeResumed,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := New(tt.typ, tt.data)
			require.Equal(t, tt.typ, e.Type)
			require.Equal(t, tt.want, e.Partition())
		})
	}
}

func TestChannel_Unmarshal(t *testing.T) {
	t.Parallel()

	var dm Channel
	require.NoError(t, json.Unmarshal([]byte(`{"id":"300","type":1,"recipients":[{"id":"2","username":"bot"},{"id":"7","username":"bob"}]}`), &dm))
	require.Equal(t, discord.ChannelTypeDM, dm.Type())
	require.EqualValues(t, 300, dm.ID())
	require.Len(t, dm.Recipients, 2)
	require.EqualValues(t, 7, dm.Recipients[1].ID)
	require.Zero(t, New(gateway.EventTypeChannelCreate, dm).Partition())

	var text Channel
	require.NoError(t, json.Unmarshal([]byte(`{"id":"200","type":0,"guild_id":"100","name":"general","permission_overwrites":[{"id":"100","type":0,"allow":"0","deny":"2048"}]}`), &text))
	gc, ok := text.Channel.(discord.GuildChannel)
	require.True(t, ok, "%T", text.Channel)
	require.Equal(t, "general", gc.Name())
	require.Len(t, gc.PermissionOverwrites(), 1)
	require.EqualValues(t, 100, New(gateway.EventTypeChannelCreate, text).Partition())

	var bad Channel
	require.Error(t, json.Unmarshal([]byte(`{"id":"1","type":999}`), &bad))
}

func TestReady_PrivateChannels(t *testing.T) {
	t.Parallel()

	var r Ready
	raw := `{"v":10,"user":{"id":"2","username":"bot","bot":true},"session_id":"abc",
		"guilds":[{"id":"100","unavailable":true}],
		"private_channels":[{"id":"300","type":1,"recipients":[{"id":"7","username":"bob"}]}]}`
	require.NoError(t, json.Unmarshal([]byte(raw), &r))
	require.EqualValues(t, 2, r.User.ID)
	require.True(t, r.User.Bot)
	require.Equal(t, "abc", r.SessionID)
	require.Len(t, r.Guilds, 1)
	require.Len(t, r.PrivateChannels, 1)
	require.EqualValues(t, 7, r.PrivateChannels[0].Recipients[0].ID)
}
