package pipeline_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/pipeline"
	"github.com/and161185/discord-cache/internal/repository/memory"
	"github.com/and161185/discord-cache/internal/service"
)

func guild(id snowflake.ID, members int) []event.Event {
	snapshot := discord.GatewayGuild{RestGuild: discord.RestGuild{
		Guild: discord.Guild{ID: id, OwnerID: 1},
		Roles: []discord.Role{{ID: id, Permissions: discord.PermissionViewChannel}, {ID: id + 1}},
	}}
	evs := []event.Event{event.New(gateway.EventTypeGuildCreate, gateway.EventGuildCreate{GatewayGuild: snapshot})}
	for u := 1; u <= members; u++ {
		evs = append(evs, event.New(gateway.EventTypeGuildMemberAdd, gateway.EventGuildMemberAdd{Member: discord.Member{
			GuildID:  id,
			User:     discord.User{ID: snowflake.ID(u)},
			RoleIDs:  []snowflake.ID{id + 1},
			JoinedAt: time.Unix(0, 0).UTC(),
		}}))
	}
	return append(evs, event.New(gateway.EventTypeGuildRoleDelete, gateway.EventGuildRoleDelete{GuildID: id, RoleID: id + 1}))
}

func ready(userID snowflake.ID) event.Event {
	return event.New(gateway.EventTypeReady, event.Ready{EventReady: gateway.EventReady{
		User: discord.OAuth2User{User: discord.User{ID: userID}},
	}})
}

func TestDispatcher_WithSynchronizer(t *testing.T) {
	t.Parallel()
	log := zaptest.NewLogger(t)
	mem := memory.New()
	syncer := service.NewSynchronizer(mem.Repository(), service.NewSession(), log)
	applier := pipeline.Chain(syncer, pipeline.Recover(log), pipeline.Logging(log))

	a, b := guild(1000, 20), guild(2000, 20)
	in := make(chan event.Event)
	go func() {
		defer close(in)
		for i := range a {
			in <- a[i]
			in <- b[i]
		}
		in <- ready(1)
	}()

	d := pipeline.NewDispatcher(applier, log, pipeline.Options{Buffer: 4})
	require.NoError(t, d.Run(context.Background(), in))
	require.Equal(t, pipeline.Stats{Applied: int64(len(a) + len(b) + 1), Partitions: 3}, d.Stats())

	ctx := context.Background()
	for _, g := range []snowflake.ID{1000, 2000} {
		members, err := mem.Members.ListByParent(ctx, g)
		require.NoError(t, err)
		require.Len(t, members, 20)
		held, err := mem.MemberRoles.ListByMember(ctx, model.MemberKey{GuildID: g, UserID: 5})
		require.NoError(t, err)
		require.Empty(t, held)
	}
	require.Zero(t, mem.MemberRoles.Len())
}

func TestDispatcher_UnknownRoleStopsPartition(t *testing.T) {
	t.Parallel()
	mem := memory.New()
	syncer := service.NewSynchronizer(mem.Repository(), service.NewSession(), nil)

	in := make(chan event.Event, 2)
	in <- event.New(gateway.EventTypeGuildMemberAdd, gateway.EventGuildMemberAdd{Member: discord.Member{
		GuildID: 5, User: discord.User{ID: 1}, RoleIDs: []snowflake.ID{9},
	}})
	close(in)

	err := pipeline.NewDispatcher(syncer, nil, pipeline.Options{}).Run(context.Background(), in)
	require.Error(t, err)
	require.Contains(t, err.Error(), "GUILD_MEMBER_ADD")
	require.Zero(t, mem.Rows())
}

func TestDispatcher_OwnReactionBeforeReady(t *testing.T) {
	t.Parallel()
	log := zaptest.NewLogger(t)
	mem := memory.New()
	syncer := service.NewSynchronizer(mem.Repository(), service.NewSession(), log)
	slowReady := func(ctx context.Context, e event.Event, next pipeline.ApplyFunc) error {
		if e.Type == gateway.EventTypeReady {
			time.Sleep(50 * time.Millisecond)
		}
		return next(ctx, e)
	}

	guildID := snowflake.ID(500)
	msg := event.New(gateway.EventTypeMessageCreate, gateway.EventMessageCreate{Message: discord.Message{
		ID:        900,
		ChannelID: 200,
		GuildID:   &guildID,
		Author:    discord.User{ID: 3},
		Reactions: []discord.MessageReaction{{Count: 1, Me: true, Emoji: discord.Emoji{Name: "👍"}}},
	}})

	in := make(chan event.Event, 2)
	in <- ready(1)
	in <- msg
	close(in)

	d := pipeline.NewDispatcher(pipeline.Chain(syncer, slowReady), log, pipeline.Options{})
	require.NoError(t, d.Run(context.Background(), in))
	require.Equal(t, pipeline.Stats{Applied: 2, Partitions: 2}, d.Stats())

	ctx := context.Background()
	_, err := mem.Messages.Get(ctx, 900)
	require.NoError(t, err)
	reactions, err := mem.Reactions.ListByParent(ctx, 900)
	require.NoError(t, err)
	require.Empty(t, reactions)
}

const frames = `{"op":10,"d":{"heartbeat_interval":41250}}
{"op":0,"s":1,"t":"READY","d":{"user":{"id":"2","username":"bot"},"private_channels":[],"guilds":[{"id":"100","unavailable":true}]}}
{"op":0,"s":2,"t":"GUILD_CREATE","d":{"id":"100","name":"guild","owner_id":"1","roles":[{"id":"100","name":"@everyone","permissions":"1024"},{"id":"101","name":"mods","permissions":"8"}],"channels":[{"id":"200","type":0,"name":"general"}],"members":[{"user":{"id":"2","username":"bot"},"roles":["101"],"joined_at":"2023-01-01T00:00:00.000000+00:00"}],"presences":[]}}
{"op":0,"s":3,"t":"TYPING_START","d":{"guild_id":"100","channel_id":"200"}}
{"op":0,"s":4,"t":"MESSAGE_CREATE","d":{"id":"900","channel_id":"200","guild_id":"100","author":{"id":"2"},"content":"hi","timestamp":"2024-01-01T00:00:00.000000+00:00","embeds":[],"attachments":[],"mentions":[],"mention_roles":[]}}
`

func TestReplay(t *testing.T) {
	t.Parallel()
	log := zaptest.NewLogger(t)
	mem := memory.New()
	session := service.NewSession()
	syncer := service.NewSynchronizer(mem.Repository(), session, log)

	stats, err := pipeline.Replay(context.Background(), strings.NewReader(frames), syncer, log, pipeline.Options{})
	require.NoError(t, err)
	require.Equal(t, int64(4), stats.Applied)

	ctx := context.Background()
	msg, err := mem.Messages.Get(ctx, 900)
	require.NoError(t, err)
	require.Equal(t, "hi", msg.Content)

	perms, err := service.NewResolver(mem.Repository(), session).CurrentUserGuild(ctx, 100)
	require.NoError(t, err)
	require.Equal(t, discord.PermissionsAll, perms)
}

func TestReplay_BadFrame(t *testing.T) {
	t.Parallel()
	mem := memory.New()
	syncer := service.NewSynchronizer(mem.Repository(), service.NewSession(), nil)

	_, err := pipeline.Replay(context.Background(), strings.NewReader("{\"op\":0,\n"), syncer, nil, pipeline.Options{})
	require.ErrorIs(t, err, errs.ErrMalformedState)
}
