package convert

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
	"github.com/stretchr/testify/require"

	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/model"
)

func strp(s string) *string { return &s }

func decode[T any](t *testing.T, raw string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(raw), &v))
	return v
}

func TestChannel_GuildFallbackAndOverwrites(t *testing.T) {
	t.Parallel()

	c := decode[event.Channel](t, `{"id":"9","type":0,"name":"general","topic":"hi","nsfw":true,
		"permission_overwrites":[{"id":"5","type":0,"allow":"2048","deny":"0"},{"id":"7","type":1,"allow":"0","deny":"1024"}]}`)

	gid := snowflake.ID(5)
	got := Channel(c, &gid)
	require.Equal(t, "general", got.Name)
	require.Equal(t, gid, *got.GuildID)
	require.Equal(t, "hi", *got.Topic)
	require.True(t, got.NSFW)
	require.Nil(t, got.Thread)
	require.Nil(t, Channel(c, nil).GuildID)

	ows := Overwrites(c.Channel)
	require.Equal(t, []model.PermissionOverwrite{
		{ChannelID: 9, ID: 5, Type: discord.PermissionOverwriteTypeRole, Allow: discord.PermissionSendMessages},
		{ChannelID: 9, ID: 7, Type: discord.PermissionOverwriteTypeMember, Deny: discord.PermissionViewChannel},
	}, ows)
}

func TestChannel_DirectMessageAndThread(t *testing.T) {
	t.Parallel()

	dm := decode[event.Channel](t, `{"id":"300","type":1,"recipients":[{"id":"1"},{"id":"2"}]}`)
	got := Channel(dm, nil)
	require.True(t, got.IsPrivate())
	require.Empty(t, got.Name)
	require.Nil(t, got.GuildID)
	require.Equal(t, []snowflake.ID{1, 2}, got.RecipientIDs)
	require.Nil(t, Overwrites(dm.Channel))

	bare := decode[event.Channel](t, `{"id":"301","type":1}`)
	require.Empty(t, Channel(bare, nil).RecipientIDs)

	thread := decode[event.Channel](t, `{"id":"400","type":11,"guild_id":"100","parent_id":"200","owner_id":"3","name":"t",
		"thread_metadata":{"archived":true,"auto_archive_duration":60,"archive_timestamp":"2024-01-01T00:00:00Z","locked":false}}`)
	got = Channel(thread, nil)
	require.EqualValues(t, 100, *got.GuildID)
	require.EqualValues(t, 200, *got.ParentID)
	require.EqualValues(t, 3, *got.OwnerID)
	require.NotNil(t, got.Thread)
	require.True(t, got.Thread.Archived)
	require.Equal(t, 60, got.Thread.AutoArchiveDuration)
	require.Nil(t, got.Thread.CreateTimestamp)
}

func TestRole_Tags(t *testing.T) {
	t.Parallel()

	r := decode[discord.Role](t, `{"id":"3","name":"bot","permissions":"1024","tags":{"bot_id":"9"}}`)

	got := Role(7, r)
	require.EqualValues(t, 7, got.GuildID)
	require.Zero(t, got.UserID)
	require.Equal(t, discord.PermissionViewChannel, got.Permissions)
	require.NotNil(t, got.Tags)
	require.EqualValues(t, 9, *got.Tags.BotID)
	require.False(t, got.Tags.GuildConnections)

	r.Tags = nil
	require.Nil(t, Role(7, r).Tags)
}

func TestMember_TimeoutIsKeptAsText(t *testing.T) {
	t.Parallel()

	m := decode[discord.Member](t, `{"user":{"id":"3","username":"alice"},"roles":[],"joined_at":"2023-01-01T00:00:00Z",
		"communication_disabled_until":"2030-01-01T00:00:00Z"}`)
	got := Member(1, m)
	require.EqualValues(t, 3, got.UserID)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "2030-01-01T00:00:00Z", *got.CommunicationDisabledUntil)

	disabled, err := got.CommunicationDisabled(time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.True(t, disabled)

	noUser := Member(1, discord.Member{})
	require.Zero(t, noUser.UserID)
	require.Nil(t, noUser.CommunicationDisabledUntil)
}

func TestMergeMember_OnlyPresentFields(t *testing.T) {
	t.Parallel()

	joined := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	cached := model.Member{
		GuildID: 1, UserID: 2, Nick: strp("old"), Deaf: true, Mute: true, JoinedAt: joined,
		CommunicationDisabledUntil: strp("2030-01-01T00:00:00Z"),
	}

	upd := decode[event.GuildMemberUpdate](t, `{"guild_id":"1","user":{"id":"2","username":"neo"},"mute":false,"communication_disabled_until":null}`)

	got := MergeMember(cached, upd)
	require.Equal(t, "old", *got.Nick)
	require.True(t, got.Deaf)
	require.False(t, got.Mute)
	require.Nil(t, got.CommunicationDisabledUntil)
	require.Equal(t, joined, got.JoinedAt)
	require.Equal(t, "neo", got.Username)
}

func TestMessage_AndMerge(t *testing.T) {
	t.Parallel()

	m := decode[discord.Message](t, `{"id":"10","channel_id":"20","author":{"id":"30"},"content":"hi",
		"timestamp":"2024-01-01T00:00:00Z","mentions":[{"id":"31"}],
		"message_reference":{"message_id":"99"},"activity":{"type":1}}`)
	row := Message(m)
	require.EqualValues(t, 30, row.AuthorID)
	require.Equal(t, []snowflake.ID{31}, row.MentionIDs)
	require.EqualValues(t, 99, *row.ReferencedMessageID)
	require.Equal(t, 1, *row.ActivityType)
	require.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), row.Timestamp.UTC())

	merged := MergeMessage(row, event.MessageUpdate{ID: 10, Content: event.Some("edited")})
	require.Equal(t, "edited", merged.Content)
	require.Equal(t, row.MentionIDs, merged.MentionIDs)
	require.False(t, merged.Pinned)
}

func TestEmbedAndFields(t *testing.T) {
	t.Parallel()

	inline := true
	id := uuid.Must(uuid.NewV4())
	e := discord.Embed{
		Title:  "t",
		Color:  7,
		Footer: &discord.EmbedFooter{Text: "foot"},
		Image:  &discord.EmbedResource{URL: "https://img", Width: 10},
		Fields: []discord.EmbedField{{Name: "a", Value: "1"}, {Name: "b", Value: "2", Inline: &inline}},
	}

	row := Embed(id, 5, 2, e)
	require.Equal(t, id, row.ID)
	require.Equal(t, 2, row.Position)
	require.Equal(t, "foot", row.FooterText)
	require.Equal(t, 10, row.ImageWidth)
	require.Equal(t, 7, *row.Color)
	require.Nil(t, Embed(id, 5, 0, discord.Embed{}).Color)

	fields := EmbedFields(id, e.Fields)
	require.Len(t, fields, 2)
	require.Equal(t, 1, fields[1].Position)
	require.False(t, fields[0].Inline)
	require.True(t, fields[1].Inline)
	require.Equal(t, id, fields[0].EmbedID)
}

func TestActivities_Positions(t *testing.T) {
	t.Parallel()

	p := decode[discord.Presence](t, `{"user":{"id":"2"},"guild_id":"1","status":"online","client_status":{"web":"idle"},
		"activities":[
			{"name":"first","type":0,"created_at":1700000000000,"timestamps":{"start":100}},
			{"name":"second","type":2,"created_at":1700000000000,"party":{"id":"p","size":[1,4]}}
		]}`)

	rows := Activities(p)
	require.Len(t, rows, 2)
	require.Equal(t, 0, rows[0].Position)
	require.EqualValues(t, 100, *rows[0].StartTimestamp)
	require.Nil(t, rows[0].EndTimestamp)
	require.EqualValues(t, 1700000000000, rows[0].CreatedAt)
	require.Equal(t, "second", rows[1].Name)
	require.Equal(t, discord.ActivityTypeListening, rows[1].Type)
	require.Equal(t, "p", *rows[1].PartyID)
	require.Equal(t, []int{1, 4}, rows[1].PartySize)
	require.Equal(t, model.MemberKey{GuildID: 1, UserID: 2}, rows[1].Member())

	row := Presence(p)
	require.Equal(t, discord.OnlineStatusOnline, row.Status)
	require.Equal(t, "idle", row.WebStatus)
	require.Empty(t, row.DesktopStatus)
}

func TestReactions(t *testing.T) {
	t.Parallel()

	id := snowflake.ID(41771983429993937)
	name := "🔥"
	require.Equal(t, "41771983429993937", EmojiKey(discord.PartialEmoji{ID: &id, Name: &name}))
	require.Equal(t, "🔥", EmojiKey(discord.PartialEmoji{Name: &name}))
	require.Empty(t, EmojiKey(discord.PartialEmoji{}))

	add := decode[gateway.EventMessageReactionAdd](t, `{"user_id":"1","channel_id":"2","message_id":"3","guild_id":"4","emoji":{"name":"👍"},"burst":true}`)
	got := Reaction(add)
	require.Equal(t, model.ReactionKey{MessageID: 3, UserID: 1, Emoji: "👍"}, got.Key())
	require.True(t, got.Burst)
	require.EqualValues(t, 4, *got.GuildID)

	m := decode[discord.Message](t, `{"id":"10","channel_id":"20","author":{"id":"30"},"timestamp":"2024-01-01T00:00:00Z",
		"reactions":[{"count":2,"me":true,"emoji":{"id":"41771983429993937","name":"fire"}},{"count":1,"me":false,"emoji":{"name":"👍"}}]}`)
	own := OwnReactions(m, 8)
	require.Len(t, own, 1)
	require.Equal(t, model.ReactionKey{MessageID: 10, UserID: 8, Emoji: "41771983429993937"}, own[0].Key())
}

func TestGuild_FeaturesAndJoinedAt(t *testing.T) {
	t.Parallel()

	g := decode[discord.GatewayGuild](t, `{"id":"100","name":"g","owner_id":"1","features":["COMMUNITY"],
		"joined_at":"2023-01-01T00:00:00Z","large":true,"member_count":5,"roles":[],"channels":[]}`)
	row := Guild(g)
	require.Equal(t, []string{"COMMUNITY"}, row.Features)
	require.NotNil(t, row.JoinedAt)
	require.Nil(t, row.WidgetChannelID)

	upd := decode[discord.GatewayGuild](t, `{"id":"100","name":"renamed","owner_id":"1"}`)
	merged := MergeGuild(row, upd)
	require.Equal(t, "renamed", merged.Name)
	require.Equal(t, row.JoinedAt, merged.JoinedAt)
	require.True(t, merged.Large)
	require.Equal(t, 5, merged.MemberCount)
}
