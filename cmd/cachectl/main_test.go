package main

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap/zaptest"

	"github.com/and161185/discord-cache/internal/config"
	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/service"
	"github.com/and161185/discord-cache/internal/storage"
)

func withFixture(t *testing.T) *ctl {
	t.Helper()
	ctx := context.Background()
	log := zaptest.NewLogger(t)
	cfg := config.Config{Backend: config.BackendMemory}

	st, err := storage.Open(ctx, cfg, log)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(st.Close)

	session := service.NewSession()
	if err := replay(ctx, "testdata/session.ndjson", st, session, cfg, log); err != nil {
		t.Fatalf("replay: %v", err)
	}
	return newCtl(st.Backend, session)
}

func run(t *testing.T, c *ctl, args ...string) any {
	t.Helper()
	out, err := runCommand(context.Background(), c, args[0], args[1:])
	if err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out
}

func Test_guild(t *testing.T) {
	c := withFixture(t)
	g := run(t, c, "guild", "-id", "100").(*guildView)

	if g.Name != "guild" || g.OwnerID != 1 {
		t.Fatalf("unexpected guild: %+v", g.Guild)
	}
	if len(g.Roles) != 2 || g.Roles[0].ID != 100 || g.Roles[1].Name != "mods" {
		t.Fatalf("roles: %+v", g.Roles)
	}
	if len(g.Channels) != 1 || g.Channels[0].ID != 200 {
		t.Fatalf("channels: %+v", g.Channels)
	}
}

func Test_channel(t *testing.T) {
	c := withFixture(t)
	ch := run(t, c, "channel", "-id", "200").(*channelView)

	if ch.GuildID == nil || *ch.GuildID != 100 {
		t.Fatalf("guild id: %v", ch.GuildID)
	}
	if len(ch.Overwrites) != 2 {
		t.Fatalf("overwrites: %+v", ch.Overwrites)
	}
	if ch.Overwrites[0].Deny != discord.PermissionSendMessages || ch.Overwrites[1].Allow != discord.PermissionSendMessages {
		t.Fatalf("overwrite bits: %+v", ch.Overwrites)
	}
}

func Test_member(t *testing.T) {
	c := withFixture(t)

	m := run(t, c, "member", "-guild", "100", "-user", "3").(*memberView)
	if m.Nick == nil || *m.Nick != "al" || m.Username != "alice" {
		t.Fatalf("member: %+v", m.Member)
	}
	if len(m.Roles) != 1 || m.Roles[0].ID != 101 || m.Roles[0].UserID != 3 {
		t.Fatalf("roles: %+v", m.Roles)
	}
	if m.Presence == nil || m.Presence.Status != discord.OnlineStatusOnline {
		t.Fatalf("presence: %+v", m.Presence)
	}
	if len(m.Activities) != 1 || m.Activities[0].Name != "chess" {
		t.Fatalf("activities: %+v", m.Activities)
	}

	// no presence recorded for the bot
	bot := run(t, c, "member", "-guild", "100", "-user", "2").(*memberView)
	if bot.Presence != nil || len(bot.Roles) != 0 {
		t.Fatalf("bot: %+v", bot)
	}
}

func Test_messages(t *testing.T) {
	c := withFixture(t)

	ms := run(t, c, "messages", "-channel", "200").([]model.Message)
	if len(ms) != 2 || ms[0].ID != 900 || ms[1].ID != 901 {
		t.Fatalf("messages: %+v", ms)
	}

	m := run(t, c, "message", "-id", "900").(*messageView)
	if m.Content != "first" || m.AuthorID != 3 {
		t.Fatalf("message: %+v", m.Message)
	}
	if len(m.Embeds) != 1 || m.Embeds[0].Title != "card" {
		t.Fatalf("embeds: %+v", m.Embeds)
	}
	if f := m.Embeds[0].Fields; len(f) != 2 || f[0].Name != "k1" || f[1].Name != "k2" || !f[1].Inline {
		t.Fatalf("fields: %+v", f)
	}
	if m.Embeds[0].ID != service.EmbedID(900, 0) {
		t.Fatalf("embed id: %s", m.Embeds[0].ID)
	}
	if len(m.Attachments) != 1 || m.Attachments[0].Filename != "a.png" {
		t.Fatalf("attachments: %+v", m.Attachments)
	}
	if len(m.Reactions) != 1 || m.Reactions[0].UserID != 1 || m.Reactions[0].Emoji != "+1" {
		t.Fatalf("reactions: %+v", m.Reactions)
	}
}

func Test_dms(t *testing.T) {
	c := withFixture(t)
	dms := run(t, c, "dms", "-user", "3").([]model.PrivateChannel)
	if len(dms) != 0 {
		t.Fatalf("dms: %+v", dms)
	}
}

func Test_perms(t *testing.T) {
	c := withFixture(t)

	const (
		view   = discord.PermissionViewChannel
		send   = discord.PermissionSendMessages
		manage = discord.PermissionManageMessages
	)
	tests := []struct {
		name string
		args []string
		want discord.Permissions
	}{
		{"owner", []string{"-user", "1", "-guild", "100"}, discord.PermissionsAll},
		{"role grants", []string{"-user", "3", "-guild", "100"}, view | send | manage},
		{"role overwrite restores send", []string{"-user", "3", "-channel", "200"}, view | send | manage},
		{"everyone overwrite denies send", []string{"-user", "2", "-channel", "200"}, view},
		{"current user guild", []string{"-guild", "100"}, view | send},
		{"current user channel", []string{"-channel", "200"}, view},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := run(t, c, append([]string{"perms"}, tt.args...)...).(*permsView)
			if p.Permissions != tt.want {
				t.Fatalf("perms=%d, want %d", p.Permissions, tt.want)
			}
		})
	}
}

func Test_runCommand_Errors(t *testing.T) {
	c := withFixture(t)
	ctx := context.Background()

	if _, err := runCommand(ctx, c, "nope", nil); !errors.Is(err, errUnknownCommand) {
		t.Fatalf("want errUnknownCommand, got %v", err)
	}
	if _, err := runCommand(ctx, c, "member", []string{"-guild", "100"}); err == nil || !strings.Contains(err.Error(), "need -user") {
		t.Fatalf("want missing flag error, got %v", err)
	}
	if _, err := runCommand(ctx, c, "guild", []string{"-id", "999"}); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	if _, err := runCommand(ctx, c, "perms", nil); err == nil {
		t.Fatalf("want error for perms without target")
	}
	if _, err := runCommand(ctx, c, "perms", []string{"-user", "9", "-guild", "100"}); !errors.Is(err, errs.ErrMemberMissing) {
		t.Fatalf("want ErrMemberMissing, got %v", err)
	}
}

func Test_printJSON(t *testing.T) {
	var buf bytes.Buffer
	printJSON(&buf, &permsView{UserID: snowflake.ID(3), Permissions: discord.PermissionViewChannel})
	s := buf.String()
	if !strings.Contains(s, `"user_id"`) || !strings.Contains(s, `"permissions"`) || !strings.HasSuffix(s, "}\n") {
		t.Fatalf("unexpected output: %s", s)
	}
}
