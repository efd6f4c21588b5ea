package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
	"github.com/and161185/discord-cache/internal/service"
)

// ctl answers read-only questions about a backend.
type ctl struct {
	b   repository.Backend
	res *service.Resolver
}

func newCtl(b repository.Backend, session *service.Session) *ctl {
	return &ctl{b: b, res: service.NewResolver(b, session)}
}

type guildView struct {
	model.Guild
	Roles               []model.Role               `json:"roles"`
	Channels            []model.Channel            `json:"channels"`
	Emojis              []model.Emoji              `json:"emojis"`
	Stickers            []model.Sticker            `json:"stickers"`
	StageInstances      []model.StageInstance      `json:"stage_instances"`
	AutoModerationRules []model.AutoModerationRule `json:"auto_moderation_rules"`
	Bans                []model.Ban                `json:"bans"`
}

type channelView struct {
	model.Channel
	Overwrites []model.PermissionOverwrite `json:"permission_overwrites"`
}

type memberView struct {
	model.Member
	Roles      []model.Role     `json:"roles"`
	Presence   *model.Presence  `json:"presence,omitempty"`
	Activities []model.Activity `json:"activities,omitempty"`
}

type embedView struct {
	model.Embed
	Fields []model.EmbedField `json:"fields"`
}

type messageView struct {
	model.Message
	Embeds      []embedView        `json:"embeds"`
	Attachments []model.Attachment `json:"attachments"`
	Reactions   []model.Reaction   `json:"reactions"`
	Stickers    []model.Sticker    `json:"stickers"`
}

type permsView struct {
	UserID      snowflake.ID        `json:"user_id,omitempty"`
	GuildID     snowflake.ID        `json:"guild_id,omitempty"`
	ChannelID   snowflake.ID        `json:"channel_id,omitempty"`
	Permissions discord.Permissions `json:"permissions"`
	Names       string              `json:"names"`
}

func (c *ctl) guild(ctx context.Context, id snowflake.ID) (*guildView, error) {
	g, err := c.b.Guilds.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("guild %d: %w", id, err)
	}
	v := &guildView{Guild: *g}
	if v.Roles, err = c.b.Roles.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Channels, err = c.b.Channels.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Emojis, err = c.b.Emojis.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Stickers, err = c.b.Stickers.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.StageInstances, err = c.b.StageInstances.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.AutoModerationRules, err = c.b.AutoModerationRules.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Bans, err = c.b.Bans.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	sortBy(v.Roles, func(r model.Role) snowflake.ID { return r.ID })
	sortBy(v.Channels, func(c model.Channel) snowflake.ID { return c.ID })
	return v, nil
}

func (c *ctl) channel(ctx context.Context, id snowflake.ID) (*channelView, error) {
	ch, err := c.b.Channels.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("channel %d: %w", id, err)
	}
	ows, err := c.b.PermissionOverwrites.ListByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	sortBy(ows, func(o model.PermissionOverwrite) snowflake.ID { return o.ID })
	return &channelView{Channel: *ch, Overwrites: ows}, nil
}

func (c *ctl) member(ctx context.Context, guildID, userID snowflake.ID) (*memberView, error) {
	key := model.MemberKey{GuildID: guildID, UserID: userID}
	m, err := c.b.Members.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("member %s: %w", key, err)
	}
	v := &memberView{Member: *m}
	if v.Roles, err = c.b.MemberRoles.ListByMember(ctx, key); err != nil {
		return nil, err
	}
	sortBy(v.Roles, func(r model.Role) snowflake.ID { return r.ID })

	p, err := c.b.Presences.Get(ctx, key)
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return v, nil
	case err != nil:
		return nil, err
	}
	v.Presence = p
	if v.Activities, err = c.b.Activities.ListByParent(ctx, key); err != nil {
		return nil, err
	}
	slices.SortFunc(v.Activities, func(a, b model.Activity) int { return cmp.Compare(a.Position, b.Position) })
	return v, nil
}

func (c *ctl) messages(ctx context.Context, channelID snowflake.ID) ([]model.Message, error) {
	ms, err := c.b.Messages.ListByParent(ctx, channelID)
	if err != nil {
		return nil, err
	}
	sortBy(ms, func(m model.Message) snowflake.ID { return m.ID })
	return ms, nil
}

func (c *ctl) message(ctx context.Context, id snowflake.ID) (*messageView, error) {
	m, err := c.b.Messages.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("message %d: %w", id, err)
	}
	v := &messageView{Message: *m}

	embeds, err := c.b.Embeds.ListByParent(ctx, id)
	if err != nil {
		return nil, err
	}
	slices.SortFunc(embeds, func(a, b model.Embed) int { return cmp.Compare(a.Position, b.Position) })
	for _, e := range embeds {
		fields, err := c.b.EmbedFields.ListByParent(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		slices.SortFunc(fields, func(a, b model.EmbedField) int { return cmp.Compare(a.Position, b.Position) })
		v.Embeds = append(v.Embeds, embedView{Embed: e, Fields: fields})
	}
	if v.Attachments, err = c.b.Attachments.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Reactions, err = c.b.Reactions.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	if v.Stickers, err = c.b.MessageStickers.ListByParent(ctx, id); err != nil {
		return nil, err
	}
	sortBy(v.Attachments, func(a model.Attachment) snowflake.ID { return a.ID })
	return v, nil
}

func (c *ctl) dms(ctx context.Context, recipient snowflake.ID) ([]model.PrivateChannel, error) {
	return c.b.PrivateChannels.ListByParent(ctx, recipient)
}

// perms resolves the permissions of user, or of the current user when user is zero.
// A non-zero channel takes precedence over guild.
func (c *ctl) perms(ctx context.Context, user, guild, channel snowflake.ID) (*permsView, error) {
	var (
		p   discord.Permissions
		err error
	)
	switch {
	case channel != 0 && user == 0:
		p, err = c.res.CurrentUserChannel(ctx, channel)
	case channel != 0:
		p, err = c.res.ChannelByID(ctx, user, channel)
	case guild == 0:
		return nil, errors.New("need -guild or -channel")
	case user == 0:
		p, err = c.res.CurrentUserGuild(ctx, guild)
	default:
		p, err = c.res.Guild(ctx, user, guild)
	}
	if err != nil {
		return nil, err
	}
	return &permsView{UserID: user, GuildID: guild, ChannelID: channel, Permissions: p, Names: p.String()}, nil
}

func sortBy[V any](vs []V, id func(V) snowflake.ID) {
	slices.SortFunc(vs, func(a, b V) int { return cmp.Compare(id(a), id(b)) })
}
