package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
)

// timedOutPermissions is what a timed out member keeps.
const timedOutPermissions = discord.PermissionViewChannel | discord.PermissionReadMessageHistory

// Resolver computes effective permissions from cached state only. It never writes and is
// safe for concurrent use.
type Resolver struct {
	b       repository.Backend
	session *Session
	now     func() time.Time
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithClock sets the time source used to evaluate timeouts.
func WithClock(now func() time.Time) ResolverOption {
	return func(r *Resolver) { r.now = now }
}

// NewResolver constructs a Resolver reading b. session is only needed for the
// current-user helpers.
func NewResolver(b repository.Backend, session *Session, opts ...ResolverOption) *Resolver {
	r := &Resolver{b: b, session: session, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// subject is everything the algorithm needs about a member of a guild.
type subject struct {
	guild    *model.Guild
	everyone *model.Role
	member   *model.Member
	roles    []model.Role
}

func (r *Resolver) load(ctx context.Context, userID, guildID snowflake.ID) (*subject, error) {
	guild, err := r.b.Guilds.Get(ctx, guildID)
	if err != nil {
		return nil, notFoundAs(err, errs.ErrGuildMissing, "get guild")
	}
	everyone, err := r.b.Roles.Get(ctx, guildID)
	if err != nil {
		return nil, notFoundAs(err, errs.ErrEveryoneRoleMissing, "get everyone role")
	}
	key := model.MemberKey{GuildID: guildID, UserID: userID}
	member, err := r.b.Members.Get(ctx, key)
	if err != nil {
		return nil, notFoundAs(err, errs.ErrMemberMissing, "get member")
	}
	roles, err := r.b.MemberRoles.ListByMember(ctx, key)
	if err != nil {
		return nil, errs.Backend("list member roles", err)
	}
	return &subject{guild: guild, everyone: everyone, member: member, roles: roles}, nil
}

func notFoundAs(err, missing error, op string) error {
	if errors.Is(err, errs.ErrNotFound) {
		return missing
	}
	return errs.Backend(op, err)
}

// base returns the guild-level permissions and whether they are final.
func (s *subject) base() (discord.Permissions, bool) {
	if s.guild.OwnerID == s.member.UserID {
		return discord.PermissionsAll, true
	}
	perms := s.everyone.Permissions
	for _, role := range s.roles {
		perms = perms.Add(role.Permissions)
	}
	if perms.Has(discord.PermissionAdministrator) {
		return discord.PermissionsAll, true
	}
	return perms, false
}

func (r *Resolver) restrict(s *subject, perms discord.Permissions) (discord.Permissions, error) {
	if perms.Has(discord.PermissionAdministrator) {
		return perms, nil
	}
	disabled, err := s.member.CommunicationDisabled(r.now())
	if err != nil {
		return 0, fmt.Errorf("%q: %w", *s.member.CommunicationDisabledUntil, errs.ErrBadTimeoutTimestamp)
	}
	if disabled {
		return perms & timedOutPermissions, nil
	}
	return perms, nil
}

// Guild returns userID's guild-level permissions.
func (r *Resolver) Guild(ctx context.Context, userID, guildID snowflake.ID) (discord.Permissions, error) {
	s, err := r.load(ctx, userID, guildID)
	if err != nil {
		return 0, err
	}
	perms, final := s.base()
	if final {
		return perms, nil
	}
	return r.restrict(s, perms)
}

// Channel returns userID's permissions in channelID of guildID. The channel must be cached
// and belong to guildID, otherwise errs.ErrChannelMissing is returned.
func (r *Resolver) Channel(ctx context.Context, userID, guildID, channelID snowflake.ID) (discord.Permissions, error) {
	ch, err := r.b.Channels.Get(ctx, channelID)
	if err != nil {
		return 0, notFoundAs(err, errs.ErrChannelMissing, "get channel")
	}
	if ch.GuildID == nil || *ch.GuildID != guildID {
		return 0, fmt.Errorf("channel %d not in guild %d: %w", channelID, guildID, errs.ErrChannelMissing)
	}
	return r.channel(ctx, userID, guildID, channelID)
}

// channel applies the overwrites of channelID in order: @everyone, the union of the
// member's roles, the member itself; each one clears its denied bits before setting its
// allowed bits.
func (r *Resolver) channel(ctx context.Context, userID, guildID, channelID snowflake.ID) (discord.Permissions, error) {
	s, err := r.load(ctx, userID, guildID)
	if err != nil {
		return 0, err
	}
	perms, final := s.base()
	if final {
		return perms, nil
	}

	overwrites, err := r.b.PermissionOverwrites.ListByParent(ctx, channelID)
	if err != nil {
		return 0, errs.Backend("list permission overwrites", err)
	}
	held := make(map[snowflake.ID]struct{}, len(s.roles))
	for _, role := range s.roles {
		held[role.ID] = struct{}{}
	}

	var everyone, member *model.PermissionOverwrite
	var roles model.PermissionOverwrite
	for i := range overwrites {
		ow := &overwrites[i]
		switch {
		case ow.Type == discord.PermissionOverwriteTypeRole && ow.ID == guildID:
			everyone = ow
		case ow.Type == discord.PermissionOverwriteTypeRole:
			if _, ok := held[ow.ID]; ok {
				roles.Allow = roles.Allow.Add(ow.Allow)
				roles.Deny = roles.Deny.Add(ow.Deny)
			}
		case ow.Type == discord.PermissionOverwriteTypeMember && ow.ID == userID:
			member = ow
		}
	}
	if everyone != nil {
		perms = everyone.Apply(perms)
	}
	perms = roles.Apply(perms)
	if member != nil {
		perms = member.Apply(perms)
	}
	return r.restrict(s, perms)
}

// ChannelByID looks up the channel's guild and then behaves like Channel.
func (r *Resolver) ChannelByID(ctx context.Context, userID, channelID snowflake.ID) (discord.Permissions, error) {
	ch, err := r.b.Channels.Get(ctx, channelID)
	if err != nil {
		return 0, notFoundAs(err, errs.ErrChannelMissing, "get channel")
	}
	if ch.GuildID == nil {
		return 0, errs.ErrChannelGuildMissing
	}
	return r.channel(ctx, userID, *ch.GuildID, channelID)
}

// CurrentUserGuild is Guild for the session's current user.
func (r *Resolver) CurrentUserGuild(ctx context.Context, guildID snowflake.ID) (discord.Permissions, error) {
	cur, err := r.session.CurrentUser()
	if err != nil {
		return 0, err
	}
	return r.Guild(ctx, cur.ID, guildID)
}

// CurrentUserChannel is ChannelByID for the session's current user.
func (r *Resolver) CurrentUserChannel(ctx context.Context, channelID snowflake.ID) (discord.Permissions, error) {
	cur, err := r.session.CurrentUser()
	if err != nil {
		return 0, err
	}
	return r.ChannelByID(ctx, cur.ID, channelID)
}
