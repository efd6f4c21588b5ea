package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
)

// MemberRoles is the in-memory MemberRoleStore. It reads definitions from roles.
type MemberRoles struct {
	roles *Table[snowflake.ID, snowflake.ID, model.Role]

	mu   sync.RWMutex
	rows map[model.MemberRole]struct{}
}

var _ repository.MemberRoleStore = (*MemberRoles)(nil)

// NewMemberRoles creates an empty assignment store joined against roles.
func NewMemberRoles(roles *Table[snowflake.ID, snowflake.ID, model.Role]) *MemberRoles {
	return &MemberRoles{roles: roles, rows: make(map[model.MemberRole]struct{})}
}

// Upsert records the assignment.
func (s *MemberRoles) Upsert(_ context.Context, mr model.MemberRole) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[mr] = struct{}{}
	return nil
}

// DeleteByMember removes the member's assignments.
func (s *MemberRoles) DeleteByMember(_ context.Context, member model.MemberKey) error {
	return s.deleteWhere(func(mr model.MemberRole) bool { return mr.Member() == member })
}

// DeleteByGuild removes the guild's assignments.
func (s *MemberRoles) DeleteByGuild(_ context.Context, guildID snowflake.ID) error {
	return s.deleteWhere(func(mr model.MemberRole) bool { return mr.GuildID == guildID })
}

// DeleteByRole removes the role's assignments.
func (s *MemberRoles) DeleteByRole(_ context.Context, roleID snowflake.ID) error {
	return s.deleteWhere(func(mr model.MemberRole) bool { return mr.RoleID == roleID })
}

func (s *MemberRoles) deleteWhere(match func(model.MemberRole) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for mr := range s.rows {
		if match(mr) {
			delete(s.rows, mr)
		}
	}
	return nil
}

// ListByMember returns the member's role definitions ordered by role id.
func (s *MemberRoles) ListByMember(ctx context.Context, member model.MemberKey) ([]model.Role, error) {
	s.mu.RLock()
	var ids []snowflake.ID
	for mr := range s.rows {
		if mr.Member() == member {
			ids = append(ids, mr.RoleID)
		}
	}
	s.mu.RUnlock()

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]model.Role, 0, len(ids))
	for _, id := range ids {
		def, err := s.roles.Get(ctx, id)
		if errors.Is(err, errs.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, def.Assigned(member.UserID))
	}
	return out, nil
}

// Len returns the number of assignments.
func (s *MemberRoles) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}

// Backend bundles the tables of an in-memory cache. Tables are exported for inspection
// in tests.
type Backend struct {
	Guilds               *Table[snowflake.ID, snowflake.ID, model.Guild]
	Channels             *Table[snowflake.ID, snowflake.ID, model.Channel]
	PrivateChannels      *Table[model.PrivateChannelKey, snowflake.ID, model.PrivateChannel]
	PermissionOverwrites *Table[model.OverwriteKey, snowflake.ID, model.PermissionOverwrite]
	Roles                *Table[snowflake.ID, snowflake.ID, model.Role]
	MemberRoles          *MemberRoles
	Members              *Table[model.MemberKey, snowflake.ID, model.Member]
	Emojis               *Table[snowflake.ID, snowflake.ID, model.Emoji]
	Stickers             *Table[snowflake.ID, snowflake.ID, model.Sticker]
	MessageStickers      *Table[model.MessageStickerKey, snowflake.ID, model.Sticker]
	Messages             *Table[snowflake.ID, snowflake.ID, model.Message]
	Embeds               *Table[uuid.UUID, snowflake.ID, model.Embed]
	EmbedFields          *Table[model.EmbedFieldKey, uuid.UUID, model.EmbedField]
	Attachments          *Table[snowflake.ID, snowflake.ID, model.Attachment]
	Reactions            *Table[model.ReactionKey, snowflake.ID, model.Reaction]
	Presences            *Table[model.MemberKey, snowflake.ID, model.Presence]
	Activities           *Table[model.ActivityKey, model.MemberKey, model.Activity]
	StageInstances       *Table[snowflake.ID, snowflake.ID, model.StageInstance]
	AutoModerationRules  *Table[snowflake.ID, snowflake.ID, model.AutoModerationRule]
	Bans                 *Table[model.MemberKey, snowflake.ID, model.Ban]
}

// New creates an empty in-memory backend.
func New() *Backend {
	roles := NewTable(repository.RoleTable)
	return &Backend{
		Guilds:               NewTable(repository.GuildTable),
		Channels:             NewTable(repository.ChannelTable),
		PrivateChannels:      NewTable(repository.PrivateChannelTable),
		PermissionOverwrites: NewTable(repository.OverwriteTable),
		Roles:                roles,
		MemberRoles:          NewMemberRoles(roles),
		Members:              NewTable(repository.MemberTable),
		Emojis:               NewTable(repository.EmojiTable),
		Stickers:             NewTable(repository.StickerTable),
		MessageStickers:      NewTable(repository.MessageStickerTable),
		Messages:             NewTable(repository.MessageTable),
		Embeds:               NewTable(repository.EmbedTable),
		EmbedFields:          NewTable(repository.EmbedFieldTable),
		Attachments:          NewTable(repository.AttachmentTable),
		Reactions:            NewTable(repository.ReactionTable),
		Presences:            NewTable(repository.PresenceTable),
		Activities:           NewTable(repository.ActivityTable),
		StageInstances:       NewTable(repository.StageInstanceTable),
		AutoModerationRules:  NewTable(repository.AutoModerationRuleTable),
		Bans:                 NewTable(repository.BanTable),
	}
}

// Repository exposes b through the repository contract.
func (b *Backend) Repository() repository.Backend {
	return repository.Backend{
		Guilds:               b.Guilds,
		Channels:             b.Channels,
		PrivateChannels:      b.PrivateChannels,
		PermissionOverwrites: b.PermissionOverwrites,
		Roles:                b.Roles,
		MemberRoles:          b.MemberRoles,
		Members:              b.Members,
		Emojis:               b.Emojis,
		Stickers:             b.Stickers,
		MessageStickers:      b.MessageStickers,
		Messages:             b.Messages,
		Embeds:               b.Embeds,
		EmbedFields:          b.EmbedFields,
		Attachments:          b.Attachments,
		Reactions:            b.Reactions,
		Presences:            b.Presences,
		Activities:           b.Activities,
		StageInstances:       b.StageInstances,
		AutoModerationRules:  b.AutoModerationRules,
		Bans:                 b.Bans,
	}
}

// Rows returns the total number of stored rows across all tables.
func (b *Backend) Rows() int {
	return b.Guilds.Len() + b.Channels.Len() + b.PrivateChannels.Len() +
		b.PermissionOverwrites.Len() + b.Roles.Len() + b.MemberRoles.Len() + b.Members.Len() +
		b.Emojis.Len() + b.Stickers.Len() + b.MessageStickers.Len() + b.Messages.Len() +
		b.Embeds.Len() + b.EmbedFields.Len() + b.Attachments.Len() + b.Reactions.Len() +
		b.Presences.Len() + b.Activities.Len() + b.StageInstances.Len() +
		b.AutoModerationRules.Len() + b.Bans.Len()
}
