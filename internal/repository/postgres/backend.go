package postgres

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
)

// MemberRoles implements repository.MemberRoleStore over the member_roles table, joining
// the roles table for definitions.
type MemberRoles struct{ db *DB }

// NewMemberRoles constructs the assignment store.
func NewMemberRoles(db *DB) *MemberRoles { return &MemberRoles{db: db} }

const (
	memberRoleInsert = `INSERT INTO member_roles (guild_id, user_id, role_id) VALUES ($1, $2, $3) ON CONFLICT DO NOTHING`
	memberRoleByUser = `DELETE FROM member_roles WHERE guild_id = $1 AND user_id = $2`
	memberRoleGuild  = `DELETE FROM member_roles WHERE guild_id = $1`
	memberRoleRole   = `DELETE FROM member_roles WHERE role_id = $1`
	memberRoleList   = `SELECT r.data FROM member_roles mr JOIN roles r ON r.id = mr.role_id ` +
		`WHERE mr.guild_id = $1 AND mr.user_id = $2`
)

// Upsert records that the member holds the role.
func (s *MemberRoles) Upsert(ctx context.Context, mr model.MemberRole) error {
	_, err := s.db.Pool.Exec(ctx, memberRoleInsert, mr.GuildID.String(), mr.UserID.String(), mr.RoleID.String())
	return err
}

// DeleteByMember removes every assignment of the member.
func (s *MemberRoles) DeleteByMember(ctx context.Context, member model.MemberKey) error {
	_, err := s.db.Pool.Exec(ctx, memberRoleByUser, member.GuildID.String(), member.UserID.String())
	return err
}

// DeleteByGuild removes every assignment in the guild.
func (s *MemberRoles) DeleteByGuild(ctx context.Context, guildID snowflake.ID) error {
	_, err := s.db.Pool.Exec(ctx, memberRoleGuild, guildID.String())
	return err
}

// DeleteByRole removes every assignment of the role.
func (s *MemberRoles) DeleteByRole(ctx context.Context, roleID snowflake.ID) error {
	_, err := s.db.Pool.Exec(ctx, memberRoleRole, roleID.String())
	return err
}

// ListByMember returns the definitions of the member's roles with UserID set. The inner
// join drops assignments whose definition is gone.
func (s *MemberRoles) ListByMember(ctx context.Context, member model.MemberKey) ([]model.Role, error) {
	rows, err := s.db.Pool.Query(ctx, memberRoleList, member.GuildID.String(), member.UserID.String())
	if err != nil {
		return nil, err
	}
	roles, err := collect[model.Role](rows, repository.RoleTable.Name)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i] = roles[i].Assigned(member.UserID)
	}
	return roles, nil
}

// NewBackend wires every table of the contract to db.
func NewBackend(db *DB) repository.Backend {
	return repository.Backend{
		Guilds:               NewTable(db, repository.GuildTable),
		Channels:             NewTable(db, repository.ChannelTable),
		PrivateChannels:      NewTable(db, repository.PrivateChannelTable),
		PermissionOverwrites: NewTable(db, repository.OverwriteTable),
		Roles:                NewTable(db, repository.RoleTable),
		MemberRoles:          NewMemberRoles(db),
		Members:              NewTable(db, repository.MemberTable),
		Emojis:               NewTable(db, repository.EmojiTable),
		Stickers:             NewTable(db, repository.StickerTable),
		MessageStickers:      NewTable(db, repository.MessageStickerTable),
		Messages:             NewTable(db, repository.MessageTable),
		Embeds:               NewTable(db, repository.EmbedTable),
		EmbedFields:          NewTable(db, repository.EmbedFieldTable),
		Attachments:          NewTable(db, repository.AttachmentTable),
		Reactions:            NewTable(db, repository.ReactionTable),
		Presences:            NewTable(db, repository.PresenceTable),
		Activities:           NewTable(db, repository.ActivityTable),
		StageInstances:       NewTable(db, repository.StageInstanceTable),
		AutoModerationRules:  NewTable(db, repository.AutoModerationRuleTable),
		Bans:                 NewTable(db, repository.BanTable),
	}
}
