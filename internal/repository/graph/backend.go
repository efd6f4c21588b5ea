package graph

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/and161185/discord-cache/internal/model"
	"github.com/and161185/discord-cache/internal/repository"
)

var memberRoleLabel = label(repository.MemberRoleTableName)

var (
	memberRoleMerge    = `MERGE (:` + memberRoleLabel + ` {guild_id: $guild, user_id: $user, role_id: $role})`
	memberRoleByMember = `MATCH (a:` + memberRoleLabel + ` {guild_id: $guild, user_id: $user}) DELETE a`
	memberRoleByGuild  = `MATCH (a:` + memberRoleLabel + ` {guild_id: $guild}) DELETE a`
	memberRoleByRole   = `MATCH (a:` + memberRoleLabel + ` {role_id: $role}) DELETE a`
	memberRoleList     = `MATCH (a:` + memberRoleLabel + ` {guild_id: $guild, user_id: $user}) ` +
		`MATCH (n:` + label(repository.RoleTable.Name) + ` {id: a.role_id}) RETURN n`
)

// MemberRoles implements repository.MemberRoleStore with assignment nodes that are
// matched against role nodes when listing.
type MemberRoles struct{ x Executor }

// NewMemberRoles constructs the assignment store.
func NewMemberRoles(x Executor) *MemberRoles { return &MemberRoles{x: x} }

// Upsert records that the member holds the role.
func (s *MemberRoles) Upsert(ctx context.Context, mr model.MemberRole) error {
	_, err := s.x.Execute(ctx, memberRoleMerge, map[string]any{
		"guild": mr.GuildID.String(), "user": mr.UserID.String(), "role": mr.RoleID.String(),
	})
	return err
}

// DeleteByMember removes every assignment of the member.
func (s *MemberRoles) DeleteByMember(ctx context.Context, member model.MemberKey) error {
	_, err := s.x.Execute(ctx, memberRoleByMember, memberParams(member))
	return err
}

// DeleteByGuild removes every assignment in the guild.
func (s *MemberRoles) DeleteByGuild(ctx context.Context, guildID snowflake.ID) error {
	_, err := s.x.Execute(ctx, memberRoleByGuild, map[string]any{"guild": guildID.String()})
	return err
}

// DeleteByRole removes every assignment of the role.
func (s *MemberRoles) DeleteByRole(ctx context.Context, roleID snowflake.ID) error {
	_, err := s.x.Execute(ctx, memberRoleByRole, map[string]any{"role": roleID.String()})
	return err
}

// ListByMember returns the definitions of the member's roles with UserID set.
func (s *MemberRoles) ListByMember(ctx context.Context, member model.MemberKey) ([]model.Role, error) {
	records, err := s.x.Execute(ctx, memberRoleList, memberParams(member))
	if err != nil {
		return nil, err
	}
	roles, err := decodeAll[model.Role](records, "n", repository.RoleTable.Name)
	if err != nil {
		return nil, err
	}
	for i := range roles {
		roles[i] = roles[i].Assigned(member.UserID)
	}
	return roles, nil
}

func memberParams(k model.MemberKey) map[string]any {
	return map[string]any{"guild": k.GuildID.String(), "user": k.UserID.String()}
}

// EnsureSchema creates a uniqueness constraint on id and an index on parent for every
// table label, and an index for assignment lookups. It is safe to run repeatedly.
func EnsureSchema(ctx context.Context, x Executor) error {
	for _, name := range repository.TableNames {
		stmts := []string{
			`CREATE CONSTRAINT ` + name + `_id IF NOT EXISTS FOR (n:` + label(name) + `) REQUIRE n.id IS UNIQUE`,
			`CREATE INDEX ` + name + `_parent IF NOT EXISTS FOR (n:` + label(name) + `) ON (n.parent)`,
		}
		for _, stmt := range stmts {
			if _, err := x.Execute(ctx, stmt, nil); err != nil {
				return err
			}
		}
	}
	stmt := `CREATE INDEX member_roles_member IF NOT EXISTS FOR (a:` + memberRoleLabel + `) ON (a.guild_id, a.user_id)`
	_, err := x.Execute(ctx, stmt, nil)
	return err
}

// NewBackend wires every table of the contract to x.
func NewBackend(x Executor) repository.Backend {
	return repository.Backend{
		Guilds:               NewNodes(x, repository.GuildTable),
		Channels:             NewNodes(x, repository.ChannelTable),
		PrivateChannels:      NewNodes(x, repository.PrivateChannelTable),
		PermissionOverwrites: NewNodes(x, repository.OverwriteTable),
		Roles:                NewNodes(x, repository.RoleTable),
		MemberRoles:          NewMemberRoles(x),
		Members:              NewNodes(x, repository.MemberTable),
		Emojis:               NewNodes(x, repository.EmojiTable),
		Stickers:             NewNodes(x, repository.StickerTable),
		MessageStickers:      NewNodes(x, repository.MessageStickerTable),
		Messages:             NewNodes(x, repository.MessageTable),
		Embeds:               NewNodes(x, repository.EmbedTable),
		EmbedFields:          NewNodes(x, repository.EmbedFieldTable),
		Attachments:          NewNodes(x, repository.AttachmentTable),
		Reactions:            NewNodes(x, repository.ReactionTable),
		Presences:            NewNodes(x, repository.PresenceTable),
		Activities:           NewNodes(x, repository.ActivityTable),
		StageInstances:       NewNodes(x, repository.StageInstanceTable),
		AutoModerationRules:  NewNodes(x, repository.AutoModerationRuleTable),
		Bans:                 NewNodes(x, repository.BanTable),
	}
}
