// Package repository defines the storage contract the synchronizer writes through and
// the resolver reads through. Concrete backends live in subpackages.
package repository

import (
	"context"

	"github.com/and161185/discord-cache/internal/model"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
)

// Store provides keyed access to one entity.
type Store[K comparable, V any] interface {
	// Upsert inserts v or fully replaces the row with the same key.
	Upsert(ctx context.Context, v V) error
	// Delete removes the row; deleting a missing row is not an error.
	Delete(ctx context.Context, key K) error
	// Get loads a row, or returns errs.ErrNotFound.
	Get(ctx context.Context, key K) (*V, error)
}

// ChildStore is a Store whose rows are indexed by the entity that owns them.
type ChildStore[K, P comparable, V any] interface {
	Store[K, V]
	// DeleteByParent removes every row owned by parent in one step.
	DeleteByParent(ctx context.Context, parent P) error
	// ListByParent returns every row owned by parent.
	ListByParent(ctx context.Context, parent P) ([]V, error)
}

// MemberRoleStore holds role assignments. Only the (guild, user, role) triple is stored;
// definitions are joined in when listing, so an assignment never alters a definition.
type MemberRoleStore interface {
	// Upsert records that the member holds the role.
	Upsert(ctx context.Context, mr model.MemberRole) error
	// DeleteByMember removes every assignment of the member.
	DeleteByMember(ctx context.Context, member model.MemberKey) error
	// DeleteByGuild removes every assignment in the guild.
	DeleteByGuild(ctx context.Context, guildID snowflake.ID) error
	// DeleteByRole removes every assignment of the role.
	DeleteByRole(ctx context.Context, roleID snowflake.ID) error
	// ListByMember returns the definitions of the member's roles with UserID set.
	// Assignments whose definition is gone are skipped.
	ListByMember(ctx context.Context, member model.MemberKey) ([]model.Role, error)
}

// Backend is the full set of stores a cache needs.
type Backend struct {
	Guilds               Store[snowflake.ID, model.Guild]
	Channels             ChildStore[snowflake.ID, snowflake.ID, model.Channel]
	PrivateChannels      ChildStore[model.PrivateChannelKey, snowflake.ID, model.PrivateChannel]
	PermissionOverwrites ChildStore[model.OverwriteKey, snowflake.ID, model.PermissionOverwrite]
	Roles                ChildStore[snowflake.ID, snowflake.ID, model.Role]
	MemberRoles          MemberRoleStore
	Members              ChildStore[model.MemberKey, snowflake.ID, model.Member]
	Emojis               ChildStore[snowflake.ID, snowflake.ID, model.Emoji]
	Stickers             ChildStore[snowflake.ID, snowflake.ID, model.Sticker]
	MessageStickers      ChildStore[model.MessageStickerKey, snowflake.ID, model.Sticker]
	Messages             ChildStore[snowflake.ID, snowflake.ID, model.Message]
	Embeds               ChildStore[uuid.UUID, snowflake.ID, model.Embed]
	EmbedFields          ChildStore[model.EmbedFieldKey, uuid.UUID, model.EmbedField]
	Attachments          ChildStore[snowflake.ID, snowflake.ID, model.Attachment]
	Reactions            ChildStore[model.ReactionKey, snowflake.ID, model.Reaction]
	Presences            ChildStore[model.MemberKey, snowflake.ID, model.Presence]
	Activities           ChildStore[model.ActivityKey, model.MemberKey, model.Activity]
	StageInstances       ChildStore[snowflake.ID, snowflake.ID, model.StageInstance]
	AutoModerationRules  ChildStore[snowflake.ID, snowflake.ID, model.AutoModerationRule]
	Bans                 ChildStore[model.MemberKey, snowflake.ID, model.Ban]
}
