package repository

import (
	"github.com/and161185/discord-cache/internal/model"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
)

// Key is a comparable key with a stable text form, used by backends that store keys as
// strings.
type Key interface {
	comparable
	String() string
}

// Table describes how rows of one entity are keyed and which parent indexes them.
type Table[K, P Key, V any] struct {
	Name   string
	Key    func(V) K
	Parent func(V) P
}

// Tables shared by every backend. Names double as SQL table names and graph labels.
var (
	GuildTable = Table[snowflake.ID, snowflake.ID, model.Guild]{
		Name:   "guilds",
		Key:    func(v model.Guild) snowflake.ID { return v.ID },
		Parent: func(model.Guild) snowflake.ID { return 0 },
	}
	ChannelTable = Table[snowflake.ID, snowflake.ID, model.Channel]{
		Name: "channels",
		Key:  func(v model.Channel) snowflake.ID { return v.ID },
		Parent: func(v model.Channel) snowflake.ID {
			if v.GuildID == nil {
				return 0
			}
			return *v.GuildID
		},
	}
	PrivateChannelTable = Table[model.PrivateChannelKey, snowflake.ID, model.PrivateChannel]{
		Name:   "private_channels",
		Key:    model.PrivateChannel.Key,
		Parent: func(v model.PrivateChannel) snowflake.ID { return v.RecipientID },
	}
	OverwriteTable = Table[model.OverwriteKey, snowflake.ID, model.PermissionOverwrite]{
		Name:   "permission_overwrites",
		Key:    model.PermissionOverwrite.Key,
		Parent: func(v model.PermissionOverwrite) snowflake.ID { return v.ChannelID },
	}
	RoleTable = Table[snowflake.ID, snowflake.ID, model.Role]{
		Name:   "roles",
		Key:    func(v model.Role) snowflake.ID { return v.ID },
		Parent: func(v model.Role) snowflake.ID { return v.GuildID },
	}
	MemberTable = Table[model.MemberKey, snowflake.ID, model.Member]{
		Name:   "members",
		Key:    model.Member.Key,
		Parent: func(v model.Member) snowflake.ID { return v.GuildID },
	}
	EmojiTable = Table[snowflake.ID, snowflake.ID, model.Emoji]{
		Name:   "emojis",
		Key:    func(v model.Emoji) snowflake.ID { return v.ID },
		Parent: func(v model.Emoji) snowflake.ID { return v.GuildID },
	}
	StickerTable = Table[snowflake.ID, snowflake.ID, model.Sticker]{
		Name:   "stickers",
		Key:    func(v model.Sticker) snowflake.ID { return v.ID },
		Parent: func(v model.Sticker) snowflake.ID { return v.GuildID },
	}
	MessageStickerTable = Table[model.MessageStickerKey, snowflake.ID, model.Sticker]{
		Name:   "message_stickers",
		Key:    model.Sticker.MessageKey,
		Parent: func(v model.Sticker) snowflake.ID { return v.MessageID },
	}
	MessageTable = Table[snowflake.ID, snowflake.ID, model.Message]{
		Name:   "messages",
		Key:    func(v model.Message) snowflake.ID { return v.ID },
		Parent: func(v model.Message) snowflake.ID { return v.ChannelID },
	}
	EmbedTable = Table[uuid.UUID, snowflake.ID, model.Embed]{
		Name:   "embeds",
		Key:    func(v model.Embed) uuid.UUID { return v.ID },
		Parent: func(v model.Embed) snowflake.ID { return v.MessageID },
	}
	EmbedFieldTable = Table[model.EmbedFieldKey, uuid.UUID, model.EmbedField]{
		Name:   "embed_fields",
		Key:    model.EmbedField.Key,
		Parent: func(v model.EmbedField) uuid.UUID { return v.EmbedID },
	}
	AttachmentTable = Table[snowflake.ID, snowflake.ID, model.Attachment]{
		Name:   "attachments",
		Key:    func(v model.Attachment) snowflake.ID { return v.ID },
		Parent: func(v model.Attachment) snowflake.ID { return v.MessageID },
	}
	ReactionTable = Table[model.ReactionKey, snowflake.ID, model.Reaction]{
		Name:   "reactions",
		Key:    model.Reaction.Key,
		Parent: func(v model.Reaction) snowflake.ID { return v.MessageID },
	}
	PresenceTable = Table[model.MemberKey, snowflake.ID, model.Presence]{
		Name:   "presences",
		Key:    model.Presence.Key,
		Parent: func(v model.Presence) snowflake.ID { return v.GuildID },
	}
	ActivityTable = Table[model.ActivityKey, model.MemberKey, model.Activity]{
		Name:   "activities",
		Key:    model.Activity.Key,
		Parent: model.Activity.Member,
	}
	StageInstanceTable = Table[snowflake.ID, snowflake.ID, model.StageInstance]{
		Name:   "stage_instances",
		Key:    func(v model.StageInstance) snowflake.ID { return v.ID },
		Parent: func(v model.StageInstance) snowflake.ID { return v.GuildID },
	}
	AutoModerationRuleTable = Table[snowflake.ID, snowflake.ID, model.AutoModerationRule]{
		Name:   "auto_moderation_rules",
		Key:    func(v model.AutoModerationRule) snowflake.ID { return v.ID },
		Parent: func(v model.AutoModerationRule) snowflake.ID { return v.GuildID },
	}
	BanTable = Table[model.MemberKey, snowflake.ID, model.Ban]{
		Name:   "bans",
		Key:    model.Ban.Key,
		Parent: func(v model.Ban) snowflake.ID { return v.GuildID },
	}
)

// TableNames lists every table in creation order.
var TableNames = []string{
	GuildTable.Name, ChannelTable.Name, PrivateChannelTable.Name, OverwriteTable.Name,
	RoleTable.Name, MemberTable.Name, EmojiTable.Name, StickerTable.Name,
	MessageStickerTable.Name, MessageTable.Name, EmbedTable.Name, EmbedFieldTable.Name,
	AttachmentTable.Name, ReactionTable.Name, PresenceTable.Name, ActivityTable.Name,
	StageInstanceTable.Name, AutoModerationRuleTable.Name, BanTable.Name,
}

// MemberRoleTableName names the role assignment table.
const MemberRoleTableName = "member_roles"
