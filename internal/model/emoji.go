package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Emoji is a guild's custom emoji.
type Emoji struct {
	ID            snowflake.ID   `json:"id"`
	GuildID       snowflake.ID   `json:"guild_id"`
	Name          string         `json:"name"`
	RoleIDs       []snowflake.ID `json:"role_ids,omitempty"`
	CreatorID     *snowflake.ID  `json:"creator_id,omitempty"`
	RequireColons bool           `json:"require_colons"`
	Managed       bool           `json:"managed"`
	Animated      bool           `json:"animated"`
	Available     bool           `json:"available"`
}

// Sticker is either a guild sticker (GuildID set) or a sticker attached to a message
// (MessageID set). Message stickers carry only the fields a message sticker item has.
type Sticker struct {
	ID          snowflake.ID              `json:"id"`
	GuildID     snowflake.ID              `json:"guild_id,omitempty"`
	MessageID   snowflake.ID              `json:"message_id,omitempty"`
	PackID      *snowflake.ID             `json:"pack_id,omitempty"`
	Name        string                    `json:"name"`
	Description *string                   `json:"description,omitempty"`
	Tags        string                    `json:"tags,omitempty"`
	Type        int                       `json:"type,omitempty"`
	FormatType  discord.StickerFormatType `json:"format_type"`
	Available   bool                      `json:"available"`
	CreatorID   *snowflake.ID             `json:"creator_id,omitempty"`
	SortValue   *int                      `json:"sort_value,omitempty"`
}

// MessageKey returns the key of a message placement.
func (s Sticker) MessageKey() MessageStickerKey {
	return MessageStickerKey{MessageID: s.MessageID, StickerID: s.ID}
}
