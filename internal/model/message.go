package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
)

// Message is a cached message. Embeds, attachments, reactions and stickers are separate
// rows keyed by the message id.
type Message struct {
	ID                  snowflake.ID         `json:"id"`
	ChannelID           snowflake.ID         `json:"channel_id"`
	GuildID             *snowflake.ID        `json:"guild_id,omitempty"`
	AuthorID            snowflake.ID         `json:"author_id"`
	Content             string               `json:"content"`
	Timestamp           time.Time            `json:"timestamp"`
	EditedTimestamp     *time.Time           `json:"edited_timestamp,omitempty"`
	TTS                 bool                 `json:"tts"`
	MentionEveryone     bool                 `json:"mention_everyone"`
	MentionIDs          []snowflake.ID       `json:"mention_ids,omitempty"`
	MentionRoleIDs      []snowflake.ID       `json:"mention_role_ids,omitempty"`
	Pinned              bool                 `json:"pinned"`
	WebhookID           *snowflake.ID        `json:"webhook_id,omitempty"`
	Type                discord.MessageType  `json:"type"`
	ApplicationID       *snowflake.ID        `json:"application_id,omitempty"`
	Flags               discord.MessageFlags `json:"flags"`
	ReferencedMessageID *snowflake.ID        `json:"referenced_message_id,omitempty"`
	ThreadID            *snowflake.ID        `json:"thread_id,omitempty"`
	ActivityType        *int                 `json:"activity_type,omitempty"`
	ActivityPartyID     *string              `json:"activity_party_id,omitempty"`
}

// Embed is a flattened message embed. Its id is synthetic and derived from the message id
// and the embed's position.
type Embed struct {
	ID          uuid.UUID    `json:"id"`
	MessageID   snowflake.ID `json:"message_id"`
	Position    int          `json:"position"`
	Type        string       `json:"type,omitempty"`
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url,omitempty"`
	Timestamp   *time.Time   `json:"timestamp,omitempty"`
	Color       *int         `json:"color,omitempty"`

	FooterText         string `json:"footer_text,omitempty"`
	FooterIconURL      string `json:"footer_icon_url,omitempty"`
	FooterProxyIconURL string `json:"footer_proxy_icon_url,omitempty"`

	ImageURL      string `json:"image_url,omitempty"`
	ImageProxyURL string `json:"image_proxy_url,omitempty"`
	ImageHeight   int    `json:"image_height,omitempty"`
	ImageWidth    int    `json:"image_width,omitempty"`

	ThumbnailURL      string `json:"thumbnail_url,omitempty"`
	ThumbnailProxyURL string `json:"thumbnail_proxy_url,omitempty"`
	ThumbnailHeight   int    `json:"thumbnail_height,omitempty"`
	ThumbnailWidth    int    `json:"thumbnail_width,omitempty"`

	VideoURL      string `json:"video_url,omitempty"`
	VideoProxyURL string `json:"video_proxy_url,omitempty"`
	VideoHeight   int    `json:"video_height,omitempty"`
	VideoWidth    int    `json:"video_width,omitempty"`

	ProviderName string `json:"provider_name,omitempty"`
	ProviderURL  string `json:"provider_url,omitempty"`

	AuthorName         string `json:"author_name,omitempty"`
	AuthorURL          string `json:"author_url,omitempty"`
	AuthorIconURL      string `json:"author_icon_url,omitempty"`
	AuthorProxyIconURL string `json:"author_proxy_icon_url,omitempty"`
}

// EmbedField is one name/value pair of an embed.
type EmbedField struct {
	EmbedID  uuid.UUID `json:"embed_id"`
	Position int       `json:"position"`
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Inline   bool      `json:"inline"`
}

// Key returns the field's key.
func (f EmbedField) Key() EmbedFieldKey { return EmbedFieldKey{EmbedID: f.EmbedID, Position: f.Position} }

// Attachment is a file attached to a message.
type Attachment struct {
	ID          snowflake.ID `json:"id"`
	MessageID   snowflake.ID `json:"message_id"`
	Filename    string       `json:"filename"`
	Description *string      `json:"description,omitempty"`
	ContentType *string      `json:"content_type,omitempty"`
	Size        int          `json:"size"`
	URL         string       `json:"url"`
	ProxyURL    string       `json:"proxy_url"`
	Height      *int         `json:"height,omitempty"`
	Width       *int         `json:"width,omitempty"`
	Ephemeral   bool         `json:"ephemeral"`
}

// Reaction is one user's reaction to a message. Emoji is the custom emoji id in decimal,
// or the unicode emoji itself.
type Reaction struct {
	MessageID snowflake.ID  `json:"message_id"`
	UserID    snowflake.ID  `json:"user_id"`
	Emoji     string        `json:"emoji"`
	ChannelID snowflake.ID  `json:"channel_id"`
	GuildID   *snowflake.ID `json:"guild_id,omitempty"`
	Burst     bool          `json:"burst"`
}

// Key returns the reaction's key.
func (r Reaction) Key() ReactionKey {
	return ReactionKey{MessageID: r.MessageID, UserID: r.UserID, Emoji: r.Emoji}
}
