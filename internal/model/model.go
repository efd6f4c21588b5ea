// Package model defines the cached entities the synchronizer writes and the resolver reads.
//
// Rows are projections of remote resources: ephemeral, HTTP-only and expensive-to-maintain
// fields (last message id, member counts, ...) are dropped. Owned collections are never
// embedded; they are separate rows referencing their parent by id.
package model

import (
	"fmt"

	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"
)

// MemberKey identifies a guild member and everything scoped to one (presence, ban).
type MemberKey struct {
	GuildID snowflake.ID
	UserID  snowflake.ID
}

// PrivateChannelKey identifies a direct-message channel together with its recipient.
type PrivateChannelKey struct {
	ChannelID   snowflake.ID
	RecipientID snowflake.ID
}

// OverwriteKey identifies a permission overwrite; the overwrite id alone is unique only
// per channel.
type OverwriteKey struct {
	ChannelID snowflake.ID
	ID        snowflake.ID
}

// MessageStickerKey identifies a sticker attached to a message.
type MessageStickerKey struct {
	MessageID snowflake.ID
	StickerID snowflake.ID
}

// EmbedFieldKey identifies a field by its embed and position.
type EmbedFieldKey struct {
	EmbedID  uuid.UUID
	Position int
}

// ReactionKey identifies one user's reaction with one emoji on one message.
type ReactionKey struct {
	MessageID snowflake.ID
	UserID    snowflake.ID
	Emoji     string
}

// ActivityKey identifies an activity by the presence it belongs to and its position.
type ActivityKey struct {
	GuildID  snowflake.ID
	UserID   snowflake.ID
	Position int
}

func (k MemberKey) String() string         { return fmt.Sprintf("%d/%d", k.GuildID, k.UserID) }
func (k PrivateChannelKey) String() string { return fmt.Sprintf("%d/%d", k.ChannelID, k.RecipientID) }
func (k OverwriteKey) String() string      { return fmt.Sprintf("%d/%d", k.ChannelID, k.ID) }
func (k MessageStickerKey) String() string { return fmt.Sprintf("%d/%d", k.MessageID, k.StickerID) }
func (k EmbedFieldKey) String() string     { return fmt.Sprintf("%s/%d", k.EmbedID, k.Position) }
func (k ReactionKey) String() string       { return fmt.Sprintf("%d/%d/%s", k.MessageID, k.UserID, k.Emoji) }
func (k ActivityKey) String() string {
	return fmt.Sprintf("%d/%d/%d", k.GuildID, k.UserID, k.Position)
}
