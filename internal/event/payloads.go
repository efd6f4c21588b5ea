package event

import (
	"encoding/json"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
)

// Ready is the first dispatch of a session, with the private channels user sessions
// receive.
type Ready struct {
	gateway.EventReady
	PrivateChannels []Channel `json:"private_channels"`
}

// Channel is the payload of CHANNEL_CREATE, CHANNEL_UPDATE and CHANNEL_DELETE, which may
// carry direct message channels as well as guild channels. Recipients is kept because
// the discord channel types do not expose it.
type Channel struct {
	discord.Channel
	Recipients []discord.User
}

// UnmarshalJSON decodes any channel type disgo knows.
func (c *Channel) UnmarshalJSON(data []byte) error {
	var v discord.UnmarshalChannel
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	var r struct {
		Recipients []discord.User `json:"recipients"`
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	c.Channel, c.Recipients = v.Channel, r.Recipients
	return nil
}

// GuildMemberUpdate is a partial member update.
type GuildMemberUpdate struct {
	GuildID                    snowflake.ID             `json:"guild_id"`
	User                       discord.User             `json:"user"`
	Roles                      Optional[[]snowflake.ID] `json:"roles"`
	Nick                       Optional[*string]        `json:"nick"`
	Avatar                     Optional[*string]        `json:"avatar"`
	JoinedAt                   Optional[*time.Time]     `json:"joined_at"`
	PremiumSince               Optional[*time.Time]     `json:"premium_since"`
	Deaf                       Optional[bool]           `json:"deaf"`
	Mute                       Optional[bool]           `json:"mute"`
	Pending                    Optional[bool]           `json:"pending"`
	Flags                      Optional[int]            `json:"flags"`
	CommunicationDisabledUntil Optional[*string]        `json:"communication_disabled_until"`
}

// MessageUpdate is a partial message update. Collections that are present replace the
// cached ones entirely.
type MessageUpdate struct {
	ID              snowflake.ID                       `json:"id"`
	ChannelID       snowflake.ID                       `json:"channel_id"`
	GuildID         *snowflake.ID                      `json:"guild_id"`
	Content         Optional[string]                   `json:"content"`
	EditedTimestamp Optional[*time.Time]               `json:"edited_timestamp"`
	TTS             Optional[bool]                     `json:"tts"`
	MentionEveryone Optional[bool]                     `json:"mention_everyone"`
	Mentions        Optional[[]discord.User]           `json:"mentions"`
	MentionRoles    Optional[[]snowflake.ID]           `json:"mention_roles"`
	Attachments     Optional[[]discord.Attachment]     `json:"attachments"`
	Embeds          Optional[[]discord.Embed]          `json:"embeds"`
	StickerItems    Optional[[]discord.MessageSticker] `json:"sticker_items"`
	Pinned          Optional[bool]                     `json:"pinned"`
	Flags           Optional[discord.MessageFlags]     `json:"flags"`
}

// MessageDeleteBulk reads the ids field, which disgo's payload maps to the wrong key.
type MessageDeleteBulk struct {
	gateway.EventMessageDeleteBulk
	IDs []snowflake.ID `json:"ids"`
}
