package model

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Presence is a member's status in one guild.
type Presence struct {
	GuildID       snowflake.ID         `json:"guild_id"`
	UserID        snowflake.ID         `json:"user_id"`
	Status        discord.OnlineStatus `json:"status"`
	DesktopStatus string               `json:"desktop_status,omitempty"`
	MobileStatus  string               `json:"mobile_status,omitempty"`
	WebStatus     string               `json:"web_status,omitempty"`
}

// Key returns the presence's key.
func (p Presence) Key() MemberKey { return MemberKey{GuildID: p.GuildID, UserID: p.UserID} }

// Activity is one entry of a presence's activity list, in the order received.
type Activity struct {
	GuildID        snowflake.ID         `json:"guild_id"`
	UserID         snowflake.ID         `json:"user_id"`
	Position       int                  `json:"position"`
	Name           string               `json:"name"`
	Type           discord.ActivityType `json:"type"`
	URL            *string              `json:"url,omitempty"`
	CreatedAt      int64                `json:"created_at"`
	StartTimestamp *int64               `json:"start_timestamp,omitempty"`
	EndTimestamp   *int64               `json:"end_timestamp,omitempty"`
	ApplicationID  *snowflake.ID        `json:"application_id,omitempty"`
	Details        *string              `json:"details,omitempty"`
	State          *string              `json:"state,omitempty"`
	EmojiName      *string              `json:"emoji_name,omitempty"`
	EmojiID        *snowflake.ID        `json:"emoji_id,omitempty"`
	EmojiAnimated  bool                 `json:"emoji_animated"`
	PartyID        *string              `json:"party_id,omitempty"`
	PartySize      []int                `json:"party_size,omitempty"`
	LargeImage     *string              `json:"large_image,omitempty"`
	LargeText      *string              `json:"large_text,omitempty"`
	SmallImage     *string              `json:"small_image,omitempty"`
	SmallText      *string              `json:"small_text,omitempty"`
	Instance       bool                 `json:"instance"`
	Flags          int                  `json:"flags"`
}

// Key returns the activity's key.
func (a Activity) Key() ActivityKey {
	return ActivityKey{GuildID: a.GuildID, UserID: a.UserID, Position: a.Position}
}

// Member returns the key of the presence the activity belongs to.
func (a Activity) Member() MemberKey { return MemberKey{GuildID: a.GuildID, UserID: a.UserID} }
