package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Member is a guild member with the user's public profile flattened in.
type Member struct {
	GuildID                    snowflake.ID `json:"guild_id"`
	UserID                     snowflake.ID `json:"user_id"`
	Nick                       *string      `json:"nick,omitempty"`
	Avatar                     *string      `json:"avatar,omitempty"`
	JoinedAt                   time.Time    `json:"joined_at"`
	PremiumSince               *time.Time   `json:"premium_since,omitempty"`
	Deaf                       bool         `json:"deaf"`
	Mute                       bool         `json:"mute"`
	Pending                    bool         `json:"pending"`
	Flags                      int          `json:"flags"`
	CommunicationDisabledUntil *string      `json:"communication_disabled_until,omitempty"`

	Username      string  `json:"username"`
	GlobalName    *string `json:"global_name,omitempty"`
	Discriminator string  `json:"discriminator"`
	UserAvatar    *string `json:"user_avatar,omitempty"`
	Bot           bool    `json:"bot"`
	System        bool    `json:"system"`
	PublicFlags   int     `json:"public_flags"`
}

// Key returns the member's key.
func (m Member) Key() MemberKey { return MemberKey{GuildID: m.GuildID, UserID: m.UserID} }

// CommunicationDisabled reports whether the member is timed out at now. The timestamp is
// stored as received and parsed here, so a malformed value surfaces as an error instead
// of being lost at write time.
func (m Member) CommunicationDisabled(now time.Time) (bool, error) {
	if m.CommunicationDisabledUntil == nil {
		return false, nil
	}
	until, err := time.Parse(time.RFC3339, *m.CommunicationDisabledUntil)
	if err != nil {
		return false, err
	}
	return until.After(now), nil
}

// Role is a role definition when UserID is zero, and an assignment of that role to the
// member UserID otherwise.
type Role struct {
	ID           snowflake.ID        `json:"id"`
	GuildID      snowflake.ID        `json:"guild_id"`
	UserID       snowflake.ID        `json:"user_id,omitempty"`
	Name         string              `json:"name"`
	Color        int                 `json:"color"`
	Hoist        bool                `json:"hoist"`
	Icon         *string             `json:"icon,omitempty"`
	UnicodeEmoji *string             `json:"unicode_emoji,omitempty"`
	Position     int                 `json:"position"`
	Permissions  discord.Permissions `json:"permissions"`
	Managed      bool                `json:"managed"`
	Mentionable  bool                `json:"mentionable"`
	Flags        int                 `json:"flags"`
	Tags         *RoleTags           `json:"tags,omitempty"`
}

// IsEveryone reports whether r is the guild's @everyone role, whose id equals the guild id.
func (r Role) IsEveryone() bool { return r.ID == r.GuildID }

// RoleTags describes what manages a role.
type RoleTags struct {
	BotID                 *snowflake.ID `json:"bot_id,omitempty"`
	IntegrationID         *snowflake.ID `json:"integration_id,omitempty"`
	SubscriptionListingID *snowflake.ID `json:"subscription_listing_id,omitempty"`
	PremiumSubscriber     bool          `json:"premium_subscriber"`
	AvailableForPurchase  bool          `json:"available_for_purchase"`
	GuildConnections      bool          `json:"guild_connections"`
}

// MemberRole is the stored form of a role assignment.
type MemberRole struct {
	GuildID snowflake.ID `json:"guild_id"`
	UserID  snowflake.ID `json:"user_id"`
	RoleID  snowflake.ID `json:"role_id"`
}

// Member returns the key of the member holding the role.
func (mr MemberRole) Member() MemberKey { return MemberKey{GuildID: mr.GuildID, UserID: mr.UserID} }

// Assigned returns the definition as held by user.
func (r Role) Assigned(user snowflake.ID) Role {
	r.UserID = user
	return r
}
