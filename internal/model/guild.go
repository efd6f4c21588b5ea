package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Guild is a cached guild. Channels, roles, emojis, stickers, members, presences, stage
// instances, auto moderation rules and bans reference it by id.
type Guild struct {
	ID                          snowflake.ID  `json:"id"`
	Name                        string        `json:"name"`
	Icon                        *string       `json:"icon,omitempty"`
	Splash                      *string       `json:"splash,omitempty"`
	DiscoverySplash             *string       `json:"discovery_splash,omitempty"`
	Banner                      *string       `json:"banner,omitempty"`
	Description                 *string       `json:"description,omitempty"`
	OwnerID                     snowflake.ID  `json:"owner_id"`
	AFKChannelID                *snowflake.ID `json:"afk_channel_id,omitempty"`
	AFKTimeout                  int           `json:"afk_timeout"`
	WidgetEnabled               bool          `json:"widget_enabled"`
	WidgetChannelID             *snowflake.ID `json:"widget_channel_id,omitempty"`
	VerificationLevel           int           `json:"verification_level"`
	DefaultMessageNotifications int           `json:"default_message_notifications"`
	ExplicitContentFilter       int           `json:"explicit_content_filter"`
	Features                    []string      `json:"features,omitempty"`
	MFALevel                    int           `json:"mfa_level"`
	ApplicationID               *snowflake.ID `json:"application_id,omitempty"`
	SystemChannelID             *snowflake.ID `json:"system_channel_id,omitempty"`
	SystemChannelFlags          int           `json:"system_channel_flags"`
	RulesChannelID              *snowflake.ID `json:"rules_channel_id,omitempty"`
	PublicUpdatesChannelID      *snowflake.ID `json:"public_updates_channel_id,omitempty"`
	SafetyAlertsChannelID       *snowflake.ID `json:"safety_alerts_channel_id,omitempty"`
	MaxPresences                *int          `json:"max_presences,omitempty"`
	MaxMembers                  int           `json:"max_members"`
	MaxVideoChannelUsers        int           `json:"max_video_channel_users"`
	VanityURLCode               *string       `json:"vanity_url_code,omitempty"`
	PremiumTier                 int           `json:"premium_tier"`
	PremiumSubscriptionCount    int           `json:"premium_subscription_count"`
	PremiumProgressBarEnabled   bool          `json:"premium_progress_bar_enabled"`
	PreferredLocale             string        `json:"preferred_locale"`
	NSFWLevel                   int           `json:"nsfw_level"`
	JoinedAt                    *time.Time    `json:"joined_at,omitempty"`
	Large                       bool          `json:"large"`
	Unavailable                 bool          `json:"unavailable"`
	MemberCount                 int           `json:"member_count"`
}

// AutoModerationRule is a cached auto moderation rule. Nothing in the cache branches on
// its trigger metadata or actions.
type AutoModerationRule struct {
	ID              snowflake.ID                          `json:"id"`
	GuildID         snowflake.ID                          `json:"guild_id"`
	Name            string                                `json:"name"`
	CreatorID       snowflake.ID                          `json:"creator_id"`
	EventType       int                                   `json:"event_type"`
	TriggerType     int                                   `json:"trigger_type"`
	TriggerMetadata discord.AutoModerationTriggerMetadata `json:"trigger_metadata"`
	Actions         []discord.AutoModerationAction        `json:"actions,omitempty"`
	Enabled         bool                                  `json:"enabled"`
	ExemptRoles     []snowflake.ID                        `json:"exempt_roles,omitempty"`
	ExemptChannels  []snowflake.ID                        `json:"exempt_channels,omitempty"`
}

// StageInstance is a live stage in a guild's stage channel.
type StageInstance struct {
	ID           snowflake.ID `json:"id"`
	GuildID      snowflake.ID `json:"guild_id"`
	ChannelID    snowflake.ID `json:"channel_id"`
	Topic        string       `json:"topic"`
	PrivacyLevel int          `json:"privacy_level"`
}

// Ban records a banned user.
type Ban struct {
	GuildID snowflake.ID `json:"guild_id"`
	UserID  snowflake.ID `json:"user_id"`
	Reason  *string      `json:"reason,omitempty"`
}

// Key returns the ban's key.
func (b Ban) Key() MemberKey { return MemberKey{GuildID: b.GuildID, UserID: b.UserID} }
