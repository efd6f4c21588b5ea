package model

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
)

// Channel is a cached channel or thread.
type Channel struct {
	ID                         snowflake.ID        `json:"id"`
	Type                       discord.ChannelType `json:"type"`
	GuildID                    *snowflake.ID       `json:"guild_id,omitempty"`
	Position                   int                 `json:"position"`
	Name                       string              `json:"name,omitempty"`
	Topic                      *string             `json:"topic,omitempty"`
	NSFW                       bool                `json:"nsfw"`
	Bitrate                    int                 `json:"bitrate,omitempty"`
	UserLimit                  int                 `json:"user_limit,omitempty"`
	RateLimitPerUser           int                 `json:"rate_limit_per_user,omitempty"`
	RecipientIDs               []snowflake.ID      `json:"recipient_ids,omitempty"`
	OwnerID                    *snowflake.ID       `json:"owner_id,omitempty"`
	ParentID                   *snowflake.ID       `json:"parent_id,omitempty"`
	RTCRegion                  *string             `json:"rtc_region,omitempty"`
	VideoQualityMode           int                 `json:"video_quality_mode,omitempty"`
	DefaultAutoArchiveDuration int                 `json:"default_auto_archive_duration,omitempty"`
	Flags                      int                 `json:"flags"`
	Thread                     *ThreadMetadata     `json:"thread_metadata,omitempty"`
}

// ThreadMetadata is only set on thread channels.
type ThreadMetadata struct {
	Archived            bool       `json:"archived"`
	AutoArchiveDuration int        `json:"auto_archive_duration"`
	ArchiveTimestamp    time.Time  `json:"archive_timestamp"`
	Locked              bool       `json:"locked"`
	Invitable           bool       `json:"invitable"`
	CreateTimestamp     *time.Time `json:"create_timestamp,omitempty"`
}

// IsPrivate reports whether c is a one-to-one direct message channel.
func (c Channel) IsPrivate() bool { return c.Type == discord.ChannelTypeDM }

// PrivateChannel maps a direct message channel to the user on the other side.
type PrivateChannel struct {
	ChannelID   snowflake.ID `json:"channel_id"`
	RecipientID snowflake.ID `json:"recipient_id"`
}

// Key returns the private channel's key.
func (p PrivateChannel) Key() PrivateChannelKey {
	return PrivateChannelKey{ChannelID: p.ChannelID, RecipientID: p.RecipientID}
}

// PermissionOverwrite adjusts permissions for one role or member within one channel.
type PermissionOverwrite struct {
	ChannelID snowflake.ID                    `json:"channel_id"`
	ID        snowflake.ID                    `json:"id"`
	Type      discord.PermissionOverwriteType `json:"type"`
	Allow     discord.Permissions             `json:"allow"`
	Deny      discord.Permissions             `json:"deny"`
}

// Key returns the overwrite's key.
func (o PermissionOverwrite) Key() OverwriteKey {
	return OverwriteKey{ChannelID: o.ChannelID, ID: o.ID}
}

// Apply clears the denied bits from p and then sets the allowed ones.
func (o PermissionOverwrite) Apply(p discord.Permissions) discord.Permissions {
	return p.Remove(o.Deny).Add(o.Allow)
}
