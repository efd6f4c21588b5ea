// Package event defines the delta events consumed by the synchronizer. Payloads are the
// disgo gateway and discord types; the few dispatches whose disgo shape drops state the
// cache needs have their own types here.
package event

import (
	"encoding/json"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
)

// Event is one decoded dispatch.
type Event struct {
	Type gateway.EventType
	// GuildID is the ordering domain of the event, zero for events not scoped to a guild.
	GuildID snowflake.ID
	Data    any
}

// New wraps a decoded payload and derives its guild.
func New(t gateway.EventType, data any) Event {
	return Event{Type: t, GuildID: guildOf(data), Data: data}
}

// Partition returns the guild the event must be ordered within.
func (e Event) Partition() snowflake.ID { return e.GuildID }

func guildOf(data any) snowflake.ID {
	switch d := data.(type) {
	case Channel:
		if gc, ok := d.Channel.(discord.GuildChannel); ok {
			return gc.GuildID()
		}
	case GuildMemberUpdate:
		return d.GuildID
	case MessageUpdate:
		return deref(d.GuildID)

	case gateway.EventThreadCreate:
		return d.GuildID()
	case gateway.EventThreadUpdate:
		return d.GuildID()
	case gateway.EventThreadDelete:
		return d.GuildID
	case gateway.EventThreadListSync:
		return d.GuildID
	case gateway.EventChannelPinsUpdate:
		return deref(d.GuildID)

	case gateway.EventGuildCreate:
		return d.ID
	case gateway.EventGuildUpdate:
		return d.ID
	case gateway.EventGuildDelete:
		return d.ID
	case gateway.EventGuildBanAdd:
		return d.GuildID
	case gateway.EventGuildBanRemove:
		return d.GuildID
	case gateway.EventGuildEmojisUpdate:
		return d.GuildID
	case gateway.EventGuildStickersUpdate:
		return d.GuildID
	case gateway.EventGuildIntegrationsUpdate:
		return d.GuildID
	case gateway.EventGuildRoleCreate:
		return d.GuildID
	case gateway.EventGuildRoleUpdate:
		return d.GuildID
	case gateway.EventGuildRoleDelete:
		return d.GuildID

	case gateway.EventGuildMemberAdd:
		return d.GuildID
	case gateway.EventGuildMemberRemove:
		return d.GuildID
	case gateway.EventGuildMembersChunk:
		return d.GuildID
	case gateway.EventPresenceUpdate:
		return d.GuildID

	case gateway.EventMessageCreate:
		return deref(d.GuildID)
	case gateway.EventMessageDelete:
		return deref(d.GuildID)
	case MessageDeleteBulk:
		return deref(d.GuildID)
	case gateway.EventMessageReactionAdd:
		return deref(d.GuildID)
	case gateway.EventMessageReactionRemove:
		return deref(d.GuildID)
	case gateway.EventMessageReactionRemoveAll:
		return deref(d.GuildID)
	case gateway.EventMessageReactionRemoveEmoji:
		return deref(d.GuildID)
	case gateway.EventTypingStart:
		return deref(d.GuildID)

	case gateway.EventStageInstanceCreate:
		return d.GuildID
	case gateway.EventStageInstanceUpdate:
		return d.GuildID
	case gateway.EventStageInstanceDelete:
		return d.GuildID
	case gateway.EventAutoModerationRuleCreate:
		return d.GuildID
	case gateway.EventAutoModerationRuleUpdate:
		return d.GuildID
	case gateway.EventAutoModerationRuleDelete:
		return d.GuildID
	case gateway.EventAutoModerationActionExecution:
		return d.GuildID

	case gateway.EventUnknown:
		var v struct {
			GuildID snowflake.ID `json:"guild_id"`
		}
		// payloads without a guild fall into the global partition
		_ = json.Unmarshal(d, &v)
		return v.GuildID
	}
	return 0
}

func deref(id *snowflake.ID) snowflake.ID {
	if id == nil {
		return 0
	}
	return *id
}
