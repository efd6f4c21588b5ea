package service

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/gateway"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/repository"
)

type handler func(ctx context.Context, e event.Event) error

// Synchronizer translates events into backend operations. Apply must not be called
// concurrently for events of the same partition; different partitions may be applied in
// parallel.
type Synchronizer struct {
	b        repository.Backend
	session  *Session
	log      *zap.Logger
	handlers map[gateway.EventType]handler
}

// NewSynchronizer wires the handler table.
func NewSynchronizer(b repository.Backend, session *Session, log *zap.Logger) *Synchronizer {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Synchronizer{b: b, session: session, log: log}
	s.handlers = map[gateway.EventType]handler{
		gateway.EventTypeReady:      on(s.ready),
		gateway.EventTypeUserUpdate: on(s.userUpdate),

		gateway.EventTypeChannelCreate:  on(func(ctx context.Context, c event.Channel) error { return s.addChannel(ctx, c, nil) }),
		gateway.EventTypeChannelUpdate:  on(func(ctx context.Context, c event.Channel) error { return s.addChannel(ctx, c, nil) }),
		gateway.EventTypeChannelDelete:  on(s.channelDelete),
		gateway.EventTypeThreadCreate:   on(func(ctx context.Context, e gateway.EventThreadCreate) error { return s.addChannel(ctx, event.Channel{Channel: e.GuildThread}, nil) }),
		gateway.EventTypeThreadUpdate:   on(func(ctx context.Context, e gateway.EventThreadUpdate) error { return s.addChannel(ctx, event.Channel{Channel: e.GuildThread}, nil) }),
		gateway.EventTypeThreadDelete:   on(func(ctx context.Context, e gateway.EventThreadDelete) error { return s.removeChannel(ctx, e.ID, nil) }),
		gateway.EventTypeThreadListSync: on(s.threadListSync),

		gateway.EventTypeGuildCreate:         on(s.guildCreate),
		gateway.EventTypeGuildUpdate:         on(s.guildUpdate),
		gateway.EventTypeGuildDelete:         on(s.guildDelete),
		gateway.EventTypeGuildBanAdd:         on(s.banAdd),
		gateway.EventTypeGuildBanRemove:      on(s.banRemove),
		gateway.EventTypeGuildEmojisUpdate:   on(s.emojisUpdate),
		gateway.EventTypeGuildStickersUpdate: on(s.stickersUpdate),
		gateway.EventTypeGuildRoleCreate:     on(func(ctx context.Context, e gateway.EventGuildRoleCreate) error { return s.upsertRole(ctx, e.GuildID, e.Role) }),
		gateway.EventTypeGuildRoleUpdate:     on(func(ctx context.Context, e gateway.EventGuildRoleUpdate) error { return s.upsertRole(ctx, e.GuildID, e.Role) }),
		gateway.EventTypeGuildRoleDelete:     on(s.roleDelete),

		gateway.EventTypeGuildMemberAdd:    on(func(ctx context.Context, e gateway.EventGuildMemberAdd) error { return s.addMember(ctx, e.GuildID, e.Member) }),
		gateway.EventTypeGuildMemberUpdate: on(s.memberUpdate),
		gateway.EventTypeGuildMemberRemove: on(s.memberRemove),
		gateway.EventTypeGuildMembersChunk: on(s.membersChunk),

		gateway.EventTypeMessageCreate:              on(s.messageCreate),
		gateway.EventTypeMessageUpdate:              on(s.messageUpdate),
		gateway.EventTypeMessageDelete:              on(func(ctx context.Context, e gateway.EventMessageDelete) error { return s.removeMessage(ctx, e.ID) }),
		gateway.EventTypeMessageDeleteBulk:          on(s.messageDeleteBulk),
		gateway.EventTypeMessageReactionAdd:         on(s.reactionAdd),
		gateway.EventTypeMessageReactionRemove:      on(s.reactionRemove),
		gateway.EventTypeMessageReactionRemoveAll:   on(s.reactionRemoveAll),
		gateway.EventTypeMessageReactionRemoveEmoji: on(s.reactionRemoveEmoji),

		gateway.EventTypePresenceUpdate: on(func(ctx context.Context, e gateway.EventPresenceUpdate) error { return s.replacePresence(ctx, e.Presence) }),

		gateway.EventTypeStageInstanceCreate:      on(func(ctx context.Context, e gateway.EventStageInstanceCreate) error { return s.upsertStageInstance(ctx, e.StageInstance) }),
		gateway.EventTypeStageInstanceUpdate:      on(func(ctx context.Context, e gateway.EventStageInstanceUpdate) error { return s.upsertStageInstance(ctx, e.StageInstance) }),
		gateway.EventTypeStageInstanceDelete:      on(s.stageInstanceDelete),
		gateway.EventTypeAutoModerationRuleCreate: on(func(ctx context.Context, e gateway.EventAutoModerationRuleCreate) error { return s.upsertAutoModerationRule(ctx, e.AutoModerationRule) }),
		gateway.EventTypeAutoModerationRuleUpdate: on(func(ctx context.Context, e gateway.EventAutoModerationRuleUpdate) error { return s.upsertAutoModerationRule(ctx, e.AutoModerationRule) }),
		gateway.EventTypeAutoModerationRuleDelete: on(s.autoModerationRuleDelete),
	}
	return s
}

// Apply performs the backend operations for e. Types without a handler are ignored.
// On failure the operations already issued stay applied.
func (s *Synchronizer) Apply(ctx context.Context, e event.Event) error {
	h, ok := s.handlers[e.Type]
	if !ok {
		s.log.Debug("event ignored", zap.String("type", string(e.Type)))
		return nil
	}
	if err := h(ctx, e); err != nil {
		return fmt.Errorf("%s: %w", e.Type, err)
	}
	return nil
}

// Handles reports whether Apply has a handler for t.
func (s *Synchronizer) Handles(t gateway.EventType) bool {
	_, ok := s.handlers[t]
	return ok
}

func on[D any](fn func(context.Context, D) error) handler {
	return func(ctx context.Context, e event.Event) error {
		d, ok := e.Data.(D)
		if !ok {
			return fmt.Errorf("unexpected payload %T: %w", e.Data, errs.ErrMalformedState)
		}
		return fn(ctx, d)
	}
}
