package service

import (
	"context"
	"errors"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/convert"
	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/model"
)

// guildCreate replaces everything a guild snapshot carries. Roles go first so member
// role validation sees them; the guild row goes last so its presence implies the rest
// was written.
func (s *Synchronizer) guildCreate(ctx context.Context, e gateway.EventGuildCreate) error {
	if e.Unavailable {
		s.log.Debug("guild unavailable", zap.Uint64("guild", uint64(e.ID)))
		return nil
	}
	id := e.ID
	if err := s.purgeGuild(ctx, id); err != nil {
		return err
	}
	for _, r := range e.Roles {
		if err := s.upsertRole(ctx, id, r); err != nil {
			return err
		}
	}
	for _, c := range e.Channels {
		if err := s.addChannel(ctx, event.Channel{Channel: c}, &id); err != nil {
			return err
		}
	}
	for _, t := range e.Threads {
		if err := s.addChannel(ctx, event.Channel{Channel: t}, &id); err != nil {
			return err
		}
	}
	for _, em := range e.Emojis {
		if err := s.b.Emojis.Upsert(ctx, convert.Emoji(id, em)); err != nil {
			return errs.Backend("upsert emoji", err)
		}
	}
	for _, st := range e.Stickers {
		if err := s.b.Stickers.Upsert(ctx, convert.Sticker(id, st)); err != nil {
			return errs.Backend("upsert sticker", err)
		}
	}
	for _, m := range e.Members {
		if err := s.addMember(ctx, id, m); err != nil {
			return err
		}
	}
	for _, p := range e.Presences {
		p.GuildID = id
		if err := s.replacePresence(ctx, p); err != nil {
			return err
		}
	}
	for _, si := range e.StageInstances {
		si.GuildID = id
		if err := s.upsertStageInstance(ctx, si); err != nil {
			return err
		}
	}
	if err := s.b.Guilds.Upsert(ctx, convert.Guild(e.GatewayGuild)); err != nil {
		return errs.Backend("upsert guild", err)
	}
	return nil
}

func (s *Synchronizer) guildUpdate(ctx context.Context, e gateway.EventGuildUpdate) error {
	cached, err := s.b.Guilds.Get(ctx, e.ID)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Debug("guild update for uncached guild", zap.Uint64("guild", uint64(e.ID)))
		return nil
	}
	if err != nil {
		return errs.Backend("get guild", err)
	}
	if err := s.b.Guilds.Upsert(ctx, convert.MergeGuild(*cached, e.GatewayGuild)); err != nil {
		return errs.Backend("upsert guild", err)
	}
	return nil
}

func (s *Synchronizer) guildDelete(ctx context.Context, e gateway.EventGuildDelete) error {
	if e.Unavailable {
		s.log.Debug("guild outage", zap.Uint64("guild", uint64(e.ID)))
		return nil
	}
	if err := s.purgeGuild(ctx, e.ID); err != nil {
		return err
	}
	if err := s.b.AutoModerationRules.DeleteByParent(ctx, e.ID); err != nil {
		return errs.Backend("delete auto moderation rules", err)
	}
	if err := s.b.Bans.DeleteByParent(ctx, e.ID); err != nil {
		return errs.Backend("delete bans", err)
	}
	if err := s.b.Guilds.Delete(ctx, e.ID); err != nil {
		return errs.Backend("delete guild", err)
	}
	return nil
}

// purgeGuild removes every collection a GUILD_CREATE snapshot repopulates. Bans and auto
// moderation rules are not part of the snapshot and survive.
func (s *Synchronizer) purgeGuild(ctx context.Context, guildID snowflake.ID) error {
	channels, err := s.b.Channels.ListByParent(ctx, guildID)
	if err != nil {
		return errs.Backend("list channels", err)
	}
	for _, c := range channels {
		if err := s.b.PermissionOverwrites.DeleteByParent(ctx, c.ID); err != nil {
			return errs.Backend("delete permission overwrites", err)
		}
	}
	if err := s.b.Channels.DeleteByParent(ctx, guildID); err != nil {
		return errs.Backend("delete channels", err)
	}
	if err := s.b.MemberRoles.DeleteByGuild(ctx, guildID); err != nil {
		return errs.Backend("delete member roles", err)
	}
	presences, err := s.b.Presences.ListByParent(ctx, guildID)
	if err != nil {
		return errs.Backend("list presences", err)
	}
	for _, p := range presences {
		if err := s.b.Activities.DeleteByParent(ctx, p.Key()); err != nil {
			return errs.Backend("delete activities", err)
		}
	}
	steps := []struct {
		op  string
		del func(context.Context, snowflake.ID) error
	}{
		{"delete presences", s.b.Presences.DeleteByParent},
		{"delete roles", s.b.Roles.DeleteByParent},
		{"delete emojis", s.b.Emojis.DeleteByParent},
		{"delete stickers", s.b.Stickers.DeleteByParent},
		{"delete stage instances", s.b.StageInstances.DeleteByParent},
		{"delete members", s.b.Members.DeleteByParent},
	}
	for _, st := range steps {
		if err := st.del(ctx, guildID); err != nil {
			return errs.Backend(st.op, err)
		}
	}
	return nil
}

func (s *Synchronizer) upsertRole(ctx context.Context, guildID snowflake.ID, r discord.Role) error {
	if err := s.b.Roles.Upsert(ctx, convert.Role(guildID, r)); err != nil {
		return errs.Backend("upsert role", err)
	}
	return nil
}

func (s *Synchronizer) roleDelete(ctx context.Context, e gateway.EventGuildRoleDelete) error {
	if err := s.b.MemberRoles.DeleteByRole(ctx, e.RoleID); err != nil {
		return errs.Backend("delete member roles", err)
	}
	if err := s.b.Roles.Delete(ctx, e.RoleID); err != nil {
		return errs.Backend("delete role", err)
	}
	return nil
}

func (s *Synchronizer) emojisUpdate(ctx context.Context, e gateway.EventGuildEmojisUpdate) error {
	if err := s.b.Emojis.DeleteByParent(ctx, e.GuildID); err != nil {
		return errs.Backend("delete emojis", err)
	}
	for _, em := range e.Emojis {
		if err := s.b.Emojis.Upsert(ctx, convert.Emoji(e.GuildID, em)); err != nil {
			return errs.Backend("upsert emoji", err)
		}
	}
	return nil
}

func (s *Synchronizer) stickersUpdate(ctx context.Context, e gateway.EventGuildStickersUpdate) error {
	if err := s.b.Stickers.DeleteByParent(ctx, e.GuildID); err != nil {
		return errs.Backend("delete stickers", err)
	}
	for _, st := range e.Stickers {
		if err := s.b.Stickers.Upsert(ctx, convert.Sticker(e.GuildID, st)); err != nil {
			return errs.Backend("upsert sticker", err)
		}
	}
	return nil
}

func (s *Synchronizer) banAdd(ctx context.Context, e gateway.EventGuildBanAdd) error {
	if err := s.b.Bans.Upsert(ctx, model.Ban{GuildID: e.GuildID, UserID: e.User.ID}); err != nil {
		return errs.Backend("upsert ban", err)
	}
	return nil
}

func (s *Synchronizer) banRemove(ctx context.Context, e gateway.EventGuildBanRemove) error {
	if err := s.b.Bans.Delete(ctx, model.MemberKey{GuildID: e.GuildID, UserID: e.User.ID}); err != nil {
		return errs.Backend("delete ban", err)
	}
	return nil
}

func (s *Synchronizer) upsertStageInstance(ctx context.Context, si discord.StageInstance) error {
	if err := s.b.StageInstances.Upsert(ctx, convert.StageInstance(si)); err != nil {
		return errs.Backend("upsert stage instance", err)
	}
	return nil
}

func (s *Synchronizer) stageInstanceDelete(ctx context.Context, e gateway.EventStageInstanceDelete) error {
	if err := s.b.StageInstances.Delete(ctx, e.ID); err != nil {
		return errs.Backend("delete stage instance", err)
	}
	return nil
}

func (s *Synchronizer) upsertAutoModerationRule(ctx context.Context, r discord.AutoModerationRule) error {
	if err := s.b.AutoModerationRules.Upsert(ctx, convert.AutoModerationRule(r)); err != nil {
		return errs.Backend("upsert auto moderation rule", err)
	}
	return nil
}

func (s *Synchronizer) autoModerationRuleDelete(ctx context.Context, e gateway.EventAutoModerationRuleDelete) error {
	if err := s.b.AutoModerationRules.Delete(ctx, e.ID); err != nil {
		return errs.Backend("delete auto moderation rule", err)
	}
	return nil
}
