package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"

	"github.com/and161185/discord-cache/internal/convert"
	"github.com/and161185/discord-cache/internal/errs"
	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/model"
)

// addMember stores a full member and replaces its role assignments. Every role must be
// cached before anything is written.
func (s *Synchronizer) addMember(ctx context.Context, guildID snowflake.ID, m discord.Member) error {
	if m.User.ID == 0 {
		return fmt.Errorf("member without user: %w", errs.ErrMalformedState)
	}
	if err := s.checkRoles(ctx, guildID, m.RoleIDs); err != nil {
		return err
	}
	row := convert.Member(guildID, m)
	if err := s.replaceRoles(ctx, row.Key(), m.RoleIDs); err != nil {
		return err
	}
	if err := s.b.Members.Upsert(ctx, row); err != nil {
		return errs.Backend("upsert member", err)
	}
	return nil
}

func (s *Synchronizer) memberUpdate(ctx context.Context, e event.GuildMemberUpdate) error {
	key := model.MemberKey{GuildID: e.GuildID, UserID: e.User.ID}
	cached, err := s.b.Members.Get(ctx, key)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Debug("member update for uncached member", zap.Stringer("member", key))
		return nil
	}
	if err != nil {
		return errs.Backend("get member", err)
	}
	roles, replaceRoles := e.Roles.Get()
	if replaceRoles {
		if err := s.checkRoles(ctx, e.GuildID, roles); err != nil {
			return err
		}
		if err := s.replaceRoles(ctx, key, roles); err != nil {
			return err
		}
	}
	if err := s.b.Members.Upsert(ctx, convert.MergeMember(*cached, e)); err != nil {
		return errs.Backend("upsert member", err)
	}
	return nil
}

func (s *Synchronizer) memberRemove(ctx context.Context, e gateway.EventGuildMemberRemove) error {
	key := model.MemberKey{GuildID: e.GuildID, UserID: e.User.ID}
	if err := s.b.MemberRoles.DeleteByMember(ctx, key); err != nil {
		return errs.Backend("delete member roles", err)
	}
	if err := s.b.Members.Delete(ctx, key); err != nil {
		return errs.Backend("delete member", err)
	}
	return nil
}

func (s *Synchronizer) membersChunk(ctx context.Context, e gateway.EventGuildMembersChunk) error {
	for _, m := range e.Members {
		if err := s.addMember(ctx, e.GuildID, m); err != nil {
			return err
		}
	}
	for _, p := range e.Presences {
		p.GuildID = e.GuildID
		if err := s.replacePresence(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

// checkRoles fails with errs.ErrMemberRoleMissing unless every id is a cached role of
// the guild.
func (s *Synchronizer) checkRoles(ctx context.Context, guildID snowflake.ID, ids []snowflake.ID) error {
	for _, id := range ids {
		role, err := s.b.Roles.Get(ctx, id)
		if errors.Is(err, errs.ErrNotFound) || (err == nil && role.GuildID != guildID) {
			return fmt.Errorf("role %d: %w", id, errs.ErrMemberRoleMissing)
		}
		if err != nil {
			return errs.Backend("get role", err)
		}
	}
	return nil
}

func (s *Synchronizer) replaceRoles(ctx context.Context, member model.MemberKey, ids []snowflake.ID) error {
	if err := s.b.MemberRoles.DeleteByMember(ctx, member); err != nil {
		return errs.Backend("delete member roles", err)
	}
	for _, id := range ids {
		mr := model.MemberRole{GuildID: member.GuildID, UserID: member.UserID, RoleID: id}
		if err := s.b.MemberRoles.Upsert(ctx, mr); err != nil {
			return errs.Backend("upsert member role", err)
		}
	}
	return nil
}

// replacePresence stores p and replaces its activity list.
func (s *Synchronizer) replacePresence(ctx context.Context, p discord.Presence) error {
	row := convert.Presence(p)
	if err := s.b.Presences.Upsert(ctx, row); err != nil {
		return errs.Backend("upsert presence", err)
	}
	if err := s.b.Activities.DeleteByParent(ctx, row.Key()); err != nil {
		return errs.Backend("delete activities", err)
	}
	for _, a := range convert.Activities(p) {
		if err := s.b.Activities.Upsert(ctx, a); err != nil {
			return errs.Backend("upsert activity", err)
		}
	}
	return nil
}
