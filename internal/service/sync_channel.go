package service

import (
	"context"
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

func (s *Synchronizer) ready(ctx context.Context, e event.Ready) error {
	s.session.SetCurrentUser(convert.CurrentUser(e.User))
	for _, c := range e.PrivateChannels {
		if err := s.addChannel(ctx, c, nil); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) userUpdate(_ context.Context, e gateway.EventUserUpdate) error {
	cur, err := s.session.CurrentUser()
	if err != nil {
		return err
	}
	if cur.ID != e.ID {
		s.log.Debug("user update for another user", zap.Uint64("user", uint64(e.ID)))
		return nil
	}
	s.session.SetCurrentUser(convert.CurrentUser(e.OAuth2User))
	return nil
}

// addChannel stores c with its overwrites; guildID overrides the payload's guild.
func (s *Synchronizer) addChannel(ctx context.Context, c event.Channel, guildID *snowflake.ID) error {
	row := convert.Channel(c, guildID)
	if row.IsPrivate() {
		recipient, err := s.recipient(c)
		if err != nil {
			return err
		}
		pc := model.PrivateChannel{ChannelID: c.ID(), RecipientID: recipient}
		if err := s.b.PrivateChannels.Upsert(ctx, pc); err != nil {
			return errs.Backend("upsert private channel", err)
		}
	}
	if err := s.b.PermissionOverwrites.DeleteByParent(ctx, c.ID()); err != nil {
		return errs.Backend("delete permission overwrites", err)
	}
	for _, ow := range convert.Overwrites(c.Channel) {
		if err := s.b.PermissionOverwrites.Upsert(ctx, ow); err != nil {
			return errs.Backend("upsert permission overwrite", err)
		}
	}
	if err := s.b.Channels.Upsert(ctx, row); err != nil {
		return errs.Backend("upsert channel", err)
	}
	return nil
}

// recipient picks the other side of a direct message channel.
func (s *Synchronizer) recipient(c event.Channel) (snowflake.ID, error) {
	cur, err := s.session.CurrentUser()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", errs.ErrPrivateChannelMissingRecipient, err)
	}
	for _, r := range c.Recipients {
		if r.ID != cur.ID {
			return r.ID, nil
		}
	}
	return 0, errs.ErrPrivateChannelMissingRecipient
}

func (s *Synchronizer) channelDelete(ctx context.Context, c event.Channel) error {
	var recipients []discord.User
	if c.Type() == discord.ChannelTypeDM {
		recipients = c.Recipients
	}
	return s.removeChannel(ctx, c.ID(), recipients)
}

// removeChannel drops the channel, its overwrites and the private channel rows of the
// given recipients. Every recipient is tried, so the current user need not be known.
func (s *Synchronizer) removeChannel(ctx context.Context, id snowflake.ID, recipients []discord.User) error {
	for _, r := range recipients {
		key := model.PrivateChannelKey{ChannelID: id, RecipientID: r.ID}
		if err := s.b.PrivateChannels.Delete(ctx, key); err != nil {
			return errs.Backend("delete private channel", err)
		}
	}
	if err := s.b.PermissionOverwrites.DeleteByParent(ctx, id); err != nil {
		return errs.Backend("delete permission overwrites", err)
	}
	if err := s.b.Channels.Delete(ctx, id); err != nil {
		return errs.Backend("delete channel", err)
	}
	return nil
}

func (s *Synchronizer) threadListSync(ctx context.Context, e gateway.EventThreadListSync) error {
	guildID := e.GuildID
	for _, t := range e.Threads {
		if err := s.addChannel(ctx, event.Channel{Channel: t}, &guildID); err != nil {
			return err
		}
	}
	return nil
}
