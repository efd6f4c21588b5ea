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

// messageCreate replaces the message and everything it owns. Message payloads carry
// reaction counts, not reactors, so only the current user's own reactions are stored,
// and none while the session has no current user yet.
func (s *Synchronizer) messageCreate(ctx context.Context, e gateway.EventMessageCreate) error {
	m := e.Message
	var reactions []model.Reaction
	if cur, err := s.session.CurrentUser(); err == nil {
		reactions = convert.OwnReactions(m, cur.ID)
	} else if len(m.Reactions) > 0 {
		s.log.Debug("own reactions skipped", zap.Uint64("message", uint64(m.ID)), zap.Error(err))
	}

	if err := s.removeMessageChildren(ctx, m.ID); err != nil {
		return err
	}
	if err := s.insertAttachments(ctx, m.ID, m.Attachments); err != nil {
		return err
	}
	for _, r := range reactions {
		if err := s.b.Reactions.Upsert(ctx, r); err != nil {
			return errs.Backend("upsert reaction", err)
		}
	}
	if err := s.insertStickers(ctx, m.ID, m.StickerItems); err != nil {
		return err
	}
	if err := s.insertEmbeds(ctx, m.ID, m.Embeds); err != nil {
		return err
	}
	if err := s.b.Messages.Upsert(ctx, convert.Message(m)); err != nil {
		return errs.Backend("upsert message", err)
	}
	return nil
}

func (s *Synchronizer) messageUpdate(ctx context.Context, e event.MessageUpdate) error {
	cached, err := s.b.Messages.Get(ctx, e.ID)
	if errors.Is(err, errs.ErrNotFound) {
		s.log.Debug("message update for uncached message", zap.Uint64("message", uint64(e.ID)))
		return nil
	}
	if err != nil {
		return errs.Backend("get message", err)
	}
	if attachments, ok := e.Attachments.Get(); ok {
		if err := s.b.Attachments.DeleteByParent(ctx, e.ID); err != nil {
			return errs.Backend("delete attachments", err)
		}
		if err := s.insertAttachments(ctx, e.ID, attachments); err != nil {
			return err
		}
	}
	if embeds, ok := e.Embeds.Get(); ok {
		if err := s.removeEmbeds(ctx, e.ID); err != nil {
			return err
		}
		if err := s.insertEmbeds(ctx, e.ID, embeds); err != nil {
			return err
		}
	}
	if items, ok := e.StickerItems.Get(); ok {
		if err := s.b.MessageStickers.DeleteByParent(ctx, e.ID); err != nil {
			return errs.Backend("delete message stickers", err)
		}
		if err := s.insertStickers(ctx, e.ID, items); err != nil {
			return err
		}
	}
	if err := s.b.Messages.Upsert(ctx, convert.MergeMessage(*cached, e)); err != nil {
		return errs.Backend("upsert message", err)
	}
	return nil
}

func (s *Synchronizer) messageDeleteBulk(ctx context.Context, e event.MessageDeleteBulk) error {
	for _, id := range e.IDs {
		if err := s.removeMessage(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (s *Synchronizer) removeMessage(ctx context.Context, id snowflake.ID) error {
	if err := s.removeMessageChildren(ctx, id); err != nil {
		return err
	}
	if err := s.b.Messages.Delete(ctx, id); err != nil {
		return errs.Backend("delete message", err)
	}
	return nil
}

func (s *Synchronizer) removeMessageChildren(ctx context.Context, id snowflake.ID) error {
	if err := s.removeEmbeds(ctx, id); err != nil {
		return err
	}
	if err := s.b.Attachments.DeleteByParent(ctx, id); err != nil {
		return errs.Backend("delete attachments", err)
	}
	if err := s.b.Reactions.DeleteByParent(ctx, id); err != nil {
		return errs.Backend("delete reactions", err)
	}
	if err := s.b.MessageStickers.DeleteByParent(ctx, id); err != nil {
		return errs.Backend("delete message stickers", err)
	}
	return nil
}

func (s *Synchronizer) removeEmbeds(ctx context.Context, messageID snowflake.ID) error {
	embeds, err := s.b.Embeds.ListByParent(ctx, messageID)
	if err != nil {
		return errs.Backend("list embeds", err)
	}
	for _, em := range embeds {
		if err := s.b.EmbedFields.DeleteByParent(ctx, em.ID); err != nil {
			return errs.Backend("delete embed fields", err)
		}
	}
	if err := s.b.Embeds.DeleteByParent(ctx, messageID); err != nil {
		return errs.Backend("delete embeds", err)
	}
	return nil
}

func (s *Synchronizer) insertEmbeds(ctx context.Context, messageID snowflake.ID, embeds []discord.Embed) error {
	for i, em := range embeds {
		id := EmbedID(messageID, i)
		if err := s.b.Embeds.Upsert(ctx, convert.Embed(id, messageID, i, em)); err != nil {
			return errs.Backend("upsert embed", err)
		}
		for _, f := range convert.EmbedFields(id, em.Fields) {
			if err := s.b.EmbedFields.Upsert(ctx, f); err != nil {
				return errs.Backend("upsert embed field", err)
			}
		}
	}
	return nil
}

func (s *Synchronizer) insertAttachments(ctx context.Context, messageID snowflake.ID, attachments []discord.Attachment) error {
	for _, a := range attachments {
		if err := s.b.Attachments.Upsert(ctx, convert.Attachment(messageID, a)); err != nil {
			return errs.Backend("upsert attachment", err)
		}
	}
	return nil
}

func (s *Synchronizer) insertStickers(ctx context.Context, messageID snowflake.ID, items []discord.MessageSticker) error {
	for _, it := range items {
		if err := s.b.MessageStickers.Upsert(ctx, convert.MessageSticker(messageID, it)); err != nil {
			return errs.Backend("upsert message sticker", err)
		}
	}
	return nil
}

func (s *Synchronizer) reactionAdd(ctx context.Context, e gateway.EventMessageReactionAdd) error {
	if err := s.b.Reactions.Upsert(ctx, convert.Reaction(e)); err != nil {
		return errs.Backend("upsert reaction", err)
	}
	return nil
}

func (s *Synchronizer) reactionRemove(ctx context.Context, e gateway.EventMessageReactionRemove) error {
	key := model.ReactionKey{MessageID: e.MessageID, UserID: e.UserID, Emoji: convert.EmojiKey(e.Emoji)}
	if err := s.b.Reactions.Delete(ctx, key); err != nil {
		return errs.Backend("delete reaction", err)
	}
	return nil
}

func (s *Synchronizer) reactionRemoveAll(ctx context.Context, e gateway.EventMessageReactionRemoveAll) error {
	if err := s.b.Reactions.DeleteByParent(ctx, e.MessageID); err != nil {
		return errs.Backend("delete reactions", err)
	}
	return nil
}

func (s *Synchronizer) reactionRemoveEmoji(ctx context.Context, e gateway.EventMessageReactionRemoveEmoji) error {
	reactions, err := s.b.Reactions.ListByParent(ctx, e.MessageID)
	if err != nil {
		return errs.Backend("list reactions", err)
	}
	emoji := convert.EmojiKey(e.Emoji)
	for _, r := range reactions {
		if r.Emoji != emoji {
			continue
		}
		if err := s.b.Reactions.Delete(ctx, r.Key()); err != nil {
			return errs.Backend("delete reaction", err)
		}
	}
	return nil
}
