// Package convert maps gateway payloads onto cached rows. Converters are pure field
// copies: validation and id minting happen in the service layer.
package convert

import (
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/snowflake/v2"
	"github.com/gofrs/uuid/v5"

	"github.com/and161185/discord-cache/internal/event"
	"github.com/and161185/discord-cache/internal/model"
)

// --- users ---

// CurrentUser maps the READY user.
func CurrentUser(u discord.OAuth2User) model.CurrentUser {
	return model.CurrentUser{
		ID:            u.ID,
		Username:      u.Username,
		GlobalName:    u.GlobalName,
		Discriminator: u.Discriminator,
		Avatar:        u.Avatar,
		Banner:        u.Banner,
		AccentColor:   u.AccentColor,
		Bot:           u.Bot,
		System:        u.System,
		MFAEnabled:    u.MfaEnabled,
		Verified:      u.Verified,
		Locale:        nonEmpty(u.Locale),
		Email:         nonEmpty(u.Email),
		Flags:         int(u.Flags),
		PremiumType:   int(u.PremiumType),
		PublicFlags:   int(u.PublicFlags),
	}
}

// --- guilds ---

// Guild maps a guild payload. Create-only fields are copied as sent.
func Guild(g discord.GatewayGuild) model.Guild {
	out := model.Guild{
		ID:                          g.ID,
		Name:                        g.Name,
		Icon:                        g.Icon,
		Splash:                      g.Splash,
		DiscoverySplash:             g.DiscoverySplash,
		Banner:                      g.Banner,
		Description:                 g.Description,
		OwnerID:                     g.OwnerID,
		AFKChannelID:                g.AfkChannelID,
		AFKTimeout:                  g.AfkTimeout,
		WidgetEnabled:               g.WidgetEnabled,
		WidgetChannelID:             nonZero(g.WidgetChannelID),
		VerificationLevel:           int(g.VerificationLevel),
		DefaultMessageNotifications: int(g.DefaultMessageNotifications),
		ExplicitContentFilter:       int(g.ExplicitContentFilter),
		MFALevel:                    int(g.MFALevel),
		ApplicationID:               g.ApplicationID,
		SystemChannelID:             g.SystemChannelID,
		SystemChannelFlags:          int(g.SystemChannelFlags),
		RulesChannelID:              g.RulesChannelID,
		PublicUpdatesChannelID:      g.PublicUpdatesChannelID,
		SafetyAlertsChannelID:       g.SafetyAlertsChannelID,
		MaxPresences:                g.MaxPresences,
		MaxMembers:                  g.MaxMembers,
		MaxVideoChannelUsers:        g.MaxVideoChannelUsers,
		VanityURLCode:               g.VanityURLCode,
		PremiumTier:                 int(g.PremiumTier),
		PremiumSubscriptionCount:    g.PremiumSubscriptionCount,
		PremiumProgressBarEnabled:   g.PremiumProgressBarEnabled,
		PreferredLocale:             g.PreferredLocale,
		NSFWLevel:                   int(g.NSFWLevel),
		JoinedAt:                    timePtr(g.JoinedAt),
		Large:                       g.Large,
		Unavailable:                 g.Unavailable,
		MemberCount:                 g.MemberCount,
	}
	for _, f := range g.Features {
		out.Features = append(out.Features, string(f))
	}
	return out
}

// MergeGuild applies a GUILD_UPDATE payload to the cached row, keeping the fields only
// GUILD_CREATE carries.
func MergeGuild(cached model.Guild, g discord.GatewayGuild) model.Guild {
	out := Guild(g)
	out.JoinedAt = cached.JoinedAt
	out.Large = cached.Large
	out.Unavailable = cached.Unavailable
	out.MemberCount = cached.MemberCount
	return out
}

// Role maps a role definition.
func Role(guildID snowflake.ID, r discord.Role) model.Role {
	out := model.Role{
		ID:           r.ID,
		GuildID:      guildID,
		Name:         r.Name,
		Color:        r.Color,
		Hoist:        r.Hoist,
		Icon:         r.Icon,
		UnicodeEmoji: r.Emoji,
		Position:     r.Position,
		Permissions:  r.Permissions,
		Managed:      r.Managed,
		Mentionable:  r.Mentionable,
		Flags:        int(r.Flags),
	}
	if t := r.Tags; t != nil {
		out.Tags = &model.RoleTags{
			BotID:                 t.BotID,
			IntegrationID:         t.IntegrationID,
			SubscriptionListingID: t.SubscriptionListingID,
			PremiumSubscriber:     t.PremiumSubscriber,
			AvailableForPurchase:  t.AvailableForPurchase,
			GuildConnections:      t.GuildConnections,
		}
	}
	return out
}

// Emoji maps a custom emoji.
func Emoji(guildID snowflake.ID, e discord.Emoji) model.Emoji {
	out := model.Emoji{
		ID:            e.ID,
		GuildID:       guildID,
		Name:          e.Name,
		RoleIDs:       e.Roles,
		RequireColons: e.RequireColons,
		Managed:       e.Managed,
		Animated:      e.Animated,
		Available:     e.Available,
	}
	if e.Creator != nil {
		out.CreatorID = &e.Creator.ID
	}
	return out
}

// Sticker maps a guild sticker.
func Sticker(guildID snowflake.ID, s discord.Sticker) model.Sticker {
	out := model.Sticker{
		ID:          s.ID,
		GuildID:     guildID,
		PackID:      s.PackID,
		Name:        s.Name,
		Description: nonEmpty(s.Description),
		Tags:        s.Tags,
		Type:        int(s.Type),
		FormatType:  s.FormatType,
		Available:   s.Available != nil && *s.Available,
		SortValue:   s.SortValue,
	}
	if s.User != nil {
		out.CreatorID = &s.User.ID
	}
	return out
}

// StageInstance maps a stage instance.
func StageInstance(s discord.StageInstance) model.StageInstance {
	return model.StageInstance{
		ID:           s.ID,
		GuildID:      s.GuildID,
		ChannelID:    s.ChannelID,
		Topic:        s.Topic,
		PrivacyLevel: int(s.PrivacyLevel),
	}
}

// AutoModerationRule maps an auto moderation rule.
func AutoModerationRule(r discord.AutoModerationRule) model.AutoModerationRule {
	return model.AutoModerationRule{
		ID:              r.ID,
		GuildID:         r.GuildID,
		Name:            r.Name,
		CreatorID:       r.CreatorID,
		EventType:       int(r.EventType),
		TriggerType:     int(r.TriggerType),
		TriggerMetadata: r.TriggerMetadata,
		Actions:         r.Actions,
		Enabled:         r.Enabled,
		ExemptRoles:     r.ExemptRoles,
		ExemptChannels:  r.ExemptChannels,
	}
}

// --- channels ---

// Channel maps a channel or thread. guildID fills in the guild for channels nested in a
// GUILD_CREATE or THREAD_LIST_SYNC, which omit it; pass nil to keep the payload's value.
func Channel(c event.Channel, guildID *snowflake.ID) model.Channel {
	out := model.Channel{ID: c.ID(), Type: c.Type()}
	// a direct message channel names itself after its first recipient, which may be absent
	if c.Type() != discord.ChannelTypeDM {
		out.Name = c.Name()
	}
	if gc, ok := c.Channel.(discord.GuildChannel); ok {
		out.GuildID = nonZero(gc.GuildID())
		out.Position = gc.Position()
		out.ParentID = gc.ParentID()
	}
	if mc, ok := c.Channel.(discord.GuildMessageChannel); ok {
		out.Topic = mc.Topic()
		out.NSFW = mc.NSFW()
		out.RateLimitPerUser = mc.RateLimitPerUser()
		out.DefaultAutoArchiveDuration = int(mc.DefaultAutoArchiveDuration())
	}
	if ac, ok := c.Channel.(discord.GuildAudioChannel); ok {
		out.Bitrate = ac.Bitrate()
		out.RTCRegion = nonEmpty(ac.RTCRegion())
	}
	switch ch := c.Channel.(type) {
	case discord.GuildVoiceChannel:
		out.UserLimit = ch.UserLimit
		out.VideoQualityMode = int(ch.VideoQualityMode)
	case discord.GuildStageVoiceChannel:
		out.VideoQualityMode = int(ch.VideoQualityMode)
	case discord.GuildForumChannel:
		out.Topic, out.NSFW, out.RateLimitPerUser, out.Flags = ch.Topic, ch.NSFW, ch.RateLimitPerUser, int(ch.Flags)
	case discord.GuildMediaChannel:
		out.Topic, out.NSFW, out.RateLimitPerUser, out.Flags = ch.Topic, ch.NSFW, ch.RateLimitPerUser, int(ch.Flags)
	case discord.GroupDMChannel:
		out.OwnerID = ch.OwnerID()
	case discord.GuildThread:
		out.OwnerID = nonZero(ch.OwnerID)
		m := ch.ThreadMetadata
		out.Thread = &model.ThreadMetadata{
			Archived:            m.Archived,
			AutoArchiveDuration: int(m.AutoArchiveDuration),
			ArchiveTimestamp:    m.ArchiveTimestamp,
			Locked:              m.Locked,
			Invitable:           m.Invitable,
			CreateTimestamp:     timePtr(m.CreateTimestamp),
		}
	}
	if guildID != nil {
		out.GuildID = guildID
	}
	for _, r := range c.Recipients {
		out.RecipientIDs = append(out.RecipientIDs, r.ID)
	}
	return out
}

// Overwrites maps the permission overwrites of a guild channel. Other channels have none.
func Overwrites(c discord.Channel) []model.PermissionOverwrite {
	gc, ok := c.(discord.GuildChannel)
	if !ok {
		return nil
	}
	var out []model.PermissionOverwrite
	for _, o := range gc.PermissionOverwrites() {
		row := model.PermissionOverwrite{ChannelID: c.ID(), ID: o.ID(), Type: o.Type()}
		switch o := o.(type) {
		case discord.RolePermissionOverwrite:
			row.Allow, row.Deny = o.Allow, o.Deny
		case discord.MemberPermissionOverwrite:
			row.Allow, row.Deny = o.Allow, o.Deny
		}
		out = append(out, row)
	}
	return out
}

// --- members ---

// Member maps a guild member. The user fields stay empty when the payload has no user.
func Member(guildID snowflake.ID, m discord.Member) model.Member {
	out := model.Member{
		GuildID:      guildID,
		Nick:         m.Nick,
		Avatar:       m.Avatar,
		JoinedAt:     m.JoinedAt,
		PremiumSince: m.PremiumSince,
		Deaf:         m.Deaf,
		Mute:         m.Mute,
		Pending:      m.Pending,
		Flags:        int(m.Flags),
	}
	if until := m.CommunicationDisabledUntil; until != nil {
		s := until.Format(time.RFC3339Nano)
		out.CommunicationDisabledUntil = &s
	}
	if m.User.ID != 0 {
		setUser(&out, m.User)
	}
	return out
}

// MergeMember applies the fields present in a partial update to the cached row.
func MergeMember(cached model.Member, u event.GuildMemberUpdate) model.Member {
	out := cached
	setUser(&out, u.User)
	u.Nick.Apply(&out.Nick)
	u.Avatar.Apply(&out.Avatar)
	if joined, ok := u.JoinedAt.Get(); ok && joined != nil {
		out.JoinedAt = *joined
	}
	u.PremiumSince.Apply(&out.PremiumSince)
	u.Deaf.Apply(&out.Deaf)
	u.Mute.Apply(&out.Mute)
	u.Pending.Apply(&out.Pending)
	u.Flags.Apply(&out.Flags)
	u.CommunicationDisabledUntil.Apply(&out.CommunicationDisabledUntil)
	return out
}

func setUser(m *model.Member, u discord.User) {
	m.UserID = u.ID
	m.Username = u.Username
	m.GlobalName = u.GlobalName
	m.Discriminator = u.Discriminator
	m.UserAvatar = u.Avatar
	m.Bot = u.Bot
	m.System = u.System
	m.PublicFlags = int(u.PublicFlags)
}

// Presence maps a presence without its activities.
func Presence(p discord.Presence) model.Presence {
	return model.Presence{
		GuildID:       p.GuildID,
		UserID:        p.PresenceUser.ID,
		Status:        p.Status,
		DesktopStatus: string(p.ClientStatus.Desktop),
		MobileStatus:  string(p.ClientStatus.Mobile),
		WebStatus:     string(p.ClientStatus.Web),
	}
}

// Activities maps the activity list of p, numbering positions from zero.
func Activities(p discord.Presence) []model.Activity {
	out := make([]model.Activity, 0, len(p.Activities))
	for i, a := range p.Activities {
		row := model.Activity{
			GuildID:       p.GuildID,
			UserID:        p.PresenceUser.ID,
			Position:      i,
			Name:          a.Name,
			Type:          a.Type,
			URL:           a.URL,
			CreatedAt:     a.CreatedAt.UnixMilli(),
			ApplicationID: nonZero(a.ApplicationID),
			Details:       a.Details,
			State:         a.State,
			Instance:      a.Instance != nil && *a.Instance,
			Flags:         int(a.Flags),
		}
		if ts := a.Timestamps; ts != nil {
			row.StartTimestamp, row.EndTimestamp = millis(ts.Start), millis(ts.End)
		}
		if e := a.Emoji; e != nil {
			row.EmojiName, row.EmojiID, row.EmojiAnimated = e.Name, e.ID, e.Animated
		}
		if party := a.Party; party != nil {
			row.PartyID = nonEmpty(party.ID)
			if party.Size != [2]int{} {
				row.PartySize = []int{party.Size[0], party.Size[1]}
			}
		}
		if as := a.Assets; as != nil {
			row.LargeImage, row.LargeText = nonEmpty(as.LargeImage), nonEmpty(as.LargeText)
			row.SmallImage, row.SmallText = nonEmpty(as.SmallImage), nonEmpty(as.SmallText)
		}
		out = append(out, row)
	}
	return out
}

// --- messages ---

// Message maps a message without its owned collections.
func Message(m discord.Message) model.Message {
	out := model.Message{
		ID:              m.ID,
		ChannelID:       m.ChannelID,
		GuildID:         m.GuildID,
		AuthorID:        m.Author.ID,
		Content:         m.Content,
		Timestamp:       m.CreatedAt,
		EditedTimestamp: m.EditedTimestamp,
		TTS:             m.TTS,
		MentionEveryone: m.MentionEveryone,
		MentionIDs:      userIDs(m.Mentions),
		MentionRoleIDs:  m.MentionRoles,
		Pinned:          m.Pinned,
		WebhookID:       m.WebhookID,
		Type:            m.Type,
		ApplicationID:   m.ApplicationID,
		Flags:           m.Flags,
	}
	if ref := m.MessageReference; ref != nil {
		out.ReferencedMessageID = ref.MessageID
	}
	if m.Thread != nil {
		id := m.Thread.ID()
		out.ThreadID = &id
	}
	if act := m.Activity; act != nil {
		typ := int(act.Type)
		out.ActivityType, out.ActivityPartyID = &typ, act.PartyID
	}
	return out
}

// MergeMessage applies the scalar fields present in a partial update.
func MergeMessage(cached model.Message, u event.MessageUpdate) model.Message {
	out := cached
	u.Content.Apply(&out.Content)
	u.EditedTimestamp.Apply(&out.EditedTimestamp)
	u.TTS.Apply(&out.TTS)
	u.MentionEveryone.Apply(&out.MentionEveryone)
	if mentions, ok := u.Mentions.Get(); ok {
		out.MentionIDs = userIDs(mentions)
	}
	u.MentionRoles.Apply(&out.MentionRoleIDs)
	u.Pinned.Apply(&out.Pinned)
	u.Flags.Apply(&out.Flags)
	return out
}

func userIDs(users []discord.User) []snowflake.ID {
	if len(users) == 0 {
		return nil
	}
	out := make([]snowflake.ID, len(users))
	for i, u := range users {
		out[i] = u.ID
	}
	return out
}

// Attachment maps an attachment of messageID.
func Attachment(messageID snowflake.ID, a discord.Attachment) model.Attachment {
	return model.Attachment{
		ID:          a.ID,
		MessageID:   messageID,
		Filename:    a.Filename,
		Description: a.Description,
		ContentType: a.ContentType,
		Size:        a.Size,
		URL:         a.URL,
		ProxyURL:    a.ProxyURL,
		Height:      a.Height,
		Width:       a.Width,
		Ephemeral:   a.Ephemeral,
	}
}

// MessageSticker maps a sticker item attached to messageID.
func MessageSticker(messageID snowflake.ID, s discord.MessageSticker) model.Sticker {
	return model.Sticker{
		ID:         s.ID,
		MessageID:  messageID,
		Name:       s.Name,
		FormatType: s.FormatType,
	}
}

// Embed maps an embed without its fields.
func Embed(id uuid.UUID, messageID snowflake.ID, position int, e discord.Embed) model.Embed {
	out := model.Embed{
		ID:          id,
		MessageID:   messageID,
		Position:    position,
		Type:        string(e.Type),
		Title:       e.Title,
		Description: e.Description,
		URL:         e.URL,
		Timestamp:   e.Timestamp,
	}
	if e.Color != 0 {
		color := e.Color
		out.Color = &color
	}
	if f := e.Footer; f != nil {
		out.FooterText, out.FooterIconURL, out.FooterProxyIconURL = f.Text, f.IconURL, f.ProxyIconURL
	}
	if m := e.Image; m != nil {
		out.ImageURL, out.ImageProxyURL, out.ImageHeight, out.ImageWidth = m.URL, m.ProxyURL, m.Height, m.Width
	}
	if m := e.Thumbnail; m != nil {
		out.ThumbnailURL, out.ThumbnailProxyURL, out.ThumbnailHeight, out.ThumbnailWidth = m.URL, m.ProxyURL, m.Height, m.Width
	}
	if m := e.Video; m != nil {
		out.VideoURL, out.VideoProxyURL, out.VideoHeight, out.VideoWidth = m.URL, m.ProxyURL, m.Height, m.Width
	}
	if p := e.Provider; p != nil {
		out.ProviderName, out.ProviderURL = p.Name, p.URL
	}
	if a := e.Author; a != nil {
		out.AuthorName, out.AuthorURL, out.AuthorIconURL, out.AuthorProxyIconURL = a.Name, a.URL, a.IconURL, a.ProxyIconURL
	}
	return out
}

// EmbedFields maps the fields of embedID in order.
func EmbedFields(embedID uuid.UUID, fields []discord.EmbedField) []model.EmbedField {
	out := make([]model.EmbedField, len(fields))
	for i, f := range fields {
		out[i] = model.EmbedField{
			EmbedID: embedID, Position: i, Name: f.Name, Value: f.Value, Inline: f.Inline != nil && *f.Inline,
		}
	}
	return out
}

// Reaction maps a reaction add.
func Reaction(r gateway.EventMessageReactionAdd) model.Reaction {
	return model.Reaction{
		MessageID: r.MessageID,
		UserID:    r.UserID,
		Emoji:     EmojiKey(r.Emoji),
		ChannelID: r.ChannelID,
		GuildID:   r.GuildID,
		Burst:     r.Burst,
	}
}

// OwnReactions maps the reactions of m that userID made. Message payloads carry counts,
// not reactors, so only the "me" flag identifies a reactor.
func OwnReactions(m discord.Message, userID snowflake.ID) []model.Reaction {
	var out []model.Reaction
	for _, rc := range m.Reactions {
		if !rc.Me {
			continue
		}
		out = append(out, model.Reaction{
			MessageID: m.ID,
			UserID:    userID,
			Emoji:     emojiKey(rc.Emoji.ID, rc.Emoji.Name),
			ChannelID: m.ChannelID,
			GuildID:   m.GuildID,
		})
	}
	return out
}

// EmojiKey is the custom emoji id in decimal, or the unicode emoji itself.
func EmojiKey(e discord.PartialEmoji) string {
	var id snowflake.ID
	if e.ID != nil {
		id = *e.ID
	}
	var name string
	if e.Name != nil {
		name = *e.Name
	}
	return emojiKey(id, name)
}

func emojiKey(id snowflake.ID, name string) string {
	if id != 0 {
		return id.String()
	}
	return name
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonZero(id snowflake.ID) *snowflake.ID {
	if id == 0 {
		return nil
	}
	return &id
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

// millis drops activity timestamps the payload left out, which decode as the epoch.
func millis(t time.Time) *int64 {
	if t.IsZero() || t.UnixMilli() == 0 {
		return nil
	}
	ms := t.UnixMilli()
	return &ms
}
