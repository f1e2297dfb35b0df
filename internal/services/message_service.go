// Package services – MessageService
//
// This file implements the message pipeline: sending, read receipts,
// reactions, per-user and global deletion, edits, and listing.
//
// Send applies its effects in sequence: insert the message, point the
// conversation at it, then increment every other participant's unread
// counter. Only the insert is load-bearing. If a later step fails the message
// is still returned (content durability wins) and the recount job repairs the
// counters; the failure is logged and counted.
//
// Access rules: a caller who is not a participant gets the same NotFound as a
// caller asking for something that does not exist.
//
// Observability: all public methods are OpenTelemetry-instrumented; spans
// include conversation/message/user identifiers where applicable.
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/observability"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const (
	// DefaultMaxMessageRunes caps message content when no limit is configured.
	DefaultMaxMessageRunes = 1000

	// MaxAttachments is the largest number of media items per message.
	MaxAttachments = 4

	maxEmojiRunes = 16
)

// Delete scopes.
const (
	DeleteForSelf     = "self"
	DeleteForEveryone = "everyone"
)

var mediaTypes = map[string]struct{}{
	domain.MessageTypeImage: {},
	domain.MessageTypeVideo: {},
	domain.MessageTypeGIF:   {},
	domain.MessageTypeFile:  {},
}

// SendInput is the payload of a new message. At least one of Content, Media
// or SharedTweetID must be set.
type SendInput struct {
	Content       string
	Media         []domain.MediaAttachment
	SharedTweetID *string
	ReplyToID     *string
}

// ReactionResult is the outcome of a reaction toggle.
type ReactionResult struct {
	Action    string                   `json:"action"`
	Reactions []domain.MessageReaction `json:"reactions"`
}

// MessageService coordinates message persistence and realtime intents.
type MessageService struct {
	DB      *gorm.DB
	Emitter realtime.Emitter

	// MaxContentRunes caps content length; zero means DefaultMaxMessageRunes.
	MaxContentRunes int

	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NewMessageService constructs a MessageService.
func NewMessageService(db *gorm.DB, em realtime.Emitter, maxRunes int) *MessageService {
	if em == nil {
		em = realtime.Nop{}
	}
	return &MessageService{DB: db, Emitter: em, MaxContentRunes: maxRunes}
}

func (s *MessageService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *MessageService) maxRunes() int {
	if s.MaxContentRunes > 0 {
		return s.MaxContentRunes
	}
	return DefaultMaxMessageRunes
}

// Send validates the payload, persists the message, updates the conversation
// and unread counters, and emits new-message to every other participant.
func (s *MessageService) Send(ctx context.Context, conversationID, senderID string, in SendInput) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Send",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", senderID),
			attribute.Int("media.count", len(in.Media)),
		),
	)
	defer span.End()

	content := strings.TrimSpace(in.Content)
	shared := trimOptional(in.SharedTweetID)
	replyTo := trimOptional(in.ReplyToID)

	if content == "" && len(in.Media) == 0 && shared == nil {
		return nil, ErrInvalidMessage
	}
	if utf8.RuneCountInString(content) > s.maxRunes() {
		return nil, ErrContentTooLong
	}
	media, err := normalizeMedia(in.Media)
	if err != nil {
		return nil, err
	}

	if _, err := repo.GetParticipant(ctx, s.DB, conversationID, senderID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}

	if replyTo != nil {
		parent, err := repo.GetMessage(ctx, s.DB, *replyTo)
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			return nil, err
		}
		if parent == nil || parent.ConversationID != conversationID {
			return nil, ErrInvalidReplyTarget
		}
	}
	if shared != nil {
		if _, err := repo.GetTweet(ctx, s.DB, *shared); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrTweetNotFound
			}
			return nil, err
		}
	}

	msgType := domain.MessageTypeText
	switch {
	case shared != nil:
		msgType = domain.MessageTypeTweetShare
	case len(media) > 0:
		msgType = media[0].Type
	}

	now := s.now()
	m := &domain.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        content,
		MessageType:    msgType,
		Media:          media,
		SharedTweetID:  shared,
		ReplyToID:      replyTo,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := repo.CreateMessage(ctx, s.DB, m); err != nil {
		return nil, err
	}
	observability.MessagesSent.WithLabelValues(msgType).Inc()
	span.SetAttributes(attribute.String("message.id", m.ID))

	lg := zerolog.Ctx(ctx)
	if err := repo.TouchConversation(ctx, s.DB, conversationID, m.ID, now); err != nil {
		observability.SendSideEffectFailures.WithLabelValues("touch").Inc()
		lg.Error().Err(err).Str("conversation_id", conversationID).Str("message_id", m.ID).
			Msg("send: update conversation pointer failed")
	}
	if _, err := repo.IncrementUnread(ctx, s.DB, conversationID, senderID); err != nil {
		observability.SendSideEffectFailures.WithLabelValues("unread").Inc()
		lg.Error().Err(err).Str("conversation_id", conversationID).Str("message_id", m.ID).
			Msg("send: increment unread counters failed")
	}

	if u, err := repo.GetUser(ctx, s.DB, senderID); err == nil {
		m.Sender = u
	}
	m.Reactions = []domain.MessageReaction{}
	m.ReadBy = []domain.MessageRead{}

	s.emitToOthers(ctx, conversationID, senderID, EventNewMessage, NewMessagePayload{
		ConversationID: conversationID,
		Message:        m,
		Sender:         m.Sender,
	})
	return m, nil
}

// MarkRead records read receipts by userID for every message from others
// not yet read and resets userID's unread counter. It returns the number of
// receipts created; a repeated call returns zero and changes nothing.
func (s *MessageService) MarkRead(ctx context.Context, conversationID, userID string) (int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "MarkRead",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if _, err := repo.GetParticipant(ctx, s.DB, conversationID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return 0, ErrConversationNotFound
		}
		return 0, err
	}

	var marked int64
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := repo.MarkMessagesRead(ctx, tx, conversationID, userID, s.now())
		if err != nil {
			return err
		}
		marked = n
		return repo.ResetUnread(ctx, tx, conversationID, userID)
	})
	if err != nil {
		return 0, err
	}
	span.SetAttributes(attribute.Int64("messages.marked", marked))

	if marked > 0 {
		s.emitToOthers(ctx, conversationID, userID, EventMessagesRead, MessagesReadPayload{
			ConversationID: conversationID,
			UserID:         userID,
			Count:          marked,
		})
	}
	return marked, nil
}

// ListPage returns a page of messages visible to userID in chronological
// order, and the total number of visible messages. Viewing marks the
// conversation read; a failure there is logged and not returned.
func (s *MessageService) ListPage(ctx context.Context, conversationID, userID string, page, pageSize int) ([]domain.Message, int64, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("conversation.id", conversationID),
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, pageSize, offset := utils.Offset(page, pageSize, 20)

	if _, err := repo.GetParticipant(ctx, s.DB, conversationID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrConversationNotFound
		}
		return nil, 0, err
	}

	total, err := repo.CountVisibleMessages(ctx, s.DB, conversationID, userID)
	if err != nil {
		return nil, 0, err
	}
	items := []domain.Message{}
	if total > 0 {
		if items, err = repo.ListVisibleMessagesPage(ctx, s.DB, conversationID, userID, offset, pageSize); err != nil {
			return nil, 0, err
		}
		// newest-first page → chronological
		for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
			items[i], items[j] = items[j], items[i]
		}
		s.attachSenders(ctx, items)
	}

	if _, err := s.MarkRead(ctx, conversationID, userID); err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("conversation_id", conversationID).Msg("read-on-view failed")
	}
	return items, total, nil
}

// ToggleReaction adds the (userID, emoji) reaction when absent and removes it
// when present, then returns the message's reactions.
func (s *MessageService) ToggleReaction(ctx context.Context, messageID, userID, emoji string) (*ReactionResult, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "ToggleReaction",
		trace.WithAttributes(
			attribute.String("message.id", messageID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	emoji = strings.TrimSpace(emoji)
	if n := utf8.RuneCountInString(emoji); n < 1 || n > maxEmojiRunes {
		return nil, ErrInvalidEmoji
	}

	m, err := s.visible(ctx, messageID, userID, false)
	if err != nil {
		return nil, err
	}

	var added bool
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		if added, err = repo.ToggleReaction(ctx, tx, messageID, userID, emoji); err != nil {
			return err
		}
		return repo.TouchMessage(ctx, tx, messageID, s.now())
	})
	if err != nil {
		return nil, err
	}

	reactions, err := repo.ListReactions(ctx, s.DB, messageID)
	if err != nil {
		return nil, err
	}
	res := &ReactionResult{Action: ReactionRemoved, Reactions: reactions}
	if added {
		res.Action = ReactionAdded
	}
	span.SetAttributes(attribute.String("reaction.action", res.Action))

	s.emitToOthers(ctx, m.ConversationID, userID, EventMessageReaction, ReactionPayload{
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		Action:    res.Action,
	})
	return res, nil
}

// Delete removes a message from userID's view (scope "self") or tombstones
// and redacts it for everyone (scope "everyone", sender only). A message
// deleted for self by every participant is promoted to a tombstone.
func (s *MessageService) Delete(ctx context.Context, messageID, userID, scope string) error {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("message.id", messageID),
			attribute.String("user.id", userID),
			attribute.String("scope", scope),
		),
	)
	defer span.End()

	if scope != DeleteForSelf && scope != DeleteForEveryone {
		return ErrInvalidDeleteScope
	}

	m, err := s.visible(ctx, messageID, userID, false)
	if err != nil {
		return err
	}
	now := s.now()

	if scope == DeleteForEveryone {
		if m.SenderID != userID {
			return ErrNotSender
		}
		if err := repo.MarkMessageDeleted(ctx, s.DB, messageID, now, true); err != nil {
			return err
		}
		s.emitToOthers(ctx, m.ConversationID, userID, EventMessageDeleted, MessageDeletedPayload{
			MessageID:      messageID,
			ConversationID: m.ConversationID,
		})
		return nil
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.AddDeletion(ctx, tx, messageID, userID, now); err != nil {
			return err
		}
		deleted, err := repo.CountDeletions(ctx, tx, messageID)
		if err != nil {
			return err
		}
		participants, err := repo.ListParticipantIDs(ctx, tx, m.ConversationID)
		if err != nil {
			return err
		}
		if deleted >= int64(len(participants)) {
			span.SetAttributes(attribute.Bool("message.promoted", true))
			return repo.MarkMessageDeleted(ctx, tx, messageID, now, false)
		}
		return nil
	})
}

// Edit replaces the content of a live message authored by userID. The first
// edit keeps the original content.
func (s *MessageService) Edit(ctx context.Context, messageID, userID, content string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Edit",
		trace.WithAttributes(
			attribute.String("message.id", messageID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyEdit
	}
	if utf8.RuneCountInString(content) > s.maxRunes() {
		return nil, ErrContentTooLong
	}

	m, err := s.visible(ctx, messageID, userID, false)
	if err != nil {
		return nil, err
	}
	if m.SenderID != userID {
		return nil, ErrNotSender
	}

	original := ""
	if !m.IsEdited {
		original = m.Content
	}
	if err := repo.UpdateMessageContent(ctx, s.DB, messageID, content, original, s.now()); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}

	updated, err := repo.GetMessage(ctx, s.DB, messageID)
	if err != nil {
		return nil, err
	}
	if u, err := repo.GetUser(ctx, s.DB, updated.SenderID); err == nil {
		updated.Sender = u
	}

	s.emitToOthers(ctx, updated.ConversationID, userID, EventMessageEdited, MessageEditedPayload{
		ConversationID: updated.ConversationID,
		Message:        updated,
	})
	return updated, nil
}

// Get returns a message as seen by userID. Tombstones are returned redacted;
// messages userID deleted for themselves are not found.
func (s *MessageService) Get(ctx context.Context, messageID, userID string) (*domain.Message, error) {
	tr := otel.Tracer("services/MessageService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("message.id", messageID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	m, err := s.visible(ctx, messageID, userID, true)
	if err != nil {
		return nil, err
	}
	if u, err := repo.GetUser(ctx, s.DB, m.SenderID); err == nil {
		m.Sender = u
	}
	return m, nil
}

// visible loads a message and checks that userID may see it. Tombstones are
// accepted only when allowTombstone is set.
func (s *MessageService) visible(ctx context.Context, messageID, userID string, allowTombstone bool) (*domain.Message, error) {
	m, err := repo.GetMessage(ctx, s.DB, messageID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if _, err := repo.GetParticipant(ctx, s.DB, m.ConversationID, userID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	if m.IsDeleted && !allowTombstone {
		return nil, ErrMessageNotFound
	}
	hidden, err := repo.IsDeletedFor(ctx, s.DB, messageID, userID)
	if err != nil {
		return nil, err
	}
	if hidden {
		return nil, ErrMessageNotFound
	}
	return m, nil
}

// emitToOthers sends event to every participant of the conversation except
// actorID. Lookup failures are logged; emission never fails the caller.
func (s *MessageService) emitToOthers(ctx context.Context, conversationID, actorID, event string, payload any) {
	ids, err := repo.ListParticipantIDs(ctx, s.DB, conversationID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Str("event", event).Msg("realtime: list participants failed")
		return
	}
	emitToUsers(ctx, s.Emitter, ids, actorID, event, payload)
}

func (s *MessageService) attachSenders(ctx context.Context, items []domain.Message) {
	ids := make([]string, 0, len(items))
	for _, m := range items {
		ids = append(ids, m.SenderID)
	}
	users := attachUsers(ctx, s.DB, ids)
	for i := range items {
		items[i].Sender = userPtr(users, items[i].SenderID)
	}
}

// normalizeMedia validates attachments and trims their fields.
func normalizeMedia(in []domain.MediaAttachment) ([]domain.MediaAttachment, error) {
	if len(in) == 0 {
		return nil, nil
	}
	if len(in) > MaxAttachments {
		return nil, ErrTooManyAttachments
	}
	out := make([]domain.MediaAttachment, 0, len(in))
	for _, a := range in {
		a.Type = strings.ToLower(strings.TrimSpace(a.Type))
		a.URL = strings.TrimSpace(a.URL)
		if _, ok := mediaTypes[a.Type]; !ok || a.URL == "" {
			return nil, ErrInvalidMedia
		}
		out = append(out, a)
	}
	return out, nil
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		return nil
	}
	return &v
}
