// Package services – ConversationService
//
// This file implements the conversation resolver and the conversation list
// surface. Direct conversations are deduplicated by a canonical pair key (the
// two participant ids sorted and joined with ":"). The in-memory lookup is an
// optimization; the UNIQUE index on pair_key is the authoritative guard, and a
// lost creation race is collapsed by re-reading the winning row.
//
// Group conversations are never matched: every call creates a new one.
package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/observability"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// minGroupSize is the smallest group, creator included.
const minGroupSize = 3

// maxGroupNameRunes caps group names.
const maxGroupNameRunes = 100

// ConversationService resolves and lists conversations.
type ConversationService struct {
	DB *gorm.DB
}

// NewConversationService constructs a ConversationService.
func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{DB: db}
}

// PairKey returns the canonical key of a direct conversation between a and b.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + ":" + b
}

// ResolveDirect returns the direct conversation between userA and userB,
// creating it with zeroed unread counters on first contact. Repeated calls
// return the same conversation.
func (s *ConversationService) ResolveDirect(ctx context.Context, userA, userB string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ResolveDirect",
		trace.WithAttributes(
			attribute.String("user.a", userA),
			attribute.String("user.b", userB),
		),
	)
	defer span.End()

	userA, userB = strings.TrimSpace(userA), strings.TrimSpace(userB)
	if userA == "" || userB == "" {
		return nil, ErrMissingParticipants
	}
	if userA == userB {
		return nil, ErrSelfConversation
	}

	if _, err := repo.GetUser(ctx, s.DB, userB); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	key := PairKey(userA, userB)
	c, err := repo.GetConversationByPairKey(ctx, s.DB, key)
	if err == nil {
		span.SetAttributes(attribute.Bool("conversation.created", false))
		return s.decorate(ctx, c), nil
	}
	if !errors.Is(err, repo.ErrNotFound) {
		return nil, err
	}

	ids := []string{userA, userB}
	sort.Strings(ids)
	c = &domain.Conversation{ID: uuid.NewString(), PairKey: &key}
	if err := repo.CreateConversation(ctx, s.DB, c, ids); err != nil {
		if !repo.IsDuplicate(err) {
			return nil, err
		}
		// Lost the race: another request created the pair first.
		observability.ConversationConflicts.Inc()
		zerolog.Ctx(ctx).Debug().Str("pair_key", key).Msg("direct conversation conflict collapsed")
		winner, gerr := repo.GetConversationByPairKey(ctx, s.DB, key)
		if gerr != nil {
			return nil, gerr
		}
		return s.decorate(ctx, winner), nil
	}
	span.SetAttributes(attribute.Bool("conversation.created", true))
	return s.decorate(ctx, c), nil
}

// StartByUsername resolves the direct conversation between userID and the
// user with the given username.
func (s *ConversationService) StartByUsername(ctx context.Context, userID, username string) (*domain.Conversation, error) {
	other, err := repo.GetUserByUsername(ctx, s.DB, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return s.ResolveDirect(ctx, userID, other.ID)
}

// ResolveGroup always creates a new group conversation. The creator is added
// to participantIDs; duplicates and blanks are dropped. Every participant
// other than the creator must be a known user.
func (s *ConversationService) ResolveGroup(ctx context.Context, creatorID string, participantIDs []string, name string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ResolveGroup",
		trace.WithAttributes(
			attribute.String("user.id", creatorID),
			attribute.Int("participants.requested", len(participantIDs)),
		),
	)
	defer span.End()

	name = normalizeSpace(name)
	if utf8.RuneCountInString(name) > maxGroupNameRunes {
		return nil, ErrInvalidGroupName
	}

	seen := map[string]struct{}{creatorID: {}}
	ids := []string{creatorID}
	others := []string{}
	for _, id := range participantIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
		others = append(others, id)
	}
	if len(ids) < minGroupSize {
		return nil, ErrTooFewParticipants
	}

	known, err := repo.GetUsersByIDs(ctx, s.DB, others)
	if err != nil {
		return nil, err
	}
	for _, id := range others {
		if _, ok := known[id]; !ok {
			return nil, ErrUserNotFound
		}
	}

	c := &domain.Conversation{ID: uuid.NewString(), IsGroup: true, GroupName: name}
	if err := repo.CreateConversation(ctx, s.DB, c, ids); err != nil {
		return nil, err
	}
	return s.decorate(ctx, c), nil
}

// Get returns a conversation the caller participates in.
func (s *ConversationService) Get(ctx context.Context, id, userID string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("conversation.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	c, err := s.participantOf(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	s.attachLastMessages(ctx, []*domain.Conversation{c})
	return s.decorate(ctx, c), nil
}

// ListPage returns the caller's conversations, most recent activity first,
// with participants and last messages attached.
func (s *ConversationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, pageSize, offset := utils.Offset(page, pageSize, 20)

	total, err := repo.CountConversations(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	items, err := repo.ListConversationsPage(ctx, s.DB, userID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}

	ptrs := make([]*domain.Conversation, len(items))
	userIDs := []string{}
	for i := range items {
		ptrs[i] = &items[i]
		for _, p := range items[i].Participants {
			userIDs = append(userIDs, p.UserID)
		}
	}
	s.attachLastMessages(ctx, ptrs)
	users := attachUsers(ctx, s.DB, userIDs)
	for i := range items {
		attachParticipants(&items[i], users)
	}
	return items, total, nil
}

// SetArchived flips the archived flag of a conversation the caller
// participates in.
func (s *ConversationService) SetArchived(ctx context.Context, id, userID string, archived bool) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ConversationService")
	ctx, span := tr.Start(ctx, "SetArchived",
		trace.WithAttributes(
			attribute.String("conversation.id", id),
			attribute.Bool("archived", archived),
		),
	)
	defer span.End()

	c, err := s.participantOf(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if err := repo.SetArchived(ctx, s.DB, id, archived); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	c.Archived = archived
	return s.decorate(ctx, c), nil
}

// participantOf loads a conversation and hides it from non-participants.
func (s *ConversationService) participantOf(ctx context.Context, id, userID string) (*domain.Conversation, error) {
	c, err := repo.GetConversation(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	for _, p := range c.Participants {
		if p.UserID == userID {
			return c, nil
		}
	}
	return nil, ErrConversationNotFound
}

// decorate attaches participant user projections.
func (s *ConversationService) decorate(ctx context.Context, c *domain.Conversation) *domain.Conversation {
	ids := make([]string, 0, len(c.Participants))
	for _, p := range c.Participants {
		ids = append(ids, p.UserID)
	}
	attachParticipants(c, attachUsers(ctx, s.DB, ids))
	return c
}

func (s *ConversationService) attachLastMessages(ctx context.Context, cs []*domain.Conversation) {
	ids := []string{}
	for _, c := range cs {
		if c.LastMessageID != nil {
			ids = append(ids, *c.LastMessageID)
		}
	}
	if len(ids) == 0 {
		return
	}
	msgs, err := repo.GetMessagesByIDs(ctx, s.DB, ids)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("load last messages")
		return
	}
	for _, c := range cs {
		if c.LastMessageID == nil {
			continue
		}
		if m, ok := msgs[*c.LastMessageID]; ok {
			m := m
			c.LastMessage = &m
		}
	}
}

func attachParticipants(c *domain.Conversation, users map[string]domain.User) {
	for i := range c.Participants {
		c.Participants[i].User = userPtr(users, c.Participants[i].UserID)
	}
}
