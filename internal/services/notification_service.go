// Package services – NotificationService
//
// This file implements the notification deduplicator and the recipient-facing
// notification surface. Create suppresses identical (recipient, sender, type,
// subject) notifications inside a rolling window: the existing record is
// returned unchanged and nothing is written. The check is a best-effort
// read-then-write; two concurrent identical interactions may both insert,
// which is acceptable because notifications are advisory.
//
// The service is storage-agnostic. The SQL store (repo.NotificationStore) and
// the document store (mongostore.NotificationStore) both satisfy
// NotificationStore and report missing records as repo.ErrNotFound.
package services

import (
	"context"
	"errors"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
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

// DefaultDedupWindow is the rolling window used when none is configured.
const DefaultDedupWindow = 24 * time.Hour

// NotificationStore is the persistence contract of NotificationService.
type NotificationStore interface {
	// FindRecent returns the newest matching notification created at or after
	// since. A nil subjectID matches only notifications without a subject.
	FindRecent(ctx context.Context, recipientID, senderID, typ string, subjectID *string, since time.Time) (*domain.Notification, error)
	Insert(ctx context.Context, n *domain.Notification) error
	Get(ctx context.Context, id string) (*domain.Notification, error)
	List(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]domain.Notification, error)
	Count(ctx context.Context, recipientID string, unreadOnly bool) (int64, error)
	MarkRead(ctx context.Context, id string, at time.Time) error
	MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error)
	Delete(ctx context.Context, id string) error
	PurgeRead(ctx context.Context, before time.Time) (int64, error)
}

// NotificationService creates, deduplicates, and serves notifications.
type NotificationService struct {
	Store NotificationStore

	// DB, when set, is used to attach sender projections. Users always live
	// in the SQL store.
	DB *gorm.DB

	// Emitter receives interaction intents from Notify.
	Emitter realtime.Emitter

	// Window is the dedup window; zero means DefaultDedupWindow.
	Window time.Duration

	// Now is the clock; nil means time.Now in UTC.
	Now func() time.Time
}

// NotificationView is a notification as presented to its recipient.
type NotificationView struct {
	domain.Notification
	Sender  *domain.User `json:"sender,omitempty"`
	TimeAgo string       `json:"time_ago"`
}

// NotificationPage is one page of a recipient's notifications.
type NotificationPage struct {
	Items       []NotificationView
	Total       int64
	UnreadCount int64
}

// NewNotificationService constructs a NotificationService.
func NewNotificationService(store NotificationStore, db *gorm.DB, em realtime.Emitter, window time.Duration) *NotificationService {
	if em == nil {
		em = realtime.Nop{}
	}
	return &NotificationService{Store: store, DB: db, Emitter: em, Window: window}
}

func (s *NotificationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

func (s *NotificationService) window() time.Duration {
	if s.Window > 0 {
		return s.Window
	}
	return DefaultDedupWindow
}

// Create records an interaction notification. It returns (nil, false, nil)
// for self-interactions, the existing record with created=false when an
// identical notification exists inside the window, and the new record with
// created=true otherwise.
func (s *NotificationService) Create(ctx context.Context, recipientID, senderID, typ string, subjectID *string) (n *domain.Notification, created bool, err error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(
			attribute.String("notification.type", typ),
			attribute.String("recipient.id", recipientID),
			attribute.String("sender.id", senderID),
		),
	)
	defer span.End()

	if recipientID == senderID {
		observability.Notifications.WithLabelValues(typ, "self").Inc()
		return nil, false, nil
	}

	now := s.now()
	existing, err := s.Store.FindRecent(ctx, recipientID, senderID, typ, subjectID, now.Add(-s.window()))
	switch {
	case err == nil:
		observability.Notifications.WithLabelValues(typ, "suppressed").Inc()
		span.SetAttributes(attribute.Bool("notification.suppressed", true))
		return existing, false, nil
	case !errors.Is(err, repo.ErrNotFound):
		return nil, false, err
	}

	n = &domain.Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		SenderID:    senderID,
		Type:        typ,
		SubjectID:   subjectID,
		Message:     domain.NotificationMessage(typ),
		IsRead:      false,
		CreatedAt:   now,
	}
	if err := s.Store.Insert(ctx, n); err != nil {
		return nil, false, err
	}
	observability.Notifications.WithLabelValues(typ, "created").Inc()
	return n, true, nil
}

// Notify runs Create and, when a new notification was stored, emits event to
// the recipient's room. Failures are logged and never returned: an
// interaction succeeds even when its notification could not be recorded.
func (s *NotificationService) Notify(ctx context.Context, recipientID, senderID, typ string, subjectID *string, event string) {
	n, created, err := s.Create(ctx, recipientID, senderID, typ, subjectID)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).
			Str("type", typ).
			Str("recipient_id", recipientID).
			Msg("notification create failed")
		return
	}
	if !created || s.Emitter == nil {
		return
	}
	payload := InteractionPayload{Type: typ, SubjectID: subjectID, Notification: n}
	if s.DB != nil {
		if u, err := repo.GetUser(ctx, s.DB, senderID); err == nil {
			payload.Actor = u
		}
	}
	s.Emitter.Emit(ctx, realtime.UserRoom(recipientID), event, payload)
}

// List returns a page of the recipient's notifications, newest first, with
// the total and the unread count.
func (s *NotificationService) List(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) (*NotificationPage, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "List",
		trace.WithAttributes(
			attribute.String("recipient.id", recipientID),
			attribute.Bool("unread_only", unreadOnly),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	_, pageSize, offset := utils.Offset(page, pageSize, 20)

	total, err := s.Store.Count(ctx, recipientID, unreadOnly)
	if err != nil {
		return nil, err
	}
	unread := total
	if !unreadOnly {
		if unread, err = s.Store.Count(ctx, recipientID, true); err != nil {
			return nil, err
		}
	}
	out := &NotificationPage{Items: []NotificationView{}, Total: total, UnreadCount: unread}
	if total == 0 {
		return out, nil
	}

	rows, err := s.Store.List(ctx, recipientID, unreadOnly, offset, pageSize)
	if err != nil {
		return nil, err
	}

	senders := map[string]domain.User{}
	if s.DB != nil && len(rows) > 0 {
		ids := make([]string, 0, len(rows))
		for _, n := range rows {
			ids = append(ids, n.SenderID)
		}
		if senders, err = repo.GetUsersByIDs(ctx, s.DB, ids); err != nil {
			return nil, err
		}
	}

	now := s.now()
	for _, n := range rows {
		v := NotificationView{Notification: n, TimeAgo: humanize.RelTime(n.CreatedAt, now, "ago", "from now")}
		if u, ok := senders[n.SenderID]; ok {
			u := u
			v.Sender = &u
		}
		out.Items = append(out.Items, v)
	}
	return out, nil
}

// owned loads a notification and checks that userID is its recipient.
func (s *NotificationService) owned(ctx context.Context, id, userID string) (*domain.Notification, error) {
	n, err := s.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, err
	}
	if n.RecipientID != userID {
		return nil, ErrNotRecipient
	}
	return n, nil
}

// MarkRead flips one notification to read and returns it.
func (s *NotificationService) MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "MarkRead",
		trace.WithAttributes(
			attribute.String("notification.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	n, err := s.owned(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	at := s.now()
	if err := s.Store.MarkRead(ctx, id, at); err != nil {
		return nil, err
	}
	n.IsRead = true
	n.ReadAt = &at
	return n, nil
}

// MarkAllRead flips every unread notification of userID and returns how many
// changed.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "MarkAllRead",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	return s.Store.MarkAllRead(ctx, userID, s.now())
}

// Delete removes a notification owned by userID.
func (s *NotificationService) Delete(ctx context.Context, id, userID string) error {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("notification.id", id),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	if _, err := s.owned(ctx, id, userID); err != nil {
		return err
	}
	if err := s.Store.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrNotificationNotFound
		}
		return err
	}
	return nil
}

// Counts returns the unread and total notification counts of userID.
func (s *NotificationService) Counts(ctx context.Context, userID string) (unread, total int64, err error) {
	tr := otel.Tracer("services/NotificationService")
	ctx, span := tr.Start(ctx, "Counts",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if unread, err = s.Store.Count(ctx, userID, true); err != nil {
		return 0, 0, err
	}
	if total, err = s.Store.Count(ctx, userID, false); err != nil {
		return 0, 0, err
	}
	return unread, total, nil
}

// PurgeRead deletes read notifications older than retention.
func (s *NotificationService) PurgeRead(ctx context.Context, retention time.Duration) (int64, error) {
	return s.Store.PurgeRead(ctx, s.now().Add(-retention))
}
