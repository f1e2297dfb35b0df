// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides the SQL notification store.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// NotificationStore persists notifications in the SQL database. It satisfies
// services.NotificationStore; the document-store alternative lives in
// internal/mongostore.
type NotificationStore struct {
	DB *gorm.DB
}

// NewNotificationStore returns a NotificationStore bound to db.
func NewNotificationStore(db *gorm.DB) *NotificationStore {
	return &NotificationStore{DB: db}
}

// FindRecent returns the newest notification matching (recipient, sender,
// type, subject) created at or after since, or ErrNotFound.
func (s *NotificationStore) FindRecent(ctx context.Context, recipientID, senderID, typ string, subjectID *string, since time.Time) (*domain.Notification, error) {
	q := s.DB.WithContext(ctx).
		Where("recipient_id = ? AND sender_id = ? AND type = ? AND created_at >= ?", recipientID, senderID, typ, since)
	if subjectID == nil {
		q = q.Where("subject_id IS NULL")
	} else {
		q = q.Where("subject_id = ?", *subjectID)
	}
	var n domain.Notification
	if err := q.Order("created_at DESC").First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// Insert persists a new notification.
func (s *NotificationStore) Insert(ctx context.Context, n *domain.Notification) error {
	return s.DB.WithContext(ctx).Create(n).Error
}

// Get fetches a notification by id.
func (s *NotificationStore) Get(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns a page of a recipient's notifications, newest first.
func (s *NotificationStore) List(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]domain.Notification, error) {
	out := []domain.Notification{}
	q := s.DB.WithContext(ctx).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Order("created_at DESC, id DESC").Offset(offset).Limit(limit).Find(&out).Error
	return out, err
}

// Count returns how many notifications a recipient has, optionally unread only.
func (s *NotificationStore) Count(ctx context.Context, recipientID string, unreadOnly bool) (int64, error) {
	var n int64
	q := s.DB.WithContext(ctx).Model(&domain.Notification{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	err := q.Count(&n).Error
	return n, err
}

// MarkRead flips a single notification to read. Already-read rows keep their
// original read time.
func (s *NotificationStore) MarkRead(ctx context.Context, id string, at time.Time) error {
	return s.DB.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ? AND is_read = ?", id, false).
		Updates(map[string]any{"is_read": true, "read_at": at}).Error
}

// MarkAllRead flips every unread notification of a recipient and returns how
// many rows changed.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Updates(map[string]any{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

// Delete removes a notification.
func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	res := s.DB.WithContext(ctx).Where("id = ?", id).Delete(&domain.Notification{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// PurgeRead deletes read notifications created before cutoff.
func (s *NotificationStore) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}
