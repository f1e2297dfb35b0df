// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation aggregate and its participant rows.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition.
//
// Error semantics:
//   - When a conversation or participant is not found, functions return
//     gorm.ErrRecordNotFound (exported as ErrNotFound).
//   - Unique violations on the canonical pair key are propagated raw; callers
//     detect them with IsDuplicate.
//
// Counter updates (IncrementUnread, ResetUnread) are targeted column updates
// evaluated by the database, never read-modify-write of the whole row.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreateConversation inserts a conversation together with one participant row
// per user id, each starting with a zero unread count. GORM wraps the insert
// of the parent and its associations in a single transaction.
func CreateConversation(ctx context.Context, db *gorm.DB, c *domain.Conversation, userIDs []string) error {
	now := time.Now().UTC()
	if c.LastActivityAt.IsZero() {
		c.LastActivityAt = now
	}
	c.Participants = make([]domain.ConversationParticipant, 0, len(userIDs))
	for _, uid := range userIDs {
		c.Participants = append(c.Participants, domain.ConversationParticipant{
			ConversationID: c.ID,
			UserID:         uid,
			UnreadCount:    0,
			JoinedAt:       now,
		})
	}
	return db.WithContext(ctx).Create(c).Error
}

// GetConversation fetches a conversation by id with its participants.
func GetConversation(ctx context.Context, db *gorm.DB, id string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("joined_at ASC, user_id ASC") }).
		Where("id = ?", id).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetConversationByPairKey fetches the direct conversation for a canonical
// participant pair key.
func GetConversationByPairKey(ctx context.Context, db *gorm.DB, pairKey string) (*domain.Conversation, error) {
	var c domain.Conversation
	err := db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("joined_at ASC, user_id ASC") }).
		Where("pair_key = ? AND is_group = ?", pairKey, false).
		First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetParticipant returns the participant row of userID in a conversation, or
// ErrNotFound when the user is not a participant.
func GetParticipant(ctx context.Context, db *gorm.DB, conversationID, userID string) (*domain.ConversationParticipant, error) {
	var p domain.ConversationParticipant
	err := db.WithContext(ctx).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListParticipantIDs returns the user ids of all participants of a conversation.
func ListParticipantIDs(ctx context.Context, db *gorm.DB, conversationID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ?", conversationID).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// CountConversations returns the number of conversations userID participates in.
func CountConversations(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListConversationsPage returns a page of userID's conversations ordered by
// last activity, most recent first, with participants preloaded.
func ListConversationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Preload("Participants", func(tx *gorm.DB) *gorm.DB { return tx.Order("joined_at ASC, user_id ASC") }).
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Order("conversations.last_activity_at DESC, conversations.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// TouchConversation records the latest message and activity time.
func TouchConversation(ctx context.Context, db *gorm.DB, conversationID, messageID string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Updates(map[string]any{
			"last_message_id":  messageID,
			"last_activity_at": at,
			"updated_at":       at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementUnread adds one to the unread counter of every participant except
// senderID and returns the number of counters touched.
func IncrementUnread(ctx context.Context, db *gorm.DB, conversationID, senderID string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id <> ?", conversationID, senderID).
		UpdateColumn("unread_count", gorm.Expr("unread_count + 1"))
	return res.RowsAffected, res.Error
}

// ResetUnread sets userID's unread counter in a conversation to zero.
func ResetUnread(ctx context.Context, db *gorm.DB, conversationID, userID string) error {
	return db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Where("conversation_id = ? AND user_id = ?", conversationID, userID).
		UpdateColumn("unread_count", 0).Error
}

// SetArchived flips the archived flag of a conversation.
func SetArchived(ctx context.Context, db *gorm.DB, conversationID string, archived bool) error {
	res := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Where("id = ?", conversationID).
		Update("archived", archived)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RecountUnread recomputes every participant's unread counter from messages
// and read receipts. Messages that are tombstoned, authored by the
// participant, or deleted for the participant do not count.
func RecountUnread(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).Exec(`
UPDATE conversation_participants
SET unread_count = (
	SELECT COUNT(*) FROM messages m
	WHERE m.conversation_id = conversation_participants.conversation_id
	  AND m.sender_id <> conversation_participants.user_id
	  AND m.is_deleted = ?
	  AND NOT EXISTS (
		SELECT 1 FROM message_reads r
		WHERE r.message_id = m.id AND r.user_id = conversation_participants.user_id)
	  AND NOT EXISTS (
		SELECT 1 FROM message_deletions d
		WHERE d.message_id = m.id AND d.user_id = conversation_participants.user_id)
)`, false)
	return res.RowsAffected, res.Error
}
