// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for messages and
// their per-user state: read receipts, reactions, and per-user deletions.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// visibleTo scopes a messages query to rows userID may see: not tombstoned and
// not deleted for that user.
func visibleTo(userID string) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.
			Where("messages.is_deleted = ?", false).
			Where("NOT EXISTS (SELECT 1 FROM message_deletions d WHERE d.message_id = messages.id AND d.user_id = ?)", userID)
	}
}

// withMessageState preloads reactions and read receipts in stable order.
func withMessageState(tx *gorm.DB) *gorm.DB {
	return tx.
		Preload("Reactions", func(q *gorm.DB) *gorm.DB { return q.Order("created_at ASC, id ASC") }).
		Preload("ReadBy", func(q *gorm.DB) *gorm.DB { return q.Order("read_at ASC, user_id ASC") })
}

// CreateMessage inserts a new message row. A time-ordered UUIDv7 id and a UTC
// creation time are assigned when absent.
func CreateMessage(ctx context.Context, db *gorm.DB, m *domain.Message) error {
	if m.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return err
		}
		m.ID = id.String()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(m).Error
}

// GetMessage fetches a message by id with reactions and read receipts.
func GetMessage(ctx context.Context, db *gorm.DB, id string) (*domain.Message, error) {
	var m domain.Message
	if err := db.WithContext(ctx).Scopes(withMessageState).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// GetMessagesByIDs returns the messages with the given ids keyed by id.
func GetMessagesByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.Message, error) {
	out := make(map[string]domain.Message, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.Message
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, m := range rows {
		out[m.ID] = m
	}
	return out, nil
}

// CountVisibleMessages returns how many messages of a conversation userID can see.
func CountVisibleMessages(ctx context.Context, db *gorm.DB, conversationID, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Message{}).
		Scopes(visibleTo(userID)).
		Where("messages.conversation_id = ?", conversationID).
		Count(&total).Error
	return total, err
}

// ListVisibleMessagesPage returns a page of messages visible to userID,
// newest first (CreatedAt DESC, ID DESC). Callers reverse it for display.
func ListVisibleMessagesPage(ctx context.Context, db *gorm.DB, conversationID, userID string, offset, limit int) ([]domain.Message, error) {
	var out []domain.Message
	err := db.WithContext(ctx).
		Scopes(visibleTo(userID), withMessageState).
		Where("messages.conversation_id = ?", conversationID).
		Order("messages.created_at DESC, messages.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// IsDeletedFor reports whether userID has deleted the message from their view.
func IsDeletedFor(ctx context.Context, db *gorm.DB, messageID, userID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.MessageDeletion{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&n).Error
	return n > 0, err
}

// MarkMessagesRead records a read receipt by userID for every message of the
// conversation authored by someone else that userID has not read yet. It
// returns the number of receipts created; a second call returns zero.
func MarkMessagesRead(ctx context.Context, db *gorm.DB, conversationID, userID string, at time.Time) (int64, error) {
	res := db.WithContext(ctx).Exec(`
INSERT INTO message_reads (message_id, user_id, read_at)
SELECT m.id, ?, ? FROM messages m
WHERE m.conversation_id = ?
  AND m.sender_id <> ?
  AND NOT EXISTS (SELECT 1 FROM message_reads r WHERE r.message_id = m.id AND r.user_id = ?)`,
		userID, at, conversationID, userID, userID)
	return res.RowsAffected, res.Error
}

// ToggleReaction removes the (userID, emoji) reaction when present, otherwise
// adds it. It reports whether the reaction was added. Run it inside a
// transaction so the delete-or-insert pair is atomic.
func ToggleReaction(ctx context.Context, db *gorm.DB, messageID, userID, emoji string) (added bool, err error) {
	res := db.WithContext(ctx).
		Where("message_id = ? AND user_id = ? AND emoji = ?", messageID, userID, emoji).
		Delete(&domain.MessageReaction{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	r := &domain.MessageReaction{
		ID:        uuid.NewString(),
		MessageID: messageID,
		UserID:    userID,
		Emoji:     emoji,
		CreatedAt: time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(r).Error; err != nil {
		return false, err
	}
	return true, nil
}

// TouchMessage bumps a message's UpdatedAt so conditional list responses
// notice state that lives in child tables.
func TouchMessage(ctx context.Context, db *gorm.DB, messageID string, at time.Time) error {
	return db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", messageID).UpdateColumn("updated_at", at).Error
}

// ListReactions returns the reactions of a message in insertion order.
func ListReactions(ctx context.Context, db *gorm.DB, messageID string) ([]domain.MessageReaction, error) {
	out := []domain.MessageReaction{}
	err := db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Order("created_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// AddDeletion hides a message from userID's view. Repeating it is a no-op.
func AddDeletion(ctx context.Context, db *gorm.DB, messageID, userID string, at time.Time) error {
	d := &domain.MessageDeletion{MessageID: messageID, UserID: userID, DeletedAt: at}
	return db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(d).Error
}

// CountDeletions returns how many users have deleted a message from their view.
func CountDeletions(ctx context.Context, db *gorm.DB, messageID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.MessageDeletion{}).
		Where("message_id = ?", messageID).
		Count(&n).Error
	return n, err
}

// MarkMessageDeleted tombstones a message. With redact set, the content and
// media are cleared as well.
func MarkMessageDeleted(ctx context.Context, db *gorm.DB, messageID string, at time.Time, redact bool) error {
	updates := map[string]any{
		"is_deleted": true,
		"deleted_at": at,
		"updated_at": at,
	}
	if redact {
		updates["content"] = ""
		updates["media"] = nil
		updates["original_content"] = ""
	}
	res := db.WithContext(ctx).Model(&domain.Message{}).Where("id = ?", messageID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdateMessageContent stores edited content. original is written only when
// non-empty so the first pre-edit content is kept.
func UpdateMessageContent(ctx context.Context, db *gorm.DB, messageID, content, original string, at time.Time) error {
	updates := map[string]any{
		"content":    content,
		"is_edited":  true,
		"edited_at":  at,
		"updated_at": at,
	}
	if original != "" {
		updates["original_content"] = original
	}
	res := db.WithContext(ctx).
		Model(&domain.Message{}).
		Where("id = ? AND is_deleted = ?", messageID, false).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
