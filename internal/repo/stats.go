// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer. Each function is context-aware and safe to call from services or
// handlers.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// ConversationsStats returns aggregate metadata for a user's conversation
// list: the number of conversations, the sum of the user's unread counters,
// and the latest activity timestamp among them.
//
// The unread sum is part of the result so that a read or an incoming message
// changes the derived ETag even when activity timestamps tie.
func ConversationsStats(ctx context.Context, db *gorm.DB, userID string) (count, unread int64, maxActivity *time.Time, err error) {
	var agg struct {
		N      int64
		Unread int64
	}
	if err = db.WithContext(ctx).
		Model(&domain.ConversationParticipant{}).
		Select("COUNT(*) AS n, COALESCE(SUM(unread_count), 0) AS unread").
		Where("user_id = ?", userID).
		Scan(&agg).Error; err != nil {
		return 0, 0, nil, err
	}
	if agg.N == 0 {
		return 0, 0, nil, nil
	}

	// Get latest activity (avoid MAX() -> TEXT in SQLite)
	var row struct {
		LastActivityAt time.Time
	}
	if err = db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Select("conversations.last_activity_at").
		Joins("JOIN conversation_participants cp ON cp.conversation_id = conversations.id AND cp.user_id = ?", userID).
		Order("conversations.last_activity_at DESC").
		Limit(1).
		Scan(&row).Error; err != nil {
		return 0, 0, nil, err
	}
	return agg.N, agg.Unread, &row.LastActivityAt, nil
}
