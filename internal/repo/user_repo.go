// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for users and the
// follow graph.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreateUser inserts a user row. Unique violations on username are returned
// raw; detect them with IsDuplicate.
func CreateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(u).Error
}

// GetUser fetches a user by id.
func GetUser(ctx context.Context, db *gorm.DB, id string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUserByUsername fetches a user by normalized username.
func GetUserByUsername(ctx context.Context, db *gorm.DB, username string) (*domain.User, error) {
	var u domain.User
	if err := db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// GetUsersByIDs returns the users with the given ids keyed by id. Unknown ids
// are absent from the map.
func GetUsersByIDs(ctx context.Context, db *gorm.DB, ids []string) (map[string]domain.User, error) {
	out := make(map[string]domain.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []domain.User
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		out[u.ID] = u
	}
	return out, nil
}

// GetUsersByUsernames returns the users matching any of the usernames.
func GetUsersByUsernames(ctx context.Context, db *gorm.DB, usernames []string) ([]domain.User, error) {
	out := []domain.User{}
	if len(usernames) == 0 {
		return out, nil
	}
	err := db.WithContext(ctx).Where("username IN ?", usernames).Order("username ASC").Find(&out).Error
	return out, err
}

// ToggleFollow removes the follower → followee edge when present, otherwise
// creates it. It reports whether the edge exists afterwards. Run it inside a
// transaction.
func ToggleFollow(ctx context.Context, db *gorm.DB, followerID, followeeID string) (following bool, err error) {
	res := db.WithContext(ctx).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&domain.Follow{})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected > 0 {
		return false, nil
	}
	f := &domain.Follow{FollowerID: followerID, FolloweeID: followeeID, CreatedAt: time.Now().UTC()}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return false, err
	}
	return true, nil
}

// CountFollowers returns how many users follow userID.
func CountFollowers(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Follow{}).Where("followee_id = ?", userID).Count(&n).Error
	return n, err
}

// CountFollowing returns how many users userID follows.
func CountFollowing(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.Follow{}).Where("follower_id = ?", userID).Count(&n).Error
	return n, err
}

// IsFollowing reports whether followerID follows followeeID.
func IsFollowing(ctx context.Context, db *gorm.DB, followerID, followeeID string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Follow{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&n).Error
	return n > 0, err
}

// ListFollowersPage returns the users following userID, most recent first.
func ListFollowersPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.User, error) {
	out := []domain.User{}
	err := db.WithContext(ctx).
		Joins("JOIN follows f ON f.follower_id = users.id AND f.followee_id = ?", userID).
		Order("f.created_at DESC, users.id ASC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// ListFollowingPage returns the users userID follows, most recent first.
func ListFollowingPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.User, error) {
	out := []domain.User{}
	err := db.WithContext(ctx).
		Joins("JOIN follows f ON f.followee_id = users.id AND f.follower_id = ?", userID).
		Order("f.created_at DESC, users.id ASC").
		Offset(offset).Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateUser applies the given column updates to a user, or returns
// ErrNotFound when no such user exists.
func UpdateUser(ctx context.Context, db *gorm.DB, id string, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	res := db.WithContext(ctx).Model(&domain.User{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
