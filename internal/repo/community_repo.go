// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for communities and
// their memberships.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreateCommunity inserts a community and its creator's admin membership in
// one transaction.
func CreateCommunity(ctx context.Context, db *gorm.DB, c *domain.Community) error {
	now := time.Now().UTC()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(c).Error; err != nil {
			return err
		}
		return tx.Create(&domain.CommunityMember{
			CommunityID: c.ID,
			UserID:      c.CreatorID,
			Role:        domain.RoleAdmin,
			JoinedAt:    now,
		}).Error
	})
}

// GetCommunity fetches a community by id.
func GetCommunity(ctx context.Context, db *gorm.DB, id string) (*domain.Community, error) {
	var c domain.Community
	if err := db.WithContext(ctx).Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

// GetMember returns the membership of userID in a community, or ErrNotFound.
func GetMember(ctx context.Context, db *gorm.DB, communityID, userID string) (*domain.CommunityMember, error) {
	var m domain.CommunityMember
	err := db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// AddMember inserts a membership. A duplicate membership surfaces as a unique
// violation.
func AddMember(ctx context.Context, db *gorm.DB, communityID, userID, role string) (*domain.CommunityMember, error) {
	m := &domain.CommunityMember{
		CommunityID: communityID,
		UserID:      userID,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

// RemoveMember deletes a membership, or returns ErrNotFound.
func RemoveMember(ctx context.Context, db *gorm.DB, communityID, userID string) error {
	res := db.WithContext(ctx).
		Where("community_id = ? AND user_id = ?", communityID, userID).
		Delete(&domain.CommunityMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountMembers returns the number of members of a community.
func CountMembers(ctx context.Context, db *gorm.DB, communityID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).Model(&domain.CommunityMember{}).Where("community_id = ?", communityID).Count(&n).Error
	return n, err
}

// ListStaffIDs returns the user ids of moderators and admins of a community.
func ListStaffIDs(ctx context.Context, db *gorm.DB, communityID string) ([]string, error) {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.CommunityMember{}).
		Where("community_id = ? AND role IN ?", communityID, []string{domain.RoleModerator, domain.RoleAdmin}).
		Order("user_id ASC").
		Pluck("user_id", &ids).Error
	return ids, err
}

// ListCommunitiesForUser returns the communities userID belongs to, most
// recently joined first.
func ListCommunitiesForUser(ctx context.Context, db *gorm.DB, userID string) ([]domain.Community, error) {
	out := []domain.Community{}
	err := db.WithContext(ctx).
		Joins("JOIN community_members cm ON cm.community_id = communities.id AND cm.user_id = ?", userID).
		Order("cm.joined_at DESC, communities.id ASC").
		Find(&out).Error
	return out, err
}

// ListDiscoverable returns public communities userID has not joined, largest
// first.
func ListDiscoverable(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.Community, error) {
	out := []domain.Community{}
	err := db.WithContext(ctx).
		Where("communities.is_private = ?", false).
		Where("NOT EXISTS (SELECT 1 FROM community_members m WHERE m.community_id = communities.id AND m.user_id = ?)", userID).
		Order("(SELECT COUNT(*) FROM community_members m WHERE m.community_id = communities.id) DESC").
		Order("communities.created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CategoryCounts returns, per category in use, the number of communities and
// their summed memberships, most populated category first.
func CategoryCounts(ctx context.Context, db *gorm.DB) ([]domain.CategoryCount, error) {
	out := []domain.CategoryCount{}
	err := db.WithContext(ctx).
		Model(&domain.Community{}).
		Select("communities.category AS name, " +
			"COUNT(DISTINCT communities.id) AS community_count, " +
			"COUNT(m.user_id) AS total_members").
		Joins("LEFT JOIN community_members m ON m.community_id = communities.id").
		Group("communities.category").
		Order("community_count DESC, communities.category ASC").
		Scan(&out).Error
	return out, err
}
