// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for tweets and the
// like/retweet relation tables.
//
// Likes and retweets are rows keyed by (tweet_id, user_id). The counters on
// the tweet row are adjusted with SQL increments in the same transaction as
// the relation row, so the relation table stays the source of truth and the
// counter never needs a read-modify-write.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
)

// CreateTweet inserts a tweet row.
func CreateTweet(ctx context.Context, db *gorm.DB, t *domain.Tweet) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return db.WithContext(ctx).Create(t).Error
}

// GetTweet fetches a live (not deleted) tweet by id.
func GetTweet(ctx context.Context, db *gorm.DB, id string) (*domain.Tweet, error) {
	var t domain.Tweet
	err := db.WithContext(ctx).Where("id = ? AND is_deleted = ?", id, false).First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// IncrementReplies bumps the replies counter of a tweet by delta.
func IncrementReplies(ctx context.Context, db *gorm.DB, tweetID string, delta int) error {
	return db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Where("id = ?", tweetID).
		UpdateColumn("replies_count", gorm.Expr("replies_count + ?", delta)).Error
}

// SoftDeleteTweet hides a tweet.
func SoftDeleteTweet(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Where("id = ? AND is_deleted = ?", id, false).
		Updates(map[string]any{"is_deleted": true, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CountTweets returns the number of live tweets authored by userID.
func CountTweets(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var n int64
	err := db.WithContext(ctx).
		Model(&domain.Tweet{}).
		Where("author_id = ? AND is_deleted = ?", userID, false).
		Count(&n).Error
	return n, err
}

// ToggleLike adds or removes userID's like on a tweet and adjusts likes_count.
// It returns whether the like exists afterwards and the new count. Run it
// inside a transaction.
func ToggleLike(ctx context.Context, db *gorm.DB, tweetID, userID string) (bool, int64, error) {
	return toggleTweetRelation(ctx, db, &domain.TweetLike{}, &domain.TweetLike{
		TweetID: tweetID, UserID: userID, CreatedAt: time.Now().UTC(),
	}, "likes_count", tweetID, userID)
}

// ToggleRetweet adds or removes userID's retweet and adjusts retweets_count.
// It returns whether the retweet exists afterwards and the new count. Run it
// inside a transaction.
func ToggleRetweet(ctx context.Context, db *gorm.DB, tweetID, userID string) (bool, int64, error) {
	return toggleTweetRelation(ctx, db, &domain.TweetRetweet{}, &domain.TweetRetweet{
		TweetID: tweetID, UserID: userID, CreatedAt: time.Now().UTC(),
	}, "retweets_count", tweetID, userID)
}

func toggleTweetRelation(ctx context.Context, db *gorm.DB, model, row any, counter, tweetID, userID string) (bool, int64, error) {
	tx := db.WithContext(ctx)
	res := tx.Where("tweet_id = ? AND user_id = ?", tweetID, userID).Delete(model)
	if res.Error != nil {
		return false, 0, res.Error
	}
	active := res.RowsAffected == 0
	delta := -1
	if active {
		if err := tx.Create(row).Error; err != nil {
			return false, 0, err
		}
		delta = 1
	}
	if err := tx.Model(&domain.Tweet{}).
		Where("id = ?", tweetID).
		UpdateColumn(counter, gorm.Expr(counter+" + ?", delta)).Error; err != nil {
		return false, 0, err
	}
	var count int64
	if err := tx.Model(&domain.Tweet{}).Where("id = ?", tweetID).Select(counter).Scan(&count).Error; err != nil {
		return false, 0, err
	}
	return active, count, nil
}

// Tweet list orders.
const (
	TweetSortNewest  = "newest"
	TweetSortPopular = "popular"
)

// TweetFilter narrows a tweet listing. Zero fields do not filter. Tweets in
// private communities are only listed when CommunityID names that community.
type TweetFilter struct {
	AuthorID    string
	CommunityID string
	Sort        string
}

func (f TweetFilter) apply(db *gorm.DB) *gorm.DB {
	q := db.Model(&domain.Tweet{}).Where("tweets.is_deleted = ?", false)
	if f.AuthorID != "" {
		q = q.Where("tweets.author_id = ?", f.AuthorID)
	}
	if f.CommunityID != "" {
		return q.Where("tweets.community_id = ?", f.CommunityID)
	}
	return q.Where("(tweets.community_id IS NULL OR tweets.community_id IN (?))",
		db.Model(&domain.Community{}).Select("id").Where("is_private = ?", false))
}

// ListTweetsPage returns one page of live tweets matching f and the total
// number of matches. Newest is the default order; popular orders by likes,
// then retweets.
func ListTweetsPage(ctx context.Context, db *gorm.DB, f TweetFilter, offset, limit int) ([]domain.Tweet, int64, error) {
	tx := db.WithContext(ctx)
	var total int64
	if err := f.apply(tx).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	order := "tweets.created_at DESC, tweets.id DESC"
	if f.Sort == TweetSortPopular {
		order = "tweets.likes_count DESC, tweets.retweets_count DESC, " + order
	}
	out := []domain.Tweet{}
	err := f.apply(tx).Order(order).Offset(offset).Limit(limit).Find(&out).Error
	return out, total, err
}

// InteractedTweetIDs returns which of tweetIDs userID has liked and which it
// has retweeted.
func InteractedTweetIDs(ctx context.Context, db *gorm.DB, userID string, tweetIDs []string) (liked, retweeted map[string]bool, err error) {
	liked, retweeted = map[string]bool{}, map[string]bool{}
	if userID == "" || len(tweetIDs) == 0 {
		return liked, retweeted, nil
	}
	for _, rel := range []struct {
		model any
		into  map[string]bool
	}{
		{&domain.TweetLike{}, liked},
		{&domain.TweetRetweet{}, retweeted},
	} {
		var ids []string
		if err := db.WithContext(ctx).Model(rel.model).
			Where("user_id = ? AND tweet_id IN ?", userID, tweetIDs).
			Pluck("tweet_id", &ids).Error; err != nil {
			return nil, nil, err
		}
		for _, id := range ids {
			rel.into[id] = true
		}
	}
	return liked, retweeted, nil
}
