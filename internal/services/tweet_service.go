// Package services – TweetService
//
// Tweets carry authoritative counters. Likes and retweets are relation rows
// keyed by (tweet_id, user_id); the matching counter is adjusted by an SQL
// increment in the same transaction, so the relation table stays the source
// of truth.
//
// Interactions notify the affected author through NotificationService, which
// suppresses repeats inside its window; realtime intents follow only newly
// created notifications.
package services

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// DefaultMaxTweetRunes caps tweet content when no limit is configured.
const DefaultMaxTweetRunes = 280

var mentionRE = regexp.MustCompile(`@([A-Za-z0-9_]{3,30})`)

// TweetInput is the payload of a new tweet.
type TweetInput struct {
	Content     string
	ReplyToID   *string
	QuoteOfID   *string
	CommunityID *string
}

// ToggleResult is the outcome of a like or retweet toggle.
type ToggleResult struct {
	Active bool  `json:"active"`
	Count  int64 `json:"count"`
}

// TweetService manages tweets and their interactions.
type TweetService struct {
	DB            *gorm.DB
	Notifications *NotificationService
	Emitter       realtime.Emitter

	// MaxContentRunes caps content length; zero means DefaultMaxTweetRunes.
	MaxContentRunes int
}

func (s *TweetService) maxRunes() int {
	if s.MaxContentRunes > 0 {
		return s.MaxContentRunes
	}
	return DefaultMaxTweetRunes
}

// Create publishes a tweet. Replies bump the parent's replies_count; reply,
// quote and mention notifications are sent; community tweets are broadcast
// to the community room.
func (s *TweetService) Create(ctx context.Context, authorID string, in TweetInput) (*domain.Tweet, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", authorID)),
	)
	defer span.End()

	content := strings.TrimSpace(in.Content)
	if n := utf8.RuneCountInString(content); n == 0 || n > s.maxRunes() {
		return nil, ErrInvalidTweet
	}
	replyTo := trimOptional(in.ReplyToID)
	quoteOf := trimOptional(in.QuoteOfID)
	communityID := trimOptional(in.CommunityID)

	var parent, quoted *domain.Tweet
	var err error
	if replyTo != nil {
		if parent, err = s.live(ctx, *replyTo); err != nil {
			return nil, err
		}
	}
	if quoteOf != nil {
		if quoted, err = s.live(ctx, *quoteOf); err != nil {
			return nil, err
		}
	}
	if communityID != nil {
		if _, err := repo.GetCommunity(ctx, s.DB, *communityID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCommunityNotFound
			}
			return nil, err
		}
		if _, err := repo.GetMember(ctx, s.DB, *communityID, authorID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, ErrCommunityMemberOnly
			}
			return nil, err
		}
	}

	t := &domain.Tweet{
		ID:          uuid.NewString(),
		AuthorID:    authorID,
		Content:     content,
		ReplyToID:   replyTo,
		QuoteOfID:   quoteOf,
		CommunityID: communityID,
	}
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.CreateTweet(ctx, tx, t); err != nil {
			return err
		}
		if parent != nil {
			return repo.IncrementReplies(ctx, tx, parent.ID, 1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("tweet.id", t.ID))

	if s.Notifications != nil {
		if parent != nil {
			s.Notifications.Notify(ctx, parent.AuthorID, authorID, domain.NotificationReply, &t.ID, EventNewReply)
		}
		if quoted != nil {
			s.Notifications.Notify(ctx, quoted.AuthorID, authorID, domain.NotificationQuote, &t.ID, EventNewQuote)
		}
		s.notifyMentions(ctx, t)
	}
	if communityID != nil && s.Emitter != nil {
		s.Emitter.Emit(ctx, realtime.CommunityRoom(*communityID), EventNewCommunityTweet, CommunityTweetPayload{
			CommunityID: *communityID,
			Tweet:       t,
		})
	}
	return t, nil
}

// Get returns a live tweet.
func (s *TweetService) Get(ctx context.Context, id string) (*domain.Tweet, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Get",
		trace.WithAttributes(attribute.String("tweet.id", id)),
	)
	defer span.End()

	return s.live(ctx, id)
}

// ToggleLike likes or unlikes a live tweet on behalf of userID.
func (s *TweetService) ToggleLike(ctx context.Context, tweetID, userID string) (*ToggleResult, error) {
	return s.toggle(ctx, "ToggleLike", tweetID, userID, repo.ToggleLike, domain.NotificationLike, EventNewLike)
}

// ToggleRetweet retweets or un-retweets a live tweet on behalf of userID.
func (s *TweetService) ToggleRetweet(ctx context.Context, tweetID, userID string) (*ToggleResult, error) {
	return s.toggle(ctx, "ToggleRetweet", tweetID, userID, repo.ToggleRetweet, domain.NotificationRetweet, EventNewRetweet)
}

type toggleFn func(ctx context.Context, db *gorm.DB, tweetID, userID string) (bool, int64, error)

func (s *TweetService) toggle(ctx context.Context, op, tweetID, userID string, fn toggleFn, typ, event string) (*ToggleResult, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("tweet.id", tweetID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	t, err := s.live(ctx, tweetID)
	if err != nil {
		return nil, err
	}

	var res ToggleResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		res.Active, res.Count, err = fn(ctx, tx, tweetID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("active", res.Active))

	if res.Active && s.Notifications != nil {
		s.Notifications.Notify(ctx, t.AuthorID, userID, typ, &t.ID, event)
	}
	return &res, nil
}

// Delete soft-deletes a tweet authored by userID.
func (s *TweetService) Delete(ctx context.Context, tweetID, userID string) error {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Delete",
		trace.WithAttributes(
			attribute.String("tweet.id", tweetID),
			attribute.String("user.id", userID),
		),
	)
	defer span.End()

	t, err := s.live(ctx, tweetID)
	if err != nil {
		return err
	}
	if t.AuthorID != userID {
		return ErrNotAuthor
	}
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repo.SoftDeleteTweet(ctx, tx, tweetID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return ErrTweetNotFound
			}
			return err
		}
		if t.ReplyToID != nil {
			return repo.IncrementReplies(ctx, tx, *t.ReplyToID, -1)
		}
		return nil
	})
}

// Feed returns a page of the public timeline, newest first, with authors and
// viewerID's like and retweet flags attached.
func (s *TweetService) Feed(ctx context.Context, viewerID string, page, pageSize int) ([]domain.Tweet, int64, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "Feed",
		trace.WithAttributes(
			attribute.String("user.id", viewerID),
			attribute.Int("page", page),
		),
	)
	defer span.End()

	return s.listPage(ctx, viewerID, repo.TweetFilter{}, page, pageSize)
}

// ListByUser returns the user called username and a page of their tweets.
func (s *TweetService) ListByUser(ctx context.Context, viewerID, username string, page, pageSize int) (*domain.User, []domain.Tweet, int64, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "ListByUser",
		trace.WithAttributes(
			attribute.String("user.id", viewerID),
			attribute.String("username", username),
		),
	)
	defer span.End()

	author, err := repo.GetUserByUsername(ctx, s.DB, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, nil, 0, ErrUserNotFound
		}
		return nil, nil, 0, err
	}
	items, total, err := s.listPage(ctx, viewerID, repo.TweetFilter{AuthorID: author.ID}, page, pageSize)
	if err != nil {
		return nil, nil, 0, err
	}
	return author, items, total, nil
}

// ListCommunity returns a page of a community's posts ordered by sort
// ("newest", the default, or "popular"). Posts of a private community are
// visible to its members only.
func (s *TweetService) ListCommunity(ctx context.Context, viewerID, communityID, sort string, page, pageSize int) ([]domain.Tweet, int64, error) {
	tr := otel.Tracer("services/TweetService")
	ctx, span := tr.Start(ctx, "ListCommunity",
		trace.WithAttributes(
			attribute.String("user.id", viewerID),
			attribute.String("community.id", communityID),
			attribute.String("sort", sort),
		),
	)
	defer span.End()

	sort = strings.ToLower(strings.TrimSpace(sort))
	switch sort {
	case "":
		sort = repo.TweetSortNewest
	case repo.TweetSortNewest, repo.TweetSortPopular:
	default:
		return nil, 0, ErrInvalidSort
	}

	c, err := repo.GetCommunity(ctx, s.DB, communityID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrCommunityNotFound
		}
		return nil, 0, err
	}
	if c.IsPrivate {
		if _, err := repo.GetMember(ctx, s.DB, communityID, viewerID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, 0, ErrCommunityPrivate
			}
			return nil, 0, err
		}
	}
	return s.listPage(ctx, viewerID, repo.TweetFilter{CommunityID: communityID, Sort: sort}, page, pageSize)
}

func (s *TweetService) listPage(ctx context.Context, viewerID string, f repo.TweetFilter, page, pageSize int) ([]domain.Tweet, int64, error) {
	_, pageSize, offset := utils.Offset(page, pageSize, 20)

	items, total, err := repo.ListTweetsPage(ctx, s.DB, f, offset, pageSize)
	if err != nil || len(items) == 0 {
		return items, total, err
	}

	ids := make([]string, len(items))
	authorIDs := make([]string, len(items))
	for i, t := range items {
		ids[i], authorIDs[i] = t.ID, t.AuthorID
	}
	liked, retweeted, err := repo.InteractedTweetIDs(ctx, s.DB, viewerID, ids)
	if err != nil {
		return nil, 0, err
	}
	users := attachUsers(ctx, s.DB, authorIDs)
	for i := range items {
		items[i].Author = userPtr(users, items[i].AuthorID)
		items[i].IsLiked = liked[items[i].ID]
		items[i].IsRetweeted = retweeted[items[i].ID]
	}
	return items, total, nil
}

// live loads a tweet that is not deleted.
func (s *TweetService) live(ctx context.Context, id string) (*domain.Tweet, error) {
	t, err := repo.GetTweet(ctx, s.DB, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrTweetNotFound
		}
		return nil, err
	}
	return t, nil
}

// notifyMentions notifies every distinct, resolvable @username in the tweet.
func (s *TweetService) notifyMentions(ctx context.Context, t *domain.Tweet) {
	names := ExtractMentions(t.Content)
	if len(names) == 0 {
		return
	}
	users, err := repo.GetUsersByUsernames(ctx, s.DB, names)
	if err != nil {
		return
	}
	for _, u := range users {
		s.Notifications.Notify(ctx, u.ID, t.AuthorID, domain.NotificationMention, &t.ID, EventNewMention)
	}
}

// ExtractMentions returns the distinct normalized usernames mentioned in
// content, in order of first appearance.
func ExtractMentions(content string) []string {
	seen := map[string]struct{}{}
	out := []string{}
	for _, m := range mentionRE.FindAllStringSubmatch(content, -1) {
		name := NormalizeUsername(m[1])
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
