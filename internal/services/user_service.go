// Package services – UserService and FollowService
//
// Users are an identity projection: a stable id supplied by the auth layer
// and a unique, normalized username. Follower, following and tweet counts are
// derived on read from the relation tables instead of being stored.
package services

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/utils"

	// OpenTelemetry
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var usernameRE = regexp.MustCompile(`^[a-z0-9_]{3,30}$`)

// NormalizeUsername trims, drops a leading "@", and lowercases a username.
func NormalizeUsername(s string) string {
	s = strings.TrimPrefix(strings.TrimSpace(s), "@")
	return cases.Lower(language.Und).String(s)
}

// Profile is a user together with its derived counters.
type Profile struct {
	domain.User
	FollowersCount int64 `json:"followers_count"`
	FollowingCount int64 `json:"following_count"`
	TweetsCount    int64 `json:"tweets_count"`
}

// UserService manages user profiles.
type UserService struct {
	DB *gorm.DB
}

// Create registers the profile of userID. Usernames are normalized and must
// match [a-z0-9_]{3,30}; a taken username yields ErrUsernameTaken.
func (s *UserService) Create(ctx context.Context, userID, username, displayName, avatarURL string) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "Create",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	username = NormalizeUsername(username)
	if !usernameRE.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	displayName = normalizeSpace(displayName)
	if displayName == "" {
		displayName = username
	}
	if utf8.RuneCountInString(displayName) > maxDisplayNameRunes {
		displayName = string([]rune(displayName)[:maxDisplayNameRunes])
	}

	u := &domain.User{
		ID:          userID,
		Username:    username,
		DisplayName: displayName,
		AvatarURL:   strings.TrimSpace(avatarURL),
	}
	if err := repo.CreateUser(ctx, s.DB, u); err != nil {
		if repo.IsDuplicate(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return u, nil
}

// GetProfile returns the profile for a username with its derived counters.
func (s *UserService) GetProfile(ctx context.Context, username string) (*Profile, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "GetProfile",
		trace.WithAttributes(attribute.String("username", username)),
	)
	defer span.End()

	u, err := repo.GetUserByUsername(ctx, s.DB, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	p := &Profile{User: *u}
	if p.FollowersCount, err = repo.CountFollowers(ctx, s.DB, u.ID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = repo.CountFollowing(ctx, s.DB, u.ID); err != nil {
		return nil, err
	}
	if p.TweetsCount, err = repo.CountTweets(ctx, s.DB, u.ID); err != nil {
		return nil, err
	}
	return p, nil
}

// ProfileUpdate carries the profile fields to change; nil fields are left
// alone and an empty string clears an optional field.
type ProfileUpdate struct {
	DisplayName *string
	AvatarURL   *string
	Bio         *string
	Location    *string
	Website     *string
}

// profile field limits, in runes
const (
	maxDisplayNameRunes = 50
	maxBioRunes         = 160
	maxLocationRunes    = 50
	maxWebsiteRunes     = 100
	maxAvatarURLRunes   = 512
)

// UpdateProfile changes the caller's profile fields and returns the result.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, in ProfileUpdate) (*domain.User, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, "UpdateProfile",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	fields := map[string]any{}
	if in.DisplayName != nil {
		v := normalizeSpace(*in.DisplayName)
		if n := utf8.RuneCountInString(v); n == 0 || n > maxDisplayNameRunes {
			return nil, ErrInvalidProfile
		}
		fields["display_name"] = v
	}
	for _, f := range []struct {
		col string
		val *string
		max int
	}{
		{"bio", in.Bio, maxBioRunes},
		{"location", in.Location, maxLocationRunes},
		{"avatar_url", in.AvatarURL, maxAvatarURLRunes},
		{"website", in.Website, maxWebsiteRunes},
	} {
		if f.val == nil {
			continue
		}
		v := strings.TrimSpace(*f.val)
		if utf8.RuneCountInString(v) > f.max {
			return nil, ErrInvalidProfile
		}
		if v != "" && (f.col == "website" || f.col == "avatar_url") && !isWebURL(v) {
			return nil, ErrInvalidProfile
		}
		fields[f.col] = v
	}
	if len(fields) == 0 {
		return nil, ErrNoProfileChanges
	}

	if err := repo.UpdateUser(ctx, s.DB, userID, fields); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return repo.GetUser(ctx, s.DB, userID)
}

// ListFollowers returns a page of the users following username and their
// total number.
func (s *UserService) ListFollowers(ctx context.Context, username string, page, pageSize int) ([]domain.User, int64, error) {
	return s.listEdges(ctx, "ListFollowers", username, page, pageSize, repo.CountFollowers, repo.ListFollowersPage)
}

// ListFollowing returns a page of the users username follows and their total
// number.
func (s *UserService) ListFollowing(ctx context.Context, username string, page, pageSize int) ([]domain.User, int64, error) {
	return s.listEdges(ctx, "ListFollowing", username, page, pageSize, repo.CountFollowing, repo.ListFollowingPage)
}

type (
	edgeCountFn func(ctx context.Context, db *gorm.DB, userID string) (int64, error)
	edgePageFn  func(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.User, error)
)

func (s *UserService) listEdges(ctx context.Context, op, username string, page, pageSize int, count edgeCountFn, list edgePageFn) ([]domain.User, int64, error) {
	tr := otel.Tracer("services/UserService")
	ctx, span := tr.Start(ctx, op,
		trace.WithAttributes(
			attribute.String("username", username),
			attribute.Int("page", page),
		),
	)
	defer span.End()

	u, err := repo.GetUserByUsername(ctx, s.DB, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrUserNotFound
		}
		return nil, 0, err
	}
	_, pageSize, offset := utils.Offset(page, pageSize, 20)

	total, err := count(ctx, s.DB, u.ID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}
	items, err := list(ctx, s.DB, u.ID, offset, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// isWebURL reports whether v is an absolute http or https URL with a host.
func isWebURL(v string) bool {
	u, err := url.Parse(v)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// FollowResult is the outcome of a follow toggle.
type FollowResult struct {
	Following      bool  `json:"following"`
	FollowersCount int64 `json:"followers_count"`
}

// FollowService toggles follow edges and notifies the followee.
type FollowService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

// Toggle follows or unfollows username on behalf of followerID.
func (s *FollowService) Toggle(ctx context.Context, followerID, username string) (*FollowResult, error) {
	tr := otel.Tracer("services/FollowService")
	ctx, span := tr.Start(ctx, "Toggle",
		trace.WithAttributes(
			attribute.String("user.id", followerID),
			attribute.String("username", username),
		),
	)
	defer span.End()

	target, err := repo.GetUserByUsername(ctx, s.DB, NormalizeUsername(username))
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if target.ID == followerID {
		return nil, ErrSelfFollow
	}

	var res FollowResult
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		following, err := repo.ToggleFollow(ctx, tx, followerID, target.ID)
		if err != nil {
			return err
		}
		res.Following = following
		res.FollowersCount, err = repo.CountFollowers(ctx, tx, target.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Bool("following", res.Following))

	if res.Following && s.Notifications != nil {
		s.Notifications.Notify(ctx, target.ID, followerID, domain.NotificationFollow, nil, EventNewFollower)
	}
	return &res, nil
}

// attachUsers returns the users for ids keyed by id, ignoring unknown ids.
func attachUsers(ctx context.Context, db *gorm.DB, ids []string) map[string]domain.User {
	users, err := repo.GetUsersByIDs(ctx, db, ids)
	if err != nil {
		return map[string]domain.User{}
	}
	return users
}

// userPtr returns a pointer to the user with id, or nil when unknown.
func userPtr(users map[string]domain.User, id string) *domain.User {
	if u, ok := users[id]; ok {
		return &u
	}
	return nil
}

// normalizeSpace trims whitespace and collapses runs to a single space.
func normalizeSpace(s string) string {
	return whitespaceRE.ReplaceAllString(strings.TrimSpace(s), " ")
}

// whitespaceRE collapses consecutive whitespace to a single space.
var whitespaceRE = regexp.MustCompile(`\s+`)
