// Package handlers wires the REST surface to the application services.
//
// Handlers are transport-thin: they validate input, call application services
// through narrow interfaces, and translate results into HTTP responses
// (including conditional responses and idempotent replays).
package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/services"
	"github.com/tbourn/go-social-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ConversationService resolves and lists conversations.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ConversationService interface {
	// ResolveDirect returns the direct conversation of two users, creating it once.
	ResolveDirect(ctx context.Context, userA, userB string) (*domain.Conversation, error)
	// StartByUsername resolves the direct conversation with the user called username.
	StartByUsername(ctx context.Context, userID, username string) (*domain.Conversation, error)
	// ResolveGroup always creates a new group conversation.
	ResolveGroup(ctx context.Context, creatorID string, participantIDs []string, name string) (*domain.Conversation, error)
	// Get returns a conversation the user participates in.
	Get(ctx context.Context, id, userID string) (*domain.Conversation, error)
	// ListPage returns a page of the user's conversations and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Conversation, int64, error)
	// SetArchived archives or unarchives a conversation.
	SetArchived(ctx context.Context, id, userID string, archived bool) (*domain.Conversation, error)
}

// MessageService runs the message pipeline.
type MessageService interface {
	Send(ctx context.Context, conversationID, senderID string, in services.SendInput) (*domain.Message, error)
	MarkRead(ctx context.Context, conversationID, userID string) (int64, error)
	ListPage(ctx context.Context, conversationID, userID string, page, pageSize int) ([]domain.Message, int64, error)
	ToggleReaction(ctx context.Context, messageID, userID, emoji string) (*services.ReactionResult, error)
	Delete(ctx context.Context, messageID, userID, scope string) error
	Edit(ctx context.Context, messageID, userID, content string) (*domain.Message, error)
	Get(ctx context.Context, messageID, userID string) (*domain.Message, error)
}

// NotificationService exposes a recipient's notification feed.
type NotificationService interface {
	List(ctx context.Context, recipientID string, unreadOnly bool, page, pageSize int) (*services.NotificationPage, error)
	MarkRead(ctx context.Context, id, userID string) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id, userID string) error
	Counts(ctx context.Context, userID string) (unread, total int64, err error)
}

// UserService manages profiles.
type UserService interface {
	Create(ctx context.Context, userID, username, displayName, avatarURL string) (*domain.User, error)
	GetProfile(ctx context.Context, username string) (*services.Profile, error)
	UpdateProfile(ctx context.Context, userID string, in services.ProfileUpdate) (*domain.User, error)
	ListFollowers(ctx context.Context, username string, page, pageSize int) ([]domain.User, int64, error)
	ListFollowing(ctx context.Context, username string, page, pageSize int) ([]domain.User, int64, error)
}

// FollowService toggles follow edges.
type FollowService interface {
	Toggle(ctx context.Context, followerID, username string) (*services.FollowResult, error)
}

// TweetService manages tweets and their interactions.
type TweetService interface {
	Create(ctx context.Context, authorID string, in services.TweetInput) (*domain.Tweet, error)
	Get(ctx context.Context, id string) (*domain.Tweet, error)
	ToggleLike(ctx context.Context, tweetID, userID string) (*services.ToggleResult, error)
	ToggleRetweet(ctx context.Context, tweetID, userID string) (*services.ToggleResult, error)
	Delete(ctx context.Context, tweetID, userID string) error
	Feed(ctx context.Context, viewerID string, page, pageSize int) ([]domain.Tweet, int64, error)
	ListByUser(ctx context.Context, viewerID, username string, page, pageSize int) (*domain.User, []domain.Tweet, int64, error)
	ListCommunity(ctx context.Context, viewerID, communityID, sort string, page, pageSize int) ([]domain.Tweet, int64, error)
}

// CommunityService manages communities and memberships.
type CommunityService interface {
	Create(ctx context.Context, creatorID string, in services.CommunityInput) (*domain.Community, error)
	Get(ctx context.Context, id string) (*domain.Community, error)
	Join(ctx context.Context, communityID, userID string) (*domain.CommunityMember, error)
	Leave(ctx context.Context, communityID, userID string) error
	ListMine(ctx context.Context, userID string) ([]domain.Community, error)
	IsMember(ctx context.Context, communityID, userID string) (bool, error)
	Discover(ctx context.Context, userID string, limit int) ([]domain.Community, error)
	Categories(ctx context.Context) ([]domain.CategoryCount, error)
}

// Subscriptions hands out realtime subscribers for the event stream.
type Subscriptions interface {
	Subscribe(rooms ...string) *realtime.Subscriber
	Unsubscribe(s *realtime.Subscriber)
}

//
// Handler wiring
//

// Services bundles the dependencies of Handlers. Nil services leave their
// routes unusable; the router registers every route regardless.
type Services struct {
	Conversations ConversationService
	Messages      MessageService
	Notifications NotificationService
	Users         UserService
	Follows       FollowService
	Tweets        TweetService
	Communities   CommunityService
	Stream        Subscriptions
}

// Handlers groups the HTTP endpoints of the API.
type Handlers struct {
	convSvc   ConversationService
	msgSvc    MessageService
	notifSvc  NotificationService
	userSvc   UserService
	followSvc FollowService
	tweetSvc  TweetService
	commSvc   CommunityService
	stream    Subscriptions
}

// New constructs and returns a Handlers instance bound to the given services.
func New(s Services) *Handlers {
	return &Handlers{
		convSvc:   s.Conversations,
		msgSvc:    s.Messages,
		notifSvc:  s.Notifications,
		userSvc:   s.Users,
		followSvc: s.Follows,
		tweetSvc:  s.Tweets,
		commSvc:   s.Communities,
		stream:    s.Stream,
	}
}

// userID extracts the authenticated user id from Gin context (set by upstream
// middleware). If absent, it falls back to "X-User-ID" header (tests use it),
// and finally to "demo-user". It never touches c.Request if it's nil.
func userID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-User-ID")); h != "" {
			return h
		}
	}
	return "demo-user"
}

//
// Shared DTOs
//

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

func newPagination(page, pageSize int, total int64) Pagination {
	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
	}
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// uuidParam reads a UUID path parameter, failing the request with 400 when it
// is malformed.
func uuidParam(c *gin.Context, name, label string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, label+" id must be a UUID")
		return "", false
	}
	return id, true
}
