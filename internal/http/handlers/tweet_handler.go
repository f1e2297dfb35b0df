// Tweet HTTP handlers.
//
//   - POST   /tweets                  (create, reply, quote or community post)
//   - GET    /tweets                  (public timeline, paginated)
//   - GET    /tweets/user/{username}  (a user's tweets, paginated)
//   - GET    /tweets/{id}             (fetch)
//   - DELETE /tweets/{id}             (author only)
//   - POST   /tweets/{id}/like        (toggle like)
//   - POST   /tweets/{id}/retweet     (toggle retweet)
//
// Listings attach each author and the caller's is_liked / is_retweeted flags,
// and answer If-None-Match with 304 when the page fingerprint is unchanged.
package handlers

import (
	"context"
	"fmt"
	"hash/fnv"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/services"
)

// CreateTweetRequest is the JSON payload of a new tweet.
type CreateTweetRequest struct {
	Content     string  `json:"content" binding:"required" example:"shipping the new feed today @bob"`
	ReplyToID   *string `json:"reply_to_id"`
	QuoteOfID   *string `json:"quote_of_id"`
	CommunityID *string `json:"community_id"`
}

// ListTweetsResponse is a page of tweets.
type ListTweetsResponse struct {
	Tweets     []domain.Tweet `json:"tweets"`
	Pagination Pagination     `json:"pagination"`
}

// UserTweetsResponse is a page of one user's tweets.
type UserTweetsResponse struct {
	User       *domain.User   `json:"user"`
	Tweets     []domain.Tweet `json:"tweets"`
	Pagination Pagination     `json:"pagination"`
}

// tweetsETag fingerprints a tweet page as the caller sees it, counters and
// own interactions included.
func tweetsETag(scope string, page, pageSize int, total int64, items []domain.Tweet) string {
	h := fnv.New64a()
	for _, t := range items {
		fmt.Fprintf(h, "%s:%d:%d:%d:%d:%t:%t;", t.ID, t.UpdatedAt.UnixNano(),
			t.LikesCount, t.RetweetsCount, t.RepliesCount, t.IsLiked, t.IsRetweeted)
	}
	return fmt.Sprintf(`W/"tweets:%s:%d:%d:%d:%x"`, scope, page, pageSize, total, h.Sum64())
}

// CreateTweet godoc
// @ID          createTweet
// @Summary     Post a tweet
// @Description Replies notify the parent author, quotes the quoted author, and @mentions each mentioned user.
// @Tags        Tweets
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateTweetRequest  true  "Tweet"
//
// @Success     201  {object} domain.Tweet
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     403  {object} handlers.ErrorResponse "Not a community member"
// @Failure     404  {object} handlers.ErrorResponse "Referenced tweet not found"
// @Router      /tweets [post]
func (h *Handlers) CreateTweet(c *gin.Context) {
	var req CreateTweetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	t, err := h.tweetSvc.Create(c.Request.Context(), userID(c), services.TweetInput{
		Content:     sanitizeContent(req.Content),
		ReplyToID:   req.ReplyToID,
		QuoteOfID:   req.QuoteOfID,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, t)
}

// GetTweet godoc
// @ID          getTweet
// @Summary     Get a tweet
// @Tags        Tweets
// @Produce     json
//
// @Param       id  path  string  true  "Tweet ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Tweet
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id} [get]
func (h *Handlers) GetTweet(c *gin.Context) {
	id, valid := uuidParam(c, "id", "tweet")
	if !valid {
		return
	}
	t, err := h.tweetSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, t)
}

// DeleteTweet godoc
// @ID          deleteTweet
// @Summary     Delete a tweet
// @Tags        Tweets
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Tweet ID (UUID)"        format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Not the author"
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id} [delete]
func (h *Handlers) DeleteTweet(c *gin.Context) {
	id, valid := uuidParam(c, "id", "tweet")
	if !valid {
		return
	}
	if err := h.tweetSvc.Delete(c.Request.Context(), id, userID(c)); err != nil {
		writeServiceError(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}

// LikeTweet godoc
// @ID          likeTweet
// @Summary     Like or unlike a tweet
// @Tags        Tweets
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Tweet ID (UUID)"        format(uuid)
//
// @Success     200  {object} services.ToggleResult
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id}/like [post]
func (h *Handlers) LikeTweet(c *gin.Context) {
	h.toggleTweet(c, h.tweetSvc.ToggleLike)
}

// RetweetTweet godoc
// @ID          retweetTweet
// @Summary     Retweet or undo a retweet
// @Tags        Tweets
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Tweet ID (UUID)"        format(uuid)
//
// @Success     200  {object} services.ToggleResult
// @Failure     404  {object} handlers.ErrorResponse "Tweet not found"
// @Router      /tweets/{id}/retweet [post]
func (h *Handlers) RetweetTweet(c *gin.Context) {
	h.toggleTweet(c, h.tweetSvc.ToggleRetweet)
}

func (h *Handlers) toggleTweet(c *gin.Context, toggle func(ctx context.Context, tweetID, userID string) (*services.ToggleResult, error)) {
	id, valid := uuidParam(c, "id", "tweet")
	if !valid {
		return
	}
	res, err := toggle(c.Request.Context(), id, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// ListTweets godoc
// @ID          listTweets
// @Summary     Public timeline (paginated)
// @Description Live tweets outside private communities, newest first. Supports weak ETag via If-None-Match.
// @Tags        Tweets
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTweetsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /tweets [get]
func (h *Handlers) ListTweets(c *gin.Context) {
	uid := userID(c)
	page, pageSize := clampPagination(c)
	items, total, err := h.tweetSvc.Feed(c.Request.Context(), uid, page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if checkETag(c, tweetsETag("feed:"+uid, page, pageSize, total, items)) {
		return
	}
	ok(c, http.StatusOK, ListTweetsResponse{Tweets: items, Pagination: newPagination(page, pageSize, total)})
}

// ListUserTweets godoc
// @ID          listUserTweets
// @Summary     A user's tweets (paginated)
// @Tags        Tweets
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       username       path    string  true  "Username"                    example(alice)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.UserTweetsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /tweets/user/{username} [get]
func (h *Handlers) ListUserTweets(c *gin.Context) {
	uid := userID(c)
	page, pageSize := clampPagination(c)
	author, items, total, err := h.tweetSvc.ListByUser(c.Request.Context(), uid, c.Param("username"), page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if checkETag(c, tweetsETag("user:"+author.ID+":"+uid, page, pageSize, total, items)) {
		return
	}
	ok(c, http.StatusOK, UserTweetsResponse{
		User:       author,
		Tweets:     items,
		Pagination: newPagination(page, pageSize, total),
	})
}
