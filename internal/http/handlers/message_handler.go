// Message HTTP handlers.
//
// This file exposes REST endpoints for messages:
//   - POST   /conversations/{id}/messages  (send)
//   - GET    /conversations/{id}/messages  (list, marks the conversation read)
//   - POST   /conversations/{id}/read      (mark read)
//   - GET    /messages/{id}                (fetch one)
//   - PATCH  /messages/{id}                (edit)
//   - DELETE /messages/{id}?scope=         (delete for self or everyone)
//   - POST   /messages/{id}/reactions      (toggle a reaction)
//
// Idempotency:
// If the client supplies an Idempotency-Key header and a previous successful
// send exists for (user, conversation, key), the handler returns that recorded
// message and sets `Idempotency-Replayed: true`.
package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

// idempotencyTTL is how long a send result can be replayed.
const idempotencyTTL = 24 * time.Hour

//
// DTOs
//

// SendMessageRequest is the JSON payload of a new message. At least one of
// content, media or shared_tweet_id must be present.
type SendMessageRequest struct {
	Content       string                   `json:"content" example:"see you at 8"`
	Media         []domain.MediaAttachment `json:"media"`
	SharedTweetID *string                  `json:"shared_tweet_id" example:"0b8c1e6a-3f57-4a43-9d1f-6f0b1d2c4e5a"`
	ReplyToID     *string                  `json:"reply_to_id"`
}

// MessageResponse wraps a single message.
type MessageResponse struct {
	Message *domain.Message `json:"message"`
}

// ListMessagesResponse contains a page of messages and pagination metadata.
type ListMessagesResponse struct {
	Messages   []domain.Message `json:"messages"`
	Pagination Pagination       `json:"pagination"`
}

// MarkReadResponse reports how many messages were newly marked read.
type MarkReadResponse struct {
	Marked int64 `json:"marked"`
}

// EditMessageRequest replaces a message's content.
type EditMessageRequest struct {
	Content string `json:"content" binding:"required,min=1" example:"see you at 9"`
}

// ReactionRequest names the emoji to toggle.
type ReactionRequest struct {
	Emoji string `json:"emoji" binding:"required" example:"👍"`
}

//
// Helpers
//

// nlCollapseRE collapses runs of 3+ newlines to two, preserving paragraphs.
var nlCollapseRE = regexp.MustCompile(`\n{3,}`)

// sanitizeContent normalizes user text for consistent downstream behavior:
// CRLF and CR become LF, runs of 3+ LFs collapse to two, and surrounding
// whitespace is trimmed.
func sanitizeContent(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = nlCollapseRE.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// messagesETag fingerprints a listed page as the caller sees it: ids, update
// times, reactions and read receipts.
func messagesETag(convID string, page, pageSize int, total int64, items []domain.Message) string {
	h := fnv.New64a()
	for _, m := range items {
		fmt.Fprintf(h, "%s:%d:%d:%d;", m.ID, m.UpdatedAt.UnixNano(), len(m.Reactions), len(m.ReadBy))
	}
	return fmt.Sprintf(`W/"messages:%s:%d:%d:%d:%x"`, convID, page, pageSize, total, h.Sum64())
}

//
// Handlers
//

// SendMessage godoc
// @ID          sendMessage
// @Summary     Send a message
// @Description Appends a message to the conversation, bumps the other participants' unread counters and emits new-message.
// @Description Supports idempotency via the Idempotency-Key header (same key → same result).
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID        header  string  false "User ID (demo header)"  example(user123)
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries (UUID recommended)"  example(7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab)
// @Param       id               path    string  true  "Conversation ID (UUID)"  format(uuid)
// @Param       body             body    handlers.SendMessageRequest  true  "Message payload"
//
// @Success     201  {object}  handlers.MessageResponse  "Created message"
// @Failure     400  {object}  handlers.ErrorResponse    "Invalid message"
// @Failure     404  {object}  handlers.ErrorResponse    "Conversation not found"
// @Failure     500  {object}  handlers.ErrorResponse    "Internal error"
// @Router      /conversations/{id}/messages [post]
func (h *Handlers) SendMessage(c *gin.Context) {
	ctx := c.Request.Context()
	convID, valid := uuidParam(c, "id", "conversation")
	if !valid {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	currentUser := userID(c)

	// Idempotency (replay path) – read validated key if present.
	idemKey, _ := middleware.GetIdempotencyKey(c)
	svc, isConcrete := h.msgSvc.(*services.MessageService)
	if idemKey != "" && isConcrete && svc.DB != nil {
		if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, convID, idemKey, time.Now().UTC()); err == nil && rec != nil {
			if prev, err2 := h.msgSvc.Get(ctx, rec.MessageID, currentUser); err2 == nil {
				c.Header("Idempotency-Replayed", "true")
				ok(c, rec.Status, MessageResponse{Message: prev})
				return
			}
		}
	}

	m, err := h.msgSvc.Send(ctx, convID, currentUser, services.SendInput{
		Content:       sanitizeContent(req.Content),
		Media:         req.Media,
		SharedTweetID: req.SharedTweetID,
		ReplyToID:     req.ReplyToID,
	})
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}

	// Idempotency (store path) – best effort.
	if idemKey != "" && isConcrete && svc.DB != nil {
		_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, convID, idemKey, m.ID, http.StatusCreated, idempotencyTTL)
	}

	ok(c, http.StatusCreated, MessageResponse{Message: m})
}

// ListMessages godoc
// @ID          listMessages
// @Summary     List messages in a conversation
// @Description Returns a page of visible messages in chronological order and marks the conversation read for the caller.
// @Description Pages count from the newest message. Supports weak ETag via If-None-Match.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       id             path    string  true  "Conversation ID (UUID)"      format(uuid)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListMessagesResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations/{id}/messages [get]
func (h *Handlers) ListMessages(c *gin.Context) {
	convID, valid := uuidParam(c, "id", "conversation")
	if !valid {
		return
	}
	page, pageSize := clampPagination(c)

	// Listing has a read side effect, so the ETag is computed afterwards.
	items, total, err := h.msgSvc.ListPage(c.Request.Context(), convID, userID(c), page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if checkETag(c, messagesETag(convID, page, pageSize, total, items)) {
		return
	}
	ok(c, http.StatusOK, ListMessagesResponse{
		Messages:   items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// MarkConversationRead godoc
// @ID          markConversationRead
// @Summary     Mark a conversation read
// @Description Records read receipts for every unread message from others and resets the caller's unread counter.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Conversation ID (UUID)" format(uuid)
//
// @Success     200  {object} handlers.MarkReadResponse
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Router      /conversations/{id}/read [post]
func (h *Handlers) MarkConversationRead(c *gin.Context) {
	convID, valid := uuidParam(c, "id", "conversation")
	if !valid {
		return
	}
	n, err := h.msgSvc.MarkRead(c.Request.Context(), convID, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, MarkReadResponse{Marked: n})
}

// GetMessage godoc
// @ID          getMessage
// @Summary     Get a message
// @Description Deleted-for-everyone messages are returned redacted.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Message ID (UUID)"      format(uuid)
//
// @Success     200  {object} handlers.MessageResponse
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Router      /messages/{id} [get]
func (h *Handlers) GetMessage(c *gin.Context) {
	id, valid := uuidParam(c, "id", "message")
	if !valid {
		return
	}
	m, err := h.msgSvc.Get(c.Request.Context(), id, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: m})
}

// EditMessage godoc
// @ID          editMessage
// @Summary     Edit a message
// @Description Only the sender may edit a live message.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Message ID (UUID)"      format(uuid)
// @Param       body       body    handlers.EditMessageRequest  true  "New content"
//
// @Success     200  {object} handlers.MessageResponse
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     403  {object} handlers.ErrorResponse "Not the sender"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Router      /messages/{id} [patch]
func (h *Handlers) EditMessage(c *gin.Context) {
	id, valid := uuidParam(c, "id", "message")
	if !valid {
		return
	}
	var req EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	m, err := h.msgSvc.Edit(c.Request.Context(), id, userID(c), sanitizeContent(req.Content))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, MessageResponse{Message: m})
}

// DeleteMessage godoc
// @ID          deleteMessage
// @Summary     Delete a message
// @Description scope=self hides the message for the caller; scope=everyone (sender only) tombstones it for all.
// @Tags        Messages
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Message ID (UUID)"      format(uuid)
// @Param       scope      query   string  false "self or everyone"       Enums(self, everyone) default(self)
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Invalid scope"
// @Failure     403  {object} handlers.ErrorResponse "Not the sender"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Router      /messages/{id} [delete]
func (h *Handlers) DeleteMessage(c *gin.Context) {
	id, valid := uuidParam(c, "id", "message")
	if !valid {
		return
	}
	scope := c.DefaultQuery("scope", services.DeleteForSelf)
	if err := h.msgSvc.Delete(c.Request.Context(), id, userID(c), scope); err != nil {
		writeServiceError(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}

// ToggleReaction godoc
// @ID          toggleReaction
// @Summary     Toggle a reaction
// @Description Adds the caller's emoji reaction when absent, removes it when present.
// @Tags        Messages
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Message ID (UUID)"      format(uuid)
// @Param       body       body    handlers.ReactionRequest  true  "Emoji"
//
// @Success     200  {object} services.ReactionResult
// @Failure     400  {object} handlers.ErrorResponse "Invalid emoji"
// @Failure     404  {object} handlers.ErrorResponse "Message not found"
// @Router      /messages/{id}/reactions [post]
func (h *Handlers) ToggleReaction(c *gin.Context) {
	id, valid := uuidParam(c, "id", "message")
	if !valid {
		return
	}
	var req ReactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "emoji required")
		return
	}
	res, err := h.msgSvc.ToggleReaction(c.Request.Context(), id, userID(c), req.Emoji)
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, res)
}
