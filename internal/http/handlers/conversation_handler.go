// Conversation HTTP handlers.
//
// This file exposes REST endpoints for conversation resources:
//   - POST   /conversations               (resolve direct or create group)
//   - GET    /conversations               (list, paginated, ETag support)
//   - GET    /conversations/{id}          (fetch one)
//   - PATCH  /conversations/{id}/archive  (archive or unarchive)
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

//
// DTOs
//

// CreateConversationRequest starts a conversation.
//
// A direct conversation is addressed by ParticipantID or Username and is
// returned as-is when it already exists. Setting IsGroup (or passing
// ParticipantIDs) always creates a new group.
type CreateConversationRequest struct {
	ParticipantID  string   `json:"participant_id" example:"user-bob"`
	Username       string   `json:"username" example:"bob"`
	IsGroup        bool     `json:"is_group"`
	ParticipantIDs []string `json:"participant_ids"`
	GroupName      string   `json:"group_name" example:"Weekend plans"`
}

// ArchiveConversationRequest toggles the archived flag.
type ArchiveConversationRequest struct {
	Archived *bool `json:"archived" binding:"required"`
}

// ListConversationsResponse wraps a page of conversations and pagination information.
type ListConversationsResponse struct {
	Conversations []domain.Conversation `json:"conversations"`
	Pagination    Pagination            `json:"pagination"`
}

//
// Handlers
//

// CreateConversation godoc
// @ID          createConversation
// @Summary     Start a conversation
// @Description Resolves the direct conversation with another user (creating it once) or creates a group.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateConversationRequest  true  "Conversation payload"
//
// @Success     200  {object}  domain.Conversation     "Direct conversation"
// @Success     201  {object}  domain.Conversation     "Group conversation"
// @Failure     400  {object}  handlers.ErrorResponse  "Validation failed"
// @Failure     404  {object}  handlers.ErrorResponse  "User not found"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /conversations [post]
func (h *Handlers) CreateConversation(c *gin.Context) {
	var req CreateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)

	if req.IsGroup || len(req.ParticipantIDs) > 0 {
		conv, err := h.convSvc.ResolveGroup(ctx, uid, req.ParticipantIDs, req.GroupName)
		if err != nil {
			writeServiceError(c, err, ErrCodeCreateFailed)
			return
		}
		ok(c, http.StatusCreated, conv)
		return
	}

	var (
		conv *domain.Conversation
		err  error
	)
	switch {
	case strings.TrimSpace(req.Username) != "":
		conv, err = h.convSvc.StartByUsername(ctx, uid, req.Username)
	case strings.TrimSpace(req.ParticipantID) != "":
		conv, err = h.convSvc.ResolveDirect(ctx, uid, strings.TrimSpace(req.ParticipantID))
	default:
		fail(c, http.StatusBadRequest, ErrCodeValidation, "participant_id, username or participant_ids required")
		return
	}
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusOK, conv)
}

// ListConversations godoc
// @ID          listConversations
// @Summary     List conversations (paginated)
// @Description Returns the caller's conversations, most recently active first. Supports weak ETag via If-None-Match.
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListConversationsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /conversations [get]
func (h *Handlers) ListConversations(c *gin.Context) {
	ctx := c.Request.Context()
	uid := userID(c)
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	var db *gorm.DB
	if svc, ok := h.convSvc.(*services.ConversationService); ok {
		db = svc.DB
	}
	if db != nil {
		count, unread, maxTS, err := repo.ConversationsStats(ctx, db, uid)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.UnixNano()
			}
			etag := fmt.Sprintf(`W/"conversations:%s:%d:%d:%d:%d:%d"`, uid, page, pageSize, count, unread, ts)
			if checkETag(c, etag) {
				return
			}
		}
	}

	items, total, err := h.convSvc.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListConversationsResponse{
		Conversations: items,
		Pagination:    newPagination(page, pageSize, total),
	})
}

// GetConversation godoc
// @ID          getConversation
// @Summary     Get a conversation
// @Tags        Conversations
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Conversation ID (UUID)" format(uuid)
//
// @Success     200  {object} domain.Conversation
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Router      /conversations/{id} [get]
func (h *Handlers) GetConversation(c *gin.Context) {
	id, valid := uuidParam(c, "id", "conversation")
	if !valid {
		return
	}
	conv, err := h.convSvc.Get(c.Request.Context(), id, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, conv)
}

// ArchiveConversation godoc
// @ID          archiveConversation
// @Summary     Archive or unarchive a conversation
// @Description Conversations are never deleted; archiving hides them from nothing but client views.
// @Tags        Conversations
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Conversation ID (UUID)" format(uuid)
// @Param       body       body    handlers.ArchiveConversationRequest  true  "Archive flag"
//
// @Success     200  {object} domain.Conversation
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Conversation not found"
// @Router      /conversations/{id}/archive [patch]
func (h *Handlers) ArchiveConversation(c *gin.Context) {
	id, valid := uuidParam(c, "id", "conversation")
	if !valid {
		return
	}
	var req ArchiveConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "archived required")
		return
	}
	conv, err := h.convSvc.SetArchived(c.Request.Context(), id, userID(c), *req.Archived)
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, conv)
}
