// Community HTTP handlers.
//
//   - POST /communities              (create; the caller becomes creator)
//   - GET  /communities              (communities the caller belongs to)
//   - GET  /communities/discover     (public communities the caller has not joined)
//   - GET  /communities/categories   (categories with community and member counts)
//   - GET  /communities/{id}         (fetch with member count)
//   - GET  /communities/{id}/posts   (posts, newest or popular first)
//   - POST /communities/{id}/join    (join)
//   - POST /communities/{id}/leave   (leave)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/services"
	"github.com/tbourn/go-social-backend/internal/utils"
)

// CreateCommunityRequest is the JSON payload of a new community.
type CreateCommunityRequest struct {
	Name        string `json:"name" binding:"required" example:"Gophers"`
	Description string `json:"description" example:"Go, mostly"`
	Category    string `json:"category" example:"technology"`
	IsPrivate   bool   `json:"is_private"`
}

// ListCommunitiesResponse wraps the caller's communities.
type ListCommunitiesResponse struct {
	Communities []domain.Community `json:"communities"`
}

// CategoriesResponse lists the categories in use.
type CategoriesResponse struct {
	Categories []domain.CategoryCount `json:"categories"`
}

// CreateCommunity godoc
// @ID          createCommunity
// @Summary     Create a community
// @Description Names are unique case-insensitively; the category defaults to general.
// @Tags        Communities
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateCommunityRequest  true  "Community"
//
// @Success     201  {object} domain.Community
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     409  {object} handlers.ErrorResponse "Name taken"
// @Router      /communities [post]
func (h *Handlers) CreateCommunity(c *gin.Context) {
	var req CreateCommunityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "name required")
		return
	}
	cm, err := h.commSvc.Create(c.Request.Context(), userID(c), services.CommunityInput{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsPrivate:   req.IsPrivate,
	})
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, cm)
}

// ListMyCommunities godoc
// @ID          listMyCommunities
// @Summary     List the caller's communities
// @Tags        Communities
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.ListCommunitiesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /communities [get]
func (h *Handlers) ListMyCommunities(c *gin.Context) {
	items, err := h.commSvc.ListMine(c.Request.Context(), userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if items == nil {
		items = []domain.Community{}
	}
	ok(c, http.StatusOK, ListCommunitiesResponse{Communities: items})
}

// GetCommunity godoc
// @ID          getCommunity
// @Summary     Get a community
// @Tags        Communities
// @Produce     json
//
// @Param       id  path  string  true  "Community ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Community
// @Failure     404  {object} handlers.ErrorResponse "Community not found"
// @Router      /communities/{id} [get]
func (h *Handlers) GetCommunity(c *gin.Context) {
	id, valid := uuidParam(c, "id", "community")
	if !valid {
		return
	}
	cm, err := h.commSvc.Get(c.Request.Context(), id)
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, cm)
}

// JoinCommunity godoc
// @ID          joinCommunity
// @Summary     Join a community
// @Description Staff members receive new-community-member.
// @Tags        Communities
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Community ID (UUID)"    format(uuid)
//
// @Success     201  {object} domain.CommunityMember
// @Failure     404  {object} handlers.ErrorResponse "Community not found"
// @Failure     409  {object} handlers.ErrorResponse "Already a member"
// @Router      /communities/{id}/join [post]
func (h *Handlers) JoinCommunity(c *gin.Context) {
	id, valid := uuidParam(c, "id", "community")
	if !valid {
		return
	}
	m, err := h.commSvc.Join(c.Request.Context(), id, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusCreated, m)
}

// LeaveCommunity godoc
// @ID          leaveCommunity
// @Summary     Leave a community
// @Description The creator cannot leave.
// @Tags        Communities
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       id         path    string  true  "Community ID (UUID)"    format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Creator cannot leave"
// @Failure     404  {object} handlers.ErrorResponse "Not a member"
// @Router      /communities/{id}/leave [post]
func (h *Handlers) LeaveCommunity(c *gin.Context) {
	id, valid := uuidParam(c, "id", "community")
	if !valid {
		return
	}
	if err := h.commSvc.Leave(c.Request.Context(), id, userID(c)); err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	noContent(c)
}

// DiscoverCommunities godoc
// @ID          discoverCommunities
// @Summary     Recommend communities
// @Description Public communities the caller has not joined, largest first.
// @Tags        Communities
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       limit      query   int     false "Maximum results"        minimum(1) maximum(50) default(10)
//
// @Success     200  {object} handlers.ListCommunitiesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /communities/discover [get]
func (h *Handlers) DiscoverCommunities(c *gin.Context) {
	limit := utils.AtoiDefault(c.Query("limit"), 10)
	items, err := h.commSvc.Discover(c.Request.Context(), userID(c), limit)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListCommunitiesResponse{Communities: items})
}

// CommunityCategories godoc
// @ID          communityCategories
// @Summary     Community categories with counts
// @Tags        Communities
// @Produce     json
//
// @Success     200  {object} handlers.CategoriesResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /communities/categories [get]
func (h *Handlers) CommunityCategories(c *gin.Context) {
	items, err := h.commSvc.Categories(c.Request.Context())
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, CategoriesResponse{Categories: items})
}

// ListCommunityPosts godoc
// @ID          listCommunityPosts
// @Summary     Community posts (paginated)
// @Description Private communities require membership. Supports weak ETag via If-None-Match.
// @Tags        Communities
// @Produce     json
//
// @Param       X-User-ID      header  string  false "User ID (demo header)"       example(user123)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       id             path    string  true  "Community ID (UUID)"         format(uuid)
// @Param       sort           query   string  false "Order"                       Enums(newest, popular) default(newest)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListTweetsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Invalid sort"
// @Failure     403  {object} handlers.ErrorResponse "Private community"
// @Failure     404  {object} handlers.ErrorResponse "Community not found"
// @Router      /communities/{id}/posts [get]
func (h *Handlers) ListCommunityPosts(c *gin.Context) {
	id, valid := uuidParam(c, "id", "community")
	if !valid {
		return
	}
	uid := userID(c)
	sort := c.Query("sort")
	page, pageSize := clampPagination(c)
	items, total, err := h.tweetSvc.ListCommunity(c.Request.Context(), uid, id, sort, page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if checkETag(c, tweetsETag("community:"+id+":"+sort+":"+uid, page, pageSize, total, items)) {
		return
	}
	ok(c, http.StatusOK, ListTweetsResponse{Tweets: items, Pagination: newPagination(page, pageSize, total)})
}
