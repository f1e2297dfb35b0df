// User and follow HTTP handlers.
//
//   - POST /users                       (register the caller's profile)
//   - PUT  /users/profile               (update the caller's profile)
//   - GET  /users/{username}            (profile with counters)
//   - POST /users/{username}/follow     (toggle follow)
//   - GET  /users/{username}/followers  (paginated)
//   - GET  /users/{username}/following  (paginated)
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

// CreateUserRequest registers the caller's profile. The user id comes from
// the authenticated identity.
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required" example:"alice"`
	DisplayName string `json:"display_name" example:"Alice"`
	AvatarURL   string `json:"avatar_url" example:"https://cdn.example.com/a.png"`
}

// UpdateProfileRequest changes profile fields. Omitted fields are kept; an
// empty string clears an optional field.
type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" binding:"omitempty,min=1,max=50" example:"Alice L."`
	AvatarURL   *string `json:"avatar_url"   binding:"omitempty,max=512"`
	Bio         *string `json:"bio"          binding:"omitempty,max=160" example:"gopher"`
	Location    *string `json:"location"     binding:"omitempty,max=50" example:"Athens"`
	Website     *string `json:"website"      binding:"omitempty,max=100" example:"https://alice.dev"`
}

// ListUsersResponse is a page of users.
type ListUsersResponse struct {
	Users      []domain.User `json:"users"`
	Pagination Pagination    `json:"pagination"`
}

// usersETag fingerprints a page of users.
func usersETag(scope string, page, pageSize int, total int64, items []domain.User) string {
	h := fnv.New64a()
	for _, u := range items {
		fmt.Fprintf(h, "%s:%d;", u.ID, u.UpdatedAt.UnixNano())
	}
	return fmt.Sprintf(`W/"users:%s:%d:%d:%d:%x"`, scope, page, pageSize, total, h.Sum64())
}

// CreateUser godoc
// @ID          createUser
// @Summary     Register a profile
// @Description Usernames are lower-cased and must be 3-30 characters of a-z, 0-9 or _.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.CreateUserRequest  true  "Profile"
//
// @Success     201  {object} domain.User
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     409  {object} handlers.ErrorResponse "Username taken"
// @Router      /users [post]
func (h *Handlers) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "username required")
		return
	}
	u, err := h.userSvc.Create(c.Request.Context(), userID(c), req.Username, req.DisplayName, req.AvatarURL)
	if err != nil {
		writeServiceError(c, err, ErrCodeCreateFailed)
		return
	}
	ok(c, http.StatusCreated, u)
}

// GetProfile godoc
// @ID          getProfile
// @Summary     Get a profile
// @Tags        Users
// @Produce     json
//
// @Param       username  path  string  true  "Username"  example(alice)
//
// @Success     200  {object} services.Profile
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username} [get]
func (h *Handlers) GetProfile(c *gin.Context) {
	p, err := h.userSvc.GetProfile(c.Request.Context(), c.Param("username"))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, p)
}

// ToggleFollow godoc
// @ID          toggleFollow
// @Summary     Follow or unfollow a user
// @Description A new follow notifies the followee.
// @Tags        Users
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       username   path    string  true  "Username to follow"     example(bob)
//
// @Success     200  {object} services.FollowResult
// @Failure     400  {object} handlers.ErrorResponse "Cannot follow yourself"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/follow [post]
func (h *Handlers) ToggleFollow(c *gin.Context) {
	res, err := h.followSvc.Toggle(c.Request.Context(), userID(c), c.Param("username"))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, res)
}

// UpdateProfile godoc
// @ID          updateProfile
// @Summary     Update the caller's profile
// @Description Websites and avatar URLs must be absolute http(s) URLs.
// @Tags        Users
// @Accept      json
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       body       body    handlers.UpdateProfileRequest  true  "Changed fields"
//
// @Success     200  {object} domain.User
// @Failure     400  {object} handlers.ErrorResponse "Validation failed"
// @Failure     404  {object} handlers.ErrorResponse "Profile not registered"
// @Router      /users/profile [put]
func (h *Handlers) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeValidation, "invalid profile fields")
		return
	}
	u, err := h.userSvc.UpdateProfile(c.Request.Context(), userID(c), services.ProfileUpdate{
		DisplayName: req.DisplayName,
		AvatarURL:   req.AvatarURL,
		Bio:         req.Bio,
		Location:    req.Location,
		Website:     req.Website,
	})
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, u)
}

// ListFollowers godoc
// @ID          listFollowers
// @Summary     Followers of a user (paginated)
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       username       path    string  true  "Username"                    example(alice)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListUsersResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/followers [get]
func (h *Handlers) ListFollowers(c *gin.Context) {
	h.listUsers(c, "followers", h.userSvc.ListFollowers)
}

// ListFollowing godoc
// @ID          listFollowing
// @Summary     Users a user follows (paginated)
// @Tags        Users
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       username       path    string  true  "Username"                    example(alice)
// @Param       page           query   int     false "Page number"                 minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListUsersResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     404  {object} handlers.ErrorResponse "User not found"
// @Router      /users/{username}/following [get]
func (h *Handlers) ListFollowing(c *gin.Context) {
	h.listUsers(c, "following", h.userSvc.ListFollowing)
}

type usersPageFn func(ctx context.Context, username string, page, pageSize int) ([]domain.User, int64, error)

func (h *Handlers) listUsers(c *gin.Context, scope string, list usersPageFn) {
	username := c.Param("username")
	page, pageSize := clampPagination(c)
	items, total, err := list(c.Request.Context(), username, page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	if checkETag(c, usersETag(scope+":"+services.NormalizeUsername(username), page, pageSize, total, items)) {
		return
	}
	ok(c, http.StatusOK, ListUsersResponse{Users: items, Pagination: newPagination(page, pageSize, total)})
}
