// Notification HTTP handlers.
//
//   - GET    /notifications           (list, paginated, ?unread=true)
//   - GET    /notifications/counts    (unread and total)
//   - PUT    /notifications/read-all  (mark all read)
//   - PUT    /notifications/{id}/read (mark one read)
//   - DELETE /notifications/{id}      (delete)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-social-backend/internal/services"
	"github.com/tbourn/go-social-backend/internal/sysutil"
)

// ListNotificationsResponse is one page of the caller's notifications.
type ListNotificationsResponse struct {
	Notifications []services.NotificationView `json:"notifications"`
	UnreadCount   int64                       `json:"unread_count"`
	Pagination    Pagination                  `json:"pagination"`
}

// NotificationCountsResponse carries the badge counters.
type NotificationCountsResponse struct {
	Unread int64 `json:"unread"`
	Total  int64 `json:"total"`
}

// MarkAllReadResponse reports how many notifications were flipped.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List notifications
// @Description Returns the caller's notifications, newest first, each with its sender and a relative time.
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
// @Param       unread     query   bool    false "Only unread"
// @Param       page       query   int     false "Page number"     minimum(1) default(1)
// @Param       page_size  query   int     false "Items per page"  minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListNotificationsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	page, pageSize := clampPagination(c)
	unreadOnly := sysutil.IsTruthy(c.Query("unread"))

	res, err := h.notifSvc.List(c.Request.Context(), userID(c), unreadOnly, page, pageSize)
	if err != nil {
		writeServiceError(c, err, ErrCodeListFailed)
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{
		Notifications: res.Items,
		UnreadCount:   res.UnreadCount,
		Pagination:    newPagination(page, pageSize, res.Total),
	})
}

// NotificationCounts godoc
// @ID          notificationCounts
// @Summary     Notification counters
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.NotificationCountsResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/counts [get]
func (h *Handlers) NotificationCounts(c *gin.Context) {
	unread, total, err := h.notifSvc.Counts(c.Request.Context(), userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeInternal)
		return
	}
	ok(c, http.StatusOK, NotificationCountsResponse{Unread: unread, Total: total})
}

// MarkNotificationRead godoc
// @ID          markNotificationRead
// @Summary     Mark a notification read
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"   example(user123)
// @Param       id         path    string  true  "Notification ID (UUID)"  format(uuid)
//
// @Success     200  {object} domain.Notification
// @Failure     403  {object} handlers.ErrorResponse "Belongs to another user"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Router      /notifications/{id}/read [put]
func (h *Handlers) MarkNotificationRead(c *gin.Context) {
	id, valid := uuidParam(c, "id", "notification")
	if !valid {
		return
	}
	n, err := h.notifSvc.MarkRead(c.Request.Context(), id, userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, n)
}

// MarkAllNotificationsRead godoc
// @ID          markAllNotificationsRead
// @Summary     Mark every notification read
// @Tags        Notifications
// @Produce     json
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"  example(user123)
//
// @Success     200  {object} handlers.MarkAllReadResponse
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications/read-all [put]
func (h *Handlers) MarkAllNotificationsRead(c *gin.Context) {
	n, err := h.notifSvc.MarkAllRead(c.Request.Context(), userID(c))
	if err != nil {
		writeServiceError(c, err, ErrCodeUpdateFailed)
		return
	}
	ok(c, http.StatusOK, MarkAllReadResponse{Updated: n})
}

// DeleteNotification godoc
// @ID          deleteNotification
// @Summary     Delete a notification
// @Tags        Notifications
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"   example(user123)
// @Param       id         path    string  true  "Notification ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     403  {object} handlers.ErrorResponse "Belongs to another user"
// @Failure     404  {object} handlers.ErrorResponse "Notification not found"
// @Router      /notifications/{id} [delete]
func (h *Handlers) DeleteNotification(c *gin.Context) {
	id, valid := uuidParam(c, "id", "notification")
	if !valid {
		return
	}
	if err := h.notifSvc.Delete(c.Request.Context(), id, userID(c)); err != nil {
		writeServiceError(c, err, ErrCodeDeleteFailed)
		return
	}
	noContent(c)
}
