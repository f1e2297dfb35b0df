// Realtime stream handler.
//
//   - GET /stream?community=<id>  (Server-Sent Events)
//
// The caller always joins their private user room. Community rooms are joined
// only for communities the caller belongs to; other ids are ignored.
package handlers

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/realtime"
)

// streamHeartbeat is the interval of keep-alive comments on idle streams.
var streamHeartbeat = 25 * time.Second

// Stream godoc
// @ID          stream
// @Summary     Subscribe to realtime events
// @Description Server-Sent Events. Each event's name is the realtime event (new-message, messages-read, ...) and its data the JSON payload.
// @Tags        Realtime
// @Produce     text/event-stream
//
// @Param       X-User-ID  header  string  false "User ID (demo header)"        example(user123)
// @Param       community  query   []string false "Community rooms to join"     collectionFormat(multi)
//
// @Success     200  {string} string "event stream"
// @Failure     500  {object} handlers.ErrorResponse "Stream unavailable"
// @Router      /stream [get]
func (h *Handlers) Stream(c *gin.Context) {
	if h.stream == nil {
		fail(c, http.StatusInternalServerError, ErrCodeStreamFailed, "realtime stream unavailable")
		return
	}
	ctx := c.Request.Context()
	uid := userID(c)
	lg := middleware.LoggerFrom(c)

	rooms := []string{realtime.UserRoom(uid)}
	for _, id := range c.QueryArray("community") {
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		if h.commSvc == nil {
			break
		}
		member, err := h.commSvc.IsMember(ctx, id, uid)
		if err != nil {
			lg.Warn().Err(err).Str("community_id", id).Msg("stream membership check failed")
			continue
		}
		if member {
			rooms = append(rooms, realtime.CommunityRoom(id))
		}
	}

	sub := h.stream.Subscribe(rooms...)
	defer h.stream.Unsubscribe(sub)
	lg.Debug().Strs("rooms", sub.Rooms()).Msg("stream opened")

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	// The server write timeout would cut the stream.
	if err := http.NewResponseController(c.Writer).SetWriteDeadline(time.Time{}); err != nil {
		lg.Debug().Err(err).Msg("stream write deadline not cleared")
	}

	ticker := time.NewTicker(streamHeartbeat)
	defer ticker.Stop()

	c.SSEvent("ready", gin.H{"rooms": sub.Rooms()})
	c.Writer.Flush()

	c.Stream(func(w io.Writer) bool {
		select {
		case ev, open := <-sub.C:
			if !open {
				// Dropped for falling behind; the client reconnects.
				return false
			}
			c.SSEvent(ev.Name, ev)
			return true
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			return true
		case <-ctx.Done():
			return false
		}
	})
	lg.Debug().Msg("stream closed")
}
