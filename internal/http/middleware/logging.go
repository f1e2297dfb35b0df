// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// Logging works in two layers. RequestID fixes the correlation id, then
// RequestLogger (or Logger, which also writes the access line) binds a
// zerolog.Logger carrying request_id, method and route to both the Gin context
// ("logger" key, read with LoggerFrom) and the request context, where the
// services pick it up with zerolog.Ctx. JWTAuth later re-binds it with the
// caller's user_id. Recovery turns panics into the standard 500 envelope.
//
// Order: RequestID, RequestLogger/Logger or RedactingLogger, Recovery.
package middleware

import (
	"net/http"
	"regexp"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"

	// client-supplied ids longer than this are replaced
	maxRequestIDLength = 128
	maxQueryLogLength  = 2048
)

var (
	requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:\-]+$`)
	plainMaskQuery   = lowerSet(defaultMaskQuery, nil)
)

// RequestID reuses a well-formed incoming X-Request-ID (up to 128 token
// characters) and otherwise generates a UUIDv4. The id is echoed in the
// response header and stored under the "requestID" context key.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if len(rid) > maxRequestIDLength || !requestIDPattern.MatchString(rid) {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

// bindLogger stores l as the request-scoped logger in both contexts.
func bindLogger(c *gin.Context, l zerolog.Logger) *zerolog.Logger {
	c.Set("logger", &l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
	return &l
}

// RequestLogger binds the request-scoped logger without writing an access
// log; pair it with RedactingLogger.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid, _ := c.Get(requestIDKey)
		bindLogger(c, log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Logger())
		c.Next()
	}
}

// Logger binds the request-scoped logger and writes one unredacted access
// line per request: client details, the query with credential parameters
// masked, sizes, status, latency and the authenticated user. The level is
// error for 5xx or Gin errors, warn for 4xx, info otherwise.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		rid, _ := c.Get(requestIDKey)
		query := maskQuery(c.Request.URL.RawQuery, plainMaskQuery)

		l := bindLogger(c, log.With().
			Str("request_id", asString(rid)).
			Str("method", c.Request.Method).
			Str("path", routePath(c)).
			Str("remote_ip", c.ClientIP()).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Str("query", truncate(query, maxQueryLogLength)).
			Int64("bytes_in", c.Request.ContentLength). // -1 when unknown
			Logger())

		c.Next()

		status := c.Writer.Status()
		uid, _ := c.Get("userID")
		ev := l.With().
			Str("user_id", asString(uid)).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int("bytes_out", c.Writer.Size()).
			Logger()

		switch {
		case len(c.Errors) > 0:
			ev.Error().Str("errors", c.Errors.String()).Msg("request")
		case status >= 500:
			ev.Error().Msg("request")
		case status >= 400:
			ev.Warn().Msg("request")
		default:
			ev.Info().Msg("request")
		}
	}
}

// Recovery logs a recovered panic with its stack through the request-scoped
// logger and answers with the internal_error envelope when nothing has been
// written yet. A panic after the body started only aborts.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			rid, _ := c.Get(requestIDKey)
			uid, _ := c.Get("userID")
			LoggerFrom(c).Error().
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Str("request_id", asString(rid)).
				Str("user_id", asString(uid)).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.AbortWithStatus(http.StatusInternalServerError)
				return
			}
			c.Header(requestIDHeader, asString(rid))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"request_id": asString(rid),
				"code":       "internal_error",
				"message":    "internal server error",
			})
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or a copy of the global
// logger when none was bound.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get("logger"); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

// truncate caps s at max bytes plus an ellipsis; max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
