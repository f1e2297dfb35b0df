// Package httpapi wires the HTTP transport (Gin) to application services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// CORS, security headers, idempotency, and rate limiting.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic, minimal router setup; all dependencies injected
//   - Production-ready CORS and security header posture
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tbourn/go-social-backend/docs"
	"github.com/tbourn/go-social-backend/internal/config"
	"github.com/tbourn/go-social-backend/internal/http/handlers"
	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"
)

// Deps carries the long-lived dependencies the HTTP layer is built from.
type Deps struct {
	// DB is the SQL store for users, conversations, messages, tweets,
	// communities and idempotency records.
	DB *gorm.DB
	// Notifications is the notification service shared with background jobs.
	// Nil builds one over the SQL store.
	Notifications *services.NotificationService
	// Hub fans realtime events out to /stream subscribers. Nil disables
	// realtime delivery and /stream answers 500.
	Hub *realtime.Hub
}

// NewServices builds the handler dependencies from the shared infrastructure.
func NewServices(deps Deps, cfg config.Config) handlers.Services {
	var em realtime.Emitter = realtime.Nop{}
	var stream handlers.Subscriptions
	if deps.Hub != nil {
		em = deps.Hub
		stream = deps.Hub
	}
	notifs := deps.Notifications
	if notifs == nil {
		notifs = services.NewNotificationService(repo.NewNotificationStore(deps.DB), deps.DB, em, cfg.NotificationDedupWindow)
	}
	return handlers.Services{
		Conversations: services.NewConversationService(deps.DB),
		Messages:      services.NewMessageService(deps.DB, em, cfg.MessageMaxRunes),
		Notifications: notifs,
		Users:         &services.UserService{DB: deps.DB},
		Follows:       &services.FollowService{DB: deps.DB, Notifications: notifs},
		Tweets:        &services.TweetService{DB: deps.DB, Notifications: notifs, Emitter: em, MaxContentRunes: cfg.TweetMaxRunes},
		Communities:   &services.CommunityService{DB: deps.DB, Emitter: em},
		Stream:        stream,
	}
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine. It configures observability (tracing, metrics), idempotency and rate
// limiting, CORS and security headers, health and metrics endpoints, and then
// mounts the versioned public API under /api/v*.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Request-scoped logger, then RedactingLogger (or Logger) access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter and gzip (the SSE stream is never compressed)
//  6. Metrics
//  7. CORS and Security headers
//
// The API group then runs JWTAuth (when JWT_SECRET is set), the idempotency
// validator and the rate limiter, so both key on the authenticated caller and
// replays bypass the limiter.
func RegisterRoutes(r *gin.Engine, deps Deps, cfg config.Config) {
	db := deps.DB
	r.HandleMethodNotAllowed = true

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured logging (redacted by default)
	r.Use(middleware.RequestLogger())
	if cfg.AccessLog == config.AccessLogPlain {
		r.Use(middleware.Logger())
	} else {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key", middleware.HeaderIdempotencyKey},
		}))
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	apiBase := cfg.APIBasePath // e.g. "/api/v1"
	streamPath := joinPath(apiBase, "/stream")

	// 5) Global body size limit (1 MiB) and response compression
	r.Use(limitBody(1 << 20))
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{streamPath, "/metrics"})))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics(middleware.MetricsOptions{StreamPaths: []string{streamPath}}))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) CORS posture (safe defaults: allow all if none configured)
	if len(cfg.CORS.AllowedOrigins) == 0 {
		// Force ACAO: * even for requests without an Origin header (helps tests and simple health checks).
		r.Use(func(c *gin.Context) {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowAllOrigins:  true,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "If-None-Match", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"},
			AllowCredentials: false, // must remain false with AllowAllOrigins
			MaxAge:           12 * time.Hour,
		}))
	} else {
		// Echo ACAO with the request Origin when it is in the allowlist (in addition to gin-contrib/cors).
		allowed := make(map[string]struct{}, len(cfg.CORS.AllowedOrigins))
		for _, o := range cfg.CORS.AllowedOrigins {
			allowed[o] = struct{}{}
		}
		r.Use(func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		})
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORS.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID", "If-None-Match", middleware.HeaderIdempotencyKey},
			ExposeHeaders:    []string{"X-Request-ID", "Content-Length", "ETag", "Idempotency-Replayed"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}

	// Security headers (HSTS only when enabled and request is HTTPS)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:   cfg.Security.EnableHSTS,
		HSTSMaxAge:   cfg.Security.HSTSMaxAge,
		CacheControl: middleware.DefaultCacheControl,
		EnablePolicy: true,
		Expose:       []string{"ETag", "Idempotency-Replayed"},
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	// API docs
	if cfg.SwaggerEnabled {
		docs.SwaggerInfo.BasePath = apiBase
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	// Dependency injection: services ← repo/db/hub
	h := handlers.New(NewServices(deps, cfg))

	// Public API
	api := groupWithPrefix(r, apiBase)
	api.Use(middleware.JWTAuth(middleware.JWTOptions{
		Secret: cfg.Auth.JWTSecret,
		Issuer: cfg.Auth.JWTIssuer,
	}))
	api.Use(middleware.IdempotencyValidator(
		middleware.IdempotencyOptions{MaxLen: 200},
		func(ctx context.Context, userID, conversationID, key string, now time.Time) (bool, error) {
			rec, err := repo.GetIdempotency(ctx, db, userID, conversationID, key, now)
			if err != nil || rec == nil {
				return false, nil
			}
			return true, nil
		},
	))
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	api.Use(rl.Handler())
	{
		// Users & follows
		api.POST("/users", h.CreateUser)
		api.PUT("/users/profile", h.UpdateProfile)
		api.GET("/users/:username", h.GetProfile)
		api.POST("/users/:username/follow", h.ToggleFollow)
		api.GET("/users/:username/followers", h.ListFollowers)
		api.GET("/users/:username/following", h.ListFollowing)

		// Conversations
		api.POST("/conversations", h.CreateConversation)
		api.GET("/conversations", h.ListConversations)
		api.GET("/conversations/:id", h.GetConversation)
		api.PATCH("/conversations/:id/archive", h.ArchiveConversation)

		// Messages
		api.GET("/conversations/:id/messages", h.ListMessages)
		api.POST("/conversations/:id/messages", h.SendMessage)
		api.POST("/conversations/:id/read", h.MarkConversationRead)
		api.GET("/messages/:id", h.GetMessage)
		api.PATCH("/messages/:id", h.EditMessage)
		api.DELETE("/messages/:id", h.DeleteMessage)
		api.POST("/messages/:id/reactions", h.ToggleReaction)

		// Notifications
		api.GET("/notifications", h.ListNotifications)
		api.GET("/notifications/counts", h.NotificationCounts)
		api.PUT("/notifications/read-all", h.MarkAllNotificationsRead)
		api.PUT("/notifications/:id/read", h.MarkNotificationRead)
		api.DELETE("/notifications/:id", h.DeleteNotification)

		// Tweets
		api.POST("/tweets", h.CreateTweet)
		api.GET("/tweets", h.ListTweets)
		api.GET("/tweets/user/:username", h.ListUserTweets)
		api.GET("/tweets/:id", h.GetTweet)
		api.DELETE("/tweets/:id", h.DeleteTweet)
		api.POST("/tweets/:id/like", h.LikeTweet)
		api.POST("/tweets/:id/retweet", h.RetweetTweet)

		// Communities
		api.POST("/communities", h.CreateCommunity)
		api.GET("/communities", h.ListMyCommunities)
		api.GET("/communities/discover", h.DiscoverCommunities)
		api.GET("/communities/categories", h.CommunityCategories)
		api.GET("/communities/:id", h.GetCommunity)
		api.GET("/communities/:id/posts", h.ListCommunityPosts)
		api.POST("/communities/:id/join", h.JoinCommunity)
		api.POST("/communities/:id/leave", h.LeaveCommunity)

		// Realtime
		api.GET("/stream", h.Stream)
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

// joinPath appends p to the API prefix, treating "/" (or empty) as root.
func joinPath(prefix, p string) string {
	if prefix == "" || prefix == "/" {
		return p
	}
	return prefix + p
}
