package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"golang.org/x/time/rate"
)

func TestKeyByUserOrIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	newCtx := func() *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Request.RemoteAddr = net.JoinHostPort("203.0.113.9", "12345")
		return c
	}
	key := KeyByUserOrIP()

	c := newCtx()
	if got := key(c); got != "ip:203.0.113.9" {
		t.Fatalf("anonymous key = %q", got)
	}

	c = newCtx()
	c.Request.Header.Set("X-User-ID", "  bob ")
	if got := key(c); got != "user:bob" {
		t.Fatalf("header key = %q", got)
	}

	// the authenticated identity wins over the header
	c.Set("userID", "alice")
	if got := key(c); got != "user:alice" {
		t.Fatalf("authenticated key = %q", got)
	}
}

func TestNewRateLimiter_BurstCoercion_AndReuse(t *testing.T) {
	rl := NewRateLimiter(2, 0, KeyByUserOrIP())
	if rl.burst != 1 {
		t.Fatalf("burst = %d, want 1", rl.burst)
	}
	lim := rl.getVisitor("user:alice")
	if rl.getVisitor("user:alice") != lim {
		t.Fatalf("bucket not reused")
	}
	if rl.getVisitor("user:bob") == lim {
		t.Fatalf("distinct callers share a bucket")
	}
}

func TestRateLimiter_getVisitor_EvictsIdle(t *testing.T) {
	rl := NewRateLimiter(1, 1, KeyByUserOrIP())
	rl.ttl = time.Nanosecond

	rl.mu.Lock()
	rl.visitors["user:gone"] = &visitor{limiter: rate.NewLimiter(1, 1), lastSeen: time.Now().Add(-time.Hour)}
	rl.cleanupN = 4999
	rl.mu.Unlock()

	_ = rl.getVisitor("user:new")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	if _, ok := rl.visitors["user:gone"]; ok {
		t.Fatalf("idle bucket not evicted")
	}
	if _, ok := rl.visitors["user:new"]; !ok {
		t.Fatalf("requested bucket missing")
	}
	if rl.cleanupN != 0 {
		t.Fatalf("cleanup counter not reset: %d", rl.cleanupN)
	}
}

func TestIsRateBypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if IsRateBypass(c) {
		t.Fatalf("bypass by default")
	}
	c.Set(ctxKeyRateBypass, true)
	if !IsRateBypass(c) {
		t.Fatalf("bypass flag ignored")
	}
	c.Set(ctxKeyRateBypass, "yes")
	if IsRateBypass(c) {
		t.Fatalf("non-bool flag should read as false")
	}
}

func TestRetryAfter(t *testing.T) {
	now := time.Now()
	slow := rate.NewLimiter(rate.Every(10*time.Second), 1)
	slow.AllowN(now, 1)
	if got := retryAfter(slow, now); got != 10 {
		t.Fatalf("retryAfter slow = %d, want 10", got)
	}
	// cancelled reservation leaves the bucket untouched
	if got := retryAfter(slow, now); got != 10 {
		t.Fatalf("retryAfter repeated = %d, want 10", got)
	}

	fast := rate.NewLimiter(100, 1)
	fast.AllowN(now, 1)
	if got := retryAfter(fast, now); got != 1 {
		t.Fatalf("retryAfter floor = %d, want 1", got)
	}
}

func TestRateLimiter_Handler_PerUser_And_Bypass(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rl := NewRateLimiter(1, 1, KeyByUserOrIP())

	r := gin.New()
	r.Use(RequestID())
	r.Use(func(c *gin.Context) {
		if c.GetHeader("X-Replay") != "" {
			c.Set(ctxKeyRateBypass, true)
		}
		c.Next()
	})
	r.Use(rl.Handler())
	r.POST("/conversations/:id/messages", func(c *gin.Context) { c.Status(http.StatusCreated) })

	send := func(user string, replay bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/conversations/c1/messages", nil)
		req.Header.Set("X-User-ID", user)
		if replay {
			req.Header.Set("X-Replay", "1")
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	before := testutil.ToFloat64(httpRateLimited.WithLabelValues("user"))

	if w := send("alice", false); w.Code != http.StatusCreated {
		t.Fatalf("first send -> %d", w.Code)
	}
	w := send("alice", false)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("second send -> %d", w.Code)
	}
	if got := w.Header().Get("Retry-After"); got != "1" {
		t.Fatalf("Retry-After = %q", got)
	}
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("body: %v", err)
	}
	if body["code"] != "rate_limited" || body["request_id"] == "" || body["request_id"] != w.Header().Get("X-Request-ID") {
		t.Fatalf("unexpected body: %v", body)
	}
	if got := testutil.ToFloat64(httpRateLimited.WithLabelValues("user")); got != before+1 {
		t.Fatalf("rejections = %v, want %v", got, before+1)
	}

	// other users have their own bucket; replays are never charged
	if w := send("bob", false); w.Code != http.StatusCreated {
		t.Fatalf("bob -> %d", w.Code)
	}
	if w := send("alice", true); w.Code != http.StatusCreated {
		t.Fatalf("alice replay -> %d", w.Code)
	}
}
