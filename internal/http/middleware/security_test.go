package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func serveSecured(t *testing.T, opt SecurityOptions, pre gin.HandlerFunc, h gin.HandlerFunc, req *http.Request) http.Header {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	if pre != nil {
		r.Use(pre)
	}
	r.Use(SecurityHeaders(opt))
	r.GET("/ok", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w.Header()
}

func okHandler(c *gin.Context) { c.Status(http.StatusOK) }

func TestSecurityHeaders_Baseline(t *testing.T) {
	h := serveSecured(t, SecurityOptions{}, nil, okHandler, httptest.NewRequest(http.MethodGet, "/ok", nil))

	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	for _, k := range []string{"Permissions-Policy", "Cache-Control", "Pragma", "Strict-Transport-Security", "Access-Control-Expose-Headers"} {
		if h.Get(k) != "" {
			t.Fatalf("unexpected %s: %q", k, h.Get(k))
		}
	}
}

func TestSecurityHeaders_ExposeMerge(t *testing.T) {
	withRID := func(existing string) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Header("X-Request-ID", "rid-1")
			if existing != "" {
				c.Header("Access-Control-Expose-Headers", existing)
			}
			c.Next()
		}
	}
	opt := SecurityOptions{Expose: []string{"ETag", "Idempotency-Replayed"}}

	tests := []struct {
		name, existing, want string
	}{
		{"empty", "", "X-Request-ID, ETag, Idempotency-Replayed"},
		{"appends missing", "Content-Length", "Content-Length, X-Request-ID, ETag, Idempotency-Replayed"},
		{"no duplicates, case-insensitive", "etag, X-Request-ID", "etag, X-Request-ID, Idempotency-Replayed"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := serveSecured(t, opt, withRID(tc.existing), okHandler, httptest.NewRequest(http.MethodGet, "/ok", nil))
			if got := h.Get("Access-Control-Expose-Headers"); got != tc.want {
				t.Fatalf("expose = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestSecurityHeaders_CacheControl(t *testing.T) {
	t.Run("default keeps revalidation possible", func(t *testing.T) {
		h := serveSecured(t, SecurityOptions{CacheControl: DefaultCacheControl}, nil, okHandler,
			httptest.NewRequest(http.MethodGet, "/ok", nil))
		if h.Get("Cache-Control") != "private, no-cache" || h.Get("Pragma") != "" {
			t.Fatalf("cache headers: %#v", h)
		}
	})

	t.Run("no-store adds legacy headers", func(t *testing.T) {
		h := serveSecured(t, SecurityOptions{CacheControl: "no-store"}, nil, okHandler,
			httptest.NewRequest(http.MethodGet, "/ok", nil))
		if h.Get("Cache-Control") != "no-store" || h.Get("Pragma") != "no-cache" || h.Get("Expires") != "0" {
			t.Fatalf("cache headers: %#v", h)
		}
	})

	t.Run("handler choice wins", func(t *testing.T) {
		h := serveSecured(t, SecurityOptions{CacheControl: DefaultCacheControl}, nil,
			func(c *gin.Context) { c.Header("Cache-Control", "no-cache"); c.Status(http.StatusOK) },
			httptest.NewRequest(http.MethodGet, "/ok", nil))
		if got := h.Get("Cache-Control"); got != "no-cache" {
			t.Fatalf("Cache-Control = %q", got)
		}
	})
}

func TestSecurityHeaders_HSTS(t *testing.T) {
	opt := SecurityOptions{EnableHSTS: true, HSTSMaxAge: 24 * time.Hour, EnablePolicy: true}

	tlsReq := httptest.NewRequest(http.MethodGet, "/ok", nil)
	tlsReq.TLS = &tls.ConnectionState{}
	h := serveSecured(t, opt, nil, okHandler, tlsReq)
	if got := h.Get("Strict-Transport-Security"); got != "max-age=86400; includeSubDomains; preload" {
		t.Fatalf("HSTS = %q", got)
	}
	if h.Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("policy headers missing: %#v", h)
	}

	proxied := httptest.NewRequest(http.MethodGet, "/ok", nil)
	proxied.Header.Set("X-Forwarded-Proto", "HTTPS")
	if got := serveSecured(t, SecurityOptions{EnableHSTS: true}, nil, okHandler, proxied).Get("Strict-Transport-Security"); !strings.HasPrefix(got, "max-age=15552000") {
		t.Fatalf("proxied HSTS with default age = %q", got)
	}

	plain := httptest.NewRequest(http.MethodGet, "/ok", nil)
	if got := serveSecured(t, opt, nil, okHandler, plain).Get("Strict-Transport-Security"); got != "" {
		t.Fatalf("HSTS on plain HTTP: %q", got)
	}
}
