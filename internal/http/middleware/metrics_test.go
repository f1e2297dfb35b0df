package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetrics_RouteLabelsAndUnmatched(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(MetricsOptions{}))
	r.GET("/conversations/:id/messages", func(c *gin.Context) { c.String(http.StatusOK, "[]") })
	r.DELETE("/messages/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	const route = "/conversations/:id/messages"
	baseOK := testutil.ToFloat64(httpReqs.WithLabelValues("GET", route, "200"))
	baseMiss := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404"))
	baseDel := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/messages/:id", "204"))

	for _, tc := range []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/conversations/c1/messages", http.StatusOK},
		{http.MethodGet, "/conversations/c2/messages", http.StatusOK},
		{http.MethodGet, "/messages/3f1c/unknown", http.StatusNotFound},
		{http.MethodDelete, "/messages/m1", http.StatusNoContent},
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tc.method, tc.path, nil))
		if w.Code != tc.want {
			t.Fatalf("%s %s -> %d, want %d", tc.method, tc.path, w.Code, tc.want)
		}
	}

	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", route, "200")); got != baseOK+2 {
		t.Fatalf("route counter = %v, want %v", got, baseOK+2)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", unmatchedPath, "404")); got != baseMiss+1 {
		t.Fatalf("unmatched counter = %v, want %v", got, baseMiss+1)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("DELETE", "/messages/:id", "204")); got != baseDel+1 {
		t.Fatalf("delete counter = %v, want %v", got, baseDel+1)
	}
	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("inflight = %v, want 0", got)
	}
}

func TestMetrics_StreamPathsUseStreamGauge(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Metrics(MetricsOptions{StreamPaths: []string{"/stream"}}))

	var openDuring, inflightDuring float64
	r.GET("/stream", func(c *gin.Context) {
		openDuring = testutil.ToFloat64(httpStreams)
		inflightDuring = testutil.ToFloat64(httpInflight)
		c.Status(http.StatusOK)
	})

	base := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/stream", "200"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/stream", nil))

	if openDuring != 1 || inflightDuring != 0 {
		t.Fatalf("during stream: open=%v inflight=%v", openDuring, inflightDuring)
	}
	if got := testutil.ToFloat64(httpStreams); got != 0 {
		t.Fatalf("streams open after return = %v", got)
	}
	if got := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/stream", "200")); got != base+1 {
		t.Fatalf("stream request not counted: %v", got)
	}
}
