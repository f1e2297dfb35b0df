package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

// ---------- test DB ----------

func newHandlerDB(t *testing.T, users ...string) *gorm.DB {
	t.Helper()

	// Unique DSN per call to avoid cross-test contamination
	dsn := fmt.Sprintf("file:handlers_%s?mode=memory&cache=shared", uuid.NewString())

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.SetMaxOpenConns(1)
	}
	db.Exec("PRAGMA foreign_keys=ON;")
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	for _, u := range users {
		if err := repo.CreateUser(context.Background(), db, &domain.User{ID: u, Username: u}); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	return db
}

// ---------- request helpers ----------

func do(r http.Handler, method, path, user, body string, headers ...string) *httptest.ResponseRecorder {
	var rd io.Reader
	if body != "" {
		rd = bytes.NewBufferString(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("json: %v body=%s", err, w.Body.String())
	}
	return out
}

// ---------- helpers-only tests ----------

func Test_userID_and_clampPagination(t *testing.T) {
	gin.SetMode(gin.TestMode)

	// userID helper
	rc := gin.CreateTestContextOnly(httptest.NewRecorder(), gin.New())
	if got := userID(rc); got != "demo-user" {
		t.Fatalf("fallback userID = %q", got)
	}
	rc.Set("userID", "u1")
	if got := userID(rc); got != "u1" {
		t.Fatalf("ctx userID = %q", got)
	}
	rc.Set("userID", 123) // wrong type → fallback
	if got := userID(rc); got != "demo-user" {
		t.Fatalf("wrong-type fallback userID = %q", got)
	}

	// header fallback
	cH, _ := gin.CreateTestContext(httptest.NewRecorder())
	reqH := httptest.NewRequest("GET", "/", nil)
	reqH.Header.Set("X-User-ID", "u-123")
	cH.Request = reqH
	if got := userID(cH); got != "u-123" {
		t.Fatalf("header fallback userID = %q", got)
	}

	// clampPagination bounds
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=-5&page_size=9999", nil)
	p, ps := clampPagination(c)
	if p != 1 || ps != 100 {
		t.Fatalf("clamp bounds got p=%d ps=%d", p, ps)
	}
	c, _ = gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?page=&page_size=0", nil)
	p, ps = clampPagination(c)
	if p != 1 || ps != 1 {
		t.Fatalf("clamp defaults got p=%d ps=%d", p, ps)
	}
}

func TestNewPagination(t *testing.T) {
	p := newPagination(1, 2, 3)
	if p.TotalPages != 2 || !p.HasNext {
		t.Fatalf("page 1: %+v", p)
	}
	p = newPagination(2, 2, 3)
	if p.HasNext {
		t.Fatalf("page 2: %+v", p)
	}
	if p = newPagination(1, 20, 0); p.TotalPages != 0 || p.HasNext {
		t.Fatalf("empty: %+v", p)
	}
}

func TestWriteServiceError_Taxonomy(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrConversationNotFound, http.StatusNotFound, ErrCodeNotFound},
		{services.ErrNotSender, http.StatusForbidden, ErrCodeForbidden},
		{services.ErrInvalidMessage, http.StatusBadRequest, ErrCodeInvalidMessage},
		{services.ErrContentTooLong, http.StatusBadRequest, ErrCodeValidation},
		{services.ErrUsernameTaken, http.StatusConflict, ErrCodeConflict},
		{fmt.Errorf("wrapped: %w", services.ErrTweetNotFound), http.StatusNotFound, ErrCodeNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeCreateFailed},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/", func(c *gin.Context) { writeServiceError(c, tc.err, ErrCodeCreateFailed) })
		w := do(r, http.MethodGet, "/", "", "")
		if w.Code != tc.status {
			t.Fatalf("%v: status %d want %d", tc.err, w.Code, tc.status)
		}
		want := tc.err.Error()
		if tc.status == http.StatusInternalServerError {
			want = internalErrorMessage
		}
		if got := decode[ErrorResponse](t, w); got.Code != tc.code || got.Message != want {
			t.Fatalf("%v: body %+v", tc.err, got)
		}
	}
}

func TestUUIDParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x/:id", func(c *gin.Context) {
		if id, ok := uuidParam(c, "id", "thing"); ok {
			c.String(http.StatusOK, id)
		}
	})
	if w := do(r, http.MethodGet, "/x/nope", "", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}
	id := uuid.NewString()
	if w := do(r, http.MethodGet, "/x/"+id, "", ""); w.Code != http.StatusOK || w.Body.String() != id {
		t.Fatalf("good id -> %d %s", w.Code, w.Body.String())
	}
}
