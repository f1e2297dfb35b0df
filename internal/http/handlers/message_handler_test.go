package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/http/middleware"
	"github.com/tbourn/go-social-backend/internal/services"
)

type msgEnv struct {
	r    *gin.Engine
	db   *gorm.DB
	conv *domain.Conversation
}

func newMessageEnv(t *testing.T) *msgEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newHandlerDB(t, "alice", "bob", "mallory")
	convs := services.NewConversationService(db)
	conv, err := convs.ResolveDirect(context.Background(), "alice", "bob")
	if err != nil {
		t.Fatalf("ResolveDirect: %v", err)
	}
	h := New(Services{Conversations: convs, Messages: services.NewMessageService(db, nil, 0)})

	r := gin.New()
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, nil))
	r.POST("/conversations/:id/messages", h.SendMessage)
	r.GET("/conversations/:id/messages", h.ListMessages)
	r.POST("/conversations/:id/read", h.MarkConversationRead)
	r.GET("/messages/:id", h.GetMessage)
	r.PATCH("/messages/:id", h.EditMessage)
	r.DELETE("/messages/:id", h.DeleteMessage)
	r.POST("/messages/:id/reactions", h.ToggleReaction)
	return &msgEnv{r: r, db: db, conv: conv}
}

func (e *msgEnv) send(t *testing.T, user, body string, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	return do(e.r, http.MethodPost, "/conversations/"+e.conv.ID+"/messages", user, body, headers...)
}

func TestSendMessage_CreatesAndNormalizes(t *testing.T) {
	e := newMessageEnv(t)

	w := e.send(t, "alice", `{"content":"  line1\r\n\r\n\r\n\r\nline2  "}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("send -> %d body=%s", w.Code, w.Body.String())
	}
	m := decode[MessageResponse](t, w).Message
	if m.Content != "line1\n\nline2" || m.SenderID != "alice" || m.MessageType != domain.MessageTypeText {
		t.Fatalf("unexpected message: %+v", m)
	}

	w = e.send(t, "alice", `{"media":[{"type":"image","url":"https://cdn/x.png"}]}`)
	if w.Code != http.StatusCreated || decode[MessageResponse](t, w).Message.MessageType != domain.MessageTypeImage {
		t.Fatalf("media send -> %d body=%s", w.Code, w.Body.String())
	}
}

func TestSendMessage_Errors(t *testing.T) {
	e := newMessageEnv(t)

	if w := do(e.r, http.MethodPost, "/conversations/nope/messages", "alice", `{"content":"x"}`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id -> %d", w.Code)
	}
	if w := e.send(t, "alice", `{bad`); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json -> %d", w.Code)
	}

	w := e.send(t, "alice", `{"content":"   "}`)
	if w.Code != http.StatusBadRequest || decode[ErrorResponse](t, w).Code != ErrCodeInvalidMessage {
		t.Fatalf("empty -> %d body=%s", w.Code, w.Body.String())
	}
	w = e.send(t, "alice", `{"content":"`+strings.Repeat("a", services.DefaultMaxMessageRunes+1)+`"}`)
	if w.Code != http.StatusBadRequest || decode[ErrorResponse](t, w).Code != ErrCodeValidation {
		t.Fatalf("too long -> %d body=%s", w.Code, w.Body.String())
	}
	if w := e.send(t, "mallory", `{"content":"hi"}`); w.Code != http.StatusNotFound {
		t.Fatalf("outsider -> %d", w.Code)
	}
}

func TestSendMessage_IdempotentReplay(t *testing.T) {
	e := newMessageEnv(t)
	key := "7a8d9f4c-1b2a-4c3d-8e9f-0123456789ab"

	w1 := e.send(t, "alice", `{"content":"once"}`, middleware.HeaderIdempotencyKey, key)
	if w1.Code != http.StatusCreated {
		t.Fatalf("first -> %d body=%s", w1.Code, w1.Body.String())
	}
	w2 := e.send(t, "alice", `{"content":"once"}`, middleware.HeaderIdempotencyKey, key)
	if w2.Code != http.StatusCreated || w2.Header().Get("Idempotency-Replayed") != "true" {
		t.Fatalf("replay -> %d headers=%v", w2.Code, w2.Header())
	}
	if a, b := decode[MessageResponse](t, w1).Message.ID, decode[MessageResponse](t, w2).Message.ID; a != b {
		t.Fatalf("replay returned a new message: %s vs %s", a, b)
	}

	var n int64
	e.db.Model(&domain.Message{}).Where("conversation_id = ?", e.conv.ID).Count(&n)
	if n != 1 {
		t.Fatalf("messages stored = %d; want 1", n)
	}

	if w := e.send(t, "alice", `{"content":"x"}`, middleware.HeaderIdempotencyKey, "bad key!"); w.Code != http.StatusBadRequest {
		t.Fatalf("invalid key -> %d", w.Code)
	}
}

func TestListMessages_ReadOnViewAndETag(t *testing.T) {
	e := newMessageEnv(t)
	for _, c := range []string{"one", "two", "three"} {
		if w := e.send(t, "alice", `{"content":"`+c+`"}`); w.Code != http.StatusCreated {
			t.Fatalf("seed -> %d", w.Code)
		}
	}

	path := "/conversations/" + e.conv.ID + "/messages?page_size=2"
	w := do(e.r, http.MethodGet, path, "bob", "")
	if w.Code != http.StatusOK {
		t.Fatalf("list -> %d body=%s", w.Code, w.Body.String())
	}
	out := decode[ListMessagesResponse](t, w)
	if len(out.Messages) != 2 || out.Messages[0].Content != "two" || out.Messages[1].Content != "three" {
		t.Fatalf("page 1 should hold the newest two in order: %+v", out.Messages)
	}
	if out.Pagination.Total != 3 || !out.Pagination.HasNext {
		t.Fatalf("pagination: %+v", out.Pagination)
	}

	// The first view marked everything read, so the second sees receipts.
	w = do(e.r, http.MethodGet, path, "bob", "")
	out = decode[ListMessagesResponse](t, w)
	if len(out.Messages[1].ReadBy) != 1 || out.Messages[1].ReadBy[0].UserID != "bob" {
		t.Fatalf("read receipts: %+v", out.Messages[1].ReadBy)
	}
	etag := w.Header().Get("ETag")
	if w = do(e.r, http.MethodGet, path, "bob", "", "If-None-Match", etag); w.Code != http.StatusNotModified {
		t.Fatalf("expected 304, got %d", w.Code)
	}

	if w = do(e.r, http.MethodGet, path, "mallory", ""); w.Code != http.StatusNotFound {
		t.Fatalf("outsider -> %d", w.Code)
	}
}

func TestMarkConversationRead(t *testing.T) {
	e := newMessageEnv(t)
	e.send(t, "alice", `{"content":"a"}`)
	e.send(t, "alice", `{"content":"b"}`)

	w := do(e.r, http.MethodPost, "/conversations/"+e.conv.ID+"/read", "bob", "")
	if w.Code != http.StatusOK || decode[MarkReadResponse](t, w).Marked != 2 {
		t.Fatalf("read -> %d body=%s", w.Code, w.Body.String())
	}
	w = do(e.r, http.MethodPost, "/conversations/"+e.conv.ID+"/read", "bob", "")
	if decode[MarkReadResponse](t, w).Marked != 0 {
		t.Fatalf("second read should mark nothing: %s", w.Body.String())
	}
}

func TestMessageMutations(t *testing.T) {
	e := newMessageEnv(t)
	m := decode[MessageResponse](t, e.send(t, "alice", `{"content":"hello"}`)).Message
	path := "/messages/" + m.ID

	// edit: sender only
	if w := do(e.r, http.MethodPatch, path, "bob", `{"content":"hijack"}`); w.Code != http.StatusForbidden {
		t.Fatalf("edit by bob -> %d", w.Code)
	}
	w := do(e.r, http.MethodPatch, path, "alice", `{"content":"hello!"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("edit -> %d body=%s", w.Code, w.Body.String())
	}
	if got := decode[MessageResponse](t, w).Message; got.Content != "hello!" || !got.IsEdited {
		t.Fatalf("edited: %+v", got)
	}

	// reactions toggle
	w = do(e.r, http.MethodPost, path+"/reactions", "bob", `{"emoji":"👍"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("react -> %d body=%s", w.Code, w.Body.String())
	}
	if res := decode[services.ReactionResult](t, w); res.Action != services.ReactionAdded || len(res.Reactions) != 1 {
		t.Fatalf("react: %+v", res)
	}
	w = do(e.r, http.MethodPost, path+"/reactions", "bob", `{"emoji":"👍"}`)
	if res := decode[services.ReactionResult](t, w); res.Action != services.ReactionRemoved || len(res.Reactions) != 0 {
		t.Fatalf("unreact: %+v", res)
	}
	if w = do(e.r, http.MethodPost, path+"/reactions", "bob", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing emoji -> %d", w.Code)
	}

	// delete: default scope is self
	if w = do(e.r, http.MethodDelete, path+"?scope=nobody", "bob", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad scope -> %d", w.Code)
	}
	if w = do(e.r, http.MethodDelete, path, "bob", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete self -> %d body=%s", w.Code, w.Body.String())
	}
	if w = do(e.r, http.MethodGet, path, "bob", ""); w.Code != http.StatusNotFound {
		t.Fatalf("hidden for bob -> %d", w.Code)
	}
	if w = do(e.r, http.MethodGet, path, "alice", ""); w.Code != http.StatusOK {
		t.Fatalf("visible for alice -> %d", w.Code)
	}

	// delete for everyone: tombstone, redacted
	if w = do(e.r, http.MethodDelete, path+"?scope=everyone", "alice", ""); w.Code != http.StatusNoContent {
		t.Fatalf("delete everyone -> %d body=%s", w.Code, w.Body.String())
	}
	w = do(e.r, http.MethodGet, path, "alice", "")
	if got := decode[MessageResponse](t, w).Message; !got.IsDeleted || got.Content != "" {
		t.Fatalf("tombstone: %+v", got)
	}
}
