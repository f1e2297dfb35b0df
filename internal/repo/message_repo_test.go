package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-social-backend/internal/domain"
)

func TestCreateMessage_AssignsTimeOrderedIDs(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")

	ts := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 3; i++ {
		m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "same-time", CreatedAt: ts}
		if err := CreateMessage(ctx, db, m); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
		ids = append(ids, m.ID)
	}

	page, err := ListVisibleMessagesPage(ctx, db, "c1", "bob", 0, 10)
	if err != nil {
		t.Fatalf("ListVisibleMessagesPage: %v", err)
	}
	if len(page) != 3 {
		t.Fatalf("len=%d; want 3", len(page))
	}
	// Newest first; ties on created_at fall back to id order.
	for i := range page {
		if page[i].ID != ids[len(ids)-1-i] {
			t.Fatalf("order mismatch at %d: got %s want %s", i, page[i].ID, ids[len(ids)-1-i])
		}
	}
}

func TestMessageMedia_RoundTripsAsJSON(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")

	m := &domain.Message{
		ConversationID: "c1",
		SenderID:       "alice",
		MessageType:    domain.MessageTypeImage,
		Media: []domain.MediaAttachment{
			{Type: "image", URL: "https://cdn/x.png", Metadata: map[string]string{"w": "10"}},
			{Type: "gif", URL: "https://cdn/y.gif"},
		},
	}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}
	got, err := GetMessage(ctx, db, m.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if len(got.Media) != 2 || got.Media[0].URL != "https://cdn/x.png" || got.Media[0].Metadata["w"] != "10" || got.Media[1].Type != "gif" {
		t.Fatalf("media mismatch: %+v", got.Media)
	}
}

func TestMarkMessagesRead_IdempotentAndSkipsOwn(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")

	for _, sender := range []string{"alice", "alice", "bob"} {
		if err := CreateMessage(ctx, db, &domain.Message{ConversationID: "c1", SenderID: sender, Content: "x"}); err != nil {
			t.Fatalf("CreateMessage: %v", err)
		}
	}
	n, err := MarkMessagesRead(ctx, db, "c1", "bob", time.Now().UTC())
	if err != nil || n != 2 {
		t.Fatalf("first MarkMessagesRead: n=%d err=%v; want 2", n, err)
	}
	n, err = MarkMessagesRead(ctx, db, "c1", "bob", time.Now().UTC())
	if err != nil || n != 0 {
		t.Fatalf("second MarkMessagesRead: n=%d err=%v; want 0", n, err)
	}
}

func TestToggleReaction_AddThenRemove(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")
	m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "hi"}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	added, err := ToggleReaction(ctx, db, m.ID, "bob", "👍")
	if err != nil || !added {
		t.Fatalf("first toggle: added=%v err=%v", added, err)
	}
	if _, err := ToggleReaction(ctx, db, m.ID, "alice", "👍"); err != nil {
		t.Fatalf("second user toggle: %v", err)
	}
	rs, _ := ListReactions(ctx, db, m.ID)
	if len(rs) != 2 {
		t.Fatalf("reactions=%d; want 2", len(rs))
	}

	added, err = ToggleReaction(ctx, db, m.ID, "bob", "👍")
	if err != nil || added {
		t.Fatalf("remove toggle: added=%v err=%v", added, err)
	}
	rs, _ = ListReactions(ctx, db, m.ID)
	if len(rs) != 1 || rs[0].UserID != "alice" {
		t.Fatalf("after remove: %+v", rs)
	}
}

func TestDeletions_HideForUserOnly(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")
	m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "secret"}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	now := time.Now().UTC()
	if err := AddDeletion(ctx, db, m.ID, "bob", now); err != nil {
		t.Fatalf("AddDeletion: %v", err)
	}
	// Repeat is a no-op.
	if err := AddDeletion(ctx, db, m.ID, "bob", now); err != nil {
		t.Fatalf("AddDeletion repeat: %v", err)
	}
	if n, _ := CountDeletions(ctx, db, m.ID); n != 1 {
		t.Fatalf("CountDeletions=%d; want 1", n)
	}
	if hidden, _ := IsDeletedFor(ctx, db, m.ID, "bob"); !hidden {
		t.Fatalf("expected hidden for bob")
	}
	if n, _ := CountVisibleMessages(ctx, db, "c1", "bob"); n != 0 {
		t.Fatalf("bob sees %d; want 0", n)
	}
	if n, _ := CountVisibleMessages(ctx, db, "c1", "alice"); n != 1 {
		t.Fatalf("alice sees %d; want 1", n)
	}
}

func TestMarkMessageDeleted_RedactsAndHides(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")
	m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "oops"}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := MarkMessageDeleted(ctx, db, m.ID, time.Now().UTC(), true); err != nil {
		t.Fatalf("MarkMessageDeleted: %v", err)
	}
	got, err := GetMessage(ctx, db, m.ID)
	if err != nil {
		t.Fatalf("GetMessage: %v", err)
	}
	if !got.IsDeleted || got.DeletedAt == nil || got.Content != "" {
		t.Fatalf("expected redacted tombstone, got %+v", got)
	}
	if n, _ := CountVisibleMessages(ctx, db, "c1", "bob"); n != 0 {
		t.Fatalf("tombstone visible to bob")
	}
	if err := MarkMessageDeleted(ctx, db, "missing", time.Now().UTC(), false); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateMessageContent_KeepsFirstOriginal(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")
	m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "v1"}
	if err := CreateMessage(ctx, db, m); err != nil {
		t.Fatalf("CreateMessage: %v", err)
	}

	if err := UpdateMessageContent(ctx, db, m.ID, "v2", "v1", time.Now().UTC()); err != nil {
		t.Fatalf("first edit: %v", err)
	}
	if err := UpdateMessageContent(ctx, db, m.ID, "v3", "", time.Now().UTC()); err != nil {
		t.Fatalf("second edit: %v", err)
	}
	got, _ := GetMessage(ctx, db, m.ID)
	if got.Content != "v3" || got.OriginalContent != "v1" || !got.IsEdited || got.EditedAt == nil {
		t.Fatalf("unexpected edit state: %+v", got)
	}

	_ = MarkMessageDeleted(ctx, db, m.ID, time.Now().UTC(), false)
	if err := UpdateMessageContent(ctx, db, m.ID, "v4", "", time.Now().UTC()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("editing tombstone: expected ErrNotFound, got %v", err)
	}
}

func TestGetMessagesByIDs(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()
	seedDirect(t, db, "c1", "alice", "bob")
	m := &domain.Message{ConversationID: "c1", SenderID: "alice", Content: "x"}
	_ = CreateMessage(ctx, db, m)

	got, err := GetMessagesByIDs(ctx, db, []string{m.ID, "missing"})
	if err != nil || len(got) != 1 || got[m.ID].Content != "x" {
		t.Fatalf("GetMessagesByIDs: %v %v", got, err)
	}
	empty, err := GetMessagesByIDs(ctx, db, nil)
	if err != nil || len(empty) != 0 {
		t.Fatalf("empty ids: %v %v", empty, err)
	}
}
