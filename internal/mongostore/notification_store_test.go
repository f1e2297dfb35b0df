package mongostore

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
	"github.com/tbourn/go-social-backend/internal/services"
)

var _ services.NotificationStore = (*NotificationStore)(nil)

func TestDedupFilter(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	f := dedupFilter("r", "s", domain.NotificationFollow, nil, since)
	if v, ok := f["subject_id"]; !ok || v != nil {
		t.Fatalf("nil subject should match missing subject, got %#v", f["subject_id"])
	}
	if got := f["created_at"].(bson.M)["$gte"]; got != since {
		t.Fatalf("created_at bound = %v", got)
	}

	subj := "t1"
	f = dedupFilter("r", "s", domain.NotificationLike, &subj, since)
	if f["subject_id"] != "t1" || f["type"] != domain.NotificationLike {
		t.Fatalf("filter = %#v", f)
	}
}

func TestRecipientFilter(t *testing.T) {
	if f := recipientFilter("r", false); len(f) != 1 {
		t.Fatalf("all: %#v", f)
	}
	if f := recipientFilter("r", true); f["is_read"] != false {
		t.Fatalf("unread: %#v", f)
	}
}

// The tests below are integration tests and need a running MongoDB.
// Set MONGODB_URI to run them.

func newTestStore(t *testing.T) *NotificationStore {
	t.Helper()
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set; skipping integration test")
	}
	ctx := context.Background()
	c, err := Connect(ctx, uri, "social_test_"+uuid.NewString()[:8])
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(func() {
		_ = c.db.Drop(context.Background())
		_ = c.Close(context.Background())
	})
	s := c.Notifications()
	if err := s.EnsureIndexes(ctx); err != nil {
		t.Fatalf("EnsureIndexes: %v", err)
	}
	return s
}

func TestNotificationStore_Mongo(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	subj := "t1"

	n := &domain.Notification{
		ID: uuid.NewString(), RecipientID: "alice", SenderID: "bob",
		Type: domain.NotificationLike, SubjectID: &subj,
		Message: domain.NotificationMessage(domain.NotificationLike), CreatedAt: base,
	}
	if err := s.Insert(ctx, n); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := s.FindRecent(ctx, "alice", "bob", domain.NotificationLike, &subj, base.Add(-time.Hour))
	if err != nil || got.ID != n.ID {
		t.Fatalf("FindRecent: %+v err=%v", got, err)
	}
	if _, err := s.FindRecent(ctx, "alice", "bob", domain.NotificationLike, nil, base.Add(-time.Hour)); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("nil subject should not match: %v", err)
	}
	if _, err := s.FindRecent(ctx, "alice", "bob", domain.NotificationLike, &subj, base.Add(time.Minute)); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("outside window should not match: %v", err)
	}

	if c, _ := s.Count(ctx, "alice", true); c != 1 {
		t.Fatalf("unread count = %d", c)
	}
	if err := s.MarkRead(ctx, n.ID, base.Add(time.Minute)); err != nil {
		t.Fatalf("MarkRead: %v", err)
	}
	if err := s.MarkRead(ctx, "missing", base); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("MarkRead missing: %v", err)
	}
	items, err := s.List(ctx, "alice", false, 0, 10)
	if err != nil || len(items) != 1 || !items[0].IsRead || items[0].ReadAt == nil {
		t.Fatalf("List: %+v err=%v", items, err)
	}

	purged, err := s.PurgeRead(ctx, base.Add(time.Hour))
	if err != nil || purged != 1 {
		t.Fatalf("PurgeRead: n=%d err=%v", purged, err)
	}
	if err := s.Delete(ctx, n.ID); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("Delete after purge: %v", err)
	}
}
