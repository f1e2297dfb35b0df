package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"gorm.io/gorm"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/observability"
	"github.com/tbourn/go-social-backend/internal/realtime"
	"github.com/tbourn/go-social-backend/internal/repo"
)

type msgFixture struct {
	db    *gorm.DB
	rec   *recorder
	convs *ConversationService
	msgs  *MessageService
}

func newMsgFixture(t *testing.T, users ...string) *msgFixture {
	t.Helper()
	db := newSvcDB(t)
	seedUsers(t, db, users...)
	rec := &recorder{}
	return &msgFixture{
		db:    db,
		rec:   rec,
		convs: NewConversationService(db),
		msgs:  NewMessageService(db, rec, 0),
	}
}

func (f *msgFixture) direct(t *testing.T, a, b string) *domain.Conversation {
	t.Helper()
	c, err := f.convs.ResolveDirect(context.Background(), a, b)
	if err != nil {
		t.Fatalf("ResolveDirect: %v", err)
	}
	return c
}

func (f *msgFixture) send(t *testing.T, convID, sender, content string) *domain.Message {
	t.Helper()
	m, err := f.msgs.Send(context.Background(), convID, sender, SendInput{Content: content})
	if err != nil {
		t.Fatalf("Send: %v", err)
	}
	return m
}

// ---------- ResolveDirect / ResolveGroup ----------

func TestResolveDirect_IsIdempotentAndOrderIndependent(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()

	c1 := f.direct(t, "alice", "bob")
	c2 := f.direct(t, "bob", "alice")
	if c1.ID != c2.ID {
		t.Fatalf("expected same conversation, got %s and %s", c1.ID, c2.ID)
	}
	if c1.IsGroup || len(c1.Participants) != 2 {
		t.Fatalf("unexpected conversation: %+v", c1)
	}
	for _, p := range c1.Participants {
		if p.UnreadCount != 0 || p.User == nil {
			t.Fatalf("participant not initialized: %+v", p)
		}
	}

	n, _ := repo.CountConversations(ctx, f.db, "alice")
	if n != 1 {
		t.Fatalf("alice has %d conversations; want 1", n)
	}
}

func TestResolveDirect_RejectsSelf(t *testing.T) {
	f := newMsgFixture(t, "alice")
	_, err := f.convs.ResolveDirect(context.Background(), "alice", "alice")
	if !errors.Is(err, ErrSelfConversation) || !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrSelfConversation, got %v", err)
	}
}

func TestResolveDirect_ExistingRowWins(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()

	// A concurrent request already created the pair.
	key := PairKey("bob", "alice")
	winner := &domain.Conversation{ID: "winner", PairKey: &key}
	if err := repo.CreateConversation(ctx, f.db, winner, []string{"alice", "bob"}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	got := f.direct(t, "bob", "alice")
	if got.ID != "winner" {
		t.Fatalf("expected winner, got %s", got.ID)
	}
}

func TestResolveDirect_UnknownUser(t *testing.T) {
	f := newMsgFixture(t, "alice")
	ctx := context.Background()

	_, err := f.convs.ResolveDirect(ctx, "alice", "ghost")
	if !errors.Is(err, ErrUserNotFound) || !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	var n int64
	f.db.Model(&domain.Conversation{}).Count(&n)
	var parts int64
	f.db.Model(&domain.ConversationParticipant{}).Where("user_id = ?", "ghost").Count(&parts)
	if n != 0 || parts != 0 {
		t.Fatalf("conversations=%d ghost participants=%d; want none", n, parts)
	}
}

func TestResolveDirect_ConcurrentInsertCollapses(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	// no default transaction, so the competing insert below commits on its own
	convs := NewConversationService(f.db.Session(&gorm.Session{SkipDefaultTransaction: true}))

	key := PairKey("alice", "bob")
	fired := false
	err := f.db.Callback().Create().Before("gorm:create").Register("test:competing_pair", func(tx *gorm.DB) {
		if _, ok := tx.Statement.Model.(*domain.Conversation); !ok || fired {
			return
		}
		fired = true
		winner := &domain.Conversation{ID: "winner", PairKey: &key}
		if err := repo.CreateConversation(ctx, f.db, winner, []string{"alice", "bob"}); err != nil {
			t.Errorf("competing insert: %v", err)
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}
	before := testutil.ToFloat64(observability.ConversationConflicts)

	got, err := convs.ResolveDirect(ctx, "bob", "alice")
	if err != nil {
		t.Fatalf("ResolveDirect: %v", err)
	}
	if !fired {
		t.Fatalf("competing insert never ran")
	}
	if got.ID != "winner" || len(got.Participants) != 2 {
		t.Fatalf("expected the committed row, got %+v", got)
	}
	var n int64
	f.db.Model(&domain.Conversation{}).Where("pair_key = ?", key).Count(&n)
	if n != 1 {
		t.Fatalf("%d conversations for %s; want 1", n, key)
	}
	if after := testutil.ToFloat64(observability.ConversationConflicts); after != before+1 {
		t.Fatalf("conflict counter %v -> %v", before, after)
	}
}

func TestStartByUsername(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()

	c, err := f.convs.StartByUsername(ctx, "alice", "@BOB")
	if err != nil {
		t.Fatalf("StartByUsername: %v", err)
	}
	if c.PairKey == nil || *c.PairKey != "alice:bob" {
		t.Fatalf("pair key = %v", c.PairKey)
	}
	if _, err := f.convs.StartByUsername(ctx, "alice", "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestResolveGroup_AlwaysCreates(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "carol")
	ctx := context.Background()

	g1, err := f.convs.ResolveGroup(ctx, "alice", []string{"bob", "carol", "bob", " "}, "  team  chat ")
	if err != nil {
		t.Fatalf("ResolveGroup: %v", err)
	}
	g2, err := f.convs.ResolveGroup(ctx, "alice", []string{"bob", "carol"}, "team chat")
	if err != nil {
		t.Fatalf("ResolveGroup #2: %v", err)
	}
	if g1.ID == g2.ID {
		t.Fatalf("groups must never be deduplicated")
	}
	if !g1.IsGroup || g1.GroupName != "team chat" || len(g1.Participants) != 3 {
		t.Fatalf("unexpected group: %+v", g1)
	}

	if _, err := f.convs.ResolveGroup(ctx, "alice", []string{"bob"}, ""); !errors.Is(err, ErrTooFewParticipants) {
		t.Fatalf("expected ErrTooFewParticipants, got %v", err)
	}
	if _, err := f.convs.ResolveGroup(ctx, "alice", []string{"bob", "ghost"}, ""); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

// ---------- Send / MarkRead ----------

func TestSendAndMarkRead_AliceToBob(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")

	m := f.send(t, c.ID, "alice", "  hi  ")
	if m.Content != "hi" || m.MessageType != domain.MessageTypeText || m.Sender == nil || m.Sender.Username != "alice" {
		t.Fatalf("unexpected message: %+v", m)
	}
	if unreadOf(t, f.db, c.ID, "alice") != 0 || unreadOf(t, f.db, c.ID, "bob") != 1 {
		t.Fatalf("unread after send: alice=%d bob=%d", unreadOf(t, f.db, c.ID, "alice"), unreadOf(t, f.db, c.ID, "bob"))
	}

	got, _ := repo.GetConversation(ctx, f.db, c.ID)
	if got.LastMessageID == nil || *got.LastMessageID != m.ID {
		t.Fatalf("conversation not pointed at last message: %+v", got.LastMessageID)
	}

	evs := f.rec.byEvent(EventNewMessage)
	if len(evs) != 1 || evs[0].Room != realtime.UserRoom("bob") {
		t.Fatalf("new-message intents: %+v", evs)
	}
	if p, ok := evs[0].Payload.(NewMessagePayload); !ok || p.ConversationID != c.ID || p.Message.ID != m.ID {
		t.Fatalf("payload: %+v", evs[0].Payload)
	}

	n, err := f.msgs.MarkRead(ctx, c.ID, "bob")
	if err != nil || n != 1 {
		t.Fatalf("MarkRead: n=%d err=%v", n, err)
	}
	if unreadOf(t, f.db, c.ID, "bob") != 0 {
		t.Fatalf("bob unread not reset")
	}
	stored, _ := repo.GetMessage(ctx, f.db, m.ID)
	if len(stored.ReadBy) != 1 || stored.ReadBy[0].UserID != "bob" {
		t.Fatalf("read receipts: %+v", stored.ReadBy)
	}
	if evs := f.rec.byEvent(EventMessagesRead); len(evs) != 1 || evs[0].Room != realtime.UserRoom("alice") {
		t.Fatalf("messages-read intents: %+v", evs)
	}

	// Idempotent.
	n, err = f.msgs.MarkRead(ctx, c.ID, "bob")
	if err != nil || n != 0 {
		t.Fatalf("second MarkRead: n=%d err=%v", n, err)
	}
	if evs := f.rec.byEvent(EventMessagesRead); len(evs) != 1 {
		t.Fatalf("no intent expected for a no-op read, got %d", len(evs))
	}
}

func TestSend_Validation(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "mallory")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	f.msgs.MaxContentRunes = 5

	cases := []struct {
		name string
		in   SendInput
		want error
	}{
		{"empty", SendInput{Content: "   "}, ErrInvalidMessage},
		{"blank shared id", SendInput{SharedTweetID: sp(" ")}, ErrInvalidMessage},
		{"too long", SendInput{Content: "abcdef"}, ErrContentTooLong},
		{"bad media type", SendInput{Media: []domain.MediaAttachment{{Type: "pdf", URL: "u"}}}, ErrInvalidMedia},
		{"media without url", SendInput{Media: []domain.MediaAttachment{{Type: "image"}}}, ErrInvalidMedia},
		{"too many media", SendInput{Media: []domain.MediaAttachment{
			{Type: "image", URL: "1"}, {Type: "image", URL: "2"}, {Type: "image", URL: "3"},
			{Type: "image", URL: "4"}, {Type: "image", URL: "5"},
		}}, ErrTooManyAttachments},
		{"missing tweet", SendInput{SharedTweetID: sp("nope")}, ErrTweetNotFound},
		{"bad reply", SendInput{Content: "x", ReplyToID: sp("nope")}, ErrInvalidReplyTarget},
	}
	for _, tc := range cases {
		if _, err := f.msgs.Send(ctx, c.ID, "alice", tc.in); !errors.Is(err, tc.want) {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}

	// Non-participants cannot tell the conversation exists.
	if _, err := f.msgs.Send(ctx, c.ID, "mallory", SendInput{Content: "hey"}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-participant: expected NotFound, got %v", err)
	}
	if _, err := f.msgs.Send(ctx, "missing", "alice", SendInput{Content: "hey"}); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("missing conversation: expected ErrConversationNotFound, got %v", err)
	}
}

func TestSend_ReplyMustStayInConversation(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "carol")
	ctx := context.Background()
	ab := f.direct(t, "alice", "bob")
	ac := f.direct(t, "alice", "carol")

	other := f.send(t, ac.ID, "alice", "elsewhere")
	if _, err := f.msgs.Send(ctx, ab.ID, "alice", SendInput{Content: "re", ReplyToID: &other.ID}); !errors.Is(err, ErrInvalidReplyTarget) {
		t.Fatalf("cross-conversation reply: %v", err)
	}
	local := f.send(t, ab.ID, "bob", "question")
	m, err := f.msgs.Send(ctx, ab.ID, "alice", SendInput{Content: "answer", ReplyToID: &local.ID})
	if err != nil || m.ReplyToID == nil || *m.ReplyToID != local.ID {
		t.Fatalf("reply: m=%+v err=%v", m, err)
	}
}

func TestSend_DerivesMessageType(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")

	if err := repo.CreateTweet(ctx, f.db, &domain.Tweet{ID: "t1", AuthorID: "bob", Content: "tweet"}); err != nil {
		t.Fatalf("seed tweet: %v", err)
	}

	shared, err := f.msgs.Send(ctx, c.ID, "alice", SendInput{SharedTweetID: sp("t1")})
	if err != nil || shared.MessageType != domain.MessageTypeTweetShare {
		t.Fatalf("tweet share: %+v err=%v", shared, err)
	}
	media, err := f.msgs.Send(ctx, c.ID, "alice", SendInput{Media: []domain.MediaAttachment{
		{Type: " GIF ", URL: " https://x/y.gif "},
		{Type: "image", URL: "https://x/z.png"},
	}})
	if err != nil || media.MessageType != domain.MessageTypeGIF || media.Media[0].URL != "https://x/y.gif" {
		t.Fatalf("media: %+v err=%v", media, err)
	}
}

func TestSend_SucceedsWhenUnreadUpdateFails(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")

	// Fail every update of participant rows from now on.
	_ = f.db.Callback().Update().Before("gorm:update").Register("test:fail_participants", func(tx *gorm.DB) {
		if tx.Statement.Table == "conversation_participants" {
			_ = tx.AddError(errors.New("injected failure"))
		}
	})

	m, err := f.msgs.Send(ctx, c.ID, "alice", SendInput{Content: "durable"})
	if err != nil {
		t.Fatalf("Send should succeed, got %v", err)
	}
	if _, err := repo.GetMessage(ctx, f.db, m.ID); err != nil {
		t.Fatalf("message not persisted: %v", err)
	}
	if unreadOf(t, f.db, c.ID, "bob") != 0 {
		t.Fatalf("counter should have missed the increment")
	}

	// The recount restores the counter.
	_ = f.db.Callback().Update().Remove("test:fail_participants")
	if _, err := repo.RecountUnread(ctx, f.db); err != nil {
		t.Fatalf("RecountUnread: %v", err)
	}
	if unreadOf(t, f.db, c.ID, "bob") != 1 {
		t.Fatalf("recount did not repair unread")
	}
}

// ---------- ListPage ----------

func TestListPage_ChronologicalAndReadOnView(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	f.msgs.Now = func() time.Time { tick++; return base.Add(time.Duration(tick) * time.Second) }

	var ids []string
	for _, s := range []string{"one", "two", "three"} {
		ids = append(ids, f.send(t, c.ID, "alice", s).ID)
	}

	items, total, err := f.msgs.ListPage(ctx, c.ID, "bob", 1, 2)
	if err != nil || total != 3 || len(items) != 2 {
		t.Fatalf("ListPage: len=%d total=%d err=%v", len(items), total, err)
	}
	// Page 1 holds the two newest, oldest first.
	if items[0].ID != ids[1] || items[1].ID != ids[2] {
		t.Fatalf("page order: %s,%s; want %s,%s", items[0].ID, items[1].ID, ids[1], ids[2])
	}
	if items[0].Sender == nil || items[0].Sender.ID != "alice" {
		t.Fatalf("sender not attached")
	}
	if unreadOf(t, f.db, c.ID, "bob") != 0 {
		t.Fatalf("listing should mark the conversation read")
	}

	page2, _, _ := f.msgs.ListPage(ctx, c.ID, "bob", 2, 2)
	if len(page2) != 1 || page2[0].ID != ids[0] {
		t.Fatalf("page 2: %+v", page2)
	}

	if _, _, err := f.msgs.ListPage(ctx, c.ID, "mallory", 1, 10); !errors.Is(err, ErrNotFound) {
		t.Fatalf("non-participant: %v", err)
	}
}

func TestListPage_SameTimestampKeepsInsertionOrder(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")

	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	f.msgs.Now = func() time.Time { return fixed }

	var ids []string
	for i := 0; i < 4; i++ {
		ids = append(ids, f.send(t, c.ID, "bob", "same").ID)
	}
	items, _, err := f.msgs.ListPage(ctx, c.ID, "alice", 1, 10)
	if err != nil {
		t.Fatalf("ListPage: %v", err)
	}
	for i := range ids {
		if items[i].ID != ids[i] {
			t.Fatalf("position %d: got %s want %s", i, items[i].ID, ids[i])
		}
	}
}

// ---------- Reactions ----------

func TestToggleReaction_TwiceRestoresState(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "hi")
	f.rec.reset()

	res, err := f.msgs.ToggleReaction(ctx, m.ID, "bob", "👍")
	if err != nil || res.Action != ReactionAdded || len(res.Reactions) != 1 {
		t.Fatalf("add: %+v err=%v", res, err)
	}
	res, err = f.msgs.ToggleReaction(ctx, m.ID, "bob", " 👍 ")
	if err != nil || res.Action != ReactionRemoved || len(res.Reactions) != 0 {
		t.Fatalf("remove: %+v err=%v", res, err)
	}

	evs := f.rec.byEvent(EventMessageReaction)
	if len(evs) != 2 || evs[0].Room != realtime.UserRoom("alice") {
		t.Fatalf("reaction intents: %+v", evs)
	}
	if p := evs[1].Payload.(ReactionPayload); p.Action != ReactionRemoved || p.Emoji != "👍" {
		t.Fatalf("payload: %+v", p)
	}
}

func TestToggleReaction_Validation(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "mallory")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "hi")

	if _, err := f.msgs.ToggleReaction(ctx, m.ID, "bob", " "); !errors.Is(err, ErrInvalidEmoji) {
		t.Fatalf("blank emoji: %v", err)
	}
	if _, err := f.msgs.ToggleReaction(ctx, m.ID, "bob", strings.Repeat("x", 17)); !errors.Is(err, ErrInvalidEmoji) {
		t.Fatalf("long emoji: %v", err)
	}
	if _, err := f.msgs.ToggleReaction(ctx, m.ID, "mallory", "👍"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("non-participant: %v", err)
	}
	if _, err := f.msgs.ToggleReaction(ctx, "missing", "bob", "👍"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("missing message: %v", err)
	}
}

// ---------- Delete ----------

func TestDelete_Everyone(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "oops")

	if err := f.msgs.Delete(ctx, m.ID, "bob", DeleteForEveryone); !errors.Is(err, ErrNotSender) || !errors.Is(err, ErrForbidden) {
		t.Fatalf("non-sender: %v", err)
	}
	if err := f.msgs.Delete(ctx, m.ID, "alice", DeleteForEveryone); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	for _, viewer := range []string{"alice", "bob"} {
		got, err := f.msgs.Get(ctx, m.ID, viewer)
		if err != nil || !got.IsDeleted || got.Content != "" {
			t.Fatalf("%s sees %+v err=%v", viewer, got, err)
		}
		items, _, _ := f.msgs.ListPage(ctx, c.ID, viewer, 1, 10)
		if len(items) != 0 {
			t.Fatalf("tombstone listed for %s", viewer)
		}
	}
	evs := f.rec.byEvent(EventMessageDeleted)
	if len(evs) != 1 || evs[0].Room != realtime.UserRoom("bob") {
		t.Fatalf("message-deleted intents: %+v", evs)
	}
	if err := f.msgs.Delete(ctx, m.ID, "alice", DeleteForEveryone); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("deleting a tombstone: %v", err)
	}
}

func TestDelete_SelfHidesOnlyForCaller(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "hello")

	if err := f.msgs.Delete(ctx, m.ID, "bob", DeleteForSelf); err != nil {
		t.Fatalf("Delete self: %v", err)
	}
	if items, _, _ := f.msgs.ListPage(ctx, c.ID, "bob", 1, 10); len(items) != 0 {
		t.Fatalf("bob still sees the message")
	}
	items, _, _ := f.msgs.ListPage(ctx, c.ID, "alice", 1, 10)
	if len(items) != 1 || items[0].Content != "hello" {
		t.Fatalf("alice view changed: %+v", items)
	}
	if _, err := f.msgs.Get(ctx, m.ID, "bob"); !errors.Is(err, ErrMessageNotFound) {
		t.Fatalf("Get after self delete: %v", err)
	}

	// Once every participant deleted it, the message becomes a tombstone.
	if err := f.msgs.Delete(ctx, m.ID, "alice", DeleteForSelf); err != nil {
		t.Fatalf("Delete self (alice): %v", err)
	}
	stored, _ := repo.GetMessage(ctx, f.db, m.ID)
	if !stored.IsDeleted || stored.Content != "hello" {
		t.Fatalf("expected promoted, unredacted tombstone: %+v", stored)
	}
}

func TestDelete_InvalidScope(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "x")
	if err := f.msgs.Delete(context.Background(), m.ID, "alice", "all"); !errors.Is(err, ErrInvalidDeleteScope) {
		t.Fatalf("expected ErrInvalidDeleteScope, got %v", err)
	}
}

// ---------- Edit / Get ----------

func TestEdit(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "v1")

	if _, err := f.msgs.Edit(ctx, m.ID, "bob", "hijack"); !errors.Is(err, ErrNotSender) {
		t.Fatalf("non-sender edit: %v", err)
	}
	if _, err := f.msgs.Edit(ctx, m.ID, "alice", "  "); !errors.Is(err, ErrEmptyEdit) {
		t.Fatalf("empty edit: %v", err)
	}

	if _, err := f.msgs.Edit(ctx, m.ID, "alice", "v2"); err != nil {
		t.Fatalf("first edit: %v", err)
	}
	got, err := f.msgs.Edit(ctx, m.ID, "alice", "v3")
	if err != nil {
		t.Fatalf("second edit: %v", err)
	}
	if got.Content != "v3" || !got.IsEdited || got.EditedAt == nil || got.OriginalContent != "v1" {
		t.Fatalf("edit state: %+v", got)
	}
	if evs := f.rec.byEvent(EventMessageEdited); len(evs) != 2 || evs[0].Room != realtime.UserRoom("bob") {
		t.Fatalf("message-edited intents: %+v", evs)
	}
}

func TestGet_HidesFromNonParticipants(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "mallory")
	ctx := context.Background()
	c := f.direct(t, "alice", "bob")
	m := f.send(t, c.ID, "alice", "x")

	got, err := f.msgs.Get(ctx, m.ID, "bob")
	if err != nil || got.Sender == nil {
		t.Fatalf("Get: %+v err=%v", got, err)
	}
	if _, err := f.msgs.Get(ctx, m.ID, "mallory"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("mallory: %v", err)
	}
}

// ---------- ConversationService listing ----------

func TestConversationListPage(t *testing.T) {
	f := newMsgFixture(t, "alice", "bob", "carol")
	ctx := context.Background()

	ab := f.direct(t, "alice", "bob")
	ac := f.direct(t, "alice", "carol")
	f.send(t, ac.ID, "carol", "first")
	last := f.send(t, ab.ID, "bob", "latest")

	items, total, err := f.convs.ListPage(ctx, "alice", 1, 10)
	if err != nil || total != 2 || len(items) != 2 {
		t.Fatalf("ListPage: %d/%d err=%v", len(items), total, err)
	}
	if items[0].ID != ab.ID || items[0].LastMessage == nil || items[0].LastMessage.ID != last.ID {
		t.Fatalf("most recent first with last message: %+v", items[0])
	}
	if items[0].UnreadFor("alice") != 1 {
		t.Fatalf("unread for alice = %d", items[0].UnreadFor("alice"))
	}
	if items[0].Participants[0].User == nil {
		t.Fatalf("participant users not attached")
	}

	if _, err := f.convs.Get(ctx, ab.ID, "carol"); !errors.Is(err, ErrConversationNotFound) {
		t.Fatalf("carol Get: %v", err)
	}
	archived, err := f.convs.SetArchived(ctx, ab.ID, "alice", true)
	if err != nil || !archived.Archived {
		t.Fatalf("SetArchived: %+v err=%v", archived, err)
	}
}
