package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/tbourn/go-social-backend/internal/domain"
)

func TestUsers_CreateAndLookup(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	for _, u := range []domain.User{{ID: "u1", Username: "alice"}, {ID: "u2", Username: "bob"}} {
		u := u
		if err := CreateUser(ctx, db, &u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}
	if err := CreateUser(ctx, db, &domain.User{ID: "u3", Username: "alice"}); !IsDuplicate(err) {
		t.Fatalf("duplicate username: expected unique violation, got %v", err)
	}

	u, err := GetUserByUsername(ctx, db, "bob")
	if err != nil || u.ID != "u2" {
		t.Fatalf("GetUserByUsername: %+v err=%v", u, err)
	}
	if _, err := GetUser(ctx, db, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetUser missing: %v", err)
	}
	byID, err := GetUsersByIDs(ctx, db, []string{"u1", "u2", "ghost"})
	if err != nil || len(byID) != 2 || byID["u1"].Username != "alice" {
		t.Fatalf("GetUsersByIDs: %v err=%v", byID, err)
	}
	byName, err := GetUsersByUsernames(ctx, db, []string{"bob", "alice", "ghost"})
	if err != nil || len(byName) != 2 || byName[0].Username != "alice" {
		t.Fatalf("GetUsersByUsernames: %v err=%v", byName, err)
	}
}

func TestToggleFollow(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	following, err := ToggleFollow(ctx, db, "u1", "u2")
	if err != nil || !following {
		t.Fatalf("follow: %v %v", following, err)
	}
	if ok, _ := IsFollowing(ctx, db, "u1", "u2"); !ok {
		t.Fatalf("expected u1 → u2")
	}
	if n, _ := CountFollowers(ctx, db, "u2"); n != 1 {
		t.Fatalf("followers=%d", n)
	}
	if n, _ := CountFollowing(ctx, db, "u1"); n != 1 {
		t.Fatalf("following=%d", n)
	}
	following, err = ToggleFollow(ctx, db, "u1", "u2")
	if err != nil || following {
		t.Fatalf("unfollow: %v %v", following, err)
	}
	if n, _ := CountFollowers(ctx, db, "u2"); n != 0 {
		t.Fatalf("followers after unfollow=%d", n)
	}
}

func TestTweets_ToggleCountersAndSoftDelete(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	tw := &domain.Tweet{ID: "t1", AuthorID: "u1", Content: "hello"}
	if err := CreateTweet(ctx, db, tw); err != nil {
		t.Fatalf("CreateTweet: %v", err)
	}

	liked, n, err := ToggleLike(ctx, db, "t1", "u2")
	if err != nil || !liked || n != 1 {
		t.Fatalf("like: liked=%v n=%d err=%v", liked, n, err)
	}
	_, n, _ = ToggleLike(ctx, db, "t1", "u3")
	if n != 2 {
		t.Fatalf("likes=%d; want 2", n)
	}
	liked, n, err = ToggleLike(ctx, db, "t1", "u2")
	if err != nil || liked || n != 1 {
		t.Fatalf("unlike: liked=%v n=%d err=%v", liked, n, err)
	}

	rt, n, err := ToggleRetweet(ctx, db, "t1", "u2")
	if err != nil || !rt || n != 1 {
		t.Fatalf("retweet: rt=%v n=%d err=%v", rt, n, err)
	}

	if err := IncrementReplies(ctx, db, "t1", 1); err != nil {
		t.Fatalf("IncrementReplies: %v", err)
	}
	got, _ := GetTweet(ctx, db, "t1")
	if got.LikesCount != 1 || got.RetweetsCount != 1 || got.RepliesCount != 1 {
		t.Fatalf("counters: %+v", got)
	}

	if c, _ := CountTweets(ctx, db, "u1"); c != 1 {
		t.Fatalf("CountTweets=%d", c)
	}
	if err := SoftDeleteTweet(ctx, db, "t1"); err != nil {
		t.Fatalf("SoftDeleteTweet: %v", err)
	}
	if _, err := GetTweet(ctx, db, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted tweet still visible: %v", err)
	}
	if err := SoftDeleteTweet(ctx, db, "t1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if c, _ := CountTweets(ctx, db, "u1"); c != 0 {
		t.Fatalf("CountTweets after delete=%d", c)
	}
}

func TestCommunities_Membership(t *testing.T) {
	db := newRepoDB(t)
	ctx := context.Background()

	c := &domain.Community{ID: "k1", Name: "Gophers", NameKey: "gophers", Category: "technology", CreatorID: "u1"}
	if err := CreateCommunity(ctx, db, c); err != nil {
		t.Fatalf("CreateCommunity: %v", err)
	}
	dup := &domain.Community{ID: "k2", Name: "GOPHERS", NameKey: "gophers", Category: "technology", CreatorID: "u2"}
	if err := CreateCommunity(ctx, db, dup); !IsDuplicate(err) {
		t.Fatalf("duplicate name key: %v", err)
	}

	m, err := GetMember(ctx, db, "k1", "u1")
	if err != nil || m.Role != domain.RoleAdmin {
		t.Fatalf("creator membership: %+v err=%v", m, err)
	}
	if _, err := AddMember(ctx, db, "k1", "u2", domain.RoleMember); err != nil {
		t.Fatalf("AddMember: %v", err)
	}
	if _, err := AddMember(ctx, db, "k1", "u2", domain.RoleMember); !IsDuplicate(err) {
		t.Fatalf("duplicate member: %v", err)
	}
	if _, err := AddMember(ctx, db, "k1", "u3", domain.RoleModerator); err != nil {
		t.Fatalf("AddMember mod: %v", err)
	}

	if n, _ := CountMembers(ctx, db, "k1"); n != 3 {
		t.Fatalf("members=%d; want 3", n)
	}
	staff, _ := ListStaffIDs(ctx, db, "k1")
	if len(staff) != 2 || staff[0] != "u1" || staff[1] != "u3" {
		t.Fatalf("staff=%v", staff)
	}
	mine, _ := ListCommunitiesForUser(ctx, db, "u2")
	if len(mine) != 1 || mine[0].ID != "k1" {
		t.Fatalf("ListCommunitiesForUser=%+v", mine)
	}

	if err := RemoveMember(ctx, db, "k1", "u2"); err != nil {
		t.Fatalf("RemoveMember: %v", err)
	}
	if err := RemoveMember(ctx, db, "k1", "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("RemoveMember twice: %v", err)
	}
}
