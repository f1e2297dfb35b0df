package domain

import "time"

// Community member roles.
const (
	RoleMember    = "member"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is the identity projection the backend needs: a stable id, a unique
// username and the public profile fields. Authentication lives elsewhere.
type User struct {
	ID          string    `json:"id"           gorm:"type:varchar(64);primaryKey"`
	Username    string    `json:"username"     gorm:"type:varchar(30);not null;uniqueIndex:ux_users_username"`
	DisplayName string    `json:"display_name" gorm:"type:varchar(50)"`
	AvatarURL   string    `json:"avatar_url,omitempty" gorm:"type:varchar(512)"`
	Bio         string    `json:"bio,omitempty"        gorm:"type:varchar(160)"`
	Location    string    `json:"location,omitempty"   gorm:"type:varchar(50)"`
	Website     string    `json:"website,omitempty"    gorm:"type:varchar(100)"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"-"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Follow is a directed follower → followee edge.
type Follow struct {
	FollowerID string    `gorm:"type:varchar(64);primaryKey"`
	FolloweeID string    `gorm:"type:varchar(64);primaryKey;index:idx_follows_followee"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the database table name for Follow.
func (Follow) TableName() string { return "follows" }

// Tweet is a short post. Counters are authoritative and maintained by atomic
// increments in the same transaction as the relation rows below.
type Tweet struct {
	ID            string    `json:"id"             gorm:"type:char(36);primaryKey"`
	AuthorID      string    `json:"author_id"      gorm:"type:varchar(64);not null;index:idx_tweets_author"`
	Content       string    `json:"content"        gorm:"type:varchar(1120);not null"`
	ReplyToID     *string   `json:"reply_to_id,omitempty"  gorm:"type:char(36);index"`
	QuoteOfID     *string   `json:"quote_of_id,omitempty"  gorm:"type:char(36)"`
	CommunityID   *string   `json:"community_id,omitempty" gorm:"type:char(36);index"`
	LikesCount    int64     `json:"likes_count"    gorm:"not null;default:0"`
	RetweetsCount int64     `json:"retweets_count" gorm:"not null;default:0"`
	RepliesCount  int64     `json:"replies_count"  gorm:"not null;default:0"`
	IsDeleted     bool      `json:"-"              gorm:"not null;default:false"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Attached per viewer by the service layer on listings.
	Author      *User `json:"author,omitempty" gorm:"-"`
	IsLiked     bool  `json:"is_liked"         gorm:"-"`
	IsRetweeted bool  `json:"is_retweeted"     gorm:"-"`
}

// TableName returns the database table name for Tweet.
func (Tweet) TableName() string { return "tweets" }

// TweetLike records that a user liked a tweet.
type TweetLike struct {
	TweetID   string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for TweetLike.
func (TweetLike) TableName() string { return "tweet_likes" }

// TweetRetweet records that a user retweeted a tweet.
type TweetRetweet struct {
	TweetID   string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for TweetRetweet.
func (TweetRetweet) TableName() string { return "tweet_retweets" }

// Community is a topic group users can join and post into.
// NameKey is the case-folded name and carries the uniqueness constraint.
type Community struct {
	ID           string    `json:"id"          gorm:"type:char(36);primaryKey"`
	Name         string    `json:"name"        gorm:"type:varchar(50);not null"`
	NameKey      string    `json:"-"           gorm:"type:varchar(200);not null;uniqueIndex:ux_communities_name_key"`
	Description  string    `json:"description" gorm:"type:varchar(500)"`
	Category     string    `json:"category"    gorm:"type:varchar(20);not null;default:'general'"`
	CreatorID    string    `json:"creator_id"  gorm:"type:varchar(64);not null"`
	IsPrivate    bool      `json:"is_private"  gorm:"not null;default:false"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	MembersCount int64     `json:"members_count" gorm:"-"`
}

// TableName returns the database table name for Community.
func (Community) TableName() string { return "communities" }

// CommunityMember is a user's membership and role in a community.
type CommunityMember struct {
	CommunityID string    `json:"community_id" gorm:"type:char(36);primaryKey"`
	UserID      string    `json:"user_id"      gorm:"type:varchar(64);primaryKey;index:idx_community_members_user"`
	Role        string    `json:"role"         gorm:"type:varchar(16);not null;default:'member'"`
	JoinedAt    time.Time `json:"joined_at"`
}

// TableName returns the database table name for CommunityMember.
func (CommunityMember) TableName() string { return "community_members" }

// CategoryCount summarizes the communities of one category.
type CategoryCount struct {
	Name           string `json:"name"`
	CommunityCount int64  `json:"community_count"`
	TotalMembers   int64  `json:"total_members"`
}
