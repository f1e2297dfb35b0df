// Package domain defines the persistence models for conversations, messages,
// reactions, and read/delete state. These types are mapped with GORM and form
// the core data layer of the social backend.
package domain

import (
	"time"
)

// Message types stored in Message.MessageType.
const (
	MessageTypeText       = "text"
	MessageTypeImage      = "image"
	MessageTypeVideo      = "video"
	MessageTypeGIF        = "gif"
	MessageTypeFile       = "file"
	MessageTypeTweetShare = "tweet_share"
)

// Conversation is a direct (two-party) or group communication channel.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - PairKey: canonical sorted participant pair for direct conversations;
//     NULL for groups. The unique index is the authoritative dedup guard.
//   - LastMessageID / LastActivityAt: denormalized pointers for listing.
//   - Archived: conversations are archived, never hard-deleted.
type Conversation struct {
	ID             string     `json:"id"               gorm:"type:char(36);primaryKey"`
	IsGroup        bool       `json:"is_group"         gorm:"not null;default:false"`
	GroupName      string     `json:"group_name,omitempty" gorm:"type:varchar(100)"`
	PairKey        *string    `json:"-"                gorm:"type:varchar(160);uniqueIndex:ux_conversation_pair"`
	LastMessageID  *string    `json:"last_message_id,omitempty" gorm:"type:char(36)"`
	LastActivityAt time.Time  `json:"last_activity_at" gorm:"not null;index:idx_conversation_activity"`
	Archived       bool       `json:"archived"         gorm:"not null;default:false"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	Participants []ConversationParticipant `json:"participants,omitempty" gorm:"foreignKey:ConversationID;references:ID;constraint:OnDelete:CASCADE"`
	LastMessage  *Message                  `json:"last_message,omitempty" gorm:"-"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }

// UnreadFor returns userID's unread counter, or 0 when userID is not a
// participant.
func (c *Conversation) UnreadFor(userID string) int {
	for _, p := range c.Participants {
		if p.UserID == userID {
			return p.UnreadCount
		}
	}
	return 0
}

// ConversationParticipant is the membership row of a user in a conversation.
// UnreadCount is the per-participant unread counter, mutated only through
// targeted increments and resets.
type ConversationParticipant struct {
	ConversationID string    `json:"conversation_id" gorm:"type:char(36);primaryKey"`
	UserID         string    `json:"user_id"         gorm:"type:varchar(64);primaryKey;index:idx_participant_user"`
	UnreadCount    int       `json:"unread_count"    gorm:"not null;default:0;check:unread_count >= 0"`
	JoinedAt       time.Time `json:"joined_at"`

	// User is attached by the service layer; users are reference data.
	User *User `json:"user,omitempty" gorm:"-"`
}

// TableName returns the database table name for ConversationParticipant.
func (ConversationParticipant) TableName() string { return "conversation_participants" }

// MediaAttachment is one ordered media item of a message.
type MediaAttachment struct {
	Type     string            `json:"type"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Message is one unit of communication inside a conversation.
//
// Fields:
//   - ID: time-ordered UUIDv7, used as the stable tie-break in listings.
//   - Content: optional text, redacted when deleted for everyone.
//   - Media: ordered attachments serialized as JSON.
//   - IsDeleted / DeletedAt: tombstone visible to all participants.
//   - OriginalContent: content before the first edit; never serialized.
type Message struct {
	ID              string            `json:"id"              gorm:"type:char(36);primaryKey"`
	ConversationID  string            `json:"conversation_id" gorm:"type:char(36);not null;index:idx_conversation_msgs,priority:1"`
	SenderID        string            `json:"sender_id"       gorm:"type:varchar(64);not null;index"`
	Content         string            `json:"content"         gorm:"type:text;not null;default:''"`
	MessageType     string            `json:"message_type"    gorm:"type:varchar(16);not null;default:'text'"`
	Media           []MediaAttachment `json:"media,omitempty" gorm:"serializer:json"`
	SharedTweetID   *string           `json:"shared_tweet_id,omitempty" gorm:"type:char(36)"`
	ReplyToID       *string           `json:"reply_to_id,omitempty"     gorm:"type:char(36)"`
	IsEdited        bool              `json:"is_edited"       gorm:"not null;default:false"`
	EditedAt        *time.Time        `json:"edited_at,omitempty"`
	OriginalContent string            `json:"-"               gorm:"type:text"`
	IsDeleted       bool              `json:"is_deleted"      gorm:"not null;default:false;index"`
	DeletedAt       *time.Time        `json:"deleted_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at"      gorm:"index:idx_conversation_msgs,priority:2"`
	UpdatedAt       time.Time         `json:"updated_at"`

	Conversation Conversation      `json:"-" gorm:"foreignKey:ConversationID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Sender       *User             `json:"sender,omitempty"    gorm:"-"`
	Reactions    []MessageReaction `json:"reactions"           gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:CASCADE"`
	ReadBy       []MessageRead     `json:"read_by"             gorm:"foreignKey:MessageID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the database table name for Message.
func (Message) TableName() string { return "messages" }

// MessageReaction is one (user, emoji) reaction on a message; unique per triple.
type MessageReaction struct {
	ID        string    `json:"-"          gorm:"type:char(36);primaryKey"`
	MessageID string    `json:"message_id" gorm:"type:char(36);not null;uniqueIndex:ux_reaction_message_user_emoji,priority:1"`
	UserID    string    `json:"user_id"    gorm:"type:varchar(64);not null;uniqueIndex:ux_reaction_message_user_emoji,priority:2"`
	Emoji     string    `json:"emoji"      gorm:"type:varchar(64);not null;uniqueIndex:ux_reaction_message_user_emoji,priority:3"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for MessageReaction.
func (MessageReaction) TableName() string { return "message_reactions" }

// MessageRead is a read receipt of a message by one user.
type MessageRead struct {
	MessageID string    `json:"-"       gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:varchar(64);primaryKey"`
	ReadAt    time.Time `json:"read_at"`
}

// TableName returns the database table name for MessageRead.
func (MessageRead) TableName() string { return "message_reads" }

// MessageDeletion hides a message from a single user's view.
type MessageDeletion struct {
	MessageID string    `gorm:"type:char(36);primaryKey"`
	UserID    string    `gorm:"type:varchar(64);primaryKey"`
	DeletedAt time.Time `gorm:"not null"`
}

// TableName returns the database table name for MessageDeletion.
func (MessageDeletion) TableName() string { return "message_deletions" }
