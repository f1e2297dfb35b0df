package domain

import "time"

// Notification types.
const (
	NotificationLike    = "like"
	NotificationRetweet = "retweet"
	NotificationReply   = "reply"
	NotificationFollow  = "follow"
	NotificationMention = "mention"
	NotificationQuote   = "quote"
)

// Notification is a single interaction event surfaced to a recipient. It is
// mapped both by GORM (SQL store) and by BSON (document store).
//
// Invariants:
//   - RecipientID != SenderID.
//   - No two rows with the same (recipient, sender, type, subject) are created
//     within the dedup window.
type Notification struct {
	ID          string     `json:"id"                   gorm:"type:char(36);primaryKey"                               bson:"_id"`
	RecipientID string     `json:"recipient_id"         gorm:"type:varchar(64);not null;index:idx_notif_dedup,priority:1;index:idx_notif_recipient,priority:1" bson:"recipient_id"`
	SenderID    string     `json:"sender_id"            gorm:"type:varchar(64);not null;index:idx_notif_dedup,priority:2" bson:"sender_id"`
	Type        string     `json:"type"                 gorm:"type:varchar(16);not null;index:idx_notif_dedup,priority:3" bson:"type"`
	SubjectID   *string    `json:"subject_id,omitempty" gorm:"type:char(36);index:idx_notif_dedup,priority:4"  bson:"subject_id,omitempty"`
	Message     string     `json:"message"              gorm:"type:varchar(255);not null"                      bson:"message"`
	IsRead      bool       `json:"is_read"              gorm:"not null;default:false"                          bson:"is_read"`
	ReadAt      *time.Time `json:"read_at,omitempty"                                                           bson:"read_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"           gorm:"not null;index:idx_notif_dedup,priority:5;index:idx_notif_recipient,priority:2" bson:"created_at"`
}

// TableName returns the database table name for Notification.
func (Notification) TableName() string { return "notifications" }

// notificationMessages maps a notification type to its display text.
var notificationMessages = map[string]string{
	NotificationLike:    "liked your tweet",
	NotificationRetweet: "retweeted your tweet",
	NotificationReply:   "replied to your tweet",
	NotificationFollow:  "started following you",
	NotificationMention: "mentioned you in a tweet",
	NotificationQuote:   "quoted your tweet",
}

// NotificationMessage returns the display text for a notification type.
// Unknown types get a generic message.
func NotificationMessage(typ string) string {
	if m, ok := notificationMessages[typ]; ok {
		return m
	}
	return "interacted with your content"
}
