package services

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/realtime"
)

// Realtime event names.
const (
	EventNewMessage         = "new-message"
	EventMessageReaction    = "message-reaction"
	EventMessageDeleted     = "message-deleted"
	EventMessagesRead       = "messages-read"
	EventMessageEdited      = "message-edited"
	EventNewCommunityMember = "new-community-member"
	EventNewReply           = "new-reply"
	EventNewMention         = "new-mention"
	EventNewLike            = "new-like"
	EventNewRetweet         = "new-retweet"
	EventNewFollower        = "new-follower"
	EventNewCommunityTweet  = "new-community-tweet"
	EventNewQuote           = "new-quote"
)

// Reaction actions reported by ToggleReaction.
const (
	ReactionAdded   = "add"
	ReactionRemoved = "remove"
)

// NewMessagePayload is sent with EventNewMessage.
type NewMessagePayload struct {
	ConversationID string          `json:"conversationId"`
	Message        *domain.Message `json:"message"`
	Sender         *domain.User    `json:"sender,omitempty"`
}

// ReactionPayload is sent with EventMessageReaction.
type ReactionPayload struct {
	MessageID string `json:"messageId"`
	UserID    string `json:"userId"`
	Emoji     string `json:"emoji"`
	Action    string `json:"action"`
}

// MessageDeletedPayload is sent with EventMessageDeleted.
type MessageDeletedPayload struct {
	MessageID      string `json:"messageId"`
	ConversationID string `json:"conversationId"`
}

// MessagesReadPayload is sent with EventMessagesRead.
type MessagesReadPayload struct {
	ConversationID string `json:"conversationId"`
	UserID         string `json:"userId"`
	Count          int64  `json:"count"`
}

// MessageEditedPayload is sent with EventMessageEdited.
type MessageEditedPayload struct {
	ConversationID string          `json:"conversationId"`
	Message        *domain.Message `json:"message"`
}

// InteractionPayload is sent with the single-recipient interaction events
// (new-like, new-retweet, new-reply, new-quote, new-mention, new-follower).
type InteractionPayload struct {
	Type         string               `json:"type"`
	Actor        *domain.User         `json:"actor,omitempty"`
	SubjectID    *string              `json:"subjectId,omitempty"`
	Notification *domain.Notification `json:"notification"`
}

// CommunityMemberPayload is sent with EventNewCommunityMember.
type CommunityMemberPayload struct {
	CommunityID string       `json:"communityId"`
	UserID      string       `json:"userId"`
	User        *domain.User `json:"user,omitempty"`
}

// CommunityTweetPayload is sent with EventNewCommunityTweet.
type CommunityTweetPayload struct {
	CommunityID string        `json:"communityId"`
	Tweet       *domain.Tweet `json:"tweet"`
}

// emitToUsers sends one event to the private room of every user in ids
// except skip.
func emitToUsers(ctx context.Context, em realtime.Emitter, ids []string, skip, event string, payload any) {
	if em == nil {
		return
	}
	for _, id := range ids {
		if id == skip {
			continue
		}
		em.Emit(ctx, realtime.UserRoom(id), event, payload)
	}
	zerolog.Ctx(ctx).Debug().Str("event", event).Int("targets", len(ids)).Msg("realtime intent")
}
