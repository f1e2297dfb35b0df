// Package services defines the business logic for conversations, messages,
// notifications, and the social graph. This file centralizes the service-level
// error values so that they can be consistently returned by service methods
// and checked by callers.
//
// Errors form a small taxonomy. Every specific error wraps exactly one root
// (ErrNotFound, ErrForbidden, ErrInvalidMessage, ErrValidation, ErrConflict),
// so callers may test either the specific value or its root with errors.Is.
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

// Taxonomy roots.
var (
	// ErrNotFound covers absent entities and entities the caller may not see.
	// The two are intentionally indistinguishable.
	ErrNotFound = errors.New("not found")

	// ErrForbidden is returned when the caller is known but not allowed to
	// perform the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrInvalidMessage is returned when a message carries no content, no
	// media and no shared tweet.
	ErrInvalidMessage = errors.New("message must have content, media, or a shared tweet")

	// ErrValidation covers schema-level violations such as length limits.
	ErrValidation = errors.New("validation failed")

	// ErrConflict is returned when a uniqueness rule is violated.
	ErrConflict = errors.New("conflict")
)

// kindError is a specific error that wraps a taxonomy root.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }
func (e *kindError) Unwrap() error { return e.kind }

func newKind(kind error, msg string) error { return &kindError{msg: msg, kind: kind} }

// Not found.
var (
	ErrConversationNotFound = newKind(ErrNotFound, "conversation not found")
	ErrMessageNotFound      = newKind(ErrNotFound, "message not found")
	ErrUserNotFound         = newKind(ErrNotFound, "user not found")
	ErrTweetNotFound        = newKind(ErrNotFound, "tweet not found")
	ErrCommunityNotFound    = newKind(ErrNotFound, "community not found")
	ErrNotificationNotFound = newKind(ErrNotFound, "notification not found")
	ErrNotMember            = newKind(ErrNotFound, "not a member of this community")
)

// Forbidden.
var (
	ErrNotSender           = newKind(ErrForbidden, "only the sender can do this")
	ErrNotAuthor           = newKind(ErrForbidden, "only the author can do this")
	ErrNotRecipient        = newKind(ErrForbidden, "notification belongs to another user")
	ErrCreatorCannotLeave  = newKind(ErrForbidden, "the creator cannot leave the community")
	ErrCommunityMemberOnly = newKind(ErrForbidden, "only members can post in this community")
	ErrCommunityPrivate    = newKind(ErrForbidden, "private community, membership required")
)

// Validation.
var (
	ErrSelfConversation    = newKind(ErrValidation, "cannot start a conversation with yourself")
	ErrTooFewParticipants  = newKind(ErrValidation, "a group needs at least 3 participants")
	ErrContentTooLong      = newKind(ErrValidation, "content too long")
	ErrInvalidMedia        = newKind(ErrValidation, "invalid media attachment")
	ErrTooManyAttachments  = newKind(ErrValidation, "too many media attachments")
	ErrInvalidReplyTarget  = newKind(ErrValidation, "reply target is not in this conversation")
	ErrInvalidEmoji        = newKind(ErrValidation, "emoji must be 1 to 16 characters")
	ErrInvalidDeleteScope  = newKind(ErrValidation, "scope must be self or everyone")
	ErrInvalidUsername     = newKind(ErrValidation, "username must be 3-30 characters of a-z, 0-9 or _")
	ErrSelfFollow          = newKind(ErrValidation, "cannot follow yourself")
	ErrInvalidTweet        = newKind(ErrValidation, "tweet content must be 1-280 characters")
	ErrInvalidCommunity    = newKind(ErrValidation, "community name must be 3-50 characters")
	ErrInvalidCategory     = newKind(ErrValidation, "unknown community category")
	ErrEmptyEdit           = newKind(ErrValidation, "edited content cannot be empty")
	ErrInvalidGroupName    = newKind(ErrValidation, "group name too long")
	ErrMissingParticipants = newKind(ErrValidation, "participant ids are required")
	ErrInvalidSort         = newKind(ErrValidation, "sort must be newest or popular")
	ErrNoProfileChanges    = newKind(ErrValidation, "no profile fields to update")
	ErrInvalidProfile      = newKind(ErrValidation, "profile field too long or malformed")
)

// Conflict.
var (
	ErrUsernameTaken   = newKind(ErrConflict, "username already taken")
	ErrCommunityExists = newKind(ErrConflict, "a community with this name already exists")
	ErrAlreadyMember   = newKind(ErrConflict, "already a member of this community")
)
