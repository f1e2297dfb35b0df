package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/tbourn/go-social-backend/internal/domain"
	"github.com/tbourn/go-social-backend/internal/repo"
)

// NotificationStore persists notifications as documents. Missing documents
// are reported as repo.ErrNotFound so callers treat both stores alike.
type NotificationStore struct {
	coll *mongo.Collection
}

// NewNotificationStore returns a NotificationStore using coll.
func NewNotificationStore(coll *mongo.Collection) *NotificationStore {
	return &NotificationStore{coll: coll}
}

// EnsureIndexes creates the recipient feed index and the dedup lookup index.
func (s *NotificationStore) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("recipient_created"),
		},
		{
			Keys: bson.D{
				{Key: "recipient_id", Value: 1},
				{Key: "sender_id", Value: 1},
				{Key: "type", Value: 1},
				{Key: "subject_id", Value: 1},
				{Key: "created_at", Value: -1},
			},
			Options: options.Index().SetName("dedup_lookup"),
		},
		{
			Keys:    bson.D{{Key: "is_read", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("read_created"),
		},
	}
	if _, err := s.coll.Indexes().CreateMany(ctx, models); err != nil {
		return fmt.Errorf("create notification indexes: %w", err)
	}
	return nil
}

// dedupFilter matches notifications identical to the given key created at or
// after since. A nil subject matches only documents without a subject.
func dedupFilter(recipientID, senderID, typ string, subjectID *string, since time.Time) bson.M {
	f := bson.M{
		"recipient_id": recipientID,
		"sender_id":    senderID,
		"type":         typ,
		"created_at":   bson.M{"$gte": since},
	}
	if subjectID == nil {
		f["subject_id"] = nil
	} else {
		f["subject_id"] = *subjectID
	}
	return f
}

// recipientFilter matches a recipient's notifications, optionally unread only.
func recipientFilter(recipientID string, unreadOnly bool) bson.M {
	f := bson.M{"recipient_id": recipientID}
	if unreadOnly {
		f["is_read"] = false
	}
	return f
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return repo.ErrNotFound
	}
	return err
}

// FindRecent returns the newest notification matching the dedup key created
// at or after since, or repo.ErrNotFound.
func (s *NotificationStore) FindRecent(ctx context.Context, recipientID, senderID, typ string, subjectID *string, since time.Time) (*domain.Notification, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var n domain.Notification
	if err := s.coll.FindOne(ctx, dedupFilter(recipientID, senderID, typ, subjectID, since), opts).Decode(&n); err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// Insert stores a new notification document.
func (s *NotificationStore) Insert(ctx context.Context, n *domain.Notification) error {
	_, err := s.coll.InsertOne(ctx, n)
	return err
}

// Get fetches a notification by id.
func (s *NotificationStore) Get(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&n); err != nil {
		return nil, notFound(err)
	}
	return &n, nil
}

// List returns a page of a recipient's notifications, newest first.
func (s *NotificationStore) List(ctx context.Context, recipientID string, unreadOnly bool, offset, limit int) ([]domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cur, err := s.coll.Find(ctx, recipientFilter(recipientID, unreadOnly), opts)
	if err != nil {
		return nil, err
	}
	out := []domain.Notification{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns how many notifications a recipient has, optionally unread only.
func (s *NotificationStore) Count(ctx context.Context, recipientID string, unreadOnly bool) (int64, error) {
	return s.coll.CountDocuments(ctx, recipientFilter(recipientID, unreadOnly))
}

// MarkRead flips one notification to read. Already-read documents keep their
// read time; a missing id is repo.ErrNotFound.
func (s *NotificationStore) MarkRead(ctx context.Context, id string, at time.Time) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.A{bson.M{"$set": bson.M{
			"is_read": true,
			"read_at": bson.M{"$ifNull": bson.A{"$read_at", at}},
		}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// MarkAllRead flips every unread notification of a recipient.
func (s *NotificationStore) MarkAllRead(ctx context.Context, recipientID string, at time.Time) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		recipientFilter(recipientID, true),
		bson.M{"$set": bson.M{"is_read": true, "read_at": at}},
	)
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

// Delete removes a notification.
func (s *NotificationStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// PurgeRead deletes read notifications created before cutoff.
func (s *NotificationStore) PurgeRead(ctx context.Context, before time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{"is_read": true, "created_at": bson.M{"$lt": before}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
