package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/forumhq/forum-api/internal/domain"
)

// MongoNotificationRepository implements NotificationRepository backed by
// the notifications collection.
type MongoNotificationRepository struct {
	coll *mongo.Collection
}

// NewMongoNotificationRepository creates a new Mongo-backed notification
// repository.
func NewMongoNotificationRepository(db *mongo.Database) *MongoNotificationRepository {
	return &MongoNotificationRepository{coll: db.Collection(notificationsCollection)}
}

func (r *MongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.CreatedAt = time.Now().UTC()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, n); err != nil {
		return fmt.Errorf("failed to insert notification: %w", err)
	}
	return nil
}

// FindRecent looks up a notification matching the dedup key created at or
// after since. The comment reference joins the filter only when
// key.MatchComment is set.
func (r *MongoNotificationRepository) FindRecent(ctx context.Context, key NotificationKey, since time.Time) (*domain.Notification, error) {
	filter := bson.M{
		"recipient":  key.Recipient,
		"sender":     key.Sender,
		"type":       key.Type,
		"post":       key.Post,
		"created_at": bson.M{"$gte": since},
	}
	if key.MatchComment {
		filter["comment"] = key.Comment
	}

	var n domain.Notification
	if err := r.coll.FindOne(ctx, filter).Decode(&n); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to find notification: %w", err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) ListByRecipient(ctx context.Context, recipient primitive.ObjectID, limit, skip int64) ([]domain.Notification, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(skip)

	cursor, err := r.coll.Find(ctx, bson.M{"recipient": recipient}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find notifications: %w", err)
	}
	defer cursor.Close(ctx)

	var notifications []domain.Notification
	if err := cursor.All(ctx, &notifications); err != nil {
		return nil, fmt.Errorf("failed to decode notifications: %w", err)
	}
	return notifications, nil
}

func (r *MongoNotificationRepository) CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"recipient": recipient, "is_read": false})
	if err != nil {
		return 0, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	return count, nil
}

// MarkRead flips is_read on a single notification. The recipient filter
// scopes the update to the caller's own notifications.
func (r *MongoNotificationRepository) MarkRead(ctx context.Context, recipient, id primitive.ObjectID) (*domain.Notification, error) {
	var n domain.Notification
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "recipient": recipient},
		bson.M{"$set": bson.M{"is_read": true}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to mark notification read: %w", err)
	}
	return &n, nil
}

func (r *MongoNotificationRepository) MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error {
	_, err := r.coll.UpdateMany(ctx,
		bson.M{"recipient": recipient, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	return nil
}

func (r *MongoNotificationRepository) Delete(ctx context.Context, recipient, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "recipient": recipient})
	if err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

// DeleteByPost removes notifications referencing a post, used by the post
// deletion cascade.
func (r *MongoNotificationRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return fmt.Errorf("failed to delete notifications by post: %w", err)
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ NotificationRepository = (*MongoNotificationRepository)(nil)
