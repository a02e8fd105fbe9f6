package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection         = "users"
	postsCollection         = "posts"
	commentsCollection      = "comments"
	notificationsCollection = "notifications"
)

// Connect establishes a MongoDB connection and verifies it with a ping.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Database, error) {
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	client, err := mongo.Connect(pingCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(dbName), nil
}

// EnsureIndexes creates the indexes the repositories rely on: unique
// username/email and the notification badge query path.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	users := db.Collection(usersCollection)
	_, err := users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	posts := db.Collection(postsCollection)
	_, err = posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "author", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create post indexes: %w", err)
	}

	comments := db.Collection(commentsCollection)
	_, err = comments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "post", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("failed to create comment indexes: %w", err)
	}

	notifications := db.Collection(notificationsCollection)
	_, err = notifications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "is_read", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "recipient", Value: 1}, {Key: "sender", Value: 1}, {Key: "type", Value: 1}, {Key: "created_at", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create notification indexes: %w", err)
	}

	return nil
}

// isDuplicateKey reports whether err is a unique-index violation restricted
// to the index on the given field. The server names the offending index in
// the write error message ("username_1", "email_1").
func isDuplicateKey(err error, field string) bool {
	if !mongo.IsDuplicateKeyError(err) {
		return false
	}
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 && strings.Contains(e.Message, field+"_1") {
				return true
			}
		}
		return false
	}
	return true
}
