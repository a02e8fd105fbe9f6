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

// MongoPostRepository implements PostRepository backed by the posts
// collection.
type MongoPostRepository struct {
	coll *mongo.Collection
}

// NewMongoPostRepository creates a new Mongo-backed post repository.
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(postsCollection)}
}

func (r *MongoPostRepository) Create(ctx context.Context, post *domain.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("failed to insert post: %w", err)
	}
	return nil
}

func (r *MongoPostRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	var post domain.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to find post: %w", err)
	}
	return &post, nil
}

// List returns posts newest-first. limit <= 0 returns the full collection,
// which is unbounded by design (see the pagination note in DESIGN.md).
func (r *MongoPostRepository) List(ctx context.Context, limit, skip int64) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit).SetSkip(skip)
	}
	return r.find(ctx, bson.M{}, opts)
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]domain.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"author": author}, opts)
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Post, error) {
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find posts: %w", err)
	}
	defer cursor.Close(ctx)

	var posts []domain.Post
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("failed to decode posts: %w", err)
	}
	return posts, nil
}

func (r *MongoPostRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.PostUpdate) (*domain.Post, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}

	var post domain.Post
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post: %w", err)
	}
	return &post, nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// IncrementViews bumps the view counter with $inc so concurrent readers
// never lose increments.
func (r *MongoPostRepository) IncrementViews(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$inc": bson.M{"views": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to increment views: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// AddLike adds userID to the like set with $addToSet and returns the
// updated document.
func (r *MongoPostRepository) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error) {
	return r.updateLikes(ctx, postID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the like set with $pull and returns the
// updated document.
func (r *MongoPostRepository) RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error) {
	return r.updateLikes(ctx, postID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoPostRepository) updateLikes(ctx context.Context, postID primitive.ObjectID, update bson.M) (*domain.Post, error) {
	var post domain.Post
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&post)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to update post likes: %w", err)
	}
	return &post, nil
}

// PushComment appends a comment id to the post's comment list.
func (r *MongoPostRepository) PushComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$addToSet": bson.M{"comments": commentID}},
	)
	if err != nil {
		return fmt.Errorf("failed to push comment onto post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// PullComment is the compensating step for comment deletion: it removes the
// comment id from the parent post's list.
func (r *MongoPostRepository) PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$pull": bson.M{"comments": commentID}},
	)
	if err != nil {
		return fmt.Errorf("failed to pull comment from post: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrPostNotFound
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ PostRepository = (*MongoPostRepository)(nil)
