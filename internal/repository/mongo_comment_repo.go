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

// MongoCommentRepository implements CommentRepository backed by the
// comments collection.
type MongoCommentRepository struct {
	coll *mongo.Collection
}

// NewMongoCommentRepository creates a new Mongo-backed comment repository.
func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(commentsCollection)}
}

func (r *MongoCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("failed to insert comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	var comment domain.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to find comment: %w", err)
	}
	return &comment, nil
}

// ListByPost returns a post's comments oldest-first, the order the thread
// is rendered in.
func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find comments: %w", err)
	}
	defer cursor.Close(ctx)

	var comments []domain.Comment
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("failed to decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) Update(ctx context.Context, id primitive.ObjectID, update domain.CommentUpdate) (*domain.Comment, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Images != nil {
		set["images"] = *update.Images
	}

	var comment domain.Comment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment: %w", err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return ErrCommentNotFound
	}
	return nil
}

// DeleteByPost removes all comments under a post, used by the post
// deletion cascade.
func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return fmt.Errorf("failed to delete comments by post: %w", err)
	}
	return nil
}

// AddLike adds userID to the like set with $addToSet and returns the
// updated document.
func (r *MongoCommentRepository) AddLike(ctx context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error) {
	return r.updateLikes(ctx, commentID, bson.M{"$addToSet": bson.M{"likes": userID}})
}

// RemoveLike removes userID from the like set with $pull and returns the
// updated document.
func (r *MongoCommentRepository) RemoveLike(ctx context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error) {
	return r.updateLikes(ctx, commentID, bson.M{"$pull": bson.M{"likes": userID}})
}

func (r *MongoCommentRepository) updateLikes(ctx context.Context, commentID primitive.ObjectID, update bson.M) (*domain.Comment, error) {
	var comment domain.Comment
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": commentID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&comment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCommentNotFound
		}
		return nil, fmt.Errorf("failed to update comment likes: %w", err)
	}
	return &comment, nil
}

// Ensure interface is satisfied at compile time.
var _ CommentRepository = (*MongoCommentRepository)(nil)
