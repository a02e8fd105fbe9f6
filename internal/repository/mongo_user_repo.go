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

// MongoUserRepository implements UserRepository backed by the users
// collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new Mongo-backed user repository.
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(usersCollection)}
}

// Create inserts a new user. Uniqueness of username and email is enforced by
// the collection's unique indexes.
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if isDuplicateKey(err, "email") {
			return ErrEmailExists
		}
		if isDuplicateKey(err, "username") {
			return ErrUsernameExists
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return &user, nil
}

// GetMany returns the users for the given ids; ids without a matching
// document are silently skipped.
func (r *MongoUserRepository) GetMany(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	cursor, err := r.coll.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []domain.User
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("failed to decode users: %w", err)
	}
	return users, nil
}

// UpdateProfile applies the non-nil fields and returns the updated document.
func (r *MongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.Avatar != nil {
		set["avatar"] = *update.Avatar
	}

	var user domain.User
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		if isDuplicateKey(err, "username") {
			return nil, ErrUsernameExists
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// AddFollow records follower -> target on both user documents with
// $addToSet. The two updates are not transactional.
func (r *MongoUserRepository) AddFollow(ctx context.Context, follower, target primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": follower},
		bson.M{"$addToSet": bson.M{"following": target}},
	)
	if err != nil {
		return fmt.Errorf("failed to add following edge: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	res, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": target},
		bson.M{"$addToSet": bson.M{"followers": follower}},
	)
	if err != nil {
		return fmt.Errorf("failed to add follower edge: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// RemoveFollow removes follower -> target from both user documents with
// $pull. Removing an absent edge is a no-op.
func (r *MongoUserRepository) RemoveFollow(ctx context.Context, follower, target primitive.ObjectID) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": follower},
		bson.M{"$pull": bson.M{"following": target}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove following edge: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}

	res, err = r.coll.UpdateOne(ctx,
		bson.M{"_id": target},
		bson.M{"$pull": bson.M{"followers": follower}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove follower edge: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}

// Ensure interface is satisfied at compile time.
var _ UserRepository = (*MongoUserRepository)(nil)
