package repository

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailExists          = errors.New("email already exists")
	ErrUsernameExists       = errors.New("username already exists")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")
)

// UserRepository defines persistence for user documents.
// Follow edges are mutated with atomic set operations: AddFollow/RemoveFollow
// touch two user documents without a transaction, so a crash between the two
// writes leaves a one-sided edge.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// GetMany returns the users for the given ids, skipping missing ones.
	GetMany(ctx context.Context, ids []primitive.ObjectID) ([]domain.User, error)
	// UpdateProfile applies the non-nil fields and returns the updated user.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error)
	AddFollow(ctx context.Context, follower, target primitive.ObjectID) error
	RemoveFollow(ctx context.Context, follower, target primitive.ObjectID) error
}

// PostRepository defines persistence for post documents.
// AddLike/RemoveLike use $addToSet/$pull and return the updated document so
// callers can derive the new count and membership from one round trip.
type PostRepository interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Post, error)
	// List returns posts newest-first. limit <= 0 means no paging.
	List(ctx context.Context, limit, skip int64) ([]domain.Post, error)
	ListByAuthor(ctx context.Context, author primitive.ObjectID) ([]domain.Post, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.PostUpdate) (*domain.Post, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// IncrementViews bumps the view counter unconditionally.
	IncrementViews(ctx context.Context, id primitive.ObjectID) error
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error)
	RemoveLike(ctx context.Context, postID, userID primitive.ObjectID) (*domain.Post, error)
	PushComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	PullComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

// CommentRepository defines persistence for comment documents.
type CommentRepository interface {
	Create(ctx context.Context, comment *domain.Comment) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error)
	// ListByPost returns a post's comments oldest-first.
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]domain.Comment, error)
	Update(ctx context.Context, id primitive.ObjectID, update domain.CommentUpdate) (*domain.Comment, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
	AddLike(ctx context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error)
	RemoveLike(ctx context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error)
}

// NotificationKey is the dedup tuple. Comment is matched only when
// MatchComment is set; the caller decides whether the specific comment is
// part of the key (see config notifications.dedupe_per_comment).
type NotificationKey struct {
	Recipient    primitive.ObjectID
	Sender       primitive.ObjectID
	Type         domain.NotificationType
	Post         *primitive.ObjectID
	Comment      *primitive.ObjectID
	MatchComment bool
}

// NotificationRepository defines persistence for notification documents.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	// FindRecent returns a notification matching key created at or after
	// since, or ErrNotificationNotFound.
	FindRecent(ctx context.Context, key NotificationKey, since time.Time) (*domain.Notification, error)
	// ListByRecipient returns notifications newest-first.
	ListByRecipient(ctx context.Context, recipient primitive.ObjectID, limit, skip int64) ([]domain.Notification, error)
	CountUnread(ctx context.Context, recipient primitive.ObjectID) (int64, error)
	// MarkRead flips is_read on a notification owned by recipient.
	MarkRead(ctx context.Context, recipient, id primitive.ObjectID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, recipient primitive.ObjectID) error
	// Delete removes a notification owned by recipient.
	Delete(ctx context.Context, recipient, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}
