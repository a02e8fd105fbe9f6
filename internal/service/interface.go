package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
)

// UserService covers registration, authentication, profiles and the
// follow graph. The caller's identity is always threaded in explicitly;
// there is no ambient session state.
type UserService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error)
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	GetCurrentUser(ctx context.Context, userID string) (*domain.UserResponse, error)
	UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.UserResponse, error)
	GetPublicProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error)
	Follow(ctx context.Context, currentUserID, targetUserID string) error
	Unfollow(ctx context.Context, currentUserID, targetUserID string) error
}

// PostService covers the post lifecycle, listing and like toggling.
type PostService interface {
	List(ctx context.Context, page, pageSize int64) ([]domain.PostResponse, error)
	ListByUser(ctx context.Context, userID string) ([]domain.PostResponse, error)
	Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.PostResponse, error)
	// Get resolves a post and increments its view counter as a side
	// effect of every read, the author's own reads included.
	Get(ctx context.Context, id string) (*domain.PostResponse, error)
	Update(ctx context.Context, id, authorID string, req *domain.UpdatePostRequest) (*domain.PostResponse, error)
	Delete(ctx context.Context, id, authorID string) error
	ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error)
}

// CommentService covers comments nested under posts.
type CommentService interface {
	Add(ctx context.Context, postID, authorID string, req *domain.AddCommentRequest) (*domain.CommentResponse, error)
	Update(ctx context.Context, commentID, authorID string, req *domain.UpdateCommentRequest) (*domain.CommentResponse, error)
	Delete(ctx context.Context, commentID, authorID string) error
	ToggleLike(ctx context.Context, commentID, userID string) (*domain.LikeResult, error)
}

// NotificationService creates notifications as interaction side effects and
// serves the notification inbox.
type NotificationService interface {
	// Notify stores a notification unless the recipient is the sender or an
	// equivalent one exists inside the dedup window, in which case the
	// existing record is returned.
	Notify(ctx context.Context, recipient, sender primitive.ObjectID, typ domain.NotificationType, postID, commentID *primitive.ObjectID) (*domain.Notification, error)
	List(ctx context.Context, userID string, limit, skip int64) (*domain.NotificationPage, error)
	// MarkAsRead marks one notification, or every unread one when
	// notificationID is the literal "all". The single-notification form
	// returns the updated record; the "all" form returns nil.
	MarkAsRead(ctx context.Context, userID, notificationID string) (*domain.NotificationResponse, error)
	Delete(ctx context.Context, userID, notificationID string) error
	// RemoveForPost drops every notification referencing a post, as part of
	// the post deletion cascade.
	RemoveForPost(ctx context.Context, postID primitive.ObjectID) error
	UnreadCount(ctx context.Context, userID string) (int64, error)
}

// UploadService issues upload credentials and handles the inline base64
// avatar path.
type UploadService interface {
	UploadToken(ctx context.Context) (*domain.UploadTokenResponse, error)
	UploadAvatar(ctx context.Context, userID, payload string) (*domain.ProfileResponse, error)
}
