package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationType enumerates the interaction kinds that produce
// notifications.
type NotificationType string

const (
	NotificationComment     NotificationType = "comment"
	NotificationLike        NotificationType = "like"
	NotificationFollow      NotificationType = "follow"
	NotificationPostLike    NotificationType = "post_like"
	NotificationCommentLike NotificationType = "comment_like"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationComment, NotificationLike, NotificationFollow,
		NotificationPostLike, NotificationCommentLike:
		return true
	}
	return false
}

// Notification represents a notification document. Post and Comment are
// optional references depending on the type.
type Notification struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty"`
	Recipient primitive.ObjectID  `bson:"recipient"`
	Sender    primitive.ObjectID  `bson:"sender"`
	Type      NotificationType    `bson:"type"`
	Post      *primitive.ObjectID `bson:"post,omitempty"`
	Comment   *primitive.ObjectID `bson:"comment,omitempty"`
	IsRead    bool                `bson:"is_read"`
	CreatedAt time.Time           `bson:"created_at"`
}

// NotificationResponse represents a notification in API responses with the
// sender and the referenced post title / comment body resolved.
type NotificationResponse struct {
	ID             string           `json:"id"`
	Type           NotificationType `json:"type"`
	Sender         UserSummary      `json:"sender"`
	PostID         string           `json:"post_id,omitempty"`
	PostTitle      string           `json:"post_title,omitempty"`
	CommentID      string           `json:"comment_id,omitempty"`
	CommentContent string           `json:"comment_content,omitempty"`
	IsRead         bool             `json:"is_read"`
	CreatedAt      time.Time        `json:"created_at"`
}

// NotificationPage is the list response: one page of notifications plus the
// recipient's unread counter for badge rendering.
type NotificationPage struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int64                  `json:"unread_count"`
}
