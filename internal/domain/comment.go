package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Comment represents a comment document in the comments collection.
// The parent post keeps the comment id in its comments list; deleting a
// comment must also pull the id from that list (two writes, two
// collections, no transaction).
type Comment struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Content   string               `bson:"content"`
	Images    []string             `bson:"images,omitempty"`
	Author    primitive.ObjectID   `bson:"author"`
	Post      primitive.ObjectID   `bson:"post"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// AddCommentRequest represents a comment creation request.
type AddCommentRequest struct {
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// UpdateCommentRequest represents a comment update request.
type UpdateCommentRequest struct {
	Content *string   `json:"content"`
	Images  *[]string `json:"images"`
}

// CommentUpdate carries comment fields to change. Nil means "leave unchanged".
type CommentUpdate struct {
	Content *string
	Images  *[]string
}

// CommentResponse represents a comment in API responses with the author
// resolved.
type CommentResponse struct {
	ID         string      `json:"id"`
	Content    string      `json:"content"`
	Images     []string    `json:"images,omitempty"`
	Author     UserSummary `json:"author"`
	PostID     string      `json:"post_id"`
	Likes      []string    `json:"likes"`
	LikesCount int         `json:"likes_count"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
}

// HasLike reports whether userID is in the comment's like set.
func (c *Comment) HasLike(userID primitive.ObjectID) bool {
	for _, id := range c.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
