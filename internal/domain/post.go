package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MaxTitleLength is the stored-field constraint on post titles.
// Oversized titles are rejected at validation, never truncated.
const MaxTitleLength = 200

// Post represents a post document in the posts collection.
// Likes is a set of user ids: membership answers "has this user liked",
// which a raw counter cannot. Mutations go through $addToSet/$pull.
type Post struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Title     string               `bson:"title"`
	Content   string               `bson:"content"`
	Images    []string             `bson:"images,omitempty"`
	Author    primitive.ObjectID   `bson:"author"`
	Comments  []primitive.ObjectID `bson:"comments,omitempty"`
	Likes     []primitive.ObjectID `bson:"likes,omitempty"`
	Views     int64                `bson:"views"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// PostUpdate carries post fields to change. Nil means "leave unchanged".
type PostUpdate struct {
	Title   *string
	Content *string
	Images  *[]string
}

// CreatePostRequest represents a post creation request.
type CreatePostRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Images  []string `json:"images"`
}

// UpdatePostRequest represents a post update request.
type UpdatePostRequest struct {
	Title   *string   `json:"title"`
	Content *string   `json:"content"`
	Images  *[]string `json:"images"`
}

// PostResponse represents a post in API responses with the author and
// comment thread resolved.
type PostResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Content    string            `json:"content"`
	Images     []string          `json:"images,omitempty"`
	Author     UserSummary       `json:"author"`
	Comments   []CommentResponse `json:"comments"`
	Likes      []string          `json:"likes"`
	LikesCount int               `json:"likes_count"`
	Views      int64             `json:"views"`
	CreatedAt  time.Time         `json:"created_at"`
	UpdatedAt  time.Time         `json:"updated_at"`
}

// LikeResult is returned by like toggles on posts and comments.
type LikeResult struct {
	LikesCount int  `json:"likes_count"`
	IsLiked    bool `json:"is_liked"`
}

// HasLike reports whether userID is in the post's like set.
func (p *Post) HasLike(userID primitive.ObjectID) bool {
	for _, id := range p.Likes {
		if id == userID {
			return true
		}
	}
	return false
}
