package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User represents a user document in the users collection.
// Followers and Following are sets of user ids maintained with
// $addToSet/$pull so concurrent follow toggles cannot lose updates.
type User struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Username  string               `bson:"username"`
	Email     string               `bson:"email"`
	Password  string               `bson:"password"` // bcrypt hash
	Avatar    string               `bson:"avatar,omitempty"`
	Bio       string               `bson:"bio,omitempty"`
	Followers []primitive.ObjectID `bson:"followers,omitempty"`
	Following []primitive.ObjectID `bson:"following,omitempty"`
	CreatedAt time.Time            `bson:"created_at"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// UserUpdate carries profile fields to change. Nil means "leave unchanged";
// a pointer to the empty string clears the field.
type UserUpdate struct {
	Username *string
	Bio      *string
	Avatar   *string
}

// RegisterRequest represents a registration request.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest represents a login request.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest represents a profile update request.
// Omitted fields stay untouched, explicit empty strings clear.
type UpdateProfileRequest struct {
	Username *string `json:"username"`
	Bio      *string `json:"bio"`
	Avatar   *string `json:"avatar"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// UserResponse represents the caller's own user in API responses.
// The password hash is never part of any response type.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Avatar    string    `json:"avatar,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// UserSummary is the compact user shape embedded in posts, comments
// and notifications.
type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Avatar   string `json:"avatar,omitempty"`
}

// ProfileResponse is the public profile with resolved social edges.
type ProfileResponse struct {
	ID             string        `json:"id"`
	Username       string        `json:"username"`
	Avatar         string        `json:"avatar,omitempty"`
	Bio            string        `json:"bio,omitempty"`
	Followers      []UserSummary `json:"followers"`
	Following      []UserSummary `json:"following"`
	FollowersCount int           `json:"followers_count"`
	FollowingCount int           `json:"following_count"`
	CreatedAt      time.Time     `json:"created_at"`
}

// ToResponse converts User to UserResponse.
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID.Hex(),
		Username:  u.Username,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Bio:       u.Bio,
		CreatedAt: u.CreatedAt,
	}
}

// ToSummary converts User to UserSummary.
func (u *User) ToSummary() UserSummary {
	return UserSummary{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Avatar:   u.Avatar,
	}
}
