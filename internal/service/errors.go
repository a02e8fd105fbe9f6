package service

import "errors"

var (
	// Auth
	ErrInvalidCredentials = errors.New("invalid email or password")

	// Not found
	ErrUserNotFound         = errors.New("user not found")
	ErrPostNotFound         = errors.New("post not found")
	ErrCommentNotFound      = errors.New("comment not found")
	ErrNotificationNotFound = errors.New("notification not found")

	// Conflicts
	ErrEmailTaken       = errors.New("email is already in use")
	ErrUsernameTaken    = errors.New("username is already taken")
	ErrAlreadyFollowing = errors.New("already following this user")

	// Forbidden
	ErrNotPostAuthor    = errors.New("only the author can modify this post")
	ErrNotCommentAuthor = errors.New("only the author can modify this comment")
)

// ValidationError reports malformed or missing input. The message is safe
// to return to the caller.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string { return e.msg }

// NewValidationError creates a ValidationError with the given message.
func NewValidationError(msg string) error {
	return &ValidationError{msg: msg}
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
