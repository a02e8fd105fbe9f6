package storage

import (
	"context"
	"time"
)

// Storage abstracts the object store the upload gateway signs credentials
// against.
type Storage interface {
	// PresignUpload returns a signed PUT URL for direct client upload,
	// valid for the given duration.
	PresignUpload(ctx context.Context, key, contentType string, expires time.Duration) (string, error)
	// PublicURL returns the public domain to prepend to object keys.
	PublicURL() string
	// Bucket returns the bucket the credentials are scoped to.
	Bucket() string
}
