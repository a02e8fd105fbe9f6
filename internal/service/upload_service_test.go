package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUploadFixture() (*fixture, UploadService) {
	f := newFixture()
	store := &fakeStorage{bucket: "forum-uploads", publicURL: "https://cdn.example.com"}
	return f, NewUploadService(store, f.users, time.Hour, 500*1024)
}

func TestUploadToken(t *testing.T) {
	_, uploads := newUploadFixture()

	resp, err := uploads.UploadToken(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "uploads/"), "key %q must live under uploads/", resp.Key)
	assert.Contains(t, resp.Token, resp.Key)
	assert.Equal(t, "https://cdn.example.com", resp.Domain)
	assert.Equal(t, 3600, resp.ExpiresIn)

	// Keys are random per request.
	again, err := uploads.UploadToken(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, resp.Key, again.Key)
}

func TestUploadAvatar(t *testing.T) {
	f, uploads := newUploadFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")

	_, err := uploads.UploadAvatar(ctx, alice.User.ID, "")
	assert.True(t, IsValidation(err), "empty payload must be rejected")

	payload := "data:image/png;base64," + strings.Repeat("A", 1024)
	profile, err := uploads.UploadAvatar(ctx, alice.User.ID, payload)
	require.NoError(t, err)
	assert.Equal(t, payload, profile.Avatar)

	stored, err := f.userSvc.GetCurrentUser(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, stored.Avatar)
}

func TestUploadAvatarSizeCap(t *testing.T) {
	f, uploads := newUploadFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")

	// The cap applies to the estimated decoded size, so the encoded payload
	// may exceed 500KB by up to a third before rejection.
	tooBig := strings.Repeat("A", 700*1024)
	_, err := uploads.UploadAvatar(ctx, alice.User.ID, tooBig)
	require.Error(t, err)
	assert.True(t, IsValidation(err), "oversized avatar must be a validation failure, got %v", err)

	fits := strings.Repeat("A", 600*1024)
	_, err = uploads.UploadAvatar(ctx, alice.User.ID, fits)
	assert.NoError(t, err)
}

func TestUploadAvatarUnknownUser(t *testing.T) {
	_, uploads := newUploadFixture()
	_, err := uploads.UploadAvatar(context.Background(), "64b0c0ffee0000000000dead", "payload")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
