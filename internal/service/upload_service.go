package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/internal/storage"
	"github.com/forumhq/forum-api/pkg/log"
)

// uploadServiceImpl implements UploadService.
type uploadServiceImpl struct {
	store          storage.Storage
	users          repository.UserRepository
	tokenTTL       time.Duration
	maxAvatarBytes int
}

// NewUploadService creates a new upload service. maxAvatarBytes bounds the
// decoded size of inline base64 avatars.
func NewUploadService(store storage.Storage, users repository.UserRepository, tokenTTL time.Duration, maxAvatarBytes int) UploadService {
	return &uploadServiceImpl{
		store:          store,
		users:          users,
		tokenTTL:       tokenTTL,
		maxAvatarBytes: maxAvatarBytes,
	}
}

// UploadToken issues a presigned PUT credential under a random key so the
// client uploads directly to the object store.
func (s *uploadServiceImpl) UploadToken(ctx context.Context) (*domain.UploadTokenResponse, error) {
	key := fmt.Sprintf("uploads/%s", uuid.NewString())

	url, err := s.store.PresignUpload(ctx, key, "application/octet-stream", s.tokenTTL)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to presign upload")
		return nil, err
	}

	return &domain.UploadTokenResponse{
		Token:     url,
		Key:       key,
		Domain:    s.store.PublicURL(),
		ExpiresIn: int(s.tokenTTL.Seconds()),
	}, nil
}

// UploadAvatar stores an inline base64 avatar on the caller's profile and
// returns the refreshed profile. The size check estimates the decoded size
// from the base64 length (4 encoded characters per 3 bytes).
func (s *uploadServiceImpl) UploadAvatar(ctx context.Context, userID, payload string) (*domain.ProfileResponse, error) {
	l := log.Ctx(ctx)

	if payload == "" {
		return nil, NewValidationError("avatar is required")
	}
	if float64(len(payload))/1.333 > float64(s.maxAvatarBytes) {
		return nil, NewValidationError("avatar exceeds the maximum allowed size")
	}

	id, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, id, domain.UserUpdate{Avatar: &payload})
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to store avatar")
		return nil, err
	}

	return buildProfile(ctx, s.users, user)
}

var _ UploadService = (*uploadServiceImpl)(nil)
