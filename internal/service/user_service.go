package service

import (
	"context"
	"errors"
	"regexp"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/internal/token"
	"github.com/forumhq/forum-api/pkg/log"
)

const (
	minUsernameLength = 3
	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^.+@.+\..+$`)

// userServiceImpl implements UserService.
type userServiceImpl struct {
	repo          repository.UserRepository
	notifications NotificationService
	tokens        *token.Manager
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository, notifications NotificationService, tokens *token.Manager) UserService {
	return &userServiceImpl{
		repo:          repo,
		notifications: notifications,
		tokens:        tokens,
	}
}

// Register creates a new user and issues a session token.
func (s *userServiceImpl) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, NewValidationError("username, email and password are required")
	}
	if len(req.Username) < minUsernameLength {
		return nil, NewValidationError("username must be at least 3 characters")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, NewValidationError("invalid email address")
	}
	if len(req.Password) < minPasswordLength {
		return nil, NewValidationError("password must be at least 6 characters")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		l.Error().Err(err).Msg("failed to hash password")
		return nil, err
	}

	user := &domain.User{
		Username: req.Username,
		Email:    req.Email,
		Password: string(hashed),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return nil, ErrEmailTaken
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		}
		l.Error().Err(err).Msg("failed to create user")
		return nil, err
	}

	return s.issueAuth(ctx, user)
}

// Login authenticates a user. The failure message never reveals which of
// email or password was wrong.
func (s *userServiceImpl) Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error) {
	l := log.Ctx(ctx)

	if req.Email == "" || req.Password == "" {
		return nil, NewValidationError("email and password are required")
	}

	user, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error().Err(err).Msg("failed to get user by email")
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueAuth(ctx, user)
}

func (s *userServiceImpl) issueAuth(ctx context.Context, user *domain.User) (*domain.AuthResponse, error) {
	tok, err := s.tokens.Issue(user.ID.Hex())
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, user.ID.Hex()).Msg("failed to issue token")
		return nil, err
	}
	return &domain.AuthResponse{
		User:  user.ToResponse(),
		Token: tok,
	}, nil
}

// GetCurrentUser resolves the caller from their token subject.
func (s *userServiceImpl) GetCurrentUser(ctx context.Context, userID string) (*domain.UserResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := user.ToResponse()
	return &resp, nil
}

// UpdateProfile applies the provided fields. Omitted fields are left
// unchanged; explicit empty strings clear.
func (s *userServiceImpl) UpdateProfile(ctx context.Context, userID string, req *domain.UpdateProfileRequest) (*domain.UserResponse, error) {
	l := log.Ctx(ctx)

	id, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		if len(*req.Username) < minUsernameLength {
			return nil, NewValidationError("username must be at least 3 characters")
		}
		existing, err := s.repo.GetByUsername(ctx, *req.Username)
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			l.Error().Err(err).Msg("failed to check username availability")
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, ErrUsernameTaken
		}
	}

	user, err := s.repo.UpdateProfile(ctx, id, domain.UserUpdate{
		Username: req.Username,
		Bio:      req.Bio,
		Avatar:   req.Avatar,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrUserNotFound):
			return nil, ErrUserNotFound
		case errors.Is(err, repository.ErrUsernameExists):
			return nil, ErrUsernameTaken
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to update profile")
		return nil, err
	}

	resp := user.ToResponse()
	return &resp, nil
}

// GetPublicProfile returns a user's profile with resolved follower and
// following lists.
func (s *userServiceImpl) GetPublicProfile(ctx context.Context, userID string) (*domain.ProfileResponse, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return buildProfile(ctx, s.repo, user)
}

// Follow records current -> target and notifies the target.
func (s *userServiceImpl) Follow(ctx context.Context, currentUserID, targetUserID string) error {
	l := log.Ctx(ctx)

	if currentUserID == targetUserID {
		return NewValidationError("cannot follow yourself")
	}

	currentID, err := parseID(currentUserID, ErrUserNotFound)
	if err != nil {
		return err
	}
	targetID, err := parseID(targetUserID, ErrUserNotFound)
	if err != nil {
		return err
	}

	current, err := s.getUserByObjectID(ctx, currentID)
	if err != nil {
		return err
	}
	if _, err := s.getUserByObjectID(ctx, targetID); err != nil {
		return err
	}

	for _, id := range current.Following {
		if id == targetID {
			return ErrAlreadyFollowing
		}
	}

	if err := s.repo.AddFollow(ctx, currentID, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		l.Error().Err(err).
			Str(log.FieldUserID, currentUserID).
			Str(log.FieldTargetID, targetUserID).
			Msg("failed to follow user")
		return err
	}

	if _, err := s.notifications.Notify(ctx, targetID, currentID, domain.NotificationFollow, nil, nil); err != nil {
		l.Warn().Err(err).Str(log.FieldTargetID, targetUserID).Msg("failed to create follow notification")
	}
	return nil
}

// Unfollow removes current -> target. Removing an edge that does not exist
// is not an error.
func (s *userServiceImpl) Unfollow(ctx context.Context, currentUserID, targetUserID string) error {
	l := log.Ctx(ctx)

	if currentUserID == targetUserID {
		return NewValidationError("cannot unfollow yourself")
	}

	currentID, err := parseID(currentUserID, ErrUserNotFound)
	if err != nil {
		return err
	}
	targetID, err := parseID(targetUserID, ErrUserNotFound)
	if err != nil {
		return err
	}

	if _, err := s.getUserByObjectID(ctx, targetID); err != nil {
		return err
	}

	if err := s.repo.RemoveFollow(ctx, currentID, targetID); err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		l.Error().Err(err).
			Str(log.FieldUserID, currentUserID).
			Str(log.FieldTargetID, targetUserID).
			Msg("failed to unfollow user")
		return err
	}
	return nil
}

func (s *userServiceImpl) getUser(ctx context.Context, userID string) (*domain.User, error) {
	id, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}
	return s.getUserByObjectID(ctx, id)
}

func (s *userServiceImpl) getUserByObjectID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, id.Hex()).Msg("failed to get user")
		return nil, err
	}
	return user, nil
}

// Ensure interface is satisfied at compile time.
var _ UserService = (*userServiceImpl)(nil)
