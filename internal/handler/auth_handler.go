package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/service"
	"github.com/forumhq/forum-api/pkg/log"
	"github.com/forumhq/forum-api/pkg/response"
)

// Register handles user registration.
func (h *Handler) Register(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid register request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Register(ctx, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrEmailTaken) {
			response.Conflict(c, "email already exists")
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Msg("register failed")
		response.InternalError(c, "failed to register user")
		return
	}

	response.Created(c, result)
}

// Login handles user login.
func (h *Handler) Login(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid login request")
		response.BadRequest(c, err.Error())
		return
	}

	result, err := h.users.Login(ctx, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		l.Error().Err(err).Msg("login failed")
		response.InternalError(c, "failed to login")
		return
	}

	response.Success(c, result)
}

// GetMe returns the authenticated user's own record.
func (h *Handler) GetMe(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	user, err := h.users.GetCurrentUser(ctx, userID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("get current user failed")
		response.InternalError(c, "failed to get user")
		return
	}

	response.Success(c, user)
}

// UpdateProfile updates the authenticated user's profile.
func (h *Handler) UpdateProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid profile update request")
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.users.UpdateProfile(ctx, userID, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		if errors.Is(err, service.ErrUsernameTaken) {
			response.Conflict(c, "username already exists")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("update profile failed")
		response.InternalError(c, "failed to update profile")
		return
	}

	response.Success(c, user)
}

// GetProfile returns a user's public profile.
func (h *Handler) GetProfile(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	targetID := c.Param("userId")

	profile, err := h.users.GetPublicProfile(ctx, targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldTargetID, targetID).Msg("get profile failed")
		response.InternalError(c, "failed to get profile")
		return
	}

	response.Success(c, profile)
}

// Follow records a follow edge from the caller to the target user.
func (h *Handler) Follow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("userId")

	if err := h.users.Follow(ctx, userID, targetID); err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		if errors.Is(err, service.ErrAlreadyFollowing) {
			response.Conflict(c, "already following this user")
			return
		}
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldTargetID, targetID).
			Msg("follow failed")
		response.InternalError(c, "failed to follow user")
		return
	}

	response.SuccessMessage(c, "user followed", nil)
}

// Unfollow removes a follow edge from the caller to the target user.
func (h *Handler) Unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	targetID := c.Param("userId")

	if err := h.users.Unfollow(ctx, userID, targetID); err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).
			Str(log.FieldUserID, userID).
			Str(log.FieldTargetID, targetID).
			Msg("unfollow failed")
		response.InternalError(c, "failed to unfollow user")
		return
	}

	response.SuccessMessage(c, "user unfollowed", nil)
}
