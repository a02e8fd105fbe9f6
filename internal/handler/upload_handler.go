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

// UploadToken issues a presigned upload credential for direct client
// upload to the object store.
func (h *Handler) UploadToken(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	result, err := h.uploads.UploadToken(ctx)
	if err != nil {
		l.Error().Err(err).Msg("upload token failed")
		response.InternalError(c, "failed to issue upload token")
		return
	}

	response.Success(c, result)
}

// UploadAvatar stores an inline base64 avatar on the caller's profile.
func (h *Handler) UploadAvatar(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.UploadAvatarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid avatar upload request")
		response.BadRequest(c, err.Error())
		return
	}

	profile, err := h.uploads.UploadAvatar(ctx, userID, req.Avatar)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("avatar upload failed")
		response.InternalError(c, "failed to upload avatar")
		return
	}

	response.Success(c, profile)
}
