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

// AddComment creates a comment under a post.
func (h *Handler) AddComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	var req domain.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid add comment request")
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Add(ctx, postID, userID, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("add comment failed")
		response.InternalError(c, "failed to add comment")
		return
	}

	response.Created(c, comment)
}

// UpdateComment updates a comment, author only.
func (h *Handler) UpdateComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	var req domain.UpdateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update comment request")
		response.BadRequest(c, err.Error())
		return
	}

	comment, err := h.comments.Update(ctx, commentID, userID, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrCommentNotFound) {
			response.NotFound(c, "comment not found")
			return
		}
		if errors.Is(err, service.ErrNotCommentAuthor) {
			response.Forbidden(c, "only the author can update this comment")
			return
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("update comment failed")
		response.InternalError(c, "failed to update comment")
		return
	}

	response.Success(c, comment)
}

// DeleteComment deletes a comment, author only.
func (h *Handler) DeleteComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	if err := h.comments.Delete(ctx, commentID, userID); err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			response.NotFound(c, "comment not found")
			return
		}
		if errors.Is(err, service.ErrNotCommentAuthor) {
			response.Forbidden(c, "only the author can delete this comment")
			return
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("delete comment failed")
		response.InternalError(c, "failed to delete comment")
		return
	}

	response.SuccessMessage(c, "comment deleted", nil)
}

// LikeComment toggles the caller's like on a comment.
func (h *Handler) LikeComment(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	commentID := c.Param("commentId")

	result, err := h.comments.ToggleLike(ctx, commentID, userID)
	if err != nil {
		if errors.Is(err, service.ErrCommentNotFound) {
			response.NotFound(c, "comment not found")
			return
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("toggle comment like failed")
		response.InternalError(c, "failed to toggle like")
		return
	}

	response.Success(c, result)
}
