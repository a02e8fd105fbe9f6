package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/service"
	"github.com/forumhq/forum-api/pkg/log"
	"github.com/forumhq/forum-api/pkg/response"
)

// ListPosts returns posts newest-first. Without paging parameters every
// post is returned.
func (h *Handler) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)

	page, _ := strconv.ParseInt(c.Query("page"), 10, 64)
	pageSize, _ := strconv.ParseInt(c.Query("pageSize"), 10, 64)

	posts, err := h.posts.List(ctx, page, pageSize)
	if err != nil {
		l.Error().Err(err).Msg("list posts failed")
		response.InternalError(c, "failed to list posts")
		return
	}

	response.Success(c, posts)
}

// ListUserPosts returns a user's posts newest-first.
func (h *Handler) ListUserPosts(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	targetID := c.Param("userId")

	posts, err := h.posts.ListByUser(ctx, targetID)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldTargetID, targetID).Msg("list user posts failed")
		response.InternalError(c, "failed to list posts")
		return
	}

	response.Success(c, posts)
}

// GetPost returns a post with its comment thread. Every read counts a view.
func (h *Handler) GetPost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	postID := c.Param("id")

	post, err := h.posts.Get(ctx, postID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("get post failed")
		response.InternalError(c, "failed to get post")
		return
	}

	response.Success(c, post)
}

// CreatePost creates a post authored by the caller.
func (h *Handler) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	var req domain.CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid create post request")
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Create(ctx, userID, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrUserNotFound) {
			response.NotFound(c, "user not found")
			return
		}
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("create post failed")
		response.InternalError(c, "failed to create post")
		return
	}

	response.Created(c, post)
}

// UpdatePost updates a post, author only.
func (h *Handler) UpdatePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	var req domain.UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		l.Warn().Err(err).Msg("invalid update post request")
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.posts.Update(ctx, postID, userID, &req)
	if err != nil {
		if service.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		if errors.Is(err, service.ErrNotPostAuthor) {
			response.Forbidden(c, "only the author can update this post")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("update post failed")
		response.InternalError(c, "failed to update post")
		return
	}

	response.Success(c, post)
}

// DeletePost deletes a post and cascades to its comments and notifications.
func (h *Handler) DeletePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	if err := h.posts.Delete(ctx, postID, userID); err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		if errors.Is(err, service.ErrNotPostAuthor) {
			response.Forbidden(c, "only the author can delete this post")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("delete post failed")
		response.InternalError(c, "failed to delete post")
		return
	}

	response.SuccessMessage(c, "post deleted", nil)
}

// LikePost toggles the caller's like on a post.
func (h *Handler) LikePost(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	postID := c.Param("id")

	result, err := h.posts.ToggleLike(ctx, postID, userID)
	if err != nil {
		if errors.Is(err, service.ErrPostNotFound) {
			response.NotFound(c, "post not found")
			return
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("toggle post like failed")
		response.InternalError(c, "failed to toggle like")
		return
	}

	response.Success(c, result)
}
