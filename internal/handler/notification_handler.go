package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/service"
	"github.com/forumhq/forum-api/pkg/log"
	"github.com/forumhq/forum-api/pkg/response"
)

// defaultNotificationLimit is the page size when the client sends no
// limit parameter.
const defaultNotificationLimit = 20

// ListNotifications returns the caller's notifications newest-first along
// with the unread counter. Paging uses limit/skip query parameters, twenty
// per page by default.
func (h *Handler) ListNotifications(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	limit := int64(defaultNotificationLimit)
	if raw := c.Query("limit"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			limit = v
		}
	}
	var skip int64
	if raw := c.Query("skip"); raw != "" {
		if v, err := strconv.ParseInt(raw, 10, 64); err == nil {
			skip = v
		}
	}

	result, err := h.notifications.List(ctx, userID, limit, skip)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("list notifications failed")
		response.InternalError(c, "failed to list notifications")
		return
	}

	response.Success(c, result)
}

// UnreadCount serves the polling badge counter.
func (h *Handler) UnreadCount(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)

	count, err := h.notifications.UnreadCount(ctx, userID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("unread count failed")
		response.InternalError(c, "failed to count unread notifications")
		return
	}

	response.Success(c, gin.H{"unread_count": count})
}

// MarkNotificationRead marks one notification read, or all of them when
// the id is the literal "all".
func (h *Handler) MarkNotificationRead(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	notificationID := c.Param("id")

	result, err := h.notifications.MarkAsRead(ctx, userID, notificationID)
	if err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		l.Error().Err(err).Str(log.FieldNotificationID, notificationID).Msg("mark notification read failed")
		response.InternalError(c, "failed to mark notification read")
		return
	}

	if result == nil {
		response.SuccessMessage(c, "all notifications marked as read", nil)
		return
	}
	response.Success(c, result)
}

// DeleteNotification removes one of the caller's notifications.
func (h *Handler) DeleteNotification(c *gin.Context) {
	ctx := c.Request.Context()
	l := log.Ctx(ctx)
	userID := middleware.GetUserID(c)
	notificationID := c.Param("id")

	if err := h.notifications.Delete(ctx, userID, notificationID); err != nil {
		if errors.Is(err, service.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		l.Error().Err(err).Str(log.FieldNotificationID, notificationID).Msg("delete notification failed")
		response.InternalError(c, "failed to delete notification")
		return
	}

	response.SuccessMessage(c, "notification deleted", nil)
}
