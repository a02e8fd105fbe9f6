package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/forumhq/forum-api/internal/metrics"
	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/service"
	"github.com/forumhq/forum-api/pkg/response"
)

// Handler handles HTTP requests for the forum API.
type Handler struct {
	users          service.UserService
	posts          service.PostService
	comments       service.CommentService
	notifications  service.NotificationService
	uploads        service.UploadService
	authMiddleware *middleware.AuthMiddleware
}

// NewHandler creates a new HTTP handler.
func NewHandler(users service.UserService, posts service.PostService, comments service.CommentService, notifications service.NotificationService, uploads service.UploadService, authMiddleware *middleware.AuthMiddleware) *Handler {
	return &Handler{
		users:          users,
		posts:          posts,
		comments:       comments,
		notifications:  notifications,
		uploads:        uploads,
		authMiddleware: authMiddleware,
	}
}

// RegisterRoutes registers all routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/metrics", metrics.Exposer())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		auth := api.Group("/auth")
		{
			auth.POST("/register", h.Register)
			auth.POST("/login", h.Login)
			auth.GET("/user/:userId", h.GetProfile)
			auth.GET("/me", h.authMiddleware.RequireAuth(), h.GetMe)
			auth.PUT("/profile", h.authMiddleware.RequireAuth(), h.UpdateProfile)
			auth.POST("/follow/:userId", h.authMiddleware.RequireAuth(), h.Follow)
			auth.POST("/unfollow/:userId", h.authMiddleware.RequireAuth(), h.Unfollow)
		}

		posts := api.Group("/posts")
		{
			posts.GET("", h.ListPosts)
			posts.GET("/user/:userId", h.ListUserPosts)
			posts.GET("/:id", h.GetPost)

			protected := posts.Group("")
			protected.Use(h.authMiddleware.RequireAuth())
			{
				protected.POST("", h.CreatePost)
				protected.PUT("/:id", h.UpdatePost)
				protected.DELETE("/:id", h.DeletePost)
				protected.POST("/:id/like", h.LikePost)
				protected.POST("/:id/comments", h.AddComment)
				protected.PUT("/:id/comments/:commentId", h.UpdateComment)
				protected.DELETE("/:id/comments/:commentId", h.DeleteComment)
				protected.POST("/:id/comments/:commentId/like", h.LikeComment)
			}
		}

		notifications := api.Group("/notifications")
		notifications.Use(h.authMiddleware.RequireAuth())
		{
			notifications.GET("", h.ListNotifications)
			notifications.GET("/unread-count", h.UnreadCount)
			notifications.PUT("/:id/read", h.MarkNotificationRead)
			notifications.DELETE("/:id", h.DeleteNotification)
		}

		upload := api.Group("/upload")
		upload.Use(h.authMiddleware.RequireAuth())
		{
			upload.GET("/token", h.UploadToken)
			upload.POST("/avatar", h.UploadAvatar)
		}
	}
}

// Health reports liveness.
func (h *Handler) Health(c *gin.Context) {
	response.Success(c, gin.H{"status": "ok"})
}
