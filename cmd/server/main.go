package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"github.com/forumhq/forum-api/internal/cache"
	"github.com/forumhq/forum-api/internal/config"
	"github.com/forumhq/forum-api/internal/handler"
	"github.com/forumhq/forum-api/internal/metrics"
	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/internal/service"
	"github.com/forumhq/forum-api/internal/storage"
	"github.com/forumhq/forum-api/internal/token"
	"github.com/forumhq/forum-api/pkg/log"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := log.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	log.Init(log.Config{Level: cfg.Log.Level, ServiceName: "forum-api"})
	l := log.L()

	if cfg.JWT.Secret == "" {
		l.Fatal().Msg("jwt.secret is required")
	}

	// Connect to MongoDB
	db, err := repository.Connect(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := db.Client().Disconnect(context.Background()); err != nil {
			l.Warn().Err(err).Msg("mongodb disconnect failed")
		}
	}()

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		l.Fatal().Err(err).Msg("failed to create indexes")
	}

	// Unread-count cache
	unreadCache, err := cache.NewRedisUnreadCache(cfg.Redis, cfg.Cache.Prefix, cfg.Cache.TTL)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer unreadCache.Close()

	// Object storage for uploads
	store, err := storage.NewS3Storage(ctx, cfg.S3)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize object storage")
	}

	tokens := token.NewManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)

	// Repositories
	userRepo := repository.NewMongoUserRepository(db)
	postRepo := repository.NewMongoPostRepository(db)
	commentRepo := repository.NewMongoCommentRepository(db)
	notificationRepo := repository.NewMongoNotificationRepository(db)

	// Services
	notificationService := service.NewNotificationService(notificationRepo, userRepo, postRepo, commentRepo, unreadCache, cfg.Notifications.DedupePerComment)
	userService := service.NewUserService(userRepo, notificationService, tokens)
	postService := service.NewPostService(postRepo, commentRepo, userRepo, notificationService)
	commentService := service.NewCommentService(commentRepo, postRepo, userRepo, notificationService)
	uploadService := service.NewUploadService(store, userRepo, cfg.Upload.TokenTTL, cfg.Upload.MaxAvatarBytes)

	authMiddleware := middleware.NewAuthMiddleware(tokens)
	httpHandler := handler.NewHandler(userService, postService, commentService, notificationService, uploadService, authMiddleware)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(l))
	r.Use(metrics.Handler())

	httpHandler.RegisterRoutes(r)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		l.Info().Str("addr", addr).Msg("forum api starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("server exited with error")
	}
	l.Info().Msg("server stopped")
}
