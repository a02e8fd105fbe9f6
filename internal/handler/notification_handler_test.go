package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/middleware"
	"github.com/forumhq/forum-api/internal/token"
)

// recordingNotificationService captures the paging arguments the handler
// passes down.
type recordingNotificationService struct {
	listLimit int64
	listSkip  int64
}

func (s *recordingNotificationService) Notify(context.Context, primitive.ObjectID, primitive.ObjectID, domain.NotificationType, *primitive.ObjectID, *primitive.ObjectID) (*domain.Notification, error) {
	return nil, nil
}

func (s *recordingNotificationService) List(_ context.Context, _ string, limit, skip int64) (*domain.NotificationPage, error) {
	s.listLimit = limit
	s.listSkip = skip
	return &domain.NotificationPage{Notifications: []domain.NotificationResponse{}}, nil
}

func (s *recordingNotificationService) MarkAsRead(context.Context, string, string) (*domain.NotificationResponse, error) {
	return nil, nil
}

func (s *recordingNotificationService) Delete(context.Context, string, string) error { return nil }

func (s *recordingNotificationService) RemoveForPost(context.Context, primitive.ObjectID) error {
	return nil
}

func (s *recordingNotificationService) UnreadCount(context.Context, string) (int64, error) {
	return 0, nil
}

func TestListNotificationsPaging(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tokens := token.NewManager("secret", time.Hour, "test")
	notes := &recordingNotificationService{}
	h := NewHandler(nil, nil, nil, notes, nil, middleware.NewAuthMiddleware(tokens))

	r := gin.New()
	h.RegisterRoutes(r)

	tok, err := tokens.Issue(primitive.NewObjectID().Hex())
	require.NoError(t, err)

	get := func(target string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, target, nil)
		req.Header.Set(middleware.AuthHeaderKey, middleware.BearerPrefix+tok)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// No paging parameters: twenty per page, from the start.
	w := get("/api/notifications")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(20), notes.listLimit)
	assert.Equal(t, int64(0), notes.listSkip)

	// Explicit limit/skip pass through.
	w = get("/api/notifications?limit=5&skip=10")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(5), notes.listLimit)
	assert.Equal(t, int64(10), notes.listSkip)
}
