package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
)

func TestNotifySelfSuppressed(t *testing.T) {
	f := newFixture()
	user := primitive.NewObjectID()

	n, err := f.noteSvc.Notify(context.Background(), user, user, domain.NotificationFollow, nil, nil)
	require.NoError(t, err)
	assert.Nil(t, n)
	assert.Empty(t, f.notes.notifications)
}

func TestNotifyDedupWindow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	post := primitive.NewObjectID()

	first, err := f.noteSvc.Notify(ctx, recipient, sender, domain.NotificationPostLike, &post, nil)
	require.NoError(t, err)
	require.NotNil(t, first)

	// Within the window the existing record comes back, nothing new stored.
	second, err := f.noteSvc.Notify(ctx, recipient, sender, domain.NotificationPostLike, &post, nil)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Len(t, f.notes.notifications, 1)

	// Age the stored record past the window: a fresh one is created.
	f.notes.notifications[0].CreatedAt = time.Now().Add(-25 * time.Hour)
	third, err := f.noteSvc.Notify(ctx, recipient, sender, domain.NotificationPostLike, &post, nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, third.ID)
	assert.Len(t, f.notes.notifications, 2)
}

func TestNotifyDedupePerComment(t *testing.T) {
	ctx := context.Background()
	recipient := primitive.NewObjectID()
	sender := primitive.NewObjectID()
	post := primitive.NewObjectID()
	commentA := primitive.NewObjectID()
	commentB := primitive.NewObjectID()

	// Per-comment keying: two distinct comments both notify.
	f := newFixture()
	_, err := f.noteSvc.Notify(ctx, recipient, sender, domain.NotificationComment, &post, &commentA)
	require.NoError(t, err)
	_, err = f.noteSvc.Notify(ctx, recipient, sender, domain.NotificationComment, &post, &commentB)
	require.NoError(t, err)
	assert.Len(t, f.notes.notifications, 2)

	// Per-post keying: the second comment collapses into the first.
	g := newFixture()
	perPost := NewNotificationService(g.notes, g.users, g.posts, g.comments, g.cache, false)
	_, err = perPost.Notify(ctx, recipient, sender, domain.NotificationComment, &post, &commentA)
	require.NoError(t, err)
	_, err = perPost.Notify(ctx, recipient, sender, domain.NotificationComment, &post, &commentB)
	require.NoError(t, err)
	assert.Len(t, g.notes.notifications, 1)
}

func TestMarkAsReadSingle(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	_, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	page, err := f.noteSvc.List(ctx, alice.User.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	require.False(t, page.Notifications[0].IsRead)

	marked, err := f.noteSvc.MarkAsRead(ctx, alice.User.ID, page.Notifications[0].ID)
	require.NoError(t, err)
	require.NotNil(t, marked)
	assert.True(t, marked.IsRead)

	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkAsReadOwnershipScoped(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	_, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	page, err := f.noteSvc.List(ctx, alice.User.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)

	// bob cannot mark or delete alice's notification.
	_, err = f.noteSvc.MarkAsRead(ctx, bob.User.ID, page.Notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
	err = f.noteSvc.Delete(ctx, bob.User.ID, page.Notifications[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	carol := f.register(t, "carol", "carol@example.com")

	postA := f.createPost(t, alice.User.ID, "alice post")
	postB := f.createPost(t, bob.User.ID, "bob post")
	_, err := f.postSvc.ToggleLike(ctx, postA.ID, bob.User.ID)
	require.NoError(t, err)
	_, err = f.commentSvc.Add(ctx, postA.ID, carol.User.ID, &domain.AddCommentRequest{Content: "hi"})
	require.NoError(t, err)
	_, err = f.postSvc.ToggleLike(ctx, postB.ID, alice.User.ID)
	require.NoError(t, err)

	result, err := f.noteSvc.MarkAsRead(ctx, alice.User.ID, MarkAllToken)
	require.NoError(t, err)
	assert.Nil(t, result, "the all form returns no single record")

	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Zero(t, count, "alice has no unread left")

	count, err = f.noteSvc.UnreadCount(ctx, bob.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count, "other users' notifications are untouched")
}

func TestUnreadCountUsesCache(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	_, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
	assert.Equal(t, int64(1), f.cache.counts[alice.User.ID], "count lands in the cache")

	// A poisoned cache entry is served as-is until invalidated.
	f.cache.counts[alice.User.ID] = 42
	count, err = f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(42), count)
}

func TestUnreadCountFallsBackOnCacheError(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	_, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	f.cache.getErr = errFakeCache
	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err, "cache failure must not fail the read")
	assert.Equal(t, int64(1), count)
}

func TestListResolvesReferences(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "interesting title")

	_, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	page, err := f.noteSvc.List(ctx, alice.User.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, page.Notifications, 1)
	n := page.Notifications[0]
	assert.Equal(t, "bob", n.Sender.Username)
	assert.Equal(t, post.ID, n.PostID)
	assert.Equal(t, "interesting title", n.PostTitle)
	assert.Equal(t, int64(1), page.UnreadCount)
}
