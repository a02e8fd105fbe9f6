package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
)

func (f *fixture) createPost(t *testing.T, authorID, title string) *domain.PostResponse {
	t.Helper()
	post, err := f.postSvc.Create(context.Background(), authorID, &domain.CreatePostRequest{
		Title:   title,
		Content: "some content",
	})
	require.NoError(t, err)
	return post
}

func TestCreatePostValidation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")

	_, err := f.postSvc.Create(ctx, alice.User.ID, &domain.CreatePostRequest{Title: "   ", Content: "body"})
	assert.True(t, IsValidation(err), "blank title must be rejected")

	_, err = f.postSvc.Create(ctx, alice.User.ID, &domain.CreatePostRequest{Title: "t", Content: ""})
	assert.True(t, IsValidation(err), "empty content must be rejected")

	long := strings.Repeat("x", domain.MaxTitleLength+1)
	_, err = f.postSvc.Create(ctx, alice.User.ID, &domain.CreatePostRequest{Title: long, Content: "body"})
	assert.True(t, IsValidation(err), "oversized title must be rejected, not truncated")

	exact := strings.Repeat("x", domain.MaxTitleLength)
	post, err := f.postSvc.Create(ctx, alice.User.ID, &domain.CreatePostRequest{Title: exact, Content: "body"})
	require.NoError(t, err)
	assert.Len(t, post.Title, domain.MaxTitleLength)
}

func TestListPostsNewestFirst(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")

	f.createPost(t, alice.User.ID, "first")
	f.createPost(t, alice.User.ID, "second")
	f.createPost(t, alice.User.ID, "third")

	all, err := f.postSvc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Title)
	assert.Equal(t, "alice", all[0].Author.Username)

	page, err := f.postSvc.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "first", page[0].Title)
}

func TestGetPostCountsView(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	got, err := f.postSvc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.Views)

	got, err = f.postSvc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.Views, "every read counts, repeat reads included")
}

func TestGetPostViewNotCountedWhenWriteFails(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	// The counter write fails (post racing with deletion, store error):
	// the response must not report a view that was never stored.
	f.posts.viewsErr = repository.ErrPostNotFound
	got, err := f.postSvc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Views)

	f.posts.viewsErr = errFakeCache
	got, err = f.postSvc.Get(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Views)
}

func TestUpdatePostAuthorOnly(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	newTitle := "edited"
	_, err := f.postSvc.Update(ctx, post.ID, bob.User.ID, &domain.UpdatePostRequest{Title: &newTitle})
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	updated, err := f.postSvc.Update(ctx, post.ID, alice.User.ID, &domain.UpdatePostRequest{Title: &newTitle})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Title)
	assert.Equal(t, "some content", updated.Content, "omitted fields stay untouched")
}

func TestToggleLikeRoundTrip(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	result, err := f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)
	assert.Equal(t, 1, result.LikesCount)

	// The author is notified about the new like.
	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	result, err = f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)
	assert.False(t, result.IsLiked)
	assert.Equal(t, 0, result.LikesCount)
}

func TestSelfLikeDoesNotNotify(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	result, err := f.postSvc.ToggleLike(ctx, post.ID, alice.User.ID)
	require.NoError(t, err)
	assert.True(t, result.IsLiked)

	count, err := f.noteSvc.UnreadCount(ctx, alice.User.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestDeletePostCascades(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	alice := f.register(t, "alice", "alice@example.com")
	bob := f.register(t, "bob", "bob@example.com")
	post := f.createPost(t, alice.User.ID, "hello")

	_, err := f.commentSvc.Add(ctx, post.ID, bob.User.ID, &domain.AddCommentRequest{Content: "nice"})
	require.NoError(t, err)
	_, err = f.postSvc.ToggleLike(ctx, post.ID, bob.User.ID)
	require.NoError(t, err)

	err = f.postSvc.Delete(ctx, post.ID, bob.User.ID)
	assert.ErrorIs(t, err, ErrNotPostAuthor)

	require.NoError(t, f.postSvc.Delete(ctx, post.ID, alice.User.ID))

	_, err = f.postSvc.Get(ctx, post.ID)
	assert.ErrorIs(t, err, ErrPostNotFound)
	assert.Empty(t, f.comments.comments, "comments cascade with the post")

	// Notifications referencing the post are gone too.
	page, err := f.noteSvc.List(ctx, alice.User.ID, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, page.Notifications)
}

func TestListByUserUnknownUser(t *testing.T) {
	f := newFixture()
	_, err := f.postSvc.ListByUser(context.Background(), "not-a-hex-id")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
