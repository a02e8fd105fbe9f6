package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
)

// In-memory repository fakes. They mirror the Mongo implementations'
// contracts (sentinel errors, set semantics, ordering) without a database.

var errFakeCache = errors.New("cache unavailable")

type fakeUserRepo struct {
	users map[primitive.ObjectID]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[primitive.ObjectID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, u := range r.users {
		if u.Email == user.Email {
			return repository.ErrEmailExists
		}
		if u.Username == user.Username {
			return repository.ErrUsernameExists
		}
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	user.UpdatedAt = user.CreatedAt
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Username == username {
			clone := *u
			return &clone, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) GetMany(_ context.Context, ids []primitive.ObjectID) ([]domain.User, error) {
	var out []domain.User
	for _, id := range ids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) UpdateProfile(_ context.Context, id primitive.ObjectID, update domain.UserUpdate) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.Avatar != nil {
		u.Avatar = *update.Avatar
	}
	u.UpdatedAt = time.Now().UTC()
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) AddFollow(_ context.Context, follower, target primitive.ObjectID) error {
	f, ok := r.users[follower]
	if !ok {
		return repository.ErrUserNotFound
	}
	t, ok := r.users[target]
	if !ok {
		return repository.ErrUserNotFound
	}
	f.Following = addToSet(f.Following, target)
	t.Followers = addToSet(t.Followers, follower)
	return nil
}

func (r *fakeUserRepo) RemoveFollow(_ context.Context, follower, target primitive.ObjectID) error {
	f, ok := r.users[follower]
	if !ok {
		return repository.ErrUserNotFound
	}
	t, ok := r.users[target]
	if !ok {
		return repository.ErrUserNotFound
	}
	f.Following = pull(f.Following, target)
	t.Followers = pull(t.Followers, follower)
	return nil
}

type fakePostRepo struct {
	posts    []*domain.Post
	viewsErr error
}

func newFakePostRepo() *fakePostRepo { return &fakePostRepo{} }

func (r *fakePostRepo) find(id primitive.ObjectID) *domain.Post {
	for _, p := range r.posts {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now().UTC()
	post.UpdatedAt = post.CreatedAt
	clone := *post
	r.posts = append(r.posts, &clone)
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Post, error) {
	p := r.find(id)
	if p == nil {
		return nil, repository.ErrPostNotFound
	}
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) List(_ context.Context, limit, skip int64) ([]domain.Post, error) {
	// Newest-first: reverse insertion order.
	var out []domain.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		out = append(out, *r.posts[i])
	}
	if skip > 0 {
		if skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakePostRepo) ListByAuthor(_ context.Context, author primitive.ObjectID) ([]domain.Post, error) {
	var out []domain.Post
	for i := len(r.posts) - 1; i >= 0; i-- {
		if r.posts[i].Author == author {
			out = append(out, *r.posts[i])
		}
	}
	return out, nil
}

func (r *fakePostRepo) Update(_ context.Context, id primitive.ObjectID, update domain.PostUpdate) (*domain.Post, error) {
	p := r.find(id)
	if p == nil {
		return nil, repository.ErrPostNotFound
	}
	if update.Title != nil {
		p.Title = *update.Title
	}
	if update.Content != nil {
		p.Content = *update.Content
	}
	if update.Images != nil {
		p.Images = *update.Images
	}
	p.UpdatedAt = time.Now().UTC()
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, p := range r.posts {
		if p.ID == id {
			r.posts = append(r.posts[:i], r.posts[i+1:]...)
			return nil
		}
	}
	return repository.ErrPostNotFound
}

func (r *fakePostRepo) IncrementViews(_ context.Context, id primitive.ObjectID) error {
	if r.viewsErr != nil {
		return r.viewsErr
	}
	p := r.find(id)
	if p == nil {
		return repository.ErrPostNotFound
	}
	p.Views++
	return nil
}

func (r *fakePostRepo) AddLike(_ context.Context, postID, userID primitive.ObjectID) (*domain.Post, error) {
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrPostNotFound
	}
	p.Likes = addToSet(p.Likes, userID)
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) RemoveLike(_ context.Context, postID, userID primitive.ObjectID) (*domain.Post, error) {
	p := r.find(postID)
	if p == nil {
		return nil, repository.ErrPostNotFound
	}
	p.Likes = pull(p.Likes, userID)
	clone := *p
	return &clone, nil
}

func (r *fakePostRepo) PushComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	p := r.find(postID)
	if p == nil {
		return repository.ErrPostNotFound
	}
	p.Comments = addToSet(p.Comments, commentID)
	return nil
}

func (r *fakePostRepo) PullComment(_ context.Context, postID, commentID primitive.ObjectID) error {
	p := r.find(postID)
	if p == nil {
		return repository.ErrPostNotFound
	}
	p.Comments = pull(p.Comments, commentID)
	return nil
}

type fakeCommentRepo struct {
	comments []*domain.Comment
}

func newFakeCommentRepo() *fakeCommentRepo { return &fakeCommentRepo{} }

func (r *fakeCommentRepo) find(id primitive.ObjectID) *domain.Comment {
	for _, c := range r.comments {
		if c.ID == id {
			return c
		}
	}
	return nil
}

func (r *fakeCommentRepo) Create(_ context.Context, comment *domain.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now().UTC()
	comment.UpdatedAt = comment.CreatedAt
	clone := *comment
	r.comments = append(r.comments, &clone)
	return nil
}

func (r *fakeCommentRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	c := r.find(id)
	if c == nil {
		return nil, repository.ErrCommentNotFound
	}
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) ListByPost(_ context.Context, postID primitive.ObjectID) ([]domain.Comment, error) {
	var out []domain.Comment
	for _, c := range r.comments {
		if c.Post == postID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) Update(_ context.Context, id primitive.ObjectID, update domain.CommentUpdate) (*domain.Comment, error) {
	c := r.find(id)
	if c == nil {
		return nil, repository.ErrCommentNotFound
	}
	if update.Content != nil {
		c.Content = *update.Content
	}
	if update.Images != nil {
		c.Images = *update.Images
	}
	c.UpdatedAt = time.Now().UTC()
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	for i, c := range r.comments {
		if c.ID == id {
			r.comments = append(r.comments[:i], r.comments[i+1:]...)
			return nil
		}
	}
	return repository.ErrCommentNotFound
}

func (r *fakeCommentRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	kept := r.comments[:0]
	for _, c := range r.comments {
		if c.Post != postID {
			kept = append(kept, c)
		}
	}
	r.comments = kept
	return nil
}

func (r *fakeCommentRepo) AddLike(_ context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error) {
	c := r.find(commentID)
	if c == nil {
		return nil, repository.ErrCommentNotFound
	}
	c.Likes = addToSet(c.Likes, userID)
	clone := *c
	return &clone, nil
}

func (r *fakeCommentRepo) RemoveLike(_ context.Context, commentID, userID primitive.ObjectID) (*domain.Comment, error) {
	c := r.find(commentID)
	if c == nil {
		return nil, repository.ErrCommentNotFound
	}
	c.Likes = pull(c.Likes, userID)
	clone := *c
	return &clone, nil
}

type fakeNotificationRepo struct {
	notifications []*domain.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo { return &fakeNotificationRepo{} }

func (r *fakeNotificationRepo) Create(_ context.Context, n *domain.Notification) error {
	n.ID = primitive.NewObjectID()
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	clone := *n
	r.notifications = append(r.notifications, &clone)
	return nil
}

func (r *fakeNotificationRepo) FindRecent(_ context.Context, key repository.NotificationKey, since time.Time) (*domain.Notification, error) {
	for i := len(r.notifications) - 1; i >= 0; i-- {
		n := r.notifications[i]
		if n.Recipient != key.Recipient || n.Sender != key.Sender || n.Type != key.Type {
			continue
		}
		if !refEqual(n.Post, key.Post) {
			continue
		}
		if key.MatchComment && !refEqual(n.Comment, key.Comment) {
			continue
		}
		if n.CreatedAt.Before(since) {
			continue
		}
		clone := *n
		return &clone, nil
	}
	return nil, repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) ListByRecipient(_ context.Context, recipient primitive.ObjectID, limit, skip int64) ([]domain.Notification, error) {
	var out []domain.Notification
	for i := len(r.notifications) - 1; i >= 0; i-- {
		if r.notifications[i].Recipient == recipient {
			out = append(out, *r.notifications[i])
		}
	}
	if skip > 0 {
		if skip >= int64(len(out)) {
			return nil, nil
		}
		out = out[skip:]
	}
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) CountUnread(_ context.Context, recipient primitive.ObjectID) (int64, error) {
	var count int64
	for _, n := range r.notifications {
		if n.Recipient == recipient && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (r *fakeNotificationRepo) MarkRead(_ context.Context, recipient, id primitive.ObjectID) (*domain.Notification, error) {
	for _, n := range r.notifications {
		if n.ID == id && n.Recipient == recipient {
			n.IsRead = true
			clone := *n
			return &clone, nil
		}
	}
	return nil, repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(_ context.Context, recipient primitive.ObjectID) error {
	for _, n := range r.notifications {
		if n.Recipient == recipient {
			n.IsRead = true
		}
	}
	return nil
}

func (r *fakeNotificationRepo) Delete(_ context.Context, recipient, id primitive.ObjectID) error {
	for i, n := range r.notifications {
		if n.ID == id && n.Recipient == recipient {
			r.notifications = append(r.notifications[:i], r.notifications[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) DeleteByPost(_ context.Context, postID primitive.ObjectID) error {
	kept := r.notifications[:0]
	for _, n := range r.notifications {
		if n.Post == nil || *n.Post != postID {
			kept = append(kept, n)
		}
	}
	r.notifications = kept
	return nil
}

type fakeUnreadCache struct {
	counts       map[string]int64
	invalidated  int
	getErr       error
	failWrites   bool
	writesFailed int
}

func newFakeUnreadCache() *fakeUnreadCache {
	return &fakeUnreadCache{counts: make(map[string]int64)}
}

func (c *fakeUnreadCache) Get(_ context.Context, userID string) (int64, bool, error) {
	if c.getErr != nil {
		return 0, false, c.getErr
	}
	count, ok := c.counts[userID]
	return count, ok, nil
}

func (c *fakeUnreadCache) Set(_ context.Context, userID string, count int64) error {
	if c.failWrites {
		c.writesFailed++
		return errFakeCache
	}
	c.counts[userID] = count
	return nil
}

func (c *fakeUnreadCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated++
	if c.failWrites {
		c.writesFailed++
		return errFakeCache
	}
	delete(c.counts, userID)
	return nil
}

func (c *fakeUnreadCache) Close() error { return nil }

type fakeStorage struct {
	bucket    string
	publicURL string
}

func (s *fakeStorage) PresignUpload(_ context.Context, key, _ string, _ time.Duration) (string, error) {
	return "https://signed.example/" + s.bucket + "/" + key, nil
}

func (s *fakeStorage) PublicURL() string { return s.publicURL }
func (s *fakeStorage) Bucket() string    { return s.bucket }

func addToSet(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	for _, existing := range set {
		if existing == id {
			return set
		}
	}
	return append(set, id)
}

func pull(set []primitive.ObjectID, id primitive.ObjectID) []primitive.ObjectID {
	out := set[:0]
	for _, existing := range set {
		if existing != id {
			out = append(out, existing)
		}
	}
	return out
}

func refEqual(a, b *primitive.ObjectID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
