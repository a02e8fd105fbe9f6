package service

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/pkg/log"
)

// postServiceImpl implements PostService.
type postServiceImpl struct {
	posts         repository.PostRepository
	comments      repository.CommentRepository
	users         repository.UserRepository
	notifications NotificationService
}

// NewPostService creates a new post service.
func NewPostService(posts repository.PostRepository, comments repository.CommentRepository, users repository.UserRepository, notifications NotificationService) PostService {
	return &postServiceImpl{
		posts:         posts,
		comments:      comments,
		users:         users,
		notifications: notifications,
	}
}

// List returns posts newest-first with authors and comment threads
// resolved. page <= 0 returns everything, a known scaling limitation.
func (s *postServiceImpl) List(ctx context.Context, page, pageSize int64) ([]domain.PostResponse, error) {
	var limit, skip int64
	if page > 0 && pageSize > 0 {
		limit = pageSize
		skip = (page - 1) * pageSize
	}

	posts, err := s.posts.List(ctx, limit, skip)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list posts")
		return nil, err
	}
	return s.buildResponses(ctx, posts)
}

// ListByUser returns a user's posts newest-first.
func (s *postServiceImpl) ListByUser(ctx context.Context, userID string) ([]domain.PostResponse, error) {
	authorID, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	posts, err := s.posts.ListByAuthor(ctx, authorID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list posts by author")
		return nil, err
	}
	return s.buildResponses(ctx, posts)
}

// Create validates and stores a new post.
func (s *postServiceImpl) Create(ctx context.Context, authorID string, req *domain.CreatePostRequest) (*domain.PostResponse, error) {
	l := log.Ctx(ctx)

	title := strings.TrimSpace(req.Title)
	if title == "" || req.Content == "" {
		return nil, NewValidationError("title and content are required")
	}
	// Oversized titles are rejected, never truncated.
	if len([]rune(title)) > domain.MaxTitleLength {
		return nil, NewValidationError("title must be at most 200 characters")
	}

	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	post := &domain.Post{
		Title:   title,
		Content: req.Content,
		Images:  req.Images,
		Author:  author,
	}
	if err := s.posts.Create(ctx, post); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, authorID).Msg("failed to create post")
		return nil, err
	}

	return s.buildResponse(ctx, post, nil)
}

// Get resolves a post with its author and comment thread. Every read
// increments the view counter, so the returned views include this read.
func (s *postServiceImpl) Get(ctx context.Context, id string) (*domain.PostResponse, error) {
	l := log.Ctx(ctx)

	postID, err := parseID(id, ErrPostNotFound)
	if err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.posts.IncrementViews(ctx, postID); err != nil {
		if !errors.Is(err, repository.ErrPostNotFound) {
			l.Warn().Err(err).Str(log.FieldPostID, id).Msg("failed to increment views")
		}
	} else {
		// Reflect the stored increment in this response.
		post.Views++
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldPostID, id).Msg("failed to load comment thread")
		return nil, err
	}
	return s.buildResponse(ctx, post, comments)
}

// Update applies the provided fields, author only.
func (s *postServiceImpl) Update(ctx context.Context, id, authorID string, req *domain.UpdatePostRequest) (*domain.PostResponse, error) {
	l := log.Ctx(ctx)

	postID, err := parseID(id, ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, NewValidationError("title cannot be empty")
		}
		if len([]rune(title)) > domain.MaxTitleLength {
			return nil, NewValidationError("title must be at most 200 characters")
		}
		req.Title = &title
	}
	if req.Content != nil && *req.Content == "" {
		return nil, NewValidationError("content cannot be empty")
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author != author {
		return nil, ErrNotPostAuthor
	}

	updated, err := s.posts.Update(ctx, postID, domain.PostUpdate{
		Title:   req.Title,
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, id).Msg("failed to update post")
		return nil, err
	}

	comments, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		l.Error().Err(err).Str(log.FieldPostID, id).Msg("failed to load comment thread")
		return nil, err
	}
	return s.buildResponse(ctx, updated, comments)
}

// Delete removes a post, its comments and the notifications referencing
// it. The cascade steps are separate writes against separate collections;
// a crash mid-way leaves orphans (see the consistency note in DESIGN.md).
func (s *postServiceImpl) Delete(ctx context.Context, id, authorID string) error {
	l := log.Ctx(ctx)

	postID, err := parseID(id, ErrPostNotFound)
	if err != nil {
		return err
	}
	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return err
	}

	post, err := s.getPost(ctx, postID)
	if err != nil {
		return err
	}
	if post.Author != author {
		return ErrNotPostAuthor
	}

	if err := s.posts.Delete(ctx, postID); err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, id).Msg("failed to delete post")
		return err
	}

	if err := s.comments.DeleteByPost(ctx, postID); err != nil {
		l.Warn().Err(err).Str(log.FieldPostID, id).Msg("failed to cascade comment deletion")
	}
	if err := s.notifications.RemoveForPost(ctx, postID); err != nil {
		l.Warn().Err(err).Str(log.FieldPostID, id).Msg("failed to cascade notification deletion")
	}
	return nil
}

// ToggleLike flips the caller's membership in the post's like set and
// returns the new count and membership. Newly liking notifies the author.
func (s *postServiceImpl) ToggleLike(ctx context.Context, postID, userID string) (*domain.LikeResult, error) {
	l := log.Ctx(ctx)

	id, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	user, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	post, err := s.getPost(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := post.HasLike(user)
	var updated *domain.Post
	if liked {
		updated, err = s.posts.RemoveLike(ctx, id, user)
	} else {
		updated, err = s.posts.AddLike(ctx, id, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to toggle post like")
		return nil, err
	}

	if !liked {
		if _, err := s.notifications.Notify(ctx, post.Author, user, domain.NotificationPostLike, &id, nil); err != nil {
			l.Warn().Err(err).Str(log.FieldPostID, postID).Msg("failed to create post like notification")
		}
	}

	return &domain.LikeResult{
		LikesCount: len(updated.Likes),
		IsLiked:    !liked,
	}, nil
}

func (s *postServiceImpl) getPost(ctx context.Context, id primitive.ObjectID) (*domain.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, id.Hex()).Msg("failed to get post")
		return nil, err
	}
	return post, nil
}

// buildResponses resolves authors and comment threads for a page of posts.
func (s *postServiceImpl) buildResponses(ctx context.Context, posts []domain.Post) ([]domain.PostResponse, error) {
	responses := make([]domain.PostResponse, 0, len(posts))
	for i := range posts {
		comments, err := s.comments.ListByPost(ctx, posts[i].ID)
		if err != nil {
			return nil, err
		}
		resp, err := s.buildResponse(ctx, &posts[i], comments)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *resp)
	}
	return responses, nil
}

func (s *postServiceImpl) buildResponse(ctx context.Context, post *domain.Post, comments []domain.Comment) (*domain.PostResponse, error) {
	ids := []primitive.ObjectID{post.Author}
	for i := range comments {
		ids = append(ids, comments[i].Author)
	}
	summaries, err := loadSummaries(ctx, s.users, ids)
	if err != nil {
		return nil, err
	}

	commentResponses := make([]domain.CommentResponse, 0, len(comments))
	for i := range comments {
		commentResponses = append(commentResponses, buildCommentResponse(&comments[i], summaries[comments[i].Author]))
	}

	likes := make([]string, 0, len(post.Likes))
	for _, id := range post.Likes {
		likes = append(likes, id.Hex())
	}

	return &domain.PostResponse{
		ID:         post.ID.Hex(),
		Title:      post.Title,
		Content:    post.Content,
		Images:     post.Images,
		Author:     summaries[post.Author],
		Comments:   commentResponses,
		Likes:      likes,
		LikesCount: len(likes),
		Views:      post.Views,
		CreatedAt:  post.CreatedAt,
		UpdatedAt:  post.UpdatedAt,
	}, nil
}

var _ PostService = (*postServiceImpl)(nil)
