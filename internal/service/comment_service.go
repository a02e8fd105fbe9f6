package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/pkg/log"
)

// commentServiceImpl implements CommentService.
type commentServiceImpl struct {
	comments      repository.CommentRepository
	posts         repository.PostRepository
	users         repository.UserRepository
	notifications NotificationService
}

// NewCommentService creates a new comment service.
func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, users repository.UserRepository, notifications NotificationService) CommentService {
	return &commentServiceImpl{
		comments:      comments,
		posts:         posts,
		users:         users,
		notifications: notifications,
	}
}

// Add stores a comment under a post, appends it to the post's comment list
// and notifies the post author.
func (s *commentServiceImpl) Add(ctx context.Context, postID, authorID string, req *domain.AddCommentRequest) (*domain.CommentResponse, error) {
	l := log.Ctx(ctx)

	if req.Content == "" {
		return nil, NewValidationError("comment content is required")
	}

	pid, err := parseID(postID, ErrPostNotFound)
	if err != nil {
		return nil, err
	}
	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	post, err := s.posts.GetByID(ctx, pid)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to get post for comment")
		return nil, err
	}

	comment := &domain.Comment{
		Content: req.Content,
		Images:  req.Images,
		Author:  author,
		Post:    pid,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		l.Error().Err(err).Str(log.FieldPostID, postID).Msg("failed to create comment")
		return nil, err
	}

	// Second write against a second collection; not atomic with the insert.
	if err := s.posts.PushComment(ctx, pid, comment.ID); err != nil {
		l.Warn().Err(err).
			Str(log.FieldPostID, postID).
			Str(log.FieldCommentID, comment.ID.Hex()).
			Msg("failed to attach comment to post")
	}

	if _, err := s.notifications.Notify(ctx, post.Author, author, domain.NotificationComment, &pid, &comment.ID); err != nil {
		l.Warn().Err(err).Str(log.FieldPostID, postID).Msg("failed to create comment notification")
	}

	return s.buildResponse(ctx, comment)
}

// Update applies the provided fields, author only.
func (s *commentServiceImpl) Update(ctx context.Context, commentID, authorID string, req *domain.UpdateCommentRequest) (*domain.CommentResponse, error) {
	l := log.Ctx(ctx)

	if req.Content != nil && *req.Content == "" {
		return nil, NewValidationError("comment content cannot be empty")
	}

	id, err := parseID(commentID, ErrCommentNotFound)
	if err != nil {
		return nil, err
	}
	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}
	if comment.Author != author {
		return nil, ErrNotCommentAuthor
	}

	updated, err := s.comments.Update(ctx, id, domain.CommentUpdate{
		Content: req.Content,
		Images:  req.Images,
	})
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to update comment")
		return nil, err
	}
	return s.buildResponse(ctx, updated)
}

// Delete removes a comment and pulls its id from the parent post's comment
// list. The two writes hit two collections without a transaction: a crash
// in between leaves the post referencing a deleted comment.
func (s *commentServiceImpl) Delete(ctx context.Context, commentID, authorID string) error {
	l := log.Ctx(ctx)

	id, err := parseID(commentID, ErrCommentNotFound)
	if err != nil {
		return err
	}
	author, err := parseID(authorID, ErrUserNotFound)
	if err != nil {
		return err
	}

	comment, err := s.getComment(ctx, id)
	if err != nil {
		return err
	}
	if comment.Author != author {
		return ErrNotCommentAuthor
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return ErrCommentNotFound
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to delete comment")
		return err
	}

	if err := s.posts.PullComment(ctx, comment.Post, id); err != nil && !errors.Is(err, repository.ErrPostNotFound) {
		l.Warn().Err(err).
			Str(log.FieldPostID, comment.Post.Hex()).
			Str(log.FieldCommentID, commentID).
			Msg("failed to detach comment from post")
	}
	return nil
}

// ToggleLike flips the caller's membership in the comment's like set.
// Newly liking notifies the comment author.
func (s *commentServiceImpl) ToggleLike(ctx context.Context, commentID, userID string) (*domain.LikeResult, error) {
	l := log.Ctx(ctx)

	id, err := parseID(commentID, ErrCommentNotFound)
	if err != nil {
		return nil, err
	}
	user, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	comment, err := s.getComment(ctx, id)
	if err != nil {
		return nil, err
	}

	liked := comment.HasLike(user)
	var updated *domain.Comment
	if liked {
		updated, err = s.comments.RemoveLike(ctx, id, user)
	} else {
		updated, err = s.comments.AddLike(ctx, id, user)
	}
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		l.Error().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to toggle comment like")
		return nil, err
	}

	if !liked {
		if _, err := s.notifications.Notify(ctx, comment.Author, user, domain.NotificationCommentLike, &comment.Post, &id); err != nil {
			l.Warn().Err(err).Str(log.FieldCommentID, commentID).Msg("failed to create comment like notification")
		}
	}

	return &domain.LikeResult{
		LikesCount: len(updated.Likes),
		IsLiked:    !liked,
	}, nil
}

func (s *commentServiceImpl) getComment(ctx context.Context, id primitive.ObjectID) (*domain.Comment, error) {
	comment, err := s.comments.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCommentNotFound) {
			return nil, ErrCommentNotFound
		}
		log.Ctx(ctx).Error().Err(err).Str(log.FieldCommentID, id.Hex()).Msg("failed to get comment")
		return nil, err
	}
	return comment, nil
}

func (s *commentServiceImpl) buildResponse(ctx context.Context, comment *domain.Comment) (*domain.CommentResponse, error) {
	summaries, err := loadSummaries(ctx, s.users, []primitive.ObjectID{comment.Author})
	if err != nil {
		return nil, err
	}
	resp := buildCommentResponse(comment, summaries[comment.Author])
	return &resp, nil
}

// buildCommentResponse maps a comment document onto its response shape.
func buildCommentResponse(comment *domain.Comment, author domain.UserSummary) domain.CommentResponse {
	likes := make([]string, 0, len(comment.Likes))
	for _, id := range comment.Likes {
		likes = append(likes, id.Hex())
	}
	return domain.CommentResponse{
		ID:         comment.ID.Hex(),
		Content:    comment.Content,
		Images:     comment.Images,
		Author:     author,
		PostID:     comment.Post.Hex(),
		Likes:      likes,
		LikesCount: len(likes),
		CreatedAt:  comment.CreatedAt,
		UpdatedAt:  comment.UpdatedAt,
	}
}

var _ CommentService = (*commentServiceImpl)(nil)
