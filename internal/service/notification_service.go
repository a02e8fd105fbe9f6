package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/cache"
	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/metrics"
	"github.com/forumhq/forum-api/internal/repository"
	"github.com/forumhq/forum-api/pkg/log"
)

// dedupWindow is how far back Notify looks for an equivalent notification
// before creating a new one.
const dedupWindow = 24 * time.Hour

// MarkAllToken marks every unread notification when passed as the id.
const MarkAllToken = "all"

// notificationServiceImpl implements NotificationService.
type notificationServiceImpl struct {
	repo             repository.NotificationRepository
	users            repository.UserRepository
	posts            repository.PostRepository
	comments         repository.CommentRepository
	unread           cache.UnreadCache
	dedupePerComment bool
}

// NewNotificationService creates a new notification service. When
// dedupePerComment is set, comment-scoped notifications dedupe per comment
// instead of per post.
func NewNotificationService(repo repository.NotificationRepository, users repository.UserRepository, posts repository.PostRepository, comments repository.CommentRepository, unread cache.UnreadCache, dedupePerComment bool) NotificationService {
	return &notificationServiceImpl{
		repo:             repo,
		users:            users,
		posts:            posts,
		comments:         comments,
		unread:           unread,
		dedupePerComment: dedupePerComment,
	}
}

// Notify stores a notification for recipient. Self-notifications are
// suppressed, and an equivalent notification created inside the dedup
// window is returned instead of inserting a duplicate.
func (s *notificationServiceImpl) Notify(ctx context.Context, recipient, sender primitive.ObjectID, typ domain.NotificationType, postID, commentID *primitive.ObjectID) (*domain.Notification, error) {
	l := log.Ctx(ctx)

	if recipient == sender {
		return nil, nil
	}
	if !typ.Valid() {
		return nil, NewValidationError("unknown notification type")
	}

	key := repository.NotificationKey{
		Recipient:    recipient,
		Sender:       sender,
		Type:         typ,
		Post:         postID,
		Comment:      commentID,
		MatchComment: s.matchComment(typ),
	}
	existing, err := s.repo.FindRecent(ctx, key, time.Now().Add(-dedupWindow))
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, repository.ErrNotificationNotFound) {
		l.Error().Err(err).Str(log.FieldUserID, recipient.Hex()).Msg("failed to check for duplicate notification")
		return nil, err
	}

	n := &domain.Notification{
		Recipient: recipient,
		Sender:    sender,
		Type:      typ,
		Post:      postID,
		Comment:   commentID,
	}
	if err := s.repo.Create(ctx, n); err != nil {
		l.Error().Err(err).Str(log.FieldUserID, recipient.Hex()).Msg("failed to create notification")
		return nil, err
	}
	metrics.NotificationsCreated.WithLabelValues(string(typ)).Inc()

	s.invalidateUnread(ctx, recipient.Hex())
	return n, nil
}

// matchComment reports whether the dedup key should include the comment
// reference for this type.
func (s *notificationServiceImpl) matchComment(typ domain.NotificationType) bool {
	if !s.dedupePerComment {
		return false
	}
	return typ == domain.NotificationComment || typ == domain.NotificationCommentLike
}

// List returns a page of the user's notifications newest-first, with
// senders and post/comment references resolved, plus the unread counter.
func (s *notificationServiceImpl) List(ctx context.Context, userID string, limit, skip int64) (*domain.NotificationPage, error) {
	l := log.Ctx(ctx)

	recipient, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.ListByRecipient(ctx, recipient, limit, skip)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to list notifications")
		return nil, err
	}

	responses, err := s.buildResponses(ctx, notifications)
	if err != nil {
		return nil, err
	}

	unread, err := s.UnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &domain.NotificationPage{
		Notifications: responses,
		UnreadCount:   unread,
	}, nil
}

// MarkAsRead marks one notification read, or all of them when
// notificationID is the literal "all". The "all" form returns nil.
func (s *notificationServiceImpl) MarkAsRead(ctx context.Context, userID, notificationID string) (*domain.NotificationResponse, error) {
	l := log.Ctx(ctx)

	recipient, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return nil, err
	}

	if notificationID == MarkAllToken {
		if err := s.repo.MarkAllRead(ctx, recipient); err != nil {
			l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to mark all notifications read")
			return nil, err
		}
		s.invalidateUnread(ctx, userID)
		return nil, nil
	}

	id, err := parseID(notificationID, ErrNotificationNotFound)
	if err != nil {
		return nil, err
	}

	n, err := s.repo.MarkRead(ctx, recipient, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return nil, ErrNotificationNotFound
		}
		l.Error().Err(err).Str(log.FieldNotificationID, notificationID).Msg("failed to mark notification read")
		return nil, err
	}
	s.invalidateUnread(ctx, userID)

	responses, err := s.buildResponses(ctx, []domain.Notification{*n})
	if err != nil {
		return nil, err
	}
	return &responses[0], nil
}

// Delete removes one of the user's notifications.
func (s *notificationServiceImpl) Delete(ctx context.Context, userID, notificationID string) error {
	l := log.Ctx(ctx)

	recipient, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return err
	}
	id, err := parseID(notificationID, ErrNotificationNotFound)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, recipient, id); err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			return ErrNotificationNotFound
		}
		l.Error().Err(err).Str(log.FieldNotificationID, notificationID).Msg("failed to delete notification")
		return err
	}
	s.invalidateUnread(ctx, userID)
	return nil
}

// RemoveForPost drops every notification referencing the given post. Used
// by the post deletion cascade; the per-user unread counters self-heal when
// their cache entries expire.
func (s *notificationServiceImpl) RemoveForPost(ctx context.Context, postID primitive.ObjectID) error {
	if err := s.repo.DeleteByPost(ctx, postID); err != nil {
		log.Ctx(ctx).Error().Err(err).Str(log.FieldPostID, postID.Hex()).Msg("failed to cascade notification deletion")
		return err
	}
	return nil
}

// UnreadCount serves the polling badge. The count is cached; every cache
// failure falls back to the store.
func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID string) (int64, error) {
	l := log.Ctx(ctx)

	recipient, err := parseID(userID, ErrUserNotFound)
	if err != nil {
		return 0, err
	}

	if count, ok, err := s.unread.Get(ctx, userID); err != nil {
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("unread cache read failed")
	} else if ok {
		return count, nil
	}

	count, err := s.repo.CountUnread(ctx, recipient)
	if err != nil {
		l.Error().Err(err).Str(log.FieldUserID, userID).Msg("failed to count unread notifications")
		return 0, err
	}

	if err := s.unread.Set(ctx, userID, count); err != nil {
		l.Warn().Err(err).Str(log.FieldUserID, userID).Msg("unread cache write failed")
	}
	return count, nil
}

func (s *notificationServiceImpl) invalidateUnread(ctx context.Context, userID string) {
	if err := s.unread.Invalidate(ctx, userID); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str(log.FieldUserID, userID).Msg("unread cache invalidation failed")
	}
}

// buildResponses resolves senders in one query and referenced posts and
// comments individually. References deleted since the notification was
// created resolve to empty fields rather than failing the page.
func (s *notificationServiceImpl) buildResponses(ctx context.Context, notifications []domain.Notification) ([]domain.NotificationResponse, error) {
	senderIDs := make([]primitive.ObjectID, 0, len(notifications))
	for i := range notifications {
		senderIDs = append(senderIDs, notifications[i].Sender)
	}
	senders, err := loadSummaries(ctx, s.users, senderIDs)
	if err != nil {
		return nil, err
	}

	postTitles := make(map[primitive.ObjectID]string)
	commentBodies := make(map[primitive.ObjectID]string)

	responses := make([]domain.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		n := &notifications[i]
		resp := domain.NotificationResponse{
			ID:        n.ID.Hex(),
			Type:      n.Type,
			Sender:    senders[n.Sender],
			IsRead:    n.IsRead,
			CreatedAt: n.CreatedAt,
		}

		if n.Post != nil {
			resp.PostID = n.Post.Hex()
			title, ok := postTitles[*n.Post]
			if !ok {
				if post, err := s.posts.GetByID(ctx, *n.Post); err == nil {
					title = post.Title
				} else if !errors.Is(err, repository.ErrPostNotFound) {
					return nil, err
				}
				postTitles[*n.Post] = title
			}
			resp.PostTitle = title
		}

		if n.Comment != nil {
			resp.CommentID = n.Comment.Hex()
			body, ok := commentBodies[*n.Comment]
			if !ok {
				if comment, err := s.comments.GetByID(ctx, *n.Comment); err == nil {
					body = comment.Content
				} else if !errors.Is(err, repository.ErrCommentNotFound) {
					return nil, err
				}
				commentBodies[*n.Comment] = body
			}
			resp.CommentContent = body
		}

		responses = append(responses, resp)
	}
	return responses, nil
}

var _ NotificationService = (*notificationServiceImpl)(nil)
