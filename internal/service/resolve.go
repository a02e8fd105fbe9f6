package service

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/forumhq/forum-api/internal/domain"
	"github.com/forumhq/forum-api/internal/repository"
)

// parseID converts a hex id from the HTTP layer into an ObjectID. A
// malformed id cannot reference any document, so it maps to notFound.
func parseID(hex string, notFound error) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, notFound
	}
	return id, nil
}

// loadSummaries resolves user ids into compact summaries in one query.
// Deleted users resolve to a summary carrying only the id.
func loadSummaries(ctx context.Context, users repository.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]domain.UserSummary, error) {
	seen := make(map[primitive.ObjectID]struct{}, len(ids))
	unique := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	found, err := users.GetMany(ctx, unique)
	if err != nil {
		return nil, err
	}

	summaries := make(map[primitive.ObjectID]domain.UserSummary, len(unique))
	for _, id := range unique {
		summaries[id] = domain.UserSummary{ID: id.Hex()}
	}
	for i := range found {
		summaries[found[i].ID] = found[i].ToSummary()
	}
	return summaries, nil
}

// buildProfile assembles the public profile with resolved follower and
// following summaries.
func buildProfile(ctx context.Context, users repository.UserRepository, user *domain.User) (*domain.ProfileResponse, error) {
	ids := make([]primitive.ObjectID, 0, len(user.Followers)+len(user.Following))
	ids = append(ids, user.Followers...)
	ids = append(ids, user.Following...)

	summaries, err := loadSummaries(ctx, users, ids)
	if err != nil {
		return nil, err
	}

	followers := make([]domain.UserSummary, 0, len(user.Followers))
	for _, id := range user.Followers {
		followers = append(followers, summaries[id])
	}
	following := make([]domain.UserSummary, 0, len(user.Following))
	for _, id := range user.Following {
		following = append(following, summaries[id])
	}

	return &domain.ProfileResponse{
		ID:             user.ID.Hex(),
		Username:       user.Username,
		Avatar:         user.Avatar,
		Bio:            user.Bio,
		Followers:      followers,
		Following:      following,
		FollowersCount: len(followers),
		FollowingCount: len(following),
		CreatedAt:      user.CreatedAt,
	}, nil
}
