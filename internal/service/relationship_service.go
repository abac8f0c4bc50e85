package service

import (
	"context"

	"github.com/d60-Lab/newsfeed/internal/apperr"
	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
)

// ProfilePage is one page of public profiles (following/followers).
type ProfilePage struct {
	Profiles  []*model.UserProfile
	NextToken string
	HasMore   bool
}

type RelationshipService interface {
	Follow(ctx context.Context, followerID, followingID string) error
	Unfollow(ctx context.Context, followerID, followingID string) error
	ListFollowing(ctx context.Context, userID string, limit int, token string) (*ProfilePage, error)
	ListFollowers(ctx context.Context, userID string, limit int, token string) (*ProfilePage, error)
}

type relationshipService struct {
	relRepo    repository.RelationshipRepository
	userRepo   repository.UserRepository
	backfiller *FeedBackfiller
}

func NewRelationshipService(relRepo repository.RelationshipRepository, userRepo repository.UserRepository, backfiller *FeedBackfiller) RelationshipService {
	return &relationshipService{relRepo: relRepo, userRepo: userRepo, backfiller: backfiller}
}

func (s *relationshipService) Follow(ctx context.Context, followerID, followingID string) error {
	if followerID == followingID {
		return apperr.InvalidArgument("Cannot follow yourself")
	}
	created, err := s.relRepo.Create(ctx, followerID, followingID)
	if err != nil {
		return apperr.Internal("Failed to create relationship", err)
	}
	if !created {
		return apperr.AlreadyExists("Already following this user")
	}
	if s.backfiller != nil {
		s.backfiller.EnqueueBackfill(followerID, followingID)
	}
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, followingID string) error {
	rows, err := s.relRepo.Delete(ctx, followerID, followingID)
	if err != nil {
		return apperr.Internal("Failed to delete relationship", err)
	}
	if rows == 0 {
		return apperr.NotFound("Not following this user")
	}
	if s.backfiller != nil {
		s.backfiller.EnqueuePrune(followerID, followingID)
	}
	return nil
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, limit int, token string) (*ProfilePage, error) {
	return s.listProfiles(ctx, userID, limit, token, s.relRepo.PageFollowing, func(r model.Relationship) string { return r.FollowingID })
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, limit int, token string) (*ProfilePage, error) {
	return s.listProfiles(ctx, userID, limit, token, s.relRepo.PageFollowers, func(r model.Relationship) string { return r.FollowerID })
}

type relationshipPager func(ctx context.Context, userID string, limit int, startAfter *cursor.Key) ([]model.Relationship, *cursor.Key, error)

func (s *relationshipService) listProfiles(ctx context.Context, userID string, limit int, token string, page relationshipPager, pick func(model.Relationship) string) (*ProfilePage, error) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		return nil, apperr.InvalidArgument("Limit cannot exceed 50")
	}
	var startAfter *cursor.Key
	if token != "" {
		key, err := cursor.Decode(token)
		if err != nil {
			return nil, apperr.InvalidArgument("Invalid pagination token")
		}
		startAfter = &key
	}

	rels, cont, err := page(ctx, userID, limit, startAfter)
	if err != nil {
		return nil, apperr.Internal("Failed to query relationships", err)
	}
	ids := make([]string, len(rels))
	for i, r := range rels {
		ids[i] = pick(r)
	}
	users, err := s.userRepo.BatchGet(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("Failed to load users", err)
	}
	byID := make(map[string]*model.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	// Tolerant join: relationships pointing at deleted users drop out.
	profiles := make([]*model.UserProfile, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			profiles = append(profiles, u.Profile())
		}
	}

	out := &ProfilePage{Profiles: profiles, HasMore: cont != nil}
	if cont != nil {
		out.NextToken = cursor.Encode(*cont)
	}
	return out, nil
}
