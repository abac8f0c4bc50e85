package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type RelationshipRepository interface {
	// Create conditionally inserts the pair; false means it already
	// existed.
	Create(ctx context.Context, followerID, followingID string) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) (int64, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	PageFollowing(ctx context.Context, followerID string, limit int, startAfter *cursor.Key) ([]model.Relationship, *cursor.Key, error)
	PageFollowers(ctx context.Context, followingID string, limit int, startAfter *cursor.Key) ([]model.Relationship, *cursor.Key, error)
	// ListFollowerIDs pages the inverse index for fan-out.
	ListFollowerIDs(ctx context.Context, followingID string, offset, limit int) ([]string, error)
}

type relationshipRepository struct {
	s *store.Store
}

func NewRelationshipRepository(s *store.Store) RelationshipRepository {
	return &relationshipRepository{s: s}
}

func (r *relationshipRepository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	rel := &model.Relationship{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	return store.PutIfAbsent(ctx, r.s, rel)
}

func (r *relationshipRepository) Delete(ctx context.Context, followerID, followingID string) (int64, error) {
	return store.DeleteWhere[model.Relationship](ctx, r.s,
		"follower_id = ? AND following_id = ?", followerID, followingID)
}

func (r *relationshipRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	return store.Exists[model.Relationship](ctx, r.s,
		"follower_id = ? AND following_id = ?", followerID, followingID)
}

func (r *relationshipRepository) PageFollowing(ctx context.Context, followerID string, limit int, startAfter *cursor.Key) ([]model.Relationship, *cursor.Key, error) {
	return store.QueryPage[model.Relationship](ctx, r.s, store.PageQuery{
		Where:      "follower_id = ?",
		Args:       []any{followerID},
		SortColumn: "created_at",
		TieColumn:  "id",
		TimeSort:   true,
		Limit:      limit,
		StartAfter: startAfter,
	})
}

func (r *relationshipRepository) PageFollowers(ctx context.Context, followingID string, limit int, startAfter *cursor.Key) ([]model.Relationship, *cursor.Key, error) {
	return store.QueryPage[model.Relationship](ctx, r.s, store.PageQuery{
		Where:      "following_id = ?",
		Args:       []any{followingID},
		SortColumn: "created_at",
		TieColumn:  "id",
		TimeSort:   true,
		Limit:      limit,
		StartAfter: startAfter,
	})
}

func (r *relationshipRepository) ListFollowerIDs(ctx context.Context, followingID string, offset, limit int) ([]string, error) {
	var ids []string
	err := r.s.DB().WithContext(ctx).
		Model(&model.Relationship{}).
		Select("follower_id").
		Where("following_id = ?", followingID).
		Order("follower_id").
		Offset(offset).
		Limit(limit).
		Scan(&ids).Error
	return ids, err
}
