package repository

import (
	"context"

	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type FeedRepository interface {
	// Page reads one timeline page for owner, newest first.
	Page(ctx context.Context, userID string, limit int, startAfter *cursor.Key) ([]model.FeedEntry, *cursor.Key, error)
	// InsertAll materializes entries, skipping (user, post) pairs that
	// already exist.
	InsertAll(ctx context.Context, entries []model.FeedEntry) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
	// DeleteByOwnerAuthor prunes one author from one owner's timeline
	// (unfollow cleanup).
	DeleteByOwnerAuthor(ctx context.Context, userID, authorID string) (int64, error)
}

type feedRepository struct {
	s *store.Store
}

func NewFeedRepository(s *store.Store) FeedRepository { return &feedRepository{s: s} }

func (r *feedRepository) Page(ctx context.Context, userID string, limit int, startAfter *cursor.Key) ([]model.FeedEntry, *cursor.Key, error) {
	return store.QueryPage[model.FeedEntry](ctx, r.s, store.PageQuery{
		Where:      "user_id = ?",
		Args:       []any{userID},
		SortColumn: "score",
		TieColumn:  "post_id",
		Limit:      limit,
		StartAfter: startAfter,
	})
}

func (r *feedRepository) InsertAll(ctx context.Context, entries []model.FeedEntry) error {
	return store.PutAllIfAbsent(ctx, r.s, entries)
}

func (r *feedRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return store.DeleteWhere[model.FeedEntry](ctx, r.s, "post_id = ?", postID)
}

func (r *feedRepository) DeleteByOwnerAuthor(ctx context.Context, userID, authorID string) (int64, error) {
	return store.DeleteWhere[model.FeedEntry](ctx, r.s, "user_id = ? AND author_id = ?", userID, authorID)
}
