package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type LikeRepository interface {
	Create(ctx context.Context, postID, userID string) (bool, error)
	Delete(ctx context.Context, postID, userID string) (int64, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type likeRepository struct {
	s *store.Store
}

func NewLikeRepository(s *store.Store) LikeRepository { return &likeRepository{s: s} }

func (r *likeRepository) Create(ctx context.Context, postID, userID string) (bool, error) {
	like := &model.Like{ID: uuid.New().String(), PostID: postID, UserID: userID}
	return store.PutIfAbsent(ctx, r.s, like)
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID string) (int64, error) {
	return store.DeleteWhere[model.Like](ctx, r.s, "post_id = ? AND user_id = ?", postID, userID)
}

func (r *likeRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return store.DeleteWhere[model.Like](ctx, r.s, "post_id = ?", postID)
}

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	PageByPost(ctx context.Context, postID string, limit int, startAfter *cursor.Key) ([]model.Comment, *cursor.Key, error)
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type commentRepository struct {
	s *store.Store
}

func NewCommentRepository(s *store.Store) CommentRepository { return &commentRepository{s: s} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	return store.Put(ctx, r.s, c)
}

func (r *commentRepository) PageByPost(ctx context.Context, postID string, limit int, startAfter *cursor.Key) ([]model.Comment, *cursor.Key, error) {
	return store.QueryPage[model.Comment](ctx, r.s, store.PageQuery{
		Where:      "post_id = ?",
		Args:       []any{postID},
		SortColumn: "created_at",
		TieColumn:  "id",
		TimeSort:   true,
		Limit:      limit,
		StartAfter: startAfter,
	})
}

func (r *commentRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return store.DeleteWhere[model.Comment](ctx, r.s, "post_id = ?", postID)
}
