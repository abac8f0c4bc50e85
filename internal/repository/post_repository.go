package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/cursor"
	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type PostRepository interface {
	// CreateWithOutbox lands the post and its fan-out event in one
	// transaction so no published post is ever lost by the worker.
	CreateWithOutbox(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	BatchGet(ctx context.Context, ids []string) ([]model.Post, error)
	Delete(ctx context.Context, id string) (int64, error)
	PageByAuthor(ctx context.Context, authorID string, limit int, startAfter *cursor.Key) ([]model.Post, *cursor.Key, error)
	AddLikes(ctx context.Context, id string, delta int64) error
	AddComments(ctx context.Context, id string, delta int64) error
}

type postRepository struct {
	s *store.Store
}

func NewPostRepository(s *store.Store) PostRepository { return &postRepository{s: s} }

func (r *postRepository) CreateWithOutbox(ctx context.Context, p *model.Post) error {
	return r.s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		out := &model.Outbox{
			ID:        uuid.New().String(),
			PostID:    p.ID,
			AuthorID:  p.AuthorID,
			Score:     p.CreatedAt.UnixNano(),
			CreatedAt: p.CreatedAt,
			Status:    model.OutboxStatusPending,
		}
		return tx.Create(out).Error
	})
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	return store.Get[model.Post](ctx, r.s, "id = ?", id)
}

func (r *postRepository) BatchGet(ctx context.Context, ids []string) ([]model.Post, error) {
	return store.BatchGet[model.Post](ctx, r.s, "id", ids)
}

func (r *postRepository) Delete(ctx context.Context, id string) (int64, error) {
	return store.DeleteWhere[model.Post](ctx, r.s, "id = ?", id)
}

func (r *postRepository) PageByAuthor(ctx context.Context, authorID string, limit int, startAfter *cursor.Key) ([]model.Post, *cursor.Key, error) {
	return store.QueryPage[model.Post](ctx, r.s, store.PageQuery{
		Where:      "author_id = ?",
		Args:       []any{authorID},
		SortColumn: "created_at",
		TieColumn:  "id",
		TimeSort:   true,
		Limit:      limit,
		StartAfter: startAfter,
	})
}

func (r *postRepository) AddLikes(ctx context.Context, id string, delta int64) error {
	return r.addCounter(ctx, id, "likes_count", delta)
}

func (r *postRepository) AddComments(ctx context.Context, id string, delta int64) error {
	return r.addCounter(ctx, id, "comments_count", delta)
}

// addCounter bumps a counter atomically; decrements are guarded so the
// value stays non-negative even under racing unlikes.
func (r *postRepository) addCounter(ctx context.Context, id, column string, delta int64) error {
	tx := r.s.DB().WithContext(ctx).Model(&model.Post{}).Where("id = ?", id)
	if delta < 0 {
		tx = tx.Where(column+" >= ?", -delta)
	}
	return tx.Update(column, gorm.Expr(column+" + ?", delta)).Error
}
