package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/store"
)

type OutboxRepository interface {
	// ClaimPending atomically moves up to limit pending events to
	// processing and returns them.
	ClaimPending(ctx context.Context, limit int) ([]model.Outbox, error)
	MarkDone(ctx context.Context, id string, fanoutCount int64) error
	DeleteByPost(ctx context.Context, postID string) (int64, error)
}

type outboxRepository struct {
	s *store.Store
}

func NewOutboxRepository(s *store.Store) OutboxRepository { return &outboxRepository{s: s} }

func (r *outboxRepository) ClaimPending(ctx context.Context, limit int) ([]model.Outbox, error) {
	var batch []model.Outbox
	err := r.s.DB().WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("status = ?", model.OutboxStatusPending).
			Order("created_at").
			Limit(limit)
		// Skip rows claimed by a competing worker where the dialect
		// supports it; sqlite serializes writers anyway.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&batch).Error; err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}
		ids := make([]string, len(batch))
		for i, b := range batch {
			ids[i] = b.ID
		}
		return tx.Model(&model.Outbox{}).
			Where("id IN ?", ids).
			Update("status", model.OutboxStatusProcessing).Error
	})
	return batch, err
}

func (r *outboxRepository) MarkDone(ctx context.Context, id string, fanoutCount int64) error {
	now := time.Now()
	return r.s.DB().WithContext(ctx).Model(&model.Outbox{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       model.OutboxStatusDone,
			"processed_at": now,
			"fanout_count": fanoutCount,
		}).Error
}

func (r *outboxRepository) DeleteByPost(ctx context.Context, postID string) (int64, error) {
	return store.DeleteWhere[model.Outbox](ctx, r.s, "post_id = ?", postID)
}
