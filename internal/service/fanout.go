package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/pkg/logger"
	"github.com/d60-Lab/newsfeed/pkg/metrics"
)

// FanoutWorker drains the outbox into feed_entries: every published
// post becomes one FeedEntry per follower plus one for the author's own
// timeline (fan-out-on-write).
type FanoutWorker struct {
	outboxRepo   repository.OutboxRepository
	relRepo      repository.RelationshipRepository
	feedRepo     repository.FeedRepository
	m            *metrics.Metrics // optional
	workers      int
	batchSize    int
	claimLimit   int
	pollInterval time.Duration
}

func NewFanoutWorker(outboxRepo repository.OutboxRepository, relRepo repository.RelationshipRepository, feedRepo repository.FeedRepository, m *metrics.Metrics, workers, batchSize, claimLimit int, pollInterval time.Duration) *FanoutWorker {
	if workers <= 0 {
		workers = 4
	}
	if batchSize <= 0 {
		batchSize = 500
	}
	if claimLimit <= 0 {
		claimLimit = 128
	}
	if pollInterval <= 0 {
		pollInterval = 50 * time.Millisecond
	}
	return &FanoutWorker{
		outboxRepo:   outboxRepo,
		relRepo:      relRepo,
		feedRepo:     feedRepo,
		m:            m,
		workers:      workers,
		batchSize:    batchSize,
		claimLimit:   claimLimit,
		pollInterval: pollInterval,
	}
}

// Start launches the polling workers; the returned function stops them.
func (w *FanoutWorker) Start() func(context.Context) error {
	stop := make(chan struct{})
	for i := 0; i < w.workers; i++ {
		go w.loop(stop)
	}
	return func(ctx context.Context) error { close(stop); return nil }
}

func (w *FanoutWorker) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(context.Background()); err != nil {
				logger.Warn("fanout pass failed", zap.Error(err))
			}
		}
	}
}

// ProcessOnce claims one batch of pending events and fans each out.
// It returns how many events were processed.
func (w *FanoutWorker) ProcessOnce(ctx context.Context) (int, error) {
	batch, err := w.outboxRepo.ClaimPending(ctx, w.claimLimit)
	if err != nil {
		return 0, err
	}
	for _, event := range batch {
		total, err := w.fanout(ctx, event)
		if err != nil {
			logger.Warn("fanout event failed",
				zap.String("post", event.PostID), zap.Error(err))
			continue
		}
		if err := w.outboxRepo.MarkDone(ctx, event.ID, total); err != nil {
			logger.Warn("outbox mark done failed",
				zap.String("post", event.PostID), zap.Error(err))
		}
		if w.m != nil {
			w.m.OutboxProcessed.Inc()
			w.m.FanoutEntries.Add(float64(total))
			if !event.CreatedAt.IsZero() {
				w.m.FanoutLatency.Observe(time.Since(event.CreatedAt).Seconds())
			}
		}
	}
	return len(batch), nil
}

func (w *FanoutWorker) fanout(ctx context.Context, event model.Outbox) (int64, error) {
	now := time.Now()

	// Author sees their own post in their timeline.
	own := []model.FeedEntry{{
		ID:        uuid.New().String(),
		UserID:    event.AuthorID,
		PostID:    event.PostID,
		AuthorID:  event.AuthorID,
		Score:     event.Score,
		CreatedAt: now,
	}}
	if err := w.feedRepo.InsertAll(ctx, own); err != nil {
		return 0, err
	}
	total := int64(1)

	offset := 0
	for {
		followerIDs, err := w.relRepo.ListFollowerIDs(ctx, event.AuthorID, offset, w.batchSize)
		if err != nil {
			return total, err
		}
		if len(followerIDs) == 0 {
			break
		}
		entries := make([]model.FeedEntry, 0, len(followerIDs))
		for _, fid := range followerIDs {
			entries = append(entries, model.FeedEntry{
				ID:        uuid.New().String(),
				UserID:    fid,
				PostID:    event.PostID,
				AuthorID:  event.AuthorID,
				Score:     event.Score,
				CreatedAt: now,
			})
		}
		if err := w.feedRepo.InsertAll(ctx, entries); err != nil {
			return total, err
		}
		total += int64(len(entries))
		if len(followerIDs) < w.batchSize {
			break
		}
		offset += w.batchSize
	}
	return total, nil
}
