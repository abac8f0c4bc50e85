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

type backfillAction int

const (
	actionBackfill backfillAction = iota + 1
	actionPrune
)

type backfillJob struct {
	action     backfillAction
	followerID string
	authorID   string
	enqAt      time.Time
}

// FeedBackfiller reconciles a follower's timeline after relationship
// changes: follow copies the author's recent posts in, unfollow prunes
// the author out. Jobs run asynchronously on a bounded queue; overflow
// is dropped with a warning rather than blocking the request path.
type FeedBackfiller struct {
	postRepo repository.PostRepository
	feedRepo repository.FeedRepository
	m        *metrics.Metrics // optional
	ch       chan backfillJob
	limit    int
}

func NewFeedBackfiller(postRepo repository.PostRepository, feedRepo repository.FeedRepository, m *metrics.Metrics, queueSize, backfillLimit int) *FeedBackfiller {
	if queueSize <= 0 {
		queueSize = 10000
	}
	if backfillLimit <= 0 {
		backfillLimit = 50
	}
	return &FeedBackfiller{
		postRepo: postRepo,
		feedRepo: feedRepo,
		m:        m,
		ch:       make(chan backfillJob, queueSize),
		limit:    backfillLimit,
	}
}

func (b *FeedBackfiller) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 4
	}
	stopCh := make(chan struct{})
	for i := 0; i < workers; i++ {
		go func() {
			for {
				select {
				case job := <-b.ch:
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					b.run(ctx, job)
					cancel()
					b.observeQueue()
				case <-stopCh:
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		// Let the queue drain briefly before giving up.
		timeout := time.After(2 * time.Second)
		for {
			select {
			case <-timeout:
				return nil
			default:
				if len(b.ch) == 0 {
					return nil
				}
				time.Sleep(50 * time.Millisecond)
			}
		}
	}
}

func (b *FeedBackfiller) run(ctx context.Context, job backfillJob) {
	switch job.action {
	case actionBackfill:
		if err := b.backfill(ctx, job.followerID, job.authorID); err != nil {
			logger.Warn("feed backfill failed",
				zap.String("follower", job.followerID),
				zap.String("author", job.authorID),
				zap.Error(err))
		}
	case actionPrune:
		if _, err := b.feedRepo.DeleteByOwnerAuthor(ctx, job.followerID, job.authorID); err != nil {
			logger.Warn("feed prune failed",
				zap.String("follower", job.followerID),
				zap.String("author", job.authorID),
				zap.Error(err))
		}
	}
}

func (b *FeedBackfiller) backfill(ctx context.Context, followerID, authorID string) error {
	posts, _, err := b.postRepo.PageByAuthor(ctx, authorID, b.limit, nil)
	if err != nil {
		return err
	}
	if len(posts) == 0 {
		return nil
	}
	now := time.Now()
	entries := make([]model.FeedEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, model.FeedEntry{
			ID:        uuid.New().String(),
			UserID:    followerID,
			PostID:    p.ID,
			AuthorID:  authorID,
			Score:     p.CreatedAt.UnixNano(),
			CreatedAt: now,
		})
	}
	return b.feedRepo.InsertAll(ctx, entries)
}

func (b *FeedBackfiller) EnqueueBackfill(followerID, authorID string) {
	b.enqueue(backfillJob{action: actionBackfill, followerID: followerID, authorID: authorID, enqAt: time.Now()})
}

func (b *FeedBackfiller) EnqueuePrune(followerID, authorID string) {
	b.enqueue(backfillJob{action: actionPrune, followerID: followerID, authorID: authorID, enqAt: time.Now()})
}

func (b *FeedBackfiller) enqueue(job backfillJob) {
	select {
	case b.ch <- job:
		b.observeQueue()
	default:
		logger.Warn("backfill queue full, drop job",
			zap.String("follower", job.followerID),
			zap.String("author", job.authorID))
	}
}

func (b *FeedBackfiller) observeQueue() {
	if b.m != nil {
		b.m.BackfillQueue.Set(float64(len(b.ch)))
	}
}

// QueueLen reports the current queue depth (sampled).
func (b *FeedBackfiller) QueueLen() int { return len(b.ch) }
