package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/d60-Lab/newsfeed/internal/model"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/store"
)

// testEnv wires the full service stack against an in-memory store, no
// cache and no background workers. Fan-out is driven explicitly via
// ProcessOnce so tests stay deterministic.
type testEnv struct {
	store       *store.Store
	userRepo    repository.UserRepository
	postRepo    repository.PostRepository
	relRepo     repository.RelationshipRepository
	feedRepo    repository.FeedRepository
	likeRepo    repository.LikeRepository
	commentRepo repository.CommentRepository
	outboxRepo  repository.OutboxRepository

	users      UserService
	posts      PostService
	relations  RelationshipService
	feed       FeedService
	fanout     *FanoutWorker
	backfiller *FeedBackfiller
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Post{}, &model.Relationship{},
		&model.FeedEntry{}, &model.Like{}, &model.Comment{}, &model.Outbox{},
	))

	s := store.New(db)
	env := &testEnv{
		store:       s,
		userRepo:    repository.NewUserRepository(s),
		postRepo:    repository.NewPostRepository(s),
		relRepo:     repository.NewRelationshipRepository(s),
		feedRepo:    repository.NewFeedRepository(s),
		likeRepo:    repository.NewLikeRepository(s),
		commentRepo: repository.NewCommentRepository(s),
		outboxRepo:  repository.NewOutboxRepository(s),
	}
	env.backfiller = NewFeedBackfiller(env.postRepo, env.feedRepo, nil, 16, 50)
	env.fanout = NewFanoutWorker(env.outboxRepo, env.relRepo, env.feedRepo, nil, 1, 100, 100, time.Second)
	env.users = NewUserService(env.userRepo, nil)
	env.posts = NewPostService(env.postRepo, env.feedRepo, env.likeRepo, env.commentRepo, env.outboxRepo, env.userRepo)
	env.relations = NewRelationshipService(env.relRepo, env.userRepo, env.backfiller)
	env.feed = NewFeedService(env.feedRepo, env.postRepo, env.userRepo, nil)
	return env
}

func (e *testEnv) seedUser(t *testing.T, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:          uuid.New().String(),
		Username:    username,
		Email:       username + "@example.com",
		DisplayName: username,
	}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedPost(t *testing.T, authorID, content string, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: at,
		UpdatedAt: at,
	}
	require.NoError(t, e.postRepo.CreateWithOutbox(context.Background(), p))
	return p
}

func (e *testEnv) seedFeedEntry(t *testing.T, userID string, p *model.Post) {
	t.Helper()
	require.NoError(t, e.feedRepo.InsertAll(context.Background(), []model.FeedEntry{{
		ID:       uuid.New().String(),
		UserID:   userID,
		PostID:   p.ID,
		AuthorID: p.AuthorID,
		Score:    p.CreatedAt.UnixNano(),
	}}))
}
