package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/d60-Lab/newsfeed/config"
	"github.com/d60-Lab/newsfeed/internal/api"
	"github.com/d60-Lab/newsfeed/internal/api/handler"
	"github.com/d60-Lab/newsfeed/internal/cache"
	"github.com/d60-Lab/newsfeed/internal/repository"
	"github.com/d60-Lab/newsfeed/internal/service"
	"github.com/d60-Lab/newsfeed/internal/store"
	"github.com/d60-Lab/newsfeed/pkg/database"
	"github.com/d60-Lab/newsfeed/pkg/logger"
	"github.com/d60-Lab/newsfeed/pkg/metrics"
	"github.com/d60-Lab/newsfeed/pkg/tracing"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log.Level, cfg.Server.Mode); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if cfg.Sentry.DSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
			logger.Warn("sentry init failed", zap.Error(err))
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()
	if cfg.Tracing.Enabled {
		shutdown, err := tracing.Init(ctx, "newsfeed", cfg.Tracing.Endpoint)
		if err != nil {
			logger.Warn("tracing init failed", zap.Error(err))
		} else {
			defer func() { _ = shutdown(ctx) }()
		}
	}

	db, err := database.InitDB(cfg)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}
	st := store.New(db)

	var authors *cache.AuthorCache
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		if err := rdb.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, author cache disabled", zap.Error(err))
		} else {
			authors = cache.NewAuthorCache(rdb, cfg.Redis.TTL)
		}
	}

	m := metrics.Init()

	userRepo := repository.NewUserRepository(st)
	postRepo := repository.NewPostRepository(st)
	relRepo := repository.NewRelationshipRepository(st)
	feedRepo := repository.NewFeedRepository(st)
	likeRepo := repository.NewLikeRepository(st)
	commentRepo := repository.NewCommentRepository(st)
	outboxRepo := repository.NewOutboxRepository(st)

	fanout := service.NewFanoutWorker(outboxRepo, relRepo, feedRepo, m,
		cfg.Fanout.Workers, cfg.Fanout.BatchSize, cfg.Fanout.ClaimLimit, cfg.Fanout.PollInterval)
	stopFanout := fanout.Start()

	backfiller := service.NewFeedBackfiller(postRepo, feedRepo, m,
		cfg.Fanout.QueueSize, cfg.Fanout.BackfillLimit)
	stopBackfill := backfiller.Start(cfg.Fanout.Workers)

	userSvc := service.NewUserService(userRepo, authors)
	postSvc := service.NewPostService(postRepo, feedRepo, likeRepo, commentRepo, outboxRepo, userRepo)
	relSvc := service.NewRelationshipService(relRepo, userRepo, backfiller)
	feedSvc := service.NewFeedService(feedRepo, postRepo, userRepo, authors)

	h := handler.New(userSvc, postSvc, relSvc, feedSvc, m)
	router := api.NewRouter(cfg, h)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server listening", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	_ = stopFanout(shutdownCtx)
	_ = stopBackfill(shutdownCtx)
}
