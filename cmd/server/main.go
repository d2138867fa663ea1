package main

import (
    "context"
    "errors"
    "net/http"
    "os"
    "os/signal"
    "syscall"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/gin-gonic/gin"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/config"
    "github.com/d60-Lab/feedsync/internal/api"
    "github.com/d60-Lab/feedsync/internal/api/handler"
    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/chatops"
    "github.com/d60-Lab/feedsync/internal/event"
    "github.com/d60-Lab/feedsync/internal/push"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/internal/service"
    "github.com/d60-Lab/feedsync/pkg/database"
    "github.com/d60-Lab/feedsync/pkg/jwt"
    "github.com/d60-Lab/feedsync/pkg/logger"
    "github.com/d60-Lab/feedsync/pkg/telemetry"
)

func main() {
    cfg, err := config.Load()
    if err != nil {
        panic(err)
    }
    if err := logger.Init(cfg.Log.Level); err != nil {
        panic(err)
    }
    defer logger.Sync()

    if cfg.Sentry.DSN != "" {
        if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.Sentry.DSN}); err != nil {
            logger.Warn("sentry init failed", zap.Error(err))
        }
        defer sentry.Flush(2 * time.Second)
    }

    ctx := context.Background()
    shutdownTracing, err := telemetry.Init(ctx, cfg.Telemetry)
    if err != nil {
        logger.Error("telemetry init failed", zap.Error(err))
    } else {
        defer shutdownTracing(ctx)
    }

    gin.SetMode(cfg.Server.Mode)

    db, err := database.InitDB(cfg)
    if err != nil {
        logger.Error("init database", zap.Error(err))
        os.Exit(1)
    }

    rdb := redis.NewClient(&redis.Options{
        Addr:     cfg.Redis.Addr,
        Password: cfg.Redis.Password,
        DB:       cfg.Redis.DB,
    })
    defer rdb.Close()

    store := cache.NewStore(rdb)
    registry := push.NewRegistry(cfg.Push.IdleTimeout, cfg.Push.SendBuffer)
    producer := event.NewProducer(rdb)
    sender := chatops.NewWebhookSender(cfg.ChatOps)

    userRepo := repository.NewUserRepository(db)
    categoryRepo := repository.NewCategoryRepository(db)
    postRepo := repository.NewPostRepository(db)
    commentRepo := repository.NewCommentRepository(db)
    likeRepo := repository.NewLikeRepository(db)
    followRepo := repository.NewFollowRepository(db)
    notifRepo := repository.NewNotificationRepository(db)

    postService := service.NewPostService(postRepo, commentRepo, likeRepo, userRepo, store, producer)
    relService := service.NewRelationshipService(followRepo, producer)
    searchService := service.NewSearchService(postRepo, store)
    resyncService := service.NewResyncService(userRepo, categoryRepo, postRepo, commentRepo, likeRepo, store)

    // 每个主题一个消费者组，互不影响各自的 offset
    consumers := []*event.Consumer{
        event.NewConsumer(rdb, cfg.Broker, event.TopicPost, service.NewPostEventHandler(store)),
        event.NewConsumer(rdb, cfg.Broker, event.TopicNotification, service.NewNotificationEventHandler(notifRepo, registry)),
        event.NewConsumer(rdb, cfg.Broker, event.TopicChatOp, service.NewChatOpEventHandler(sender)),
    }
    stops := make([]func(context.Context) error, 0, len(consumers))
    for _, c := range consumers {
        stops = append(stops, c.Start())
    }

    jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Expire)
    h := handler.New(store, postService, relService, searchService, resyncService, notifRepo, registry)
    router := api.NewRouter(h, jwtManager)

    srv := &http.Server{Addr: cfg.Server.Addr, Handler: router}
    go func() {
        logger.Info("server listening", zap.String("addr", cfg.Server.Addr))
        if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
            logger.Error("server error", zap.Error(err))
        }
    }()

    quit := make(chan os.Signal, 1)
    signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
    <-quit
    logger.Info("shutting down")

    shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
    defer cancel()
    _ = srv.Shutdown(shutdownCtx)
    for _, stop := range stops {
        _ = stop(shutdownCtx)
    }
}
