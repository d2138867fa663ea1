package main

import (
    "context"
    "fmt"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/d60-Lab/feedsync/config"
    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/internal/service"
    "github.com/d60-Lab/feedsync/pkg/database"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

// 运维工具：冷启动或缓存丢失后全量重建缓存投影
func main() {
    cfg := must(config.Load())
    _ = logger.Init(cfg.Log.Level)
    db := must(database.InitDB(cfg))

    rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
    defer rdb.Close()

    store := cache.NewStore(rdb)
    svc := service.NewResyncService(
        repository.NewUserRepository(db),
        repository.NewCategoryRepository(db),
        repository.NewPostRepository(db),
        repository.NewCommentRepository(db),
        repository.NewLikeRepository(db),
        store,
    )

    ctx := context.Background()
    steps := []struct {
        name string
        run  func(context.Context) error
    }{
        {"users", svc.ResyncUsers},
        {"posts", svc.ResyncPosts},
        {"comments", svc.ResyncComments},
        {"likes", svc.ResyncLikes},
    }
    for _, step := range steps {
        st := time.Now()
        if err := step.run(ctx); err != nil {
            fmt.Printf("resync %s failed: %v\n", step.name, err)
            continue
        }
        fmt.Printf("resync %s: %v\n", step.name, time.Since(st))
    }
}
