package main

import (
    "context"
    "fmt"
    "math"
    "os"
    "sort"
    "strconv"
    "time"

    "github.com/redis/go-redis/v9"

    "github.com/d60-Lab/feedsync/config"
    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/internal/service"
    "github.com/d60-Lab/feedsync/pkg/database"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

func must[T any](v T, err error) T { if err != nil { panic(err) }; return v }

func mustDo(err error) { if err != nil { panic(err) } }

func pct(vs []time.Duration, p float64) time.Duration {
    if len(vs) == 0 { return 0 }
    xs := append([]time.Duration(nil), vs...)
    sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
    k := int(math.Ceil(p*float64(len(xs)))) - 1
    if k < 0 { k = 0 }
    if k >= len(xs) { k = len(xs)-1 }
    return xs[k]
}

// 基准：全量重建后读时间线分页的延迟分布
func main() {
    cfg := must(config.Load())
    _ = logger.Init("warn")
    db := must(database.InitDB(cfg))

    // params
    USERS := 1000
    POSTS := 5000
    READS := 2000
    PAGESIZE := 20
    if s := os.Getenv("USERS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { USERS = v } }
    if s := os.Getenv("POSTS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { POSTS = v } }
    if s := os.Getenv("READS"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { READS = v } }
    if s := os.Getenv("PAGESIZE"); s != "" { if v, e := strconv.Atoi(s); e == nil && v > 0 { PAGESIZE = v } }

    rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
    defer rdb.Close()
    must(rdb.FlushDB(context.Background()).Result())

    // seed
    ctx := context.Background()
    cat := model.Category{Name: "bench"}
    mustDo(db.FirstOrCreate(&cat, model.Category{Name: "bench"}).Error)
    users := make([]model.User, USERS)
    for i := range users {
        users[i] = model.User{LoginID: fmt.Sprintf("bench_u%05d", i), Nickname: fmt.Sprintf("u%05d", i)}
    }
    mustDo(db.CreateInBatches(&users, 500).Error)
    base := time.Now()
    posts := make([]model.Post, POSTS)
    for i := range posts {
        posts[i] = model.Post{
            UserID:     users[i%USERS].ID,
            CategoryID: cat.ID,
            Title:      fmt.Sprintf("post %d", i),
            CreatedAt:  base.Add(-time.Duration(i) * time.Second),
        }
    }
    mustDo(db.CreateInBatches(&posts, 500).Error)

    store := cache.NewStore(rdb)
    svc := service.NewResyncService(
        repository.NewUserRepository(db),
        repository.NewCategoryRepository(db),
        repository.NewPostRepository(db),
        repository.NewCommentRepository(db),
        repository.NewLikeRepository(db),
        store,
    )
    st := time.Now()
    mustDo(svc.ResyncUsers(ctx))
    mustDo(svc.ResyncPosts(ctx))
    resyncTook := time.Since(st)

    // read pages round-robin across the timeline
    totalPages := (POSTS + PAGESIZE - 1) / PAGESIZE
    reads := make([]time.Duration, 0, READS)
    for i := 0; i < READS; i++ {
        page := (i % totalPages) + 1
        st := time.Now()
        if _, err := store.PageFeed(ctx, page, PAGESIZE); err != nil { panic(err) }
        reads = append(reads, time.Since(st))
    }

    var sum time.Duration
    for _, d := range reads { sum += d }
    fmt.Printf("USERS=%d POSTS=%d READS=%d PAGESIZE=%d\n", USERS, POSTS, READS, PAGESIZE)
    fmt.Printf("Resync (users+posts): %v\n", resyncTook)
    fmt.Printf("PageFeed latency: avg=%v p95=%v p99=%v\n", sum/time.Duration(len(reads)), pct(reads, 0.95), pct(reads, 0.99))
}
