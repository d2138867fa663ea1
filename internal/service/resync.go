package service

import (
    "context"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

// ResyncService 从源库全量重建缓存投影。三个操作彼此独立、可安全重跑：
// 应用函数与消费者共用且幂等，中途失败只留下局部未刷新，再跑一次即可。
type ResyncService struct {
    userRepo     repository.UserRepository
    categoryRepo repository.CategoryRepository
    postRepo     repository.PostRepository
    commentRepo  repository.CommentRepository
    likeRepo     repository.LikeRepository
    store        *cache.Store
    pageSize     int
    batchSize    int
}

func NewResyncService(
    userRepo repository.UserRepository,
    categoryRepo repository.CategoryRepository,
    postRepo repository.PostRepository,
    commentRepo repository.CommentRepository,
    likeRepo repository.LikeRepository,
    store *cache.Store,
) *ResyncService {
    return &ResyncService{
        userRepo:     userRepo,
        categoryRepo: categoryRepo,
        postRepo:     postRepo,
        commentRepo:  commentRepo,
        likeRepo:     likeRepo,
        store:        store,
        pageSize:     100,
        batchSize:    200,
    }
}

// ResyncUsers 按ID倒序分页扫描，hasNext 驱动循环
func (s *ResyncService) ResyncUsers(ctx context.Context) error {
    start := time.Now()
    total := 0
    for page := 1; ; page++ {
        users, hasNext, err := s.userRepo.PageByIDDesc(ctx, page, s.pageSize)
        if err != nil {
            return err
        }
        for i := range users {
            if err := s.store.SaveUser(ctx, userDoc(&users[i])); err != nil {
                return err
            }
        }
        total += len(users)
        if !hasNext {
            break
        }
    }
    logger.Info("resync users done", zap.Int("count", total), zap.Duration("took", time.Since(start)))
    return nil
}

// ResyncPosts 先装载全部分类（小而静态），再连同作者流式重放帖子，
// 走与消费者相同的 UpsertPost / DeletePost 路径
func (s *ResyncService) ResyncPosts(ctx context.Context) error {
    start := time.Now()
    cats, err := s.categoryRepo.All(ctx)
    if err != nil {
        return err
    }
    for i := range cats {
        if err := s.store.SaveCategory(ctx, categoryDoc(&cats[i])); err != nil {
            return err
        }
    }
    total := 0
    live := make(map[int64]struct{})
    err = s.postRepo.EachBatch(ctx, s.batchSize, func(posts []model.Post) error {
        for i := range posts {
            p := &posts[i]
            if p.DeletedAt.Valid {
                if err := s.store.DeletePost(ctx, p.ID); err != nil {
                    return err
                }
                continue
            }
            if err := s.store.UpsertPost(ctx, postDoc(p)); err != nil {
                return err
            }
            live[p.ID] = struct{}{}
        }
        total += len(posts)
        return nil
    })
    if err != nil {
        return err
    }
    // 重建是整体替换：源库里已经不存在的帖子要从时间线剔除
    if err := s.store.PruneTimeline(ctx, live); err != nil {
        return err
    }
    logger.Info("resync posts done",
        zap.Int("categories", len(cats)), zap.Int("posts", total),
        zap.Duration("took", time.Since(start)))
    return nil
}

// ResyncComments 流式收齐存活评论，再整体替换各帖子的成员集合；
// 缓存里多出来的幽灵成员在替换时一并清掉
func (s *ResyncService) ResyncComments(ctx context.Context) error {
    start := time.Now()
    total := 0
    sets := make(map[int64][]int64)
    err := s.commentRepo.EachBatch(ctx, s.batchSize, func(comments []model.Comment) error {
        for i := range comments {
            c := &comments[i]
            sets[c.PostID] = append(sets[c.PostID], c.ID)
        }
        total += len(comments)
        return nil
    })
    if err != nil {
        return err
    }
    if err := s.store.RebuildCommentSets(ctx, sets); err != nil {
        return err
    }
    logger.Info("resync comments done", zap.Int("count", total), zap.Duration("took", time.Since(start)))
    return nil
}

// ResyncLikes 点赞集合的成员是点赞者 loginID，先建 userID→loginID 映射
// 再整体替换
func (s *ResyncService) ResyncLikes(ctx context.Context) error {
    start := time.Now()
    logins := make(map[int64]string)
    for page := 1; ; page++ {
        users, hasNext, err := s.userRepo.PageByIDDesc(ctx, page, s.pageSize)
        if err != nil {
            return err
        }
        for i := range users {
            logins[users[i].ID] = users[i].LoginID
        }
        if !hasNext {
            break
        }
    }
    total := 0
    sets := make(map[int64][]string)
    err := s.likeRepo.EachBatch(ctx, s.batchSize, func(likes []model.Like) error {
        for i := range likes {
            l := &likes[i]
            login, ok := logins[l.UserID]
            if !ok {
                continue
            }
            sets[l.PostID] = append(sets[l.PostID], login)
        }
        total += len(likes)
        return nil
    })
    if err != nil {
        return err
    }
    if err := s.store.RebuildLikeSets(ctx, sets); err != nil {
        return err
    }
    logger.Info("resync likes done", zap.Int("count", total), zap.Duration("took", time.Since(start)))
    return nil
}
