package service

import (
    "context"
    "strings"

    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

// SearchService 标题检索 + 搜索词热度排行
type SearchService struct {
    postRepo repository.PostRepository
    store    *cache.Store
}

func NewSearchService(postRepo repository.PostRepository, store *cache.Store) *SearchService {
    return &SearchService{postRepo: postRepo, store: store}
}

// Search 检索的同时累加关键词热度；热度失败不影响检索结果
func (s *SearchService) Search(ctx context.Context, keyword string, limit int) ([]model.Post, error) {
    keyword = strings.TrimSpace(keyword)
    if keyword == "" {
        return []model.Post{}, nil
    }
    if err := s.store.IncrementSearchRank(ctx, keyword); err != nil {
        logger.Warn("search rank increment failed", zap.String("keyword", keyword), zap.Error(err))
    }
    return s.postRepo.SearchByTitle(ctx, keyword, limit)
}

// TopRanks 返回前 n 个热搜词
func (s *SearchService) TopRanks(ctx context.Context, n int64) ([]cache.SearchRank, error) {
    if n <= 0 {
        n = 10
    }
    return s.store.TopSearchRanks(ctx, 0, n-1)
}
