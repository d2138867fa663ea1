package handler

import (
    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/push"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/internal/service"
)

// Handler 聚合所有 HTTP 处理依赖
type Handler struct {
    store         *cache.Store
    postService   *service.PostService
    relService    service.RelationshipService
    searchService *service.SearchService
    resyncService *service.ResyncService
    notifRepo     repository.NotificationRepository
    registry      *push.Registry
}

func New(
    store *cache.Store,
    postService *service.PostService,
    relService service.RelationshipService,
    searchService *service.SearchService,
    resyncService *service.ResyncService,
    notifRepo repository.NotificationRepository,
    registry *push.Registry,
) *Handler {
    return &Handler{
        store:         store,
        postService:   postService,
        relService:    relService,
        searchService: searchService,
        resyncService: resyncService,
        notifRepo:     notifRepo,
        registry:      registry,
    }
}
