package api

import (
    "github.com/gin-contrib/gzip"
    "github.com/gin-gonic/gin"
    "go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
    "golang.org/x/time/rate"

    "github.com/d60-Lab/feedsync/internal/api/handler"
    "github.com/d60-Lab/feedsync/internal/api/middleware"
    "github.com/d60-Lab/feedsync/pkg/jwt"
)

// NewRouter 组装路由
func NewRouter(h *handler.Handler, jwtManager *jwt.Manager) *gin.Engine {
    r := gin.New()
    r.Use(gin.Recovery())
    r.Use(otelgin.Middleware("feedsync"))
    // SSE 响应不能过压缩缓冲，否则实时帧被攒着不下发
    r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/api/v1/subscribe"})))

    v1 := r.Group("/api/v1")
    {
        // 读路径：只打缓存
        v1.GET("/feed", h.Feed)
        v1.GET("/posts/:id", h.PostDetail)
        v1.GET("/search", h.Search)
        v1.GET("/search/ranks", h.SearchRanks)
        v1.GET("/relations/:user_id/following", h.ListFollowing)

        authed := v1.Group("", middleware.Auth(jwtManager))
        {
            authed.POST("/posts", h.CreatePost)
            authed.PUT("/posts/:id", h.UpdatePost)
            authed.DELETE("/posts/:id", h.DeletePost)
            authed.POST("/posts/:id/like", h.LikePost)
            authed.DELETE("/posts/:id/like", h.UnlikePost)
            authed.POST("/posts/:id/comments", h.CreateComment)
            authed.DELETE("/comments/:id", h.DeleteComment)
            authed.POST("/relations/:user_id/follow", h.Follow)
            authed.DELETE("/relations/:user_id/follow", h.Unfollow)
            authed.GET("/notifications", h.ListNotifications)
            authed.GET("/subscribe", middleware.RateLimit(rate.Limit(1), 5), h.Subscribe)
        }

        admin := v1.Group("/admin")
        {
            admin.POST("/resync/users", h.ResyncUsers)
            admin.POST("/resync/posts", h.ResyncPosts)
            admin.POST("/resync/comments", h.ResyncComments)
            admin.POST("/resync/likes", h.ResyncLikes)
        }
    }
    return r
}
