package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/pkg/response"
)

// 运维端点：全量重建，幂等可重跑

// ResyncUsers
// @Summary 重建用户投影
// @Router /api/v1/admin/resync/users [post]
func (h *Handler) ResyncUsers(c *gin.Context) {
    if err := h.resyncService.ResyncUsers(c.Request.Context()); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// ResyncPosts
// @Summary 重建帖子投影与时间线
// @Router /api/v1/admin/resync/posts [post]
func (h *Handler) ResyncPosts(c *gin.Context) {
    if err := h.resyncService.ResyncPosts(c.Request.Context()); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// ResyncComments
// @Summary 重建评论成员集合
// @Router /api/v1/admin/resync/comments [post]
func (h *Handler) ResyncComments(c *gin.Context) {
    if err := h.resyncService.ResyncComments(c.Request.Context()); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// ResyncLikes
// @Summary 重建点赞成员集合
// @Router /api/v1/admin/resync/likes [post]
func (h *Handler) ResyncLikes(c *gin.Context) {
    if err := h.resyncService.ResyncLikes(c.Request.Context()); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

func pageParams(c *gin.Context, defaultSize int) (int, int) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    size, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultSize)))
    if page < 1 {
        page = 1
    }
    if size < 1 {
        size = defaultSize
    }
    return page, size
}
