package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/pkg/response"
)

// Feed 分页读取全站时间线（只走缓存，不回源库）
// @Summary 帖子信息流
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
    feed, err := h.store.PageFeed(c.Request.Context(), page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, feed)
}

// PostDetail 读取单帖投影
// @Summary 帖子详情
// @Param id path int true "帖子ID"
// @Router /api/v1/posts/{id} [get]
func (h *Handler) PostDetail(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    ctx := c.Request.Context()
    doc, err := h.store.PostByID(ctx, id)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    if doc == nil {
        response.NotFound(c, "post not found")
        return
    }
    likes, _ := h.store.CountLikes(ctx, id)
    comments, _ := h.store.CountComments(ctx, id)
    response.Success(c, gin.H{"post": doc, "like_count": likes, "comment_count": comments})
}
