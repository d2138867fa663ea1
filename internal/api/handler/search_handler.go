package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/pkg/response"
)

// Search 按标题检索并累加关键词热度
// @Summary 搜索帖子
// @Param keyword query string true "关键词"
// @Router /api/v1/search [get]
func (h *Handler) Search(c *gin.Context) {
    keyword := c.Query("keyword")
    if keyword == "" {
        response.BadRequest(c, "keyword required")
        return
    }
    limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
    posts, err := h.searchService.Search(c.Request.Context(), keyword, limit)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"keyword": keyword, "list": posts})
}

// SearchRanks 热搜词排行
// @Summary 热搜排行
// @Param top query int false "返回数量" default(10)
// @Router /api/v1/search/ranks [get]
func (h *Handler) SearchRanks(c *gin.Context) {
    top, _ := strconv.ParseInt(c.DefaultQuery("top", "10"), 10, 64)
    ranks, err := h.searchService.TopRanks(c.Request.Context(), top)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, ranks)
}
