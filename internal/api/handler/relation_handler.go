package handler

import (
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/internal/api/middleware"
    "github.com/d60-Lab/feedsync/pkg/response"
)

// Follow 建立关注（被关注方收到通知事件）
// @Summary 关注用户
// @Param user_id path int true "被关注用户ID"
// @Router /api/v1/relations/{user_id}/follow [post]
func (h *Handler) Follow(c *gin.Context) {
    toUserID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid user id")
        return
    }
    if err := h.relService.Follow(c.Request.Context(), middleware.UserID(c), toUserID); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    response.Success(c, nil)
}

// Unfollow 取消关注
// @Summary 取消关注
// @Param user_id path int true "被关注用户ID"
// @Router /api/v1/relations/{user_id}/follow [delete]
func (h *Handler) Unfollow(c *gin.Context) {
    toUserID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid user id")
        return
    }
    if err := h.relService.Unfollow(c.Request.Context(), middleware.UserID(c), toUserID); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    response.Success(c, nil)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Param user_id path int true "用户ID"
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(10)
// @Router /api/v1/relations/{user_id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
    userID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid user id")
        return
    }
    page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
    pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "10"))
    list, err := h.relService.ListFollowing(c.Request.Context(), userID, page, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
