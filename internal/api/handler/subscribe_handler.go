package handler

import (
    "io"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/internal/api/middleware"
    "github.com/d60-Lab/feedsync/pkg/response"
)

// Subscribe 建立 SSE 长连接。同一用户重复订阅会顶掉旧连接；
// 进程内不持久化，重启后由客户端自行重连。
// @Summary 订阅实时通知
// @Router /api/v1/subscribe [get]
func (h *Handler) Subscribe(c *gin.Context) {
    userID := middleware.UserID(c)
    conn, err := h.registry.Subscribe(userID)
    if err != nil {
        response.InternalError(c, err)
        return
    }

    c.Writer.Header().Set("Content-Type", "text/event-stream")
    c.Writer.Header().Set("Cache-Control", "no-cache")
    c.Writer.Header().Set("Connection", "keep-alive")

    clientGone := c.Request.Context().Done()
    c.Stream(func(w io.Writer) bool {
        select {
        case frame, ok := <-conn.Events():
            if !ok {
                return false
            }
            c.SSEvent(frame.Event, frame.Data)
            return true
        case <-conn.Done():
            return false
        case <-clientGone:
            h.registry.Unsubscribe(userID, conn)
            return false
        }
    })
}

// ListNotifications 拉取持久化的通知记录（在线投递失败时的兜底）
// @Summary 通知列表
// @Param page query int false "页码" default(1)
// @Param page_size query int false "每页数量" default(20)
// @Router /api/v1/notifications [get]
func (h *Handler) ListNotifications(c *gin.Context) {
    userID := middleware.UserID(c)
    page, pageSize := pageParams(c, 20)
    list, err := h.notifRepo.ListByReceiver(c.Request.Context(), userID, (page-1)*pageSize, pageSize)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"page": page, "page_size": pageSize, "list": list})
}
