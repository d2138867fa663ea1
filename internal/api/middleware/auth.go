package middleware

import (
    "strings"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/pkg/jwt"
    "github.com/d60-Lab/feedsync/pkg/response"
)

const userIDKey = "user_id"

// Auth 校验 Bearer token 并注入调用方的数字用户ID
func Auth(manager *jwt.Manager) gin.HandlerFunc {
    return func(c *gin.Context) {
        auth := c.GetHeader("Authorization")
        token := strings.TrimPrefix(auth, "Bearer ")
        if token == "" || token == auth {
            // SSE 客户端无法自定义 header 时退回 query 参数
            token = c.Query("token")
        }
        if token == "" {
            response.Unauthorized(c, "missing token")
            c.Abort()
            return
        }
        userID, err := manager.Parse(token)
        if err != nil {
            response.Unauthorized(c, "invalid token")
            c.Abort()
            return
        }
        c.Set(userIDKey, userID)
        c.Next()
    }
}

// UserID 取出已认证的用户ID（仅在 Auth 之后可用）
func UserID(c *gin.Context) int64 {
    v, _ := c.Get(userIDKey)
    id, _ := v.(int64)
    return id
}
