package handler

import (
    "errors"
    "strconv"

    "github.com/gin-gonic/gin"

    "github.com/d60-Lab/feedsync/internal/api/middleware"
    "github.com/d60-Lab/feedsync/internal/service"
    "github.com/d60-Lab/feedsync/pkg/response"
)

type createPostRequest struct {
    CategoryID int64  `json:"category_id" binding:"required"`
    Title      string `json:"title" binding:"required,max=255"`
    Content    string `json:"content"`
}

type updatePostRequest struct {
    Title   string `json:"title" binding:"required,max=255"`
    Content string `json:"content"`
}

type createCommentRequest struct {
    Content string `json:"content" binding:"required"`
}

// CreatePost 发帖（落库后发布 post 事件）
// @Summary 发帖
// @Router /api/v1/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
    var req createPostRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    post, err := h.postService.CreatePost(c.Request.Context(), middleware.UserID(c), req.CategoryID, req.Title, req.Content)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"id": post.ID})
}

// UpdatePost 改帖
// @Summary 改帖
// @Router /api/v1/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    var req updatePostRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    post, err := h.postService.UpdatePost(c.Request.Context(), id, middleware.UserID(c), req.Title, req.Content)
    if err != nil {
        if errors.Is(err, service.ErrNotOwner) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"id": post.ID})
}

// DeletePost 删帖（软删除，发布 delete 事件）
// @Summary 删帖
// @Router /api/v1/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    if err := h.postService.DeletePost(c.Request.Context(), id, middleware.UserID(c)); err != nil {
        if errors.Is(err, service.ErrNotOwner) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// LikePost 点赞
// @Summary 点赞
// @Router /api/v1/posts/{id}/like [post]
func (h *Handler) LikePost(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    if err := h.postService.LikePost(c.Request.Context(), id, middleware.UserID(c)); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// UnlikePost 取消点赞
// @Summary 取消点赞
// @Router /api/v1/posts/{id}/like [delete]
func (h *Handler) UnlikePost(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    if err := h.postService.UnlikePost(c.Request.Context(), id, middleware.UserID(c)); err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}

// CreateComment 评论
// @Summary 评论
// @Router /api/v1/posts/{id}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid post id")
        return
    }
    var req createCommentRequest
    if err := c.ShouldBindJSON(&req); err != nil {
        response.BadRequest(c, err.Error())
        return
    }
    comment, err := h.postService.CreateComment(c.Request.Context(), id, middleware.UserID(c), req.Content)
    if err != nil {
        response.InternalError(c, err)
        return
    }
    response.Success(c, gin.H{"id": comment.ID})
}

// DeleteComment 删评论
// @Summary 删评论
// @Router /api/v1/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil {
        response.BadRequest(c, "invalid comment id")
        return
    }
    if err := h.postService.DeleteComment(c.Request.Context(), id, middleware.UserID(c)); err != nil {
        if errors.Is(err, service.ErrNotOwner) {
            response.BadRequest(c, err.Error())
            return
        }
        response.InternalError(c, err)
        return
    }
    response.Success(c, nil)
}
