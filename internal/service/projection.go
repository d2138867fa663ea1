package service

import (
    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/model"
)

// 模型 → 缓存投影的映射；写路径、消费者、重建共用同一套转换

func postDoc(p *model.Post) cache.PostDoc {
    doc := cache.PostDoc{
        ID:         p.ID,
        UserID:     p.UserID,
        CategoryID: p.CategoryID,
        Title:      p.Title,
        Content:    p.Content,
        CreatedAt:  p.CreatedAt,
        UpdatedAt:  p.UpdatedAt,
    }
    if p.User != nil {
        doc.UserLoginID = p.User.LoginID
        doc.Nickname = p.User.Nickname
    }
    if p.DeletedAt.Valid {
        t := p.DeletedAt.Time
        doc.DeletedAt = &t
    }
    return doc
}

func userDoc(u *model.User) cache.UserDoc {
    doc := cache.UserDoc{
        ID:        u.ID,
        LoginID:   u.LoginID,
        Nickname:  u.Nickname,
        Email:     u.Email,
        CreatedAt: u.CreatedAt,
    }
    if u.DeletedAt.Valid {
        t := u.DeletedAt.Time
        doc.DeletedAt = &t
    }
    return doc
}

func categoryDoc(c *model.Category) cache.CategoryDoc {
    doc := cache.CategoryDoc{ID: c.ID, Name: c.Name}
    if c.DeletedAt.Valid {
        t := c.DeletedAt.Time
        doc.DeletedAt = &t
    }
    return doc
}
