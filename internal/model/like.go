package model

import "time"

// Like 点赞（写路径用复合唯一键去重，缓存层只计数）
type Like struct {
    ID        int64     `gorm:"primaryKey;autoIncrement"`
    PostID    int64     `gorm:"index:idx_like_pair,unique;not null"`
    UserID    int64     `gorm:"index:idx_like_pair,unique;not null"`
    CreatedAt time.Time
}

func (Like) TableName() string { return "likes" }
