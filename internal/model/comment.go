package model

import (
    "time"

    "gorm.io/gorm"
)

// Comment 帖子评论
type Comment struct {
    ID        int64          `gorm:"primaryKey;autoIncrement"`
    PostID    int64          `gorm:"index:idx_comment_post;not null"`
    UserID    int64          `gorm:"index:idx_comment_user;not null"`
    Content   string         `gorm:"type:text;not null"`
    CreatedAt time.Time
    UpdatedAt time.Time
    DeletedAt gorm.DeletedAt `gorm:"index"`

    Post *Post `gorm:"foreignKey:PostID"`
}

func (Comment) TableName() string { return "comments" }
