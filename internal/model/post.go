package model

import (
    "time"

    "gorm.io/gorm"
)

// Post 内容主体
type Post struct {
    ID         int64          `gorm:"primaryKey;autoIncrement"`
    UserID     int64          `gorm:"index:idx_post_user;not null"`
    CategoryID int64          `gorm:"index:idx_post_category;not null"`
    Title      string         `gorm:"type:varchar(255);not null"`
    Content    string         `gorm:"type:text"`
    CreatedAt  time.Time      `gorm:"index"`
    UpdatedAt  time.Time
    DeletedAt  gorm.DeletedAt `gorm:"index"`

    User     *User     `gorm:"foreignKey:UserID"`
    Category *Category `gorm:"foreignKey:CategoryID"`
}

func (Post) TableName() string { return "posts" }
