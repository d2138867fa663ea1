package model

import (
    "time"

    "gorm.io/gorm"
)

// User 用户（缓存投影的源头）
type User struct {
    ID        int64          `gorm:"primaryKey;autoIncrement"`
    LoginID   string         `gorm:"type:varchar(64);uniqueIndex;not null"`
    Nickname  string         `gorm:"type:varchar(64)"`
    Email     string         `gorm:"type:varchar(128)"`
    CreatedAt time.Time
    UpdatedAt time.Time
    DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string { return "users" }
