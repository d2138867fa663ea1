package model

import (
    "time"

    "gorm.io/gorm"
)

// Category 板块分类（小而静态）
type Category struct {
    ID        int64          `gorm:"primaryKey;autoIncrement"`
    Name      string         `gorm:"type:varchar(64);uniqueIndex;not null"`
    CreatedAt time.Time
    UpdatedAt time.Time
    DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Category) TableName() string { return "categories" }
