package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/feedsync/internal/model"
)

type CategoryRepository interface {
    Create(ctx context.Context, category *model.Category) error
    All(ctx context.Context) ([]model.Category, error)
}

type categoryRepository struct{ db *gorm.DB }

func NewCategoryRepository(db *gorm.DB) CategoryRepository { return &categoryRepository{db: db} }

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
    return r.db.WithContext(ctx).Create(category).Error
}

// All 分类集合小而静态，直接全量加载
func (r *categoryRepository) All(ctx context.Context) ([]model.Category, error) {
    var cats []model.Category
    err := r.db.WithContext(ctx).Unscoped().Find(&cats).Error
    return cats, err
}
