package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/feedsync/internal/model"
)

type PostRepository interface {
    Create(ctx context.Context, post *model.Post) error
    Update(ctx context.Context, post *model.Post) error
    Delete(ctx context.Context, id int64) error
    ByID(ctx context.Context, id int64) (*model.Post, error)
    // EachBatch 连同作者/分类流式扫描全部帖子（含软删除行）
    EachBatch(ctx context.Context, batchSize int, fn func(posts []model.Post) error) error
    SearchByTitle(ctx context.Context, keyword string, limit int) ([]model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
    return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
    return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, id int64) error {
    return r.db.WithContext(ctx).Delete(&model.Post{}, id).Error
}

func (r *postRepository) ByID(ctx context.Context, id int64) (*model.Post, error) {
    var p model.Post
    err := r.db.WithContext(ctx).
        Preload("User").
        Preload("Category").
        First(&p, id).Error
    if err != nil {
        return nil, err
    }
    return &p, nil
}

func (r *postRepository) EachBatch(ctx context.Context, batchSize int, fn func(posts []model.Post) error) error {
    if batchSize <= 0 { batchSize = 200 }
    var batch []model.Post
    return r.db.WithContext(ctx).Unscoped().
        Preload("User", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
        Preload("Category", func(db *gorm.DB) *gorm.DB { return db.Unscoped() }).
        Order("id").
        FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
            return fn(batch)
        }).Error
}

func (r *postRepository) SearchByTitle(ctx context.Context, keyword string, limit int) ([]model.Post, error) {
    if limit <= 0 { limit = 20 }
    var posts []model.Post
    err := r.db.WithContext(ctx).
        Preload("User").
        Preload("Category").
        Where("title LIKE ?", "%"+keyword+"%").
        Order("created_at DESC").
        Limit(limit).
        Find(&posts).Error
    return posts, err
}
