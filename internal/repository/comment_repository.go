package repository

import (
    "context"

    "gorm.io/gorm"

    "github.com/d60-Lab/feedsync/internal/model"
)

type CommentRepository interface {
    Create(ctx context.Context, comment *model.Comment) error
    Delete(ctx context.Context, id int64) error
    ByID(ctx context.Context, id int64) (*model.Comment, error)
    // EachBatch 流式扫描全部评论（仅存活行，软删除的评论不再计数）
    EachBatch(ctx context.Context, batchSize int, fn func(comments []model.Comment) error) error
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, comment *model.Comment) error {
    return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
    return r.db.WithContext(ctx).Delete(&model.Comment{}, id).Error
}

func (r *commentRepository) ByID(ctx context.Context, id int64) (*model.Comment, error) {
    var c model.Comment
    if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
        return nil, err
    }
    return &c, nil
}

func (r *commentRepository) EachBatch(ctx context.Context, batchSize int, fn func(comments []model.Comment) error) error {
    if batchSize <= 0 { batchSize = 500 }
    var batch []model.Comment
    return r.db.WithContext(ctx).
        Order("id").
        FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
            return fn(batch)
        }).Error
}
