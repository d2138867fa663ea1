package repository

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feedsync/internal/model"
)

type LikeRepository interface {
    Create(ctx context.Context, postID, userID int64) error
    Delete(ctx context.Context, postID, userID int64) error
    // EachBatch 连同点赞者流式扫描全部点赞
    EachBatch(ctx context.Context, batchSize int, fn func(likes []model.Like) error) error
}

type likeRepository struct{ db *gorm.DB }

func NewLikeRepository(db *gorm.DB) LikeRepository { return &likeRepository{db: db} }

func (r *likeRepository) Create(ctx context.Context, postID, userID int64) error {
    l := &model.Like{PostID: postID, UserID: userID}
    // 幂等：重复点赞不报错
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(l).Error
}

func (r *likeRepository) Delete(ctx context.Context, postID, userID int64) error {
    return r.db.WithContext(ctx).
        Where("post_id = ? AND user_id = ?", postID, userID).
        Delete(&model.Like{}).Error
}

func (r *likeRepository) EachBatch(ctx context.Context, batchSize int, fn func(likes []model.Like) error) error {
    if batchSize <= 0 { batchSize = 500 }
    var batch []model.Like
    return r.db.WithContext(ctx).
        Order("id").
        FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
            return fn(batch)
        }).Error
}
