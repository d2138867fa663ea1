package repository

import (
    "context"

    "gorm.io/gorm"
    "gorm.io/gorm/clause"

    "github.com/d60-Lab/feedsync/internal/model"
)

type NotificationRepository interface {
    // Create 以 (receiver, actor, type, target) 为幂等键；
    // 重投递的事件变成无操作插入
    Create(ctx context.Context, n *model.Notification) error
    ListByReceiver(ctx context.Context, receiverID int64, offset, limit int) ([]model.Notification, error)
    MarkRead(ctx context.Context, receiverID int64, ids []int64) error
}

type notificationRepository struct{ db *gorm.DB }

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
    return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *model.Notification) error {
    return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(n).Error
}

func (r *notificationRepository) ListByReceiver(ctx context.Context, receiverID int64, offset, limit int) ([]model.Notification, error) {
    if limit <= 0 { limit = 20 }
    var res []model.Notification
    err := r.db.WithContext(ctx).
        Where("receiver_id = ?", receiverID).
        Order("created_at DESC").
        Offset(offset).
        Limit(limit).
        Find(&res).Error
    return res, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, receiverID int64, ids []int64) error {
    if len(ids) == 0 {
        return nil
    }
    return r.db.WithContext(ctx).
        Model(&model.Notification{}).
        Where("receiver_id = ? AND id IN ?", receiverID, ids).
        Update("is_read", true).Error
}
