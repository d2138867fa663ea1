package model

import "time"

// 通知类型
const (
    NotificationLike    = "like"
    NotificationComment = "comment"
    NotificationFollow  = "follow"
)

// Notification 通知的持久化记录（通知消费者是它的唯一写入方）
type Notification struct {
    ID         int64     `gorm:"primaryKey;autoIncrement"`
    ReceiverID int64     `gorm:"index:idx_notif_receiver;index:idx_notif_dedup,unique;not null"`
    ActorID    int64     `gorm:"index:idx_notif_dedup,unique;not null"`
    Type       string    `gorm:"type:varchar(16);index:idx_notif_dedup,unique;not null"`
    TargetID   int64     `gorm:"index:idx_notif_dedup,unique;not null"`
    // idx_notif_dedup = (receiver_id, actor_id, type, target_id)
    // 重投递的通知事件靠它变成无操作插入
    IsRead     bool      `gorm:"default:false"`
    CreatedAt  time.Time `gorm:"index"`
}

func (Notification) TableName() string { return "notifications" }
