package service

import (
    "context"
    "fmt"
    "time"

    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/chatops"
    "github.com/d60-Lab/feedsync/internal/event"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/push"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

// NotificationView 推送给在线连接的通知载荷
type NotificationView struct {
    ReceiverID int64     `json:"receiver_id"`
    ActorID    int64     `json:"actor_id"`
    Type       string    `json:"type"`
    TargetID   int64     `json:"target_id"`
    CreatedAt  time.Time `json:"created_at"`
}

// NewPostEventHandler post 主题：覆盖写投影与时间线。
// 整条处理都是幂等的，重投递最多重复一次无害覆盖。
func NewPostEventHandler(store *cache.Store) event.Handler {
    return func(ctx context.Context, key string, payload []byte) error {
        ev, err := event.DecodePostEvent(payload)
        if err != nil {
            return fmt.Errorf("decode post event: %w", err)
        }
        switch ev.Op {
        case event.PostOpUpsert:
            return store.UpsertPost(ctx, ev.Post)
        case event.PostOpDelete:
            return store.DeletePost(ctx, ev.Post.ID)
        default:
            return fmt.Errorf("unknown post event op: %s", ev.Op)
        }
    }
}

// NewNotificationEventHandler notification 主题：先把通知落到源库（这一步
// 是通知的 system-of-record），再尝试在线投递。落库失败不 ack 等重投递；
// 在线投递失败只告警仍然 ack——持久记录已经提交，丢的只是实时性。
func NewNotificationEventHandler(repo repository.NotificationRepository, registry *push.Registry) event.Handler {
    return func(ctx context.Context, key string, payload []byte) error {
        ev, err := event.DecodeNotificationEvent(payload)
        if err != nil {
            return fmt.Errorf("decode notification event: %w", err)
        }
        n := &model.Notification{
            ReceiverID: ev.ReceiverID,
            ActorID:    ev.ActorID,
            Type:       ev.Type,
            TargetID:   ev.TargetID,
        }
        if err := repo.Create(ctx, n); err != nil {
            return fmt.Errorf("persist notification: %w", err)
        }
        view := NotificationView{
            ReceiverID: ev.ReceiverID,
            ActorID:    ev.ActorID,
            Type:       ev.Type,
            TargetID:   ev.TargetID,
            CreatedAt:  time.Now(),
        }
        if err := registry.Deliver(ev.ReceiverID, push.Frame{Event: "notification", Data: view}); err != nil {
            logger.Warn("live delivery failed", zap.Int64("receiver", ev.ReceiverID), zap.Error(err))
        }
        return nil
    }
}

// NewChatOpEventHandler chat-op 主题：尽力而为的外发，失败只记日志仍然
// ack，非关键侧信道不进入重投递循环。
func NewChatOpEventHandler(sender chatops.Sender) event.Handler {
    return func(ctx context.Context, key string, payload []byte) error {
        ev, err := event.DecodeChatOpEvent(payload)
        if err != nil {
            logger.Warn("malformed chat-op event", zap.Error(err))
            return nil
        }
        if err := sender.Send(ctx, ev.Channel, ev.Text); err != nil {
            logger.Warn("chat-op send failed", zap.String("channel", ev.Channel), zap.Error(err))
        }
        return nil
    }
}
