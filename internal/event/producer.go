package event

import (
    "context"
    "encoding/json"
    "fmt"

    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/pkg/logger"
)

// Producer 发布事件到 Redis Stream；入队即返回，不等待消费
type Producer struct {
    rdb *redis.Client
}

func NewProducer(rdb *redis.Client) *Producer { return &Producer{rdb: rdb} }

// Publish 失败必须上抛：丢事件意味着缓存与源库静默分叉
func (p *Producer) Publish(ctx context.Context, ev Envelope) error {
    payload, err := json.Marshal(ev)
    if err != nil {
        return fmt.Errorf("marshal %s event: %w", ev.Topic(), err)
    }
    err = p.rdb.XAdd(ctx, &redis.XAddArgs{
        Stream: ev.Topic(),
        Values: map[string]interface{}{"key": ev.Key(), "payload": payload},
    }).Err()
    if err != nil {
        return fmt.Errorf("publish to %s: %w", ev.Topic(), err)
    }
    logger.Info("event published", zap.String("topic", ev.Topic()), zap.String("key", ev.Key()))
    return nil
}
