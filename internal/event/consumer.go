package event

import (
    "context"
    "fmt"
    "os"
    "strings"
    "time"

    "github.com/getsentry/sentry-go"
    "github.com/google/uuid"
    "github.com/redis/go-redis/v9"
    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/config"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

// Handler 处理一条事件；返回错误则不 ack，由 broker 重投递
type Handler func(ctx context.Context, key string, payload []byte) error

// Consumer 单主题消费者：独立 consumer group，逐条分发，手动 ack。
// 处理函数必须幂等（同一事件可能被投递多次）。
type Consumer struct {
    rdb       *redis.Client
    topic     string
    group     string
    name      string
    handler   Handler
    blockWait time.Duration
    count     int64
    claimIdle time.Duration
}

func NewConsumer(rdb *redis.Client, cfg config.BrokerConfig, topic string, handler Handler) *Consumer {
    host, _ := os.Hostname()
    if host == "" {
        host = "local"
    }
    blockWait := cfg.BlockWait
    if blockWait == 0 {
        blockWait = 2 * time.Second
    }
    count := cfg.BatchCount
    if count <= 0 {
        count = 16
    }
    claimIdle := cfg.ClaimIdle
    if claimIdle <= 0 {
        claimIdle = time.Minute
    }
    return &Consumer{
        rdb:       rdb,
        topic:     topic,
        group:     cfg.GroupPrefix + ":" + topic,
        name:      host + "-" + uuid.NewString()[:8],
        handler:   handler,
        blockWait: blockWait,
        count:     count,
        claimIdle: claimIdle,
    }
}

// Start 启动轮询循环；返回停止函数
func (c *Consumer) Start() func(context.Context) error {
    stop := make(chan struct{})
    done := make(chan struct{})
    go func() {
        defer close(done)
        c.loop(stop)
    }()
    return func(ctx context.Context) error {
        close(stop)
        select {
        case <-done:
            return nil
        case <-ctx.Done():
            return ctx.Err()
        }
    }
}

func (c *Consumer) loop(stop <-chan struct{}) {
    ctx := context.Background()
    if err := c.ensureGroup(ctx); err != nil {
        logger.Error("create consumer group", zap.String("topic", c.topic), zap.Error(err))
    }
    for {
        select {
        case <-stop:
            return
        default:
        }
        if err := c.ProcessOnce(ctx); err != nil {
            logger.Warn("consumer poll", zap.String("topic", c.topic), zap.Error(err))
            time.Sleep(time.Second)
        }
    }
}

func (c *Consumer) ensureGroup(ctx context.Context) error {
    err := c.rdb.XGroupCreateMkStream(ctx, c.topic, c.group, "0").Err()
    if err != nil && strings.Contains(err.Error(), "BUSYGROUP") {
        return nil
    }
    return err
}

// ProcessOnce 先认领空闲过久的 pending 消息，再拉取一批新消息逐条处理。
// 单条处理失败只记录，不 ack，等待重投递；同一条反复失败会阻塞该主题，
// 依赖运维监控消费积压。
func (c *Consumer) ProcessOnce(ctx context.Context) error {
    c.claimStale(ctx)

    streams, err := c.rdb.XReadGroup(ctx, &redis.XReadGroupArgs{
        Group:    c.group,
        Consumer: c.name,
        Streams:  []string{c.topic, ">"},
        Count:    c.count,
        Block:    c.blockWait,
    }).Result()
    if err == redis.Nil {
        return nil
    }
    if err != nil {
        return err
    }
    for _, stream := range streams {
        for _, msg := range stream.Messages {
            c.process(ctx, msg)
        }
    }
    return nil
}

// claimStale 接管其他消费者崩溃后遗留的 pending 消息
func (c *Consumer) claimStale(ctx context.Context) {
    msgs, _, err := c.rdb.XAutoClaim(ctx, &redis.XAutoClaimArgs{
        Stream:   c.topic,
        Group:    c.group,
        Consumer: c.name,
        MinIdle:  c.claimIdle,
        Start:    "0-0",
        Count:    c.count,
    }).Result()
    if err != nil || len(msgs) == 0 {
        return
    }
    for _, msg := range msgs {
        c.process(ctx, msg)
    }
}

func (c *Consumer) process(ctx context.Context, msg redis.XMessage) {
    key, _ := msg.Values["key"].(string)
    payload, _ := msg.Values["payload"].(string)
    if err := c.handler(ctx, key, []byte(payload)); err != nil {
        logger.Error("event apply failed, will redeliver",
            zap.String("topic", c.topic), zap.String("id", msg.ID),
            zap.String("key", key), zap.Error(err))
        sentry.CaptureException(fmt.Errorf("consume %s %s: %w", c.topic, msg.ID, err))
        return
    }
    if err := c.rdb.XAck(ctx, c.topic, c.group, msg.ID).Err(); err != nil {
        // ack 丢失只会导致重投递，幂等处理函数可以吸收
        logger.Warn("ack failed", zap.String("topic", c.topic), zap.String("id", msg.ID), zap.Error(err))
    }
}
