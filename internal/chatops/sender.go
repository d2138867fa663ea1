package chatops

import (
    "context"
    "fmt"

    "resty.dev/v3"

    "github.com/d60-Lab/feedsync/config"
)

// Sender 向运维侧信道发送消息（尽力而为，不保证恰好一次）
type Sender interface {
    Send(ctx context.Context, channel, text string) error
}

type webhookSender struct {
    client *resty.Client
    url    string
}

func NewWebhookSender(cfg config.ChatOpsConfig) Sender {
    client := resty.New().SetTimeout(cfg.Timeout)
    return &webhookSender{client: client, url: cfg.WebhookURL}
}

func (s *webhookSender) Send(ctx context.Context, channel, text string) error {
    if s.url == "" {
        return nil
    }
    resp, err := s.client.R().
        SetContext(ctx).
        SetHeader("Content-Type", "application/json").
        SetBody(map[string]string{"channel": channel, "text": text}).
        Post(s.url)
    if err != nil {
        return fmt.Errorf("chatops webhook: %w", err)
    }
    if resp.IsError() {
        return fmt.Errorf("chatops webhook: status %s", resp.Status())
    }
    return nil
}
