package event

import (
    "encoding/json"
    "strconv"

    "github.com/d60-Lab/feedsync/internal/cache"
)

// 主题名即写路径与消费者之间的线上契约
const (
    TopicPost         = "post"
    TopicNotification = "notification"
    TopicChatOp       = "chat-op"
)

// 帖子事件操作
const (
    PostOpUpsert = "upsert"
    PostOpDelete = "delete"
)

// Envelope 事件信封：每个主题一种变体，不共享泛化结构
type Envelope interface {
    Topic() string
    // Key 决定同键事件的有序投递（帖子ID、通知接收者ID）
    Key() string
}

// PostEvent 携带完整的帖子投影
type PostEvent struct {
    Op   string        `json:"op"`
    Post cache.PostDoc `json:"post"`
}

func (e PostEvent) Topic() string { return TopicPost }
func (e PostEvent) Key() string   { return strconv.FormatInt(e.Post.ID, 10) }

// NotificationEvent 携带 (接收者, 类型, 发起者, 目标)
type NotificationEvent struct {
    ReceiverID int64  `json:"receiver_id"`
    ActorID    int64  `json:"actor_id"`
    Type       string `json:"type"`
    TargetID   int64  `json:"target_id"`
}

func (e NotificationEvent) Topic() string { return TopicNotification }
func (e NotificationEvent) Key() string   { return strconv.FormatInt(e.ReceiverID, 10) }

// ChatOpEvent 运维侧信道消息
type ChatOpEvent struct {
    Channel string `json:"channel"`
    Text    string `json:"text"`
}

func (e ChatOpEvent) Topic() string { return TopicChatOp }
func (e ChatOpEvent) Key() string   { return e.Channel }

func DecodePostEvent(payload []byte) (PostEvent, error) {
    var e PostEvent
    err := json.Unmarshal(payload, &e)
    return e, err
}

func DecodeNotificationEvent(payload []byte) (NotificationEvent, error) {
    var e NotificationEvent
    err := json.Unmarshal(payload, &e)
    return e, err
}

func DecodeChatOpEvent(payload []byte) (ChatOpEvent, error) {
    var e ChatOpEvent
    err := json.Unmarshal(payload, &e)
    return e, err
}
