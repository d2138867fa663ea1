package service

import (
    "context"
    "errors"

    "github.com/d60-Lab/feedsync/internal/event"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/repository"
)

var (
    ErrFollowSelf = errors.New("cannot follow self")
)

// RelationshipService 关系链服务
type RelationshipService interface {
    Follow(ctx context.Context, fromUserID, toUserID int64) error
    Unfollow(ctx context.Context, fromUserID, toUserID int64) error
    ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]int64, error)
}

type relationshipService struct {
    followRepo repository.FollowRepository
    producer   *event.Producer
}

func NewRelationshipService(followRepo repository.FollowRepository, producer *event.Producer) RelationshipService {
    return &relationshipService{followRepo: followRepo, producer: producer}
}

func (s *relationshipService) Follow(ctx context.Context, fromUserID, toUserID int64) error {
    if fromUserID == toUserID {
        return ErrFollowSelf
    }
    if err := s.followRepo.Create(ctx, fromUserID, toUserID); err != nil {
        return err
    }
    // 被关注方收到通知；以接收者为 key 保证同一用户的通知有序
    return s.producer.Publish(ctx, event.NotificationEvent{
        ReceiverID: toUserID,
        ActorID:    fromUserID,
        Type:       model.NotificationFollow,
        TargetID:   toUserID,
    })
}

func (s *relationshipService) Unfollow(ctx context.Context, fromUserID, toUserID int64) error {
    return s.followRepo.Delete(ctx, fromUserID, toUserID)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID int64, page, pageSize int) ([]int64, error) {
    if page < 1 { page = 1 }
    if pageSize < 1 { pageSize = 10 }
    offset := (page - 1) * pageSize
    items, err := s.followRepo.ListFollowings(ctx, userID, offset, pageSize)
    if err != nil { return nil, err }
    res := make([]int64, len(items))
    for i, it := range items { res[i] = it.FolloweeID }
    return res, nil
}
