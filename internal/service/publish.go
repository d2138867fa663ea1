package service

import (
    "context"
    "errors"
    "fmt"

    "go.uber.org/zap"

    "github.com/d60-Lab/feedsync/internal/cache"
    "github.com/d60-Lab/feedsync/internal/event"
    "github.com/d60-Lab/feedsync/internal/model"
    "github.com/d60-Lab/feedsync/internal/repository"
    "github.com/d60-Lab/feedsync/pkg/logger"
)

var (
    ErrNotOwner = errors.New("not the owner")
)

// PostService 写路径：先落库，提交后再发布事件。
// 缓存的成员集合更新在这里同步执行（幂等），失败只降级为告警，等重建修复。
type PostService struct {
    postRepo    repository.PostRepository
    commentRepo repository.CommentRepository
    likeRepo    repository.LikeRepository
    userRepo    repository.UserRepository
    store       *cache.Store
    producer    *event.Producer
}

func NewPostService(
    postRepo repository.PostRepository,
    commentRepo repository.CommentRepository,
    likeRepo repository.LikeRepository,
    userRepo repository.UserRepository,
    store *cache.Store,
    producer *event.Producer,
) *PostService {
    return &PostService{
        postRepo:    postRepo,
        commentRepo: commentRepo,
        likeRepo:    likeRepo,
        userRepo:    userRepo,
        store:       store,
        producer:    producer,
    }
}

// CreatePost 落库后发布 post 事件；发布失败直接上抛
func (s *PostService) CreatePost(ctx context.Context, userID, categoryID int64, title, content string) (*model.Post, error) {
    post := &model.Post{UserID: userID, CategoryID: categoryID, Title: title, Content: content}
    if err := s.postRepo.Create(ctx, post); err != nil {
        return nil, err
    }
    full, err := s.postRepo.ByID(ctx, post.ID)
    if err != nil {
        return nil, err
    }
    if err := s.producer.Publish(ctx, event.PostEvent{Op: event.PostOpUpsert, Post: postDoc(full)}); err != nil {
        return nil, err
    }
    if err := s.producer.Publish(ctx, event.ChatOpEvent{
        Channel: "content-ops",
        Text:    fmt.Sprintf("new post #%d by user %d: %s", full.ID, userID, title),
    }); err != nil {
        return nil, err
    }
    return full, nil
}

func (s *PostService) UpdatePost(ctx context.Context, postID, userID int64, title, content string) (*model.Post, error) {
    post, err := s.postRepo.ByID(ctx, postID)
    if err != nil {
        return nil, err
    }
    if post.UserID != userID {
        return nil, ErrNotOwner
    }
    post.Title = title
    post.Content = content
    if err := s.postRepo.Update(ctx, post); err != nil {
        return nil, err
    }
    full, err := s.postRepo.ByID(ctx, postID)
    if err != nil {
        return nil, err
    }
    if err := s.producer.Publish(ctx, event.PostEvent{Op: event.PostOpUpsert, Post: postDoc(full)}); err != nil {
        return nil, err
    }
    return full, nil
}

func (s *PostService) DeletePost(ctx context.Context, postID, userID int64) error {
    post, err := s.postRepo.ByID(ctx, postID)
    if err != nil {
        return err
    }
    if post.UserID != userID {
        return ErrNotOwner
    }
    if err := s.postRepo.Delete(ctx, postID); err != nil {
        return err
    }
    return s.producer.Publish(ctx, event.PostEvent{Op: event.PostOpDelete, Post: cache.PostDoc{ID: postID}})
}

// LikePost 写路径已经按 (post, user) 去重，缓存集合只负责计数
func (s *PostService) LikePost(ctx context.Context, postID, userID int64) error {
    post, err := s.postRepo.ByID(ctx, postID)
    if err != nil {
        return err
    }
    user, err := s.userRepo.ByID(ctx, userID)
    if err != nil {
        return err
    }
    if err := s.likeRepo.Create(ctx, postID, userID); err != nil {
        return err
    }
    if err := s.store.AddLikeMember(ctx, postID, user.LoginID); err != nil {
        logger.Warn("cache like add failed", zap.Int64("post_id", postID), zap.Error(err))
    }
    if post.UserID == userID {
        return nil
    }
    return s.producer.Publish(ctx, event.NotificationEvent{
        ReceiverID: post.UserID,
        ActorID:    userID,
        Type:       model.NotificationLike,
        TargetID:   postID,
    })
}

func (s *PostService) UnlikePost(ctx context.Context, postID, userID int64) error {
    user, err := s.userRepo.ByID(ctx, userID)
    if err != nil {
        return err
    }
    if err := s.likeRepo.Delete(ctx, postID, userID); err != nil {
        return err
    }
    if err := s.store.RemoveLikeMember(ctx, postID, user.LoginID); err != nil {
        logger.Warn("cache like remove failed", zap.Int64("post_id", postID), zap.Error(err))
    }
    return nil
}

func (s *PostService) CreateComment(ctx context.Context, postID, userID int64, content string) (*model.Comment, error) {
    post, err := s.postRepo.ByID(ctx, postID)
    if err != nil {
        return nil, err
    }
    comment := &model.Comment{PostID: postID, UserID: userID, Content: content}
    if err := s.commentRepo.Create(ctx, comment); err != nil {
        return nil, err
    }
    if err := s.store.AddCommentMember(ctx, postID, comment.ID); err != nil {
        logger.Warn("cache comment add failed", zap.Int64("post_id", postID), zap.Error(err))
    }
    if post.UserID != userID {
        if err := s.producer.Publish(ctx, event.NotificationEvent{
            ReceiverID: post.UserID,
            ActorID:    userID,
            Type:       model.NotificationComment,
            TargetID:   comment.ID,
        }); err != nil {
            return nil, err
        }
    }
    return comment, nil
}

func (s *PostService) DeleteComment(ctx context.Context, commentID, userID int64) error {
    comment, err := s.commentRepo.ByID(ctx, commentID)
    if err != nil {
        return err
    }
    if comment.UserID != userID {
        return ErrNotOwner
    }
    if err := s.commentRepo.Delete(ctx, commentID); err != nil {
        return err
    }
    if err := s.store.RemoveCommentMember(ctx, comment.PostID, commentID); err != nil {
        logger.Warn("cache comment remove failed", zap.Int64("post_id", comment.PostID), zap.Error(err))
    }
    return nil
}
