package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedsync/internal/event"
)

func (e *testEnv) streamLen(t *testing.T, topic string) int64 {
	t.Helper()
	n, err := e.rdb.XLen(context.Background(), topic).Result()
	if err != nil {
		return 0
	}
	return n
}

func newPostService(env *testEnv) *PostService {
	return NewPostService(env.postRepo, env.commentRepo, env.likeRepo, env.userRepo, env.store, event.NewProducer(env.rdb))
}

func TestCreatePostPublishesAfterCommit(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	cat := env.seedCategory(t, "general")
	svc := newPostService(env)

	post, err := svc.CreatePost(ctx, alice.ID, cat.ID, "hello", "world")
	require.NoError(t, err)
	require.NotZero(t, post.ID)

	// committed to the source of truth
	stored, err := env.postRepo.ByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", stored.Title)

	// one post event plus one chat-op side message
	assert.Equal(t, int64(1), env.streamLen(t, event.TopicPost))
	assert.Equal(t, int64(1), env.streamLen(t, event.TopicChatOp))
}

func TestUpdateAndDeleteRequireOwnership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	cat := env.seedCategory(t, "general")
	svc := newPostService(env)

	post, err := svc.CreatePost(ctx, alice.ID, cat.ID, "mine", "")
	require.NoError(t, err)

	_, err = svc.UpdatePost(ctx, post.ID, bob.ID, "stolen", "")
	assert.ErrorIs(t, err, ErrNotOwner)
	assert.ErrorIs(t, svc.DeletePost(ctx, post.ID, bob.ID), ErrNotOwner)

	require.NoError(t, svc.DeletePost(ctx, post.ID, alice.ID))
	assert.Equal(t, int64(2), env.streamLen(t, event.TopicPost), "upsert then delete event")
}

func TestLikePublishesNotificationButNotForSelf(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	cat := env.seedCategory(t, "general")
	svc := newPostService(env)

	post, err := svc.CreatePost(ctx, alice.ID, cat.ID, "likeable", "")
	require.NoError(t, err)

	require.NoError(t, svc.LikePost(ctx, post.ID, bob.ID))
	assert.Equal(t, int64(1), env.streamLen(t, event.TopicNotification))

	// self-like never notifies
	require.NoError(t, svc.LikePost(ctx, post.ID, alice.ID))
	assert.Equal(t, int64(1), env.streamLen(t, event.TopicNotification))

	n, err := env.store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	// duplicate like from the same user neither errors nor double counts
	require.NoError(t, svc.LikePost(ctx, post.ID, bob.ID))
	n, err = env.store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	require.NoError(t, svc.UnlikePost(ctx, post.ID, bob.ID))
	n, err = env.store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestCommentUpdatesMembershipAndNotifies(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	cat := env.seedCategory(t, "general")
	svc := newPostService(env)

	post, err := svc.CreatePost(ctx, alice.ID, cat.ID, "discuss", "")
	require.NoError(t, err)

	c1, err := svc.CreateComment(ctx, post.ID, bob.ID, "first")
	require.NoError(t, err)
	_, err = svc.CreateComment(ctx, post.ID, bob.ID, "second")
	require.NoError(t, err)
	assert.Equal(t, int64(2), env.streamLen(t, event.TopicNotification))

	// same user commenting twice counts twice
	n, err := env.store.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	assert.ErrorIs(t, svc.DeleteComment(ctx, c1.ID, alice.ID), ErrNotOwner)
	require.NoError(t, svc.DeleteComment(ctx, c1.ID, bob.ID))
	n, err = env.store.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestFollowPublishesNotification(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	svc := NewRelationshipService(env.followRepo, event.NewProducer(env.rdb))

	assert.ErrorIs(t, svc.Follow(ctx, alice.ID, alice.ID), ErrFollowSelf)

	require.NoError(t, svc.Follow(ctx, alice.ID, bob.ID))
	assert.Equal(t, int64(1), env.streamLen(t, event.TopicNotification))

	following, err := svc.ListFollowing(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, []int64{bob.ID}, following)

	require.NoError(t, svc.Unfollow(ctx, alice.ID, bob.ID))
	following, err = svc.ListFollowing(ctx, alice.ID, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, following)
}
