package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedsync/internal/model"
	"github.com/d60-Lab/feedsync/internal/push"
)

func TestPostEventHandlerIdempotentApply(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	handler := NewPostEventHandler(env.store)

	payload := postEventPayload(t, "upsert", testPostDoc(10, "first", time.Unix(100, 0)))
	require.NoError(t, handler(ctx, "10", payload))
	require.NoError(t, handler(ctx, "10", payload)) // redelivery

	feed, err := env.store.PageFeed(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), feed.Total)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, int64(10), feed.Posts[0].ID)

	// modified republish reflects the new title without duplicating
	payload = postEventPayload(t, "upsert", testPostDoc(10, "second", time.Unix(100, 0)))
	require.NoError(t, handler(ctx, "10", payload))
	feed, err = env.store.PageFeed(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), feed.Total)
	assert.Equal(t, "second", feed.Posts[0].Title)
}

func TestPostEventHandlerDelete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	handler := NewPostEventHandler(env.store)

	require.NoError(t, handler(ctx, "10", postEventPayload(t, "upsert", testPostDoc(10, "gone soon", time.Unix(100, 0)))))
	require.NoError(t, handler(ctx, "10", postEventPayload(t, "delete", testPostDoc(10, "", time.Time{}))))

	feed, err := env.store.PageFeed(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(0), feed.Total)
}

func TestPostEventHandlerRejectsMalformed(t *testing.T) {
	env := setupEnv(t)
	handler := NewPostEventHandler(env.store)
	assert.Error(t, handler(context.Background(), "x", []byte("{not json")))
	assert.Error(t, handler(context.Background(), "x", postEventPayload(t, "bogus-op", testPostDoc(1, "", time.Time{}))))
}

func TestNotificationHandlerPersistsThenDelivers(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	registry := push.NewRegistry(time.Minute, 4)
	handler := NewNotificationEventHandler(env.notifRepo, registry)

	conn, err := registry.Subscribe(2)
	require.NoError(t, err)
	<-conn.Events() // drain ack

	payload := mustJSON(t, map[string]interface{}{
		"receiver_id": 2, "actor_id": 1, "type": model.NotificationLike, "target_id": 10,
	})
	require.NoError(t, handler(ctx, "2", payload))

	// durable record written
	list, err := env.notifRepo.ListByReceiver(ctx, 2, 0, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, model.NotificationLike, list[0].Type)
	assert.Equal(t, int64(1), list[0].ActorID)

	// live frame delivered
	select {
	case f := <-conn.Events():
		assert.Equal(t, "notification", f.Event)
		view, ok := f.Data.(NotificationView)
		require.True(t, ok)
		assert.Equal(t, int64(10), view.TargetID)
	case <-time.After(time.Second):
		t.Fatal("no live frame delivered")
	}
}

func TestNotificationHandlerRedeliveryDoesNotDuplicate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	registry := push.NewRegistry(time.Minute, 4)
	handler := NewNotificationEventHandler(env.notifRepo, registry)

	payload := mustJSON(t, map[string]interface{}{
		"receiver_id": 2, "actor_id": 1, "type": model.NotificationLike, "target_id": 10,
	})
	require.NoError(t, handler(ctx, "2", payload))
	require.NoError(t, handler(ctx, "2", payload)) // broker redelivery

	list, err := env.notifRepo.ListByReceiver(ctx, 2, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1, "(receiver, actor, type, target) dedup key absorbs redelivery")
}

func TestNotificationHandlerAcksWhenUserOffline(t *testing.T) {
	env := setupEnv(t)
	registry := push.NewRegistry(time.Minute, 4)
	handler := NewNotificationEventHandler(env.notifRepo, registry)

	payload := mustJSON(t, map[string]interface{}{
		"receiver_id": 9, "actor_id": 1, "type": model.NotificationFollow, "target_id": 9,
	})
	// absent connection: record persisted, no error surfaced
	require.NoError(t, handler(context.Background(), "9", payload))

	list, err := env.notifRepo.ListByReceiver(context.Background(), 9, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotificationHandlerAcksDespiteDeliveryFailure(t *testing.T) {
	env := setupEnv(t)
	// buffer 1 is eaten by the initial ack; delivery will fail
	registry := push.NewRegistry(time.Minute, 1)
	handler := NewNotificationEventHandler(env.notifRepo, registry)

	_, err := registry.Subscribe(2)
	require.NoError(t, err)

	payload := mustJSON(t, map[string]interface{}{
		"receiver_id": 2, "actor_id": 1, "type": model.NotificationComment, "target_id": 5,
	})
	// the durable write must not roll back over a live-delivery failure
	require.NoError(t, handler(context.Background(), "2", payload))

	list, err := env.notifRepo.ListByReceiver(context.Background(), 2, 0, 10)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

type failingSender struct{ calls int }

func (s *failingSender) Send(ctx context.Context, channel, text string) error {
	s.calls++
	return errors.New("webhook down")
}

func TestChatOpHandlerIsBestEffort(t *testing.T) {
	sender := &failingSender{}
	handler := NewChatOpEventHandler(sender)

	payload := mustJSON(t, map[string]string{"channel": "ops", "text": "hi"})
	// send failure is logged, never redelivered
	assert.NoError(t, handler(context.Background(), "ops", payload))
	assert.Equal(t, 1, sender.calls)

	// malformed payload is dropped, not retried forever
	assert.NoError(t, handler(context.Background(), "ops", []byte("{broken")))
	assert.Equal(t, 1, sender.calls)
}
