package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/feedsync/internal/cache"
	"github.com/d60-Lab/feedsync/internal/event"
	"github.com/d60-Lab/feedsync/internal/model"
	"github.com/d60-Lab/feedsync/internal/repository"
)

type testEnv struct {
	db    *gorm.DB
	rdb   *redis.Client
	store *cache.Store

	userRepo     repository.UserRepository
	categoryRepo repository.CategoryRepository
	postRepo     repository.PostRepository
	commentRepo  repository.CommentRepository
	likeRepo     repository.LikeRepository
	followRepo   repository.FollowRepository
	notifRepo    repository.NotificationRepository
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{}, &model.Category{}, &model.Post{}, &model.Comment{},
		&model.Like{}, &model.Follow{}, &model.Notification{},
	))

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return &testEnv{
		db:           db,
		rdb:          rdb,
		store:        cache.NewStore(rdb),
		userRepo:     repository.NewUserRepository(db),
		categoryRepo: repository.NewCategoryRepository(db),
		postRepo:     repository.NewPostRepository(db),
		commentRepo:  repository.NewCommentRepository(db),
		likeRepo:     repository.NewLikeRepository(db),
		followRepo:   repository.NewFollowRepository(db),
		notifRepo:    repository.NewNotificationRepository(db),
	}
}

func (e *testEnv) seedUser(t *testing.T, loginID string) *model.User {
	t.Helper()
	u := &model.User{LoginID: loginID, Nickname: loginID}
	require.NoError(t, e.userRepo.Create(context.Background(), u))
	return u
}

func (e *testEnv) seedCategory(t *testing.T, name string) *model.Category {
	t.Helper()
	c := &model.Category{Name: name}
	require.NoError(t, e.categoryRepo.Create(context.Background(), c))
	return c
}

func mustJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func postEventPayload(t *testing.T, op string, doc cache.PostDoc) []byte {
	return mustJSON(t, event.PostEvent{Op: op, Post: doc})
}

func testPostDoc(id int64, title string, created time.Time) cache.PostDoc {
	return cache.PostDoc{
		ID:          id,
		UserID:      1,
		UserLoginID: "alice",
		CategoryID:  1,
		Title:       title,
		CreatedAt:   created,
		UpdatedAt:   created,
	}
}
