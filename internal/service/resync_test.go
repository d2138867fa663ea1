package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/feedsync/internal/cache"
	"github.com/d60-Lab/feedsync/internal/model"
)

func newResyncService(env *testEnv, store *cache.Store) *ResyncService {
	return NewResyncService(env.userRepo, env.categoryRepo, env.postRepo, env.commentRepo, env.likeRepo, store)
}

func seedSnapshot(t *testing.T, env *testEnv) (deletedPostID int64) {
	t.Helper()
	ctx := context.Background()

	cat := env.seedCategory(t, "general")
	users := make([]*model.User, 0, 5)
	for i := 0; i < 5; i++ {
		users = append(users, env.seedUser(t, fmt.Sprintf("user%02d", i)))
	}

	base := time.Unix(10000, 0)
	var posts []*model.Post
	for i := 0; i < 12; i++ {
		p := &model.Post{
			UserID:     users[i%len(users)].ID,
			CategoryID: cat.ID,
			Title:      fmt.Sprintf("post %d", i),
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, env.postRepo.Create(ctx, p))
		posts = append(posts, p)
	}

	// one soft-deleted post must not survive in the timeline
	require.NoError(t, env.postRepo.Delete(ctx, posts[3].ID))

	for i, p := range posts {
		if i == 3 {
			continue
		}
		c := &model.Comment{PostID: p.ID, UserID: users[(i+1)%len(users)].ID, Content: "c"}
		require.NoError(t, env.commentRepo.Create(ctx, c))
	}
	return posts[3].ID
}

// feedFingerprint flattens everything pagination exposes so two caches can
// be compared structurally.
func feedFingerprint(t *testing.T, store *cache.Store) []string {
	t.Helper()
	ctx := context.Background()
	var out []string
	for page := 1; ; page++ {
		feed, err := store.PageFeed(ctx, page, 5)
		require.NoError(t, err)
		if len(feed.Posts) == 0 {
			out = append(out, fmt.Sprintf("total=%d", feed.Total))
			return out
		}
		for _, p := range feed.Posts {
			out = append(out, fmt.Sprintf("%d|%s|%s|%d|%d|%d",
				p.ID, p.Title, p.CategoryName, p.CreatedAt.Unix(), p.LikeCount, p.CommentCount))
		}
	}
}

func TestResyncConvergesWithEventReplay(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	deletedID := seedSnapshot(t, env)

	// cache A: bulk resync into a pre-polluted cache
	require.NoError(t, env.store.UpsertPost(ctx, testPostDoc(9999, "stale leftover", time.Unix(1, 0))))
	resync := newResyncService(env, env.store)
	require.NoError(t, resync.ResyncUsers(ctx))
	require.NoError(t, resync.ResyncPosts(ctx))
	require.NoError(t, resync.ResyncComments(ctx))

	// the pre-existing entry for a post unknown to the source of truth
	// must have been pruned: resync replaces, it does not merge
	stale, err := env.store.PostByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, stale)

	// cache B: replay every write event from empty through consumer apply
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	storeB := cache.NewStore(rdb)
	applyPost := NewPostEventHandler(storeB)

	cats, err := env.categoryRepo.All(ctx)
	require.NoError(t, err)
	for i := range cats {
		require.NoError(t, storeB.SaveCategory(ctx, categoryDoc(&cats[i])))
	}
	for page := 1; ; page++ {
		users, hasNext, err := env.userRepo.PageByIDDesc(ctx, page, 2)
		require.NoError(t, err)
		for i := range users {
			require.NoError(t, storeB.SaveUser(ctx, userDoc(&users[i])))
		}
		if !hasNext {
			break
		}
	}
	require.NoError(t, env.postRepo.EachBatch(ctx, 4, func(posts []model.Post) error {
		for i := range posts {
			p := &posts[i]
			if p.DeletedAt.Valid {
				if err := applyPost(ctx, fmt.Sprint(p.ID), postEventPayload(t, "delete", cache.PostDoc{ID: p.ID})); err != nil {
					return err
				}
				continue
			}
			if err := applyPost(ctx, fmt.Sprint(p.ID), postEventPayload(t, "upsert", postDoc(p))); err != nil {
				return err
			}
		}
		return nil
	}))
	require.NoError(t, env.commentRepo.EachBatch(ctx, 4, func(comments []model.Comment) error {
		for i := range comments {
			if err := storeB.AddCommentMember(ctx, comments[i].PostID, comments[i].ID); err != nil {
				return err
			}
		}
		return nil
	}))

	assert.Equal(t, feedFingerprint(t, storeB), feedFingerprint(t, env.store))

	// soft-deleted post is absent from both projections
	docA, err := env.store.PostByID(ctx, deletedID)
	require.NoError(t, err)
	assert.Nil(t, docA)

	// lookups hydrated identically
	uA, err := env.store.UserByLoginID(ctx, "user01")
	require.NoError(t, err)
	uB, err := storeB.UserByLoginID(ctx, "user01")
	require.NoError(t, err)
	assert.Equal(t, uB, uA)
}

func TestResyncReplacesMembershipSets(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	cat := env.seedCategory(t, "general")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	post := &model.Post{UserID: alice.ID, CategoryID: cat.ID, Title: "membership"}
	require.NoError(t, env.postRepo.Create(ctx, post))
	c := &model.Comment{PostID: post.ID, UserID: bob.ID, Content: "only one"}
	require.NoError(t, env.commentRepo.Create(ctx, c))
	require.NoError(t, env.likeRepo.Create(ctx, post.ID, bob.ID))

	// ghost members the source of truth never produced
	require.NoError(t, env.store.AddCommentMember(ctx, post.ID, 999999))
	require.NoError(t, env.store.AddLikeMember(ctx, post.ID, "ghost"))

	resync := newResyncService(env, env.store)
	require.NoError(t, resync.ResyncUsers(ctx))
	require.NoError(t, resync.ResyncPosts(ctx))
	require.NoError(t, resync.ResyncComments(ctx))
	require.NoError(t, resync.ResyncLikes(ctx))

	// rebuild replaces the sets, so the ghosts are gone
	comments, err := env.store.CountComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), comments)
	likes, err := env.store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), likes)
}

func TestResyncLikesRepairsCountsAfterCacheLoss(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	cat := env.seedCategory(t, "general")
	alice := env.seedUser(t, "alice")
	bob := env.seedUser(t, "bob")
	carol := env.seedUser(t, "carol")
	post := &model.Post{UserID: alice.ID, CategoryID: cat.ID, Title: "liked"}
	require.NoError(t, env.postRepo.Create(ctx, post))
	require.NoError(t, env.likeRepo.Create(ctx, post.ID, bob.ID))
	require.NoError(t, env.likeRepo.Create(ctx, post.ID, carol.ID))

	// empty cache, as after a redis loss
	resync := newResyncService(env, env.store)
	require.NoError(t, resync.ResyncUsers(ctx))
	require.NoError(t, resync.ResyncPosts(ctx))
	require.NoError(t, resync.ResyncLikes(ctx))

	likes, err := env.store.CountLikes(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), likes)

	feed, err := env.store.PageFeed(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, int64(2), feed.Posts[0].LikeCount)
}

func TestResyncIsRerunSafe(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	seedSnapshot(t, env)

	resync := newResyncService(env, env.store)
	for i := 0; i < 2; i++ {
		require.NoError(t, resync.ResyncUsers(ctx))
		require.NoError(t, resync.ResyncPosts(ctx))
		require.NoError(t, resync.ResyncComments(ctx))
	}

	feed, err := env.store.PageFeed(ctx, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(11), feed.Total, "12 posts minus the soft-deleted one, no duplicates from the rerun")
	for _, p := range feed.Posts {
		assert.Equal(t, int64(1), p.CommentCount)
	}
}
