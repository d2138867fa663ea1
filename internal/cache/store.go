package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"
)

const (
	timelineKey   = "feed:posts"
	searchRankKey = "search:ranking"
)

func userKey(loginID string) string     { return "user:" + loginID }
func categoryKey(id int64) string       { return fmt.Sprintf("category:%d", id) }
func postKey(id int64) string           { return fmt.Sprintf("post:%d", id) }
func postLikersKey(id int64) string     { return fmt.Sprintf("post:%d:likers", id) }
func postCommentsKey(id int64) string   { return fmt.Sprintf("post:%d:comments", id) }

// Store owns every denormalized projection: entity docs, the global post
// timeline, per-post membership sets and the search ranking. All writes are
// idempotent so consumers can re-apply redelivered events safely.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store { return &Store{rdb: rdb} }

// SaveUser overwrites the user projection keyed by login id.
func (s *Store) SaveUser(ctx context.Context, doc UserDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, userKey(doc.LoginID), payload, 0).Err()
}

// UserByLoginID returns the cached user projection, or nil on a miss.
func (s *Store) UserByLoginID(ctx context.Context, loginID string) (*UserDoc, error) {
	data, err := s.rdb.Get(ctx, userKey(loginID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc UserDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func (s *Store) SaveCategory(ctx context.Context, doc CategoryDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, categoryKey(doc.ID), payload, 0).Err()
}

func (s *Store) CategoryByID(ctx context.Context, id int64) (*CategoryDoc, error) {
	data, err := s.rdb.Get(ctx, categoryKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc CategoryDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// UpsertPost overwrites the post projection and (re)inserts its timeline
// entry scored by creation time. The entry is removed before the insert so a
// modify-then-republish cycle can never leave two members for one post.
func (s *Store) UpsertPost(ctx context.Context, doc PostDoc) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	member := strconv.FormatInt(doc.ID, 10)
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, postKey(doc.ID), payload, 0)
		pipe.ZRem(ctx, timelineKey, member)
		pipe.ZAdd(ctx, timelineKey, redis.Z{Score: float64(doc.CreatedAt.Unix()), Member: member})
		return nil
	})
	return err
}

// DeletePost drops the projection and the timeline entry. Membership sets
// are deliberately left in place; resync reconciles them.
func (s *Store) DeletePost(ctx context.Context, id int64) error {
	member := strconv.FormatInt(id, 10)
	_, err := s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, postKey(id))
		pipe.ZRem(ctx, timelineKey, member)
		return nil
	})
	return err
}

// PostByID returns the cached post projection, or nil on a miss.
func (s *Store) PostByID(ctx context.Context, id int64) (*PostDoc, error) {
	data, err := s.rdb.Get(ctx, postKey(id)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var doc PostDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// PageFeed reads one window of the timeline in descending creation-time
// order and hydrates it into views. An out-of-range window still returns the
// real total so pagination metadata stays correct.
func (s *Store) PageFeed(ctx context.Context, page, size int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	total, err := s.rdb.ZCard(ctx, timelineKey).Result()
	if err != nil {
		return nil, err
	}

	start := int64(page-1) * int64(size)
	end := start + int64(size) - 1
	members, err := s.rdb.ZRevRange(ctx, timelineKey, start, end).Result()
	if err != nil {
		return nil, err
	}

	result := &FeedPage{Page: page, Size: size, Total: total, Posts: []PostView{}}
	if len(members) == 0 {
		return result, nil
	}

	ids := make([]int64, 0, len(members))
	keys := make([]string, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
		keys = append(keys, postKey(id))
	}

	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	docs := make([]PostDoc, 0, len(ids))
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue // projection missing, repaired by resync
		}
		var doc PostDoc
		if err := json.Unmarshal([]byte(str), &doc); err != nil {
			continue
		}
		docs = append(docs, doc)
	}

	// batch-count likes/comments in one round trip
	likeCmds := make([]*redis.IntCmd, len(docs))
	commentCmds := make([]*redis.IntCmd, len(docs))
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for i, doc := range docs {
			likeCmds[i] = pipe.SCard(ctx, postLikersKey(doc.ID))
			commentCmds[i] = pipe.SCard(ctx, postCommentsKey(doc.ID))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	categories := map[int64]string{}
	views := make([]PostView, 0, len(docs))
	for i, doc := range docs {
		name, ok := categories[doc.CategoryID]
		if !ok {
			if cat, err := s.CategoryByID(ctx, doc.CategoryID); err == nil && cat != nil {
				name = cat.Name
			}
			categories[doc.CategoryID] = name
		}
		views = append(views, PostView{
			PostDoc:      doc,
			CategoryName: name,
			LikeCount:    likeCmds[i].Val(),
			CommentCount: commentCmds[i].Val(),
		})
	}
	result.Posts = views
	return result, nil
}

// AddLikeMember records a liker. Adding an existing member is a no-op, so
// the set cardinality is always the distinct-liker count.
func (s *Store) AddLikeMember(ctx context.Context, postID int64, loginID string) error {
	return s.rdb.SAdd(ctx, postLikersKey(postID), loginID).Err()
}

func (s *Store) RemoveLikeMember(ctx context.Context, postID int64, loginID string) error {
	return s.rdb.SRem(ctx, postLikersKey(postID), loginID).Err()
}

func (s *Store) CountLikes(ctx context.Context, postID int64) (int64, error) {
	return s.rdb.SCard(ctx, postLikersKey(postID)).Result()
}

// AddCommentMember records a comment by its id. Members are comment ids, not
// user ids, so one user commenting twice counts twice.
func (s *Store) AddCommentMember(ctx context.Context, postID, commentID int64) error {
	return s.rdb.SAdd(ctx, postCommentsKey(postID), strconv.FormatInt(commentID, 10)).Err()
}

func (s *Store) RemoveCommentMember(ctx context.Context, postID, commentID int64) error {
	return s.rdb.SRem(ctx, postCommentsKey(postID), strconv.FormatInt(commentID, 10)).Err()
}

func (s *Store) CountComments(ctx context.Context, postID int64) (int64, error) {
	return s.rdb.SCard(ctx, postCommentsKey(postID)).Result()
}

// timelinePostIDs returns every post id currently in the timeline.
func (s *Store) timelinePostIDs(ctx context.Context) ([]int64, error) {
	members, err := s.rdb.ZRange(ctx, timelineKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// PruneTimeline removes timeline entries (and their projections) whose id
// is not in live. Resync uses it so a rebuild replaces whatever the cache
// held before instead of merging with it.
func (s *Store) PruneTimeline(ctx context.Context, live map[int64]struct{}) error {
	ids, err := s.timelinePostIDs(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := live[id]; ok {
			continue
		}
		if err := s.DeletePost(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RebuildCommentSets wholesale-replaces the per-post comment sets: every set
// belonging to a timeline post or named in sets is deleted, then the source
// members are re-added in the same pipeline. A member the source no longer
// knows cannot survive the rebuild.
func (s *Store) RebuildCommentSets(ctx context.Context, sets map[int64][]int64) error {
	ids, err := s.timelinePostIDs(ctx)
	if err != nil {
		return err
	}
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		seen := make(map[int64]struct{}, len(ids)+len(sets))
		for _, id := range ids {
			seen[id] = struct{}{}
			pipe.Del(ctx, postCommentsKey(id))
		}
		for id := range sets {
			if _, ok := seen[id]; !ok {
				pipe.Del(ctx, postCommentsKey(id))
			}
		}
		for id, members := range sets {
			if len(members) == 0 {
				continue
			}
			args := make([]interface{}, 0, len(members))
			for _, m := range members {
				args = append(args, strconv.FormatInt(m, 10))
			}
			pipe.SAdd(ctx, postCommentsKey(id), args...)
		}
		return nil
	})
	return err
}

// RebuildLikeSets is the liker-set counterpart of RebuildCommentSets;
// members are liker login ids.
func (s *Store) RebuildLikeSets(ctx context.Context, sets map[int64][]string) error {
	ids, err := s.timelinePostIDs(ctx)
	if err != nil {
		return err
	}
	_, err = s.rdb.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		seen := make(map[int64]struct{}, len(ids)+len(sets))
		for _, id := range ids {
			seen[id] = struct{}{}
			pipe.Del(ctx, postLikersKey(id))
		}
		for id := range sets {
			if _, ok := seen[id]; !ok {
				pipe.Del(ctx, postLikersKey(id))
			}
		}
		for id, members := range sets {
			if len(members) == 0 {
				continue
			}
			args := make([]interface{}, 0, len(members))
			for _, m := range members {
				args = append(args, m)
			}
			pipe.SAdd(ctx, postLikersKey(id), args...)
		}
		return nil
	})
	return err
}

// IncrementSearchRank bumps the normalized keyword's score. Scores only ever
// grow; a full cache rebuild is the only reset.
func (s *Store) IncrementSearchRank(ctx context.Context, keyword string) error {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil
	}
	return s.rdb.ZIncrBy(ctx, searchRankKey, 1, keyword).Err()
}

// TopSearchRanks returns the [start, end] window of keywords by descending
// score.
func (s *Store) TopSearchRanks(ctx context.Context, start, end int64) ([]SearchRank, error) {
	zs, err := s.rdb.ZRevRangeWithScores(ctx, searchRankKey, start, end).Result()
	if err != nil {
		return nil, err
	}
	ranks := make([]SearchRank, 0, len(zs))
	for _, z := range zs {
		kw, _ := z.Member.(string)
		ranks = append(ranks, SearchRank{Keyword: kw, Score: z.Score})
	}
	return ranks, nil
}
