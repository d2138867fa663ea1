package cache

import "time"

// UserDoc is the denormalized user projection served to read paths.
// Docs are replaced wholesale on every update, never patched field by field.
type UserDoc struct {
	ID        int64      `json:"id"`
	LoginID   string     `json:"login_id"`
	Nickname  string     `json:"nickname"`
	Email     string     `json:"email"`
	CreatedAt time.Time  `json:"created_at"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// CategoryDoc is the cached category projection.
type CategoryDoc struct {
	ID        int64      `json:"id"`
	Name      string     `json:"name"`
	DeletedAt *time.Time `json:"deleted_at,omitempty"`
}

// PostDoc is the cached post projection, eagerly joined with the fields
// feed rendering needs so reads never touch the primary store.
type PostDoc struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	UserLoginID string     `json:"user_login_id"`
	Nickname    string     `json:"nickname"`
	CategoryID  int64      `json:"category_id"`
	Title       string     `json:"title"`
	Content     string     `json:"content"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty"`
}

// PostView joins a PostDoc with the counters and category name resolved at
// page-build time.
type PostView struct {
	PostDoc
	CategoryName string `json:"category_name"`
	LikeCount    int64  `json:"like_count"`
	CommentCount int64  `json:"comment_count"`
}

// FeedPage is one window of the global timeline. Total always reflects the
// full timeline cardinality, even when the window itself is empty.
type FeedPage struct {
	Page  int        `json:"page"`
	Size  int        `json:"size"`
	Total int64      `json:"total"`
	Posts []PostView `json:"posts"`
}

// SearchRank is one (keyword, score) pair of the search frequency ranking.
type SearchRank struct {
	Keyword string  `json:"keyword"`
	Score   float64 `json:"score"`
}
