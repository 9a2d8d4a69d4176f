package domain

import "time"

// Post is a core entity describing one feed thread flowing through the pipeline.
// ID is assigned once at parse time; later stages only fill fields in.
type Post struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	URL              string    `json:"url"`
	Score            int       `json:"score"`
	CommentCount     int       `json:"num_comments"`
	Flair            string    `json:"flair"`
	Author           string    `json:"author"`
	CreatedAt        time.Time `json:"created"`
	Snippet          string    `json:"snippet,omitempty"`
	Comments         []Comment `json:"comments,omitempty"`
	CommentsDegraded bool      `json:"comments_degraded,omitempty"`
}

// Comment is a sub-record attached to a Post. Immutable once created and owned
// exclusively by its parent post.
type Comment struct {
	Author      string `json:"author"`
	Body        string `json:"body"`
	Score       int    `json:"score"`
	AuthorFlair string `json:"author_flair,omitempty"`
}

// RunStatus enumerates terminal pipeline outcomes.
type RunStatus string

const (
	StatusSuccess RunStatus = "success"
	StatusPartial RunStatus = "partial"
	StatusFailed  RunStatus = "failed"
)

// RunMetrics captures counts at each stage boundary. Created with zero/failed
// defaults at run start and mutated incrementally by the orchestrator; it is
// always consistent with what was actually observed, never rolled back.
type RunMetrics struct {
	RunID            string    `json:"run_id"`
	Date             time.Time `json:"date"`
	PostsFetched     int       `json:"posts_fetched"`
	PostsAfterDedup  int       `json:"posts_after_dedup"`
	PostsAfterFilter int       `json:"posts_after_filter"`
	PostsInDigest    int       `json:"posts_in_digest"`
	CommentsSuccess  int       `json:"comments_success"`
	CommentsTotal    int       `json:"comments_total"`
	Degraded         bool      `json:"degraded"`
	Runtime          float64   `json:"runtime"`
	Status           RunStatus `json:"status"`
}
