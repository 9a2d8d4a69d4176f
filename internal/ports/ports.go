package ports

import (
	"context"
	"time"

	"tvsignal/internal/domain"
)

// FeedSource retrieves the raw feed document from the upstream provider.
type FeedSource interface {
	Fetch(ctx context.Context) (string, error)
}

// FeedParser converts a raw feed document into normalized post records.
type FeedParser interface {
	Parse(raw string) ([]domain.Post, error)
}

// Enricher fills score, comment count, and flair from the secondary API.
// Per-item failures leave defaults in place and never abort the batch.
type Enricher interface {
	Enrich(ctx context.Context, posts []domain.Post) []domain.Post
}

// CommentExtractor fetches top comments per post. The second return value
// reports whether every post in the batch failed.
type CommentExtractor interface {
	ExtractComments(ctx context.Context, posts []domain.Post) ([]domain.Post, bool)
}

// MemoryStore persists the rolling window of previously seen post ids.
// Load fails soft: a missing or corrupt store yields an empty list.
type MemoryStore interface {
	Load() []string
	Save(ids []string) error
}

// Renderer turns the final post list plus metrics into a digest document.
// RenderFallback must never fail; it always returns a usable path.
type Renderer interface {
	Render(posts []domain.Post, metrics domain.RunMetrics) (string, error)
	RenderFallback(reason string) string
}

// RunHistory records per-run metrics for inspection across runs.
type RunHistory interface {
	Append(ctx context.Context, metrics domain.RunMetrics) error
	Recent(ctx context.Context, limit int) ([]domain.RunMetrics, error)
}

// Scheduler controls when pipeline runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
