package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
	"tvsignal/internal/ports"
)

// Enricher fills score, comment count, and flair per post from the thread
// JSON endpoint. Strictly sequential: the fixed sleep before each request is
// the rate-limit contract with the upstream API and is never skipped.
type Enricher struct {
	baseURL   string
	subreddit string
	userAgent string
	interval  time.Duration
	client    *http.Client
	logger    *slog.Logger
}

var _ ports.Enricher = (*Enricher)(nil)

// NewEnricher wires the API location and rate-limit interval from config.
func NewEnricher(redditCfg config.RedditConfig, clientCfg config.ClientConfig, logger *slog.Logger) *Enricher {
	return &Enricher{
		baseURL:   strings.TrimSuffix(redditCfg.BaseURL, "/"),
		subreddit: redditCfg.Subreddit,
		userAgent: clientCfg.UserAgent,
		interval:  clientCfg.RateLimit(),
		client:    &http.Client{Timeout: clientCfg.Timeout()},
		logger:    logger,
	}
}

// Enrich returns the same posts with fields filled in where the API call
// succeeded. A per-item failure leaves that post's defaults untouched and
// never aborts the batch.
func (e *Enricher) Enrich(ctx context.Context, posts []domain.Post) []domain.Post {
	enriched := make([]domain.Post, 0, len(posts))

	for i, post := range posts {
		if err := sleepWithContext(ctx, e.interval); err != nil {
			enriched = append(enriched, posts[i:]...)
			return enriched
		}

		threadID := strings.TrimPrefix(post.ID, "t3_")
		url := fmt.Sprintf("%s/r/%s/comments/%s.json", e.baseURL, e.subreddit, threadID)

		payload, err := getThread(ctx, e.client, e.userAgent, url)
		if err != nil {
			e.warn("enrichment failed, keeping defaults", "post", post.ID, "error", err)
			enriched = append(enriched, post)
			continue
		}

		if len(payload) > 0 && len(payload[0].Data.Children) > 0 {
			data := payload[0].Data.Children[0].Data
			post.Score = data.Score
			post.CommentCount = data.NumComments
			post.Flair = strings.TrimSpace(data.LinkFlairText)
		}

		enriched = append(enriched, post)
	}

	return enriched
}

func (e *Enricher) warn(msg string, args ...any) {
	if e.logger != nil {
		e.logger.Warn(msg, args...)
	}
}
