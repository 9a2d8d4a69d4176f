package reddit

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"sort"
	"time"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
	"tvsignal/internal/ports"
)

var markdownLinkExpr = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)

// Extractor fetches a bounded oversample of top comments per post and keeps
// the best few after local re-ranking. Shares the enricher's rate-limit
// sleep invariant.
type Extractor struct {
	userAgent  string
	interval   time.Duration
	maxPerPost int
	oversample int
	bodyLimit  int
	client     *http.Client
	logger     *slog.Logger
}

var _ ports.CommentExtractor = (*Extractor)(nil)

// NewExtractor wires comment bounds and rate limiting from config.
func NewExtractor(commentsCfg config.CommentsConfig, clientCfg config.ClientConfig, logger *slog.Logger) *Extractor {
	maxPerPost := commentsCfg.MaxPerPost
	if maxPerPost <= 0 {
		maxPerPost = 3
	}
	oversample := commentsCfg.Oversample
	if oversample <= 0 {
		oversample = 10
	}
	bodyLimit := commentsCfg.BodyLimit
	if bodyLimit <= 0 {
		bodyLimit = 500
	}
	return &Extractor{
		userAgent:  clientCfg.UserAgent,
		interval:   clientCfg.RateLimit(),
		maxPerPost: maxPerPost,
		oversample: oversample,
		bodyLimit:  bodyLimit,
		client:     &http.Client{Timeout: clientCfg.Timeout()},
		logger:     logger,
	}
}

// ExtractComments fills Comments per post. A per-item failure sets an empty
// list and the degraded flag, then moves on. The second return value is true
// when every post in the batch failed.
func (x *Extractor) ExtractComments(ctx context.Context, posts []domain.Post) ([]domain.Post, bool) {
	result := make([]domain.Post, 0, len(posts))
	failures := 0

	for i, post := range posts {
		if err := sleepWithContext(ctx, x.interval); err != nil {
			for _, rest := range posts[i:] {
				rest.Comments = []domain.Comment{}
				rest.CommentsDegraded = true
				result = append(result, rest)
				failures++
			}
			break
		}

		comments, err := x.fetchComments(ctx, post)
		if err != nil {
			x.warn("comment extraction failed", "post", post.ID, "error", err)
			post.Comments = []domain.Comment{}
			post.CommentsDegraded = true
			failures++
		} else {
			post.Comments = comments
		}
		result = append(result, post)
	}

	allFailed := len(posts) > 0 && failures == len(posts)
	return result, allFailed
}

func (x *Extractor) fetchComments(ctx context.Context, post domain.Post) ([]domain.Comment, error) {
	url := fmt.Sprintf("%s.json?sort=top&limit=%d", post.URL, x.oversample)

	payload, err := getThread(ctx, x.client, x.userAgent, url)
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return []domain.Comment{}, nil
	}

	comments := make([]domain.Comment, 0, len(payload[1].Data.Children))
	for _, c := range payload[1].Data.Children {
		// Non-comment stubs ("more" entries) carry other kinds.
		if c.Kind != "t1" {
			continue
		}
		author := c.Data.Author
		if author == "" {
			author = "[deleted]"
		}
		comments = append(comments, domain.Comment{
			Author:      author,
			Body:        x.cleanBody(c.Data.Body),
			Score:       c.Data.Score,
			AuthorFlair: c.Data.AuthorFlairText,
		})
	}

	sort.SliceStable(comments, func(i, j int) bool {
		return comments[i].Score > comments[j].Score
	})
	if len(comments) > x.maxPerPost {
		comments = comments[:x.maxPerPost]
	}

	return comments, nil
}

// cleanBody truncates the comment to the character budget with a visible
// marker and reduces markdown links to their text.
func (x *Extractor) cleanBody(body string) string {
	runes := []rune(body)
	if len(runes) > x.bodyLimit {
		body = string(runes[:x.bodyLimit]) + "..."
	}
	return markdownLinkExpr.ReplaceAllString(body, "$1")
}

func (x *Extractor) warn(msg string, args ...any) {
	if x.logger != nil {
		x.logger.Warn(msg, args...)
	}
}
