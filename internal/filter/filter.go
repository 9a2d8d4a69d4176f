// Package filter applies the ordered predicate chain over enriched posts.
// The rule order is a contract: reordering changes results.
package filter

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
)

var episodeExpr = regexp.MustCompile(`(?i)S\d{1,2}E\d{1,2}|Episode \d+|Season \d+`)

// Engine evaluates the filter chain with an immutable configuration snapshot.
// It is deterministic given its inputs and performs no I/O.
type Engine struct {
	cfg    config.FilterConfig
	logger *slog.Logger
}

// NewEngine builds an engine from the given thresholds and keyword lists.
func NewEngine(cfg config.FilterConfig, logger *slog.Logger) *Engine {
	return &Engine{cfg: cfg, logger: logger}
}

// Apply runs the rules in fixed order and returns the survivors sorted by
// comment count descending (stable: ties keep their original order).
func (e *Engine) Apply(posts []domain.Post) []domain.Post {
	survivors := posts
	var removed int

	survivors, removed = e.byKeyword(survivors)
	e.log("keyword filter applied", removed, len(survivors))

	survivors, removed = e.byFlair(survivors)
	e.log("flair filter applied", removed, len(survivors))

	survivors, removed = e.byMinComments(survivors)
	e.log("engagement filter applied", removed, len(survivors))

	survivors, removed = e.byRatio(survivors)
	e.log("ratio filter applied", removed, len(survivors))

	sorted := make([]domain.Post, len(survivors))
	copy(sorted, survivors)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CommentCount > sorted[j].CommentCount
	})

	return sorted
}

// byKeyword drops posts whose case-folded title contains an excluded
// substring. Substring match, not token match: a title containing
// "broadcaster" matches the keyword "cast". Preserved as-is.
func (e *Engine) byKeyword(posts []domain.Post) ([]domain.Post, int) {
	kept := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		title := strings.ToLower(post.Title)
		excluded := false
		for _, kw := range e.cfg.ExcludedKeywords {
			if strings.Contains(title, kw) {
				excluded = true
				break
			}
		}
		if !excluded {
			kept = append(kept, post)
		}
	}
	return kept, len(posts) - len(kept)
}

// byFlair enforces the block list and, when configured, the allow list.
// An empty flair means enrichment did not confirm anything; those posts
// always survive this rule.
func (e *Engine) byFlair(posts []domain.Post) ([]domain.Post, int) {
	kept := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if post.Flair == "" {
			kept = append(kept, post)
			continue
		}
		flair := strings.ToLower(post.Flair)
		if contains(e.cfg.BlockedFlairs, flair) {
			continue
		}
		if len(e.cfg.AllowedFlairs) > 0 && !contains(e.cfg.AllowedFlairs, flair) {
			continue
		}
		kept = append(kept, post)
	}
	return kept, len(posts) - len(kept)
}

// byMinComments drops posts below the engagement threshold. A comment count
// of zero is indistinguishable from failed enrichment, so those posts
// survive: false positives from missing data beat false negatives from
// confirmed low engagement. Episode discussions use the lower threshold.
func (e *Engine) byMinComments(posts []domain.Post) ([]domain.Post, int) {
	kept := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		threshold := e.cfg.MinComments
		if isEpisodeDiscussion(post) {
			threshold = e.cfg.EpisodeMinComments
		}
		if post.CommentCount > 0 && post.CommentCount < threshold {
			continue
		}
		kept = append(kept, post)
	}
	return kept, len(posts) - len(kept)
}

// byRatio drops posts whose comments-per-upvote ratio is below the threshold.
// Only applies when score is positive; a zero score yields no meaningful
// ratio. Episode discussions bypass the rule entirely.
func (e *Engine) byRatio(posts []domain.Post) ([]domain.Post, int) {
	kept := make([]domain.Post, 0, len(posts))
	for _, post := range posts {
		if post.Score > 0 && !isEpisodeDiscussion(post) {
			ratio := float64(post.CommentCount) / float64(post.Score)
			if ratio < e.cfg.MinCommentScoreRatio {
				continue
			}
		}
		kept = append(kept, post)
	}
	return kept, len(posts) - len(kept)
}

func isEpisodeDiscussion(post domain.Post) bool {
	if episodeExpr.MatchString(post.Title) || episodeExpr.MatchString(post.Flair) {
		return true
	}
	return strings.Contains(strings.ToLower(post.Flair), "episode discussion")
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if strings.ToLower(v) == target {
			return true
		}
	}
	return false
}

func (e *Engine) log(msg string, removed, remaining int) {
	if e.logger != nil {
		e.logger.Info(msg, "removed", removed, "remaining", remaining)
	}
}
