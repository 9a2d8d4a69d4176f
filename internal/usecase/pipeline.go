package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"tvsignal/internal/dedup"
	"tvsignal/internal/domain"
	"tvsignal/internal/filter"
	"tvsignal/internal/ports"
)

// PipelineDeps wires all driven adapters into the orchestration pipeline.
type PipelineDeps struct {
	Source      ports.FeedSource
	Parser      ports.FeedParser
	Memory      ports.MemoryStore
	Enricher    ports.Enricher
	Extractor   ports.CommentExtractor
	Filter      *filter.Engine
	Renderer    ports.Renderer
	History     ports.RunHistory
	ArtifactDir string
	Logger      *slog.Logger
}

// Pipeline runs the digest stages strictly in sequence and classifies each
// stage's failure as fatal or recoverable. Under every reachable path it
// produces exactly one terminal artifact and one metrics record.
type Pipeline struct {
	source      ports.FeedSource
	parser      ports.FeedParser
	memory      ports.MemoryStore
	enricher    ports.Enricher
	extractor   ports.CommentExtractor
	filter      *filter.Engine
	renderer    ports.Renderer
	history     ports.RunHistory
	artifactDir string
	logger      *slog.Logger
	now         func() time.Time
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}
	return &Pipeline{
		source:      deps.Source,
		parser:      deps.Parser,
		memory:      deps.Memory,
		enricher:    deps.Enricher,
		extractor:   deps.Extractor,
		filter:      deps.Filter,
		renderer:    deps.Renderer,
		history:     deps.History,
		artifactDir: deps.ArtifactDir,
		logger:      deps.Logger,
		now:         time.Now,
	}
}

// Run executes one full pipeline pass and returns the metrics for the run.
func (p *Pipeline) Run(ctx context.Context) domain.RunMetrics {
	start := p.now()
	metrics := domain.RunMetrics{
		RunID:  uuid.NewString(),
		Date:   start,
		Status: domain.StatusFailed,
	}

	// Read-only snapshot for dedup; written back only at the final stage.
	seenIDs := p.memory.Load()

	p.stage("fetch feed", 1)
	raw, err := p.source.Fetch(ctx)
	if err != nil {
		return p.fatal(metrics, start, fmt.Sprintf("feed fetch failed: %v", err), err)
	}

	p.stage("parse posts", 2)
	posts, err := p.parser.Parse(raw)
	if err != nil {
		return p.fatal(metrics, start, fmt.Sprintf("feed parsing failed: %v", err), err)
	}
	metrics.PostsFetched = len(posts)

	p.stage("deduplicate", 3)
	deduped := dedup.Deduplicate(posts, seenIDs)
	metrics.PostsAfterDedup = len(deduped)

	p.stage("enrich and filter", 4)
	enriched := p.enricher.Enrich(ctx, deduped)
	filtered := p.applyFilter(enriched)
	metrics.PostsAfterFilter = len(filtered)

	p.stage("extract comments", 5)
	final, allFailed := p.extractor.ExtractComments(ctx, filtered)
	metrics.CommentsTotal = len(final)
	for _, post := range final {
		if len(post.Comments) > 0 {
			metrics.CommentsSuccess++
		}
	}
	metrics.Degraded = allFailed || (metrics.CommentsTotal > 0 && metrics.CommentsSuccess == 0)

	p.stage("render digest", 6)
	renderFailed := false
	path, err := p.renderer.Render(final, metrics)
	if err != nil {
		p.logger.Error("render failed, writing fallback digest", "error", err)
		path = p.renderer.RenderFallback(fmt.Sprintf("render failed: %v", err))
		renderFailed = true
	} else {
		metrics.PostsInDigest = len(final)
	}
	p.logger.Info("digest written", "path", path)

	p.stage("update memory", 7)
	memoryFailed := false
	ids := seenIDs
	for _, post := range final {
		ids = append(ids, post.ID)
	}
	if err := p.memory.Save(ids); err != nil {
		// The artifact is already on disk; losing the window only means
		// some posts may repeat next run.
		p.logger.Error("memory update failed", "error", err)
		memoryFailed = true
	}

	metrics.Runtime = roundSeconds(p.now().Sub(start))
	switch {
	case renderFailed:
		metrics.Status = domain.StatusFailed
	case metrics.Degraded || memoryFailed:
		metrics.Status = domain.StatusPartial
	default:
		metrics.Status = domain.StatusSuccess
	}

	p.persistMetrics(ctx, metrics)
	p.logger.Info("pipeline complete", "status", metrics.Status, "runtime", metrics.Runtime)
	return metrics
}

// fatal handles fetch/parse failures: a fallback artifact is still produced,
// metrics are persisted, and the failed status is terminal.
func (p *Pipeline) fatal(metrics domain.RunMetrics, start time.Time, reason string, err error) domain.RunMetrics {
	p.logger.Error("fatal pipeline failure", "error", err)

	path := p.renderer.RenderFallback(reason)
	p.logger.Info("fallback digest written", "path", path)

	metrics.Runtime = roundSeconds(p.now().Sub(start))
	metrics.Status = domain.StatusFailed
	p.persistMetrics(context.Background(), metrics)
	return metrics
}

// applyFilter isolates the filter engine: a defect there degrades to the
// pre-filter list instead of aborting the run.
func (p *Pipeline) applyFilter(posts []domain.Post) (result []domain.Post) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("filter engine defect, continuing with pre-filter list", "panic", r)
			result = posts
		}
	}()

	if p.filter == nil {
		return posts
	}
	return p.filter.Apply(posts)
}

// persistMetrics writes the metrics artifact and appends the history row.
// Both are best effort: metrics describe the run, they never decide it.
func (p *Pipeline) persistMetrics(ctx context.Context, metrics domain.RunMetrics) {
	if p.artifactDir != "" {
		if err := os.MkdirAll(p.artifactDir, 0o755); err != nil {
			p.logger.Warn("cannot create artifact dir", "error", err)
		} else {
			raw, err := json.MarshalIndent(metrics, "", "  ")
			if err == nil {
				name := fmt.Sprintf("metrics_%s.json", p.now().Format("20060102_150405"))
				if werr := os.WriteFile(filepath.Join(p.artifactDir, name), raw, 0o644); werr != nil {
					p.logger.Warn("cannot write metrics artifact", "error", werr)
				}
			}
		}
	}

	if p.history != nil {
		if err := p.history.Append(ctx, metrics); err != nil {
			p.logger.Warn("cannot append run history", "error", err)
		}
	}
}

func (p *Pipeline) stage(name string, n int) {
	p.logger.Info("stage started", "stage", name, "step", fmt.Sprintf("%d/7", n))
}

func roundSeconds(d time.Duration) float64 {
	return math.Round(d.Seconds()*100) / 100
}
