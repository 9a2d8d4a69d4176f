package app

import (
	"context"
	"log/slog"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
	"tvsignal/internal/filter"
	"tvsignal/internal/infrastructure/feed"
	"tvsignal/internal/infrastructure/memory"
	"tvsignal/internal/infrastructure/reddit"
	"tvsignal/internal/infrastructure/render"
	"tvsignal/internal/infrastructure/scheduler"
	"tvsignal/internal/infrastructure/storage"
	"tvsignal/internal/logging"
	"tvsignal/internal/ports"
	"tvsignal/internal/runlock"
	"tvsignal/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
	history  *storage.HistoryRepository
	lock     *runlock.Lock
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	fetcher := feed.NewFetcher(cfg.Feed, cfg.Client, cfg.Paths.ArtifactDir,
		baseLogger.With("component", "fetcher"))
	parser := feed.NewParser(cfg.Feed, baseLogger.With("component", "parser"))
	store := memory.NewStore(cfg.Memory.Path, cfg.Memory.MaxSeenIDs,
		baseLogger.With("component", "memory"))
	enricher := reddit.NewEnricher(cfg.Reddit, cfg.Client,
		baseLogger.With("component", "enricher"))
	extractor := reddit.NewExtractor(cfg.Comments, cfg.Client,
		baseLogger.With("component", "comments"))
	engine := filter.NewEngine(cfg.Filter, baseLogger.With("component", "filter"))
	renderer := render.NewHTMLRenderer(cfg.Paths.DigestDir,
		baseLogger.With("component", "render"))

	var history ports.RunHistory
	repo, err := storage.Open(cfg.History.DBPath)
	if err != nil {
		// The run itself does not depend on history; it only loses audit rows.
		baseLogger.Warn("run history unavailable", "error", err)
	} else {
		history = repo
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Source:      fetcher,
		Parser:      parser,
		Memory:      store,
		Enricher:    enricher,
		Extractor:   extractor,
		Filter:      engine,
		Renderer:    renderer,
		History:     history,
		ArtifactDir: cfg.Paths.ArtifactDir,
		Logger:      baseLogger.With("component", "pipeline"),
	})

	return &Application{
		cfg:      cfg,
		logger:   baseLogger,
		pipeline: pipeline,
		history:  repo,
		lock:     runlock.New(cfg.Paths.LockFile),
	}
}

// RunOnce executes a single guarded pipeline run.
func (a *Application) RunOnce(ctx context.Context) (domain.RunMetrics, error) {
	if err := a.lock.Acquire(); err != nil {
		return domain.RunMetrics{}, err
	}
	defer a.lock.Release()

	return a.pipeline.Run(ctx), nil
}

// RunScheduled blocks, executing a guarded run at the configured daily time
// until the context is cancelled.
func (a *Application) RunScheduled(ctx context.Context) error {
	driver := scheduler.NewDailyScheduler(a.cfg.Scheduler)
	sched := usecase.NewScheduler(driver, a.pipeline, a.lock,
		a.logger.With("component", "scheduler"))

	if err := sched.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	return sched.Stop(context.Background())
}

// History returns the most recent run records, newest first.
func (a *Application) History(ctx context.Context, limit int) ([]domain.RunMetrics, error) {
	if a.history == nil {
		return nil, nil
	}
	return a.history.Recent(ctx, limit)
}

// Close releases resources held by the application.
func (a *Application) Close() error {
	if a.history != nil {
		return a.history.Close()
	}
	return nil
}
