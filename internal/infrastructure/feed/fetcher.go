// Package feed retrieves and parses the upstream subreddit feed.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"tvsignal/internal/config"
	"tvsignal/internal/pipeline"
	"tvsignal/internal/ports"
)

// Fetcher retrieves the raw feed document with a bounded timeout.
// It never retries; retry policy belongs to the scheduler.
type Fetcher struct {
	url         string
	userAgent   string
	artifactDir string
	client      *http.Client
	logger      *slog.Logger
}

var _ ports.FeedSource = (*Fetcher)(nil)

// NewFetcher wires an HTTP client with the configured timeout.
func NewFetcher(feedCfg config.FeedConfig, clientCfg config.ClientConfig, artifactDir string, logger *slog.Logger) *Fetcher {
	return &Fetcher{
		url:         feedCfg.URL,
		userAgent:   clientCfg.UserAgent,
		artifactDir: artifactDir,
		client:      &http.Client{Timeout: clientCfg.Timeout()},
		logger:      logger,
	}
}

// Fetch issues a single GET for the feed document and classifies any failure
// as one of the typed fetch kinds. All kinds are fatal to the run.
func (f *Fetcher) Fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return "", &pipeline.FetchError{Kind: pipeline.FetchTransport, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)

	f.info("fetching feed", "url", f.url)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", classifyTransport(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &pipeline.FetchError{Kind: pipeline.FetchBadStatus, StatusCode: resp.StatusCode}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classifyTransport(err)
	}

	f.info("fetched feed", "bytes", len(raw))
	f.saveArtifact(raw)

	return string(raw), nil
}

func classifyTransport(err error) *pipeline.FetchError {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &pipeline.FetchError{Kind: pipeline.FetchTimeout, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &pipeline.FetchError{Kind: pipeline.FetchTimeout, Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return &pipeline.FetchError{Kind: pipeline.FetchUnreachable, Err: err}
	}
	return &pipeline.FetchError{Kind: pipeline.FetchTransport, Err: err}
}

// saveArtifact keeps a timestamped copy of the raw document for debugging.
// Best effort only; a write failure never affects the run.
func (f *Fetcher) saveArtifact(raw []byte) {
	if f.artifactDir == "" {
		return
	}
	if err := os.MkdirAll(f.artifactDir, 0o755); err != nil {
		f.warnSave(err)
		return
	}
	name := fmt.Sprintf("raw_feed_%s.xml", time.Now().Format("20060102_150405"))
	if err := os.WriteFile(filepath.Join(f.artifactDir, name), raw, 0o644); err != nil {
		f.warnSave(err)
	}
}

func (f *Fetcher) info(msg string, args ...any) {
	if f.logger != nil {
		f.logger.Info(msg, args...)
	}
}

func (f *Fetcher) warnSave(err error) {
	if f.logger != nil {
		f.logger.Warn("cannot save raw feed artifact", "error", err)
	}
}
