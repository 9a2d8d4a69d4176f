// Package render produces the HTML digest artifact and its fallback.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"tvsignal/internal/domain"
	"tvsignal/internal/pipeline"
	"tvsignal/internal/ports"
)

const latestName = "latest.html"

// HTMLRenderer writes digest documents into the configured directory and
// mirrors the most recent one at a stable latest path.
type HTMLRenderer struct {
	digestDir string
	logger    *slog.Logger
	tmpl      *template.Template
	now       func() time.Time
}

var _ ports.Renderer = (*HTMLRenderer)(nil)

// NewHTMLRenderer parses the built-in template once at construction.
func NewHTMLRenderer(digestDir string, logger *slog.Logger) *HTMLRenderer {
	return &HTMLRenderer{
		digestDir: digestDir,
		logger:    logger,
		tmpl:      template.Must(template.New("digest").Parse(digestTemplate)),
		now:       time.Now,
	}
}

type digestView struct {
	Date    string
	Posts   []postView
	Metrics domain.RunMetrics
}

type postView struct {
	domain.Post
	Sentiment   sentiment
	ReadingTime int
}

// Render writes the digest for the given posts and metrics, returning the
// path of the timestamped document. The same content is copied to the
// stable latest path.
func (r *HTMLRenderer) Render(posts []domain.Post, metrics domain.RunMetrics) (string, error) {
	view := digestView{
		Date:    r.now().Format("Monday, 2 January 2006"),
		Metrics: metrics,
	}
	for _, post := range posts {
		view.Posts = append(view.Posts, postView{
			Post:        post,
			Sentiment:   computeSentiment(post.Comments),
			ReadingTime: readingTime(post),
		})
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, view); err != nil {
		return "", pipeline.Wrap(pipeline.ErrRender, "execute digest template", err)
	}

	path, err := r.write(buf.Bytes())
	if err != nil {
		return "", pipeline.Wrap(pipeline.ErrRender, "write digest", err)
	}

	r.info("digest rendered", "path", path, "posts", len(posts))
	return path, nil
}

// RenderFallback writes a minimal document naming the failure. It never
// fails from the caller's perspective: even when the write itself errors,
// the stable path is still returned so downstream consumers have a target.
func (r *HTMLRenderer) RenderFallback(reason string) string {
	body := fmt.Sprintf(fallbackTemplate, template.HTMLEscapeString(reason),
		r.now().Format("2006-01-02 15:04"))

	path, err := r.write([]byte(body))
	if err != nil {
		r.warn("cannot write fallback digest", "error", err)
		return filepath.Join(r.digestDir, latestName)
	}

	r.info("fallback digest rendered", "path", path)
	return path
}

func (r *HTMLRenderer) write(content []byte) (string, error) {
	if err := os.MkdirAll(r.digestDir, 0o755); err != nil {
		return "", err
	}

	name := fmt.Sprintf("digest_%s.html", r.now().Format("20060102_150405"))
	path := filepath.Join(r.digestDir, name)
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", err
	}

	latest := filepath.Join(r.digestDir, latestName)
	if err := os.WriteFile(latest, content, 0o644); err != nil {
		return "", err
	}

	return path, nil
}

func (r *HTMLRenderer) info(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

func (r *HTMLRenderer) warn(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
