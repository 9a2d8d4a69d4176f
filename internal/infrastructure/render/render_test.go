package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tvsignal/internal/domain"
)

func rendererFor(t *testing.T) (*HTMLRenderer, string) {
	t.Helper()
	dir := t.TempDir()
	r := NewHTMLRenderer(dir, nil)
	r.now = func() time.Time {
		return time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)
	}
	return r, dir
}

func TestRenderWritesDigestAndLatest(t *testing.T) {
	t.Parallel()

	r, dir := rendererFor(t)
	posts := []domain.Post{
		{
			ID:           "t3_abc",
			Title:        "Severance S02E05 Discussion",
			URL:          "https://example.com/thread",
			Score:        812,
			CommentCount: 143,
			Flair:        "Episode Discussion",
			Comments: []domain.Comment{
				{Author: "fan", Body: "an amazing brilliant fantastic episode", Score: 90},
			},
		},
	}
	metrics := domain.RunMetrics{PostsFetched: 25, PostsInDigest: 1, Runtime: 4.2}

	path, err := r.Render(posts, metrics)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if filepath.Base(path) != "digest_20260831_230000.html" {
		t.Fatalf("unexpected digest name %q", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read digest: %v", err)
	}
	doc := string(content)
	for _, want := range []string{
		"Severance S02E05 Discussion",
		"Episode Discussion",
		"an amazing brilliant fantastic episode",
		"Positive vibes",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("digest missing %q", want)
		}
	}

	latest, err := os.ReadFile(filepath.Join(dir, "latest.html"))
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if string(latest) != doc {
		t.Error("latest.html does not mirror the digest")
	}
}

func TestRenderEscapesTitles(t *testing.T) {
	t.Parallel()

	r, dir := rendererFor(t)
	posts := []domain.Post{{ID: "t3_x", Title: `<script>alert("x")</script>`}}

	if _, err := r.Render(posts, domain.RunMetrics{}); err != nil {
		t.Fatalf("Render: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(dir, "latest.html"))
	if err != nil {
		t.Fatalf("read latest: %v", err)
	}
	if strings.Contains(string(content), "<script>alert") {
		t.Error("title not escaped")
	}
}

func TestRenderFallbackAlwaysReturnsPath(t *testing.T) {
	t.Parallel()

	r, dir := rendererFor(t)

	path := r.RenderFallback("feed unreachable")
	content, err := os.ReadFile(filepath.Join(dir, "latest.html"))
	if err != nil {
		t.Fatalf("read fallback: %v", err)
	}
	if !strings.Contains(string(content), "feed unreachable") {
		t.Error("fallback missing failure reason")
	}
	if path == "" {
		t.Fatal("empty fallback path")
	}
}

func TestRenderFallbackSurvivesWriteError(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocked := filepath.Join(dir, "occupied")
	if err := os.WriteFile(blocked, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	// digestDir collides with an existing file so every write fails.
	r := NewHTMLRenderer(blocked, nil)
	path := r.RenderFallback("anything")
	if path != filepath.Join(blocked, "latest.html") {
		t.Fatalf("expected stable path even on write failure, got %q", path)
	}
}

func TestComputeSentiment(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name  string
		body  string
		label string
	}{
		{"empty", "", "Neutral discussion"},
		{"positive", "amazing brilliant fantastic loved it", "Positive vibes"},
		{"negative", "terrible awful boring trash", "Critical reception"},
		{"mixed", "great but however uneven and inconsistent", "Mixed reactions"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var comments []domain.Comment
			if tc.body != "" {
				comments = []domain.Comment{{Body: tc.body}}
			}
			if got := computeSentiment(comments); got.Label != tc.label {
				t.Errorf("label = %q, want %q", got.Label, tc.label)
			}
		})
	}
}

func TestReadingTimeMinimumOneMinute(t *testing.T) {
	t.Parallel()

	if got := readingTime(domain.Post{Title: "short"}); got != 1 {
		t.Errorf("reading time = %d, want 1", got)
	}

	long := domain.Post{
		Title:    "a title",
		Comments: []domain.Comment{{Body: strings.Repeat("word ", 500)}},
	}
	if got := readingTime(long); got != 3 {
		t.Errorf("reading time = %d, want 3", got)
	}
}
