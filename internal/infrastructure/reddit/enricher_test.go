package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
)

const threadPayload = `[
  {"data": {"children": [
    {"kind": "t3", "data": {"score": 812, "num_comments": 143, "link_flair_text": " Episode Discussion "}}
  ]}},
  {"data": {"children": []}}
]`

func enricherFor(baseURL string) *Enricher {
	return NewEnricher(
		config.RedditConfig{BaseURL: baseURL, Subreddit: "television"},
		config.ClientConfig{UserAgent: "test-agent", TimeoutSeconds: 5, RateLimitMillis: 0},
		nil,
	)
}

func TestEnrichFillsFields(t *testing.T) {
	t.Parallel()

	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if ua := r.Header.Get("User-Agent"); ua != "test-agent" {
			t.Errorf("unexpected user agent %q", ua)
		}
		w.Write([]byte(threadPayload))
	}))
	defer server.Close()

	posts := enricherFor(server.URL).Enrich(context.Background(), []domain.Post{
		{ID: "t3_abc123", Title: "some thread"},
	})

	if len(posts) != 1 {
		t.Fatalf("expected 1 post, got %d", len(posts))
	}
	if gotPath != "/r/television/comments/abc123.json" {
		t.Fatalf("unexpected request path %q", gotPath)
	}

	post := posts[0]
	if post.Score != 812 {
		t.Errorf("score = %d, want 812", post.Score)
	}
	if post.CommentCount != 143 {
		t.Errorf("comment count = %d, want 143", post.CommentCount)
	}
	if post.Flair != "Episode Discussion" {
		t.Errorf("flair not trimmed: %q", post.Flair)
	}
}

func TestEnrichKeepsDefaultsOnFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(threadPayload))
	}))
	defer server.Close()

	posts := enricherFor(server.URL).Enrich(context.Background(), []domain.Post{
		{ID: "t3_bad"},
		{ID: "t3_good"},
	})

	if len(posts) != 2 {
		t.Fatalf("expected both posts back, got %d", len(posts))
	}
	if posts[0].Score != 0 || posts[0].CommentCount != 0 || posts[0].Flair != "" {
		t.Errorf("failed post must keep defaults, got %+v", posts[0])
	}
	if posts[1].Score != 812 {
		t.Errorf("second post not enriched, score = %d", posts[1].Score)
	}
}

func TestEnrichCancelledContextReturnsRemainder(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(threadPayload))
	}))
	defer server.Close()

	e := enricherFor(server.URL)
	e.interval = 1 // force the pre-request sleep to observe cancellation

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	posts := e.Enrich(ctx, []domain.Post{{ID: "t3_one"}, {ID: "t3_two"}})
	if len(posts) != 2 {
		t.Fatalf("expected remainder passed through, got %d posts", len(posts))
	}
	if posts[0].Score != 0 || posts[1].Score != 0 {
		t.Error("cancelled run must not enrich anything")
	}
}
