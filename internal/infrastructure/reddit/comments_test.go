package reddit

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tvsignal/internal/config"
	"tvsignal/internal/domain"
)

func extractorFor() *Extractor {
	return NewExtractor(
		config.CommentsConfig{MaxPerPost: 3, Oversample: 10, BodyLimit: 500},
		config.ClientConfig{UserAgent: "test-agent", TimeoutSeconds: 5, RateLimitMillis: 0},
		nil,
	)
}

func commentPayload(comments string) string {
	return fmt.Sprintf(`[
  {"data": {"children": [{"kind": "t3", "data": {"score": 1, "num_comments": 1}}]}},
  {"data": {"children": [%s]}}
]`, comments)
}

func TestExtractCommentsKeepsTopRanked(t *testing.T) {
	t.Parallel()

	body := commentPayload(`
    {"kind": "t1", "data": {"author": "a", "body": "low", "score": 5}},
    {"kind": "t1", "data": {"author": "b", "body": "high", "score": 90}},
    {"kind": "t1", "data": {"author": "c", "body": "mid", "score": 40}},
    {"kind": "t1", "data": {"author": "d", "body": "top", "score": 120}},
    {"kind": "more", "data": {"body": "stub"}}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("limit"); got != "10" {
			t.Errorf("oversample limit = %q, want 10", got)
		}
		w.Write([]byte(body))
	}))
	defer server.Close()

	posts, allFailed := extractorFor().ExtractComments(context.Background(), []domain.Post{
		{ID: "t3_abc", URL: server.URL + "/r/television/comments/abc/thread"},
	})

	if allFailed {
		t.Fatal("unexpected allFailed")
	}
	comments := posts[0].Comments
	if len(comments) != 3 {
		t.Fatalf("expected 3 comments, got %d", len(comments))
	}
	if comments[0].Body != "top" || comments[1].Body != "high" || comments[2].Body != "mid" {
		t.Errorf("wrong ranking: %+v", comments)
	}
	if posts[0].CommentsDegraded {
		t.Error("successful post marked degraded")
	}
}

func TestExtractCommentsCleansBodies(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 600)
	body := commentPayload(fmt.Sprintf(`
    {"kind": "t1", "data": {"author": "", "body": "see [the recap](https://example.com/recap) here", "score": 10}},
    {"kind": "t1", "data": {"author": "verbose", "body": %q, "score": 5}}`, long))

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(body))
	}))
	defer server.Close()

	posts, _ := extractorFor().ExtractComments(context.Background(), []domain.Post{
		{ID: "t3_abc", URL: server.URL + "/thread"},
	})

	comments := posts[0].Comments
	if comments[0].Author != "[deleted]" {
		t.Errorf("missing author = %q, want [deleted]", comments[0].Author)
	}
	if comments[0].Body != "see the recap here" {
		t.Errorf("markdown link not reduced: %q", comments[0].Body)
	}
	if want := strings.Repeat("x", 500) + "..."; comments[1].Body != want {
		t.Errorf("body not truncated with marker, len %d", len(comments[1].Body))
	}
}

func TestExtractCommentsPerPostFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "bad") {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(commentPayload(`{"kind": "t1", "data": {"author": "a", "body": "fine", "score": 1}}`)))
	}))
	defer server.Close()

	posts, allFailed := extractorFor().ExtractComments(context.Background(), []domain.Post{
		{ID: "t3_bad", URL: server.URL + "/bad"},
		{ID: "t3_ok", URL: server.URL + "/ok"},
	})

	if allFailed {
		t.Fatal("one success must clear allFailed")
	}
	if !posts[0].CommentsDegraded || len(posts[0].Comments) != 0 {
		t.Errorf("failed post: degraded=%v comments=%d", posts[0].CommentsDegraded, len(posts[0].Comments))
	}
	if posts[1].CommentsDegraded || len(posts[1].Comments) != 1 {
		t.Errorf("healthy post: degraded=%v comments=%d", posts[1].CommentsDegraded, len(posts[1].Comments))
	}
}

func TestExtractCommentsAllFailed(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	posts, allFailed := extractorFor().ExtractComments(context.Background(), []domain.Post{
		{ID: "t3_a", URL: server.URL + "/a"},
		{ID: "t3_b", URL: server.URL + "/b"},
	})

	if !allFailed {
		t.Fatal("expected allFailed when every post failed")
	}
	for _, post := range posts {
		if !post.CommentsDegraded {
			t.Errorf("post %s not marked degraded", post.ID)
		}
	}
}
