// Package reddit implements the rate-limited enrichment and comment
// extraction clients against the thread JSON API.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// listing mirrors one element of the two-part thread payload: index 0 holds
// the post itself, index 1 the comment tree.
type listing struct {
	Data struct {
		Children []child `json:"children"`
	} `json:"data"`
}

type child struct {
	Kind string    `json:"kind"`
	Data childData `json:"data"`
}

type childData struct {
	Score           int    `json:"score"`
	NumComments     int    `json:"num_comments"`
	LinkFlairText   string `json:"link_flair_text"`
	Author          string `json:"author"`
	AuthorFlairText string `json:"author_flair_text"`
	Body            string `json:"body"`
}

// sleepWithContext blocks for the fixed rate-limit interval, returning early
// only when the context is cancelled.
func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// getThread fetches and decodes one thread JSON document.
func getThread(ctx context.Context, client *http.Client, userAgent, url string) ([]listing, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request thread: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("thread api returned %s", resp.Status)
	}

	var payload []listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode thread payload: %w", err)
	}

	return payload, nil
}
