package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"tvsignal/internal/domain"
)

func openRepo(t *testing.T) *HistoryRepository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func metricsAt(runID string, date time.Time) domain.RunMetrics {
	return domain.RunMetrics{
		RunID:            runID,
		Date:             date,
		PostsFetched:     25,
		PostsAfterDedup:  18,
		PostsAfterFilter: 7,
		PostsInDigest:    7,
		CommentsSuccess:  6,
		CommentsTotal:    7,
		Degraded:         true,
		Runtime:          12.34,
		Status:           domain.StatusPartial,
	}
}

func TestHistoryAppendAndRecent(t *testing.T) {
	t.Parallel()

	repo := openRepo(t)
	ctx := context.Background()
	date := time.Date(2026, 8, 31, 23, 0, 0, 0, time.UTC)

	if err := repo.Append(ctx, metricsAt("run-1", date)); err != nil {
		t.Fatalf("Append: %v", err)
	}

	runs, err := repo.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}

	got := runs[0]
	if got.RunID != "run-1" {
		t.Errorf("run id = %q", got.RunID)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date = %v, want %v", got.Date, date)
	}
	if got.PostsFetched != 25 || got.PostsAfterFilter != 7 {
		t.Errorf("counts not round-tripped: %+v", got)
	}
	if !got.Degraded {
		t.Error("degraded flag lost")
	}
	if got.Runtime != 12.34 {
		t.Errorf("runtime = %v", got.Runtime)
	}
	if got.Status != domain.StatusPartial {
		t.Errorf("status = %q", got.Status)
	}
}

func TestHistoryRecentOrderAndLimit(t *testing.T) {
	t.Parallel()

	repo := openRepo(t)
	ctx := context.Background()
	base := time.Date(2026, 8, 1, 23, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		m := metricsAt("run-"+string(rune('a'+i)), base.AddDate(0, 0, i))
		if err := repo.Append(ctx, m); err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	runs, err := repo.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(runs))
	}
	if runs[0].RunID != "run-e" || runs[2].RunID != "run-c" {
		t.Errorf("wrong order: %s, %s, %s", runs[0].RunID, runs[1].RunID, runs[2].RunID)
	}
}

func TestHistoryDuplicateRunIDRejected(t *testing.T) {
	t.Parallel()

	repo := openRepo(t)
	ctx := context.Background()
	date := time.Now().UTC()

	if err := repo.Append(ctx, metricsAt("run-dup", date)); err != nil {
		t.Fatalf("first Append: %v", err)
	}
	if err := repo.Append(ctx, metricsAt("run-dup", date)); err == nil {
		t.Fatal("expected primary key violation on duplicate run id")
	}
}

func TestHistoryRecentEmptyDatabase(t *testing.T) {
	t.Parallel()

	runs, err := openRepo(t).Recent(context.Background(), 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
