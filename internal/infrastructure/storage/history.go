// Package storage persists run metrics history in a local sqlite database.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "modernc.org/sqlite"

	"tvsignal/internal/domain"
	"tvsignal/internal/ports"
)

// HistoryRepository records one row per pipeline run.
type HistoryRepository struct {
	db *sql.DB
}

var _ ports.RunHistory = (*HistoryRepository)(nil)

// Open creates (or opens) the sqlite database at path and bootstraps the
// schema.
func Open(path string) (*HistoryRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create history dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable wal: %w", err)
	}

	schema := `CREATE TABLE IF NOT EXISTS runs (
        run_id TEXT PRIMARY KEY,
        date TEXT NOT NULL,
        posts_fetched INTEGER NOT NULL,
        posts_after_dedup INTEGER NOT NULL,
        posts_after_filter INTEGER NOT NULL,
        posts_in_digest INTEGER NOT NULL,
        comments_success INTEGER NOT NULL,
        comments_total INTEGER NOT NULL,
        degraded INTEGER NOT NULL,
        runtime REAL NOT NULL,
        status TEXT NOT NULL
    )`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create runs table: %w", err)
	}

	return &HistoryRepository{db: db}, nil
}

// Close releases the underlying database handle.
func (r *HistoryRepository) Close() error {
	return r.db.Close()
}

// Append inserts one run record.
func (r *HistoryRepository) Append(ctx context.Context, m domain.RunMetrics) error {
	query, args, err := sq.Insert("runs").
		Columns("run_id", "date", "posts_fetched", "posts_after_dedup",
			"posts_after_filter", "posts_in_digest", "comments_success",
			"comments_total", "degraded", "runtime", "status").
		Values(m.RunID, m.Date.UTC().Format(time.RFC3339), m.PostsFetched,
			m.PostsAfterDedup, m.PostsAfterFilter, m.PostsInDigest,
			m.CommentsSuccess, m.CommentsTotal, boolToInt(m.Degraded),
			m.Runtime, string(m.Status)).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	return nil
}

// Recent returns up to limit runs, newest first.
func (r *HistoryRepository) Recent(ctx context.Context, limit int) ([]domain.RunMetrics, error) {
	if limit <= 0 {
		limit = 30
	}

	query, args, err := sq.Select("run_id", "date", "posts_fetched",
		"posts_after_dedup", "posts_after_filter", "posts_in_digest",
		"comments_success", "comments_total", "degraded", "runtime", "status").
		From("runs").
		OrderBy("date DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.RunMetrics
	for rows.Next() {
		var (
			m        domain.RunMetrics
			date     string
			degraded int
			status   string
		)
		if err := rows.Scan(&m.RunID, &date, &m.PostsFetched,
			&m.PostsAfterDedup, &m.PostsAfterFilter, &m.PostsInDigest,
			&m.CommentsSuccess, &m.CommentsTotal, &degraded,
			&m.Runtime, &status); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if parsed, err := time.Parse(time.RFC3339, date); err == nil {
			m.Date = parsed
		}
		m.Degraded = degraded != 0
		m.Status = domain.RunStatus(status)
		runs = append(runs, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return runs, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
