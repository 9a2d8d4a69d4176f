// Package memory persists the rolling window of previously seen post ids.
package memory

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"tvsignal/internal/pipeline"
	"tvsignal/internal/ports"
)

// Store keeps a bounded, ordered list of seen ids in a JSON file.
// Oldest entries are evicted first when the window overflows.
type Store struct {
	path   string
	max    int
	logger *slog.Logger
}

var _ ports.MemoryStore = (*Store)(nil)

// NewStore wires the file path and window size.
func NewStore(path string, max int, logger *slog.Logger) *Store {
	if max <= 0 {
		max = 200
	}
	return &Store{path: path, max: max, logger: logger}
}

// Load reads the seen-id list. A missing or corrupt file is not an error:
// the run proceeds without dedup rather than aborting.
func (s *Store) Load() []string {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.warn("cannot read seen ids", err)
		}
		return []string{}
	}

	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		s.warn("corrupt seen ids file, starting empty", err)
		return []string{}
	}

	return ids
}

// Save truncates ids to the most recent max entries and writes them
// atomically via a temp file rename.
func (s *Store) Save(ids []string) error {
	if len(ids) > s.max {
		ids = ids[len(ids)-s.max:]
	}

	raw, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return pipeline.Wrap(pipeline.ErrPersistence, "marshal seen ids", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return pipeline.Wrap(pipeline.ErrPersistence, "create memory dir", err)
	}

	tmp, err := os.CreateTemp(dir, "seen_ids_*.json")
	if err != nil {
		return pipeline.Wrap(pipeline.ErrPersistence, "create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return pipeline.Wrap(pipeline.ErrPersistence, "write seen ids", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return pipeline.Wrap(pipeline.ErrPersistence, "close temp file", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return pipeline.Wrap(pipeline.ErrPersistence, fmt.Sprintf("replace %s", s.path), err)
	}

	return nil
}

func (s *Store) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, "path", s.path, "error", err)
	}
}
