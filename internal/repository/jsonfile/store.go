// Package jsonfile keeps each collection in one JSON document on disk.
package jsonfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

const (
	campaignsFile = "campaigns.json"
	requestsFile  = "requests.json"
	usersFile     = "users.json"
)

// Store serializes access to the collection files of one data directory.
// Every write rewrites the whole document through a temp file and a rename,
// so readers never see a half-written file.
type Store struct {
	dir    string
	mu     sync.Mutex
	logger *slog.Logger
}

// Open prepares dir for use, creating it if needed.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir %s: %w", dir, err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// Dir returns the data directory.
func (s *Store) Dir() string { return s.dir }

// readList loads a JSON array of objects. A missing or blank file is an
// empty list; so is a file that holds anything but an array, which is
// logged and left on disk for inspection.
func (s *Store) readList(name string) ([]json.RawMessage, error) {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		s.logger.Warn("ignoring unreadable collection file", "path", path, "error", err)
		return nil, nil
	}
	return items, nil
}

func (s *Store) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	data = append(data, '\n')

	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}

// decodeList decodes each element on its own, skipping the ones that are not
// objects of the expected shape.
func decodeList[T any](s *Store, name string, items []json.RawMessage) []T {
	out := make([]T, 0, len(items))
	for i, raw := range items {
		if string(bytes.TrimSpace(raw)) == "null" {
			continue
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			s.logger.Warn("skipping unreadable record", "file", name, "index", i, "error", err)
			continue
		}
		out = append(out, v)
	}
	return out
}
