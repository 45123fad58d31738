package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNotFound is returned when no document exists for a session id.
var ErrNotFound = errors.New("session not found")

// PersistenceError wraps a failed read or write of a session document. The
// previously committed document is guaranteed intact.
type PersistenceError struct {
	Op   string
	Path string
	Err  error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Service persists one JSON document per session under a directory.
type Service struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Service {
	return &Service{dir: dir}
}

func (s *Service) path(sessionID string) string {
	return filepath.Join(s.dir, fmt.Sprintf("session_%s.json", sessionID))
}

// Save writes the full record atomically: marshal, write to a temp file in
// the same directory, then rename over the target. An interruption mid-write
// leaves the prior document as the source of truth.
func (s *Service) Save(rec *SessionRecord) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return &PersistenceError{Op: "mkdir", Path: s.dir, Err: err}
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return &PersistenceError{Op: "marshal", Path: s.path(rec.SessionID), Err: err}
	}

	tmp, err := os.CreateTemp(s.dir, "session_*.tmp")
	if err != nil {
		return &PersistenceError{Op: "create temp", Path: s.dir, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &PersistenceError{Op: "write", Path: tmpName, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "close", Path: tmpName, Err: err}
	}

	target := s.path(rec.SessionID)
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return &PersistenceError{Op: "replace", Path: target, Err: err}
	}

	return nil
}

// Load reads a session document by id.
func (s *Service) Load(sessionID string) (*SessionRecord, error) {
	path := s.path(sessionID)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("session %q: %w", sessionID, ErrNotFound)
		}
		return nil, &PersistenceError{Op: "read", Path: path, Err: err}
	}

	var rec SessionRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, &PersistenceError{Op: "unmarshal", Path: path, Err: err}
	}

	return &rec, nil
}

// List returns the ids of all stored sessions.
func (s *Service) List() ([]string, error) {
	if _, err := os.Stat(s.dir); os.IsNotExist(err) {
		return []string{}, nil
	}

	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, &PersistenceError{Op: "readdir", Path: s.dir, Err: err}
	}

	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" {
			continue
		}
		if strings.HasPrefix(name, "session_") {
			ids = append(ids, strings.TrimSuffix(strings.TrimPrefix(name, "session_"), ".json"))
		}
	}

	return ids, nil
}
