// Package history persists append-only audit trails of automation actions.
// Each logical category (branches, commits/pushes, clones) gets its own file
// holding a pretty-printed JSON array of entries.
package history

import (
	"bytes"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Entry is one record in a history store. Every entry carries at least a
// timestamp and an action tag; the remaining fields are action-specific.
type Entry map[string]any

// NewEntry returns an entry stamped with the current time and the given
// action tag.
func NewEntry(action string) Entry {
	return Entry{
		"timestamp": time.Now().Format(time.RFC3339),
		"action":    action,
	}
}

// With sets a field and returns the entry for chaining.
func (e Entry) With(key string, value any) Entry {
	e[key] = value
	return e
}

// Store is an append-only JSON array file for one history category.
//
// The append is a read-modify-write of the whole file and assumes a single
// writer per file: two processes appending concurrently can lose one
// writer's entry.
type Store struct {
	path string
	log  *zap.Logger
}

// NewStore binds a store to a file path. The file is created lazily.
func NewStore(path string, log *zap.Logger) *Store {
	return &Store{path: path, log: log}
}

// Path returns the file backing the store.
func (s *Store) Path() string { return s.path }

// Ensure creates the backing file with an empty array if it does not exist.
// Idempotent.
func (s *Store) Ensure() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(s.path, []byte("[]"), 0o644)
}

// Append adds an entry to the store. Failures to read, parse, or write the
// file are logged and swallowed: the triggering operation's outcome must not
// depend on whether its audit entry was durably recorded. A missing, blank,
// or malformed file counts as zero prior entries.
func (s *Store) Append(entry Entry) {
	entries, err := s.read()
	if err != nil {
		s.log.Warn("history file unreadable, starting fresh",
			zap.String("file", s.path), zap.Error(err))
		entries = nil
	}
	entries = append(entries, entry)

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		s.log.Warn("history entry not serializable",
			zap.String("file", s.path), zap.Error(err))
		return
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		s.log.Warn("history directory unavailable",
			zap.String("file", s.path), zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		s.log.Warn("history write failed",
			zap.String("file", s.path), zap.Error(err))
	}
}

// Entries returns all recorded entries in insertion order. A missing file
// yields an empty slice; a malformed file is an error here, unlike in Append,
// because read-back callers want to know the store is damaged.
func (s *Store) Entries() ([]Entry, error) {
	return s.read()
}

func (s *Store) read() ([]Entry, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}
