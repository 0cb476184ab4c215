package history

import (
	"errors"
	"fmt"
	"io/fs"

	"tubefetch/domain/history"
	"tubefetch/domain/persistence"
	"tubefetch/infrastructure/filesystem"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Store keeps the download history in a YAML file, oldest entry first
type Store struct {
	fs   afero.Fs
	path string
	max  int
}

// NewStore creates a history store at path
func NewStore(fs afero.Fs, path string) *Store {
	return &Store{fs: fs, path: path, max: history.MaxEntries}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Append adds entry and truncates the history to the newest entries.
// Unreadable history is treated as empty.
func (s *Store) Append(entry history.Entry) persistence.Result {
	entries, _ := s.read()
	entries = append(entries, entry)
	if len(entries) > s.max {
		entries = entries[len(entries)-s.max:]
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return persistence.Ignored("append", s.path, fmt.Errorf("failed to serialize history: %w", err))
	}
	if err := filesystem.WriteAtomic(s.fs, s.path, data); err != nil {
		return persistence.Ignored("append", s.path, fmt.Errorf("failed to write history: %w", err))
	}
	return persistence.OK("append", s.path)
}

// List returns up to limit entries, newest first
func (s *Store) List(limit int) []history.Entry {
	entries, _ := s.read()
	if limit <= 0 || len(entries) == 0 {
		return nil
	}

	n := len(entries)
	if limit < n {
		n = limit
	}
	out := make([]history.Entry, 0, n)
	for i := len(entries) - 1; i >= 0 && len(out) < n; i-- {
		out = append(out, entries[i])
	}
	return out
}

// Clear deletes the history file. A missing file is not an error.
func (s *Store) Clear() persistence.Result {
	if err := s.fs.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return persistence.Ignored("clear", s.path, fmt.Errorf("failed to remove history: %w", err))
	}
	return persistence.OK("clear", s.path)
}

func (s *Store) read() ([]history.Entry, persistence.Result) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, persistence.OK("read", s.path)
		}
		return nil, persistence.Ignored("read", s.path, err)
	}

	var entries []history.Entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, persistence.Ignored("read", s.path, fmt.Errorf("failed to parse history: %w", err))
	}
	return entries, persistence.OK("read", s.path)
}
