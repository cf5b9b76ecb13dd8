package session

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store is the persistence contract the tracker writes through. Values
// are integer counters; anything richer stays out of the save file.
type Store interface {
	GetInt(key string) (int64, bool)
	SetInt(key string, value int64)
	// Flush makes pending writes durable.
	Flush() error
	// Reset clears all stored progress atomically.
	Reset() error
}

// MemStore is an in-memory Store for tests and throwaway sessions.
type MemStore struct {
	values map[string]int64
}

func NewMemStore() *MemStore {
	return &MemStore{values: map[string]int64{}}
}

func (m *MemStore) GetInt(key string) (int64, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *MemStore) SetInt(key string, value int64) {
	m.values[key] = value
}

func (m *MemStore) Flush() error {
	return nil
}

func (m *MemStore) Reset() error {
	m.values = map[string]int64{}
	return nil
}

// FileStore persists counters as a YAML map. Flush writes the whole file
// through a temp file and rename, so a crash never leaves a torn save.
type FileStore struct {
	path   string
	values map[string]int64
}

// OpenFileStore loads the save file at path, starting empty if it does
// not exist yet.
func OpenFileStore(path string) (*FileStore, error) {
	s := &FileStore{path: path, values: map[string]int64{}}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: read save %q: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s.values); err != nil {
		return nil, fmt.Errorf("session: unmarshal save %q: %w", path, err)
	}
	if s.values == nil {
		s.values = map[string]int64{}
	}
	return s, nil
}

func (s *FileStore) GetInt(key string) (int64, bool) {
	v, ok := s.values[key]
	return v, ok
}

func (s *FileStore) SetInt(key string, value int64) {
	s.values[key] = value
}

func (s *FileStore) Flush() error {
	data, err := yaml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("session: marshal save: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: create save dir: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("session: write save: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("session: replace save: %w", err)
	}
	return nil
}

func (s *FileStore) Reset() error {
	s.values = map[string]int64{}
	return s.Flush()
}
