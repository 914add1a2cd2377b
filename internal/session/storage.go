package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/naveenspark/wisata/pkg/domain"
)

// Storage persists the serialized session under a single key.
// Load returns (nil, nil) when nothing is stored.
type Storage interface {
	Load() (*domain.Session, error)
	Save(s *domain.Session) error
	Clear() error
}

// FileStorage keeps the session as a JSON file readable only by the owner.
// Reads are cached against the file's mtime and size, so repeated reads are
// cheap while writes from another process are still picked up.
type FileStorage struct {
	path string

	mu      sync.Mutex
	cached  *domain.Session
	modTime time.Time
	size    int64
}

// NewFileStorage returns a FileStorage at path.
func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// Path returns the session file location.
func (f *FileStorage) Path() string {
	return f.path
}

// Load reads the session file.
func (f *FileStorage) Load() (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.cached = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session.Load: stat: %w", err)
	}
	if f.cached != nil && info.ModTime().Equal(f.modTime) && info.Size() == f.size {
		cp := *f.cached
		return &cp, nil
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		f.cached = nil
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session.Load: read: %w", err)
	}
	var s domain.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("session.Load: decode: %w", err)
	}
	f.cached = &s
	f.modTime = info.ModTime()
	f.size = info.Size()
	cp := s
	return &cp, nil
}

// Save replaces the session file atomically.
func (f *FileStorage) Save(s *domain.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("session.Save: encode: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("session.Save: create dir: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("session.Save: write: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("session.Save: rename: %w", err)
	}
	f.cached = nil
	return nil
}

// Clear removes the session file. Clearing an absent session is not an error.
func (f *FileStorage) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cached = nil
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// MemoryStorage keeps the session in memory only.
type MemoryStorage struct {
	mu sync.Mutex
	s  *domain.Session
}

// NewMemoryStorage returns a MemoryStorage, optionally seeded with s.
func NewMemoryStorage(s *domain.Session) *MemoryStorage {
	m := &MemoryStorage{}
	if s != nil {
		cp := *s
		m.s = &cp
	}
	return m
}

// Load returns a copy of the stored session.
func (m *MemoryStorage) Load() (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.s == nil {
		return nil, nil
	}
	cp := *m.s
	return &cp, nil
}

// Save stores a copy of s.
func (m *MemoryStorage) Save(s *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.s = &cp
	return nil
}

// Clear drops the stored session.
func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.s = nil
	return nil
}
