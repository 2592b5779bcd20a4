package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/gofrs/flock"

	"github.com/savora/core/internal/domain"
)

// FileStore keeps all keys in a single JSON document on disk. An advisory
// lock file serializes access between processes sharing the same path.
type FileStore struct {
	path  string
	lock  *flock.Flock
	mutex sync.Mutex
}

// NewFileStore opens (or prepares to create) a file-backed store at path
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: file store path is empty", domain.ErrStorageUnavailable)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: create directory: %v", domain.ErrStorageUnavailable, err)
		}
	}
	return &FileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}, nil
}

// Get retrieves a value from the store
func (s *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.lock.RLock(); err != nil {
		return nil, fmt.Errorf("%w: lock: %v", domain.ErrStorageUnavailable, err)
	}
	defer s.lock.Unlock()

	data, err := s.readAll()
	if err != nil {
		return nil, err
	}
	value, exists := data[key]
	if !exists {
		return nil, domain.ErrKeyNotFound
	}
	return []byte(value), nil
}

// Set stores value under key, rewriting the document atomically
func (s *FileStore) Set(ctx context.Context, key string, value []byte) error {
	return s.update(func(data map[string]string) {
		data[key] = string(value)
	})
}

// Delete removes key from the document
func (s *FileStore) Delete(ctx context.Context, key string) error {
	return s.update(func(data map[string]string) {
		delete(data, key)
	})
}

// Close releases the lock file handle
func (s *FileStore) Close() error {
	return s.lock.Close()
}

// Path returns the location of the backing document
func (s *FileStore) Path() string {
	return s.path
}

func (s *FileStore) update(mutate func(map[string]string)) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := s.lock.Lock(); err != nil {
		return fmt.Errorf("%w: lock: %v", domain.ErrStorageUnavailable, err)
	}
	defer s.lock.Unlock()

	data, err := s.readAll()
	if err != nil {
		return err
	}
	mutate(data)
	return s.writeAll(data)
}

func (s *FileStore) readAll() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return make(map[string]string), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read: %v", domain.ErrStorageUnavailable, err)
	}

	data := make(map[string]string)
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: corrupt store file %s: %v", domain.ErrStorageUnavailable, s.path, err)
	}
	return data, nil
}

func (s *FileStore) writeAll(data map[string]string) error {
	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("%w: write: %v", domain.ErrStorageUnavailable, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("%w: rename: %v", domain.ErrStorageUnavailable, err)
	}
	return nil
}
