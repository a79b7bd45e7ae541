package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

type fileEntry struct {
	Value     json.RawMessage `json:"value"`
	ExpiresAt int64           `json:"expiresAt,omitempty"` // epoch ms, 0 = never
}

// FileStore keeps all keys in one JSON document on disk. It plays the role of
// browser local storage: small, single-user, survives restarts.
type FileStore struct {
	mu   sync.Mutex
	path string
	now  func() time.Time
}

// NewFileStore uses the file at path, creating its directory if needed.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("file store path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileStore{path: path, now: time.Now}, nil
}

func (s *FileStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return nil, false, err
	}
	e, ok := entries[key]
	if !ok {
		return nil, false, nil
	}
	if e.ExpiresAt > 0 && s.now().UnixMilli() >= e.ExpiresAt {
		return nil, false, nil
	}
	return []byte(e.Value), true, nil
}

// Set stores value, which must be valid JSON, under key.
func (s *FileStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if !json.Valid(value) {
		return fmt.Errorf("file store: value for %q is not JSON", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load()
	if err != nil {
		return err
	}

	e := fileEntry{Value: append(json.RawMessage(nil), value...)}
	if ttl > 0 {
		e.ExpiresAt = s.now().Add(ttl).UnixMilli()
	}
	entries[key] = e

	// Drop expired entries while we are rewriting the file anyway.
	nowMs := s.now().UnixMilli()
	for k, v := range entries {
		if v.ExpiresAt > 0 && nowMs >= v.ExpiresAt {
			delete(entries, k)
		}
	}
	return s.write(entries)
}

// Close is a no-op.
func (s *FileStore) Close() error { return nil }

func (s *FileStore) load() (map[string]fileEntry, error) {
	entries := make(map[string]fileEntry)

	b, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(b) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(b, &entries); err != nil {
		return nil, fmt.Errorf("decode cache file: %w", err)
	}
	return entries, nil
}

// write replaces the file atomically via a temp file in the same directory.
func (s *FileStore) write(entries map[string]fileEntry) error {
	b, err := json.Marshal(entries)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".cache-*")
	if err != nil {
		return fmt.Errorf("create temp cache file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
