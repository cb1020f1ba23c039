// Package localstore persists the session snapshot across restarts.
// Values are stored in ~/.local/state/clockwise/session.toml.
package localstore

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Keys of the snapshot namespace. The session core is the only writer.
const (
	KeyActiveSession  = "active_session"
	KeyStartTime      = "start_time"
	KeyElapsedTime    = "elapsed_time"
	KeyIsPaused       = "is_paused"
	KeyPauseStartTime = "pause_start_time"
	KeyTotalPaused    = "total_paused_time"
	KeyLastSync       = "last_sync"
	KeyLocation       = "location"
	KeyCompanyID      = "company_id"
)

const defaultStorePath = "~/.local/state/clockwise/session.toml"

// DefaultPath returns the default snapshot file path.
func DefaultPath() string {
	return defaultStorePath
}

// Store is a small durable key-value namespace backed by a single TOML file.
// Every mutation rewrites the file, so a crash loses at most the last write.
type Store struct {
	mu     sync.Mutex
	path   string
	values map[string]string
}

// Open loads the store at path, falling back to an empty namespace when the
// file is missing or unreadable. An empty path uses DefaultPath.
func Open(path string) (*Store, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("resolve store path: %w", err)
	}

	s := &Store{path: resolved, values: map[string]string{}}

	// A missing or unreadable file means no session to restore, not an error.
	file, err := os.Open(resolved)
	if err != nil {
		return s, nil
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return s, nil
	}
	if err := toml.Unmarshal(bytes, &s.values); err != nil {
		s.values = map[string]string{}
	}
	return s, nil
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// Set stores one value and flushes the file.
func (s *Store) Set(key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return s.flush()
}

// Remove deletes one key and flushes the file.
func (s *Store) Remove(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
	return s.flush()
}

// SetAll replaces the whole namespace in a single write. The session core
// uses this for snapshot writes so a snapshot is never half-persisted.
func (s *Store) SetAll(values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = make(map[string]string, len(values))
	for k, v := range values {
		s.values[k] = v
	}
	return s.flush()
}

// Clear empties the namespace and flushes the file.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values = map[string]string{}
	return s.flush()
}

func (s *Store) flush() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	bytes, err := toml.Marshal(s.values)
	if err != nil {
		return fmt.Errorf("marshal store: %w", err)
	}
	if err := os.WriteFile(s.path, bytes, 0o644); err != nil {
		return fmt.Errorf("write store: %w", err)
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultStorePath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
