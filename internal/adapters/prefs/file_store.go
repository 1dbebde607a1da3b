// Package prefs provides durable preference-store adapters for the
// matchify client core.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/matchify/matchify-core/internal/core"
)

// Compile-time conformance to the core port.
var _ core.PreferenceStore = (*FileStore)(nil)

// FileStore is a JSON-file-backed preference store. It is the durable
// default: values survive process restarts, the closest Go analogue to the
// app's on-device preferences file.
//
// Writes go through a temp file and rename, so a crash mid-write leaves the
// previous file intact. A process-wide mutex serializes access; this is
// single-user state and contention is not a concern.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore creates a file-backed store at path.
func NewFileStore(path string) (*FileStore, error) {
	if path == "" {
		return nil, errors.New("prefs file path is required")
	}
	return &FileStore{path: path}, nil
}

func (s *FileStore) Set(ctx context.Context, key, value string) error {
	if key == "" {
		return errors.New("preference key cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		return err
	}
	data[key] = value
	return s.saveLocked(ctx, data)
}

func (s *FileStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

func (s *FileStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		return "", err
	}
	value, ok := data[key]
	if !ok {
		return "", core.ErrNotFound
	}
	return value, nil
}

func (s *FileStore) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	parsed, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		// A corrupted flag reads as false rather than breaking launch.
		return false, nil
	}
	return parsed, nil
}

func (s *FileStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := s.loadLocked()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil // Nothing to delete
	}
	delete(data, key)
	return s.saveLocked(ctx, data)
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked(ctx, map[string]string{})
}

func (s *FileStore) loadLocked() (map[string]string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("storage unavailable: read %s: %w", s.path, err)
	}

	data := map[string]string{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("storage unavailable: decode %s: %w", s.path, err)
	}
	return data, nil
}

func (s *FileStore) saveLocked(ctx context.Context, data map[string]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".prefs-*")
	if err != nil {
		return fmt.Errorf("storage unavailable: create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err = tmp.Write(raw); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage unavailable: write %s: %w", tmpName, err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage unavailable: close %s: %w", tmpName, err)
	}

	if err = os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("storage unavailable: replace %s: %w", s.path, err)
	}
	return nil
}
