package prefs

import (
	"context"
	"errors"
	"strconv"
	"sync"

	"github.com/matchify/matchify-core/internal/core"
)

// Compile-time conformance to the core port.
var _ core.PreferenceStore = (*MemoryStore)(nil)

// MemoryStore is a process-local preference store. Nothing survives a
// restart; it backs tests and dry runs where durability is unwanted.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string]string)}
}

func (s *MemoryStore) Set(_ context.Context, key, value string) error {
	if key == "" {
		return errors.New("preference key cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *MemoryStore) SetBool(ctx context.Context, key string, value bool) error {
	return s.Set(ctx, key, strconv.FormatBool(value))
}

func (s *MemoryStore) Get(_ context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.data[key]
	if !ok {
		return "", core.ErrNotFound
	}
	return value, nil
}

func (s *MemoryStore) GetBool(ctx context.Context, key string) (bool, error) {
	value, err := s.Get(ctx, key)
	if errors.Is(err, core.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	parsed, parseErr := strconv.ParseBool(value)
	if parseErr != nil {
		return false, nil
	}
	return parsed, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = make(map[string]string)
	return nil
}

// Len reports the number of stored keys, for tests.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
