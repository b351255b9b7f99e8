package storage

import (
	"context"
	"errors"
	"sync"

	"github.com/tatsuyanakanogaroinc/zeroko-cash-sub001/internal/application/approval"
)

// StubObjectStorage keeps objects in memory. Use it for development and
// tests until a real bucket is configured.
type StubObjectStorage struct {
	// BaseURL is the base URL for generated view URLs
	BaseURL string

	mu      sync.RWMutex
	objects map[string][]byte
}

// Ensure StubObjectStorage implements the receipt storage port
var _ approval.ObjectStorage = (*StubObjectStorage)(nil)

// NewStubObjectStorage creates a new StubObjectStorage
func NewStubObjectStorage() *StubObjectStorage {
	return &StubObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string][]byte),
	}
}

// Put stores the object in memory and returns a stable view URL
func (s *StubObjectStorage) Put(_ context.Context, key string, data []byte, _ string) (string, error) {
	if key == "" {
		return "", errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.objects[key] = copied
	return s.BaseURL + "/" + key, nil
}

// Delete removes the object; deleting a missing object is not an error
func (s *StubObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Exists checks whether an object is present
func (s *StubObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.objects[key]
	return ok, nil
}

// Get returns a stored object's bytes, for test assertions
func (s *StubObjectStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}
