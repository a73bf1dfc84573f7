// Package memory provides an in-memory key-value store.
package memory

import (
	"slices"
	"sync"

	"github.com/agentstation/imagerater/pkg/errors"
)

// Store keeps values in a map. Values are copied on the way in and out.
type Store struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// NewWith creates a store pre-populated with string values.
func NewWith(values map[string]string) *Store {
	s := New()
	for k, v := range values {
		s.data[k] = []byte(v)
	}
	return s
}

// Get returns the value for key.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errors.ErrClosed
	}
	v, ok := s.data[key]
	if !ok {
		return nil, errors.NewNotFoundError("key", key)
	}
	return slices.Clone(v), nil
}

// Set stores value under key.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	s.data[key] = slices.Clone(value)
	return nil
}

// Delete removes key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errors.ErrClosed
	}
	delete(s.data, key)
	return nil
}

// Close marks the store closed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
