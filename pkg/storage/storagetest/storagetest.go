// Package storagetest holds the behavioural contract every storage backend
// must satisfy, shared by the backend test suites.
package storagetest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/errors"
)

// Store mirrors storage.Store without importing it.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Run exercises a fresh store returned by newStore.
func Run(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("missing key is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Get("image-ratings")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("set then get", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set("image-ratings", []byte(`{"a":5}`)))
		got, err := s.Get("image-ratings")
		require.NoError(t, err)
		assert.Equal(t, `{"a":5}`, string(got))
	})

	t.Run("set overwrites", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set("k", []byte("one")))
		require.NoError(t, s.Set("k", []byte("two")))
		got, err := s.Get("k")
		require.NoError(t, err)
		assert.Equal(t, "two", string(got))
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set("a", []byte("1")))
		require.NoError(t, s.Set("a/b", []byte("2")))
		got, err := s.Get("a")
		require.NoError(t, err)
		assert.Equal(t, "1", string(got))
		got, err = s.Get("a/b")
		require.NoError(t, err)
		assert.Equal(t, "2", string(got))
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set("k", []byte("v")))
		require.NoError(t, s.Delete("k"))
		_, err := s.Get("k")
		assert.True(t, errors.IsNotFound(err))
		assert.NoError(t, s.Delete("never-set"))
	})

	t.Run("empty value", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.Set("k", nil))
		got, err := s.Get("k")
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
