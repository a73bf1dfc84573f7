// Package storage defines the key-value store that ratings are persisted in
// and opens the configured backend.
//
// Backends:
//   - memory: process-local map, used for tests and throwaway sessions
//   - file:   one file per key under a directory (the default)
//   - sqlite: a single kv table in an SQLite database
package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/imagerater/pkg/constants"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/storage/files"
	"github.com/agentstation/imagerater/pkg/storage/memory"
	"github.com/agentstation/imagerater/pkg/storage/sqlite"
)

// Store is a synchronous key-value store. Get returns an error satisfying
// errors.IsNotFound when the key has never been written.
type Store interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	Close() error
}

// Compile-time interface checks.
var (
	_ Store = (*memory.Store)(nil)
	_ Store = (*files.Store)(nil)
	_ Store = (*sqlite.Store)(nil)
)

// Backend names a Store implementation.
type Backend string

// Supported backends.
const (
	BackendMemory Backend = "memory"
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Config selects and locates a backend.
type Config struct {
	Backend Backend
	// Path is the directory for the file backend or the database file for sqlite.
	// Empty means a location under the user config directory.
	Path string
}

// ParseBackend validates a backend name.
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case "", BackendFile, "files":
		return BackendFile, nil
	case BackendMemory:
		return BackendMemory, nil
	case BackendSQLite, "sqlite3":
		return BackendSQLite, nil
	default:
		return "", errors.NewConfigError("storage", fmt.Sprintf("backend %q is not supported (memory, file, sqlite)", s), nil)
	}
}

// Open creates the configured store.
func Open(cfg Config) (Store, error) {
	backend, err := ParseBackend(string(cfg.Backend))
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMemory:
		return memory.New(), nil
	case BackendSQLite:
		path := cfg.Path
		if path == "" {
			dir, err := DefaultDir()
			if err != nil {
				return nil, err
			}
			path = filepath.Join(dir, constants.SQLiteFileName)
		}
		return sqlite.Open(path)
	default:
		dir := cfg.Path
		if dir == "" {
			if dir, err = DefaultDir(); err != nil {
				return nil, err
			}
		}
		return files.New(dir)
	}
}

// DefaultDir is the per-user directory persistent backends live in.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", errors.NewConfigError("storage", "cannot determine user config directory", err)
	}
	return filepath.Join(base, constants.DefaultStorageDir), nil
}
