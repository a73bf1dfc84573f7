package storage

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/storage/files"
	"github.com/agentstation/imagerater/pkg/storage/memory"
	"github.com/agentstation/imagerater/pkg/storage/sqlite"
)

func TestParseBackend(t *testing.T) {
	tests := map[string]Backend{
		"":        BackendFile,
		"file":    BackendFile,
		"FILES":   BackendFile,
		"memory":  BackendMemory,
		"sqlite":  BackendSQLite,
		"sqlite3": BackendSQLite,
	}
	for in, want := range tests {
		got, err := ParseBackend(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseBackend("redis")
	assert.Error(t, err)
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	s, err := Open(Config{Backend: BackendMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, s)

	s, err = Open(Config{Backend: BackendFile, Path: dir})
	require.NoError(t, err)
	assert.IsType(t, &files.Store{}, s)

	s, err = Open(Config{Backend: BackendSQLite, Path: filepath.Join(dir, "r.db")})
	require.NoError(t, err)
	assert.IsType(t, &sqlite.Store{}, s)
	require.NoError(t, s.Close())

	_, err = Open(Config{Backend: "bogus"})
	assert.Error(t, err)
}
