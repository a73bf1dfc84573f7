package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/errors"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestDefault(t *testing.T) {
	ids := Default()
	require.NotEmpty(t, ids)
	assert.NoError(t, Validate(ids))
	for _, id := range ids {
		assert.Contains(t, id, "https://")
	}
}

func TestLoadFormats(t *testing.T) {
	want := []string{"https://x/a.jpg", "https://x/b.jpg"}

	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"text", "list.txt", "# images\nhttps://x/a.jpg\n\n  https://x/b.jpg  \n"},
		{"json array", "list.json", `["https://x/a.jpg","https://x/b.jpg"]`},
		{"json object", "list.json", `{"images":["https://x/a.jpg","https://x/b.jpg"]}`},
		{"yaml sequence", "list.yaml", "- https://x/a.jpg\n- https://x/b.jpg\n"},
		{"yaml object", "list.yml", "images:\n  - https://x/a.jpg\n  - https://x/b.jpg\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Load(writeFile(t, tt.file, tt.content))
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.txt"))
		var ioErr *errors.IOError
		require.ErrorAs(t, err, &ioErr)
		assert.Equal(t, "read", ioErr.Operation)
	})

	t.Run("malformed json", func(t *testing.T) {
		p := writeFile(t, "bad.json", `{not json`)
		_, err := Load(p)
		var pe *errors.ParseError
		require.ErrorAs(t, err, &pe)
		assert.Equal(t, p, pe.File)
	})

	t.Run("duplicates", func(t *testing.T) {
		_, err := Load(writeFile(t, "dup.txt", "a\nb\na\n"))
		require.Error(t, err)
		assert.True(t, errors.IsValidationError(err))
		assert.Contains(t, err.Error(), "duplicates index 0")
	})

	t.Run("empty", func(t *testing.T) {
		_, err := Load(writeFile(t, "empty.txt", "# nothing\n"))
		assert.True(t, errors.IsValidationError(err))
	})
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Validate([]string{"a", "b"}))
	assert.Error(t, Validate(nil))
	assert.Error(t, Validate([]string{"a", " "}))
	assert.Error(t, Validate([]string{"a", "a"}))
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "88d5.jpg", DisplayName("https://www.artfol-image.me/607cc0cd/88d5.jpg"))
	assert.Equal(t, "pic.png", DisplayName("https://example.com/pic.png?size=large"))
	assert.Equal(t, "dir", DisplayName("https://example.com/dir/"))
	assert.Equal(t, "plain", DisplayName("plain"))
}
