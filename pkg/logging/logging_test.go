package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater/pkg/logging"
)

func TestConfigFunctions(t *testing.T) {
	originalLogger := *logging.Default()
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() {
		logging.SetDefault(originalLogger)
		zerolog.SetGlobalLevel(originalLevel)
	})

	t.Run("DefaultConfig returns sensible defaults", func(t *testing.T) {
		cfg := logging.DefaultConfig()
		require.NotNil(t, cfg)
		assert.Equal(t, "info", cfg.Level)
		assert.Equal(t, "auto", cfg.Format)
		assert.Equal(t, "stderr", cfg.Output)
		assert.False(t, cfg.AddCaller)
	})

	t.Run("NewLoggerFromConfig writes json to a file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rater.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{
			Level:  "debug",
			Format: "json",
			Output: path,
			Fields: map[string]any{"component": "test"},
		})
		logger.Info().Int("rating", 4).Msg("image rated")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(content), `"message":"image rated"`)
		assert.Contains(t, string(content), `"component":"test"`)
		assert.Contains(t, string(content), `"rating":4`)
	})

	t.Run("level filters lower events", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "warn.log")
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: "warn", Format: "json", Output: path})
		logger.Info().Msg("hidden")
		logger.Warn().Msg("shown")

		content, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.NotContains(t, string(content), "hidden")
		assert.Contains(t, string(content), "shown")
	})
}

func TestContextFunctions(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithImage(ctx, "https://example.com/a.jpg")
	ctx = logging.WithOperation(ctx, "rate")

	logging.FromContext(ctx).Info().Msg("with context")

	assert.True(t, tl.Contains(`"image":"https://example.com/a.jpg"`))
	assert.True(t, tl.Contains(`"operation":"rate"`))
	assert.Len(t, tl.Lines(), 1)
}

func TestTestLoggerEntries(t *testing.T) {
	tl := logging.NewTestLogger(t)

	tl.Warn().Str("key", "image-ratings").Msg("ignoring malformed stored ratings")
	tl.Debug().Int("count", 2).Msg("loaded ratings")

	entries := tl.Entries()
	require.Len(t, entries, 2)

	e, ok := tl.Find(zerolog.WarnLevel, "ignoring malformed stored ratings")
	require.True(t, ok)
	assert.Equal(t, "image-ratings", e.Fields["key"])

	e, ok = tl.Find(zerolog.DebugLevel, "loaded ratings")
	require.True(t, ok)
	assert.Equal(t, float64(2), e.Fields["count"])

	_, ok = tl.Find(zerolog.ErrorLevel, "loaded ratings")
	assert.False(t, ok)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	//nolint:staticcheck // nil context is handled explicitly
	assert.Same(t, logging.Default(), logging.FromContext(nil))
}

func TestNopLogger(t *testing.T) {
	logger := logging.NewNopLogger()
	require.NotNil(t, logger)
	logger.Error().Msg("discarded")
}
