// Package app provides the application context and dependency management
// for the imagerater CLI. It centralizes configuration, logging, storage and
// the shared Rater, and builds the cobra command tree.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/cmd/application"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/images"
	"github.com/agentstation/imagerater/pkg/storage"
)

// App represents the imagerater application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger

	// Rater and its store (lazy-initialized, singleton)
	mu    sync.RWMutex
	rater *imagerater.Rater
	store storage.Store
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and default config file
// locations; options may replace it.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Rater returns the shared rater, creating and loading it on first use.
// This is thread-safe and ensures only one instance is created.
func (a *App) Rater() (*imagerater.Rater, error) {
	a.mu.RLock()
	if a.rater != nil {
		r := a.rater
		a.mu.RUnlock()
		return r, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.rater != nil {
		return a.rater, nil
	}

	r, store, err := a.buildRater()
	if err != nil {
		return nil, err
	}

	a.rater = r
	a.store = store
	return r, nil
}

// buildRater opens storage, creates the rater and hydrates it. Unreadable
// stored ratings are reported and the session starts empty; a storage
// failure is returned.
func (a *App) buildRater() (*imagerater.Rater, storage.Store, error) {
	list, err := a.loadImages()
	if err != nil {
		return nil, nil, err
	}

	store, err := storage.Open(a.config.StorageConfig())
	if err != nil {
		return nil, nil, errors.WrapResource("open", "storage", a.config.StorageBackend, err)
	}

	r, err := imagerater.New(
		imagerater.WithImages(list),
		imagerater.WithStorage(store),
		imagerater.WithStorageKey(a.config.StorageKey),
		imagerater.WithAutoSave(a.config.AutoSave),
		imagerater.WithLogger(a.logger),
	)
	if err != nil {
		_ = store.Close()
		return nil, nil, errors.WrapResource("create", "rater", "", err)
	}

	if err := r.Load(); err != nil {
		if !errors.IsParseError(err) {
			_ = store.Close()
			return nil, nil, errors.WrapResource("load", "ratings", "", err)
		}
		a.logger.Warn().Err(err).Msg("Stored ratings were unreadable, starting empty")
	}

	a.logger.Debug().
		Int("images", r.Total()).
		Int("rated", r.Counts().Rated).
		Str("backend", a.config.StorageBackend).
		Msg("Rater ready")

	return r, store, nil
}

func (a *App) loadImages() ([]string, error) {
	if a.config.ImagesFile == "" {
		return images.Default(), nil
	}
	list, err := images.Load(a.config.ImagesFile)
	if err != nil {
		return nil, errors.WrapResource("load", "images", a.config.ImagesFile, err)
	}
	return list, nil
}

// Shutdown performs graceful shutdown of the application and closes storage.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.store == nil {
		return nil
	}
	err := a.store.Close()
	a.store = nil
	if err != nil {
		return errors.WrapResource("close", "storage", a.config.StorageBackend, err)
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithRater sets a custom rater instance (useful for testing).
func WithRater(r *imagerater.Rater) Option {
	return func(a *App) error {
		a.rater = r
		return nil
	}
}
