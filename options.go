package imagerater

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater/pkg/constants"
	"github.com/agentstation/imagerater/pkg/errors"
	"github.com/agentstation/imagerater/pkg/images"
	"github.com/agentstation/imagerater/pkg/storage"
)

// Option is a function that configures a Rater instance
type Option func(*config) error

// config holds the collaborators injected into a Rater.
type config struct {
	images     []string
	store      storage.Store
	storageKey string
	logger     *zerolog.Logger
	autoSave   bool
}

func defaultConfig() *config {
	return &config{
		storageKey: constants.DefaultStorageKey,
		autoSave:   true,
	}
}

// apply applies the given options to the config.
func (c *config) apply(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}

// WithImages configures the fixed, ordered image list.
// Identifiers must be non-empty and unique.
func WithImages(ids []string) Option {
	return func(c *config) error {
		if err := images.Validate(ids); err != nil {
			return err
		}
		c.images = append([]string(nil), ids...)
		return nil
	}
}

// WithDefaultImages configures the embedded image list.
func WithDefaultImages() Option {
	return func(c *config) error {
		c.images = images.Default()
		return nil
	}
}

// WithStorage configures the store ratings are loaded from and saved to.
// Without it ratings live in a process-local memory store.
func WithStorage(store storage.Store) Option {
	return func(c *config) error {
		if store == nil {
			return errors.NewValidationError("storage", nil, "store cannot be nil")
		}
		c.store = store
		return nil
	}
}

// WithStorageKey configures the key the mapping is stored under.
func WithStorageKey(key string) Option {
	return func(c *config) error {
		if key == "" {
			return errors.NewValidationError("storage_key", key, "cannot be empty")
		}
		c.storageKey = key
		return nil
	}
}

// WithLogger configures the logger used for diagnostics.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithAutoSave configures whether every rating change is written to storage.
func WithAutoSave(enabled bool) Option {
	return func(c *config) error {
		c.autoSave = enabled
		return nil
	}
}
