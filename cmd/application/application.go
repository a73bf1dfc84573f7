// Package application provides the application interface for imagerater commands.
//
// The Application interface defines the contract between the application layer and
// command implementations, enabling dependency injection and testability.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            r, err := app.Rater()
//	            if err != nil {
//	                return err
//	            }
//	            // ... use r
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    RaterFunc: func() (*imagerater.Rater, error) {
//	        return testRater, nil
//	    },
//	}
//	cmd := NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/imagerater"
)

// Application provides the application interface that commands need.
// The App struct from cmd/imagerater/app implements this interface.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Rater returns the shared rater, built from configuration and hydrated
	// from storage on first use.
	Rater() (*imagerater.Rater, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, markdown).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
