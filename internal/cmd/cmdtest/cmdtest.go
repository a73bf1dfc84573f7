// Package cmdtest provides helpers for command tests.
package cmdtest

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/imagerater"
	"github.com/agentstation/imagerater/internal/cmd/application"
	"github.com/agentstation/imagerater/pkg/logging"
	"github.com/agentstation/imagerater/pkg/storage/memory"
)

// Images is the list every command test rater is built over.
var Images = []string{
	"https://img.test/sunset.jpg",
	"https://img.test/forest.jpg",
	"https://img.test/beach.jpg",
}

// NewRater returns a loaded rater over Images backed by the returned store.
func NewRater(t *testing.T) (*imagerater.Rater, *memory.Store) {
	t.Helper()
	store := memory.New()
	r, err := imagerater.New(
		imagerater.WithImages(Images),
		imagerater.WithStorage(store),
		imagerater.WithLogger(logging.NewNopLogger()),
	)
	require.NoError(t, err)
	require.NoError(t, r.Load())
	return r, store
}

// NewApp wraps r in a mock application using format for output.
func NewApp(r *imagerater.Rater, format string) *application.Mock {
	return &application.Mock{
		RaterFunc:        func() (*imagerater.Rater, error) { return r, nil },
		OutputFormatFunc: func() string { return format },
	}
}

// Execute runs cmd with args and returns what it wrote to stdout.
func Execute(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}
