// Package emoji provides symbol constants for CLI output.
package emoji

// Status symbols shared by commands.
const (
	// Success marks a completed change, e.g. a saved rating.
	Success = "✓"

	// Error marks a failed operation.
	Error = "✗"

	// Stop marks shutdowns.
	Stop = "✗"

	// Warning marks non-fatal issues such as unreadable stored ratings.
	Warning = "!"

	// Star is used in headings next to rating counts.
	Star = "★"

	// Rocket announces a listening server.
	Rocket = "🚀"
)
