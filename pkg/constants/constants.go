// Package constants provides shared constants used throughout the imagerater codebase.
package constants

import "time"

// Rating constants
const (
	// MinRating is the lowest star value a rating may hold
	MinRating = 1

	// MaxRating is the highest star value a rating may hold
	MaxRating = 5
)

// Storage constants
const (
	// DefaultStorageKey is the key the rating mapping is persisted under
	DefaultStorageKey = "image-ratings"

	// DefaultStorageDir is the directory under the user config dir for file storage
	DefaultStorageDir = "imagerater"

	// SQLiteFileName is the default database file for the sqlite backend
	SQLiteFileName = "ratings.db"
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Server constants
const (
	// DefaultPort is the default HTTP port for the serve command
	DefaultPort = 8080

	// DefaultPathPrefix is the default API path prefix
	DefaultPathPrefix = "/api/v1"

	// DefaultCacheTTL is how long derived views stay cached between changes
	DefaultCacheTTL = 5 * time.Minute

	// ShutdownTimeout bounds graceful shutdown of the HTTP server
	ShutdownTimeout = 30 * time.Second
)
