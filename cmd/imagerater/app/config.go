package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/imagerater/pkg/constants"
	"github.com/agentstation/imagerater/pkg/storage"
)

// EnvPrefix prefixes every environment variable read by the CLI.
const EnvPrefix = "IMAGERATER"

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Image list file (text, json or yaml). Empty uses the built-in list.
	ImagesFile string

	// Storage
	StorageBackend string
	StoragePath    string
	StorageKey     string
	AutoSave       bool

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
// 1. Command-line flags (applied later by the root command)
// 2. Environment variables (IMAGERATER_*)
// 3. .env files
// 4. Config file (configFile, or ~/.imagerater.yaml / ./.imagerater.yaml)
// 5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	v.SetDefault("storage_backend", string(storage.BackendFile))
	v.SetDefault("storage_key", constants.DefaultStorageKey)
	v.SetDefault("auto_save", true)
	v.SetDefault("log_level", "")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	} else {
		// Search for config in standard locations
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".imagerater")

		// A missing config file is fine
		_ = v.ReadInConfig()
	}

	return &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		ImagesFile: v.GetString("images_file"),

		StorageBackend: v.GetString("storage_backend"),
		StoragePath:    v.GetString("storage_path"),
		StorageKey:     v.GetString("storage_key"),
		AutoSave:       v.GetBool("auto_save"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}, nil
}

// StorageConfig returns the storage backend selection.
func (c *Config) StorageConfig() storage.Config {
	return storage.Config{
		Backend: storage.Backend(c.StorageBackend),
		Path:    c.StoragePath,
	}
}

// loadEnvFiles loads environment variables from .env files.
// Variables already set in the environment are never overridden, so
// .env.local only fills what .env left unset.
func loadEnvFiles() {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Load(envFile)
	}
}
