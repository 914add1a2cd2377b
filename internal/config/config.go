// Package config resolves runtime settings from the environment and an
// optional .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL is the backend the client talks to when WISATA_API_URL is unset.
const DefaultAPIURL = "http://localhost:3000"

// Config holds the client settings.
type Config struct {
	APIURL      string
	Home        string        // directory for the session file and log
	HTTPTimeout time.Duration // 0 = no timeout
	LogLevel    string
}

// Load reads .env (if present) and the WISATA_* variables.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("config.Load: read .env: %w", err)
	}

	cfg := Config{
		APIURL:   getEnvOrDefault("WISATA_API_URL", DefaultAPIURL),
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
	}

	cfg.Home = os.Getenv("WISATA_HOME")
	if cfg.Home == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: get home dir: %w", err)
		}
		cfg.Home = filepath.Join(home, ".wisata")
	}

	if raw := os.Getenv("WISATA_HTTP_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("config.Load: WISATA_HTTP_TIMEOUT: %w", err)
		}
		if d < 0 {
			return Config{}, fmt.Errorf("config.Load: WISATA_HTTP_TIMEOUT must not be negative")
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// SessionPath is where the persisted session lives.
func (c Config) SessionPath() string {
	return filepath.Join(c.Home, "session.json")
}

// LogPath is where the TUI writes its log.
func (c Config) LogPath() string {
	return filepath.Join(c.Home, "wisata.log")
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
