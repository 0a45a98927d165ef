package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvBaseURL   = "API_BASE_URL"
	EnvLogLevel  = "ADMIN_LOG_LEVEL"
	EnvLogFormat = "ADMIN_LOG_FORMAT"
)

// loadDotEnv exports the variables of path into the process environment.
// Variables already set win, and a missing file is not an error.
func loadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func parseEnv(cfg *Config, lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvBaseURL); ok && v != "" {
		cfg.BaseURL = v
	}
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		cfg.LogLevel = v
	}
	if v, ok := lookup(EnvLogFormat); ok && v != "" {
		cfg.LogFormat = v
	}
}
