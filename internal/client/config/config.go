package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/robfig/cron/v3"
)

// Config holds runtime settings for the admin console.
type Config struct {
	BaseURL             string
	OnlineCheckInterval time.Duration
	PollSpec            string
	RequestTimeout      time.Duration
	SessionTTL          time.Duration
	SettleDelay         time.Duration
	DatabasePath        string
	PreviewDir          string
	ExportDir           string
	RateLimit           float64
	RateBurst           int
	LowStockThreshold   int
	LogLevel            string
	LogFormat           string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.BaseURL = "http://localhost:7000/api/v1"
	c.OnlineCheckInterval = 5 * time.Second
	c.PollSpec = "@every 60s"
	c.RequestTimeout = 10 * time.Second
	c.SessionTTL = 7 * 24 * time.Hour
	c.SettleDelay = 100 * time.Millisecond
	c.DatabasePath = "admin.db"
	c.PreviewDir = "previews"
	c.ExportDir = "exports"
	c.RateLimit = 10
	c.RateBurst = 5
	c.LowStockThreshold = 5
	c.LogLevel = "info"
	c.LogFormat = "text"
}

// Validate rejects settings the console cannot start with.
func (c *Config) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("api base url is empty"))
	} else if u, err := url.Parse(c.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, fmt.Errorf("api base url %q must be http(s)", c.BaseURL))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("session ttl must be positive"))
	}
	if c.OnlineCheckInterval <= 0 {
		errs = append(errs, errors.New("online check interval must be positive"))
	}
	if _, err := cron.ParseStandard(c.PollSpec); err != nil {
		errs = append(errs, fmt.Errorf("poll spec %q: %w", c.PollSpec, err))
	}
	return errors.Join(errs...)
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// the environment, JSON (if present) and command-line flags (if present).
// Later sources take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], ".env", os.LookupEnv)
}

func load(args []string, dotenv string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := loadDotEnv(dotenv); err != nil {
		return nil, err
	}
	parseEnv(cfg, lookup)
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
