package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/flagx"
	"github.com/dmitrijs2005/shopadmin/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent keys
// leave the current values untouched.
type JsonConfig struct {
	BaseURL             *string         `json:"api_base_url"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	PollSpec            *string         `json:"poll_spec"`
	RequestTimeout      *timex.Duration `json:"request_timeout"`
	SessionTTL          *timex.Duration `json:"session_ttl"`
	SettleDelay         *timex.Duration `json:"settle_delay"`
	DatabasePath        *string         `json:"database_path"`
	PreviewDir          *string         `json:"preview_dir"`
	ExportDir           *string         `json:"export_dir"`
	RateLimit           *float64        `json:"rate_limit"`
	RateBurst           *int            `json:"rate_burst"`
	LowStockThreshold   *int            `json:"low_stock_threshold"`
	LogLevel            *string         `json:"log_level"`
	LogFormat           *string         `json:"log_format"`
}

// parseJson overlays cfg with the file named by -c/-config in args.
func parseJson(cfg *Config, args []string) error {
	path := flagx.ConfigFileFlag(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setValue(&cfg.BaseURL, jc.BaseURL)
	setDuration(&cfg.OnlineCheckInterval, jc.OnlineCheckInterval)
	setValue(&cfg.PollSpec, jc.PollSpec)
	setDuration(&cfg.RequestTimeout, jc.RequestTimeout)
	setDuration(&cfg.SessionTTL, jc.SessionTTL)
	setDuration(&cfg.SettleDelay, jc.SettleDelay)
	setValue(&cfg.DatabasePath, jc.DatabasePath)
	setValue(&cfg.PreviewDir, jc.PreviewDir)
	setValue(&cfg.ExportDir, jc.ExportDir)
	setValue(&cfg.RateLimit, jc.RateLimit)
	setValue(&cfg.RateBurst, jc.RateBurst)
	setValue(&cfg.LowStockThreshold, jc.LowStockThreshold)
	setValue(&cfg.LogLevel, jc.LogLevel)
	setValue(&cfg.LogFormat, jc.LogFormat)
	return nil
}

func setValue[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *timex.Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
