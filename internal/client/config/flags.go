package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/shopadmin/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// args is filtered with flagx.FilterArgs first, so flags meant for other
// loaders (such as -c) do not make parsing fail.
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-i", "-p", "-d", "-r", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.BaseURL, "a", cfg.BaseURL, "base URL of the REST API")
	onlineCheckInterval := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	fs.StringVar(&cfg.PollSpec, "p", cfg.PollSpec, "poll schedule")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path of the local database")
	fs.Float64Var(&cfg.RateLimit, "r", cfg.RateLimit, "request rate limit (per second)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheckInterval) * time.Second
	return nil
}
