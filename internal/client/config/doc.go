// Package config loads runtime configuration for the admin console.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory, then the process environment.
//  3. Optional JSON file selected via flags: -c or -config.
//  4. Command-line flags, which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the REST API
//	-i int      online status check interval (seconds)
//	-p string   poll schedule (cron spec or "@every 60s")
//	-d string   path of the local sqlite database
//	-r float    client-side request rate limit (requests per second)
//	-l string   log level (debug, info, warn, error)
//
// Environment
//
//	API_BASE_URL       base URL of the REST API
//	ADMIN_LOG_LEVEL    log level
//	ADMIN_LOG_FORMAT   text, json or console
//
// # JSON schema
//
// Intervals use timex.Duration, so values can be either strings like "5s" or
// integer nanoseconds:
//
//	{
//	  "api_base_url": "https://shop.example/api/v1",
//	  "online_check_interval": "5s",
//	  "poll_spec": "@every 30s",
//	  "session_ttl": "168h"
//	}
package config
