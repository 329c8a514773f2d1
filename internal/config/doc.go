// Package config loads CheckMate client settings.
//
// # Resolution Order
//
// Values are layered, later layers winning:
//
//  1. Built-in defaults (Default)
//  2. ~/.config/checkmate/config.toml, or the path passed to Load
//  3. Environment variables, optionally seeded from a .env file by LoadDotEnv
//
// A missing config file is not an error. Empty fields in the file keep the
// default.
//
// # TOML Format
//
//	api_url = "http://localhost:8000"
//	poll_interval = "60s"
//	fresh_for = "30s"
//	probe_timeout = "10s"
//	attempt_timeout = "0s"   # zero disables the per-attempt bound
//	log_file = "~/.local/share/checkmate/checkmate.log"
//	log_level = "info"
//	feed_url = "https://example.com/rss"
//	feed_limit = 20
//
// Durations accept Go duration syntax or a bare number of seconds.
//
// # Environment
//
//   - CHECKMATE_API_URL overrides api_url
//   - CHECKMATE_LOG_LEVEL overrides log_level
//
// The API URL is read once at startup and not re-read while running.
package config
