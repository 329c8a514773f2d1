package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything the CheckMate client reads at startup.
type Config struct {
	APIURL         string
	PollInterval   time.Duration
	FreshFor       time.Duration
	ProbeTimeout   time.Duration
	AttemptTimeout time.Duration
	LogFile        string
	LogLevel       string
	FeedURL        string
	FeedLimit      int
}

// EnvAPIURL names the environment variable that overrides api_url.
const EnvAPIURL = "CHECKMATE_API_URL"

// EnvLogLevel names the environment variable that overrides log_level.
const EnvLogLevel = "CHECKMATE_LOG_LEVEL"

const (
	defaultConfigPath   = "~/.config/checkmate/config.toml"
	defaultLogFile      = "~/.local/share/checkmate/checkmate.log"
	defaultAPIURL       = "http://localhost:8000"
	defaultLogLevel     = "info"
	defaultPollInterval = 60 * time.Second
	defaultFreshFor     = 30 * time.Second
	defaultProbeTimeout = 10 * time.Second
	defaultFeedLimit    = 20
)

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		APIURL:       defaultAPIURL,
		PollInterval: defaultPollInterval,
		FreshFor:     defaultFreshFor,
		ProbeTimeout: defaultProbeTimeout,
		LogFile:      mustExpand(defaultLogFile),
		LogLevel:     defaultLogLevel,
		FeedLimit:    defaultFeedLimit,
	}
}

type fileConfig struct {
	APIURL         string `toml:"api_url"`
	PollInterval   string `toml:"poll_interval"`
	FreshFor       string `toml:"fresh_for"`
	ProbeTimeout   string `toml:"probe_timeout"`
	AttemptTimeout string `toml:"attempt_timeout"`
	LogFile        string `toml:"log_file"`
	LogLevel       string `toml:"log_level"`
	FeedURL        string `toml:"feed_url"`
	FeedLimit      int    `toml:"feed_limit"`
}

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none are
// named) into the process environment. Missing files are ignored and
// variables already set are never overwritten.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads the config file, falling back to defaults when it is missing,
// then applies environment overrides. Precedence is env > file > default.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	raw, err := readFile(resolved)
	if err != nil {
		return Config{}, err
	}
	if raw != nil {
		if err := cfg.merge(*raw); err != nil {
			return Config{}, err
		}
	}

	cfg.APIURL = getEnvOrDefault(EnvAPIURL, cfg.APIURL)
	cfg.LogLevel = strings.ToLower(getEnvOrDefault(EnvLogLevel, cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first invalid field.
func (c Config) Validate() error {
	if strings.TrimSpace(c.APIURL) == "" {
		return fmt.Errorf("api_url is empty")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", c.LogLevel)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be positive")
	}
	if c.FreshFor <= 0 {
		return fmt.Errorf("fresh_for must be positive")
	}
	if c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe_timeout must be positive")
	}
	if c.AttemptTimeout < 0 {
		return fmt.Errorf("attempt_timeout must not be negative")
	}
	if c.FeedLimit < 0 {
		return fmt.Errorf("feed_limit must not be negative")
	}
	return nil
}

func readFile(path string) (*fileConfig, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var raw fileConfig
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &raw, nil
}

func (c *Config) merge(raw fileConfig) error {
	if v := strings.TrimSpace(raw.APIURL); v != "" {
		c.APIURL = v
	}
	if v := strings.TrimSpace(raw.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(raw.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	c.FeedURL = strings.TrimSpace(raw.FeedURL)
	if raw.FeedLimit != 0 {
		c.FeedLimit = raw.FeedLimit
	}

	durations := []struct {
		name string
		raw  string
		dest *time.Duration
	}{
		{"poll_interval", raw.PollInterval, &c.PollInterval},
		{"fresh_for", raw.FreshFor, &c.FreshFor},
		{"probe_timeout", raw.ProbeTimeout, &c.ProbeTimeout},
		{"attempt_timeout", raw.AttemptTimeout, &c.AttemptTimeout},
	}
	for _, d := range durations {
		if strings.TrimSpace(d.raw) == "" {
			continue
		}
		parsed, err := parseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("parse config: %s: %w", d.name, err)
		}
		*d.dest = parsed
	}
	return nil
}

// parseDuration accepts Go duration strings ("90s", "1m") and bare seconds.
func parseDuration(raw string) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(trimmed); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(trimmed)
}

func getEnvOrDefault(key, defaultVal string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return defaultVal
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
