package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	toml "github.com/pelletier/go-toml/v2"
)

// Config captures everything shelf needs to reach the catalog backend and
// keep local state.
type Config struct {
	APIBase        string
	StateDir       string
	LogFile        string
	LogLevel       string
	PollEvery      time.Duration
	RequestTimeout time.Duration
	RatePerSecond  float64
}

const (
	defaultConfigPath     = "~/.config/shelf/config.toml"
	defaultAPIBase        = "https://dav08library.onrender.com"
	defaultStateDir       = "~/.local/share/shelf"
	defaultLogLevel       = "info"
	defaultPollEvery      = 60 * time.Second
	defaultRequestTimeout = 15 * time.Second
	defaultRatePerSecond  = 5

	envPrefix = "SHELF"
	logName   = "shelf.log"
	storeName = "storage.toml"
)

// overrides are read from SHELF_* environment variables and win over the file.
type overrides struct {
	APIBase        string        `envconfig:"API_BASE"`
	StateDir       string        `envconfig:"STATE_DIR"`
	LogFile        string        `envconfig:"LOG_FILE"`
	LogLevel       string        `envconfig:"LOG_LEVEL"`
	PollEvery      time.Duration `envconfig:"POLL"`
	RequestTimeout time.Duration `envconfig:"TIMEOUT"`
	RatePerSecond  *float64      `envconfig:"RATE"`
}

// Default returns the configuration used when no file or environment is set.
func Default() Config {
	stateDir := mustExpand(defaultStateDir)
	return Config{
		APIBase:        defaultAPIBase,
		StateDir:       stateDir,
		LogFile:        filepath.Join(stateDir, logName),
		LogLevel:       defaultLogLevel,
		PollEvery:      defaultPollEvery,
		RequestTimeout: defaultRequestTimeout,
		RatePerSecond:  defaultRatePerSecond,
	}
}

// Load locates and parses the shelf config, falling back to defaults when
// missing, then applies a .env file in the working directory (if any) and
// SHELF_* environment overrides.
func Load(path string) (Config, error) {
	cfg, err := loadFile(path)
	if err != nil {
		return Config{}, err
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var env overrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	cfg.apply(env)
	return cfg, nil
}

func loadFile(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		APIBase        string   `toml:"api_base"`
		StateDir       string   `toml:"state_dir"`
		LogFile        string   `toml:"log_file"`
		LogLevel       string   `toml:"log_level"`
		PollSeconds    int      `toml:"poll_seconds"`
		TimeoutSeconds int      `toml:"timeout_seconds"`
		RatePerSecond  *float64 `toml:"rate_per_second"`
	}
	if err := toml.Unmarshal(bytes, &raw); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	env := overrides{
		APIBase:       raw.APIBase,
		StateDir:      raw.StateDir,
		LogFile:       raw.LogFile,
		LogLevel:      raw.LogLevel,
		RatePerSecond: raw.RatePerSecond,
	}
	if raw.PollSeconds > 0 {
		env.PollEvery = time.Duration(raw.PollSeconds) * time.Second
	}
	if raw.TimeoutSeconds > 0 {
		env.RequestTimeout = time.Duration(raw.TimeoutSeconds) * time.Second
	}
	cfg.apply(env)
	return cfg, nil
}

// apply overwrites fields that are set in o. Moving the state dir also moves
// the log file unless one was given explicitly.
func (c *Config) apply(o overrides) {
	if v := strings.TrimSpace(o.APIBase); v != "" {
		c.APIBase = v
	}
	if v := strings.TrimSpace(o.StateDir); v != "" {
		logInState := c.LogFile == filepath.Join(c.StateDir, logName)
		c.StateDir = mustExpand(v)
		if logInState {
			c.LogFile = filepath.Join(c.StateDir, logName)
		}
	}
	if v := strings.TrimSpace(o.LogFile); v != "" {
		c.LogFile = mustExpand(v)
	}
	if v := strings.TrimSpace(o.LogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
	if o.PollEvery > 0 {
		c.PollEvery = o.PollEvery
	}
	if o.RequestTimeout > 0 {
		c.RequestTimeout = o.RequestTimeout
	}
	if o.RatePerSecond != nil && *o.RatePerSecond >= 0 {
		c.RatePerSecond = *o.RatePerSecond
	}
}

// StoragePath returns the local key/value store file.
func (c Config) StoragePath() string {
	if strings.TrimSpace(c.StateDir) == "" {
		return mustExpand(defaultStateDir + "/" + storeName)
	}
	return filepath.Join(c.StateDir, storeName)
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
