package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the resolved wpreport configuration.
type Config struct {
	WordPress WordPress
	Logs      Logs
	Server    Server
	Export    Export
	Logging   Logging
}

// WordPress locates the installation whose paths are redacted and whose logs are scanned.
type WordPress struct {
	ABSPath     string `validate:"required"`
	ContentDir  string `validate:"required"`
	PluginDir   string `validate:"required"`
	MUPluginDir string `validate:"required"`
	DebugLog    string
}

// Logs tunes candidate discovery and extraction.
type Logs struct {
	PHPErrorLog    string
	ServerPaths    []string
	MaxResults     int            `validate:"min=1,max=1000"`
	WordPressLines int            `validate:"min=1,max=10000"`
	ServerLines    int            `validate:"min=1,max=10000"`
	Location       *time.Location `validate:"required"`
}

// Server configures the HTTP API.
type Server struct {
	Bind       string        `validate:"required,hostname_port"`
	Token      string
	RateLimit  int           `validate:"min=1"`
	RateWindow time.Duration `validate:"min=1s"`
	// TrustedProxies are the reverse proxies whose X-Forwarded-For is used
	// for rate limiting. Empty means the peer address is the client.
	TrustedProxies []string `validate:"dive,ip|cidr"`
}

// Export configures where the TUI writes CSV and PDF files.
type Export struct {
	Dir string `validate:"required"`
}

// Logging configures the zerolog output.
type Logging struct {
	Level string `validate:"oneof=debug info warn error"`
	File  string
}

const (
	defaultConfigPath  = "~/.config/wpreport/config.toml"
	defaultABSPath     = "/var/www/html"
	defaultBind        = "127.0.0.1:7490"
	defaultMaxResults  = 10
	defaultWPLines     = 50
	defaultServerLines = 30
	defaultRateLimit   = 30
	defaultRateWindow  = 60 * time.Second
	defaultLogLevel    = "info"
	defaultLogFile     = "~/.local/state/wpreport/wpreport.log"
)

// Environment variables that override file values.
const (
	EnvABSPath     = "WPREPORT_ABSPATH"
	EnvContentDir  = "WPREPORT_CONTENT_DIR"
	EnvDebugLog    = "WPREPORT_DEBUG_LOG"
	EnvPHPErrorLog = "WPREPORT_PHP_ERROR_LOG"
	EnvTimezone    = "WPREPORT_TIMEZONE"
)

type rawConfig struct {
	WordPress struct {
		ABSPath     string `toml:"abspath"`
		ContentDir  string `toml:"content_dir"`
		PluginDir   string `toml:"plugin_dir"`
		MUPluginDir string `toml:"mu_plugin_dir"`
		DebugLog    string `toml:"debug_log"`
	} `toml:"wordpress"`
	Logs struct {
		PHPErrorLog    string   `toml:"php_error_log"`
		ServerPaths    []string `toml:"server_paths"`
		MaxResults     int      `toml:"max_results"`
		WordPressLines int      `toml:"wordpress_lines"`
		ServerLines    int      `toml:"server_lines"`
		Timezone       string   `toml:"timezone"`
	} `toml:"logs"`
	Server struct {
		Bind           string   `toml:"bind"`
		Token          string   `toml:"token"`
		RateLimit      int      `toml:"rate_limit"`
		RateWindow     string   `toml:"rate_window"`
		TrustedProxies []string `toml:"trusted_proxies"`
	} `toml:"server"`
	Export struct {
		Dir string `toml:"dir"`
	} `toml:"export"`
	Logging struct {
		Level string `toml:"level"`
		File  string `toml:"file"`
	} `toml:"logging"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load locates and parses the config file, falling back to defaults when it is missing.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case err == nil:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	case errors.Is(err, os.ErrNotExist):
		// defaults only
	default:
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	applyEnv(&raw)
	cfg, err := resolve(raw)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Default returns the configuration used when no file exists.
func Default() Config {
	cfg, _ := resolve(rawConfig{})
	return cfg
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func applyEnv(raw *rawConfig) {
	override := func(dst *string, key string) {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			*dst = v
		}
	}
	override(&raw.WordPress.ABSPath, EnvABSPath)
	override(&raw.WordPress.ContentDir, EnvContentDir)
	override(&raw.WordPress.DebugLog, EnvDebugLog)
	override(&raw.Logs.PHPErrorLog, EnvPHPErrorLog)
	override(&raw.Logs.Timezone, EnvTimezone)
}

func resolve(raw rawConfig) (Config, error) {
	var cfg Config

	wp := &cfg.WordPress
	wp.ABSPath = mustExpand(orDefault(raw.WordPress.ABSPath, defaultABSPath))
	wp.ContentDir = mustExpand(orDefault(raw.WordPress.ContentDir, filepath.Join(wp.ABSPath, "wp-content")))
	wp.PluginDir = mustExpand(orDefault(raw.WordPress.PluginDir, filepath.Join(wp.ContentDir, "plugins")))
	wp.MUPluginDir = mustExpand(orDefault(raw.WordPress.MUPluginDir, filepath.Join(wp.ContentDir, "mu-plugins")))
	if debugLog := strings.TrimSpace(raw.WordPress.DebugLog); debugLog != "" {
		wp.DebugLog = mustExpand(debugLog)
	}

	logs := &cfg.Logs
	if phpLog := strings.TrimSpace(raw.Logs.PHPErrorLog); phpLog != "" {
		logs.PHPErrorLog = mustExpand(phpLog)
	}
	for _, p := range raw.Logs.ServerPaths {
		if p = strings.TrimSpace(p); p != "" {
			logs.ServerPaths = append(logs.ServerPaths, mustExpand(p))
		}
	}
	logs.MaxResults = orDefaultInt(raw.Logs.MaxResults, defaultMaxResults)
	logs.WordPressLines = orDefaultInt(raw.Logs.WordPressLines, defaultWPLines)
	logs.ServerLines = orDefaultInt(raw.Logs.ServerLines, defaultServerLines)
	logs.Location = time.Local
	if tz := strings.TrimSpace(raw.Logs.Timezone); tz != "" {
		loc, err := time.LoadLocation(tz)
		if err != nil {
			return Config{}, fmt.Errorf("parse timezone: %w", err)
		}
		logs.Location = loc
	}

	srv := &cfg.Server
	srv.Bind = orDefault(raw.Server.Bind, defaultBind)
	srv.Token = strings.TrimSpace(raw.Server.Token)
	srv.RateLimit = orDefaultInt(raw.Server.RateLimit, defaultRateLimit)
	srv.RateWindow = defaultRateWindow
	if window := strings.TrimSpace(raw.Server.RateWindow); window != "" {
		d, err := time.ParseDuration(window)
		if err != nil {
			return Config{}, fmt.Errorf("parse rate_window: %w", err)
		}
		srv.RateWindow = d
	}
	for _, proxy := range raw.Server.TrustedProxies {
		if proxy = strings.TrimSpace(proxy); proxy != "" {
			srv.TrustedProxies = append(srv.TrustedProxies, proxy)
		}
	}

	cfg.Export.Dir = mustExpand(orDefault(raw.Export.Dir, "."))

	cfg.Logging.Level = strings.ToLower(orDefault(raw.Logging.Level, defaultLogLevel))
	cfg.Logging.File = mustExpand(orDefault(raw.Logging.File, defaultLogFile))

	return cfg, nil
}

func orDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}

func orDefaultInt(value, fallback int) int {
	if value == 0 {
		return fallback
	}
	return value
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
