package infra

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"crypto_tracker/internal/infra/coincap"

	"gopkg.in/yaml.v3"
)

var (
	uaMu             sync.RWMutex
	currentUserAgent = GetPlatformUserAgent(DefaultVersion)
)

// GetUserAgent returns the current User-Agent string. (Thread-safe)
func GetUserAgent() string {
	uaMu.RLock()
	defer uaMu.RUnlock()
	return currentUserAgent
}

// SetUserAgent updates the global User-Agent string. (Thread-safe)
func SetUserAgent(ua string) {
	uaMu.Lock()
	defer uaMu.Unlock()
	currentUserAgent = ua
}

// GetPlatformUserAgent builds "crypto-tracker/<version> (<os>; <arch>)".
func GetPlatformUserAgent(version string) string {
	return fmt.Sprintf("%s/%s (%s; %s)", AppName, version, runtime.GOOS, runtime.GOARCH)
}

const (
	DefaultVersion         = "1.0.0"
	DefaultBaseURL         = coincap.DefaultBaseURL
	DefaultHistoryInterval = "h6"
	DefaultTimeoutMS       = 10_000
	DefaultHistoryDays     = 5
	DefaultStopTimeoutMS   = 5_000
	DefaultEventBuffer     = 16
	DefaultLogLevel        = "info"

	EnvAPIKey   = "CRYPTO_TRACKER_API_KEY"
	EnvBaseURL  = "CRYPTO_TRACKER_BASE_URL"
	EnvLogLevel = "CRYPTO_TRACKER_LOG_LEVEL"
)

var validIntervals = map[string]bool{
	"m1": true, "m5": true, "m15": true, "m30": true,
	"h1": true, "h2": true, "h6": true, "h12": true, "d1": true,
}

// Config는 애플리케이션의 모든 설정을 담습니다.
// LoadConfig로 로드된 후 기본값을 채우고 환경 변수로 민감 내용을 덮어씁니다.
type Config struct {
	App struct {
		Name    string `yaml:"name"`
		Version string `yaml:"version"`
	} `yaml:"app"`

	API struct {
		CoinCap struct {
			BaseURL         string  `yaml:"base_url"`
			APIKey          string  `yaml:"api_key"`
			SecretFile      string  `yaml:"secret_file"`
			TimeoutMS       int     `yaml:"timeout_ms"`
			HistoryInterval string  `yaml:"history_interval"`
			RateLimitPerSec float64 `yaml:"rate_limit_per_sec"` // 0 = unlimited
			RateLimitBurst  int     `yaml:"rate_limit_burst"`
		} `yaml:"coincap"`
	} `yaml:"api"`

	UI struct {
		HistoryDays   int `yaml:"history_days"`
		StopTimeoutMS int `yaml:"stop_timeout_ms"`
		EventBuffer   int `yaml:"event_buffer"`
	} `yaml:"ui"`

	Storage struct {
		JournalEnabled bool `yaml:"journal_enabled"`
	} `yaml:"storage"`

	Logging struct {
		Level      string `yaml:"level"`
		File       string `yaml:"file"`
		MaxSizeMB  int    `yaml:"max_size_mb"`
		MaxBackups int    `yaml:"max_backups"`
		MaxAgeDays int    `yaml:"max_age_days"`
	} `yaml:"logging"`
}

// DefaultConfig returns a configuration usable without any file.
func DefaultConfig() *Config {
	var cfg Config
	cfg.applyDefaults()
	overrideWithEnv(&cfg)
	return &cfg
}

// LoadConfig는 설정 파일을 읽고 파싱합니다.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg.applyDefaults()

	if err := cfg.applySecrets(); err != nil {
		return nil, err
	}

	// 환경 변수 오버라이드
	overrideWithEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// LoadConfigOrDefault loads path, or falls back to DefaultConfig when the file
// does not exist and the path was not given explicitly.
func LoadConfigOrDefault(path string, explicit bool) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err == nil {
		return cfg, nil
	}
	if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	cfg = DefaultConfig()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.App.Name == "" {
		c.App.Name = AppName
	}
	if c.App.Version == "" {
		c.App.Version = DefaultVersion
	}

	api := &c.API.CoinCap
	if api.BaseURL == "" {
		api.BaseURL = DefaultBaseURL
	}
	if api.TimeoutMS == 0 {
		api.TimeoutMS = DefaultTimeoutMS
	}
	if api.HistoryInterval == "" {
		api.HistoryInterval = DefaultHistoryInterval
	}
	if api.RateLimitPerSec > 0 && api.RateLimitBurst == 0 {
		api.RateLimitBurst = 1
	}

	if c.UI.HistoryDays == 0 {
		c.UI.HistoryDays = DefaultHistoryDays
	}
	if c.UI.StopTimeoutMS == 0 {
		c.UI.StopTimeoutMS = DefaultStopTimeoutMS
	}
	if c.UI.EventBuffer == 0 {
		c.UI.EventBuffer = DefaultEventBuffer
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.File != "" {
		if c.Logging.MaxSizeMB == 0 {
			c.Logging.MaxSizeMB = 10
		}
		if c.Logging.MaxBackups == 0 {
			c.Logging.MaxBackups = 3
		}
		if c.Logging.MaxAgeDays == 0 {
			c.Logging.MaxAgeDays = 28
		}
	}
}

// Validate checks configuration validity
func (c *Config) Validate() error {
	api := c.API.CoinCap
	if !hasPrefix(api.BaseURL, "http://") && !hasPrefix(api.BaseURL, "https://") {
		return fmt.Errorf("invalid CoinCap base URL: %q", api.BaseURL)
	}
	if api.TimeoutMS < 0 {
		return fmt.Errorf("timeout must not be negative")
	}
	if !validIntervals[api.HistoryInterval] {
		return fmt.Errorf("unsupported history interval: %s", api.HistoryInterval)
	}
	if api.RateLimitPerSec < 0 || api.RateLimitBurst < 0 {
		return fmt.Errorf("rate limit must not be negative")
	}

	if c.UI.HistoryDays <= 0 {
		return fmt.Errorf("history days must be positive")
	}
	if c.UI.StopTimeoutMS < 0 {
		return fmt.Errorf("stop timeout must not be negative")
	}
	if c.UI.EventBuffer <= 0 {
		return fmt.Errorf("event buffer must be positive")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unknown log level: %s", c.Logging.Level)
	}

	return nil
}

// Timeout returns the HTTP client timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.API.CoinCap.TimeoutMS) * time.Millisecond
}

// HistoryWindow returns how far back coin history is requested.
func (c *Config) HistoryWindow() time.Duration {
	return time.Duration(c.UI.HistoryDays) * 24 * time.Hour
}

// StopTimeout returns the state grace window.
func (c *Config) StopTimeout() time.Duration {
	return time.Duration(c.UI.StopTimeoutMS) * time.Millisecond
}

func hasPrefix(s, prefix string) bool {
	return len(s) >= len(prefix) && s[0:len(prefix)] == prefix
}

// overrideWithEnv는 환경 변수가 존재할 경우 설정 값을 덮어씁니다.
// 환경 변수는 설정 파일보다 우선합니다.
func overrideWithEnv(cfg *Config) {
	if cfg.API.CoinCap.APIKey != "" && cfg.API.CoinCap.SecretFile == "" && os.Getenv(EnvAPIKey) == "" {
		// slog is not configured yet at this point
		fmt.Fprintln(os.Stderr, "⚠️  SECURITY WARNING: API key found in config file.")
		fmt.Fprintf(os.Stderr, "   Recommendation: use the %s environment variable instead.\n", EnvAPIKey)
	}

	if key := os.Getenv(EnvAPIKey); key != "" {
		cfg.API.CoinCap.APIKey = key
	}
	if base := os.Getenv(EnvBaseURL); base != "" {
		cfg.API.CoinCap.BaseURL = base
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Logging.Level = level
	}
}
