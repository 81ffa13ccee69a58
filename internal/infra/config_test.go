package infra

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"crypto_tracker/internal/infra/coincap"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "app:\n  name: tracker\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.App.Name != "tracker" {
		t.Errorf("App.Name = %s", cfg.App.Name)
	}
	if cfg.API.CoinCap.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s", cfg.API.CoinCap.BaseURL)
	}
	if cfg.API.CoinCap.HistoryInterval != "h6" {
		t.Errorf("HistoryInterval = %s", cfg.API.CoinCap.HistoryInterval)
	}
	if cfg.HistoryWindow() != 5*24*time.Hour {
		t.Errorf("HistoryWindow = %v", cfg.HistoryWindow())
	}
	if cfg.StopTimeout() != 5*time.Second {
		t.Errorf("StopTimeout = %v", cfg.StopTimeout())
	}
	if cfg.Timeout() != 10*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout())
	}
	if cfg.UI.EventBuffer != 16 {
		t.Errorf("EventBuffer = %d", cfg.UI.EventBuffer)
	}
	if cfg.Storage.JournalEnabled {
		t.Error("journal should be off by default")
	}
}

func TestLoadConfig_EnvOverride(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", `
api:
  coincap:
    base_url: "https://example.com/v2"
logging:
  level: info
`)
	t.Setenv(EnvAPIKey, "env-key")
	t.Setenv(EnvBaseURL, "http://localhost:8080")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.CoinCap.APIKey != "env-key" {
		t.Errorf("APIKey = %s", cfg.API.CoinCap.APIKey)
	}
	if cfg.API.CoinCap.BaseURL != "http://localhost:8080" {
		t.Errorf("BaseURL = %s", cfg.API.CoinCap.BaseURL)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Level = %s", cfg.Logging.Level)
	}
}

func TestLoadConfig_SecretFile(t *testing.T) {
	dir := t.TempDir()
	secret := writeFile(t, dir, "secret.yaml", "api:\n  coincap:\n    api_key: from-file\n")
	path := writeFile(t, dir, "config.yaml", "api:\n  coincap:\n    secret_file: "+secret+"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.CoinCap.APIKey != "from-file" {
		t.Errorf("APIKey = %s", cfg.API.CoinCap.APIKey)
	}

	// Environment still wins over the secrets file.
	t.Setenv(EnvAPIKey, "env-key")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.CoinCap.APIKey != "env-key" {
		t.Errorf("APIKey = %s, want env-key", cfg.API.CoinCap.APIKey)
	}
}

func TestLoadConfig_MissingSecretFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "api:\n  coincap:\n    secret_file: "+filepath.Join(dir, "nope.yaml")+"\n")

	if _, err := LoadConfig(path); err == nil {
		t.Error("expected error for a missing secrets file")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"bad url", "api:\n  coincap:\n    base_url: ftp://x\n", "base URL"},
		{"bad interval", "api:\n  coincap:\n    history_interval: h3\n", "interval"},
		{"negative rate", "api:\n  coincap:\n    rate_limit_per_sec: -1\n", "rate limit"},
		{"negative days", "ui:\n  history_days: -2\n", "history days"},
		{"bad level", "logging:\n  level: loud\n", "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, t.TempDir(), "config.yaml", tt.yaml)
			_, err := LoadConfig(path)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadConfigOrDefault(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing.yaml")

	cfg, err := LoadConfigOrDefault(missing, false)
	if err != nil {
		t.Fatalf("implicit missing config should fall back: %v", err)
	}
	if cfg.API.CoinCap.BaseURL != DefaultBaseURL {
		t.Errorf("BaseURL = %s", cfg.API.CoinCap.BaseURL)
	}

	if _, err := LoadConfigOrDefault(missing, true); err == nil {
		t.Error("explicit missing config must fail")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"INFO":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		if err != nil || got != want {
			t.Errorf("ParseLevel(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}

func TestNewLogger_File(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "debug"
	cfg.Logging.File = filepath.Join(t.TempDir(), "logs", "app.log")

	logger, closer, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}
	logger.Debug("hello", slog.String("k", "v"))
	if err := closer(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(cfg.Logging.File)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !bytes.Contains(data, []byte("msg=hello")) || !bytes.Contains(data, []byte("k=v")) {
		t.Errorf("unexpected log content: %s", data)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.API.CoinCap.APIKey = ""
	PrintBanner(&buf, cfg)

	out := buf.String()
	if !strings.Contains(out, "Crypto Tracker") || !strings.Contains(out, "No API key") {
		t.Errorf("unexpected banner: %s", out)
	}
}

func TestGetPlatformUserAgent(t *testing.T) {
	ua := GetPlatformUserAgent("2.3.4")
	if !strings.HasPrefix(ua, AppName+"/2.3.4 (") {
		t.Errorf("unexpected user agent %q", ua)
	}

	prev := GetUserAgent()
	t.Cleanup(func() { SetUserAgent(prev) })
	SetUserAgent(ua)
	if GetUserAgent() != ua {
		t.Errorf("GetUserAgent = %q, want %q", GetUserAgent(), ua)
	}
}

func TestDefaultBaseURL_MatchesDataSource(t *testing.T) {
	if DefaultBaseURL != coincap.DefaultBaseURL {
		t.Errorf("config default %q differs from data source default %q", DefaultBaseURL, coincap.DefaultBaseURL)
	}
}
