package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"crypto_tracker/internal/infra"
	"crypto_tracker/internal/infra/coincap"
	"crypto_tracker/internal/storage"
	"crypto_tracker/internal/ui/coinlist"

	"github.com/joho/godotenv"
)

// Options selects what Initialize sets up.
type Options struct {
	// ConfigPath overrides config discovery. A missing explicit path is an error.
	ConfigPath string
	// Interactive takes the instance lock and opens the journal when enabled.
	Interactive bool
}

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config     *infra.Config
	WorkDir    string
	DataSource *coincap.RemoteCoinDataSource
	Journal    *storage.Journal
	Snapshots  *storage.SnapshotManager

	closers []func() error
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize loads configuration and builds the shared components.
func (b *Bootstrap) Initialize(opts Options) error {
	// 0. .env before config so overrides apply
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	// 1. Load Config
	path, explicit := opts.ConfigPath, opts.ConfigPath != ""
	if !explicit {
		path = infra.ResolveConfigPath()
	}
	cfg, err := infra.LoadConfigOrDefault(path, explicit)
	if err != nil {
		return err
	}
	b.Config = cfg
	infra.SetUserAgent(infra.GetPlatformUserAgent(cfg.App.Version))

	// 2. Setup Logger
	logger, closeLog, err := infra.NewLogger(cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)
	b.closers = append(b.closers, closeLog)

	slog.Info("🚀 Bootstrapping Crypto Tracker...", slog.String("version", cfg.App.Version))

	b.WorkDir = infra.GetWorkspaceDir()
	if err := infra.EnsureDir(b.WorkDir); err != nil {
		return fmt.Errorf("failed to create workspace dir: %w", err)
	}
	b.Snapshots = storage.NewSnapshotManager(filepath.Join(b.WorkDir, "snapshots"))

	// 3. Journal (single writer)
	if opts.Interactive && cfg.Storage.JournalEnabled {
		unlock, err := infra.CreateLockFile(b.WorkDir)
		if err != nil {
			return err
		}
		b.closers = append(b.closers, func() error { unlock(); return nil })

		journal, err := b.OpenJournal()
		if err != nil {
			return err
		}
		b.Journal = journal
		b.closers = append(b.closers, journal.Close)
		slog.Info("✅ Journal initialized (WAL-mode)")
	}

	// 4. Data source
	api := cfg.API.CoinCap
	b.DataSource = coincap.NewRemoteCoinDataSource(coincap.Config{
		BaseURL:         api.BaseURL,
		APIKey:          api.APIKey,
		UserAgent:       infra.GetUserAgent(),
		HistoryInterval: api.HistoryInterval,
		Timeout:         cfg.Timeout(),
		RatePerSecond:   api.RateLimitPerSec,
		Burst:           api.RateLimitBurst,
	})
	slog.Info("✅ CoinCap data source ready", slog.String("base_url", api.BaseURL))

	return nil
}

// OpenJournal opens the journal database in the workspace.
func (b *Bootstrap) OpenJournal() (*storage.Journal, error) {
	path, err := infra.JournalPath(b.WorkDir)
	if err != nil {
		return nil, err
	}
	return storage.NewJournal(path)
}

// NewCoinListViewModel builds the coin list view model from config.
func (b *Bootstrap) NewCoinListViewModel(ctx context.Context) *coinlist.ViewModel {
	opts := []coinlist.Option{
		coinlist.WithHistoryWindow(b.Config.HistoryWindow()),
		coinlist.WithStopTimeout(b.Config.StopTimeout()),
		coinlist.WithEventBuffer(b.Config.UI.EventBuffer),
	}
	if b.Journal != nil {
		opts = append(opts, coinlist.WithRecorder(b.Journal))
	}
	return coinlist.NewViewModel(ctx, b.DataSource, opts...)
}

// Close releases resources in reverse order of acquisition.
func (b *Bootstrap) Close() error {
	var firstErr error
	for i := len(b.closers) - 1; i >= 0; i-- {
		if err := b.closers[i](); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	b.closers = nil
	return firstErr
}
