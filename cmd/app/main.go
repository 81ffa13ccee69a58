package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"crypto_tracker/internal/app"
	"crypto_tracker/internal/infra"

	"github.com/spf13/cobra"
)

var configPath string

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          infra.AppName,
		Short:        "Browse CoinCap assets and their recent price history",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context())
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config.yaml")

	root.AddCommand(newCoinsCmd(), newJournalCmd())
	return root
}

func main() {
	// Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runInteractive(ctx context.Context) error {
	bootstrap := app.NewBootstrap()
	defer bootstrap.Close()

	if err := bootstrap.Initialize(app.Options{ConfigPath: configPath, Interactive: true}); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		return err
	}

	infra.PrintBanner(os.Stdout, bootstrap.Config)

	vm := bootstrap.NewCoinListViewModel(ctx)
	defer vm.Close()

	slog.InfoContext(ctx, "✨ Coin list screen ready. Type a number to select, r to refresh, q to quit.")
	err := runScreen(ctx, vm, os.Stdin, os.Stdout)

	slog.Info("👋 Shutting down gracefully...")
	return err
}
