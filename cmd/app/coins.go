package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"crypto_tracker/internal/app"
	"crypto_tracker/internal/domain"
	"crypto_tracker/internal/storage"
	"crypto_tracker/internal/ui/model"

	"github.com/spf13/cobra"
)

func newCoinsCmd() *cobra.Command {
	var (
		save    bool
		offline bool
		keep    int
	)

	cmd := &cobra.Command{
		Use:   "coins",
		Short: "Load the coin list once and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if keep <= 0 {
				return fmt.Errorf("--keep must be positive")
			}

			bootstrap := app.NewBootstrap()
			defer bootstrap.Close()

			if err := bootstrap.Initialize(app.Options{ConfigPath: configPath}); err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			if offline {
				snap, err := bootstrap.Snapshots.LoadLatest()
				if err != nil {
					return err
				}
				if snap == nil {
					return fmt.Errorf("no saved snapshot")
				}
				fmt.Fprintf(out, "Snapshot from %s\n", time.UnixMilli(snap.TsMilli).Format(time.RFC3339))
				printCoins(out, snap.Coins)
				return nil
			}

			coins, err := bootstrap.DataSource.GetCoins(cmd.Context())
			if err != nil {
				slog.Error("❌ Failed to load coins", slog.Any("error", err))
				return err
			}
			printCoins(out, coins)

			if save {
				snap := storage.CreateSnapshot(coins, time.Now())
				path, err := bootstrap.Snapshots.Save(snap)
				if err != nil {
					return err
				}
				if err := bootstrap.Snapshots.Cleanup(keep); err != nil {
					slog.Warn("Snapshot cleanup failed", slog.Any("error", err))
				}
				fmt.Fprintf(out, "Saved %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "save the loaded list as a snapshot")
	cmd.Flags().BoolVar(&offline, "offline", false, "print the latest saved snapshot instead of calling the API")
	cmd.Flags().IntVar(&keep, "keep", 10, "number of snapshots to keep with --save")
	cmd.MarkFlagsMutuallyExclusive("save", "offline")
	return cmd
}

func printCoins(w io.Writer, coins []domain.Coin) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "RANK\tSYMBOL\tNAME\tPRICE (USD)\tMARKET CAP (USD)\t24H %\t")
	for _, ui := range model.ToCoinUis(coins) {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t\n",
			ui.Rank, ui.Symbol, ui.Name, ui.PriceUsd.Formatted, ui.MarketCapUsd.Formatted, ui.ChangePercent24Hr.Formatted)
	}
	tw.Flush()
}
