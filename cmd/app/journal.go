package main

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"crypto_tracker/internal/app"
	"crypto_tracker/internal/storage"

	"github.com/spf13/cobra"
)

func newJournalCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "journal",
		Short: "Print the most recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive")
			}

			bootstrap := app.NewBootstrap()
			defer bootstrap.Close()

			if err := bootstrap.Initialize(app.Options{ConfigPath: configPath}); err != nil {
				return err
			}

			if !bootstrap.Config.Storage.JournalEnabled {
				fmt.Fprintln(cmd.OutOrStdout(), "journal disabled (storage.journal_enabled is false)")
				return nil
			}

			journal, err := bootstrap.OpenJournal()
			if err != nil {
				return err
			}
			defer journal.Close()

			entries, err := journal.Recent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printEntries(cmd.OutOrStdout(), entries)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "number of entries to print")
	return cmd
}

func printEntries(w io.Writer, entries []storage.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "journal is empty")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tTYPE\tPAYLOAD")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.Time().Format(time.RFC3339), e.Type, e.Payload)
	}
	tw.Flush()
}
