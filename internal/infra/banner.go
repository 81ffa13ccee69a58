package infra

import (
	"fmt"
	"io"
)

// ANSI Color Codes
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorCyan   = "\033[36m"
)

// PrintBanner writes the startup banner.
func PrintBanner(w io.Writer, cfg *Config) {
	journal := "OFF"
	if cfg.Storage.JournalEnabled {
		journal = "ON"
	}
	color := ColorCyan

	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s###########################################################%s\n", color, ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", color, ColorReset)
	fmt.Fprintf(w, "%s#               📈 Crypto Tracker                         #%s\n", color, ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", color, ColorReset)
	fmt.Fprintf(w, "%s#   SOURCE:  %-44s #%s\n", color, truncate(cfg.API.CoinCap.BaseURL, 44), ColorReset)
	fmt.Fprintf(w, "%s#   JOURNAL: %-44s #%s\n", color, journal, ColorReset)
	fmt.Fprintf(w, "%s#   VERSION: %-44s #%s\n", color, cfg.App.Version, ColorReset)
	fmt.Fprintf(w, "%s#                                                         #%s\n", color, ColorReset)

	if cfg.API.CoinCap.APIKey == "" {
		fmt.Fprintf(w, "%s#   ⚠️  No API key set: public rate limits apply          #%s\n", ColorYellow, ColorReset)
	}

	fmt.Fprintf(w, "%s###########################################################%s\n", color, ColorReset)
	fmt.Fprintln(w)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-3] + "..."
}
