package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"crypto_tracker/internal/domain"
	"crypto_tracker/internal/infra"
	"crypto_tracker/internal/ui/coinlist"
	"crypto_tracker/internal/ui/model"
)

const chartWidth = 40

// runScreen drives the view model from line input and renders every state
// snapshot to out. It returns when in is exhausted, "q" is read, or ctx ends.
func runScreen(ctx context.Context, vm *coinlist.ViewModel, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	events, err := vm.Events(ctx)
	if err != nil {
		return err
	}
	states := vm.State(ctx)

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	var current coinlist.CoinListState
	for {
		select {
		case <-ctx.Done():
			return nil

		case s, ok := <-states:
			if !ok {
				return nil
			}
			current = s
			renderState(out, s)

		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			renderEvent(out, ev)

		case line, ok := <-lines:
			if !ok {
				return nil
			}
			input := strings.TrimSpace(line)
			switch input {
			case "":
			case "q":
				return nil
			case "r":
				vm.OnAction(coinlist.OnRefresh{})
			default:
				n, err := strconv.Atoi(input)
				if err != nil || n < 1 || n > len(current.Coins) {
					fmt.Fprintf(out, "%sunknown input %q%s\n", infra.ColorYellow, input, infra.ColorReset)
					continue
				}
				vm.OnAction(coinlist.OnCoinClick{Coin: current.Coins[n-1]})
			}
		}
	}
}

func renderState(w io.Writer, s coinlist.CoinListState) {
	fmt.Fprintln(w)
	if s.IsLoading {
		fmt.Fprintf(w, "%s⏳ Loading coins...%s\n", infra.ColorCyan, infra.ColorReset)
	}

	for i, c := range s.Coins {
		marker := " "
		if s.SelectedCoin != nil && s.SelectedCoin.ID == c.ID {
			marker = "*"
		}
		fmt.Fprintf(w, "%s%3d. %-6s %-20s $%16s  %s\n",
			marker, i+1, c.Symbol, c.Name, c.PriceUsd.Formatted, formatChange(c.ChangePercent24Hr))
	}

	if s.SelectedCoin != nil {
		renderChart(w, *s.SelectedCoin)
	}
}

func formatChange(n model.DisplayableNumber) string {
	switch {
	case n.Value > 0:
		return fmt.Sprintf("%s+%s%%%s", infra.ColorGreen, n.Formatted, infra.ColorReset)
	case n.Value < 0:
		return fmt.Sprintf("%s%s%%%s", infra.ColorRed, n.Formatted, infra.ColorReset)
	default:
		return n.Formatted + "%"
	}
}

// renderChart draws one horizontal bar per history point, scaled between the
// lowest and highest price.
func renderChart(w io.Writer, c model.CoinUi) {
	fmt.Fprintf(w, "\n%s%s (%s) market cap $%s%s\n", infra.ColorBlue, c.Name, c.Symbol, c.MarketCapUsd.Formatted, infra.ColorReset)

	points := c.CoinPriceHistory
	if len(points) == 0 {
		fmt.Fprintln(w, "  (no history yet)")
		return
	}

	lo, hi := points[0].Y, points[0].Y
	for _, p := range points {
		if p.Y < lo {
			lo = p.Y
		}
		if p.Y > hi {
			hi = p.Y
		}
	}

	for _, p := range points {
		width := chartWidth
		if hi > lo {
			width = 1 + int(float32(chartWidth-1)*(p.Y-lo)/(hi-lo))
		}
		label := strings.ReplaceAll(p.XLabel, "\n", " ")
		fmt.Fprintf(w, "  %-12s %s %.2f\n", label, strings.Repeat("█", width), p.Y)
	}
}

func renderEvent(w io.Writer, ev coinlist.CoinListEvent) {
	switch e := ev.(type) {
	case coinlist.ErrorEvent:
		target := "coin list"
		if e.CoinID != "" {
			target = e.CoinID + " history"
		}
		fmt.Fprintf(w, "%s❌ Failed to load %s: %s%s\n", infra.ColorRed, target, describeError(e), infra.ColorReset)
	default:
		fmt.Fprintf(w, "%v\n", ev)
	}
}

func describeError(e coinlist.ErrorEvent) string {
	if e.Err == nil {
		return "unknown error"
	}
	switch e.Err.Kind {
	case domain.KindNoInternet:
		return "no internet connection"
	case domain.KindRequestTimeout:
		return "the request timed out"
	case domain.KindTooManyRequests:
		return "rate limited, try again shortly"
	case domain.KindServerError:
		return "server error"
	case domain.KindSerialization:
		return "could not parse the response"
	default:
		return "unknown error"
	}
}
