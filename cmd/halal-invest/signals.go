package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/signals"
)

var signalsRange string

var signalsCmd = &cobra.Command{
	Use:   "signals TICKER",
	Short: "Compute technical buy/sell signals",
	Long: `Compute RSI, MACD, SMA crossover, Bollinger band and volume indicators
from recent price history, plus the overall consensus signal.`,
	Args: cobra.ExactArgs(1),
	RunE: runSignals,
}

func init() {
	signalsCmd.Flags().StringVar(&signalsRange, "range", "6mo", "History range (e.g. 3mo, 6mo, 1y, 2y)")
}

func runSignals(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()

	series, err := a.market.History(ctx, args[0], signalsRange)
	if err != nil {
		return err
	}

	report := signals.New(a.log).Compute(args[0], series)
	display.Signals(os.Stdout, report)
	return nil
}
