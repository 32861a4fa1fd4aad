package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/screening"
)

var screenCmd = &cobra.Command{
	Use:   "screen TICKER [TICKER...]",
	Short: "Screen stocks for halal compliance",
	Long: `Screen one or more stocks against the five compliance tests: business
activity, debt ratio, liquid assets ratio, impure income and receivables.

A single ticker prints the full per-criterion breakdown; multiple tickers
print a summary table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScreen,
}

func runScreen(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	screener := screening.New(a.log)

	if len(args) == 1 {
		snap, err := a.market.QuoteSummary(ctx, args[0])
		if err != nil {
			return err
		}
		display.SingleScreen(os.Stdout, screener.Evaluate(args[0], snap))
		return nil
	}

	reports := screener.EvaluateBatch(ctx, args, a.market)
	display.ScreeningResults(os.Stdout, reports)
	return nil
}
