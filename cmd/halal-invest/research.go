package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/research"
)

var researchCmd = &cobra.Command{
	Use:   "research TICKER [TICKER...]",
	Short: "Full research report for one or more stocks",
	Long: `Run the complete evaluation for each ticker: halal compliance screen,
fundamentals, historical growth, technical signals, composite score and
valuation tag. Multiple tickers end with a ranked comparison table.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runResearch,
}

func runResearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	svc := a.researchService()
	var results []*research.Result
	for _, ticker := range args {
		result, err := svc.Evaluate(ctx, ticker)
		if err != nil {
			a.log.Error().Err(err).Str("ticker", ticker).Msg("Research failed")
			continue
		}
		results = append(results, result)

		display.SingleScreen(os.Stdout, result.Compliance)
		display.Fundamentals(os.Stdout, result.Fundamentals, result.Growth)
		display.Signals(os.Stdout, result.Signals)
		display.ScoreBreakdown(os.Stdout, result.Score, string(result.Tag))
	}

	if len(results) > 1 {
		display.ResearchResults(os.Stdout, results)
	}
	return nil
}
