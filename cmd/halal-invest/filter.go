package main

import (
	"context"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
	"github.com/khan-rehan/halal-invest/internal/modules/research"
)

var (
	filterValuation    string
	filterSignal       string
	filterMinCAGR5     float64
	filterMinCAGR10    float64
	filterMinRevGrowth float64
	filterBudget       float64
)

var filterCmd = &cobra.Command{
	Use:   "filter",
	Short: "Filter the SPUS universe by growth and valuation criteria",
	Long: `Evaluate every SPUS holding and keep those matching the criteria,
ranked by composite score. Percentage minimums are strict: a stock missing
the metric is excluded.

Example:
  halal-invest filter --min-cagr5 10 --valuation UNDERPRICED --budget 1000`,
	RunE: runFilter,
}

func init() {
	filterCmd.Flags().StringVar(&filterValuation, "valuation", "ALL", "Valuation tag (UNDERPRICED, FAIR VALUE, OVERPRICED, ALL)")
	filterCmd.Flags().StringVar(&filterSignal, "signal", "ALL", "Overall signal (BUY, SELL, HOLD, ALL)")
	filterCmd.Flags().Float64Var(&filterMinCAGR5, "min-cagr5", 0, "Minimum 5-year price CAGR percent")
	filterCmd.Flags().Float64Var(&filterMinCAGR10, "min-cagr10", 0, "Minimum 10-year price CAGR percent")
	filterCmd.Flags().Float64Var(&filterMinRevGrowth, "min-revenue-growth", 0, "Minimum revenue growth percent")
	filterCmd.Flags().Float64Var(&filterBudget, "budget", 0, "Also print an allocation plan for this budget")
}

func runFilter(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), time.Hour)
	defer cancel()

	results, err := a.researchService().Filter(ctx, research.Criteria{
		Valuation:        filterValuation,
		Signal:           filterSignal,
		MinCAGR5Y:        filterMinCAGR5,
		MinCAGR10Y:       filterMinCAGR10,
		MinRevenueGrowth: filterMinRevGrowth,
	})
	if err != nil {
		return err
	}

	display.ResearchResults(os.Stdout, results)

	if filterBudget > 0 {
		var candidates []allocation.Candidate
		for _, r := range results {
			if len(candidates) == 10 {
				break
			}
			if r.Snapshot.CurrentPrice == nil {
				continue
			}
			candidates = append(candidates, allocation.Candidate{
				Ticker:  r.Ticker,
				Company: r.Fundamentals.Name,
				Price:   *r.Snapshot.CurrentPrice,
				Score:   r.Score.Composite,
				Tag:     r.Tag,
			})
		}
		plan := allocation.New(a.log).Allocate(candidates, filterBudget)
		display.AllocationPlan(os.Stdout, plan, filterBudget)
	}
	return nil
}
