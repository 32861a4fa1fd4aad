package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/portfolio"
)

var (
	txDate         string
	historyTicker  string
	purifyTicker   string
	purifyPct      float64
	purifyDividend float64
)

var portfolioCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Track buys, sells and dividend purification",
}

var portfolioAddCmd = &cobra.Command{
	Use:   "add TICKER SHARES PRICE",
	Short: "Record a buy",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordTransaction(portfolio.ActionBuy, args)
	},
}

var portfolioSellCmd = &cobra.Command{
	Use:   "sell TICKER SHARES PRICE",
	Short: "Record a sale",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return recordTransaction(portfolio.ActionSell, args)
	},
}

var portfolioShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current holdings with live P&L",
	RunE:  runPortfolioShow,
}

var portfolioSummaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Show cost-basis totals without fetching quotes",
	RunE:  runPortfolioSummary,
}

var portfolioHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show transaction history",
	RunE:  runPortfolioHistory,
}

var portfolioPurifyCmd = &cobra.Command{
	Use:   "purify",
	Short: "Log a dividend purification or show the log",
	Long: `With --ticker, --dividend and --impure-pct, compute and log the amount
of a dividend to donate. Without flags, print the purification log.`,
	RunE: runPortfolioPurify,
}

func init() {
	portfolioAddCmd.Flags().StringVar(&txDate, "date", "", "Transaction date (YYYY-MM-DD, defaults to today)")
	portfolioSellCmd.Flags().StringVar(&txDate, "date", "", "Transaction date (YYYY-MM-DD, defaults to today)")
	portfolioHistoryCmd.Flags().StringVar(&historyTicker, "ticker", "", "Filter by ticker")
	portfolioPurifyCmd.Flags().StringVar(&purifyTicker, "ticker", "", "Ticker the dividend came from")
	portfolioPurifyCmd.Flags().Float64Var(&purifyDividend, "dividend", 0, "Dividend amount received")
	portfolioPurifyCmd.Flags().Float64Var(&purifyPct, "impure-pct", 0, "Impure income percentage")

	portfolioCmd.AddCommand(portfolioAddCmd)
	portfolioCmd.AddCommand(portfolioSellCmd)
	portfolioCmd.AddCommand(portfolioShowCmd)
	portfolioCmd.AddCommand(portfolioSummaryCmd)
	portfolioCmd.AddCommand(portfolioHistoryCmd)
	portfolioCmd.AddCommand(portfolioPurifyCmd)
}

func recordTransaction(action string, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	shares, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		return fmt.Errorf("invalid shares %q: %w", args[1], err)
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		return fmt.Errorf("invalid price %q: %w", args[2], err)
	}

	repo := portfolio.NewRepository(a.db.Conn(), a.log)
	if err := repo.AddTransaction(args[0], action, shares, price, txDate); err != nil {
		return err
	}
	fmt.Printf("Recorded %s: %.2f shares of %s at $%.2f\n", action, shares, args[0], price)
	return nil
}

func runPortfolioShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	summary, err := portfolio.NewRepository(a.db.Conn(), a.log).Summary()
	if err != nil {
		return err
	}

	// Quotes are best effort: an unquoted holding still renders.
	ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
	defer cancel()
	prices := make(map[string]float64)
	for _, h := range summary.Holdings {
		price, err := a.market.CurrentPrice(ctx, h.Ticker)
		if err != nil {
			a.log.Warn().Err(err).Str("ticker", h.Ticker).Msg("No current quote")
			continue
		}
		prices[h.Ticker] = price
	}

	display.Holdings(os.Stdout, summary, prices)
	return nil
}

func runPortfolioSummary(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	summary, err := portfolio.NewRepository(a.db.Conn(), a.log).Summary()
	if err != nil {
		return err
	}
	display.PortfolioSummary(os.Stdout, summary)
	return nil
}

func runPortfolioHistory(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	txs, err := portfolio.NewRepository(a.db.Conn(), a.log).Transactions(historyTicker)
	if err != nil {
		return err
	}
	display.Transactions(os.Stdout, txs)
	return nil
}

func runPortfolioPurify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	repo := portfolio.NewRepository(a.db.Conn(), a.log)

	if purifyTicker != "" {
		if purifyDividend <= 0 {
			return fmt.Errorf("--dividend must be positive")
		}
		amount, err := repo.LogPurification(purifyTicker, purifyPct, purifyDividend)
		if err != nil {
			return err
		}
		fmt.Printf("Donate $%.2f of the $%.2f dividend from %s\n", amount, purifyDividend, purifyTicker)
		return nil
	}

	records, err := repo.PurificationLog()
	if err != nil {
		return err
	}
	display.PurificationLog(os.Stdout, records)
	return nil
}
