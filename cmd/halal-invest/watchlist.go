package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/display"
	"github.com/khan-rehan/halal-invest/internal/modules/watchlist"
)

var (
	watchNotes string
	targetBuy  float64
	targetSell float64
)

var watchlistCmd = &cobra.Command{
	Use:   "watchlist",
	Short: "Track tickers and price targets",
}

var watchlistAddCmd = &cobra.Command{
	Use:   "add TICKER",
	Short: "Add a ticker to the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWatchlist(func(repo *watchlist.Repository) error {
			if err := repo.Add(args[0], watchNotes); err != nil {
				return err
			}
			fmt.Printf("Added %s to watchlist\n", strings.ToUpper(args[0]))
			return nil
		})
	},
}

var watchlistRemoveCmd = &cobra.Command{
	Use:   "remove TICKER",
	Short: "Remove a ticker from the watchlist",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWatchlist(func(repo *watchlist.Repository) error {
			if err := repo.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("Removed %s from watchlist\n", strings.ToUpper(args[0]))
			return nil
		})
	},
}

var watchlistShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the watchlist",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWatchlist(func(repo *watchlist.Repository) error {
			entries, err := repo.List()
			if err != nil {
				return err
			}
			display.Watchlist(os.Stdout, entries)
			return nil
		})
	},
}

var watchlistTargetCmd = &cobra.Command{
	Use:   "set-target TICKER",
	Short: "Set buy and/or sell price targets",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWatchlist(func(repo *watchlist.Repository) error {
			var buy, sell *float64
			if targetBuy > 0 {
				buy = &targetBuy
			}
			if targetSell > 0 {
				sell = &targetSell
			}
			if buy == nil && sell == nil {
				return fmt.Errorf("set at least one of --buy or --sell")
			}
			if err := repo.SetTargets(args[0], buy, sell); err != nil {
				return err
			}
			fmt.Printf("Updated targets for %s\n", strings.ToUpper(args[0]))
			return nil
		})
	},
}

var watchlistAlertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Check watchlist tickers against their price targets",
	RunE:  runWatchlistAlerts,
}

func init() {
	watchlistAddCmd.Flags().StringVar(&watchNotes, "notes", "", "Notes for the entry")
	watchlistTargetCmd.Flags().Float64Var(&targetBuy, "buy", 0, "Alert when the price drops to this level")
	watchlistTargetCmd.Flags().Float64Var(&targetSell, "sell", 0, "Alert when the price rises to this level")

	watchlistCmd.AddCommand(watchlistAddCmd)
	watchlistCmd.AddCommand(watchlistRemoveCmd)
	watchlistCmd.AddCommand(watchlistShowCmd)
	watchlistCmd.AddCommand(watchlistTargetCmd)
	watchlistCmd.AddCommand(watchlistAlertsCmd)
}

func withWatchlist(fn func(*watchlist.Repository) error) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	return fn(watchlist.NewRepository(a.db.Conn(), a.log))
}

func runWatchlistAlerts(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.openDB(); err != nil {
		return err
	}
	defer a.close()

	repo := watchlist.NewRepository(a.db.Conn(), a.log)
	entries, err := repo.List()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()
	prices := make(map[string]float64)
	for _, e := range entries {
		if e.TargetBuyPrice == nil && e.TargetSellPrice == nil {
			continue
		}
		price, err := a.market.CurrentPrice(ctx, e.Ticker)
		if err != nil {
			a.log.Warn().Err(err).Str("ticker", e.Ticker).Msg("No current quote")
			continue
		}
		prices[e.Ticker] = price
	}

	alerts, err := repo.Alerts(prices)
	if err != nil {
		return err
	}
	display.Alerts(os.Stdout, alerts)
	return nil
}
