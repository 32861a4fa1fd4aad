// Package main is the entry point for the halal-invest CLI: an AAOIFI-style
// halal stock screener with technical signals, composite scoring, portfolio
// tracking and a daily S&P 500 report pipeline.
package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/clients/yahoo"
	"github.com/khan-rehan/halal-invest/internal/config"
	"github.com/khan-rehan/halal-invest/internal/database"
	"github.com/khan-rehan/halal-invest/internal/modules/research"
	"github.com/khan-rehan/halal-invest/internal/modules/universe"
	"github.com/khan-rehan/halal-invest/pkg/logger"
)

// app bundles the dependencies shared by all commands. The database is
// opened lazily: only portfolio and watchlist commands need it.
type app struct {
	cfg    *config.Config
	log    zerolog.Logger
	market *yahoo.Client
	univ   *universe.Client
	db     *database.DB
}

func newApp() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	httpClient := &http.Client{Timeout: 30 * time.Second}
	market := yahoo.New(httpClient, yahoo.Config{
		BaseURL:   cfg.YahooAPIURL,
		UserAgent: cfg.UserAgent,
		Pace:      cfg.RequestPace,
	}, log)
	univ := universe.NewClient(httpClient, universe.Config{
		UserAgent: cfg.UserAgent,
	}, log)

	return &app{
		cfg:    cfg,
		log:    log,
		market: market,
		univ:   univ,
	}, nil
}

func (a *app) openDB() error {
	db, err := database.New(database.Config{Path: a.cfg.DatabasePath()})
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	a.db = db
	return nil
}

func (a *app) close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Warn().Err(err).Msg("Failed to close database")
		}
	}
}

func (a *app) researchService() *research.Service {
	return research.New(a.market, a.univ, a.log)
}

var rootCmd = &cobra.Command{
	Use:   "halal-invest",
	Short: "Halal stock screener and investment toolkit",
	Long: `halal-invest screens stocks against AAOIFI-style sharia compliance rules,
computes technical signals and a 0-100 composite score, tracks a personal
portfolio with dividend purification, and emails a daily S&P 500 report.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(screenCmd)
	rootCmd.AddCommand(signalsCmd)
	rootCmd.AddCommand(researchCmd)
	rootCmd.AddCommand(filterCmd)
	rootCmd.AddCommand(portfolioCmd)
	rootCmd.AddCommand(watchlistCmd)
	rootCmd.AddCommand(pipelineCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
