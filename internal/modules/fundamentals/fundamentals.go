// Package fundamentals organizes raw snapshot attributes into categorized
// fundamental views and derives long-horizon price growth rates.
package fundamentals

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// tradingDaysPerYear is the approximation used to slice a daily price
// series into year-sized windows.
const tradingDaysPerYear = 252

// descriptionLimit caps the company summary carried into reports.
const descriptionLimit = 200

// View groups a snapshot's metrics the way they are presented: by analysis
// category rather than by provider field order.
type View struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name"`
	Sector      string `json:"sector"`
	Industry    string `json:"industry"`
	Description string `json:"description"`

	Valuation     ValuationMetrics     `json:"valuation"`
	Profitability ProfitabilityMetrics `json:"profitability"`
	Growth        GrowthMetrics        `json:"growth"`
	Health        HealthMetrics        `json:"financial_health"`
	Dividends     DividendMetrics      `json:"dividends"`
}

type ValuationMetrics struct {
	TrailingPE  *float64 `json:"pe_ratio,omitempty"`
	ForwardPE   *float64 `json:"forward_pe,omitempty"`
	PriceToBook *float64 `json:"pb_ratio,omitempty"`
	PEGRatio    *float64 `json:"peg_ratio,omitempty"`
	EVToEBITDA  *float64 `json:"ev_ebitda,omitempty"`
	MarketCap   *float64 `json:"market_cap,omitempty"`
}

type ProfitabilityMetrics struct {
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`
}

type GrowthMetrics struct {
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`
}

type HealthMetrics struct {
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	FreeCashFlow *float64 `json:"free_cash_flow,omitempty"`
	TotalDebt    *float64 `json:"total_debt,omitempty"`
	TotalCash    *float64 `json:"total_cash,omitempty"`
}

type DividendMetrics struct {
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"payout_ratio,omitempty"`
}

// Growth holds compound annual growth rates of the share price. A nil rate
// means the series does not cover the window.
type Growth struct {
	CAGR5Y  *float64 `json:"cagr_5y,omitempty"`
	CAGR10Y *float64 `json:"cagr_10y,omitempty"`
}

// Service builds fundamental views.
type Service struct {
	log zerolog.Logger
}

// New creates a new fundamentals service
func New(log zerolog.Logger) *Service {
	return &Service{
		log: log.With().Str("component", "fundamentals").Logger(),
	}
}

// Organize regroups a flat snapshot into the categorized view. The company
// description is truncated so downstream tables and reports stay readable.
func (s *Service) Organize(snap *domain.Snapshot) View {
	description := snap.Description
	if len(description) > descriptionLimit {
		description = description[:descriptionLimit]
	}

	return View{
		Ticker:      snap.Ticker,
		Name:        snap.Name,
		Sector:      snap.Sector,
		Industry:    snap.Industry,
		Description: description,
		Valuation: ValuationMetrics{
			TrailingPE:  snap.TrailingPE,
			ForwardPE:   snap.ForwardPE,
			PriceToBook: snap.PriceToBook,
			PEGRatio:    snap.PEGRatio,
			EVToEBITDA:  snap.EVToEBITDA,
			MarketCap:   snap.MarketCap,
		},
		Profitability: ProfitabilityMetrics{
			GrossMargin:     snap.GrossMargin,
			OperatingMargin: snap.OperatingMargin,
			NetMargin:       snap.NetMargin,
			ROE:             snap.ROE,
			ROA:             snap.ROA,
		},
		Growth: GrowthMetrics{
			RevenueGrowth:  snap.RevenueGrowth,
			EarningsGrowth: snap.EarningsGrowth,
		},
		Health: HealthMetrics{
			DebtToEquity: snap.DebtToEquity,
			CurrentRatio: snap.CurrentRatio,
			FreeCashFlow: snap.FreeCashFlow,
			TotalDebt:    snap.TotalDebt,
			TotalCash:    snap.TotalCash,
		},
		Dividends: DividendMetrics{
			DividendYield: snap.DividendYield,
			PayoutRatio:   snap.PayoutRatio,
		},
	}
}

// HistoricalGrowth derives 5 and 10 year price CAGRs from a daily series.
// Each horizon needs the full window of observations; a shorter series
// leaves that horizon nil rather than extrapolating.
func (s *Service) HistoricalGrowth(series domain.PriceSeries) Growth {
	closes := series.Closes()
	return Growth{
		CAGR5Y:  cagr(closes, 5),
		CAGR10Y: cagr(closes, 10),
	}
}

// cagr computes (end/start)^(1/years) - 1 over the trailing window.
func cagr(closes []float64, years int) *float64 {
	window := years * tradingDaysPerYear
	if len(closes) <= window {
		return nil
	}

	start := closes[len(closes)-1-window]
	end := closes[len(closes)-1]
	if start <= 0 || end <= 0 {
		return nil
	}

	rate := math.Pow(end/start, 1/float64(years)) - 1
	return &rate
}
