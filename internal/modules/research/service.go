// Package research orchestrates the full evaluation of a ticker: compliance
// screen, fundamentals, technical signals, composite score and valuation
// tag, plus batch and filtered-universe variants.
package research

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/fundamentals"
	"github.com/khan-rehan/halal-invest/internal/modules/screening"
	"github.com/khan-rehan/halal-invest/internal/modules/scoring"
	"github.com/khan-rehan/halal-invest/internal/modules/signals"
)

// History ranges used per concern. Signals follow the six month window the
// indicators were tuned on; growth needs a decade for the 10-year CAGR.
const (
	signalsRange = "6mo"
	growthRange  = "10y"
)

// MarketData is the slice of the quote provider the research service needs.
type MarketData interface {
	QuoteSummary(ctx context.Context, ticker string) (*domain.Snapshot, error)
	History(ctx context.Context, ticker, rangeSpec string) (domain.PriceSeries, error)
}

// Universe resolves the candidate ticker set for filtered scans.
type Universe interface {
	SPUSTickers(ctx context.Context) ([]string, error)
}

// Result is the complete research output for one ticker.
type Result struct {
	Ticker       string                     `json:"ticker"`
	Snapshot     *domain.Snapshot           `json:"snapshot"`
	Compliance   screening.ComplianceReport `json:"compliance"`
	Fundamentals fundamentals.View          `json:"fundamentals"`
	Growth       fundamentals.Growth        `json:"growth"`
	Signals      signals.Report             `json:"signals"`
	Score        scoring.Breakdown          `json:"score"`
	Tag          domain.ValuationTag        `json:"valuation_tag"`
}

// BatchItem pairs a ticker with its result or its failure. One ticker's
// error never aborts the batch.
type BatchItem struct {
	Ticker string
	Result *Result
	Err    error
}

// Criteria filters a universe scan. Percentage minimums are on the percent
// scale (10 means 10%). Valuation and Signal accept "ALL" to disable.
type Criteria struct {
	Valuation        string
	Signal           string
	MinCAGR5Y        float64
	MinCAGR10Y       float64
	MinRevenueGrowth float64
}

// Service runs research evaluations.
type Service struct {
	market   MarketData
	universe Universe
	screener *screening.Screener
	calc     *signals.Calculator
	scorer   *scoring.Scorer
	funds    *fundamentals.Service
	log      zerolog.Logger
}

// New creates a new research service
func New(market MarketData, universe Universe, log zerolog.Logger) *Service {
	return &Service{
		market:   market,
		universe: universe,
		screener: screening.New(log),
		calc:     signals.New(log),
		scorer:   scoring.New(log),
		funds:    fundamentals.New(log),
		log:      log.With().Str("component", "research").Logger(),
	}
}

// Evaluate runs the full pipeline for one ticker. A failed snapshot fetch
// fails the evaluation; a failed or short price history only degrades the
// signal and growth sections.
func (s *Service) Evaluate(ctx context.Context, ticker string) (*Result, error) {
	ticker = strings.ToUpper(ticker)

	snap, err := s.market.QuoteSummary(ctx, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch snapshot for %s: %w", ticker, err)
	}

	report := s.calc.Compute(ticker, s.history(ctx, ticker, signalsRange))
	growth := s.funds.HistoricalGrowth(s.history(ctx, ticker, growthRange))

	result := &Result{
		Ticker:       ticker,
		Snapshot:     snap,
		Compliance:   s.screener.Evaluate(ticker, snap),
		Fundamentals: s.funds.Organize(snap),
		Growth:       growth,
		Signals:      report,
		Score:        s.scorer.Score(snap, &report),
		Tag:          scoring.Classify(snap),
	}

	s.log.Debug().
		Str("ticker", ticker).
		Str("status", string(result.Compliance.Status)).
		Float64("score", result.Score.Composite).
		Str("tag", string(result.Tag)).
		Msg("Evaluated ticker")

	return result, nil
}

// EvaluateBatch evaluates tickers sequentially, isolating per-ticker
// failures. The context aborts the remainder of the batch.
func (s *Service) EvaluateBatch(ctx context.Context, tickers []string) []BatchItem {
	items := make([]BatchItem, 0, len(tickers))
	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			items = append(items, BatchItem{Ticker: strings.ToUpper(ticker), Err: err})
			continue
		}

		result, err := s.Evaluate(ctx, ticker)
		if err != nil {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("Evaluation failed, continuing batch")
		}
		items = append(items, BatchItem{Ticker: strings.ToUpper(ticker), Result: result, Err: err})
	}
	return items
}

// Filter scans the SPUS universe and returns the results matching the
// criteria, best score first.
func (s *Service) Filter(ctx context.Context, criteria Criteria) ([]*Result, error) {
	tickers, err := s.universe.SPUSTickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve universe: %w", err)
	}

	var matched []*Result
	for _, item := range s.EvaluateBatch(ctx, tickers) {
		if item.Err != nil || item.Result == nil {
			continue
		}
		if matches(item.Result, criteria) {
			matched = append(matched, item.Result)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Score.Composite > matched[j].Score.Composite
	})

	s.log.Info().
		Int("universe", len(tickers)).
		Int("matched", len(matched)).
		Msg("Filtered universe")

	return matched, nil
}

func matches(r *Result, c Criteria) bool {
	if v := strings.ToUpper(strings.TrimSpace(c.Valuation)); v != "" && v != "ALL" {
		if string(r.Tag) != v {
			return false
		}
	}
	if sig := strings.ToUpper(strings.TrimSpace(c.Signal)); sig != "" && sig != "ALL" {
		if string(r.Signals.Overall.Signal) != sig {
			return false
		}
	}
	if !exceeds(r.Growth.CAGR5Y, c.MinCAGR5Y/100) {
		return false
	}
	if !exceeds(r.Growth.CAGR10Y, c.MinCAGR10Y/100) {
		return false
	}
	if !exceeds(r.Snapshot.RevenueGrowth, c.MinRevenueGrowth/100) {
		return false
	}
	return true
}

// exceeds requires a present value strictly above the minimum. Missing
// growth data excludes a candidate from filtered scans.
func exceeds(v *float64, min float64) bool {
	return v != nil && *v > min
}

// history fetches a range, degrading to an empty series on failure so the
// downstream sections resolve to their defined N/A states.
func (s *Service) history(ctx context.Context, ticker, rangeSpec string) domain.PriceSeries {
	series, err := s.market.History(ctx, ticker, rangeSpec)
	if err != nil {
		s.log.Warn().Str("ticker", ticker).Str("range", rangeSpec).Err(err).Msg("Price history unavailable")
		return nil
	}
	return series
}
