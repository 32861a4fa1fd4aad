package research

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

type stubMarket struct {
	snapshots map[string]*domain.Snapshot
	histories map[string]domain.PriceSeries
	snapErr   map[string]error
	histErr   error
}

func (m *stubMarket) QuoteSummary(_ context.Context, ticker string) (*domain.Snapshot, error) {
	if err := m.snapErr[ticker]; err != nil {
		return nil, err
	}
	snap, ok := m.snapshots[ticker]
	if !ok {
		return nil, errors.New("unknown ticker")
	}
	return snap, nil
}

func (m *stubMarket) History(_ context.Context, ticker, _ string) (domain.PriceSeries, error) {
	if m.histErr != nil {
		return nil, m.histErr
	}
	return m.histories[ticker], nil
}

type stubUniverse struct {
	tickers []string
	err     error
}

func (u *stubUniverse) SPUSTickers(context.Context) ([]string, error) {
	return u.tickers, u.err
}

func flatSeries(n int, price, volume float64) domain.PriceSeries {
	start := time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC)
	series := make(domain.PriceSeries, n)
	for i := range series {
		series[i] = domain.Candle{Time: start.AddDate(0, 0, i), Close: price, Volume: volume}
	}
	return series
}

func compliantSnapshot(ticker string) *domain.Snapshot {
	return &domain.Snapshot{
		Ticker:        ticker,
		Name:          ticker + " Corp",
		Sector:        "Technology",
		Industry:      "Software - Application",
		MarketCap:     domain.Float(1e12),
		TotalDebt:     domain.Float(1e11),
		TrailingPE:    domain.Float(20),
		NetMargin:     domain.Float(0.20),
		RevenueGrowth: domain.Float(0.12),
		CurrentPrice:  domain.Float(100),
	}
}

func TestEvaluate(t *testing.T) {
	market := &stubMarket{
		snapshots: map[string]*domain.Snapshot{"AAPL": compliantSnapshot("AAPL")},
		histories: map[string]domain.PriceSeries{"AAPL": flatSeries(60, 100, 1e6)},
	}
	svc := New(market, &stubUniverse{}, zerolog.Nop())

	t.Run("produces every section", func(t *testing.T) {
		result, err := svc.Evaluate(context.Background(), "aapl")
		require.NoError(t, err)

		assert.Equal(t, "AAPL", result.Ticker)
		assert.Equal(t, domain.StatusPass, result.Compliance.Status)
		assert.Equal(t, "AAPL Corp", result.Fundamentals.Name)
		assert.NotZero(t, result.Score.Composite)
		assert.NotEmpty(t, result.Tag)
		// 60 flat observations: RSI undefined, no 200-day average.
		assert.Equal(t, domain.SignalHold, result.Signals.Overall.Signal)
		// Too short for any CAGR window.
		assert.Nil(t, result.Growth.CAGR5Y)
	})

	t.Run("snapshot failure fails the evaluation", func(t *testing.T) {
		failing := &stubMarket{snapErr: map[string]error{"DOWN": errors.New("provider offline")}}
		_, err := New(failing, &stubUniverse{}, zerolog.Nop()).Evaluate(context.Background(), "DOWN")
		assert.Error(t, err)
	})

	t.Run("history failure degrades signals instead of failing", func(t *testing.T) {
		degraded := &stubMarket{
			snapshots: map[string]*domain.Snapshot{"AAPL": compliantSnapshot("AAPL")},
			histErr:   errors.New("chart endpoint down"),
		}
		result, err := New(degraded, &stubUniverse{}, zerolog.Nop()).Evaluate(context.Background(), "AAPL")
		require.NoError(t, err)
		assert.Equal(t, domain.SignalNA, result.Signals.Overall.Signal)
		assert.Nil(t, result.Growth.CAGR5Y)
		assert.Equal(t, domain.StatusPass, result.Compliance.Status)
	})
}

func TestEvaluateBatch(t *testing.T) {
	market := &stubMarket{
		snapshots: map[string]*domain.Snapshot{
			"AAPL": compliantSnapshot("AAPL"),
			"MSFT": compliantSnapshot("MSFT"),
		},
		snapErr: map[string]error{"BAD": errors.New("no such ticker")},
	}
	svc := New(market, &stubUniverse{}, zerolog.Nop())

	items := svc.EvaluateBatch(context.Background(), []string{"AAPL", "BAD", "MSFT"})
	require.Len(t, items, 3)

	assert.NoError(t, items[0].Err)
	assert.Error(t, items[1].Err)
	assert.Nil(t, items[1].Result)
	// The failure in the middle does not stop the batch.
	assert.NoError(t, items[2].Err)
	assert.Equal(t, "MSFT", items[2].Result.Ticker)
}

func TestFilter(t *testing.T) {
	grower := compliantSnapshot("GROW")
	grower.RevenueGrowth = domain.Float(0.25)

	slow := compliantSnapshot("SLOW")
	slow.RevenueGrowth = domain.Float(0.01)

	// Ten years of history rising from 25 to 100 covers both CAGR windows.
	history := make(domain.PriceSeries, 2521)
	start := time.Date(2016, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := range history {
		history[i] = domain.Candle{
			Time:   start.AddDate(0, 0, i),
			Close:  25 + 75*float64(i)/2520,
			Volume: 1e6,
		}
	}

	market := &stubMarket{
		snapshots: map[string]*domain.Snapshot{"GROW": grower, "SLOW": slow},
		histories: map[string]domain.PriceSeries{"GROW": history, "SLOW": history},
	}
	universe := &stubUniverse{tickers: []string{"GROW", "SLOW"}}
	svc := New(market, universe, zerolog.Nop())

	t.Run("applies growth minimums", func(t *testing.T) {
		results, err := svc.Filter(context.Background(), Criteria{
			Valuation:        "ALL",
			Signal:           "ALL",
			MinCAGR5Y:        5,
			MinCAGR10Y:       5,
			MinRevenueGrowth: 10,
		})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "GROW", results[0].Ticker)
	})

	t.Run("missing growth data excludes a candidate", func(t *testing.T) {
		noHistory := &stubMarket{
			snapshots: map[string]*domain.Snapshot{"GROW": grower},
			histories: map[string]domain.PriceSeries{},
		}
		svcNoHist := New(noHistory, &stubUniverse{tickers: []string{"GROW"}}, zerolog.Nop())

		results, err := svcNoHist.Filter(context.Background(), Criteria{Valuation: "ALL", Signal: "ALL"})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("universe failure surfaces", func(t *testing.T) {
		broken := New(market, &stubUniverse{err: errors.New("csv down")}, zerolog.Nop())
		_, err := broken.Filter(context.Background(), Criteria{})
		assert.Error(t, err)
	})
}
