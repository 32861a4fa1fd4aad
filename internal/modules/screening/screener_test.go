package screening

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

func TestBusinessActivity(t *testing.T) {
	tests := []struct {
		name     string
		ticker   string
		sector   string
		industry string
		wantPass bool
	}{
		{"technology passes", "AAPL", "Technology", "Consumer Electronics", true},
		{"financial services fails", "JPM", "Financial Services", "Banks - Diversified", false},
		{"financials fails", "GS", "Financials", "Capital Markets", false},
		{"alcohol industry fails", "STZ", "Consumer Staples", "Alcoholic Beverages", false},
		{"tobacco industry fails", "MO", "Consumer Staples", "Tobacco", false},
		{"gambling industry fails", "LVS", "Consumer Discretionary", "Casinos & Gaming", false},
		{"defense industry fails", "LMT", "Industrials", "Aerospace & Defense", false},
		{"brewers fails", "TAP", "Consumer Defensive", "Beverages - Brewers", false},
		{"wineries and distilleries fails", "BF-B", "Consumer Defensive", "Beverages - Wineries & Distilleries", false},
		{"resorts and casinos fails", "WYNN", "Consumer Cyclical", "Resorts & Casinos", false},
		{"missing sector passes", "XYZ", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := &domain.Snapshot{Sector: tt.sector, Industry: tt.industry}
			result := screenBusinessActivity(tt.ticker, snap)
			assert.Equal(t, tt.wantPass, result.Pass)
		})
	}
}

func TestBusinessActivityCuratedTickers(t *testing.T) {
	t.Run("curated ticker fails despite compliant labels", func(t *testing.T) {
		snap := &domain.Snapshot{Sector: "Communication Services", Industry: "Entertainment"}
		result := screenBusinessActivity("NFLX", snap)
		assert.False(t, result.Pass)
		assert.Contains(t, result.Reason, "explicit content")
	})

	t.Run("curated ticker reason names the exposure", func(t *testing.T) {
		snap := &domain.Snapshot{Sector: "Industrials", Industry: "Conglomerates"}
		result := screenBusinessActivity("HON", snap)
		assert.False(t, result.Pass)
		assert.Contains(t, result.Reason, "defense")
	})

	t.Run("curated lookup is case insensitive", func(t *testing.T) {
		snap := &domain.Snapshot{Sector: "Communication Services", Industry: "Entertainment"}
		result := screenBusinessActivity("nflx", snap)
		assert.False(t, result.Pass)
	})

	t.Run("non-curated ticker passes", func(t *testing.T) {
		snap := &domain.Snapshot{Sector: "Technology", Industry: "Consumer Electronics"}
		result := screenBusinessActivity("AAPL", snap)
		assert.True(t, result.Pass)
	})
}

func TestDebtRatio(t *testing.T) {
	t.Run("low debt passes", func(t *testing.T) {
		snap := &domain.Snapshot{TotalDebt: domain.Float(100_000), MarketCap: domain.Float(1_000_000)}
		result := screenDebtRatio(snap)
		assert.True(t, result.Pass)
		require.NotNil(t, result.Value)
		assert.InDelta(t, 0.1, *result.Value, 1e-9)
	})

	t.Run("high debt fails", func(t *testing.T) {
		snap := &domain.Snapshot{TotalDebt: domain.Float(500_000), MarketCap: domain.Float(1_000_000)}
		result := screenDebtRatio(snap)
		assert.False(t, result.Pass)
	})

	t.Run("exact threshold fails", func(t *testing.T) {
		snap := &domain.Snapshot{TotalDebt: domain.Float(330_000), MarketCap: domain.Float(1_000_000)}
		result := screenDebtRatio(snap)
		assert.False(t, result.Pass)
	})

	t.Run("missing data assumed compliant", func(t *testing.T) {
		result := screenDebtRatio(&domain.Snapshot{})
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})

	t.Run("zero market cap assumed compliant", func(t *testing.T) {
		snap := &domain.Snapshot{TotalDebt: domain.Float(100_000), MarketCap: domain.Float(0)}
		result := screenDebtRatio(snap)
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})
}

func TestLiquidAssets(t *testing.T) {
	t.Run("low liquid assets passes", func(t *testing.T) {
		snap := &domain.Snapshot{
			TotalCash:            domain.Float(100_000),
			ShortTermInvestments: domain.Float(50_000),
			MarketCap:            domain.Float(1_000_000),
		}
		result := screenLiquidAssets(snap)
		assert.True(t, result.Pass)
	})

	t.Run("high liquid assets fails", func(t *testing.T) {
		snap := &domain.Snapshot{
			TotalCash:            domain.Float(300_000),
			ShortTermInvestments: domain.Float(100_000),
			MarketCap:            domain.Float(1_000_000),
		}
		result := screenLiquidAssets(snap)
		assert.False(t, result.Pass)
	})

	t.Run("missing cash components default to zero", func(t *testing.T) {
		snap := &domain.Snapshot{MarketCap: domain.Float(1_000_000)}
		result := screenLiquidAssets(snap)
		assert.True(t, result.Pass)
		require.NotNil(t, result.Value)
		assert.Equal(t, 0.0, *result.Value)
	})

	t.Run("missing market cap assumed compliant", func(t *testing.T) {
		result := screenLiquidAssets(&domain.Snapshot{})
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})
}

func TestImpureIncome(t *testing.T) {
	t.Run("no interest passes", func(t *testing.T) {
		snap := &domain.Snapshot{InterestExpense: domain.Float(0), TotalRevenue: domain.Float(1_000_000)}
		result := screenImpureIncome(snap)
		assert.True(t, result.Pass)
	})

	t.Run("high interest fails", func(t *testing.T) {
		snap := &domain.Snapshot{InterestExpense: domain.Float(-100_000), TotalRevenue: domain.Float(1_000_000)}
		result := screenImpureIncome(snap)
		assert.False(t, result.Pass)
	})

	t.Run("low interest passes", func(t *testing.T) {
		snap := &domain.Snapshot{InterestExpense: domain.Float(-10_000), TotalRevenue: domain.Float(1_000_000)}
		result := screenImpureIncome(snap)
		assert.True(t, result.Pass)
	})

	t.Run("interest income used when higher", func(t *testing.T) {
		snap := &domain.Snapshot{
			InterestExpense: domain.Float(-10_000),
			InterestIncome:  domain.Float(80_000),
			TotalRevenue:    domain.Float(1_000_000),
		}
		result := screenImpureIncome(snap)
		assert.False(t, result.Pass)
		require.NotNil(t, result.Value)
		assert.InDelta(t, 0.08, *result.Value, 1e-9)
	})

	t.Run("exact threshold fails", func(t *testing.T) {
		snap := &domain.Snapshot{InterestIncome: domain.Float(50_000), TotalRevenue: domain.Float(1_000_000)}
		result := screenImpureIncome(snap)
		assert.False(t, result.Pass)
	})

	t.Run("missing revenue assumed compliant", func(t *testing.T) {
		result := screenImpureIncome(&domain.Snapshot{})
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})
}

func TestReceivables(t *testing.T) {
	t.Run("low receivables passes", func(t *testing.T) {
		snap := &domain.Snapshot{NetReceivables: domain.Float(100_000), MarketCap: domain.Float(1_000_000)}
		result := screenReceivables(snap)
		assert.True(t, result.Pass)
	})

	t.Run("high receivables fails", func(t *testing.T) {
		snap := &domain.Snapshot{NetReceivables: domain.Float(400_000), MarketCap: domain.Float(1_000_000)}
		result := screenReceivables(snap)
		assert.False(t, result.Pass)
	})

	t.Run("missing data marked doubtful", func(t *testing.T) {
		result := screenReceivables(&domain.Snapshot{})
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})

	t.Run("zero market cap", func(t *testing.T) {
		snap := &domain.Snapshot{NetReceivables: domain.Float(100_000), MarketCap: domain.Float(0)}
		result := screenReceivables(snap)
		assert.True(t, result.Pass)
		assert.Nil(t, result.Value)
	})
}

func TestOverallStatus(t *testing.T) {
	screener := New(zerolog.Nop())

	fullSnapshot := func() *domain.Snapshot {
		return &domain.Snapshot{
			Name:            "Example Corp",
			Sector:          "Technology",
			Industry:        "Software - Application",
			MarketCap:       domain.Float(10_000_000),
			TotalDebt:       domain.Float(1_000_000),
			TotalCash:       domain.Float(500_000),
			NetReceivables:  domain.Float(200_000),
			TotalRevenue:    domain.Float(5_000_000),
			InterestExpense: domain.Float(-50_000),
		}
	}

	t.Run("all screens pass", func(t *testing.T) {
		report := screener.Evaluate("EXM", fullSnapshot())
		assert.Equal(t, domain.StatusPass, report.Status)
	})

	t.Run("missing ratio input marks doubtful", func(t *testing.T) {
		snap := fullSnapshot()
		snap.NetReceivables = nil
		report := screener.Evaluate("EXM", snap)
		assert.Equal(t, domain.StatusDoubtful, report.Status)
	})

	t.Run("fail wins over doubtful", func(t *testing.T) {
		snap := fullSnapshot()
		snap.NetReceivables = nil
		snap.TotalDebt = domain.Float(5_000_000)
		report := screener.Evaluate("EXM", snap)
		assert.Equal(t, domain.StatusFail, report.Status)
	})

	t.Run("business activity fail marks fail", func(t *testing.T) {
		snap := fullSnapshot()
		snap.Sector = "Financial Services"
		report := screener.Evaluate("EXM", snap)
		assert.Equal(t, domain.StatusFail, report.Status)
	})

	t.Run("evaluate is deterministic", func(t *testing.T) {
		first := screener.Evaluate("EXM", fullSnapshot())
		second := screener.Evaluate("EXM", fullSnapshot())
		assert.Equal(t, first, second)
	})
}

type stubFetcher struct {
	snapshots map[string]*domain.Snapshot
}

func (s *stubFetcher) QuoteSummary(_ context.Context, ticker string) (*domain.Snapshot, error) {
	snap, ok := s.snapshots[ticker]
	if !ok {
		return nil, errors.New("provider unavailable")
	}
	return snap, nil
}

func TestEvaluateBatchIsolatesFailures(t *testing.T) {
	screener := New(zerolog.Nop())
	fetch := &stubFetcher{snapshots: map[string]*domain.Snapshot{
		"AAPL": {
			Name:           "Apple Inc.",
			Sector:         "Technology",
			Industry:       "Consumer Electronics",
			MarketCap:      domain.Float(3_000_000),
			TotalDebt:      domain.Float(100_000),
			TotalCash:      domain.Float(60_000),
			NetReceivables: domain.Float(60_000),
			TotalRevenue:   domain.Float(400_000),
		},
	}}

	reports := screener.EvaluateBatch(context.Background(), []string{"AAPL", "BROKEN"}, fetch)

	require.Len(t, reports, 2)
	assert.Equal(t, domain.StatusPass, reports[0].Status)
	assert.Equal(t, domain.StatusError, reports[1].Status)
	assert.Equal(t, "BROKEN", reports[1].Ticker)
}
