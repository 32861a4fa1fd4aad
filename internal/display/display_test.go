package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
	"github.com/khan-rehan/halal-invest/internal/modules/portfolio"
	"github.com/khan-rehan/halal-invest/internal/modules/screening"
	"github.com/khan-rehan/halal-invest/internal/modules/watchlist"
)

func f(v float64) *float64 { return &v }

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    *float64
		expected string
	}{
		{"billions", f(1_500_000_000), "$1.50B"},
		{"millions", f(250_000_000), "$250.00M"},
		{"thousands", f(45_000), "$45.00K"},
		{"plain dollars", f(999.5), "$999.50"},
		{"negative", f(-2_000_000_000), "-$2.00B"},
		{"missing", nil, "N/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(tt.value))
		})
	}
}

func TestFormatPercentage(t *testing.T) {
	assert.Equal(t, "12.34%", FormatPercentage(f(0.1234)))
	assert.Equal(t, "0.00%", FormatPercentage(f(0)))
	assert.Equal(t, "-5.00%", FormatPercentage(f(-0.05)))
	assert.Equal(t, "N/A", FormatPercentage(nil))
}

func TestFormatRatio(t *testing.T) {
	assert.Equal(t, "0.23", FormatRatio(f(0.2345)))
	assert.Equal(t, "N/A", FormatRatio(nil))
}

func TestScreeningResults(t *testing.T) {
	var buf bytes.Buffer
	ScreeningResults(&buf, []screening.ComplianceReport{
		{
			Ticker:  "AAPL",
			Company: "Apple Inc.",
			Sector:  "Technology",
			Status:  domain.StatusPass,
			DebtRatio: screening.ScreenResult{
				Pass:  true,
				Value: f(0.12),
			},
		},
		{
			Ticker:  "JPM",
			Company: "JPMorgan Chase",
			Sector:  "Financial Services",
			Status:  domain.StatusFail,
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Halal Screening Results")
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "HALAL")
	assert.Contains(t, out, "NOT HALAL")
	assert.Contains(t, out, "0.12")
	assert.Contains(t, out, "N/A")
}

func TestSingleScreen(t *testing.T) {
	var buf bytes.Buffer
	SingleScreen(&buf, screening.ComplianceReport{
		Ticker:   "AAPL",
		Company:  "Apple Inc.",
		Sector:   "Technology",
		Industry: "Consumer Electronics",
		Status:   domain.StatusPass,
		BusinessActivity: screening.ScreenResult{
			Pass:   true,
			Reason: "Sector is permissible",
		},
		DebtRatio: screening.ScreenResult{
			Pass:      true,
			Value:     f(0.12),
			Threshold: 0.33,
			Reason:    "Debt is 12.00% of market cap",
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Apple Inc. (AAPL) - HALAL")
	assert.Contains(t, out, "Business Activity")
	assert.Contains(t, out, "Sector is permissible")
	assert.Contains(t, out, "0.33")
}

func TestAllocationPlan(t *testing.T) {
	t.Run("with plan", func(t *testing.T) {
		var buf bytes.Buffer
		AllocationPlan(&buf, []allocation.Allocation{
			{Ticker: "AAPL", Company: "Apple Inc.", Price: 200, Dollars: 700, Shares: 3.5},
			{Ticker: "MSFT", Company: "Microsoft", Price: 400, Dollars: 300, Shares: 0.75},
		}, 1000)

		out := buf.String()
		assert.Contains(t, out, "$1000 Investment Plan")
		assert.Contains(t, out, "$700")
		assert.Contains(t, out, "3.50")
		assert.Contains(t, out, "TOTAL")
		assert.Contains(t, out, "$1000")
	})

	t.Run("empty plan", func(t *testing.T) {
		var buf bytes.Buffer
		AllocationPlan(&buf, nil, 1000)
		assert.Contains(t, buf.String(), "No suitable candidates")
	})
}

func TestHoldings(t *testing.T) {
	summary := portfolio.Summary{
		Holdings: []portfolio.Holding{
			{Ticker: "AAPL", Shares: 10, AvgCost: 150, TotalInvested: 1500},
			{Ticker: "MSFT", Shares: 2, AvgCost: 300, TotalInvested: 600},
		},
		TotalInvested: 2100,
		TotalHoldings: 2,
	}

	t.Run("quoted holdings show P&L", func(t *testing.T) {
		var buf bytes.Buffer
		Holdings(&buf, summary, map[string]float64{"AAPL": 200})

		out := buf.String()
		assert.Contains(t, out, "$200.00") // current price
		assert.Contains(t, out, "$2000.00")
		assert.Contains(t, out, "+500.00")
		assert.Contains(t, out, "N/A") // MSFT has no quote
		assert.Contains(t, out, "Total invested: $2100.00 across 2 holdings")
	})

	t.Run("empty portfolio", func(t *testing.T) {
		var buf bytes.Buffer
		Holdings(&buf, portfolio.Summary{}, nil)
		assert.Contains(t, buf.String(), "No holdings recorded")
	})
}

func TestPortfolioSummary(t *testing.T) {
	t.Run("totals without quotes", func(t *testing.T) {
		var buf bytes.Buffer
		PortfolioSummary(&buf, portfolio.Summary{
			Holdings: []portfolio.Holding{
				{Ticker: "AAPL", Shares: 10, AvgCost: 150, TotalInvested: 1500},
			},
			TotalInvested: 1500,
			TotalHoldings: 1,
		})

		out := buf.String()
		assert.Contains(t, out, "Portfolio Summary")
		assert.Contains(t, out, "$1500.00")
		assert.Contains(t, out, "1 holdings")
		assert.NotContains(t, out, "P&L")
	})

	t.Run("empty portfolio", func(t *testing.T) {
		var buf bytes.Buffer
		PortfolioSummary(&buf, portfolio.Summary{})
		assert.Contains(t, buf.String(), "No holdings recorded")
	})
}

func TestPurificationLog(t *testing.T) {
	var buf bytes.Buffer
	PurificationLog(&buf, []portfolio.PurificationRecord{
		{Ticker: "AAPL", DividendAmount: 100, ImpurePercentage: 2.5, PurificationAmount: 2.5, Date: "2026-08-01"},
		{Ticker: "MSFT", DividendAmount: 50, ImpurePercentage: 1.0, PurificationAmount: 0.5, Date: "2026-08-15"},
	})

	out := buf.String()
	assert.Contains(t, out, "$2.50")
	assert.Contains(t, out, "$3.00") // running total to donate
}

func TestWatchlistAndAlerts(t *testing.T) {
	t.Run("entries with targets", func(t *testing.T) {
		var buf bytes.Buffer
		Watchlist(&buf, []watchlist.Entry{
			{Ticker: "AAPL", TargetBuyPrice: f(180), Notes: "wait for dip", AddedAt: "2026-08-01"},
			{Ticker: "MSFT", AddedAt: "2026-08-02"},
		})

		out := buf.String()
		assert.Contains(t, out, "$180.00")
		assert.Contains(t, out, "wait for dip")
		assert.Contains(t, out, "-") // unset targets
	})

	t.Run("alerts", func(t *testing.T) {
		var buf bytes.Buffer
		Alerts(&buf, []watchlist.Alert{
			{Ticker: "AAPL", Type: domain.SignalBuy, Target: 180, Current: 175.5},
		})
		assert.Contains(t, buf.String(), "BUY")
		assert.Contains(t, buf.String(), "$175.50")
	})

	t.Run("no alerts", func(t *testing.T) {
		var buf bytes.Buffer
		Alerts(&buf, nil)
		assert.Contains(t, buf.String(), "No price targets hit")
	})
}
