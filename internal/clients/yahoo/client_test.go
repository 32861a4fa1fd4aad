package yahoo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quoteSummaryBody = `{
  "quoteSummary": {
    "result": [{
      "assetProfile": {
        "sector": "Technology",
        "industry": "Consumer Electronics",
        "longBusinessSummary": "Designs, manufactures and markets smartphones."
      },
      "price": {
        "shortName": "Apple Inc.",
        "marketCap": {"raw": 3000000000000, "fmt": "3T"},
        "regularMarketPrice": {"raw": 228.5}
      },
      "summaryDetail": {
        "trailingPE": {"raw": 31.2},
        "dividendYield": {"raw": 0.0045},
        "fiftyTwoWeekHigh": {"raw": 240.1},
        "fiftyTwoWeekLow": {"raw": 165.3}
      },
      "financialData": {
        "currentPrice": {"raw": 229.1},
        "totalDebt": {"raw": 100000000000},
        "totalCash": {"raw": 60000000000},
        "debtToEquity": {"raw": 145.0},
        "profitMargins": {"raw": 0.25},
        "revenueGrowth": {"raw": 0.06},
        "freeCashflow": {"raw": 90000000000}
      },
      "defaultKeyStatistics": {
        "priceToBook": {"raw": 45.0},
        "pegRatio": {"raw": 2.1},
        "netReceivables": {}
      }
    }],
    "error": null
  }
}`

const quoteSummaryError = `{
  "quoteSummary": {
    "result": null,
    "error": {"code": "Not Found", "description": "Quote not found for ticker symbol: NOPE"}
  }
}`

const chartBody = `{
  "chart": {
    "result": [{
      "timestamp": [1735776000, 1735862400, 1735948800],
      "indicators": {
        "quote": [{
          "open":   [100.0, 101.5, null],
          "high":   [102.0, 103.0, null],
          "low":    [99.0, 100.5, null],
          "close":  [101.0, 102.5, null],
          "volume": [1000000, 1200000, null]
        }]
      }
    }],
    "error": null
  }
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return New(server.Client(), Config{
		BaseURL:   server.URL,
		UserAgent: "test-agent",
	}, zerolog.Nop())
}

func TestQuoteSummary(t *testing.T) {
	t.Run("maps modules into a snapshot", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/v10/finance/quoteSummary/AAPL")
			assert.Contains(t, r.URL.RawQuery, "assetProfile")
			assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
			w.Write([]byte(quoteSummaryBody))
		})

		snap, err := client.QuoteSummary(context.Background(), "AAPL")
		require.NoError(t, err)

		assert.Equal(t, "AAPL", snap.Ticker)
		assert.Equal(t, "Apple Inc.", snap.Name)
		assert.Equal(t, "Technology", snap.Sector)
		assert.Equal(t, "Consumer Electronics", snap.Industry)
		require.NotNil(t, snap.MarketCap)
		assert.Equal(t, 3.0e12, *snap.MarketCap)
		require.NotNil(t, snap.TrailingPE)
		assert.Equal(t, 31.2, *snap.TrailingPE)
		require.NotNil(t, snap.NetMargin)
		assert.Equal(t, 0.25, *snap.NetMargin)

		// Live price preferred over the regular market quote.
		require.NotNil(t, snap.CurrentPrice)
		assert.Equal(t, 229.1, *snap.CurrentPrice)

		// Absent and empty-object fields stay nil.
		assert.Nil(t, snap.InterestIncome)
		assert.Nil(t, snap.NetReceivables)
	})

	t.Run("api error envelope surfaces as an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(quoteSummaryError))
		})

		_, err := client.QuoteSummary(context.Background(), "NOPE")
		require.Error(t, err)
		assert.True(t, strings.Contains(err.Error(), "Quote not found"))
	})

	t.Run("server error surfaces as an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		_, err := client.QuoteSummary(context.Background(), "AAPL")
		assert.Error(t, err)
	})
}

func TestHistory(t *testing.T) {
	t.Run("builds a series and drops null candles", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Contains(t, r.URL.Path, "/v8/finance/chart/AAPL")
			assert.Contains(t, r.URL.RawQuery, "range=6mo")
			w.Write([]byte(chartBody))
		})

		series, err := client.History(context.Background(), "AAPL", "6mo")
		require.NoError(t, err)
		require.Len(t, series, 2)
		assert.Equal(t, 101.0, series[0].Close)
		assert.Equal(t, 102.5, series[1].Close)
		assert.Equal(t, 1200000.0, series[1].Volume)
		assert.True(t, series[0].Time.Before(series[1].Time))
	})

	t.Run("empty result is an error", func(t *testing.T) {
		client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"chart": {"result": [], "error": null}}`))
		})

		_, err := client.History(context.Background(), "AAPL", "1y")
		assert.Error(t, err)
	})
}

func TestCurrentPrice(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(quoteSummaryBody))
	})

	price, err := client.CurrentPrice(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Equal(t, 229.1, price)
}
