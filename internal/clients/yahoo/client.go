// Package yahoo implements the market data client against Yahoo Finance's
// public quote endpoints. All calls are rate limited and guarded by a
// circuit breaker so a provider outage degrades to fast failures instead
// of hammering a dead endpoint.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// DefaultBaseURL is the public Yahoo Finance query host.
const DefaultBaseURL = "https://query1.finance.yahoo.com"

// quoteSummaryModules are the v10 modules needed to fill a full snapshot.
const quoteSummaryModules = "assetProfile,price,summaryDetail,financialData,defaultKeyStatistics"

// Config holds Yahoo client configuration.
type Config struct {
	BaseURL   string
	UserAgent string
	// Pace is the minimum interval between requests. Zero disables pacing.
	Pace time.Duration
}

// Client is a Yahoo Finance API client.
type Client struct {
	httpClient *http.Client
	cfg        Config
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

// New creates a new Yahoo Finance client
func New(httpClient *http.Client, cfg Config, log zerolog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	limiter := rate.NewLimiter(rate.Inf, 1)
	if cfg.Pace > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Pace), 1)
	}

	clientLog := log.With().Str("client", "yahoo").Logger()
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "yahoo",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			clientLog.Warn().
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
		},
	})

	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		limiter:    limiter,
		breaker:    breaker,
		log:        clientLog,
	}
}

// QuoteSummary fetches the company attributes needed by the screening and
// scoring engines. Fields the provider does not report stay nil.
func (c *Client) QuoteSummary(ctx context.Context, ticker string) (*domain.Snapshot, error) {
	endpoint := fmt.Sprintf("%s/v10/finance/quoteSummary/%s?modules=%s",
		c.cfg.BaseURL, url.PathEscape(ticker), quoteSummaryModules)

	var envelope quoteSummaryEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch quote summary for %s: %w", ticker, err)
	}
	if envelope.QuoteSummary.Error != nil {
		return nil, fmt.Errorf("quote summary for %s: %s", ticker, envelope.QuoteSummary.Error.Description)
	}
	if len(envelope.QuoteSummary.Result) == 0 {
		return nil, fmt.Errorf("quote summary for %s: empty result", ticker)
	}

	snap := envelope.QuoteSummary.Result[0].toSnapshot(ticker)
	c.log.Debug().Str("ticker", ticker).Msg("Fetched quote summary")
	return snap, nil
}

// History fetches daily OHLCV candles for the given range (for example
// "6mo", "1y", "10y"). Candles with a missing close are dropped.
func (c *Client) History(ctx context.Context, ticker, rangeSpec string) (domain.PriceSeries, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?range=%s&interval=1d",
		c.cfg.BaseURL, url.PathEscape(ticker), url.QueryEscape(rangeSpec))

	var envelope chartEnvelope
	if err := c.getJSON(ctx, endpoint, &envelope); err != nil {
		return nil, fmt.Errorf("failed to fetch price history for %s: %w", ticker, err)
	}
	if envelope.Chart.Error != nil {
		return nil, fmt.Errorf("price history for %s: %s", ticker, envelope.Chart.Error.Description)
	}
	if len(envelope.Chart.Result) == 0 {
		return nil, fmt.Errorf("price history for %s: empty result", ticker)
	}

	series := envelope.Chart.Result[0].toSeries()
	c.log.Debug().Str("ticker", ticker).Int("candles", len(series)).Msg("Fetched price history")
	return series, nil
}

// CurrentPrice returns the live price, falling back to the previous close
// when the live quote is missing.
func (c *Client) CurrentPrice(ctx context.Context, ticker string) (float64, error) {
	snap, err := c.QuoteSummary(ctx, ticker)
	if err != nil {
		return 0, err
	}
	if snap.CurrentPrice == nil {
		return 0, fmt.Errorf("no current price for %s", ticker)
	}
	return *snap.CurrentPrice, nil
}

// getJSON performs a rate-limited, breaker-guarded GET and decodes the body.
func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	_, err := c.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("User-Agent", c.cfg.UserAgent)
		req.Header.Set("Accept", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		// 404s also carry a JSON error envelope worth decoding.
		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
			return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return nil, nil
	})
	return err
}
