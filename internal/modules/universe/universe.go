// Package universe resolves the candidate stock universes: the full S&P 500
// constituent list and the holdings of the SPUS sharia-screened ETF.
package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rs/zerolog"
)

const (
	// DefaultSP500URL is the Wikipedia page listing current S&P 500
	// constituents. The first table on the page carries id=constituents.
	DefaultSP500URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"

	// DefaultSPUSURL is the ETF provider's daily holdings CSV.
	DefaultSPUSURL = "https://www.sp-funds.com/wp-content/uploads/data/TidalFG_Holdings_SPUS.csv"
)

// Holding is one SPUS ETF position as published in the daily CSV. Numeric
// fields are nil when the CSV cell does not parse.
type Holding struct {
	Ticker      string   `json:"ticker"`
	Name        string   `json:"name"`
	Weight      *float64 `json:"weight,omitempty"`
	Shares      *float64 `json:"shares,omitempty"`
	Price       *float64 `json:"price,omitempty"`
	MarketValue *float64 `json:"market_value,omitempty"`
}

// Config holds universe client configuration.
type Config struct {
	SP500URL  string
	SPUSURL   string
	UserAgent string
}

// Client fetches candidate universes from their public sources.
type Client struct {
	httpClient *http.Client
	cfg        Config
	log        zerolog.Logger
}

// NewClient creates a new universe client
func NewClient(httpClient *http.Client, cfg Config, log zerolog.Logger) *Client {
	if cfg.SP500URL == "" {
		cfg.SP500URL = DefaultSP500URL
	}
	if cfg.SPUSURL == "" {
		cfg.SPUSURL = DefaultSPUSURL
	}
	return &Client{
		httpClient: httpClient,
		cfg:        cfg,
		log:        log.With().Str("client", "universe").Logger(),
	}
}

// SP500Tickers scrapes the current S&P 500 symbols. Dots in class share
// symbols become dashes (BRK.B -> BRK-B) to match the quote provider's
// convention. The result is sorted.
func (c *Client) SP500Tickers(ctx context.Context) ([]string, error) {
	body, err := c.get(ctx, c.cfg.SP500URL, "text/html")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse constituents page: %w", err)
	}

	var tickers []string
	doc.Find("table#constituents tbody tr").Each(func(_ int, row *goquery.Selection) {
		symbol := strings.TrimSpace(row.Find("td").First().Text())
		if symbol == "" {
			return
		}
		tickers = append(tickers, strings.ReplaceAll(symbol, ".", "-"))
	})

	if len(tickers) == 0 {
		return nil, fmt.Errorf("no constituents found at %s", c.cfg.SP500URL)
	}

	sort.Strings(tickers)
	c.log.Info().Int("count", len(tickers)).Msg("Fetched S&P 500 constituents")
	return tickers, nil
}

// SPUSTickers returns the sorted symbols of the current SPUS holdings.
func (c *Client) SPUSTickers(ctx context.Context) ([]string, error) {
	holdings, err := c.SPUSHoldings(ctx)
	if err != nil {
		return nil, err
	}

	tickers := make([]string, 0, len(holdings))
	for _, h := range holdings {
		tickers = append(tickers, h.Ticker)
	}
	sort.Strings(tickers)
	return tickers, nil
}

// SPUSHoldings downloads and parses the daily holdings CSV. Cash positions
// and non-equity lines are filtered out.
func (c *Client) SPUSHoldings(ctx context.Context) ([]Holding, error) {
	body, err := c.get(ctx, c.cfg.SPUSURL, "text/csv")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	reader := csv.NewReader(body)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read holdings CSV header: %w", err)
	}
	col := make(map[string]int, len(header))
	for i, name := range header {
		col[strings.TrimSpace(name)] = i
	}

	var holdings []Holding
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read holdings CSV row: %w", err)
		}

		ticker := strings.TrimSpace(field(record, col, "StockTicker"))
		if !isEquityTicker(ticker) {
			continue
		}
		name := strings.TrimSpace(field(record, col, "SecurityName"))
		if isCashLine(name) {
			continue
		}

		holdings = append(holdings, Holding{
			Ticker:      ticker,
			Name:        name,
			Weight:      parseFloat(field(record, col, "Weightings")),
			Shares:      parseFloat(field(record, col, "Shares")),
			Price:       parseFloat(field(record, col, "Price")),
			MarketValue: parseFloat(field(record, col, "MarketValue")),
		})
	}

	c.log.Info().Int("count", len(holdings)).Msg("Fetched SPUS holdings")
	return holdings, nil
}

func (c *Client) get(ctx context.Context, url, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", c.cfg.UserAgent)
	req.Header.Set("Accept", accept)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d fetching %s", resp.StatusCode, url)
	}
	return resp.Body, nil
}

func field(record []string, col map[string]int, name string) string {
	i, ok := col[name]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// isEquityTicker rejects empty, cash and other non-stock ticker cells.
func isEquityTicker(ticker string) bool {
	if ticker == "" {
		return false
	}
	switch strings.ToUpper(ticker) {
	case "CASH", "CASHANDOTHER", "CASH&OTHER":
		return false
	}
	for _, r := range ticker {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

// isCashLine catches cash sweep rows whose ticker cell looks like a symbol.
func isCashLine(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "cash") && strings.Contains(lower, "other")
}

func parseFloat(s string) *float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &v
}
