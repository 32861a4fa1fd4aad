// Package portfolio persists buy/sell transactions and derives holdings,
// cost basis and dividend purification records from them.
package portfolio

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrInsufficientShares is returned when a sell exceeds the held quantity.
var ErrInsufficientShares = errors.New("insufficient shares held")

// Repository handles portfolio database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new portfolio repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "portfolio").Logger(),
	}
}

// AddTransaction records a buy or sell. The date defaults to today when
// empty. Sells are validated against current holdings so the ledger can
// never go short.
func (r *Repository) AddTransaction(ticker, action string, shares, price float64, date string) error {
	ticker = strings.ToUpper(ticker)
	if action != ActionBuy && action != ActionSell {
		return fmt.Errorf("invalid action %q: must be %q or %q", action, ActionBuy, ActionSell)
	}
	if shares <= 0 {
		return fmt.Errorf("invalid share count %v: must be positive", shares)
	}
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	if action == ActionSell {
		held, err := r.sharesHeld(ticker)
		if err != nil {
			return err
		}
		if shares > held {
			return fmt.Errorf("cannot sell %v shares of %s, only %v held: %w",
				shares, ticker, held, ErrInsufficientShares)
		}
	}

	_, err := r.db.Exec(
		`INSERT INTO transactions (ticker, action, shares, price, date) VALUES (?, ?, ?, ?, ?)`,
		ticker, action, shares, price, date,
	)
	if err != nil {
		return fmt.Errorf("failed to insert transaction: %w", err)
	}

	r.log.Info().
		Str("ticker", ticker).
		Str("action", action).
		Float64("shares", shares).
		Float64("price", price).
		Msg("Recorded transaction")

	return nil
}

// Holdings derives current positions from the transaction history. Only
// tickers with remaining shares are returned, ordered by ticker. The
// average cost is weighted across every buy, not reduced by sells.
func (r *Repository) Holdings() ([]Holding, error) {
	rows, err := r.db.Query(`SELECT ticker, action, shares, price FROM transactions ORDER BY date`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	type tally struct {
		boughtShares float64
		boughtCost   float64
		soldShares   float64
	}
	tallies := make(map[string]*tally)

	for rows.Next() {
		var ticker, action string
		var shares, price float64
		if err := rows.Scan(&ticker, &action, &shares, &price); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		t := tallies[ticker]
		if t == nil {
			t = &tally{}
			tallies[ticker] = t
		}
		switch action {
		case ActionBuy:
			t.boughtShares += shares
			t.boughtCost += shares * price
		case ActionSell:
			t.soldShares += shares
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	var holdings []Holding
	for ticker, t := range tallies {
		remaining := t.boughtShares - t.soldShares
		if remaining <= 0 {
			continue
		}
		avgCost := 0.0
		if t.boughtShares > 0 {
			avgCost = t.boughtCost / t.boughtShares
		}
		holdings = append(holdings, Holding{
			Ticker:        ticker,
			Shares:        remaining,
			AvgCost:       avgCost,
			TotalInvested: remaining * avgCost,
		})
	}

	sort.Slice(holdings, func(i, j int) bool { return holdings[i].Ticker < holdings[j].Ticker })
	return holdings, nil
}

// Transactions returns the full history, newest first. An empty ticker
// returns every transaction.
func (r *Repository) Transactions(ticker string) ([]Transaction, error) {
	query := `SELECT id, ticker, action, shares, price, date FROM transactions ORDER BY date DESC, id DESC`
	args := []any{}
	if ticker != "" {
		query = `SELECT id, ticker, action, shares, price, date FROM transactions
			WHERE ticker = ? ORDER BY date DESC, id DESC`
		args = append(args, strings.ToUpper(ticker))
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []Transaction
	for rows.Next() {
		var t Transaction
		if err := rows.Scan(&t.ID, &t.Ticker, &t.Action, &t.Shares, &t.Price, &t.Date); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return txns, nil
}

// Summary aggregates holdings into a portfolio overview.
func (r *Repository) Summary() (Summary, error) {
	holdings, err := r.Holdings()
	if err != nil {
		return Summary{}, err
	}

	total := 0.0
	for _, h := range holdings {
		total += h.TotalInvested
	}

	return Summary{
		Holdings:      holdings,
		TotalInvested: total,
		TotalHoldings: len(holdings),
	}, nil
}

// LogPurification records a dividend purification: the impure percentage of
// a received dividend that should be given away. Returns the calculated
// purification amount.
func (r *Repository) LogPurification(ticker string, impurePct, dividendAmount float64) (float64, error) {
	ticker = strings.ToUpper(ticker)
	amount := dividendAmount * (impurePct / 100)
	date := time.Now().Format("2006-01-02")

	_, err := r.db.Exec(
		`INSERT INTO purification_log (ticker, impure_percentage, dividend_amount, purification_amount, date)
		VALUES (?, ?, ?, ?, ?)`,
		ticker, impurePct, dividendAmount, amount, date,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert purification record: %w", err)
	}

	r.log.Info().
		Str("ticker", ticker).
		Float64("amount", amount).
		Msg("Logged purification")

	return amount, nil
}

// PurificationLog returns all purification records, newest first.
func (r *Repository) PurificationLog() ([]PurificationRecord, error) {
	rows, err := r.db.Query(`SELECT id, ticker, impure_percentage, dividend_amount, purification_amount, date
		FROM purification_log ORDER BY date DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query purification log: %w", err)
	}
	defer rows.Close()

	var records []PurificationRecord
	for rows.Next() {
		var rec PurificationRecord
		if err := rows.Scan(&rec.ID, &rec.Ticker, &rec.ImpurePercentage, &rec.DividendAmount,
			&rec.PurificationAmount, &rec.Date); err != nil {
			return nil, fmt.Errorf("failed to scan purification record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating purification log: %w", err)
	}

	return records, nil
}

// sharesHeld returns the net share count currently held for one ticker.
func (r *Repository) sharesHeld(ticker string) (float64, error) {
	holdings, err := r.Holdings()
	if err != nil {
		return 0, err
	}
	for _, h := range holdings {
		if h.Ticker == ticker {
			return h.Shares, nil
		}
	}
	return 0, nil
}
