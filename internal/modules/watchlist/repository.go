// Package watchlist persists a set of tickers to monitor, with optional
// target buy/sell prices that trigger alerts.
package watchlist

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// Entry is one watched ticker. Nil targets mean no alert is armed on
// that side.
type Entry struct {
	ID              int64    `json:"id"`
	Ticker          string   `json:"ticker"`
	TargetBuyPrice  *float64 `json:"target_buy_price,omitempty"`
	TargetSellPrice *float64 `json:"target_sell_price,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	AddedAt         string   `json:"added_at"`
}

// Alert is a triggered price target.
type Alert struct {
	Ticker  string        `json:"ticker"`
	Type    domain.Signal `json:"alert_type"`
	Target  float64       `json:"target"`
	Current float64       `json:"current"`
}

// Repository handles watchlist database operations
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new watchlist repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "watchlist").Logger(),
	}
}

// Add puts a ticker on the watchlist. Adding a ticker that is already
// watched is a no-op, not an error.
func (r *Repository) Add(ticker, notes string) error {
	ticker = strings.ToUpper(ticker)

	var args any = notes
	if notes == "" {
		args = nil
	}
	_, err := r.db.Exec(`INSERT OR IGNORE INTO watchlist (ticker, notes) VALUES (?, ?)`, ticker, args)
	if err != nil {
		return fmt.Errorf("failed to add %s to watchlist: %w", ticker, err)
	}

	r.log.Debug().Str("ticker", ticker).Msg("Added to watchlist")
	return nil
}

// Remove drops a ticker from the watchlist. Unknown tickers are ignored.
func (r *Repository) Remove(ticker string) error {
	ticker = strings.ToUpper(ticker)
	if _, err := r.db.Exec(`DELETE FROM watchlist WHERE ticker = ?`, ticker); err != nil {
		return fmt.Errorf("failed to remove %s from watchlist: %w", ticker, err)
	}
	return nil
}

// List returns every watchlist entry, newest first.
func (r *Repository) List() ([]Entry, error) {
	rows, err := r.db.Query(`SELECT id, ticker, target_buy_price, target_sell_price, notes, added_at
		FROM watchlist ORDER BY added_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query watchlist: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var notes sql.NullString
		if err := rows.Scan(&e.ID, &e.Ticker, &e.TargetBuyPrice, &e.TargetSellPrice, &notes, &e.AddedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watchlist entry: %w", err)
		}
		e.Notes = notes.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating watchlist: %w", err)
	}

	return entries, nil
}

// SetTargets updates the target prices for a ticker, adding it to the
// watchlist first when missing. A nil price leaves that target unchanged.
func (r *Repository) SetTargets(ticker string, buyPrice, sellPrice *float64) error {
	ticker = strings.ToUpper(ticker)
	if err := r.Add(ticker, ""); err != nil {
		return err
	}

	if buyPrice != nil {
		if _, err := r.db.Exec(`UPDATE watchlist SET target_buy_price = ? WHERE ticker = ?`, *buyPrice, ticker); err != nil {
			return fmt.Errorf("failed to set buy target for %s: %w", ticker, err)
		}
	}
	if sellPrice != nil {
		if _, err := r.db.Exec(`UPDATE watchlist SET target_sell_price = ? WHERE ticker = ?`, *sellPrice, ticker); err != nil {
			return fmt.Errorf("failed to set sell target for %s: %w", ticker, err)
		}
	}

	return nil
}

// Alerts compares current prices against armed targets. A price at or
// below the buy target raises a BUY alert; at or above the sell target
// raises a SELL alert. Tickers without a quoted price are skipped.
func (r *Repository) Alerts(currentPrices map[string]float64) ([]Alert, error) {
	entries, err := r.List()
	if err != nil {
		return nil, err
	}

	var alerts []Alert
	for _, e := range entries {
		current, ok := currentPrices[e.Ticker]
		if !ok {
			continue
		}

		if e.TargetBuyPrice != nil && current <= *e.TargetBuyPrice {
			alerts = append(alerts, Alert{
				Ticker:  e.Ticker,
				Type:    domain.SignalBuy,
				Target:  *e.TargetBuyPrice,
				Current: current,
			})
		}
		if e.TargetSellPrice != nil && current >= *e.TargetSellPrice {
			alerts = append(alerts, Alert{
				Ticker:  e.Ticker,
				Type:    domain.SignalSell,
				Target:  *e.TargetSellPrice,
				Current: current,
			})
		}
	}

	return alerts, nil
}
