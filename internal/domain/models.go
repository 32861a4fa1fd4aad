// Package domain contains the core value types shared across modules.
// All types here are pure data: no I/O, no infrastructure dependencies.
package domain

import "time"

// Signal is a directional trading signal produced by the indicator engine.
type Signal string

const (
	SignalBuy  Signal = "BUY"
	SignalSell Signal = "SELL"
	SignalHold Signal = "HOLD"
	SignalNA   Signal = "N/A"

	// Volume-only signals. Informational, never part of the consensus vote.
	SignalHighVolume   Signal = "HIGH VOLUME"
	SignalNormalVolume Signal = "NORMAL"
)

// ComplianceStatus is the overall outcome of a compliance screen.
type ComplianceStatus string

const (
	StatusPass     ComplianceStatus = "PASS"
	StatusDoubtful ComplianceStatus = "DOUBTFUL"
	StatusFail     ComplianceStatus = "FAIL"
	StatusError    ComplianceStatus = "ERROR"
)

// ValuationTag classifies how a stock is priced relative to its fundamentals.
type ValuationTag string

const (
	TagUnderpriced ValuationTag = "UNDERPRICED"
	TagFairValue   ValuationTag = "FAIR VALUE"
	TagOverpriced  ValuationTag = "OVERPRICED"
)

// Candle is one OHLCV observation.
type Candle struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

// PriceSeries is an OHLCV history ordered ascending by time. The closing
// price of the last candle is the "current price" for technical purposes.
type PriceSeries []Candle

// Closes returns the closing prices in time order.
func (p PriceSeries) Closes() []float64 {
	out := make([]float64, len(p))
	for i, c := range p {
		out[i] = c.Close
	}
	return out
}

// Volumes returns the volumes in time order.
func (p PriceSeries) Volumes() []float64 {
	out := make([]float64, len(p))
	for i, c := range p {
		out[i] = c.Volume
	}
	return out
}

// LastClose returns the most recent closing price.
func (p PriceSeries) LastClose() (float64, bool) {
	if len(p) == 0 {
		return 0, false
	}
	return p[len(p)-1].Close, true
}

// Float returns a pointer to v. Convenience for building snapshots.
func Float(v float64) *float64 {
	return &v
}
