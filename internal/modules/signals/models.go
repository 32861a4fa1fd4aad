package signals

import "github.com/khan-rehan/halal-invest/internal/domain"

// RSIResult holds the momentum oscillator outcome.
type RSIResult struct {
	Signal domain.Signal `json:"signal"`
	Detail string        `json:"detail"`
	Value  *float64      `json:"value,omitempty"`
}

// MACDResult holds the trend convergence outcome.
type MACDResult struct {
	Signal     domain.Signal `json:"signal"`
	Detail     string        `json:"detail"`
	MACD       *float64      `json:"macd,omitempty"`
	SignalLine *float64      `json:"signal_line,omitempty"`
}

// SMACrossResult holds the 50/200 moving average crossover outcome.
// Nil averages mark the defined degraded state, not an error.
type SMACrossResult struct {
	Signal domain.Signal `json:"signal"`
	Detail string        `json:"detail"`
	SMA50  *float64      `json:"sma_50,omitempty"`
	SMA200 *float64      `json:"sma_200,omitempty"`
}

// BollingerResult holds the volatility band outcome.
type BollingerResult struct {
	Signal domain.Signal `json:"signal"`
	Detail string        `json:"detail"`
	Upper  *float64      `json:"upper,omitempty"`
	Middle *float64      `json:"middle,omitempty"`
	Lower  *float64      `json:"lower,omitempty"`
	Price  *float64      `json:"price,omitempty"`
}

// VolumeResult holds the volume activity outcome. Informational only:
// excluded from the consensus vote.
type VolumeResult struct {
	Signal    domain.Signal `json:"signal"`
	Detail    string        `json:"detail"`
	Current   *float64      `json:"current_volume,omitempty"`
	Average   *float64      `json:"avg_volume,omitempty"`
	Ratio     *float64      `json:"ratio,omitempty"`
}

// Overall is the consensus over the four directional indicators.
type Overall struct {
	Signal domain.Signal `json:"signal"`
	Detail string        `json:"detail"`
}

// Report bundles all indicator outcomes for one ticker.
type Report struct {
	Ticker    string          `json:"ticker"`
	RSI       RSIResult       `json:"rsi"`
	MACD      MACDResult      `json:"macd"`
	SMACross  SMACrossResult  `json:"sma_crossover"`
	Bollinger BollingerResult `json:"bollinger"`
	Volume    VolumeResult    `json:"volume"`
	Overall   Overall         `json:"overall"`
}

// directional returns the four signals that participate in the vote.
func (r *Report) directional() []domain.Signal {
	return []domain.Signal{r.RSI.Signal, r.MACD.Signal, r.SMACross.Signal, r.Bollinger.Signal}
}
