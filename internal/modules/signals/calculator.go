// Package signals computes five technical indicators from a price series and
// reduces the four directional ones to a consensus trading signal.
package signals

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// Calculator derives indicator reports from OHLCV history.
type Calculator struct {
	log zerolog.Logger
}

// New creates a new calculator
func New(log zerolog.Logger) *Calculator {
	return &Calculator{
		log: log.With().Str("component", "signals").Logger(),
	}
}

// Compute runs all indicators over the series and derives the consensus.
// Fewer than two closing prices yields a fully degraded N/A report; each
// indicator otherwise resolves independently so one undefined indicator
// never blanks the rest.
func (c *Calculator) Compute(ticker string, series domain.PriceSeries) Report {
	ticker = strings.ToUpper(ticker)

	closes := series.Closes()
	if len(closes) < 2 {
		c.log.Debug().Str("ticker", ticker).Int("observations", len(closes)).Msg("Not enough price data for signals")
		return naReport(ticker)
	}

	report := Report{
		Ticker:    ticker,
		RSI:       computeRSI(closes),
		MACD:      computeMACD(closes),
		SMACross:  computeSMACross(closes),
		Bollinger: computeBollinger(closes),
		Volume:    computeVolume(series.Volumes()),
	}
	report.Overall = consensus(report.directional())

	return report
}

// consensus is the majority vote over the directional indicators: strictly
// more BUY than SELL wins, strictly more SELL than BUY wins, everything else
// (including all-N/A) is HOLD.
func consensus(votes []domain.Signal) Overall {
	buy, sell := 0, 0
	for _, s := range votes {
		switch s {
		case domain.SignalBuy:
			buy++
		case domain.SignalSell:
			sell++
		}
	}

	signal := domain.SignalHold
	if buy > sell {
		signal = domain.SignalBuy
	} else if sell > buy {
		signal = domain.SignalSell
	}

	return Overall{
		Signal: signal,
		Detail: fmt.Sprintf("%d of %d indicators suggest BUY", buy, len(votes)),
	}
}

// naReport is the degraded output for an empty or single-point series.
func naReport(ticker string) Report {
	na := "No data available"
	return Report{
		Ticker:    ticker,
		RSI:       RSIResult{Signal: domain.SignalNA, Detail: na},
		MACD:      MACDResult{Signal: domain.SignalNA, Detail: na},
		SMACross:  SMACrossResult{Signal: domain.SignalNA, Detail: na},
		Bollinger: BollingerResult{Signal: domain.SignalNA, Detail: na},
		Volume:    VolumeResult{Signal: domain.SignalNA, Detail: na},
		Overall:   Overall{Signal: domain.SignalNA, Detail: "No price data available"},
	}
}
