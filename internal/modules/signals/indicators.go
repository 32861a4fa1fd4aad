package signals

import (
	"fmt"
	"math"

	"github.com/markcheno/go-talib"
	"gonum.org/v1/gonum/stat"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// Indicator parameters. Part of the observable contract: signals are only
// comparable across runs when these match exactly.
const (
	rsiPeriod     = 14
	rsiOversold   = 30.0
	rsiOverbought = 70.0

	macdFast   = 12
	macdSlow   = 26
	macdSignal = 9

	smaFastPeriod = 50
	smaSlowPeriod = 200

	bollingerPeriod = 20
	bollingerDev    = 2.0

	volumeWindow        = 20
	highVolumeThreshold = 1.5
)

// computeRSI classifies the 14-period relative strength oscillator.
// go-talib leaves the first period values unset, so the series must cover
// at least period+1 observations.
func computeRSI(closes []float64) RSIResult {
	if len(closes) < rsiPeriod+1 {
		return RSIResult{Signal: domain.SignalNA, Detail: "Insufficient data for RSI"}
	}

	values := talib.Rsi(closes, rsiPeriod)
	latest := round2(values[len(values)-1])

	// A perfectly flat series has neither gains nor losses; the oscillator
	// is undefined there and the state is neutral. go-talib reports 0 for
	// that window (TA-Lib convention), which would read as deeply oversold,
	// so the degenerate case is detected on the input itself.
	if math.IsNaN(latest) || isFlat(closes) {
		return RSIResult{Signal: domain.SignalHold, Detail: "RSI undefined on flat prices - Neutral"}
	}

	switch {
	case latest < rsiOversold:
		return RSIResult{
			Signal: domain.SignalBuy,
			Detail: fmt.Sprintf("RSI at %.2f - Oversold (below 30)", latest),
			Value:  &latest,
		}
	case latest > rsiOverbought:
		return RSIResult{
			Signal: domain.SignalSell,
			Detail: fmt.Sprintf("RSI at %.2f - Overbought (above 70)", latest),
			Value:  &latest,
		}
	default:
		return RSIResult{
			Signal: domain.SignalHold,
			Detail: fmt.Sprintf("RSI at %.2f - Neutral range (30-70)", latest),
			Value:  &latest,
		}
	}
}

// computeMACD compares the 12/26 EMA difference line against its 9-period
// signal smoothing. The crossover-vs-sustained distinction only changes the
// detail text, never the signal.
func computeMACD(closes []float64) MACDResult {
	// go-talib needs slow+signal periods of history before both the latest
	// and the previous values are defined.
	minLen := macdSlow + macdSignal + 1
	if len(closes) < minLen {
		return MACDResult{Signal: domain.SignalNA, Detail: "Insufficient data for MACD"}
	}

	macdLine, signalLine, _ := talib.Macd(closes, macdFast, macdSlow, macdSignal)

	latestMACD := round4(macdLine[len(macdLine)-1])
	latestSignal := round4(signalLine[len(signalLine)-1])
	prevMACD := macdLine[len(macdLine)-2]
	prevSignal := signalLine[len(signalLine)-2]

	if math.IsNaN(latestMACD) || math.IsNaN(latestSignal) {
		return MACDResult{Signal: domain.SignalNA, Detail: "MACD could not be computed"}
	}

	switch {
	case latestMACD > latestSignal:
		detail := fmt.Sprintf("MACD (%.4f) above signal (%.4f) - Bullish", latestMACD, latestSignal)
		if prevMACD <= prevSignal {
			detail = fmt.Sprintf("MACD (%.4f) crossed above signal (%.4f) - Bullish crossover", latestMACD, latestSignal)
		}
		return MACDResult{Signal: domain.SignalBuy, Detail: detail, MACD: &latestMACD, SignalLine: &latestSignal}
	case latestMACD < latestSignal:
		detail := fmt.Sprintf("MACD (%.4f) below signal (%.4f) - Bearish", latestMACD, latestSignal)
		if prevMACD >= prevSignal {
			detail = fmt.Sprintf("MACD (%.4f) crossed below signal (%.4f) - Bearish crossover", latestMACD, latestSignal)
		}
		return MACDResult{Signal: domain.SignalSell, Detail: detail, MACD: &latestMACD, SignalLine: &latestSignal}
	default:
		return MACDResult{
			Signal:     domain.SignalHold,
			Detail:     fmt.Sprintf("MACD (%.4f) equal to signal (%.4f) - Neutral", latestMACD, latestSignal),
			MACD:       &latestMACD,
			SignalLine: &latestSignal,
		}
	}
}

// computeSMACross classifies the 50/200 simple moving average crossover.
// Fewer than 200 observations is a defined degraded state: HOLD with a nil
// 200-period average, regardless of the 50-period value.
func computeSMACross(closes []float64) SMACrossResult {
	var sma50 *float64
	if len(closes) >= smaFastPeriod {
		values := talib.Sma(closes, smaFastPeriod)
		v := round2(values[len(values)-1])
		sma50 = &v
	}

	if len(closes) < smaSlowPeriod {
		return SMACrossResult{
			Signal: domain.SignalHold,
			Detail: "Insufficient data for SMA 200",
			SMA50:  sma50,
		}
	}

	values := talib.Sma(closes, smaSlowPeriod)
	v := round2(values[len(values)-1])
	sma200 := &v

	switch {
	case *sma50 > *sma200:
		return SMACrossResult{
			Signal: domain.SignalBuy,
			Detail: fmt.Sprintf("SMA 50 (%.2f) above SMA 200 (%.2f) - Golden Cross territory", *sma50, *sma200),
			SMA50:  sma50,
			SMA200: sma200,
		}
	case *sma50 < *sma200:
		return SMACrossResult{
			Signal: domain.SignalSell,
			Detail: fmt.Sprintf("SMA 50 (%.2f) below SMA 200 (%.2f) - Death Cross territory", *sma50, *sma200),
			SMA50:  sma50,
			SMA200: sma200,
		}
	default:
		return SMACrossResult{
			Signal: domain.SignalHold,
			Detail: fmt.Sprintf("SMA 50 (%.2f) equal to SMA 200 (%.2f) - Neutral", *sma50, *sma200),
			SMA50:  sma50,
			SMA200: sma200,
		}
	}
}

// computeBollinger classifies the latest close against 20-period ±2σ bands.
func computeBollinger(closes []float64) BollingerResult {
	if len(closes) < bollingerPeriod {
		return BollingerResult{Signal: domain.SignalNA, Detail: "Insufficient data for Bollinger Bands"}
	}

	upperBand, middleBand, lowerBand := talib.BBands(closes, bollingerPeriod, bollingerDev, bollingerDev, talib.SMA)

	upper := round2(upperBand[len(upperBand)-1])
	middle := round2(middleBand[len(middleBand)-1])
	lower := round2(lowerBand[len(lowerBand)-1])
	price := round2(closes[len(closes)-1])

	switch {
	case price < lower:
		return BollingerResult{
			Signal: domain.SignalBuy,
			Detail: fmt.Sprintf("Price (%.2f) below lower band (%.2f) - Potentially oversold", price, lower),
			Upper:  &upper, Middle: &middle, Lower: &lower, Price: &price,
		}
	case price > upper:
		return BollingerResult{
			Signal: domain.SignalSell,
			Detail: fmt.Sprintf("Price (%.2f) above upper band (%.2f) - Potentially overbought", price, upper),
			Upper:  &upper, Middle: &middle, Lower: &lower, Price: &price,
		}
	default:
		return BollingerResult{
			Signal: domain.SignalHold,
			Detail: fmt.Sprintf("Price (%.2f) within bands (%.2f - %.2f) - Neutral", price, lower, upper),
			Upper:  &upper, Middle: &middle, Lower: &lower, Price: &price,
		}
	}
}

// computeVolume compares the latest volume to the trailing 20-period mean.
func computeVolume(volumes []float64) VolumeResult {
	if len(volumes) == 0 {
		return VolumeResult{Signal: domain.SignalNA, Detail: "No volume data available"}
	}

	window := volumes
	if len(window) > volumeWindow {
		window = window[len(window)-volumeWindow:]
	}

	avg := stat.Mean(window, nil)
	current := volumes[len(volumes)-1]

	ratio := 0.0
	if avg > 0 {
		ratio = round2(current / avg)
	}
	avgRounded := round2(avg)

	if ratio > highVolumeThreshold {
		return VolumeResult{
			Signal:  domain.SignalHighVolume,
			Detail:  fmt.Sprintf("Volume (%.0f) is %.2fx the 20-day average (%.0f) - Unusual activity", current, ratio, avg),
			Current: &current, Average: &avgRounded, Ratio: &ratio,
		}
	}
	return VolumeResult{
		Signal:  domain.SignalNormalVolume,
		Detail:  fmt.Sprintf("Volume (%.0f) is %.2fx the 20-day average (%.0f) - Normal activity", current, ratio, avg),
		Current: &current, Average: &avgRounded, Ratio: &ratio,
	}
}

// isFlat reports whether the series never moved.
func isFlat(closes []float64) bool {
	for _, c := range closes[1:] {
		if c != closes[0] {
			return false
		}
	}
	return true
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
