package scoring

import (
	"math"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// neutralScore is awarded whenever a metric is missing or meaningless
// (for example a negative P/E). Missing data never punishes a stock.
const neutralScore = 5.0

// band pairs a threshold with the sub-score awarded when the metric clears
// it. Band lists are ordered so the first matching band wins; the ladders
// live here as data so a threshold change never touches control flow.
type band struct {
	limit float64
	score float64
}

var (
	// Lower-is-better price multiples. A value below limit takes the score.
	peBands  = []band{{15, 10}, {25, 7}, {35, 4}}
	pbBands  = []band{{1.5, 10}, {3, 7}, {5, 4}}
	pegBands = []band{{1, 10}, {2, 7}, {3, 4}}

	// Higher-is-better percentage ladders. A value above limit takes the score.
	netMarginBands = []band{{20, 10}, {10, 7}, {5, 5}, {0, 3}}
	roeBands       = []band{{25, 10}, {15, 7}, {10, 5}, {0, 3}}
	roaBands       = []band{{15, 10}, {10, 7}, {5, 5}, {0, 3}}

	// Growth ladders floor at 2 rather than 1. Shrinking businesses are
	// penalized less harshly than expensive or unprofitable ones.
	revenueGrowthBands  = []band{{25, 10}, {15, 8}, {5, 6}, {0, 4}}
	earningsGrowthBands = []band{{30, 10}, {15, 8}, {5, 6}, {0, 4}}

	// Debt/equity arrives on the 0-200 percent scale, never as a decimal.
	debtToEquityBands = []band{{30, 10}, {60, 7}, {100, 5}, {150, 3}}

	// Free cash flow is an absolute-dollar ladder.
	freeCashFlowBands = []band{{10_000_000_000, 10}, {1_000_000_000, 8}, {100_000_000, 6}, {0, 4}}
)

// asPercent normalizes percentage-like metrics that providers report either
// as a decimal fraction (0.12) or pre-scaled (12). Anything with magnitude
// below 1 is assumed to be a fraction.
func asPercent(v float64) float64 {
	if math.Abs(v) < 1 {
		return v * 100
	}
	return v
}

// belowFirst returns the score of the first band the value stays under,
// or floor when it clears none.
func belowFirst(v float64, bands []band, floor float64) float64 {
	for _, b := range bands {
		if v < b.limit {
			return b.score
		}
	}
	return floor
}

// aboveFirst returns the score of the first band the value exceeds,
// or floor when it clears none.
func aboveFirst(v float64, bands []band, floor float64) float64 {
	for _, b := range bands {
		if v > b.limit {
			return b.score
		}
	}
	return floor
}

// scoreMultiple grades a lower-is-better price multiple. Missing or
// non-positive values (negative earnings, negative book) are neutral.
func scoreMultiple(v *float64, bands []band) float64 {
	if v == nil || *v <= 0 {
		return neutralScore
	}
	return belowFirst(*v, bands, 1)
}

// scorePercent grades a higher-is-better percentage metric.
func scorePercent(v *float64, bands []band, floor float64) float64 {
	if v == nil {
		return neutralScore
	}
	return aboveFirst(asPercent(*v), bands, floor)
}

func scoreDebtToEquity(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	return belowFirst(*v, debtToEquityBands, 1)
}

// scoreCurrentRatio is deliberately non-monotonic. The 2-3 band is ideal;
// above 3 the balance sheet is hoarding cash and scores slightly lower.
func scoreCurrentRatio(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	switch {
	case *v > 3:
		return 8
	case *v > 2:
		return 10
	case *v > 1.5:
		return 7
	case *v > 1:
		return 5
	default:
		return 2
	}
}

func scoreFreeCashFlow(v *float64) float64 {
	if v == nil {
		return neutralScore
	}
	return aboveFirst(*v, freeCashFlowBands, 1)
}

// scoreTechnical maps the consensus trading signal onto the sub-score scale.
func scoreTechnical(signal domain.Signal) float64 {
	switch signal {
	case domain.SignalBuy:
		return 10
	case domain.SignalHold:
		return neutralScore
	case domain.SignalSell:
		return 1
	default:
		return neutralScore
	}
}
