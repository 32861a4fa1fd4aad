package scoring

import "github.com/khan-rehan/halal-invest/internal/domain"

// Valuation vote thresholds. Each metric casts one vote of cheap, fair or
// expensive; a metric whose data is missing or non-positive votes fair.
const (
	peCheapBelow  = 15.0
	peFairUpTo    = 25.0
	pbCheapBelow  = 1.5
	pbFairUpTo    = 3.0
	pegCheapBelow = 1.0
	pegFairUpTo   = 2.0

	rangeCheapBelow = 0.33
	rangeFairUpTo   = 0.66
)

type votes struct {
	cheap     int
	fair      int
	expensive int
}

// Classify tags a stock as UNDERPRICED, FAIR VALUE or OVERPRICED by majority
// vote over four metrics: P/E, P/B, PEG and the position of the current
// price within the 52-week range.
//
// The tie-break is asymmetric on purpose. Cheap wins any tie against fair or
// expensive, while expensive must strictly beat cheap. A split vote therefore
// leans toward UNDERPRICED, never OVERPRICED.
func Classify(snap *domain.Snapshot) domain.ValuationTag {
	var v votes

	v.castMultiple(snap.TrailingPE, peCheapBelow, peFairUpTo)
	v.castMultiple(snap.PriceToBook, pbCheapBelow, pbFairUpTo)
	v.castMultiple(snap.PEGRatio, pegCheapBelow, pegFairUpTo)
	v.castRangePosition(snap.CurrentPrice, snap.FiftyTwoWeekHigh, snap.FiftyTwoWeekLow)

	switch {
	case v.cheap >= v.fair && v.cheap >= v.expensive:
		return domain.TagUnderpriced
	case v.expensive >= v.fair && v.expensive > v.cheap:
		return domain.TagOverpriced
	default:
		return domain.TagFairValue
	}
}

// castMultiple votes on a lower-is-better price multiple.
func (v *votes) castMultiple(value *float64, cheapBelow, fairUpTo float64) {
	if value == nil || *value <= 0 {
		v.fair++
		return
	}
	switch {
	case *value < cheapBelow:
		v.cheap++
	case *value <= fairUpTo:
		v.fair++
	default:
		v.expensive++
	}
}

// castRangePosition votes on where the price sits within the 52-week range.
// Near the low is cheap, near the high is expensive. A degenerate range
// (missing bounds, or high <= low) votes fair.
func (v *votes) castRangePosition(price, high, low *float64) {
	if price == nil || high == nil || low == nil || *high <= *low {
		v.fair++
		return
	}
	position := (*price - *low) / (*high - *low)
	switch {
	case position < rangeCheapBelow:
		v.cheap++
	case position <= rangeFairUpTo:
		v.fair++
	default:
		v.expensive++
	}
}
