// Package allocation turns a ranked list of scored candidates into a
// concrete dollar allocation plan for a fixed budget.
package allocation

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

const (
	// Allocations are rounded to this increment and never fall below it.
	dollarStep = 10.0
)

// Candidate is one scored, tagged stock under consideration. Callers pass
// candidates ranked best-first; the top candidate absorbs rounding slack.
type Candidate struct {
	Ticker  string              `json:"ticker"`
	Company string              `json:"company"`
	Price   float64             `json:"price"`
	Score   float64             `json:"score"`
	Tag     domain.ValuationTag `json:"valuation_tag"`
}

// Allocation is one line of the resulting plan.
type Allocation struct {
	Ticker  string  `json:"ticker"`
	Company string  `json:"company"`
	Price   float64 `json:"price"`
	Dollars float64 `json:"allocation_dollars"`
	Shares  float64 `json:"approx_shares"`
}

// Allocator computes score-weighted allocation plans.
type Allocator struct {
	log zerolog.Logger
}

// New creates a new allocator
func New(log zerolog.Logger) *Allocator {
	return &Allocator{
		log: log.With().Str("component", "allocation").Logger(),
	}
}

// Allocate splits the budget across the eligible candidates in proportion to
// their composite scores. OVERPRICED candidates and candidates without a
// positive price are excluded no matter how well they score. An empty
// eligible set yields an empty plan, not an error.
//
// Per-line dollars are rounded to the nearest $10 with a $10 minimum, so the
// lines rarely sum to the budget exactly; the difference is applied in full
// to the top-ranked line, which makes the plan total equal the budget.
func (a *Allocator) Allocate(ranked []Candidate, budget float64) []Allocation {
	eligible := make([]Candidate, 0, len(ranked))
	for _, c := range ranked {
		if c.Tag == domain.TagOverpriced || c.Price <= 0 {
			continue
		}
		eligible = append(eligible, c)
	}
	if len(eligible) == 0 {
		a.log.Debug().Float64("budget", budget).Msg("No eligible candidates to allocate")
		return nil
	}

	totalScore := 0.0
	for _, c := range eligible {
		totalScore += c.Score
	}

	plan := make([]Allocation, 0, len(eligible))
	allocated := 0.0
	for _, c := range eligible {
		// Equal weights when every candidate scored zero.
		weight := 1 / float64(len(eligible))
		if totalScore > 0 {
			weight = c.Score / totalScore
		}

		// Exact $5 midpoints round up (half away from zero); the
		// reconciliation below keeps the plan total exact either way.
		dollars := math.Round(budget*weight/dollarStep) * dollarStep
		if dollars < dollarStep {
			dollars = dollarStep
		}

		plan = append(plan, Allocation{
			Ticker:  c.Ticker,
			Company: c.Company,
			Price:   c.Price,
			Dollars: dollars,
			Shares:  truncShares(dollars, c.Price),
		})
		allocated += dollars
	}

	// Reconcile rounding drift against the top pick so the plan sums to
	// the requested budget exactly.
	if diff := budget - allocated; diff != 0 {
		plan[0].Dollars += diff
		plan[0].Shares = truncShares(plan[0].Dollars, plan[0].Price)
	}

	a.log.Debug().
		Int("positions", len(plan)).
		Float64("budget", budget).
		Msg("Built allocation plan")

	return plan
}

// truncShares converts dollars to a share count truncated, not rounded,
// to two decimals.
func truncShares(dollars, price float64) float64 {
	return math.Floor(dollars/price*100) / 100
}
