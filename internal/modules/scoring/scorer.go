// Package scoring turns a company snapshot and its technical signal report
// into a weighted composite score on the 0-100 scale, plus a valuation tag.
package scoring

import (
	"math"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/signals"
)

// Category weights. Part of the observable contract.
const (
	weightValuation     = 0.30
	weightProfitability = 0.25
	weightGrowth        = 0.20
	weightHealth        = 0.15
	weightTechnical     = 0.10
)

// Breakdown carries the composite score together with every intermediate
// value that produced it. Category averages are on the 1-10 scale before
// weighting; exposing them lets callers see which category moved a score.
type Breakdown struct {
	Ticker string `json:"ticker"`

	Valuation     float64 `json:"valuation"`
	Profitability float64 `json:"profitability"`
	Growth        float64 `json:"growth"`
	Health        float64 `json:"financial_health"`
	Technical     float64 `json:"technical"`

	SubScores map[string]float64 `json:"sub_scores"`

	// Composite is the weighted sum scaled to 0-100, rounded to one decimal.
	Composite float64 `json:"composite"`
}

// Scorer computes composite scores. Stateless; safe for concurrent use.
type Scorer struct {
	log zerolog.Logger
}

// New creates a new scorer
func New(log zerolog.Logger) *Scorer {
	return &Scorer{
		log: log.With().Str("component", "scoring").Logger(),
	}
}

// Score grades the snapshot across five weighted categories. A nil signal
// report counts as an N/A consensus, which scores neutral. Missing metrics
// score neutral per sub-metric, so a sparse snapshot converges toward 50.
func (s *Scorer) Score(snap *domain.Snapshot, report *signals.Report) Breakdown {
	sub := map[string]float64{
		"pe_ratio":         scoreMultiple(snap.TrailingPE, peBands),
		"pb_ratio":         scoreMultiple(snap.PriceToBook, pbBands),
		"peg_ratio":        scoreMultiple(snap.PEGRatio, pegBands),
		"net_margin":       scorePercent(snap.NetMargin, netMarginBands, 1),
		"roe":              scorePercent(snap.ROE, roeBands, 1),
		"roa":              scorePercent(snap.ROA, roaBands, 1),
		"revenue_growth":   scorePercent(snap.RevenueGrowth, revenueGrowthBands, 2),
		"earnings_growth":  scorePercent(snap.EarningsGrowth, earningsGrowthBands, 2),
		"debt_to_equity":   scoreDebtToEquity(snap.DebtToEquity),
		"current_ratio":    scoreCurrentRatio(snap.CurrentRatio),
		"free_cash_flow":   scoreFreeCashFlow(snap.FreeCashFlow),
		"technical_signal": scoreTechnical(overallSignal(report)),
	}

	breakdown := Breakdown{
		Ticker:        snap.Ticker,
		Valuation:     mean(sub["pe_ratio"], sub["pb_ratio"], sub["peg_ratio"]),
		Profitability: mean(sub["net_margin"], sub["roe"], sub["roa"]),
		Growth:        mean(sub["revenue_growth"], sub["earnings_growth"]),
		Health:        mean(sub["debt_to_equity"], sub["current_ratio"], sub["free_cash_flow"]),
		Technical:     sub["technical_signal"],
		SubScores:     sub,
	}

	composite := (breakdown.Valuation*weightValuation +
		breakdown.Profitability*weightProfitability +
		breakdown.Growth*weightGrowth +
		breakdown.Health*weightHealth +
		breakdown.Technical*weightTechnical) * 10
	breakdown.Composite = round1(composite)

	s.log.Debug().
		Str("ticker", snap.Ticker).
		Float64("composite", breakdown.Composite).
		Msg("Scored stock")

	return breakdown
}

func overallSignal(report *signals.Report) domain.Signal {
	if report == nil {
		return domain.SignalNA
	}
	return report.Overall.Signal
}

func mean(values ...float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
