// Package screening implements the AAOIFI-style compliance screen: one
// business activity test plus four financial ratio tests, aggregated into an
// overall PASS / DOUBTFUL / FAIL / ERROR status per ticker.
package screening

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
)

// SnapshotFetcher retrieves a company attribute snapshot for one ticker.
type SnapshotFetcher interface {
	QuoteSummary(ctx context.Context, ticker string) (*domain.Snapshot, error)
}

// Screener evaluates company snapshots against the compliance rule tables.
type Screener struct {
	log zerolog.Logger
}

// New creates a new screener
func New(log zerolog.Logger) *Screener {
	return &Screener{
		log: log.With().Str("component", "screener").Logger(),
	}
}

// Evaluate runs all five screens against a snapshot. Pure: identical
// snapshots always produce identical reports.
func (s *Screener) Evaluate(ticker string, snap *domain.Snapshot) ComplianceReport {
	report := ComplianceReport{
		Ticker:   strings.ToUpper(ticker),
		Company:  snap.Name,
		Sector:   orNA(snap.Sector),
		Industry: orNA(snap.Industry),

		BusinessActivity: screenBusinessActivity(ticker, snap),
		DebtRatio:        screenDebtRatio(snap),
		LiquidAssets:     screenLiquidAssets(snap),
		ImpureIncome:     screenImpureIncome(snap),
		Receivables:      screenReceivables(snap),
	}
	if report.Company == "" {
		report.Company = report.Ticker
	}

	report.Status = overallStatus(&report)
	return report
}

// EvaluateBatch screens many tickers, fetching each snapshot through the
// provider. One ticker's fetch failure is isolated: it yields an ERROR
// report for that ticker and the batch continues.
func (s *Screener) EvaluateBatch(ctx context.Context, tickers []string, fetch SnapshotFetcher) []ComplianceReport {
	reports := make([]ComplianceReport, 0, len(tickers))

	for _, ticker := range tickers {
		if err := ctx.Err(); err != nil {
			s.log.Warn().Err(err).Msg("Batch screening interrupted")
			break
		}

		snap, err := fetch.QuoteSummary(ctx, ticker)
		if err != nil || snap == nil {
			s.log.Warn().Str("ticker", ticker).Err(err).Msg("Snapshot fetch failed, marking ERROR")
			reports = append(reports, ErrorReport(ticker))
			continue
		}

		reports = append(reports, s.Evaluate(ticker, snap))
	}

	return reports
}

// ErrorReport builds the degraded report used when the attribute fetch for a
// ticker fails entirely.
func ErrorReport(ticker string) ComplianceReport {
	ticker = strings.ToUpper(ticker)
	return ComplianceReport{
		Ticker:   ticker,
		Company:  ticker,
		Sector:   "N/A",
		Industry: "N/A",
		Status:   domain.StatusError,
	}
}

// overallStatus derives the aggregate status. Precedence: any hard fail wins
// over data unavailability, so FAIL is checked before DOUBTFUL.
func overallStatus(r *ComplianceReport) domain.ComplianceStatus {
	for _, res := range r.allResults() {
		if !res.Pass {
			return domain.StatusFail
		}
	}
	for _, res := range r.ratioResults() {
		if res.Value == nil {
			return domain.StatusDoubtful
		}
	}
	return domain.StatusPass
}

// screenBusinessActivity checks the company's line of business against the
// curated ticker overrides first, then the sector and industry tables.
// Missing sector/industry passes (permissive default).
func screenBusinessActivity(ticker string, snap *domain.Snapshot) ScreenResult {
	if reason, ok := prohibitedTickers[strings.ToUpper(strings.TrimSpace(ticker))]; ok {
		return ScreenResult{
			Pass:   false,
			Reason: fmt.Sprintf("Ticker is on the curated exclusion list: %s", reason),
		}
	}

	if _, ok := prohibitedSectors[snap.Sector]; ok {
		return ScreenResult{
			Pass:   false,
			Reason: fmt.Sprintf("Sector '%s' falls under prohibited financial services", snap.Sector),
		}
	}

	if _, ok := prohibitedIndustries[snap.Industry]; ok {
		return ScreenResult{
			Pass:   false,
			Reason: fmt.Sprintf("Industry '%s' involves prohibited activities", snap.Industry),
		}
	}

	return ScreenResult{
		Pass:   true,
		Reason: "Business activity is permissible",
	}
}

// screenDebtRatio checks total debt / market cap < 33%.
func screenDebtRatio(snap *domain.Snapshot) ScreenResult {
	if snap.TotalDebt == nil || snap.MarketCap == nil || *snap.MarketCap == 0 {
		return assumedCompliant(debtThreshold)
	}

	ratio := *snap.TotalDebt / *snap.MarketCap
	return ratioResult(ratio, debtThreshold, "Debt ratio")
}

// screenLiquidAssets checks (cash + short term investments) / market cap < 33%.
// Missing cash components default to zero; market cap must be present.
func screenLiquidAssets(snap *domain.Snapshot) ScreenResult {
	if snap.MarketCap == nil || *snap.MarketCap == 0 {
		return assumedCompliant(liquidAssetsThreshold)
	}

	liquid := domain.FloatOrZero(snap.TotalCash) + domain.FloatOrZero(snap.ShortTermInvestments)
	ratio := liquid / *snap.MarketCap
	return ratioResult(ratio, liquidAssetsThreshold, "Liquid assets ratio")
}

// screenImpureIncome checks interest-related income against revenue < 5%.
// Uses the greater of |interest expense| and interest income to capture
// interest-related revenue more accurately.
func screenImpureIncome(snap *domain.Snapshot) ScreenResult {
	if snap.TotalRevenue == nil || *snap.TotalRevenue == 0 {
		return assumedCompliant(impureIncomeThreshold)
	}

	impure := math.Max(
		math.Abs(domain.FloatOrZero(snap.InterestExpense)),
		math.Abs(domain.FloatOrZero(snap.InterestIncome)),
	)
	ratio := impure / *snap.TotalRevenue
	return ratioResult(ratio, impureIncomeThreshold, "Impure income ratio")
}

// screenReceivables checks net receivables / market cap < 33%.
func screenReceivables(snap *domain.Snapshot) ScreenResult {
	if snap.NetReceivables == nil || snap.MarketCap == nil || *snap.MarketCap == 0 {
		return ScreenResult{
			Pass:      true,
			Threshold: receivablesThreshold,
			Reason:    "Data unavailable - marked doubtful",
		}
	}

	ratio := *snap.NetReceivables / *snap.MarketCap
	return ratioResult(ratio, receivablesThreshold, "Receivables ratio")
}

// assumedCompliant is the shared permissive default for ratio screens whose
// required inputs are missing. The nil Value marks the report DOUBTFUL at
// aggregation time.
func assumedCompliant(threshold float64) ScreenResult {
	return ScreenResult{
		Pass:      true,
		Threshold: threshold,
		Reason:    "Data unavailable - assumed compliant",
	}
}

// ratioResult resolves a computed ratio against its threshold. The boundary
// value itself fails: compliance requires strictly below the threshold.
func ratioResult(ratio, threshold float64, label string) ScreenResult {
	pass := ratio < threshold
	side := "below"
	if !pass {
		side = "above or equal to"
	}
	return ScreenResult{
		Pass:      pass,
		Value:     &ratio,
		Threshold: threshold,
		Reason:    fmt.Sprintf("%s %.2f%% is %s the %.0f%% threshold", label, ratio*100, side, threshold*100),
	}
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}
