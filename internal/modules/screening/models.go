package screening

import "github.com/khan-rehan/halal-invest/internal/domain"

// ScreenResult is the outcome of one compliance sub-test.
// Value is nil when the underlying ratio could not be computed; the test
// still resolves to a documented pass/fail outcome in that case.
type ScreenResult struct {
	Pass      bool     `json:"pass"`
	Value     *float64 `json:"value,omitempty"`
	Threshold float64  `json:"threshold,omitempty"`
	Reason    string   `json:"reason"`
}

// ComplianceReport is the full screen outcome for one ticker.
type ComplianceReport struct {
	Ticker   string                  `json:"ticker"`
	Company  string                  `json:"company"`
	Sector   string                  `json:"sector"`
	Industry string                  `json:"industry"`
	Status   domain.ComplianceStatus `json:"status"`

	BusinessActivity ScreenResult `json:"business_activity"`
	DebtRatio        ScreenResult `json:"debt_ratio"`
	LiquidAssets     ScreenResult `json:"liquid_assets_ratio"`
	ImpureIncome     ScreenResult `json:"impure_income"`
	Receivables      ScreenResult `json:"receivables_ratio"`
}

// ratioResults returns the four ratio sub-tests (business activity excluded).
// Used by the overall status derivation: a nil Value on any of these marks
// the report DOUBTFUL when nothing failed outright.
func (r *ComplianceReport) ratioResults() []ScreenResult {
	return []ScreenResult{r.DebtRatio, r.LiquidAssets, r.ImpureIncome, r.Receivables}
}

// allResults returns all five sub-tests.
func (r *ComplianceReport) allResults() []ScreenResult {
	return []ScreenResult{r.BusinessActivity, r.DebtRatio, r.LiquidAssets, r.ImpureIncome, r.Receivables}
}
