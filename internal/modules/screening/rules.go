package screening

// Rule tables for the business activity screen. Kept as data so membership
// can be tuned and tested without touching the screening control flow.

// prohibitedSectors lists sectors that fail the business activity screen
// outright. Both naming schemes used by data providers are included.
var prohibitedSectors = map[string]struct{}{
	"Financial Services": {},
	"Financials":         {},
}

// prohibitedIndustries lists industries involved in prohibited activities.
// Providers are inconsistent about industry labels, so the table carries
// both the bare and the "Beverages - ..." style names.
var prohibitedIndustries = map[string]struct{}{
	"Alcoholic Beverages":                {},
	"Beverages - Brewers":                {},
	"Beverages - Wineries & Distilleries": {},
	"Brewers":                            {},
	"Distillers & Vintners":              {},
	"Tobacco":                            {},
	"Gambling":                           {},
	"Casinos & Gaming":                   {},
	"Resorts & Casinos":                  {},
	"Adult Entertainment":                {},
	"Cannabis":                           {},
	"Aerospace & Defense":                {},
}

// prohibitedTickers is a curated override layer checked before the sector and
// industry tables: companies whose sector/industry labels look compliant but
// whose actual business is not. Membership is product-owned data.
// TODO(product): confirm the full curated list with the compliance reviewers.
var prohibitedTickers = map[string]string{
	"NFLX": "produces and distributes explicit content",
	"HON":  "significant defense segment revenue",
}

// Ratio thresholds of the AAOIFI-style screens. Part of the observable
// contract: reports are only comparable when these match exactly.
const (
	debtThreshold         = 0.33
	liquidAssetsThreshold = 0.33
	receivablesThreshold  = 0.33
	impureIncomeThreshold = 0.05
)
