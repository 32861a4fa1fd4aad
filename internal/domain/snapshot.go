package domain

// Snapshot is a point-in-time view of one company's attributes as reported
// by the market data provider. A nil field means the provider did not report
// the value ("unknown"), which is semantically different from zero. Each
// screening and scoring rule documents its own handling of missing fields.
//
// A Snapshot is immutable once fetched and owned by the caller for the
// duration of one evaluation.
type Snapshot struct {
	Ticker      string `json:"ticker"`
	Name        string `json:"name,omitempty"`
	Sector      string `json:"sector,omitempty"`
	Industry    string `json:"industry,omitempty"`
	Description string `json:"description,omitempty"`

	// Balance sheet / income statement facts.
	MarketCap            *float64 `json:"market_cap,omitempty"`
	TotalDebt            *float64 `json:"total_debt,omitempty"`
	TotalCash            *float64 `json:"total_cash,omitempty"`
	ShortTermInvestments *float64 `json:"short_term_investments,omitempty"`
	NetReceivables       *float64 `json:"net_receivables,omitempty"`
	TotalRevenue         *float64 `json:"total_revenue,omitempty"`
	InterestIncome       *float64 `json:"interest_income,omitempty"`
	InterestExpense      *float64 `json:"interest_expense,omitempty"`

	// Valuation.
	TrailingPE  *float64 `json:"pe_ratio,omitempty"`
	ForwardPE   *float64 `json:"forward_pe,omitempty"`
	PriceToBook *float64 `json:"pb_ratio,omitempty"`
	PEGRatio    *float64 `json:"peg_ratio,omitempty"`
	EVToEBITDA  *float64 `json:"ev_ebitda,omitempty"`

	// Profitability.
	GrossMargin     *float64 `json:"gross_margin,omitempty"`
	OperatingMargin *float64 `json:"operating_margin,omitempty"`
	NetMargin       *float64 `json:"net_margin,omitempty"`
	ROE             *float64 `json:"roe,omitempty"`
	ROA             *float64 `json:"roa,omitempty"`

	// Growth.
	RevenueGrowth  *float64 `json:"revenue_growth,omitempty"`
	EarningsGrowth *float64 `json:"earnings_growth,omitempty"`

	// Financial health.
	DebtToEquity *float64 `json:"debt_to_equity,omitempty"`
	CurrentRatio *float64 `json:"current_ratio,omitempty"`
	FreeCashFlow *float64 `json:"free_cash_flow,omitempty"`

	// Dividends.
	DividendYield *float64 `json:"dividend_yield,omitempty"`
	PayoutRatio   *float64 `json:"payout_ratio,omitempty"`

	// Price context.
	CurrentPrice     *float64 `json:"current_price,omitempty"`
	FiftyTwoWeekHigh *float64 `json:"fifty_two_week_high,omitempty"`
	FiftyTwoWeekLow  *float64 `json:"fifty_two_week_low,omitempty"`
}

// FloatOrZero returns *v, or 0 when v is nil. Only for rules whose domain
// semantics say "missing defaults to zero" (e.g. cash components of the
// liquid assets screen). Most rules must check nil explicitly instead.
func FloatOrZero(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
