package portfolio

// Transaction actions. The database enforces the same two values.
const (
	ActionBuy  = "buy"
	ActionSell = "sell"
)

// Transaction is one recorded buy or sell.
type Transaction struct {
	ID     int64   `json:"id"`
	Ticker string  `json:"ticker"`
	Action string  `json:"action"`
	Shares float64 `json:"shares"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
}

// Holding is a derived position: total bought minus total sold, with the
// weighted average cost across all buys.
type Holding struct {
	Ticker        string  `json:"ticker"`
	Shares        float64 `json:"shares"`
	AvgCost       float64 `json:"avg_cost"`
	TotalInvested float64 `json:"total_invested"`
}

// Summary aggregates the whole portfolio.
type Summary struct {
	Holdings      []Holding `json:"holdings"`
	TotalInvested float64   `json:"total_invested"`
	TotalHoldings int       `json:"total_holdings"`
}

// PurificationRecord is one logged dividend purification calculation.
// The purification amount is the share of a dividend attributable to
// impure income, to be donated to charity.
type PurificationRecord struct {
	ID                 int64   `json:"id"`
	Ticker             string  `json:"ticker"`
	ImpurePercentage   float64 `json:"impure_percentage"`
	DividendAmount     float64 `json:"dividend_amount"`
	PurificationAmount float64 `json:"purification_amount"`
	Date               string  `json:"date"`
}
