// Package display renders results as plain text tables for the terminal.
package display

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
	"github.com/khan-rehan/halal-invest/internal/modules/fundamentals"
	"github.com/khan-rehan/halal-invest/internal/modules/portfolio"
	"github.com/khan-rehan/halal-invest/internal/modules/research"
	"github.com/khan-rehan/halal-invest/internal/modules/scoring"
	"github.com/khan-rehan/halal-invest/internal/modules/screening"
	"github.com/khan-rehan/halal-invest/internal/modules/signals"
	"github.com/khan-rehan/halal-invest/internal/modules/watchlist"
)

// FormatCurrency renders a dollar amount with B/M/K suffixes, or N/A.
func FormatCurrency(value *float64) string {
	if value == nil {
		return "N/A"
	}
	abs := math.Abs(*value)
	sign := ""
	if *value < 0 {
		sign = "-"
	}
	switch {
	case abs >= 1e9:
		return fmt.Sprintf("%s$%.2fB", sign, abs/1e9)
	case abs >= 1e6:
		return fmt.Sprintf("%s$%.2fM", sign, abs/1e6)
	case abs >= 1e3:
		return fmt.Sprintf("%s$%.2fK", sign, abs/1e3)
	default:
		return fmt.Sprintf("%s$%.2f", sign, abs)
	}
}

// FormatPercentage renders a decimal ratio as a percentage, or N/A.
func FormatPercentage(value *float64) string {
	if value == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f%%", *value*100)
}

// FormatRatio renders a plain ratio to two decimals, or N/A.
func FormatRatio(value *float64) string {
	if value == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", *value)
}

func formatStatus(status string) string {
	switch status {
	case "PASS":
		return "HALAL"
	case "FAIL":
		return "NOT HALAL"
	default:
		return status
	}
}

func passFail(pass bool) string {
	if pass {
		return "PASS"
	}
	return "FAIL"
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func title(w io.Writer, text string) {
	fmt.Fprintf(w, "\n%s\n%s\n", text, strings.Repeat("-", len(text)))
}

// ScreeningResults renders the multi-ticker compliance summary table.
func ScreeningResults(w io.Writer, reports []screening.ComplianceReport) {
	title(w, "Halal Screening Results")
	tw := newTable(w)
	fmt.Fprintln(tw, "Ticker\tCompany\tSector\tStatus\tDebt Ratio\tLiquid Assets\tImpure Income")
	for _, r := range reports {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.Ticker,
			r.Company,
			r.Sector,
			formatStatus(string(r.Status)),
			FormatRatio(r.DebtRatio.Value),
			FormatRatio(r.LiquidAssets.Value),
			FormatPercentage(r.ImpureIncome.Value),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// SingleScreen renders the per-criterion breakdown for one ticker.
func SingleScreen(w io.Writer, r screening.ComplianceReport) {
	title(w, fmt.Sprintf("%s (%s) - %s", r.Company, r.Ticker, formatStatus(string(r.Status))))
	fmt.Fprintf(w, "Sector: %s  Industry: %s\n\n", r.Sector, r.Industry)

	tw := newTable(w)
	fmt.Fprintln(tw, "Criterion\tResult\tValue\tThreshold\tReason")
	fmt.Fprintf(tw, "Business Activity\t%s\t-\t-\t%s\n", passFail(r.BusinessActivity.Pass), r.BusinessActivity.Reason)
	rows := []struct {
		label  string
		screen screening.ScreenResult
	}{
		{"Debt Ratio", r.DebtRatio},
		{"Liquid Assets Ratio", r.LiquidAssets},
		{"Impure Income", r.ImpureIncome},
		{"Receivables Ratio", r.Receivables},
	}
	for _, row := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n",
			row.label, passFail(row.screen.Pass), FormatRatio(row.screen.Value), row.screen.Threshold, row.screen.Reason)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// Signals renders the technical indicator table for one ticker.
func Signals(w io.Writer, report signals.Report) {
	title(w, fmt.Sprintf("Technical Signals - %s", report.Ticker))
	tw := newTable(w)
	fmt.Fprintln(tw, "Indicator\tSignal\tDetail")
	fmt.Fprintf(tw, "RSI\t%s\t%s\n", report.RSI.Signal, report.RSI.Detail)
	fmt.Fprintf(tw, "MACD\t%s\t%s\n", report.MACD.Signal, report.MACD.Detail)
	fmt.Fprintf(tw, "SMA Crossover\t%s\t%s\n", report.SMACross.Signal, report.SMACross.Detail)
	fmt.Fprintf(tw, "Bollinger\t%s\t%s\n", report.Bollinger.Signal, report.Bollinger.Detail)
	fmt.Fprintf(tw, "Volume\t%s\t%s\n", report.Volume.Signal, report.Volume.Detail)
	fmt.Fprintf(tw, "Overall\t%s\t%s\n", report.Overall.Signal, report.Overall.Detail)
	tw.Flush()
	fmt.Fprintln(w)
}

// Fundamentals renders the categorised fundamentals view.
func Fundamentals(w io.Writer, view fundamentals.View, growth fundamentals.Growth) {
	title(w, fmt.Sprintf("%s (%s)", view.Name, view.Ticker))
	fmt.Fprintf(w, "Sector: %s  Industry: %s\n", view.Sector, view.Industry)
	if view.Description != "" {
		fmt.Fprintf(w, "\n%s\n", view.Description)
	}

	categories := []struct {
		name string
		rows [][2]string
	}{
		{"Valuation", [][2]string{
			{"P/E Ratio", FormatRatio(view.Valuation.TrailingPE)},
			{"Forward P/E", FormatRatio(view.Valuation.ForwardPE)},
			{"P/B Ratio", FormatRatio(view.Valuation.PriceToBook)},
			{"PEG Ratio", FormatRatio(view.Valuation.PEGRatio)},
			{"EV/EBITDA", FormatRatio(view.Valuation.EVToEBITDA)},
			{"Market Cap", FormatCurrency(view.Valuation.MarketCap)},
		}},
		{"Profitability", [][2]string{
			{"Gross Margin", FormatPercentage(view.Profitability.GrossMargin)},
			{"Operating Margin", FormatPercentage(view.Profitability.OperatingMargin)},
			{"Net Margin", FormatPercentage(view.Profitability.NetMargin)},
			{"ROE", FormatPercentage(view.Profitability.ROE)},
			{"ROA", FormatPercentage(view.Profitability.ROA)},
		}},
		{"Growth", [][2]string{
			{"Revenue Growth", FormatPercentage(view.Growth.RevenueGrowth)},
			{"Earnings Growth", FormatPercentage(view.Growth.EarningsGrowth)},
			{"5Y Price CAGR", FormatPercentage(growth.CAGR5Y)},
			{"10Y Price CAGR", FormatPercentage(growth.CAGR10Y)},
		}},
		{"Financial Health", [][2]string{
			{"Debt/Equity", FormatRatio(view.Health.DebtToEquity)},
			{"Current Ratio", FormatRatio(view.Health.CurrentRatio)},
			{"Free Cash Flow", FormatCurrency(view.Health.FreeCashFlow)},
			{"Total Debt", FormatCurrency(view.Health.TotalDebt)},
			{"Total Cash", FormatCurrency(view.Health.TotalCash)},
		}},
		{"Dividends", [][2]string{
			{"Dividend Yield", FormatPercentage(view.Dividends.DividendYield)},
			{"Payout Ratio", FormatPercentage(view.Dividends.PayoutRatio)},
		}},
	}

	for _, cat := range categories {
		fmt.Fprintf(w, "\n%s\n", cat.name)
		tw := newTable(w)
		for _, row := range cat.rows {
			fmt.Fprintf(tw, "  %s\t%s\n", row[0], row[1])
		}
		tw.Flush()
	}
	fmt.Fprintln(w)
}

// ScoreBreakdown renders the composite score with its category averages.
func ScoreBreakdown(w io.Writer, b scoring.Breakdown, tag string) {
	title(w, fmt.Sprintf("Composite Score - %s", b.Ticker))
	tw := newTable(w)
	fmt.Fprintf(tw, "Valuation\t%.1f / 10\n", b.Valuation)
	fmt.Fprintf(tw, "Profitability\t%.1f / 10\n", b.Profitability)
	fmt.Fprintf(tw, "Growth\t%.1f / 10\n", b.Growth)
	fmt.Fprintf(tw, "Financial Health\t%.1f / 10\n", b.Health)
	fmt.Fprintf(tw, "Technical\t%.1f / 10\n", b.Technical)
	fmt.Fprintf(tw, "Composite\t%.1f / 100\n", b.Composite)
	fmt.Fprintf(tw, "Valuation Tag\t%s\n", tag)
	tw.Flush()
	fmt.Fprintln(w)
}

// ResearchResults renders ranked research results, best composite first.
func ResearchResults(w io.Writer, results []*research.Result) {
	title(w, "Research Results")
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTicker\tCompany\tScore\tValuation\tSignal\tP/E\t5Y CAGR\t10Y CAGR")
	for i, r := range results {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%.1f\t%s\t%s\t%s\t%s\t%s\n",
			i+1,
			r.Ticker,
			r.Fundamentals.Name,
			r.Score.Composite,
			r.Tag,
			r.Signals.Overall.Signal,
			FormatRatio(r.Fundamentals.Valuation.TrailingPE),
			FormatPercentage(r.Growth.CAGR5Y),
			FormatPercentage(r.Growth.CAGR10Y),
		)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// AllocationPlan renders the suggested budget distribution.
func AllocationPlan(w io.Writer, plan []allocation.Allocation, budget float64) {
	title(w, fmt.Sprintf("$%.0f Investment Plan", budget))
	if len(plan) == 0 {
		fmt.Fprintln(w, "No suitable candidates to allocate to.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "#\tTicker\tCompany\tPrice\tAllocation\tShares")
	total := 0.0
	for i, a := range plan {
		fmt.Fprintf(tw, "%d\t%s\t%s\t$%.2f\t$%.0f\t%.2f\n",
			i+1, a.Ticker, a.Company, a.Price, a.Dollars, a.Shares)
		total += a.Dollars
	}
	fmt.Fprintf(tw, "\t\tTOTAL\t\t$%.0f\t\n", total)
	tw.Flush()
	fmt.Fprintln(w)
}

// Holdings renders current positions with unrealised P&L where a quote is
// available.
func Holdings(w io.Writer, summary portfolio.Summary, currentPrices map[string]float64) {
	title(w, "Portfolio Holdings")
	if len(summary.Holdings) == 0 {
		fmt.Fprintln(w, "No holdings recorded. Use the buy command to add one.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Ticker\tShares\tAvg Cost\tInvested\tPrice\tValue\tP&L")
	totalValue := 0.0
	for _, h := range summary.Holdings {
		price, ok := currentPrices[h.Ticker]
		priceStr, valueStr, pnlStr := "N/A", "N/A", "N/A"
		if ok {
			value := price * h.Shares
			pnl := value - h.AvgCost*h.Shares
			totalValue += value
			priceStr = fmt.Sprintf("$%.2f", price)
			valueStr = fmt.Sprintf("$%.2f", value)
			pnlStr = fmt.Sprintf("%+.2f", pnl)
		}
		fmt.Fprintf(tw, "%s\t%.2f\t$%.2f\t$%.2f\t%s\t%s\t%s\n",
			h.Ticker, h.Shares, h.AvgCost, h.TotalInvested, priceStr, valueStr, pnlStr)
	}
	tw.Flush()
	fmt.Fprintf(w, "\nTotal invested: $%.2f across %d holdings\n", summary.TotalInvested, summary.TotalHoldings)
	if totalValue > 0 {
		fmt.Fprintf(w, "Market value of quoted holdings: $%.2f\n", totalValue)
	}
	fmt.Fprintln(w)
}

// PortfolioSummary renders cost-basis totals without live quotes.
func PortfolioSummary(w io.Writer, summary portfolio.Summary) {
	title(w, "Portfolio Summary")
	if len(summary.Holdings) == 0 {
		fmt.Fprintln(w, "No holdings recorded. Use the buy command to add one.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Ticker\tShares\tAvg Cost\tInvested")
	for _, h := range summary.Holdings {
		fmt.Fprintf(tw, "%s\t%.2f\t$%.2f\t$%.2f\n", h.Ticker, h.Shares, h.AvgCost, h.TotalInvested)
	}
	fmt.Fprintf(tw, "TOTAL\t\t\t$%.2f\n", summary.TotalInvested)
	tw.Flush()
	fmt.Fprintf(w, "\n%d holdings\n\n", summary.TotalHoldings)
}

// Transactions renders the transaction history table.
func Transactions(w io.Writer, txs []portfolio.Transaction) {
	title(w, "Transactions")
	tw := newTable(w)
	fmt.Fprintln(tw, "Date\tTicker\tAction\tShares\tPrice\tTotal")
	for _, tx := range txs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t$%.2f\t$%.2f\n",
			tx.Date, tx.Ticker, strings.ToUpper(tx.Action), tx.Shares, tx.Price, tx.Shares*tx.Price)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// PurificationLog renders logged dividend purification amounts.
func PurificationLog(w io.Writer, records []portfolio.PurificationRecord) {
	title(w, "Purification Log")
	tw := newTable(w)
	fmt.Fprintln(tw, "Date\tTicker\tDividend\tImpure %\tDonate")
	total := 0.0
	for _, rec := range records {
		fmt.Fprintf(tw, "%s\t%s\t$%.2f\t%.2f%%\t$%.2f\n",
			rec.Date, rec.Ticker, rec.DividendAmount, rec.ImpurePercentage, rec.PurificationAmount)
		total += rec.PurificationAmount
	}
	fmt.Fprintf(tw, "\t\t\tTOTAL\t$%.2f\n", total)
	tw.Flush()
	fmt.Fprintln(w)
}

// Watchlist renders watchlist entries with their price targets.
func Watchlist(w io.Writer, entries []watchlist.Entry) {
	title(w, "Watchlist")
	if len(entries) == 0 {
		fmt.Fprintln(w, "Watchlist is empty.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Ticker\tBuy Target\tSell Target\tAdded\tNotes")
	for _, e := range entries {
		buy, sell := "-", "-"
		if e.TargetBuyPrice != nil {
			buy = fmt.Sprintf("$%.2f", *e.TargetBuyPrice)
		}
		if e.TargetSellPrice != nil {
			sell = fmt.Sprintf("$%.2f", *e.TargetSellPrice)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.Ticker, buy, sell, e.AddedAt, e.Notes)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// Alerts renders triggered price target alerts.
func Alerts(w io.Writer, alerts []watchlist.Alert) {
	title(w, "Price Alerts")
	if len(alerts) == 0 {
		fmt.Fprintln(w, "No price targets hit.")
		return
	}
	tw := newTable(w)
	fmt.Fprintln(tw, "Ticker\tAlert\tTarget\tCurrent")
	for _, a := range alerts {
		fmt.Fprintf(tw, "%s\t%s\t$%.2f\t$%.2f\n", a.Ticker, a.Type, a.Target, a.Current)
	}
	tw.Flush()
	fmt.Fprintln(w)
}
