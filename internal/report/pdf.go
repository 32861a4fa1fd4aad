// Package report renders the daily screening results as a PDF document and
// delivers it by email.
package report

import (
	"bytes"
	"fmt"
	"sort"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
)

// Stock is one row of report data, flattened from a research result.
type Stock struct {
	Ticker        string
	Company       string
	Sector        string
	Score         float64
	Price         *float64
	Tag           domain.ValuationTag
	Signal        domain.Signal
	TrailingPE    *float64
	ROE           *float64
	RevenueGrowth *float64
	CAGR5Y        *float64
	CAGR10Y       *float64
}

// Data is everything the report renders. Stocks must be sorted best
// score first; the first ten feed the top-picks section.
type Data struct {
	GeneratedAt time.Time
	Stocks      []Stock
	Allocations []allocation.Allocation
	Budget      float64
}

// Generator renders screening reports to PDF.
type Generator struct {
	log zerolog.Logger
}

// NewGenerator creates a new report generator
func NewGenerator(log zerolog.Logger) *Generator {
	return &Generator{
		log: log.With().Str("component", "report").Logger(),
	}
}

const topPicks = 10

type rgb struct{ r, g, b int }

var (
	colorGreen     = rgb{0, 128, 0}
	colorDarkGreen = rgb{0, 80, 0}
	colorRed       = rgb{180, 30, 30}
	colorOrange    = rgb{200, 120, 0}
	colorGray      = rgb{128, 128, 128}
	colorLightGray = rgb{240, 240, 240}
	colorWhite     = rgb{255, 255, 255}
	colorBlack     = rgb{0, 0, 0}
)

// Generate renders the full report: overview page, allocation plan with the
// top picks, per-sector holdings tables and a glossary.
func (g *Generator) Generate(data Data) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 24, 10)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		pdf.SetY(8)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, "SPUS Halal Investment Report", "", 1, "C", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.CellFormat(0, 6, data.GeneratedAt.Format("Monday, January 2, 2006"), "", 1, "C", false, 0, "")
		pdf.SetDrawColor(colorGreen.r, colorGreen.g, colorGreen.b)
		pdf.SetLineWidth(0.5)
		pdf.Line(10, pdf.GetY()+1, 200, pdf.GetY()+1)
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 8)
		pdf.SetTextColor(colorGray.r, colorGray.g, colorGray.b)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d of {nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
		pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
	})

	pdf.AddPage()
	g.summarySection(pdf, data)
	g.topPicksSection(pdf, data)
	g.sectorSection(pdf, data.Stocks)
	g.glossarySection(pdf)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render report PDF: %w", err)
	}

	g.log.Info().Int("stocks", len(data.Stocks)).Int("bytes", buf.Len()).Msg("Generated report")
	return buf.Bytes(), nil
}

func (g *Generator) summarySection(pdf *fpdf.Fpdf, data Data) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(0, 8, "Analysis Overview", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	avgScore, topScore := 0.0, 0.0
	var cagrSum float64
	cagrCount := 0
	for i, s := range data.Stocks {
		avgScore += s.Score
		if i == 0 || s.Score > topScore {
			topScore = s.Score
		}
		if s.CAGR5Y != nil {
			cagrSum += *s.CAGR5Y
			cagrCount++
		}
	}
	if len(data.Stocks) > 0 {
		avgScore /= float64(len(data.Stocks))
	}
	avgCAGR := "N/A"
	if cagrCount > 0 {
		avgCAGR = fmt.Sprintf("%.1f%%", cagrSum/float64(cagrCount)*100)
	}

	stats := []struct{ label, value string }{
		{"Total SPUS Stocks", fmt.Sprintf("%d", len(data.Stocks))},
		{"Avg Score", fmt.Sprintf("%.1f", avgScore)},
		{"Avg 5Y CAGR", avgCAGR},
		{"Top Score", fmt.Sprintf("%.1f", topScore)},
	}

	const boxW, boxH = 45.0, 18.0
	startX := pdf.GetX()
	startY := pdf.GetY()
	for i, stat := range stats {
		x := startX + float64(i)*(boxW+2)
		pdf.SetDrawColor(180, 180, 180)
		pdf.SetLineWidth(0.3)
		pdf.Rect(x, startY, boxW, boxH, "D")

		pdf.SetXY(x, startY+2)
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(colorDarkGreen.r, colorDarkGreen.g, colorDarkGreen.b)
		pdf.CellFormat(boxW, 8, stat.value, "", 0, "C", false, 0, "")

		pdf.SetXY(x, startY+10)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(colorGray.r, colorGray.g, colorGray.b)
		pdf.CellFormat(boxW, 5, stat.label, "", 0, "C", false, 0, "")
	}
	pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
	pdf.SetXY(startX, startY+boxH+6)

	// Sector counts.
	counts := map[string]int{}
	for _, s := range data.Stocks {
		sector := s.Sector
		if sector == "" {
			sector = "Unknown"
		}
		counts[sector]++
	}
	sectors := make([]string, 0, len(counts))
	for sector := range counts {
		sectors = append(sectors, sector)
	}
	sort.Slice(sectors, func(i, j int) bool {
		if counts[sectors[i]] != counts[sectors[j]] {
			return counts[sectors[i]] > counts[sectors[j]]
		}
		return sectors[i] < sectors[j]
	})

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Sector Breakdown (SPUS Holdings)", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	g.tableHeader(pdf, []col{{"Sector", 120}, {"Holdings", 30}}, 8)
	pdf.SetFont("Helvetica", "", 8)
	for i, sector := range sectors {
		g.rowBackground(pdf, i)
		pdf.CellFormat(120, 5, sector, "1", 0, "L", true, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("%d", counts[sector]), "1", 1, "R", true, 0, "")
	}
}

func (g *Generator) topPicksSection(pdf *fpdf.Fpdf, data Data) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, fmt.Sprintf("$%.0f Investment Plan + Top %d Stocks", data.Budget, topPicks), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	top := data.Stocks
	if len(top) > topPicks {
		top = top[:topPicks]
	}
	tagByTicker := map[string]domain.ValuationTag{}
	for _, s := range top {
		tagByTicker[s.Ticker] = s.Tag
	}

	if len(data.Allocations) > 0 {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(0, 6, fmt.Sprintf("If you invest $%.0f today, here's how to distribute it:", data.Budget), "", 1, "L", false, 0, "")
		pdf.Ln(2)

		g.tableHeader(pdf, []col{{"#", 15}, {"Company", 45}, {"Price", 25}, {"Valuation", 28}, {"Allocation", 30}, {"Shares", 27}}, 8)
		pdf.SetFont("Helvetica", "", 8)
		total := 0.0
		for i, a := range data.Allocations {
			g.rowBackground(pdf, i)
			pdf.CellFormat(15, 5, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
			pdf.CellFormat(45, 5, clip(a.Ticker+" - "+a.Company, 28), "1", 0, "L", true, 0, "")
			pdf.CellFormat(25, 5, fmt.Sprintf("$%.2f", a.Price), "1", 0, "R", true, 0, "")
			g.valuationCell(pdf, tagByTicker[a.Ticker], 28)
			pdf.CellFormat(30, 5, fmt.Sprintf("$%.0f", a.Dollars), "1", 0, "R", true, 0, "")
			pdf.CellFormat(27, 5, fmt.Sprintf("%.2f", a.Shares), "1", 1, "R", true, 0, "")
			total += a.Dollars
		}
		pdf.SetFont("Helvetica", "B", 8)
		pdf.SetFillColor(colorLightGray.r, colorLightGray.g, colorLightGray.b)
		pdf.CellFormat(113, 5, "TOTAL", "1", 0, "R", true, 0, "")
		pdf.CellFormat(30, 5, fmt.Sprintf("$%.0f", total), "1", 0, "R", true, 0, "")
		pdf.CellFormat(27, 5, "", "1", 1, "R", true, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Top %d SPUS Stocks by Composite Score", topPicks), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	g.tableHeader(pdf, []col{
		{"#", 8}, {"Ticker", 14}, {"Company", 38}, {"Score", 14}, {"Price", 18},
		{"Valuation", 24}, {"5Y CAGR", 18}, {"10Y CAGR", 18}, {"P/E", 14}, {"Signal", 18},
	}, 7)
	pdf.SetFont("Helvetica", "", 7)
	for i, s := range top {
		g.rowBackground(pdf, i)
		pdf.CellFormat(8, 5, fmt.Sprintf("%d", i+1), "1", 0, "C", true, 0, "")
		pdf.CellFormat(14, 5, s.Ticker, "1", 0, "L", true, 0, "")
		pdf.CellFormat(38, 5, clip(s.Company, 24), "1", 0, "L", true, 0, "")
		g.scoreCell(pdf, s.Score, 14)
		pdf.CellFormat(18, 5, dollars(s.Price), "1", 0, "R", true, 0, "")
		g.valuationCell(pdf, s.Tag, 24)
		pdf.CellFormat(18, 5, percent(s.CAGR5Y), "1", 0, "R", true, 0, "")
		pdf.CellFormat(18, 5, percent(s.CAGR10Y), "1", 0, "R", true, 0, "")
		pdf.CellFormat(14, 5, ratio(s.TrailingPE), "1", 0, "R", true, 0, "")
		g.signalCell(pdf, s.Signal, 18)
	}

	pdf.Ln(3)
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 5, "Quick Take on Each Pick:", "", 1, "L", false, 0, "")
	pdf.Ln(1)
	pdf.SetFont("Helvetica", "", 7)
	for i, s := range top {
		line := fmt.Sprintf("%d. %s (%s) -- Score %.1f, %s, %s signal, P/E %s, 5Y CAGR %s",
			i+1, s.Ticker, s.Company, s.Score, s.Tag, s.Signal, ratio(s.TrailingPE), percent(s.CAGR5Y))
		pdf.MultiCell(190, 3.5, line, "", "L", false)
	}
}

func (g *Generator) sectorSection(pdf *fpdf.Fpdf, stocks []Stock) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "All SPUS Holdings", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	bySector := map[string][]Stock{}
	for _, s := range stocks {
		sector := s.Sector
		if sector == "" {
			sector = "Unknown"
		}
		bySector[sector] = append(bySector[sector], s)
	}
	sectors := make([]string, 0, len(bySector))
	for sector := range bySector {
		sectors = append(sectors, sector)
	}
	sort.Strings(sectors)

	for _, sector := range sectors {
		if pdf.GetY() > 240 {
			pdf.AddPage()
		}
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetTextColor(colorDarkGreen.r, colorDarkGreen.g, colorDarkGreen.b)
		pdf.CellFormat(0, 6, fmt.Sprintf("%s (%d)", sector, len(bySector[sector])), "", 1, "L", false, 0, "")
		pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)

		g.tableHeader(pdf, []col{
			{"Ticker", 16}, {"Company", 44}, {"Score", 14}, {"Price", 18},
			{"Valuation", 24}, {"5Y CAGR", 18}, {"10Y CAGR", 18}, {"ROE", 16}, {"Signal", 18},
		}, 7)
		pdf.SetFont("Helvetica", "", 7)
		for i, s := range bySector[sector] {
			if pdf.GetY() > 270 {
				pdf.AddPage()
			}
			g.rowBackground(pdf, i)
			pdf.CellFormat(16, 5, s.Ticker, "1", 0, "L", true, 0, "")
			pdf.CellFormat(44, 5, clip(s.Company, 28), "1", 0, "L", true, 0, "")
			g.scoreCell(pdf, s.Score, 14)
			pdf.CellFormat(18, 5, dollars(s.Price), "1", 0, "R", true, 0, "")
			g.valuationCell(pdf, s.Tag, 24)
			pdf.CellFormat(18, 5, percent(s.CAGR5Y), "1", 0, "R", true, 0, "")
			pdf.CellFormat(18, 5, percent(s.CAGR10Y), "1", 0, "R", true, 0, "")
			pdf.CellFormat(16, 5, percent(s.ROE), "1", 0, "R", true, 0, "")
			g.signalCell(pdf, s.Signal, 18)
		}
		pdf.Ln(3)
	}
}

func (g *Generator) glossarySection(pdf *fpdf.Fpdf) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, "Glossary", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	terms := []struct{ term, definition string }{
		{"Composite Score", "Weighted 0-100 grade across valuation (30%), profitability (25%), growth (20%), financial health (15%) and technicals (10%). Higher is better."},
		{"Valuation Tag", "Majority vote over P/E, P/B, PEG and 52-week range position: UNDERPRICED, FAIR VALUE or OVERPRICED."},
		{"P/E Ratio", "Share price divided by trailing earnings per share. Lower suggests a cheaper stock."},
		{"5Y / 10Y CAGR", "Compound annual growth rate of the share price over the trailing five or ten years."},
		{"ROE", "Return on equity: net income relative to shareholder equity."},
		{"Overall Signal", "Majority vote of RSI, MACD, SMA crossover and Bollinger band indicators: BUY, SELL or HOLD."},
		{"Halal Screening", "AAOIFI-style screens: permissible business activity, debt, liquid assets and receivables each below 33% of market cap, impure income below 5% of revenue."},
		{"Purification", "Donating the impure share of received dividends to charity to cleanse the remainder."},
	}

	for _, t := range terms {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.CellFormat(0, 5, t.term, "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.MultiCell(190, 4, t.definition, "", "L", false)
		pdf.Ln(2)
	}
}

type col struct {
	name  string
	width float64
}

func (g *Generator) tableHeader(pdf *fpdf.Fpdf, cols []col, fontSize float64) {
	pdf.SetFont("Helvetica", "B", fontSize)
	pdf.SetFillColor(colorGreen.r, colorGreen.g, colorGreen.b)
	pdf.SetTextColor(colorWhite.r, colorWhite.g, colorWhite.b)
	for i, c := range cols {
		ln := 0
		if i == len(cols)-1 {
			ln = 1
		}
		pdf.CellFormat(c.width, 6, c.name, "1", ln, "C", true, 0, "")
	}
	pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
}

func (g *Generator) rowBackground(pdf *fpdf.Fpdf, idx int) {
	if idx%2 == 0 {
		pdf.SetFillColor(colorWhite.r, colorWhite.g, colorWhite.b)
	} else {
		pdf.SetFillColor(colorLightGray.r, colorLightGray.g, colorLightGray.b)
	}
}

func (g *Generator) scoreCell(pdf *fpdf.Fpdf, score float64, width float64) {
	switch {
	case score >= 70:
		pdf.SetTextColor(colorGreen.r, colorGreen.g, colorGreen.b)
	case score >= 50:
		pdf.SetTextColor(colorOrange.r, colorOrange.g, colorOrange.b)
	default:
		pdf.SetTextColor(colorRed.r, colorRed.g, colorRed.b)
	}
	pdf.CellFormat(width, 5, fmt.Sprintf("%.1f", score), "1", 0, "C", true, 0, "")
	pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
}

func (g *Generator) valuationCell(pdf *fpdf.Fpdf, tag domain.ValuationTag, width float64) {
	switch tag {
	case domain.TagUnderpriced:
		pdf.SetTextColor(colorGreen.r, colorGreen.g, colorGreen.b)
	case domain.TagOverpriced:
		pdf.SetTextColor(colorRed.r, colorRed.g, colorRed.b)
	default:
		pdf.SetTextColor(colorOrange.r, colorOrange.g, colorOrange.b)
	}
	pdf.CellFormat(width, 5, string(tag), "1", 0, "C", true, 0, "")
	pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
}

func (g *Generator) signalCell(pdf *fpdf.Fpdf, signal domain.Signal, width float64) {
	switch signal {
	case domain.SignalBuy:
		pdf.SetTextColor(colorGreen.r, colorGreen.g, colorGreen.b)
	case domain.SignalSell:
		pdf.SetTextColor(colorRed.r, colorRed.g, colorRed.b)
	default:
		pdf.SetTextColor(colorOrange.r, colorOrange.g, colorOrange.b)
	}
	pdf.CellFormat(width, 5, string(signal), "1", 1, "C", true, 0, "")
	pdf.SetTextColor(colorBlack.r, colorBlack.g, colorBlack.b)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max]
	}
	return s
}

func dollars(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("$%.2f", *v)
}

func percent(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f%%", *v*100)
}

func ratio(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return fmt.Sprintf("%.1f", *v)
}
