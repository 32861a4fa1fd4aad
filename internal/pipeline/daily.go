// Package pipeline orchestrates the daily screening run: fetch the S&P 500
// universe, screen every ticker, research the survivors, render the PDF
// report and email it.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/khan-rehan/halal-invest/internal/domain"
	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
	"github.com/khan-rehan/halal-invest/internal/modules/research"
	"github.com/khan-rehan/halal-invest/internal/report"
)

const planBudget = 1000.0

// TickerSource resolves the universe to screen.
type TickerSource interface {
	SP500Tickers(ctx context.Context) ([]string, error)
}

// Researcher evaluates one ticker per run of the pipeline.
type Researcher interface {
	EvaluateBatch(ctx context.Context, tickers []string) []research.BatchItem
}

// Mailer delivers the finished report.
type Mailer interface {
	IsConfigured() bool
	SendReport(pdfContent []byte, passed, total int) error
}

// Outcome summarises one pipeline run.
type Outcome struct {
	RunID         string
	TotalScreened int
	TotalPassed   int
	ReportPath    string
	EmailSent     bool
	Duration      time.Duration
}

// DailyScreener is the scheduled end-to-end screening job.
type DailyScreener struct {
	universe  TickerSource
	research  Researcher
	allocator *allocation.Allocator
	generator *report.Generator
	mailer    Mailer
	reportDir string
	log       zerolog.Logger
}

// NewDailyScreener creates a new daily screening job. Reports are written
// under reportDir; email delivery is skipped when the mailer is not
// configured.
func NewDailyScreener(
	universe TickerSource,
	researcher Researcher,
	allocator *allocation.Allocator,
	generator *report.Generator,
	mailer Mailer,
	reportDir string,
	log zerolog.Logger,
) *DailyScreener {
	return &DailyScreener{
		universe:  universe,
		research:  researcher,
		allocator: allocator,
		generator: generator,
		mailer:    mailer,
		reportDir: reportDir,
		log:       log.With().Str("component", "pipeline").Logger(),
	}
}

// Name implements scheduler.Job.
func (p *DailyScreener) Name() string {
	return "daily-screener"
}

// Run implements scheduler.Job.
func (p *DailyScreener) Run() error {
	_, err := p.Execute(context.Background())
	return err
}

// Execute runs the pipeline once. Per-ticker failures are logged and
// skipped; only universe resolution and report rendering abort the run.
func (p *DailyScreener) Execute(ctx context.Context) (*Outcome, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := p.log.With().Str("run_id", runID).Logger()
	log.Info().Msg("Starting daily screening pipeline")

	tickers, err := p.universe.SP500Tickers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch ticker universe: %w", err)
	}
	log.Info().Int("tickers", len(tickers)).Msg("Resolved universe")

	items := p.research.EvaluateBatch(ctx, tickers)

	var passing []*research.Result
	screened := 0
	for _, item := range items {
		if item.Err != nil {
			log.Warn().Err(item.Err).Str("ticker", item.Ticker).Msg("Skipping ticker")
			continue
		}
		screened++
		status := item.Result.Compliance.Status
		if status == domain.StatusPass || status == domain.StatusDoubtful {
			passing = append(passing, item.Result)
		}
	}
	if screened == 0 {
		return nil, fmt.Errorf("no tickers could be screened")
	}
	sort.SliceStable(passing, func(i, j int) bool {
		return passing[i].Score.Composite > passing[j].Score.Composite
	})
	log.Info().
		Int("screened", screened).
		Int("passed", len(passing)).
		Msg("Screening complete")

	data := p.reportData(passing)
	pdfContent, err := p.generator.Generate(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	reportPath, err := p.writeReport(pdfContent, data.GeneratedAt)
	if err != nil {
		// Keep going; the email attachment does not need the file.
		log.Warn().Err(err).Msg("Could not persist report to disk")
	}

	emailSent := false
	if p.mailer.IsConfigured() {
		if err := p.mailer.SendReport(pdfContent, len(passing), screened); err != nil {
			log.Error().Err(err).Msg("Report email failed")
		} else {
			emailSent = true
		}
	} else {
		log.Info().Msg("Email not configured, skipping delivery")
	}

	outcome := &Outcome{
		RunID:         runID,
		TotalScreened: screened,
		TotalPassed:   len(passing),
		ReportPath:    reportPath,
		EmailSent:     emailSent,
		Duration:      time.Since(start),
	}
	log.Info().
		Int("screened", outcome.TotalScreened).
		Int("passed", outcome.TotalPassed).
		Bool("email_sent", outcome.EmailSent).
		Dur("duration", outcome.Duration).
		Msg("Pipeline complete")
	return outcome, nil
}

// reportData flattens research results into report rows and builds the
// sample allocation plan from the top picks.
func (p *DailyScreener) reportData(results []*research.Result) report.Data {
	stocks := make([]report.Stock, 0, len(results))
	var candidates []allocation.Candidate
	for i, r := range results {
		stocks = append(stocks, report.Stock{
			Ticker:        r.Ticker,
			Company:       r.Fundamentals.Name,
			Sector:        r.Fundamentals.Sector,
			Score:         r.Score.Composite,
			Price:         r.Snapshot.CurrentPrice,
			Tag:           r.Tag,
			Signal:        r.Signals.Overall.Signal,
			TrailingPE:    r.Fundamentals.Valuation.TrailingPE,
			ROE:           r.Fundamentals.Profitability.ROE,
			RevenueGrowth: r.Fundamentals.Growth.RevenueGrowth,
			CAGR5Y:        r.Growth.CAGR5Y,
			CAGR10Y:       r.Growth.CAGR10Y,
		})
		if i < 10 && r.Snapshot.CurrentPrice != nil {
			candidates = append(candidates, allocation.Candidate{
				Ticker:  r.Ticker,
				Company: r.Fundamentals.Name,
				Price:   *r.Snapshot.CurrentPrice,
				Score:   r.Score.Composite,
				Tag:     r.Tag,
			})
		}
	}

	return report.Data{
		GeneratedAt: time.Now(),
		Stocks:      stocks,
		Allocations: p.allocator.Allocate(candidates, planBudget),
		Budget:      planBudget,
	}
}

func (p *DailyScreener) writeReport(content []byte, generatedAt time.Time) (string, error) {
	if p.reportDir == "" {
		return "", nil
	}
	if err := os.MkdirAll(p.reportDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}
	path := filepath.Join(p.reportDir, fmt.Sprintf("halal_report_%s.pdf", generatedAt.Format("2006-01-02")))
	if err := os.WriteFile(path, content, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report file: %w", err)
	}
	return path, nil
}
