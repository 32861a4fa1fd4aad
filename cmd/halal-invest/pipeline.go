package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/khan-rehan/halal-invest/internal/modules/allocation"
	"github.com/khan-rehan/halal-invest/internal/pipeline"
	"github.com/khan-rehan/halal-invest/internal/report"
	"github.com/khan-rehan/halal-invest/internal/scheduler"
)

var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Run or schedule the daily S&P 500 screening report",
}

var pipelineRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the daily screening pipeline once",
	Long: `Fetch the S&P 500 constituent list, screen every stock for halal
compliance, research the survivors, render the PDF report and email it if
SMTP credentials are configured.`,
	RunE: runPipelineOnce,
}

var pipelineStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the cron scheduler for the daily pipeline",
	Long: `Run the pipeline on the schedule in PIPELINE_CRON (cron syntax,
e.g. "0 18 * * MON-FRI") until interrupted.`,
	RunE: runPipelineScheduled,
}

func init() {
	pipelineCmd.AddCommand(pipelineRunCmd)
	pipelineCmd.AddCommand(pipelineStartCmd)
}

func buildDailyScreener(a *app) *pipeline.DailyScreener {
	return pipeline.NewDailyScreener(
		a.univ,
		a.researchService(),
		allocation.New(a.log),
		report.NewGenerator(a.log),
		report.NewMailer(a.cfg.SMTP, a.log),
		filepath.Join(a.cfg.DataDir, "reports"),
		a.log,
	)
}

func runPipelineOnce(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	outcome, err := buildDailyScreener(a).Execute(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("Screened %d stocks, %d passed\n", outcome.TotalScreened, outcome.TotalPassed)
	if outcome.ReportPath != "" {
		fmt.Printf("Report: %s\n", outcome.ReportPath)
	}
	if outcome.EmailSent {
		fmt.Println("Report emailed")
	}
	return nil
}

func runPipelineScheduled(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if a.cfg.PipelineCron == "" {
		return fmt.Errorf("PIPELINE_CRON is not set")
	}

	sched := scheduler.New(a.log)
	if err := sched.AddJob(a.cfg.PipelineCron, buildDailyScreener(a)); err != nil {
		return fmt.Errorf("failed to register pipeline job: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info().Msg("Shutting down")
	return nil
}
