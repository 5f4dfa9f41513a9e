package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/dvloznov/budget-pilot/internal/analyze"
	"github.com/dvloznov/budget-pilot/internal/bank"
	"github.com/dvloznov/budget-pilot/internal/categorize"
	"github.com/dvloznov/budget-pilot/internal/config"
	"github.com/dvloznov/budget-pilot/internal/insight"
	"github.com/dvloznov/budget-pilot/internal/logger"
	"github.com/dvloznov/budget-pilot/internal/pipeline"
	"github.com/dvloznov/budget-pilot/internal/report"
	"github.com/dvloznov/budget-pilot/internal/retry"
	"github.com/dvloznov/budget-pilot/internal/sheets"
	"github.com/dvloznov/budget-pilot/internal/transfer"
)

func main() {
	healthcheck := flag.Bool("healthcheck", false, "probe each component and exit without running the pipeline")
	correlationID := flag.String("correlation-id", "", "correlation id for this run (generated when empty)")
	flag.Parse()

	// A missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	log := logger.New()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	bankClient := bank.NewClient(cfg.BankBaseURL, cfg.BankToken, nil)
	completer := categorize.NewGeminiCompleter(cfg.GeminiModel)

	budget, err := sheets.NewBudgetSource(ctx, cfg.SpreadsheetID, cfg.BudgetRange)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create budget source")
	}
	mailer, err := report.NewMailer(ctx, cfg.ReportSender)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create report mailer")
	}

	if *healthcheck {
		os.Exit(runHealthChecks(ctx, log, cfg, bankClient, budget, mailer, completer))
	}

	engine := categorize.NewEngine(completer, cfg.AccuracyThreshold, cfg.MaxRetries,
		retry.Exponential(cfg.RetryBackoffBase), log)
	savings := transfer.NewEngine(bankClient, cfg.SourceAccountID, cfg.SavingsAccountID,
		cfg.TransferPollInterval, cfg.TransferMaxPolls, log)

	exec := pipeline.NewWeeklyPipeline(pipeline.Deps{
		Transactions:    bankClient,
		Budget:          budget,
		Categorizer:     engine,
		Analyzer:        analyze.NewAnalyzer(),
		Insight:         insight.NewGenerator(completer),
		Reporter:        mailer,
		Savings:         savings,
		SourceAccountID: cfg.SourceAccountID,
		Lookback:        cfg.Lookback,
		Recipients:      cfg.ReportRecipients,
	}, log)

	status := exec.Execute(ctx, *correlationID)

	for _, record := range status.Stages {
		log.Info().
			Str("correlation_id", status.CorrelationID).
			Str("stage", record.Stage).
			Str("status", string(record.Result.Status)).
			Str("message", record.Result.Message).
			Fields(record.Result.Details).
			Msg("stage result")
	}

	if status.Aborted {
		log.Error().
			Str("correlation_id", status.CorrelationID).
			Str("stage", status.AbortedStage).
			Dur("duration", status.Duration).
			Msg("run aborted by critical stage failure")
		os.Exit(1)
	}

	log.Info().
		Str("correlation_id", status.CorrelationID).
		Dur("duration", status.Duration).
		Msg("run completed")
}
