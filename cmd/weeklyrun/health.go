package main

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-pilot/internal/bank"
	"github.com/dvloznov/budget-pilot/internal/categorize"
	"github.com/dvloznov/budget-pilot/internal/config"
	"github.com/dvloznov/budget-pilot/internal/pipeline"
	"github.com/dvloznov/budget-pilot/internal/report"
	"github.com/dvloznov/budget-pilot/internal/sheets"
)

// runHealthChecks probes every external collaborator without running the
// pipeline and returns the process exit code.
func runHealthChecks(ctx context.Context, log zerolog.Logger, cfg *config.Config,
	bankClient *bank.Client, budget *sheets.BudgetSource, mailer *report.Mailer,
	completer *categorize.GeminiCompleter) int {

	results := pipeline.RunHealthChecks(ctx, []pipeline.Probe{
		{Name: "bank", Check: bankClient.Ping},
		{Name: "budget_sheet", Check: budget.Ping},
		{Name: "gmail", Check: mailer.Ping},
		{Name: "gemini", Check: completer.Ping},
		{Name: "source_balance", Check: func(ctx context.Context) error {
			_, err := bankClient.Balance(ctx, cfg.SourceAccountID)
			return err
		}},
	})

	for _, r := range results {
		if r.Err != nil {
			log.Error().Err(r.Err).Str("component", r.Name).Msg("component not ready")
		} else {
			log.Info().Str("component", r.Name).Msg("component ready")
		}
	}

	if !pipeline.Healthy(results) {
		return 1
	}
	return 0
}
