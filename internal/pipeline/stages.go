package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
	"github.com/dvloznov/budget-pilot/internal/report"
)

// Stage names, also the keys of the run status audit trail.
const (
	StageRetriever   = "retriever"
	StageCategorizer = "categorizer"
	StageAnalyzer    = "analyzer"
	StageInsight     = "insight"
	StageReporter    = "reporter"
	StageSavings     = "savings"
)

// TransactionSource pulls the week's raw transactions from the bank.
type TransactionSource interface {
	Transactions(ctx context.Context, accountID string, since time.Time) ([]*domain.Transaction, error)
}

// BudgetSource loads the budget categories.
type BudgetSource interface {
	Categories(ctx context.Context) ([]domain.Category, error)
}

// Categorizer assigns budget categories to transactions.
type Categorizer interface {
	Categorize(ctx context.Context, txs []*domain.Transaction, categories []domain.Category) (*domain.CategorizationResult, error)
}

// Analyzer computes the budget comparison.
type Analyzer interface {
	Analyze(txs []*domain.Transaction, categories []domain.Category) *domain.BudgetAnalysis
}

// InsightGenerator produces the narrative summary.
type InsightGenerator interface {
	Narrative(ctx context.Context, analysis *domain.BudgetAnalysis) (string, error)
}

// Reporter delivers the weekly report.
type Reporter interface {
	Send(ctx context.Context, subject, content string, recipients []string) error
}

// SavingsEngine moves the surplus to savings.
type SavingsEngine interface {
	TransferSurplus(ctx context.Context, amount decimal.Decimal) (*domain.TransferResult, error)
}

// Deps wires the concrete collaborators into the weekly pipeline.
type Deps struct {
	Transactions TransactionSource
	Budget       BudgetSource
	Categorizer  Categorizer
	Analyzer     Analyzer
	Insight      InsightGenerator
	Reporter     Reporter
	Savings      SavingsEngine

	SourceAccountID string
	Lookback        time.Duration
	Recipients      []string

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

// NewWeeklyPipeline builds the standard six-stage weekly run:
// retrieval, categorization and analysis are critical; insight, report and
// savings degrade the run but never abort it.
func NewWeeklyPipeline(deps Deps, log zerolog.Logger) *Executor {
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	return NewExecutor(log,
		Stage{Name: StageRetriever, Critical: true, Run: retrieverStage(deps, now)},
		Stage{Name: StageCategorizer, Critical: true, Run: categorizerStage(deps)},
		Stage{Name: StageAnalyzer, Critical: true, Run: analyzerStage(deps)},
		Stage{Name: StageInsight, Critical: false, Run: insightStage(deps)},
		Stage{Name: StageReporter, Critical: false, Run: reporterStage(deps, now)},
		Stage{Name: StageSavings, Critical: false, Run: savingsStage(deps)},
	)
}

func retrieverStage(deps Deps, now func() time.Time) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		categories, err := deps.Budget.Categories(ctx)
		if err != nil {
			return Failure(fmt.Errorf("loading budget: %w", err), nil)
		}
		since := now().Add(-deps.Lookback)
		txs, err := deps.Transactions.Transactions(ctx, deps.SourceAccountID, since)
		if err != nil {
			return Failure(fmt.Errorf("loading transactions: %w", err), nil)
		}

		state.Categories = categories
		state.Transactions = txs
		return Success(map[string]any{
			"transactions": len(txs),
			"categories":   len(categories),
			"since":        since.Format(time.RFC3339),
		})
	}
}

func categorizerStage(deps Deps) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		result, err := deps.Categorizer.Categorize(ctx, state.Transactions, state.Categories)
		if err != nil {
			return Failure(err, nil)
		}
		state.Categorization = result

		details := map[string]any{
			"transactions_categorized": result.Categorized,
			"accuracy":                 result.Accuracy,
			"attempts":                 result.AttemptCount,
		}
		if result.Warning != "" {
			return Warning(result.Warning, details)
		}
		return Success(details)
	}
}

func analyzerStage(deps Deps) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		analysis := deps.Analyzer.Analyze(state.Transactions, state.Categories)
		state.Analysis = analysis
		return Success(map[string]any{
			"total_budget":   analysis.TotalBudget.StringFixed(2),
			"total_spent":    analysis.TotalSpent.StringFixed(2),
			"total_variance": analysis.TotalVariance.StringFixed(2),
			"status":         string(analysis.Status),
		})
	}
}

func insightStage(deps Deps) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		narrative, err := deps.Insight.Narrative(ctx, state.Analysis)
		if err != nil {
			return Failure(err, nil)
		}
		state.Narrative = narrative
		return Success(map[string]any{"length": len(narrative)})
	}
}

func reporterStage(deps Deps, now func() time.Time) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		subject := "Weekly Budget Report - " + now().Format("2006-01-02")

		// The body must not depend on the (non-critical) insight stage having
		// succeeded: always include the plain table, lead with the narrative
		// when there is one.
		body := report.FormatSummary(state.Analysis)
		if state.Narrative != "" {
			body = state.Narrative + "\n\n" + body
		}

		if err := deps.Reporter.Send(ctx, subject, body, deps.Recipients); err != nil {
			return Failure(err, nil)
		}
		return Success(map[string]any{"recipients": len(deps.Recipients)})
	}
}

func savingsStage(deps Deps) func(ctx context.Context, state *State) StageResult {
	return func(ctx context.Context, state *State) StageResult {
		result, err := deps.Savings.TransferSurplus(ctx, state.Analysis.TotalVariance)
		if result != nil {
			state.Transfer = result
		}
		if err != nil {
			details := map[string]any{}
			if result != nil && result.TransferID != "" {
				details["transfer_id"] = result.TransferID
			}
			return Failure(err, details)
		}

		details := map[string]any{
			"status": string(result.Status),
			"amount": result.Amount.StringFixed(2),
		}
		if result.TransferID != "" {
			details["transfer_id"] = result.TransferID
			details["verified"] = result.Verified
		}
		return Success(details)
	}
}
