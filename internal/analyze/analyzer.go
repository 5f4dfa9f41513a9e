// Package analyze computes the weekly budget-versus-actual comparison.
// Pure aggregation over exact decimals; no external calls.
package analyze

import (
	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// Analyzer aggregates categorized transactions against the budget.
type Analyzer struct{}

func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Analyze groups transactions by category and computes per-category and total
// variance.
//
// Transactions with no category (or one outside the budget's category set)
// are summed into the uncategorized bucket: part of TotalSpent, but outside
// the per-category variance sum since they have no budget line.
//
// TotalVariance is computed strictly as the sum of per-category variances,
// never recomputed independently, so the two can never drift apart.
func (a *Analyzer) Analyze(txs []*domain.Transaction, categories []domain.Category) *domain.BudgetAnalysis {
	analysis := &domain.BudgetAnalysis{
		PerCategory:   make(map[string]domain.CategoryVariance, len(categories)),
		Uncategorized: decimal.Zero,
		TotalBudget:   decimal.Zero,
		TotalSpent:    decimal.Zero,
		TotalVariance: decimal.Zero,
	}

	actuals := make(map[string]decimal.Decimal, len(categories))
	known := make(map[string]bool, len(categories))
	for _, c := range categories {
		known[c.Name] = true
		actuals[c.Name] = decimal.Zero
	}

	for _, tx := range txs {
		analysis.TotalSpent = analysis.TotalSpent.Add(tx.Amount)
		if tx.Categorized() && known[tx.Category] {
			actuals[tx.Category] = actuals[tx.Category].Add(tx.Amount)
		} else {
			analysis.Uncategorized = analysis.Uncategorized.Add(tx.Amount)
		}
	}

	for _, c := range categories {
		actual := actuals[c.Name]
		variance := c.WeeklyBudget.Sub(actual)
		analysis.PerCategory[c.Name] = domain.CategoryVariance{
			Budgeted: c.WeeklyBudget,
			Actual:   actual,
			Variance: variance,
		}
		analysis.TotalBudget = analysis.TotalBudget.Add(c.WeeklyBudget)
		analysis.TotalVariance = analysis.TotalVariance.Add(variance)
	}

	if analysis.TotalVariance.IsPositive() {
		analysis.Status = domain.BudgetSurplus
	} else {
		analysis.Status = domain.BudgetDeficit
	}

	return analysis
}
