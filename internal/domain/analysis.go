package domain

import "github.com/shopspring/decimal"

// BudgetStatus is the overall outcome of a weekly budget comparison.
type BudgetStatus string

const (
	BudgetSurplus BudgetStatus = "surplus"
	BudgetDeficit BudgetStatus = "deficit"
)

// CategoryVariance compares one category's budgeted amount against actual spend.
// Variance is budgeted minus actual: positive means money left over.
type CategoryVariance struct {
	Budgeted decimal.Decimal
	Actual   decimal.Decimal
	Variance decimal.Decimal
}

// BudgetAnalysis is the result of comparing one week's categorized spend
// against the budget. Computed once per run, immutable afterwards.
//
// TotalVariance is the exact sum of per-category variances. Uncategorized
// spend is counted in TotalSpent but carries no budget line, so it sits
// outside the variance sum.
type BudgetAnalysis struct {
	PerCategory   map[string]CategoryVariance
	Uncategorized decimal.Decimal
	TotalBudget   decimal.Decimal
	TotalSpent    decimal.Decimal
	TotalVariance decimal.Decimal
	Status        BudgetStatus
}
