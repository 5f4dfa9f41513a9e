package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents one bank transaction pulled from the banking API.
// The retriever creates it with Category unset; the categorization engine
// assigns Category exactly once, and no later stage may overwrite it.
type Transaction struct {
	ID               string
	MerchantLocation string          // free-text merchant/location string from the bank
	Amount           decimal.Decimal // always positive, 2 decimal places
	Timestamp        time.Time
	Category         string // empty until assigned
}

// Categorized reports whether a category has been assigned.
func (t *Transaction) Categorized() bool {
	return t.Category != ""
}

// Category is one budget line loaded from the budget spreadsheet.
// Read-only for the duration of a run.
type Category struct {
	Name         string
	WeeklyBudget decimal.Decimal
}

// CategorizationResult is the transient outcome of one categorization batch.
// It is consumed immediately to mutate the transaction collection.
type CategorizationResult struct {
	LocationToCategory map[string]string
	Accuracy           float64
	AttemptCount       int
	Categorized        int    // transactions that received a category this run
	Warning            string // non-empty for degraded (but applied) results
}
