package analyze

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func catTx(name, amount string) *domain.Transaction {
	return &domain.Transaction{MerchantLocation: name + " SHOP", Amount: dec(amount), Category: name}
}

func TestAnalyzeSurplusScenario(t *testing.T) {
	// Budget total 500, actual spend 454.81 -> variance 45.19, surplus.
	categories := []domain.Category{
		{Name: "Groceries", WeeklyBudget: dec("200")},
		{Name: "Transport", WeeklyBudget: dec("100")},
		{Name: "Eating Out", WeeklyBudget: dec("200")},
	}
	txs := []*domain.Transaction{
		catTx("Groceries", "180.50"),
		catTx("Transport", "74.31"),
		catTx("Eating Out", "200.00"),
	}

	analysis := NewAnalyzer().Analyze(txs, categories)

	if !analysis.TotalBudget.Equal(dec("500")) {
		t.Errorf("TotalBudget = %s, want 500", analysis.TotalBudget)
	}
	if !analysis.TotalSpent.Equal(dec("454.81")) {
		t.Errorf("TotalSpent = %s, want 454.81", analysis.TotalSpent)
	}
	if !analysis.TotalVariance.Equal(dec("45.19")) {
		t.Errorf("TotalVariance = %s, want 45.19", analysis.TotalVariance)
	}
	if analysis.Status != domain.BudgetSurplus {
		t.Errorf("Status = %q, want surplus", analysis.Status)
	}
}

func TestAnalyzeDeficit(t *testing.T) {
	categories := []domain.Category{{Name: "Groceries", WeeklyBudget: dec("50")}}
	txs := []*domain.Transaction{catTx("Groceries", "75.25")}

	analysis := NewAnalyzer().Analyze(txs, categories)

	if !analysis.TotalVariance.Equal(dec("-25.25")) {
		t.Errorf("TotalVariance = %s, want -25.25", analysis.TotalVariance)
	}
	if analysis.Status != domain.BudgetDeficit {
		t.Errorf("Status = %q, want deficit", analysis.Status)
	}
}

func TestAnalyzeBreakEvenIsDeficit(t *testing.T) {
	categories := []domain.Category{{Name: "Groceries", WeeklyBudget: dec("50")}}
	txs := []*domain.Transaction{catTx("Groceries", "50.00")}

	analysis := NewAnalyzer().Analyze(txs, categories)

	if !analysis.TotalVariance.IsZero() {
		t.Errorf("TotalVariance = %s, want 0", analysis.TotalVariance)
	}
	if analysis.Status != domain.BudgetDeficit {
		t.Errorf("Status = %q for break-even, want deficit (no money moves)", analysis.Status)
	}
}

func TestAnalyzeTotalVarianceIsExactSumOfPerCategory(t *testing.T) {
	// Amounts picked to expose binary floating point drift if it existed.
	categories := []domain.Category{
		{Name: "A", WeeklyBudget: dec("33.33")},
		{Name: "B", WeeklyBudget: dec("66.67")},
		{Name: "C", WeeklyBudget: dec("0.01")},
	}
	txs := []*domain.Transaction{
		catTx("A", "0.10"), catTx("A", "0.20"), catTx("A", "0.30"),
		catTx("B", "10.01"), catTx("B", "20.02"),
		catTx("C", "0.03"),
	}

	analysis := NewAnalyzer().Analyze(txs, categories)

	sum := decimal.Zero
	for _, v := range analysis.PerCategory {
		sum = sum.Add(v.Variance)
	}
	if !analysis.TotalVariance.Equal(sum) {
		t.Errorf("TotalVariance = %s, sum of per-category variances = %s", analysis.TotalVariance, sum)
	}
}

func TestAnalyzeUncategorizedBucket(t *testing.T) {
	categories := []domain.Category{{Name: "Groceries", WeeklyBudget: dec("100")}}
	uncat := &domain.Transaction{MerchantLocation: "MYSTERY SHOP", Amount: dec("12.50")}
	stray := &domain.Transaction{MerchantLocation: "OLD SHOP", Amount: dec("7.50"), Category: "Retired Category"}
	txs := []*domain.Transaction{catTx("Groceries", "40.00"), uncat, stray}

	analysis := NewAnalyzer().Analyze(txs, categories)

	if !analysis.Uncategorized.Equal(dec("20.00")) {
		t.Errorf("Uncategorized = %s, want 20.00", analysis.Uncategorized)
	}
	if !analysis.TotalSpent.Equal(dec("60.00")) {
		t.Errorf("TotalSpent = %s, want 60.00 (uncategorized included)", analysis.TotalSpent)
	}
	if !analysis.TotalVariance.Equal(dec("60.00")) {
		t.Errorf("TotalVariance = %s, want 60.00 (uncategorized excluded from variance)", analysis.TotalVariance)
	}
	if got := analysis.PerCategory["Groceries"].Actual; !got.Equal(dec("40.00")) {
		t.Errorf("Groceries actual = %s, want 40.00", got)
	}
}

func TestAnalyzeNoTransactions(t *testing.T) {
	categories := []domain.Category{{Name: "Groceries", WeeklyBudget: dec("100")}}

	analysis := NewAnalyzer().Analyze(nil, categories)

	if !analysis.TotalSpent.IsZero() {
		t.Errorf("TotalSpent = %s, want 0", analysis.TotalSpent)
	}
	if !analysis.TotalVariance.Equal(dec("100")) {
		t.Errorf("TotalVariance = %s, want 100 (whole budget unspent)", analysis.TotalVariance)
	}
	if analysis.Status != domain.BudgetSurplus {
		t.Errorf("Status = %q, want surplus", analysis.Status)
	}
}
