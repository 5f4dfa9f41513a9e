package insight

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

type mockCompleter struct {
	CompleteFunc func(ctx context.Context, prompt string) (string, error)
	lastPrompt   string
}

func (m *mockCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	m.lastPrompt = prompt
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, prompt)
	}
	return "A fine week.", nil
}

func testAnalysis() *domain.BudgetAnalysis {
	return &domain.BudgetAnalysis{
		PerCategory: map[string]domain.CategoryVariance{
			"Groceries": {
				Budgeted: decimal.RequireFromString("200"),
				Actual:   decimal.RequireFromString("180.50"),
				Variance: decimal.RequireFromString("19.50"),
			},
		},
		Uncategorized: decimal.RequireFromString("12.00"),
		TotalBudget:   decimal.RequireFromString("200"),
		TotalSpent:    decimal.RequireFromString("192.50"),
		TotalVariance: decimal.RequireFromString("19.50"),
		Status:        domain.BudgetSurplus,
	}
}

func TestNarrativePromptCarriesAnalysis(t *testing.T) {
	mock := &mockCompleter{}
	text, err := NewGenerator(mock).Narrative(context.Background(), testAnalysis())
	if err != nil {
		t.Fatalf("Narrative() error = %v", err)
	}
	if text != "A fine week." {
		t.Errorf("Narrative() = %q", text)
	}
	for _, want := range []string{"Groceries", "180.50", "19.50", "surplus", "Uncategorized"} {
		if !strings.Contains(mock.lastPrompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestNarrativePropagatesError(t *testing.T) {
	mock := &mockCompleter{
		CompleteFunc: func(ctx context.Context, prompt string) (string, error) {
			return "", domain.Transient("gemini", errors.New("down"))
		},
	}
	_, err := NewGenerator(mock).Narrative(context.Background(), testAnalysis())
	if err == nil {
		t.Fatal("Narrative() = nil error, want error")
	}
}
