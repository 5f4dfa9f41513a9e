package sheets

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

func TestParseBudgetRows(t *testing.T) {
	rows := [][]any{
		{"Groceries", "200"},
		{"Transport", "£100.00"},
		{"Eating Out", "1,250.50"},
		{},
		{"Utilities", "75,25"},
	}

	categories, err := parseBudgetRows(rows)
	if err != nil {
		t.Fatalf("parseBudgetRows() error = %v", err)
	}
	if len(categories) != 4 {
		t.Fatalf("got %d categories, want 4", len(categories))
	}

	want := map[string]string{
		"Groceries":  "200",
		"Transport":  "100.00",
		"Eating Out": "1250.50",
		"Utilities":  "75.25",
	}
	for _, c := range categories {
		if !c.WeeklyBudget.Equal(decimal.RequireFromString(want[c.Name])) {
			t.Errorf("%s budget = %s, want %s", c.Name, c.WeeklyBudget, want[c.Name])
		}
	}
}

func TestParseBudgetRowsErrors(t *testing.T) {
	tests := []struct {
		name string
		rows [][]any
	}{
		{name: "short row", rows: [][]any{{"Groceries"}}},
		{name: "empty name", rows: [][]any{{"", "100"}}},
		{name: "bad amount", rows: [][]any{{"Groceries", "lots"}}},
		{name: "negative amount", rows: [][]any{{"Groceries", "-10"}}},
		{name: "duplicate category", rows: [][]any{{"Groceries", "100"}, {"Groceries", "50"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseBudgetRows(tt.rows)
			var de *domain.DataError
			if !errors.As(err, &de) {
				t.Fatalf("parseBudgetRows() error = %v, want DataError", err)
			}
		})
	}
}

func TestParseBudgetRowsEmptySheet(t *testing.T) {
	categories, err := parseBudgetRows(nil)
	if err != nil {
		t.Fatalf("parseBudgetRows(nil) error = %v", err)
	}
	if len(categories) != 0 {
		t.Errorf("got %d categories from empty sheet", len(categories))
	}
}
