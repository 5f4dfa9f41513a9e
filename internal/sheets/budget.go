// Package sheets loads the weekly budget from a Google Sheet. The sheet is
// the system of record for categories: one row per category, name in the
// first column and weekly amount in the second.
package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// BudgetSource reads budget categories from one spreadsheet range.
type BudgetSource struct {
	svc           *gsheet.Service
	spreadsheetID string
	readRange     string
}

// NewBudgetSource creates a source for the given spreadsheet and range
// (e.g. "Budget!A2:B"). Credentials come from ADC unless overridden via opts.
func NewBudgetSource(ctx context.Context, spreadsheetID, readRange string, opts ...goption.ClientOption) (*BudgetSource, error) {
	if strings.TrimSpace(spreadsheetID) == "" {
		return nil, errors.New("sheets: missing spreadsheet id")
	}
	svc, err := gsheet.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("sheets: creating service: %w", err)
	}
	return &BudgetSource{svc: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

// Categories reads all budget rows. Malformed rows fail the whole load: a
// budget with a hole in it would silently skew every variance downstream.
func (s *BudgetSource) Categories(ctx context.Context) ([]domain.Category, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, s.readRange).Context(ctx).Do()
	if err != nil {
		return nil, domain.Transient("sheets: reading budget", err)
	}
	return parseBudgetRows(resp.Values)
}

// Ping verifies the spreadsheet is reachable.
func (s *BudgetSource) Ping(ctx context.Context) error {
	_, err := s.svc.Spreadsheets.Get(s.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sheets: ping: %w", err)
	}
	return nil
}

// parseBudgetRows converts raw sheet values into categories. Blank rows are
// skipped; duplicate names and unparseable amounts are data errors.
func parseBudgetRows(rows [][]any) ([]domain.Category, error) {
	var categories []domain.Category
	seen := make(map[string]bool)

	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		if len(row) < 2 {
			return nil, domain.BadData("sheets: budget", fmt.Errorf("row %d: want [name, amount], got %d cells", i+1, len(row)))
		}

		name := strings.TrimSpace(fmt.Sprint(row[0]))
		rawAmount := strings.TrimSpace(fmt.Sprint(row[1]))
		if name == "" && rawAmount == "" {
			continue
		}
		if name == "" {
			return nil, domain.BadData("sheets: budget", fmt.Errorf("row %d: empty category name", i+1))
		}
		if seen[name] {
			return nil, domain.BadData("sheets: budget", fmt.Errorf("row %d: duplicate category %q", i+1, name))
		}

		amount, err := parseAmount(rawAmount)
		if err != nil {
			return nil, domain.BadData("sheets: budget", fmt.Errorf("row %d (%s): %w", i+1, name, err))
		}

		seen[name] = true
		categories = append(categories, domain.Category{Name: name, WeeklyBudget: amount})
	}
	return categories, nil
}

// parseAmount accepts plain decimals plus the currency formatting people put
// in spreadsheets: "£200", "$1,250.00", "200,00".
func parseAmount(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "£$€ ")
	// European decimal comma only when there's no dot already.
	if strings.Contains(s, ",") && !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	} else {
		s = strings.ReplaceAll(s, ",", "")
	}
	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", raw, err)
	}
	if amount.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative budget amount %q", raw)
	}
	return amount, nil
}
