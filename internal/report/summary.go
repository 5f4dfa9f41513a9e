package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// FormatSummary renders the analysis as a plain-text table. Used as the
// report body when the insight narrative is unavailable, and appended below
// the narrative when it is.
func FormatSummary(analysis *domain.BudgetAnalysis) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Weekly budget: %s\n", analysis.TotalBudget.StringFixed(2))
	fmt.Fprintf(&b, "Total spent:   %s\n", analysis.TotalSpent.StringFixed(2))
	fmt.Fprintf(&b, "Variance:      %s (%s)\n\n", analysis.TotalVariance.StringFixed(2), analysis.Status)

	names := make([]string, 0, len(analysis.PerCategory))
	width := 0
	for name := range analysis.PerCategory {
		names = append(names, name)
		if len(name) > width {
			width = len(name)
		}
	}
	sort.Strings(names)

	for _, name := range names {
		v := analysis.PerCategory[name]
		fmt.Fprintf(&b, "%-*s  budgeted %10s  spent %10s  variance %10s\n",
			width, name, v.Budgeted.StringFixed(2), v.Actual.StringFixed(2), v.Variance.StringFixed(2))
	}
	if analysis.Uncategorized.IsPositive() {
		fmt.Fprintf(&b, "%-*s  %10s\n", width, "Uncategorized", analysis.Uncategorized.StringFixed(2))
	}

	return b.String()
}
