// Package insight turns a budget analysis into a short narrative summary for
// the weekly report email.
package insight

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// Completer is the AI completion dependency. Satisfied by
// categorize.GeminiCompleter in production.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator produces the narrative.
type Generator struct {
	completer Completer
}

func NewGenerator(completer Completer) *Generator {
	return &Generator{completer: completer}
}

// Narrative asks the model for a short summary of the week. A single call,
// no retries: the insight stage is non-critical and the report falls back to
// a plain table when it fails.
func (g *Generator) Narrative(ctx context.Context, analysis *domain.BudgetAnalysis) (string, error) {
	text, err := g.completer.Complete(ctx, buildPrompt(analysis))
	if err != nil {
		return "", fmt.Errorf("insight: %w", err)
	}
	return strings.TrimSpace(text), nil
}

func buildPrompt(analysis *domain.BudgetAnalysis) string {
	var b strings.Builder
	b.WriteString("You are a personal finance assistant. Write a short, friendly summary ")
	b.WriteString("(3-5 sentences, plain text, no Markdown) of this week's spending against budget. ")
	b.WriteString("Mention the overall result and the categories that stand out.\n\n")

	fmt.Fprintf(&b, "Overall: %s of %s (budget %s, spent %s)\n\n",
		analysis.Status, analysis.TotalVariance.Abs().StringFixed(2),
		analysis.TotalBudget.StringFixed(2), analysis.TotalSpent.StringFixed(2))

	names := make([]string, 0, len(analysis.PerCategory))
	for name := range analysis.PerCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("Per category (budgeted / actual / variance):\n")
	for _, name := range names {
		v := analysis.PerCategory[name]
		fmt.Fprintf(&b, "- %s: %s / %s / %s\n",
			name, v.Budgeted.StringFixed(2), v.Actual.StringFixed(2), v.Variance.StringFixed(2))
	}
	if analysis.Uncategorized.IsPositive() {
		fmt.Fprintf(&b, "- Uncategorized spend: %s\n", analysis.Uncategorized.StringFixed(2))
	}
	return b.String()
}
