package categorize

import (
	"strings"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// buildPrompt constructs a single batched prompt covering every uncategorized
// merchant location. One AI call per run, never one per transaction.
func buildPrompt(locations []string, categories []domain.Category) string {
	var b strings.Builder

	b.WriteString("You are a personal finance assistant that assigns bank transactions to budget categories.\n\n")
	b.WriteString("Task:\n")
	b.WriteString("- For EVERY merchant location listed below, pick the single most appropriate budget category.\n")
	b.WriteString("- Respond with EXACTLY one line per location, in this format:\n")
	b.WriteString("  Location: <location> -> Category: <category>\n")
	b.WriteString("- Repeat the location text exactly as given, including punctuation and casing.\n")
	b.WriteString("- Do not add any other text, explanations, numbering, or Markdown.\n\n")

	b.WriteString("Use ONLY the following categories:\n")
	for _, c := range categories {
		b.WriteString("- " + c.Name + "\n")
	}
	b.WriteString("\n")

	b.WriteString("Merchant locations:\n")
	for _, loc := range locations {
		b.WriteString("- " + loc + "\n")
	}
	b.WriteString("\n")

	b.WriteString("RULES:\n")
	b.WriteString("1. Category must be EXACTLY one of the category names shown above.\n")
	b.WriteString("2. If no category fits a location, omit that line entirely rather than inventing a category.\n")
	b.WriteString("3. Output must contain nothing but the Location/Category lines.\n")

	return b.String()
}
