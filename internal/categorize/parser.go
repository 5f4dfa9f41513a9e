package categorize

import (
	"bufio"
	"regexp"
	"strings"

	"github.com/dvloznov/budget-pilot/internal/domain"
)

// The AI response is a fragile line-oriented wire format. Each mapping line
// must match:
//
//	Location: <location> -> Category: <category>
//
// Anything else on a line (Markdown fences, prose, partial lines) is skipped.
// A line whose category is not in the known set is treated as unmatched, not
// as an error.
var mappingLine = regexp.MustCompile(`^Location:\s*(.+?)\s*->\s*Category:\s*(.+?)\s*$`)

// parseResponse extracts location→category mappings from raw model output.
// Returned category names are canonical (as spelled in the taxonomy);
// matching against the known set is case-insensitive. Locations are matched
// exactly. The first mapping for a location wins; duplicates are ignored.
//
// A syntactically valid but semantically empty response yields an empty map,
// which the engine reports as accuracy 0.0.
func parseResponse(raw string, categories []domain.Category) map[string]string {
	known := make(map[string]string, len(categories))
	for _, c := range categories {
		known[normalizeCategory(c.Name)] = c.Name
	}

	out := make(map[string]string)
	scanner := bufio.NewScanner(strings.NewReader(raw))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "```") {
			continue
		}
		// Tolerate list markers the model sometimes prepends.
		line = strings.TrimPrefix(line, "- ")

		m := mappingLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		location, category := m[1], m[2]

		canonical, ok := known[normalizeCategory(category)]
		if !ok {
			continue
		}
		if _, seen := out[location]; seen {
			continue
		}
		out[location] = canonical
	}
	return out
}

// normalizeCategory normalizes a category name for comparison.
// Converts to uppercase and trims whitespace for case-insensitive comparison.
func normalizeCategory(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
