package categorize

// Default values for the categorization engine. Overridable via configuration.
const (
	// DefaultAccuracyThreshold is the minimum fraction of unique merchant
	// locations that must be mapped to a known category for the batch to
	// count as a clean success.
	DefaultAccuracyThreshold = 0.95

	// DefaultMaxRetries bounds retries of the AI call on transient failures.
	DefaultMaxRetries = 3
)

// Warning messages surfaced in degraded (but non-error) results.
const (
	WarnNoTransactions = "No transactions to categorize"
	WarnNoNewLocations = "All transactions already categorized"
	WarnBelowThreshold = "categorization accuracy below threshold"
)
