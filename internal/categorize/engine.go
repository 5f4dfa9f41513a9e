// Package categorize maps free-text merchant locations onto the fixed budget
// category set with a single batched AI call per run.
package categorize

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/dvloznov/budget-pilot/internal/domain"
	"github.com/dvloznov/budget-pilot/internal/retry"
)

// Engine is the categorization engine. It owns the accuracy threshold and
// the retry budget for the AI call.
type Engine struct {
	completer  Completer
	threshold  float64
	maxRetries int
	backoff    retry.BackoffFunc
	log        zerolog.Logger
}

// NewEngine constructs an engine. threshold <= 0 and maxRetries < 0 fall back
// to the package defaults.
func NewEngine(completer Completer, threshold float64, maxRetries int, backoff retry.BackoffFunc, log zerolog.Logger) *Engine {
	if threshold <= 0 {
		threshold = DefaultAccuracyThreshold
	}
	if maxRetries < 0 {
		maxRetries = DefaultMaxRetries
	}
	return &Engine{
		completer:  completer,
		threshold:  threshold,
		maxRetries: maxRetries,
		backoff:    backoff,
		log:        log,
	}
}

// Categorize assigns a budget category to every transaction it can.
//
// Semantics:
//   - empty transaction batch: valid no-op, result carries a warning
//   - empty category set: unrecoverable DataError (nothing to map to)
//   - accuracy below threshold: warning, but every successful match is still
//     applied (partial success beats discarding results)
//   - AI call exhausting its retry budget: hard error
//
// A transaction that already has a category is never overwritten, so running
// the engine twice is idempotent on category assignment.
func (e *Engine) Categorize(ctx context.Context, txs []*domain.Transaction, categories []domain.Category) (*domain.CategorizationResult, error) {
	if len(categories) == 0 {
		return nil, domain.BadData("categorize", errors.New("no budget categories available"))
	}

	result := &domain.CategorizationResult{
		LocationToCategory: map[string]string{},
	}

	if len(txs) == 0 {
		result.Warning = WarnNoTransactions
		return result, nil
	}

	locations := pendingLocations(txs)
	if len(locations) == 0 {
		result.Warning = WarnNoNewLocations
		return result, nil
	}

	prompt := buildPrompt(locations, categories)

	var raw string
	attempts, err := retry.Do(ctx, e.maxRetries, e.backoff, func(ctx context.Context) error {
		var callErr error
		raw, callErr = e.completer.Complete(ctx, prompt)
		if callErr != nil {
			e.log.Warn().Err(callErr).Msg("AI categorization call failed")
		}
		return callErr
	})
	result.AttemptCount = attempts
	if err != nil {
		return nil, fmt.Errorf("categorize: AI call failed after %d attempts: %w", attempts, err)
	}

	result.LocationToCategory = parseResponse(raw, categories)
	result.Accuracy = float64(len(result.LocationToCategory)) / float64(len(locations))

	// Apply whatever matched. Exact string match on the location; a category
	// set once is never overwritten.
	for _, tx := range txs {
		if tx.Categorized() {
			continue
		}
		if cat, ok := result.LocationToCategory[tx.MerchantLocation]; ok {
			tx.Category = cat
			result.Categorized++
		}
	}

	if result.Accuracy < e.threshold {
		result.Warning = fmt.Sprintf("%s: %.2f < %.2f", WarnBelowThreshold, result.Accuracy, e.threshold)
		e.log.Warn().
			Float64("accuracy", result.Accuracy).
			Float64("threshold", e.threshold).
			Int("matched", len(result.LocationToCategory)).
			Int("locations", len(locations)).
			Msg("categorization accuracy below threshold")
	}

	e.log.Info().
		Int("transactions", len(txs)).
		Int("categorized", result.Categorized).
		Float64("accuracy", result.Accuracy).
		Int("attempts", attempts).
		Msg("categorization finished")

	return result, nil
}

// pendingLocations returns the sorted unique merchant locations of all
// transactions still lacking a category. Sorting keeps the prompt stable
// across runs with the same input.
func pendingLocations(txs []*domain.Transaction) []string {
	seen := make(map[string]bool)
	var out []string
	for _, tx := range txs {
		if tx.Categorized() || seen[tx.MerchantLocation] {
			continue
		}
		seen[tx.MerchantLocation] = true
		out = append(out, tx.MerchantLocation)
	}
	sort.Strings(out)
	return out
}
