package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Probe is one per-component readiness check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// ProbeResult reports one probe's outcome; Err nil means ready.
type ProbeResult struct {
	Name string
	Err  error
}

// RunHealthChecks probes every component concurrently and reports all
// results. Probes never short-circuit each other: an unreachable bank still
// lets the sheets probe report its own state.
func RunHealthChecks(ctx context.Context, probes []Probe) []ProbeResult {
	results := make([]ProbeResult, len(probes))

	var g errgroup.Group
	for i, probe := range probes {
		g.Go(func() error {
			results[i] = ProbeResult{Name: probe.Name, Err: probe.Check(ctx)}
			return nil
		})
	}
	g.Wait()

	return results
}

// Healthy reports whether every probe passed.
func Healthy(results []ProbeResult) bool {
	for _, r := range results {
		if r.Err != nil {
			return false
		}
	}
	return true
}
