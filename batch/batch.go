// Package batch executes an ordered list of independent operations with a
// fixed fan-out cap and reduces the per-item outcomes into one aggregated,
// order-preserving result.
//
// Input longer than the cap is silently truncated to the first limit items.
// That matches the wire contract (the tool schemas advertise maxItems) but it
// is truncation, not rejection: callers sending more items lose the tail
// without an error.
package batch

import (
	"context"
	"fmt"
	"sync"
)

// DefaultLimit is the maximum number of concurrently executing items per
// batch. The cap equals the maximum concurrency; there is no internal queue.
const DefaultLimit = 16

// Result aggregates per-item outcomes. Results[i] corresponds to the i-th
// input item regardless of completion order, and
// SuccessCount+FailureCount == len(Results) always holds.
type Result[R any] struct {
	SuccessCount int `json:"success_count"`
	FailureCount int `json:"failure_count"`
	Results      []R `json:"results"`
}

// ExecFunc runs one item and returns its outcome or an error.
type ExecFunc[T, R any] func(ctx context.Context, item T) (R, error)

// FallbackFunc converts an item whose execution errored (or panicked) into
// the failure variant of the outcome, echoing identifying fields of the item.
type FallbackFunc[T, R any] func(item T, err error) R

// SucceededFunc classifies an outcome. Classification is outcome-intrinsic
// (e.g. an opened/exported flag), not merely "no error occurred".
type SucceededFunc[R any] func(r R) bool

// Run dispatches up to limit items concurrently and collects their outcomes
// in input order. Each item is isolated: a failing or panicking item becomes
// a failure slot via fallback and never aborts its siblings. Executed items
// are not undone when later items fail.
func Run[T, R any](ctx context.Context, items []T, limit int, exec ExecFunc[T, R], fallback FallbackFunc[T, R], succeeded SucceededFunc[R]) Result[R] {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if len(items) > limit {
		items = items[:limit]
	}

	results := make([]R, len(items))

	var wg sync.WaitGroup
	for i, item := range items {
		wg.Add(1)
		go func(i int, item T) {
			defer wg.Done()
			results[i] = runOne(ctx, item, exec, fallback)
		}(i, item)
	}
	wg.Wait()

	out := Result[R]{Results: results}
	for i := range results {
		if succeeded(results[i]) {
			out.SuccessCount++
		} else {
			out.FailureCount++
		}
	}
	return out
}

func runOne[T, R any](ctx context.Context, item T, exec ExecFunc[T, R], fallback FallbackFunc[T, R]) (out R) {
	defer func() {
		if p := recover(); p != nil {
			out = fallback(item, fmt.Errorf("panic: %v", p))
		}
	}()

	res, err := exec(ctx, item)
	if err != nil {
		return fallback(item, err)
	}
	return res
}
