// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

package imconc

import (
	"context"

	"github.com/sourcegraph/conc/pool"
)

// Result pairs the value produced for one input item with its error.
type Result[R any] struct {
	Value R
	Err   error
}

// ForEach runs fn for every item with at most limit calls in flight; limit <= 0 means
// unbounded. Results are returned in input order. Items not yet started when ctx is
// cancelled are skipped and carry ctx.Err().
func ForEach[T, R any](ctx context.Context, items []T, limit int, fn func(context.Context, T) (R, error)) []Result[R] {
	results := make([]Result[R], len(items))

	p := pool.New()
	if limit > 0 {
		p = p.WithMaxGoroutines(limit)
	}

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}
		p.Go(func() {
			if err := ctx.Err(); err != nil {
				results[i].Err = err
				return
			}
			results[i].Value, results[i].Err = fn(ctx, item)
		})
	}
	p.Wait()

	return results
}

// Errors returns the non-nil errors of results, in input order.
func Errors[R any](results []Result[R]) []error {
	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}

	return errs
}
