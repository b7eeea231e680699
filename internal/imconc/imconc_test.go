// © 2025 Platform Engineering Labs Inc.
//
// SPDX-License-Identifier: FSL-1.1-ALv2

//go:build unit

package imconc

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestForEach_PreservesInputOrder(t *testing.T) {
	items := []int{5, 1, 4, 2, 3}

	results := ForEach(context.Background(), items, 0, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(n) * time.Millisecond)
		return n * 10, nil
	})

	require.Len(t, results, len(items))
	for i, n := range items {
		assert.Equal(t, n*10, results[i].Value)
		assert.NoError(t, results[i].Err)
	}
}

func TestForEach_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32

	ForEach(context.Background(), make([]struct{}, 20), 3, func(context.Context, struct{}) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(3))
	assert.Positive(t, peak.Load())
}

func TestForEach_CollectsErrorsWithoutStopping(t *testing.T) {
	boom := errors.New("boom")
	var calls atomic.Int32

	results := ForEach(context.Background(), []string{"a", "b", "c"}, 2, func(_ context.Context, s string) (string, error) {
		calls.Add(1)
		if s == "b" {
			return "", boom
		}
		return s, nil
	})

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, []error{boom}, Errors(results))
	assert.Equal(t, "c", results[2].Value)
}

func TestForEach_CancelledContextSkipsRemainingItems(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32

	results := ForEach(ctx, []int{1, 2, 3, 4}, 1, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		if n == 1 {
			cancel()
		}
		return n, nil
	})

	assert.Equal(t, int32(1), calls.Load())
	assert.NoError(t, results[0].Err)
	for _, r := range results[1:] {
		assert.ErrorIs(t, r.Err, context.Canceled)
	}
}
