package collector

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunPoolCollectsAcceptedResults(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}
	got := runPool(context.Background(), items, 2, 10, func(_ context.Context, n int) (int, bool) {
		if n%2 == 0 {
			return 0, false
		}
		return n * 10, true
	})
	assert.ElementsMatch(t, []int{10, 30, 50}, got)
}

func TestRunPoolStopsAtTarget(t *testing.T) {
	items := make([]int, 100)
	for i := range items {
		items[i] = i
	}
	var processed int32
	got := runPool(context.Background(), items, 4, 5, func(_ context.Context, n int) (int, bool) {
		atomic.AddInt32(&processed, 1)
		return n, true
	})
	assert.Len(t, got, 5)
	assert.Less(t, atomic.LoadInt32(&processed), int32(100), "dispatch stops after the target is hit")
}

func TestRunPoolZeroTargetAndEmptyInput(t *testing.T) {
	assert.Nil(t, runPool(context.Background(), []int{1}, 2, 0, func(_ context.Context, n int) (int, bool) { return n, true }))
	assert.Nil(t, runPool(context.Background(), nil, 2, 5, func(_ context.Context, n int) (int, bool) { return n, true }))
}
