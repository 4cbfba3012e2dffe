package collector

import (
	"context"
	"sync"
)

// runPool processes items with a bounded number of workers and collects task
// results in completion order, stopping once target results are accepted.
// Work already dispatched when the target is hit runs to completion and is
// discarded. A task returning ok=false contributes nothing.
func runPool[T, R any](ctx context.Context, items []T, workers, target int, task func(context.Context, T) (R, bool)) []R {
	if target <= 0 || len(items) == 0 {
		return nil
	}
	if workers < 1 {
		workers = 1
	}

	in := make(chan T)
	results := make(chan R)
	stop := make(chan struct{})

	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			for item := range in {
				r, ok := task(ctx, item)
				if !ok {
					continue
				}
				select {
				case results <- r:
				case <-stop:
					return
				}
			}
		}()
	}

	go func() {
		defer close(in)
		for _, item := range items {
			select {
			case in <- item:
			case <-stop:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(results)
		close(done)
	}()

	var out []R
	for r := range results {
		out = append(out, r)
		if len(out) >= target {
			break
		}
	}
	close(stop)

	// Drain in-flight results so remaining workers can exit.
	go func() {
		for range results {
		}
	}()
	<-done
	return out
}
