// Package workerpool provides bounded parallel fan-out over independent
// work items, used by collision.CheckAsync to test each obstacle on its own
// worker.
package workerpool

import (
	"context"
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/multierr"
)

// MaxWorkers is the default concurrency cap used when Run is called with
// workers <= 0. Mirrors the corpus's practice of sizing parallelism off
// GOMAXPROCS rather than a fixed constant.
var MaxWorkers = runtime.GOMAXPROCS(0)

// Run applies work to every index in [0, n) using up to workers goroutines,
// stopping early (and cancelling the context passed to outstanding workers)
// on the first error. All errors observed before cancellation takes effect
// are combined and returned together.
//
// A panic inside work is recovered, converted to an error, and treated the
// same as any other failure; it does not crash the caller.
func Run(ctx context.Context, n, workers int, work func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if workers <= 0 {
		workers = MaxWorkers
	}
	if workers > n {
		workers = n
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		combined  error
		nextIndex int
		idxMu     sync.Mutex
	)

	storeErr := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		combined = multierr.Append(combined, err)
		cancel()
	}

	take := func() (int, bool) {
		idxMu.Lock()
		defer idxMu.Unlock()
		if nextIndex >= n {
			return 0, false
		}
		i := nextIndex
		nextIndex++
		return i, true
	}

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for {
				if ctx.Err() != nil {
					return
				}
				i, ok := take()
				if !ok {
					return
				}
				if err := runOne(ctx, i, work); err != nil {
					storeErr(err)
					return
				}
			}
		}()
	}
	wg.Wait()

	return combined
}

func runOne(ctx context.Context, i int, work func(ctx context.Context, i int) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("workerpool: panic evaluating index %d: %v", i, r)
		}
	}()
	return work(ctx, i)
}
