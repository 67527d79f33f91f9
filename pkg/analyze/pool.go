package analyze

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// PoolResult pairs one processed item with its result and original index.
type PoolResult[T, R any] struct {
	Item   T
	Result R
	Index  int
	Err    error
}

// PoolOptions tunes a pool invocation.
type PoolOptions struct {
	// Concurrency bounds the number of in-flight processor calls.
	Concurrency int
	// OnProgress, when set, fires after each completion with the number of
	// completed items so far and the total. It runs in completion order and
	// must be fast; it is called while an internal lock is held.
	OnProgress func(completed, total int)
}

// ProcessWithPool runs processor over every item with at most
// opts.Concurrency calls in flight, starting the next pending item as soon
// as any call completes. Results come back ordered by the items' original
// indices regardless of completion order. The first processor error cancels
// the remaining work and is returned; callers that need partial results
// must have processor absorb its own failures.
func ProcessWithPool[T, R any](ctx context.Context, items []T, processor func(ctx context.Context, item T, index int) (R, error), opts PoolOptions) ([]PoolResult[T, R], error) {
	if len(items) == 0 {
		return nil, nil
	}

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	results := make([]PoolResult[T, R], len(items))

	var (
		progressLock sync.Mutex
		completed    int
	)

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(concurrency)

	for i, item := range items {
		group.Go(func() error {
			result, err := processor(groupCtx, item, i)
			if err != nil {
				return err
			}
			results[i] = PoolResult[T, R]{Item: item, Result: result, Index: i}

			progressLock.Lock()
			completed++
			if opts.OnProgress != nil {
				opts.OnProgress(completed, len(items))
			}
			progressLock.Unlock()

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// StreamWithPool runs processor over every item like ProcessWithPool but
// delivers each result on the returned channel as soon as it completes, in
// completion order. Processor errors are carried in PoolResult.Err rather
// than cancelling the pool. The channel is closed once all items finish or
// ctx is done.
func StreamWithPool[T, R any](ctx context.Context, items []T, processor func(ctx context.Context, item T, index int) (R, error), opts PoolOptions) <-chan PoolResult[T, R] {
	out := make(chan PoolResult[T, R])

	concurrency := int64(opts.Concurrency)
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}

	go func() {
		defer close(out)

		sem := semaphore.NewWeighted(concurrency)
		var wg sync.WaitGroup

		for i, item := range items {
			if err := sem.Acquire(ctx, 1); err != nil {
				break
			}
			wg.Add(1)
			go func() {
				defer wg.Done()
				defer sem.Release(1)

				result, err := processor(ctx, item, i)
				select {
				case out <- PoolResult[T, R]{Item: item, Result: result, Index: i, Err: err}:
				case <-ctx.Done():
				}
			}()
		}
		wg.Wait()
	}()

	return out
}
