package analyze

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestProcessWithPoolPreservesOrder(t *testing.T) {
	items := make([]int, 20)
	for i := range items {
		items[i] = i
	}

	for _, concurrency := range []int{1, 3, 20} {
		t.Run(fmt.Sprintf("concurrency_%d", concurrency), func(t *testing.T) {
			results, err := ProcessWithPool(context.Background(), items, func(_ context.Context, item int, _ int) (int, error) {
				// Reverse the delays so late items finish first.
				time.Sleep(time.Duration(len(items)-item) * time.Millisecond)
				return item * 2, nil
			}, PoolOptions{Concurrency: concurrency})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(results) != len(items) {
				t.Fatalf("expected %d results, got %d", len(items), len(results))
			}
			for i, r := range results {
				if r.Index != i || r.Result != i*2 {
					t.Errorf("result %d out of order: index=%d result=%d", i, r.Index, r.Result)
				}
			}
		})
	}
}

func TestProcessWithPoolConcurrencyBound(t *testing.T) {
	const concurrency = 4

	var active, peak int64
	items := make([]int, 30)

	_, err := ProcessWithPool(context.Background(), items, func(_ context.Context, _ int, _ int) (int, error) {
		n := atomic.AddInt64(&active, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		atomic.AddInt64(&active, -1)
		return 0, nil
	}, PoolOptions{Concurrency: concurrency})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if peak > concurrency {
		t.Errorf("observed %d simultaneous invocations, limit is %d", peak, concurrency)
	}
}

func TestProcessWithPoolZeroItems(t *testing.T) {
	results, err := ProcessWithPool(context.Background(), nil, func(_ context.Context, _ int, _ int) (int, error) {
		t.Fatal("processor must not run for zero items")
		return 0, nil
	}, PoolOptions{Concurrency: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("expected empty results, got %d", len(results))
	}
}

func TestProcessWithPoolProgress(t *testing.T) {
	items := []int{0, 1, 2, 3, 4}

	var mu sync.Mutex
	var calls []int

	_, err := ProcessWithPool(context.Background(), items, func(_ context.Context, item int, _ int) (int, error) {
		return item, nil
	}, PoolOptions{
		Concurrency: 2,
		OnProgress: func(completed, total int) {
			mu.Lock()
			calls = append(calls, completed)
			mu.Unlock()
			if total != len(items) {
				t.Errorf("expected total %d, got %d", len(items), total)
			}
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(calls) != len(items) {
		t.Fatalf("expected %d progress calls, got %d", len(items), len(calls))
	}
	for i, c := range calls {
		if c != i+1 {
			t.Errorf("progress call %d reported %d completed", i, c)
		}
	}
}

func TestProcessWithPoolErrorPropagates(t *testing.T) {
	wantErr := errors.New("boom")

	_, err := ProcessWithPool(context.Background(), []int{0, 1, 2}, func(_ context.Context, item int, _ int) (int, error) {
		if item == 1 {
			return 0, wantErr
		}
		return item, nil
	}, PoolOptions{Concurrency: 1})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected processor error to propagate, got %v", err)
	}
}

func TestStreamWithPoolDeliversAll(t *testing.T) {
	items := []int{0, 1, 2, 3, 4, 5}

	seen := make(map[int]int)
	for result := range StreamWithPool(context.Background(), items, func(_ context.Context, item int, _ int) (int, error) {
		return item * 10, nil
	}, PoolOptions{Concurrency: 3}) {
		if result.Err != nil {
			t.Fatalf("unexpected error: %v", result.Err)
		}
		seen[result.Index] = result.Result
	}

	if len(seen) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(seen))
	}
	for i := range items {
		if seen[i] != i*10 {
			t.Errorf("index %d: expected %d, got %d", i, i*10, seen[i])
		}
	}
}

func TestStreamWithPoolCarriesErrors(t *testing.T) {
	wantErr := errors.New("call failed")

	var failed int
	for result := range StreamWithPool(context.Background(), []int{0, 1}, func(_ context.Context, item int, _ int) (int, error) {
		if item == 0 {
			return 0, wantErr
		}
		return item, nil
	}, PoolOptions{Concurrency: 2}) {
		if result.Err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly one errored result, got %d", failed)
	}
}
