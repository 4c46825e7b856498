package resilience

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestSingleFlightCollapsesConcurrentCalls(t *testing.T) {
	var g SingleFlight
	var calls atomic.Int64
	release := make(chan struct{})

	var wg sync.WaitGroup
	results := make([]any, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := g.Do("leaders:2024", func() (any, error) {
				calls.Add(1)
				<-release
				return "ranked", nil
			})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Fatalf("expected a single loader call, got %d", got)
	}
	for i, v := range results {
		if v != "ranked" {
			t.Fatalf("result %d: got %v", i, v)
		}
	}
}

func TestSingleFlightDistinctKeysRunIndependently(t *testing.T) {
	var g SingleFlight
	var calls atomic.Int64

	for _, key := range []string{"a", "b"} {
		if _, err := g.Do(key, func() (any, error) {
			calls.Add(1)
			return nil, nil
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if got := calls.Load(); got != 2 {
		t.Fatalf("expected two loader calls, got %d", got)
	}
}
