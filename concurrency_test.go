package hdrbg_test

import (
	"sync"
	"testing"

	"pkt.systems/hdrbg"
)

// One instance per goroutine needs no coordination beyond instantiation.
func TestInstancePerGoroutine(t *testing.T) {
	const workers = 8
	first := make([]uint64, workers)
	errs := make(chan error, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rng, err := hdrbg.New()
			if err != nil {
				errs <- err
				return
			}
			defer rng.Zero()
			for j := range 1000 {
				v, err := rng.Uint64n(1000)
				if err != nil {
					errs <- err
					return
				}
				if j == 0 {
					first[i], _ = rng.Uint64()
				}
				_ = v
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("worker error: %v", err)
	}
	seen := map[uint64]bool{}
	for _, v := range first {
		if seen[v] {
			t.Fatalf("two goroutines produced the same first value %#x", v)
		}
		seen[v] = true
	}
}
