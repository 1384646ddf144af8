package parallel

import (
	"sync/atomic"
	"testing"
)

func TestForCoversAllIndices(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 16}
	const n = 10000

	seen := make([]int32, n)
	For(n, func(i int) {
		atomic.AddInt32(&seen[i], 1)
	}, cfg)

	for i, c := range seen {
		if c != 1 {
			t.Fatalf("index %d visited %d times, want 1", i, c)
		}
	}
}

func TestForSequentialBelowThreshold(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1000}

	// Small n runs on the calling goroutine in order.
	var order []int
	For(10, func(i int) {
		order = append(order, i)
	}, cfg)

	for i, v := range order {
		if v != i {
			t.Fatalf("order[%d] = %d, want %d", i, v, i)
		}
	}
}

func TestForDisabled(t *testing.T) {
	cfg := Config{Enabled: false, NumWorkers: 4, MinChunkSize: 1}

	count := 0
	For(100, func(i int) { count++ }, cfg)
	if count != 100 {
		t.Errorf("count = %d, want 100", count)
	}
}

func TestForRangeCoversAllIndices(t *testing.T) {
	cfg := Config{Enabled: true, NumWorkers: 3, MinChunkSize: 8}
	const n = 5000

	var total atomic.Int64
	ForRange(n, func(start, end int) {
		if start < 0 || end > n || start > end {
			t.Errorf("bad chunk [%d, %d)", start, end)
		}
		total.Add(int64(end - start))
	}, cfg)

	if total.Load() != n {
		t.Errorf("covered %d indices, want %d", total.Load(), n)
	}
}

func TestForRangeZero(t *testing.T) {
	cfg := DefaultConfig()
	called := false
	ForRange(0, func(start, end int) {
		called = true
		if start != 0 || end != 0 {
			t.Errorf("chunk = [%d, %d), want [0, 0)", start, end)
		}
	}, cfg)
	if !called {
		t.Error("ForRange(0) should still invoke f once with an empty range")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.NumWorkers < 1 {
		t.Errorf("NumWorkers = %d, want >= 1", cfg.NumWorkers)
	}
	if cfg.MinChunkSize <= 0 {
		t.Errorf("MinChunkSize = %d, want > 0", cfg.MinChunkSize)
	}
}
