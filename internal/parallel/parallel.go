// Package parallel runs independent iterations of the layer loops
// (batch index, output channel) on multiple goroutines.
package parallel

import (
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum iterations per goroutine.
}

// DefaultConfig returns defaults based on CPU count.
//
// Layer loops iterate over batch*channels, which is small compared to the
// per-iteration work, so the chunk floor is low.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 4,
	}
}

// Sequential returns a Config that never spawns goroutines.
func Sequential() Config {
	return Config{Enabled: false, NumWorkers: 1, MinChunkSize: 1}
}

// chunks splits [0, n) into contiguous ranges, one per goroutine.
func (cfg Config) chunks(n int) [][2]int {
	if !cfg.Enabled || cfg.NumWorkers <= 1 || n < 2*max(cfg.MinChunkSize, 1) {
		return [][2]int{{0, n}}
	}
	chunkSize := max((n+cfg.NumWorkers-1)/cfg.NumWorkers, cfg.MinChunkSize, 1)
	var out [][2]int
	for start := 0; start < n; start += chunkSize {
		out = append(out, [2]int{start, min(start+chunkSize, n)})
	}
	return out
}

// For executes f(i) for i in [0, n) with optional parallelism.
// Falls back to sequential execution if parallelism is disabled or n is too small.
//
// f must only write state owned by iteration i.
func For(n int, f func(i int), cfg Config) {
	ranges := cfg.chunks(n)
	if len(ranges) == 1 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	for _, r := range ranges {
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				f(i)
			}
		}(r[0], r[1])
	}
	wg.Wait()
}

// ForBatch iterates the batch*channels grid used by Conv and AvgPool.
func ForBatch(batch, channels int, f func(b, c int), cfg Config) {
	n := batch * channels
	For(n, func(k int) {
		f(k/channels, k%channels)
	}, cfg)
}

// Reduce executes f(i, partial) for i in [0, n), where partial is an
// accumulator of length width private to the calling goroutine, and returns
// the element-wise sum of all accumulators.
//
// Accumulators are summed in chunk order, so the result is deterministic
// for a fixed Config.
func Reduce(n, width int, f func(i int, partial []float64), cfg Config) []float64 {
	ranges := cfg.chunks(n)
	partials := make([][]float64, len(ranges))

	var wg sync.WaitGroup
	for k, r := range ranges {
		partials[k] = make([]float64, width)
		run := func(k, s, e int) {
			for i := s; i < e; i++ {
				f(i, partials[k])
			}
		}
		if len(ranges) == 1 {
			run(k, r[0], r[1])
			continue
		}
		wg.Add(1)
		go func(k, s, e int) {
			defer wg.Done()
			run(k, s, e)
		}(k, r[0], r[1])
	}
	wg.Wait()

	out := partials[0]
	for _, p := range partials[1:] {
		floats.Add(out, p)
	}
	return out
}
