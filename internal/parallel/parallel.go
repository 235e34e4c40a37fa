// Package parallel splits kernel loops across goroutines.
//
// Every index is handled by exactly one goroutine, so kernels that write
// disjoint output ranges per index stay deterministic.
package parallel

import (
	"runtime"
	"sync"
)

// Config controls parallel execution of a kernel loop.
type Config struct {
	Workers int // Maximum number of goroutines; 1 or less runs inline.
	Grain   int // Minimum iterations handed to one goroutine.
}

// DefaultConfig uses one worker per schedulable CPU.
func DefaultConfig() Config {
	return Config{
		Workers: runtime.GOMAXPROCS(0),
		Grain:   1,
	}
}

// Sequential returns a Config that runs every loop on the calling goroutine.
func Sequential() Config {
	return Config{Workers: 1, Grain: 1}
}

// chunk returns the number of iterations per goroutine, or 0 when the loop
// should run inline.
func (c Config) chunk(n int) int {
	grain := max(c.Grain, 1)
	if c.Workers <= 1 || n < 2*grain {
		return 0
	}
	return max((n+c.Workers-1)/c.Workers, grain)
}

// For executes f(i) for i in [0, n).
func For(cfg Config, n int, f func(i int)) {
	size := cfg.chunk(n)
	if size == 0 {
		for i := 0; i < n; i++ {
			f(i)
		}
		return
	}

	var wg sync.WaitGroup
	for start := 0; start < n; start += size {
		end := min(start+size, n)
		wg.Go(func() {
			for i := start; i < end; i++ {
				f(i)
			}
		})
	}
	wg.Wait()
}

// ForPlanes iterates over every (batch, channel) plane of an NCHW tensor.
func ForPlanes(cfg Config, batch, channels int, f func(n, c int)) {
	For(cfg, batch*channels, func(k int) {
		f(k/channels, k%channels)
	})
}
