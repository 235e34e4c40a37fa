package parallel

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFor(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		n    int
	}{
		{"default", DefaultConfig(), 1000},
		{"sequential", Sequential(), 100},
		{"coarse grain", Config{Workers: 4, Grain: 300}, 1000},
		{"empty", DefaultConfig(), 0},
		{"fewer items than workers", Config{Workers: 16, Grain: 1}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hits := make([]int32, tt.n)
			var total int64
			For(tt.cfg, tt.n, func(i int) {
				atomic.AddInt32(&hits[i], 1)
				atomic.AddInt64(&total, 1)
			})

			assert.Equal(t, int64(tt.n), total)
			for i, h := range hits {
				assert.Equal(t, int32(1), h, "index %d visited %d times", i, h)
			}
		})
	}
}

func TestForPlanes(t *testing.T) {
	batch, channels := 4, 8
	seen := make([][]bool, batch)
	for b := range seen {
		seen[b] = make([]bool, channels)
	}

	ForPlanes(DefaultConfig(), batch, channels, func(n, c int) {
		seen[n][c] = true
	})

	for n := 0; n < batch; n++ {
		for c := 0; c < channels; c++ {
			assert.True(t, seen[n][c], "missing plane [%d][%d]", n, c)
		}
	}
}

func TestConfig_Chunk(t *testing.T) {
	assert.Zero(t, Sequential().chunk(1000), "sequential config must run inline")
	assert.Zero(t, Config{Workers: 8, Grain: 64}.chunk(100), "small loops run inline")
	assert.Equal(t, 125, Config{Workers: 8, Grain: 1}.chunk(1000))
	assert.Equal(t, 200, Config{Workers: 8, Grain: 200}.chunk(1000))
}
