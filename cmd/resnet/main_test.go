package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/born-ml/resnet/backend/cpu"
	"github.com/born-ml/resnet/tensor"
)

func TestTopClasses(t *testing.T) {
	logits := []float32{0.1, 2.5, -1, 2.5, 0.7}

	assert.Equal(t, []int{1, 3, 4}, topClasses(logits, 3))
	assert.Equal(t, []int{1, 3, 4, 0, 2}, topClasses(logits, 10))
	assert.Empty(t, topClasses(logits, 0))
}

func TestSyntheticImages(t *testing.T) {
	backend := cpu.New()

	a := syntheticImages(2, 8, 1, backend)
	b := syntheticImages(2, 8, 1, backend)
	c := syntheticImages(2, 8, 2, backend)

	assert.True(t, a.Shape().Equal(tensor.Shape{2, 3, 8, 8}))
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
