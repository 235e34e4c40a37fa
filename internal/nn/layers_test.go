package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/tensor"
)

type Backend = *cpu.CPUBackend

// fromSlice builds a float32 tensor or fails the test.
func fromSlice(t *testing.T, data []float32, shape tensor.Shape, backend Backend) *tensor.Tensor[float32, Backend] {
	t.Helper()
	x, err := tensor.FromSlice(data, shape, backend)
	require.NoError(t, err)
	return x
}

func TestConv2D_Creation(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(3, 64, 7, 7, 2, 3, false, backend)

	assert.Equal(t, 3, conv.InChannels())
	assert.Equal(t, 64, conv.OutChannels())
	assert.Equal(t, [2]int{7, 7}, conv.KernelSize())
	assert.Equal(t, 2, conv.Stride())
	assert.Equal(t, 3, conv.Padding())
	assert.Equal(t, KindConv, conv.Kind())
	assert.Nil(t, conv.Bias())
	assert.True(t, conv.Weight().Shape().Equal(tensor.Shape{64, 3, 7, 7}))
	assert.Len(t, conv.Parameters(), 1)
	assert.Equal(t, "Conv2D(in_channels=3, out_channels=64, kernel_size=(7, 7), stride=2, padding=3, bias=false)", conv.String())

	withBias := NewConv2D(1, 2, 3, 3, 1, 1, true, backend)
	assert.Len(t, withBias.Parameters(), 2)

	assert.Panics(t, func() { NewConv2D(0, 1, 3, 3, 1, 0, false, backend) })
	assert.Panics(t, func() { NewConv2D(1, 1, 3, 3, 0, 0, false, backend) })
	assert.Panics(t, func() { NewConv2D(1, 1, 3, 3, 1, -1, false, backend) })
}

func TestConv2D_Forward(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(1, 2, 2, 2, 1, 0, true, backend)
	copy(conv.Weight().Tensor().Data(), []float32{1, 2, 3, 4, 1, 1, 1, 1})
	copy(conv.Bias().Tensor().Data(), []float32{0, 100})

	input := fromSlice(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9}, tensor.Shape{1, 1, 3, 3}, backend)
	output := conv.Forward(input)

	require.True(t, output.Shape().Equal(tensor.Shape{1, 2, 2, 2}))
	assert.Equal(t, []float32{37, 47, 67, 77, 112, 116, 124, 128}, output.Data())

	assert.Panics(t, func() { conv.Forward(tensor.Zeros[float32](tensor.Shape{1, 3, 3, 3}, backend)) })
}

func TestConv2D_OutputShape(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name    string
		conv    *Conv2D[Backend]
		input   tensor.Shape
		want    tensor.Shape
		wantErr bool
	}{
		{"stem", NewConv2D(3, 64, 7, 7, 2, 3, false, backend), tensor.Shape{2, 3, 224, 224}, tensor.Shape{2, 64, 112, 112}, false},
		{"3x3 stride 2", NewConv2D(128, 128, 3, 3, 2, 1, false, backend), tensor.Shape{1, 128, 56, 56}, tensor.Shape{1, 128, 28, 28}, false},
		{"3x3 odd input", NewConv2D(8, 8, 3, 3, 2, 1, false, backend), tensor.Shape{1, 8, 7, 7}, tensor.Shape{1, 8, 4, 4}, false},
		{"1x1 projection", NewConv2D(256, 512, 1, 1, 2, 0, false, backend), tensor.Shape{1, 256, 56, 56}, tensor.Shape{1, 512, 28, 28}, false},
		{"wrong channels", NewConv2D(3, 8, 3, 3, 1, 1, false, backend), tensor.Shape{1, 4, 8, 8}, nil, true},
		{"wrong rank", NewConv2D(3, 8, 3, 3, 1, 1, false, backend), tensor.Shape{3, 8, 8}, nil, true},
		{"too small", NewConv2D(3, 8, 7, 7, 1, 0, false, backend), tensor.Shape{1, 3, 4, 4}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.conv.OutputShape(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, got.Equal(tt.want), "got %v, want %v", got, tt.want)
		})
	}
}

func TestBatchNorm2D(t *testing.T) {
	backend := cpu.New()

	bn := NewBatchNorm2D(2, 0, backend)
	assert.Equal(t, KindNorm, bn.Kind())
	assert.Equal(t, 2, bn.NumFeatures())
	assert.Equal(t, []float32{1, 1}, bn.Weight().Tensor().Data())
	assert.Equal(t, []float32{0, 0}, bn.Bias().Tensor().Data())
	assert.Len(t, bn.Parameters(), 2)
	assert.Len(t, bn.Buffers(), 2)

	input := fromSlice(t, []float32{1, -2, 3, -4}, tensor.Shape{1, 2, 1, 2}, backend)
	assert.Equal(t, input.Data(), bn.Forward(input).Data(), "fresh batch norm is the identity")

	copy(bn.Weight().Tensor().Data(), []float32{2, 3})
	copy(bn.Bias().Tensor().Data(), []float32{1, 0})
	copy(bn.Buffers()[0].Tensor().Data(), []float32{1, 0})
	copy(bn.Buffers()[1].Tensor().Data(), []float32{4, 1})

	out := bn.Forward(input)
	assert.InDeltaSlice(t, []float32{1, -2, 9, -12}, out.Data(), 1e-6)

	bn.ResetRunningStats()
	assert.Equal(t, []float32{0, 0}, bn.Buffers()[0].Tensor().Data())
	assert.Equal(t, []float32{1, 1}, bn.Buffers()[1].Tensor().Data())

	assert.Panics(t, func() { bn.Forward(tensor.Zeros[float32](tensor.Shape{1, 3, 1, 1}, backend)) })
}

func TestReLU(t *testing.T) {
	backend := cpu.New()
	relu := NewReLU[Backend]()

	out := relu.Forward(fromSlice(t, []float32{-1, 0, 2}, tensor.Shape{3}, backend))
	assert.Equal(t, []float32{0, 0, 2}, out.Data())
	assert.Nil(t, relu.Parameters())
	assert.Equal(t, KindActivation, relu.Kind())
}

func TestPooling(t *testing.T) {
	backend := cpu.New()

	maxPool := NewMaxPool2D(3, 2, 1, backend)
	shape, err := maxPool.OutputShape(tensor.Shape{2, 64, 112, 112})
	require.NoError(t, err)
	assert.True(t, shape.Equal(tensor.Shape{2, 64, 56, 56}))
	assert.Equal(t, "MaxPool2D(kernel_size=3, stride=2, padding=1)", maxPool.String())
	assert.Panics(t, func() { NewMaxPool2D(3, 2, 2, backend) })

	avgPool := NewAvgPool2D(7, 1, backend)
	shape, err = avgPool.OutputShape(tensor.Shape{2, 2048, 7, 7})
	require.NoError(t, err)
	assert.True(t, shape.Equal(tensor.Shape{2, 2048, 1, 1}))

	_, err = avgPool.OutputShape(tensor.Shape{2, 2048, 4, 4})
	assert.Error(t, err)

	input := fromSlice(t, []float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}, backend)
	assert.Equal(t, []float32{2.5}, NewAvgPool2D(2, 1, backend).Forward(input).Data())
	assert.Equal(t, []float32{4}, NewMaxPool2D(2, 2, 0, backend).Forward(input).Data())
}

func TestFlatten(t *testing.T) {
	backend := cpu.New()
	flatten := NewFlatten[Backend]()

	out := flatten.Forward(tensor.Zeros[float32](tensor.Shape{2, 2048, 1, 1}, backend))
	assert.True(t, out.Shape().Equal(tensor.Shape{2, 2048}))

	_, err := flatten.OutputShape(tensor.Shape{5})
	assert.Error(t, err)
}

func TestLinear(t *testing.T) {
	backend := cpu.New()

	fc := NewLinear(3, 2, backend)
	assert.Equal(t, KindLinear, fc.Kind())
	assert.Equal(t, 3, fc.InFeatures())
	assert.Equal(t, 2, fc.OutFeatures())

	copy(fc.Weight().Tensor().Data(), []float32{1, 0, 0, 0, 1, 1})
	copy(fc.Bias().Tensor().Data(), []float32{10, 20})

	input := fromSlice(t, []float32{1, 2, 3, 4, 5, 6}, tensor.Shape{2, 3}, backend)
	out := fc.Forward(input)

	require.True(t, out.Shape().Equal(tensor.Shape{2, 2}))
	assert.Equal(t, []float32{11, 25, 14, 31}, out.Data())

	assert.Panics(t, func() { fc.Forward(tensor.Zeros[float32](tensor.Shape{2, 4}, backend)) })
}
