package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// AvgPoolBackend is an interface for backends that support average pooling.
type AvgPoolBackend interface {
	AvgPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor
}

// poolOutputShape validates a pooling input and computes its output shape.
func poolOutputShape(op string, input tensor.Shape, kernelSize, stride, padding int) (tensor.Shape, error) {
	if len(input) != 4 {
		return nil, fmt.Errorf("%s: expected 4D input [N,C,H,W], got %dD", op, len(input))
	}
	outH := (input[2]+2*padding-kernelSize)/stride + 1
	outW := (input[3]+2*padding-kernelSize)/stride + 1
	if input[2]+2*padding < kernelSize || input[3]+2*padding < kernelSize {
		return nil, fmt.Errorf("%s: kernel size %d too large for input %dx%d (padding %d)",
			op, kernelSize, input[2], input[3], padding)
	}
	return tensor.Shape{input[0], input[1], outH, outW}, nil
}

// MaxPool2D is a 2D max pooling layer.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
//	out_height = (height + 2*padding - kernelSize) / stride + 1
//
// Padded positions never win the maximum.
//
//	pool := nn.NewMaxPool2D(3, 2, 1, backend)
//	output := pool.Forward(input) // [N, 64, 112, 112] -> [N, 64, 56, 56]
type MaxPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	padding    int
	backend    B
}

// NewMaxPool2D creates a new 2D max pooling layer.
//
// Panics unless kernelSize and stride are positive and padding is in
// [0, kernelSize/2].
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("maxpool2d: invalid stride %d", stride))
	}
	if padding < 0 || padding > kernelSize/2 {
		panic(fmt.Sprintf("maxpool2d: padding %d must be in [0, %d]", padding, kernelSize/2))
	}

	return &MaxPool2D[B]{
		kernelSize: kernelSize,
		stride:     stride,
		padding:    padding,
		backend:    backend,
	}
}

// Forward performs the forward pass.
func (m *MaxPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if _, err := m.OutputShape(input.Shape()); err != nil {
		panic(err.Error())
	}
	out := m.backend.MaxPool2D(input.Raw(), m.kernelSize, m.stride, m.padding)
	return tensor.New[float32, B](out, m.backend)
}

// OutputShape computes the output shape for an input shape.
func (m *MaxPool2D[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return poolOutputShape("maxpool2d", input, m.kernelSize, m.stride, m.padding)
}

// Parameters returns an empty slice (MaxPool2D has no learnable parameters).
func (m *MaxPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// Kind reports KindPool.
func (m *MaxPool2D[B]) Kind() Kind {
	return KindPool
}

// String returns a string representation of the layer.
func (m *MaxPool2D[B]) String() string {
	return fmt.Sprintf("MaxPool2D(kernel_size=%d, stride=%d, padding=%d)", m.kernelSize, m.stride, m.padding)
}

// AvgPool2D is a 2D average pooling layer over unpadded windows.
//
// With the kernel equal to the feature map's spatial extent it acts as
// global average pooling:
//
//	pool := nn.NewAvgPool2D(7, 1, backend)
//	output := pool.Forward(features) // [N, 2048, 7, 7] -> [N, 2048, 1, 1]
type AvgPool2D[B tensor.Backend] struct {
	kernelSize int
	stride     int
	backend    B
}

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride int, backend B) *AvgPool2D[B] {
	if kernelSize <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid kernel size %d", kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("avgpool2d: invalid stride %d", stride))
	}
	return &AvgPool2D[B]{
		kernelSize: kernelSize,
		stride:     stride,
		backend:    backend,
	}
}

// Forward performs the forward pass.
func (a *AvgPool2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if _, err := a.OutputShape(input.Shape()); err != nil {
		panic(err.Error())
	}

	poolBackend, ok := any(a.backend).(AvgPoolBackend)
	if !ok {
		panic("AvgPool2D: backend must implement AvgPool2D operation")
	}
	return tensor.New[float32, B](poolBackend.AvgPool2D(input.Raw(), a.kernelSize, a.stride), a.backend)
}

// OutputShape computes the output shape for an input shape.
func (a *AvgPool2D[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return poolOutputShape("avgpool2d", input, a.kernelSize, a.stride, 0)
}

// Parameters returns an empty slice.
func (a *AvgPool2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// Kind reports KindPool.
func (a *AvgPool2D[B]) Kind() Kind {
	return KindPool
}

// KernelSize returns the pooling window size.
func (a *AvgPool2D[B]) KernelSize() int {
	return a.kernelSize
}

// String returns a string representation of the layer.
func (a *AvgPool2D[B]) String() string {
	return fmt.Sprintf("AvgPool2D(kernel_size=%d, stride=%d)", a.kernelSize, a.stride)
}
