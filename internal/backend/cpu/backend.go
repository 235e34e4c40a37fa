// Package cpu implements the pure-Go CPU backend.
//
// Dense products (matmul, im2col convolution) run on gonum's blas32 SGEMM.
// Per-plane kernels (pooling, normalization, im2col) fan out over
// batch×channel planes with internal/parallel.
package cpu

import (
	"fmt"

	"github.com/born-ml/resnet/internal/parallel"
	"github.com/born-ml/resnet/internal/tensor"
)

// Config controls the CPU backend.
type Config struct {
	Parallel parallel.Config // Fan-out for per-plane kernels.
}

// DefaultConfig returns a Config using every schedulable CPU.
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}

// CPUBackend implements tensor operations on CPU.
//
// The backend holds no mutable state; it is safe for concurrent use.
type CPUBackend struct {
	device tensor.Device
	cfg    Config
}

// New creates a new CPU backend with DefaultConfig.
func New() *CPUBackend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with an explicit configuration.
func NewWithConfig(cfg Config) *CPUBackend {
	return &CPUBackend{
		device: tensor.CPU,
		cfg:    cfg,
	}
}

// Name returns the backend name.
func (cpu *CPUBackend) Name() string {
	return "CPU"
}

// Device returns the compute device.
func (cpu *CPUBackend) Device() tensor.Device {
	return cpu.device
}

// Config returns the backend configuration.
func (cpu *CPUBackend) Config() Config {
	return cpu.cfg
}

// newFloat32 allocates a float32 result tensor, panicking with the op name on failure.
func (cpu *CPUBackend) newFloat32(op string, shape tensor.Shape) *tensor.RawTensor {
	out, err := tensor.NewRaw(shape, tensor.Float32, cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", op, err))
	}
	return out
}

// requireFloat32 panics unless every tensor holds float32 data.
func requireFloat32(op string, ts ...*tensor.RawTensor) {
	for _, t := range ts {
		if t.DType() != tensor.Float32 {
			panic(fmt.Sprintf("%s: unsupported dtype %s (float32 only)", op, t.DType()))
		}
	}
}

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("add", a, b)

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("add: %v", err))
	}

	result := cpu.newFloat32("add", outShape)
	dst, x, y := result.AsFloat32(), a.AsFloat32(), b.AsFloat32()

	if !needsBroadcast {
		for i := range dst {
			dst[i] = x[i] + y[i]
		}
		return result
	}

	addBroadcast(dst, x, y, outShape,
		broadcastStrides(a.Shape(), outShape),
		broadcastStrides(b.Shape(), outShape))
	return result
}

// broadcastStrides computes strides for reading inShape as if it had outShape.
// Broadcast (size 1) and missing leading dimensions get stride 0.
func broadcastStrides(inShape, outShape tensor.Shape) []int {
	strides := make([]int, len(outShape))
	offset := len(outShape) - len(inShape)
	inStrides := inShape.ComputeStrides()

	for i := range outShape {
		j := i - offset
		if j < 0 || inShape[j] == 1 {
			continue
		}
		strides[i] = inStrides[j]
	}
	return strides
}

// addBroadcast walks the output in row-major order, advancing each input
// offset by its broadcast stride.
func addBroadcast(dst, a, b []float32, outShape tensor.Shape, aStrides, bStrides []int) {
	idx := make([]int, len(outShape))
	ai, bi := 0, 0

	for i := range dst {
		dst[i] = a[ai] + b[bi]

		for d := len(outShape) - 1; d >= 0; d-- {
			idx[d]++
			ai += aStrides[d]
			bi += bStrides[d]
			if idx[d] < outShape[d] {
				break
			}
			ai -= aStrides[d] * outShape[d]
			bi -= bStrides[d] * outShape[d]
			idx[d] = 0
		}
	}
}

// Reshape returns a tensor with the same data and a new shape.
func (cpu *CPUBackend) Reshape(t *tensor.RawTensor, newShape tensor.Shape) *tensor.RawTensor {
	view, err := t.View(newShape)
	if err != nil {
		panic(fmt.Sprintf("reshape: %v", err))
	}
	return view.Clone()
}

// Transpose permutes dimensions. With no axes it reverses them.
func (cpu *CPUBackend) Transpose(t *tensor.RawTensor, axes ...int) *tensor.RawTensor {
	requireFloat32("transpose", t)

	shape := t.Shape()
	ndim := len(shape)
	if len(axes) == 0 {
		axes = make([]int, ndim)
		for i := range axes {
			axes[i] = ndim - 1 - i
		}
	}
	if len(axes) != ndim {
		panic(fmt.Sprintf("transpose: expected %d axes, got %d", ndim, len(axes)))
	}

	seen := make([]bool, ndim)
	outShape := make(tensor.Shape, ndim)
	for i, ax := range axes {
		if ax < 0 || ax >= ndim || seen[ax] {
			panic(fmt.Sprintf("transpose: invalid permutation %v for %dD tensor", axes, ndim))
		}
		seen[ax] = true
		outShape[i] = shape[ax]
	}

	// Read the source through permuted strides so the output is written contiguously.
	srcStrides := t.Strides()
	permStrides := make([]int, ndim)
	for i, ax := range axes {
		permStrides[i] = srcStrides[ax]
	}

	result := cpu.newFloat32("transpose", outShape)
	dst, src := result.AsFloat32(), t.AsFloat32()

	idx := make([]int, ndim)
	si := 0
	for i := range dst {
		dst[i] = src[si]
		for d := ndim - 1; d >= 0; d-- {
			idx[d]++
			si += permStrides[d]
			if idx[d] < outShape[d] {
				break
			}
			si -= permStrides[d] * outShape[d]
			idx[d] = 0
		}
	}
	return result
}
