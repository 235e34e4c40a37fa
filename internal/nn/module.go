// Package nn implements the neural network modules a convolutional
// classifier is assembled from.
//
// This package provides:
//   - Module: base interface for all NN components
//   - Parameter: named trainable tensors
//   - Layers: Conv2D, BatchNorm2D, Linear
//   - Shape-only layers: ReLU, MaxPool2D, AvgPool2D, Flatten
//   - Pipeline: explicit ordered list of named stages
//   - Walk, NamedParameters, StateDict: tree traversal over nested modules
//   - Init: kind-dispatched weight initialization
package nn

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules can be composed to build complex architectures:
//
//	stem := nn.NewPipeline(
//	    nn.Named("conv1", nn.NewConv2D(3, 64, 7, 7, 2, 3, false, backend)),
//	    nn.Named("bn1", nn.NewBatchNorm2D(64, 1e-5, backend)),
//	    nn.Named("relu", nn.NewReLU[B]()),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	// Forward never mutates parameters, so concurrent calls are safe.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including those of nested modules.
	Parameters() []*Parameter[B]
}

// Kind is the declared role of a leaf layer. Traversals such as Init
// dispatch on it.
type Kind int

// Layer kinds.
const (
	KindConv Kind = iota
	KindNorm
	KindLinear
	KindActivation
	KindPool
	KindReshape
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindConv:
		return "conv"
	case KindNorm:
		return "norm"
	case KindLinear:
		return "linear"
	case KindActivation:
		return "activation"
	case KindPool:
		return "pool"
	case KindReshape:
		return "reshape"
	default:
		return "unknown"
	}
}

// Layer is a leaf module that declares its kind.
type Layer[B tensor.Backend] interface {
	Module[B]
	Kind() Kind
}

// Affine is implemented by layers with a primary weight and an optional
// bias. Bias returns nil when the layer has none.
type Affine[B tensor.Backend] interface {
	Weight() *Parameter[B]
	Bias() *Parameter[B]
}

// Buffered is implemented by layers that carry non-trainable state
// (for example batch-norm running statistics).
type Buffered[B tensor.Backend] interface {
	Buffers() []*Parameter[B]
}

// ShapeInferer is implemented by modules that can compute their output
// shape statically, without running a forward pass.
type ShapeInferer interface {
	OutputShape(input tensor.Shape) (tensor.Shape, error)
}

// Child is a named sub-module.
type Child[B tensor.Backend] struct {
	Name   string
	Module Module[B]
}

// Named pairs a name with a module.
func Named[B tensor.Backend](name string, m Module[B]) Child[B] {
	return Child[B]{Name: name, Module: m}
}

// Container is implemented by modules that own named sub-modules.
type Container[B tensor.Backend] interface {
	Children() []Child[B]
}
