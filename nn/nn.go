// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/tensor"
)

// Module is the base interface for all neural network components.
type Module[B tensor.Backend] = nn.Module[B]

// Layer is a leaf module that declares its kind.
type Layer[B tensor.Backend] = nn.Layer[B]

// Container is implemented by modules that own named sub-modules.
type Container[B tensor.Backend] = nn.Container[B]

// ShapeInferer computes output shapes without running a forward pass.
type ShapeInferer = nn.ShapeInferer

// Child is a named sub-module.
type Child[B tensor.Backend] = nn.Child[B]

// Parameter is a named tensor owned by a module.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NamedParameter is a parameter with its qualified name.
type NamedParameter[B tensor.Backend] = nn.NamedParameter[B]

// Kind is the declared role of a layer.
type Kind = nn.Kind

// Layer kinds.
const (
	KindConv       = nn.KindConv
	KindNorm       = nn.KindNorm
	KindLinear     = nn.KindLinear
	KindActivation = nn.KindActivation
	KindPool       = nn.KindPool
	KindReshape    = nn.KindReshape
)

// Backend capabilities beyond tensor.Backend.
type (
	ReLUBackend      = nn.ReLUBackend
	BatchNormBackend = nn.BatchNormBackend
	AvgPoolBackend   = nn.AvgPoolBackend
)

// Layer types.
type (
	Conv2D[B tensor.Backend]      = nn.Conv2D[B]
	BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]
	ReLU[B tensor.Backend]        = nn.ReLU[B]
	MaxPool2D[B tensor.Backend]   = nn.MaxPool2D[B]
	AvgPool2D[B tensor.Backend]   = nn.AvgPool2D[B]
	Flatten[B tensor.Backend]     = nn.Flatten[B]
	Linear[B tensor.Backend]      = nn.Linear[B]
	Pipeline[B tensor.Backend]    = nn.Pipeline[B]
)

// NewConv2D creates a 2D convolution with zero-filled weights.
func NewConv2D[B tensor.Backend](inChannels, outChannels, kernelH, kernelW, stride, padding int, useBias bool, backend B) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// NewBatchNorm2D creates an inference-mode batch normalization layer.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, epsilon, backend)
}

// NewReLU creates a ReLU activation.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// NewMaxPool2D creates a max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride, padding int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernelSize, stride, padding, backend)
}

// NewAvgPool2D creates an average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride int, backend B) *AvgPool2D[B] {
	return nn.NewAvgPool2D(kernelSize, stride, backend)
}

// NewFlatten creates a flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// NewLinear creates a fully connected layer with zero-filled weights.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// NewPipeline creates a pipeline from named stages.
func NewPipeline[B tensor.Backend](stages ...Child[B]) *Pipeline[B] {
	return nn.NewPipeline(stages...)
}

// Named pairs a name with a module.
func Named[B tensor.Backend](name string, m Module[B]) Child[B] {
	return nn.Named(name, m)
}

// Walk visits root and every nested module in pre-order.
func Walk[B tensor.Backend](root Module[B], visit func(path string, m Module[B])) {
	nn.Walk(root, visit)
}

// NamedParameters returns every trainable parameter under root.
func NamedParameters[B tensor.Backend](root Module[B]) []NamedParameter[B] {
	return nn.NamedParameters(root)
}

// StateDict returns parameters and buffers under root keyed by name.
func StateDict[B tensor.Backend](root Module[B]) map[string]*tensor.RawTensor {
	return nn.StateDict(root)
}

// LoadStateDict copies tensors from dict into root.
func LoadStateDict[B tensor.Backend](root Module[B], dict map[string]*tensor.RawTensor) error {
	return nn.LoadStateDict(root, dict)
}

// Init applies the default initialization policy under root.
func Init[B tensor.Backend](root Module[B], seed uint64) {
	nn.Init(root, seed)
}
