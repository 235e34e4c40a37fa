package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// Linear implements a fully connected (dense) layer.
//
// Performs the transformation: y = x @ W.T + b
// where:
//   - x is the input tensor with shape [batch_size, in_features]
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias vector with shape [out_features]
//   - y is the output tensor with shape [batch_size, out_features]
//
// Weights and bias are allocated as zeros; Init fills them.
type Linear[B tensor.Backend] struct {
	inFeatures  int
	outFeatures int
	weight      *Parameter[B] // [out_features, in_features]
	bias        *Parameter[B] // [out_features]
	backend     B
}

// NewLinear creates a new Linear layer.
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	if inFeatures <= 0 || outFeatures <= 0 {
		panic(fmt.Sprintf("linear: invalid features in=%d, out=%d", inFeatures, outFeatures))
	}

	weight := tensor.Zeros[float32](tensor.Shape{outFeatures, inFeatures}, backend)
	bias := tensor.Zeros[float32](tensor.Shape{outFeatures}, backend)

	return &Linear[B]{
		inFeatures:  inFeatures,
		outFeatures: outFeatures,
		weight:      NewParameter("weight", weight),
		bias:        NewParameter("bias", bias),
		backend:     backend,
	}
}

// Forward computes y = x @ W.T + b.
//
// Input shape: [batch_size, in_features]
// Output shape: [batch_size, out_features]
func (l *Linear[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if _, err := l.OutputShape(input.Shape()); err != nil {
		panic(err.Error())
	}

	output := input.MatMul(l.weight.Tensor().Transpose())

	// [out_features] -> [1, out_features] for broadcasting over the batch
	return output.Add(l.bias.Tensor().Reshape(1, l.outFeatures))
}

// OutputShape computes the output shape for an input shape.
func (l *Linear[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 2 {
		return nil, fmt.Errorf("linear: expected 2D input [batch, features], got shape %v", input)
	}
	if input[1] != l.inFeatures {
		return nil, fmt.Errorf("linear: expected input with %d features, got %d", l.inFeatures, input[1])
	}
	return tensor.Shape{input[0], l.outFeatures}, nil
}

// Parameters returns [weight, bias].
func (l *Linear[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{l.weight, l.bias}
}

// Kind reports KindLinear.
func (l *Linear[B]) Kind() Kind {
	return KindLinear
}

// Weight returns the weight parameter.
func (l *Linear[B]) Weight() *Parameter[B] {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Linear[B]) Bias() *Parameter[B] {
	return l.bias
}

// InFeatures returns the number of input features.
func (l *Linear[B]) InFeatures() int {
	return l.inFeatures
}

// OutFeatures returns the number of output features.
func (l *Linear[B]) OutFeatures() int {
	return l.outFeatures
}

// String returns a string representation of the layer.
func (l *Linear[B]) String() string {
	return fmt.Sprintf("Linear(in_features=%d, out_features=%d, bias=true)", l.inFeatures, l.outFeatures)
}
