package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// Flatten reshapes [batch, d1, d2, ...] into [batch, d1*d2*...].
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a new Flatten module.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward flattens every dimension after the batch dimension.
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out, err := f.OutputShape(input.Shape())
	if err != nil {
		panic(err.Error())
	}
	return input.Reshape(out...)
}

// OutputShape computes the flattened shape.
func (f *Flatten[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) < 2 {
		return nil, fmt.Errorf("flatten: expected at least 2D input, got %dD", len(input))
	}
	return tensor.Shape{input[0], input[1:].NumElements()}, nil
}

// Parameters returns an empty slice.
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return nil
}

// Kind reports KindReshape.
func (f *Flatten[B]) Kind() Kind {
	return KindReshape
}

// String returns a string representation of the layer.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
