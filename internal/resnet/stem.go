package resnet

import (
	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// StemChannels is the width of the stem output.
const StemChannels = 64

// Stem turns an RGB image into the first feature map:
// conv 7x7 stride 2 padding 3, batch norm, ReLU, max pool 3x3 stride 2
// padding 1. Spatial size shrinks by four.
type Stem[B tensor.Backend] struct {
	pipeline *nn.Pipeline[B]
}

// NewStem creates the stem.
func NewStem[B tensor.Backend](eps float32, backend B) *Stem[B] {
	return &Stem[B]{
		pipeline: nn.NewPipeline(
			nn.Named[B]("conv1", nn.NewConv2D(3, StemChannels, 7, 7, 2, 3, false, backend)),
			nn.Named[B]("bn1", nn.NewBatchNorm2D(StemChannels, eps, backend)),
			nn.Named[B]("relu", nn.NewReLU[B]()),
			nn.Named[B]("maxpool", nn.NewMaxPool2D(3, 2, 1, backend)),
		),
	}
}

// Forward performs the forward pass.
func (s *Stem[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return s.pipeline.Forward(input)
}

// OutputShape computes the output shape for an input shape.
func (s *Stem[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return s.pipeline.OutputShape(input)
}

// Parameters returns conv1 and bn1 parameters.
func (s *Stem[B]) Parameters() []*nn.Parameter[B] {
	return s.pipeline.Parameters()
}

// Children returns conv1, bn1, relu and maxpool.
func (s *Stem[B]) Children() []nn.Child[B] {
	return s.pipeline.Children()
}

// String returns a string representation of the stem.
func (s *Stem[B]) String() string {
	return s.pipeline.String()
}
