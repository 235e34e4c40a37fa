package resnet

import (
	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Head maps the final feature map to class logits: average pooling over
// the whole featureSize x featureSize map, flatten, then a linear layer.
type Head[B tensor.Backend] struct {
	avgpool  *nn.AvgPool2D[B]
	fc       *nn.Linear[B]
	pipeline *nn.Pipeline[B]
}

// NewHead creates a classification head for inChannels feature maps of
// spatial size featureSize.
func NewHead[B tensor.Backend](inChannels, featureSize, numClasses int, backend B) (*Head[B], error) {
	if numClasses <= 0 {
		return nil, &ConfigError{Field: "num_classes", Value: numClasses, Reason: "must be positive"}
	}
	if featureSize <= 0 {
		return nil, &ConfigError{Field: "feature_size", Value: featureSize, Reason: "must be positive"}
	}

	h := &Head[B]{
		avgpool: nn.NewAvgPool2D(featureSize, featureSize, backend),
		fc:      nn.NewLinear(inChannels, numClasses, backend),
	}
	h.pipeline = nn.NewPipeline(
		nn.Named[B]("avgpool", h.avgpool),
		nn.Named[B]("flatten", nn.NewFlatten[B]()),
		nn.Named[B]("fc", h.fc),
	)
	return h, nil
}

// Forward pools, flattens and projects the current feature map.
func (h *Head[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return h.pipeline.Forward(input)
}

// OutputShape computes the output shape for an input shape.
func (h *Head[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return h.pipeline.OutputShape(input)
}

// Parameters returns the fc weight and bias.
func (h *Head[B]) Parameters() []*nn.Parameter[B] {
	return h.pipeline.Parameters()
}

// Children returns avgpool, flatten and fc.
func (h *Head[B]) Children() []nn.Child[B] {
	return h.pipeline.Children()
}

// NumClasses returns the number of logits.
func (h *Head[B]) NumClasses() int {
	return h.fc.OutFeatures()
}

// PoolSize returns the pooling kernel.
func (h *Head[B]) PoolSize() int {
	return h.avgpool.KernelSize()
}

// String returns a string representation of the head.
func (h *Head[B]) String() string {
	return h.pipeline.String()
}
