package resnet

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// NumStages is the number of bottleneck stages in every variant.
const NumStages = 4

// Backbone is the four bottleneck stages following the stem, named
// layer1..layer4.
type Backbone[B tensor.Backend] struct {
	stages [NumStages]*Stage[B]
}

// BuildBackbone builds the four stages with the given block counts on top
// of a StemChannels-wide input.
func BuildBackbone[B tensor.Backend](blocks []int, backend B) (*Backbone[B], error) {
	return buildBackbone(blocks, DefaultBatchNormEps, backend)
}

func buildBackbone[B tensor.Backend](blocks []int, eps float32, backend B) (*Backbone[B], error) {
	if len(blocks) != NumStages {
		return nil, &ConfigError{Field: "blocks", Value: blocks, Reason: fmt.Sprintf("need exactly %d stage depths", NumStages)}
	}

	bb := &Backbone[B]{}
	inChannels := StemChannels
	for i := range NumStages {
		stage, err := buildStage(inChannels, stageWidths[i], blocks[i], stageStrides[i], eps, backend)
		if err != nil {
			return nil, fmt.Errorf("layer%d: %w", i+1, err)
		}
		bb.stages[i] = stage
		inChannels = stage.EmitChannels()
	}
	if err := checkChannelChain(StemChannels, bb.stages[:]); err != nil {
		return nil, err
	}
	return bb, nil
}

// checkChannelChain verifies that each stage's first conv consumes exactly
// the channels produced upstream, starting from inChannels.
func checkChannelChain[B tensor.Backend](inChannels int, stages []*Stage[B]) error {
	for i, s := range stages {
		if got := s.Block(0).conv1.InChannels(); got != inChannels {
			return fmt.Errorf("%w: %s.0.conv1 expects %d channels, upstream emits %d",
				ErrShapeInvariant, stageName(i), got, inChannels)
		}
		inChannels = s.EmitChannels()
	}
	return nil
}

func stageName(i int) string {
	return fmt.Sprintf("layer%d", i+1)
}

// Forward applies the four stages.
func (bb *Backbone[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, s := range bb.stages {
		output = s.Forward(output)
	}
	return output
}

// OutputShape computes the output shape for an input shape.
func (bb *Backbone[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	shape := input
	for i, s := range bb.stages {
		next, err := s.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", stageName(i), err)
		}
		shape = next
	}
	return shape, nil
}

// Parameters returns all trainable parameters of the backbone.
func (bb *Backbone[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, s := range bb.stages {
		params = append(params, s.Parameters()...)
	}
	return params
}

// Children returns layer1..layer4.
func (bb *Backbone[B]) Children() []nn.Child[B] {
	children := make([]nn.Child[B], NumStages)
	for i, s := range bb.stages {
		children[i] = nn.Named[B](stageName(i), s)
	}
	return children
}

// Stage returns stage i (0-based).
func (bb *Backbone[B]) Stage(i int) *Stage[B] {
	return bb.stages[i]
}

// Depths returns the number of blocks per stage.
func (bb *Backbone[B]) Depths() []int {
	depths := make([]int, NumStages)
	for i, s := range bb.stages {
		depths[i] = s.Len()
	}
	return depths
}

// NumBlocks returns the total number of bottleneck blocks.
func (bb *Backbone[B]) NumBlocks() int {
	n := 0
	for _, s := range bb.stages {
		n += s.Len()
	}
	return n
}

// EmitChannels returns the channels of the final feature map.
func (bb *Backbone[B]) EmitChannels() int {
	return bb.stages[NumStages-1].EmitChannels()
}

// String returns a string representation of the backbone.
func (bb *Backbone[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Backbone(\n")
	for _, c := range bb.Children() {
		fmt.Fprintf(&sb, "  (%s): %s\n", c.Name, nn.Indent(nn.Describe(c.Module)))
	}
	sb.WriteString(")")
	return sb.String()
}
