package resnet

import (
	"strconv"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Stage is an ordered run of bottleneck blocks sharing one emitted width.
// Only block 0 may change width or resolution.
type Stage[B tensor.Backend] struct {
	blocks   []*Bottleneck[B]
	pipeline *nn.Pipeline[B]
}

// BuildStage builds a stage of numBlocks bottleneck blocks.
//
// Block 0 maps inChannels to outChannels*Expansion with the given stride;
// blocks 1..numBlocks-1 keep width and resolution and therefore get
// identity shortcuts.
func BuildStage[B tensor.Backend](inChannels, outChannels, numBlocks, stride int, backend B) (*Stage[B], error) {
	return buildStage(inChannels, outChannels, numBlocks, stride, DefaultBatchNormEps, backend)
}

func buildStage[B tensor.Backend](inChannels, outChannels, numBlocks, stride int, eps float32, backend B) (*Stage[B], error) {
	if numBlocks <= 0 {
		return nil, &ConfigError{Field: "num_blocks", Value: numBlocks, Reason: "a stage needs at least one block"}
	}

	s := &Stage[B]{
		blocks:   make([]*Bottleneck[B], 0, numBlocks),
		pipeline: nn.NewPipeline[B](),
	}
	cfg := BlockConfig{InChannels: inChannels, OutChannels: outChannels, Stride: stride}
	for i := range numBlocks {
		block, err := NewBottleneck(cfg, eps, backend)
		if err != nil {
			return nil, err
		}
		s.blocks = append(s.blocks, block)
		s.pipeline.Append(strconv.Itoa(i), block)

		cfg = BlockConfig{InChannels: cfg.EmitChannels(), OutChannels: outChannels, Stride: 1}
	}
	return s, nil
}

// Forward applies the blocks in order.
func (s *Stage[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return s.pipeline.Forward(input)
}

// OutputShape computes the output shape for an input shape.
func (s *Stage[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	return s.pipeline.OutputShape(input)
}

// Parameters returns all trainable parameters of the stage.
func (s *Stage[B]) Parameters() []*nn.Parameter[B] {
	return s.pipeline.Parameters()
}

// Children returns the blocks named by index.
func (s *Stage[B]) Children() []nn.Child[B] {
	return s.pipeline.Children()
}

// Len returns the number of blocks.
func (s *Stage[B]) Len() int {
	return len(s.blocks)
}

// Block returns block i.
func (s *Stage[B]) Block(i int) *Bottleneck[B] {
	return s.blocks[i]
}

// InChannels returns the channels the stage consumes.
func (s *Stage[B]) InChannels() int {
	return s.blocks[0].cfg.InChannels
}

// EmitChannels returns the channels the stage produces.
func (s *Stage[B]) EmitChannels() int {
	return s.blocks[len(s.blocks)-1].cfg.EmitChannels()
}

// Stride returns the stride of the first block.
func (s *Stage[B]) Stride() int {
	return s.blocks[0].cfg.Stride
}

// String returns a string representation of the stage.
func (s *Stage[B]) String() string {
	return s.pipeline.String()
}
