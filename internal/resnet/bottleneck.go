package resnet

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// BlockConfig fixes the geometry of a bottleneck block.
type BlockConfig struct {
	InChannels  int // Channels of the block input
	OutChannels int // Internal width; the block emits OutChannels*Expansion
	Stride      int // Spatial stride of the 3x3 convolution and the projection
}

// EmitChannels returns the number of channels the block produces.
func (c BlockConfig) EmitChannels() int {
	return c.OutChannels * Expansion
}

// Validate checks that every field is positive.
func (c BlockConfig) Validate() error {
	switch {
	case c.InChannels <= 0:
		return &ConfigError{Field: "in_channels", Value: c.InChannels, Reason: "must be positive"}
	case c.OutChannels <= 0:
		return &ConfigError{Field: "out_channels", Value: c.OutChannels, Reason: "must be positive"}
	case c.Stride <= 0:
		return &ConfigError{Field: "stride", Value: c.Stride, Reason: "must be positive"}
	}
	return nil
}

// String returns a string representation of the configuration.
func (c BlockConfig) String() string {
	return fmt.Sprintf("Bottleneck(in=%d, out=%d, stride=%d)", c.InChannels, c.EmitChannels(), c.Stride)
}

// Bottleneck is the residual unit of the network:
//
//	main     = bn3(conv3(relu(bn2(conv2(relu(bn1(conv1(x))))))))
//	shortcut = x, or bn(conv1x1/stride(x))
//	y        = relu(main + shortcut)
//
// conv1 reduces to OutChannels, conv2 (3x3, padding 1) carries the stride,
// conv3 expands to OutChannels*Expansion. The final ReLU runs for both
// shortcut variants.
type Bottleneck[B tensor.Backend] struct {
	cfg BlockConfig

	conv1 *nn.Conv2D[B]
	bn1   *nn.BatchNorm2D[B]
	conv2 *nn.Conv2D[B]
	bn2   *nn.BatchNorm2D[B]
	conv3 *nn.Conv2D[B]
	bn3   *nn.BatchNorm2D[B]
	relu  *nn.ReLU[B]

	shortcut *Shortcut[B]
}

// NewBottleneck creates a bottleneck block and selects its shortcut.
func NewBottleneck[B tensor.Backend](cfg BlockConfig, eps float32, backend B) (*Bottleneck[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	width, emit := cfg.OutChannels, cfg.EmitChannels()
	return &Bottleneck[B]{
		cfg:      cfg,
		conv1:    nn.NewConv2D(cfg.InChannels, width, 1, 1, 1, 0, false, backend),
		bn1:      nn.NewBatchNorm2D(width, eps, backend),
		conv2:    nn.NewConv2D(width, width, 3, 3, cfg.Stride, 1, false, backend),
		bn2:      nn.NewBatchNorm2D(width, eps, backend),
		conv3:    nn.NewConv2D(width, emit, 1, 1, 1, 0, false, backend),
		bn3:      nn.NewBatchNorm2D(emit, eps, backend),
		relu:     nn.NewReLU[B](),
		shortcut: newShortcut(cfg, eps, backend),
	}, nil
}

// Config returns the block geometry.
func (b *Bottleneck[B]) Config() BlockConfig {
	return b.cfg
}

// Shortcut returns the residual path.
func (b *Bottleneck[B]) Shortcut() *Shortcut[B] {
	return b.shortcut
}

// Forward computes relu(main(x) + shortcut(x)).
//
// Panics with *ShapeInvariantError if the two paths disagree in shape.
func (b *Bottleneck[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	out := b.relu.Forward(b.bn1.Forward(b.conv1.Forward(input)))
	out = b.relu.Forward(b.bn2.Forward(b.conv2.Forward(out)))
	out = b.bn3.Forward(b.conv3.Forward(out))

	residual := b.shortcut.Forward(input)
	if !out.Shape().Equal(residual.Shape()) {
		panic(&ShapeInvariantError{Block: b.cfg.String(), Main: out.Shape(), Shortcut: residual.Shape()})
	}

	return b.relu.Forward(out.Add(residual))
}

// OutputShape computes the output shape for an input shape, checking the
// main path and the shortcut against each other.
func (b *Bottleneck[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	main := input
	for _, layer := range []nn.ShapeInferer{b.conv1, b.bn1, b.conv2, b.bn2, b.conv3, b.bn3} {
		next, err := layer.OutputShape(main)
		if err != nil {
			return nil, err
		}
		main = next
	}
	residual, err := b.shortcut.OutputShape(input)
	if err != nil {
		return nil, err
	}
	if !main.Equal(residual) {
		return nil, &ShapeInvariantError{Block: b.cfg.String(), Main: main, Shortcut: residual}
	}
	return main, nil
}

// Children returns the block's layers in checkpoint order. The shortcut is
// listed as "downsample" only when it is a projection.
func (b *Bottleneck[B]) Children() []nn.Child[B] {
	children := []nn.Child[B]{
		nn.Named[B]("conv1", b.conv1),
		nn.Named[B]("bn1", b.bn1),
		nn.Named[B]("conv2", b.conv2),
		nn.Named[B]("bn2", b.bn2),
		nn.Named[B]("conv3", b.conv3),
		nn.Named[B]("bn3", b.bn3),
		nn.Named[B]("relu", b.relu),
	}
	if b.shortcut.Kind() == ShortcutProjection {
		children = append(children, nn.Named[B]("downsample", b.shortcut))
	}
	return children
}

// Parameters returns all trainable parameters of the block.
func (b *Bottleneck[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	for _, c := range b.Children() {
		params = append(params, c.Module.Parameters()...)
	}
	return params
}

// String returns a string representation of the block.
func (b *Bottleneck[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Bottleneck(\n")
	for _, c := range b.Children() {
		fmt.Fprintf(&sb, "  (%s): %s\n", c.Name, nn.Indent(nn.Describe(c.Module)))
	}
	sb.WriteString(")")
	return sb.String()
}
