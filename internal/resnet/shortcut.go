package resnet

import (
	"fmt"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// ShortcutKind tags the two shortcut variants.
type ShortcutKind int

// Shortcut variants.
const (
	// ShortcutIdentity adds the block input unchanged.
	ShortcutIdentity ShortcutKind = iota
	// ShortcutProjection maps the block input through a strided 1x1
	// convolution and batch norm.
	ShortcutProjection
)

// String returns the variant name.
func (k ShortcutKind) String() string {
	switch k {
	case ShortcutIdentity:
		return "identity"
	case ShortcutProjection:
		return "projection"
	default:
		return fmt.Sprintf("ShortcutKind(%d)", int(k))
	}
}

// SelectShortcut decides the shortcut of a block: identity only when the
// input already has the emitted width and resolution is kept.
func SelectShortcut(cfg BlockConfig) ShortcutKind {
	if cfg.Stride == 1 && cfg.InChannels == cfg.EmitChannels() {
		return ShortcutIdentity
	}
	return ShortcutProjection
}

// Shortcut is the residual path of a bottleneck block.
type Shortcut[B tensor.Backend] struct {
	kind       ShortcutKind
	projection *nn.Pipeline[B] // "0": conv 1x1, "1": batch norm; nil for identity
}

// newShortcut builds the shortcut selected for cfg.
func newShortcut[B tensor.Backend](cfg BlockConfig, eps float32, backend B) *Shortcut[B] {
	kind := SelectShortcut(cfg)
	if kind == ShortcutIdentity {
		return &Shortcut[B]{kind: kind}
	}
	emit := cfg.EmitChannels()
	return &Shortcut[B]{
		kind: kind,
		projection: nn.NewPipeline(
			nn.Named[B]("0", nn.NewConv2D(cfg.InChannels, emit, 1, 1, cfg.Stride, 0, false, backend)),
			nn.Named[B]("1", nn.NewBatchNorm2D(emit, eps, backend)),
		),
	}
}

// Kind returns the shortcut variant.
func (s *Shortcut[B]) Kind() ShortcutKind {
	return s.kind
}

// Forward returns the input for an identity shortcut and its projection
// otherwise.
func (s *Shortcut[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if s.kind == ShortcutIdentity {
		return input
	}
	return s.projection.Forward(input)
}

// OutputShape computes the output shape for an input shape.
func (s *Shortcut[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if s.kind == ShortcutIdentity {
		return input.Clone(), nil
	}
	return s.projection.OutputShape(input)
}

// Parameters returns the projection parameters (none for identity).
func (s *Shortcut[B]) Parameters() []*nn.Parameter[B] {
	if s.kind == ShortcutIdentity {
		return nil
	}
	return s.projection.Parameters()
}

// Children returns the projection layers.
func (s *Shortcut[B]) Children() []nn.Child[B] {
	if s.kind == ShortcutIdentity {
		return nil
	}
	return s.projection.Children()
}

// String returns a string representation of the shortcut.
func (s *Shortcut[B]) String() string {
	if s.kind == ShortcutIdentity {
		return "Identity()"
	}
	return s.projection.String()
}
