package resnet

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// Model is a complete bottleneck ResNet classifier.
//
// Forward never mutates parameters, so concurrent Forward calls on one
// model are safe. Updating parameters while a Forward is in flight needs
// external synchronization.
type Model[B tensor.Backend] struct {
	variant  Variant
	cfg      Config
	stem     *Stem[B]
	backbone *Backbone[B]
	head     *Head[B]
}

// Forward computes logits [N, num_classes] for images [N, 3, S, S] where S
// is Config.InputSize.
//
// Panics with *InputShapeError on any other input shape. Use Infer to get
// the error returned instead.
func (m *Model[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if err := m.ValidateInput(input.Shape()); err != nil {
		panic(err)
	}
	return m.head.Forward(m.backbone.Forward(m.stem.Forward(input)))
}

// Infer is Forward returning input shape problems as errors.
func (m *Model[B]) Infer(input *tensor.Tensor[float32, B]) (*tensor.Tensor[float32, B], error) {
	if err := m.ValidateInput(input.Shape()); err != nil {
		return nil, err
	}
	return m.head.Forward(m.backbone.Forward(m.stem.Forward(input))), nil
}

// ValidateInput checks an input shape against [N, 3, S, S].
func (m *Model[B]) ValidateInput(shape tensor.Shape) error {
	switch {
	case len(shape) != 4:
		return &InputShapeError{Shape: shape.Clone(), Reason: fmt.Sprintf("expected rank 4 [N,C,H,W], got rank %d", len(shape))}
	case shape[0] <= 0:
		return &InputShapeError{Shape: shape.Clone(), Reason: "batch size must be positive"}
	case shape[1] != 3:
		return &InputShapeError{Shape: shape.Clone(), Reason: fmt.Sprintf("expected 3 channels, got %d", shape[1])}
	case shape[2] != m.cfg.InputSize || shape[3] != m.cfg.InputSize:
		return &InputShapeError{Shape: shape.Clone(), Reason: fmt.Sprintf("expected %dx%d images, got %dx%d",
			m.cfg.InputSize, m.cfg.InputSize, shape[2], shape[3])}
	}
	return nil
}

// OutputShape computes the logits shape for an input shape.
func (m *Model[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if err := m.ValidateInput(input); err != nil {
		return nil, err
	}
	shape, err := m.stem.OutputShape(input)
	if err != nil {
		return nil, err
	}
	if shape, err = m.backbone.OutputShape(shape); err != nil {
		return nil, err
	}
	return m.head.OutputShape(shape)
}

// Parameters returns all trainable parameters.
func (m *Model[B]) Parameters() []*nn.Parameter[B] {
	var params []*nn.Parameter[B]
	params = append(params, m.stem.Parameters()...)
	params = append(params, m.backbone.Parameters()...)
	return append(params, m.head.Parameters()...)
}

// Children returns the top-level layers in checkpoint order: conv1, bn1,
// relu, maxpool, layer1..layer4, avgpool, flatten, fc.
func (m *Model[B]) Children() []nn.Child[B] {
	var children []nn.Child[B]
	children = append(children, m.stem.Children()...)
	children = append(children, m.backbone.Children()...)
	return append(children, m.head.Children()...)
}

// NamedParameters returns every trainable parameter with its qualified
// name (e.g. "layer1.0.conv1.weight").
func (m *Model[B]) NamedParameters() []nn.NamedParameter[B] {
	return nn.NamedParameters[B](m)
}

// StateDict returns parameters and batch norm running statistics keyed by
// qualified name. The tensors are shared with the model.
func (m *Model[B]) StateDict() map[string]*tensor.RawTensor {
	return nn.StateDict[B](m)
}

// LoadStateDict copies a state dict produced by StateDict (or an external
// loader using the same names) into the model.
func (m *Model[B]) LoadStateDict(dict map[string]*tensor.RawTensor) error {
	return nn.LoadStateDict[B](m, dict)
}

// NumParameters returns the number of trainable scalars.
func (m *Model[B]) NumParameters() int {
	return nn.NumParameters[B](m)
}

// Variant returns the model depth.
func (m *Model[B]) Variant() Variant {
	return m.variant
}

// Config returns the construction options.
func (m *Model[B]) Config() Config {
	return m.cfg
}

// NumClasses returns the number of logits.
func (m *Model[B]) NumClasses() int {
	return m.head.NumClasses()
}

// Stem returns the input block.
func (m *Model[B]) Stem() *Stem[B] {
	return m.stem
}

// Backbone returns the four bottleneck stages.
func (m *Model[B]) Backbone() *Backbone[B] {
	return m.backbone
}

// Head returns the classification head.
func (m *Model[B]) Head() *Head[B] {
	return m.head
}

// String returns the architecture, one top-level layer per line.
func (m *Model[B]) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "ResNet%d(\n", int(m.variant))
	for _, c := range m.Children() {
		fmt.Fprintf(&sb, "  (%s): %s\n", c.Name, nn.Indent(nn.Describe(c.Module)))
	}
	sb.WriteString(")")
	return sb.String()
}
