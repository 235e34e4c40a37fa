package nn

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/tensor"
)

// Pipeline is an explicit ordered list of named stages. Each stage's output
// becomes the next stage's input.
//
//	stem := nn.NewPipeline(
//	    nn.Named("conv1", conv),
//	    nn.Named("bn1", bn),
//	    nn.Named("relu", nn.NewReLU[B]()),
//	)
//	out := stem.Forward(images)
//
// Stage names must be unique; they become path segments of parameter names
// (stem.conv1.weight).
type Pipeline[B tensor.Backend] struct {
	stages []Child[B]
	index  map[string]int
}

// NewPipeline creates a pipeline from named stages.
// Panics on empty or duplicate stage names.
func NewPipeline[B tensor.Backend](stages ...Child[B]) *Pipeline[B] {
	p := &Pipeline[B]{index: make(map[string]int, len(stages))}
	for _, s := range stages {
		p.Append(s.Name, s.Module)
	}
	return p
}

// Append adds a named stage at the end of the pipeline.
func (p *Pipeline[B]) Append(name string, m Module[B]) {
	if name == "" || strings.Contains(name, ".") {
		panic(fmt.Sprintf("pipeline: invalid stage name %q", name))
	}
	if _, dup := p.index[name]; dup {
		panic(fmt.Sprintf("pipeline: duplicate stage name %q", name))
	}
	p.index[name] = len(p.stages)
	p.stages = append(p.stages, Child[B]{Name: name, Module: m})
}

// Forward applies all stages in order.
func (p *Pipeline[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, s := range p.stages {
		output = s.Module.Forward(output)
	}
	return output
}

// OutputShape folds every stage's shape inference over the input shape.
// The error names the first stage that rejects its input.
func (p *Pipeline[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	shape := input
	for _, s := range p.stages {
		inferer, ok := s.Module.(ShapeInferer)
		if !ok {
			return nil, fmt.Errorf("pipeline: stage %q cannot infer its output shape", s.Name)
		}
		next, err := inferer.OutputShape(shape)
		if err != nil {
			return nil, fmt.Errorf("pipeline: stage %q: %w", s.Name, err)
		}
		shape = next
	}
	return shape, nil
}

// Parameters returns all trainable parameters from all stages.
func (p *Pipeline[B]) Parameters() []*Parameter[B] {
	var params []*Parameter[B]
	for _, s := range p.stages {
		params = append(params, s.Module.Parameters()...)
	}
	return params
}

// Children returns the stages in order.
func (p *Pipeline[B]) Children() []Child[B] {
	return p.stages
}

// Len returns the number of stages.
func (p *Pipeline[B]) Len() int {
	return len(p.stages)
}

// Stage returns the stage with the given name.
func (p *Pipeline[B]) Stage(name string) (Module[B], bool) {
	i, ok := p.index[name]
	if !ok {
		return nil, false
	}
	return p.stages[i].Module, true
}

// String lists the stages, one per line.
func (p *Pipeline[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Pipeline(\n")
	for _, s := range p.stages {
		fmt.Fprintf(&sb, "  (%s): %s\n", s.Name, Indent(Describe(s.Module)))
	}
	sb.WriteString(")")
	return sb.String()
}

// Describe returns a module's String form, or its Go type when it has none.
func Describe(m any) string {
	if s, ok := m.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", m)
}

// Indent indents every line after the first by two spaces.
func Indent(s string) string {
	return strings.ReplaceAll(s, "\n", "\n  ")
}
