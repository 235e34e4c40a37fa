package resnet

import (
	"fmt"
	"strings"

	"github.com/born-ml/resnet/internal/nn"
	"github.com/born-ml/resnet/internal/tensor"
)

// SummaryRow is one line of a model summary.
type SummaryRow struct {
	Name        string       // Qualified layer name (e.g. "layer2.0")
	Type        string       // Go type of the layer
	OutputShape tensor.Shape // Shape after the layer
	Params      int          // Trainable scalars owned by the layer
}

// Summary traces a batch of images through the model statically and
// reports the output shape of every top-level layer and every bottleneck
// block. No tensor is allocated.
func (m *Model[B]) Summary(batch int) ([]SummaryRow, error) {
	input := tensor.Shape{batch, 3, m.cfg.InputSize, m.cfg.InputSize}
	if err := m.ValidateInput(input); err != nil {
		return nil, err
	}

	var rows []SummaryRow
	shape := input
	for _, child := range m.Children() {
		stage, ok := child.Module.(*Stage[B])
		if !ok {
			next, err := inferShape(child.Module, shape)
			if err != nil {
				return nil, fmt.Errorf("summary: %s: %w", child.Name, err)
			}
			rows = append(rows, newSummaryRow(child.Name, child.Module, next))
			shape = next
			continue
		}
		for _, block := range stage.Children() {
			next, err := inferShape(block.Module, shape)
			if err != nil {
				return nil, fmt.Errorf("summary: %s.%s: %w", child.Name, block.Name, err)
			}
			rows = append(rows, newSummaryRow(child.Name+"."+block.Name, block.Module, next))
			shape = next
		}
	}
	return rows, nil
}

func inferShape[B tensor.Backend](m nn.Module[B], input tensor.Shape) (tensor.Shape, error) {
	inferer, ok := m.(nn.ShapeInferer)
	if !ok {
		return nil, fmt.Errorf("%T cannot infer its output shape", m)
	}
	return inferer.OutputShape(input)
}

func newSummaryRow[B tensor.Backend](name string, m nn.Module[B], shape tensor.Shape) SummaryRow {
	return SummaryRow{
		Name:        name,
		Type:        typeName(m),
		OutputShape: shape,
		Params:      nn.NumParameters(m),
	}
}

// typeName strips the package path and type arguments from a layer's type.
func typeName(m any) string {
	name := fmt.Sprintf("%T", m)
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name[strings.LastIndexByte(name, '.')+1:]
}
