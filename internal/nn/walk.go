package nn

import (
	"fmt"
	"sort"
	"strings"

	"github.com/born-ml/resnet/internal/tensor"
)

// Walk visits root and every nested module in depth-first pre-order.
// path is the dot-joined chain of child names ("" for root).
func Walk[B tensor.Backend](root Module[B], visit func(path string, m Module[B])) {
	walk(root, "", visit)
}

func walk[B tensor.Backend](m Module[B], path string, visit func(string, Module[B])) {
	visit(path, m)
	c, ok := m.(Container[B])
	if !ok {
		return
	}
	for _, child := range c.Children() {
		walk(child.Module, joinPath(path, child.Name), visit)
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

// NamedParameter is a parameter with its fully qualified name
// (e.g. "layer1.0.conv1.weight").
type NamedParameter[B tensor.Backend] struct {
	Name      string
	Parameter *Parameter[B]
}

// NamedParameters returns every trainable parameter under root with its
// qualified name, in traversal order.
func NamedParameters[B tensor.Backend](root Module[B]) []NamedParameter[B] {
	var out []NamedParameter[B]
	Walk(root, func(path string, m Module[B]) {
		if _, ok := m.(Container[B]); ok {
			return
		}
		for _, p := range m.Parameters() {
			out = append(out, NamedParameter[B]{Name: joinPath(path, p.Name()), Parameter: p})
		}
	})
	return out
}

// NumParameters returns the number of trainable scalars under root.
func NumParameters[B tensor.Backend](root Module[B]) int {
	n := 0
	for _, p := range root.Parameters() {
		n += p.Tensor().NumElements()
	}
	return n
}

// namedState returns parameters and buffers under root keyed by qualified name.
func namedState[B tensor.Backend](root Module[B]) map[string]*Parameter[B] {
	state := make(map[string]*Parameter[B])
	Walk(root, func(path string, m Module[B]) {
		if _, ok := m.(Container[B]); ok {
			return
		}
		for _, p := range m.Parameters() {
			state[joinPath(path, p.Name())] = p
		}
		if b, ok := m.(Buffered[B]); ok {
			for _, p := range b.Buffers() {
				state[joinPath(path, p.Name())] = p
			}
		}
	})
	return state
}

// StateDict returns every parameter and buffer under root keyed by
// qualified name. The raw tensors are shared with the module.
func StateDict[B tensor.Backend](root Module[B]) map[string]*tensor.RawTensor {
	state := namedState(root)
	dict := make(map[string]*tensor.RawTensor, len(state))
	for name, p := range state {
		dict[name] = p.Tensor().Raw()
	}
	return dict
}

// LoadStateDict copies tensors from dict into the parameters and buffers
// under root. Every key must match a tensor of identical shape and every
// parameter and buffer must be present.
func LoadStateDict[B tensor.Backend](root Module[B], dict map[string]*tensor.RawTensor) error {
	state := namedState(root)

	var missing, unexpected []string
	for name := range state {
		if _, ok := dict[name]; !ok {
			missing = append(missing, name)
		}
	}
	for name := range dict {
		if _, ok := state[name]; !ok {
			unexpected = append(unexpected, name)
		}
	}
	if len(missing) > 0 || len(unexpected) > 0 {
		sort.Strings(missing)
		sort.Strings(unexpected)
		return fmt.Errorf("load state dict: missing keys [%s], unexpected keys [%s]",
			strings.Join(missing, ", "), strings.Join(unexpected, ", "))
	}

	for name, p := range state {
		src := dict[name]
		if !src.Shape().Equal(p.Shape()) {
			return fmt.Errorf("load state dict: %s has shape %v, expected %v", name, src.Shape(), p.Shape())
		}
		if src.DType() != tensor.Float32 {
			return fmt.Errorf("load state dict: %s has dtype %s, expected float32", name, src.DType())
		}
	}
	for name, p := range state {
		copy(p.Tensor().Data(), dict[name].AsFloat32())
	}
	return nil
}
