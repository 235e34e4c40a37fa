package cpu

import (
	"github.com/born-ml/resnet/internal/tensor"
)

// ReLU applies max(0, x) element-wise.
func (cpu *CPUBackend) ReLU(x *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("relu", x)

	result := cpu.newFloat32("relu", x.Shape())
	src, dst := x.AsFloat32(), result.AsFloat32()
	for i, v := range src {
		if v > 0 {
			dst[i] = v
		}
	}
	return result
}
