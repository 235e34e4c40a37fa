package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/resnet/internal/parallel"
	"github.com/born-ml/resnet/internal/tensor"
)

// BatchNorm2D applies inference-mode batch normalization to an NCHW tensor:
//
//	y = (x - mean[c]) / sqrt(variance[c] + eps) * gamma[c] + beta[c]
//
// gamma, beta, mean and variance all have shape [C].
func (cpu *CPUBackend) BatchNorm2D(input, gamma, beta, mean, variance *tensor.RawTensor, eps float32) *tensor.RawTensor {
	requireFloat32("batchnorm2d", input, gamma, beta, mean, variance)

	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(shape)))
	}
	n, c, hw := shape[0], shape[1], shape[2]*shape[3]
	for name, p := range map[string]*tensor.RawTensor{"gamma": gamma, "beta": beta, "mean": mean, "variance": variance} {
		if !p.Shape().Equal(tensor.Shape{c}) {
			panic(fmt.Sprintf("batchnorm2d: %s shape %v, expected [%d]", name, p.Shape(), c))
		}
	}

	// Fold the four per-channel vectors into one scale and one shift.
	g, b, mu, v := gamma.AsFloat32(), beta.AsFloat32(), mean.AsFloat32(), variance.AsFloat32()
	scale := make([]float32, c)
	shift := make([]float32, c)
	for ch := range c {
		scale[ch] = g[ch] / float32(math.Sqrt(float64(v[ch]+eps)))
		shift[ch] = b[ch] - mu[ch]*scale[ch]
	}

	output := cpu.newFloat32("batchnorm2d", shape)
	src, dst := input.AsFloat32(), output.AsFloat32()

	parallel.ForPlanes(cpu.cfg.Parallel, n, c, func(bi, ch int) {
		off := (bi*c + ch) * hw
		s, t := scale[ch], shift[ch]
		for i := off; i < off+hw; i++ {
			dst[i] = src[i]*s + t
		}
	})

	return output
}
