package nn

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/born-ml/resnet/internal/tensor"
)

// Init applies the default initialization policy to every layer under root,
// dispatching on each layer's declared Kind:
//
//   - KindConv: He (Kaiming) normal in fan-out mode for ReLU networks,
//     std = sqrt(2 / (out_channels * kernel_h * kernel_w)); bias zero.
//   - KindNorm: scale 1, shift 0; running statistics reset when present.
//   - KindLinear: weight and bias uniform in ±1/sqrt(in_features).
//
// Other kinds own no parameters and are skipped. The same seed always
// produces the same weights.
func Init[B tensor.Backend](root Module[B], seed uint64) {
	src := rand.NewSource(seed)

	Walk(root, func(_ string, m Module[B]) {
		layer, ok := m.(Layer[B])
		if !ok {
			return
		}
		affine, ok := m.(Affine[B])
		if !ok {
			return
		}

		switch layer.Kind() {
		case KindConv:
			KaimingNormal(affine.Weight(), src)
			if b := affine.Bias(); b != nil {
				Constant(b, 0)
			}
		case KindNorm:
			Constant(affine.Weight(), 1)
			Constant(affine.Bias(), 0)
			if r, ok := m.(interface{ ResetRunningStats() }); ok {
				r.ResetRunningStats()
			}
		case KindLinear:
			fanIn, _ := Fans(affine.Weight().Shape())
			bound := 1 / math.Sqrt(float64(fanIn))
			Uniform(affine.Weight(), bound, src)
			if b := affine.Bias(); b != nil {
				Uniform(b, bound, src)
			}
		}
	})
}

// Fans returns the fan-in and fan-out of a weight shape.
//
// For [out, in] matrices fan_in = in and fan_out = out; convolution kernels
// [out, in, k_h, k_w] multiply both by the receptive field k_h*k_w.
func Fans(shape tensor.Shape) (fanIn, fanOut int) {
	if len(shape) < 2 {
		panic(fmt.Sprintf("init: fan computation needs at least 2D weights, got %v", shape))
	}
	receptive := shape[2:].NumElements()
	return shape[1] * receptive, shape[0] * receptive
}

// KaimingNormal fills p from N(0, 2/fan_out), the He initialization for
// layers followed by ReLU.
func KaimingNormal[B tensor.Backend](p *Parameter[B], src rand.Source) {
	_, fanOut := Fans(p.Shape())
	dist := distuv.Normal{
		Mu:    0,
		Sigma: math.Sqrt(2 / float64(fanOut)),
		Src:   src,
	}
	data := p.Tensor().Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// Uniform fills p from U(-bound, bound).
func Uniform[B tensor.Backend](p *Parameter[B], bound float64, src rand.Source) {
	dist := distuv.Uniform{
		Min: -bound,
		Max: bound,
		Src: src,
	}
	data := p.Tensor().Data()
	for i := range data {
		data[i] = float32(dist.Rand())
	}
}

// Constant fills p with v.
func Constant[B tensor.Backend](p *Parameter[B], v float32) {
	data := p.Tensor().Data()
	for i := range data {
		data[i] = v
	}
}
