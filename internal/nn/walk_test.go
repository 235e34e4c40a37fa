package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/tensor"
)

// smallNet is a two-level module tree: a conv block pipeline followed by a
// classifier pipeline.
func smallNet(backend Backend) *Pipeline[Backend] {
	block := NewPipeline(
		Named[Backend]("conv", NewConv2D(3, 8, 3, 3, 1, 1, false, backend)),
		Named[Backend]("bn", NewBatchNorm2D(8, 1e-5, backend)),
		Named[Backend]("relu", NewReLU[Backend]()),
	)
	return NewPipeline(
		Named[Backend]("features", block),
		Named[Backend]("pool", NewAvgPool2D(4, 4, backend)),
		Named[Backend]("flatten", NewFlatten[Backend]()),
		Named[Backend]("fc", NewLinear(8, 5, backend)),
	)
}

func TestPipeline(t *testing.T) {
	backend := cpu.New()
	net := smallNet(backend)

	assert.Equal(t, 4, net.Len())
	_, ok := net.Stage("fc")
	assert.True(t, ok)
	_, ok = net.Stage("missing")
	assert.False(t, ok)

	shape, err := net.OutputShape(tensor.Shape{2, 3, 4, 4})
	require.NoError(t, err)
	assert.True(t, shape.Equal(tensor.Shape{2, 5}))

	out := net.Forward(tensor.Zeros[float32](tensor.Shape{2, 3, 4, 4}, backend))
	assert.True(t, out.Shape().Equal(shape))

	_, err = net.OutputShape(tensor.Shape{2, 4, 4, 4})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `stage "features"`)

	assert.Contains(t, net.String(), "(fc): Linear(in_features=8, out_features=5, bias=true)")
}

func TestPipeline_InvalidNames(t *testing.T) {
	backend := cpu.New()
	relu := NewReLU[Backend]()

	assert.Panics(t, func() { NewPipeline(Named[Backend]("", relu)) })
	assert.Panics(t, func() { NewPipeline(Named[Backend]("a.b", relu)) })
	assert.Panics(t, func() {
		NewPipeline(Named[Backend]("x", relu), Named[Backend]("x", NewFlatten[Backend]()))
	})
	assert.NotPanics(t, func() { NewPipeline(Named[Backend]("conv", NewConv2D(1, 1, 1, 1, 1, 0, false, backend))) })
}

func TestWalk(t *testing.T) {
	net := smallNet(cpu.New())

	var paths []string
	Walk[Backend](net, func(path string, _ Module[Backend]) {
		paths = append(paths, path)
	})

	assert.Equal(t, []string{
		"",
		"features", "features.conv", "features.bn", "features.relu",
		"pool", "flatten", "fc",
	}, paths)
}

func TestNamedParameters(t *testing.T) {
	net := smallNet(cpu.New())

	var names []string
	for _, np := range NamedParameters[Backend](net) {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{
		"features.conv.weight",
		"features.bn.weight", "features.bn.bias",
		"fc.weight", "fc.bias",
	}, names)

	// 8*3*3*3 + 8 + 8 + 5*8 + 5
	assert.Equal(t, 277, NumParameters[Backend](net))
}

func TestStateDict(t *testing.T) {
	backend := cpu.New()
	src := smallNet(backend)
	Init[Backend](src, 7)

	dict := StateDict[Backend](src)
	assert.Len(t, dict, 7)
	assert.Contains(t, dict, "features.bn.running_mean")
	assert.Contains(t, dict, "features.bn.running_var")

	dst := smallNet(backend)
	require.NoError(t, LoadStateDict[Backend](dst, dict))

	srcParams := NamedParameters[Backend](src)
	dstParams := NamedParameters[Backend](dst)
	for i := range srcParams {
		assert.True(t, srcParams[i].Parameter.Tensor().Equal(dstParams[i].Parameter.Tensor()), srcParams[i].Name)
	}

	delete(dict, "fc.bias")
	dict["fc.extra"] = tensor.Zeros[float32](tensor.Shape{1}, backend).Raw()
	err := LoadStateDict[Backend](dst, dict)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing keys [fc.bias]")
	assert.Contains(t, err.Error(), "unexpected keys [fc.extra]")

	dict = StateDict[Backend](src)
	dict["fc.bias"] = tensor.Zeros[float32](tensor.Shape{4}, backend).Raw()
	assert.Error(t, LoadStateDict[Backend](dst, dict))
}

func TestFans(t *testing.T) {
	fanIn, fanOut := Fans(tensor.Shape{64, 3, 7, 7})
	assert.Equal(t, 3*49, fanIn)
	assert.Equal(t, 64*49, fanOut)

	fanIn, fanOut = Fans(tensor.Shape{1000, 2048})
	assert.Equal(t, 2048, fanIn)
	assert.Equal(t, 1000, fanOut)

	assert.Panics(t, func() { Fans(tensor.Shape{10}) })
}

func TestInit(t *testing.T) {
	backend := cpu.New()

	conv := NewConv2D(64, 256, 3, 3, 1, 1, false, backend)
	bn := NewBatchNorm2D(256, 1e-5, backend)
	fc := NewLinear(512, 100, backend)
	net := NewPipeline(
		Named[Backend]("conv", conv),
		Named[Backend]("bn", bn),
		Named[Backend]("fc", fc),
	)

	copy(bn.Buffers()[0].Tensor().Data(), []float32{3, 3, 3})
	Constant(bn.Weight(), 5)
	Init[Backend](net, 42)

	t.Run("conv he normal fan out", func(t *testing.T) {
		w := toFloat64(conv.Weight().Tensor().Data())
		mean, std := stat.MeanStdDev(w, nil)
		want := math.Sqrt(2.0 / (256 * 3 * 3))
		assert.InDelta(t, 0, mean, 0.05*want)
		assert.InDelta(t, want, std, 0.05*want)
	})

	t.Run("norm scale one shift zero", func(t *testing.T) {
		for _, v := range bn.Weight().Tensor().Data() {
			require.Equal(t, float32(1), v)
		}
		for _, v := range bn.Bias().Tensor().Data() {
			require.Equal(t, float32(0), v)
		}
		assert.Equal(t, float32(0), bn.Buffers()[0].Tensor().Data()[0])
		assert.Equal(t, float32(1), bn.Buffers()[1].Tensor().Data()[0])
	})

	t.Run("linear uniform bound", func(t *testing.T) {
		bound := float32(1 / math.Sqrt(512))
		for _, p := range fc.Parameters() {
			for _, v := range p.Tensor().Data() {
				require.LessOrEqual(t, v, bound)
				require.GreaterOrEqual(t, v, -bound)
			}
		}
		w := toFloat64(fc.Weight().Tensor().Data())
		assert.InDelta(t, float64(bound)/math.Sqrt(3), stat.StdDev(w, nil), 0.05*float64(bound))
	})

	t.Run("same seed same weights", func(t *testing.T) {
		other := NewConv2D(64, 256, 3, 3, 1, 1, false, backend)
		again := NewPipeline(
			Named[Backend]("conv", other),
			Named[Backend]("bn", NewBatchNorm2D(256, 1e-5, backend)),
			Named[Backend]("fc", NewLinear(512, 100, backend)),
		)
		Init[Backend](again, 42)
		assert.True(t, conv.Weight().Tensor().Equal(other.Weight().Tensor()))

		Init[Backend](again, 43)
		assert.False(t, conv.Weight().Tensor().Equal(other.Weight().Tensor()))
	})
}

func toFloat64(data []float32) []float64 {
	out := make([]float64, len(data))
	for i, v := range data {
		out[i] = float64(v)
	}
	return out
}
