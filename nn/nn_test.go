// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/backend/cpu"
	"github.com/born-ml/resnet/nn"
	"github.com/born-ml/resnet/tensor"
)

type Backend = *cpu.Backend

func TestPipelineAPI(t *testing.T) {
	backend := cpu.New()

	conv := nn.NewConv2D(3, 8, 3, 3, 1, 1, false, backend)
	net := nn.NewPipeline(
		nn.Named[Backend]("conv", conv),
		nn.Named[Backend]("bn", nn.NewBatchNorm2D(8, 1e-5, backend)),
		nn.Named[Backend]("relu", nn.NewReLU[Backend]()),
		nn.Named[Backend]("pool", nn.NewMaxPool2D(2, 2, 0, backend)),
	)
	nn.Init[Backend](net, 1)

	out := net.Forward(tensor.Ones[float32](tensor.Shape{1, 3, 4, 4}, backend))
	assert.True(t, out.Shape().Equal(tensor.Shape{1, 8, 2, 2}))

	names := make([]string, 0, 3)
	for _, np := range nn.NamedParameters[Backend](net) {
		names = append(names, np.Name)
	}
	assert.Equal(t, []string{"conv.weight", "bn.weight", "bn.bias"}, names)

	dict := nn.StateDict[Backend](net)
	assert.Len(t, dict, 5)
	require.NoError(t, nn.LoadStateDict[Backend](net, dict))

	var kinds []nn.Kind
	nn.Walk[Backend](net, func(_ string, m nn.Module[Backend]) {
		if l, ok := m.(nn.Layer[Backend]); ok {
			kinds = append(kinds, l.Kind())
		}
	})
	assert.Equal(t, []nn.Kind{nn.KindConv, nn.KindNorm, nn.KindActivation, nn.KindPool}, kinds)
}
