// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package resnet_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/backend/cpu"
	"github.com/born-ml/resnet/resnet"
	"github.com/born-ml/resnet/tensor"
)

func TestBuildModel(t *testing.T) {
	backend := cpu.New()

	cfg := resnet.DefaultConfig()
	cfg.NumClasses = 5
	cfg.InputSize = 32
	model, err := resnet.New(resnet.Variant50, cfg, backend)
	require.NoError(t, err)

	logits, err := model.Infer(tensor.Zeros[float32](tensor.Shape{3, 3, 32, 32}, backend))
	require.NoError(t, err)
	assert.True(t, logits.Shape().Equal(tensor.Shape{3, 5}))

	_, err = model.Infer(tensor.Zeros[float32](tensor.Shape{3, 1, 32, 32}, backend))
	assert.True(t, errors.Is(err, resnet.ErrInputShape))
}

func TestBuildModel_Unsupported(t *testing.T) {
	model, err := resnet.BuildModel(34, 1000, cpu.New())
	assert.Nil(t, model)
	assert.ErrorIs(t, err, resnet.ErrConfig)
}

func TestSelectShortcut(t *testing.T) {
	assert.Equal(t, resnet.ShortcutProjection, resnet.SelectShortcut(resnet.BlockConfig{InChannels: 64, OutChannels: 64, Stride: 1}))
	assert.Equal(t, resnet.ShortcutIdentity, resnet.SelectShortcut(resnet.BlockConfig{InChannels: 256, OutChannels: 64, Stride: 1}))
}

func ExampleBuildModel() {
	model, err := resnet.BuildModel(50, 1000, cpu.New())
	if err != nil {
		panic(err)
	}
	fmt.Println(model.Variant(), model.Backbone().NumBlocks(), model.NumParameters())
	// Output: resnet50 16 25557032
}
