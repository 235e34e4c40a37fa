package resnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/tensor"
)

func TestBuildStage(t *testing.T) {
	backend := cpu.New()

	stage, err := BuildStage(256, 128, 4, 2, backend)
	require.NoError(t, err)

	assert.Equal(t, 4, stage.Len())
	assert.Equal(t, 256, stage.InChannels())
	assert.Equal(t, 512, stage.EmitChannels())
	assert.Equal(t, 2, stage.Stride())

	first := stage.Block(0)
	assert.Equal(t, BlockConfig{InChannels: 256, OutChannels: 128, Stride: 2}, first.Config())
	assert.Equal(t, ShortcutProjection, first.Shortcut().Kind())

	for i := 1; i < stage.Len(); i++ {
		block := stage.Block(i)
		assert.Equal(t, BlockConfig{InChannels: 512, OutChannels: 128, Stride: 1}, block.Config(), "block %d", i)
		assert.Equal(t, ShortcutIdentity, block.Shortcut().Kind(), "block %d", i)
	}

	// Every producer emits what its consumer expects.
	for i := 1; i < stage.Len(); i++ {
		assert.Equal(t, stage.Block(i-1).Config().EmitChannels(), stage.Block(i).Config().InChannels)
	}

	var names []string
	for _, c := range stage.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"0", "1", "2", "3"}, names)

	shape, err := stage.OutputShape(tensor.Shape{1, 256, 56, 56})
	require.NoError(t, err)
	assert.True(t, shape.Equal(tensor.Shape{1, 512, 28, 28}))
}

func TestBuildStage_SingleBlock(t *testing.T) {
	stage, err := BuildStage(64, 64, 1, 1, cpu.New())
	require.NoError(t, err)
	assert.Equal(t, 1, stage.Len())
	assert.Equal(t, ShortcutProjection, stage.Block(0).Shortcut().Kind())
}

func TestBuildStage_InvalidConfig(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name                       string
		in, out, numBlocks, stride int
		field                      string
	}{
		{"zero blocks", 64, 64, 0, 1, "num_blocks"},
		{"negative blocks", 64, 64, -2, 1, "num_blocks"},
		{"zero stride", 64, 64, 3, 0, "stride"},
		{"zero width", 64, 0, 3, 1, "out_channels"},
		{"zero input", 0, 64, 3, 1, "in_channels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stage, err := BuildStage(tt.in, tt.out, tt.numBlocks, tt.stride, backend)
			assert.Nil(t, stage)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestBuildBackbone(t *testing.T) {
	backend := cpu.New()

	bb, err := BuildBackbone([]int{3, 4, 6, 3}, backend)
	require.NoError(t, err)

	assert.Equal(t, []int{3, 4, 6, 3}, bb.Depths())
	assert.Equal(t, 16, bb.NumBlocks())
	assert.Equal(t, 2048, bb.EmitChannels())

	wantIn := []int{64, 256, 512, 1024}
	wantEmit := []int{256, 512, 1024, 2048}
	wantStride := []int{1, 2, 2, 2}
	for i := range NumStages {
		stage := bb.Stage(i)
		assert.Equal(t, wantIn[i], stage.InChannels(), "layer%d", i+1)
		assert.Equal(t, wantEmit[i], stage.EmitChannels(), "layer%d", i+1)
		assert.Equal(t, wantStride[i], stage.Stride(), "layer%d", i+1)
	}

	var names []string
	for _, c := range bb.Children() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"layer1", "layer2", "layer3", "layer4"}, names)

	shape, err := bb.OutputShape(tensor.Shape{1, 64, 56, 56})
	require.NoError(t, err)
	assert.True(t, shape.Equal(tensor.Shape{1, 2048, 7, 7}))
}

func TestBuildBackbone_InvalidConfig(t *testing.T) {
	backend := cpu.New()

	_, err := BuildBackbone([]int{3, 4, 6}, backend)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = BuildBackbone([]int{3, 4, 6, 3, 3}, backend)
	assert.ErrorIs(t, err, ErrConfig)

	_, err = BuildBackbone([]int{3, 0, 6, 3}, backend)
	require.ErrorIs(t, err, ErrConfig)
	assert.Contains(t, err.Error(), "layer2")
}

func TestCheckChannelChain(t *testing.T) {
	backend := cpu.New()

	first, err := BuildStage(64, 64, 1, 1, backend)
	require.NoError(t, err)
	second, err := BuildStage(256, 128, 2, 2, backend)
	require.NoError(t, err)
	stray, err := BuildStage(512, 128, 1, 2, backend)
	require.NoError(t, err)

	assert.NoError(t, checkChannelChain(64, []*Stage[Backend]{first, second}))

	err = checkChannelChain(64, []*Stage[Backend]{first, stray})
	require.ErrorIs(t, err, ErrShapeInvariant)
	assert.Contains(t, err.Error(), "layer2.0.conv1 expects 512 channels, upstream emits 256")

	err = checkChannelChain(128, []*Stage[Backend]{first})
	require.ErrorIs(t, err, ErrShapeInvariant)
	assert.Contains(t, err.Error(), "layer1.0.conv1")
}
