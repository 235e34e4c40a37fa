package resnet

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariant_BlockCounts(t *testing.T) {
	tests := []struct {
		variant Variant
		depths  []int
		total   int
	}{
		{Variant50, []int{3, 4, 6, 3}, 16},
		{Variant101, []int{3, 4, 23, 3}, 33},
		{Variant152, []int{3, 8, 36, 3}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.variant.String(), func(t *testing.T) {
			depths, err := tt.variant.BlockCounts()
			require.NoError(t, err)
			assert.Equal(t, tt.depths, depths)

			total := 0
			for _, d := range depths {
				total += d
			}
			assert.Equal(t, tt.total, total)
		})
	}

	_, err := Variant(34).BlockCounts()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrConfig))

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "variant", cfgErr.Field)
	assert.Equal(t, 34, cfgErr.Value)
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in      string
		want    Variant
		wantErr bool
	}{
		{"50", Variant50, false},
		{"resnet101", Variant101, false},
		{"ResNet-152", Variant152, false},
		{" resnet50 ", Variant50, false},
		{"34", 0, true},
		{"resnet", 0, true},
		{"vgg16", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseVariant(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrConfig)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	tests := []struct {
		name   string
		modify func(*Config)
		field  string
	}{
		{"zero classes", func(c *Config) { c.NumClasses = 0 }, "num_classes"},
		{"negative classes", func(c *Config) { c.NumClasses = -3 }, "num_classes"},
		{"zero input size", func(c *Config) { c.InputSize = 0 }, "input_size"},
		{"negative eps", func(c *Config) { c.BatchNormEps = -1 }, "batch_norm_eps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, cfg.Validate(), &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
