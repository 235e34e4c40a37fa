// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package resnet

import (
	"github.com/born-ml/resnet/internal/resnet"
	"github.com/born-ml/resnet/tensor"
)

// Model is a complete bottleneck ResNet classifier.
type Model[B tensor.Backend] = resnet.Model[B]

// Building blocks.
type (
	Stem[B tensor.Backend]       = resnet.Stem[B]
	Bottleneck[B tensor.Backend] = resnet.Bottleneck[B]
	Shortcut[B tensor.Backend]   = resnet.Shortcut[B]
	Stage[B tensor.Backend]      = resnet.Stage[B]
	Backbone[B tensor.Backend]   = resnet.Backbone[B]
	Head[B tensor.Backend]       = resnet.Head[B]
)

// Config holds model construction options.
type Config = resnet.Config

// BlockConfig fixes the geometry of a bottleneck block.
type BlockConfig = resnet.BlockConfig

// SummaryRow is one line of Model.Summary.
type SummaryRow = resnet.SummaryRow

// Variant selects a network depth.
type Variant = resnet.Variant

// Supported variants.
const (
	Variant50  = resnet.Variant50
	Variant101 = resnet.Variant101
	Variant152 = resnet.Variant152
)

// ShortcutKind tags identity and projection shortcuts.
type ShortcutKind = resnet.ShortcutKind

// Shortcut variants.
const (
	ShortcutIdentity   = resnet.ShortcutIdentity
	ShortcutProjection = resnet.ShortcutProjection
)

// Architecture constants.
const (
	Expansion           = resnet.Expansion
	StemChannels        = resnet.StemChannels
	NumStages           = resnet.NumStages
	DefaultBatchNormEps = resnet.DefaultBatchNormEps
)

// Errors.
var (
	ErrConfig         = resnet.ErrConfig
	ErrInputShape     = resnet.ErrInputShape
	ErrShapeInvariant = resnet.ErrShapeInvariant
)

// Typed errors.
type (
	ConfigError         = resnet.ConfigError
	InputShapeError     = resnet.InputShapeError
	ShapeInvariantError = resnet.ShapeInvariantError
)

// DefaultConfig returns the ImageNet configuration: 1000 classes on
// 224x224 images.
func DefaultConfig() Config {
	return resnet.DefaultConfig()
}

// ParseVariant parses "50", "resnet101" and similar names.
func ParseVariant(s string) (Variant, error) {
	return resnet.ParseVariant(s)
}

// Variants lists the supported variants.
func Variants() []Variant {
	return resnet.Variants()
}

// BuildModel builds a variant (50, 101 or 152) with numClasses logits.
//
// Example:
//
//	model, err := resnet.BuildModel(50, 1000, cpu.New())
func BuildModel[B tensor.Backend](variant, numClasses int, backend B) (*Model[B], error) {
	return resnet.BuildModel(variant, numClasses, backend)
}

// New builds a model from a variant and a full configuration.
func New[B tensor.Backend](variant Variant, cfg Config, backend B) (*Model[B], error) {
	return resnet.New(variant, cfg, backend)
}

// ResNet50 builds a 50-layer model.
func ResNet50[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return resnet.ResNet50(backend, cfg)
}

// ResNet101 builds a 101-layer model.
func ResNet101[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return resnet.ResNet101(backend, cfg)
}

// ResNet152 builds a 152-layer model.
func ResNet152[B tensor.Backend](backend B, cfg Config) (*Model[B], error) {
	return resnet.ResNet152(backend, cfg)
}

// SelectShortcut reports the shortcut a block with cfg receives.
func SelectShortcut(cfg BlockConfig) ShortcutKind {
	return resnet.SelectShortcut(cfg)
}

// NewBottleneck creates a single bottleneck block.
func NewBottleneck[B tensor.Backend](cfg BlockConfig, eps float32, backend B) (*Bottleneck[B], error) {
	return resnet.NewBottleneck(cfg, eps, backend)
}

// BuildStage builds numBlocks bottleneck blocks; only the first one
// changes width and resolution.
func BuildStage[B tensor.Backend](inChannels, outChannels, numBlocks, stride int, backend B) (*Stage[B], error) {
	return resnet.BuildStage(inChannels, outChannels, numBlocks, stride, backend)
}

// BuildBackbone builds the four stages with the given depths.
func BuildBackbone[B tensor.Backend](blocks []int, backend B) (*Backbone[B], error) {
	return resnet.BuildBackbone(blocks, backend)
}
