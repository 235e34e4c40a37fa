// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/resnet/internal/backend/cpu"
	"github.com/born-ml/resnet/internal/parallel"
	"github.com/born-ml/resnet/nn"
	"github.com/born-ml/resnet/tensor"
)

// Backend represents the CPU backend implementation.
type Backend = internalcpu.CPUBackend

// Config holds CPU backend options.
type Config = internalcpu.Config

// ParallelConfig controls how kernels split work across goroutines.
type ParallelConfig = parallel.Config

// Compile-time checks for the operations ResNet layers need.
var (
	_ tensor.Backend      = (*Backend)(nil)
	_ nn.ReLUBackend      = (*Backend)(nil)
	_ nn.BatchNormBackend = (*Backend)(nil)
	_ nn.AvgPoolBackend   = (*Backend)(nil)
)

// New creates a CPU backend using every available core.
//
//	backend := cpu.New()
//	x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with explicit options.
//
//	cfg := cpu.DefaultConfig()
//	cfg.Parallel.Workers = 1
//	backend := cpu.NewWithConfig(cfg)
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the default CPU backend options.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}
