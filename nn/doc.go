// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers residual networks are built from.
//
// # Overview
//
//   - Conv2D, BatchNorm2D, Linear: layers with parameters
//   - ReLU, MaxPool2D, AvgPool2D, Flatten: shape-only layers
//   - Pipeline: an explicit ordered list of named stages
//   - Walk, NamedParameters, StateDict: traversal over nested modules
//   - Init: kind-dispatched weight initialization
//
// # Basic Usage
//
//	backend := cpu.New()
//	stem := nn.NewPipeline(
//	    nn.Named[B]("conv1", nn.NewConv2D(3, 64, 7, 7, 2, 3, false, backend)),
//	    nn.Named[B]("bn1", nn.NewBatchNorm2D(64, 1e-5, backend)),
//	    nn.Named[B]("relu", nn.NewReLU[B]()),
//	)
//	nn.Init[B](stem, 42)
//	features := stem.Forward(images)
package nn
