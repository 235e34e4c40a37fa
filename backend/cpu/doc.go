// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go CPU backend for ResNet inference.
//
// # Overview
//
// This package implements a CPU backend with:
//   - Pure Go implementation (no CGO)
//   - Im2col convolutions on gonum's BLAS GEMM
//   - Inference batch normalization, ReLU, max and average pooling
//   - Batch and channel planes processed in parallel
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/resnet/backend/cpu"
//	    "github.com/born-ml/resnet/resnet"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    model, err := resnet.BuildModel(50, 1000, backend)
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	}
//
// # Thread Safety
//
// The CPU backend is safe for concurrent use. Each operation allocates its
// own output and never writes to its inputs.
package cpu
