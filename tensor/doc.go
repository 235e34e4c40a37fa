// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the tensor types ResNet models consume and
// produce.
//
// # Overview
//
// Tensors are dense row-major float buffers tagged with the backend that
// computes on them:
//   - Generic type-safe tensors (Tensor[T, B])
//   - NumPy-style broadcasting for Add
//   - NCHW layout for images and feature maps
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/resnet/backend/cpu"
//	    "github.com/born-ml/resnet/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    images := tensor.Zeros[float32](tensor.Shape{8, 3, 224, 224}, backend)
//	    fmt.Println(images.Shape()) // [8,3,224,224]
//	}
package tensor
