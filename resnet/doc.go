// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package resnet builds bottleneck residual image classifiers: ResNet-50,
// ResNet-101 and ResNet-152.
//
// # Overview
//
// A model is a stem (7x7 convolution and max pooling), four stages of
// bottleneck blocks with widths 64/128/256/512 and strides 1/2/2/2, and a
// head of average pooling, flatten and a linear layer. Variants differ
// only in the number of blocks per stage:
//
//	resnet50:  [3, 4, 6, 3]
//	resnet101: [3, 4, 23, 3]
//	resnet152: [3, 8, 36, 3]
//
// Weights are initialized at construction (He normal for convolutions,
// unit scale and zero shift for batch norm) from Config.Seed.
//
// # Basic Usage
//
//	backend := cpu.New()
//	model, err := resnet.BuildModel(50, 1000, backend)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	logits, err := model.Infer(images) // [N, 3, 224, 224] -> [N, 1000]
//
// # Parameters
//
// NamedParameters and StateDict use the usual checkpoint names
// ("layer1.0.conv1.weight", "layer2.0.downsample.1.running_mean", "fc.bias"),
// so an external loader can fill a model with pretrained weights.
package resnet
