// Package resnet assembles bottleneck residual networks (ResNet-50, -101
// and -152) from the layers in internal/nn.
//
// A model is a fixed pipeline:
//
//	Stem (conv 7x7/2, bn, relu, maxpool 3x3/2)
//	layer1..layer4 (bottleneck stages, widths 64/128/256/512, strides 1/2/2/2)
//	Head (avgpool, flatten, fc)
//
// Only the number of blocks per stage differs between variants. Every
// shortcut is decided at construction: a block whose input already has the
// emitted width and whose stride is 1 adds its input unchanged, every other
// block projects it with a strided 1x1 convolution and batch norm.
//
// Parameter names follow the usual checkpoint layout, for example
// "layer3.17.conv2.weight" or "layer2.0.downsample.1.running_var".
package resnet
