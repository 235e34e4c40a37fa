package cpu

import (
	"fmt"
	"math"

	"github.com/born-ml/resnet/internal/parallel"
	"github.com/born-ml/resnet/internal/tensor"
)

// poolGeometry validates a pooling request and returns its output size.
func poolGeometry(op string, input *tensor.RawTensor, kernelSize, stride, padding int) (n, c, h, w, hOut, wOut int) {
	shape := input.Shape()
	if len(shape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D input [N,C,H,W], got %dD", op, len(shape)))
	}
	if kernelSize <= 0 {
		panic(fmt.Sprintf("%s: invalid kernel size %d", op, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("%s: invalid stride %d", op, stride))
	}
	if padding < 0 || padding > kernelSize/2 {
		panic(fmt.Sprintf("%s: padding %d must be in [0, %d]", op, padding, kernelSize/2))
	}

	n, c, h, w = shape[0], shape[1], shape[2], shape[3]
	hOut = (h+2*padding-kernelSize)/stride + 1
	wOut = (w+2*padding-kernelSize)/stride + 1
	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("%s: invalid output dimensions %dx%d (kernel=%d, stride=%d, padding=%d, input=%dx%d)",
			op, hOut, wOut, kernelSize, stride, padding, h, w))
	}
	return n, c, h, w, hOut, wOut
}

// MaxPool2D performs 2D max pooling with implicit padding.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
//	out_height = (height + 2*padding - kernelSize) / stride + 1
//
// Padded positions are skipped rather than treated as zeros, so a window
// that overlaps the border takes the maximum of its in-bounds values.
//
// Example (2x2 pool, stride=2, no padding):
//
//	Input: [[1,2,3,4],    Output: [[6,8],
//	        [5,6,7,8],             [14,16]]
//	        [9,10,11,12],
//	        [13,14,15,16]]
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride, padding int) *tensor.RawTensor {
	requireFloat32("maxpool2d", input)
	n, c, h, w, hOut, wOut := poolGeometry("maxpool2d", input, kernelSize, stride, padding)

	output := cpu.newFloat32("maxpool2d", tensor.Shape{n, c, hOut, wOut})
	src, dst := input.AsFloat32(), output.AsFloat32()

	parallel.ForPlanes(cpu.cfg.Parallel, n, c, func(b, ch int) {
		plane := src[(b*c+ch)*h*w:]
		out := dst[(b*c+ch)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			h0 := oh*stride - padding
			for ow := 0; ow < wOut; ow++ {
				w0 := ow*stride - padding
				best := float32(math.Inf(-1))
				for ih := max(h0, 0); ih < min(h0+kernelSize, h); ih++ {
					for iw := max(w0, 0); iw < min(w0+kernelSize, w); iw++ {
						if v := plane[ih*w+iw]; v > best {
							best = v
						}
					}
				}
				out[oh*wOut+ow] = best
			}
		}
	})

	return output
}

// AvgPool2D performs 2D average pooling over unpadded square windows.
//
// Output shape follows MaxPool2D with padding 0. With kernelSize equal to
// the input's spatial extent it collapses every plane to 1×1.
func (cpu *CPUBackend) AvgPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	requireFloat32("avgpool2d", input)
	n, c, h, w, hOut, wOut := poolGeometry("avgpool2d", input, kernelSize, stride, 0)

	output := cpu.newFloat32("avgpool2d", tensor.Shape{n, c, hOut, wOut})
	src, dst := input.AsFloat32(), output.AsFloat32()
	scale := 1 / float32(kernelSize*kernelSize)

	parallel.ForPlanes(cpu.cfg.Parallel, n, c, func(b, ch int) {
		plane := src[(b*c+ch)*h*w:]
		out := dst[(b*c+ch)*hOut*wOut:]
		for oh := 0; oh < hOut; oh++ {
			for ow := 0; ow < wOut; ow++ {
				var sum float32
				for kh := 0; kh < kernelSize; kh++ {
					row := plane[(oh*stride+kh)*w+ow*stride:]
					for kw := 0; kw < kernelSize; kw++ {
						sum += row[kw]
					}
				}
				out[oh*wOut+ow] = sum * scale
			}
		}
	})

	return output
}
