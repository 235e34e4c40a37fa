package cpu

import (
	"fmt"

	"github.com/born-ml/resnet/internal/parallel"
	"github.com/born-ml/resnet/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [N, C_in, H, W]
// Kernel shape: [C_out, C_in, K_h, K_w]
// Output shape: [N, C_out, H_out, W_out]
//
//	H_out = (H + 2*padding - K_h) / stride + 1
//	W_out = (W + 2*padding - K_w) / stride + 1
//
// For every batch element the input patches are unrolled into a
// [C_in*K_h*K_w, H_out*W_out] column matrix and multiplied by the kernel
// viewed as [C_out, C_in*K_h*K_w]. The product lands directly in the NCHW
// output plane. 1×1 stride-1 unpadded convolutions skip the unrolling.
//
// Reference: "High Performance Convolutional Neural Networks for Document Processing"
// (Chellapilla et al., 2006).
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	requireFloat32("conv2d", input, kernel)

	inputShape, kernelShape := input.Shape(), kernel.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}
	if stride <= 0 || padding < 0 {
		panic(fmt.Sprintf("conv2d: invalid stride %d or padding %d", stride, padding))
	}

	g := convGeometry{
		N: inputShape[0], CIn: inputShape[1], H: inputShape[2], W: inputShape[3],
		COut: kernelShape[0], KH: kernelShape[2], KW: kernelShape[3],
		Stride: stride, Padding: padding,
	}
	if kernelShape[1] != g.CIn {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", g.CIn, kernelShape[1]))
	}

	g.HOut = (g.H+2*padding-g.KH)/stride + 1
	g.WOut = (g.W+2*padding-g.KW)/stride + 1
	if g.HOut <= 0 || g.WOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", g.HOut, g.WOut))
	}

	output := cpu.newFloat32("conv2d", tensor.Shape{g.N, g.COut, g.HOut, g.WOut})
	conv2dFloat32(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(), g, cpu.cfg.Parallel)
	return output
}

// convGeometry bundles the dimensions of one convolution.
type convGeometry struct {
	N, CIn, H, W    int
	COut, KH, KW    int
	HOut, WOut      int
	Stride, Padding int
}

// pointwise reports whether the convolution reads the input unchanged.
func (g convGeometry) pointwise() bool {
	return g.KH == 1 && g.KW == 1 && g.Stride == 1 && g.Padding == 0
}

func conv2dFloat32(out, in, kernel []float32, g convGeometry, cfg parallel.Config) {
	k := g.CIn * g.KH * g.KW
	p := g.HOut * g.WOut
	inPlane := g.CIn * g.H * g.W
	outPlane := g.COut * p

	weights := matrix(kernel, g.COut, k)

	var col []float32
	if !g.pointwise() {
		col = make([]float32, k*p)
	}

	for n := 0; n < g.N; n++ {
		src := in[n*inPlane : (n+1)*inPlane]
		patches := src
		if col != nil {
			im2col(col, src, g, cfg)
			patches = col
		}
		gemm(weights, matrix(patches, k, p), matrix(out[n*outPlane:(n+1)*outPlane], g.COut, p))
	}
}

// im2col unrolls one [C_in, H, W] image into a [C_in*K_h*K_w, H_out*W_out]
// column matrix. Positions that fall into the zero padding are written as 0.
func im2col(col, src []float32, g convGeometry, cfg parallel.Config) {
	p := g.HOut * g.WOut

	parallel.For(cfg, g.CIn, func(c int) {
		plane := src[c*g.H*g.W : (c+1)*g.H*g.W]
		for kh := 0; kh < g.KH; kh++ {
			for kw := 0; kw < g.KW; kw++ {
				row := col[((c*g.KH+kh)*g.KW+kw)*p:]
				for oh := 0; oh < g.HOut; oh++ {
					ih := oh*g.Stride - g.Padding + kh
					dst := row[oh*g.WOut : (oh+1)*g.WOut]
					if ih < 0 || ih >= g.H {
						clear(dst)
						continue
					}
					for ow := range dst {
						iw := ow*g.Stride - g.Padding + kw
						if iw < 0 || iw >= g.W {
							dst[ow] = 0
							continue
						}
						dst[ow] = plane[ih*g.W+iw]
					}
				}
			}
		}
	})
}
