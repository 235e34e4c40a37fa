package cpu

import (
	"fmt"

	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas32"

	"github.com/born-ml/resnet/internal/tensor"
)

// MatMul performs matrix multiplication: (M, K) @ (K, N) -> (M, N).
// The product runs on gonum's SGEMM.
func (cpu *CPUBackend) MatMul(a, b *tensor.RawTensor) *tensor.RawTensor {
	requireFloat32("matmul", a, b)

	aShape, bShape := a.Shape(), b.Shape()
	if len(aShape) != 2 || len(bShape) != 2 {
		panic(fmt.Sprintf("matmul: only 2D tensors supported, got %dD and %dD", len(aShape), len(bShape)))
	}

	m, k := aShape[0], aShape[1]
	kAlt, n := bShape[0], bShape[1]
	if k != kAlt {
		panic(fmt.Sprintf("matmul: shape mismatch [%d,%d] @ [%d,%d]", m, k, kAlt, n))
	}

	result := cpu.newFloat32("matmul", tensor.Shape{m, n})
	gemm(matrix(a.AsFloat32(), m, k), matrix(b.AsFloat32(), k, n), matrix(result.AsFloat32(), m, n))
	return result
}

// matrix views a row-major slice as a dense blas32 matrix.
func matrix(data []float32, rows, cols int) blas32.General {
	return blas32.General{
		Rows:   rows,
		Cols:   cols,
		Stride: cols,
		Data:   data[:rows*cols],
	}
}

// gemm computes c = a @ b, overwriting c.
func gemm(a, b, c blas32.General) {
	blas32.Gemm(blas.NoTrans, blas.NoTrans, 1, a, b, 0, c)
}
