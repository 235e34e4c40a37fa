package nn

import (
	"fmt"

	"github.com/born-ml/resnet/internal/tensor"
)

// BatchNormBackend is an interface for backends that support inference-mode
// batch normalization over NCHW tensors.
type BatchNormBackend interface {
	BatchNorm2D(input, gamma, beta, mean, variance *tensor.RawTensor, eps float32) *tensor.RawTensor
}

// BatchNorm2D normalizes each channel of an NCHW tensor with its running
// statistics and applies a learned per-channel scale and shift:
//
//	y = (x - running_mean) / sqrt(running_var + eps) * gamma + beta
//
// Forward always uses the running statistics; updating them from batch
// statistics belongs to a training loop.
//
// Parameter names follow the common checkpoint layout: "weight" (gamma),
// "bias" (beta), buffers "running_mean" and "running_var".
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	Epsilon     float32

	gamma       *Parameter[B] // [C]
	beta        *Parameter[B] // [C]
	runningMean *Parameter[B] // [C], buffer
	runningVar  *Parameter[B] // [C], buffer

	backend B
}

// NewBatchNorm2D creates a batch normalization layer over numFeatures channels.
// gamma and running variance start at one, beta and running mean at zero.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid number of features %d", numFeatures))
	}
	shape := tensor.Shape{numFeatures}
	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		Epsilon:     epsilon,
		gamma:       NewParameter("weight", tensor.Ones[float32](shape, backend)),
		beta:        NewParameter("bias", tensor.Zeros[float32](shape, backend)),
		runningMean: NewParameter("running_mean", tensor.Zeros[float32](shape, backend)),
		runningVar:  NewParameter("running_var", tensor.Ones[float32](shape, backend)),
		backend:     backend,
	}
}

// Forward applies batch normalization.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if _, err := bn.OutputShape(input.Shape()); err != nil {
		panic(err.Error())
	}

	normBackend, ok := any(bn.backend).(BatchNormBackend)
	if !ok {
		panic("BatchNorm2D: backend must implement BatchNorm2D operation")
	}

	out := normBackend.BatchNorm2D(input.Raw(),
		bn.gamma.Tensor().Raw(), bn.beta.Tensor().Raw(),
		bn.runningMean.Tensor().Raw(), bn.runningVar.Tensor().Raw(),
		bn.Epsilon)
	return tensor.New[float32, B](out, bn.backend)
}

// OutputShape returns the input shape after validating it.
func (bn *BatchNorm2D[B]) OutputShape(input tensor.Shape) (tensor.Shape, error) {
	if len(input) != 4 {
		return nil, fmt.Errorf("batchnorm2d: expected 4D input [N,C,H,W], got %dD", len(input))
	}
	if input[1] != bn.numFeatures {
		return nil, fmt.Errorf("batchnorm2d: input channels %d != expected %d", input[1], bn.numFeatures)
	}
	return input.Clone(), nil
}

// Parameters returns gamma and beta.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// Buffers returns the running mean and variance.
func (bn *BatchNorm2D[B]) Buffers() []*Parameter[B] {
	return []*Parameter[B]{bn.runningMean, bn.runningVar}
}

// ResetRunningStats sets the running mean to zero and the running variance to one.
func (bn *BatchNorm2D[B]) ResetRunningStats() {
	clear(bn.runningMean.Tensor().Data())
	for i := range bn.runningVar.Tensor().Data() {
		bn.runningVar.Tensor().Data()[i] = 1
	}
}

// Kind reports KindNorm.
func (bn *BatchNorm2D[B]) Kind() Kind {
	return KindNorm
}

// Weight returns the scale (gamma) parameter.
func (bn *BatchNorm2D[B]) Weight() *Parameter[B] {
	return bn.gamma
}

// Bias returns the shift (beta) parameter.
func (bn *BatchNorm2D[B]) Bias() *Parameter[B] {
	return bn.beta
}

// NumFeatures returns the number of normalized channels.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String returns a string representation of the layer.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(%d, eps=%g)", bn.numFeatures, bn.Epsilon)
}
