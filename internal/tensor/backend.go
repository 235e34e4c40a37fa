package tensor

// Backend defines the operations a compute backend must provide to run a
// convolutional classifier. Backends never mutate their inputs.
//
// Optional operations (activations, normalization, average pooling) are
// exposed through capability interfaces in the nn package so that a backend
// only needs to implement what the modules it runs actually use.
type Backend interface {
	// Add performs element-wise addition with NumPy-style broadcasting.
	Add(a, b *RawTensor) *RawTensor

	// MatMul multiplies 2D tensors: [M, K] @ [K, N] -> [M, N].
	MatMul(a, b *RawTensor) *RawTensor

	// Conv2D convolves [N, C_in, H, W] with a [C_out, C_in, K_h, K_w] kernel.
	Conv2D(input, kernel *RawTensor, stride, padding int) *RawTensor

	// MaxPool2D takes the maximum over square windows. Padded positions
	// never win the maximum.
	MaxPool2D(input *RawTensor, kernelSize, stride, padding int) *RawTensor

	// Reshape returns a tensor with the same data and a new shape.
	Reshape(t *RawTensor, newShape Shape) *RawTensor

	// Transpose permutes dimensions; no axes reverses them.
	Transpose(t *RawTensor, axes ...int) *RawTensor

	// Name returns the backend name.
	Name() string

	// Device returns the compute device.
	Device() Device
}
