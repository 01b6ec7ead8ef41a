// Package nn implements the layer primitives of the convnet toolkit.
//
// Every layer is written out by hand, without automatic differentiation:
//   - Forward computes the output and caches the input needed for gradients
//   - Backward consumes the upstream gradient and returns the downstream
//     gradient (plus parameter gradients for trainable layers)
//
// Layers:
//   - Conv: 2D convolution with square filters
//   - AvgPool: 2D average pooling
//   - Fc: fully connected layer on feature-major [features, batch] input
//   - TanH, Softmax: activations
//   - CrossEntropyLoss: combined softmax/cross-entropy loss and gradient
package nn

import (
	"github.com/born-ml/convnet/internal/tensor"
)

// Layer is anything with a forward pass.
type Layer interface {
	// Forward computes the layer output for input.
	Forward(input *tensor.Tensor) (*tensor.Tensor, error)
}

// Differentiable is a layer without trainable parameters whose backward
// pass only returns the gradient with respect to its input (TanH, AvgPool).
type Differentiable interface {
	Layer

	// Backward maps the gradient of the layer output to the gradient of the
	// layer input. It consumes the state cached by the last Forward.
	Backward(grad *tensor.Tensor) (*tensor.Tensor, error)
}

// Trainable is a layer with a weight and a bias (Conv, Fc).
type Trainable interface {
	Layer

	// Backward returns the input gradient and the weight and bias gradients.
	// It consumes the state cached by the last Forward.
	Backward(dout *tensor.Tensor) (dx, dW, db *tensor.Tensor, err error)

	// Parameters returns [weight, bias].
	Parameters() []*Parameter
}

var (
	_ Trainable      = (*Conv)(nil)
	_ Trainable      = (*Fc)(nil)
	_ Differentiable = (*AvgPool)(nil)
	_ Differentiable = (*TanH)(nil)
	_ Layer          = (*Softmax)(nil)
)
