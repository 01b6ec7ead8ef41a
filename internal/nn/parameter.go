package nn

import (
	"github.com/born-ml/convnet/internal/tensor"
)

// Parameter represents a trainable parameter in a neural network.
//
// The value persists across calls (model state) and is updated in place by
// the optimizer. The gradient always has the same shape as the value and is
// rewritten by every Backward of the owning layer.
//
// Example:
//
//	weight := nn.NewParameter("conv.weight", tensor.Randn(shape, nil))
//	w := weight.Value()
//	g := weight.Grad() // zeros until the first backward pass
type Parameter struct {
	name  string         // Parameter name (e.g., "conv.weight", "fc.bias")
	value *tensor.Tensor // The parameter tensor
	grad  *tensor.Tensor // Gradient tensor, same shape as value
}

// NewParameter creates a new trainable parameter with a zero gradient.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return &Parameter{
		name:  name,
		value: value,
		grad:  tensor.ZerosLike(value),
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Value returns the parameter tensor.
func (p *Parameter) Value() *tensor.Tensor {
	return p.value
}

// Grad returns the gradient tensor.
func (p *Parameter) Grad() *tensor.Tensor {
	return p.grad
}

// SetGrad overwrites the gradient with the values of g.
func (p *Parameter) SetGrad(g *tensor.Tensor) error {
	return p.grad.CopyFrom(g)
}

// ZeroGrad resets the gradient to zeros in place.
func (p *Parameter) ZeroGrad() {
	p.grad.Zero()
}
