package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/convnet/internal/tensor"
)

// DefaultTanHAlpha is the LeCun output scale for TanH.
const DefaultTanHAlpha = 1.7159

// TanH is a scaled hyperbolic tangent activation.
//
// Forward:  y = alpha * tanh(x)
// Backward: dx = grad * (1 - tanh(x)²)
//
// Backward uses the derivative of the unscaled tanh; alpha only affects the
// forward output.
type TanH struct {
	alpha float64
	cache inputCache
}

// NewTanH creates a TanH activation with DefaultTanHAlpha.
func NewTanH() *TanH {
	return NewTanHWithAlpha(DefaultTanHAlpha)
}

// NewTanHWithAlpha creates a TanH activation with a custom output scale.
func NewTanHWithAlpha(alpha float64) *TanH {
	return &TanH{alpha: alpha}
}

// Alpha returns the output scale.
func (t *TanH) Alpha() float64 {
	return t.alpha
}

// Forward applies alpha * tanh(x) element-wise and caches x.
func (t *TanH) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	t.cache.store(x)
	return x.Apply(func(v float64) float64 {
		return t.alpha * math.Tanh(v)
	}), nil
}

// Backward multiplies grad by 1 - tanh(x)² of the cached input.
func (t *TanH) Backward(grad *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := t.cache.peek("tanh.backward")
	if err != nil {
		return nil, err
	}
	if err := tensor.CheckShape("tanh.backward", x.Shape(), grad.Shape()); err != nil {
		return nil, err
	}
	t.cache.invalidate()

	out := tensor.ZerosLike(grad)
	xData, gData, oData := x.Data(), grad.Data(), out.Data()
	for i, v := range xData {
		th := math.Tanh(v)
		oData[i] = gData[i] * (1 - th*th)
	}
	return out, nil
}

// String returns a string representation of the layer.
func (t *TanH) String() string {
	return fmt.Sprintf("TanH(alpha=%g)", t.alpha)
}

// Softmax normalizes scores into probabilities along axis 0 (the class axis).
//
// For a rank-2 input [classes, batch] each column is normalized
// independently; a rank-1 input is a single column. Scores are exponentiated
// as-is, without subtracting the column maximum, so very large inputs
// overflow to Inf/NaN.
type Softmax struct{}

// NewSoftmax creates a Softmax activation.
func NewSoftmax() *Softmax {
	return &Softmax{}
}

// Forward computes exp(x) / Σ exp(x) along axis 0.
func (s *Softmax) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() > 2 {
		return nil, fmt.Errorf("softmax: %w: expected rank 1 or 2, got %v", ErrShapeMismatch, x.Shape())
	}
	rows, cols := x.Dim(0), 1
	if x.Rank() == 2 {
		cols = x.Dim(1)
	}

	out := x.Apply(math.Exp)
	data := out.Data()
	for j := 0; j < cols; j++ {
		sum := 0.0
		for i := 0; i < rows; i++ {
			sum += data[i*cols+j]
		}
		for i := 0; i < rows; i++ {
			data[i*cols+j] /= sum
		}
	}
	return out, nil
}

// String returns a string representation of the layer.
func (s *Softmax) String() string {
	return "Softmax(axis=0)"
}
