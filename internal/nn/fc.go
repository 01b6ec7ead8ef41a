package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convnet/internal/tensor"
)

// Fc implements a fully connected layer on feature-major input.
//
// Performs the transformation: y = W · x + b
// where:
//   - x is the input with shape [in_features, batch] (one column per sample)
//   - W is the weight matrix with shape [out_features, in_features]
//   - b is the bias column with shape [out_features, 1], broadcast over columns
//   - y is the output with shape [out_features, batch]
//
// Example:
//
//	fc := nn.NewFc(120, 400, nil)
//	y, err := fc.Forward(x) // x: [400, 32] -> y: [120, 32]
type Fc struct {
	rows int // out_features
	cols int // in_features

	weight *Parameter // [rows, cols]
	bias   *Parameter // [rows, 1]

	cache inputCache
}

// NewFc creates a fully connected layer mapping cols inputs to rows outputs.
//
// Weight and bias are drawn from N(0, 1) using src (nil uses the global source).
func NewFc(rows, cols int, src rand.Source) *Fc {
	if rows <= 0 || cols <= 0 {
		panic(fmt.Sprintf("fc: invalid shape rows=%d, cols=%d", rows, cols))
	}
	return &Fc{
		rows:   rows,
		cols:   cols,
		weight: NewParameter("fc.weight", tensor.Randn(tensor.Shape{rows, cols}, src)),
		bias:   NewParameter("fc.bias", tensor.Randn(tensor.Shape{rows, 1}, src)),
	}
}

// Forward computes W · x + b and caches x.
func (l *Fc) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	if x.Rank() != 2 || x.Dim(0) != l.cols {
		return nil, fmt.Errorf("fc.forward: %w: expected input [%d, batch], got %v",
			ErrShapeMismatch, l.cols, x.Shape())
	}

	out := tensor.New(tensor.Shape{l.rows, x.Dim(1)})
	y := out.Dense()
	y.Mul(l.weight.Value().Dense(), x.Dense())

	b := l.bias.Value().Data()
	y.Apply(func(i, _ int, v float64) float64 {
		return v + b[i]
	}, y)

	l.cache.store(x)
	return out, nil
}

// Backward computes the gradients for the input of the last Forward.
//
// With m the size of the first axis of the cached input:
//
//	dW = (1/m) · deltaL · xᵀ
//	db = (1/m) · Σ_batch deltaL
//	dx = Wᵀ · deltaL
//
// dx is not multiplied by any activation derivative; the activation layer
// that follows in the backward chain does that.
func (l *Fc) Backward(deltaL *tensor.Tensor) (dx, dW, db *tensor.Tensor, err error) {
	x, err := l.cache.peek("fc.backward")
	if err != nil {
		return nil, nil, nil, err
	}
	want := tensor.Shape{l.rows, x.Dim(1)}
	if err := tensor.CheckShape("fc.backward", want, deltaL.Shape()); err != nil {
		return nil, nil, nil, err
	}
	l.cache.invalidate()

	scale := 1 / float64(x.Dim(0))
	delta := deltaL.Dense()

	gw := l.weight.Grad().Dense()
	gw.Mul(delta, x.Dense().T())
	gw.Scale(scale, gw)

	gb := l.bias.Grad().Data()
	for r := 0; r < l.rows; r++ {
		gb[r] = scale * mat.Sum(delta.RowView(r))
	}

	dxT := tensor.New(tensor.Shape{l.cols, x.Dim(1)})
	dxT.Dense().Mul(l.weight.Value().Dense().T(), delta)

	return dxT, l.weight.Grad().Clone(), l.bias.Grad().Clone(), nil
}

// Parameters returns [weight, bias].
func (l *Fc) Parameters() []*Parameter {
	return []*Parameter{l.weight, l.bias}
}

// Weight returns the weight parameter.
func (l *Fc) Weight() *Parameter {
	return l.weight
}

// Bias returns the bias parameter.
func (l *Fc) Bias() *Parameter {
	return l.bias
}

// Rows returns the number of output features.
func (l *Fc) Rows() int {
	return l.rows
}

// Cols returns the number of input features.
func (l *Fc) Cols() int {
	return l.cols
}

// String returns a string representation of the layer.
func (l *Fc) String() string {
	return fmt.Sprintf("Fc(rows=%d, cols=%d)", l.rows, l.cols)
}
