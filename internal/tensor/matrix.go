package tensor

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Dense returns a *mat.Dense view of a rank-2 tensor. The view shares storage
// with t, so writes through either are visible in both.
//
// Panics if t is not rank 2.
func (t *Tensor) Dense() *mat.Dense {
	if len(t.shape) != 2 {
		panic(fmt.Sprintf("tensor.Dense: expected rank 2, got shape %v", t.shape))
	}
	return mat.NewDense(t.shape[0], t.shape[1], t.data)
}

// FromMatrix copies m into a new rank-2 tensor.
func FromMatrix(m mat.Matrix) *Tensor {
	r, c := m.Dims()
	out := New(Shape{r, c})
	out.Dense().Copy(m)
	return out
}

// Transpose returns a new rank-2 tensor holding tᵀ.
func (t *Tensor) Transpose() *Tensor {
	return FromMatrix(t.Dense().T())
}

// MatMul returns the matrix product t · other for rank-2 tensors.
func (t *Tensor) MatMul(other *Tensor) (*Tensor, error) {
	if len(t.shape) != 2 || len(other.shape) != 2 {
		return nil, fmt.Errorf("tensor.MatMul: %w: need rank-2 operands, got %v and %v",
			ErrShapeMismatch, t.shape, other.shape)
	}
	if t.shape[1] != other.shape[0] {
		return nil, fmt.Errorf("tensor.MatMul: %w: inner dimensions %v x %v",
			ErrShapeMismatch, t.shape, other.shape)
	}
	out := New(Shape{t.shape[0], other.shape[1]})
	out.Dense().Mul(t.Dense(), other.Dense())
	return out, nil
}
