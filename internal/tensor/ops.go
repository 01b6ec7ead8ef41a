package tensor

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Add returns t + other (element-wise, identical shapes).
func (t *Tensor) Add(other *Tensor) (*Tensor, error) {
	if err := CheckShape("tensor.Add", t.shape, other.shape); err != nil {
		return nil, err
	}
	out := New(t.shape)
	floats.AddTo(out.data, t.data, other.data)
	return out, nil
}

// Sub returns t - other (element-wise, identical shapes).
func (t *Tensor) Sub(other *Tensor) (*Tensor, error) {
	if err := CheckShape("tensor.Sub", t.shape, other.shape); err != nil {
		return nil, err
	}
	out := New(t.shape)
	floats.SubTo(out.data, t.data, other.data)
	return out, nil
}

// Mul returns the element-wise (Hadamard) product t * other.
func (t *Tensor) Mul(other *Tensor) (*Tensor, error) {
	if err := CheckShape("tensor.Mul", t.shape, other.shape); err != nil {
		return nil, err
	}
	out := New(t.shape)
	floats.MulTo(out.data, t.data, other.data)
	return out, nil
}

// Scale returns c * t.
func (t *Tensor) Scale(c float64) *Tensor {
	out := New(t.shape)
	floats.ScaleTo(out.data, c, t.data)
	return out
}

// AddInPlace performs t += other.
func (t *Tensor) AddInPlace(other *Tensor) error {
	if err := CheckShape("tensor.AddInPlace", t.shape, other.shape); err != nil {
		return err
	}
	floats.Add(t.data, other.data)
	return nil
}

// AddScaledInPlace performs t += alpha * other.
func (t *Tensor) AddScaledInPlace(alpha float64, other *Tensor) error {
	if err := CheckShape("tensor.AddScaledInPlace", t.shape, other.shape); err != nil {
		return err
	}
	floats.AddScaled(t.data, alpha, other.data)
	return nil
}

// Apply returns a new tensor with fn applied to every element.
func (t *Tensor) Apply(fn func(float64) float64) *Tensor {
	out := New(t.shape)
	for i, v := range t.data {
		out.data[i] = fn(v)
	}
	return out
}

// Sum returns the sum of all elements.
func (t *Tensor) Sum() float64 {
	return floats.Sum(t.data)
}

// Max returns the largest element.
func (t *Tensor) Max() float64 {
	return floats.Max(t.data)
}

// ArgMaxAxis0 returns, for every column of a rank-2 tensor, the row index of
// the largest value. A rank-1 tensor is treated as a single column.
func (t *Tensor) ArgMaxAxis0() []int {
	rows, cols := t.shape[0], 1
	if len(t.shape) == 2 {
		cols = t.shape[1]
	}
	out := make([]int, cols)
	for j := 0; j < cols; j++ {
		best := math.Inf(-1)
		for i := 0; i < rows; i++ {
			if v := t.data[i*cols+j]; v > best {
				best = v
				out[j] = i
			}
		}
	}
	return out
}

// EqualApprox reports whether t and other have the same shape and all
// elements within tol (absolute or relative).
func (t *Tensor) EqualApprox(other *Tensor, tol float64) bool {
	if !t.shape.Equal(other.shape) {
		return false
	}
	return floats.EqualApprox(t.data, other.data, tol)
}

// HasNaNOrInf reports whether any element is NaN or ±Inf.
func (t *Tensor) HasNaNOrInf() bool {
	for _, v := range t.data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return true
		}
	}
	return false
}
