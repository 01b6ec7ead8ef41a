package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return New(shape)
}

// ZerosLike creates a zero tensor with the same shape as t.
func ZerosLike(t *Tensor) *Tensor {
	return New(t.shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return Full(shape, 1)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	t := New(shape)
	for i := range t.data {
		t.data[i] = value
	}
	return t
}

// Randn creates a tensor with values drawn from the standard normal
// distribution N(0, 1).
//
// A nil src uses the global math/rand/v2 source; pass a seeded source
// (e.g. rand.NewPCG(seed, seed)) for reproducible initialization.
func Randn(shape Shape, src rand.Source) *Tensor {
	dist := distuv.Normal{Mu: 0, Sigma: 1, Src: src}
	t := New(shape)
	for i := range t.data {
		t.data[i] = dist.Rand()
	}
	return t
}

// Arange creates a rank-1 tensor [start, start+1, ..., start+n-1] reshaped to shape.
//
// Useful for deterministic fixtures.
func Arange(shape Shape, start float64) *Tensor {
	t := New(shape)
	if len(t.data) == 1 {
		t.data[0] = start
		return t
	}
	floats.Span(t.data, start, start+float64(len(t.data)-1))
	return t
}
