// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package tensor

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/mat"

	"github.com/born-ml/convnet/internal/tensor"
)

// Tensor is a dense n-dimensional array of float64 values.
type Tensor = tensor.Tensor

// Shape represents the dimensions of a tensor.
type Shape = tensor.Shape

// ShapeError describes a shape mismatch.
type ShapeError = tensor.ShapeError

// ErrShapeMismatch is wrapped by every shape-related error.
var ErrShapeMismatch = tensor.ErrShapeMismatch

// New creates a zero-filled tensor.
func New(shape Shape) *Tensor {
	return tensor.New(shape)
}

// FromSlice creates a tensor that takes ownership of data.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	return tensor.FromSlice(data, shape)
}

// Zeros creates a tensor filled with zeros.
func Zeros(shape Shape) *Tensor {
	return tensor.Zeros(shape)
}

// Ones creates a tensor filled with ones.
func Ones(shape Shape) *Tensor {
	return tensor.Ones(shape)
}

// Full creates a tensor filled with value.
func Full(shape Shape, value float64) *Tensor {
	return tensor.Full(shape, value)
}

// Randn creates a tensor with N(0, 1) values drawn from src (nil: global source).
func Randn(shape Shape, src rand.Source) *Tensor {
	return tensor.Randn(shape, src)
}

// FromMatrix copies a gonum matrix into a new rank-2 tensor.
func FromMatrix(m mat.Matrix) *Tensor {
	return tensor.FromMatrix(m)
}

// ConvOutputSize returns floor((n + 2*padding - window) / stride) + 1.
func ConvOutputSize(n, window, stride, padding int) int {
	return tensor.ConvOutputSize(n, window, stride, padding)
}
