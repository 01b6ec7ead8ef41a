// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package nn

import (
	"math/rand/v2"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

// Layer is anything with a forward pass.
type Layer = nn.Layer

// Differentiable is a parameter-free layer with a backward pass.
type Differentiable = nn.Differentiable

// Trainable is a layer with weight and bias.
type Trainable = nn.Trainable

// Parameter is a named trainable tensor with its gradient.
type Parameter = nn.Parameter

// ParamSet is an ordered name to tensor mapping of model parameters.
type ParamSet = nn.ParamSet

// ShapeError describes a shape mismatch.
type ShapeError = nn.ShapeError

// Errors returned by layers and optimizers.
var (
	ErrShapeMismatch      = nn.ErrShapeMismatch
	ErrUninitializedCache = nn.ErrUninitializedCache
	ErrDegenerateNumeric  = nn.ErrDegenerateNumeric
	ErrMissingGradient    = nn.ErrMissingGradient
)

// DefaultTanHAlpha is the LeCun scaling of the scaled hyperbolic tangent.
const DefaultTanHAlpha = nn.DefaultTanHAlpha

// NewParameter creates a parameter with a zero gradient.
func NewParameter(name string, value *tensor.Tensor) *Parameter {
	return nn.NewParameter(name, value)
}

// NewParamSet creates an empty ParamSet.
func NewParamSet() *ParamSet {
	return nn.NewParamSet()
}

// GradKey returns the gradient map key for a parameter name ("W1" -> "dW1").
func GradKey(name string) string {
	return nn.GradKey(name)
}

// CheckFinite returns an error wrapping ErrDegenerateNumeric if t holds NaN or Inf.
func CheckFinite(op string, t *tensor.Tensor) error {
	return nn.CheckFinite(op, t)
}

// Conv is a 2D convolutional layer.
type Conv = nn.Conv

// NewConv creates a convolutional layer with N(0, 1) weight and bias.
//
// Example:
//
//	conv := nn.NewConv(6, 5, 1, 1, 0, rand.NewPCG(1, 2))
func NewConv(filterCount, filterSize, inputChannels, stride, padding int, src rand.Source) *Conv {
	return nn.NewConv(filterCount, filterSize, inputChannels, stride, padding, src)
}

// AvgPool is a 2D average pooling layer.
type AvgPool = nn.AvgPool

// AvgPoolConfig configures an AvgPool layer.
type AvgPoolConfig = nn.AvgPoolConfig

// NewAvgPool creates an average pooling layer.
func NewAvgPool(filterSize, stride int) *AvgPool {
	return nn.NewAvgPool(filterSize, stride)
}

// NewAvgPoolWithConfig creates an average pooling layer from cfg.
func NewAvgPoolWithConfig(cfg AvgPoolConfig) *AvgPool {
	return nn.NewAvgPoolWithConfig(cfg)
}

// Fc is a fully connected layer on [features, batch] input.
type Fc = nn.Fc

// NewFc creates a fully connected layer mapping cols inputs to rows outputs.
func NewFc(rows, cols int, src rand.Source) *Fc {
	return nn.NewFc(rows, cols, src)
}

// TanH is the scaled hyperbolic tangent activation.
type TanH = nn.TanH

// NewTanH creates a TanH with DefaultTanHAlpha.
func NewTanH() *TanH {
	return nn.NewTanH()
}

// NewTanHWithAlpha creates a TanH with a custom output scale.
func NewTanHWithAlpha(alpha float64) *TanH {
	return nn.NewTanHWithAlpha(alpha)
}

// Softmax normalizes scores along the class axis.
type Softmax = nn.Softmax

// NewSoftmax creates a Softmax layer.
func NewSoftmax() *Softmax {
	return nn.NewSoftmax()
}

// CrossEntropyLoss computes the mean categorical cross-entropy.
type CrossEntropyLoss = nn.CrossEntropyLoss

// NewCrossEntropyLoss creates a cross-entropy loss.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return nn.NewCrossEntropyLoss()
}
