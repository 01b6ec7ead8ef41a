// Package optim implements the optimizers that update convnet parameters.
//
// This package provides:
//   - Optimizer interface: update a shared nn.ParamSet from a gradient mapping
//   - AdamGD: Adam-style adaptive moments without bias correction
//   - SGD: Stochastic Gradient Descent with optional momentum
//
// Example usage:
//
//	params := model.Params() // W1..W5, b1..b5
//	opt := optim.NewAdamGD(params, optim.DefaultAdamConfig())
//
//	for step := range steps {
//	    probs, _ := model.Forward(x)
//	    loss, deltaL, _ := criterion.Get(probs, y)
//	    grads, _ := model.Backward(deltaL) // dW1..dW5, db1..db5
//
//	    // All backward calls must finish before the update.
//	    if _, err := opt.UpdateParams(grads); err != nil {
//	        return err
//	    }
//	}
package optim

import (
	"fmt"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

// Optimizer is the base interface for all optimization algorithms.
type Optimizer interface {
	// UpdateParams applies one update step to every tracked parameter.
	//
	// grads maps nn.GradKey(name) ("dW1") to the gradient of parameter name.
	// Parameters are updated in place; the returned ParamSet is the one the
	// optimizer was built with.
	UpdateParams(grads map[string]*tensor.Tensor) (*nn.ParamSet, error)

	// LR returns the current learning rate.
	LR() float64
}

// lookupGrads resolves the gradient of every parameter in params before any
// update happens, so a bad mapping leaves all parameters untouched.
func lookupGrads(params *nn.ParamSet, grads map[string]*tensor.Tensor) ([]*tensor.Tensor, error) {
	names := params.Names()
	out := make([]*tensor.Tensor, len(names))
	for i, name := range names {
		key := nn.GradKey(name)
		g, ok := grads[key]
		if !ok || g == nil {
			return nil, fmt.Errorf("optim: %w: %q for parameter %q", nn.ErrMissingGradient, key, name)
		}
		value, _ := params.Get(name)
		if err := tensor.CheckShape("optim."+key, value.Shape(), g.Shape()); err != nil {
			return nil, err
		}
		out[i] = g
	}
	return out, nil
}

var (
	_ Optimizer = (*AdamGD)(nil)
	_ Optimizer = (*SGD)(nil)
)
