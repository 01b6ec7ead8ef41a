// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides optimization algorithms for training convnet models.
//
// # Overview
//
// This package contains:
//   - AdamGD: Adam without bias correction
//   - SGD: Stochastic Gradient Descent with optional momentum
//   - Optimizer interface shared by both
//
// Optimizers track a *nn.ParamSet and receive gradients as a map keyed by
// nn.GradKey(name). Parameters are updated in place; a step with a missing
// or mis-shaped gradient fails before anything is modified.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convnet/nn"
//	    "github.com/born-ml/convnet/optim"
//	)
//
//	func main() {
//	    params := nn.NewParamSet()
//	    _ = params.Add("W1", conv.Weight().Value())
//	    _ = params.Add("b1", conv.Bias().Value())
//
//	    optimizer := optim.NewAdamGD(params, optim.DefaultAdamConfig())
//
//	    for step := range numSteps {
//	        // Forward pass, loss, backward chain...
//	        _, dW, db, _ := conv.Backward(g)
//
//	        _, err := optimizer.UpdateParams(map[string]*tensor.Tensor{
//	            "dW1": dW,
//	            "db1": db,
//	        })
//	    }
//	}
//
// # Update Rules
//
// AdamGD, per element:
//
//	v = β1·v + (1-β1)·g
//	s = β2·s + (1-β2)·g²
//	p = p - lr·v / (sqrt(s) + ε)
//
// SGD with momentum μ:
//
//	u = μ·u + g
//	p = p - lr·u
package optim
