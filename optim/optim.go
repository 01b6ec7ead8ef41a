// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package optim

import (
	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/optim"
)

// Optimizer interface defines the common interface for all optimizers.
type Optimizer = optim.Optimizer

// Adam without bias correction

// AdamGD represents the Adam optimizer without bias correction.
type AdamGD = optim.AdamGD

// AdamConfig contains configuration for AdamGD.
type AdamConfig = optim.AdamConfig

// DefaultAdamConfig returns lr 0.001, betas (0.9, 0.999), epsilon 1e-8.
func DefaultAdamConfig() AdamConfig {
	return optim.DefaultAdamConfig()
}

// NewAdamGD creates an AdamGD optimizer with zero moments for every parameter.
//
// Example:
//
//	optimizer := optim.NewAdamGD(model.Params(), optim.AdamConfig{
//	    LR:      0.001,
//	    Beta1:   0.9,
//	    Beta2:   0.999,
//	    Epsilon: 1e-8,
//	})
func NewAdamGD(params *nn.ParamSet, config AdamConfig) *AdamGD {
	return optim.NewAdamGD(params, config)
}

// SGD (Stochastic Gradient Descent)

// SGD represents the SGD optimizer with optional momentum.
type SGD = optim.SGD

// SGDConfig contains configuration for SGD optimizer.
type SGDConfig = optim.SGDConfig

// NewSGD creates a new SGD optimizer.
func NewSGD(params *nn.ParamSet, config SGDConfig) *SGD {
	return optim.NewSGD(params, config)
}
