package optim

import (
	"fmt"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
type SGD struct {
	params     *nn.ParamSet
	lr         float64
	momentum   float64
	velocities []*tensor.Tensor // nil when momentum is 0
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer tracking every parameter in params.
//
// A zero LR defaults to 0.01. Panics on a negative LR or a momentum outside [0, 1).
func NewSGD(params *nn.ParamSet, config SGDConfig) *SGD {
	if config.LR == 0 {
		config.LR = 0.01
	}
	if config.LR < 0 {
		panic(fmt.Sprintf("sgd: invalid learning rate %g", config.LR))
	}
	if config.Momentum < 0 || config.Momentum >= 1 {
		panic(fmt.Sprintf("sgd: invalid momentum %g", config.Momentum))
	}

	s := &SGD{
		params:   params,
		lr:       config.LR,
		momentum: config.Momentum,
	}
	if s.momentum != 0 {
		for _, name := range params.Names() {
			value, _ := params.Get(name)
			s.velocities = append(s.velocities, tensor.ZerosLike(value))
		}
	}
	return s
}

// UpdateParams performs a single optimization step.
func (s *SGD) UpdateParams(grads map[string]*tensor.Tensor) (*nn.ParamSet, error) {
	gs, err := lookupGrads(s.params, grads)
	if err != nil {
		return nil, err
	}

	for i, name := range s.params.Names() {
		value, _ := s.params.Get(name)
		if s.momentum == 0 {
			if err := value.AddScaledInPlace(-s.lr, gs[i]); err != nil {
				return nil, err
			}
			continue
		}

		velocity := s.velocities[i]
		vData, gData := velocity.Data(), gs[i].Data()
		for j := range vData {
			vData[j] = s.momentum*vData[j] + gData[j]
		}
		if err := value.AddScaledInPlace(-s.lr, velocity); err != nil {
			return nil, err
		}
	}
	return s.params, nil
}

// LR returns the current learning rate.
func (s *SGD) LR() float64 {
	return s.lr
}

// SetLR updates the learning rate.
func (s *SGD) SetLR(lr float64) {
	s.lr = lr
}
