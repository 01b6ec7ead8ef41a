package optim

import (
	"fmt"
	"math"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/tensor"
)

// AdamGD implements Adam-style gradient descent without bias correction.
//
// Update rule, per element:
//
//	v = beta1 * v + (1-beta1) * gradient       // First moment
//	s = beta2 * s + (1-beta2) * gradient²      // Second moment
//	param = param - lr * v / (sqrt(s) + eps)
//
// The moments are raw exponential moving averages: there is no
// 1/(1-beta^t) correction, so early steps are smaller than canonical Adam.
//
// Moment state is created at construction for every parameter of the set
// (zeros, same shape) and lives as long as the optimizer.
//
// Example:
//
//	opt := optim.NewAdamGD(model.Params(), optim.AdamConfig{
//	    LR:      0.001,
//	    Beta1:   0.9,
//	    Beta2:   0.999,
//	    Epsilon: 1e-8,
//	})
type AdamGD struct {
	params *nn.ParamSet
	lr     float64
	beta1  float64
	beta2  float64
	eps    float64
	v      []*tensor.Tensor // First moment estimates, in params order
	s      []*tensor.Tensor // Second moment estimates, in params order
	steps  int
}

// AdamConfig holds configuration for the AdamGD optimizer.
//
// Values are used as given; start from DefaultAdamConfig to get the usual
// defaults.
type AdamConfig struct {
	LR      float64 // Learning rate (> 0)
	Beta1   float64 // First moment decay, in [0, 1)
	Beta2   float64 // Second moment decay, in [0, 1)
	Epsilon float64 // Denominator term (>= 0)
}

// DefaultAdamConfig returns LR 0.001, betas (0.9, 0.999), epsilon 1e-8.
func DefaultAdamConfig() AdamConfig {
	return AdamConfig{
		LR:      0.001,
		Beta1:   0.9,
		Beta2:   0.999,
		Epsilon: 1e-8,
	}
}

// Validate checks the hyperparameter ranges.
func (c AdamConfig) Validate() error {
	switch {
	case c.LR <= 0:
		return fmt.Errorf("adam: invalid learning rate %g", c.LR)
	case c.Beta1 < 0 || c.Beta1 >= 1:
		return fmt.Errorf("adam: invalid beta1 %g", c.Beta1)
	case c.Beta2 < 0 || c.Beta2 >= 1:
		return fmt.Errorf("adam: invalid beta2 %g", c.Beta2)
	case c.Epsilon < 0:
		return fmt.Errorf("adam: invalid epsilon %g", c.Epsilon)
	}
	return nil
}

// NewAdamGD creates an AdamGD optimizer tracking every parameter in params.
//
// Panics if config is invalid.
func NewAdamGD(params *nn.ParamSet, config AdamConfig) *AdamGD {
	if err := config.Validate(); err != nil {
		panic(err)
	}

	names := params.Names()
	a := &AdamGD{
		params: params,
		lr:     config.LR,
		beta1:  config.Beta1,
		beta2:  config.Beta2,
		eps:    config.Epsilon,
		v:      make([]*tensor.Tensor, len(names)),
		s:      make([]*tensor.Tensor, len(names)),
	}
	for i, name := range names {
		value, _ := params.Get(name)
		a.v[i] = tensor.ZerosLike(value)
		a.s[i] = tensor.ZerosLike(value)
	}
	return a
}

// UpdateParams performs one AdamGD step over all tracked parameters, in
// ParamSet order.
//
// Every gradient is checked (present, same shape as its parameter) before
// the first parameter is touched.
func (a *AdamGD) UpdateParams(grads map[string]*tensor.Tensor) (*nn.ParamSet, error) {
	gs, err := lookupGrads(a.params, grads)
	if err != nil {
		return nil, err
	}

	for i, name := range a.params.Names() {
		value, _ := a.params.Get(name)
		a.updateParameter(value.Data(), gs[i].Data(), a.v[i].Data(), a.s[i].Data())
	}
	a.steps++

	return a.params, nil
}

// updateParameter performs the AdamGD update for a single parameter.
func (a *AdamGD) updateParameter(param, grad, v, s []float64) {
	for i := range param {
		g := grad[i]

		v[i] = a.beta1*v[i] + (1-a.beta1)*g
		s[i] = a.beta2*s[i] + (1-a.beta2)*g*g

		param[i] -= a.lr * v[i] / (math.Sqrt(s[i]) + a.eps)
	}
}

// FirstMoment returns the first moment estimate of the named parameter.
func (a *AdamGD) FirstMoment(name string) (*tensor.Tensor, bool) {
	return a.moment(a.v, name)
}

// SecondMoment returns the second moment estimate of the named parameter.
func (a *AdamGD) SecondMoment(name string) (*tensor.Tensor, bool) {
	return a.moment(a.s, name)
}

func (a *AdamGD) moment(state []*tensor.Tensor, name string) (*tensor.Tensor, bool) {
	for i, n := range a.params.Names() {
		if n == name {
			return state[i], true
		}
	}
	return nil, false
}

// LR returns the current learning rate.
func (a *AdamGD) LR() float64 {
	return a.lr
}

// SetLR updates the learning rate.
//
// Useful for learning rate scheduling during training.
func (a *AdamGD) SetLR(lr float64) {
	a.lr = lr
}

// Steps returns the number of completed updates.
func (a *AdamGD) Steps() int {
	return a.steps
}
