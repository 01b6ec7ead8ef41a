// Package lenet wires the nn layers into the LeNet-5 reference network.
//
// Architecture:
//
//	Input: [batch, 1, 32, 32] (MNIST digits padded to 32x32)
//	Conv1: 1 → 6 channels, 5x5 kernel -> [batch, 6, 28, 28]
//	TanH
//	AvgPool: 2x2, stride 2 -> [batch, 6, 14, 14]
//	Conv2: 6 → 16 channels, 5x5 kernel -> [batch, 16, 10, 10]
//	TanH
//	AvgPool: 2x2, stride 2 -> [batch, 16, 5, 5]
//	Flatten -> [400, batch]
//	Fc1: 400 → 120, TanH
//	Fc2: 120 → 84, TanH
//	Fc3: 84 → 10
//	Softmax -> [10, batch] class probabilities
//
// The five trainable layers expose their parameters as W1..W5 and b1..b5.
package lenet

import (
	"fmt"
	"math/rand/v2"

	"github.com/born-ml/convnet/internal/nn"
	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

// Input geometry and class count of the reference network.
const (
	InputSize  = 32
	NumClasses = 10

	flatFeatures = 16 * 5 * 5
)

// Config controls model construction.
type Config struct {
	// Seed for N(0, 1) parameter initialization. Zero uses the global source.
	Seed uint64

	// ClassicPooling selects the textbook average-pool gradient
	// (see nn.AvgPoolConfig.ClassicGradient).
	ClassicPooling bool

	// Parallel controls loop parallelism in the conv and pooling layers.
	Parallel parallel.Config
}

// DefaultConfig returns a Config with default parallelism and random seeding.
func DefaultConfig() Config {
	return Config{Parallel: parallel.DefaultConfig()}
}

// Model is the LeNet-5 network with one field per layer.
type Model struct {
	conv1 *nn.Conv    // First convolutional layer (W1, b1)
	tanh1 *nn.TanH    // Activation after conv1
	pool1 *nn.AvgPool // Pooling after conv1
	conv2 *nn.Conv    // Second convolutional layer (W2, b2)
	tanh2 *nn.TanH    // Activation after conv2
	pool2 *nn.AvgPool // Pooling after conv2
	fc1   *nn.Fc      // First fully connected layer (W3, b3)
	tanh3 *nn.TanH    // Activation after fc1
	fc2   *nn.Fc      // Second fully connected layer (W4, b4)
	tanh4 *nn.TanH    // Activation after fc2
	fc3   *nn.Fc      // Output layer (W5, b5)
	soft  *nn.Softmax

	params *nn.ParamSet
}

// New creates a LeNet-5 model.
func New(cfg Config) *Model {
	var src rand.Source
	if cfg.Seed != 0 {
		src = rand.NewPCG(cfg.Seed, cfg.Seed)
	}
	pool := nn.AvgPoolConfig{FilterSize: 2, Stride: 2, ClassicGradient: cfg.ClassicPooling}

	m := &Model{
		conv1: nn.NewConv(6, 5, 1, 1, 0, src),
		tanh1: nn.NewTanH(),
		pool1: nn.NewAvgPoolWithConfig(pool),
		conv2: nn.NewConv(16, 5, 6, 1, 0, src),
		tanh2: nn.NewTanH(),
		pool2: nn.NewAvgPoolWithConfig(pool),
		fc1:   nn.NewFc(120, flatFeatures, src),
		tanh3: nn.NewTanH(),
		fc2:   nn.NewFc(84, 120, src),
		tanh4: nn.NewTanH(),
		fc3:   nn.NewFc(NumClasses, 84, src),
		soft:  nn.NewSoftmax(),
	}
	m.conv1.SetParallel(cfg.Parallel)
	m.pool1.SetParallel(cfg.Parallel)
	m.conv2.SetParallel(cfg.Parallel)
	m.pool2.SetParallel(cfg.Parallel)

	m.params = nn.NewParamSet()
	for i, layer := range m.trainable() {
		wb := layer.Parameters()
		if err := m.params.Add(fmt.Sprintf("W%d", i+1), wb[0].Value()); err != nil {
			panic(err)
		}
		if err := m.params.Add(fmt.Sprintf("b%d", i+1), wb[1].Value()); err != nil {
			panic(err)
		}
	}
	return m
}

// trainable returns the parametric layers in W1..W5 order.
func (m *Model) trainable() []nn.Trainable {
	return []nn.Trainable{m.conv1, m.conv2, m.fc1, m.fc2, m.fc3}
}

// Params returns the shared collection W1..W5, b1..b5.
//
// The tensors are the layers' own parameter values, so an optimizer
// updating them in place updates the model.
func (m *Model) Params() *nn.ParamSet {
	return m.params
}

// Forward maps a batch [batch, 1, 32, 32] to class probabilities [10, batch].
func (m *Model) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	want := tensor.Shape{x.Dim(0), 1, InputSize, InputSize}
	if err := tensor.CheckShape("lenet.forward", want, x.Shape()); err != nil {
		return nil, err
	}

	h := x
	var err error
	for _, layer := range []nn.Layer{m.conv1, m.tanh1, m.pool1, m.conv2, m.tanh2, m.pool2} {
		if h, err = layer.Forward(h); err != nil {
			return nil, fmt.Errorf("lenet.forward: %w", err)
		}
	}

	if h, err = flatten(h); err != nil {
		return nil, fmt.Errorf("lenet.forward: %w", err)
	}

	for _, layer := range []nn.Layer{m.fc1, m.tanh3, m.fc2, m.tanh4, m.fc3, m.soft} {
		if h, err = layer.Forward(h); err != nil {
			return nil, fmt.Errorf("lenet.forward: %w", err)
		}
	}
	return h, nil
}

// Backward propagates deltaL (from nn.CrossEntropyLoss.Get) through the
// network and returns the gradient mapping dW1..dW5, db1..db5.
func (m *Model) Backward(deltaL *tensor.Tensor) (map[string]*tensor.Tensor, error) {
	grads := make(map[string]*tensor.Tensor, m.params.Len())
	record := func(i int, dW, db *tensor.Tensor) {
		grads[nn.GradKey(fmt.Sprintf("W%d", i))] = dW
		grads[nn.GradKey(fmt.Sprintf("b%d", i))] = db
	}

	delta, dW, db, err := m.fc3.Backward(deltaL)
	if err != nil {
		return nil, fmt.Errorf("lenet.backward: %w", err)
	}
	record(5, dW, db)

	for _, step := range []struct {
		act   *nn.TanH
		layer *nn.Fc
		index int
	}{
		{m.tanh4, m.fc2, 4},
		{m.tanh3, m.fc1, 3},
	} {
		if delta, err = step.act.Backward(delta); err != nil {
			return nil, fmt.Errorf("lenet.backward: %w", err)
		}
		if delta, dW, db, err = step.layer.Backward(delta); err != nil {
			return nil, fmt.Errorf("lenet.backward: %w", err)
		}
		record(step.index, dW, db)
	}

	if delta, err = unflatten(delta); err != nil {
		return nil, fmt.Errorf("lenet.backward: %w", err)
	}

	for _, step := range []struct {
		pool  *nn.AvgPool
		act   *nn.TanH
		layer *nn.Conv
		index int
	}{
		{m.pool2, m.tanh2, m.conv2, 2},
		{m.pool1, m.tanh1, m.conv1, 1},
	} {
		if delta, err = step.pool.Backward(delta); err != nil {
			return nil, fmt.Errorf("lenet.backward: %w", err)
		}
		if delta, err = step.act.Backward(delta); err != nil {
			return nil, fmt.Errorf("lenet.backward: %w", err)
		}
		if delta, dW, db, err = step.layer.Backward(delta); err != nil {
			return nil, fmt.Errorf("lenet.backward: %w", err)
		}
		record(step.index, dW, db)
	}

	return grads, nil
}

// Predict returns the most probable class of every sample in x.
func (m *Model) Predict(x *tensor.Tensor) ([]int, error) {
	probs, err := m.Forward(x)
	if err != nil {
		return nil, err
	}
	return probs.ArgMaxAxis0(), nil
}

// String returns a summary of the architecture.
func (m *Model) String() string {
	return fmt.Sprintf("LeNet5(\n  %v, %v, %v,\n  %v, %v, %v,\n  %v, %v, %v, %v, %v, %v\n) params=%d",
		m.conv1, m.tanh1, m.pool1,
		m.conv2, m.tanh2, m.pool2,
		m.fc1, m.tanh3, m.fc2, m.tanh4, m.fc3, m.soft,
		m.params.NumElements())
}

// flatten maps [batch, 16, 5, 5] to the feature-major [400, batch] layout Fc expects.
func flatten(x *tensor.Tensor) (*tensor.Tensor, error) {
	rows, err := x.Reshape(x.Dim(0), x.Len()/x.Dim(0))
	if err != nil {
		return nil, err
	}
	return rows.Transpose(), nil
}

// unflatten reverses flatten.
func unflatten(delta *tensor.Tensor) (*tensor.Tensor, error) {
	return delta.Transpose().Reshape(delta.Dim(1), 16, 5, 5)
}
