package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/tensor"
)

// GradKey returns the gradient-mapping key for a parameter name ("W1" -> "dW1").
func GradKey(name string) string {
	return "d" + name
}

// ParamSet is an ordered collection of named parameter values shared between
// a model, its training driver and an optimizer.
//
// The tensors are stored by pointer: an optimizer updating a value in place
// updates the layer that owns it.
type ParamSet struct {
	names  []string
	values map[string]*tensor.Tensor
}

// NewParamSet creates an empty ParamSet.
func NewParamSet() *ParamSet {
	return &ParamSet{values: make(map[string]*tensor.Tensor)}
}

// Add registers value under name. Names must be unique.
func (s *ParamSet) Add(name string, value *tensor.Tensor) error {
	if name == "" {
		return fmt.Errorf("paramset: empty parameter name")
	}
	if _, ok := s.values[name]; ok {
		return fmt.Errorf("paramset: duplicate parameter %q", name)
	}
	s.names = append(s.names, name)
	s.values[name] = value
	return nil
}

// Get returns the value registered under name.
func (s *ParamSet) Get(name string) (*tensor.Tensor, bool) {
	v, ok := s.values[name]
	return v, ok
}

// Names returns the parameter names in registration order.
func (s *ParamSet) Names() []string {
	names := make([]string, len(s.names))
	copy(names, s.names)
	return names
}

// Len returns the number of parameters.
func (s *ParamSet) Len() int {
	return len(s.names)
}

// NumElements returns the total number of scalar parameters.
func (s *ParamSet) NumElements() int {
	n := 0
	for _, name := range s.names {
		n += s.values[name].Len()
	}
	return n
}
