// Package tensor implements the dense float64 arrays the convnet layers
// compute on.
//
// A Tensor is a contiguous row-major []float64 with a fixed Shape of rank
// 1 to 4. Element-wise arithmetic and reductions are delegated to
// gonum.org/v1/gonum/floats; rank-2 tensors expose a zero-copy *mat.Dense
// view for matrix products.
package tensor

import (
	"fmt"
	"strings"
)

// MaxRank is the highest rank a Tensor may have ([batch, channels, height, width]).
const MaxRank = 4

// Tensor is a dense n-dimensional array of float64 values.
//
// Tensors returned by layers and operations are owned by the caller.
// Views created by Reshape share the underlying storage.
type Tensor struct {
	shape   Shape
	strides []int
	data    []float64
}

// New creates a zero-filled tensor.
//
// Panics if the shape is invalid; shapes are programmer-supplied geometry.
func New(shape Shape) *Tensor {
	if err := shape.Validate(); err != nil {
		panic(fmt.Sprintf("tensor.New: %v", err))
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    make([]float64, shape.NumElements()),
	}
}

// FromSlice creates a tensor that takes ownership of data.
//
// Returns an error if len(data) does not match the shape.
func FromSlice(data []float64, shape Shape) (*Tensor, error) {
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor.FromSlice: %w", err)
	}
	if len(data) != shape.NumElements() {
		return nil, fmt.Errorf("tensor.FromSlice: %w: shape %v needs %d elements, got %d",
			ErrShapeMismatch, shape, shape.NumElements(), len(data))
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    data,
	}, nil
}

// MustFromSlice is like FromSlice but panics on error.
func MustFromSlice(data []float64, shape Shape) *Tensor {
	t, err := FromSlice(data, shape)
	if err != nil {
		panic(err)
	}
	return t
}

// Shape returns a copy of the tensor shape.
func (t *Tensor) Shape() Shape {
	return t.shape.Clone()
}

// Dim returns the size of axis i.
func (t *Tensor) Dim(i int) int {
	return t.shape[i]
}

// Rank returns the number of dimensions.
func (t *Tensor) Rank() int {
	return len(t.shape)
}

// Len returns the number of elements.
func (t *Tensor) Len() int {
	return len(t.data)
}

// Strides returns the row-major strides.
func (t *Tensor) Strides() []int {
	strides := make([]int, len(t.strides))
	copy(strides, t.strides)
	return strides
}

// Data returns the underlying storage. Writes are visible through the tensor.
func (t *Tensor) Data() []float64 {
	return t.data
}

// At returns the element at the given index.
func (t *Tensor) At(idx ...int) float64 {
	return t.data[t.offset(idx)]
}

// Set writes v at the given index.
func (t *Tensor) Set(v float64, idx ...int) {
	t.data[t.offset(idx)] = v
}

func (t *Tensor) offset(idx []int) int {
	if len(idx) != len(t.shape) {
		panic(fmt.Sprintf("tensor: index rank %d does not match tensor rank %d", len(idx), len(t.shape)))
	}
	off := 0
	for i, v := range idx {
		if v < 0 || v >= t.shape[i] {
			panic(fmt.Sprintf("tensor: index %v out of range for shape %v", idx, t.shape))
		}
		off += v * t.strides[i]
	}
	return off
}

// Clone returns a deep copy.
func (t *Tensor) Clone() *Tensor {
	data := make([]float64, len(t.data))
	copy(data, t.data)
	return &Tensor{
		shape:   t.shape.Clone(),
		strides: t.shape.ComputeStrides(),
		data:    data,
	}
}

// Zero sets every element to 0.
func (t *Tensor) Zero() {
	clear(t.data)
}

// CopyFrom copies the values of src into t. Shapes must match.
func (t *Tensor) CopyFrom(src *Tensor) error {
	if err := CheckShape("tensor.CopyFrom", t.shape, src.shape); err != nil {
		return err
	}
	copy(t.data, src.data)
	return nil
}

// Reshape returns a view with a new shape over the same storage.
func (t *Tensor) Reshape(dims ...int) (*Tensor, error) {
	shape := Shape(dims)
	if err := shape.Validate(); err != nil {
		return nil, fmt.Errorf("tensor.Reshape: %w", err)
	}
	if shape.NumElements() != len(t.data) {
		return nil, fmt.Errorf("tensor.Reshape: %w: cannot view %v as %v", ErrShapeMismatch, t.shape, shape)
	}
	return &Tensor{
		shape:   shape.Clone(),
		strides: shape.ComputeStrides(),
		data:    t.data,
	}, nil
}

// String returns a compact representation: shape plus up to 8 values.
func (t *Tensor) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Tensor%v[", []int(t.shape))
	for i, v := range t.data {
		if i == 8 {
			sb.WriteString(" ...")
			break
		}
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%.4g", v)
	}
	sb.WriteByte(']')
	return sb.String()
}
