package tensor

import (
	"errors"
	"fmt"
)

// ErrShapeMismatch is returned (wrapped in a *ShapeError) whenever two
// tensors, or a tensor and a declared geometry, disagree on shape.
var ErrShapeMismatch = errors.New("shape mismatch")

// ShapeError provides detailed information about a shape mismatch.
type ShapeError struct {
	Op   string // Operation that detected the mismatch (e.g., "conv.backward")
	Want Shape  // Expected shape
	Got  Shape  // Actual shape
}

// Error implements the error interface.
func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: %v: expected %v, got %v", e.Op, ErrShapeMismatch, e.Want, e.Got)
}

// Unwrap lets errors.Is match ErrShapeMismatch.
func (e *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// NewShapeError creates a ShapeError for op.
func NewShapeError(op string, want, got Shape) *ShapeError {
	return &ShapeError{Op: op, Want: want.Clone(), Got: got.Clone()}
}

// CheckShape returns a *ShapeError when got differs from want.
func CheckShape(op string, want, got Shape) error {
	if !want.Equal(got) {
		return NewShapeError(op, want, got)
	}
	return nil
}
