package nn

import (
	"errors"
	"fmt"

	"github.com/born-ml/convnet/internal/tensor"
)

// Errors surfaced by layers and optimizers. All of them are contract
// violations: nothing is retried or recovered.
var (
	// ErrShapeMismatch: a tensor disagrees with cached state or layer geometry.
	ErrShapeMismatch = tensor.ErrShapeMismatch

	// ErrUninitializedCache: Backward without a preceding Forward.
	ErrUninitializedCache = errors.New("backward called without a preceding forward")

	// ErrDegenerateNumeric: NaN or Inf found where a finite value is required.
	ErrDegenerateNumeric = errors.New("degenerate numeric value")

	// ErrMissingGradient: an optimizer step lacks the gradient of a tracked parameter.
	ErrMissingGradient = errors.New("missing gradient")
)

// ShapeError carries the expected and actual shapes of a mismatch.
type ShapeError = tensor.ShapeError

// CheckFinite returns an error wrapping ErrDegenerateNumeric if t holds NaN or Inf.
//
// Softmax and CrossEntropyLoss never call it themselves; overflow there is
// accepted behavior. Drivers use it to stop a diverging run.
func CheckFinite(op string, t *tensor.Tensor) error {
	if t.HasNaNOrInf() {
		return fmt.Errorf("%s: %w in %v", op, ErrDegenerateNumeric, t.Shape())
	}
	return nil
}
