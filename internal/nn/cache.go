package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/tensor"
)

// inputCache is a single slot holding the input of the last Forward.
//
// Forward overwrites the slot; a successful Backward empties it, so a second
// Backward without a fresh Forward fails with ErrUninitializedCache.
type inputCache struct {
	x *tensor.Tensor
}

func (c *inputCache) store(x *tensor.Tensor) {
	c.x = x
}

// peek returns the cached input without consuming it.
func (c *inputCache) peek(op string) (*tensor.Tensor, error) {
	if c.x == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrUninitializedCache)
	}
	return c.x, nil
}

func (c *inputCache) invalidate() {
	c.x = nil
}
