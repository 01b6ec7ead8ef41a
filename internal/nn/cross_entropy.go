package nn

import (
	"fmt"
	"math"

	"github.com/born-ml/convnet/internal/tensor"
)

// CrossEntropyLoss computes the cross-entropy of Softmax probabilities
// against one-hot targets, together with the gradient at the Softmax input.
//
// Mathematical Formulation:
//
//	loss   = -Σ y * log(y_pred) / batch_size
//	deltaL = y_pred - y
//
// deltaL is the combined Softmax + cross-entropy gradient, so it is only
// valid when y_pred comes straight out of Softmax.Forward. Predictions are
// not clamped: a zero probability gives Inf or NaN.
//
// Usage:
//
//	criterion := nn.NewCrossEntropyLoss()
//	probs, _ := softmax.Forward(scores)        // [classes, batch]
//	loss, deltaL, err := criterion.Get(probs, y) // y: one-hot [classes, batch]
type CrossEntropyLoss struct{}

// NewCrossEntropyLoss creates a new cross-entropy loss function.
func NewCrossEntropyLoss() *CrossEntropyLoss {
	return &CrossEntropyLoss{}
}

// Get returns the mean loss over the batch and the gradient deltaL.
//
// yPred and y must share a shape of [classes, batch] (or [classes] for a
// single sample); batch_size is the size of axis 1.
func (c *CrossEntropyLoss) Get(yPred, y *tensor.Tensor) (float64, *tensor.Tensor, error) {
	if yPred.Rank() > 2 {
		return 0, nil, fmt.Errorf("cross_entropy: %w: expected rank 1 or 2, got %v", ErrShapeMismatch, yPred.Shape())
	}
	deltaL, err := yPred.Sub(y)
	if err != nil {
		return 0, nil, fmt.Errorf("cross_entropy: %w", err)
	}

	batchSize := 1
	if yPred.Rank() == 2 {
		batchSize = yPred.Dim(1)
	}

	sum := 0.0
	pData, yData := yPred.Data(), y.Data()
	for i, p := range pData {
		sum += yData[i] * math.Log(p)
	}

	return -sum / float64(batchSize), deltaL, nil
}
