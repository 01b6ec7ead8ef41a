package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/tensor"
)

func TestCrossEntropyLoss_Get(t *testing.T) {
	criterion := NewCrossEntropyLoss()

	yPred := tensor.MustFromSlice([]float64{
		0.7, 0.2,
		0.3, 0.8,
	}, tensor.Shape{2, 2})
	y := tensor.MustFromSlice([]float64{
		1, 0,
		0, 1,
	}, tensor.Shape{2, 2})

	loss, deltaL, err := criterion.Get(yPred, y)
	require.NoError(t, err)

	assert.InDelta(t, -(math.Log(0.7)+math.Log(0.8))/2, loss, 1e-12)
	assert.InDeltaSlice(t, []float64{-0.3, 0.2, 0.3, -0.2}, deltaL.Data(), 1e-12)
}

func TestCrossEntropyLoss_PerfectPrediction(t *testing.T) {
	const eps = 1e-12
	y := tensor.MustFromSlice([]float64{
		0, 1, 0,
		1, 0, 0,
		0, 0, 1,
	}, tensor.Shape{3, 3})
	yPred := y.Apply(func(v float64) float64 {
		if v == 0 {
			return eps
		}
		return 1 - 2*eps
	})

	loss, deltaL, err := NewCrossEntropyLoss().Get(yPred, y)
	require.NoError(t, err)

	assert.InDelta(t, 0, loss, 1e-9)
	for _, v := range deltaL.Data() {
		assert.InDelta(t, 0, v, 1e-9)
	}
}

// Combined with Softmax, deltaL is the gradient of the loss w.r.t. the scores.
func TestCrossEntropyLoss_SoftmaxGradient(t *testing.T) {
	scores := tensor.MustFromSlice([]float64{0.3, -1.2, 2.0, 0.1}, tensor.Shape{4, 1})
	y := tensor.MustFromSlice([]float64{0, 0, 1, 0}, tensor.Shape{4, 1})
	sm := NewSoftmax()
	criterion := NewCrossEntropyLoss()

	probs, err := sm.Forward(scores)
	require.NoError(t, err)
	_, deltaL, err := criterion.Get(probs, y)
	require.NoError(t, err)

	const h = 1e-6
	for i := range scores.Data() {
		lossAt := func(delta float64) float64 {
			s := scores.Clone()
			s.Data()[i] += delta
			p, err := sm.Forward(s)
			require.NoError(t, err)
			l, _, err := criterion.Get(p, y)
			require.NoError(t, err)
			return l
		}
		numeric := (lossAt(h) - lossAt(-h)) / (2 * h)
		assert.InDelta(t, numeric, deltaL.Data()[i], 1e-6)
	}
}

func TestCrossEntropyLoss_Errors(t *testing.T) {
	criterion := NewCrossEntropyLoss()

	_, _, err := criterion.Get(tensor.Ones(tensor.Shape{3, 2}), tensor.Ones(tensor.Shape{2, 3}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, _, err = criterion.Get(tensor.Ones(tensor.Shape{1, 1, 2}), tensor.Ones(tensor.Shape{1, 1, 2}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	// log(0) is not clamped.
	loss, _, err := criterion.Get(
		tensor.MustFromSlice([]float64{0, 1}, tensor.Shape{2}),
		tensor.MustFromSlice([]float64{1, 0}, tensor.Shape{2}),
	)
	require.NoError(t, err)
	assert.True(t, math.IsInf(loss, 1))
}
