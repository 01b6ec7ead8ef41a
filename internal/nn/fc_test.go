package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/tensor"
)

func TestFc_Forward(t *testing.T) {
	fc := NewFc(2, 3, nil)
	copy(fc.Weight().Value().Data(), []float64{1, 0, -1, 2, 1, 0})
	copy(fc.Bias().Value().Data(), []float64{0.5, -1})

	// Two samples as columns: [1 2 3] and [4 5 6].
	x := tensor.MustFromSlice([]float64{1, 4, 2, 5, 3, 6}, tensor.Shape{3, 2})
	y, err := fc.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{2, 2}, y.Shape())
	assert.Equal(t, []float64{-1.5, -1.5, 3, 12}, y.Data())
}

func TestFc_Backward(t *testing.T) {
	fc := NewFc(4, 3, rand.NewPCG(1, 2))
	x := tensor.Randn(tensor.Shape{3, 5}, rand.NewPCG(3, 4))

	out, err := fc.Forward(x)
	require.NoError(t, err)
	dout := tensor.Randn(out.Shape(), rand.NewPCG(5, 6))

	forward := func() *tensor.Tensor {
		y, err := fc.Forward(x)
		require.NoError(t, err)
		return y
	}
	numW := numericGrad(t, fc.Weight().Value(), dout, forward)
	numB := numericGrad(t, fc.Bias().Value(), dout, forward)
	numX := numericGrad(t, x, dout, forward)

	dx, dW, db, err := fc.Backward(dout)
	require.NoError(t, err)

	assert.Equal(t, tensor.Shape{3, 5}, dx.Shape())
	assert.Equal(t, tensor.Shape{4, 3}, dW.Shape())
	assert.Equal(t, tensor.Shape{4, 1}, db.Shape())

	// Parameter gradients are scaled by 1/m with m = x.shape[0].
	m := float64(x.Dim(0))
	requireClose(t, numX, dx.Data(), "fc dX")
	requireClose(t, numW, dW.Scale(m).Data(), "fc dW")
	requireClose(t, numB, db.Scale(m).Data(), "fc db")

	assert.Equal(t, dW.Data(), fc.Weight().Grad().Data())
}

func TestFc_Errors(t *testing.T) {
	fc := NewFc(2, 3, nil)

	_, _, _, err := fc.Backward(tensor.Ones(tensor.Shape{2, 1}))
	assert.ErrorIs(t, err, ErrUninitializedCache)

	_, err = fc.Forward(tensor.Ones(tensor.Shape{4, 1}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = fc.Forward(tensor.Ones(tensor.Shape{3}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = fc.Forward(tensor.Ones(tensor.Shape{3, 2}))
	require.NoError(t, err)
	_, _, _, err = fc.Backward(tensor.Ones(tensor.Shape{2, 1}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	assert.Panics(t, func() { NewFc(0, 3, nil) })
}
