package nn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/tensor"
)

func TestParameter(t *testing.T) {
	value := tensor.MustFromSlice([]float64{1, 2, 3}, tensor.Shape{3})
	p := NewParameter("w", value)

	assert.Equal(t, "w", p.Name())
	assert.Same(t, value, p.Value())
	assert.Equal(t, []float64{0, 0, 0}, p.Grad().Data())

	require.NoError(t, p.SetGrad(tensor.Full(tensor.Shape{3}, 2)))
	assert.Equal(t, []float64{2, 2, 2}, p.Grad().Data())

	p.ZeroGrad()
	assert.Equal(t, []float64{0, 0, 0}, p.Grad().Data())

	assert.ErrorIs(t, p.SetGrad(tensor.Ones(tensor.Shape{2})), ErrShapeMismatch)
}

func TestParamSet(t *testing.T) {
	ps := NewParamSet()
	w := tensor.Ones(tensor.Shape{2, 3})
	b := tensor.Zeros(tensor.Shape{2, 1})

	require.NoError(t, ps.Add("W1", w))
	require.NoError(t, ps.Add("b1", b))
	assert.Error(t, ps.Add("W1", w))
	assert.Error(t, ps.Add("", w))

	assert.Equal(t, []string{"W1", "b1"}, ps.Names())
	assert.Equal(t, 2, ps.Len())
	assert.Equal(t, 8, ps.NumElements())

	got, ok := ps.Get("W1")
	require.True(t, ok)
	assert.Same(t, w, got)

	_, ok = ps.Get("W2")
	assert.False(t, ok)

	assert.Equal(t, "dW1", GradKey("W1"))
}
