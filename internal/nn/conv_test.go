package nn

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

func TestConv_Creation(t *testing.T) {
	conv := NewConv(6, 5, 3, 1, 0, rand.NewPCG(1, 1))

	assert.Equal(t, tensor.Shape{6, 3, 5, 5}, conv.Weight().Value().Shape())
	assert.Equal(t, tensor.Shape{6, 1}, conv.Bias().Value().Shape())
	assert.Equal(t, conv.Weight().Value().Shape(), conv.Weight().Grad().Shape())
	assert.Len(t, conv.Parameters(), 2)
	assert.Equal(t, "Conv(filters=6, filter_size=5, in_channels=3, stride=1, padding=0)", conv.String())

	assert.Panics(t, func() { NewConv(0, 3, 1, 1, 0, nil) })
	assert.Panics(t, func() { NewConv(1, 3, 1, 0, 0, nil) })
	assert.Panics(t, func() { NewConv(1, 3, 1, 1, -1, nil) })
}

func TestConv_OutputSize(t *testing.T) {
	tests := []struct {
		filters, f, c, s, p int
		in                  tensor.Shape
		want                tensor.Shape
	}{
		{6, 5, 1, 1, 0, tensor.Shape{2, 1, 32, 32}, tensor.Shape{2, 6, 28, 28}},
		{16, 5, 6, 1, 0, tensor.Shape{1, 6, 14, 14}, tensor.Shape{1, 16, 10, 10}},
		{2, 3, 1, 2, 0, tensor.Shape{1, 1, 7, 7}, tensor.Shape{1, 2, 3, 3}},
		{2, 3, 1, 1, 1, tensor.Shape{1, 1, 5, 5}, tensor.Shape{1, 2, 5, 5}},
		{4, 3, 2, 2, 1, tensor.Shape{3, 2, 6, 8}, tensor.Shape{3, 4, 3, 4}},
	}

	for _, tt := range tests {
		conv := NewConv(tt.filters, tt.f, tt.c, tt.s, tt.p, rand.NewPCG(2, 2))
		out, err := conv.Forward(tensor.Randn(tt.in, rand.NewPCG(3, 3)))
		require.NoError(t, err)
		assert.Equal(t, tt.want, out.Shape(), "%v on %v", conv, tt.in)
	}
}

func TestConv_ForwardValues(t *testing.T) {
	conv := NewConv(1, 2, 1, 1, 0, nil)
	copy(conv.Weight().Value().Data(), []float64{1, 0, 0, -1})
	conv.Bias().Value().Data()[0] = 0.5

	// [[1 2 3] [4 5 6] [7 8 9]]
	x := tensor.Arange(tensor.Shape{1, 1, 3, 3}, 1)
	out, err := conv.Forward(x)
	require.NoError(t, err)

	// x[h,w] - x[h+1,w+1] = -4, plus bias.
	assert.Equal(t, []float64{-3.5, -3.5, -3.5, -3.5}, out.Data())
}

func TestConv_ForwardSumsAllChannels(t *testing.T) {
	conv := NewConv(1, 1, 3, 1, 0, nil)
	copy(conv.Weight().Value().Data(), []float64{1, 10, 100})
	conv.Bias().Value().Data()[0] = 0

	x := tensor.Ones(tensor.Shape{1, 3, 2, 2})
	x.Set(2, 0, 1, 0, 0)
	out, err := conv.Forward(x)
	require.NoError(t, err)

	assert.Equal(t, []float64{121, 111, 111, 111}, out.Data())
}

func TestConv_ZeroPadding(t *testing.T) {
	conv := NewConv(1, 3, 1, 1, 1, nil)
	copy(conv.Weight().Value().Data(), []float64{1, 1, 1, 1, 1, 1, 1, 1, 1})
	conv.Bias().Value().Data()[0] = 0

	x := tensor.Ones(tensor.Shape{1, 1, 3, 3})
	out, err := conv.Forward(x)
	require.NoError(t, err)

	// Corners see 4 real cells, edges 6, the center 9.
	assert.Equal(t, []float64{4, 6, 4, 6, 9, 6, 4, 6, 4}, out.Data())

	dx, _, _, err := conv.Backward(tensor.Ones(out.Shape()))
	require.NoError(t, err)
	assert.Equal(t, tensor.Shape{1, 1, 3, 3}, dx.Shape())
	assert.Equal(t, []float64{4, 6, 4, 6, 9, 6, 4, 6, 4}, dx.Data())
}

// TestConv_SeededEndToEnd: Conv(2 filters, 3x3, 1 channel, stride 1, pad 0)
// on a 1x1x5x5 input with dout of ones.
func TestConv_SeededEndToEnd(t *testing.T) {
	x := tensor.Arange(tensor.Shape{1, 1, 5, 5}, 0)

	run := func() (*tensor.Tensor, *tensor.Tensor, *tensor.Tensor) {
		conv := NewConv(2, 3, 1, 1, 0, rand.NewPCG(42, 42))
		out, err := conv.Forward(x)
		require.NoError(t, err)
		_, dW, db, err := conv.Backward(tensor.Ones(out.Shape()))
		require.NoError(t, err)
		return out, dW, db
	}

	out1, dW1, db1 := run()
	out2, dW2, db2 := run()

	assert.Equal(t, tensor.Shape{1, 2, 3, 3}, out1.Shape())
	assert.Equal(t, out1.Data(), out2.Data())
	assert.Equal(t, dW1.Data(), dW2.Data())
	assert.Equal(t, db1.Data(), db2.Data())

	// With dout = 1 and x[r,c] = 5r + c: dW[kh,kw] = 9*(5kh + kw) + 54 per filter.
	filter := []float64{54, 63, 72, 99, 108, 117, 144, 153, 162}
	assert.Equal(t, tensor.Shape{2, 1, 3, 3}, dW1.Shape())
	assert.Equal(t, append(append([]float64{}, filter...), filter...), dW1.Data())
	assert.Equal(t, []float64{9, 9}, db1.Data())
}

func TestConv_InputGradientUsesRotatedKernel(t *testing.T) {
	conv := NewConv(1, 2, 1, 1, 0, nil)
	copy(conv.Weight().Value().Data(), []float64{1, 2, 3, 4})

	_, err := conv.Forward(tensor.Ones(tensor.Shape{1, 1, 2, 2}))
	require.NoError(t, err)
	dx, _, _, err := conv.Backward(tensor.Full(tensor.Shape{1, 1, 1, 1}, 2))
	require.NoError(t, err)

	assert.Equal(t, []float64{8, 6, 4, 2}, dx.Data())
}

func TestConv_GradientCheck(t *testing.T) {
	for _, geom := range []struct{ filters, f, c, s, p int }{
		{2, 3, 2, 1, 0},
		{3, 2, 1, 2, 0},
		{2, 3, 2, 2, 1},
	} {
		conv := NewConv(geom.filters, geom.f, geom.c, geom.s, geom.p, rand.NewPCG(5, 6))
		x := tensor.Randn(tensor.Shape{2, geom.c, 5, 5}, rand.NewPCG(7, 8))

		out, err := conv.Forward(x)
		require.NoError(t, err)
		dout := tensor.Randn(out.Shape(), rand.NewPCG(9, 10))

		forward := func() *tensor.Tensor {
			y, err := conv.Forward(x)
			require.NoError(t, err)
			return y
		}
		numW := numericGrad(t, conv.Weight().Value(), dout, forward)
		numB := numericGrad(t, conv.Bias().Value(), dout, forward)

		_, dW, db, err := conv.Backward(dout)
		require.NoError(t, err)

		requireClose(t, numW, dW.Data(), conv.String()+" dW")
		requireClose(t, numB, db.Data(), conv.String()+" db")
	}
}

// A 180-degree symmetric kernel makes the rotated-kernel input gradient equal
// to the true derivative.
func TestConv_InputGradientCheckSymmetricKernel(t *testing.T) {
	conv := NewConv(1, 3, 1, 1, 0, nil)
	copy(conv.Weight().Value().Data(), []float64{
		0.5, -1, 0.25,
		2, 3, 2,
		0.25, -1, 0.5,
	})
	x := tensor.Randn(tensor.Shape{1, 1, 5, 5}, rand.NewPCG(11, 12))

	out, err := conv.Forward(x)
	require.NoError(t, err)
	dout := tensor.Randn(out.Shape(), rand.NewPCG(13, 14))

	numX := numericGrad(t, x, dout, func() *tensor.Tensor {
		y, err := conv.Forward(x)
		require.NoError(t, err)
		return y
	})
	dx, _, _, err := conv.Backward(dout)
	require.NoError(t, err)

	requireClose(t, numX, dx.Data(), "dX")
}

func TestConv_BackwardResetsWeightGrad(t *testing.T) {
	conv := NewConv(2, 3, 1, 1, 0, rand.NewPCG(1, 2))
	x := tensor.Randn(tensor.Shape{1, 1, 5, 5}, rand.NewPCG(3, 4))

	grads := make([][]float64, 2)
	for i := range grads {
		out, err := conv.Forward(x)
		require.NoError(t, err)
		_, dW, _, err := conv.Backward(tensor.Ones(out.Shape()))
		require.NoError(t, err)
		grads[i] = dW.Data()
	}
	assert.Equal(t, grads[0], grads[1])
}

func TestConv_ParallelMatchesSequential(t *testing.T) {
	x := tensor.Randn(tensor.Shape{8, 2, 6, 6}, rand.NewPCG(1, 1))

	run := func(cfg parallel.Config) (*tensor.Tensor, *tensor.Tensor, *tensor.Tensor) {
		conv := NewConv(3, 3, 2, 1, 1, rand.NewPCG(2, 2))
		conv.SetParallel(cfg)
		out, err := conv.Forward(x)
		require.NoError(t, err)
		dx, dW, _, err := conv.Backward(tensor.Randn(out.Shape(), rand.NewPCG(3, 3)))
		require.NoError(t, err)
		return out, dx, dW
	}

	outS, dxS, dWS := run(parallel.Sequential())
	outP, dxP, dWP := run(parallel.Config{Enabled: true, NumWorkers: 4, MinChunkSize: 1})

	assert.Equal(t, outS.Data(), outP.Data())
	assert.Equal(t, dxS.Data(), dxP.Data())
	assert.True(t, dWS.EqualApprox(dWP, 1e-12))
}

func TestConv_Errors(t *testing.T) {
	conv := NewConv(2, 3, 1, 1, 0, rand.NewPCG(1, 2))

	_, _, _, err := conv.Backward(tensor.Ones(tensor.Shape{1, 2, 3, 3}))
	assert.ErrorIs(t, err, ErrUninitializedCache)

	_, err = conv.Forward(tensor.Ones(tensor.Shape{1, 2, 5, 5}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = conv.Forward(tensor.Ones(tensor.Shape{1, 1, 2, 2}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = conv.Forward(tensor.Ones(tensor.Shape{5, 5}))
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = conv.Forward(tensor.Ones(tensor.Shape{1, 1, 5, 5}))
	require.NoError(t, err)

	_, _, _, err = conv.Backward(tensor.Ones(tensor.Shape{1, 2, 4, 4}))
	var se *ShapeError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, tensor.Shape{1, 2, 3, 3}, se.Want)

	// A rejected dout leaves the cache in place.
	_, _, _, err = conv.Backward(tensor.Ones(tensor.Shape{1, 2, 3, 3}))
	require.NoError(t, err)

	_, _, _, err = conv.Backward(tensor.Ones(tensor.Shape{1, 2, 3, 3}))
	assert.ErrorIs(t, err, ErrUninitializedCache)
}
