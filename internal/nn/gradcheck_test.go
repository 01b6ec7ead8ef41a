package nn

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/convnet/internal/tensor"
)

// gradTol is the absolute tolerance between analytic and finite-difference gradients.
const gradTol = 1e-4

// numericGrad estimates d(Σ dout ⊙ forward(target))/d(target) with central
// differences, perturbing target in place. target is restored afterwards.
func numericGrad(t *testing.T, target *tensor.Tensor, dout *tensor.Tensor, forward func() *tensor.Tensor) []float64 {
	t.Helper()

	orig := make([]float64, target.Len())
	copy(orig, target.Data())

	loss := func(v []float64) float64 {
		copy(target.Data(), v)
		out := forward()
		return floats.Dot(out.Data(), dout.Data())
	}
	grad := fd.Gradient(nil, loss, orig, &fd.Settings{Formula: fd.Central, Step: 1e-6})

	copy(target.Data(), orig)
	return grad
}

// requireClose fails when any element of got differs from want by more than gradTol.
func requireClose(t *testing.T, want, got []float64, msg string) {
	t.Helper()
	require.Len(t, got, len(want), msg)
	for i := range want {
		require.InDelta(t, want[i], got[i], gradTol, "%s: element %d", msg, i)
	}
}
