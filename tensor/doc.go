// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tensor provides the dense float64 arrays used by convnet layers.
//
// # Overview
//
// A Tensor is a contiguous row-major []float64 with a fixed Shape of rank 1
// to 4. Layers use these conventions:
//   - Images: [batch, channels, height, width]
//   - Fully connected activations: [features, batch] (one column per sample)
//   - Class scores and probabilities: [classes, batch]
//
// # Basic Usage
//
//	import "github.com/born-ml/convnet/tensor"
//
//	func main() {
//	    x := tensor.Zeros(tensor.Shape{2, 3})
//	    y := tensor.Ones(tensor.Shape{2, 3})
//
//	    z, err := x.Add(y)
//	    w, err := z.MatMul(y.Transpose()) // [2, 2]
//	}
//
// # Random Initialization
//
// Randn draws from N(0, 1) through gonum's distuv. Pass a seeded
// math/rand/v2 source for reproducible runs:
//
//	w := tensor.Randn(tensor.Shape{6, 1, 5, 5}, rand.NewPCG(42, 42))
//
// # Errors
//
// Shape disagreements are reported as *ShapeError values wrapping
// ErrShapeMismatch, so both errors.As and errors.Is work.
package tensor
