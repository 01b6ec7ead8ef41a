// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the layers of a small convolutional network.
//
// # Overview
//
// This package contains:
//   - Layers: Conv, AvgPool, Fc
//   - Activations: TanH, Softmax
//   - Loss: CrossEntropyLoss
//   - Utilities: Parameter, ParamSet, GradKey
//
// Every layer owns its parameters and keeps the input of its last Forward
// until the matching Backward consumes it. There is no computation graph:
// callers run the backward chain themselves, in reverse layer order.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/convnet/nn"
//	    "github.com/born-ml/convnet/tensor"
//	)
//
//	func main() {
//	    conv := nn.NewConv(6, 5, 1, 1, 0, nil)
//	    act := nn.NewTanH()
//	    pool := nn.NewAvgPool(2, 2)
//
//	    h, _ := conv.Forward(x)  // [N, 1, 32, 32] -> [N, 6, 28, 28]
//	    h, _ = act.Forward(h)
//	    h, _ = pool.Forward(h)   // [N, 6, 14, 14]
//
//	    g, _ := pool.Backward(dout)
//	    g, _ = act.Backward(g)
//	    dx, dW, db, _ := conv.Backward(g)
//	}
//
// # Layouts
//
// Conv and AvgPool work on [batch, channels, height, width]. Fc, Softmax and
// CrossEntropyLoss work on [features, batch], one column per sample.
//
// # Errors
//
// Shape problems wrap ErrShapeMismatch (as *ShapeError where both shapes are
// known). Backward without a preceding Forward returns ErrUninitializedCache.
package nn
