package nn

import (
	"fmt"

	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

// AvgPoolConfig configures an AvgPool layer.
type AvgPoolConfig struct {
	FilterSize int // Side of the square pooling window
	Stride     int // Step between windows

	// ClassicGradient switches Backward to the textbook average-pool
	// gradient: dX starts at zero and each window receives dout/(f*f).
	// When false, dX starts as a copy of the cached input and each window
	// receives dout/(out_h*out_w).
	ClassicGradient bool
}

// AvgPool is a 2D average pooling layer without trainable parameters.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_h, out_w]
//
// Where:
//
//	out_h = (height - filter_size) / stride + 1
//	out_w = (width - filter_size) / stride + 1
//
// Example:
//
//	pool := nn.NewAvgPool(2, 2)
//	out, err := pool.Forward(x) // [32, 6, 28, 28] -> [32, 6, 14, 14]
type AvgPool struct {
	cfg      AvgPoolConfig
	cache    inputCache
	parallel parallel.Config
}

// NewAvgPool creates an average pooling layer with the default
// (non-classic) backward normalization.
func NewAvgPool(filterSize, stride int) *AvgPool {
	return NewAvgPoolWithConfig(AvgPoolConfig{FilterSize: filterSize, Stride: stride})
}

// NewAvgPoolWithConfig creates an average pooling layer from cfg.
func NewAvgPoolWithConfig(cfg AvgPoolConfig) *AvgPool {
	if cfg.FilterSize <= 0 {
		panic(fmt.Sprintf("avgpool: invalid filter size %d", cfg.FilterSize))
	}
	if cfg.Stride <= 0 {
		panic(fmt.Sprintf("avgpool: invalid stride %d", cfg.Stride))
	}
	return &AvgPool{cfg: cfg, parallel: parallel.DefaultConfig()}
}

// SetParallel replaces the loop parallelism settings.
func (a *AvgPool) SetParallel(cfg parallel.Config) {
	a.parallel = cfg
}

// OutputShape returns the forward output shape for an input shape.
func (a *AvgPool) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if len(in) != 4 {
		return nil, fmt.Errorf("avgpool: %w: expected 4D input [N,C,H,W], got %v", ErrShapeMismatch, in)
	}
	outH := tensor.ConvOutputSize(in[2], a.cfg.FilterSize, a.cfg.Stride, 0)
	outW := tensor.ConvOutputSize(in[3], a.cfg.FilterSize, a.cfg.Stride, 0)
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("avgpool: %w: input %v smaller than window %d",
			ErrShapeMismatch, in, a.cfg.FilterSize)
	}
	return tensor.Shape{in[0], in[1], outH, outW}, nil
}

// Forward averages every window, per batch index and per channel.
func (a *AvgPool) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	outShape, err := a.OutputShape(x.Shape())
	if err != nil {
		return nil, err
	}

	m, nC, h, w := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	outH, outW := outShape[2], outShape[3]
	f, s := a.cfg.FilterSize, a.cfg.Stride
	area := float64(f * f)

	out := tensor.New(outShape)
	xData := x.Data()
	outData := out.Data()

	parallel.ForBatch(m, nC, func(i, ch int) {
		plane := i*nC + ch
		in := xData[plane*h*w : (plane+1)*h*w]
		o := outData[plane*outH*outW : (plane+1)*outH*outW]
		for oh := 0; oh < outH; oh++ {
			for ow := 0; ow < outW; ow++ {
				sum := 0.0
				for kh := 0; kh < f; kh++ {
					row := in[(oh*s+kh)*w:]
					for kw := 0; kw < f; kw++ {
						sum += row[ow*s+kw]
					}
				}
				o[oh*outW+ow] = sum / area
			}
		}
	}, a.parallel)

	a.cache.store(x)
	return out, nil
}

// Backward distributes every dout value uniformly over its input window.
//
// By default dX starts as a copy of the cached input and the per-window
// share is dout/(out_h*out_w); see AvgPoolConfig.ClassicGradient.
func (a *AvgPool) Backward(dout *tensor.Tensor) (*tensor.Tensor, error) {
	x, err := a.cache.peek("avgpool.backward")
	if err != nil {
		return nil, err
	}
	outShape, err := a.OutputShape(x.Shape())
	if err != nil {
		return nil, err
	}
	if err := tensor.CheckShape("avgpool.backward", outShape, dout.Shape()); err != nil {
		return nil, err
	}
	a.cache.invalidate()

	m, nC, h, w := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	outH, outW := outShape[2], outShape[3]
	f, s := a.cfg.FilterSize, a.cfg.Stride

	var dx *tensor.Tensor
	var divisor float64
	if a.cfg.ClassicGradient {
		dx = tensor.ZerosLike(x)
		divisor = float64(f * f)
	} else {
		dx = x.Clone()
		divisor = float64(outH * outW)
	}

	dxData := dx.Data()
	gData := dout.Data()

	parallel.ForBatch(m, nC, func(i, ch int) {
		plane := i*nC + ch
		d := dxData[plane*h*w : (plane+1)*h*w]
		g := gData[plane*outH*outW : (plane+1)*outH*outW]
		for oh := 0; oh < outH; oh++ {
			for ow := 0; ow < outW; ow++ {
				share := g[oh*outW+ow] / divisor
				for kh := 0; kh < f; kh++ {
					row := d[(oh*s+kh)*w:]
					for kw := 0; kw < f; kw++ {
						row[ow*s+kw] += share
					}
				}
			}
		}
	}, a.parallel)

	return dx, nil
}

// FilterSize returns the pooling window size.
func (a *AvgPool) FilterSize() int {
	return a.cfg.FilterSize
}

// Stride returns the stride.
func (a *AvgPool) Stride() int {
	return a.cfg.Stride
}

// String returns a string representation of the layer.
func (a *AvgPool) String() string {
	return fmt.Sprintf("AvgPool(filter_size=%d, stride=%d, classic_gradient=%v)",
		a.cfg.FilterSize, a.cfg.Stride, a.cfg.ClassicGradient)
}
