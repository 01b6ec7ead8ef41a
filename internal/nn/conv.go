package nn

import (
	"fmt"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/born-ml/convnet/internal/parallel"
	"github.com/born-ml/convnet/internal/tensor"
)

// Conv is a 2D convolutional layer with square filters.
//
// Input shape:  [batch, in_channels, height, width]
// Weight shape: [filters, in_channels, filter_size, filter_size]
// Bias shape:   [filters, 1]
// Output shape: [batch, filters, out_h, out_w]
//
// Where:
//
//	out_h = (height + 2*padding - filter_size) / stride + 1
//	out_w = (width + 2*padding - filter_size) / stride + 1
//
// Padding is implicit zero padding: window positions outside the input read
// as zero in Forward and receive no gradient in Backward.
//
// Example:
//
//	// 1 channel -> 6 filters, 5x5, stride 1, no padding
//	conv := nn.NewConv(6, 5, 1, 1, 0, nil)
//
//	out, err := conv.Forward(x)          // x: [32, 1, 32, 32] -> out: [32, 6, 28, 28]
//	dx, dW, db, err := conv.Backward(g)  // g: [32, 6, 28, 28]
type Conv struct {
	filters    int
	filterSize int
	inChannels int
	stride     int
	padding    int

	weight *Parameter // [filters, in_channels, f, f]
	bias   *Parameter // [filters, 1]

	cache    inputCache
	parallel parallel.Config
}

// NewConv creates a new convolutional layer.
//
// Parameters:
//   - filterCount: Number of filters (output channels)
//   - filterSize: Side of the square filter
//   - inputChannels: Number of input channels
//   - stride: Step between windows (>= 1)
//   - padding: Implicit zero padding on each spatial border (>= 0)
//   - src: Random source for N(0, 1) initialization of weight and bias
//     (nil uses the global source)
func NewConv(filterCount, filterSize, inputChannels, stride, padding int, src rand.Source) *Conv {
	if filterCount <= 0 || inputChannels <= 0 {
		panic(fmt.Sprintf("conv: invalid filters=%d, channels=%d", filterCount, inputChannels))
	}
	if filterSize <= 0 {
		panic(fmt.Sprintf("conv: invalid filter size %d", filterSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("conv: invalid stride %d", stride))
	}
	if padding < 0 {
		panic(fmt.Sprintf("conv: invalid padding %d", padding))
	}

	weight := tensor.Randn(tensor.Shape{filterCount, inputChannels, filterSize, filterSize}, src)
	bias := tensor.Randn(tensor.Shape{filterCount, 1}, src)

	return &Conv{
		filters:    filterCount,
		filterSize: filterSize,
		inChannels: inputChannels,
		stride:     stride,
		padding:    padding,
		weight:     NewParameter("conv.weight", weight),
		bias:       NewParameter("conv.bias", bias),
		parallel:   parallel.DefaultConfig(),
	}
}

// SetParallel replaces the loop parallelism settings.
func (c *Conv) SetParallel(cfg parallel.Config) {
	c.parallel = cfg
}

// OutputShape returns the forward output shape for an input shape, or an
// error if the input does not fit the layer geometry.
func (c *Conv) OutputShape(in tensor.Shape) (tensor.Shape, error) {
	if len(in) != 4 {
		return nil, fmt.Errorf("conv: %w: expected 4D input [N,C,H,W], got %v", ErrShapeMismatch, in)
	}
	if in[1] != c.inChannels {
		return nil, fmt.Errorf("conv: %w: input channels %d != expected %d", ErrShapeMismatch, in[1], c.inChannels)
	}
	outH := tensor.ConvOutputSize(in[2], c.filterSize, c.stride, c.padding)
	outW := tensor.ConvOutputSize(in[3], c.filterSize, c.stride, c.padding)
	if outH <= 0 || outW <= 0 {
		return nil, fmt.Errorf("conv: %w: input %v smaller than filter %d (padding %d)",
			ErrShapeMismatch, in, c.filterSize, c.padding)
	}
	return tensor.Shape{in[0], c.filters, outH, outW}, nil
}

// Forward convolves x with every filter and adds the filter bias.
//
// x is cached (by reference) until the next Backward and must not be
// modified in between.
func (c *Conv) Forward(x *tensor.Tensor) (*tensor.Tensor, error) {
	outShape, err := c.OutputShape(x.Shape())
	if err != nil {
		return nil, err
	}

	m, nC, h, w := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	outH, outW := outShape[2], outShape[3]
	f, s, p := c.filterSize, c.stride, c.padding
	kernelSize := nC * f * f

	out := tensor.New(outShape)
	xData := x.Data()
	wData := c.weight.Value().Data()
	bData := c.bias.Value().Data()
	outData := out.Data()

	parallel.ForBatch(m, c.filters, func(i, k int) {
		kernel := wData[k*kernelSize : (k+1)*kernelSize]
		plane := outData[(i*c.filters+k)*outH*outW : (i*c.filters+k+1)*outH*outW]
		sample := xData[i*nC*h*w : (i+1)*nC*h*w]

		for oh := 0; oh < outH; oh++ {
			for ow := 0; ow < outW; ow++ {
				sum := 0.0
				for ch := 0; ch < nC; ch++ {
					in := sample[ch*h*w : (ch+1)*h*w]
					kc := kernel[ch*f*f : (ch+1)*f*f]
					for kh := 0; kh < f; kh++ {
						row := oh*s - p + kh
						if row < 0 || row >= h {
							continue
						}
						for kw := 0; kw < f; kw++ {
							col := ow*s - p + kw
							if col < 0 || col >= w {
								continue
							}
							sum += in[row*w+col] * kc[kh*f+kw]
						}
					}
				}
				plane[oh*outW+ow] = sum + bData[k]
			}
		}
	}, c.parallel)

	c.cache.store(x)
	return out, nil
}

// Backward computes the gradients for the input of the last Forward.
//
// dout must have the shape Forward returned. The weight gradient is reset to
// zero and accumulated over batch and output positions; the input gradient
// spreads each dout value over its window through the filter rotated by 180
// degrees in the spatial plane.
//
// Returns (dX, dW, dB); the returned tensors are copies owned by the caller.
func (c *Conv) Backward(dout *tensor.Tensor) (dx, dW, db *tensor.Tensor, err error) {
	x, err := c.cache.peek("conv.backward")
	if err != nil {
		return nil, nil, nil, err
	}
	outShape, err := c.OutputShape(x.Shape())
	if err != nil {
		return nil, nil, nil, err
	}
	if err := tensor.CheckShape("conv.backward", outShape, dout.Shape()); err != nil {
		return nil, nil, nil, err
	}
	c.cache.invalidate()
	c.weight.ZeroGrad()

	m, nC, h, w := x.Dim(0), x.Dim(1), x.Dim(2), x.Dim(3)
	outH, outW := outShape[2], outShape[3]
	f, s, p := c.filterSize, c.stride, c.padding
	kernelSize := nC * f * f

	rotated := rot180(c.weight.Value().Data(), c.filters*nC, f)
	dx = tensor.ZerosLike(x)
	xData := x.Data()
	dxData := dx.Data()
	gData := dout.Data()

	// Each sample owns its slice of dx; weight gradients are reduced over
	// per-worker partial sums.
	wGrad := parallel.Reduce(m, c.filters*kernelSize, func(i int, partial []float64) {
		sample := xData[i*nC*h*w : (i+1)*nC*h*w]
		dSample := dxData[i*nC*h*w : (i+1)*nC*h*w]

		for k := 0; k < c.filters; k++ {
			grads := gData[(i*c.filters+k)*outH*outW : (i*c.filters+k+1)*outH*outW]
			kGrad := partial[k*kernelSize : (k+1)*kernelSize]
			kRot := rotated[k*kernelSize : (k+1)*kernelSize]

			for oh := 0; oh < outH; oh++ {
				for ow := 0; ow < outW; ow++ {
					g := grads[oh*outW+ow]
					if g == 0 {
						continue
					}
					for ch := 0; ch < nC; ch++ {
						base := ch * h * w
						kBase := ch * f * f
						for kh := 0; kh < f; kh++ {
							row := oh*s - p + kh
							if row < 0 || row >= h {
								continue
							}
							for kw := 0; kw < f; kw++ {
								col := ow*s - p + kw
								if col < 0 || col >= w {
									continue
								}
								kGrad[kBase+kh*f+kw] += g * sample[base+row*w+col]
								dSample[base+row*w+col] += g * kRot[kBase+kh*f+kw]
							}
						}
					}
				}
			}
		}
	}, c.parallel)
	floats.Add(c.weight.Grad().Data(), wGrad)

	bGrad := c.bias.Grad().Data()
	for k := 0; k < c.filters; k++ {
		sum := 0.0
		for i := 0; i < m; i++ {
			sum += floats.Sum(gData[(i*c.filters+k)*outH*outW : (i*c.filters+k+1)*outH*outW])
		}
		bGrad[k] = sum
	}

	return dx, c.weight.Grad().Clone(), c.bias.Grad().Clone(), nil
}

// rot180 rotates each of the n f×f planes of data by 180 degrees.
func rot180(data []float64, n, f int) []float64 {
	out := make([]float64, len(data))
	for plane := 0; plane < n; plane++ {
		src := data[plane*f*f : (plane+1)*f*f]
		dst := out[plane*f*f : (plane+1)*f*f]
		for i := 0; i < f; i++ {
			for j := 0; j < f; j++ {
				dst[i*f+j] = src[(f-1-i)*f+(f-1-j)]
			}
		}
	}
	return out
}

// Parameters returns [weight, bias].
func (c *Conv) Parameters() []*Parameter {
	return []*Parameter{c.weight, c.bias}
}

// Weight returns the weight parameter.
func (c *Conv) Weight() *Parameter {
	return c.weight
}

// Bias returns the bias parameter.
func (c *Conv) Bias() *Parameter {
	return c.bias
}

// Filters returns the number of filters.
func (c *Conv) Filters() int {
	return c.filters
}

// FilterSize returns the side of the square filter.
func (c *Conv) FilterSize() int {
	return c.filterSize
}

// InChannels returns the number of input channels.
func (c *Conv) InChannels() int {
	return c.inChannels
}

// Stride returns the stride.
func (c *Conv) Stride() int {
	return c.stride
}

// Padding returns the padding.
func (c *Conv) Padding() int {
	return c.padding
}

// String returns a string representation of the layer.
func (c *Conv) String() string {
	return fmt.Sprintf("Conv(filters=%d, filter_size=%d, in_channels=%d, stride=%d, padding=%d)",
		c.filters, c.filterSize, c.inChannels, c.stride, c.padding)
}
