package cpu

import (
	"fmt"

	"github.com/born-ml/gradcam/internal/tensor"
)

// convDims holds the sizes shared by the forward and backward convolution kernels.
type convDims struct {
	N, CIn, H, W    int
	COut, KH, KW    int
	HOut, WOut      int
	stride, padding int
}

// newConvDims validates input/kernel shapes and derives the output size.
func newConvDims(op string, input, kernel *tensor.RawTensor, stride, padding int) convDims {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("%s: input must be 4D [N,C,H,W], got %dD", op, len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("%s: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", op, len(kernelShape)))
	}
	if inputShape[1] != kernelShape[1] {
		panic(fmt.Sprintf("%s: input channels %d != kernel channels %d", op, inputShape[1], kernelShape[1]))
	}

	d := convDims{
		N: inputShape[0], CIn: inputShape[1], H: inputShape[2], W: inputShape[3],
		COut: kernelShape[0], KH: kernelShape[2], KW: kernelShape[3],
		stride: stride, padding: padding,
	}
	d.HOut = (d.H+2*padding-d.KH)/stride + 1
	d.WOut = (d.W+2*padding-d.KW)/stride + 1

	if d.HOut <= 0 || d.WOut <= 0 {
		panic(fmt.Sprintf("%s: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", op, d.HOut, d.WOut))
	}
	return d
}

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape:  [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Each output position is a dot product between one kernel row and one
// im2col column, so the convolution becomes a matrix product.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	d := newConvDims("conv2d", input, kernel, stride, padding)

	output := tensor.MustRaw(tensor.Shape{d.N, d.COut, d.HOut, d.WOut}, cpu.device)
	outData := output.AsFloat32()
	kernelData := kernel.AsFloat32()

	colWidth := d.CIn * d.KH * d.KW
	spatial := d.HOut * d.WOut
	col := make([]float32, spatial*colWidth)

	for n := 0; n < d.N; n++ {
		im2col(col, input.AsFloat32(), n, d)

		for c := 0; c < d.COut; c++ {
			kRow := kernelData[c*colWidth : (c+1)*colWidth]
			dst := outData[(n*d.COut+c)*spatial : (n*d.COut+c+1)*spatial]
			for p := 0; p < spatial; p++ {
				patch := col[p*colWidth : (p+1)*colWidth]
				var sum float32
				for k, kv := range kRow {
					sum += kv * patch[k]
				}
				dst[p] = sum
			}
		}
	}

	return output
}

// im2col unrolls every receptive field of batch element n into a row of col.
// col layout: [H_out * W_out, C_in * K_h * K_w]; padded positions are zero.
func im2col(col, input []float32, n int, d convDims) {
	colWidth := d.CIn * d.KH * d.KW
	plane := d.H * d.W
	base := n * d.CIn * plane

	for oh := 0; oh < d.HOut; oh++ {
		for ow := 0; ow < d.WOut; ow++ {
			row := col[(oh*d.WOut+ow)*colWidth : (oh*d.WOut+ow+1)*colWidth]
			k := 0
			for c := 0; c < d.CIn; c++ {
				for kh := 0; kh < d.KH; kh++ {
					h := oh*d.stride - d.padding + kh
					for kw := 0; kw < d.KW; kw++ {
						w := ow*d.stride - d.padding + kw
						if h >= 0 && h < d.H && w >= 0 && w < d.W {
							row[k] = input[base+c*plane+h*d.W+w]
						} else {
							row[k] = 0
						}
						k++
					}
				}
			}
		}
	}
}

// Conv2DInputBackward computes the gradient w.r.t. the convolution input
// (a transposed convolution of grad with kernel).
func (cpu *CPUBackend) Conv2DInputBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	d := newConvDims("conv2d input backward", input, kernel, stride, padding)
	checkGradShape("conv2d input backward", grad, tensor.Shape{d.N, d.COut, d.HOut, d.WOut})

	inputGrad := tensor.MustRaw(input.Shape(), cpu.device)
	inGrad := inputGrad.AsFloat32()
	gradData := grad.AsFloat32()
	kernelData := kernel.AsFloat32()

	for n := 0; n < d.N; n++ {
		for co := 0; co < d.COut; co++ {
			for oh := 0; oh < d.HOut; oh++ {
				for ow := 0; ow < d.WOut; ow++ {
					g := gradData[((n*d.COut+co)*d.HOut+oh)*d.WOut+ow]
					if g == 0 {
						continue
					}
					for ci := 0; ci < d.CIn; ci++ {
						kBase := (co*d.CIn + ci) * d.KH * d.KW
						iBase := (n*d.CIn + ci) * d.H * d.W
						for kh := 0; kh < d.KH; kh++ {
							h := oh*d.stride - d.padding + kh
							if h < 0 || h >= d.H {
								continue
							}
							for kw := 0; kw < d.KW; kw++ {
								w := ow*d.stride - d.padding + kw
								if w < 0 || w >= d.W {
									continue
								}
								inGrad[iBase+h*d.W+w] += g * kernelData[kBase+kh*d.KW+kw]
							}
						}
					}
				}
			}
		}
	}

	return inputGrad
}

// Conv2DKernelBackward computes the gradient w.r.t. the convolution kernel
// (a convolution of input with grad).
func (cpu *CPUBackend) Conv2DKernelBackward(input, kernel, grad *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	d := newConvDims("conv2d kernel backward", input, kernel, stride, padding)
	checkGradShape("conv2d kernel backward", grad, tensor.Shape{d.N, d.COut, d.HOut, d.WOut})

	kernelGrad := tensor.MustRaw(kernel.Shape(), cpu.device)
	kGrad := kernelGrad.AsFloat32()
	gradData := grad.AsFloat32()
	inputData := input.AsFloat32()

	for co := 0; co < d.COut; co++ {
		for ci := 0; ci < d.CIn; ci++ {
			for kh := 0; kh < d.KH; kh++ {
				for kw := 0; kw < d.KW; kw++ {
					var sum float32
					for n := 0; n < d.N; n++ {
						gBase := (n*d.COut + co) * d.HOut * d.WOut
						iBase := (n*d.CIn + ci) * d.H * d.W
						for oh := 0; oh < d.HOut; oh++ {
							h := oh*d.stride - d.padding + kh
							if h < 0 || h >= d.H {
								continue
							}
							for ow := 0; ow < d.WOut; ow++ {
								w := ow*d.stride - d.padding + kw
								if w < 0 || w >= d.W {
									continue
								}
								sum += inputData[iBase+h*d.W+w] * gradData[gBase+oh*d.WOut+ow]
							}
						}
					}
					kGrad[((co*d.CIn+ci)*d.KH+kh)*d.KW+kw] = sum
				}
			}
		}
	}

	return kernelGrad
}

func checkGradShape(op string, grad *tensor.RawTensor, want tensor.Shape) {
	if !grad.Shape().Equal(want) {
		panic(fmt.Sprintf("%s: gradient shape %v, expected %v", op, grad.Shape(), want))
	}
}
