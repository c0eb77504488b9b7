package postprocess

import (
	"image"

	"github.com/anthonynsimon/bild/convolution"
)

var filterYKernel = func() convolution.Matrix {
	k := convolution.NewKernel(1, 3)
	copy(k.Matrix, []float64{1, 2, 1})
	return k.Normalized()
}()

// filterY smooths the picture across rows ([1 2 1]/4), hiding the combing
// of an interlaced picture which could not be deinterlaced.
func filterY(buf *Buffer) {
	img := &image.RGBA{
		Pix:    buf.Pix,
		Stride: buf.Stride,
		Rect:   image.Rect(0, 0, buf.Width, buf.Height),
	}
	filtered := convolution.Convolve(img, filterYKernel, &convolution.Options{KeepAlpha: true})
	for y := 0; y < buf.Height; y++ {
		copy(buf.Row(y), filtered.Pix[y*filtered.Stride:y*filtered.Stride+buf.Width*4])
	}
}
