package postprocess

import (
	"fmt"
	"image"
)

// RowAlignment is the row alignment of the buffers produced by the
// conversion step.
const RowAlignment = 32

// PaddedStride is the row size the conversion step produces for a picture
// of the given width.
func PaddedStride(width int) int {
	return (width*4 + RowAlignment - 1) / RowAlignment * RowAlignment
}

// Buffer is an RGBA (4 bytes per pixel) picture stored bottom row first,
// so row 0 of Pix is the bottom row of the picture.
type Buffer struct {
	Width  int
	Height int
	Stride int
	Pix    []byte
}

// NewBuffer allocates a tightly packed Buffer.
func NewBuffer(width, height int) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid resolution %dx%d", width, height)
	}
	return &Buffer{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pix:    make([]byte, width*4*height),
	}, nil
}

func (b *Buffer) validate() error {
	if b == nil {
		return fmt.Errorf("no destination buffer")
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("invalid destination resolution %dx%d", b.Width, b.Height)
	}
	if b.Stride < b.Width*4 {
		return fmt.Errorf("destination stride %d is less than %d", b.Stride, b.Width*4)
	}
	if len(b.Pix) < b.Stride*(b.Height-1)+b.Width*4 {
		return fmt.Errorf("destination buffer is too small: %d", len(b.Pix))
	}
	return nil
}

// Row returns the pixels of row y counted from the bottom.
func (b *Buffer) Row(y int) []byte {
	return b.Pix[y*b.Stride : y*b.Stride+b.Width*4]
}

// ToRGBA returns a top-down copy of the picture.
func (b *Buffer) ToRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, b.Width, b.Height))
	for y := 0; y < b.Height; y++ {
		copy(img.Pix[y*img.Stride:], b.Row(b.Height-1-y))
	}
	return img
}
