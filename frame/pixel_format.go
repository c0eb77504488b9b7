package frame

import (
	"fmt"
)

type PixelFormat int

const (
	PixelFormatNone = PixelFormat(iota)
	PixelFormatYUV420P
	PixelFormatYUV422P
	PixelFormatYUV444P
	PixelFormatNV12
	PixelFormatGray8
	PixelFormatRGB24
	PixelFormatRGBA
	endOfPixelFormat
)

func (pf PixelFormat) String() string {
	switch pf {
	case PixelFormatNone:
		return "none"
	case PixelFormatYUV420P:
		return "yuv420p"
	case PixelFormatYUV422P:
		return "yuv422p"
	case PixelFormatYUV444P:
		return "yuv444p"
	case PixelFormatNV12:
		return "nv12"
	case PixelFormatGray8:
		return "gray"
	case PixelFormatRGB24:
		return "rgb24"
	case PixelFormatRGBA:
		return "rgba"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int(pf))
	}
}

func (pf PixelFormat) IsValid() bool {
	return pf > PixelFormatNone && pf < endOfPixelFormat
}

// IsYUV reports whether the format stores luma and chroma separately.
func (pf PixelFormat) IsYUV() bool {
	switch pf {
	case PixelFormatYUV420P, PixelFormatYUV422P, PixelFormatYUV444P, PixelFormatNV12:
		return true
	}
	return false
}

func (pf PixelFormat) PlanesCount() int {
	switch pf {
	case PixelFormatYUV420P, PixelFormatYUV422P, PixelFormatYUV444P:
		return 3
	case PixelFormatNV12:
		return 2
	case PixelFormatGray8, PixelFormatRGB24, PixelFormatRGBA:
		return 1
	}
	return 0
}

// ChromaShift returns log2 of the horizontal and vertical chroma subsampling.
func (pf PixelFormat) ChromaShift() (int, int) {
	switch pf {
	case PixelFormatYUV420P, PixelFormatNV12:
		return 1, 1
	case PixelFormatYUV422P:
		return 1, 0
	}
	return 0, 0
}

// PlaneLayout describes the tightly packed geometry of one plane.
type PlaneLayout struct {
	// BytesPerRow is the amount of meaningful bytes in a row.
	BytesPerRow int
	Rows        int
}

// PlaneLayouts returns the tightly packed layout of every plane of
// a width x height picture.
func (pf PixelFormat) PlaneLayouts(width, height int) []PlaneLayout {
	shiftX, shiftY := pf.ChromaShift()
	chromaW := (width + (1 << shiftX) - 1) >> shiftX
	chromaH := (height + (1 << shiftY) - 1) >> shiftY
	switch pf {
	case PixelFormatYUV420P, PixelFormatYUV422P, PixelFormatYUV444P:
		return []PlaneLayout{
			{BytesPerRow: width, Rows: height},
			{BytesPerRow: chromaW, Rows: chromaH},
			{BytesPerRow: chromaW, Rows: chromaH},
		}
	case PixelFormatNV12:
		return []PlaneLayout{
			{BytesPerRow: width, Rows: height},
			{BytesPerRow: chromaW * 2, Rows: chromaH},
		}
	case PixelFormatGray8:
		return []PlaneLayout{{BytesPerRow: width, Rows: height}}
	case PixelFormatRGB24:
		return []PlaneLayout{{BytesPerRow: width * 3, Rows: height}}
	case PixelFormatRGBA:
		return []PlaneLayout{{BytesPerRow: width * 4, Rows: height}}
	}
	return nil
}

// BufferSize returns the size of a tightly packed picture (align 1).
func (pf PixelFormat) BufferSize(width, height int) int {
	var size int
	for _, l := range pf.PlaneLayouts(width, height) {
		size += l.BytesPerRow * l.Rows
	}
	return size
}
