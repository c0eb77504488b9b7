// frame.go defines a decoded picture independent of the decoder library.

// Package frame provides the decoded-picture type avanim operates on.
package frame

import (
	"fmt"
)

type ColorRange int

const (
	ColorRangeUnspecified = ColorRange(iota)
	ColorRangeLimited
	ColorRangeFull
)

// ColorMatrix is the YCbCr to RGB matrix of the picture.
type ColorMatrix int

const (
	ColorMatrixUnspecified = ColorMatrix(iota)
	ColorMatrixBT601
	ColorMatrixBT709
	ColorMatrixFCC
	ColorMatrixSMPTE240M
	ColorMatrixBT2020
)

func (m ColorMatrix) String() string {
	switch m {
	case ColorMatrixUnspecified:
		return "unspecified"
	case ColorMatrixBT601:
		return "bt601"
	case ColorMatrixBT709:
		return "bt709"
	case ColorMatrixFCC:
		return "fcc"
	case ColorMatrixSMPTE240M:
		return "smpte240m"
	case ColorMatrixBT2020:
		return "bt2020"
	default:
		return fmt.Sprintf("unknown_color_matrix_%d", int(m))
	}
}

// Frame is a decoded picture with its planes in the source pixel format.
type Frame struct {
	Width       int
	Height      int
	PixelFormat PixelFormat
	ColorRange  ColorRange
	ColorMatrix ColorMatrix

	// HasAlpha is set if the decoded pixel format carries an alpha
	// channel. Pictures converted to RGBA from formats without one have
	// an opaque filler alpha and keep it false.
	HasAlpha bool

	Planes   [4][]byte
	Linesize [4]int

	// PTS is the best-effort presentation timestamp in stream time-base units.
	PTS int64

	// Duration is in stream time-base units; zero if unknown.
	Duration int64

	KeyFrame   bool
	Interlaced bool
}

func (f *Frame) String() string {
	if f == nil {
		return "Frame(nil)"
	}
	return fmt.Sprintf(
		"Frame(%dx%d:%s, pts:%d, dur:%d, key:%t)",
		f.Width, f.Height, f.PixelFormat, f.PTS, f.Duration, f.KeyFrame,
	)
}

// HasMissingPlanes reports whether any plane the pixel format requires is
// absent (or too short), which means the picture was not decoded properly.
func (f *Frame) HasMissingPlanes() bool {
	if f == nil || !f.PixelFormat.IsValid() {
		return true
	}
	layouts := f.PixelFormat.PlaneLayouts(f.Width, f.Height)
	for idx, l := range layouts {
		plane := f.Planes[idx]
		if plane == nil {
			return true
		}
		if f.Linesize[idx] < l.BytesPerRow {
			return true
		}
		if l.Rows > 0 && len(plane) < f.Linesize[idx]*(l.Rows-1)+l.BytesPerRow {
			return true
		}
	}
	return false
}

// Row returns the meaningful bytes of row y of the given plane.
func (f *Frame) Row(plane, y int) []byte {
	l := f.PixelFormat.PlaneLayouts(f.Width, f.Height)[plane]
	offset := y * f.Linesize[plane]
	return f.Planes[plane][offset : offset+l.BytesPerRow]
}

// Allocate (re)initializes the frame as a tightly packed picture of the
// given geometry, reusing the already allocated plane memory if possible.
func (f *Frame) Allocate(width, height int, pixFmt PixelFormat) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", width, height)
	}
	if !pixFmt.IsValid() {
		return fmt.Errorf("invalid pixel format %s", pixFmt)
	}
	f.Width, f.Height, f.PixelFormat = width, height, pixFmt
	for idx := range f.Planes {
		f.Linesize[idx] = 0
	}
	for idx, l := range pixFmt.PlaneLayouts(width, height) {
		size := l.BytesPerRow * l.Rows
		if cap(f.Planes[idx]) >= size {
			f.Planes[idx] = f.Planes[idx][:size]
		} else {
			f.Planes[idx] = make([]byte, size)
		}
		f.Linesize[idx] = l.BytesPerRow
	}
	for idx := pixFmt.PlanesCount(); idx < len(f.Planes); idx++ {
		f.Planes[idx] = nil
	}
	return nil
}

// CopyFrom makes f a deep copy of src.
func (f *Frame) CopyFrom(src *Frame) error {
	if err := f.Allocate(src.Width, src.Height, src.PixelFormat); err != nil {
		return err
	}
	for idx, l := range src.PixelFormat.PlaneLayouts(src.Width, src.Height) {
		for y := 0; y < l.Rows; y++ {
			copy(f.Row(idx, y), src.Row(idx, y))
		}
	}
	f.CopyPropsFrom(src)
	return nil
}

// CopyPropsFrom copies everything except the picture data.
func (f *Frame) CopyPropsFrom(src *Frame) {
	f.ColorRange = src.ColorRange
	f.ColorMatrix = src.ColorMatrix
	f.HasAlpha = src.HasAlpha
	f.PTS = src.PTS
	f.Duration = src.Duration
	f.KeyFrame = src.KeyFrame
	f.Interlaced = src.Interlaced
}

// Reset forgets the picture but keeps the allocated memory.
func (f *Frame) Reset() {
	planes := f.Planes
	*f = Frame{}
	for idx := range planes {
		f.Planes[idx] = planes[idx][:0]
	}
}
