package avconv

import (
	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avanim/frame"
)

// PixelFormat returns the frame.PixelFormat with the same memory layout as
// pixFmt, and frame.PixelFormatNone if there is none. Full-range "J"
// variants are reported through forceFullRange.
func PixelFormat(pixFmt astiav.PixelFormat) (_ frame.PixelFormat, forceFullRange bool) {
	switch pixFmt {
	case astiav.PixelFormatYuv420P:
		return frame.PixelFormatYUV420P, false
	case astiav.PixelFormatYuvj420P:
		return frame.PixelFormatYUV420P, true
	case astiav.PixelFormatYuv422P:
		return frame.PixelFormatYUV422P, false
	case astiav.PixelFormatYuvj422P:
		return frame.PixelFormatYUV422P, true
	case astiav.PixelFormatYuv444P:
		return frame.PixelFormatYUV444P, false
	case astiav.PixelFormatYuvj444P:
		return frame.PixelFormatYUV444P, true
	case astiav.PixelFormatNv12:
		return frame.PixelFormatNV12, false
	case astiav.PixelFormatGray8:
		return frame.PixelFormatGray8, false
	case astiav.PixelFormatRgb24:
		return frame.PixelFormatRGB24, false
	case astiav.PixelFormatRgba:
		return frame.PixelFormatRGBA, false
	}
	return frame.PixelFormatNone, false
}

func ColorRange(r astiav.ColorRange) frame.ColorRange {
	switch r {
	case astiav.ColorRangeMpeg:
		return frame.ColorRangeLimited
	case astiav.ColorRangeJpeg:
		return frame.ColorRangeFull
	}
	return frame.ColorRangeUnspecified
}

// ColorMatrix returns the YCbCr matrix libswscale picks for cs
// (sws_getCoefficients): everything it has no table for is BT.601.
func ColorMatrix(cs astiav.ColorSpace) frame.ColorMatrix {
	switch cs {
	case astiav.ColorSpaceBt709:
		return frame.ColorMatrixBT709
	case astiav.ColorSpaceBt470Bg, astiav.ColorSpaceSmpte170M:
		return frame.ColorMatrixBT601
	case astiav.ColorSpaceFcc:
		return frame.ColorMatrixFCC
	case astiav.ColorSpaceSmpte240M:
		return frame.ColorMatrixSMPTE240M
	case astiav.ColorSpaceBt2020Ncl, astiav.ColorSpaceBt2020Cl:
		return frame.ColorMatrixBT2020
	}
	return frame.ColorMatrixUnspecified
}
