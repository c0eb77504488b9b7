package avconv

import (
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/types"
)

func TestDuration(t *testing.T) {
	tb := astiav.NewRational(1, 1000)
	require.Equal(t, 1500*time.Millisecond, Duration(1500, tb))
	require.Zero(t, Duration(types.NoPTS, tb))
	require.Equal(t, int64(1500), FromDuration(1500*time.Millisecond, tb))
	require.Equal(t, 2*time.Second, DurationAVTimeBase(2_000_000))
	require.Zero(t, DurationAVTimeBase(types.NoPTS))
}

func TestRational(t *testing.T) {
	r := Rational(astiav.NewRational(30000, 1001))
	require.Equal(t, types.Rational{Num: 30000, Den: 1001}, r)
	back := RationalToAV(r)
	require.Equal(t, 30000, back.Num())
	require.Equal(t, 1001, back.Den())
}

func TestPixelFormat(t *testing.T) {
	pf, full := PixelFormat(astiav.PixelFormatYuvj420P)
	require.Equal(t, frame.PixelFormatYUV420P, pf)
	require.True(t, full)

	pf, full = PixelFormat(astiav.PixelFormatYuv420P)
	require.Equal(t, frame.PixelFormatYUV420P, pf)
	require.False(t, full)

	pf, _ = PixelFormat(astiav.PixelFormatNv12)
	require.Equal(t, frame.PixelFormatNV12, pf)

	pf, _ = PixelFormat(astiav.PixelFormatNone)
	require.Equal(t, frame.PixelFormatNone, pf)
}

func TestColorRange(t *testing.T) {
	require.Equal(t, frame.ColorRangeLimited, ColorRange(astiav.ColorRangeMpeg))
	require.Equal(t, frame.ColorRangeFull, ColorRange(astiav.ColorRangeJpeg))
	require.Equal(t, frame.ColorRangeUnspecified, ColorRange(astiav.ColorRange(0)))
}

func TestColorMatrix(t *testing.T) {
	require.Equal(t, frame.ColorMatrixBT709, ColorMatrix(astiav.ColorSpaceBt709))
	require.Equal(t, frame.ColorMatrixBT601, ColorMatrix(astiav.ColorSpaceSmpte170M))
	require.Equal(t, frame.ColorMatrixBT2020, ColorMatrix(astiav.ColorSpaceBt2020Ncl))
	require.Equal(t, frame.ColorMatrixUnspecified, ColorMatrix(astiav.ColorSpaceUnspecified))
}

func TestPixelFormatHasAlpha(t *testing.T) {
	require.True(t, PixelFormatHasAlpha(astiav.PixelFormatRgba))
	require.True(t, PixelFormatHasAlpha(astiav.PixelFormatYuva420P))
	require.False(t, PixelFormatHasAlpha(astiav.PixelFormatYuv420P))
	require.False(t, PixelFormatHasAlpha(astiav.PixelFormatRgb24))
	require.False(t, PixelFormatHasAlpha(astiav.PixelFormatNone))
}
