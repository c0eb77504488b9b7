package postprocess

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/frame"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newFrame(
	t *testing.T,
	width, height int,
	pixFmt frame.PixelFormat,
	colorRange frame.ColorRange,
	fill func(plane, x, y int) uint8,
) *frame.Frame {
	f := &frame.Frame{}
	require.NoError(t, f.Allocate(width, height, pixFmt))
	f.ColorRange = colorRange
	for plane, l := range pixFmt.PlaneLayouts(width, height) {
		for y := 0; y < l.Rows; y++ {
			row := f.Row(plane, y)
			for x := range row {
				row[x] = fill(plane, x, y)
			}
		}
	}
	return f
}

func markerFrame(t *testing.T, width, height int) *frame.Frame {
	return newFrame(t, width, height, frame.PixelFormatGray8, frame.ColorRangeFull, func(_, x, y int) uint8 {
		if x == 0 && y == 0 {
			return 0xff
		}
		return 0
	})
}

func requireMarkerAtBottomLeft(t *testing.T, buf *Buffer) {
	lastRow := buf.Pix[(buf.Height-1)*buf.Stride:]
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, lastRow[:4])
	require.Equal(t, []byte{0, 0, 0, 0xff}, lastRow[4:8])
	require.Equal(t, []byte{0, 0, 0, 0xff}, buf.Pix[:4])

	img := buf.ToRGBA()
	require.Equal(t, []byte{0xff, 0xff, 0xff, 0xff}, img.Pix[:4])
}

func TestProcessFlipDirect(t *testing.T) {
	ctx := context.Background()
	dst, err := NewBuffer(8, 4)
	require.NoError(t, err)
	require.Equal(t, PaddedStride(8), dst.Stride)

	p := NewProcessor(Options{})
	defer p.Close()
	report, err := p.Process(ctx, markerFrame(t, 8, 4), dst)
	require.NoError(t, err)
	require.True(t, report.DirectFlip)
	requireMarkerAtBottomLeft(t, dst)
}

func TestProcessFlipWithCopy(t *testing.T) {
	ctx := context.Background()
	for _, stride := range []int{3 * 4, 3*4 + 4} {
		dst := &Buffer{Width: 3, Height: 5, Stride: stride, Pix: make([]byte, stride*5)}

		p := NewProcessor(Options{Threads: 2})
		report, err := p.Process(ctx, markerFrame(t, 3, 5), dst)
		p.Close()
		require.NoError(t, err)
		require.False(t, report.DirectFlip)
		requireMarkerAtBottomLeft(t, dst)
	}
}

func TestProcessMissingPlanes(t *testing.T) {
	ctx := context.Background()
	src := markerFrame(t, 4, 4)
	src.Planes[0] = nil

	dst, err := NewBuffer(4, 4)
	require.NoError(t, err)
	dst.Pix[0] = 42

	_, err = NewProcessor(Options{}).Process(ctx, src, dst)
	require.True(t, errors.As(err, &ErrMissingPlanes{}), err)
	require.Equal(t, byte(42), dst.Pix[0], "the destination must stay untouched")
}

func TestProcessInvalidDestination(t *testing.T) {
	ctx := context.Background()
	_, err := NewProcessor(Options{}).Process(ctx, markerFrame(t, 4, 4), &Buffer{Width: 4, Height: 4, Stride: 8})
	require.Error(t, err)
}

func TestProcessYUV(t *testing.T) {
	ctx := context.Background()
	for _, tc := range []struct {
		pixFmt     frame.PixelFormat
		colorRange frame.ColorRange
		luma       uint8
		expected   uint8
	}{
		{frame.PixelFormatYUV420P, frame.ColorRangeFull, 200, 200},
		{frame.PixelFormatYUV422P, frame.ColorRangeFull, 10, 10},
		{frame.PixelFormatYUV444P, frame.ColorRangeLimited, 235, 255},
		{frame.PixelFormatYUV420P, frame.ColorRangeLimited, 16, 0},
		{frame.PixelFormatNV12, frame.ColorRangeFull, 50, 50},
	} {
		t.Run(tc.pixFmt.String(), func(t *testing.T) {
			src := newFrame(t, 6, 4, tc.pixFmt, tc.colorRange, func(plane, _, _ int) uint8 {
				if plane == 0 {
					return tc.luma
				}
				return 128
			})
			dst, err := NewBuffer(6, 4)
			require.NoError(t, err)
			_, err = NewProcessor(Options{}).Process(ctx, src, dst)
			require.NoError(t, err)
			for y := 0; y < dst.Height; y++ {
				row := dst.Row(y)
				for x := 0; x < dst.Width; x++ {
					require.Equal(t, []byte{tc.expected, tc.expected, tc.expected, 0xff}, row[x*4:x*4+4])
				}
			}
		})
	}
}

func TestProcessDeinterlace(t *testing.T) {
	ctx := context.Background()
	combed := func(_, _, y int) uint8 {
		if y%2 == 0 {
			return 200
		}
		return 0
	}

	src := newFrame(t, 4, 4, frame.PixelFormatGray8, frame.ColorRangeFull, combed)
	dst, err := NewBuffer(4, 4)
	require.NoError(t, err)
	p := NewProcessor(Options{Deinterlace: true})
	defer p.Close()
	report, err := p.Process(ctx, src, dst)
	require.NoError(t, err)
	require.True(t, report.Deinterlaced)
	require.False(t, report.FilteredY)
	// the top field is kept, the bottom field is filtered
	require.Equal(t, byte(200), dst.Row(3)[0])
	require.Equal(t, byte(175), dst.Row(2)[0])
	require.Equal(t, byte(200), dst.Row(1)[0])
	require.Equal(t, byte(100), dst.Row(0)[0])
}

func TestDeinterlaceKernel(t *testing.T) {
	column := []uint8{10, 50, 30, 90, 70, 20, 60, 40}
	src := newFrame(t, 4, len(column), frame.PixelFormatGray8, frame.ColorRangeFull, func(_, _, y int) uint8 {
		return column[y]
	})
	src.Interlaced = true
	src.PTS = 42

	var dst frame.Frame
	require.NoError(t, deinterlace(&dst, src))
	require.False(t, dst.Interlaced)
	require.Equal(t, int64(42), dst.PTS)

	var got []uint8
	for y := 0; y < dst.Height; y++ {
		got = append(got, dst.Row(0, y)[3])
	}
	require.Equal(t, []uint8{10, 20, 30, 64, 70, 54, 60, 53}, got)

	clipped := newFrame(t, 4, 4, frame.PixelFormatGray8, frame.ColorRangeFull, func(_, _, y int) uint8 {
		return []uint8{255, 255, 255, 0}[y]
	})
	require.NoError(t, deinterlace(&dst, clipped))
	require.Equal(t, uint8(255), dst.Row(0, 1)[0])
}

func TestDeinterlaceUnsupported(t *testing.T) {
	var dst frame.Frame
	err := deinterlace(&dst, newFrame(t, 6, 6, frame.PixelFormatGray8, frame.ColorRangeFull, func(_, _, _ int) uint8 { return 0 }))
	require.True(t, errors.As(err, &ErrDeinterlaceUnsupported{}), err)
	err = deinterlace(&dst, newFrame(t, 4, 4, frame.PixelFormatRGBA, frame.ColorRangeFull, func(_, _, _ int) uint8 { return 0 }))
	require.True(t, errors.As(err, &ErrDeinterlaceUnsupported{}), err)
}

func TestProcessDeinterlaceFallbackFilter(t *testing.T) {
	ctx := context.Background()
	combed := func(_, _, y int) uint8 {
		if y%2 == 0 {
			return 200
		}
		return 0
	}

	src := newFrame(t, 6, 6, frame.PixelFormatGray8, frame.ColorRangeFull, combed)
	dst, err := NewBuffer(6, 6)
	require.NoError(t, err)
	p := NewProcessor(Options{Deinterlace: true})
	defer p.Close()
	report, err := p.Process(ctx, src, dst)
	require.NoError(t, err)
	require.False(t, report.Deinterlaced)
	require.True(t, report.FilteredY)
	for y := 1; y < dst.Height-1; y++ {
		row := dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			require.Equal(t, []byte{100, 100, 100, 0xff}, row[x*4:x*4+4], "row %d", y)
		}
	}
}

func TestProcessScaled(t *testing.T) {
	ctx := context.Background()
	src := newFrame(t, 2, 2, frame.PixelFormatGray8, frame.ColorRangeFull, func(_, _, _ int) uint8 { return 100 })
	dst, err := NewBuffer(4, 4)
	require.NoError(t, err)

	p := NewProcessor(Options{})
	defer p.Close()
	report, err := p.Process(ctx, src, dst)
	require.NoError(t, err)
	require.True(t, report.Scaled)
	for y := 0; y < dst.Height; y++ {
		row := dst.Row(y)
		for x := 0; x < dst.Width; x++ {
			require.InDelta(t, 100, int(row[x*4]), 1)
			require.Equal(t, byte(0xff), row[x*4+3])
		}
	}
}
