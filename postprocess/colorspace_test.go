package postprocess

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/frame"
)

func convertPixel(
	t *testing.T,
	pixFmt frame.PixelFormat,
	matrix frame.ColorMatrix,
	colorRange frame.ColorRange,
	sample [3]uint8,
) []byte {
	src := newFrame(t, 4, 2, pixFmt, colorRange, func(plane, _, _ int) uint8 {
		return sample[plane]
	})
	src.ColorMatrix = matrix
	dst, err := NewBuffer(4, 2)
	require.NoError(t, err)
	p := NewProcessor(Options{Threads: 1})
	defer p.Close()
	_, err = p.Process(context.Background(), src, dst)
	require.NoError(t, err)
	return dst.Row(0)[:4]
}

func TestConvertColorMatrix(t *testing.T) {
	green := [3]uint8{173, 42, 26}
	red := [3]uint8{63, 102, 240}

	require.Equal(t, []byte{0, 255, 1, 255},
		convertPixel(t, frame.PixelFormatYUV444P, frame.ColorMatrixBT709, frame.ColorRangeLimited, green))
	require.Equal(t, []byte{255, 1, 0, 255},
		convertPixel(t, frame.PixelFormatYUV444P, frame.ColorMatrixBT709, frame.ColorRangeLimited, red))

	// the same samples read as BT.601 are visibly off
	bt601 := convertPixel(t, frame.PixelFormatYUV444P, frame.ColorMatrixBT601, frame.ColorRangeLimited, green)
	require.Greater(t, bt601[0], uint8(15))

	unspecified := convertPixel(t, frame.PixelFormatYUV444P, frame.ColorMatrixUnspecified, frame.ColorRangeLimited, green)
	require.Equal(t, bt601, unspecified)
}

func TestConvertUnspecifiedRangeIsLimited(t *testing.T) {
	for _, pixFmt := range []frame.PixelFormat{frame.PixelFormatGray8, frame.PixelFormatYUV444P} {
		t.Run(pixFmt.String(), func(t *testing.T) {
			for luma, expected := range map[uint8]uint8{16: 0, 235: 255} {
				sample := [3]uint8{luma, 128, 128}
				require.Equal(t,
					convertPixel(t, pixFmt, frame.ColorMatrixBT709, frame.ColorRangeLimited, sample),
					convertPixel(t, pixFmt, frame.ColorMatrixBT709, frame.ColorRangeUnspecified, sample),
				)
				require.Equal(t, []byte{expected, expected, expected, 255},
					convertPixel(t, pixFmt, frame.ColorMatrixBT709, frame.ColorRangeUnspecified, sample))
			}
			require.Equal(t, []byte{16, 16, 16, 255},
				convertPixel(t, pixFmt, frame.ColorMatrixBT709, frame.ColorRangeFull, [3]uint8{16, 128, 128}))
		})
	}
}
