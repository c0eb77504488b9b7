package frame

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaneLayouts(t *testing.T) {
	require.Equal(t, []PlaneLayout{{5, 3}, {3, 2}, {3, 2}}, PixelFormatYUV420P.PlaneLayouts(5, 3))
	require.Equal(t, []PlaneLayout{{4, 2}, {4, 1}}, PixelFormatNV12.PlaneLayouts(4, 2))
	require.Equal(t, []PlaneLayout{{8, 2}, {4, 2}, {4, 2}}, PixelFormatYUV422P.PlaneLayouts(8, 2))
	require.Equal(t, 5*3+3*2*2, PixelFormatYUV420P.BufferSize(5, 3))
	require.Equal(t, 4*4*2, PixelFormatRGBA.BufferSize(4, 2))
	require.Nil(t, PixelFormatNone.PlaneLayouts(4, 2))
}

func TestFrameHasMissingPlanes(t *testing.T) {
	var f Frame
	require.True(t, f.HasMissingPlanes())

	require.NoError(t, f.Allocate(4, 4, PixelFormatYUV420P))
	require.False(t, f.HasMissingPlanes())

	f.Planes[2] = nil
	require.True(t, f.HasMissingPlanes())

	require.NoError(t, f.Allocate(4, 4, PixelFormatYUV420P))
	f.Planes[0] = f.Planes[0][:3]
	require.True(t, f.HasMissingPlanes())

	var nilFrame *Frame
	require.True(t, nilFrame.HasMissingPlanes())
}

func TestFrameCopyFrom(t *testing.T) {
	src := &Frame{}
	require.NoError(t, src.Allocate(3, 2, PixelFormatGray8))
	copy(src.Planes[0], []byte{1, 2, 3, 4, 5, 6})
	src.PTS = 42
	src.KeyFrame = true
	src.ColorMatrix = ColorMatrixBT709
	src.HasAlpha = true

	dst, err := Clone(src)
	require.NoError(t, err)
	require.Equal(t, []byte{4, 5, 6}, dst.Row(0, 1))
	require.Equal(t, int64(42), dst.PTS)
	require.True(t, dst.KeyFrame)
	require.Equal(t, ColorMatrixBT709, dst.ColorMatrix)
	require.True(t, dst.HasAlpha)

	src.Planes[0][0] = 100
	require.Equal(t, byte(1), dst.Row(0, 0)[0])

	dst.Reset()
	require.True(t, dst.HasMissingPlanes())
	require.Zero(t, dst.PTS)
	Pool.Put(dst)
}

func TestFrameAllocateInvalid(t *testing.T) {
	var f Frame
	require.Error(t, f.Allocate(0, 4, PixelFormatGray8))
	require.Error(t, f.Allocate(4, 4, PixelFormatNone))
}
