package postprocess

import (
	"fmt"

	"github.com/xaionaro-go/avanim/frame"
)

type ErrDeinterlaceUnsupported struct {
	PixelFormat frame.PixelFormat
	Width       int
	Height      int
}

func (e ErrDeinterlaceUnsupported) Error() string {
	return fmt.Sprintf("unable to deinterlace a %dx%d %s picture", e.Width, e.Height, e.PixelFormat)
}

// deinterlace keeps the top field and rebuilds every bottom field row
// with the [-1 4 2 4 -1]/8 vertical filter (the av_image_deinterlace
// kernel), storing the result into dst. Only planar formats with both
// dimensions divisible by 4 are supported.
func deinterlace(dst, src *frame.Frame) error {
	switch src.PixelFormat {
	case frame.PixelFormatYUV420P, frame.PixelFormatYUV422P, frame.PixelFormatYUV444P, frame.PixelFormatGray8:
	default:
		return ErrDeinterlaceUnsupported{PixelFormat: src.PixelFormat, Width: src.Width, Height: src.Height}
	}
	if src.Width%4 != 0 || src.Height%4 != 0 {
		return ErrDeinterlaceUnsupported{PixelFormat: src.PixelFormat, Width: src.Width, Height: src.Height}
	}

	if err := dst.Allocate(src.Width, src.Height, src.PixelFormat); err != nil {
		return fmt.Errorf("unable to allocate the deinterlaced frame: %w", err)
	}
	dst.CopyPropsFrom(src)
	dst.Interlaced = false

	for plane, l := range src.PixelFormat.PlaneLayouts(src.Width, src.Height) {
		row := func(y int) []byte {
			return src.Row(plane, min(max(y, 0), l.Rows-1))
		}
		for y := 0; y < l.Rows; y++ {
			out := dst.Row(plane, y)
			if y%2 == 0 {
				copy(out, src.Row(plane, y))
				continue
			}
			m2, m1, cur, p1, p2 := row(y-2), row(y-1), row(y), row(y+1), row(y+2)
			for x := range out {
				sum := -int32(m2[x]) + 4*int32(m1[x]) + 2*int32(cur[x]) + 4*int32(p1[x]) - int32(p2[x])
				out[x] = clampUint8((sum + 4) >> 3)
			}
		}
	}
	return nil
}
