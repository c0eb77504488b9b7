package postprocess

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/avanim/frame"
	"golang.org/x/sync/errgroup"
)

// convert writes every row of src (top to bottom) as RGBA into the slice
// returned by rowDst for that row. Rows are converted by parallel bands.
func convert(
	ctx context.Context,
	src *frame.Frame,
	threads int,
	rowDst func(y int) []byte,
) error {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	threads = max(min(threads, src.Height), 1)
	rowsPerBand := (src.Height + threads - 1) / threads

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for start := 0; start < src.Height; start += rowsPerBand {
		end := min(start+rowsPerBand, src.Height)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			for y := start; y < end; y++ {
				convertRow(src, y, rowDst(y))
			}
			return nil
		})
	}
	return g.Wait()
}

func planeRow(f *frame.Frame, plane, y int) []byte {
	return f.Planes[plane][y*f.Linesize[plane]:]
}

func convertRow(src *frame.Frame, y int, dst []byte) {
	width := src.Width
	switch src.PixelFormat {
	case frame.PixelFormatRGBA:
		copy(dst[:width*4], planeRow(src, 0, y))
	case frame.PixelFormatRGB24:
		row := planeRow(src, 0, y)
		for x := 0; x < width; x++ {
			dst[x*4+0] = row[x*3+0]
			dst[x*4+1] = row[x*3+1]
			dst[x*4+2] = row[x*3+2]
			dst[x*4+3] = 0xff
		}
	case frame.PixelFormatGray8:
		row := planeRow(src, 0, y)
		coeffs := yuvToRGBCoefficients(src.ColorMatrix, src.ColorRange)
		for x := 0; x < width; x++ {
			v := coeffs.luma(row[x])
			dst[x*4+0], dst[x*4+1], dst[x*4+2], dst[x*4+3] = v, v, v, 0xff
		}
	default:
		convertYUVRow(src, y, dst)
	}
}

func convertYUVRow(src *frame.Frame, y int, dst []byte) {
	shiftX, shiftY := src.PixelFormat.ChromaShift()
	coeffs := yuvToRGBCoefficients(src.ColorMatrix, src.ColorRange)
	lumaRow := planeRow(src, 0, y)
	chromaY := y >> shiftY

	var cbRow, crRow []byte
	interleaved := src.PixelFormat == frame.PixelFormatNV12
	if interleaved {
		cbRow = planeRow(src, 1, chromaY)
	} else {
		cbRow = planeRow(src, 1, chromaY)
		crRow = planeRow(src, 2, chromaY)
	}

	for x := 0; x < src.Width; x++ {
		chromaX := x >> shiftX
		var cb, cr uint8
		if interleaved {
			cb, cr = cbRow[chromaX*2], cbRow[chromaX*2+1]
		} else {
			cb, cr = cbRow[chromaX], crRow[chromaX]
		}
		r, g, b := coeffs.rgb(lumaRow[x], cb, cr)
		dst[x*4+0], dst[x*4+1], dst[x*4+2], dst[x*4+3] = r, g, b, 0xff
	}
}

func clampUint8(v int32) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 0xff:
		return 0xff
	default:
		return uint8(v)
	}
}
