// processor.go implements the conversion of decoded frames into
// caller-provided RGBA buffers.

// Package postprocess turns decoded frames into bottom-up RGBA pictures:
// optional deinterlacing, colour conversion, scaling and the vertical flip.
package postprocess

import (
	"context"
	"fmt"
	"image"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/logger"
	"golang.org/x/image/draw"
)

// ErrMissingPlanes means the frame was not decoded properly.
type ErrMissingPlanes struct {
	Frame string
}

func (e ErrMissingPlanes) Error() string {
	return fmt.Sprintf("the frame has missing planes, data was not read properly: %s", e.Frame)
}

type Options struct {
	Deinterlace bool

	// Threads limits the amount of goroutines converting a picture;
	// zero means GOMAXPROCS.
	Threads int
}

// Report tells what Process did.
type Report struct {
	Deinterlaced bool
	FilteredY    bool
	Scaled       bool

	// DirectFlip means the picture was converted directly into the
	// destination, flipping it on the fly, without an intermediate copy.
	DirectFlip bool
}

// Processor keeps the scratch buffers between calls; it is not safe for
// concurrent use.
type Processor struct {
	Options Options

	deinterlaced *frame.Frame
	intermediate []byte
	scaledSrc    *image.RGBA
	scaledDst    *image.RGBA
}

func NewProcessor(opts Options) *Processor {
	return &Processor{
		Options: opts,
	}
}

// Process writes src into dst as a bottom-up RGBA picture. The source is
// scaled if its resolution differs from dst.
func (p *Processor) Process(
	ctx context.Context,
	src *frame.Frame,
	dst *Buffer,
) (_ret Report, _err error) {
	logger.Tracef(ctx, "Process")
	defer func() { logger.Tracef(ctx, "/Process: %#+v %v", _ret, _err) }()

	if err := dst.validate(); err != nil {
		return Report{}, err
	}
	if src.HasMissingPlanes() {
		return Report{}, ErrMissingPlanes{Frame: src.String()}
	}
	logger.Debugf(ctx, "POSTPROC: %s", src)

	var report Report
	input := src
	if p.Options.Deinterlace {
		if p.deinterlaced == nil {
			p.deinterlaced = frame.Pool.Get()
		}
		if err := deinterlace(p.deinterlaced, src); err != nil {
			logger.Debugf(ctx, "falling back to filtering: %v", err)
			report.FilteredY = true
		} else {
			input = p.deinterlaced
			report.Deinterlaced = true
		}
	}

	if input.Width != dst.Width || input.Height != dst.Height {
		scaled, err := p.scale(ctx, input, dst.Width, dst.Height)
		if err != nil {
			return Report{}, fmt.Errorf("unable to scale %dx%d to %dx%d: %w", input.Width, input.Height, dst.Width, dst.Height, err)
		}
		input = scaled
		report.Scaled = true
	}

	rgbStride := PaddedStride(dst.Width)
	if dst.Stride == rgbStride {
		report.DirectFlip = true
		err := convert(ctx, input, p.Options.Threads, func(y int) []byte {
			return dst.Pix[(dst.Height-1-y)*dst.Stride:]
		})
		if err != nil {
			return Report{}, fmt.Errorf("unable to convert the picture: %w", err)
		}
	} else {
		size := rgbStride * dst.Height
		if cap(p.intermediate) < size {
			logger.Debugf(ctx, "allocating an intermediate buffer of %s", humanize.Bytes(uint64(size)))
			p.intermediate = make([]byte, size)
		}
		p.intermediate = p.intermediate[:size]
		err := convert(ctx, input, p.Options.Threads, func(y int) []byte {
			return p.intermediate[y*rgbStride:]
		})
		if err != nil {
			return Report{}, fmt.Errorf("unable to convert the picture: %w", err)
		}
		rowSize := dst.Width * 4
		for y := 0; y < dst.Height; y++ {
			copy(dst.Row(dst.Height-1-y), p.intermediate[y*rgbStride:y*rgbStride+rowSize])
		}
	}

	if report.FilteredY {
		filterY(dst)
	}
	return report, nil
}

func (p *Processor) scale(
	ctx context.Context,
	src *frame.Frame,
	width, height int,
) (*frame.Frame, error) {
	srcRect := image.Rect(0, 0, src.Width, src.Height)
	if p.scaledSrc == nil || p.scaledSrc.Rect != srcRect {
		p.scaledSrc = image.NewRGBA(srcRect)
	}
	err := convert(ctx, src, p.Options.Threads, func(y int) []byte {
		return p.scaledSrc.Pix[y*p.scaledSrc.Stride:]
	})
	if err != nil {
		return nil, err
	}

	dstRect := image.Rect(0, 0, width, height)
	if p.scaledDst == nil || p.scaledDst.Rect != dstRect {
		p.scaledDst = image.NewRGBA(dstRect)
	}
	draw.ApproxBiLinear.Scale(p.scaledDst, dstRect, p.scaledSrc, srcRect, draw.Src, nil)

	return &frame.Frame{
		Width:       width,
		Height:      height,
		PixelFormat: frame.PixelFormatRGBA,
		Planes:      [4][]byte{p.scaledDst.Pix},
		Linesize:    [4]int{p.scaledDst.Stride},
		PTS:         src.PTS,
		Duration:    src.Duration,
		KeyFrame:    src.KeyFrame,
	}, nil
}

// Close releases the scratch buffers.
func (p *Processor) Close() {
	frame.Pool.Put(p.deinterlaced)
	p.deinterlaced = nil
	p.intermediate = nil
	p.scaledSrc = nil
	p.scaledDst = nil
}
