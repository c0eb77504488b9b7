package libav

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avanim/avconv"
	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/scaler"
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
)

type decoder struct {
	codecCtx  *astiav.CodecContext
	packet    *astiav.Packet
	frame     *astiav.Frame
	rgbaFrame *astiav.Frame
	scaler    *scaler.Software
	closer    *astikit.Closer

	// keepPlanar passes YCbCr pictures through unconverted, so that they
	// can be deinterlaced before the conversion to RGBA.
	keepPlanar bool

	scalerColorSpace astiav.ColorSpace
	scalerFullRange  bool
}

var _ source.Decoder = (*decoder)(nil)

func newDecoder(
	ctx context.Context,
	codecCtx *astiav.CodecContext,
	keepPlanar bool,
	closer *astikit.Closer,
) *decoder {
	d := &decoder{
		codecCtx:   codecCtx,
		packet:     astiav.AllocPacket(),
		frame:      astiav.AllocFrame(),
		rgbaFrame:  astiav.AllocFrame(),
		closer:     closer,
		keepPlanar: keepPlanar,
	}
	closer.Add(d.packet.Free)
	closer.Add(d.frame.Free)
	closer.Add(d.rgbaFrame.Free)
	closer.Add(func() {
		if d.scaler != nil {
			_ = d.scaler.Close(ctx)
		}
	})
	return d
}

func (d *decoder) SendPacket(ctx context.Context, pkt *source.Packet) error {
	if d.closer == nil {
		return fmt.Errorf("the decoder is closed")
	}
	if pkt == nil {
		return d.sendAVPacket(nil)
	}

	avPkt, err := fromPacket(d.packet, pkt)
	if err != nil {
		return err
	}
	defer d.packet.Unref()
	return d.sendAVPacket(avPkt)
}

func (d *decoder) sendAVPacket(pkt *astiav.Packet) error {
	err := d.codecCtx.SendPacket(pkt)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	case errors.Is(err, astiav.ErrEagain):
		return source.ErrWouldBlock
	default:
		return fmt.Errorf("unable to send the packet: %w", err)
	}
}

func (d *decoder) ReceiveFrame(ctx context.Context, dst *frame.Frame) error {
	if d.closer == nil {
		return fmt.Errorf("the decoder is closed")
	}
	err := d.codecCtx.ReceiveFrame(d.frame)
	switch {
	case err == nil:
	case errors.Is(err, astiav.ErrEagain):
		return source.ErrWouldBlock
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	default:
		return fmt.Errorf("unable to receive a frame: %w", err)
	}
	defer d.frame.Unref()

	if err := d.copyFrame(ctx, dst, d.frame); err != nil {
		return fmt.Errorf("unable to copy the frame: %w", err)
	}
	return nil
}

// copyFrame copies src into dst. Pictures with no frame.PixelFormat
// counterpart, and YCbCr pictures unless keepPlanar is set, are converted
// to RGBA by libswscale with the colorspace of the stream.
func (d *decoder) copyFrame(
	ctx context.Context,
	dst *frame.Frame,
	src *astiav.Frame,
) error {
	pixFmt, fullRange := avconv.PixelFormat(src.PixelFormat())
	colorRange := avconv.ColorRange(src.ColorRange())
	if fullRange {
		colorRange = frame.ColorRangeFull
	}
	colorSpace := src.ColorSpace()
	if colorSpace == astiav.ColorSpaceUnspecified && d.codecCtx != nil {
		colorSpace = d.codecCtx.ColorSpace()
	}

	data := src
	if !pixFmt.IsValid() || (!d.keepPlanar && pixFmt.IsYUV()) {
		rgba, err := d.toRGBA(ctx, src, colorSpace, colorRange == frame.ColorRangeFull)
		if err != nil {
			return err
		}
		defer rgba.Unref()
		data = rgba
		pixFmt = frame.PixelFormatRGBA
		colorRange = frame.ColorRangeFull
	}

	buf, err := data.Data().Bytes(1)
	if err != nil {
		return fmt.Errorf("unable to get the picture data: %w", err)
	}
	width, height := src.Width(), src.Height()
	if err := dst.Allocate(width, height, pixFmt); err != nil {
		return err
	}
	if expected := pixFmt.BufferSize(width, height); len(buf) < expected {
		return fmt.Errorf("the picture data is too short: %d < %d", len(buf), expected)
	}
	offset := 0
	for idx, l := range pixFmt.PlaneLayouts(width, height) {
		size := l.BytesPerRow * l.Rows
		copy(dst.Planes[idx], buf[offset:offset+size])
		offset += size
	}

	dst.ColorRange = colorRange
	dst.ColorMatrix = avconv.ColorMatrix(colorSpace)
	dst.HasAlpha = avconv.PixelFormatHasAlpha(src.PixelFormat())
	dst.PTS = src.Pts()
	if dst.PTS == types.NoPTS {
		dst.PTS = src.PktDts()
	}
	dst.Duration = src.Duration()
	dst.KeyFrame = src.Flags().Has(astiav.FrameFlagKey)
	return nil
}

func (d *decoder) toRGBA(
	ctx context.Context,
	src *astiav.Frame,
	colorSpace astiav.ColorSpace,
	fullRange bool,
) (*astiav.Frame, error) {
	res := scaler.Resolution{Width: src.Width(), Height: src.Height()}
	if d.scaler == nil || !d.scaler.Matches(res, src.PixelFormat(), res, astiav.PixelFormatRgba) {
		if d.scaler != nil {
			_ = d.scaler.Close(ctx)
			d.scaler = nil
		}
		s, err := scaler.NewSoftware(ctx, res, src.PixelFormat(), res, astiav.PixelFormatRgba, astiav.SoftwareScaleContextFlagBilinear)
		if err != nil {
			return nil, err
		}
		logger.Debugf(ctx, "converting %s frames via %s", src.PixelFormat(), s)
		d.scaler = s
		d.setScalerColorspace(ctx, colorSpace, fullRange)
	}
	if d.scalerColorSpace != colorSpace || d.scalerFullRange != fullRange {
		d.setScalerColorspace(ctx, colorSpace, fullRange)
	}

	d.rgbaFrame.Unref()
	d.rgbaFrame.SetWidth(res.Width)
	d.rgbaFrame.SetHeight(res.Height)
	d.rgbaFrame.SetPixelFormat(astiav.PixelFormatRgba)
	if err := d.scaler.ScaleFrame(ctx, src, d.rgbaFrame); err != nil {
		return nil, err
	}
	return d.rgbaFrame, nil
}

func (d *decoder) setScalerColorspace(
	ctx context.Context,
	colorSpace astiav.ColorSpace,
	fullRange bool,
) {
	d.scalerColorSpace, d.scalerFullRange = colorSpace, fullRange
	if err := d.scaler.SetSourceColorspace(ctx, colorSpace, fullRange); err != nil {
		logger.Warnf(ctx, "converting with the default coefficients: %v", err)
	}
}

func (d *decoder) FlushBuffers(ctx context.Context) error {
	if d.closer == nil {
		return fmt.Errorf("the decoder is closed")
	}
	d.codecCtx.FlushBuffers()
	return nil
}

func (d *decoder) Resolution() (int, int) {
	if d.closer == nil {
		return 0, 0
	}
	return d.codecCtx.Width(), d.codecCtx.Height()
}

func (d *decoder) Close(ctx context.Context) error {
	if d.closer == nil {
		return nil
	}
	closer := d.closer
	d.closer = nil
	return closer.Close()
}
