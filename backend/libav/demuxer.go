package libav

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/xaionaro-go/avanim/internal"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/source"
)

type demuxer struct {
	fmtCtx *astiav.FormatContext
	closer *astikit.Closer
}

var _ source.Demuxer = (*demuxer)(nil)

func newDemuxer(fmtCtx *astiav.FormatContext, closer *astikit.Closer) *demuxer {
	return &demuxer{
		fmtCtx: fmtCtx,
		closer: closer,
	}
}

func (d *demuxer) ReadPacket(ctx context.Context, pkt *source.Packet) error {
	if d.closer == nil {
		return fmt.Errorf("the demuxer is closed")
	}
	avPkt := astiav.AllocPacket()
	err := d.fmtCtx.ReadFrame(avPkt)
	switch {
	case err == nil:
	case errors.Is(err, astiav.ErrEof), errors.Is(err, astiav.ErrEio):
		avPkt.Free()
		return io.EOF
	default:
		avPkt.Free()
		return fmt.Errorf("unable to read a frame: %w", err)
	}
	internal.SetFinalizerFree(ctx, avPkt)
	toPacket(pkt, avPkt)
	return nil
}

func (d *demuxer) Seek(
	ctx context.Context,
	streamIndex int,
	target int64,
	flags source.SeekFlags,
) error {
	if d.closer == nil {
		return fmt.Errorf("the demuxer is closed")
	}
	var avFlags []astiav.SeekFlag
	if flags&source.SeekFlagBackward != 0 {
		avFlags = append(avFlags, astiav.SeekFlagBackward)
	}
	if flags&source.SeekFlagByte != 0 {
		avFlags = append(avFlags, astiav.SeekFlagByte)
	}
	logger.Tracef(ctx, "SeekFrame(%d, %d, %s)", streamIndex, target, flags)
	if err := d.fmtCtx.SeekFrame(streamIndex, target, astiav.NewSeekFlags(avFlags...)); err != nil {
		return fmt.Errorf("unable to seek stream #%d to %d (%s): %w", streamIndex, target, flags, err)
	}
	return nil
}

func (d *demuxer) Close(ctx context.Context) error {
	if d.closer == nil {
		return nil
	}
	closer := d.closer
	d.closer = nil
	return closer.Close()
}
