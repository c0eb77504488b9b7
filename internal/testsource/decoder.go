package testsource

import (
	"context"
	"fmt"
	"io"

	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/source"
)

// decoder "decodes" a packet into a frame whose luma is LumaOf(frame index),
// holding DecoderLatency frames back until the end of the stream is
// signalled. Packets before the first keyframe after a flush are dropped.
type decoder struct {
	source      *Source
	queue       []int
	draining    bool
	gotKeyFrame bool
	closed      bool
}

var _ source.Decoder = (*decoder)(nil)

func (d *decoder) SendPacket(ctx context.Context, pkt *source.Packet) error {
	if d.closed {
		return fmt.Errorf("the decoder is closed")
	}
	if pkt == nil {
		d.draining = true
		return nil
	}
	if d.draining {
		return io.EOF
	}
	if pkt.StreamIndex != VideoStreamIndex {
		return fmt.Errorf("unexpected stream #%d", pkt.StreamIndex)
	}
	s := d.source
	s.locker.Do(ctx, func() {
		s.sentPackets = append(s.sentPackets, pkt.PTS)
	})
	if !d.gotKeyFrame {
		if !pkt.KeyFrame {
			return nil
		}
		d.gotKeyFrame = true
	}
	d.queue = append(d.queue, int(pkt.Payload[0])|int(pkt.Payload[1])<<8)
	return nil
}

func (d *decoder) ReceiveFrame(ctx context.Context, f *frame.Frame) error {
	if d.closed {
		return fmt.Errorf("the decoder is closed")
	}
	if len(d.queue) == 0 || (!d.draining && len(d.queue) <= d.source.Config.DecoderLatency) {
		if d.draining {
			return io.EOF
		}
		return source.ErrWouldBlock
	}
	frameIdx := d.queue[0]
	d.queue = d.queue[1:]
	if err := d.source.fillFrame(f, frameIdx); err != nil {
		return err
	}
	d.source.locker.Do(ctx, func() {
		d.source.decodedCount++
	})
	return nil
}

func (d *decoder) FlushBuffers(ctx context.Context) error {
	d.queue = d.queue[:0]
	d.draining = false
	d.gotKeyFrame = false
	d.source.locker.Do(ctx, func() {
		d.source.flushCount++
	})
	return nil
}

func (d *decoder) Resolution() (int, int) {
	return d.source.Config.Width, d.source.Config.Height
}

func (d *decoder) Close(ctx context.Context) error {
	if d.closed {
		return fmt.Errorf("the decoder is already closed")
	}
	d.closed = true
	d.source.locker.Do(ctx, func() {
		d.source.closeCount++
	})
	return nil
}

func (s *Source) fillFrame(f *frame.Frame, frameIdx int) error {
	if err := f.Allocate(s.Config.Width, s.Config.Height, frame.PixelFormatYUV420P); err != nil {
		return err
	}
	luma := LumaOf(frameIdx)
	for idx := range f.Planes[0] {
		f.Planes[0][idx] = luma
	}
	for _, plane := range f.Planes[1:3] {
		for idx := range plane {
			plane[idx] = 128
		}
	}
	f.ColorRange = frame.ColorRangeFull
	f.ColorMatrix = frame.ColorMatrixBT709
	f.HasAlpha = s.Config.WithAlpha
	f.PTS = s.PTS(frameIdx)
	f.Duration = s.frameDuration(frameIdx)
	f.KeyFrame = s.IsKeyFrame(frameIdx)
	if s.isCorrupt(frameIdx) {
		f.Planes[1] = nil
	}
	return nil
}
