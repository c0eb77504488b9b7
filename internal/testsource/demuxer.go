package testsource

import (
	"context"
	"fmt"
	"io"

	"github.com/xaionaro-go/avanim/source"
)

type demuxer struct {
	source *Source
	next   int
	closed bool
}

var _ source.Demuxer = (*demuxer)(nil)

func (d *demuxer) ReadPacket(ctx context.Context, pkt *source.Packet) error {
	if d.closed {
		return fmt.Errorf("the demuxer is closed")
	}
	packets := d.source.packets
	if d.next >= len(packets) {
		return io.EOF
	}
	pkt.CopyFrom(&packets[d.next])
	d.next++
	return nil
}

// Seek lands on the last keyframe at or before target if the stream has
// native seeking, and on the last frame at or before target otherwise
// (ignoring keyframes, like generic container seeking does).
func (d *demuxer) Seek(
	ctx context.Context,
	streamIndex int,
	target int64,
	flags source.SeekFlags,
) error {
	s := d.source
	var seekErr error
	s.locker.Do(ctx, func() {
		s.seeks = append(s.seeks, SeekCall{StreamIndex: streamIndex, Target: target, Flags: flags})
		seekErr = s.Config.SeekError
	})
	if d.closed {
		return fmt.Errorf("the demuxer is closed")
	}
	if seekErr != nil {
		return seekErr
	}

	packets := s.packets
	if flags&source.SeekFlagByte != 0 {
		d.next = len(packets)
		for idx, pkt := range packets {
			if pkt.Pos >= target {
				d.next = idx
				break
			}
		}
		return nil
	}

	if streamIndex != VideoStreamIndex {
		return fmt.Errorf("unable to seek stream #%d", streamIndex)
	}
	found := 0
	for idx, pkt := range packets {
		if pkt.StreamIndex != VideoStreamIndex || pkt.PTS > target {
			continue
		}
		if s.Config.HasNativeSeek && !pkt.KeyFrame {
			continue
		}
		found = idx
	}
	d.next = found
	return nil
}

func (d *demuxer) Close(ctx context.Context) error {
	if d.closed {
		return fmt.Errorf("the demuxer is already closed")
	}
	d.closed = true
	d.source.locker.Do(ctx, func() {
		d.source.closeCount++
	})
	return nil
}
