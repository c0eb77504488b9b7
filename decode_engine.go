package avanim

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/source"
)

// DecodeState is a state of the single-frame decoding state machine.
type DecodeState int

const (
	DecodeStateNeedPacket = DecodeState(iota)
	DecodeStateHavePacketNeedFrame
	DecodeStateHaveFrame
	DecodeStateEndOfStream
	DecodeStateDecodeError
)

func (s DecodeState) String() string {
	switch s {
	case DecodeStateNeedPacket:
		return "need_packet"
	case DecodeStateHavePacketNeedFrame:
		return "have_packet_need_frame"
	case DecodeStateHaveFrame:
		return "have_frame"
	case DecodeStateEndOfStream:
		return "end_of_stream"
	case DecodeStateDecodeError:
		return "decode_error"
	default:
		return fmt.Sprintf("DecodeState(%d)", int(s))
	}
}

// readVideoPacket reads packets until one of the selected video stream.
func (a *Anim) readVideoPacket(ctx context.Context, pkt *source.Packet) error {
	videoStreamIndex := a.info.StreamIndex
	for {
		pkt.Reset()
		if err := a.stream.Demuxer.ReadPacket(ctx, pkt); err != nil {
			return err
		}
		if pkt.StreamIndex == videoStreamIndex {
			return nil
		}
	}
}

func (a *Anim) dropPendingPacket() {
	a.hasPendingPacket = false
	a.pendingPacket.Reset()
}

// decodeOneFrame decodes the next frame into the recent slot.
func (a *Anim) decodeOneFrame(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "decodeOneFrame")
	defer func() { logger.Tracef(ctx, "/decodeOneFrame: %v", _err) }()

	dec := a.stream.Decoder
	dst := a.buffers.DecodeTarget()

	state := DecodeStateNeedPacket
	var decodeErr error
	switch err := dec.ReceiveFrame(ctx, dst); {
	case err == nil:
		logger.Debugf(ctx, "DECODE FROM CODEC BUFFER")
		state = DecodeStateHaveFrame
	default:
		if !errors.Is(err, source.ErrWouldBlock) && !errors.Is(err, io.EOF) {
			logger.Debugf(ctx, "unable to receive a buffered frame: %v", err)
		}
		// The packet the decoder had is consumed, nothing left to reuse.
		a.dropPendingPacket()
	}

	for state != DecodeStateHaveFrame && state != DecodeStateDecodeError {
		switch state {
		case DecodeStateNeedPacket:
			err := a.readVideoPacket(ctx, &a.pendingPacket)
			switch {
			case err == nil:
				a.hasPendingPacket = true
				logger.Debugf(ctx, "READ: strID=%d dts=%d pts=%d %s",
					a.pendingPacket.StreamIndex, a.pendingPacket.DTS, a.pendingPacket.PTS,
					keyFrameMark(a.pendingPacket.KeyFrame))
				state = DecodeStateHavePacketNeedFrame
			case errors.Is(err, io.EOF):
				a.dropPendingPacket()
				state = DecodeStateEndOfStream
			default:
				decodeErr = fmt.Errorf("unable to read a packet: %w", err)
				state = DecodeStateDecodeError
			}
		case DecodeStateHavePacketNeedFrame:
			if err := dec.SendPacket(ctx, &a.pendingPacket); err != nil {
				logger.Errorf(ctx, "unable to send %s to the decoder: %v", &a.pendingPacket, err)
			}
			if err := dec.ReceiveFrame(ctx, dst); err == nil {
				state = DecodeStateHaveFrame
				continue
			}
			a.dropPendingPacket()
			state = DecodeStateNeedPacket
		case DecodeStateEndOfStream:
			if err := dec.SendPacket(ctx, nil); err != nil {
				logger.Debugf(ctx, "unable to signal the end of the stream: %v", err)
			}
			if err := dec.ReceiveFrame(ctx, dst); err != nil {
				if errors.Is(err, source.ErrWouldBlock) {
					err = io.EOF
				}
				decodeErr = err
				state = DecodeStateDecodeError
				continue
			}
			state = DecodeStateHaveFrame
		}
	}

	if state == DecodeStateDecodeError {
		a.buffers.MarkRecentValid(false)
		a.dropPendingPacket()
		logger.Debugf(ctx, "DECODE READ FAILED: %v", decodeErr)
		return decodeErr
	}

	a.buffers.MarkRecentValid(true)
	a.curPTS = dst.PTS
	if dst.KeyFrame {
		a.curKeyFramePTS = a.curPTS
	}
	logger.Debugf(ctx, "FRAME DONE: cur_pts=%d, guessed_pts=%d", a.curPTS, dst.PTS)
	return nil
}

func keyFrameMark(isKey bool) string {
	if isKey {
		return "KEY"
	}
	return ""
}
