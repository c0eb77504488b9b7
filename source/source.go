// source.go defines what avanim needs from a demuxer and a decoder.

// Package source describes the underlying demuxing/decoding library as
// seen by the random-access reader.
package source

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avanim/frame"
)

// ErrWouldBlock is returned by Decoder.ReceiveFrame when the decoder needs
// more input before it can output a frame.
var ErrWouldBlock = errors.New("the decoder needs more input")

type SeekFlags uint

const (
	// SeekFlagBackward seeks to the closest keyframe at or before the target.
	SeekFlagBackward = SeekFlags(1 << iota)

	// SeekFlagByte interprets the target as a byte offset.
	SeekFlagByte
)

func (f SeekFlags) String() string {
	switch f {
	case 0:
		return "none"
	case SeekFlagBackward:
		return "backward"
	case SeekFlagByte:
		return "byte"
	case SeekFlagBackward | SeekFlagByte:
		return "backward|byte"
	default:
		return fmt.Sprintf("SeekFlags(0x%X)", uint(f))
	}
}

// Demuxer reads compressed packets of a single opened container.
type Demuxer interface {
	// ReadPacket fills pkt with the next packet of any stream;
	// it returns io.EOF at the end of the container.
	ReadPacket(ctx context.Context, pkt *Packet) error

	// Seek repositions the demuxer; streamIndex is ignored for byte seeks.
	Seek(ctx context.Context, streamIndex int, target int64, flags SeekFlags) error

	Close(ctx context.Context) error
}

// Decoder decodes the packets of the selected video stream.
type Decoder interface {
	// SendPacket submits pkt to the decoder; a nil pkt signals the end of
	// the stream and makes the decoder release the frames it holds.
	SendPacket(ctx context.Context, pkt *Packet) error

	// ReceiveFrame returns ErrWouldBlock if no frame is ready, and io.EOF
	// if the decoder is fully drained.
	ReceiveFrame(ctx context.Context, f *frame.Frame) error

	// FlushBuffers drops everything buffered inside the decoder.
	FlushBuffers(ctx context.Context) error

	// Resolution is the current output size, it may change mid-stream.
	Resolution() (width, height int)

	Close(ctx context.Context) error
}

// Opener opens a file and selects its video stream.
type Opener interface {
	// Open selects the streamSelector-th video stream (counting video
	// streams only) of the file at path.
	Open(ctx context.Context, path string, streamSelector int, cfg OpenConfig) (*Stream, error)
}

type OpenConfig struct {
	// DecoderThreads is the amount of decoding threads; zero means
	// a decoder-chosen or CPU count based value.
	DecoderThreads int

	// KeepPlanar asks the decoder to output YCbCr pictures as decoded
	// instead of converting them to RGBA, so that they can be deinterlaced.
	KeepPlanar bool
}

// Stream is an opened video stream.
type Stream struct {
	Demuxer Demuxer
	Decoder Decoder
	Info    StreamInfo
}

func (s *Stream) Close(ctx context.Context) error {
	var errs []error
	if s.Decoder != nil {
		if err := s.Decoder.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("unable to close the decoder: %w", err))
		}
	}
	if s.Demuxer != nil {
		if err := s.Demuxer.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("unable to close the demuxer: %w", err))
		}
	}
	return errors.Join(errs...)
}
