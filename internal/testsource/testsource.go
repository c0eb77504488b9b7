// testsource.go implements a synthetic video stream for tests.

// Package testsource provides an in-memory source.Opener producing a
// synthetic video stream whose frames encode their own index, and
// recording every interaction with it.
package testsource

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/xsync"
)

const (
	VideoStreamIndex = 0
	AudioStreamIndex = 1
)

type Config struct {
	FrameCount int
	Width      int
	Height     int
	FrameRate  types.Rational
	TimeBase   types.Rational

	// StartPTS is the timestamp of the first frame (types.NoPTS is
	// reported as "unknown" while frames start at zero).
	StartPTS int64

	// PTSs overrides the timestamps of the frames (variable frame rate).
	PTSs []int64

	KeyFrames []int

	// DecoderLatency is the amount of packets the decoder holds before
	// outputting the first frame.
	DecoderLatency int

	HasNativeSeek           bool
	TimestampsDiscontinuous bool
	CorruptFrames           []int
	WithFrameDuration       bool
	WithAudio               bool

	// WithAlpha reports the decoded pictures as having an alpha channel.
	WithAlpha bool

	// FrameCountInContainer is reported as the container's frame count.
	FrameCountInContainer typing.Optional[int64]

	OpenError error

	// SeekError makes every Seek fail; see also Source.SetSeekError.
	SeekError error
}

// DefaultConfig is a 10 frames 25fps stream with keyframes at 0 and 5.
func DefaultConfig() Config {
	return Config{
		FrameCount:        10,
		Width:             16,
		Height:            8,
		FrameRate:         types.Rational{Num: 25, Den: 1},
		TimeBase:          types.Rational{Num: 1, Den: 12800},
		StartPTS:          0,
		KeyFrames:         []int{0, 5},
		HasNativeSeek:     true,
		WithFrameDuration: true,
	}
}

// SeekCall is a recorded Demuxer.Seek call.
type SeekCall struct {
	StreamIndex int
	Target      int64
	Flags       source.SeekFlags
}

// Source is a source.Opener of the synthetic stream.
type Source struct {
	Config Config

	locker       xsync.Mutex
	seeks        []SeekCall
	sentPackets  []int64
	decodedCount int
	flushCount   int
	openCount    int
	closeCount   int
	packets      []source.Packet
}

var _ source.Opener = (*Source)(nil)

func New(cfg Config) *Source {
	s := &Source{Config: cfg}
	s.packets = s.buildPackets()
	return s
}

// PTS returns the timestamp of frame frameIdx.
func (s *Source) PTS(frameIdx int) int64 {
	if s.Config.PTSs != nil {
		return s.Config.PTSs[frameIdx]
	}
	pts := int64(frameIdx) * s.stepsPerFrame()
	if s.Config.StartPTS != types.NoPTS {
		pts += s.Config.StartPTS
	}
	return pts
}

func (s *Source) stepsPerFrame() int64 {
	prod := s.Config.FrameRate.Mul(s.Config.TimeBase)
	return int64(prod.Den / prod.Num)
}

func (s *Source) frameDuration(frameIdx int) int64 {
	if !s.Config.WithFrameDuration {
		return 0
	}
	if s.Config.PTSs != nil && frameIdx+1 < len(s.Config.PTSs) {
		return s.Config.PTSs[frameIdx+1] - s.Config.PTSs[frameIdx]
	}
	return s.stepsPerFrame()
}

func (s *Source) IsKeyFrame(frameIdx int) bool {
	for _, k := range s.Config.KeyFrames {
		if k == frameIdx {
			return true
		}
	}
	return false
}

func (s *Source) isCorrupt(frameIdx int) bool {
	for _, k := range s.Config.CorruptFrames {
		if k == frameIdx {
			return true
		}
	}
	return false
}

// LumaOf returns the luma value all pixels of frame frameIdx have.
func LumaOf(frameIdx int) uint8 {
	return uint8(16 + frameIdx*3)
}

func (s *Source) buildPackets() []source.Packet {
	var result []source.Packet
	for idx := 0; idx < s.Config.FrameCount; idx++ {
		pts := s.PTS(idx)
		result = append(result, source.Packet{
			StreamIndex: VideoStreamIndex,
			PTS:         pts,
			DTS:         pts,
			Duration:    s.frameDuration(idx),
			Pos:         int64(len(result)) * 1000,
			KeyFrame:    s.IsKeyFrame(idx),
			Payload:     []byte{byte(idx), byte(idx >> 8)},
		})
		if s.Config.WithAudio {
			result = append(result, source.Packet{
				StreamIndex: AudioStreamIndex,
				PTS:         pts,
				DTS:         pts,
				Pos:         int64(len(result)) * 1000,
				KeyFrame:    true,
				Payload:     []byte{0xff},
			})
		}
	}
	return result
}

func (s *Source) Open(
	ctx context.Context,
	path string,
	streamSelector int,
	cfg source.OpenConfig,
) (*source.Stream, error) {
	return xsync.DoR2(ctx, &s.locker, func() (*source.Stream, error) {
		s.openCount++
		if s.Config.OpenError != nil {
			return nil, s.Config.OpenError
		}
		if streamSelector != 0 {
			return nil, fmt.Errorf("video stream #%d not found", streamSelector)
		}

		startPTS := s.Config.StartPTS
		info := source.StreamInfo{
			StreamIndex:             VideoStreamIndex,
			Width:                   s.Config.Width,
			Height:                  s.Config.Height,
			TimeBase:                s.Config.TimeBase,
			FrameRate:               s.Config.FrameRate,
			StartPTS:                startPTS,
			StreamDuration:          types.NoPTS,
			CodecName:               "testsource",
			CodecLongName:           "synthetic test stream",
			FormatName:              "testsource",
			HasNativeSeek:           s.Config.HasNativeSeek,
			TimestampsDiscontinuous: s.Config.TimestampsDiscontinuous,
			Metadata:                map[string]string{"title": path},
		}
		if s.Config.FrameCountInContainer.IsSet() {
			info.FrameCount = s.Config.FrameCountInContainer.Get()
		} else {
			info.FrameCount = int64(s.Config.FrameCount)
		}
		info.ContainerDuration = typing.Opt(time.Duration(
			float64(s.Config.FrameCount) / s.Config.FrameRate.Float64() * float64(time.Second),
		))

		return &source.Stream{
			Demuxer: &demuxer{source: s},
			Decoder: &decoder{source: s},
			Info:    info,
		}, nil
	})
}

// SetSeekError makes the following seeks fail with err, or succeed if
// err is nil.
func (s *Source) SetSeekError(err error) {
	s.locker.Do(context.TODO(), func() {
		s.Config.SeekError = err
	})
}

func (s *Source) Seeks() []SeekCall {
	return xsync.DoR1(context.TODO(), &s.locker, func() []SeekCall {
		return append([]SeekCall(nil), s.seeks...)
	})
}

// SentPackets returns the timestamps of the packets sent to the decoder.
func (s *Source) SentPackets() []int64 {
	return xsync.DoR1(context.TODO(), &s.locker, func() []int64 {
		return append([]int64(nil), s.sentPackets...)
	})
}

// DecodedCount is the amount of frames the decoder has output.
func (s *Source) DecodedCount() int {
	return xsync.DoR1(context.TODO(), &s.locker, func() int {
		return s.decodedCount
	})
}

func (s *Source) FlushCount() int {
	return xsync.DoR1(context.TODO(), &s.locker, func() int {
		return s.flushCount
	})
}

func (s *Source) OpenCount() int {
	return xsync.DoR1(context.TODO(), &s.locker, func() int {
		return s.openCount
	})
}

// CloseCount counts the closed demuxers and decoders.
func (s *Source) CloseCount() int {
	return xsync.DoR1(context.TODO(), &s.locker, func() int {
		return s.closeCount
	})
}

// ResetRecords forgets the recorded calls.
func (s *Source) ResetRecords() {
	s.locker.Do(context.TODO(), func() {
		s.seeks = nil
		s.sentPackets = nil
		s.decodedCount = 0
		s.flushCount = 0
	})
}
