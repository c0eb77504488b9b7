// anim.go implements the lifecycle of a random-access video reader.

// Package avanim provides frame-accurate random access to the frames of a
// video file on top of a sequential, keyframe-seeking decoder.
package avanim

import (
	"context"
	"fmt"
	"maps"
	"time"

	"github.com/xaionaro-go/avanim/doublebuffer"
	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/helpers/closuresignaler"
	"github.com/xaionaro-go/avanim/indicator"
	"github.com/xaionaro-go/avanim/internal"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/postprocess"
	"github.com/xaionaro-go/avanim/seekindex"
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/ts"
	"github.com/xaionaro-go/avanim/types"
)

type State int

const (
	StateUninitialized = State(iota)
	StateValid
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateValid:
		return "valid"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Anim is a handle of one video stream of a file.
//
// The stream is opened lazily by the first Fetch (or Probe). An Anim is
// not safe for concurrent use, see Locked.
type Anim struct {
	Path           string
	StreamSelector int
	Config         Config
	Statistics     Statistics

	closer  *closuresignaler.ClosureSignaler
	state   State
	openErr error

	stream           *source.Stream
	info             source.StreamInfo
	clock            ts.FrameClock
	width            int
	height           int
	durationInFrames int
	fpsNum           int
	fpsDen           float64

	curPosition      int
	curPTS           int64
	curKeyFramePTS   int64
	seekBeforeDecode bool

	// pendingPacket is the packet last read from the video stream, kept
	// until the frame decoded from it is consumed.
	pendingPacket    source.Packet
	hasPendingPacket bool
	scratchPacket    source.Packet

	buffers       *doublebuffer.DoubleBuffer
	postprocessor *postprocess.Processor

	// scanCost is the smoothed amount of frames decoded per fetch.
	scanCost       indicator.MovingAverage[float64]
	scanCostWarned bool
}

// Open returns a handle of the streamSelector-th video stream of the file
// at path. It never fails: the file is opened by the first Fetch, and if
// it cannot be, every Fetch returns ErrInvalidHandle.
func Open(
	ctx context.Context,
	path string,
	streamSelector int,
	cfg Config,
) *Anim {
	logger.Tracef(ctx, "Open(%s, %d)", path, streamSelector)
	defer logger.Tracef(ctx, "/Open(%s, %d)", path, streamSelector)
	a := &Anim{
		Path:           path,
		StreamSelector: streamSelector,
		Config:         cfg.withDefaults(),
		closer:         closuresignaler.New(),
		curPosition:    -1,
		curPTS:         types.NoPTS,
		curKeyFramePTS: types.NoPTS,
	}
	internal.SetFinalizerClose(ctx, a)
	return a
}

func (a *Anim) String() string {
	return fmt.Sprintf("Anim(%s#%d)", a.Path, a.StreamSelector)
}

func (a *Anim) State() State {
	return a.state
}

// Probe opens the stream if it was not opened yet.
func (a *Anim) Probe(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Probe")
	defer func() { logger.Tracef(ctx, "/Probe: %v", _err) }()
	if a.closer.IsClosed() {
		return ErrClosed{}
	}
	switch a.state {
	case StateValid:
		return nil
	case StateFailed:
		return ErrInvalidHandle{Err: a.openErr}
	}

	if err := a.probe(ctx); err != nil {
		logger.Errorf(ctx, "unable to open %s: %v", a, err)
		a.state = StateFailed
		a.openErr = err
		return ErrInvalidHandle{Err: err}
	}
	a.state = StateValid
	return nil
}

func (a *Anim) probe(ctx context.Context) (_err error) {
	if a.Config.Opener == nil {
		return fmt.Errorf("no opener configured")
	}
	ctx = logger.CtxWithAnim(ctx, a.Path, a.StreamSelector)

	stream, err := a.Config.Opener.Open(ctx, a.Path, a.StreamSelector, source.OpenConfig{
		DecoderThreads: a.Config.DecoderThreads,
		KeepPlanar:     a.Config.Deinterlace,
	})
	if err != nil {
		return fmt.Errorf("unable to open the stream: %w", err)
	}
	defer func() {
		if _err == nil {
			return
		}
		if err := stream.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close the stream: %v", err)
		}
	}()

	info := stream.Info
	if info.Width <= 0 || info.Height <= 0 {
		return fmt.Errorf("invalid resolution %dx%d", info.Width, info.Height)
	}
	if info.TimeBase.IsZero() {
		return fmt.Errorf("the stream has no time base")
	}
	frameRate := info.FrameRate
	if a.Config.FrameRateOverride.IsSet() {
		frameRate = a.Config.FrameRateOverride.Get()
	}
	if frameRate.IsZero() {
		return fmt.Errorf("unable to determine the frame rate")
	}

	a.stream = stream
	a.info = info
	a.clock = ts.NewFrameClock(info.TimeBase, frameRate, info.StartPTS)
	a.width, a.height = info.Width, info.Height
	a.durationInFrames = estimateDurationInFrames(info, frameRate)
	a.fpsNum, a.fpsDen = reduceFrameRate(frameRate)
	a.pendingPacket.Reset()
	a.scratchPacket.Reset()
	a.buffers = doublebuffer.New()
	a.scanCost = indicator.NewMAMADefault[float64](a.Config.ScanCostWindow)
	a.postprocessor = postprocess.NewProcessor(postprocess.Options{
		Deinterlace: a.Config.Deinterlace,
		Threads:     a.Config.PostprocessThreads,
	})
	logger.Debugf(ctx,
		"opened %s: %dx%d, %d frames, frame rate %s, time base %s, start pts %d, %.2f ticks per frame",
		info.CodecName, a.width, a.height, a.durationInFrames, frameRate, info.TimeBase, info.StartPTS,
		a.clock.StepsPerFrame(),
	)
	return nil
}

// Close releases the decoder and all the buffered frames. It may be called
// any amount of times, including on a handle which was never probed.
func (a *Anim) Close(ctx context.Context) (_err error) {
	logger.Tracef(ctx, "Close")
	defer func() { logger.Tracef(ctx, "/Close: %v", _err) }()
	if a == nil || a.closer == nil {
		return nil
	}
	if !a.closer.Close(ctx) {
		return nil
	}

	var err error
	if a.stream != nil {
		err = a.stream.Close(ctx)
		a.stream = nil
	}
	if a.buffers != nil {
		a.buffers.Release()
		a.buffers = nil
		logger.Debugf(ctx, "frames allocated by the pool so far: %d", frame.Pool.Allocated())
	}
	if a.postprocessor != nil {
		a.postprocessor.Close()
		a.postprocessor = nil
	}
	a.hasPendingPacket = false
	a.durationInFrames = 0
	if err != nil {
		return fmt.Errorf("unable to close the stream: %w", err)
	}
	return nil
}

// CanProduceFrames reports whether a decoder is open.
func (a *Anim) CanProduceFrames() bool {
	return a.stream != nil
}

// Width is the width of the frames, it may change as frames are decoded.
// Zero until probed.
func (a *Anim) Width() int {
	return a.width
}

func (a *Anim) Height() int {
	return a.height
}

// Duration returns the amount of frames; with a timecode which has a seek
// index, the amount of frames of the index.
func (a *Anim) Duration(ctx context.Context, tc Timecode) int {
	if tc == TimecodeNone {
		return a.durationInFrames
	}
	idx := a.index(ctx, tc)
	if idx == nil {
		return a.durationInFrames
	}
	return idx.Duration()
}

// FPS returns the frame rate as sec/secBase; secBase is in 1/AVTimeBase
// units unless noAVBase is set. ok is false if the frame rate is unknown.
func (a *Anim) FPS(noAVBase bool) (sec int, secBase float64, ok bool) {
	if a.fpsNum == 0 {
		return 0, 0, false
	}
	secBase = a.fpsDen
	if noAVBase {
		secBase /= AVTimeBase
	}
	return a.fpsNum, secBase, true
}

// FrameRate is the frame rate used to map positions to timestamps.
func (a *Anim) FrameRate() types.Rational {
	return a.clock.FrameRate
}

// StartOffset is the start time of the video stream.
func (a *Anim) StartOffset() time.Duration {
	return a.info.StartTime()
}

// Metadata returns the container metadata, nil until probed.
func (a *Anim) Metadata(ctx context.Context) map[string]string {
	if a.state != StateValid {
		return nil
	}
	logger.Debugf(ctx, "METADATA FETCH")
	return maps.Clone(a.info.Metadata)
}

// ScanCost returns the moving average of the amount of frames decoded per
// fetch; ok is false until enough fetches were made.
func (a *Anim) ScanCost() (avg float64, ok bool) {
	if a.scanCost == nil {
		return 0, false
	}
	return a.scanCost.Value()
}

// CurrentPosition is the last successfully fetched position, -1 if none.
func (a *Anim) CurrentPosition() int {
	return a.curPosition
}

func (a *Anim) index(ctx context.Context, tc Timecode) seekindex.Index {
	if tc == TimecodeNone || a.Config.IndexProvider == nil {
		return nil
	}
	return a.Config.IndexProvider.Index(ctx, a.Path, tc)
}
