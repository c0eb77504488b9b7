// Package libav implements source.Opener on top of FFmpeg (via go-astiav).
package libav

import (
	"context"
	"fmt"
	"reflect"
	"runtime"

	"github.com/asticode/go-astiav"
	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/avanim/avconv"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/typing"
	"github.com/xaionaro-go/unsafetools"
)

type Opener struct {
	Config Config
}

var _ source.Opener = (*Opener)(nil)

func NewOpener(cfg Config) *Opener {
	return &Opener{Config: cfg}
}

func (o *Opener) Open(
	ctx context.Context,
	path string,
	streamSelector int,
	cfg source.OpenConfig,
) (_ret *source.Stream, _err error) {
	ctx = logger.CtxWithPath(ctx, path)
	logger.Tracef(ctx, "Open(%d, %#+v)", streamSelector, cfg)
	defer func() { logger.Tracef(ctx, "/Open(%d, %#+v): %v", streamSelector, cfg, _err) }()

	closer := astikit.NewCloser()
	decCloser := astikit.NewCloser()
	defer func() {
		if _err == nil {
			return
		}
		if err := decCloser.Close(); err != nil {
			logger.Errorf(ctx, "unable to release the decoder: %v", err)
		}
		if err := closer.Close(); err != nil {
			logger.Errorf(ctx, "unable to release the demuxer: %v", err)
		}
	}()

	var dict *astiav.Dictionary
	if len(o.Config.Options) > 0 {
		dict = astiav.NewDictionary()
		closer.Add(dict.Free)
		for k, v := range o.Config.Options {
			logger.Debugf(ctx, "input.Dictionary['%s'] = '%s'", k, v)
			if err := dict.Set(k, v, 0); err != nil {
				return nil, fmt.Errorf("unable to set option '%s': %w", k, err)
			}
		}
	}

	var inputFormat *astiav.InputFormat
	if o.Config.InputFormat != "" {
		inputFormat = astiav.FindInputFormat(o.Config.InputFormat)
		if inputFormat == nil {
			return nil, fmt.Errorf("unable to find input format by name '%s'", o.Config.InputFormat)
		}
	}

	fmtCtx := astiav.AllocFormatContext()
	if fmtCtx == nil {
		return nil, fmt.Errorf("unable to allocate a format context")
	}
	if err := fmtCtx.OpenInput(path, inputFormat, dict); err != nil {
		fmtCtx.Free()
		return nil, fmt.Errorf("unable to open input '%s': %w", path, err)
	}
	closer.Add(func() {
		fmtCtx.CloseInput()
		fmtCtx.Free()
	})

	if err := fmtCtx.FindStreamInfo(nil); err != nil {
		return nil, fmt.Errorf("unable to get stream info: %w", err)
	}

	stream := avconv.FindVideoStream(ctx, fmtCtx, streamSelector)
	if stream == nil {
		return nil, fmt.Errorf("video stream #%d not found", streamSelector)
	}
	codecParams := stream.CodecParameters()
	logger.Tracef(ctx, "video stream #%d: %s", stream.Index(), spew.Sdump(unsafetools.FieldByNameInValue(reflect.ValueOf(codecParams), "c").Elem().Elem().Interface()))

	codec := astiav.FindDecoder(codecParams.CodecID())
	if codec == nil {
		return nil, fmt.Errorf("unable to find a decoder for %s", codecParams.CodecID())
	}

	codecCtx := astiav.AllocCodecContext(codec)
	if codecCtx == nil {
		return nil, fmt.Errorf("unable to allocate a codec context")
	}
	decCloser.Add(codecCtx.Free)
	if err := codecParams.ToCodecContext(codecCtx); err != nil {
		return nil, fmt.Errorf("unable to copy the codec parameters: %w", err)
	}
	threads := cfg.DecoderThreads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	codecCtx.SetThreadCount(threads)
	caps := codec.Capabilities()
	logger.Tracef(ctx, "Capabilities: %08x", caps)
	switch {
	case caps&astiav.CodecCapabilityFrameThreads != 0:
		codecCtx.SetThreadType(astiav.ThreadTypeFrame)
	case caps&astiav.CodecCapabilitySliceThreads != 0:
		codecCtx.SetThreadType(astiav.ThreadTypeSlice)
	}
	if err := codecCtx.Open(codec, nil); err != nil {
		return nil, fmt.Errorf("unable to open the decoder %s: %w", codec.Name(), err)
	}
	if codecCtx.PixelFormat() == astiav.PixelFormatNone {
		return nil, fmt.Errorf("the decoder %s reported no pixel format", codec.Name())
	}

	info := o.streamInfo(ctx, fmtCtx, stream, codec)
	logger.Debugf(ctx, "stream info: %#+v", info)

	return &source.Stream{
		Demuxer: newDemuxer(fmtCtx, closer),
		Decoder: newDecoder(ctx, codecCtx, cfg.KeepPlanar, decCloser),
		Info:    info,
	}, nil
}

func (o *Opener) streamInfo(
	ctx context.Context,
	fmtCtx *astiav.FormatContext,
	stream *astiav.Stream,
	codec *astiav.Codec,
) source.StreamInfo {
	codecParams := stream.CodecParameters()
	info := source.StreamInfo{
		StreamIndex:    stream.Index(),
		Width:          codecParams.Width(),
		Height:         codecParams.Height(),
		TimeBase:       avconv.Rational(stream.TimeBase()),
		FrameRate:      avconv.Rational(fmtCtx.GuessFrameRate(stream, nil)),
		StartPTS:       stream.StartTime(),
		FrameCount:     stream.NbFrames(),
		StreamDuration: stream.Duration(),
		CodecName:      codecParams.CodecID().String(),
		CodecLongName:  codec.Name(),
		Metadata:       avconv.Metadata(fmtCtx.Metadata()),
	}
	if d := fmtCtx.Duration(); d != types.NoPTS && d > 0 {
		info.ContainerDuration = typing.Opt(avconv.DurationAVTimeBase(d))
	}
	if audio := avconv.FindFirstStreamOfType(fmtCtx, astiav.MediaTypeAudio); audio != nil && audio.StartTime() != types.NoPTS {
		info.AudioStartTime = typing.Opt(avconv.Duration(audio.StartTime(), audio.TimeBase()))
	}
	if inputFormat := fmtCtx.InputFormat(); inputFormat != nil {
		info.FormatName = inputFormat.Name()
		flags := inputFormat.Flags()
		info.HasNativeSeek = !flags.Has(astiav.IOFormatFlagGenericIndex)
		info.TimestampsDiscontinuous = flags.Has(astiav.IOFormatFlagTsDiscont)
	}
	if o.Config.ForceGenericSeek {
		info.HasNativeSeek = false
	}
	return info
}
