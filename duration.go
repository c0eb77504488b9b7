package avanim

import (
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
)

// AVTimeBase is the internal time base of libav (microseconds).
const AVTimeBase = 1000000

// streamFrameCountSanityFactor: a frame count implying a stream longer than
// this many times the container duration is treated as corrupt.
const streamFrameCountSanityFactor = 4.0

// estimateDurationInFrames returns the amount of frames of the stream.
//
// The frame count stored in the container is used unless it is absent or
// suspicious; otherwise the stream duration is used, and as the last
// resort the container duration, corrected by how much later than the
// audio the video starts. It is zero if the container has no duration.
func estimateDurationInFrames(info source.StreamInfo, frameRate types.Rational) int {
	fps := frameRate.Float64()

	if info.FrameCount > 0 {
		count := info.FrameCount
		if fps > 0 && info.ContainerDuration.IsSet() && info.ContainerDuration.Get() > 0 {
			streamSec := float64(count) / fps
			containerSec := info.ContainerDuration.Get().Seconds()
			if streamSec > streamFrameCountSanityFactor*containerSec {
				count = 0
			}
		}
		if count > 0 {
			return int(count)
		}
	}

	if !info.ContainerDuration.IsSet() {
		return 0
	}
	containerSec := info.ContainerDuration.Get().Seconds()

	var streamSec float64
	switch {
	case info.StreamDuration != types.NoPTS:
		streamSec = float64(info.StreamDuration) * info.TimeBase.Float64()
	default:
		videoStart := info.StartTime().Seconds()
		var audioStart float64
		if info.AudioStartTime.IsSet() {
			audioStart = info.AudioStartTime.Get().Seconds()
		}
		if videoStart > audioStart {
			streamSec = containerSec - (videoStart - audioStart)
		} else {
			streamSec = containerSec
		}
	}
	return int(streamSec*fps + 0.5)
}

// reduceFrameRate expresses frameRate as num/(den*AVTimeBase) and drops
// the common powers of ten, so 25/1 becomes 25/1e6 and 30000/1001 becomes
// 3/100100.
func reduceFrameRate(frameRate types.Rational) (int, float64) {
	num := frameRate.Num
	den := float64(frameRate.Den) * AVTimeBase
	for num%10 == 0 && den >= 2 && num > 10 {
		num /= 10
		den /= 10
	}
	return num, den
}
