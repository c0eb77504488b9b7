// frame_clock.go maps frame indexes to presentation timestamps and back.

// Package ts contains the timestamp arithmetic of avanim.
//
// All the values here are estimations for variable-frame-rate sources:
// callers must tolerate off-by-one-frame results.
package ts

import (
	"math"
	"time"

	"github.com/xaionaro-go/avanim/types"
)

// StepsPerFrame returns how many time-base ticks one frame lasts, that is
// 1/(frameRate*timeBase). It returns zero if any of the values is unknown.
func StepsPerFrame(timeBase, frameRate types.Rational) float64 {
	prod := frameRate.Mul(timeBase)
	if prod.IsZero() {
		return 0
	}
	return prod.Reverse().Float64()
}

type FrameClock struct {
	TimeBase  types.Rational
	FrameRate types.Rational

	// StartPTS is types.NoPTS if the stream does not declare a start time.
	StartPTS int64
}

func NewFrameClock(
	timeBase types.Rational,
	frameRate types.Rational,
	startPTS int64,
) FrameClock {
	return FrameClock{
		TimeBase:  timeBase,
		FrameRate: frameRate,
		StartPTS:  startPTS,
	}
}

func (c FrameClock) StepsPerFrame() float64 {
	return StepsPerFrame(c.TimeBase, c.FrameRate)
}

// PTSForFrame returns round(position*stepsPerFrame) + startPTS.
func (c FrameClock) PTSForFrame(position int) int64 {
	pts := int64(math.Round(float64(position) * c.StepsPerFrame()))
	if c.StartPTS != types.NoPTS {
		pts += c.StartPTS
	}
	return pts
}

// FrameForPTS is the inverse of PTSForFrame.
func (c FrameClock) FrameForPTS(pts int64) int {
	steps := c.StepsPerFrame()
	if steps == 0 || pts == types.NoPTS {
		return 0
	}
	if c.StartPTS != types.NoPTS {
		pts -= c.StartPTS
	}
	return int(math.Round(float64(pts) / steps))
}

// SeekPTS backs ptsToSearch up by backoffFrames frames, clamped to zero.
//
// Demuxers may seek by DTS while we search by PTS, so landing a few frames
// earlier keeps the wanted frame in front of the read position.
func (c FrameClock) SeekPTS(ptsToSearch int64, backoffFrames int) int64 {
	seekPTS := int64(float64(ptsToSearch) - c.StepsPerFrame()*float64(backoffFrames))
	if seekPTS < 0 {
		return 0
	}
	return seekPTS
}

// StepBack returns pts moved back by the given amount of frames, clamped to zero.
func (c FrameClock) StepBack(pts int64, frames int) int64 {
	r := pts - int64(math.Round(float64(frames)*c.StepsPerFrame()))
	if r < 0 {
		return 0
	}
	return r
}

// FrameDuration returns duration if it is known, and the duration of one
// frame according to the frame rate otherwise. The result is at least 1.
func (c FrameClock) FrameDuration(duration int64) int64 {
	if duration > 0 {
		return duration
	}
	d := int64(math.Round(c.StepsPerFrame()))
	if d < 1 {
		return 1
	}
	return d
}

func (c FrameClock) ToDuration(pts int64) time.Duration {
	if pts == types.NoPTS {
		return 0
	}
	if c.StartPTS != types.NoPTS {
		pts -= c.StartPTS
	}
	return time.Duration(float64(pts) * c.TimeBase.Float64() * float64(time.Second))
}
