// duration.go converts libav timestamps to time.Duration and back.

// Package avconv converts values between go-astiav and avanim types.
package avconv

import (
	"time"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avanim/types"
)

// Duration converts t (in timeBase units) to time.Duration; types.NoPTS
// becomes zero.
func Duration(t int64, timeBase astiav.Rational) time.Duration {
	if t == types.NoPTS {
		return 0
	}
	return time.Duration(float64(t) * timeBase.Float64() * float64(time.Second))
}

func FromDuration(d time.Duration, timeBase astiav.Rational) int64 {
	return int64(d.Seconds() / timeBase.Float64())
}

// DurationAVTimeBase converts a value in AV_TIME_BASE units (used by
// format-level durations and start times) to time.Duration.
func DurationAVTimeBase(t int64) time.Duration {
	if t == types.NoPTS {
		return 0
	}
	return time.Duration(t) * time.Microsecond
}
