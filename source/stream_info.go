package source

import (
	"time"

	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/typing"
)

// StreamInfo is what is known about the selected video stream right
// after opening it.
type StreamInfo struct {
	StreamIndex int

	Width  int
	Height int

	TimeBase types.Rational

	// FrameRate is the guessed (average or real base) frame rate.
	FrameRate types.Rational

	// StartPTS is the first timestamp of the stream, types.NoPTS if unknown.
	StartPTS int64

	// FrameCount is the frame count stored in the container, zero if unknown.
	FrameCount int64

	// StreamDuration is in TimeBase units, types.NoPTS if unknown.
	StreamDuration int64

	ContainerDuration typing.Optional[time.Duration]

	// AudioStartTime is the start time of the first audio stream, if any.
	AudioStartTime typing.Optional[time.Duration]

	CodecName     string
	CodecLongName string
	FormatName    string

	// HasNativeSeek is false for formats which do not implement seeking
	// themselves and rely on the generic (unreliable) seek implementation.
	HasNativeSeek bool

	// TimestampsDiscontinuous is true for formats where timestamps may
	// jump (e.g. MPEG-TS); such formats are sought by byte offset when
	// possible.
	TimestampsDiscontinuous bool

	Metadata map[string]string
}

// StartTime is StartPTS in seconds, zero if unknown.
func (i *StreamInfo) StartTime() time.Duration {
	if i.StartPTS == types.NoPTS {
		return 0
	}
	return time.Duration(float64(i.StartPTS) * i.TimeBase.Float64() * float64(time.Second))
}
