package avanim

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/typing"
)

func TestEstimateDurationInFrames(t *testing.T) {
	fps25 := types.Rational{Num: 25, Den: 1}
	tb := types.Rational{Num: 1, Den: 12800}

	for _, tc := range []struct {
		name string
		info source.StreamInfo
		want int
	}{
		{
			name: "frame_count",
			info: source.StreamInfo{
				TimeBase:          tb,
				FrameCount:        250,
				StartPTS:          types.NoPTS,
				StreamDuration:    types.NoPTS,
				ContainerDuration: typing.Opt(10 * time.Second),
			},
			want: 250,
		},
		{
			name: "insane_frame_count_uses_stream_duration",
			info: source.StreamInfo{
				TimeBase:          tb,
				FrameCount:        100000,
				StartPTS:          types.NoPTS,
				StreamDuration:    12800 * 8,
				ContainerDuration: typing.Opt(10 * time.Second),
			},
			want: 200,
		},
		{
			name: "no_container_duration",
			info: source.StreamInfo{
				TimeBase:       tb,
				StartPTS:       types.NoPTS,
				StreamDuration: 12800 * 8,
			},
			want: 0,
		},
		{
			name: "video_starts_after_audio",
			info: source.StreamInfo{
				TimeBase:          tb,
				StartPTS:          12800,
				StreamDuration:    types.NoPTS,
				ContainerDuration: typing.Opt(10 * time.Second),
				AudioStartTime:    typing.Opt(time.Duration(0)),
			},
			want: 225,
		},
		{
			name: "video_starts_before_audio",
			info: source.StreamInfo{
				TimeBase:          tb,
				StartPTS:          0,
				StreamDuration:    types.NoPTS,
				ContainerDuration: typing.Opt(10 * time.Second),
				AudioStartTime:    typing.Opt(time.Second),
			},
			want: 250,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, estimateDurationInFrames(tc.info, fps25))
		})
	}
}

func TestReduceFrameRate(t *testing.T) {
	num, den := reduceFrameRate(types.Rational{Num: 25, Den: 1})
	require.Equal(t, 25, num)
	require.Equal(t, float64(AVTimeBase), den)

	num, den = reduceFrameRate(types.Rational{Num: 30000, Den: 1001})
	require.Equal(t, 3, num)
	require.Equal(t, 100100.0, den)

	num, den = reduceFrameRate(types.Rational{Num: 60, Den: 1})
	require.Equal(t, 6, num)
	require.Equal(t, 100000.0, den)
}
