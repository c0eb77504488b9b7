package source

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/types"
)

func TestPacketResetAndCopy(t *testing.T) {
	handle := &struct{ sideData []byte }{sideData: []byte{7}}
	src := &Packet{StreamIndex: 1, PTS: 10, DTS: 8, KeyFrame: true, Payload: []byte{1, 2, 3}, Handle: handle}

	var dst Packet
	dst.CopyFrom(src)
	require.Equal(t, *src, dst)
	src.Payload[0] = 9
	require.Equal(t, byte(1), dst.Payload[0])
	require.Same(t, handle, dst.Handle)

	dst.Reset()
	require.Nil(t, dst.Handle)
	require.Equal(t, -1, dst.StreamIndex)
	require.Equal(t, types.NoPTS, dst.Timestamp())
	require.Empty(t, dst.Payload)

	dst.DTS = 5
	require.Equal(t, int64(5), dst.Timestamp())
}

func TestStreamInfoStartTime(t *testing.T) {
	info := StreamInfo{TimeBase: types.Rational{Num: 1, Den: 1000}, StartPTS: types.NoPTS}
	require.Zero(t, info.StartTime())
	info.StartPTS = 1500
	require.InDelta(t, 1.5, info.StartTime().Seconds(), 1e-9)
}
