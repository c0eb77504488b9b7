package libav

import (
	"testing"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/source"
)

func TestPacketKeepsSideData(t *testing.T) {
	avPkt := astiav.AllocPacket()
	defer avPkt.Free()
	require.NoError(t, avPkt.FromData([]byte{1, 2, 3, 4}))
	avPkt.SetStreamIndex(1)
	avPkt.SetPts(1024)
	avPkt.SetDts(512)
	avPkt.SetFlags(avPkt.Flags().Add(astiav.PacketFlagKey).Add(astiav.PacketFlagCorrupt))
	extradata := []byte{0xde, 0xad, 0xbe, 0xef}
	require.NoError(t, avPkt.SideData().Add(astiav.PacketSideDataTypeNewExtradata, extradata))

	var pkt source.Packet
	pkt.Reset()
	toPacket(&pkt, avPkt)
	require.Equal(t, 1, pkt.StreamIndex)
	require.Equal(t, int64(1024), pkt.PTS)
	require.Equal(t, int64(512), pkt.DTS)
	require.True(t, pkt.KeyFrame)

	// the decode engine keeps copies of packets
	var pending source.Packet
	pending.CopyFrom(&pkt)

	scratch := astiav.AllocPacket()
	defer scratch.Free()
	sent, err := fromPacket(scratch, &pending)
	require.NoError(t, err)
	require.Same(t, avPkt, sent)
	require.Equal(t, []byte{1, 2, 3, 4}, sent.Data())
	require.Equal(t, extradata, sent.SideData().Get(astiav.PacketSideDataTypeNewExtradata))
	require.True(t, sent.Flags().Has(astiav.PacketFlagCorrupt))
}

func TestPacketFromPayload(t *testing.T) {
	pkt := source.Packet{
		StreamIndex: 2,
		PTS:         100,
		DTS:         90,
		Duration:    10,
		Pos:         4096,
		KeyFrame:    true,
		Payload:     []byte{5, 6, 7},
	}

	scratch := astiav.AllocPacket()
	defer scratch.Free()
	sent, err := fromPacket(scratch, &pkt)
	require.NoError(t, err)
	require.Same(t, scratch, sent)
	require.Equal(t, []byte{5, 6, 7}, sent.Data())
	require.Equal(t, 2, sent.StreamIndex())
	require.Equal(t, int64(100), sent.Pts())
	require.Equal(t, int64(90), sent.Dts())
	require.Equal(t, int64(4096), sent.Pos())
	require.True(t, sent.Flags().Has(astiav.PacketFlagKey))
}
