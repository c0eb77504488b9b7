package libav

import (
	"fmt"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avanim/source"
)

// toPacket describes avPkt as pkt. avPkt itself becomes the handle, so
// the payload is not copied and side data reaches the decoder untouched.
func toPacket(pkt *source.Packet, avPkt *astiav.Packet) {
	pkt.StreamIndex = avPkt.StreamIndex()
	pkt.PTS = avPkt.Pts()
	pkt.DTS = avPkt.Dts()
	pkt.Duration = avPkt.Duration()
	pkt.Pos = avPkt.Pos()
	pkt.KeyFrame = avPkt.Flags().Has(astiav.PacketFlagKey)
	pkt.Payload = pkt.Payload[:0]
	pkt.Handle = avPkt
}

// fromPacket returns the AVPacket to decode pkt: its handle if it was
// demuxed by this backend, otherwise scratch rebuilt from the fields.
func fromPacket(scratch *astiav.Packet, pkt *source.Packet) (*astiav.Packet, error) {
	if avPkt, ok := pkt.Handle.(*astiav.Packet); ok && avPkt != nil {
		return avPkt, nil
	}

	scratch.Unref()
	if len(pkt.Payload) > 0 {
		if err := scratch.FromData(pkt.Payload); err != nil {
			return nil, fmt.Errorf("unable to fill the packet: %w", err)
		}
	}
	scratch.SetStreamIndex(pkt.StreamIndex)
	scratch.SetPts(pkt.PTS)
	scratch.SetDts(pkt.DTS)
	scratch.SetDuration(pkt.Duration)
	scratch.SetPos(pkt.Pos)
	if pkt.KeyFrame {
		scratch.SetFlags(scratch.Flags().Add(astiav.PacketFlagKey))
	}
	return scratch, nil
}
