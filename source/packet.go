package source

import (
	"fmt"

	"github.com/xaionaro-go/avanim/types"
)

// Packet is a compressed packet read from the container.
type Packet struct {
	StreamIndex int
	PTS         int64
	DTS         int64
	Duration    int64

	// Pos is the byte position in the file, -1 if unknown.
	Pos int64

	KeyFrame bool

	// Payload is the compressed data, unless the backend keeps it in Handle.
	Payload []byte

	// Handle is a backend-owned reference to the demuxed packet with
	// everything the fields above do not carry (side data, flags). It is
	// never modified once read, so copies of the packet share it.
	Handle any
}

func (p *Packet) String() string {
	if p == nil {
		return "Packet(nil)"
	}
	return fmt.Sprintf(
		"Packet(stream:%d, pts:%d, dts:%d, key:%t, size:%d, handle:%t)",
		p.StreamIndex, p.PTS, p.DTS, p.KeyFrame, len(p.Payload), p.Handle != nil,
	)
}

// Timestamp is the PTS of the packet, or its DTS if the PTS is unknown.
func (p *Packet) Timestamp() int64 {
	return types.PTSOrDTS(p.PTS, p.DTS)
}

// Reset makes the packet empty, keeping the payload memory.
func (p *Packet) Reset() {
	*p = Packet{
		StreamIndex: -1,
		PTS:         types.NoPTS,
		DTS:         types.NoPTS,
		Pos:         -1,
		Payload:     p.Payload[:0],
	}
}

// CopyFrom makes p a deep copy of src.
func (p *Packet) CopyFrom(src *Packet) {
	payload := append(p.Payload[:0], src.Payload...)
	*p = *src
	p.Payload = payload
}
