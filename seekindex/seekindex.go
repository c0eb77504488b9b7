// Package seekindex describes precomputed frame-index tables which let the
// reader seek exactly instead of estimating timestamps.
package seekindex

// Anchor is where decoding has to start to reach a frame.
type Anchor struct {
	// ByteOffset is the position of the keyframe packet in the file.
	ByteOffset int64
	PTS        int64
	DTS        int64
}

// Index is a read-only seek index of a video stream.
type Index interface {
	// ScanRegion maps a frame number to the index entry which represents it.
	ScanRegion(frameNumber int) int

	// CanScanWithoutReseek reports whether region newRegion is reachable
	// from oldRegion by decoding forward, without seeking.
	CanScanWithoutReseek(oldRegion, newRegion int) bool

	// SeekAnchor returns the keyframe to start decoding from to reach region.
	SeekAnchor(region int) Anchor

	// PTS returns the exact presentation timestamp of region.
	PTS(region int) int64

	// Duration is the amount of frames covered by the index.
	Duration() int
}
