// pts.go defines constants and helpers related to Presentation Time Stamps (PTS).

// Package types contains small value types shared across avanim.
package types

import (
	"math"
)

const (
	// NoPTS marks an unknown timestamp; it has the same bit pattern as
	// libav's AV_NOPTS_VALUE.
	NoPTS = int64(math.MinInt64)
)

// PTSOrDTS returns pts if it is known, and dts otherwise.
func PTSOrDTS(pts, dts int64) int64 {
	if pts == NoPTS {
		return dts
	}
	return pts
}
