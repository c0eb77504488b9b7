package postprocess

import (
	"github.com/xaionaro-go/avanim/frame"
)

// yuvCoefficients are the libswscale ff_yuv2rgb_coeffs rows (crv, cbu, cgu,
// cgv) in 1/65536 units, defined for limited range chroma.
var yuvCoefficients = map[frame.ColorMatrix][4]int32{
	frame.ColorMatrixBT601:     {104597, 132201, 25675, 53279},
	frame.ColorMatrixBT709:     {117489, 138438, 13975, 34925},
	frame.ColorMatrixFCC:       {104448, 132798, 24759, 53109},
	frame.ColorMatrixSMPTE240M: {117579, 136230, 16907, 35559},
	frame.ColorMatrixBT2020:    {110013, 140363, 12277, 42626},
}

// colorCoefficients converts a YCbCr sample to RGB in 16.16 fixed point.
type colorCoefficients struct {
	lumaOffset int32
	cy         int32
	crv        int32
	cbu        int32
	cgu        int32
	cgv        int32
}

// yuvToRGBCoefficients mirrors sws_setColorspaceDetails: an unspecified
// matrix is BT.601 and anything but full range is limited (MPEG) range.
func yuvToRGBCoefficients(
	matrix frame.ColorMatrix,
	colorRange frame.ColorRange,
) colorCoefficients {
	table, ok := yuvCoefficients[matrix]
	if !ok {
		table = yuvCoefficients[frame.ColorMatrixBT601]
	}
	c := colorCoefficients{
		cy:  1 << 16,
		crv: table[0],
		cbu: table[1],
		cgu: table[2],
		cgv: table[3],
	}
	if colorRange == frame.ColorRangeFull {
		c.crv = c.crv * 224 / 255
		c.cbu = c.cbu * 224 / 255
		c.cgu = c.cgu * 224 / 255
		c.cgv = c.cgv * 224 / 255
	} else {
		c.lumaOffset = 16
		c.cy = c.cy * 255 / 219
	}
	return c
}

func (c colorCoefficients) luma(y uint8) uint8 {
	return clampUint8((c.cy*(int32(y)-c.lumaOffset) + 1<<15) >> 16)
}

func (c colorCoefficients) rgb(y, cb, cr uint8) (uint8, uint8, uint8) {
	l := c.cy * (int32(y) - c.lumaOffset)
	u := int32(cb) - 128
	v := int32(cr) - 128
	r := (l + c.crv*v + 1<<15) >> 16
	g := (l - c.cgu*u - c.cgv*v + 1<<15) >> 16
	b := (l + c.cbu*u + 1<<15) >> 16
	return clampUint8(r), clampUint8(g), clampUint8(b)
}
