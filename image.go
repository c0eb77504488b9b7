package avanim

import (
	"github.com/xaionaro-go/avanim/postprocess"
)

// Image is a fetched frame: an RGBA picture with its labels.
//
// The rows are stored bottom-up: Row(0) and the first Stride bytes of Pix
// are the bottom row of the picture. Use ToRGBA for a top-down
// image.RGBA.
type Image struct {
	postprocess.Buffer

	// ColorSpace is the color space name of the pixels, see Config.ColorSpace.
	ColorSpace string

	// FrameIndex is the position the image was fetched for.
	FrameIndex int
	PTS        int64

	// Name is "<path>.<frame number starting from 1>".
	Name string

	// HasAlpha is set if the decoded pixel format has an alpha channel.
	// Otherwise the alpha of every pixel is 255.
	HasAlpha bool

	Metadata map[string]string
}
