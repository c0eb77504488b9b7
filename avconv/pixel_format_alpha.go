package avconv

import (
	"github.com/asticode/go-astiav"
)

/*
#cgo pkg-config: libavutil
#include <libavutil/pixdesc.h>

static int pix_fmt_has_alpha(int pix_fmt) {
	const AVPixFmtDescriptor *desc = av_pix_fmt_desc_get(pix_fmt);
	return desc != NULL && (desc->flags & AV_PIX_FMT_FLAG_ALPHA) != 0;
}
*/
import "C"

// PixelFormatHasAlpha reports whether pixFmt carries an alpha channel
// (AV_PIX_FMT_FLAG_ALPHA).
func PixelFormatHasAlpha(pixFmt astiav.PixelFormat) bool {
	return C.pix_fmt_has_alpha(C.int(pixFmt)) != 0
}
