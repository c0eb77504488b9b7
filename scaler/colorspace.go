package scaler

import (
	"context"
	"fmt"
	"reflect"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/unsafetools"
)

/*
#cgo pkg-config: libswscale
#include <libswscale/swscale.h>

static int set_source_colorspace(struct SwsContext *c, int colorspace, int src_range) {
	int *inv_table, *table;
	int cur_src_range, dst_range, brightness, contrast, saturation;
	if (sws_getColorspaceDetails(c, &inv_table, &cur_src_range, &table, &dst_range, &brightness, &contrast, &saturation) < 0) {
		return -1;
	}
	return sws_setColorspaceDetails(c, sws_getCoefficients(colorspace), src_range, table, dst_range, brightness, contrast, saturation);
}
*/
import "C"

// SetSourceColorspace makes the scaler read YCbCr with the coefficients of
// the given colorspace and range (sws_setColorspaceDetails).
func (s *Software) SetSourceColorspace(
	ctx context.Context,
	colorSpace astiav.ColorSpace,
	fullRange bool,
) error {
	logger.Tracef(ctx, "SetSourceColorspace(%v, %t)", colorSpace, fullRange)
	swsCtx := (*C.struct_SwsContext)(unsafetools.FieldByNameInValue(reflect.ValueOf(s.SoftwareScaleContext), "c").Elem().UnsafePointer())
	srcRange := C.int(0)
	if fullRange {
		srcRange = 1
	}
	if ret := C.set_source_colorspace(swsCtx, C.int(colorSpace), srcRange); ret < 0 {
		return fmt.Errorf("unable to set the colorspace details %v (full range: %t): %d", colorSpace, fullRange, int(ret))
	}
	return nil
}
