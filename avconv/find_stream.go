package avconv

import (
	"context"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/avanim/logger"
)

// FindVideoStream returns the selector-th video stream of fmtCtx, counting
// video streams only.
func FindVideoStream(
	ctx context.Context,
	fmtCtx *astiav.FormatContext,
	selector int,
) *astiav.Stream {
	videoIdx := 0
	for _, stream := range fmtCtx.Streams() {
		if stream.CodecParameters().MediaType() != astiav.MediaTypeVideo {
			continue
		}
		if videoIdx == selector {
			logger.Debugf(ctx, "video stream #%d is stream #%d", selector, stream.Index())
			return stream
		}
		videoIdx++
	}
	return nil
}

// FindFirstStreamOfType returns the first stream of the given media type.
func FindFirstStreamOfType(
	fmtCtx *astiav.FormatContext,
	mediaType astiav.MediaType,
) *astiav.Stream {
	for _, stream := range fmtCtx.Streams() {
		if stream.CodecParameters().MediaType() == mediaType {
			return stream
		}
	}
	return nil
}
