package internal

import (
	"context"
	"runtime"

	"github.com/xaionaro-go/avanim/logger"
)

// SetFinalizerClose makes sure closer is closed if it was lost without
// an explicit Close.
func SetFinalizerClose[T interface{ Close(context.Context) error }](
	ctx context.Context,
	closer T,
) {
	runtime.SetFinalizer(closer, func(closer T) {
		logger.Debugf(ctx, "closing a lost %T", closer)
		if err := closer.Close(ctx); err != nil {
			logger.Errorf(ctx, "unable to close %T: %v", closer, err)
		}
	})
}

// SetFinalizerFree frees a go-astiav object once it is garbage collected.
func SetFinalizerFree[T interface{ Free() }](
	ctx context.Context,
	freer T,
) {
	runtime.SetFinalizer(freer, func(freer T) {
		logger.Debugf(ctx, "freeing %T", freer)
		freer.Free()
	})
}
