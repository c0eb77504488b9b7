package scaler

import (
	"context"

	"github.com/xaionaro-go/avanim/internal"
)

func setFinalizerFree[T interface{ Free() }](
	ctx context.Context,
	freer T,
) {
	internal.SetFinalizerFree(ctx, freer)
}
