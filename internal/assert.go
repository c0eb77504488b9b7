// Package internal contains helpers shared by avanim packages only.
package internal

import (
	"context"

	"github.com/xaionaro-go/avanim/logger"
)

// Assert logs an error if mustBeTrue is false, and returns mustBeTrue.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) bool {
	if mustBeTrue {
		return true
	}
	logger.Errorf(ctx, "assertion failed: %v", extraArgs)
	return false
}
