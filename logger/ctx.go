package logger

import (
	"context"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/pkg/field"
	"github.com/facebookincubator/go-belt/tool/logger"
)

const (
	FieldPath     = "path"
	FieldStream   = "stream"
	FieldPosition = "position"
)

func FromCtx(ctx context.Context) Logger {
	return logger.FromCtx(ctx)
}

func CtxWithLogger(ctx context.Context, l Logger) context.Context {
	return logger.CtxWithLogger(ctx, l)
}

// CtxWithAnim attaches the identity of an anim handle to every message
// logged through ctx.
func CtxWithAnim(ctx context.Context, path string, streamSelector int) context.Context {
	return belt.WithFields(ctx, field.Map[any]{
		FieldPath:   path,
		FieldStream: streamSelector,
	})
}

func CtxWithPath(ctx context.Context, path string) context.Context {
	return belt.WithField(ctx, FieldPath, path)
}

func CtxWithPosition(ctx context.Context, position int) context.Context {
	return belt.WithField(ctx, FieldPosition, position)
}
