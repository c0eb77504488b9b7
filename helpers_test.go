package avanim_test

import (
	"context"
	"testing"

	"github.com/facebookincubator/go-belt"
	"github.com/facebookincubator/go-belt/pkg/runtime"
	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/facebookincubator/go-belt/tool/logger/implementation/logrus"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim"
	"github.com/xaionaro-go/avanim/internal/testsource"
	"github.com/xaionaro-go/avanim/seekindex"
	"github.com/xaionaro-go/observability"
)

func init() {
	runtime.DefaultCallerPCFilter = observability.CallerPCFilter(runtime.DefaultCallerPCFilter)
}

func testCtx(t *testing.T) context.Context {
	l := logrus.Default().WithLevel(logger.LevelTrace)
	ctx := logger.CtxWithLogger(context.Background(), l)
	t.Cleanup(func() { belt.Flush(ctx) })
	return ctx
}

func openTestAnim(
	t *testing.T,
	ctx context.Context,
	srcCfg testsource.Config,
	modifyCfg func(*avanim.Config),
) (*avanim.Anim, *testsource.Source) {
	src := testsource.New(srcCfg)
	cfg := avanim.DefaultConfig()
	cfg.Opener = src
	if modifyCfg != nil {
		modifyCfg(&cfg)
	}
	anim := avanim.Open(ctx, "/tmp/test.mov", 0, cfg)
	t.Cleanup(func() {
		require.NoError(t, anim.Close(ctx))
	})
	return anim, src
}

// indexOf builds a per-frame seek index of the synthetic stream where every
// frame points to the last keyframe before it.
func indexOf(t *testing.T, src *testsource.Source) *seekindex.Table {
	packetSize := int64(1000)
	if src.Config.WithAudio {
		packetSize = 2000
	}
	var (
		entries []seekindex.Entry
		key     int
	)
	for idx := 0; idx < src.Config.FrameCount; idx++ {
		if src.IsKeyFrame(idx) {
			key = idx
		}
		entries = append(entries, seekindex.Entry{
			FrameNumber: idx,
			PTS:         src.PTS(idx),
			SeekPos:     int64(key) * packetSize,
			SeekPosPTS:  src.PTS(key),
			SeekPosDTS:  src.PTS(key),
		})
	}
	table, err := seekindex.NewTable(entries)
	require.NoError(t, err)
	return table
}

func requireLuma(t *testing.T, img *avanim.Image, luma uint8) {
	t.Helper()
	require.NotNil(t, img)
	for y := 0; y < img.Height; y++ {
		row := img.Row(y)
		for x := 0; x < img.Width; x++ {
			require.Equal(t, []byte{luma, luma, luma, 255}, row[x*4:x*4+4], "x:%d y:%d", x, y)
		}
	}
}
