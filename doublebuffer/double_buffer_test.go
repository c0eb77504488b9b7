package doublebuffer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/ts"
	"github.com/xaionaro-go/avanim/types"
)

var testClock = ts.NewFrameClock(
	types.Rational{Num: 1, Den: 12800},
	types.Rational{Num: 25, Den: 1},
	types.NoPTS,
)

func decode(t *testing.T, b *DoubleBuffer, pts, duration int64) {
	f := b.DecodeTarget()
	require.NoError(t, f.Allocate(2, 2, frame.PixelFormatGray8))
	f.PTS = pts
	f.Duration = duration
	b.MarkRecentValid(true)
}

func TestSelectByPTSWindow(t *testing.T) {
	ctx := context.Background()
	b := New()
	defer b.Release()

	f, slot := b.SelectByPTS(ctx, 0, testClock)
	require.Nil(t, f)
	require.Equal(t, SlotNone, slot)

	decode(t, b, 1024, 512)
	for pts := int64(1024); pts < 1024+512; pts += 64 {
		f, slot := b.SelectByPTS(ctx, pts, testClock)
		require.Equal(t, SlotRecent, slot, pts)
		require.Equal(t, int64(1024), f.PTS)
	}
	_, slot = b.SelectByPTS(ctx, 1024+512, testClock)
	require.Equal(t, SlotNone, slot)
	_, slot = b.SelectByPTS(ctx, 1023, testClock)
	require.Equal(t, SlotNone, slot)
}

func TestSelectByPTSUnknownDuration(t *testing.T) {
	ctx := context.Background()
	b := New()
	defer b.Release()

	decode(t, b, 0, 0)
	_, slot := b.SelectByPTS(ctx, 511, testClock)
	require.Equal(t, SlotRecent, slot)
	_, slot = b.SelectByPTS(ctx, 512, testClock)
	require.Equal(t, SlotNone, slot)
}

func TestBackupOnOvershoot(t *testing.T) {
	ctx := context.Background()
	b := New()
	defer b.Release()

	// a variable-frame-rate stream: frames at 0, 700, 1400
	target := int64(1000)
	curPTS := types.NoPTS
	for _, pts := range []int64{0, 700, 1400} {
		if curPTS >= target {
			break
		}
		b.StoreBackup(ctx, target, curPTS)
		decode(t, b, pts, 300)
		curPTS = pts
	}

	f, slot := b.SelectByPTS(ctx, target, testClock)
	require.Equal(t, SlotBackup, slot)
	require.Equal(t, int64(700), f.PTS)
	require.LessOrEqual(t, b.Backup().PTS, b.Recent().PTS)
}

func TestStoreBackupKeepsUsefulBackup(t *testing.T) {
	ctx := context.Background()
	b := New()
	defer b.Release()

	require.False(t, b.StoreBackup(ctx, 100, types.NoPTS), "nothing to store")

	decode(t, b, 0, 512)
	require.True(t, b.StoreBackup(ctx, 1000, 0))
	require.Nil(t, b.Recent())
	require.Equal(t, int64(0), b.Backup().PTS)

	decode(t, b, 512, 512)
	require.False(t, b.StoreBackup(ctx, 400, 512), "the backup is still useful")
	require.Equal(t, int64(0), b.Backup().PTS)
	require.Equal(t, int64(512), b.Recent().PTS)
}

func TestFallback(t *testing.T) {
	ctx := context.Background()
	b := New()
	defer b.Release()

	f, slot := b.Fallback(ctx)
	require.Nil(t, f)
	require.Equal(t, SlotNone, slot)

	decode(t, b, 0, 512)
	b.StoreBackup(ctx, 10000, 0)
	f, slot = b.Fallback(ctx)
	require.Equal(t, SlotBackup, slot)
	require.Equal(t, int64(0), f.PTS)

	decode(t, b, 512, 512)
	f, slot = b.Fallback(ctx)
	require.Equal(t, SlotRecent, slot)
	require.Equal(t, int64(512), f.PTS)

	b.Clear()
	require.Nil(t, b.Recent())
	require.Nil(t, b.Backup())
}

func TestFailedDecodeInvalidatesRecent(t *testing.T) {
	b := New()
	defer b.Release()

	decode(t, b, 0, 512)
	b.DecodeTarget()
	b.MarkRecentValid(false)
	require.Nil(t, b.Recent())
}
