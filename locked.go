package avanim

import (
	"context"

	"github.com/xaionaro-go/xsync"
)

// Locked serializes the access to an Anim, so it can be shared between
// goroutines.
type Locked struct {
	locker xsync.Mutex
	anim   *Anim
}

func NewLocked(anim *Anim) *Locked {
	return &Locked{anim: anim}
}

func (l *Locked) Fetch(
	ctx context.Context,
	position int,
	tc Timecode,
) (*Image, error) {
	return xsync.DoA3R2(ctx, &l.locker, l.anim.Fetch, ctx, position, tc)
}

func (l *Locked) FetchInto(
	ctx context.Context,
	position int,
	tc Timecode,
	dst *Image,
) error {
	return xsync.DoR1(ctx, &l.locker, func() error {
		return l.anim.FetchInto(ctx, position, tc, dst)
	})
}

func (l *Locked) PreviewFrame(ctx context.Context) (*Image, error) {
	return xsync.DoA1R2(ctx, &l.locker, l.anim.PreviewFrame, ctx)
}

func (l *Locked) Duration(ctx context.Context, tc Timecode) int {
	return xsync.DoR1(ctx, &l.locker, func() int {
		return l.anim.Duration(ctx, tc)
	})
}

func (l *Locked) CurrentPosition(ctx context.Context) int {
	return xsync.DoR1(ctx, &l.locker, l.anim.CurrentPosition)
}

func (l *Locked) Statistics() StatisticsSnapshot {
	return l.anim.Statistics.Snapshot()
}

func (l *Locked) Close(ctx context.Context) error {
	return xsync.DoA1R1(ctx, &l.locker, l.anim.Close, ctx)
}
