// double_buffer.go implements the two-slot cache of decoded frames.

// Package doublebuffer keeps the two most recently decoded frames, so that
// an imprecise seek or an overshooting scan can still return the right one.
package doublebuffer

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/ts"
)

type Slot int

const (
	SlotNone = Slot(iota)
	SlotRecent
	SlotBackup
)

func (s Slot) String() string {
	switch s {
	case SlotNone:
		return "none"
	case SlotRecent:
		return "recent"
	case SlotBackup:
		return "backup"
	default:
		return fmt.Sprintf("Slot(%d)", int(s))
	}
}

// DoubleBuffer holds the "recent" frame (the one decoded last) and the
// "backup" frame (the one decoded right before it).
//
// The backup slot is only ever filled by moving the recent frame into it,
// so backup is never newer than recent.
//
// Not safe for concurrent use.
type DoubleBuffer struct {
	recent      *frame.Frame
	backup      *frame.Frame
	recentValid bool
	backupValid bool
}

func New() *DoubleBuffer {
	return &DoubleBuffer{
		recent: frame.Pool.Get(),
		backup: frame.Pool.Get(),
	}
}

func (b *DoubleBuffer) String() string {
	return fmt.Sprintf("DoubleBuffer(recent:%s, backup:%s)", b.Recent(), b.Backup())
}

// DecodeTarget returns the frame the next decoded picture has to be written
// into. The recent slot is invalid until MarkRecentValid is called.
func (b *DoubleBuffer) DecodeTarget() *frame.Frame {
	b.recentValid = false
	return b.recent
}

// MarkRecentValid marks whether the last decoding into DecodeTarget succeeded.
func (b *DoubleBuffer) MarkRecentValid(valid bool) {
	b.recentValid = valid
}

// Recent returns the recent frame, or nil if the slot is empty.
func (b *DoubleBuffer) Recent() *frame.Frame {
	if !b.recentValid {
		return nil
	}
	return b.recent
}

// Backup returns the backup frame, or nil if the slot is empty.
func (b *DoubleBuffer) Backup() *frame.Frame {
	if !b.backupValid {
		return nil
	}
	return b.backup
}

// StoreBackup moves the recent frame into the backup slot before the next
// decoding, unless the backup already holds a frame and the scan already
// reached ptsToSearch (curPTS >= ptsToSearch), in which case the backup is
// still the most useful one.
func (b *DoubleBuffer) StoreBackup(
	ctx context.Context,
	ptsToSearch int64,
	curPTS int64,
) bool {
	if b.backupValid && curPTS >= ptsToSearch {
		return false
	}
	if !b.recentValid {
		return false
	}
	logger.Tracef(ctx, "moving %s into the backup slot", b.recent)
	b.recent, b.backup = b.backup, b.recent
	b.recent.Reset()
	b.backupValid = true
	b.recentValid = false
	return true
}

// Clear invalidates both slots.
func (b *DoubleBuffer) Clear() {
	b.recentValid = false
	b.backupValid = false
}

// SelectByPTS returns the frame whose presentation interval contains
// ptsToSearch: the recent frame covers [pts, pts+duration) and the backup
// frame covers [backup.pts, recent.pts).
func (b *DoubleBuffer) SelectByPTS(
	ctx context.Context,
	ptsToSearch int64,
	clock ts.FrameClock,
) (*frame.Frame, Slot) {
	if !b.recentValid {
		return nil, SlotNone
	}

	recentStart := b.recent.PTS
	recentEnd := recentStart + clock.FrameDuration(b.recent.Duration)
	if isWithin(recentStart, recentEnd, ptsToSearch) {
		logger.Debugf(ctx, "DECODE HAPPY: recent frame PTS range %d - %d", recentStart, recentEnd)
		return b.recent, SlotRecent
	}

	if b.backupValid && isWithin(b.backup.PTS, recentStart, ptsToSearch) {
		logger.Debugf(ctx, "DECODE HAPPY: backup frame PTS range %d - %d", b.backup.PTS, recentStart)
		return b.backup, SlotBackup
	}

	return nil, SlotNone
}

// Fallback returns the recent frame if any, else the backup frame if any.
func (b *DoubleBuffer) Fallback(ctx context.Context) (*frame.Frame, Slot) {
	logger.Errorf(ctx, "DECODE UNHAPPY: PTS not matched")
	switch {
	case b.recentValid:
		return b.recent, SlotRecent
	case b.backupValid:
		return b.backup, SlotBackup
	default:
		return nil, SlotNone
	}
}

// Release returns the frames to frame.Pool; the buffer must not be used after.
func (b *DoubleBuffer) Release() {
	b.Clear()
	frame.Pool.Put(b.recent, b.backup)
	b.recent, b.backup = nil, nil
}

func isWithin(start, end, pts int64) bool {
	return start <= pts && pts < end
}
