package avanim

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaionaro-go/avanim/seekindex"
)

// Timecode selects which seek index (if any) maps frame positions to
// timestamps.
type Timecode int

const (
	TimecodeNone = Timecode(iota)
	TimecodeRecordRun
	TimecodeFreeRun
	TimecodeInterpolatedRecordRun
	TimecodeRecordRunNoGaps
)

func (tc Timecode) String() string {
	switch tc {
	case TimecodeNone:
		return "none"
	case TimecodeRecordRun:
		return "record_run"
	case TimecodeFreeRun:
		return "free_run"
	case TimecodeInterpolatedRecordRun:
		return "interpolated_record_run"
	case TimecodeRecordRunNoGaps:
		return "record_run_no_gaps"
	default:
		return fmt.Sprintf("Timecode(%d)", int(tc))
	}
}

// Set implements pflag.Value.
func (tc *Timecode) Set(s string) error {
	for candidate := TimecodeNone; candidate <= TimecodeRecordRunNoGaps; candidate++ {
		if strings.EqualFold(candidate.String(), strings.TrimSpace(s)) {
			*tc = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown timecode '%s'", s)
}

func (tc *Timecode) Type() string {
	return "timecode"
}

// IndexProvider returns the seek index built for a timecode type, or nil
// if there is none. The returned index is only read.
type IndexProvider interface {
	Index(ctx context.Context, path string, tc Timecode) seekindex.Index
}

type IndexProviderFunc func(ctx context.Context, path string, tc Timecode) seekindex.Index

var _ IndexProvider = IndexProviderFunc(nil)

func (fn IndexProviderFunc) Index(ctx context.Context, path string, tc Timecode) seekindex.Index {
	return fn(ctx, path, tc)
}

// StaticIndexes is an IndexProvider of already loaded indexes.
type StaticIndexes map[Timecode]seekindex.Index

var _ IndexProvider = StaticIndexes(nil)

func (m StaticIndexes) Index(_ context.Context, _ string, tc Timecode) seekindex.Index {
	if tc == TimecodeNone {
		return nil
	}
	idx, ok := m[tc]
	if !ok {
		return nil
	}
	return idx
}
