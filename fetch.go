package avanim

import (
	"context"
	"errors"
	"fmt"

	"github.com/xaionaro-go/avanim/frame"
	"github.com/xaionaro-go/avanim/internal"
	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/postprocess"
)

// Fetch returns the frame at position (counting from 0).
//
// Sequential fetches only decode forward; any other position repositions
// the demuxer first. If the exact frame could not be found, the closest
// decoded frame is returned instead (see Statistics.FallbackFrames).
func (a *Anim) Fetch(
	ctx context.Context,
	position int,
	tc Timecode,
) (_ret *Image, _err error) {
	img := &Image{}
	if err := a.FetchInto(ctx, position, tc, img); err != nil {
		return nil, err
	}
	return img, nil
}

// FetchInto is the same as Fetch, but writes into dst. The pixel buffer of
// dst is reused if its resolution matches.
func (a *Anim) FetchInto(
	ctx context.Context,
	position int,
	tc Timecode,
	dst *Image,
) (_err error) {
	ctx = logger.CtxWithPosition(ctx, position)
	logger.Tracef(ctx, "FetchInto(%d, %s)", position, tc)
	defer func() { logger.Tracef(ctx, "/FetchInto(%d, %s): %v", position, tc, _err) }()

	if a == nil {
		return ErrInvalidHandle{Err: fmt.Errorf("nil handle")}
	}
	if dst == nil {
		return fmt.Errorf("no destination image")
	}
	a.Statistics.Fetches.Inc()
	defer func() {
		if _err == nil {
			return
		}
		if errors.As(_err, &ErrOutOfRange{}) {
			a.Statistics.OutOfRange.Inc()
			return
		}
		a.Statistics.FetchFailures.Inc()
	}()

	if err := a.Probe(ctx); err != nil {
		return err
	}

	if duration := a.Duration(ctx, tc); position < 0 || position >= duration {
		return ErrOutOfRange{Position: position, Duration: duration}
	}

	idx := a.index(ctx, tc)
	ptsToSearch := a.ptsToSearch(position, idx)
	logger.Debugf(ctx,
		"FETCH: looking for PTS=%d (pts_timebase=%s, frame_rate=%s, start_pts=%d)",
		ptsToSearch, a.clock.TimeBase, a.clock.FrameRate, a.clock.StartPTS,
	)

	if a.mustSeek(position) {
		if err := a.seekToKeyFrame(ctx, position, idx, ptsToSearch); err != nil {
			logger.Debugf(ctx, "continuing despite the seek error: %v", err)
		}
	}

	steps, err := a.scanToTarget(ctx, ptsToSearch)
	if err != nil {
		logger.Debugf(ctx, "the scan stopped early: %v", err)
	}
	a.updateScanCost(ctx, steps)

	if w, h := a.stream.Decoder.Resolution(); w > 0 && h > 0 {
		a.width, a.height = w, h
	}

	f, slot := a.buffers.SelectByPTS(ctx, ptsToSearch, a.clock)
	if f != nil {
		internal.Assert(ctx, f.PTS <= ptsToSearch, "selected a frame past the target", f, ptsToSearch)
	}
	if f == nil {
		f, slot = a.buffers.Fallback(ctx)
		if f != nil {
			a.Statistics.FallbackFrames.Inc()
		}
	}
	if f == nil {
		return ErrNoFrame{Position: position}
	}
	logger.Tracef(ctx, "using the %s frame %s", slot, f)

	if err := a.render(ctx, f, position, dst); err != nil {
		return fmt.Errorf("unable to post-process %s: %w", f, err)
	}
	a.curPosition = position
	return nil
}

func (a *Anim) render(
	ctx context.Context,
	f *frame.Frame,
	position int,
	dst *Image,
) error {
	if dst.Width != a.width || dst.Height != a.height || dst.Pix == nil {
		buf, err := postprocess.NewBuffer(a.width, a.height)
		if err != nil {
			return err
		}
		dst.Buffer = *buf
	}

	report, err := a.postprocessor.Process(ctx, f, &dst.Buffer)
	if err != nil {
		return err
	}
	logger.Tracef(ctx, "post-processing: %#+v", report)

	dst.ColorSpace = a.Config.ColorSpace
	dst.FrameIndex = position
	dst.PTS = f.PTS
	dst.Name = fmt.Sprintf("%s.%04d", a.Path, position+1)
	dst.HasAlpha = f.HasAlpha
	return nil
}

// scanToTarget decodes forward until the current frame reaches ptsToSearch.
func (a *Anim) scanToTarget(ctx context.Context, ptsToSearch int64) (_steps int, _err error) {
	logger.Tracef(ctx, "scanToTarget(%d)", ptsToSearch)
	defer func() { logger.Tracef(ctx, "/scanToTarget(%d): %d, %v", ptsToSearch, _steps, _err) }()

	startGOP := a.curKeyFramePTS
	steps := 0
	for ; a.curPTS < ptsToSearch; steps++ {
		if steps >= a.Config.MaxScanSteps {
			return steps, ErrScanLimit{Steps: steps}
		}
		if recent := a.buffers.Recent(); recent != nil {
			logger.Debugf(ctx, "SCAN WHILE: PTS range %d - %d in search of %d",
				recent.PTS, recent.PTS+a.clock.FrameDuration(recent.Duration), ptsToSearch)
		}
		a.buffers.StoreBackup(ctx, ptsToSearch, a.curPTS)
		if err := a.decodeOneFrame(ctx); err != nil {
			return steps, err
		}
		a.Statistics.DecodeSteps.Inc()

		if a.seekBeforeDecode && startGOP != a.curKeyFramePTS {
			logger.Errorf(ctx, "SCAN: frame belongs to an unexpected GOP")
			a.Statistics.UnexpectedGOPs.Inc()
		}
	}
	return steps, nil
}

func (a *Anim) updateScanCost(ctx context.Context, steps int) {
	if a.scanCost == nil {
		return
	}
	avg := a.scanCost.Update(float64(steps))
	if a.scanCostWarned || !a.scanCost.Valid() || avg < a.Config.ScanCostWarnThreshold {
		return
	}
	a.scanCostWarned = true
	logger.Warnf(ctx, "decoding %.1f frames per fetch on average, consider a seek index", avg)
}
