package avanim

import (
	"context"
	"fmt"
	"strings"

	"github.com/xaionaro-go/avanim/logger"
	"github.com/xaionaro-go/avanim/seekindex"
	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
)

// byteSeekFormats are the container formats which are seeked by byte
// offset when a seek index is available.
var byteSeekFormats = []string{"mpegts"}

// mustSeek reports whether position cannot be reached by just decoding the
// next frame.
func (a *Anim) mustSeek(position int) bool {
	mustSeek := position != a.curPosition+1 || a.buffers.Recent() == nil
	a.seekBeforeDecode = mustSeek
	return mustSeek
}

// ptsToSearch estimates the presentation timestamp of position.
func (a *Anim) ptsToSearch(position int, idx seekindex.Index) int64 {
	if idx != nil {
		return idx.PTS(idx.ScanRegion(position))
	}
	return a.clock.PTSForFrame(position)
}

func (a *Anim) seekByByte() bool {
	if a.info.TimestampsDiscontinuous {
		return true
	}
	for _, name := range strings.Split(a.info.FormatName, ",") {
		for _, candidate := range byteSeekFormats {
			if strings.EqualFold(strings.TrimSpace(name), candidate) {
				return true
			}
		}
	}
	return false
}

func (a *Anim) seek(
	ctx context.Context,
	streamIndex int,
	target int64,
	flags source.SeekFlags,
) error {
	a.Statistics.Seeks.Inc()
	logger.Tracef(ctx, "seek(%d, %d, %s)", streamIndex, target, flags)
	return a.stream.Demuxer.Seek(ctx, streamIndex, target, flags)
}

// seekToKeyFrame repositions the demuxer so that the next decoded frames
// lead to position, and flushes the decoder if the position changed.
func (a *Anim) seekToKeyFrame(
	ctx context.Context,
	position int,
	idx seekindex.Index,
	ptsToSearch int64,
) (_err error) {
	logger.Tracef(ctx, "seekToKeyFrame(%d, %d)", position, ptsToSearch)
	defer func() { logger.Tracef(ctx, "/seekToKeyFrame(%d, %d): %v", position, ptsToSearch, _err) }()

	var (
		seekPos int64
		err     error
	)
	if idx != nil {
		newRegion := idx.ScanRegion(position)
		oldRegion := idx.ScanRegion(a.curPosition)
		if a.curPosition >= 0 && idx.CanScanWithoutReseek(oldRegion, newRegion) {
			return nil
		}

		anchor := idx.SeekAnchor(newRegion)
		seekPos = anchor.ByteOffset
		a.curKeyFramePTS = types.PTSOrDTS(anchor.PTS, anchor.DTS)
		logger.Debugf(ctx, "TC INDEX seek seek_pos = %d, pts = %d, dts = %d", anchor.ByteOffset, anchor.PTS, anchor.DTS)

		a.Statistics.Repositions.Inc()
		if a.seekByByte() {
			logger.Debugf(ctx, "... using BYTE seek_pos")
			err = a.seek(ctx, -1, anchor.ByteOffset, source.SeekFlagByte)
		} else {
			logger.Debugf(ctx, "... using PTS seek_pos")
			err = a.seek(ctx, a.info.StreamIndex, a.curKeyFramePTS, source.SeekFlagBackward)
		}
	} else {
		seekPos = a.clock.SeekPTS(ptsToSearch, a.Config.SeekBackoffFrames)
		logger.Debugf(ctx, "NO INDEX final seek seek_pos = %d", seekPos)

		a.Statistics.Repositions.Inc()
		if a.info.HasNativeSeek {
			err = a.seek(ctx, a.info.StreamIndex, seekPos, source.SeekFlagBackward)
		} else {
			seekPos, err = a.genericSeekWorkaround(ctx, seekPos, ptsToSearch)
			logger.Debugf(ctx, "Adjusted final seek seek_pos = %d", seekPos)
		}

		if !a.buffersNeedFlushing(ctx, position, seekPos) {
			return err
		}
	}

	if err != nil {
		logger.Errorf(ctx,
			"FETCH: error while seeking to DTS = %d (frameno = %d, PTS = %d): %v",
			seekPos, position, ptsToSearch, err,
		)
		err = fmt.Errorf("unable to seek to %d: %w", seekPos, err)
	}
	a.flushDecoder(ctx)
	return err
}

// genericSeekWorkaround steps back frame by frame from requestedPTS until
// a seek lands on a keyframe at or before ptsToSearch. It is used for
// formats whose seeking may land after the needed keyframe. Returns the
// timestamp it finally seeked to.
func (a *Anim) genericSeekWorkaround(
	ctx context.Context,
	requestedPTS int64,
	ptsToSearch int64,
) (_ret int64, _err error) {
	logger.Tracef(ctx, "genericSeekWorkaround(%d, %d)", requestedPTS, ptsToSearch)
	defer func() { logger.Tracef(ctx, "/genericSeekWorkaround(%d, %d): %d %v", requestedPTS, ptsToSearch, _ret, _err) }()

	currentPTS := requestedPTS
	prevPTS := types.NoPTS
	for offset := 0; currentPTS != 0; offset++ {
		if offset >= a.Config.MaxSeekWorkaroundSteps {
			logger.Warnf(ctx, "no keyframe found within %d steps back, decoding from the beginning", offset)
			currentPTS = 0
			break
		}
		currentPTS = a.clock.StepBack(requestedPTS, offset)

		if err := a.seek(ctx, a.info.StreamIndex, currentPTS, source.SeekFlagBackward); err != nil {
			logger.Debugf(ctx, "unable to seek to %d: %v", currentPTS, err)
			break
		}
		if err := a.readVideoPacket(ctx, &a.scratchPacket); err != nil {
			logger.Debugf(ctx, "unable to read a packet after seeking to %d: %v", currentPTS, err)
			break
		}

		pktPTS := a.scratchPacket.Timestamp()
		if a.scratchPacket.KeyFrame && pktPTS <= ptsToSearch {
			break
		}
		if pktPTS == prevPTS {
			// the same packet twice: we are at the beginning of the stream
			break
		}
		prevPTS = pktPTS
	}

	return currentPTS, a.seek(ctx, a.info.StreamIndex, currentPTS, source.SeekFlagBackward)
}

// buffersNeedFlushing checks whether the seek actually moved the stream
// somewhere else than where the decoder already is. If it did not, the
// read position is restored and the decoder state is kept.
func (a *Anim) buffersNeedFlushing(
	ctx context.Context,
	position int,
	seekPos int64,
) bool {
	if err := a.readVideoPacket(ctx, &a.scratchPacket); err != nil {
		logger.Debugf(ctx, "unable to read a packet after seeking: %v", err)
		a.scratchPacket.Reset()
	}
	gopPTS := a.scratchPacket.Timestamp()

	if a.hasPendingPacket && gopPTS == a.pendingPacket.Timestamp() {
		logger.Debugf(ctx, "the seek landed on the current packet, keeping the decoder state")
		return false
	}

	if a.hasPendingPacket && gopPTS == a.curKeyFramePTS && position > a.curPosition {
		logger.Debugf(ctx, "the seek landed on the current GOP, recovering the stream position")
		a.recoverStreamPosition(ctx)
		return false
	}

	if err := a.seek(ctx, a.info.StreamIndex, seekPos, source.SeekFlagBackward); err != nil {
		logger.Errorf(ctx, "unable to seek back to %d: %v", seekPos, err)
	}
	a.curKeyFramePTS = gopPTS
	return true
}

// recoverStreamPosition reads packets until the one the decoder consumed
// last, so that reading continues right after it.
func (a *Anim) recoverStreamPosition(ctx context.Context) {
	want := a.pendingPacket.Timestamp()
	for {
		if err := a.readVideoPacket(ctx, &a.scratchPacket); err != nil {
			logger.Debugf(ctx, "unable to recover the stream position: %v", err)
			return
		}
		if a.scratchPacket.Timestamp() == want {
			return
		}
	}
}

// flushDecoder drops everything buffered in the decoder and both slots.
func (a *Anim) flushDecoder(ctx context.Context) {
	if err := a.stream.Decoder.FlushBuffers(ctx); err != nil {
		logger.Errorf(ctx, "unable to flush the decoder: %v", err)
	}
	a.buffers.Clear()
	a.curPTS = types.NoPTS
	a.dropPendingPacket()
	a.Statistics.Flushes.Inc()
}
