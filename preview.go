package avanim

import (
	"context"
	"fmt"
	"strconv"
)

const (
	MetadataKeyThumbWidth    = "Thumb::Video::Width"
	MetadataKeyThumbHeight   = "Thumb::Video::Height"
	MetadataKeyThumbFrames   = "Thumb::Video::Frames"
	MetadataKeyThumbFPS      = "Thumb::Video::FPS"
	MetadataKeyThumbDuration = "Thumb::Video::Duration"
	MetadataKeyThumbCodec    = "Thumb::Video::Codec"
)

// PreviewFrame returns the frame in the middle of the video, labeled with
// the thumbnail metadata (resolution, frames, frame rate, duration and
// codec).
func (a *Anim) PreviewFrame(ctx context.Context) (_ret *Image, _err error) {
	// the first frame makes sure the stream is probed and decodable
	if _, err := a.Fetch(ctx, 0, TimecodeNone); err != nil {
		return nil, fmt.Errorf("unable to fetch the first frame: %w", err)
	}

	frames := a.Duration(ctx, TimecodeNone)
	img, err := a.Fetch(ctx, frames/2, TimecodeNone)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch frame %d: %w", frames/2, err)
	}

	img.Metadata = map[string]string{
		MetadataKeyThumbWidth:  strconv.Itoa(a.Width()),
		MetadataKeyThumbHeight: strconv.Itoa(a.Height()),
		MetadataKeyThumbFrames: strconv.Itoa(frames),
	}
	if fr := a.FrameRate(); fr.Num != 0 {
		fps := fr.Float64()
		img.Metadata[MetadataKeyThumbFPS] = strconv.FormatFloat(fps, 'g', -1, 64)
		img.Metadata[MetadataKeyThumbDuration] = strconv.FormatFloat(float64(frames)/fps, 'g', -1, 64)
		img.Metadata[MetadataKeyThumbCodec] = a.info.CodecLongName
	}
	return img, nil
}
