package avanim

import (
	"fmt"
)

// ErrOutOfRange is returned for frame positions outside [0, duration);
// it is a documented boundary, not a failure of the handle.
type ErrOutOfRange struct {
	Position int
	Duration int
}

func (e ErrOutOfRange) Error() string {
	return fmt.Sprintf("frame %d is out of range [0, %d)", e.Position, e.Duration)
}

// ErrInvalidHandle is returned by every fetch once the stream could not be
// opened or probed; the handle never recovers from it.
type ErrInvalidHandle struct {
	Err error
}

func (e ErrInvalidHandle) Error() string {
	return fmt.Sprintf("the video could not be opened: %v", e.Err)
}

func (e ErrInvalidHandle) Unwrap() error {
	return e.Err
}

// ErrNoFrame means that nothing was decoded for the requested position.
type ErrNoFrame struct {
	Position int
}

func (e ErrNoFrame) Error() string {
	return fmt.Sprintf("no frame was decoded for position %d", e.Position)
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the handle is closed"
}

// ErrScanLimit is returned when the forward scan exceeded Config.MaxScanSteps.
type ErrScanLimit struct {
	Steps int
}

func (e ErrScanLimit) Error() string {
	return fmt.Sprintf("the target was not reached within %d decoding steps", e.Steps)
}
