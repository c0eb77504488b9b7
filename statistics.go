package avanim

import (
	"go.uber.org/atomic"
)

// Statistics counts what the handle did; safe to read concurrently.
type Statistics struct {
	Fetches       atomic.Uint64
	FetchFailures atomic.Uint64
	OutOfRange    atomic.Uint64

	// Repositions counts fetches which repositioned the demuxer.
	Repositions atomic.Uint64

	// Seeks counts the demuxer seek calls (a reposition may need several).
	Seeks   atomic.Uint64
	Flushes atomic.Uint64

	// DecodeSteps counts successfully decoded frames while scanning.
	DecodeSteps    atomic.Uint64
	UnexpectedGOPs atomic.Uint64
	FallbackFrames atomic.Uint64
}

type StatisticsSnapshot struct {
	Fetches        uint64 `json:"fetches" yaml:"fetches"`
	FetchFailures  uint64 `json:"fetch_failures" yaml:"fetch_failures"`
	OutOfRange     uint64 `json:"out_of_range" yaml:"out_of_range"`
	Repositions    uint64 `json:"repositions" yaml:"repositions"`
	Seeks          uint64 `json:"seeks" yaml:"seeks"`
	Flushes        uint64 `json:"flushes" yaml:"flushes"`
	DecodeSteps    uint64 `json:"decode_steps" yaml:"decode_steps"`
	UnexpectedGOPs uint64 `json:"unexpected_gops" yaml:"unexpected_gops"`
	FallbackFrames uint64 `json:"fallback_frames" yaml:"fallback_frames"`
}

func (s *Statistics) Snapshot() StatisticsSnapshot {
	return StatisticsSnapshot{
		Fetches:        s.Fetches.Load(),
		FetchFailures:  s.FetchFailures.Load(),
		OutOfRange:     s.OutOfRange.Load(),
		Repositions:    s.Repositions.Load(),
		Seeks:          s.Seeks.Load(),
		Flushes:        s.Flushes.Load(),
		DecodeSteps:    s.DecodeSteps.Load(),
		UnexpectedGOPs: s.UnexpectedGOPs.Load(),
		FallbackFrames: s.FallbackFrames.Load(),
	}
}
