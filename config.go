package avanim

import (
	"fmt"
	"io"

	"github.com/xaionaro-go/avanim/source"
	"github.com/xaionaro-go/avanim/types"
	"github.com/xaionaro-go/typing"
	"gopkg.in/yaml.v3"
)

const (
	DefaultColorSpace             = "sRGB"
	DefaultSeekBackoffFrames      = 3
	DefaultMaxScanSteps           = 100000
	DefaultMaxSeekWorkaroundSteps = 1024
	DefaultScanCostWindow         = 50
	DefaultScanCostWarnThreshold  = 250
)

// Config configures an Anim; zero values mean defaults.
type Config struct {
	// Deinterlace makes the post-processing deinterlace every frame.
	Deinterlace bool `yaml:"deinterlace"`

	// ColorSpace is the label attached to every produced image.
	ColorSpace string `yaml:"color_space"`

	// SeekBackoffFrames is how many frames before the target the
	// estimated seek position is placed.
	SeekBackoffFrames int `yaml:"seek_backoff_frames"`

	// MaxScanSteps caps the forward decoding of a single fetch.
	MaxScanSteps int `yaml:"max_scan_steps"`

	// MaxSeekWorkaroundSteps caps the backward stepping used for formats
	// without native seeking; when exceeded, decoding starts from the
	// beginning of the stream.
	MaxSeekWorkaroundSteps int `yaml:"max_seek_workaround_steps"`

	// FrameRateOverride replaces the frame rate guessed from the stream.
	FrameRateOverride typing.Optional[types.Rational] `yaml:"-"`

	// ScanCostWindow is the amount of fetches the scan cost is averaged over.
	ScanCostWindow int `yaml:"scan_cost_window"`

	// ScanCostWarnThreshold is the average amount of frames decoded per
	// fetch above which a warning suggesting a seek index is logged.
	ScanCostWarnThreshold float64 `yaml:"scan_cost_warn_threshold"`

	DecoderThreads     int `yaml:"decoder_threads"`
	PostprocessThreads int `yaml:"postprocess_threads"`

	Opener        source.Opener `yaml:"-"`
	IndexProvider IndexProvider `yaml:"-"`
}

func DefaultConfig() Config {
	return Config{}.withDefaults()
}

func (cfg Config) withDefaults() Config {
	if cfg.ColorSpace == "" {
		cfg.ColorSpace = DefaultColorSpace
	}
	if cfg.SeekBackoffFrames <= 0 {
		cfg.SeekBackoffFrames = DefaultSeekBackoffFrames
	}
	if cfg.MaxScanSteps <= 0 {
		cfg.MaxScanSteps = DefaultMaxScanSteps
	}
	if cfg.MaxSeekWorkaroundSteps <= 0 {
		cfg.MaxSeekWorkaroundSteps = DefaultMaxSeekWorkaroundSteps
	}
	if cfg.ScanCostWindow <= 0 {
		cfg.ScanCostWindow = DefaultScanCostWindow
	}
	if cfg.ScanCostWarnThreshold <= 0 {
		cfg.ScanCostWarnThreshold = DefaultScanCostWarnThreshold
	}
	return cfg
}

type configYAML struct {
	Config            `yaml:",inline"`
	FrameRateOverride *types.Rational `yaml:"frame_rate_override,omitempty"`
}

// LoadConfig reads a YAML config; fields absent in the input keep their
// defaults.
func LoadConfig(r io.Reader) (Config, error) {
	var c configYAML
	if err := yaml.NewDecoder(r).Decode(&c); err != nil && err != io.EOF {
		return Config{}, fmt.Errorf("unable to decode the config: %w", err)
	}
	cfg := c.Config
	if c.FrameRateOverride != nil {
		if c.FrameRateOverride.IsZero() {
			return Config{}, fmt.Errorf("invalid frame rate override: %s", c.FrameRateOverride)
		}
		cfg.FrameRateOverride = typing.Opt(*c.FrameRateOverride)
	}
	return cfg.withDefaults(), nil
}

// SaveConfig writes the serializable part of cfg as YAML.
func SaveConfig(w io.Writer, cfg Config) error {
	c := configYAML{Config: cfg}
	if cfg.FrameRateOverride.IsSet() {
		fr := cfg.FrameRateOverride.Get()
		c.FrameRateOverride = &fr
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("unable to encode the config: %w", err)
	}
	return enc.Close()
}
