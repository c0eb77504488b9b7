package libav

// Config configures the libav based source.
type Config struct {
	// ForceGenericSeek treats every container as one without native
	// seeking, so the keyframe search is done by stepping back.
	ForceGenericSeek bool `yaml:"force_generic_seek"`

	// InputFormat forces the container format instead of probing it.
	InputFormat string `yaml:"input_format"`

	// Options are passed to the demuxer.
	Options map[string]string `yaml:"options"`
}
