package clip

import "errors"

var (
	// ErrInvalidWAV indicates that a file is not a readable RIFF/WAVE PCM file.
	ErrInvalidWAV = errors.New("invalid wav file")
	// ErrBoundaryOutOfRange indicates a clip boundary past the end of the waveform.
	ErrBoundaryOutOfRange = errors.New("clip boundary outside waveform")
)
