package session

import "errors"

var (
	// ErrRangeOutsideSource indicates a proposed range that starts at or after
	// the end of the recording.
	ErrRangeOutsideSource = errors.New("range starts past end of recording")
	// ErrInvalidDecision indicates a label decision that cannot become a record.
	ErrInvalidDecision = errors.New("invalid label decision")
)
