package acquire

import "errors"

// ErrToolUnavailable indicates that a required executable is not installed.
var ErrToolUnavailable = errors.New("required tool unavailable")
