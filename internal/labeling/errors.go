package labeling

import "errors"

// ErrInputClosed indicates the operator's input ended before an answer.
var ErrInputClosed = errors.New("input closed")
