package source

import "errors"

// ErrMissingSource indicates that a referenced local file does not exist.
var ErrMissingSource = errors.New("source not found")
