package timerange

import "errors"

// ErrMalformedTimeRange indicates an unparsable range argument or a start that
// is not before the end.
var ErrMalformedTimeRange = errors.New("malformed time range")

// ErrOverlappingRange indicates a candidate range intersects a range already
// processed in this run.
var ErrOverlappingRange = errors.New("time range overlaps a processed part")
