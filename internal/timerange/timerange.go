package timerange

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeRange is a half-open interval [Start, End) in milliseconds. A range
// built with Open has no end; consumers resolve it against the length of the
// recording.
type TimeRange struct {
	start int64
	end   int64
	open  bool
}

// New returns the closed range [startMS, endMS).
func New(startMS, endMS int64) (TimeRange, error) {
	if startMS < 0 {
		return TimeRange{}, fmt.Errorf("%w: start %dms is negative", ErrMalformedTimeRange, startMS)
	}
	if startMS >= endMS {
		return TimeRange{}, fmt.Errorf("%w: start %s must be before end %s",
			ErrMalformedTimeRange, formatMS(startMS), formatMS(endMS))
	}
	return TimeRange{start: startMS, end: endMS}, nil
}

// MustNew is New for constant ranges in tests and wiring code.
func MustNew(startMS, endMS int64) TimeRange {
	r, err := New(startMS, endMS)
	if err != nil {
		panic(err)
	}
	return r
}

// Open returns a range starting at startMS that extends to the end of the
// recording.
func Open(startMS int64) (TimeRange, error) {
	if startMS < 0 {
		return TimeRange{}, fmt.Errorf("%w: start %dms is negative", ErrMalformedTimeRange, startMS)
	}
	return TimeRange{start: startMS, open: true}, nil
}

// Whole is the open range covering an entire recording.
func Whole() TimeRange {
	return TimeRange{open: true}
}

// Start returns the inclusive start in milliseconds.
func (r TimeRange) Start() int64 { return r.start }

// End returns the exclusive end in milliseconds, or 0 for an open range.
func (r TimeRange) End() int64 { return r.end }

// IsOpen reports whether the range extends to the end of the recording.
func (r TimeRange) IsOpen() bool { return r.open }

// Resolve closes an open range at totalMS and clamps a closed one to it.
func (r TimeRange) Resolve(totalMS int64) TimeRange {
	end := r.end
	if r.open || end > totalMS {
		end = totalMS
	}
	return TimeRange{start: r.start, end: end}
}

// Overlaps reports whether the two ranges share at least one millisecond.
// Ranges that only touch at a boundary do not overlap. Open ranges are treated
// as unbounded on the right.
func (r TimeRange) Overlaps(other TimeRange) bool {
	return !(r.endsBefore(other.start) || other.endsBefore(r.start))
}

func (r TimeRange) endsBefore(ms int64) bool {
	return !r.open && r.end <= ms
}

// Duration returns the length of a closed range.
func (r TimeRange) Duration() time.Duration {
	if r.open {
		return 0
	}
	return time.Duration(r.end-r.start) * time.Millisecond
}

func (r TimeRange) String() string {
	if r.open {
		return fmt.Sprintf("[%s, end)", formatMS(r.start))
	}
	return fmt.Sprintf("[%s, %s)", formatMS(r.start), formatMS(r.end))
}

// Parse builds a range from operator arguments. Each bound is "M.S" (minutes
// and seconds) or a bare integer number of minutes. An empty end yields an
// open range.
func Parse(start, end string) (TimeRange, error) {
	startMS, err := ParseOffset(start)
	if err != nil {
		return TimeRange{}, err
	}
	if strings.TrimSpace(end) == "" {
		return Open(startMS)
	}
	endMS, err := ParseOffset(end)
	if err != nil {
		return TimeRange{}, err
	}
	return New(startMS, endMS)
}

// ParseOffset converts a single "M.S" or "M" argument to milliseconds.
// Seconds must be in 0..59 so "1.75" is rejected rather than read as 2:15.
func ParseOffset(value string) (int64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, fmt.Errorf("%w: empty offset", ErrMalformedTimeRange)
	}
	minutesPart, secondsPart, hasSeconds := strings.Cut(value, ".")
	minutes, err := parseUnsigned(minutesPart)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: minutes must be a non-negative integer", ErrMalformedTimeRange, value)
	}
	if minutes > maxOffsetMinutes {
		return 0, fmt.Errorf("%w: %q: offset is too large", ErrMalformedTimeRange, value)
	}
	var seconds int64
	if hasSeconds {
		seconds, err = parseUnsigned(secondsPart)
		if err != nil || seconds > 59 {
			return 0, fmt.Errorf("%w: %q: seconds must be an integer between 0 and 59", ErrMalformedTimeRange, value)
		}
	}
	return (minutes*60 + seconds) * 1000, nil
}

// maxOffsetMinutes keeps (minutes*60+59)*1000 within int64.
const maxOffsetMinutes = (math.MaxInt64/1000 - 59) / 60

func parseUnsigned(value string) (int64, error) {
	if value == "" {
		return 0, strconv.ErrSyntax
	}
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, strconv.ErrSyntax
		}
	}
	return strconv.ParseInt(value, 10, 64)
}

func formatMS(ms int64) string {
	total := ms / 1000
	return fmt.Sprintf("%d:%02d.%03d", total/60, total%60, ms%1000)
}
