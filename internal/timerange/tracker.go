package timerange

import "fmt"

// Tracker remembers the ranges already processed for one source during one
// run. The zero value is ready to use.
type Tracker struct {
	ranges []TimeRange
}

// Register records r unless it overlaps a previously registered range, in
// which case the returned error wraps ErrOverlappingRange and the tracked set
// is unchanged.
func (t *Tracker) Register(r TimeRange) error {
	for _, existing := range t.ranges {
		if r.Overlaps(existing) {
			return fmt.Errorf("%w: %s intersects %s", ErrOverlappingRange, r, existing)
		}
	}
	t.ranges = append(t.ranges, r)
	return nil
}

// Ranges returns the registered ranges in registration order.
func (t *Tracker) Ranges() []TimeRange {
	out := make([]TimeRange, len(t.ranges))
	copy(out, t.ranges)
	return out
}

// Len returns the number of registered ranges.
func (t *Tracker) Len() int { return len(t.ranges) }
