package segment

import (
	"fmt"
	"iter"
	"time"

	"droneset/internal/timerange"
)

// Default windowing parameters.
const (
	// DefaultSegmentLengthMS is the training clip length.
	DefaultSegmentLengthMS = 2000

	// DefaultStepMS advances each window by 1.5s, leaving 500ms of overlap
	// between consecutive 2s clips.
	DefaultStepMS = 1500
)

// Params controls clip length and window advance.
type Params struct {
	SegmentLengthMS int64
	StepMS          int64
}

// DefaultParams returns the 2000ms/1500ms windowing used by the dataset.
func DefaultParams() Params {
	return Params{SegmentLengthMS: DefaultSegmentLengthMS, StepMS: DefaultStepMS}
}

// Validate ensures the parameters produce a finite, gap-free sequence.
func (p Params) Validate() error {
	if p.SegmentLengthMS <= 0 {
		return fmt.Errorf("segment length must be positive, got %dms", p.SegmentLengthMS)
	}
	if p.StepMS <= 0 {
		return fmt.Errorf("step must be positive, got %dms", p.StepMS)
	}
	if p.StepMS > p.SegmentLengthMS {
		return fmt.Errorf("step %dms exceeds segment length %dms", p.StepMS, p.SegmentLengthMS)
	}
	return nil
}

// Overlap returns how much consecutive clips share.
func (p Params) Overlap() time.Duration {
	return time.Duration(p.SegmentLengthMS-p.StepMS) * time.Millisecond
}

// ClipBoundary locates one clip inside the source recording.
type ClipBoundary struct {
	Index   int
	StartMS int64
	EndMS   int64
}

// Length returns the clip length in milliseconds.
func (b ClipBoundary) Length() int64 {
	return b.EndMS - b.StartMS
}

// String returns a human-readable representation for logging.
func (b ClipBoundary) String() string {
	return fmt.Sprintf("clip %03d: %dms-%dms", b.Index, b.StartMS, b.EndMS)
}

// Window yields the clip boundaries inside r, clamped to totalMS. Windows start
// at r.Start and advance by p.StepMS; a trailing window that would end past the
// effective end is dropped. Indices count up from startIndex.
//
// The sequence is computed on demand and may be ranged over any number of
// times. A range shorter than one clip yields nothing.
func Window(totalMS int64, r timerange.TimeRange, p Params, startIndex int) iter.Seq[ClipBoundary] {
	effective := r.Resolve(totalMS)
	return func(yield func(ClipBoundary) bool) {
		if p.SegmentLengthMS <= 0 || p.StepMS <= 0 {
			return
		}
		index := startIndex
		for start := effective.Start(); start+p.SegmentLengthMS <= effective.End(); start += p.StepMS {
			if !yield(ClipBoundary{Index: index, StartMS: start, EndMS: start + p.SegmentLengthMS}) {
				return
			}
			index++
		}
	}
}

// Count returns how many boundaries Window would yield.
func Count(totalMS int64, r timerange.TimeRange, p Params) int {
	if p.SegmentLengthMS <= 0 || p.StepMS <= 0 {
		return 0
	}
	effective := r.Resolve(totalMS)
	span := effective.End() - effective.Start()
	if span < p.SegmentLengthMS {
		return 0
	}
	return int((span-p.SegmentLengthMS)/p.StepMS) + 1
}
