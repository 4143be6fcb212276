package session

import (
	"context"
	"fmt"

	"droneset/internal/clip"
	"droneset/internal/metadata"
	"droneset/internal/timerange"
)

// State is a step of the per-source state machine.
type State int

const (
	AwaitingRange State = iota
	Windowing
	Labeling
	Appended
	Done
)

func (s State) String() string {
	switch s {
	case AwaitingRange:
		return "awaiting_range"
	case Windowing:
		return "windowing"
	case Labeling:
		return "labeling"
	case Appended:
		return "appended"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Decision is the label an operator assigned to one clip.
type Decision struct {
	Drone   bool
	Quality int
	Subtype metadata.Subtype
}

// DroneDecision labels a clip as containing a drone of the given quality.
func DroneDecision(quality int) Decision {
	return Decision{Drone: true, Quality: quality}
}

// NoDroneDecision labels a clip as background of the given subtype.
func NoDroneDecision(subtype metadata.Subtype) Decision {
	return Decision{Subtype: subtype}
}

// Validate checks that the decision carries exactly the fields its label needs.
func (d Decision) Validate() error {
	if d.Drone {
		if d.Quality < 1 || d.Quality > 5 {
			return fmt.Errorf("%w: quality %d outside 1-5", ErrInvalidDecision, d.Quality)
		}
		if d.Subtype != "" {
			return fmt.Errorf("%w: drone clip with subtype %q", ErrInvalidDecision, d.Subtype)
		}
		return nil
	}
	if d.Quality != 0 {
		return fmt.Errorf("%w: no-drone clip with quality %d", ErrInvalidDecision, d.Quality)
	}
	if _, err := metadata.ParseSubtype(string(d.Subtype)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidDecision, err)
	}
	return nil
}

// Labeler supplies a decision for each exported clip.
type Labeler interface {
	Label(ctx context.Context, c clip.Clip) (Decision, error)
}

// Driver supplies ranges for the ranged path.
type Driver interface {
	// NextRange proposes the next range to process given the recording length
	// and the parts completed so far. ok=false ends the session.
	NextRange(ctx context.Context, totalMS int64, parts []Part) (r timerange.TimeRange, ok bool, err error)
	// RangeRejected reports why a proposed range was discarded.
	RangeRejected(r timerange.TimeRange, err error)
}

// Part is one processed range and the number of clips it produced.
type Part struct {
	Range     timerange.TimeRange
	ClipCount int
}

// Store is the subset of the metadata store the engine writes through.
type Store interface {
	Append(records ...metadata.Record) error
	HasSource(identifier string) bool
	DeleteAndClearFiles(identifier, stem, filesRoot string) (metadata.DeleteResult, error)
}
