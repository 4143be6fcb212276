package metadata

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
)

// BinaryLabel is the top-level class of a clip.
type BinaryLabel string

const (
	LabelDrone   BinaryLabel = "drone"
	LabelNoDrone BinaryLabel = "no_drone"
	LabelUnknown BinaryLabel = "unknown"
)

// Subtype names the kind of sound in a clip without a drone.
type Subtype string

const (
	SubtypeAirplanes   Subtype = "airplanes"
	SubtypeBirds       Subtype = "birds"
	SubtypeCars        Subtype = "cars"
	SubtypeCrowd       Subtype = "crowd"
	SubtypeElectronics Subtype = "electronics"
	SubtypeMotors      Subtype = "motors"
	SubtypeRandom      Subtype = "random"
	SubtypeWind        Subtype = "wind"
)

var subtypes = []Subtype{
	SubtypeAirplanes,
	SubtypeBirds,
	SubtypeCars,
	SubtypeCrowd,
	SubtypeElectronics,
	SubtypeMotors,
	SubtypeRandom,
	SubtypeWind,
}

// Subtypes returns the closed no-drone vocabulary in menu order.
func Subtypes() []Subtype {
	return slices.Clone(subtypes)
}

// ParseSubtype validates a subtype name case-insensitively.
func ParseSubtype(value string) (Subtype, error) {
	candidate := Subtype(strings.ToLower(strings.TrimSpace(value)))
	if slices.Contains(subtypes, candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: unknown subtype %q", ErrInvalidRecord, value)
}

// SourceKind distinguishes local files from downloaded recordings.
type SourceKind string

const (
	SourceLocal  SourceKind = "local"
	SourceRemote SourceKind = "remote"

	legacySourceYouTube = "youtube"
)

// Origin identifies where a clip was cut from.
type Origin struct {
	Kind       SourceKind
	Identifier string
}

// LocalOrigin returns the origin for a clip cut from a local file.
func LocalOrigin() Origin {
	return Origin{Kind: SourceLocal}
}

// RemoteOrigin returns the origin for a clip cut from a downloaded recording.
func RemoteOrigin(identifier string) Origin {
	return Origin{Kind: SourceRemote, Identifier: identifier}
}

// Record is one labeled clip. Optional fields are nil when absent.
type Record struct {
	Filename         string      `json:"filename"`
	BinaryLabel      BinaryLabel `json:"binary_label"`
	MotorLabel       *string     `json:"motor_label,omitempty"`
	Subtype          *Subtype    `json:"subtype,omitempty"`
	Quality          *int        `json:"quality,omitempty"`
	Source           SourceKind  `json:"source"`
	SourceIdentifier *string     `json:"source_identifier,omitempty"`
	Duration         float64     `json:"duration"`
}

// NewDroneRecord builds a record for a clip containing a drone.
func NewDroneRecord(filename, motorLabel string, quality int, origin Origin, duration float64) Record {
	r := Record{
		Filename:    filename,
		BinaryLabel: LabelDrone,
		MotorLabel:  &motorLabel,
		Quality:     &quality,
		Duration:    duration,
	}
	r.setOrigin(origin)
	return r
}

// NewNoDroneRecord builds a record for a clip without a drone.
func NewNoDroneRecord(filename string, subtype Subtype, origin Origin, duration float64) Record {
	r := Record{
		Filename:    filename,
		BinaryLabel: LabelNoDrone,
		Subtype:     &subtype,
		Duration:    duration,
	}
	r.setOrigin(origin)
	return r
}

func (r *Record) setOrigin(origin Origin) {
	r.Source = origin.Kind
	if origin.Kind == SourceRemote {
		id := origin.Identifier
		r.SourceIdentifier = &id
	}
}

// Identifier returns the source identifier or "" for local clips.
func (r Record) Identifier() string {
	if r.SourceIdentifier == nil {
		return ""
	}
	return *r.SourceIdentifier
}

// Validate checks the label invariants: drone clips carry a motor label and a
// quality score and never a subtype; no-drone clips carry a subtype and never
// a quality score; remote clips name their source.
func (r Record) Validate() error {
	if strings.TrimSpace(r.Filename) == "" {
		return fmt.Errorf("%w: filename is empty", ErrInvalidRecord)
	}
	switch r.BinaryLabel {
	case LabelDrone:
		if r.MotorLabel == nil || strings.TrimSpace(*r.MotorLabel) == "" {
			return fmt.Errorf("%w: %s: drone clip needs a motor label", ErrInvalidRecord, r.Filename)
		}
		if r.Quality == nil || *r.Quality < 1 || *r.Quality > 5 {
			return fmt.Errorf("%w: %s: drone clip needs a quality between 1 and 5", ErrInvalidRecord, r.Filename)
		}
		if r.Subtype != nil {
			return fmt.Errorf("%w: %s: drone clip cannot carry a subtype", ErrInvalidRecord, r.Filename)
		}
	case LabelNoDrone:
		if r.Subtype == nil {
			return fmt.Errorf("%w: %s: no-drone clip needs a subtype", ErrInvalidRecord, r.Filename)
		}
		if _, err := ParseSubtype(string(*r.Subtype)); err != nil {
			return fmt.Errorf("%s: %w", r.Filename, err)
		}
		if r.Quality != nil {
			return fmt.Errorf("%w: %s: no-drone clip cannot carry a quality", ErrInvalidRecord, r.Filename)
		}
		if r.MotorLabel != nil {
			return fmt.Errorf("%w: %s: no-drone clip cannot carry a motor label", ErrInvalidRecord, r.Filename)
		}
	default:
		return fmt.Errorf("%w: %s: label %q must be normalized to drone or no_drone", ErrInvalidRecord, r.Filename, r.BinaryLabel)
	}
	switch r.Source {
	case SourceRemote:
		if strings.TrimSpace(r.Identifier()) == "" {
			return fmt.Errorf("%w: %s: remote clip needs a source identifier", ErrInvalidRecord, r.Filename)
		}
	case SourceLocal:
		if r.SourceIdentifier != nil {
			return fmt.Errorf("%w: %s: local clip cannot carry a source identifier", ErrInvalidRecord, r.Filename)
		}
	default:
		return fmt.Errorf("%w: %s: unknown source %q", ErrInvalidRecord, r.Filename, r.Source)
	}
	if r.Duration <= 0 {
		return fmt.Errorf("%w: %s: duration must be positive", ErrInvalidRecord, r.Filename)
	}
	return nil
}

// UnmarshalJSON accepts the current shape plus the legacy youtube_url key and
// youtube source kind. A missing or null label reads as unknown.
func (r *Record) UnmarshalJSON(data []byte) error {
	type plain Record
	var wire struct {
		plain
		YouTubeURL *string `json:"youtube_url"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	*r = Record(wire.plain)
	if r.SourceIdentifier == nil && wire.YouTubeURL != nil {
		r.SourceIdentifier = wire.YouTubeURL
	}
	if r.Source == legacySourceYouTube {
		r.Source = SourceRemote
	}
	if r.BinaryLabel == "" {
		r.BinaryLabel = LabelUnknown
	}
	return nil
}
