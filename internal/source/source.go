package source

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"droneset/internal/metadata"
	"droneset/internal/textutil"
)

const (
	// FallbackVideoID is used when a remote identifier has no recognizable
	// video ID.
	FallbackVideoID = "ytclip"

	noLabelDir   = "no_label"
	noDroneDir   = "not_a_drone"
	unknownMotor = "unknown"
)

// Source is a resolved input recording.
type Source struct {
	// Input is the argument as given, trimmed.
	Input string
	Kind  metadata.SourceKind
	// Path is the absolute local path; empty for remote sources.
	Path string
	// VideoID is the remote video ID; empty for local sources.
	VideoID string
}

// Resolve classifies input. Local inputs must name an existing regular file;
// otherwise the error wraps ErrMissingSource.
func Resolve(input string) (Source, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return Source{}, fmt.Errorf("%w: empty input", ErrMissingSource)
	}
	if IsURL(input) {
		return Source{
			Input:   input,
			Kind:    metadata.SourceRemote,
			VideoID: ExtractVideoID(input),
		}, nil
	}

	abs, err := filepath.Abs(input)
	if err != nil {
		return Source{}, fmt.Errorf("resolve %q: %w", input, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Source{}, fmt.Errorf("%w: %s", ErrMissingSource, abs)
		}
		return Source{}, fmt.Errorf("inspect %s: %w", abs, err)
	}
	if info.IsDir() {
		return Source{}, fmt.Errorf("%w: %s is a directory", ErrMissingSource, abs)
	}
	return Source{Input: input, Kind: metadata.SourceLocal, Path: abs}, nil
}

// IsRemote reports whether the source must be downloaded.
func (s Source) IsRemote() bool {
	return s.Kind == metadata.SourceRemote
}

// Identifier is the dedup key recorded in metadata: the URL for remote
// sources and "" for local ones.
func (s Source) Identifier() string {
	if s.IsRemote() {
		return s.Input
	}
	return ""
}

// Origin returns the metadata origin for clips cut from this source.
func (s Source) Origin() metadata.Origin {
	if s.IsRemote() {
		return metadata.RemoteOrigin(s.Input)
	}
	return metadata.LocalOrigin()
}

// Stem is the leading part of every clip filename cut from this source: the
// video ID for remote sources and the sanitized base name for local files.
func (s Source) Stem() string {
	if s.IsRemote() {
		if id := textutil.ClipStem(s.VideoID); id != "" {
			return id
		}
		return FallbackVideoID
	}
	base := filepath.Base(s.Path)
	stem := textutil.ClipStem(strings.TrimSuffix(base, filepath.Ext(base)))
	if stem == "" {
		return "clip"
	}
	return stem
}

// Naming is where and under which prefix clips for one source are written.
type Naming struct {
	// MotorLabel is the normalized label stored on drone records.
	MotorLabel string
	Prefix     string
	OutputDir  string
}

// Naming derives the clip naming for this source given the operator's motor
// count answer. Remote sources file clips under the normalized label. Local
// sources with a numeric count do the same; any other answer files them under
// no_label while the prefix keeps the answer as typed.
func (s Source) Naming(audioRoot, motorCount string) Naming {
	label := NormalizeMotorLabel(motorCount)
	if s.IsRemote() {
		return Naming{
			MotorLabel: label,
			Prefix:     s.Stem() + "_" + label,
			OutputDir:  filepath.Join(audioRoot, label),
		}
	}
	dir := label
	if label == unknownMotor {
		dir = noLabelDir
	}
	return Naming{
		MotorLabel: label,
		Prefix:     s.Stem() + "_" + textutil.LabelToken(motorCount),
		OutputDir:  filepath.Join(audioRoot, dir),
	}
}

// NoDroneDir returns the directory no-drone clips of the given subtype are
// moved into.
func NoDroneDir(audioRoot string, subtype metadata.Subtype) string {
	return filepath.Join(audioRoot, noDroneDir, string(subtype))
}

// IsURL reports whether value parses as an absolute URL with a host.
func IsURL(value string) bool {
	parsed, err := url.Parse(strings.TrimSpace(value))
	if err != nil {
		return false
	}
	return parsed.Scheme != "" && parsed.Host != ""
}

// ExtractVideoID returns the video ID from youtu.be/<id>,
// youtube.com/watch?v=<id>, and youtube.com/shorts/<id> URLs, or
// FallbackVideoID for anything else.
func ExtractVideoID(rawURL string) string {
	if id, ok := metadata.VideoID(rawURL); ok {
		return id
	}
	return FallbackVideoID
}

// NormalizeMotorLabel maps a motor count answer to a label: a run of digits N
// becomes "N_motors", anything else "unknown".
func NormalizeMotorLabel(count string) string {
	count = strings.TrimSpace(count)
	if count == "" {
		return unknownMotor
	}
	for _, r := range count {
		if r < '0' || r > '9' {
			return unknownMotor
		}
	}
	return count + "_motors"
}
