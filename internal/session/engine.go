package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"droneset/internal/clip"
	"droneset/internal/logging"
	"droneset/internal/metadata"
	"droneset/internal/segment"
	"droneset/internal/source"
	"droneset/internal/timerange"
)

// Config holds the values the engine needs from the application
// configuration.
type Config struct {
	// AudioDir is the dataset audio root; clip directories live below it.
	AudioDir string
	Params   segment.Params
}

// Job is one source to process.
type Job struct {
	Source   source.Source
	Naming   source.Naming
	Waveform *clip.Waveform
	// Reprocess clears an already processed remote source before running.
	Reprocess bool
}

// Result summarizes a finished run.
type Result struct {
	// Skipped is set when the whole-source path found the source already in
	// the store and Reprocess was not requested.
	Skipped bool
	Cleared *metadata.DeleteResult
	Parts   []Part
	Records []metadata.Record
}

// ClipCount is the total number of clips appended across parts.
func (r Result) ClipCount() int {
	total := 0
	for _, p := range r.Parts {
		total += p.ClipCount
	}
	return total
}

// Engine runs the per-source state machine. An Engine processes one job at a
// time and is not safe for concurrent use.
type Engine struct {
	cfg      Config
	store    Store
	exporter *clip.Exporter
	labeler  Labeler
	logger   *slog.Logger

	state State
}

// New validates cfg and returns an engine.
func New(cfg Config, store Store, exporter *clip.Exporter, labeler Labeler, logger *slog.Logger) (*Engine, error) {
	if err := cfg.Params.Validate(); err != nil {
		return nil, fmt.Errorf("segmentation: %w", err)
	}
	if cfg.AudioDir == "" {
		return nil, errors.New("audio directory is required")
	}
	if store == nil || exporter == nil || labeler == nil {
		return nil, errors.New("store, exporter, and labeler are required")
	}
	return &Engine{
		cfg:      cfg,
		store:    store,
		exporter: exporter,
		labeler:  labeler,
		logger:   logging.NewComponentLogger(logger, "session"),
		state:    Done,
	}, nil
}

// State returns the current state.
func (e *Engine) State() State {
	return e.state
}

// RunWhole processes [0, total) in a single batch. A remote source that is
// already in the store is skipped unless job.Reprocess is set.
func (e *Engine) RunWhole(ctx context.Context, job Job) (Result, error) {
	result := Result{}
	logger := e.jobLogger(ctx, job)

	if job.Source.IsRemote() && e.store.HasSource(job.Source.Identifier()) {
		if !job.Reprocess {
			logger.Info("source already processed; skipping")
			result.Skipped = true
			e.setState(logger, Done)
			return result, nil
		}
		if err := e.clear(logger, job, &result); err != nil {
			return result, err
		}
	}

	whole := timerange.Whole().Resolve(job.Waveform.TotalMS())
	part, records, err := e.processRange(ctx, logger, job, whole)
	if err != nil {
		return result, err
	}
	result.Parts = append(result.Parts, part)
	result.Records = append(result.Records, records...)
	e.setState(logger, Done)
	return result, nil
}

// RunRanges processes ranges supplied by driver until it declines or a range
// reaches the end of the recording. Ranges overlapping one already processed
// in this run are rejected and never widened or shifted. A source already in
// the store is processed again; new clips continue its numbering.
func (e *Engine) RunRanges(ctx context.Context, job Job, driver Driver) (Result, error) {
	result := Result{}
	logger := e.jobLogger(ctx, job)
	if driver == nil {
		return result, errors.New("driver is required")
	}

	if job.Reprocess && job.Source.IsRemote() && e.store.HasSource(job.Source.Identifier()) {
		if err := e.clear(logger, job, &result); err != nil {
			return result, err
		}
	}

	total := job.Waveform.TotalMS()
	var tracker timerange.Tracker
	for {
		e.setState(logger, AwaitingRange)
		proposed, ok, err := driver.NextRange(ctx, total, clonedParts(result.Parts))
		if err != nil {
			return result, err
		}
		if !ok {
			break
		}

		if proposed.Start() >= total {
			driver.RangeRejected(proposed, fmt.Errorf("%w: %s, recording is %dms", ErrRangeOutsideSource, proposed, total))
			continue
		}
		resolved := proposed.Resolve(total)
		if err := tracker.Register(resolved); err != nil {
			logger.Info("range rejected", logging.String("range", resolved.String()), logging.Error(err))
			driver.RangeRejected(proposed, err)
			continue
		}

		part, records, err := e.processRange(ctx, logger, job, resolved)
		if err != nil {
			return result, err
		}
		result.Parts = append(result.Parts, part)
		result.Records = append(result.Records, records...)
		if resolved.End() >= total {
			break
		}
	}

	e.setState(logger, Done)
	return result, nil
}

func (e *Engine) clear(logger *slog.Logger, job Job, result *Result) error {
	cleared, err := e.store.DeleteAndClearFiles(job.Source.Identifier(), job.Source.Stem(), e.cfg.AudioDir)
	if err != nil {
		return fmt.Errorf("clear previous run: %w", err)
	}
	if fileErr := cleared.Err(); fileErr != nil {
		logging.WarnWithContext(logger, "previous clips not fully removed", "reprocess_partial_cleanup",
			logging.Error(fileErr),
			logging.String(logging.FieldErrorHint, "remove the listed files by hand"),
			logging.String(logging.FieldImpact, "stale clips remain on disk without metadata"))
	}
	result.Cleared = &cleared
	return nil
}

// processRange runs Windowing, Labeling, and Appended for one range.
func (e *Engine) processRange(ctx context.Context, logger *slog.Logger, job Job, r timerange.TimeRange) (Part, []metadata.Record, error) {
	e.setState(logger, Windowing)
	startIndex, err := e.nextIndex(job.Naming)
	if err != nil {
		return Part{}, nil, err
	}
	total := job.Waveform.TotalMS()
	count := segment.Count(total, r, e.cfg.Params)
	bounds := segment.Window(total, r, e.cfg.Params, startIndex)
	clips, err := e.exporter.Export(ctx, job.Waveform, bounds, count, job.Naming.OutputDir, job.Naming.Prefix)
	if err != nil {
		return Part{}, nil, fmt.Errorf("export clips for %s: %w", r, err)
	}
	logger.Info("windowed range",
		logging.String("range", r.String()),
		logging.Int("clips", len(clips)),
		logging.Int("start_index", startIndex))

	e.setState(logger, Labeling)
	records, err := e.label(ctx, job, clips)
	if err != nil {
		e.exporter.Discard(clips)
		return Part{}, nil, err
	}

	if len(records) > 0 {
		if err := e.store.Append(records...); err != nil {
			e.exporter.Discard(clips)
			return Part{}, nil, fmt.Errorf("append metadata: %w", err)
		}
	}
	e.setState(logger, Appended)
	logger.Info("appended batch",
		logging.String("range", r.String()),
		logging.Int("records", len(records)))
	return Part{Range: r, ClipCount: len(records)}, records, nil
}

// label collects a decision for every clip before anything is relocated or
// written. clips is updated in place with relocated paths so a failure can
// discard them.
func (e *Engine) label(ctx context.Context, job Job, clips []clip.Clip) ([]metadata.Record, error) {
	decisions := make([]Decision, len(clips))
	for i, c := range clips {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		decision, err := e.labeler.Label(ctx, c)
		if err != nil {
			return nil, fmt.Errorf("label %s: %w", c.Filename(), err)
		}
		if err := decision.Validate(); err != nil {
			return nil, fmt.Errorf("label %s: %w", c.Filename(), err)
		}
		decisions[i] = decision
	}

	duration := float64(e.cfg.Params.SegmentLengthMS) / 1000
	origin := job.Source.Origin()
	records := make([]metadata.Record, 0, len(clips))
	for i, decision := range decisions {
		if decision.Drone {
			records = append(records, metadata.NewDroneRecord(clips[i].Filename(), job.Naming.MotorLabel, decision.Quality, origin, duration))
			continue
		}
		moved, err := clip.Relocate(clips[i], source.NoDroneDir(e.cfg.AudioDir, decision.Subtype))
		if err != nil {
			return nil, err
		}
		clips[i] = moved
		records = append(records, metadata.NewNoDroneRecord(moved.Filename(), decision.Subtype, origin, duration))
	}
	return records, nil
}

// nextIndex continues numbering past every clip with this prefix, including
// clips already moved into the no-drone directories.
func (e *Engine) nextIndex(naming source.Naming) (int, error) {
	dirs := []string{naming.OutputDir}
	for _, subtype := range metadata.Subtypes() {
		dirs = append(dirs, source.NoDroneDir(e.cfg.AudioDir, subtype))
	}
	next := 0
	for _, dir := range dirs {
		idx, err := segment.NextIndex(dir, naming.Prefix)
		if err != nil {
			return 0, fmt.Errorf("allocate clip index: %w", err)
		}
		next = max(next, idx)
	}
	return next, nil
}

func (e *Engine) setState(logger *slog.Logger, next State) {
	if e.state == next {
		return
	}
	logger.Debug("session state", logging.String("from", e.state.String()), logging.String("to", next.String()))
	e.state = next
}

func (e *Engine) jobLogger(ctx context.Context, job Job) *slog.Logger {
	logger := logging.WithContext(ctx, e.logger)
	if _, ok := logging.SourceFromContext(ctx); !ok {
		name := job.Source.Identifier()
		if name == "" {
			name = job.Source.Path
		}
		logger = logger.With(logging.String(logging.FieldSource, name))
	}
	return logger
}

func clonedParts(parts []Part) []Part {
	out := make([]Part, len(parts))
	copy(out, parts)
	return out
}
