package clip

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"droneset/internal/fileutil"
	"droneset/internal/logging"
	"droneset/internal/segment"
)

const wavExt = "wav"

// Clip is a boundary written to disk.
type Clip struct {
	Boundary segment.ClipBoundary
	Path     string
}

// Filename returns the clip's base name as recorded in metadata.
func (c Clip) Filename() string {
	return filepath.Base(c.Path)
}

// Exporter cuts, normalizes, and writes clips.
type Exporter struct {
	logger     *slog.Logger
	progress   io.Writer
	headroomDB float64
}

// Option customizes an Exporter.
type Option func(*Exporter)

// WithProgress renders a progress bar to w while exporting.
func WithProgress(w io.Writer) Option {
	return func(e *Exporter) {
		e.progress = w
	}
}

// WithHeadroom overrides DefaultHeadroomDB.
func WithHeadroom(db float64) Option {
	return func(e *Exporter) {
		e.headroomDB = db
	}
}

// NewExporter returns an exporter logging through logger.
func NewExporter(logger *slog.Logger, opts ...Option) *Exporter {
	e := &Exporter{
		logger:     logging.NewComponentLogger(logger, "clip"),
		headroomDB: DefaultHeadroomDB,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes one clip per boundary into dir as {prefix}_{index:03d}.wav.
// total sizes the progress bar. If any clip fails, the clips already written
// by this call are removed before the error is returned.
func (e *Exporter) Export(ctx context.Context, w *Waveform, bounds iter.Seq[segment.ClipBoundary], total int, dir, prefix string) ([]Clip, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create clip directory: %w", err)
	}

	var (
		progress *mpb.Progress
		bar      *mpb.Bar
	)
	if e.progress != nil && total > 0 {
		progress = mpb.New(mpb.WithOutput(e.progress), mpb.WithWidth(64))
		bar = progress.AddBar(int64(total),
			mpb.PrependDecorators(
				decor.Name("Exporting: "),
				decor.CountersNoUnit("%d / %d"),
			),
			mpb.AppendDecorators(
				decor.Percentage(),
			),
		)
	}

	clips := make([]Clip, 0, total)
	var exportErr error
	for boundary := range bounds {
		if err := ctx.Err(); err != nil {
			exportErr = err
			break
		}
		c, err := e.write(w, boundary, dir, prefix)
		if err != nil {
			exportErr = err
			break
		}
		clips = append(clips, c)
		if bar != nil {
			bar.Increment()
		}
	}

	if progress != nil {
		// No-op once the bar has completed; otherwise releases Wait.
		bar.Abort(false)
		progress.Wait()
	}

	if exportErr != nil {
		e.Discard(clips)
		return nil, exportErr
	}

	e.logger.Info("exported clips",
		logging.String("dir", dir),
		logging.String("prefix", prefix),
		logging.Int("clips", len(clips)))
	return clips, nil
}

func (e *Exporter) write(w *Waveform, boundary segment.ClipBoundary, dir, prefix string) (Clip, error) {
	samples, err := w.Slice(boundary)
	if err != nil {
		return Clip{}, err
	}
	path := filepath.Join(dir, segment.FileName(prefix, boundary.Index, wavExt))
	if err := WriteWAV(path, w.SampleRate, Normalize(samples, e.headroomDB)); err != nil {
		return Clip{}, fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	e.logger.Debug("wrote clip",
		logging.String("path", path),
		logging.Int("index", boundary.Index),
		logging.Int64("start_ms", boundary.StartMS),
		logging.Int64("end_ms", boundary.EndMS))
	return Clip{Boundary: boundary, Path: path}, nil
}

// Discard removes clips from disk, logging failures.
func (e *Exporter) Discard(clips []Clip) {
	for _, c := range clips {
		if err := os.Remove(c.Path); err != nil && !os.IsNotExist(err) {
			logging.WarnWithContext(e.logger, "failed to discard clip", "clip_discard_failed",
				logging.String("path", c.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file by hand"),
				logging.String(logging.FieldImpact, "clip left on disk without a metadata record"))
		}
	}
}

// Relocate moves c into dir, keeping its filename.
func Relocate(c Clip, dir string) (Clip, error) {
	target := filepath.Join(dir, c.Filename())
	if err := fileutil.MoveFile(c.Path, target); err != nil {
		return c, fmt.Errorf("relocate %s: %w", c.Filename(), err)
	}
	c.Path = target
	return c, nil
}
