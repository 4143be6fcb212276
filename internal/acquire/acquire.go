package acquire

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"droneset/internal/config"
	"droneset/internal/deps"
	"droneset/internal/logging"
	"droneset/internal/source"
	"droneset/internal/staging"
)

// CommandRunner executes an external command and returns a descriptive error
// when it fails.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Acquirer prepares decodable audio for a source.
type Acquirer struct {
	tools   config.Tools
	workDir string
	logger  *slog.Logger
	run     CommandRunner
	lookup  func(deps.Requirement) deps.Status
}

// New returns an Acquirer writing temporary files under workDir.
func New(tools config.Tools, workDir string, logger *slog.Logger) *Acquirer {
	return &Acquirer{
		tools:   tools,
		workDir: workDir,
		logger:  logging.NewComponentLogger(logger, "acquire"),
		run:     defaultCommandRunner,
		lookup:  deps.Check,
	}
}

// WithCommandRunner replaces process execution and skips the PATH lookup for
// tools, for tests.
func (a *Acquirer) WithCommandRunner(r CommandRunner) {
	if a != nil && r != nil {
		a.run = r
		a.lookup = func(req deps.Requirement) deps.Status {
			return deps.Status{Name: req.Name, Command: req.Command, Available: true}
		}
	}
}

// Prepared is a WAV file ready for decoding.
type Prepared struct {
	Path string
	// Temporary files were created by Prepare and are removed by Cleanup.
	Temporary bool
}

// Cleanup removes the file when Prepare created it.
func (p Prepared) Cleanup() error {
	if !p.Temporary || p.Path == "" {
		return nil
	}
	if err := os.Remove(p.Path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// Prepare downloads or converts src as needed.
func (a *Acquirer) Prepare(ctx context.Context, src source.Source) (Prepared, error) {
	if err := os.MkdirAll(a.workDir, 0o755); err != nil {
		return Prepared{}, fmt.Errorf("create work directory: %w", err)
	}
	if src.IsRemote() {
		return a.download(ctx, src)
	}
	if strings.EqualFold(filepath.Ext(src.Path), ".wav") {
		return Prepared{Path: src.Path}, nil
	}
	dest := staging.ConvertedPath(a.workDir, src.Stem())
	if err := a.convert(ctx, src.Path, dest); err != nil {
		return Prepared{}, err
	}
	return Prepared{Path: dest, Temporary: true}, nil
}

func (a *Acquirer) download(ctx context.Context, src source.Source) (Prepared, error) {
	if err := a.require("yt-dlp", a.tools.YTDLP); err != nil {
		return Prepared{}, err
	}
	raw := staging.DownloadBase(a.workDir, src.Stem())
	rawWAV := raw + ".wav"
	a.logger.Info("downloading remote audio",
		logging.String(logging.FieldSource, src.Identifier()),
		logging.String("video_id", src.VideoID))
	args := []string{
		"-x",
		"--audio-format", "wav",
		"--no-playlist",
		"--quiet",
		"-o", raw + ".%(ext)s",
		src.Identifier(),
	}
	if err := a.run(ctx, a.tools.YTDLP, args...); err != nil {
		_ = os.Remove(rawWAV)
		return Prepared{}, fmt.Errorf("download %s: %w", src.Identifier(), err)
	}
	defer func() {
		_ = os.Remove(rawWAV)
	}()

	dest := staging.ConvertedPath(a.workDir, src.Stem())
	if err := a.convert(ctx, rawWAV, dest); err != nil {
		return Prepared{}, err
	}
	return Prepared{Path: dest, Temporary: true}, nil
}

func (a *Acquirer) convert(ctx context.Context, input, dest string) error {
	if err := a.require("FFmpeg", a.tools.FFmpeg); err != nil {
		return err
	}
	a.logger.Debug("converting audio",
		logging.String("input", input),
		logging.String("output", dest))
	if err := a.run(ctx, a.tools.FFmpeg, buildConvertArgs(input, dest)...); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("convert %s: %w", filepath.Base(input), err)
	}
	return nil
}

func (a *Acquirer) require(name, command string) error {
	status := a.lookup(deps.Requirement{Name: name, Command: command})
	if !status.Available {
		return fmt.Errorf("%w: %s: %s", ErrToolUnavailable, name, status.Detail)
	}
	return nil
}

func buildConvertArgs(input, dest string) []string {
	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", input,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
}

func defaultCommandRunner(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
