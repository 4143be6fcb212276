package main

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"droneset/internal/acquire"
	"droneset/internal/clip"
	"droneset/internal/config"
	"droneset/internal/deps"
	"droneset/internal/labeling"
	"droneset/internal/logging"
	"droneset/internal/session"
	"droneset/internal/source"
	"droneset/internal/staging"
)

// staleWorkFileAge is how old temporary audio must be before a new run
// removes it.
const staleWorkFileAge = 24 * time.Hour

type segmentOptions struct {
	motors    string
	ranged    bool
	reprocess bool
	noPreview bool
}

func newSegmentCommand(ctx *commandContext) *cobra.Command {
	opts := segmentOptions{}

	cmd := &cobra.Command{
		Use:   "segment <file-or-url>",
		Short: "Cut a recording into clips and label them",
		Long: "Cut a local recording or a downloaded video's audio into fixed-length clips,\n" +
			"label each clip interactively, and append the labels to the metadata store.\n\n" +
			"By default the whole recording is processed and a remote source that is\n" +
			"already in the store is skipped. With --ranges you choose the parts of the\n" +
			"recording to process one at a time.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSegment(cmd, ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.motors, "motors", "m", "", "Motor count of the drone (2/4/6/8 or unknown); prompted when omitted")
	cmd.Flags().BoolVar(&opts.ranged, "ranges", false, "Process selected time ranges instead of the whole recording")
	cmd.Flags().BoolVar(&opts.reprocess, "reprocess", false, "Clear clips and labels from a previous run of this source first")
	cmd.Flags().BoolVar(&opts.noPreview, "no-preview", false, "Do not play clips before labeling")
	return cmd
}

func runSegment(cmd *cobra.Command, ctx *commandContext, input string, opts segmentOptions) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := ctx.ensureLogger()
	if err != nil {
		return err
	}
	src, err := source.Resolve(input)
	if err != nil {
		return err
	}

	lock, err := ctx.lockStore()
	if err != nil {
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Debug("release metadata lock", logging.Error(err))
		}
	}()

	store, err := ctx.store()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	runCtx := ctx.runContext(cmd, sourceName(src))

	if src.IsRemote() && !opts.ranged && !opts.reprocess && store.HasSource(src.Identifier()) {
		fmt.Fprintf(out, "%s is already in the dataset (%d clips); use --reprocess to label it again\n",
			src.Identifier(), store.CountSource(src.Identifier()))
		return nil
	}

	in := cmd.InOrStdin()
	console := labeling.NewConsole(in, out, consoleOptions(cmd, cfg, logger, in, opts)...)

	motors := strings.TrimSpace(opts.motors)
	if motors == "" {
		motors, err = console.MotorCount(runCtx)
		if err != nil {
			return err
		}
	}

	staging.CleanStale(runCtx, cfg.Paths.WorkDir, staleWorkFileAge, logger)
	acquirer := acquire.New(cfg.Tools, cfg.Paths.WorkDir, logger)
	prepared, err := acquirer.Prepare(runCtx, src)
	if err != nil {
		return err
	}
	defer func() {
		if err := prepared.Cleanup(); err != nil {
			logging.WarnWithContext(logger, "failed to remove temporary audio", "temp_cleanup_failed",
				logging.String("path", prepared.Path),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "remove the file from the work directory by hand"),
				logging.String(logging.FieldImpact, "disk space stays in use"))
		}
	}()

	waveform, err := clip.Load(prepared.Path)
	if err != nil {
		return err
	}

	var exporterOpts []clip.Option
	if stderr := cmd.ErrOrStderr(); shouldColorize(stderr) {
		exporterOpts = append(exporterOpts, clip.WithProgress(stderr))
	}
	engine, err := session.New(session.Config{
		AudioDir: cfg.AudioDir(),
		Params:   cfg.SegmentParams(),
	}, store, clip.NewExporter(logger, exporterOpts...), console, logger)
	if err != nil {
		return err
	}

	job := session.Job{
		Source:    src,
		Naming:    src.Naming(cfg.AudioDir(), motors),
		Waveform:  waveform,
		Reprocess: opts.reprocess,
	}

	var result session.Result
	if opts.ranged {
		result, err = engine.RunRanges(runCtx, job, console)
	} else {
		result, err = engine.RunWhole(runCtx, job)
	}
	printSegmentResult(out, result, job)
	return err
}

func consoleOptions(cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, in io.Reader, opts segmentOptions) []labeling.Option {
	options := []labeling.Option{labeling.WithLogger(logger)}
	if !cfg.Labeling.Preview || opts.noPreview {
		return options
	}
	if !isInteractive(in) {
		logger.Debug("stdin is not a terminal; clip preview disabled")
		return options
	}
	status := deps.Check(deps.Requirement{Name: "FFplay", Command: cfg.Tools.FFplay})
	if !status.Available {
		fmt.Fprintf(cmd.OutOrStdout(), "Clip preview disabled: %s\n", status.Detail)
		return options
	}
	return append(options, labeling.WithPreview(labeling.NewFFplay(cfg.Tools.FFplay)))
}

func printSegmentResult(out io.Writer, result session.Result, job session.Job) {
	if result.Skipped {
		fmt.Fprintf(out, "%s is already in the dataset; use --reprocess to label it again\n", sourceName(job.Source))
		return
	}
	if result.Cleared != nil {
		fmt.Fprintf(out, "Cleared %d records and %d files from the previous run\n",
			result.Cleared.RecordsRemoved, len(result.Cleared.FilesRemoved))
	}
	if len(result.Parts) == 0 {
		return
	}
	fmt.Fprintf(out, "\nSaved %d clips from %s", result.ClipCount(), sourceName(job.Source))
	if len(result.Parts) > 1 {
		fmt.Fprintf(out, " across %d parts", len(result.Parts))
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Drone clips are in %s\n", job.Naming.OutputDir)
}

func sourceName(src source.Source) string {
	if id := src.Identifier(); id != "" {
		return id
	}
	return src.Path
}
