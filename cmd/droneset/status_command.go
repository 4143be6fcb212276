package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"droneset/internal/deps"
	"droneset/internal/staging"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show external tool availability and dataset locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.store()
			if err != nil {
				return err
			}

			stdout := cmd.OutOrStdout()
			colorize := shouldColorize(stdout)

			for _, line := range renderSectionHeader("Dependencies", colorize) {
				fmt.Fprintln(stdout, line)
			}
			for _, line := range dependencyLines(deps.CheckBinaries(deps.Requirements(cfg.Tools)), colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout)

			for _, line := range renderSectionHeader("Dataset", colorize) {
				fmt.Fprintln(stdout, line)
			}
			fmt.Fprintln(stdout, renderStatusLine("Audio", statusInfo, cfg.AudioDir(), colorize))
			fmt.Fprintln(stdout, renderStatusLine("Metadata", statusInfo, cfg.Paths.MetadataFile, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Labeled clips", statusInfo, fmt.Sprintf("%d", len(store.Load())), colorize))
			workKind, workDetail := workDirStatus(cfg.Paths.WorkDir)
			fmt.Fprintln(stdout, renderStatusLine("Work directory", workKind, workDetail, colorize))
			fmt.Fprintln(stdout, renderStatusLine("Clip preview", statusInfo, yesNo(cfg.Labeling.Preview), colorize))
			return nil
		},
	}
}

func dependencyLines(statuses []deps.Status, colorize bool) []string {
	lines := make([]string, 0, len(statuses)+2)
	requiredMissing := 0
	missing := make([]string, 0)
	for _, dep := range statuses {
		if !dep.Available {
			missing = append(missing, dep.Name)
			if !dep.Optional {
				requiredMissing++
			}
		}
	}

	switch {
	case requiredMissing > 0:
		lines = append(lines, renderStatusLine("Summary", statusError, fmt.Sprintf("%d required tool(s) missing", requiredMissing), colorize))
	case len(missing) > 0:
		lines = append(lines, renderStatusLine("Summary", statusWarn, "Optional tools missing", colorize))
	default:
		lines = append(lines, renderStatusLine("Summary", statusOK, "All tools available", colorize))
	}

	for _, dep := range statuses {
		if dep.Available {
			message := "Ready"
			if dep.Command != "" {
				message = fmt.Sprintf("Ready (command: %s)", dep.Command)
			}
			lines = append(lines, renderStatusLine(dep.Name, statusOK, message, colorize))
			continue
		}

		detail := strings.TrimSpace(dep.Detail)
		if detail == "" {
			detail = "not available"
		}
		kind := statusError
		if dep.Optional {
			kind = statusWarn
		}
		lines = append(lines, renderStatusLine(dep.Name, kind, detail, colorize))
	}
	if len(missing) > 0 {
		lines = append(lines, renderStatusLine("Missing dependencies", statusWarn, fmt.Sprintf("%s (see README.md for install steps)", strings.Join(missing, ", ")), colorize))
	}
	return lines
}

func workDirStatus(dir string) (statusKind, string) {
	files, err := staging.List(dir)
	if err != nil {
		return statusWarn, fmt.Sprintf("%s (%v)", dir, err)
	}
	if len(files) == 0 {
		return statusInfo, dir
	}
	mib := float64(staging.TotalSize(files)) / (1 << 20)
	return statusWarn, fmt.Sprintf("%s (%d leftover temporary files, %.1f MiB)", dir, len(files), mib)
}
