package main

import (
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/spf13/cobra"

	"droneset/internal/metadata"
	"droneset/internal/report"
	"droneset/internal/textutil"
)

type statsGroupJSON struct {
	BinaryLabel string  `json:"binary_label"`
	MotorLabel  string  `json:"motor_label"`
	Total       int     `json:"total"`
	Quality     []int   `json:"quality"`
	MeanQuality float64 `json:"mean_quality"`
}

type statsJSON struct {
	Total        int              `json:"total"`
	Groups       []statsGroupJSON `json:"groups"`
	Distribution map[string]int   `json:"quality_distribution"`
	Subtypes     map[string]int   `json:"subtypes"`
	SummaryCSV   string           `json:"summary_csv,omitempty"`
}

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool
	var noSave bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show dataset statistics and save the summary CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.store()
			if err != nil {
				return err
			}

			summary := report.Summarize(store.Load())
			out := cmd.OutOrStdout()
			if summary.Empty() {
				if jsonOutput {
					return writeJSON(cmd, statsPayload(summary, ""))
				}
				fmt.Fprintf(out, "No labeled clips in %s\n", cfg.Paths.MetadataFile)
				return nil
			}

			csvPath := ""
			if !noSave {
				if err := summary.SaveCSV(cfg.Paths.SummaryCSV); err != nil {
					return err
				}
				csvPath = cfg.Paths.SummaryCSV
			}

			if jsonOutput {
				return writeJSON(cmd, statsPayload(summary, csvPath))
			}
			printStats(out, summary, shouldColorize(out))
			if csvPath != "" {
				fmt.Fprintf(out, "\nSummary saved to %s\n", csvPath)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print statistics as JSON")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the summary CSV")
	return cmd
}

func printStats(out io.Writer, summary report.Summary, colorize bool) {
	for _, line := range renderSectionHeader("Dataset Summary", colorize) {
		fmt.Fprintln(out, line)
	}
	headers := []string{"Label", "Motors", "Total"}
	aligns := []columnAlignment{alignLeft, alignLeft, alignRight}
	for q := report.MinQuality; q <= report.MaxQuality; q++ {
		headers = append(headers, "Q"+strconv.Itoa(q))
		aligns = append(aligns, alignRight)
	}
	headers = append(headers, "Mean")
	aligns = append(aligns, alignRight)

	var totals [report.MaxQuality]int
	rows := make([][]string, 0, len(summary.Groups))
	for _, g := range summary.Groups {
		for i, n := range g.Quality {
			totals[i] += n
		}
		row := []string{textutil.DisplayLabel(g.BinaryLabel), textutil.DisplayLabel(g.MotorLabel), strconv.Itoa(g.Total)}
		for _, n := range g.Quality {
			row = append(row, strconv.Itoa(n))
		}
		mean := "-"
		if g.MeanQuality > 0 {
			mean = strconv.FormatFloat(g.MeanQuality, 'f', 2, 64)
		}
		rows = append(rows, append(row, mean))
	}
	footer := []string{"Total", "", strconv.Itoa(summary.Total)}
	for _, n := range totals {
		footer = append(footer, strconv.Itoa(n))
	}
	fmt.Fprintln(out, renderTable(headers, rows, aligns, footer...))
	fmt.Fprintf(out, "\nTotal segments: %d\n\n", summary.Total)

	for _, line := range renderSectionHeader("Global Quality Distribution", colorize) {
		fmt.Fprintln(out, line)
	}
	for _, bucket := range summary.Distribution {
		fmt.Fprintf(out, "Quality %d: %d\n", bucket.Quality, bucket.Count)
	}

	if len(summary.Subtypes) == 0 {
		return
	}
	fmt.Fprintln(out)
	for _, line := range renderSectionHeader("No-Drone Subtypes", colorize) {
		fmt.Fprintln(out, line)
	}
	subtypeRows := make([][]string, 0, len(summary.Subtypes))
	for _, s := range metadata.Subtypes() {
		if n := summary.Subtypes[s]; n > 0 {
			subtypeRows = append(subtypeRows, []string{textutil.DisplayLabel(string(s)), strconv.Itoa(n)})
		}
	}
	fmt.Fprintln(out, renderTable([]string{"Subtype", "Clips"}, subtypeRows, []columnAlignment{alignLeft, alignRight}))
}

func statsPayload(summary report.Summary, csvPath string) statsJSON {
	payload := statsJSON{
		Total:        summary.Total,
		Groups:       make([]statsGroupJSON, 0, len(summary.Groups)),
		Distribution: map[string]int{},
		Subtypes:     map[string]int{},
		SummaryCSV:   csvPath,
	}
	for _, g := range summary.Groups {
		payload.Groups = append(payload.Groups, statsGroupJSON{
			BinaryLabel: g.BinaryLabel,
			MotorLabel:  g.MotorLabel,
			Total:       g.Total,
			Quality:     slices.Clone(g.Quality[:]),
			MeanQuality: g.MeanQuality,
		})
	}
	for _, bucket := range summary.Distribution {
		payload.Distribution[strconv.Itoa(bucket.Quality)] = bucket.Count
	}
	for s, n := range summary.Subtypes {
		payload.Subtypes[string(s)] = n
	}
	return payload
}
