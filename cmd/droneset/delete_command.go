package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"droneset/internal/source"
)

func newDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <url>",
		Short: "Remove every clip and label cut from a remote source",
		Long: "Remove the metadata records of a remote source and every clip file under the\n" +
			"audio directory whose name starts with the source's video ID. Local recordings\n" +
			"carry no source identifier and cannot be deleted this way.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !source.IsURL(args[0]) {
				return errors.New("delete needs the source URL; clips from local files carry no source identifier")
			}
			src, err := source.Resolve(args[0])
			if err != nil {
				return err
			}

			lock, err := ctx.lockStore()
			if err != nil {
				return err
			}
			defer lock.Release()

			store, err := ctx.store()
			if err != nil {
				return err
			}
			result, err := store.DeleteAndClearFiles(src.Identifier(), src.Stem(), cfg.AudioDir())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			if result.RecordsRemoved == 0 && len(result.FilesRemoved) == 0 && len(result.Errors) == 0 {
				fmt.Fprintf(out, "Nothing to delete for %s\n", src.Identifier())
				return nil
			}
			fmt.Fprintln(out, renderStatusLine("Records removed", statusOK, fmt.Sprintf("%d", result.RecordsRemoved), colorize))
			fmt.Fprintln(out, renderStatusLine("Files removed", statusOK, fmt.Sprintf("%d", len(result.FilesRemoved)), colorize))
			for _, fileErr := range result.Errors {
				fmt.Fprintln(out, renderStatusLine("Not removed", statusWarn, fmt.Sprintf("%s: %v", fileErr.Path, fileErr.Error), colorize))
			}
			return result.Err()
		},
	}
}
