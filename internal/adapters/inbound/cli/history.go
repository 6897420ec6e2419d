package cli

import (
	"encoding/json"
	"fmt"

	"github.com/openkraft/autograder/internal/adapters/outbound/scanner"
	"github.com/openkraft/autograder/internal/adapters/outbound/tui"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "history [path]",
		Short: "Show grading history for a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := gradedDir(args)
			if err != nil {
				return err
			}

			entries, err := newRecordService().History(dir)
			if err != nil {
				return fmt.Errorf("loading history: %w", err)
			}

			if jsonOutput {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderHistory(entries))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output history as JSON")
	return cmd
}

func newReportCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "report [path]",
		Short: "Show the last batch graded in a directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := gradedDir(args)
			if err != nil {
				return err
			}

			result, err := newRecordService().LastBatch(dir)
			if err != nil {
				return fmt.Errorf("loading last batch: %w", err)
			}
			if result == nil {
				return fmt.Errorf("no graded batch found in %s", dir)
			}

			if jsonOutput {
				return renderJSON(cmd, result)
			}
			fmt.Fprint(cmd.OutOrStdout(), tui.RenderBatch(result))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the batch result as JSON")
	return cmd
}

func gradedDir(args []string) (string, error) {
	path := "."
	if len(args) > 0 {
		path = args[0]
	}
	dir, err := scanner.ResolveDir(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}
	return dir, nil
}
