package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"github.com/quantmind-br/brewpkg/internal/core"
	"github.com/quantmind-br/brewpkg/internal/ui"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command
func NewHistoryCmd(a *app) *cobra.Command {
	var (
		limit      int
		pkg        string
		jsonOutput bool
		prune      time.Duration
		runID      string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded converge runs",
		Long:  `Show converge runs recorded in the run journal, newest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			errOut := cmd.ErrOrStderr()

			ctx, cancel := a.context(cmd)
			defer cancel()

			journal, err := a.openJournal(ctx)
			if err != nil {
				ui.PrintError(errOut, "failed to open database: %v", err)
				return &ExitError{Code: core.ExitDatabase, Err: fmt.Errorf("open database: %w", err)}
			}
			if journal == nil {
				ui.PrintInfo(out, "Run history is disabled (paths.db_file is empty)")
				return nil
			}
			defer journal.Close()

			if prune > 0 {
				n, err := journal.Prune(ctx, time.Now().Add(-prune))
				if err != nil {
					return &ExitError{Code: core.ExitDatabase, Err: fmt.Errorf("prune runs: %w", err)}
				}
				ui.PrintSuccess(out, "Pruned %d run(s) older than %s", n, prune)
			}

			var runs []core.RunRecord
			if runID != "" {
				var run *core.RunRecord
				if run, err = journal.Get(ctx, runID); err == nil {
					runs = []core.RunRecord{*run}
				}
			} else {
				runs, err = journal.List(ctx, pkg, limit)
			}
			if err != nil {
				ui.PrintError(errOut, "failed to read runs: %v", err)
				return &ExitError{Code: core.ExitDatabase, Err: fmt.Errorf("read runs: %w", err)}
			}

			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(runs)
			}

			if len(runs) == 0 {
				ui.PrintInfo(out, "No runs recorded")
				return nil
			}

			printHistoryTable(cmd, runs)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum number of runs to show (0 for all)")
	cmd.Flags().StringVarP(&pkg, "package", "p", "", "only show runs for this formula")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output in JSON format")
	cmd.Flags().StringVar(&runID, "run", "", "show a single run by its ID")
	cmd.Flags().DurationVar(&prune, "prune", 0, "delete runs older than this duration before listing (e.g. 720h)")

	return cmd
}

func printHistoryTable(cmd *cobra.Command, runs []core.RunRecord) {
	table := tablewriter.NewTable(cmd.OutOrStdout(),
		tablewriter.WithHeader([]string{"Run", "Started", "Action", "Package", "Outcome", "Before", "After", "Duration"}),
		tablewriter.WithAlignment(tw.MakeAlign(8, tw.AlignLeft)),
		tablewriter.WithSymbols(tw.NewSymbols(tw.StyleLight)),
	)

	for _, run := range runs {
		table.Append(
			shortID(run.RunID),
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			string(run.Action),
			run.Package,
			ui.ColorizeOutcome(run.Outcome),
			dash(run.Before),
			dash(run.After),
			run.Duration.Round(time.Millisecond).String(),
		)
	}

	table.Render()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// shortID trims a run ID to its first uuid group for table output
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
