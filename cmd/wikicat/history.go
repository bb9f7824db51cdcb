package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikicat/internal/database"
	"github.com/nao1215/wikicat/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show previous crawl runs",
		Long: `History lists recorded crawl runs, newest first, or the pages visited
by a single run together with the hash of each page body.

Two runs against an unchanged listing record identical page hashes.

Examples:
  # List the 20 most recent runs
  wikicat history

  # Show the pages of run 12
  wikicat history --run 12

  # Markdown output for sharing
  wikicat history --markdown > history.md`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Number of runs to list (0 = all)")
	cmd.Flags().Int64P("run", "r", 0,
		"Show the pages visited by this run")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.MarkFlagsMutuallyExclusive("markdown", "json")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}

	writer := newHistoryWriter(cmd)

	db, err := database.Open(getDataDir(cmd), database.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, os.ErrNotExist) {
		if runID != 0 {
			return fmt.Errorf("%w: %d", database.ErrRunNotFound, runID)
		}
		_, err = writer.WriteRuns(nil)
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	if runID != 0 {
		run, err := db.GetRun(ctx, runID)
		if err != nil {
			return err
		}
		visits, err := db.ListVisits(ctx, runID)
		if err != nil {
			return err
		}
		_, err = writer.WriteRun(run, visits)
		return err
	}

	runs, err := db.ListRuns(ctx, limit)
	if err != nil {
		return err
	}
	_, err = writer.WriteRuns(runs)
	return err
}

// newHistoryWriter selects the report writer from the output flags.
func newHistoryWriter(cmd *cobra.Command) report.Writer {
	out := cmd.OutOrStdout()
	switch {
	case getBoolFlag(cmd, "markdown"):
		return report.NewMarkdownWriter(out)
	case getBoolFlag(cmd, "json"):
		return report.NewJSONWriter(out, report.WithPrettyPrint())
	default:
		return report.NewSimpleWriter(out)
	}
}
