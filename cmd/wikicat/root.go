package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/wikicat/internal/config"
	wlog "github.com/nao1215/wikicat/internal/log"
)

// NewRootCmd creates the root command for wikicat.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wikicat",
		Short: "Export the members of a Wikipedia category to CSV",
		Long: `wikicat crawls a paginated Wikipedia category listing and writes the
title and absolute URL of every member page to a CSV file.

It follows the "next page" links of the listing one page at a time,
waits between requests, and stops when the listing ends or the record
limit is reached. Every run is recorded in a local history database.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")
	cmd.PersistentFlags().String("data-dir", config.XDGDataDir(), "Directory holding the run history database")

	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// getBoolFlag retrieves a flag from the command or, for persistent flags,
// its root. It returns false when the flag does not exist.
func getBoolFlag(cmd *cobra.Command, name string) bool {
	v, err := cmd.Flags().GetBool(name)
	if err != nil {
		v, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return v
}

// getDataDir returns the history database directory.
func getDataDir(cmd *cobra.Command) string {
	dir, err := cmd.Flags().GetString("data-dir")
	if err != nil {
		dir, err = cmd.Root().PersistentFlags().GetString("data-dir")
		if err != nil {
			return config.XDGDataDir()
		}
	}
	return dir
}

// setupLogger creates the structured logger for a command run.
func setupLogger(cmd *cobra.Command, w io.Writer, verbose bool) *slog.Logger {
	if getBoolFlag(cmd, "log-json") {
		return wlog.NewJSONLogger(w, verbose)
	}
	return wlog.NewLogger(w, verbose)
}
