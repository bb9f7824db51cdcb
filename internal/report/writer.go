package report

import (
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/nao1215/wikicat/internal/model"
)

// Writer renders run history.
type Writer interface {
	// WriteRuns outputs a list of runs, newest first as given.
	WriteRuns(runs []*model.Run) (int, error)

	// WriteRun outputs one run and the pages it visited.
	WriteRun(run *model.Run, visits []*model.Visit) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

const timeLayout = "2006-01-02 15:04:05"

var titleCaser = cases.Title(language.English)

// StopReasonLabel returns a human-readable label for a run's outcome.
func StopReasonLabel(run *model.Run) string {
	if !run.Finished() {
		return "In Progress"
	}
	if run.StopReason == "" {
		return "Unknown"
	}
	return titleCaser.String(strings.ReplaceAll(string(run.StopReason), "_", " "))
}

// formatTime renders t in local time, or "-" for the zero time.
func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format(timeLayout)
}

// formatElapsed renders the duration of a finished run.
func formatElapsed(run *model.Run) string {
	if !run.Finished() {
		return "-"
	}
	return run.Elapsed().Round(time.Millisecond).String()
}

// shortHashLen is the number of hex digits shown for a body hash.
const shortHashLen = 12

// shortHash returns the first 12 characters of a body hash.
func shortHash(hash string) string {
	if hash == "" {
		return "-"
	}
	if len(hash) > shortHashLen {
		return hash[:shortHashLen]
	}
	return hash
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

// orDash returns "-" for an empty string.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
