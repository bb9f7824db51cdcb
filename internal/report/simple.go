package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/wikicat/internal/model"
)

// SimpleWriter outputs aligned plain text for terminal display.
type SimpleWriter struct {
	baseWriter

	// urlWidth truncates URLs longer than this many characters. 0 disables truncation.
	urlWidth int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithURLWidth truncates long URLs to width characters.
func WithURLWidth(width int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.urlWidth = width
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *SimpleWriter) url(u string) string {
	if w.urlWidth <= 0 {
		return u
	}
	return truncateString(u, w.urlWidth)
}

// WriteRuns outputs one line per run.
func (w *SimpleWriter) WriteRuns(runs []*model.Run) (int, error) {
	var sb strings.Builder

	if len(runs) == 0 {
		sb.WriteString("No runs recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "%-6s %-19s %8s %6s  %-12s %s\n", "ID", "STARTED", "RECORDS", "PAGES", "RESULT", "START URL")
	for _, run := range runs {
		fmt.Fprintf(&sb, "%-6d %-19s %8d %6d  %-12s %s\n",
			run.ID,
			formatTime(run.StartedAt),
			run.Records,
			run.Pages,
			StopReasonLabel(run),
			w.url(run.StartURL),
		)
	}

	return w.output.Write([]byte(sb.String()))
}

// WriteRun outputs run details followed by one line per visited page.
func (w *SimpleWriter) WriteRun(run *model.Run, visits []*model.Visit) (int, error) {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Run:       #%d\n", run.ID)
	fmt.Fprintf(&sb, "Start URL: %s\n", run.StartURL)
	fmt.Fprintf(&sb, "Output:    %s\n", run.OutputPath)
	fmt.Fprintf(&sb, "Limit:     %s\n", limitText(run.Limit))
	fmt.Fprintf(&sb, "Started:   %s\n", formatTime(run.StartedAt))
	fmt.Fprintf(&sb, "Elapsed:   %s\n", formatElapsed(run))
	fmt.Fprintf(&sb, "Records:   %d\n", run.Records)
	fmt.Fprintf(&sb, "Pages:     %d\n", run.Pages)
	fmt.Fprintf(&sb, "Result:    %s\n", StopReasonLabel(run))
	if run.Error != "" {
		fmt.Fprintf(&sb, "Error:     %s\n", run.Error)
	}
	sb.WriteString("\n")

	if len(visits) == 0 {
		sb.WriteString("No pages recorded.\n")
		return w.output.Write([]byte(sb.String()))
	}

	fmt.Fprintf(&sb, "%-4s %-6s %8s  %-12s %s\n", "SEQ", "STATUS", "RECORDS", "HASH", "URL")
	for _, v := range visits {
		fmt.Fprintf(&sb, "%-4d %-6d %8d  %-12s %s\n",
			v.Seq,
			v.StatusCode,
			v.Records,
			shortHash(v.Hash),
			w.url(v.URL),
		)
	}

	return w.output.Write([]byte(sb.String()))
}

func limitText(limit int) string {
	if limit == 0 {
		return "unbounded"
	}
	return fmt.Sprintf("%d", limit)
}
