package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/mattn/go-isatty"

	"github.com/nao1215/wikicat/internal/crawler"
)

// progress shows a spinner with the running record count on a terminal.
type progress struct {
	spinner *spinner.Spinner
	limit   int
}

// newProgress returns nil unless w is a terminal.
func newProgress(w io.Writer, limit int) *progress {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}

	s := spinner.New(spinner.CharSets[9], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " fetching first page"
	return &progress{spinner: s, limit: limit}
}

func (p *progress) start() {
	p.spinner.Start()
}

func (p *progress) stop() {
	p.spinner.Stop()
}

func (p *progress) observe(_ context.Context, event crawler.PageEvent) {
	p.spinner.Lock()
	defer p.spinner.Unlock()
	p.spinner.Suffix = progressText(event, p.limit)
}

// progressText renders the spinner suffix for a processed page.
func progressText(event crawler.PageEvent, limit int) string {
	if limit > 0 {
		return fmt.Sprintf(" page %d: %d/%d rows", event.Seq, event.Emitted, limit)
	}
	return fmt.Sprintf(" page %d: %d rows", event.Seq, event.Emitted)
}
