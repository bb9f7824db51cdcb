package crawler

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nao1215/wikicat/internal/model"
)

// Fetcher retrieves the document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// RecordSink receives the header and then records in emission order.
type RecordSink interface {
	WriteHeader() error
	WriteRecord(record model.Record) error
	Close() error
}

// SinkOpener opens the sink for an output path, truncating existing content.
type SinkOpener func(path string) (RecordSink, error)

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// PageEvent describes one processed listing page.
type PageEvent struct {
	// Seq is the 1-based position of the page in the run.
	Seq int

	// Page is the fetched page.
	Page *model.Page

	// Found is the number of records the page contained.
	Found int

	// Written is the number of those records emitted before the limit hit.
	Written int

	// Emitted is the running total of emitted records.
	Emitted int

	// NextURL is the page that will be fetched next; empty when the run ends here.
	NextURL string
}

// PageObserver is notified after each page's records are emitted.
// Observers cannot alter the run.
type PageObserver func(ctx context.Context, event PageEvent)

// Paginator runs a crawl job.
type Paginator struct {
	fetcher   Fetcher
	extractor *Extractor
	openSink  SinkOpener
	sleep     Sleeper
	maxPages  int
	observers []PageObserver
	logger    *slog.Logger
}

// PaginatorOption configures a Paginator.
type PaginatorOption func(*Paginator)

// WithSleeper replaces the inter-page wait. Tests use it to record delays.
func WithSleeper(sleep Sleeper) PaginatorOption {
	return func(p *Paginator) {
		if sleep != nil {
			p.sleep = sleep
		}
	}
}

// WithMaxPages stops the run gracefully once n pages have been fetched.
// Zero means no page budget.
func WithMaxPages(n int) PaginatorOption {
	return func(p *Paginator) {
		p.maxPages = n
	}
}

// WithObserver adds a page observer. Observers run in registration order.
func WithObserver(observer PageObserver) PaginatorOption {
	return func(p *Paginator) {
		if observer != nil {
			p.observers = append(p.observers, observer)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) PaginatorOption {
	return func(p *Paginator) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPaginator creates a Paginator.
func NewPaginator(f Fetcher, extractor *Extractor, openSink SinkOpener, opts ...PaginatorOption) *Paginator {
	p := &Paginator{
		fetcher:   f,
		extractor: extractor,
		openSink:  openSink,
		sleep:     Sleep,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Sleep waits for d, returning early with the context error when ctx is
// done. A non-positive d returns immediately.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run executes job. The sink is opened and the header written before the
// first fetch, and the sink is closed on every return path. Records written
// before a failure stay in the output.
func (p *Paginator) Run(ctx context.Context, job model.Job) (summary model.Summary, err error) {
	if job.Limit < 0 || job.Delay < 0 {
		return summary, fmt.Errorf("%w: limit=%d delay=%s", ErrInvalidJob, job.Limit, job.Delay)
	}

	out, err := p.openSink(job.OutputPath)
	if err != nil {
		summary.StopReason = model.StopFailed
		return summary, err
	}
	defer func() {
		if closeErr := out.Close(); closeErr != nil && err == nil {
			summary.StopReason = model.StopFailed
			err = closeErr
		}
	}()

	if err := out.WriteHeader(); err != nil {
		summary.StopReason = model.StopFailed
		return summary, err
	}

	current := job.StartURL
	for current != "" {
		if err := ctx.Err(); err != nil {
			summary.StopReason = model.StopFailed
			return summary, err
		}

		next, err := p.processPage(ctx, out, job, current, &summary)
		if err != nil {
			summary.StopReason = model.StopFailed
			return summary, err
		}
		if summary.StopReason == model.StopLimit {
			break
		}

		current = next
		if current == "" {
			break
		}

		if p.maxPages > 0 && summary.Pages >= p.maxPages {
			summary.StopReason = model.StopPageBudget
			p.logger.Info("page budget reached", "pages", summary.Pages, "next", current)
			break
		}

		if err := p.sleep(ctx, job.Delay); err != nil {
			summary.StopReason = model.StopFailed
			return summary, err
		}
	}

	if summary.StopReason == "" {
		summary.StopReason = model.StopExhausted
	}
	return summary, nil
}

// processPage fetches, extracts and emits one page and returns the next URL
// to visit. Reaching the limit sets StopLimit and returns no next URL.
func (p *Paginator) processPage(ctx context.Context, out RecordSink, job model.Job, pageURL string, summary *model.Summary) (string, error) {
	page, err := p.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return "", err
	}
	summary.Pages++

	doc, err := ParseDocument(bytes.NewReader(page.Body))
	if err != nil {
		return "", fmt.Errorf("%s: %w", pageURL, err)
	}
	result := p.extractor.Extract(doc)

	next := result.NextURL
	written := 0
	for _, record := range result.Records {
		if err := out.WriteRecord(record); err != nil {
			return "", err
		}
		summary.Records++
		written++

		if job.Limit != 0 && summary.Records == job.Limit {
			summary.StopReason = model.StopLimit
			next = ""
			break
		}
	}

	p.logger.Debug("processed page",
		"seq", summary.Pages,
		"url", pageURL,
		"found", len(result.Records),
		"written", written,
		"next", next,
	)

	event := PageEvent{
		Seq:     summary.Pages,
		Page:    page,
		Found:   len(result.Records),
		Written: written,
		Emitted: summary.Records,
		NextURL: next,
	}
	for _, observe := range p.observers {
		observe(ctx, event)
	}

	return next, nil
}
