package fetcher

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nao1215/wikicat/internal/model"
)

// DefaultMaxBodySize limits the number of body bytes read per page.
const DefaultMaxBodySize = 10 * 1024 * 1024

// Fetcher retrieves the document at a URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*model.Page, error)
}

// HTTPFetcher fetches pages with a single GET request per call.
type HTTPFetcher struct {
	client      *http.Client
	maxBodySize int64
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures an HTTPFetcher.
type Option func(*HTTPFetcher)

// WithMaxBodySize caps the number of body bytes read per page.
// Zero or negative values keep the default.
func WithMaxBodySize(size int64) Option {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// WithLogger sets the logger for per-request debug output and oversized-page warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(f *HTTPFetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewHTTPFetcher creates a fetcher on top of client, which should come from
// NewHTTPClient so that requests carry the identifying headers.
func NewHTTPFetcher(client *http.Client, opts ...Option) *HTTPFetcher {
	f := &HTTPFetcher{
		client:      client,
		maxBodySize: DefaultMaxBodySize,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch issues a GET for pageURL and returns the page.
// A failure to complete the request is a *TransportError; a status outside
// 2xx is a *ResponseError. Nothing is retried.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*model.Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}

	start := f.now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024)) //nolint:errcheck // draining for connection reuse
		return nil, &ResponseError{URL: pageURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize+1))
	if err != nil {
		return nil, &TransportError{URL: pageURL, Err: err}
	}
	truncated := int64(len(body)) > f.maxBodySize
	if truncated {
		body = body[:f.maxBodySize]
		f.logger.Warn("listing page exceeds body size limit; trailing entries may be missing",
			"url", pageURL,
			"max_body_size", f.maxBodySize,
		)
	}
	fetchedAt := f.now()

	page := &model.Page{
		URL:         pageURL,
		StatusCode:  resp.StatusCode,
		Headers:     resp.Header,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        body,
		Truncated:   truncated,
		FetchedAt:   fetchedAt,
		Duration:    fetchedAt.Sub(start),
	}
	page.ComputeHash()

	if !page.IsHTML() {
		f.logger.Warn("listing page is not HTML", "url", pageURL, "content_type", page.ContentType)
	}
	f.logger.Debug("fetched page",
		"url", pageURL,
		"status", resp.StatusCode,
		"bytes", len(body),
		"duration", page.Duration,
	)

	return page, nil
}
