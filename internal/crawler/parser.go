package crawler

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/nao1215/wikicat/internal/model"
)

// Defaults matching MediaWiki category pages.
const (
	DefaultContainerSelector = "div#mw-pages"
	DefaultItemSelector      = "li > a"
	DefaultNextText          = "next page"
	DefaultContinuationParam = "pagefrom"
)

// ParseDocument parses an HTML document.
// The HTML5 parser recovers from malformed markup, so this only fails when
// the reader itself fails.
func ParseDocument(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

// Extractor pulls listing records and the next-page URL out of one page.
// It holds no per-page state and may be reused across pages.
type Extractor struct {
	origin            *url.URL
	containerSelector string
	itemSelector      string
	nextText          string
	continuation      *regexp.Regexp
	logger            *slog.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithContainerSelector sets the selector of the listing container.
// Only the first matching element is used.
func WithContainerSelector(selector string) ExtractorOption {
	return func(e *Extractor) {
		e.containerSelector = selector
	}
}

// WithItemSelector sets the selector of record links inside the container.
func WithItemSelector(selector string) ExtractorOption {
	return func(e *Extractor) {
		e.itemSelector = selector
	}
}

// WithNextText sets the link text that marks the next-page anchor.
// Comparison is case-insensitive after trimming.
func WithNextText(text string) ExtractorOption {
	return func(e *Extractor) {
		e.nextText = strings.ToLower(strings.TrimSpace(text))
	}
}

// WithContinuationParam sets the query parameter whose presence in an href
// marks the next-page anchor.
func WithContinuationParam(param string) ExtractorOption {
	return func(e *Extractor) {
		e.continuation = continuationPattern(param)
	}
}

// WithExtractorLogger sets the logger for skipped links.
func WithExtractorLogger(logger *slog.Logger) ExtractorOption {
	return func(e *Extractor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewExtractor creates an extractor that resolves hrefs against origin.
func NewExtractor(origin string, opts ...ExtractorOption) (*Extractor, error) {
	u, err := url.Parse(origin)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidOrigin, origin)
	}

	e := &Extractor{
		origin:            u,
		containerSelector: DefaultContainerSelector,
		itemSelector:      DefaultItemSelector,
		nextText:          DefaultNextText,
		continuation:      continuationPattern(DefaultContinuationParam),
		logger:            slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func continuationPattern(param string) *regexp.Regexp {
	return regexp.MustCompile(`[?&]` + regexp.QuoteMeta(param) + `=`)
}

// Extract returns the records of the listing container in document order
// and the absolute URL of the next page. A page without a container yields
// an empty result.
func (e *Extractor) Extract(root *html.Node) model.PageResult {
	result := model.PageResult{Records: make([]model.Record, 0)}

	container := goquery.NewDocumentFromNode(root).Find(e.containerSelector).First()
	if container.Length() == 0 {
		e.logger.Debug("listing container not found", "selector", e.containerSelector)
		return result
	}

	container.Find(e.itemSelector).Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok || href == "" {
			return
		}
		resolved, err := e.resolve(href)
		if err != nil {
			e.logger.Debug("skipping unparseable link", "href", href, "error", err)
			return
		}
		result.Records = append(result.Records, model.Record{
			Title: strings.TrimSpace(a.Text()),
			URL:   resolved,
		})
	})

	result.NextURL = e.nextURL(container)
	return result
}

// nextURL scans every anchor of the container in document order and stops
// at the first one that reads as the next-page link or carries the
// continuation parameter.
func (e *Extractor) nextURL(container *goquery.Selection) string {
	var next string
	container.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		text := strings.ToLower(strings.TrimSpace(a.Text()))
		href := a.AttrOr("href", "")
		if text != e.nextText && !e.continuation.MatchString(href) {
			return true
		}

		resolved, err := e.resolve(href)
		if err != nil {
			e.logger.Debug("unparseable next-page link", "href", href, "error", err)
			return false
		}
		next = resolved
		return false
	})
	return next
}

// resolve makes href absolute against the origin. An empty href resolves
// to the origin itself.
func (e *Extractor) resolve(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", err
	}
	return e.origin.ResolveReference(ref).String(), nil
}
