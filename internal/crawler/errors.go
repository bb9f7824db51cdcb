package crawler

import "errors"

var (
	// ErrParse is returned when a page body cannot be read as HTML.
	ErrParse = errors.New("failed to parse document")

	// ErrInvalidOrigin is returned when the extractor origin is not an absolute URL.
	ErrInvalidOrigin = errors.New("origin must be an absolute URL")

	// ErrInvalidJob is returned for a job with a negative limit or delay.
	ErrInvalidJob = errors.New("invalid crawl job")
)
