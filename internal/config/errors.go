package config

import "errors"

// Configuration validation errors returned by Config.Validate.
var (
	// ErrNoStartURL is returned when no start URL or category is given.
	ErrNoStartURL = errors.New("no start URL specified: provide a listing URL or a category name")

	// ErrInvalidStartURL is returned when the start URL is not an absolute http(s) URL.
	ErrInvalidStartURL = errors.New("invalid start URL: must be an absolute http or https URL")

	// ErrInvalidOrigin is returned when the site origin is not an absolute http(s) URL.
	ErrInvalidOrigin = errors.New("invalid origin: must be an absolute http or https URL")

	// ErrInvalidLimit is returned when the record limit is negative.
	ErrInvalidLimit = errors.New("invalid limit: must be non-negative (0 = unlimited)")

	// ErrInvalidDelay is returned when the delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrNoOutputPath is returned when the output path is empty.
	ErrNoOutputPath = errors.New("no output path specified")

	// ErrUnknownFormat is returned for an output format other than csv or tsv.
	ErrUnknownFormat = errors.New("unknown output format: must be csv or tsv")

	// ErrEmptyUserAgent is returned when the User-Agent is blank.
	ErrEmptyUserAgent = errors.New("user agent must not be empty")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidMaxPages is returned when the page budget is negative.
	ErrInvalidMaxPages = errors.New("invalid max pages: must be non-negative (0 = unlimited)")
)
