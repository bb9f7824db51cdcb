package model

import "time"

// Record is one entry of a paginated listing.
// Records are created by the extractor and never modified afterwards.
type Record struct {
	// Title is the whitespace-trimmed link text. It may be empty.
	Title string `json:"title"`

	// URL is the absolute link target.
	URL string `json:"url"`
}

// Columns returns the record's values in output column order.
func (r Record) Columns() []string {
	return []string{r.Title, r.URL}
}

// RecordHeader is the fixed column header of the output file.
var RecordHeader = []string{"title", "url"}

// PageResult is what the extractor found on a single listing page.
type PageResult struct {
	// Records holds the page's entries in document order.
	Records []Record

	// NextURL is the absolute URL of the following page.
	// Empty means this page is the last one.
	NextURL string
}

// HasNext reports whether a subsequent page was detected.
func (r PageResult) HasNext() bool {
	return r.NextURL != ""
}

// Job is the input of one crawl run. It is set once before the run starts.
type Job struct {
	// StartURL is the first listing page to fetch.
	StartURL string

	// Limit is the maximum number of records to emit. 0 means unbounded.
	Limit int

	// Delay is the pause between two consecutive page fetches.
	Delay time.Duration

	// OutputPath is the destination file of the records.
	OutputPath string
}

// StopReason tells why a crawl run ended.
type StopReason string

const (
	// StopExhausted means the last page had no next-page link.
	StopExhausted StopReason = "exhausted"

	// StopLimit means the collection limit was reached.
	StopLimit StopReason = "limit"

	// StopPageBudget means the optional maximum page count was reached.
	StopPageBudget StopReason = "page_budget"

	// StopFailed means the run aborted with an error.
	StopFailed StopReason = "failed"
)

// Summary describes what a crawl run produced.
type Summary struct {
	// Records is the number of records written to the sink.
	Records int

	// Pages is the number of listing pages fetched and extracted.
	Pages int

	// StopReason tells why the run ended.
	StopReason StopReason
}
