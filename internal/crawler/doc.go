// Package crawler walks a paginated category listing and turns it into
// records.
//
// # Components
//
//   - ParseDocument: turns a raw page body into an HTML tree
//   - Extractor: pulls (title, url) records and the next-page URL out of
//     the listing container of one page
//   - Paginator: drives fetch, extract and emit until the listing is
//     exhausted or the record limit is reached
//
// # Pagination
//
// The Paginator is strictly sequential: one fetch in flight, records written
// to the sink in page order and then document order. Between two pages it
// waits for the configured delay; it never waits after the last page. Any
// fetch failure ends the run. Nothing is retried and visited URLs are not
// tracked, so a listing whose next-page link loops is only stopped by the
// record limit or the page budget.
//
// # Usage
//
//	ex, err := crawler.NewExtractor("https://en.wikipedia.org/")
//	p := crawler.NewPaginator(f, ex, opener)
//	summary, err := p.Run(ctx, model.Job{
//	    StartURL:   "https://en.wikipedia.org/wiki/Category:Data_science",
//	    Limit:      100,
//	    Delay:      time.Second,
//	    OutputPath: "wikipedia_category.csv",
//	})
package crawler
