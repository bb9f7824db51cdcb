// Package fetcher retrieves listing pages over HTTP.
//
// HTTPFetcher performs a single GET per call with the client's fixed
// identifying headers and timeout. It never retries: a transport failure
// yields a *TransportError and a non-2xx status a *ResponseError, and the
// caller decides what to do with either.
//
// RobotsGuard is an optional Fetcher decorator that consults the target
// host's robots.txt before delegating, and refuses disallowed URLs with
// ErrDisallowed.
//
// # Usage
//
//	client, err := fetcher.NewHTTPClient(fetcher.ClientOptions{
//	    Timeout:   20 * time.Second,
//	    UserAgent: "wikicat/1.0 (+https://github.com/nao1215/wikicat)",
//	})
//	f := fetcher.NewHTTPFetcher(client)
//	page, err := f.Fetch(ctx, "https://en.wikipedia.org/wiki/Category:Data_science")
package fetcher
