// Package main provides the entry point for the wikicat CLI.
//
// wikicat walks a paginated Wikipedia category listing and writes the
// (title, url) of every member page to a CSV file, pausing politely
// between pages.
//
// Usage:
//
//	wikicat crawl https://en.wikipedia.org/wiki/Category:Data_science
//	wikicat crawl data-science          # category defined in .wikicat.yaml
//	wikicat history
//
// See --help for all available options.
package main

func main() {
	Execute()
}
