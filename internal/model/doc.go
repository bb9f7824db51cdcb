// Package model defines the data structures shared across wikicat.
//
// This package contains the following main types:
//   - Record: One extracted (title, url) pair from a listing page
//   - PageResult: The records and next-page URL found on one page
//   - Job: The immutable input of a single crawl run
//   - Page: The raw result of fetching one listing page
//   - Summary: What a finished crawl run produced
//   - Run, Visit: Crawl history rows persisted by the database package
//
// Models live in their own package so that crawler, sink, database and
// report can share them without import cycles.
package model
