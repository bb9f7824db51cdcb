// Package report renders the crawl run history.
//
// This package contains writers for different output formats:
//   - SimpleWriter: aligned plain text for terminal display
//   - MarkdownWriter: Markdown tables for sharing
//   - JSONWriter: structured JSON for scripts
//
// Writers implement the Writer interface, so the history command picks one
// by flag and otherwise treats them the same.
package report
