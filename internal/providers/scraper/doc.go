// Package scraper extracts index constituents and their change history from
// the HTML of an index page.
//
// This package is organized into specialized modules:
//   - types: document loading with charset detection, shared errors
//   - components: current constituents table (symbol/name columns by header)
//   - diffs: changes table with row-span reconstruction of date and reason cells
//   - page: table selection on a full page and assembly of an index.Index
//   - xpath: table inspection for diagnostics
//
// Built on specialized libraries:
//   - goquery: jQuery-like CSS selectors for table traversal
//   - htmlquery: XPath support for table inspection
//   - chardet: Character encoding detection
//
// Only the two known table layouts are recognised. Anything else fails with
// one of the sentinel errors declared in types.go; a partially parsed index is
// never returned.
//
// Example Usage:
//
//	idx, err := scraper.NewParser().Parse(html)
package scraper
