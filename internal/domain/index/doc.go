// Package index defines the records scraped from an index constituents page.
//
// Three record types make up a scrape:
//   - Component: one constituent (ticker symbol + display name)
//   - Diff: one historical addition/removal event
//   - Index: the current components plus the diff history
//
// Components are shared by pointer. A Diff may point at the very same
// Component instance that appears in Index.Components; the codec package
// uses that identity to emit a YAML anchor once and alias it afterwards.
// Equality helpers compare by value and never by identity.
//
// Example:
//
//	abc := &index.Component{Symbol: "ABC", Name: "A b c."}
//	idx := &index.Index{
//		Components: []*index.Component{abc},
//		Diffs:      []*index.Diff{{Date: "June 8, 2022", Added: abc, Reason: "Market capitalization change."}},
//	}
package index
