// Package app wires fetching, parsing and serialization into scrape runs.
//
// Key Components:
//   - Runner: fetches a page, checks it is HTML, parses the index and writes it
//   - Compare: reports membership changes between two saved snapshots
//   - TextDiff: line diff of two snapshots for human review
//
// Example Usage:
//
//	runner := app.NewRunner(fetcher, logger, metrics)
//	idx, err := runner.Scrape(ctx, url)
//	if err != nil {
//	    return err
//	}
//	err = runner.Write(idx, "sp500.yaml", app.FormatYAML)
package app
