// Command wikisnp scrapes the constituents and change history of a stock
// index from its wiki page and writes them as tagged YAML or JSON.
//
// Usage:
//
//	wikisnp <url> [out]              scrape and write (stdout when out is omitted)
//	wikisnp inspect <url>            show how each table on the page would be used
//	wikisnp compare <old> <new>      report changes between two saved snapshots
//
// Configuration is read from --config, or from config.yaml, config.yml or
// config.toml in the user config directory, then from WIKISNP_* environment
// variables. Logs go to stderr.
package main
