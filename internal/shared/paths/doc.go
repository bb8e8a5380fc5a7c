// Package paths provides the filesystem locations and file helpers shared by
// the scraper's packages.
//
// # Directory Structure
//
//	$XDG_CACHE_HOME/wikisnp/    (HTTP response cache)
//	$XDG_CONFIG_HOME/wikisnp/   (config.yaml, config.yml or config.toml)
//
// # Usage
//
//	dir := paths.CacheDir()
//	if cfg := paths.DefaultConfigFile(); cfg != "" {
//	    // load it
//	}
//	err := paths.WriteFileAtomic("sp500.yaml", data, 0o644)
package paths
