// Package config provides layered configuration for the scraper.
//
// Values are resolved in order, each layer overriding the previous one:
//   - Default(): built-in defaults
//   - Config file: YAML (.yaml, .yml) or TOML (.toml), optional
//   - Environment: WIKISNP_* variables
//   - Command line: flags applied through Override
//
// Configuration Sections:
//   - Fetch: HTTP timeout, user agent, retries and rate limit
//   - Cache: on-disk response cache location and cacheable statuses
//   - Logging: Log level and output format
//   - Metrics: node-exporter textfile destination
//
// Example Usage:
//
//	cfg, err := config.Load("wikisnp.yaml")
//	if err != nil {
//		return err
//	}
//	fmt.Println(cfg.Cache.Dir)
//
// Environment Variables:
//   - WIKISNP_FETCH_TIMEOUT, WIKISNP_FETCH_USER_AGENT, WIKISNP_FETCH_MAX_RETRIES
//   - WIKISNP_FETCH_RETRY_WAIT_MIN, WIKISNP_FETCH_RETRY_WAIT_MAX, WIKISNP_FETCH_RATE_LIMIT
//   - WIKISNP_CACHE_ENABLED, WIKISNP_CACHE_DIR, WIKISNP_CACHE_CACHEABLE_STATUS
//   - WIKISNP_LOGGING_LEVEL, WIKISNP_LOGGING_DEV
//   - WIKISNP_METRICS_TEXTFILE_PATH
package config
