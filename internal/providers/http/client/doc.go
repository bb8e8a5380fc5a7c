// Package client fetches pages over HTTP with an optional on-disk cache.
//
// Built on go-resty/resty over a hashicorp/go-retryablehttp transport:
//   - Transport-level retries with exponential backoff on connection errors,
//     429 and 5xx responses
//   - Per-client rate limiting via golang.org/x/time/rate
//   - Context-based cancellation
//
// Cache behaviour, when a cache.Store is attached:
//   - Fresh entries (Cache-Control max-age) are served without a request
//   - Stale entries are revalidated with If-None-Match / If-Modified-Since
//   - A failed request or 5xx response falls back to the stale entry
//   - Only configured status codes are stored
//
// Example Usage:
//
//	store, _ := cache.NewStore(dir)
//	c := client.NewClient(client.DefaultConfig(), store, logger)
//	resp, err := c.Fetch(ctx, url)
package client
