// Package cache stores fetched HTTP responses on disk.
//
// Each entry is two files named after the SHA-256 of the request URL:
//   - <key>.json: metadata (status, validators, storage time, max-age)
//   - <key>.zst: the response body, zstd-compressed
//
// Entries are written through a temporary file and renamed into place, so a
// crashed write never leaves a half-written entry behind. The store makes no
// freshness decisions itself; see Entry.Fresh and the client package.
package cache
