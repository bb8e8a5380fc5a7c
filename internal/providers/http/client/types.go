package client

import (
	"errors"
	"time"
)

var ErrFetch = errors.New("fetch failed")

// Source tells where a response body came from
type Source string

const (
	SourceNetwork     Source = "network"
	SourceCache       Source = "cache"
	SourceRevalidated Source = "revalidated"
	SourceStale       Source = "stale"
)

// Response is a fetched page
type Response struct {
	URL         string
	Status      int
	ContentType string
	Body        []byte
	Source      Source
}

// Config defines client behavior
type Config struct {
	Timeout         time.Duration
	UserAgent       string
	MaxRetries      int
	RetryWaitMin    time.Duration
	RetryWaitMax    time.Duration
	RateLimit       float64 // requests per second, 0 = unlimited
	CacheableStatus []int
}

// DefaultConfig returns the settings used by the command line tool
func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		UserAgent:       "wikisnp/1.0 (+https://github.com/GriffinCanCode/wikisnp)",
		MaxRetries:      3,
		RetryWaitMin:    1 * time.Second,
		RetryWaitMax:    30 * time.Second,
		CacheableStatus: []int{200, 400},
	}
}
