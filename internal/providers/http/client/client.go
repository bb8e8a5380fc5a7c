package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/GriffinCanCode/wikisnp/internal/logging"
	"github.com/GriffinCanCode/wikisnp/internal/providers/http/cache"
)

// Client wraps resty with rate limiting and response caching
type Client struct {
	Resty   *resty.Client
	Limiter *rate.Limiter
	Cache   *cache.Store // nil disables caching

	cacheable map[int]bool
	logger    *logging.Logger
	now       func() time.Time
}

// NewClient creates an HTTP client. store may be nil.
func NewClient(cfg Config, store *cache.Store, logger *logging.Logger) *Client {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logger.Named("fetch")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = cfg.MaxRetries
	retryClient.RetryWaitMin = cfg.RetryWaitMin
	retryClient.RetryWaitMax = cfg.RetryWaitMax
	retryClient.Logger = leveledLogger{logger.Sugar()}
	// Hand the last response back instead of a "giving up" error so that
	// 5xx statuses can fall back to the cache.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	restyClient := resty.NewWithClient(retryClient.StandardClient())
	restyClient.
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	cacheable := make(map[int]bool, len(cfg.CacheableStatus))
	for _, status := range cfg.CacheableStatus {
		cacheable[status] = true
	}

	return &Client{
		Resty:     restyClient,
		Limiter:   newLimiter(cfg.RateLimit),
		Cache:     store,
		cacheable: cacheable,
		logger:    logger,
		now:       time.Now,
	}
}

func newLimiter(rps float64) *rate.Limiter {
	if rps <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(rps), burst)
}

// Fetch returns the body at url. Statuses of 400 and above, whether from the
// network or the cache, are reported as ErrFetch.
func (c *Client) Fetch(ctx context.Context, url string) (*Response, error) {
	cached := c.lookup(url)
	if cached != nil && cached.Fresh(c.now()) {
		c.logger.Debug("Serving fresh cache entry", zap.String("url", url))
		return checkStatus(fromEntry(cached, SourceCache))
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %w", ErrFetch, err)
	}

	req := c.Resty.R().SetContext(ctx)
	if cached != nil {
		if cached.ETag != "" {
			req.SetHeader("If-None-Match", cached.ETag)
		}
		if cached.LastModified != "" {
			req.SetHeader("If-Modified-Since", cached.LastModified)
		}
	}

	resp, err := req.Get(url)
	if err != nil {
		if cached != nil && ctx.Err() == nil {
			c.logger.Warn("Request failed, serving stale cache entry",
				zap.String("url", url), zap.Error(err))
			return checkStatus(fromEntry(cached, SourceStale))
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrFetch, url, err)
	}

	status := resp.StatusCode()
	switch {
	case status == http.StatusNotModified && cached != nil:
		c.revalidate(cached, resp.Header())
		return checkStatus(fromEntry(cached, SourceRevalidated))
	case status >= http.StatusInternalServerError && cached != nil:
		c.logger.Warn("Origin error, serving stale cache entry",
			zap.String("url", url), zap.Int("status", status))
		return checkStatus(fromEntry(cached, SourceStale))
	}

	fetched := &Response{
		URL:         url,
		Status:      status,
		ContentType: resp.Header().Get("Content-Type"),
		Body:        resp.Body(),
		Source:      SourceNetwork,
	}
	c.store(fetched, resp.Header())

	c.logger.Debug("Fetched page",
		zap.String("url", url),
		zap.Int("status", status),
		zap.Int("bytes", len(fetched.Body)),
		zap.Duration("elapsed", resp.Time()))
	return checkStatus(fetched)
}

func (c *Client) lookup(url string) *cache.Entry {
	if c.Cache == nil {
		return nil
	}
	entry, err := c.Cache.Get(url)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			c.logger.Warn("Ignoring unreadable cache entry", zap.String("url", url), zap.Error(err))
		}
		return nil
	}
	return entry
}

func (c *Client) store(resp *Response, header http.Header) {
	if c.Cache == nil || !c.cacheable[resp.Status] {
		return
	}
	maxAge, ok := cache.MaxAge(header.Get("Cache-Control"))
	if !ok {
		return
	}

	entry := &cache.Entry{
		URL:          resp.URL,
		Status:       resp.Status,
		ContentType:  resp.ContentType,
		ETag:         header.Get("ETag"),
		LastModified: header.Get("Last-Modified"),
		StoredAt:     c.now(),
		MaxAge:       maxAge,
		Body:         resp.Body,
	}
	if err := c.Cache.Put(entry); err != nil {
		c.logger.Warn("Failed to store cache entry", zap.String("url", resp.URL), zap.Error(err))
	}
}

// revalidate refreshes a cached entry after a 304
func (c *Client) revalidate(entry *cache.Entry, header http.Header) {
	entry.StoredAt = c.now()
	if maxAge, ok := cache.MaxAge(header.Get("Cache-Control")); ok {
		entry.MaxAge = maxAge
	}
	if etag := header.Get("ETag"); etag != "" {
		entry.ETag = etag
	}
	if lastModified := header.Get("Last-Modified"); lastModified != "" {
		entry.LastModified = lastModified
	}
	if err := c.Cache.Put(entry); err != nil {
		c.logger.Warn("Failed to refresh cache entry", zap.String("url", entry.URL), zap.Error(err))
	}
}

func fromEntry(entry *cache.Entry, source Source) *Response {
	return &Response{
		URL:         entry.URL,
		Status:      entry.Status,
		ContentType: entry.ContentType,
		Body:        entry.Body,
		Source:      source,
	}
}

func checkStatus(resp *Response) (*Response, error) {
	if resp.Status >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s: status %d", ErrFetch, resp.URL, resp.Status)
	}
	return resp, nil
}

// leveledLogger routes retryablehttp's logging through zap
type leveledLogger struct {
	*zap.SugaredLogger
}

func (l leveledLogger) Error(msg string, keysAndValues ...interface{}) {
	l.Errorw(msg, keysAndValues...)
}

func (l leveledLogger) Info(msg string, keysAndValues ...interface{}) {
	l.Infow(msg, keysAndValues...)
}

func (l leveledLogger) Debug(msg string, keysAndValues ...interface{}) {
	l.Debugw(msg, keysAndValues...)
}

func (l leveledLogger) Warn(msg string, keysAndValues ...interface{}) {
	l.Warnw(msg, keysAndValues...)
}
