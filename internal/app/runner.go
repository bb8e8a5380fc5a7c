package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/wikisnp/internal/codec"
	"github.com/GriffinCanCode/wikisnp/internal/domain/index"
	"github.com/GriffinCanCode/wikisnp/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wikisnp/internal/logging"
	"github.com/GriffinCanCode/wikisnp/internal/providers/http/client"
	"github.com/GriffinCanCode/wikisnp/internal/providers/scraper"
	"github.com/GriffinCanCode/wikisnp/internal/shared/paths"
)

var (
	ErrNotHTML       = errors.New("fetched document is not HTML")
	ErrUnknownFormat = errors.New("unknown output format")
)

// Fetcher retrieves a page body
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*client.Response, error)
}

// Format selects the output encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// ParseFormat validates a format name. The empty string means YAML.
func ParseFormat(name string) (Format, error) {
	switch Format(strings.ToLower(name)) {
	case "", FormatYAML:
		return FormatYAML, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Runner performs scrape runs
type Runner struct {
	Fetcher Fetcher
	Parser  *scraper.Parser
	Metrics *monitoring.Metrics // optional
	Logger  *logging.Logger
	Stdout  io.Writer
}

// NewRunner creates a runner with the default parser writing to os.Stdout
func NewRunner(fetcher Fetcher, logger *logging.Logger, metrics *monitoring.Metrics) *Runner {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		Fetcher: fetcher,
		Parser:  scraper.NewParser(),
		Metrics: metrics,
		Logger:  logger,
		Stdout:  os.Stdout,
	}
}

// Run scrapes url and writes the result to out ("" for stdout), recording
// the outcome in the metrics.
func (r *Runner) Run(ctx context.Context, url, out string, format Format) error {
	err := r.run(ctx, url, out, format)
	if r.Metrics != nil {
		r.Metrics.RecordRun(err, time.Now())
	}
	return err
}

func (r *Runner) run(ctx context.Context, url, out string, format Format) error {
	idx, err := r.Scrape(ctx, url)
	if err != nil {
		return err
	}
	return r.Write(idx, out, format)
}

// Scrape fetches url and parses the index from it
func (r *Runner) Scrape(ctx context.Context, url string) (*index.Index, error) {
	resp, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	timer := monitoring.NewTimer(r.Metrics, "parse")
	doc, err := scraper.LoadHTML(resp.Body, resp.ContentType)
	var idx *index.Index
	if err == nil {
		idx, err = r.Parser.ParseDocument(doc)
	}
	elapsed := timer.Stop(err)
	if err != nil {
		r.Logger.Error("Failed to parse page", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("parsing %s: %w", url, err)
	}

	if r.Metrics != nil {
		r.Metrics.RecordParse(len(idx.Components), len(idx.Diffs))
	}
	page := scraper.DescribePage(doc)
	r.Logger.Info("Parsed index",
		zap.String("url", url),
		zap.String("title", page.Title),
		zap.String("modified", page.Modified),
		zap.Int("components", len(idx.Components)),
		zap.Int("diffs", len(idx.Diffs)),
		zap.Duration("elapsed", elapsed))
	return idx, nil
}

// Inspection describes a page without parsing it
type Inspection struct {
	Page   scraper.PageInfo
	Tables []scraper.TableSummary
}

// Inspect fetches url and summarises the page and every table on it
func (r *Runner) Inspect(ctx context.Context, url string) (*Inspection, error) {
	resp, err := r.fetch(ctx, url)
	if err != nil {
		return nil, err
	}

	doc, err := scraper.LoadHTML(resp.Body, resp.ContentType)
	if err != nil {
		return nil, err
	}
	tables, err := scraper.DescribeTables(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Inspection{Page: scraper.DescribePage(doc), Tables: tables}, nil
}

// fetch retrieves url and rejects bodies that are not HTML
func (r *Runner) fetch(ctx context.Context, url string) (*client.Response, error) {
	timer := monitoring.NewTimer(r.Metrics, "fetch")
	resp, err := r.Fetcher.Fetch(ctx, url)
	if err == nil {
		err = checkHTML(resp.Body)
	}
	elapsed := timer.Stop(err)
	if err != nil {
		r.Logger.Error("Failed to fetch page", zap.String("url", url), zap.Error(err))
		return nil, err
	}

	if r.Metrics != nil {
		r.Metrics.RecordFetch(string(resp.Source), elapsed, len(resp.Body))
	}
	r.Logger.Info("Fetched page",
		zap.String("url", url),
		zap.String("source", string(resp.Source)),
		zap.Int("bytes", len(resp.Body)),
		zap.Duration("elapsed", elapsed))
	return resp, nil
}

func checkHTML(body []byte) error {
	mtype := mimetype.Detect(body)
	if !mtype.Is("text/html") {
		return fmt.Errorf("%w: detected %s", ErrNotHTML, mtype.String())
	}
	return nil
}

// Write encodes idx and writes it to out, or to Stdout when out is empty.
// Files are replaced atomically.
func (r *Runner) Write(idx *index.Index, out string, format Format) error {
	timer := monitoring.NewTimer(r.Metrics, "write")

	data, err := encode(idx, format)
	if err == nil {
		if out == "" {
			_, err = r.Stdout.Write(data)
		} else if err = paths.ValidateOutputPath(out); err == nil {
			err = paths.WriteFileAtomic(out, data, 0o644)
		}
	}

	timer.Stop(err)
	if err != nil {
		return fmt.Errorf("writing index: %w", err)
	}

	if out != "" {
		r.Logger.Info("Wrote index", zap.String("path", out), zap.String("format", string(format)))
	}
	return nil
}

func encode(idx *index.Index, format Format) ([]byte, error) {
	switch format {
	case FormatYAML, "":
		return codec.Marshal(idx)
	case FormatJSON:
		data, err := codec.MarshalJSON(idx)
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
