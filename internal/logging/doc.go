// Package logging provides structured logging using uber/zap.
//
// Two modes are available:
//   - Production: JSON lines for machine parsing
//   - Development: Colored console output with caller information
//
// All output goes to stderr so that a scraped document written to stdout
// stays clean. Each run attaches its identifier with WithRun.
//
// Example Usage:
//
//	base, err := logging.New(logging.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	logger := base.WithRun(id.NewRunID().String())
//	logger.Info("Fetched page", zap.String("url", url))
//	logger.Error("Scrape failed", zap.Error(err))
package logging
