package commands

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/wikisnp/internal/app"
	"github.com/GriffinCanCode/wikisnp/internal/infrastructure/config"
	"github.com/GriffinCanCode/wikisnp/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/wikisnp/internal/logging"
	"github.com/GriffinCanCode/wikisnp/internal/providers/http/cache"
	"github.com/GriffinCanCode/wikisnp/internal/providers/http/client"
	"github.com/GriffinCanCode/wikisnp/internal/shared/id"
	"github.com/GriffinCanCode/wikisnp/internal/shared/paths"
)

// environment holds everything a fetching command needs
type environment struct {
	cfg     *config.Config
	logger  *logging.Logger
	metrics *monitoring.Metrics
	store   *cache.Store
	runner  *app.Runner
}

func setup(opts *options) (*environment, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	if cfg.Logging.Development {
		logCfg = logging.DevelopmentConfig()
	}
	logCfg.Level = cfg.Logging.Level
	baseLogger, err := logging.New(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger := baseLogger.WithRun(id.NewRunID().String())

	var store *cache.Store
	if cfg.Cache.Enabled {
		store, err = cache.NewStore(cfg.Cache.Dir)
		if err != nil {
			// A broken cache directory only costs us the cache.
			logger.Warn("Response cache disabled", zap.String("dir", cfg.Cache.Dir), zap.Error(err))
			store = nil
		}
	}

	fetcher := client.NewClient(client.Config{
		Timeout:         cfg.Fetch.Timeout.Std(),
		UserAgent:       cfg.Fetch.UserAgent,
		MaxRetries:      cfg.Fetch.MaxRetries,
		RetryWaitMin:    cfg.Fetch.RetryWaitMin.Std(),
		RetryWaitMax:    cfg.Fetch.RetryWaitMax.Std(),
		RateLimit:       cfg.Fetch.RateLimit,
		CacheableStatus: cfg.Cache.CacheableStatus,
	}, store, logger)

	metrics := monitoring.NewMetrics()

	return &environment{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		store:   store,
		runner:  app.NewRunner(fetcher, logger, metrics),
	}, nil
}

func loadConfig(opts *options) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = paths.DefaultConfigFile()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	overrides := config.Config{
		Logging: config.LogConfig{Level: opts.logLevel, Development: opts.development},
		Metrics: config.MetricsConfig{TextfilePath: opts.metricsFile},
	}
	if err := cfg.Override(overrides); err != nil {
		return nil, err
	}
	if opts.noCache {
		cfg.Cache.Enabled = false
	}
	return cfg, nil
}

// close flushes metrics and releases resources, folding any failure into
// the command result.
func (e *environment) close(runErr error) error {
	var errs []error
	errs = append(errs, runErr)

	if path := e.cfg.Metrics.TextfilePath; path != "" {
		if err := e.metrics.WriteTextfile(path); err != nil {
			errs = append(errs, fmt.Errorf("writing metrics: %w", err))
		}
	}
	if e.store != nil {
		if err := e.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing cache: %w", err))
		}
	}
	_ = e.logger.Sync()

	return errors.Join(errs...)
}
