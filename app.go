package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"newsdash/config"
	"newsdash/orchestrator"
	"newsdash/rssfeeds"
	"newsdash/shared/kafka"
	"newsdash/storage"
)

// app bundles the collaborators every local command needs.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	store    *storage.Store
	ingester *rssfeeds.Ingester
	closers  []func() error
}

// newApp loads configuration, opens the store and assembles the ingestion
// pipeline with its optional archive and event hooks.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	logger := cfg.NewLogger()
	slog.SetDefault(logger)

	store, err := storage.Open(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, logger: logger, store: store}
	a.closers = append(a.closers, store.Close)

	hooks, err := a.hooks(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}

	extractorOpts := []rssfeeds.ExtractorOption{
		rssfeeds.WithHostInterval(cfg.Fetch.HostInterval),
		rssfeeds.WithExtractorLogger(logger),
	}
	if cfg.Fetch.RespectRobots {
		robots := rssfeeds.NewRobotsChecker(&http.Client{Timeout: config.FetchTimeout}, config.UserAgent)
		extractorOpts = append(extractorOpts, rssfeeds.WithRobots(robots))
	}

	a.ingester = rssfeeds.NewIngester(
		store,
		rssfeeds.NewFeedFetcher(nil, cfg.Fetch.MaxItems),
		rssfeeds.NewExtractor(nil, extractorOpts...),
		rssfeeds.WithSourceDelay(cfg.Fetch.SourceDelay),
		rssfeeds.WithHooks(hooks...),
		rssfeeds.WithLogger(logger),
	)
	return a, nil
}

func (a *app) hooks(ctx context.Context) ([]rssfeeds.ArticleHook, error) {
	var hooks []rssfeeds.ArticleHook

	if a.cfg.S3.Bucket != "" {
		archive, err := storage.NewS3Archive(ctx, a.cfg.S3)
		if err != nil {
			return nil, err
		}
		hooks = append(hooks, archive)
		a.logger.Info("Archiving articles to S3", "bucket", a.cfg.S3.Bucket, "prefix", a.cfg.S3.Prefix)
	}

	if len(a.cfg.Kafka.Brokers) > 0 && a.cfg.Kafka.EventsTopic != "" {
		publisher, err := kafka.NewPublisher(a.cfg.Kafka.Brokers, a.cfg.Kafka.EventsTopic)
		if err != nil {
			return nil, fmt.Errorf("failed to create kafka publisher: %w", err)
		}
		hooks = append(hooks, publisher)
		a.closers = append(a.closers, publisher.Close)
		a.logger.Info("Publishing article events", "topic", a.cfg.Kafka.EventsTopic)
	}
	return hooks, nil
}

// guard returns the Redis run lock when configured, the in-process one otherwise.
func (a *app) guard(ctx context.Context) (orchestrator.RunGuard, error) {
	if a.cfg.Redis.Addr == "" {
		return orchestrator.NewLocalGuard(), nil
	}
	g, err := orchestrator.NewRedisGuard(ctx, a.cfg.Redis)
	if err != nil {
		return nil, err
	}
	g.WithLogger(a.logger)
	a.closers = append(a.closers, g.Close)
	a.logger.Info("Using Redis run lock", "addr", a.cfg.Redis.Addr)
	return g, nil
}

// oneShot returns a scheduler with no cron job or startup run, for commands
// that fetch once under the shared run guard.
func (a *app) oneShot(ctx context.Context) (*orchestrator.Scheduler, error) {
	guard, err := a.guard(ctx)
	if err != nil {
		return nil, err
	}
	return orchestrator.New(a.ingester,
		orchestrator.WithGuard(guard),
		orchestrator.WithSchedule(""),
		orchestrator.WithStartupDelay(-1),
		orchestrator.WithLogger(a.logger),
	), nil
}

// Close releases resources in reverse order of acquisition.
func (a *app) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
