package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"ngkeys-go/packages/keys/src/config"
	"ngkeys-go/packages/keys/src/keys_builder"
	"ngkeys-go/packages/keys/src/keys_builder/registry"
)

// pipeline runs extractions with a fixed configuration
type pipeline struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *keys_builder.Metrics
	// registry receives every key besides the result map. It may be nil.
	registry registry.KeyRegistry
	store    *registry.SQLiteRegistry
	tracing  *tracing

	// mu serializes runs started by file events and by the schedule
	mu sync.Mutex
}

func newPipeline(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	t, err := newTracing(ctx, cfg.Tracing)
	if err != nil {
		return nil, err
	}
	p := &pipeline{cfg: cfg, logger: logger, tracing: t}
	if cfg.Store != "" {
		store, err := registry.NewSQLiteRegistry(cfg.Store)
		if err != nil {
			t.Shutdown()
			return nil, fmt.Errorf("failed to open key store: %w", err)
		}
		p.store = store
		p.registry = store
	}
	return p, nil
}

func (p *pipeline) close() error {
	if err := p.tracing.Shutdown(); err != nil {
		p.logger.Warn("failed to flush traces", "error", err)
	}
	if p.store == nil {
		return nil
	}
	return p.store.Close()
}

func (p *pipeline) extract(ctx context.Context) (*keys_builder.Result, error) {
	if p.store != nil {
		runID, err := p.store.BeginRun(ctx)
		if err != nil {
			return nil, err
		}
		p.logger.Debug("started store run", "store_run_id", runID)
	}

	result, err := keys_builder.BuildKeys(ctx, keys_builder.Options{
		Input:        p.cfg.Input,
		Scopes:       p.cfg.ScopeSet(),
		DefaultValue: p.cfg.DefaultValue,
		Marker:       p.cfg.Marker,
		Pipe:         p.cfg.Pipe,
		Concurrency:  p.cfg.Concurrency,
		Registry:     p.registry,
		Metrics:      p.metrics,
		Logger:       p.logger,
		Tracer:       p.tracing.tracer,
	})
	if err != nil {
		return nil, err
	}

	if p.store != nil {
		if err := p.store.FinishRun(ctx, result.Files, result.Keys.Len()); err != nil {
			return nil, err
		}
		stale, err := p.store.Stale(ctx)
		if err != nil {
			return nil, err
		}
		for _, entry := range stale {
			p.logger.Info("key no longer used", "scope", entry.ScopePath, "key", entry.Key)
		}
	}
	return result, nil
}
