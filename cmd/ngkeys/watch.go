package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"ngkeys-go/packages/keys/src/keys_builder"
	"ngkeys-go/packages/keys/src/keys_builder/registry"
	"ngkeys-go/packages/keys/src/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Extract keys again whenever a template changes",
	Long: `Watch runs extract once, then again after every burst of template
changes. With watch.schedule set, a full extraction also runs on that
cron schedule. With metrics.address set, Prometheus metrics are served on
/metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := commandConfig(cmd)
		if err != nil {
			return err
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := newLogger(cfg)
		p, err := newPipeline(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer p.close()

		promRegistry := prometheus.NewRegistry()
		promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		p.metrics = keys_builder.NewMetrics(promRegistry)
		inner := registry.Discard
		if p.store != nil {
			inner = p.store
		}
		p.registry = registry.NewMeteredRegistry(inner, promRegistry)

		if cfg.Metrics.Address != "" {
			server := &http.Server{
				Addr:              cfg.Metrics.Address,
				Handler:           metricsHandler(promRegistry),
				ReadHeaderTimeout: 5 * time.Second,
			}
			go func() {
				logger.Info("serving metrics", "address", cfg.Metrics.Address)
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("metrics server failed", "error", err)
				}
			}()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				server.Shutdown(shutdownCtx)
			}()
		}

		out := cmd.OutOrStdout()
		if err := p.extractAndWrite(ctx, out); err != nil {
			return err
		}

		if cfg.Watch.Schedule != "" {
			scheduler, err := scheduleExtraction(ctx, p, out)
			if err != nil {
				return err
			}
			scheduler.Start()
			defer func() {
				<-scheduler.Stop().Done()
			}()
		}

		w, err := watcher.New(watcher.Config{
			Paths:    cfg.Input,
			Debounce: cfg.Watch.Debounce,
			Match:    keys_builder.IsTemplateSource,
		}, logger)
		if err != nil {
			return err
		}
		return w.Watch(ctx, func(ctx context.Context, paths []string) error {
			logger.Info("templates changed", "files", len(paths))
			return p.extractAndWrite(ctx, out)
		})
	},
}

// scheduleExtraction returns a cron scheduler running full extractions on
// the configured schedule. It is not started.
func scheduleExtraction(ctx context.Context, p *pipeline, out io.Writer) (*cron.Cron, error) {
	scheduler := cron.New()
	_, err := scheduler.AddFunc(p.cfg.Watch.Schedule, func() {
		p.logger.Info("starting scheduled extraction")
		if err := p.extractAndWrite(ctx, out); err != nil {
			p.logger.Error("scheduled extraction failed", "error", err)
		}
	})
	if err != nil {
		return nil, fmt.Errorf("invalid cron schedule %q: %w", p.cfg.Watch.Schedule, err)
	}
	p.logger.Info("extraction scheduled", "schedule", p.cfg.Watch.Schedule)
	return scheduler, nil
}

func metricsHandler(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	return mux
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
