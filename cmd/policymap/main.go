package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"
	"policymap/internal/amqp"
	"policymap/internal/backend"
	"policymap/internal/cache"
	"policymap/internal/cli"
	apphttp "policymap/internal/http"
	"policymap/internal/log"
	"policymap/internal/metrics"
	"policymap/internal/services"
	"policymap/internal/worker"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	cfg := cli.MustLoadConfig()
	logger := cli.SetupLogger(cfg.LogLevel)

	ctx, stop := cli.SignalContext(context.Background(), logger)
	defer stop()

	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	source, err := backend.NewFactory(logger.WithComponent(log.ComponentBackend).Logger).CreateBackend(ctx, backendCfg)
	if err != nil {
		logger.Error("Failed to initialize bill source", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	defer source.Close()

	reg := metrics.NewRegistry()
	m := metrics.New(reg)

	searchCache := cache.NewLRUCache[[]string](cfg.SearchCacheSize, cfg.SearchCacheTTL)
	caches := cache.NewManager()
	caches.Register(searchCache)
	caches.Start(ctx, cfg.SearchCacheTTL)
	defer caches.Stop()

	opts := []services.CatalogOption{
		services.WithSearchCache(searchCache),
		services.WithMetrics(m),
		services.WithReloadTimeout(cfg.LoadTimeout),
	}

	var broker *amqp.Client
	if cfg.AMQPEnabled() {
		broker, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer broker.Close()
		opts = append(opts, services.WithNotifier(worker.NewReloadNotifier(broker)))
		logger.Info("AMQP enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - reloads only via POST /api/reload")
	}

	catalog := services.NewCatalog(source.Reader, opts...)

	loadCtx, cancelLoad := context.WithTimeout(ctx, cfg.LoadTimeout)
	snap, err := catalog.Reload(loadCtx)
	cancelLoad()
	if err != nil {
		logger.Error("Initial catalog load failed", log.FieldOperation, log.OpStartup, "error", err)
		os.Exit(1)
	}

	srv := apphttp.NewServer(":"+cfg.Port, catalog, apphttp.Options{
		Logger:             logger,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		ReloadTimeout:      cfg.LoadTimeout,
		Metrics:            metrics.Handler(reg),
	})

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Starting policymap server",
			"port", cfg.Port,
			"backend", cfg.DataBackend,
			"source", snap.Source,
			"states", len(snap.Summaries))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldOperation, log.OpShutdown, "error", err)
		}
		return nil
	})

	if broker != nil {
		reloads := worker.NewReloadWorker(catalog, cfg.LoadTimeout)
		g.Go(func() error {
			err := broker.ConsumeReloadRequests(gctx, reloads.HandleReloadMessage)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully")
}
