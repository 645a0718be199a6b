package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"esklenchen/server/config"
	"esklenchen/server/internal/api"
	"esklenchen/server/internal/geometry"
	"esklenchen/server/internal/leads"
	"esklenchen/server/internal/metrics"
	"esklenchen/server/internal/processor"
	"esklenchen/server/internal/queue"
	"esklenchen/server/internal/valuation"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	cfg, err := config.LoadConfig(".env")
	if err != nil {
		logger.WithError(err).Fatal("Failed to load configuration")
	}

	level, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.WithError(err).Fatal("Invalid log level")
	}
	logger.SetLevel(level)

	areas, err := config.LoadMarketAreas(cfg.MarketAreasPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load market areas")
	}
	locator, err := geometry.NewMarketLocator(areas, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build market locator")
	}

	store, err := leads.Open(cfg, logger)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open lead store")
	}
	defer store.Close()

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	leadQueue := queue.NewLeadQueue(cfg.Leads.QueueSize, logger)
	leadProcessor := processor.NewLeadProcessor(store, leadQueue, cfg, m, logger)
	leadProcessor.Start()
	leadQueue.Start()

	scorer := valuation.NewScorer(valuation.GlobalSource(), time.Now)
	handler := api.NewHandler(cfg, scorer, locator, leadQueue, store, m, logger)

	router := api.NewRouter(handler, registry)
	api.SetupMarketRoutes(router, areas)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	distDir, _ := filepath.Abs(cfg.Server.DistDir)
	logger.WithFields(logrus.Fields{
		"port":     cfg.Server.Port,
		"dist_dir": distDir,
		"markets":  locator.Areas(),
		"store":    cfg.Leads.Store,
	}).Info("ESKLENCHEN server starting")
	if _, err := os.Stat(filepath.Join(distDir, "index.html")); err != nil {
		logger.Warn("Frontend bundle not found, the fallback page will be served")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Infof("Listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		err := server.Shutdown(shutdownCtx)

		// Pending leads are flushed before the store is closed.
		if cerr := leadQueue.Close(); cerr != nil {
			logger.WithError(cerr).Warn("Failed to close lead queue")
		}
		leadQueue.Wait()
		leadProcessor.Stop()
		return err
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Server stopped with error")
		store.Close()
		os.Exit(1)
	}
	logger.Info("Server stopped")
}
