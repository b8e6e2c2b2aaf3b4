// Package main runs the football feed HTTP service.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc"
	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/api"
	"github.com/minhqn/footfeed/internal/config"
	"github.com/minhqn/footfeed/internal/fetch"
	"github.com/minhqn/footfeed/internal/logging"
	"github.com/minhqn/footfeed/internal/metrics"
	"github.com/minhqn/footfeed/internal/orchestrate"
	"github.com/minhqn/footfeed/internal/scrape"
	"github.com/minhqn/footfeed/internal/timeparse"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}
	logger, err := logging.New(cfg.Logging.Development)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger init failed: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if syncErr := logger.Sync(); syncErr != nil {
			fmt.Fprintf(os.Stderr, "logger sync failed: %v\n", syncErr)
		}
	}()
	zap.ReplaceGlobals(logger)
	metrics.Init()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := fetch.New(fetch.Config{
		UserAgent: cfg.Fetch.UserAgent,
		Timeout:   cfg.FetchTimeout(),
		Retry: fetch.FixedDelayPolicy{
			Attempts: cfg.Fetch.RetryAttempts,
			Wait:     cfg.RetryDelay(),
		},
	}, logger.Named("fetch"))
	if err != nil {
		logger.Fatal("fetcher init failed", zap.Error(err))
	}

	norm, err := timeparse.New(cfg.Time.SourceZone, logger.Named("timeparse"))
	if err != nil {
		logger.Fatal("timezone init failed", zap.Error(err))
	}

	pool, err := ants.NewPool(cfg.Batch.PoolSize)
	if err != nil {
		logger.Fatal("worker pool init failed", zap.Error(err))
	}
	defer pool.Release()

	scraper := scrape.NewScraper(norm, logger.Named("scrape"))
	orch := orchestrate.New(client, scraper, pool, cfg.Upstream, cfg.Time.DisplayZone, logger.Named("orchestrate"))
	apiServer := api.NewServer(orch, cfg.Dataset.Path, logger.Named("api"))

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           apiServer.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	var wg conc.WaitGroup
	wg.Go(func() {
		logger.Info("http server started", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", zap.Error(err))
			stop()
		}
	})

	<-ctx.Done()
	logger.Info("shutdown initiated")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
	wg.Wait()
	logger.Info("shutdown complete")
}
