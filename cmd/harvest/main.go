// Package main rebuilds the canonical club and country dataset.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/minhqn/footfeed/internal/config"
	"github.com/minhqn/footfeed/internal/dataset"
	"github.com/minhqn/footfeed/internal/fetch"
	"github.com/minhqn/footfeed/internal/logging"
)

func main() {
	cfgPath := flag.String("config", "", "Path to config file")
	clubsOnly := flag.Bool("clubs-only", false, "Skip the FIFA ranking countries")
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

	harvester := dataset.NewHarvester(client, dataset.HarvesterConfig{
		StandingsURL:   cfg.Upstream.StandingsURL,
		FIFARankingURL: cfg.Upstream.FIFARankingURL,
		BaseURL:        cfg.Upstream.ClubBaseURL,
		PageDelay:      cfg.HarvestDelay(),
	}, logger.Named("harvest"))

	links, err := harvester.LeagueLinks(ctx)
	if err != nil {
		logger.Fatal("league links failed", zap.Error(err))
	}
	logger.Info("league pages found", zap.Int("count", len(links)))

	entities, err := harvester.HarvestClubs(ctx, links)
	if err != nil {
		logger.Fatal("club harvest failed", zap.Error(err))
	}
	logger.Info("clubs harvested", zap.Int("count", len(entities)))

	if !*clubsOnly {
		countries, err := harvester.HarvestCountries(ctx)
		if err != nil {
			logger.Fatal("country harvest failed", zap.Error(err))
		}
		logger.Info("countries harvested", zap.Int("count", len(countries)))
		entities = append(entities, countries...)
	}

	if err := dataset.Merge(cfg.Dataset.Path, entities); err != nil {
		logger.Fatal("dataset merge failed", zap.Error(err))
	}
	logger.Info("dataset updated", zap.String("path", cfg.Dataset.Path))
}
