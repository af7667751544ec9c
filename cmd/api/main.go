package main

import (
	"log"

	"github.com/redis/go-redis/v9"

	"github.com/jessmcelvoysemen/house-flip-analyzer/config"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/census"
	cronjob "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/cron"
	analysishttp "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/http"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/market"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/service"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/bootstrap"
)

const serviceName = "house-flip-analyzer"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	var redisClient *redis.Client
	var store census.SnapshotStore = census.NewMemoryStore()
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		store = census.NewRedisStore(redisClient)
		log.Printf("Using redis snapshot store at %s", cfg.Redis.Addr)
	}

	censusClient := census.NewClient(cfg.Census.BaseURL, cfg.Census.Year)
	demoFetcher := census.NewFetcher(censusClient, store, cfg.Census.TTL)

	marketClient := market.NewClient(cfg.Listings.APIKey, cfg.Listings.APIHost, cfg.Listings.BaseURL)
	marketFetcher := market.NewFetcher(marketClient, market.FetchConfig{
		MaxConcurrent:  cfg.Listings.MaxConcurrent,
		MaxRetries:     cfg.Listings.MaxRetries,
		RequestsPerSec: cfg.Listings.RequestsPerSec,
	})

	analyzer := service.NewAnalyzer(demoFetcher, marketFetcher, service.Options{
		MaxMarketLookups: cfg.Analysis.MaxMarketLookups,
		Timeout:          cfg.Analysis.Timeout,
	})

	if cfg.Analysis.PrewarmCron {
		scheduler := cronjob.NewScheduler(demoFetcher)
		scheduler.Start()
		defer scheduler.Stop()
	}

	r := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName: serviceName,
		Version:     cfg.App.Version,
		Analyzer:    analyzer,
		Defaults: analysishttp.Defaults{
			PriceMin:         cfg.Analysis.DefaultPriceMin,
			PriceMax:         cfg.Analysis.DefaultPriceMax,
			MaxMarketLookups: cfg.Analysis.MaxMarketLookups,
		},
		Redis: redisClient,
	})

	log.Printf("listening on :%s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("server: %v", err)
	}
}
