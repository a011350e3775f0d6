package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio-sim/internal/api/handlers"
	"portfolio-sim/internal/api/middleware"
	"portfolio-sim/internal/config"
	"portfolio-sim/internal/data"
	"portfolio-sim/internal/simulation"
)

func main() {
	cfgPath := os.Getenv("CONFIG_FILE")
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Data.FREDAPIKey == "" {
		log.Printf("FRED_API_KEY is not set; bond and hybrid simulations will fail until it is")
	}

	// Shared caches. The run store holds finished simulations for re-serving
	// by id; search results age out more slowly than price data.
	memCache := data.NewCache(cfg.Data.CacheTTL.Std())
	searchCache := data.NewCache(cfg.Data.SearchCacheTTL.Std())
	runStore := data.NewCache(30 * time.Minute)

	fred := data.NewFREDClient(cfg.Data.FREDAPIKey, cfg.Data.FREDBaseURL)
	fred.SeriesID = cfg.Data.FREDSeriesID
	fred.Mem = memCache
	fred.Disk = data.NewDiskCache(filepath.Join(cfg.Data.CacheDir, "bond_data"))

	quotes := data.NewQuoteClient(cfg.Data.QuotesBaseURL)
	quotes.Mem = memCache
	quotes.SearchCache = searchCache
	quotes.Disk = data.NewDiskCache(filepath.Join(cfg.Data.CacheDir, "stock_data"))

	orch := buildOrchestrator(cfg, quotes, fred, memCache)

	if os.Getenv("API_ENV") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(middleware.CORS())
	router.Use(middleware.Logger())
	router.Use(middleware.ErrorHandler())

	simHandler := handlers.NewSimulationHandler(cfg, orch, runStore)
	tickerHandler := handlers.NewTickerHandler(quotes)
	cacheHandler := handlers.NewCacheHandler(
		data.NewDiskCache(cfg.Data.CacheDir),
		memCache, searchCache, runStore,
	)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := router.Group("/api/v1")
	{
		api.GET("/simulate", simHandler.RunSimulations)
		api.GET("/simulate/:id", simHandler.GetRun)
		api.GET("/simulations", simHandler.ListSimulations)
		api.GET("/rank", simHandler.Rank)

		api.GET("/search_tickers", tickerHandler.SearchTickers)
		api.GET("/rates/series", tickerHandler.ListRateSeries)

		api.POST("/cache/clear", cacheHandler.ClearCaches)
		api.POST("/cache/purge-disk", cacheHandler.PurgeDisk)
	}

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Starting API server on %s", addr)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func buildOrchestrator(cfg *config.Config, quotes *data.QuoteClient, fred *data.FREDClient, accounts *data.Cache) *simulation.Orchestrator {
	ladder := simulation.NewBondLadderSimulator(fred)
	ladder.PurchaseIncrement = cfg.Simulation.BondIncrement
	ladder.TermMonths = cfg.Simulation.BondTermMonths

	hybrid := simulation.NewHybridSimulator(quotes, fred, rand.New(rand.NewSource(time.Now().UnixNano())))
	hybrid.PurchaseIncrement = cfg.Simulation.BondIncrement
	hybrid.TermMonths = cfg.Simulation.BondTermMonths
	hybrid.StrikeFactorMin = cfg.Simulation.StrikeMin
	hybrid.StrikeFactorMax = cfg.Simulation.StrikeMax

	return simulation.NewOrchestrator(
		simulation.NewDCASimulator(quotes, accounts),
		ladder,
		hybrid,
		simulation.NewSavingsSimulator(),
	)
}
