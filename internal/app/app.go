// Package app wires configuration, storage, clients, and services into
// a single application core shared by the server binary and tests.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/foresight/internal/clients/finnhub"
	"github.com/bobmcallan/foresight/internal/clients/gemini"
	"github.com/bobmcallan/foresight/internal/clients/rss"
	"github.com/bobmcallan/foresight/internal/clients/scraper"
	"github.com/bobmcallan/foresight/internal/clients/twelvedata"
	"github.com/bobmcallan/foresight/internal/clients/wikipedia"
	"github.com/bobmcallan/foresight/internal/common"
	"github.com/bobmcallan/foresight/internal/interfaces"
	"github.com/bobmcallan/foresight/internal/services/analysis"
	"github.com/bobmcallan/foresight/internal/services/pipeline"
	"github.com/bobmcallan/foresight/internal/services/resolver"
	"github.com/bobmcallan/foresight/internal/storage/archive"
	"github.com/bobmcallan/foresight/internal/storage/surrealdb"
)

// App holds all initialized clients and services. It is the shared core
// used by cmd/foresight-server and by integration tests.
type App struct {
	Config          *common.Config
	Logger          *common.Logger
	Storage         interfaces.StorageManager
	FeedClient      interfaces.FeedClient
	ScraperClient   interfaces.ScraperClient
	GenAIClient     interfaces.GenAIClient
	AnalysisService interfaces.AnalysisService
	ResolverService interfaces.ResolverService
	PipelineService interfaces.PipelineService
	StartupTime     time.Time

	pollCancel context.CancelFunc
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes storage, clients, and services from configuration.
// configPath may be empty, in which case the default resolution logic
// is used: FORESIGHT_CONFIG, then foresight.toml next to the binary,
// then config/foresight.toml.
func NewApp(configPath string) (*App, error) {
	startupStart := time.Now()

	// Load version from .version file (fallback if ldflags not set)
	common.LoadVersionFromFile()

	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("FORESIGHT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "foresight.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/foresight.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger := common.NewLogger(config.Logging.Level, config.Logging.Format)

	// Initialize storage and seed the reference taxonomy on first start
	storageManager, err := surrealdb.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	ctx := context.Background()
	if err := storageManager.SeedReferenceData(ctx); err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to seed reference data: %w", err)
	}

	// Resolve API keys
	geminiKey, err := common.ResolveAPIKey("gemini_api_key", config.Clients.Gemini.APIKey)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("Gemini API key not configured: %w", err)
	}

	twelveDataKey, err := common.ResolveAPIKey("twelvedata_api_key", config.Clients.TwelveData.APIKey)
	if err != nil {
		logger.Warn().Msg("Twelve Data API key not configured - company resolution will be unavailable")
	}

	finnhubKey, err := common.ResolveAPIKey("finnhub_api_key", config.Clients.Finnhub.APIKey)
	if err != nil {
		logger.Warn().Msg("Finnhub API key not configured - company profiles will be skipped")
	}

	// Initialize API clients
	geminiClient, err := gemini.NewClient(ctx, geminiKey,
		gemini.WithLogger(logger),
		gemini.WithModel(config.Clients.Gemini.Model),
	)
	if err != nil {
		storageManager.Close()
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	feedClient := rss.NewClient(rss.WithLogger(logger))
	scraperClient := scraper.NewClient(scraper.WithLogger(logger))

	var searchClient interfaces.SymbolSearchClient
	if twelveDataKey != "" {
		searchClient = twelvedata.NewClient(twelveDataKey,
			twelvedata.WithLogger(logger),
			twelvedata.WithRateLimit(config.Clients.TwelveData.RateLimit),
			twelvedata.WithTimeout(config.Clients.TwelveData.GetTimeout()),
		)
	}

	var profileClient interfaces.ProfileClient
	if finnhubKey != "" {
		profileClient = finnhub.NewClient(finnhubKey,
			finnhub.WithLogger(logger),
			finnhub.WithTimeout(config.Clients.Finnhub.GetTimeout()),
		)
	}

	wikiClient := wikipedia.NewClient(wikipedia.WithLogger(logger))

	// Initialize services
	analysisService := analysis.NewService(geminiClient, storageManager.Reference(), logger)
	resolverService := resolver.NewService(
		searchClient,
		profileClient,
		wikiClient,
		analysisService,
		storageManager.Companies(),
		storageManager.Reference(),
		logger,
	)

	pipelineOpts := []pipeline.ServiceOption{
		pipeline.WithItemDelay(config.Pipeline.GetItemDelay()),
	}
	if config.Archive.Enabled {
		archivePath := config.Archive.Path
		if archivePath != "" && !filepath.IsAbs(archivePath) {
			archivePath = filepath.Join(binDir, archivePath)
		}
		archiveStore, err := archive.NewStore(archivePath, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize archive - continuing without it")
		} else {
			pipelineOpts = append(pipelineOpts, pipeline.WithArchive(archiveStore))
		}
	}

	pipelineService := pipeline.NewService(
		feedClient,
		scraperClient,
		geminiClient,
		analysisService,
		resolverService,
		storageManager,
		logger,
		pipelineOpts...,
	)

	a := &App{
		Config:          config,
		Logger:          logger,
		Storage:         storageManager,
		FeedClient:      feedClient,
		ScraperClient:   scraperClient,
		GenAIClient:     geminiClient,
		AnalysisService: analysisService,
		ResolverService: resolverService,
		PipelineService: pipelineService,
		StartupTime:     startupStart,
	}

	logger.Info().Dur("startup", time.Since(startupStart)).Msg("App initialized")

	return a, nil
}

// Close releases all resources held by the App.
// Shutdown order: cancel the poller, close storage.
func (a *App) Close() {
	if a.pollCancel != nil {
		a.pollCancel()
		a.pollCancel = nil
	}
	if a.Storage != nil {
		a.Storage.Close()
		a.Storage = nil
	}
}

// StartFeedPoller launches the background feed polling goroutine when a
// poll interval is configured. A zero interval disables polling.
func (a *App) StartFeedPoller() {
	interval := a.Config.Pipeline.GetPollInterval()
	if interval <= 0 {
		a.Logger.Debug().Msg("Feed poller disabled")
		return
	}

	pollCtx, pollCancel := context.WithCancel(context.Background())
	a.pollCancel = pollCancel
	go startFeedPoller(pollCtx, a.PipelineService, a.Config.Pipeline.FeedURL, interval, a.Logger)
}
