package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"micropantry-api/internal/cache"
	"micropantry-api/internal/config"
	"micropantry-api/internal/foodguide"
	"micropantry-api/internal/handler"
	"micropantry-api/internal/ingest"
	"micropantry-api/internal/logger"
	"micropantry-api/internal/repository"
	"micropantry-api/internal/router"
	"micropantry-api/internal/service"
	"micropantry-api/internal/source"
)

func main() {
	// Load configuration
	cfg := config.MustLoad()
	logger.Setup(cfg.Log)
	log.Info().
		Str("app", cfg.App.Name).
		Str("version", cfg.App.Version).
		Str("environment", cfg.App.Environment).
		Msg("starting")

	loc, err := cfg.App.Location()
	if err != nil {
		log.Fatal().Err(err).Str("timezone", cfg.App.TimeZone).Msg("invalid APP_TIMEZONE")
	}

	store, err := openStore(cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Str("type", cfg.Store.Type).Msg("failed to initialize store")
	}
	defer store.Close()
	log.Info().Str("type", cfg.Store.Type).Msg("store initialized")

	var c cache.Cache
	switch cfg.Cache.Type {
	case "redis":
		redisCache, err := cache.NewRedisCache(cache.RedisConfig{
			Addr:      cfg.Cache.RedisAddress(),
			Password:  cfg.Cache.RedisPassword,
			DB:        cfg.Cache.RedisDB,
			KeyPrefix: cfg.Cache.RedisKeyPrefix,
		})
		if err != nil {
			log.Fatal().Err(err).Str("addr", cfg.Cache.RedisAddress()).Msg("failed to connect to Redis")
		}
		c = redisCache
	default:
		c = cache.NewMemoryCache()
	}
	defer c.Close()
	log.Info().Str("type", cfg.Cache.Type).Msg("cache initialized")

	guide, err := foodguide.Load(cfg.Guide.File)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load food guide")
	}

	// Upstream sources
	var catalogSource source.CatalogSource
	if cfg.Catalog.URL != "" {
		catalogSource = source.NewHTTPCatalog(source.NewClient(cfg.Catalog.Timeout), cfg.Catalog.URL)
	} else {
		catalogSource = source.NewFileCatalog(cfg.Catalog.File)
	}

	var telemetrySource source.TelemetrySource
	if cfg.Telemetry.Source == "http" {
		telemetrySource = source.NewHTTPTelemetry(source.NewClient(cfg.Telemetry.Timeout), cfg.Telemetry.BaseURL, cfg.Telemetry.HistoryPath)
	} else {
		telemetrySource = source.NewStoreTelemetry(store.Telemetry(), cfg.Telemetry.Limit)
	}

	// Sensor ingest (optional)
	var ingestor *ingest.Ingestor
	if cfg.MQTT.Broker != "" {
		ingestor = ingest.New(cfg.MQTT, store.Telemetry())
		if err := ingestor.Start(context.Background()); err != nil {
			log.Error().Err(err).Str("broker", cfg.MQTT.Broker).Msg("mqtt ingest disabled")
			ingestor = nil
		}
	}

	// Initialize services
	catalogService := service.NewCatalogService(catalogSource, c, cfg.Catalog.TTL, loc)
	historyService := service.NewHistoryService(telemetrySource, loc)
	sessionService := service.NewSessionService(c, cfg.Cache.SessionTTL, catalogService, historyService)
	wishlistService := service.NewWishlistService(store.Wishlist())
	donationService := service.NewDonationService(store.Donations(), cfg.Donations)
	guideService := service.NewGuideService(guide)

	retention := service.NewRetentionScheduler(store.Donations(), store.Telemetry(), service.RetentionConfig{
		DonationRetention:  cfg.Donations.Retention,
		TelemetryRetention: cfg.Telemetry.Retention,
		Interval:           cfg.Donations.CleanupInterval,
		InitialDelay:       time.Minute,
	})
	retention.Start()

	// Create router
	r := router.New(router.Config{
		Handler:          handler.New(cfg.App.Name, cfg.App.Version, store, c),
		PantryHandler:    handler.NewPantryHandler(catalogService),
		HistoryHandler:   handler.NewHistoryHandler(historyService),
		CommunityHandler: handler.NewCommunityHandler(wishlistService, donationService),
		GuideHandler:     handler.NewGuideHandler(guideService),
		SessionHandler:   handler.NewSessionHandler(sessionService),
		AdminHandler:     handler.NewAdminHandler(store, c, catalogService, retention, ingestor, cfg.Store.Type),
		CORSOrigins:      cfg.Server.CORSOrigins,
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", cfg.Server.Address()).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	retention.Stop()
	// Stop ingest before the store closes so pending readings are flushed.
	if ingestor != nil {
		ingestor.Stop()
	}

	log.Info().Msg("server stopped")
}

func openStore(cfg config.StoreConfig) (repository.Store, error) {
	switch cfg.Type {
	case "mongodb":
		store, err := repository.OpenMongoDB(cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return store, nil
	case "postgres", "mysql":
		dialect, dsn := repository.DialectPostgres, cfg.PostgresDSN()
		if cfg.Type == "mysql" {
			dialect, dsn = repository.DialectMySQL, cfg.MySQLDSN()
		}
		store, err := repository.OpenSQL(dialect, dsn, cfg.MaxOpenConns)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		store, err := repository.OpenSQLite(cfg.Path)
		if err != nil {
			return nil, err
		}
		return store, nil
	}
}
