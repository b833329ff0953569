package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/riii-services/backend/internal/api/handlers"
	"github.com/riii-services/backend/internal/api/middleware"
	"github.com/riii-services/backend/internal/api/routes"
	"github.com/riii-services/backend/internal/application/services"
	"github.com/riii-services/backend/internal/bootstrap"
	"github.com/riii-services/backend/internal/infrastructure/observability"
	"github.com/riii-services/backend/pkg/config"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn().Err(err).Msg("Failed to read .env file")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Env, cfg.OTEL.Enabled)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, &cfg.OTEL)
		if err != nil {
			log.Warn().Err(err).Msg("Failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("Error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized successfully")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize metrics")
	}

	// Record store. Without one the store-backed routes report
	// "Database connection not configured".
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("driver", cfg.Store.Driver).Msg("Record store unavailable")
	} else {
		defer store.Close()
		log.Info().Str("driver", store.Driver).Msg("Record store initialized successfully")
	}

	cacheProvider, redisClient, err := bootstrap.OpenCache(ctx, &cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis client; response cache disabled")
	} else if redisClient != nil {
		defer redisClient.Close()
		log.Info().Msg("Redis client initialized successfully")
	}

	searchAdapter, err := bootstrap.OpenSearchIndex(ctx, &cfg.Typesense)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Typesense; search falls back to store scan")
	}
	searchIndex := bootstrap.SearchIndex(searchAdapter)

	notifier, err := bootstrap.OpenNotifier(&cfg.Email)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize email notifier")
	} else if notifier == nil {
		log.Warn().Msg("RESEND_API_KEY is not set; confirmation emails disabled")
	}

	fileStorage, err := bootstrap.OpenFileStorage(ctx, cfg)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize object storage")
	}

	// Initialize services and handlers
	h := routes.Handlers{
		Upload: handlers.NewUploadHandler(services.NewUploadService(fileStorage)),
		Email:  handlers.NewEmailHandler(services.NewEmailService(notifier)),
	}
	if store != nil {
		catalogService := services.NewCatalogService(store.Services, store.Categories, store.Tx, searchIndex)
		orderService := services.NewOrderService(store.Orders, store.Services, notifier, metrics)

		h.Catalog = handlers.NewCatalogHandler(catalogService)
		h.Orders = handlers.NewOrderHandler(orderService)
		h.Location = handlers.NewLocationHandler(services.NewLocationService(store.Locations))
		h.Content = handlers.NewContentHandler(
			services.NewReviewService(store.Reviews),
			services.NewBlogService(store.Blogs),
		)
		h.Contact = handlers.NewContactHandler(services.NewContactService(store.Users), cacheProvider)
	}

	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider, cfg.Server.CacheTTL, metrics)
		log.Info().Int("ttl_seconds", cfg.Server.CacheTTL).Msg("Cache middleware initialized successfully")
	}

	adminAuth := middleware.NewAdminAuth(cfg.Auth.AdminJWTSecret)
	if !adminAuth.Enabled() {
		log.Warn().Msg("ADMIN_JWT_SECRET is not set; admin routes are unprotected")
	}

	router := routes.NewRouter(h, cfg.Server.AllowedOrigins, cacheMiddleware, adminAuth, metrics)

	server := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("Server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Server shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Error during server shutdown")
	}

	log.Info().Msg("Server stopped")
}
