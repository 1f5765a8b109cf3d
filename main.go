package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	"github.com/redis/go-redis/v9"

	database "github.com/voyageai/go-trip-planner/app/db"
	appLogger "github.com/voyageai/go-trip-planner/app/logger"
	"github.com/voyageai/go-trip-planner/app/observability/metrics"
	"github.com/voyageai/go-trip-planner/app/tracer"
	"github.com/voyageai/go-trip-planner/config"
	"github.com/voyageai/go-trip-planner/internal/api/chat"
	generativeAI "github.com/voyageai/go-trip-planner/internal/api/generative_ai"
	"github.com/voyageai/go-trip-planner/internal/api/history"
	"github.com/voyageai/go-trip-planner/internal/api/itinerary"
	"github.com/voyageai/go-trip-planner/internal/api/nearby"
	api "github.com/voyageai/go-trip-planner/internal/router"
)

func main() {
	// Use standard log until slog is configured, in case godotenv fails
	err := godotenv.Load()
	if err != nil {
		log.Println("Warning: .env file not found or error loading:", err)
	}

	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatalf("FATAL: Error initializing config: %v", err)
	}

	logger := setupLogger()
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// --- Observability ---
	tracer.InitTracingAndMetrics(cfg.Handlers.Prometheus.Port)
	metrics.InitAppMetrics()

	// --- History Persistence Backend ---
	store, cleanup, err := setupHistoryStore(ctx, &cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize history store", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()
	historyService := history.NewService(ctx, store, logger)

	// --- AI Client ---
	aiClient, err := generativeAI.NewAIClient(ctx, cfg.Gemini.Model)
	if err != nil {
		logger.Error("Failed to create AI client", slog.Any("error", err))
		os.Exit(1)
	}

	// Optional reverse geocoder; nearby search degrades to raw coordinate
	// queries without it.
	var geocoder nearby.Geocoder
	if mapsKey := os.Getenv(cfg.Maps.APIKeyEnv); mapsKey != "" {
		g, err := nearby.NewMapsGeocoder(mapsKey)
		if err != nil {
			logger.Warn("Failed to create maps geocoder, continuing without it", slog.Any("error", err))
		} else {
			geocoder = g
		}
	} else {
		logger.Info("No Google Maps API key configured, coordinate lookups use raw coordinates")
	}

	// --- Dependency Injection ---
	temperature := float32(cfg.Gemini.Temperature)
	itineraryService := itinerary.NewService(aiClient, temperature, logger)
	nearbyService := nearby.NewService(aiClient, geocoder, temperature, logger)
	chatService := chat.NewService(chat.AIClientAdapter{Client: aiClient}, logger)

	routerConfig := &api.Config{
		ItineraryHandler: itinerary.NewHandler(itineraryService, historyService, logger),
		NearbyHandler:    nearby.NewHandler(nearbyService, historyService, logger),
		ChatHandler:      chat.NewHandler(chatService, historyService, logger),
	}
	mainRouter := api.SetupRouter(routerConfig)

	httpTimeout := cfg.Server.Timeout
	if httpTimeout <= 0 {
		httpTimeout = 60 * time.Second
	}

	router := chi.NewMux()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(appLogger.StructuredLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.StripSlashes)
	router.Use(middleware.Timeout(httpTimeout))
	router.Use(middleware.Compress(5, "application/json"))
	router.Mount("/", mainRouter)

	// --- HTTP Server Setup ---
	serverAddress := fmt.Sprintf(":%s", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         serverAddress,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 120 * time.Second, // generation calls can be slow
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	go func() {
		logger.Info("Starting HTTP server", slog.String("address", serverAddress))
		err := srv.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server ListenAndServe error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutdown signal received, starting graceful shutdown...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed", slog.Any("error", err))
	} else {
		logger.Info("HTTP server gracefully stopped")
	}

	logger.Info("Application shut down complete.")
}

// setupHistoryStore selects the persistence backend from configuration:
// postgres (with migrations), redis, or the in-memory fallback.
func setupHistoryStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (history.Store, func(), error) {
	switch cfg.Repositories.Backend {
	case "postgres":
		dbConfig, err := database.NewDatabaseConfig(cfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("database config: %w", err)
		}
		if err := database.RunMigrations(dbConfig.ConnectionURL, logger); err != nil {
			return nil, nil, fmt.Errorf("migrations: %w", err)
		}
		pool, err := database.Init(dbConfig.ConnectionURL, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("database pool: %w", err)
		}
		if !database.WaitForDB(ctx, pool, logger) {
			pool.Close()
			return nil, nil, errors.New("database not ready after waiting")
		}
		return history.NewPostgresStore(pool, logger), pool.Close, nil

	case "redis":
		client := redis.NewClient(&redis.Options{Addr: cfg.Repositories.Redis.Addr})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		return history.NewRedisStore(client), func() { _ = client.Close() }, nil

	default:
		logger.Warn("Using in-memory history store, history will not survive restarts")
		return history.NewMemoryStore(), func() {}, nil
	}
}

// setupLogger configures and returns the application logger.
func setupLogger() *slog.Logger {
	var logger *slog.Logger
	env := os.Getenv("APP_ENV")

	if env == "development" || env == "" {
		// Colored logs for development
		tintOpts := &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.Kitchen,
			AddSource:  true,
		}
		logger = slog.New(tint.NewHandler(os.Stdout, tintOpts))
		log.Println("Initialized development logger (tint)")
	} else {
		// JSON logs for production or other environments
		jsonOpts := &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: false,
		}
		logger = slog.New(slog.NewJSONHandler(os.Stdout, jsonOpts))
		log.Println("Initialized production logger (JSON)")
	}
	return logger
}
