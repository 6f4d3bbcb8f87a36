package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"github.com/seu-repo/converse-gateway/internal/adapter/cache"
	"github.com/seu-repo/converse-gateway/internal/adapter/geo"
	"github.com/seu-repo/converse-gateway/internal/adapter/http/fiber/handlers"
	"github.com/seu-repo/converse-gateway/internal/adapter/http/fiber/middleware"
	"github.com/seu-repo/converse-gateway/internal/adapter/nlp/recast"
	"github.com/seu-repo/converse-gateway/internal/adapter/services"
	"github.com/seu-repo/converse-gateway/internal/adapter/stt/google"
	"github.com/seu-repo/converse-gateway/internal/adapter/tts/ibm"
	"github.com/seu-repo/converse-gateway/internal/adapter/vault"
	"github.com/seu-repo/converse-gateway/internal/infrastructure/circuitbreaker"
	"github.com/seu-repo/converse-gateway/internal/observability/telemetry"
	"github.com/seu-repo/converse-gateway/internal/ports"
	"github.com/seu-repo/converse-gateway/internal/service/converse"
	"github.com/seu-repo/converse-gateway/internal/service/health"
	"github.com/seu-repo/converse-gateway/pkg/config"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// 2. Initialize Logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		log.Fatal("Failed to initialize logger: ", err)
	}
	defer logger.Sync()

	logger.Info("Starting conversational gateway",
		zap.String("service", cfg.App.Name),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Environment),
	)

	// 3. Overlay credentials from Vault, then check nothing is missing
	if cfg.Vault.Enabled {
		secretManager, err := vault.NewSecretManager(cfg.Vault.Address, cfg.Vault.Token, logger)
		if err != nil {
			logger.Fatal("Failed to create Vault client", zap.Error(err))
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		secrets, err := secretManager.ReadSecrets(ctx, cfg.Vault.Path)
		cancel()
		if err != nil {
			logger.Fatal("Failed to read secrets from Vault", zap.Error(err))
		}
		cfg.ApplySecrets(secrets)
	}
	if err := cfg.Validate(); err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	// 4. Initialize OpenTelemetry (Distributed Tracing)
	tracerProvider, err := telemetry.InitTracer(
		cfg.OpenTelemetry.ServiceName,
		cfg.App.Version,
		cfg.OpenTelemetry.Jaeger.Endpoint,
		cfg.OpenTelemetry.Enabled,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// 5. Initialize Cache (Redis when configured, in-memory otherwise)
	var lookupCache ports.Cache
	if cfg.Redis.URL != "" {
		redisCache, err := cache.NewRedisCache(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		lookupCache = redisCache
	} else {
		lookupCache = cache.NewLocalCache(cfg.Cache.CleanupInterval, logger)
	}
	defer lookupCache.Close()

	// 6. Outbound HTTP clients, one circuit breaker per external API
	breakers := circuitbreaker.NewManager(circuitbreaker.Settings{
		MaxRequests:      cfg.CircuitBreaker.MaxRequests,
		Interval:         cfg.CircuitBreaker.Interval,
		Timeout:          cfg.CircuitBreaker.Timeout,
		FailureThreshold: cfg.CircuitBreaker.FailureThreshold,
	}, logger)
	httpClient := &http.Client{Timeout: cfg.HTTP.ClientTimeout}
	guarded := func(name string) *circuitbreaker.HTTPClient {
		return circuitbreaker.NewHTTPClient(httpClient, breakers.Get(name), logger)
	}

	// 7. Initialize Adapters
	speechClient := google.NewClient(&google.Config{
		BaseURL: cfg.Google.URL,
		APIKey:  cfg.Google.APIKey,
	}, guarded(google.APIName), logger)

	dialogClient := recast.NewClient(&recast.Config{
		BaseURL: cfg.Recast.URL,
		Token:   cfg.Recast.Token,
	}, guarded(recast.APIName), logger)

	synthesisClient := ibm.NewClient(&ibm.Config{
		URL:      cfg.IBM.URL,
		Username: cfg.IBM.Username,
		Password: cfg.IBM.Password,
	}, guarded(ibm.APIName), logger)

	dataServices := services.NewClient(cfg.Services.URL, guarded(services.BreakerName), logger)

	timezones, err := geo.NewTimezoneFinder()
	if err != nil {
		logger.Fatal("Failed to load timezone data", zap.Error(err))
	}

	// 8. Initialize Services (Business Logic Layer)
	resolver := converse.NewResolver(
		dataServices,
		cache.NewCachedCrypto(dataServices, lookupCache, cfg.Cache.CryptoTTL, logger),
		cache.NewCachedNews(dataServices, lookupCache, cfg.Cache.NewsTTL, logger),
		timezones,
		logger,
	)
	converseService := converse.NewService(speechClient, dialogClient, synthesisClient, resolver, logger)

	healthService := health.NewService(&health.Config{
		Version:  cfg.App.Version,
		Cache:    lookupCache,
		Breakers: breakers,
		Critical: []string{recast.APIName},
	}, logger)

	// 9. Initialize Fiber HTTP Server
	app := fiber.New(fiber.Config{
		AppName:               cfg.App.Name,
		ServerHeader:          cfg.App.Name,
		DisableStartupMessage: true,
		BodyLimit:             cfg.HTTP.BodyLimit,
		ReadTimeout:           cfg.HTTP.ReadTimeout,
		WriteTimeout:          cfg.HTTP.WriteTimeout,
		IdleTimeout:           cfg.HTTP.IdleTimeout,
		ErrorHandler:          middleware.ErrorHandler(logger),
	})

	// Global Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestID())
	app.Use(middleware.RequestLogger(logger))
	app.Use(middleware.NewCORS(cfg.CORS))

	// Health Check and Metrics Endpoints
	health.NewFiberHandler(healthService).RegisterRoutes(app)

	// API Routes
	app.Use("/api", middleware.RateLimit(cfg.RateLimiting))
	handlers.RegisterRoutes(app,
		handlers.NewConverseHandler(converseService, logger),
		handlers.NewSpeechHandler(converseService, logger),
	)

	// 10. Start HTTP Server
	go func() {
		logger.Info("Starting HTTP Server", zap.Int("port", cfg.HTTP.Port))
		if err := app.Listen(fmt.Sprintf(":%d", cfg.HTTP.Port)); err != nil {
			logger.Fatal("HTTP Server failed", zap.Error(err))
		}
	}()

	// 11. Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited gracefully")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zapConfig := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapConfig = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
		}
		zapConfig.Level = level
	}

	return zapConfig.Build()
}
