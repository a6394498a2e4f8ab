// cmd/api/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/orovela/joyeria-be/internal/adapters/dynamo"
	redis_a "github.com/orovela/joyeria-be/internal/adapters/redis_adapter"
	"github.com/orovela/joyeria-be/internal/adapters/storage"
	"github.com/orovela/joyeria-be/internal/core/services"
	"github.com/orovela/joyeria-be/internal/handlers"
	"github.com/orovela/joyeria-be/internal/handlers/middleware"
	"github.com/orovela/joyeria-be/internal/pkg/config"
	"github.com/orovela/joyeria-be/internal/pkg/logger"
	"github.com/orovela/joyeria-be/internal/workers"
)

// Build information injected at compile time
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	slogger := logger.SetupLogger("debug", "json")

	slogger.Info("starting jewelry inventory service",
		slog.String("version", Version),
		slog.String("build_time", BuildTime),
	)

	cfg, err := config.Load(slogger)
	if err != nil {
		slogger.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Reconfigure logger with loaded settings
	slogger = logger.SetupLogger(cfg.App.LogLevel, cfg.App.LogFormat)
	slogger.Info("configuration loaded",
		slog.String("environment", cfg.App.Environment),
		slog.String("log_level", cfg.App.LogLevel),
	)

	ctx := context.Background()

	deps, err := initializeDependencies(ctx, cfg, slogger)
	if err != nil {
		slogger.Error("failed to initialize dependencies", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer deps.cleanup()

	// Warm the snapshot so the first request is not a cold sync. A store
	// outage at boot is survivable; the service starts offline.
	if err := deps.inventoryService.Fetch(ctx); err != nil {
		slogger.Warn("initial inventory sync failed, starting offline",
			slog.String("error", err.Error()))
	}

	server := setupHTTPServer(cfg, deps, slogger)

	serverErrors := make(chan error, 1)
	go func() {
		slogger.Info("starting HTTP server",
			slog.String("address", cfg.GetServerAddress()),
		)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slogger.Error("server error", slog.String("error", err.Error()))
		}
	case sig := <-shutdown:
		slogger.Info("shutdown signal received",
			slog.String("signal", sig.String()),
		)

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slogger.Error("failed to gracefully shutdown server", slog.String("error", err.Error()))
			server.Close()
		}

		slogger.Info("server shutdown complete")
	}
}

// dependencies holds all application dependencies
type dependencies struct {
	dynamoClient     *dynamo.Client
	redisClient      *redis.Client
	redisCache       *redis_a.Cache
	asynqClient      *asynq.Client
	asynqInspector   *asynq.Inspector
	inventoryService *services.InventoryService
	itemHandler      *handlers.ItemHandler
	statsHandler     *handlers.StatsHandler
	imageHandler     *handlers.ImageHandler
	exportHandler    *handlers.ExportHandler
	healthHandler    *handlers.HealthHandler
}

func (d *dependencies) cleanup() {
	if d.inventoryService != nil {
		d.inventoryService.Close()
	}
	if d.redisClient != nil {
		d.redisClient.Close()
	}
	if d.asynqClient != nil {
		d.asynqClient.Close()
	}
}

func initializeDependencies(ctx context.Context, cfg *config.Config, slogger *slog.Logger) (*dependencies, error) {
	deps := &dependencies{}

	// Connect to the item table
	slogger.Info("connecting to DynamoDB",
		slog.String("table", cfg.Dynamo.Table),
		slog.String("region", cfg.Dynamo.Region),
	)

	dynamoClient, err := dynamo.NewClient(ctx, &dynamo.Config{
		Region:          cfg.Dynamo.Region,
		Table:           cfg.Dynamo.Table,
		MaterialIndex:   cfg.Dynamo.MaterialIndex,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.Dynamo.Endpoint,
		ConnectTimeout:  cfg.Dynamo.ConnectTimeout,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize dynamodb client: %w", err)
	}
	deps.dynamoClient = dynamoClient

	// Local development runs against dynamodb-local; create the table on
	// first boot. Production tables are provisioned out of band.
	if cfg.IsDevelopment() {
		if err := dynamoClient.EnsureTable(ctx); err != nil {
			return nil, fmt.Errorf("failed to ensure dynamodb table: %w", err)
		}
	}

	// Initialize Redis client
	slogger.Info("connecting to Redis",
		slog.String("host", cfg.Redis.Host),
		slog.String("port", cfg.Redis.Port),
	)

	redisClient := redis.NewClient(&redis.Options{
		Addr:            fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password:        cfg.Redis.Password,
		DB:              cfg.Redis.DB,
		MaxRetries:      cfg.Redis.MaxRetries,
		MinRetryBackoff: cfg.Redis.MinRetryBackoff,
		MaxRetryBackoff: cfg.Redis.MaxRetryBackoff,
		DialTimeout:     cfg.Redis.DialTimeout,
		ReadTimeout:     cfg.Redis.ReadTimeout,
		WriteTimeout:    cfg.Redis.WriteTimeout,
		PoolSize:        cfg.Redis.PoolSize,
		MinIdleConns:    cfg.Redis.MinIdleConns,
		PoolTimeout:     cfg.Redis.PoolTimeout,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	deps.redisClient = redisClient
	deps.redisCache = redis_a.NewCache(redisClient, cfg.Redis.TTL, slogger)

	// Initialize Asynq client
	slogger.Info("initializing Asynq client")

	asynqRedisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Asynq.RedisAddr,
		Password: cfg.Asynq.RedisPassword,
		DB:       cfg.Asynq.RedisDB,
	}
	deps.asynqClient = asynq.NewClient(asynqRedisOpt)
	deps.asynqInspector = asynq.NewInspector(asynqRedisOpt)

	// Initialize the image store
	imageStore, err := storage.NewS3ImageStore(ctx, &storage.S3Config{
		Region:          cfg.AWS.Region,
		Bucket:          cfg.AWS.S3Bucket,
		AccessKeyID:     cfg.AWS.AccessKeyID,
		SecretAccessKey: cfg.AWS.SecretAccessKey,
		Endpoint:        cfg.AWS.S3Endpoint,
		UsePathStyle:    cfg.AWS.UsePathStyle,
	}, slogger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize image store: %w", err)
	}

	// Initialize store and services
	itemStore := dynamo.NewItemStore(dynamoClient, slogger)

	alertSink := workers.NewAsynqAlertSink(deps.asynqClient, slogger)
	alertEvaluator := services.NewAlertEvaluator(alertSink, services.AlertThresholds{
		LowStockGrams:   cfg.Alerts.LowStockGrams,
		OverweightKilos: cfg.Alerts.OverweightKilos,
	}, slogger)

	deps.inventoryService = services.NewInventoryService(itemStore, alertEvaluator, cfg.Alerts.DebounceWindow, slogger)

	// Initialize handlers
	deps.itemHandler = handlers.NewItemHandler(deps.inventoryService, deps.redisCache, slogger)
	deps.statsHandler = handlers.NewStatsHandler(deps.inventoryService, alertEvaluator, itemStore, deps.redisCache, slogger)
	deps.imageHandler = handlers.NewImageHandler(deps.inventoryService, itemStore, imageStore, deps.redisCache, slogger)
	deps.exportHandler = handlers.NewExportHandler(deps.inventoryService, deps.redisCache, slogger)
	deps.healthHandler = handlers.NewHealthHandler(itemStore, redisClient, deps.asynqInspector, cfg, slogger)

	slogger.Info("all dependencies initialized successfully")
	return deps, nil
}

func setupHTTPServer(cfg *config.Config, deps *dependencies, slogger *slog.Logger) *http.Server {
	mux := http.NewServeMux()

	registerRoutes(mux, deps, cfg)

	// Apply middleware in reverse order (innermost first)
	var handler http.Handler = mux
	handler = middleware.Compression(handler)
	handler = middleware.Recovery(slogger)(handler)
	handler = middleware.Logger(slogger)(handler)
	handler = middleware.RequestID(handler)

	if cfg.Security.RateLimitRequests > 0 {
		handler = middleware.RateLimit(cfg.Security.RateLimitRequests, cfg.Security.RateLimitDuration)(handler)
	}
	if len(cfg.Security.AllowedOrigins) > 0 {
		handler = middleware.CORS(cfg.Security.AllowedOrigins)(handler)
	}
	handler = middleware.SecureHeaders(handler)

	return &http.Server{
		Addr:           cfg.GetServerAddress(),
		Handler:        handler,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		IdleTimeout:    cfg.Server.IdleTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		ErrorLog:       slog.NewLogLogger(slogger.Handler(), slog.LevelError),
	}
}

func registerRoutes(mux *http.ServeMux, deps *dependencies, cfg *config.Config) {
	apiV1 := "/api/v1"

	// Health and readiness endpoints
	mux.HandleFunc("GET /health", deps.healthHandler.Health)
	mux.HandleFunc("GET /ready", deps.healthHandler.Readiness)

	// Item endpoints
	mux.HandleFunc("GET "+apiV1+"/items", deps.itemHandler.ListItems)
	mux.HandleFunc("POST "+apiV1+"/items", deps.itemHandler.CreateItem)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/sell", deps.itemHandler.SellItem)
	mux.HandleFunc("POST "+apiV1+"/items/{id}/image", deps.imageHandler.UploadImage)
	mux.HandleFunc("GET "+apiV1+"/items/{id}/image", deps.imageHandler.GetImageURL)

	// Stats endpoints
	mux.HandleFunc("GET "+apiV1+"/stats", deps.statsHandler.GetStats)
	mux.HandleFunc("GET "+apiV1+"/stats/weight", deps.statsHandler.GetWeight)

	// Export endpoints
	mux.HandleFunc("GET "+apiV1+"/export/excel", deps.exportHandler.ExportExcel)
	mux.HandleFunc("GET "+apiV1+"/export/json", deps.exportHandler.ExportJSON)

	// Connectivity probe
	mux.HandleFunc("GET "+apiV1+"/connection", deps.itemHandler.CheckConnection)

	// pprof endpoints (development only)
	if cfg.Server.EnablePprof && cfg.IsDevelopment() {
		mux.HandleFunc("GET /debug/pprof/", http.HandlerFunc(http.DefaultServeMux.ServeHTTP))
	}
}
