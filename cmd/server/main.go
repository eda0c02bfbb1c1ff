package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/delivery/http"
	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/logging"
	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/model"
	"github.com/smartcity/energy/internal/repository/filesystem"
	"github.com/smartcity/energy/internal/repository/postgres"
	"github.com/smartcity/energy/internal/service"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	zlog, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Development: cfg.Env == "development",
	})
	if err != nil {
		log.Fatalf("Invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}
	defer zlog.Sync()

	mtr := metrics.New()

	// Load the model once; a failure leaves the page up with inputs disabled
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	regressor, loadErr := loadModel(ctx, cfg, mtr, zlog)
	if loadErr != nil {
		zlog.Error("Model unavailable, serving disabled form", zap.String("model", cfg.ModelRef()), zap.Error(loadErr))
	}

	presenter := service.NewPresenter(cfg.CostPerKWh)
	predictor := service.NewPredictionService(regressor, loadErr, presenter, mtr, zlog)

	// Fiber App
	app := fiber.New(fiber.Config{
		AppName:      "Energy Predictor v1.0",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorHandler: http.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${method} ${path} (${latency})\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Routes
	http.SetupRoutes(app, predictor, cfg.ModelRef(), mtr, zlog)

	// Graceful shutdown
	go func() {
		zlog.Info("Server starting",
			zap.String("port", cfg.Port),
			zap.String("model_source", cfg.ModelSource),
			zap.String("cost_per_kwh", cfg.CostPerKWh.String()),
		)
		if err := app.Listen(":" + cfg.Port); err != nil {
			zlog.Fatal("Server error", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zlog.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(5 * time.Second); err != nil {
		zlog.Warn("Server forced to shutdown", zap.Error(err))
	}
	zlog.Info("Server exited gracefully")
}

func loadModel(ctx context.Context, cfg *Config, mtr *metrics.Metrics, zlog *zap.Logger) (model.Regressor, error) {
	m, err := openModel(ctx, cfg, mtr, zlog)
	if err != nil && !errors.Is(err, domain.ErrModelUnavailable) {
		err = fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	return m, err
}

func openModel(ctx context.Context, cfg *Config, mtr *metrics.Metrics, zlog *zap.Logger) (model.Regressor, error) {
	switch cfg.ModelSource {
	case SourceRemote:
		m, err := service.NewMLBridge(cfg.MLServiceURL).Connect(ctx)
		outcome := metrics.OutcomeSuccess
		if err != nil {
			outcome = metrics.OutcomeFailed
		}
		mtr.ModelLoads.WithLabelValues(SourceRemote, outcome).Inc()
		return m, err

	case SourcePostgres:
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
		}
		// the artifact is fully read during Load
		defer pool.Close()

		src := postgres.NewPostgresSource(pool)
		if err := src.Health(ctx); err != nil {
			return nil, err
		}
		zlog.Info("Connected to PostgreSQL model registry")
		return service.NewModelLoader(src, mtr, zlog).Load(ctx, cfg.ModelName)

	default:
		return service.NewModelLoader(filesystem.NewFileSource(""), mtr, zlog).Load(ctx, cfg.ModelPath)
	}
}
