package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/service"
)

// SetupRoutes configures all HTTP routes
func SetupRoutes(app *fiber.App, predictor *service.PredictionService, modelRef string, m *metrics.Metrics, logger *zap.Logger) {
	handler := NewHandler(predictor, modelRef, logger)

	// Health check and metrics
	app.Get("/health", handler.HealthCheck)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})))

	// Form page
	app.Get("/", handler.Index)
	app.Post("/", handler.Submit)

	// API v1 routes
	api := app.Group("/api/v1")
	{
		api.Get("/form", handler.GetForm)
		api.Post("/predict", handler.Predict)
	}
}

// ErrorHandler renders fiber errors as the JSON envelope used by the API
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": message,
	})
}
