package http

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/service"
)

// Handler contains all HTTP handlers
type Handler struct {
	predictor *service.PredictionService
	modelRef  string
	logger    *zap.Logger
}

// NewHandler creates a new handler; modelRef names the artifact in user-facing messages
func NewHandler(predictor *service.PredictionService, modelRef string, logger *zap.Logger) *Handler {
	return &Handler{
		predictor: predictor,
		modelRef:  modelRef,
		logger:    logger,
	}
}

// HealthCheck returns service health status
func (h *Handler) HealthCheck(c *fiber.Ctx) error {
	status := "ok"
	model := "ready"
	if h.predictor.Ready() != nil {
		status = "degraded"
		model = "unavailable"
	}

	resp := fiber.Map{
		"status":  status,
		"service": "energy-predictor",
		"version": "1.0.0",
		"model":   model,
	}
	if info, ok := h.predictor.ModelInfo(); ok {
		resp["model_info"] = info
	}
	return c.JSON(resp)
}

// Index renders the form in its idle state
func (h *Handler) Index(c *fiber.Ctx) error {
	view := h.baseView(domain.DefaultPredictionRequest())
	if !view.Ready {
		return renderPage(c, fiber.StatusServiceUnavailable, view)
	}
	return renderPage(c, fiber.StatusOK, view)
}

// Submit handles the form's submit event and re-renders the page with the outcome
func (h *Handler) Submit(c *fiber.Ctx) error {
	req := ParseForm(func(key string) string { return c.FormValue(key) })
	view := h.baseView(req)
	if !view.Ready {
		h.logger.Debug("Submit rejected, model unavailable", zap.String("model", h.modelRef))
		return renderPage(c, fiber.StatusServiceUnavailable, view)
	}

	estimate, err := h.predictor.Predict(c.UserContext(), req)
	if err != nil {
		view.State = StateError
		view.Error = fmt.Sprintf("❌ Prediction error: %v", err)
		return renderPage(c, fiber.StatusUnprocessableEntity, view)
	}

	view.State = StateSuccess
	view.Estimate = &estimate
	return renderPage(c, fiber.StatusOK, view)
}

// GetForm returns the control declarations with their defaults
func (h *Handler) GetForm(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success":  true,
		"ready":    h.predictor.Ready() == nil,
		"controls": Controls(domain.DefaultPredictionRequest(), h.predictor.Ready() != nil),
	})
}

// Predict is the JSON counterpart of Submit; omitted fields take form defaults
func (h *Handler) Predict(c *fiber.Ctx) error {
	req := domain.DefaultPredictionRequest()
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req = req.Clamped()

	estimate, err := h.predictor.Predict(c.UserContext(), req)
	switch {
	case errors.Is(err, domain.ErrModelUnavailable):
		return fiber.NewError(fiber.StatusServiceUnavailable, "Model unavailable")
	case errors.Is(err, domain.ErrPredictionFailed):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	case err != nil:
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get prediction")
	}

	return c.JSON(domain.EstimateResponse{
		Data:    estimate,
		Success: true,
	})
}

func (h *Handler) baseView(req domain.PredictionRequest) PageView {
	loadErr := h.predictor.Ready()
	view := PageView{
		State:    StateIdle,
		Ready:    loadErr == nil,
		Controls: Controls(req, loadErr != nil),
	}

	if loadErr != nil {
		view.ModelError, view.ModelHint = modelUnavailableMessage(h.modelRef, loadErr)
	}
	if info, ok := h.predictor.ModelInfo(); ok {
		view.ModelName = info.Name
		if info.Version != "" {
			view.ModelName += " v" + info.Version
		}
	}
	return view
}

func modelUnavailableMessage(ref string, err error) (string, string) {
	if service.IsNotFound(err) {
		return fmt.Sprintf("❌ Model file '%s' not found!", ref),
			"Please upload your model file to the app directory."
	}
	return fmt.Sprintf("❌ Model '%s' could not be loaded: %v", ref, err),
		"Fix or replace the model artifact and restart the server."
}
