package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/model"
)

// PredictionService runs assemble -> invoke -> present for one request.
// The model handle is fixed at construction and shared read-only.
type PredictionService struct {
	model     model.Regressor
	loadErr   error
	presenter *Presenter
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

// NewPredictionService creates a service around the startup load result.
// Pass the loader's error as loadErr when no model could be loaded.
func NewPredictionService(
	m model.Regressor,
	loadErr error,
	presenter *Presenter,
	metrics *metrics.Metrics,
	logger *zap.Logger,
) *PredictionService {
	if m == nil && loadErr == nil {
		loadErr = domain.ErrModelUnavailable
	}
	if loadErr != nil {
		m = nil
		metrics.ModelReady.Set(0)
	} else {
		metrics.ModelReady.Set(1)
	}
	return &PredictionService{
		model:     m,
		loadErr:   loadErr,
		presenter: presenter,
		metrics:   metrics,
		logger:    logger,
	}
}

// Ready returns the startup load error, nil when predictions can be served.
func (s *PredictionService) Ready() error {
	return s.loadErr
}

// Presenter returns the presenter used for estimates
func (s *PredictionService) Presenter() *Presenter {
	return s.presenter
}

// ModelInfo returns the loaded model's metadata when it can describe itself
func (s *PredictionService) ModelInfo() (model.Metadata, bool) {
	d, ok := s.model.(model.Describer)
	if !ok {
		return model.Metadata{}, false
	}
	return d.Metadata(), true
}

// Predict assembles features, calls the model and formats the result.
// Errors wrap domain.ErrModelUnavailable or domain.ErrPredictionFailed.
func (s *PredictionService) Predict(ctx context.Context, req domain.PredictionRequest) (domain.Estimate, error) {
	if s.loadErr != nil {
		s.metrics.Predictions.WithLabelValues(metrics.OutcomeUnavailable).Inc()
		return domain.Estimate{}, s.loadErr
	}

	record := AssembleFeatures(req)

	start := time.Now()
	prediction, err := s.invoke(ctx, record)
	s.metrics.PredictionLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		s.metrics.Predictions.WithLabelValues(metrics.OutcomeFailed).Inc()
		s.logger.Warn("Prediction failed", zap.Any("features", record), zap.Error(err))
		return domain.Estimate{}, err
	}

	s.metrics.Predictions.WithLabelValues(metrics.OutcomeSuccess).Inc()
	estimate := s.presenter.Present(req, prediction)
	s.logger.Debug("Prediction served",
		zap.String("id", estimate.ID),
		zap.Float64("kwh", prediction),
	)
	return estimate, nil
}

// invoke calls the model inside a failure boundary: errors, panics and
// non-finite outputs all surface as domain.ErrPredictionFailed.
func (s *PredictionService) invoke(ctx context.Context, record domain.Record) (prediction float64, err error) {
	defer func() {
		if r := recover(); r != nil {
			prediction = 0
			err = fmt.Errorf("%w: model panicked: %v", domain.ErrPredictionFailed, r)
		}
	}()

	prediction, err = s.model.Predict(ctx, record)
	if err != nil {
		if errors.Is(err, domain.ErrPredictionFailed) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %w", domain.ErrPredictionFailed, err)
	}
	if math.IsNaN(prediction) || math.IsInf(prediction, 0) {
		return 0, fmt.Errorf("%w: model returned %v", domain.ErrPredictionFailed, prediction)
	}
	return prediction, nil
}
