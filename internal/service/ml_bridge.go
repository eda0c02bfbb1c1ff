package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/model"
)

// MLBridge serves predictions from an external inference service,
// for artifacts that only the training stack can deserialize.
type MLBridge struct {
	serviceURL string
	httpClient *http.Client
}

type bridgeRequest struct {
	Features domain.Record `json:"features"`
}

type bridgeResponse struct {
	Prediction *float64 `json:"prediction"`
	Error      string   `json:"error,omitempty"`
}

// NewMLBridge creates a new ML bridge
func NewMLBridge(serviceURL string) *MLBridge {
	return &MLBridge{
		serviceURL: strings.TrimRight(serviceURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Connect verifies the service is reachable before it is used as the model.
func (b *MLBridge) Connect(ctx context.Context) (model.Regressor, error) {
	if err := b.Health(ctx); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}
	return b, nil
}

// Predict calls the inference service with one labeled record
func (b *MLBridge) Predict(ctx context.Context, record domain.Record) (float64, error) {
	body, err := json.Marshal(bridgeRequest{Features: record})
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/predict", b.serviceURL)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := b.httpClient.Do(httpReq)
	if err != nil {
		return 0, fmt.Errorf("ml_bridge: request failed: %w", err)
	}
	defer resp.Body.Close()

	var out bridgeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return 0, fmt.Errorf("ml_bridge: failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return 0, fmt.Errorf("ml_bridge: service returned status %d: %s", resp.StatusCode, out.Error)
		}
		return 0, fmt.Errorf("ml_bridge: service returned status %d", resp.StatusCode)
	}
	if out.Prediction == nil {
		return 0, fmt.Errorf("ml_bridge: response has no prediction")
	}

	return *out.Prediction, nil
}

// Health checks ML service connectivity
func (b *MLBridge) Health(ctx context.Context) error {
	url := fmt.Sprintf("%s/health", b.serviceURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("ml_bridge: failed to create health request: %w", err)
	}

	resp, err := b.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ml_bridge: health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ml_bridge: health check returned status %d", resp.StatusCode)
	}

	return nil
}
