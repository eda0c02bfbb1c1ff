package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/model"
	"github.com/smartcity/energy/internal/repository/filesystem"
	"github.com/smartcity/energy/internal/service"
)

type stubModel struct {
	value float64
	err   error
	calls []domain.Record
}

func (s *stubModel) Predict(_ context.Context, record domain.Record) (float64, error) {
	s.calls = append(s.calls, record)
	return s.value, s.err
}

func newTestApp(t *testing.T, m model.Regressor, loadErr error) *fiber.App {
	t.Helper()
	mtr := metrics.New()
	svc := service.NewPredictionService(m, loadErr, service.NewPresenter(service.DefaultCostPerKWh), mtr, zap.NewNop())
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	SetupRoutes(app, svc, "best_model.json", mtr, zap.NewNop())
	return app
}

func unavailableApp(t *testing.T) *fiber.App {
	t.Helper()
	loader := service.NewModelLoader(filesystem.NewFileSource(t.TempDir()), metrics.New(), zap.NewNop())
	m, err := loader.Load(context.Background(), "best_model.json")
	require.Error(t, err)
	return newTestApp(t, m, err)
}

func do(t *testing.T, app *fiber.App, req *http.Request) (int, string) {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func submit(values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func scenarioValues() url.Values {
	return url.Values{
		FieldHouseholdSize:     {"4"},
		FieldAvgTemperatureC:   {"25.0"},
		FieldHasAC:             {"Yes"},
		FieldPeakHoursUsageKWh: {"3.5"},
	}
}

func TestIndex_Idle(t *testing.T) {
	app := newTestApp(t, &stubModel{value: 10}, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "Predict Consumption")
	assert.Contains(t, body, `name="household_size"`)
	assert.NotContains(t, body, "fieldset disabled")
	assert.NotContains(t, body, "Predicted Daily Consumption")
}

func TestSubmit_Scenario(t *testing.T) {
	stub := &stubModel{value: 10.0}
	app := newTestApp(t, stub, nil)

	status, body := do(t, app, submit(scenarioValues()))

	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "10.00 kWh")
	assert.Contains(t, body, "$1.20")
	assert.Contains(t, body, "$36.00")
	assert.Contains(t, body, "4 people")
	assert.Contains(t, body, "25.0°C")

	require.Len(t, stub.calls, 1)
	payload, err := json.Marshal(stub.calls[0])
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"Household_Size":4,"Avg_Temperature_C":25.0,"Has_AC":"Yes","Peak_Hours_Usage_kWh":3.5}`,
		string(payload))
}

func TestSubmit_PredictionFailedKeepsForm(t *testing.T) {
	stub := &stubModel{err: errors.New("boom")}
	app := newTestApp(t, stub, nil)

	values := url.Values{
		FieldHouseholdSize:     {"7"},
		FieldAvgTemperatureC:   {"30.5"},
		FieldHasAC:             {"No"},
		FieldPeakHoursUsageKWh: {"6"},
	}
	status, body := do(t, app, submit(values))

	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "Prediction error")
	assert.Contains(t, body, "boom")
	assert.Contains(t, body, `value="7"`)
	assert.Contains(t, body, `value="30.5"`)
	assert.Contains(t, body, `value="6"`)
	assert.Contains(t, body, "Predict Consumption", "form must stay submittable")
	assert.NotContains(t, body, "fieldset disabled")

	// resubmitting the same values reaches the model again
	stub.err = nil
	stub.value = 12
	status, body = do(t, app, submit(values))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "12.00 kWh")
	assert.Len(t, stub.calls, 2)
}

func TestModelUnavailable(t *testing.T) {
	app := unavailableApp(t)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.Contains(t, body, "not found!")
	assert.Contains(t, body, "Please upload your model file")
	assert.Contains(t, body, "fieldset disabled")
	assert.NotContains(t, body, "Predict Consumption")

	status, body = do(t, app, submit(scenarioValues()))
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
	assert.NotContains(t, body, "Predicted Daily Consumption")

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ = do(t, app, req)
	assert.Equal(t, fiber.StatusServiceUnavailable, status)

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"model":"unavailable"`)
}

func TestAPIPredict(t *testing.T) {
	app := newTestApp(t, &stubModel{value: 10}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict",
		strings.NewReader(`{"household_size":4,"avg_temperature_c":25,"has_ac":true,"peak_hours_usage_kwh":3.5}`))
	req.Header.Set("Content-Type", "application/json")
	status, body := do(t, app, req)
	require.Equal(t, fiber.StatusOK, status)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			Display domain.Display `json:"display"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, domain.Display{
		Consumption: "10.00 kWh",
		DailyCost:   "$1.20",
		MonthlyCost: "$36.00",
		Rate:        "$0.12/kWh",
	}, resp.Data.Display)
}

func TestAPIPredict_Errors(t *testing.T) {
	t.Run("malformed body", func(t *testing.T) {
		app := newTestApp(t, &stubModel{value: 10}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{"household_size":`))
		req.Header.Set("Content-Type", "application/json")
		status, body := do(t, app, req)
		assert.Equal(t, fiber.StatusBadRequest, status)
		assert.Contains(t, body, `"error":true`)
	})

	t.Run("model raises", func(t *testing.T) {
		app := newTestApp(t, &stubModel{err: errors.New("boom")}, nil)
		req := httptest.NewRequest(http.MethodPost, "/api/v1/predict", strings.NewReader(`{}`))
		req.Header.Set("Content-Type", "application/json")
		status, body := do(t, app, req)
		assert.Equal(t, fiber.StatusUnprocessableEntity, status)
		assert.Contains(t, body, "prediction failed")
	})
}

func TestAPIPredict_ClampsOutOfRange(t *testing.T) {
	stub := &stubModel{value: 1}
	app := newTestApp(t, stub, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/predict",
		strings.NewReader(`{"household_size":99,"avg_temperature_c":-40,"peak_hours_usage_kwh":35}`))
	req.Header.Set("Content-Type", "application/json")
	status, _ := do(t, app, req)
	require.Equal(t, fiber.StatusOK, status)

	require.Len(t, stub.calls, 1)
	rec := stub.calls[0]
	assert.Equal(t, domain.MaxHouseholdSize, rec[0].Value)
	assert.Equal(t, domain.MinAvgTemperatureC, rec[1].Value)
	assert.Equal(t, "Yes", rec[2].Value)
	assert.Equal(t, domain.MaxPeakHoursUsageKWh, rec[3].Value)
}

func TestGetFormAndMetrics(t *testing.T) {
	app := newTestApp(t, &stubModel{value: 10}, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/form", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"name":"avg_temperature_c"`)
	assert.Contains(t, body, `"ready":true`)

	do(t, app, submit(scenarioValues()))

	status, body = do(t, app, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `energy_predictions_total{outcome="success"} 1`)
	assert.Contains(t, body, "energy_model_ready 1")
}

func TestSubmit_RerendersStepAlignedValues(t *testing.T) {
	stub := &stubModel{value: 5}
	app := newTestApp(t, stub, nil)

	values := scenarioValues()
	values.Set(FieldPeakHoursUsageKWh, "1.25")
	status, body := do(t, app, submit(values))

	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `name="peak_hours_usage_kwh" min="0" max="20" step="0.5" value="1.5"`)
	assert.NotContains(t, body, `value="1.25"`)

	require.Len(t, stub.calls, 1)
	assert.Equal(t, 1.5, stub.calls[0][3].Value)
}

func TestIndex_RadioGroupLabelling(t *testing.T) {
	app := newTestApp(t, &stubModel{value: 10}, nil)

	_, body := do(t, app, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Contains(t, body, `<legend class="title">Has Air Conditioning?</legend>`)
	assert.NotContains(t, body, `for="has_ac"`)
	assert.Contains(t, body, `id="has_ac-0"`)
	assert.Contains(t, body, `<label class="title" for="peak_hours_usage_kwh">`)
}

func TestGetForm_IncludesZeroBounds(t *testing.T) {
	app := newTestApp(t, &stubModel{value: 10}, nil)

	status, body := do(t, app, httptest.NewRequest(http.MethodGet, "/api/v1/form", nil))
	require.Equal(t, fiber.StatusOK, status)

	var resp struct {
		Controls []map[string]any `json:"controls"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &resp))
	require.Len(t, resp.Controls, 4)

	peak := resp.Controls[3]
	assert.Equal(t, FieldPeakHoursUsageKWh, peak["name"])
	assert.Contains(t, peak, "min")
	assert.Equal(t, 0.0, peak["min"])
	assert.Equal(t, 20.0, peak["max"])
	assert.Equal(t, 0.5, peak["step"])
}
