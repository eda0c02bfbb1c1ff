package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcity/energy/internal/domain"
)

func newInferenceServer(t *testing.T, predict http.HandlerFunc) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/predict", predict)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestMLBridge_Predict(t *testing.T) {
	var got map[string]map[string]any
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"prediction": 10.0}`))
	})

	bridge := NewMLBridge(srv.URL + "/")
	m, err := bridge.Connect(context.Background())
	require.NoError(t, err)

	v, err := m.Predict(context.Background(), AssembleFeatures(domain.DefaultPredictionRequest()))
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)

	assert.Equal(t, map[string]any{
		"Household_Size":       4.0,
		"Avg_Temperature_C":    25.0,
		"Has_AC":               "Yes",
		"Peak_Hours_Usage_kWh": 3.5,
	}, got["features"])
}

func TestMLBridge_ServiceError(t *testing.T) {
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"error": "could not convert string to float"}`))
	})

	_, err := NewMLBridge(srv.URL).Predict(context.Background(), domain.Record{})
	assert.ErrorContains(t, err, "status 422: could not convert string to float")
}

func TestMLBridge_MissingPrediction(t *testing.T) {
	srv := newInferenceServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := NewMLBridge(srv.URL).Predict(context.Background(), domain.Record{})
	assert.ErrorContains(t, err, "no prediction")
}

func TestMLBridge_ConnectUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	_, err := NewMLBridge(srv.URL).Connect(context.Background())
	assert.ErrorIs(t, err, domain.ErrModelUnavailable)
}
