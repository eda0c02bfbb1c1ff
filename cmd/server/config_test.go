package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "MODEL_SOURCE", "MODEL_PATH", "COST_PER_KWH", "DATABASE_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := loadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, SourceFile, cfg.ModelSource)
	assert.Equal(t, "models/best_model.json", cfg.ModelRef())
	assert.Equal(t, "0.12", cfg.CostPerKWh.String())
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{"rate not a number", map[string]string{"COST_PER_KWH": "cheap"}, "invalid COST_PER_KWH"},
		{"rate negative", map[string]string{"COST_PER_KWH": "-0.1"}, "must be positive"},
		{"unknown source", map[string]string{"MODEL_SOURCE": "s3"}, "unknown MODEL_SOURCE"},
		{"postgres without url", map[string]string{"MODEL_SOURCE": "postgres", "DATABASE_URL": ""}, "DATABASE_URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := loadConfig()
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestConfig_ModelRef(t *testing.T) {
	cfg := &Config{ModelSource: SourcePostgres, ModelName: "household-energy", ModelPath: "x", MLServiceURL: "http://ml"}
	assert.Equal(t, "household-energy", cfg.ModelRef())

	cfg.ModelSource = SourceRemote
	assert.Equal(t, "http://ml", cfg.ModelRef())
}
