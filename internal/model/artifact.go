package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
)

// Supported artifact kinds
const (
	KindGradientBoosting = "gradient_boosting"
	KindLinear           = "linear"
)

// TransformLog1p marks models trained on log1p(target)
const TransformLog1p = "log1p"

// Artifact is the serialized form of a trained regressor
type Artifact struct {
	Name            string                        `json:"name"`
	Version         string                        `json:"version"`
	Kind            string                        `json:"kind"`
	Features        []string                      `json:"features"`
	Categories      map[string]map[string]float64 `json:"categories,omitempty"`
	TargetTransform string                        `json:"target_transform,omitempty"`

	// gradient boosting
	BaseScore float64 `json:"base_score,omitempty"`
	Trees     []Tree  `json:"trees,omitempty"`

	// linear
	Intercept    float64   `json:"intercept,omitempty"`
	Coefficients []float64 `json:"coefficients,omitempty"`
}

// Decode parses a JSON artifact and builds the model.
func Decode(payload []byte) (*Model, error) {
	var a Artifact
	if err := json.Unmarshal(payload, &a); err != nil {
		return nil, fmt.Errorf("model: failed to decode artifact: %w", err)
	}
	return New(a)
}

// Validate checks the artifact is internally consistent.
func (a Artifact) Validate() error {
	if len(a.Features) == 0 {
		return errors.New("model: artifact declares no features")
	}

	switch a.TargetTransform {
	case "", TransformLog1p:
	default:
		return fmt.Errorf("model: unsupported target transform %q", a.TargetTransform)
	}

	for name := range a.Categories {
		if !slices.Contains(a.Features, name) {
			return fmt.Errorf("model: categories declared for unknown feature %s", name)
		}
	}

	switch a.Kind {
	case KindGradientBoosting:
		if len(a.Trees) == 0 {
			return errors.New("model: gradient boosting artifact has no trees")
		}
		for i, t := range a.Trees {
			if err := t.validate(len(a.Features)); err != nil {
				return fmt.Errorf("model: tree %d: %w", i, err)
			}
		}
	case KindLinear:
		if len(a.Coefficients) != len(a.Features) {
			return fmt.Errorf("model: %d coefficients for %d features", len(a.Coefficients), len(a.Features))
		}
	default:
		return fmt.Errorf("model: unsupported kind %q", a.Kind)
	}

	return nil
}

// CheckSchema reports whether the artifact was trained on exactly the given features.
func (a Artifact) CheckSchema(schema []string) error {
	if !slices.Equal(a.Features, schema) {
		return fmt.Errorf("model: feature schema %v does not match expected %v", a.Features, schema)
	}
	return nil
}

// Artifact returns a copy of the underlying artifact definition.
func (m *Model) Artifact() Artifact {
	return m.artifact
}
