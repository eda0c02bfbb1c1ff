package model

import (
	"context"
	"fmt"
	"math"

	"github.com/smartcity/energy/internal/domain"
)

// Regressor is anything that turns a labeled record into a numeric prediction
type Regressor interface {
	Predict(ctx context.Context, record domain.Record) (float64, error)
}

// Metadata describes a loaded model
type Metadata struct {
	Name            string   `json:"name"`
	Version         string   `json:"version"`
	Kind            string   `json:"kind"`
	Features        []string `json:"features"`
	TargetTransform string   `json:"target_transform,omitempty"`
	Trees           int      `json:"trees,omitempty"`
}

// Describer is implemented by models that can report their metadata
type Describer interface {
	Metadata() Metadata
}

// Model is an in-process regressor decoded from an Artifact
type Model struct {
	artifact Artifact
	scorer   scorer
}

type scorer interface {
	score(x []float64) (float64, error)
}

// New validates an artifact and builds the matching regressor.
func New(a Artifact) (*Model, error) {
	if err := a.Validate(); err != nil {
		return nil, err
	}

	var s scorer
	switch a.Kind {
	case KindGradientBoosting:
		s = ensemble{base: a.BaseScore, trees: a.Trees}
	case KindLinear:
		s = linear{intercept: a.Intercept, coefficients: a.Coefficients}
	default:
		return nil, fmt.Errorf("model: unsupported kind %q", a.Kind)
	}

	return &Model{artifact: a, scorer: s}, nil
}

// Predict encodes the record in artifact feature order and scores it.
func (m *Model) Predict(_ context.Context, record domain.Record) (float64, error) {
	x, err := m.encode(record)
	if err != nil {
		return 0, err
	}

	raw, err := m.scorer.score(x)
	if err != nil {
		return 0, err
	}

	switch m.artifact.TargetTransform {
	case TransformLog1p:
		return math.Expm1(raw), nil
	default:
		return raw, nil
	}
}

// Metadata reports the artifact's descriptive fields.
func (m *Model) Metadata() Metadata {
	return Metadata{
		Name:            m.artifact.Name,
		Version:         m.artifact.Version,
		Kind:            m.artifact.Kind,
		Features:        append([]string(nil), m.artifact.Features...),
		TargetTransform: m.artifact.TargetTransform,
		Trees:           len(m.artifact.Trees),
	}
}

func (m *Model) encode(record domain.Record) ([]float64, error) {
	x := make([]float64, len(m.artifact.Features))
	for i, name := range m.artifact.Features {
		v, ok := record.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("model: missing feature %s", name)
		}

		switch val := v.(type) {
		case int:
			x[i] = float64(val)
		case float64:
			x[i] = val
		case string:
			codes, ok := m.artifact.Categories[name]
			if !ok {
				return nil, fmt.Errorf("model: feature %s is not categorical", name)
			}
			code, ok := codes[val]
			if !ok {
				return nil, fmt.Errorf("model: unknown category %q for %s", val, name)
			}
			x[i] = code
		default:
			return nil, fmt.Errorf("model: unsupported value type %T for %s", v, name)
		}
	}
	return x, nil
}
