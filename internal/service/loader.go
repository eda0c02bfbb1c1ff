package service

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/smartcity/energy/internal/domain"
	"github.com/smartcity/energy/internal/metrics"
	"github.com/smartcity/energy/internal/model"
)

const loaderCacheSize = 8

// ModelLoader deserializes model artifacts at most once per reference.
// Concurrent loads of one reference share a single fetch; successful
// handles stay cached for the life of the process.
type ModelLoader struct {
	source  ModelSource
	schema  []string
	cache   *lru.Cache[string, model.Regressor]
	group   singleflight.Group
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewModelLoader creates a loader bound to one artifact source
func NewModelLoader(source ModelSource, m *metrics.Metrics, logger *zap.Logger) *ModelLoader {
	cache, err := lru.New[string, model.Regressor](loaderCacheSize)
	if err != nil {
		// only fails for non-positive sizes
		panic(err)
	}
	return &ModelLoader{
		source:  source,
		schema:  domain.FeatureSchema(),
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Load returns the regressor stored under ref, or an error wrapping
// domain.ErrModelUnavailable.
func (l *ModelLoader) Load(ctx context.Context, ref string) (model.Regressor, error) {
	if m, ok := l.cache.Get(ref); ok {
		return m, nil
	}

	v, err, _ := l.group.Do(ref, func() (interface{}, error) {
		if m, ok := l.cache.Get(ref); ok {
			return m, nil
		}
		m, err := l.load(ctx, ref)
		if err != nil {
			return nil, err
		}
		l.cache.Add(ref, m)
		return m, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(model.Regressor), nil
}

func (l *ModelLoader) load(ctx context.Context, ref string) (model.Regressor, error) {
	log := l.logger.With(zap.String("source", l.source.Name()), zap.String("ref", ref))

	payload, err := l.source.Fetch(ctx, ref)
	if err != nil {
		l.metrics.ModelLoads.WithLabelValues(l.source.Name(), metrics.OutcomeFailed).Inc()
		log.Error("Model artifact fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}

	m, err := model.Decode(payload)
	if err == nil {
		err = m.Artifact().CheckSchema(l.schema)
	}
	if err != nil {
		l.metrics.ModelLoads.WithLabelValues(l.source.Name(), metrics.OutcomeFailed).Inc()
		log.Error("Model artifact rejected", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", domain.ErrModelUnavailable, err)
	}

	meta := m.Metadata()
	l.metrics.ModelLoads.WithLabelValues(l.source.Name(), metrics.OutcomeSuccess).Inc()
	log.Info("Model loaded",
		zap.String("name", meta.Name),
		zap.String("version", meta.Version),
		zap.String("kind", meta.Kind),
		zap.Int("trees", meta.Trees),
		zap.Int("bytes", len(payload)),
	)
	return m, nil
}

// IsNotFound reports whether a load failed because the artifact does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrArtifactNotFound)
}
