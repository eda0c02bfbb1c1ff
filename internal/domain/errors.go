package domain

import "errors"

var (
	// ErrModelUnavailable means the model artifact could not be loaded.
	// It is fatal to the page: no submission is accepted afterwards.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrPredictionFailed means a single inference call failed.
	// The form stays usable.
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrArtifactNotFound is returned by sources when no artifact exists for a reference.
	ErrArtifactNotFound = errors.New("model artifact not found")
)
