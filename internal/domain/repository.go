package domain

import (
	"context"
	"time"
)

// ArtifactInfo describes where a model artifact came from
type ArtifactInfo struct {
	Reference string    `json:"reference"`
	Source    string    `json:"source"`
	Size      int       `json:"size"`
	FetchedAt time.Time `json:"fetched_at"`
}

// ModelSource defines the interface for fetching serialized model artifacts.
// The domain owns the port; repositories provide file, database and in-memory adapters.
type ModelSource interface {
	// Name identifies the source kind ("file", "postgres", "memory")
	Name() string

	// Fetch returns the raw artifact stored under ref.
	// Missing artifacts are reported as ErrArtifactNotFound.
	Fetch(ctx context.Context, ref string) ([]byte, error)

	// Health checks source connectivity
	Health(ctx context.Context) error
}
