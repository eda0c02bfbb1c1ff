package memory

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/smartcity/energy/internal/domain"
)

// MemorySource implements domain.ModelSource for tests and demo mode
type MemorySource struct {
	mu        sync.RWMutex
	artifacts map[string][]byte
	fetches   atomic.Int64
}

// NewMemorySource creates an empty in-memory source
func NewMemorySource() *MemorySource {
	return &MemorySource{artifacts: make(map[string][]byte)}
}

// Put stores an artifact under ref
func (s *MemorySource) Put(ref string, payload []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.artifacts[ref] = append([]byte(nil), payload...)
}

// Name returns the source kind
func (s *MemorySource) Name() string {
	return "memory"
}

// Fetch returns a copy of the stored artifact
func (s *MemorySource) Fetch(ctx context.Context, ref string) ([]byte, error) {
	s.fetches.Add(1)

	s.mu.RLock()
	defer s.mu.RUnlock()
	payload, ok := s.artifacts[ref]
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", ref, domain.ErrArtifactNotFound)
	}
	return append([]byte(nil), payload...), nil
}

// Fetches reports how many times Fetch was called
func (s *MemorySource) Fetches() int64 {
	return s.fetches.Load()
}

// Health always returns nil in memory mode
func (s *MemorySource) Health(ctx context.Context) error {
	return nil
}
