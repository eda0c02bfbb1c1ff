package service

import (
	"github.com/smartcity/energy/internal/domain"
)

// ModelSource is re-exported from domain for convenience
type ModelSource = domain.ModelSource
