package modkit

import (
	phttp "incidencia/internal/platform/net/http"
)

// Module is what every API module exposes to the composition root
type Module interface {
	// MountRoutes registers the module's endpoints on r
	MountRoutes(r phttp.Router)
	// Ports returns the module's port bundle for cross wiring, or nil
	Ports() any
	Name() string
}

// Builder constructs a Module from shared deps and options
type Builder func(Deps, ...Option) Module
