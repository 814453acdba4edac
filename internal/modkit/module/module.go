// Package module holds the module contract plus port lookup, kept apart from
// modkit so a module's ports package never imports the wiring layer
package module

import (
	phttp "incidencia/internal/platform/net/http"
)

// Module mirrors modkit.Module
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// HasPorts reports whether m exports a non-nil port bundle
func HasPorts(m Module) bool {
	return m != nil && m.Ports() != nil
}
