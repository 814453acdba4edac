package modkit

import (
	"net/http"
	"time"
)

// Built is the resolved option set a module reads during construction
type Built struct {
	Name       string
	Prefix     string
	Mw         []func(http.Handler) http.Handler
	Ports      any
	SwaggerOn  bool
	SessionTTL time.Duration
}

// DefaultSessionTTL applies when WithSessionTTL is absent or non-positive
const DefaultSessionTTL = 30 * time.Minute

// Build applies opts and returns a plain struct
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.sessionTTL <= 0 {
		c.sessionTTL = DefaultSessionTTL
	}
	return Built{
		Name:       c.name,
		Prefix:     c.prefix,
		Mw:         append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:      c.ports,
		SwaggerOn:  c.swaggerOn,
		SessionTTL: c.sessionTTL,
	}
}
