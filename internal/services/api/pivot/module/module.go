// Package module wires pivot sessions into the API using modkit
package module

import (
	"context"
	"net/http"
	"time"

	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	modreg "incidencia/internal/modkit/module"
	str "incidencia/internal/platform/strings"
	pivotdom "incidencia/internal/services/api/pivot/domain"
	pivothttp "incidencia/internal/services/api/pivot/http"
	pivotsvc "incidencia/internal/services/api/pivot/service"
	ingdom "incidencia/internal/services/ingest/domain"
	ingmod "incidencia/internal/services/ingest/module"
)

// Ports exported by the pivot module
type Ports struct {
	Sessions pivotdom.SessionPort
}

// Module implements the pivot module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ttl    time.Duration

	svc *pivotsvc.Service
}

// New constructs the pivot module. Snapshots come from WithPorts, falling
// back to the ingest bundle in the registry.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("pivot"), modkit.WithPrefix("/pivot")}, opts...)...)

	snaps, ok := b.Ports.(ingdom.SnapshotPort)
	if !ok {
		p, found := modreg.PortsAs[ingmod.Ports]("ingest")
		if !found || p.Snapshots == nil {
			panic("pivot module requires ingest snapshots")
		}
		snaps = p.Snapshots
	}

	var obs pivotsvc.Observer
	if deps.Metrics != nil {
		obs = deps.Metrics
	}

	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		ttl:    b.SessionTTL,
		svc:    pivotsvc.New(snaps, obs, pivotsvc.Config{TTL: b.SessionTTL}),
	}
}

// MountRoutes mounts the session endpoints under the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		pivothttp.Register(rr, m.svc)
	})
}

// Run expires idle sessions until ctx is done
func (m *Module) Run(ctx context.Context) {
	every := m.ttl / 4
	if every < time.Second {
		every = time.Second
	}
	m.svc.Run(ctx, every)
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return Ports{Sessions: m.svc} }
