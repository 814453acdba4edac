// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	modreg "incidencia/internal/modkit/module"
	str "incidencia/internal/platform/strings"
	metahttp "incidencia/internal/services/api/meta/http"
	ingdom "incidencia/internal/services/ingest/domain"
	ingmod "incidencia/internal/services/ingest/module"
)

// ServiceName is reported by health and version
const ServiceName = "incidencia-api"

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	deps metahttp.Deps
}

// New constructs a meta module. Snapshots are optional: WithPorts, then the
// ingest registry entry.
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	snaps, _ := b.Ports.(ingdom.SnapshotPort)
	if snaps == nil {
		if p, ok := modreg.PortsAs[ingmod.Ports]("ingest"); ok {
			snaps = p.Snapshots
		}
	}

	md := metahttp.Deps{ServiceName: ServiceName, StartedAt: time.Now(), Snapshots: snaps}
	if deps.HasPG() {
		md.PG = deps.PG
	}
	if deps.HasCH() {
		md.CH = deps.CH
	}
	return &Module{name: b.Name, prefix: b.Prefix, mws: b.Mw, deps: md}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		metahttp.Register(rr, m.deps)
	})
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix implements the modkit.Module interface
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
