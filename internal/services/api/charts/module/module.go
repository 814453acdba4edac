// Package module wires charts into the API using modkit
package module

import (
	"net/http"

	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	modreg "incidencia/internal/modkit/module"
	str "incidencia/internal/platform/strings"
	chartshttp "incidencia/internal/services/api/charts/http"
	chartssvc "incidencia/internal/services/api/charts/service"
	ingdom "incidencia/internal/services/ingest/domain"
	ingmod "incidencia/internal/services/ingest/module"
)

// Module implements the charts module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	svc *chartssvc.Service
}

// New constructs the charts module; snapshots come from WithPorts or the
// registered ingest bundle
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("charts"), modkit.WithPrefix("/charts")}, opts...)...)

	snaps, ok := b.Ports.(ingdom.SnapshotPort)
	if !ok {
		p, found := modreg.PortsAs[ingmod.Ports]("ingest")
		if !found || p.Snapshots == nil {
			panic("charts module requires ingest snapshots")
		}
		snaps = p.Snapshots
	}
	return &Module{name: b.Name, prefix: b.Prefix, mws: b.Mw, svc: chartssvc.New(snaps)}
}

// MountRoutes mounts the chart endpoints under the prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		chartshttp.Register(rr, m.svc)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns nil; nothing consumes charts
func (m *Module) Ports() any { return nil }
