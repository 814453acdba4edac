// Package module wires the ingest service as a modkit.Module
package module

import (
	"context"
	"net/http"

	"incidencia/internal/adapters/ingest/sheets"
	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	modreg "incidencia/internal/modkit/module"
	"incidencia/internal/modkit/repokit"
	"incidencia/internal/platform/logger"
	"incidencia/internal/platform/net/middleware"
	str "incidencia/internal/platform/strings"

	ingdom "incidencia/internal/services/ingest/domain"
	ingesthttp "incidencia/internal/services/ingest/http"
	ingrepo "incidencia/internal/services/ingest/repo"
	ingsvc "incidencia/internal/services/ingest/service"
)

// Ports exported by the ingest module
type Ports struct {
	Snapshots ingdom.SnapshotPort
	Refresher ingdom.RefresherPort
	Runner    ingdom.RunnerPort
}

// Module implements modkit.Module for ingest
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	auth   middleware.Authenticator

	svc   *ingsvc.Service
	ports Ports
}

// New builds the module with the source named by CORE_INGEST_*
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	var src ingsvc.Source
	if o.File != "" {
		src = sheets.FileFetcher{Path: o.File}
	} else {
		src = sheets.NewFetcher(sheets.Options{
			URL:        o.SheetURL,
			Timeout:    o.HTTPTimeout,
			MaxRetries: o.MaxRetries,
		})
	}
	return NewWithSource(deps, src, o, opts...)
}

// NewWithSource builds the module around an explicit source
func NewWithSource(deps modkit.Deps, src ingsvc.Source, o Options, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{modkit.WithName("ingest"), modkit.WithPrefix("/ingest")}, opts...)...)

	var (
		db     repokit.TxRunner
		binder repokit.Binder[ingdom.StorageRepo]
		mirror *ingrepo.CHMirror
	)
	if deps.HasPG() {
		db, binder = deps.PG, ingrepo.NewPG()
	}
	if deps.HasCH() {
		mirror = ingrepo.NewCHMirror(deps.CH)
	}

	var obs ingsvc.Observer
	if deps.Metrics != nil {
		obs = deps.Metrics
	}
	label := o.SheetURL
	if o.File != "" {
		label = o.File
	}
	var dm ingdom.Mirror
	if mirror != nil {
		dm = mirror
	}
	svc := ingsvc.New(src, db, binder, dm, obs, ingsvc.Config{Interval: o.Interval, Name: label})

	m := &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		auth:   middleware.StaticToken(o.Token),
		svc:    svc,
	}
	m.ports = Ports{
		Snapshots: svc,
		Refresher: svc,
		Runner:    runner{svc: svc, pg: db, mirror: mirror},
	}
	return m
}

// runner prepares schemas, loads the persisted snapshot and pulls the
// source once before the ticker starts
type runner struct {
	svc    *ingsvc.Service
	pg     repokit.TxRunner
	mirror *ingrepo.CHMirror
}

func (r runner) Warm(ctx context.Context) error {
	if r.pg != nil {
		if err := r.pg.Tx(ctx, func(q repokit.Queryer) error { return ingrepo.EnsurePG(ctx, q) }); err != nil {
			return err
		}
	}
	if r.mirror != nil {
		if err := r.mirror.Ensure(ctx); err != nil {
			return err
		}
	}
	if err := r.svc.Warm(ctx); err != nil {
		return err
	}
	// serve data before the first tick; a source outage here is not fatal
	if _, err := r.svc.Refresh(ctx, false); err != nil {
		logger.C(ctx).Warn().Err(err).Msg("ingest: initial refresh failed")
	}
	return nil
}

func (r runner) Run(ctx context.Context) error { return r.svc.Run(ctx) }

// MountRoutes mounts /ingest/status and the protected /ingest/refresh
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		ingesthttp.Register(rr, m.svc, m.auth)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Register lets others resolve our ports through the registry
func Register(deps modkit.Deps) *Module {
	m := New(deps)
	modreg.Register(m.Name(), m.Ports())
	return m
}
