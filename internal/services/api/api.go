// Package api provides the HTTP API for the application
package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"incidencia/internal/platform/config"
	"incidencia/internal/platform/logger"
	"incidencia/internal/platform/metrics"
	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/net/middleware"
	"incidencia/internal/platform/store"

	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	"incidencia/internal/modkit/module"
	"incidencia/internal/modkit/swaggerkit"

	chartsmod "incidencia/internal/services/api/charts/module"
	metamod "incidencia/internal/services/api/meta/module"
	pivotmod "incidencia/internal/services/api/pivot/module"
	ingdom "incidencia/internal/services/ingest/domain"
	ingmod "incidencia/internal/services/ingest/module"
)

// Options are the API options
type Options struct {
	// Config is the root view; modules read their own prefixes from it
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	Metrics        *metrics.Metrics
	EnableSwagger  bool
	EnableProfiler bool

	// Ingest replaces the module built from CORE_INGEST_*; tests pass one
	// backed by a fixed source
	Ingest *ingmod.Module
}

// Mounted is what the caller keeps running after Mount returns
type Mounted struct {
	Ingest   ingdom.RunnerPort
	sessions *pivotmod.Module
}

// Run polls the source and expires idle pivot sessions until ctx is done
func (m *Mounted) Run(ctx context.Context) error {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		m.sessions.Run(ctx)
	}()
	err := m.Ingest.Run(ctx)
	wg.Wait()
	return err
}

// Mount mounts the API service onto the given router
func Mount(r phttp.Router, opt Options) *Mounted {
	deps := modkit.Deps{
		Cfg:     opt.Config,
		Metrics: opt.Metrics,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}
	if opt.Store != nil {
		deps.PG = opt.Store.PG
		deps.CH = opt.Store.CH
	}
	apiCfg := opt.Config.Prefix("CORE_API_")

	// ingest first: everything else reads its snapshots
	ingest := opt.Ingest
	if ingest == nil {
		ingest = ingmod.New(deps)
	}
	snaps := module.MustPortsOf[ingmod.Ports](ingest).Snapshots

	sessions := pivotmod.New(deps,
		modkit.WithPorts(snaps),
		modkit.WithSessionTTL(apiCfg.MayDuration("SESSION_TTL", modkit.DefaultSessionTTL)),
	)

	mods := []module.Module{
		metamod.New(deps, modkit.WithPorts(snaps)),
		ingest,
		sessions,
		chartsmod.New(deps, modkit.WithPorts(snaps)),
	}

	stack := httpkit.CommonStack(httpkit.StackOptions{
		CORS:    middleware.CORSOptions{AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil)},
		Timeout: apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		Slow:    apiCfg.MayDuration("SLOW_REQUEST", time.Second),
		Observe: opt.Metrics.ObserveHTTP,
	})

	doc := swaggerkit.New("Incidencia API", "0.1.0", "/api/v1")
	doc.Add(operations()...)
	doc.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	if opt.Metrics != nil {
		r.Handle("/metrics", opt.Metrics.Handler())
	}

	httpkit.MountAPIV1(r, stack, func(api httpkit.Router) {
		for _, m := range mods {
			// register ports under the module name for cross-module lookups
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)
		}
	})

	return &Mounted{Ingest: module.MustPortsOf[ingmod.Ports](ingest).Runner, sessions: sessions}
}

func operations() []swaggerkit.Operation {
	const (
		get  = http.MethodGet
		post = http.MethodPost
		put  = http.MethodPut
		del  = http.MethodDelete
	)
	return []swaggerkit.Operation{
		{Method: get, Path: "/meta/health", Tag: "Meta", Summary: "Health check"},
		{Method: get, Path: "/meta/ready", Tag: "Meta", Summary: "Readiness probe with dependency checks"},
		{Method: get, Path: "/meta/version", Tag: "Meta", Summary: "Build and version info"},
		{Method: get, Path: "/meta/service", Tag: "Meta", Summary: "Service info and uptime"},

		{Method: get, Path: "/ingest/status", Tag: "Ingest", Summary: "Ingest status"},
		{Method: post, Path: "/ingest/refresh", Tag: "Ingest", Summary: "Refresh the incident data now", Secured: true},

		{Method: post, Path: "/pivot/sessions", Tag: "Pivot", Summary: "Open a pivot session"},
		{Method: get, Path: "/pivot/sessions/{id}", Tag: "Pivot", Summary: "Render a pivot session"},
		{Method: del, Path: "/pivot/sessions/{id}", Tag: "Pivot", Summary: "Close a pivot session"},
		{Method: put, Path: "/pivot/sessions/{id}/crime-types", Tag: "Pivot", Summary: "Replace the crime type selection"},
		{Method: put, Path: "/pivot/sessions/{id}/filter", Tag: "Pivot", Summary: "Replace the dashboard filter"},
		{Method: post, Path: "/pivot/sessions/{id}/rows/toggle", Tag: "Pivot", Summary: "Expand or collapse a row"},
		{Method: post, Path: "/pivot/sessions/{id}/years/toggle", Tag: "Pivot", Summary: "Expand or collapse a year column"},

		{Method: get, Path: "/charts/options", Tag: "Charts", Summary: "Filter options"},
		{Method: post, Path: "/charts/summary", Tag: "Charts", Summary: "Records and victims"},
		{Method: post, Path: "/charts/municipalities", Tag: "Charts", Summary: "Top municipalities by victims"},
		{Method: post, Path: "/charts/annual", Tag: "Charts", Summary: "Victims per year, metro area versus interior"},
		{Method: post, Path: "/charts/crime-types", Tag: "Charts", Summary: "Victims per municipality by crime type"},
		{Method: post, Path: "/charts/crime-types/by-year", Tag: "Charts", Summary: "Records per year by crime type"},
		{Method: post, Path: "/charts/markers", Tag: "Charts", Summary: "Map markers"},
		{Method: post, Path: "/charts/heatmap", Tag: "Charts", Summary: "Heat layer"},
	}
}
