// @title         Incidencia API
// @version       0.1.0
// @description   Pivot table, chart and map data for the incident dashboard

package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"incidencia/internal/platform/config"
	"incidencia/internal/platform/logger"
	"incidencia/internal/platform/metrics"
	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/store"

	"incidencia/internal/services/api"

	"github.com/joho/godotenv"
)

func main() {
	// a missing .env is fine; real deployments set the environment
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	l := logger.Get()

	// postgres and clickhouse are optional; each is enabled by its DBURL
	st, err := store.Open(ctx, store.FromConf(root, "incidencia", "api"), store.WithLogger(*l))
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	met := metrics.New()

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(apiCfg)

	mounted := api.Mount(
		srv.Router(),
		api.Options{
			Config:         root,
			Store:          st,
			Logger:         l,
			Metrics:        met,
			EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
			EnableProfiler: apiCfg.MayBool("PROFILER", false),
		},
	)

	if err := mounted.Ingest.Warm(ctx); err != nil {
		l.Panic().Err(err).Msg("ingest warm failed")
	}
	go func() {
		if err := mounted.Run(ctx); err != nil {
			l.Error().Err(err).Msg("background loops stopped")
		}
	}()

	if err := srv.Run(ctx, apiCfg.MayDuration("SHUTDOWN_GRACE", 10*time.Second)); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
