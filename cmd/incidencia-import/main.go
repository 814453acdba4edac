package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"incidencia/internal/adapters/ingest/sheets"
	"incidencia/internal/modkit/repokit"
	"incidencia/internal/platform/config"
	"incidencia/internal/platform/logger"
	"incidencia/internal/platform/store"

	ingdom "incidencia/internal/services/ingest/domain"
	ingrepo "incidencia/internal/services/ingest/repo"
	ingsvc "incidencia/internal/services/ingest/service"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	var (
		fFile    = flag.String("file", "", "read a local CSV export instead of downloading")
		fURL     = flag.String("url", "", "CSV export URL (default CORE_INGEST_SHEET_URL or the public sheet)")
		fDryRun  = flag.Bool("dry-run", false, "parse and report without touching the stores")
		fTimeout = flag.Duration("timeout", 2*time.Minute, "overall deadline")
	)
	flag.Parse()

	l := logger.Get()
	root := config.New()

	ctx, cancel := context.WithTimeout(context.Background(), *fTimeout)
	defer cancel()

	var src ingsvc.Source
	name := *fFile
	if *fFile != "" {
		src = sheets.FileFetcher{Path: *fFile}
	} else {
		name = *fURL
		if name == "" {
			name = root.Prefix("CORE_INGEST_").MayString("SHEET_URL", "")
		}
		if name == "" {
			l.Fatal().Msg("set -file, -url or CORE_INGEST_SHEET_URL")
		}
		src = sheets.NewFetcher(sheets.Options{URL: name, Timeout: time.Minute})
	}

	if *fDryRun {
		got, err := src.Fetch(ctx, true)
		if err != nil {
			l.Fatal().Err(err).Msg("fetch failed")
		}
		recs, st, err := sheets.Parse(bytes.NewReader(got.Body))
		if err != nil {
			l.Fatal().Err(err).Msg("parse failed")
		}
		report(map[string]any{
			"records":     len(recs),
			"rows":        st.Rows,
			"skipped":     st.Skipped,
			"located":     st.Located,
			"fingerprint": sheets.Fingerprint(recs),
		})
		return
	}

	cfg := store.FromConf(root, "incidencia", "import")
	if !cfg.PG.Enabled {
		l.Fatal().Msg("SERVICE_PGSQL_DBURL is required unless -dry-run")
	}
	st, err := store.Open(ctx, cfg, store.WithLogger(*l))
	if err != nil {
		l.Fatal().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	if err := st.PG.Tx(ctx, func(q repokit.Queryer) error { return ingrepo.EnsurePG(ctx, q) }); err != nil {
		l.Fatal().Err(err).Msg("schema failed")
	}
	var mirror ingdom.Mirror
	if st.CH != nil {
		m := ingrepo.NewCHMirror(st.CH)
		if err := m.Ensure(ctx); err != nil {
			l.Fatal().Err(err).Msg("clickhouse schema failed")
		}
		mirror = m
	}

	svc := ingsvc.New(src, st.PG, ingrepo.NewPG(), mirror, nil, ingsvc.Config{Name: name})
	// continue the version sequence of whatever is stored
	if err := svc.Warm(ctx); err != nil {
		l.Fatal().Err(err).Msg("load latest snapshot failed")
	}
	res, err := svc.Refresh(ctx, true)
	if err != nil {
		l.Fatal().Err(err).Msg("import failed")
	}
	if res.PersistErr != "" {
		l.Error().Str("persist_error", res.PersistErr).Msg("snapshot parsed but not stored")
		report(res)
		os.Exit(1)
	}
	report(res)
}

func report(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
