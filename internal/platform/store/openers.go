package store

import (
	"context"

	chx "incidencia/internal/platform/store/ch"
	"incidencia/internal/platform/store/pg"
)

// backoff is a seam for tests
var backoff = pg.DefaultBackoff

func openPG(ctx context.Context, cfg Config, s *Store) (TxRunner, error) {
	var tracer pg.QueryTracer
	if cfg.PG.LogSQL {
		tracer = pg.Tracer(s.Log)
	}
	p, err := pg.Open(ctx, pg.Config{
		URL:      cfg.PG.URL,
		MaxConns: cfg.PG.MaxConns,
		SlowMs:   cfg.PG.SlowQueryMs,
		AppName:  cfg.AppName,
	}, tracer, nil)
	if err != nil {
		return nil, err
	}
	// publish the adapter only once the pool answers
	if err := p.WaitReady(ctx, backoff); err != nil {
		p.Close()
		return nil, err
	}
	s.Log.Info().Int32("max_conns", cfg.PG.MaxConns).Msg("postgres ready")
	return newPGAdapter(p), nil
}

func openCH(ctx context.Context, cfg Config) (Clickhouse, error) {
	c, err := chx.Open(ctx, chx.Config{URL: cfg.CH.URL, ClientName: cfg.AppName, ClientTag: cfg.CH.Role})
	if err != nil {
		return nil, err
	}
	return newCHAdapter(c), nil
}
