// Package pg opens a pgxpool with optional query tracing and a boot-time
// readiness wait
package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	MaxConns int32
	SlowMs   int
	AppName  string
}

// PG is a pool plus the tracer the store adapter emits to
type PG struct {
	Pool   *pgxpool.Pool
	Tracer QueryTracer
	SlowMs int
}

var newPool = pgxpool.NewWithConfig

// Open builds the pool; it does not wait for the server (see WaitReady)
func Open(ctx context.Context, cfg Config, tracer QueryTracer, mut func(*pgxpool.Config)) (*PG, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pcfg.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pcfg.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if mut != nil {
		mut(pcfg)
	}
	pool, err := newPool(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: new pool: %w", err)
	}
	return &PG{Pool: pool, Tracer: tracer, SlowMs: cfg.SlowMs}, nil
}

// Backoff bounds WaitReady
type Backoff struct {
	Attempts    int
	PingTimeout time.Duration
	Start       time.Duration
	Ceiling     time.Duration
}

// DefaultBackoff rides out a database container still booting
var DefaultBackoff = Backoff{Attempts: 20, PingTimeout: 3 * time.Second, Start: 150 * time.Millisecond, Ceiling: 2 * time.Second}

// WaitReady pings the pool with exponential backoff until it answers
func (p *PG) WaitReady(ctx context.Context, b Backoff) error {
	var lastErr error
	wait := b.Start
	for i := 0; i < b.Attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, b.PingTimeout)
		lastErr = p.Pool.Ping(pctx)
		cancel()
		if lastErr == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		wait = min(wait*2, b.Ceiling)
	}
	return fmt.Errorf("postgres ping failed after %d attempts: %w", b.Attempts, lastErr)
}

// Close closes the pool
func (p *PG) Close() {
	if p != nil && p.Pool != nil {
		p.Pool.Close()
	}
}
