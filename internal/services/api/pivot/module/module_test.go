package module

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"incidencia/internal/modkit"
	"incidencia/internal/modkit/httpkit"
	modreg "incidencia/internal/modkit/module"
	"incidencia/internal/platform/metrics"
	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/testkit"
	"incidencia/internal/services/api/pivot/domain"
	ingdom "incidencia/internal/services/ingest/domain"
	ingmod "incidencia/internal/services/ingest/module"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

type snaps struct{}

func (snaps) Current() ingdom.Snapshot { return ingdom.Snapshot{Version: 1} }

func TestNewWithPorts(t *testing.T) {
	met := metrics.New()
	m := New(modkit.Deps{Metrics: met}, modkit.WithPorts[ingdom.SnapshotPort](snaps{}))
	if m.Name() != "pivot" || m.Prefix() != "/pivot" {
		t.Fatalf("name=%s prefix=%s", m.Name(), m.Prefix())
	}

	p, ok := m.Ports().(Ports)
	if !ok || p.Sessions == nil {
		t.Fatalf("ports = %#v", m.Ports())
	}
	if _, err := p.Sessions.Create(context.Background(), domain.CreateInput{}); err != nil {
		t.Fatal(err)
	}
	if got := testutil.ToFloat64(met.PivotSessions); got != 1 {
		t.Fatalf("sessions gauge = %v", got)
	}

	r := chi.NewRouter()
	httpkit.MountAPIV1(phttp.AdaptChi(r), nil, m.MountRoutes)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/pivot/sessions", nil))
	if rec.Code != http.StatusCreated {
		t.Fatalf("mounted create status = %d", rec.Code)
	}
}

func TestNewFromRegistry(t *testing.T) {
	modreg.Reset()
	defer modreg.Reset()

	modreg.Register("ingest", ingmod.Ports{Snapshots: snaps{}})
	m := New(modkit.Deps{}, modkit.WithSessionTTL(2*time.Second))
	if m.ttl != 2*time.Second {
		t.Fatalf("ttl = %v", m.ttl)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()
	cancel()
	<-done
}

func TestNewWithoutSnapshotsPanics(t *testing.T) {
	modreg.Reset()
	testkit.MustPanic(t, func() { New(modkit.Deps{}) })
}
