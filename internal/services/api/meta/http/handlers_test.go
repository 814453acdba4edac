package http

import (
	stdctx "context"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"incidencia/internal/core/incident"
	"incidencia/internal/modkit/httpkit"
	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/testkit"
	ingdom "incidencia/internal/services/ingest/domain"

	"github.com/go-chi/chi/v5"
)

type pinger struct{ err error }

func (p pinger) Ping(stdctx.Context) error { return p.err }

type snaps struct{ s ingdom.Snapshot }

func (f snaps) Current() ingdom.Snapshot { return f.s }

func get(d Deps, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	httpkit.MountUnder(phttp.AdaptChi(r), "/meta", nil, func(rr httpkit.Router) { Register(rr, d) })
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(stdhttp.MethodGet, path, nil))
	return rec
}

func TestReady(t *testing.T) {
	loaded := snaps{ingdom.Snapshot{Version: 2, Records: []incident.Record{{}}}}
	cases := []struct {
		name string
		deps Deps
		want string
	}{
		{"nothing wired", Deps{}, `"status":"ok"`},
		{"all good", Deps{PG: pinger{}, CH: pinger{}, Snapshots: loaded}, `"status":"ok"`},
		{"no data yet", Deps{PG: pinger{}, Snapshots: snaps{}}, `"status":"degraded"`},
		{"pg down", Deps{PG: pinger{err: errors.New("connection refused")}, Snapshots: loaded}, `"status":"fail"`},
		{"not a pinger", Deps{CH: struct{}{}}, `"status":"degraded"`},
	}
	for _, c := range cases {
		rec := get(c.deps, "/meta/ready")
		if rec.Code != stdhttp.StatusOK {
			t.Fatalf("%s: status = %d", c.name, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), c.want) {
			t.Fatalf("%s: body %s missing %s", c.name, rec.Body.String(), c.want)
		}
	}

	rec := get(Deps{PG: pinger{err: errors.New("connection refused")}}, "/meta/ready")
	testkit.MustContain(t, rec.Body.String(), "connection refused")
}

func TestHealthVersionService(t *testing.T) {
	d := Deps{
		ServiceName: "incidencia-api",
		StartedAt:   time.Now().Add(-time.Minute),
		Snapshots:   snaps{ingdom.Snapshot{Version: 5}},
	}
	cases := []struct {
		path string
		want string
	}{
		{"/meta/health", `"ok":true`},
		{"/meta/version", `"service":"incidencia-api"`},
		{"/meta/service", `"snapshot_version":5`},
	}
	for _, c := range cases {
		rec := get(d, c.path)
		if rec.Code != stdhttp.StatusOK || !strings.Contains(rec.Body.String(), c.want) {
			t.Fatalf("%s: %d %s", c.path, rec.Code, rec.Body.String())
		}
	}
}
