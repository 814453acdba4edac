package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"incidencia/internal/adapters/ingest/sheets"
	"incidencia/internal/modkit"
	modreg "incidencia/internal/modkit/module"
	"incidencia/internal/platform/config"
	"incidencia/internal/platform/metrics"
	phttp "incidencia/internal/platform/net/http"
	"incidencia/internal/platform/testkit"
	ingmod "incidencia/internal/services/ingest/module"

	"github.com/go-chi/chi/v5"
)

const sheet = "fecha,delito,a,b,colonia,municipio,x,hora,bien,zona,y\n" +
	"15/03/2023,Feminicidio,,,Centro,Guadalajara,-103.3,,,Centro,20.6\n" +
	"02/06/2024,Violación,,,Chapalita,Zapopan,-103.4,,,Centro,20.7\n" +
	"2022,Violencia familiar,,,Lomas,Tlajomulco de Zúñiga,,,,Sur,\n"

type sheetSource string

func (s sheetSource) Fetch(context.Context, bool) (sheets.Fetched, error) {
	return sheets.Fetched{Body: []byte(s), FetchedAt: time.Now()}, nil
}

func newAPI(t *testing.T) (http.Handler, *Mounted, *metrics.Metrics) {
	t.Helper()
	t.Cleanup(modreg.Reset)

	cfg := config.New()
	met := metrics.New()
	ingest := ingmod.NewWithSource(modkit.Deps{Cfg: cfg, Metrics: met}, sheetSource(sheet), ingmod.Options{Interval: time.Hour})

	r := chi.NewRouter()
	m := Mount(phttp.AdaptChi(r), Options{
		Config:        cfg,
		Metrics:       met,
		EnableSwagger: true,
		Ingest:        ingest,
	})
	if err := m.Ingest.Warm(context.Background()); err != nil {
		t.Fatalf("warm: %v", err)
	}
	return r, m, met
}

func call(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestEndToEnd(t *testing.T) {
	h, _, _ := newAPI(t)

	rec := call(h, http.MethodGet, "/api/v1/meta/ready", "")
	if !strings.Contains(rec.Body.String(), `"name":"data","status":"ok"`) {
		t.Fatalf("ready = %s", rec.Body.String())
	}

	rec = call(h, http.MethodGet, "/api/v1/ingest/status", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"records":3`) {
		t.Fatalf("status = %d %s", rec.Code, rec.Body.String())
	}

	rec = call(h, http.MethodPost, "/api/v1/pivot/sessions", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d %s", rec.Code, rec.Body.String())
	}
	var env struct {
		Data struct {
			ID    string `json:"id"`
			Table struct {
				Rows []struct {
					Label string `json:"label"`
					Total int    `json:"total"`
				} `json:"rows"`
			} `json:"table"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if len(env.Data.Table.Rows) == 0 || env.Data.Table.Rows[0].Label != "JALISCO" || env.Data.Table.Rows[0].Total != 3 {
		t.Fatalf("grand total row = %+v", env.Data.Table.Rows)
	}

	rec = call(h, http.MethodPost, "/api/v1/charts/summary", `{"filter":{"municipality":"Zapopan"}}`)
	if !strings.Contains(rec.Body.String(), `"records":1`) {
		t.Fatalf("summary = %s", rec.Body.String())
	}

	rec = call(h, http.MethodPost, "/api/v1/ingest/refresh", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"outcome":"unchanged"`) {
		t.Fatalf("refresh = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDocsAndMetrics(t *testing.T) {
	h, _, _ := newAPI(t)

	rec := call(h, http.MethodGet, "/api/docs/doc.json", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("doc status = %d", rec.Code)
	}
	for _, p := range []string{"/pivot/sessions/{id}/rows/toggle", "/charts/heatmap", "/ingest/refresh"} {
		testkit.MustContain(t, rec.Body.String(), p)
	}

	call(h, http.MethodGet, "/api/v1/meta/health", "")
	rec = call(h, http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d", rec.Code)
	}
	testkit.MustContain(t, rec.Body.String(), "incidencia_ingest_records 3")
	testkit.MustContain(t, rec.Body.String(), `incidencia_http_requests_total{`)
}

func TestRunStopsOnCancel(t *testing.T) {
	_, m, _ := newAPI(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run = %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not stop")
	}
}
